// Package dashboard assembles role-specific views from the fetched,
// scored, grouped, and fused facts. Each section degrades independently; a
// failed fetch or generator outage narrows the view instead of erroring it.
package dashboard

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/revops-cli/internal/config"
	"github.com/sells-group/revops-cli/internal/fetch"
	"github.com/sells-group/revops-cli/internal/forecast"
	"github.com/sells-group/revops-cli/internal/fusion"
	"github.com/sells-group/revops-cli/internal/grouper"
	"github.com/sells-group/revops-cli/internal/model"
	"github.com/sells-group/revops-cli/internal/priority"
	"github.com/sells-group/revops-cli/internal/quota"
	"github.com/sells-group/revops-cli/internal/risk"
	"github.com/sells-group/revops-cli/pkg/recommend"
)

// Role selects which sections a view carries and how much detail each gets.
type Role string

const (
	RoleAE     Role = "ae"
	RoleAM     Role = "am"
	RoleCSM    Role = "csm"
	RoleLeader Role = "leader"
	RoleExec   Role = "exec"
)

// ParseRole validates a role flag value.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAE, RoleAM, RoleCSM, RoleLeader, RoleExec:
		return Role(s), true
	default:
		return "", false
	}
}

// WinLoss summarizes closed outcomes inside the period.
type WinLoss struct {
	WonCount   int     `json:"won_count"`
	WonAmount  float64 `json:"won_amount"`
	LostCount  int     `json:"lost_count"`
	LostAmount float64 `json:"lost_amount"`
	// WinRate is won / (won + lost) by count, 0 when nothing closed.
	WinRate float64 `json:"win_rate"`
}

// View is the assembled dashboard for one role, user, and period.
type View struct {
	Role   Role         `json:"role"`
	UserID string       `json:"user_id"`
	Period model.Period `json:"period"`

	Forecast model.ForecastSummary `json:"forecast"`
	WinLoss  WinLoss               `json:"win_loss"`

	Pipeline []model.ScoredDeal `json:"pipeline,omitempty"`
	AtRisk   []model.ScoredDeal `json:"at_risk,omitempty"`

	Accounts     []model.ScoredAccount `json:"accounts,omitempty"`
	Groups       []model.Group         `json:"groups,omitempty"`
	ColdAccounts []model.Account       `json:"cold_accounts,omitempty"`

	Signals []fusion.Result `json:"signals,omitempty"`

	Recommendation string `json:"recommendation,omitempty"`
}

// Engine wires the fetch, scoring, fusion, forecast, and recommendation
// stages together.
type Engine struct {
	cfg         *config.Config
	fetcher     *fetch.Fetcher
	quotas      *quota.Resolver
	risks       *risk.Scorer
	fuser       *fusion.Fuser
	aggregator  *forecast.Aggregator
	recommender recommend.Generator
	calls       fusion.CallIntelligenceSource
	now         func() time.Time
}

// NewEngine builds an Engine. quotaSrc and calls may be nil; the quota
// resolver then serves manual amounts only and fusion skips call signals.
// The recommender is wrapped with the rule-based fallback here so callers
// always get guidance text.
func NewEngine(
	cfg *config.Config,
	fetcher *fetch.Fetcher,
	quotaSrc quota.Source,
	gen recommend.Generator,
	calls fusion.CallIntelligenceSource,
) *Engine {
	return &Engine{
		cfg:         cfg,
		fetcher:     fetcher,
		quotas:      quota.NewResolver(quotaSrc),
		risks:       risk.NewScorer(cfg.Scoring),
		fuser:       fusion.NewFuser(cfg.Scoring),
		aggregator:  forecast.NewAggregator(cfg.Forecast),
		recommender: recommend.WithFallback(gen),
		calls:       calls,
		now:         time.Now,
	}
}

// WithClock replaces the engine's clock.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Build assembles the view for one role, user, and period.
func (e *Engine) Build(ctx context.Context, role Role, userID string, p model.Period) (*View, error) {
	coldCutoff := e.now().AddDate(0, 0, -e.cfg.Scoring.ColdAccountDays)
	bundle, err := e.fetcher.All(ctx, p, coldCutoff)
	if err != nil {
		return nil, err
	}

	scoredAccounts := priority.ScoreAccounts(bundle.Accounts)
	sort.SliceStable(scoredAccounts, func(i, j int) bool {
		return scoredAccounts[i].Score > scoredAccounts[j].Score
	})
	groups := grouper.GroupAccounts(scoredAccounts)
	scoredDeals := e.risks.ScoreDeals(bundle.Pipeline)
	atRisk := risk.AtRisk(scoredDeals)

	closedWon := sumAmounts(bundle.Wins)
	quotas := e.quotas.Resolve(ctx, e.cfg.Quota, []string{userID}, p)
	summary := e.aggregator.Aggregate(bundle.Pipeline, closedWon, quotas.Total, p)

	view := &View{
		Role:     role,
		UserID:   userID,
		Period:   p,
		Forecast: summary,
		WinLoss:  winLoss(bundle.Wins, bundle.Losses),
		Signals:  e.fuser.Fuse(e.signalInputs(ctx, atRisk, scoredAccounts)),
	}
	e.fillSections(view, role, scoredDeals, atRisk, scoredAccounts, groups, bundle.ColdAccounts)

	// Recommendations read the full scored data, not the role-shaped view,
	// so leadership roles still hear about specific deals and accounts.
	view.Recommendation = e.recommendation(ctx, role, view.Forecast, p, atRisk, scoredAccounts, bundle.ColdAccounts)
	return view, nil
}

// fillSections applies the role's shape: sellers get deal detail, account
// and success roles get the account book, leadership gets rollups.
func (e *Engine) fillSections(
	view *View,
	role Role,
	deals, atRisk []model.ScoredDeal,
	accounts []model.ScoredAccount,
	groups []model.Group,
	cold []model.Account,
) {
	switch role {
	case RoleAE:
		view.Pipeline = deals
		view.AtRisk = atRisk
		view.Accounts = topAccounts(accounts, 10)
	case RoleAM, RoleCSM:
		view.AtRisk = atRisk
		view.Accounts = accounts
		view.Groups = groups
		view.ColdAccounts = cold
	case RoleLeader:
		view.Pipeline = deals
		view.AtRisk = atRisk
		view.Groups = groups
		view.ColdAccounts = cold
	case RoleExec:
		// Rollups only; per-deal lists stay out of the executive view.
		view.Groups = groups
	}
}

// signalInputs builds one fusion input per at-risk deal, combining the risk
// reasons with any call-intelligence signals, plus one per account that
// carries an opportunity or staleness signal.
func (e *Engine) signalInputs(
	ctx context.Context,
	atRisk []model.ScoredDeal,
	accounts []model.ScoredAccount,
) []fusion.Input {
	var inputs []fusion.Input

	for _, d := range atRisk {
		sources := [][]fusion.SourceSignal{qualificationSource(d)}
		if calls := fusion.CallSignals(ctx, e.calls, d.ID); len(calls) > 0 {
			sources = append(sources, calls)
		}
		inputs = append(inputs, fusion.Input{
			SubjectID:   d.ID,
			SubjectName: d.Name,
			Sources:     sources,
		})
	}

	for _, a := range accounts {
		if signals := accountSignals(a, e.cfg.Scoring.ColdAccountDays); len(signals) > 0 {
			inputs = append(inputs, fusion.Input{
				SubjectID:   a.ID,
				SubjectName: a.Name,
				Sources:     [][]fusion.SourceSignal{signals},
			})
		}
	}
	return inputs
}

// qualificationSource re-expresses a deal's risk reasons in the fusion
// vocabulary. Severity maps onto the provider confidence it implies.
func qualificationSource(d model.ScoredDeal) []fusion.SourceSignal {
	out := make([]fusion.SourceSignal, 0, len(d.RiskReasons))
	for _, r := range d.RiskReasons {
		conf := model.ConfidenceMedium
		if r.Severity == model.SeverityCritical || r.Severity == model.SeverityHigh {
			conf = model.ConfidenceHigh
		}
		out = append(out, fusion.SourceSignal{Signal: r, Confidence: conf})
	}
	return out
}

// accountSignals derives intent and staleness signals from an account's
// enrichment fields.
func accountSignals(a model.ScoredAccount, coldDays int) []fusion.SourceSignal {
	var out []fusion.SourceSignal

	if a.IntentScore != nil && *a.IntentScore >= 80 {
		category := model.CategoryNewBusiness
		label := "High purchase intent"
		if a.GrowthPct != nil && *a.GrowthPct > 0 {
			category = model.CategoryExpansion
			label = "Expansion intent on a growing account"
		}
		out = append(out, fusion.SourceSignal{
			Signal: model.Signal{
				Category: category,
				Label:    label,
				Evidence: "intent score at or above 80",
				Severity: model.SeverityHigh,
				Source:   model.SourceIntent,
			},
			Confidence: model.ConfidenceHigh,
		})
	}

	if coldDays > 0 && a.DaysSinceActivity > coldDays {
		out = append(out, fusion.SourceSignal{
			Signal: model.Signal{
				Category: model.CategoryStalling,
				Label:    "Account gone quiet",
				Evidence: "no logged activity inside the staleness window",
				Severity: model.SeverityMedium,
				Source:   model.SourceStaleness,
			},
			Confidence: model.ConfidenceMedium,
		})
	}
	return out
}

func (e *Engine) recommendation(
	ctx context.Context,
	role Role,
	summary model.ForecastSummary,
	p model.Period,
	atRisk []model.ScoredDeal,
	accounts []model.ScoredAccount,
	cold []model.Account,
) string {
	text, err := e.recommender.Generate(ctx, recommend.Input{
		Role:            string(role),
		PeriodLabel:     p.Label,
		QuotaTarget:     summary.QuotaTarget,
		QuotaAttainment: summary.QuotaAttainment,
		Commit:          summary.Commit,
		BestCase:        summary.BestCase,
		AtRiskDeals:     atRisk,
		HotAccounts:     hotOnly(accounts),
		ColdAccounts:    cold,
	})
	if err != nil {
		// The fallback wrapper never errors; belt and braces for custom
		// generators injected without it.
		zap.L().Warn("recommendation unavailable", zap.Error(err))
		return ""
	}
	return text
}

func winLoss(wins, losses []model.Deal) WinLoss {
	wl := WinLoss{
		WonCount:   len(wins),
		WonAmount:  sumAmounts(wins),
		LostCount:  len(losses),
		LostAmount: sumAmounts(losses),
	}
	if total := wl.WonCount + wl.LostCount; total > 0 {
		wl.WinRate = float64(wl.WonCount) / float64(total) * 100
	}
	return wl
}

func sumAmounts(deals []model.Deal) float64 {
	var total float64
	for _, d := range deals {
		total += d.Amount
	}
	return total
}

func topAccounts(accounts []model.ScoredAccount, n int) []model.ScoredAccount {
	if len(accounts) <= n {
		return accounts
	}
	return accounts[:n]
}

func hotOnly(accounts []model.ScoredAccount) []model.ScoredAccount {
	var hot []model.ScoredAccount
	for _, a := range accounts {
		if a.Tier == model.TierHot {
			hot = append(hot, a)
		}
	}
	return hot
}
