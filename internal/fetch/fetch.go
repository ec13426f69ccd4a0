package fetch

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/revops-cli/internal/model"
	"github.com/sells-group/revops-cli/internal/resilience"
	"github.com/sells-group/revops-cli/pkg/salesforce"
)

const sfDateLayout = "2006-01-02"

// Fetcher runs fetch plans against a Salesforce client and maps the raw
// records into model types. Transient API failures are retried before a
// section degrades.
type Fetcher struct {
	client salesforce.Client
	retry  resilience.RetryConfig
	now    func() time.Time
}

// NewFetcher creates a Fetcher with the default retry policy.
func NewFetcher(client salesforce.Client) *Fetcher {
	return &Fetcher{
		client: client,
		retry:  resilience.DefaultRetryConfig(),
		now:    time.Now,
	}
}

// WithClock replaces the fetcher's clock. Staleness fields like
// DaysSinceActivity are computed against it.
func (f *Fetcher) WithClock(now func() time.Time) *Fetcher {
	f.now = now
	return f
}

// WithRetry replaces the retry policy.
func (f *Fetcher) WithRetry(cfg resilience.RetryConfig) *Fetcher {
	f.retry = cfg
	return f
}

// run executes a plan: the enriched query first, then the basic fallback
// when the org's schema rejects an enriched field. Any other error is
// returned to the caller.
func (f *Fetcher) run(ctx context.Context, plan Plan, out any) (model.Capability, error) {
	err := f.query(ctx, plan.Name, plan.Enriched.Build(), out)
	if err == nil {
		return model.CapabilityEnriched, nil
	}
	if !salesforce.IsUnknownField(err) {
		return "", err
	}

	zap.L().Warn("enriched fetch hit unknown field, retrying with basic fields",
		zap.String("plan", plan.Name),
		zap.Error(err))
	if err := f.query(ctx, plan.Name, plan.Basic.Build(), out); err != nil {
		return "", err
	}
	return model.CapabilityBasic, nil
}

// query issues one SOQL query, retrying transient failures. Schema drift is
// never retried; the caller handles it with the reduced field set instead.
func (f *Fetcher) query(ctx context.Context, name, soql string, out any) error {
	cfg := f.retry
	cfg.ShouldRetry = func(err error) bool {
		return !salesforce.IsUnknownField(err) && resilience.IsTransient(err)
	}
	cfg.OnRetry = resilience.RetryLogger("salesforce", name)
	return resilience.Do(ctx, cfg, func(ctx context.Context) error {
		return f.client.Query(ctx, soql, out)
	})
}

// Deals runs an Opportunity plan and maps the records.
func (f *Fetcher) Deals(ctx context.Context, plan Plan) ([]model.Deal, error) {
	var recs []salesforce.Opportunity
	capability, err := f.run(ctx, plan, &recs)
	if err != nil {
		return nil, err
	}
	deals := make([]model.Deal, 0, len(recs))
	for _, r := range recs {
		deals = append(deals, toDeal(r, capability, f.now()))
	}
	return deals, nil
}

// Accounts runs an Account plan and maps the records.
func (f *Fetcher) Accounts(ctx context.Context, plan Plan) ([]model.Account, error) {
	var recs []salesforce.Account
	capability, err := f.run(ctx, plan, &recs)
	if err != nil {
		return nil, err
	}
	accounts := make([]model.Account, 0, len(recs))
	for _, r := range recs {
		accounts = append(accounts, toAccount(r, capability, f.now()))
	}
	return accounts, nil
}

// Bundle holds the record sets a dashboard view draws from. Sections that
// failed to fetch are empty, never missing.
type Bundle struct {
	Pipeline     []model.Deal
	Wins         []model.Deal
	Losses       []model.Deal
	Accounts     []model.Account
	ColdAccounts []model.Account
}

// All fetches every dashboard section for the period concurrently. Each
// section degrades to empty on failure so one bad fetch never empties its
// siblings; only context cancellation stops the group.
func (f *Fetcher) All(ctx context.Context, p model.Period, coldCutoff time.Time) (*Bundle, error) {
	bundle := &Bundle{}
	g, ctx := errgroup.WithContext(ctx)

	dealSection := func(name string, plan Plan, dst *[]model.Deal) func() error {
		return func() error {
			deals, err := f.Deals(ctx, plan)
			if err != nil {
				zap.L().Warn("section fetch failed, continuing with empty records",
					zap.String("section", name),
					zap.Error(err))
				return ctx.Err()
			}
			*dst = deals
			return nil
		}
	}
	accountSection := func(name string, plan Plan, dst *[]model.Account) func() error {
		return func() error {
			accounts, err := f.Accounts(ctx, plan)
			if err != nil {
				zap.L().Warn("section fetch failed, continuing with empty records",
					zap.String("section", name),
					zap.Error(err))
				return ctx.Err()
			}
			*dst = accounts
			return nil
		}
	}

	g.Go(dealSection("pipeline", PipelinePlan(p), &bundle.Pipeline))
	g.Go(dealSection("wins", WinsPlan(p), &bundle.Wins))
	g.Go(dealSection("losses", LossesPlan(p), &bundle.Losses))
	g.Go(accountSection("accounts", AccountsPlan(), &bundle.Accounts))
	g.Go(accountSection("cold-accounts", ColdAccountsPlan(coldCutoff), &bundle.ColdAccounts))

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bundle, nil
}

func toAccount(r salesforce.Account, capability model.Capability, now time.Time) model.Account {
	a := model.Account{
		ID:            r.ID,
		Name:          r.Name,
		Industry:      r.Industry,
		Website:       r.Website,
		EmployeeCount: r.NumberOfEmployees,
		AnnualRevenue: r.AnnualRevenue,
		Capability:    capability,
	}
	if t, err := time.Parse(sfDateLayout, r.LastActivityDate); err == nil {
		a.DaysSinceActivity = int(now.Sub(t).Hours() / 24)
	}
	if capability == model.CapabilityEnriched {
		a.IntentScore = r.IntentScore
		a.ProfileFit = r.ProfileFit
		a.GrowthPct = r.GrowthPct
		a.HasFundingSignal = r.FundingSignal != ""
		a.TierOverride = parseTier(r.TierOverride)
	}
	return a
}

func toDeal(r salesforce.Opportunity, capability model.Capability, now time.Time) model.Deal {
	d := model.Deal{
		ID:               r.ID,
		Name:             r.Name,
		AccountID:        r.AccountID,
		Amount:           r.Amount,
		Stage:            r.StageName,
		Probability:      r.Probability,
		ForecastCategory: r.ForecastCategoryName,
		Type:             r.Type,
		NextStep:         r.NextStep,
		Description:      r.Description,
		Capability:       capability,
	}
	if r.Account != nil {
		d.AccountName = r.Account.Name
	}
	if t, err := time.Parse(sfDateLayout, r.CloseDate); err == nil {
		d.CloseDate = t
	}
	if t, err := time.Parse(sfDateLayout, r.LastStageChangeDate); err == nil {
		d.DaysInStage = int(now.Sub(t).Hours() / 24)
	}
	if capability == model.CapabilityEnriched {
		d.Qualification = model.Qualification{
			EconomicBuyer:    r.EconomicBuyer,
			Champion:         r.Champion,
			DecisionCriteria: r.DecisionCriteria,
			CompetitionNotes: r.CompetitionNotes,
			PainArticulation: r.PainArticulation,
		}
	}
	return d
}

func parseTier(s string) model.Tier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hot":
		return model.TierHot
	case "warm":
		return model.TierWarm
	case "cool":
		return model.TierCool
	case "cold":
		return model.TierCold
	default:
		return ""
	}
}
