// Package risk computes 0-100 deal qualification scores and categorized
// risk reasons, from explicit MEDDPICC fields when the org carries them or
// from field-presence heuristics when it does not.
package risk

import (
	"fmt"
	"strings"

	"github.com/sells-group/revops-cli/internal/config"
	"github.com/sells-group/revops-cli/internal/model"
)

// minFieldLength is the cutoff under which an explicit qualification field
// counts as missing: a two-word placeholder is not a champion.
const minFieldLength = 10

// lowProbabilityCutoff triggers the heuristic exec-sponsor check outside
// early stages.
const lowProbabilityCutoff = 30

// earlyStages are exempt from the low-probability heuristic.
var earlyStages = map[string]bool{
	"Prospecting":   true,
	"Qualification": true,
}

// competitionKeywords mark strong competition language in competition notes.
var competitionKeywords = []string{
	"incumbent", "competitor", "competing", "bake-off", "rfp",
	"evaluating alternatives", "losing to", "price war",
}

// Scorer evaluates deals against the configured stalling thresholds.
type Scorer struct {
	stallingDays         int
	stallingCriticalDays int
}

// NewScorer creates a Scorer from the scoring configuration.
func NewScorer(cfg config.ScoringConfig) *Scorer {
	return &Scorer{
		stallingDays:         cfg.StallingDays,
		stallingCriticalDays: cfg.StallingCriticalDays,
	}
}

// ScoreDeal produces a new scored record; the input is never mutated. A
// deal with zero risk reasons is excluded from at-risk sets regardless of
// any score.
func (s *Scorer) ScoreDeal(deal model.Deal) model.ScoredDeal {
	var reasons []model.Signal

	if deal.Qualification.Present() {
		reasons = append(reasons, explicitReasons(deal)...)
	} else {
		reasons = append(reasons, heuristicReasons(deal)...)
	}

	// The stalling check applies on both paths.
	if stall := s.stallingReason(deal); stall != nil {
		reasons = append(reasons, *stall)
	}

	riskScore := 0.0
	for _, r := range reasons {
		riskScore += r.Severity.Weight()
	}
	if riskScore > 100 {
		riskScore = 100
	}

	return model.ScoredDeal{
		Deal:               deal,
		QualificationScore: 100 - riskScore,
		RiskScore:          riskScore,
		RiskReasons:        reasons,
	}
}

// ScoreDeals scores a batch, preserving input order.
func (s *Scorer) ScoreDeals(deals []model.Deal) []model.ScoredDeal {
	out := make([]model.ScoredDeal, len(deals))
	for i, d := range deals {
		out[i] = s.ScoreDeal(d)
	}
	return out
}

// AtRisk filters scored deals down to those carrying risk reasons.
func AtRisk(deals []model.ScoredDeal) []model.ScoredDeal {
	var out []model.ScoredDeal
	for _, d := range deals {
		if d.AtRisk() {
			out = append(out, d)
		}
	}
	return out
}

// explicitReasons walks the MEDDPICC fields; each missing or too-short
// field emits one categorized reason with a fixed severity.
func explicitReasons(deal model.Deal) []model.Signal {
	q := deal.Qualification
	var reasons []model.Signal

	if fieldMissing(q.EconomicBuyer) {
		reasons = append(reasons, qualSignal(model.CategoryNoExecSponsor,
			"No economic buyer identified", model.SeverityHigh))
	}
	if fieldMissing(q.Champion) {
		reasons = append(reasons, qualSignal(model.CategoryFewStakeholders,
			"No champion on record", model.SeverityMedium))
	}
	if fieldMissing(q.DecisionCriteria) {
		reasons = append(reasons, qualSignal(model.CategoryMissingSuccessCriteria,
			"Decision criteria not captured", model.SeverityMedium))
	}
	if fieldMissing(q.PainArticulation) {
		reasons = append(reasons, qualSignal(model.CategoryMissingBusinessImpact,
			"Business pain not articulated", model.SeverityHigh))
	}

	if q.CompetitionNotes != nil {
		if hit := matchKeyword(competitionKeywords, *q.CompetitionNotes); hit != "" {
			sig := qualSignal(model.CategoryStrongCompetition,
				"Strong competition in play", model.SeverityHigh)
			sig.Evidence = fmt.Sprintf("competition notes mention %q", hit)
			reasons = append(reasons, sig)
		}
	}

	return reasons
}

// heuristicReasons infers qualification gaps from standard fields when the
// explicit qualification package is absent.
func heuristicReasons(deal model.Deal) []model.Signal {
	var reasons []model.Signal

	if strings.TrimSpace(deal.NextStep) == "" {
		reasons = append(reasons, qualSignal(model.CategoryMissingSuccessCriteria,
			"No next step recorded", model.SeverityMedium))
	}
	if deal.Probability < lowProbabilityCutoff && !earlyStages[deal.Stage] {
		sig := qualSignal(model.CategoryNoExecSponsor,
			"Low probability past early stage", model.SeverityHigh)
		sig.Evidence = fmt.Sprintf("probability %.0f%% in stage %s", deal.Probability, deal.Stage)
		reasons = append(reasons, sig)
	}

	return reasons
}

func (s *Scorer) stallingReason(deal model.Deal) *model.Signal {
	if deal.DaysInStage <= s.stallingDays {
		return nil
	}

	severity := model.SeverityHigh
	if deal.DaysInStage > s.stallingCriticalDays {
		severity = model.SeverityCritical
	}

	return &model.Signal{
		Category: model.CategoryStalling,
		Label:    "Deal is stalling",
		Evidence: fmt.Sprintf("%d days in stage %s", deal.DaysInStage, deal.Stage),
		Severity: severity,
		Source:   model.SourceStaleness,
	}
}

func qualSignal(category model.SignalCategory, label string, severity model.Severity) model.Signal {
	return model.Signal{
		Category: category,
		Label:    label,
		Severity: severity,
		Source:   model.SourceQualification,
	}
}

func fieldMissing(field *string) bool {
	return field == nil || len(strings.TrimSpace(*field)) < minFieldLength
}

// matchKeyword returns the first keyword found (case-insensitive) in text,
// or empty when none match.
func matchKeyword(keywords []string, text string) string {
	lowered := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			return kw
		}
	}
	return ""
}
