package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/revops-cli/internal/config"
	"github.com/sells-group/revops-cli/internal/model"
)

func testScorer() *Scorer {
	return NewScorer(config.ScoringConfig{
		StallingDays:         30,
		StallingCriticalDays: 60,
	})
}

func ptrString(v string) *string { return &v }

func fullyQualified() model.Qualification {
	return model.Qualification{
		EconomicBuyer:    ptrString("Dana Whitfield, CFO, confirmed budget owner"),
		Champion:         ptrString("Sam Ortiz, VP Ops, drives internal consensus"),
		DecisionCriteria: ptrString("Must integrate with current ERP by Q3"),
		CompetitionNotes: ptrString("Sole-sourced, no alternatives under review"),
		PainArticulation: ptrString("Manual reconciliation costs 20 hours weekly"),
	}
}

func TestScoreDeal_FullyQualifiedHasNoRisk(t *testing.T) {
	deal := model.Deal{
		Name:          "Renewal",
		Stage:         "Negotiation",
		Probability:   80,
		DaysInStage:   12,
		Qualification: fullyQualified(),
	}

	got := testScorer().ScoreDeal(deal)
	assert.Empty(t, got.RiskReasons)
	assert.False(t, got.AtRisk())
	assert.InDelta(t, 0, got.RiskScore, 0.01)
	assert.InDelta(t, 100, got.QualificationScore, 0.01)
}

func TestScoreDeal_ExplicitPath(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(*model.Qualification)
		wantCategory model.SignalCategory
		wantSeverity model.Severity
	}{
		{"missing economic buyer", func(q *model.Qualification) { q.EconomicBuyer = nil },
			model.CategoryNoExecSponsor, model.SeverityHigh},
		{"too-short economic buyer", func(q *model.Qualification) { q.EconomicBuyer = ptrString("tbd") },
			model.CategoryNoExecSponsor, model.SeverityHigh},
		{"missing champion", func(q *model.Qualification) { q.Champion = nil },
			model.CategoryFewStakeholders, model.SeverityMedium},
		{"missing decision criteria", func(q *model.Qualification) { q.DecisionCriteria = nil },
			model.CategoryMissingSuccessCriteria, model.SeverityMedium},
		{"missing pain", func(q *model.Qualification) { q.PainArticulation = nil },
			model.CategoryMissingBusinessImpact, model.SeverityHigh},
		{"competition language", func(q *model.Qualification) {
			q.CompetitionNotes = ptrString("Incumbent vendor pushing hard on renewal pricing")
		}, model.CategoryStrongCompetition, model.SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := fullyQualified()
			tt.mutate(&q)
			deal := model.Deal{Stage: "Proposal", Probability: 60, DaysInStage: 5, Qualification: q}

			got := testScorer().ScoreDeal(deal)
			require.Len(t, got.RiskReasons, 1)
			assert.Equal(t, tt.wantCategory, got.RiskReasons[0].Category)
			assert.Equal(t, tt.wantSeverity, got.RiskReasons[0].Severity)
			assert.InDelta(t, tt.wantSeverity.Weight(), got.RiskScore, 0.01)
		})
	}
}

func TestScoreDeal_HeuristicPath(t *testing.T) {
	t.Run("missing next step", func(t *testing.T) {
		deal := model.Deal{Stage: "Prospecting", Probability: 50, DaysInStage: 3}
		got := testScorer().ScoreDeal(deal)
		require.Len(t, got.RiskReasons, 1)
		assert.Equal(t, model.CategoryMissingSuccessCriteria, got.RiskReasons[0].Category)
		assert.Equal(t, model.SeverityMedium, got.RiskReasons[0].Severity)
	})

	t.Run("low probability past early stage", func(t *testing.T) {
		deal := model.Deal{Stage: "Negotiation", Probability: 20, NextStep: "Contract review", DaysInStage: 3}
		got := testScorer().ScoreDeal(deal)
		require.Len(t, got.RiskReasons, 1)
		assert.Equal(t, model.CategoryNoExecSponsor, got.RiskReasons[0].Category)
		assert.Equal(t, model.SeverityHigh, got.RiskReasons[0].Severity)
	})

	t.Run("low probability in early stage is fine", func(t *testing.T) {
		deal := model.Deal{Stage: "Qualification", Probability: 10, NextStep: "Discovery call", DaysInStage: 3}
		got := testScorer().ScoreDeal(deal)
		assert.Empty(t, got.RiskReasons)
	})
}

func TestScoreDeal_StallingAppliesOnBothPaths(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		deal := model.Deal{Stage: "Proposal", Probability: 60, DaysInStage: 45, Qualification: fullyQualified()}
		got := testScorer().ScoreDeal(deal)
		require.Len(t, got.RiskReasons, 1)
		assert.Equal(t, model.CategoryStalling, got.RiskReasons[0].Category)
		assert.Equal(t, model.SeverityHigh, got.RiskReasons[0].Severity)
	})

	t.Run("critical past sixty days", func(t *testing.T) {
		deal := model.Deal{Stage: "Proposal", Probability: 60, NextStep: "Follow up", DaysInStage: 75}
		got := testScorer().ScoreDeal(deal)
		require.Len(t, got.RiskReasons, 1)
		assert.Equal(t, model.SeverityCritical, got.RiskReasons[0].Severity)
		assert.Contains(t, got.RiskReasons[0].Evidence, "75 days")
	})

	t.Run("at threshold is not stalling", func(t *testing.T) {
		deal := model.Deal{Stage: "Proposal", Probability: 60, NextStep: "Follow up", DaysInStage: 30}
		got := testScorer().ScoreDeal(deal)
		assert.Empty(t, got.RiskReasons)
	})
}

func TestScoreDeal_RiskScoreClamped(t *testing.T) {
	// Everything wrong at once: 20+10+10+20+20 (explicit) + 30 (stalling).
	deal := model.Deal{
		Stage:       "Negotiation",
		Probability: 10,
		DaysInStage: 90,
		Qualification: model.Qualification{
			EconomicBuyer:    ptrString(""),
			Champion:         ptrString(""),
			DecisionCriteria: ptrString(""),
			PainArticulation: ptrString(""),
			CompetitionNotes: ptrString("losing to the incumbent on price"),
		},
	}

	got := testScorer().ScoreDeal(deal)
	assert.InDelta(t, 100, got.RiskScore, 0.01)
	assert.InDelta(t, 0, got.QualificationScore, 0.01)
}

func TestAtRisk_GatesOnReasonsOnly(t *testing.T) {
	scorer := testScorer()
	clean := scorer.ScoreDeal(model.Deal{
		Stage: "Proposal", Probability: 60, DaysInStage: 10, Qualification: fullyQualified(),
	})
	risky := scorer.ScoreDeal(model.Deal{
		Stage: "Negotiation", Probability: 10, NextStep: "x?", DaysInStage: 10,
	})

	got := AtRisk([]model.ScoredDeal{clean, risky})
	require.Len(t, got, 1)
	assert.Equal(t, risky.RiskScore, got[0].RiskScore)
}
