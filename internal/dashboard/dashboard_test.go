package dashboard

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/revops-cli/internal/config"
	"github.com/sells-group/revops-cli/internal/fetch"
	"github.com/sells-group/revops-cli/internal/fusion"
	"github.com/sells-group/revops-cli/internal/model"
	"github.com/sells-group/revops-cli/pkg/recommend"
	"github.com/sells-group/revops-cli/pkg/salesforce"
)

type stubSF struct {
	respond func(soql string, out any) error
}

func (s *stubSF) Query(_ context.Context, soql string, out any) error {
	return s.respond(soql, out)
}

func (s *stubSF) DescribeSObject(context.Context, string) (*salesforce.SObjectDescription, error) {
	return nil, errors.New("not implemented")
}

type stubGenerator struct {
	text   string
	err    error
	lastIn recommend.Input
}

func (g *stubGenerator) Generate(_ context.Context, in recommend.Input) (string, error) {
	g.lastIn = in
	return g.text, g.err
}

type stubCalls struct {
	summaries map[string]fusion.CallSummary
}

func (c *stubCalls) SignalsForSubject(_ context.Context, id string) (fusion.CallSummary, error) {
	return c.summaries[id], nil
}

func fixedNow() time.Time {
	return time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
}

func augustPeriod() model.Period {
	return model.Period{
		Start: time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.August, 31, 23, 59, 59, 0, time.UTC),
		Label: "August 2026",
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Quota: config.QuotaConfig{
			Source:        "manual",
			ManualAmounts: map[string]float64{"user-1": 500_000},
		},
		Forecast: config.ForecastConfig{
			Method:            "probability",
			CommitThreshold:   70,
			BestCaseThreshold: 50,
		},
		Scoring: config.ScoringConfig{
			CorroborationBonus:   3,
			CorroborationCap:     15,
			StallingDays:         30,
			StallingCriticalDays: 60,
			ColdAccountDays:      90,
		},
	}
}

// testRecords answers every section fetch with a small fixed org: two open
// deals (one clean, one unqualified), one win, one loss, two active accounts
// and one cold account.
func testRecords(soql string, out any) error {
	buyer := "Dana Velez, CFO and budget owner"
	champion := "Lee Park, platform engineering lead"
	criteria := "Pass security review, sub-200ms latency at peak"
	pain := "Manual reconciliation costs two analyst days per week"
	switch {
	case strings.Contains(soql, "IsClosed = false"):
		*out.(*[]salesforce.Opportunity) = []salesforce.Opportunity{
			{
				ID: "006A", Name: "Acme Renewal", Amount: 200_000,
				StageName: "Negotiation", Probability: 80,
				CloseDate: "2026-08-20", NextStep: "Contract redlines with legal",
				LastStageChangeDate: "2026-08-25",
				EconomicBuyer:       &buyer, Champion: &champion,
				DecisionCriteria: &criteria, PainArticulation: &pain,
			},
			{
				ID: "006B", Name: "Beta New Logo", Amount: 90_000,
				StageName: "Proposal", Probability: 40,
				CloseDate: "2026-08-28",
				LastStageChangeDate: "2026-07-10",
			},
		}
	case strings.Contains(soql, "IsWon = true"):
		*out.(*[]salesforce.Opportunity) = []salesforce.Opportunity{
			{ID: "006W", Name: "Closed Win", Amount: 150_000, StageName: "Closed Won", CloseDate: "2026-08-05"},
		}
	case strings.Contains(soql, "IsWon = false"):
		*out.(*[]salesforce.Opportunity) = []salesforce.Opportunity{
			{ID: "006L", Name: "Closed Loss", Amount: 60_000, StageName: "Closed Lost", CloseDate: "2026-08-12"},
		}
	case strings.Contains(soql, "LastActivityDate <="):
		*out.(*[]salesforce.Account) = []salesforce.Account{
			{ID: "001C", Name: "Dormant Corp", LastActivityDate: "2026-04-01"},
		}
	case strings.Contains(soql, "FROM Account"):
		intent := 88.0
		*out.(*[]salesforce.Account) = []salesforce.Account{
			{ID: "001A", Name: "Grand Hyatt", NumberOfEmployees: 2000, AnnualRevenue: 50_000_000,
				LastActivityDate: "2026-08-25", IntentScore: &intent},
			{ID: "001B", Name: "Beta LLC", NumberOfEmployees: 40, AnnualRevenue: 500_000,
				LastActivityDate: "2026-08-10"},
		}
	}
	return nil
}

func newTestEngine(gen recommend.Generator, calls fusion.CallIntelligenceSource) *Engine {
	fetcher := fetch.NewFetcher(&stubSF{respond: testRecords}).WithClock(fixedNow)
	return NewEngine(testConfig(), fetcher, nil, gen, calls).WithClock(fixedNow)
}

func TestBuild_AEView(t *testing.T) {
	e := newTestEngine(&stubGenerator{text: "Work the Acme redlines."}, nil)

	view, err := e.Build(context.Background(), RoleAE, "user-1", augustPeriod())
	require.NoError(t, err)

	assert.Equal(t, RoleAE, view.Role)
	assert.Len(t, view.Pipeline, 2)
	require.Len(t, view.AtRisk, 1, "only the unqualified deal carries risk reasons")
	assert.Equal(t, "006B", view.AtRisk[0].ID)

	// $500k quota, $150k closed: 30% attainment, $200k commit at 80%.
	assert.InDelta(t, 500_000, view.Forecast.QuotaTarget, 0.01)
	assert.InDelta(t, 30, view.Forecast.QuotaAttainment, 0.01)
	assert.InDelta(t, 200_000, view.Forecast.Commit, 0.01)

	assert.Equal(t, 1, view.WinLoss.WonCount)
	assert.Equal(t, 1, view.WinLoss.LostCount)
	assert.InDelta(t, 50, view.WinLoss.WinRate, 0.01)

	assert.Equal(t, "Work the Acme redlines.", view.Recommendation)
}

func TestBuild_AccountsRankedByScore(t *testing.T) {
	e := newTestEngine(&stubGenerator{text: "ok"}, nil)

	view, err := e.Build(context.Background(), RoleAE, "user-1", augustPeriod())
	require.NoError(t, err)

	require.NotEmpty(t, view.Accounts)
	assert.Equal(t, "Grand Hyatt", view.Accounts[0].Name)
	assert.Equal(t, model.TierHot, view.Accounts[0].Tier)
}

func TestBuild_ExecViewCarriesRollupsOnly(t *testing.T) {
	e := newTestEngine(&stubGenerator{text: "ok"}, nil)

	view, err := e.Build(context.Background(), RoleExec, "user-1", augustPeriod())
	require.NoError(t, err)

	assert.Empty(t, view.Pipeline)
	assert.Empty(t, view.AtRisk)
	assert.Empty(t, view.Accounts)
	assert.NotEmpty(t, view.Groups)
	assert.NotZero(t, view.Forecast.Pipeline)
}

func TestBuild_RecommendationSeesUnshapedData(t *testing.T) {
	gen := &stubGenerator{text: "ok"}
	e := newTestEngine(gen, nil)

	_, err := e.Build(context.Background(), RoleExec, "user-1", augustPeriod())
	require.NoError(t, err)

	require.Len(t, gen.lastIn.AtRiskDeals, 1)
	assert.Equal(t, "Beta New Logo", gen.lastIn.AtRiskDeals[0].Name)
	require.NotEmpty(t, gen.lastIn.HotAccounts)
	assert.Equal(t, "Grand Hyatt", gen.lastIn.HotAccounts[0].Name)
	require.Len(t, gen.lastIn.ColdAccounts, 1)
	assert.Equal(t, "Dormant Corp", gen.lastIn.ColdAccounts[0].Name)
}

func TestBuild_CSMViewCarriesColdAccounts(t *testing.T) {
	e := newTestEngine(&stubGenerator{text: "ok"}, nil)

	view, err := e.Build(context.Background(), RoleCSM, "user-1", augustPeriod())
	require.NoError(t, err)

	require.Len(t, view.ColdAccounts, 1)
	assert.Equal(t, "Dormant Corp", view.ColdAccounts[0].Name)
	assert.NotEmpty(t, view.Groups)
}

func TestBuild_FusesRiskAndCallSignals(t *testing.T) {
	calls := &stubCalls{summaries: map[string]fusion.CallSummary{
		"006B": {Momentum: fusion.MomentumStalling},
	}}
	e := newTestEngine(&stubGenerator{text: "ok"}, calls)

	view, err := e.Build(context.Background(), RoleAE, "user-1", augustPeriod())
	require.NoError(t, err)

	var dealResult *fusion.Result
	for i := range view.Signals {
		if view.Signals[i].SubjectID == "006B" {
			dealResult = &view.Signals[i]
		}
	}
	require.NotNil(t, dealResult, "at-risk deal appears in fused signals")

	categories := make(map[model.SignalCategory]bool)
	for _, s := range dealResult.Signals {
		categories[s.Category] = true
	}
	assert.True(t, categories[model.CategoryStalling], "call momentum folded into stalling signal")
}

func TestBuild_IntentSignalSurfacesForHotAccount(t *testing.T) {
	e := newTestEngine(&stubGenerator{text: "ok"}, nil)

	view, err := e.Build(context.Background(), RoleAE, "user-1", augustPeriod())
	require.NoError(t, err)

	var found bool
	for _, r := range view.Signals {
		if r.SubjectID == "001A" {
			found = true
		}
	}
	assert.True(t, found, "high-intent account carries a fused signal")
}

func TestBuild_GeneratorFailureFallsBack(t *testing.T) {
	e := newTestEngine(&stubGenerator{err: errors.New("api down")}, nil)

	view, err := e.Build(context.Background(), RoleAE, "user-1", augustPeriod())
	require.NoError(t, err)

	assert.NotEmpty(t, view.Recommendation, "rule-based fallback fills in")
	assert.Contains(t, view.Recommendation, "quota")
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"ae", "am", "csm", "leader", "exec"} {
		_, ok := ParseRole(valid)
		assert.True(t, ok, valid)
	}
	_, ok := ParseRole("intern")
	assert.False(t, ok)
}
