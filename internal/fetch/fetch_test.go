package fetch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/revops-cli/internal/model"
	"github.com/sells-group/revops-cli/internal/resilience"
	"github.com/sells-group/revops-cli/pkg/salesforce"
)

type stubClient struct {
	queries []string
	respond func(soql string, out any) error
}

func (s *stubClient) Query(_ context.Context, soql string, out any) error {
	s.queries = append(s.queries, soql)
	return s.respond(soql, out)
}

func (s *stubClient) DescribeSObject(context.Context, string) (*salesforce.SObjectDescription, error) {
	return nil, errors.New("not implemented")
}

func fixedNow() time.Time {
	return time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func testOpportunity() salesforce.Opportunity {
	return salesforce.Opportunity{
		ID:                   "006A",
		Name:                 "Acme Renewal",
		AccountID:            "001A",
		Account:              &salesforce.RelatedAccount{Name: "Acme Corp"},
		Amount:               120_000,
		StageName:            "Proposal",
		Probability:          60,
		ForecastCategoryName: "Best Case",
		CloseDate:            "2026-09-15",
		NextStep:             "Schedule security review",
		LastStageChangeDate:  "2026-08-10",
		EconomicBuyer:        strPtr("Dana Velez, CFO"),
		Champion:             strPtr("Lee in platform eng"),
	}
}

func TestDeals_EnrichedPath(t *testing.T) {
	client := &stubClient{respond: func(_ string, out any) error {
		*out.(*[]salesforce.Opportunity) = []salesforce.Opportunity{testOpportunity()}
		return nil
	}}
	f := NewFetcher(client).WithClock(fixedNow)

	deals, err := f.Deals(context.Background(), PipelinePlan(augustPeriod()))

	require.NoError(t, err)
	require.Len(t, deals, 1)
	require.Len(t, client.queries, 1)

	d := deals[0]
	assert.Equal(t, model.CapabilityEnriched, d.Capability)
	assert.Equal(t, "Acme Corp", d.AccountName)
	assert.Equal(t, time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC), d.CloseDate)
	assert.Equal(t, 20, d.DaysInStage)
	require.NotNil(t, d.Qualification.EconomicBuyer)
	assert.Equal(t, "Dana Velez, CFO", *d.Qualification.EconomicBuyer)
	assert.True(t, d.Qualification.Present())
}

func TestDeals_SchemaDriftFallsBackToBasic(t *testing.T) {
	client := &stubClient{respond: func(soql string, out any) error {
		if strings.Contains(soql, "Economic_Buyer__c") {
			return &salesforce.UnknownFieldError{Field: "Economic_Buyer__c", Err: errors.New("INVALID_FIELD")}
		}
		rec := testOpportunity()
		rec.EconomicBuyer = nil
		rec.Champion = nil
		*out.(*[]salesforce.Opportunity) = []salesforce.Opportunity{rec}
		return nil
	}}
	f := NewFetcher(client).WithClock(fixedNow)

	deals, err := f.Deals(context.Background(), PipelinePlan(augustPeriod()))

	require.NoError(t, err)
	require.Len(t, client.queries, 2, "enriched attempt then basic retry")
	assert.NotContains(t, client.queries[1], "Economic_Buyer__c")

	require.Len(t, deals, 1)
	assert.Equal(t, model.CapabilityBasic, deals[0].Capability)
	assert.False(t, deals[0].Qualification.Present())
}

func TestDeals_NonDriftErrorReturned(t *testing.T) {
	client := &stubClient{respond: func(string, any) error {
		return errors.New("MALFORMED_QUERY: unexpected token")
	}}
	f := NewFetcher(client)

	_, err := f.Deals(context.Background(), PipelinePlan(augustPeriod()))

	assert.Error(t, err)
	assert.Len(t, client.queries, 1, "no basic retry for non-drift failures")
}

func TestDeals_TransientErrorRetried(t *testing.T) {
	calls := 0
	client := &stubClient{respond: func(_ string, out any) error {
		calls++
		if calls == 1 {
			return errors.New("REQUEST_LIMIT_EXCEEDED: TotalRequests limit exceeded")
		}
		*out.(*[]salesforce.Opportunity) = []salesforce.Opportunity{testOpportunity()}
		return nil
	}}
	f := NewFetcher(client).WithClock(fixedNow).WithRetry(resilience.RetryConfig{
		MaxAttempts:    2,
		InitialBackoff: time.Millisecond,
	})

	deals, err := f.Deals(context.Background(), PipelinePlan(augustPeriod()))

	require.NoError(t, err)
	assert.Len(t, deals, 1)
	assert.Equal(t, 2, calls)
}

func TestAccounts_MapsEnrichmentFields(t *testing.T) {
	intent := 88.0
	growth := 32.5
	client := &stubClient{respond: func(_ string, out any) error {
		*out.(*[]salesforce.Account) = []salesforce.Account{{
			ID:                "001A",
			Name:              "Acme Inc",
			Industry:          "Manufacturing",
			NumberOfEmployees: 1200,
			AnnualRevenue:     15_000_000,
			LastActivityDate:  "2026-08-20",
			IntentScore:       &intent,
			ProfileFit:        "Strong",
			GrowthPct:         &growth,
			FundingSignal:     "Series C",
			TierOverride:      "Cold",
		}}
		return nil
	}}
	f := NewFetcher(client).WithClock(fixedNow)

	accounts, err := f.Accounts(context.Background(), AccountsPlan())

	require.NoError(t, err)
	require.Len(t, accounts, 1)

	a := accounts[0]
	assert.Equal(t, model.CapabilityEnriched, a.Capability)
	assert.Equal(t, 10, a.DaysSinceActivity)
	require.NotNil(t, a.IntentScore)
	assert.InDelta(t, 88, *a.IntentScore, 0.01)
	assert.True(t, a.HasFundingSignal)
	assert.Equal(t, model.TierCold, a.TierOverride)
}

func TestAccounts_BasicCapabilityDropsEnrichment(t *testing.T) {
	intent := 88.0
	client := &stubClient{respond: func(soql string, out any) error {
		if strings.Contains(soql, "Intent_Score__c") {
			return &salesforce.UnknownFieldError{Field: "Intent_Score__c", Err: errors.New("INVALID_FIELD")}
		}
		// The org answering the basic query never returns these, but the
		// mapping must not trust stray values either.
		*out.(*[]salesforce.Account) = []salesforce.Account{{
			ID: "001A", Name: "Acme Inc", IntentScore: &intent, TierOverride: "Cold",
		}}
		return nil
	}}
	f := NewFetcher(client).WithClock(fixedNow)

	accounts, err := f.Accounts(context.Background(), AccountsPlan())

	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, model.CapabilityBasic, accounts[0].Capability)
	assert.Nil(t, accounts[0].IntentScore)
	assert.Empty(t, accounts[0].TierOverride)
}

func TestAll_SectionFailureLeavesSiblingsIntact(t *testing.T) {
	client := &stubClient{respond: func(soql string, out any) error {
		switch {
		case strings.Contains(soql, "IsWon = true"):
			return errors.New("MALFORMED_QUERY: bad filter")
		case strings.Contains(soql, "FROM Opportunity"):
			*out.(*[]salesforce.Opportunity) = []salesforce.Opportunity{testOpportunity()}
		case strings.Contains(soql, "FROM Account"):
			*out.(*[]salesforce.Account) = []salesforce.Account{{ID: "001A", Name: "Acme Inc"}}
		}
		return nil
	}}
	f := NewFetcher(client).WithClock(fixedNow)

	bundle, err := f.All(context.Background(), augustPeriod(), fixedNow().AddDate(0, 0, -90))

	require.NoError(t, err)
	assert.NotEmpty(t, bundle.Pipeline)
	assert.NotEmpty(t, bundle.Losses)
	assert.NotEmpty(t, bundle.Accounts)
	assert.NotEmpty(t, bundle.ColdAccounts)
	assert.Empty(t, bundle.Wins, "failed section degrades to empty")
}

func TestPipelinePlan_Soql(t *testing.T) {
	soql := PipelinePlan(augustPeriod()).Enriched.Build()

	assert.Contains(t, soql, "FROM Opportunity")
	assert.Contains(t, soql, "Account.Name")
	assert.Contains(t, soql, "IsClosed = false")
	assert.Contains(t, soql, "CloseDate >= 2026-08-01")
	assert.Contains(t, soql, "CloseDate <= 2026-08-31")
	assert.Contains(t, soql, "Economic_Buyer__c")
}

func TestPipelinePlan_SplitsFiscalQuarterAtYearBoundary(t *testing.T) {
	p := model.Period{
		Start: time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2027, time.January, 31, 23, 59, 59, 0, time.UTC),
	}

	soql := PipelinePlan(p).Enriched.Build()

	assert.Contains(t, soql,
		"((CloseDate >= 2026-11-01 AND CloseDate <= 2026-12-31) OR (CloseDate >= 2027-01-01 AND CloseDate <= 2027-01-31))")
}

func TestColdAccountsPlan_Soql(t *testing.T) {
	soql := ColdAccountsPlan(time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)).Enriched.Build()

	assert.Contains(t, soql, "FROM Account")
	assert.Contains(t, soql, "LastActivityDate <= 2026-06-01")
}

func augustPeriod() model.Period {
	return model.Period{
		Start: time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.August, 31, 23, 59, 59, 0, time.UTC),
		Label: "August 2026",
	}
}
