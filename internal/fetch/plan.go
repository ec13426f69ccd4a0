// Package fetch builds and runs the CRM record fetches behind dashboard
// views. Every fetch is a Plan: an enriched query that assumes the optional
// custom-field packages are installed, paired with a basic fallback that the
// runner switches to when the org's schema rejects an enriched field.
package fetch

import (
	"time"

	"github.com/sells-group/revops-cli/internal/model"
	"github.com/sells-group/revops-cli/internal/period"
	"github.com/sells-group/revops-cli/pkg/salesforce"
)

// Plan pairs an enriched query with its reduced-field fallback. Name is used
// in logs only.
type Plan struct {
	Name     string
	Enriched *salesforce.QueryBuilder
	Basic    *salesforce.QueryBuilder
}

// dealPlan builds an Opportunity plan with qualification fields on the
// enriched side and the identical basic query with them stripped.
func dealPlan(name string, build func() *salesforce.QueryBuilder) Plan {
	enriched := build()
	return Plan{
		Name:     name,
		Enriched: enriched,
		Basic:    enriched.WithoutFields(salesforce.OpportunityQualificationFields...),
	}
}

// accountPlan builds an Account plan with enrichment fields on the enriched
// side only.
func accountPlan(name string, build func() *salesforce.QueryBuilder) Plan {
	enriched := build()
	return Plan{
		Name:     name,
		Enriched: enriched,
		Basic:    enriched.WithoutFields(salesforce.AccountEnrichmentFields...),
	}
}

// PipelinePlan fetches open opportunities closing inside the period.
func PipelinePlan(p model.Period) Plan {
	return dealPlan("pipeline", func() *salesforce.QueryBuilder {
		b := salesforce.NewQuery("Opportunity").
			Select(salesforce.OpportunityBasicFields...).
			Select(salesforce.OpportunityQualificationFields...).
			Where("IsClosed", salesforce.OpEq, false).
			OrderBy("Amount", true)
		return withDateWindow(b, "CloseDate", p)
	})
}

// WinsPlan fetches opportunities closed-won inside the period.
func WinsPlan(p model.Period) Plan {
	return dealPlan("wins", func() *salesforce.QueryBuilder {
		b := salesforce.NewQuery("Opportunity").
			Select(salesforce.OpportunityBasicFields...).
			Select(salesforce.OpportunityQualificationFields...).
			Where("IsClosed", salesforce.OpEq, true).
			Where("IsWon", salesforce.OpEq, true).
			OrderBy("Amount", true)
		return withDateWindow(b, "CloseDate", p)
	})
}

// LossesPlan fetches opportunities closed-lost inside the period.
func LossesPlan(p model.Period) Plan {
	return dealPlan("losses", func() *salesforce.QueryBuilder {
		b := salesforce.NewQuery("Opportunity").
			Select(salesforce.OpportunityBasicFields...).
			Select(salesforce.OpportunityQualificationFields...).
			Where("IsClosed", salesforce.OpEq, true).
			Where("IsWon", salesforce.OpEq, false).
			OrderBy("Amount", true)
		return withDateWindow(b, "CloseDate", p)
	})
}

// AccountsPlan fetches the account book with enrichment fields.
func AccountsPlan() Plan {
	return accountPlan("accounts", func() *salesforce.QueryBuilder {
		return salesforce.NewQuery("Account").
			Select(salesforce.AccountBasicFields...).
			Select(salesforce.AccountEnrichmentFields...).
			OrderBy("AnnualRevenue", true)
	})
}

// ColdAccountsPlan fetches accounts whose last logged activity is at or
// before the cutoff date.
func ColdAccountsPlan(cutoff time.Time) Plan {
	return accountPlan("cold-accounts", func() *salesforce.QueryBuilder {
		return salesforce.NewQuery("Account").
			Select(salesforce.AccountBasicFields...).
			Select(salesforce.AccountEnrichmentFields...).
			Where("LastActivityDate", salesforce.OpLte, salesforce.Date(cutoff)).
			OrderBy("LastActivityDate", false)
	})
}

// withDateWindow constrains a date field to the period, splitting at
// calendar-year boundaries so fiscal quarters spanning New Year render as a
// disjunction of two ranges.
func withDateWindow(b *salesforce.QueryBuilder, field string, p model.Period) *salesforce.QueryBuilder {
	spans := period.CalendarSpans(p)
	if len(spans) == 0 {
		return b
	}
	groups := make([][]salesforce.Filter, 0, len(spans))
	for _, s := range spans {
		groups = append(groups, []salesforce.Filter{
			{Field: field, Op: salesforce.OpGte, Value: salesforce.Date(s.Start)},
			{Field: field, Op: salesforce.OpLte, Value: salesforce.Date(s.End)},
		})
	}
	return b.WhereAny(groups...)
}
