package salesforce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueryBuilder_Build(t *testing.T) {
	tests := []struct {
		name  string
		build func() *QueryBuilder
		want  string
	}{
		{
			"defaults to Id when no fields selected",
			func() *QueryBuilder { return NewQuery("Account") },
			"SELECT Id FROM Account",
		},
		{
			"fields and equality filter",
			func() *QueryBuilder {
				return NewQuery("Account").
					Select("Id", "Name").
					Where("Industry", OpEq, "Hospitality")
			},
			"SELECT Id, Name FROM Account WHERE Industry = 'Hospitality'",
		},
		{
			"numeric and bool filters",
			func() *QueryBuilder {
				return NewQuery("Opportunity").
					Select("Id").
					Where("Amount", OpGt, 50000).
					Where("IsClosed", OpEq, false)
			},
			"SELECT Id FROM Opportunity WHERE Amount > 50000 AND IsClosed = false",
		},
		{
			"order by and limit",
			func() *QueryBuilder {
				return NewQuery("Account").
					Select("Id").
					OrderBy("AnnualRevenue", true).
					Limit(25)
			},
			"SELECT Id FROM Account ORDER BY AnnualRevenue DESC LIMIT 25",
		},
		{
			"date literal renders unquoted without a time component",
			func() *QueryBuilder {
				return NewQuery("Opportunity").
					Select("Id").
					Where("CloseDate", OpGte, Date(time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)))
			},
			"SELECT Id FROM Opportunity WHERE CloseDate >= 2026-07-01",
		},
		{
			"in filter sorts values for determinism",
			func() *QueryBuilder {
				return NewQuery("Opportunity").
					Select("Id").
					Where("StageName", OpIn, []string{"Proposal", "Discovery"})
			},
			"SELECT Id FROM Opportunity WHERE StageName IN ('Discovery', 'Proposal')",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.build().Build())
		})
	}
}

func TestQueryBuilder_EscapesStringLiterals(t *testing.T) {
	got := NewQuery("Account").
		Select("Id").
		Where("Name", OpEq, "O'Brien's; DROP TABLE").
		Build()

	assert.Equal(t, `SELECT Id FROM Account WHERE Name = 'O\'Brien\'s; DROP TABLE'`, got)
}

func TestQueryBuilder_WhereAny(t *testing.T) {
	nov := time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC)
	dec := time.Date(2026, time.December, 31, 23, 59, 59, 0, time.UTC)
	jan := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, time.January, 31, 23, 59, 59, 0, time.UTC)

	got := NewQuery("Opportunity").
		Select("Id").
		WhereAny(
			[]Filter{{"CloseDate", OpGte, nov}, {"CloseDate", OpLte, dec}},
			[]Filter{{"CloseDate", OpGte, jan}, {"CloseDate", OpLte, end}},
		).
		Build()

	want := "SELECT Id FROM Opportunity WHERE " +
		"((CloseDate >= 2026-11-01T00:00:00Z AND CloseDate <= 2026-12-31T23:59:59Z) OR " +
		"(CloseDate >= 2027-01-01T00:00:00Z AND CloseDate <= 2027-01-31T23:59:59Z))"
	assert.Equal(t, want, got)
}

func TestQueryBuilder_WithoutFields(t *testing.T) {
	b := NewQuery("Account").
		Select("Id", "Name", "Intent_Score__c").
		Where("Intent_Score__c", OpGte, 60).
		Where("Industry", OpEq, "Hospitality").
		OrderBy("Intent_Score__c", true)

	reduced := b.WithoutFields("Intent_Score__c")

	assert.Equal(t, "SELECT Id, Name FROM Account WHERE Industry = 'Hospitality'", reduced.Build())
	// Original is untouched.
	assert.Contains(t, b.Build(), "Intent_Score__c")
}
