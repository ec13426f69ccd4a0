package grouper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/revops-cli/internal/model"
)

func account(name string, score, revenue float64, employees int) model.ScoredAccount {
	return model.ScoredAccount{
		Account: model.Account{Name: name, AnnualRevenue: revenue, EmployeeCount: employees},
		Score:   score,
	}
}

func TestExtractDomainKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"brand variants share last word", "Park Hyatt", "hyatt"},
		{"second brand", "Grand Hyatt", "hyatt"},
		{"suffix stripped", "Acme Inc", "acme"},
		{"suffix with period", "Acme Corp.", "acme"},
		{"different suffix same key", "Acme Corp", "acme"},
		{"llc", "Beta LLC", "beta"},
		{"multiple suffixes shed", "Acme Holdings Co Inc", "holdings"},
		{"short last word squashes whole name", "Big Sky Co", "bigsky"},
		{"single word", "Salesforce", "salesforce"},
		{"case insensitive", "PARK HYATT", "hyatt"},
		{"bare suffix preserved", "Inc", "inc"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDomainKey(tt.in))
		})
	}
}

func TestGroupAccounts_CollapsesDuplicates(t *testing.T) {
	accounts := []model.ScoredAccount{
		account("Acme Inc", 70, 1_000_000, 50),
		account("Acme Corp", 80, 5_000_000, 200),
		account("Beta LLC", 60, 250_000, 10),
	}

	groups := GroupAccounts(accounts)
	require.Len(t, groups, 2)

	acme := groups[0]
	assert.Equal(t, "acme", acme.Key)
	assert.Equal(t, 2, acme.Size())
	// Representative is the higher-revenue (higher-scored) member.
	assert.Equal(t, "Acme Corp", acme.Representative.Name)
	assert.Equal(t, 250, acme.TotalEmployees)
	assert.InDelta(t, 6_000_000, acme.TotalRevenue, 0.01)

	beta := groups[1]
	assert.Equal(t, "beta", beta.Key)
	assert.Equal(t, 1, beta.Size())
	assert.Equal(t, "Beta LLC", beta.Representative.Name)
}

func TestGroupAccounts_TieKeepsInputOrder(t *testing.T) {
	accounts := []model.ScoredAccount{
		account("Park Hyatt", 75, 0, 0),
		account("Grand Hyatt", 75, 0, 0),
	}

	groups := GroupAccounts(accounts)
	require.Len(t, groups, 1)
	assert.Equal(t, "Park Hyatt", groups[0].Representative.Name)
	assert.Equal(t, "Hyatt", groups[0].DisplayName)
}

func TestGroupAccounts_Idempotent(t *testing.T) {
	accounts := []model.ScoredAccount{
		account("Park Hyatt", 75, 100, 5),
		account("Grand Hyatt", 90, 200, 8),
		account("Acme Inc", 50, 300, 2),
	}

	first := GroupAccounts(accounts)
	second := GroupAccounts(Representatives(first))

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Key, second[i].Key)
		assert.Equal(t, first[i].Representative.Name, second[i].Representative.Name)
		assert.Equal(t, 1, second[i].Size())
	}
}

func TestGroupAccounts_SingletonCarriesKey(t *testing.T) {
	groups := GroupAccounts([]model.ScoredAccount{account("Salesforce", 88, 1, 1)})
	require.Len(t, groups, 1)
	assert.Equal(t, "salesforce", groups[0].Key)
	assert.Equal(t, "Salesforce", groups[0].Representative.Name)
}
