// Package grouper collapses near-duplicate accounts (multiple brands of one
// parent company) under a fuzzy name-derived key, so "Park Hyatt" and
// "Grand Hyatt" roll up to one "hyatt" group.
package grouper

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/revops-cli/internal/model"
)

// corporateSuffixes are stripped from display names before key extraction.
// An optional trailing period is removed first, so "Inc." matches "inc".
var corporateSuffixes = []string{
	"inc", "llc", "ltd", "corp", "company", "co",
	"group", "international", "intl",
}

var titleCaser = cases.Title(language.English)

// ExtractDomainKey normalizes a display name to its grouping key: lowercase,
// corporate suffixes stripped, then either the last word (when the cleaned
// name has at least two words and the last word is longer than three
// characters) or the whole cleaned name with spaces removed.
func ExtractDomainKey(displayName string) string {
	name := strings.ToLower(strings.TrimSpace(displayName))
	if name == "" {
		return ""
	}

	words := strings.Fields(name)

	// Strip trailing corporate suffixes, repeatedly: "Acme Holdings Co Inc"
	// sheds both.
	for len(words) > 1 {
		last := strings.TrimSuffix(words[len(words)-1], ".")
		if !isSuffix(last) {
			break
		}
		words = words[:len(words)-1]
	}

	if len(words) == 0 {
		return ""
	}

	last := strings.TrimSuffix(words[len(words)-1], ".")
	if len(words) >= 2 && len(last) > 3 {
		return last
	}
	return strings.Join(words, "")
}

func isSuffix(word string) bool {
	for _, s := range corporateSuffixes {
		if word == s {
			return true
		}
	}
	return false
}

// GroupAccounts collapses accounts sharing a domain key into groups. The
// representative is the highest-scored member, ties broken by input order;
// numeric aggregates are summed across members. Grouping an already-grouped
// representative list yields the same groups.
func GroupAccounts(accounts []model.ScoredAccount) []model.Group {
	byKey := make(map[string]*model.Group)
	var order []string

	for _, acct := range accounts {
		key := ExtractDomainKey(acct.Name)
		g, ok := byKey[key]
		if !ok {
			g = &model.Group{
				Key:            key,
				DisplayName:    titleCaser.String(key),
				Representative: acct,
			}
			byKey[key] = g
			order = append(order, key)
		}
		g.Members = append(g.Members, acct)
		g.TotalEmployees += acct.EmployeeCount
		g.TotalRevenue += acct.AnnualRevenue

		// Strictly-greater keeps the earliest member on ties.
		if acct.Score > g.Representative.Score {
			g.Representative = acct
		}
	}

	groups := make([]model.Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, *byKey[key])
	}
	return groups
}

// Representatives flattens groups back to their representative accounts,
// preserving group order.
func Representatives(groups []model.Group) []model.ScoredAccount {
	out := make([]model.ScoredAccount, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Representative)
	}
	return out
}
