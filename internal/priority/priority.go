// Package priority computes 0-100 account priority scores from firmographic
// and enrichment signals, degrading gracefully when the enrichment fields
// are absent from the source org.
package priority

import (
	"github.com/sells-group/revops-cli/internal/model"
)

const baseScore = 50

// Tier cutoffs on the computed score. Cold is reachable only through a
// manual override.
const (
	hotCutoff  = 75
	warmCutoff = 60
)

// ScoreAccount produces a new scored record; the input is never mutated.
// Firmographic bonuses always apply; enrichment bonuses apply only when the
// record carries the enriched capability tag.
func ScoreAccount(acct model.Account) model.ScoredAccount {
	score := float64(baseScore)
	score += employeeBonus(acct.EmployeeCount)
	score += revenueBonus(acct.AnnualRevenue)

	if acct.Capability == model.CapabilityEnriched {
		score += enrichmentBonus(acct)
	}

	score = clamp(score, 0, 100)

	scored := model.ScoredAccount{
		Account: acct,
		Score:   score,
		Tier:    tierFor(score),
	}

	// A manual override replaces the displayed tier; the computed score is
	// retained for sort stability.
	if acct.TierOverride != "" {
		scored.Tier = acct.TierOverride
		scored.IsOverridden = true
	}

	return scored
}

// ScoreAccounts scores a batch, preserving input order.
func ScoreAccounts(accounts []model.Account) []model.ScoredAccount {
	out := make([]model.ScoredAccount, len(accounts))
	for i, acct := range accounts {
		out[i] = ScoreAccount(acct)
	}
	return out
}

func employeeBonus(count int) float64 {
	switch {
	case count > 1000:
		return 20
	case count > 500:
		return 15
	case count > 100:
		return 10
	default:
		return 0
	}
}

func revenueBonus(revenue float64) float64 {
	switch {
	case revenue > 10_000_000:
		return 15
	case revenue > 1_000_000:
		return 10
	case revenue > 100_000:
		return 5
	default:
		return 0
	}
}

func enrichmentBonus(acct model.Account) float64 {
	var bonus float64

	if acct.IntentScore != nil {
		switch {
		case *acct.IntentScore >= 80:
			bonus += 25
		case *acct.IntentScore >= 60:
			bonus += 15
		}
	}

	switch acct.ProfileFit {
	case "Strong":
		bonus += 15
	case "Moderate":
		bonus += 10
	}

	if acct.GrowthPct != nil && *acct.GrowthPct > 20 {
		bonus += 10
	}

	if acct.HasFundingSignal {
		bonus += 10
	}

	return bonus
}

func tierFor(score float64) model.Tier {
	switch {
	case score >= hotCutoff:
		return model.TierHot
	case score >= warmCutoff:
		return model.TierWarm
	default:
		return model.TierCool
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
