// Package forecast buckets open pipeline into stage groups and confidence
// tiers (commit, best case, pipeline) and computes attainment against the
// resolved quota.
package forecast

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/revops-cli/internal/config"
	"github.com/sells-group/revops-cli/internal/model"
)

// Aggregator computes forecast summaries using the configured method,
// thresholds, and stage ordering.
type Aggregator struct {
	cfg config.ForecastConfig
}

// NewAggregator creates an Aggregator from forecast configuration.
func NewAggregator(cfg config.ForecastConfig) *Aggregator {
	if cfg.Method == "" {
		cfg.Method = string(model.MethodProbability)
	}
	if cfg.CommitThreshold <= 0 {
		cfg.CommitThreshold = 70
	}
	if cfg.BestCaseThreshold <= 0 {
		cfg.BestCaseThreshold = 50
	}
	return &Aggregator{cfg: cfg}
}

// Aggregate computes the composite forecast for one period. When the
// configured method produces zero commit and best case against a non-zero
// pipeline, the other method is tried and MethodUsed records the one that
// actually produced the numbers.
func (a *Aggregator) Aggregate(open []model.Deal, closedWon, quotaTarget float64, p model.Period) model.ForecastSummary {
	summary := model.ForecastSummary{
		Period:      p,
		Stages:      a.stageBuckets(open),
		ClosedWon:   closedWon,
		QuotaTarget: quotaTarget,
	}

	configured := model.ForecastMethod(a.cfg.Method)
	commit, bestCase, pipeline := a.bucket(open, configured)
	methodUsed := configured

	// Heuristic fallback: all-zero confidence tiers against a live
	// pipeline usually means the org does not maintain the configured
	// dimension (no probabilities kept current, or no forecast categories
	// assigned), so the other dimension is worth a try.
	if commit == 0 && bestCase == 0 && pipeline > 0 {
		alt := otherMethod(configured)
		altCommit, altBestCase, _ := a.bucket(open, alt)
		if altCommit > 0 || altBestCase > 0 {
			commit, bestCase = altCommit, altBestCase
			methodUsed = alt
			zap.L().Info("forecast method fallback",
				zap.String("configured", string(configured)),
				zap.String("used", string(alt)),
			)
		}
	}

	summary.Commit = commit
	summary.BestCase = bestCase
	summary.Pipeline = pipeline
	summary.MethodUsed = methodUsed
	summary.QuotaAttainment = attainment(closedWon, quotaTarget)

	return summary
}

// bucket sums open deals into the confidence tiers for one method.
// Pipeline is always the full open total.
func (a *Aggregator) bucket(open []model.Deal, method model.ForecastMethod) (commit, bestCase, pipeline float64) {
	for _, d := range open {
		pipeline += d.Amount

		switch method {
		case model.MethodCategory:
			switch normalizeCategory(d.ForecastCategory) {
			case "commit":
				commit += d.Amount
			case "bestcase":
				bestCase += d.Amount
			}
		default:
			if d.Probability >= a.cfg.CommitThreshold {
				commit += d.Amount
			} else if d.Probability >= a.cfg.BestCaseThreshold {
				bestCase += d.Amount
			}
		}
	}
	return commit, bestCase, pipeline
}

// stageBuckets groups open deals by stage: recognized stages first in the
// configured order, unrecognized stages alphabetical after them.
func (a *Aggregator) stageBuckets(open []model.Deal) []model.StageBucket {
	byStage := make(map[string]*model.StageBucket)
	for _, d := range open {
		b, ok := byStage[d.Stage]
		if !ok {
			b = &model.StageBucket{Stage: d.Stage}
			byStage[d.Stage] = b
		}
		b.Count++
		b.Value += d.Amount
	}

	rank := make(map[string]int, len(a.cfg.StageOrder))
	for i, s := range a.cfg.StageOrder {
		rank[s] = i
	}

	buckets := make([]model.StageBucket, 0, len(byStage))
	for _, b := range byStage {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		ri, iKnown := rank[buckets[i].Stage]
		rj, jKnown := rank[buckets[j].Stage]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			return buckets[i].Stage < buckets[j].Stage
		}
	})
	return buckets
}

func otherMethod(m model.ForecastMethod) model.ForecastMethod {
	if m == model.MethodCategory {
		return model.MethodProbability
	}
	return model.MethodCategory
}

func normalizeCategory(label string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "")
}

// attainment returns closedWon as a percentage of target, 0 when no target
// is set.
func attainment(closedWon, quotaTarget float64) float64 {
	if quotaTarget <= 0 {
		return 0
	}
	return closedWon / quotaTarget * 100
}
