// Package quota resolves per-subject quota amounts from a configured
// primary source, applying manual overrides last. Resolution always returns
// numbers: lookup failures degrade to zero and are logged, never raised.
package quota

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/revops-cli/internal/config"
	"github.com/sells-group/revops-cli/internal/model"
)

// Quota source values recognized in configuration.
const (
	SourceNativeField    = "native-field"
	SourceExternalObject = "external-object"
	SourceManual         = "manual"
	SourceNone           = "none"
)

// Source supplies the per-subject primary quota lookups. Both lookups
// return 0 on absence rather than failing.
type Source interface {
	// NativeQuota reads the custom quota field from the subject record.
	NativeQuota(ctx context.Context, subjectID, fieldName string) (float64, error)
	// PeriodQuota sums the subject's external quota objects over a period.
	PeriodQuota(ctx context.Context, subjectID string, p model.Period) (float64, error)
}

// Result holds the resolved quota per subject plus the total.
type Result struct {
	PerSubject map[string]float64 `json:"per_subject"`
	Total      float64            `json:"total"`
}

// Resolver resolves quotas against a Source.
type Resolver struct {
	src Source
}

// NewResolver creates a Resolver. src may be nil when the configured source
// never reaches it (manual or none).
func NewResolver(src Source) *Resolver {
	return &Resolver{src: src}
}

// Resolve computes each subject's quota for the period. The primary amount
// comes from the configured source; a present, positive manual amount then
// overrides it (replaces, never sums) for every source type except manual
// and none, where the manual map already is the primary.
func (r *Resolver) Resolve(ctx context.Context, cfg config.QuotaConfig, subjectIDs []string, p model.Period) Result {
	result := Result{PerSubject: make(map[string]float64, len(subjectIDs))}

	for _, id := range subjectIDs {
		amount := r.primary(ctx, cfg, id, p)

		if cfg.Source != SourceManual && cfg.Source != SourceNone {
			if override, ok := cfg.ManualAmounts[id]; ok && override > 0 {
				amount = override
			}
		}

		result.PerSubject[id] = amount
		result.Total += amount
	}

	return result
}

func (r *Resolver) primary(ctx context.Context, cfg config.QuotaConfig, subjectID string, p model.Period) float64 {
	switch cfg.Source {
	case SourceNativeField:
		if r.src == nil {
			return 0
		}
		amount, err := r.src.NativeQuota(ctx, subjectID, cfg.NativeField)
		if err != nil {
			zap.L().Warn("quota: native field lookup failed",
				zap.String("subject_id", subjectID),
				zap.String("field", cfg.NativeField),
				zap.Error(err),
			)
			return 0
		}
		return amount

	case SourceExternalObject:
		if r.src == nil {
			return 0
		}
		amount, err := r.src.PeriodQuota(ctx, subjectID, p)
		if err != nil {
			zap.L().Warn("quota: external object lookup failed",
				zap.String("subject_id", subjectID),
				zap.String("period", p.Label),
				zap.Error(err),
			)
			return 0
		}
		return amount

	case SourceManual:
		if amount, ok := cfg.ManualAmounts[subjectID]; ok && amount > 0 {
			return amount
		}
		return cfg.DefaultAmount

	default: // none or unrecognized
		return 0
	}
}
