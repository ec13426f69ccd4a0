package fusion

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/revops-cli/internal/model"
)

// Momentum is the call-intelligence provider's read on deal motion.
type Momentum string

const (
	MomentumStalling Momentum = "stalling"
	MomentumActive   Momentum = "active"
)

// CallSummary is what the call-intelligence provider knows about a subject.
type CallSummary struct {
	Signals   []SourceSignal
	Momentum  Momentum
	CallCount int
}

// CallIntelligenceSource supplies conversation-derived signals. The
// implementation is an external collaborator; the engine depends only on
// this interface.
type CallIntelligenceSource interface {
	SignalsForSubject(ctx context.Context, subjectID string) (CallSummary, error)
}

// CallSignals fetches a subject's call-intelligence signals, degrading to
// none on provider failure. A stalling momentum read is folded in as a
// staleness-category signal so it competes on the common scale.
func CallSignals(ctx context.Context, src CallIntelligenceSource, subjectID string) []SourceSignal {
	if src == nil {
		return nil
	}

	summary, err := src.SignalsForSubject(ctx, subjectID)
	if err != nil {
		zap.L().Warn("call intelligence unavailable",
			zap.String("subject_id", subjectID),
			zap.Error(err),
		)
		return nil
	}

	signals := summary.Signals
	if summary.Momentum == MomentumStalling {
		signals = append(signals, SourceSignal{
			Signal: model.Signal{
				Category: model.CategoryStalling,
				Label:    "Conversation momentum stalling",
				Evidence: "call activity trending down",
				Severity: model.SeverityHigh,
				Source:   model.SourceCallIntel,
			},
			Confidence: model.ConfidenceMedium,
		})
	}
	return signals
}
