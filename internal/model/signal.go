package model

// SignalCategory identifies the kind of evidence a signal carries. Within a
// single fusion pass an entity holds at most one signal per category.
type SignalCategory string

// Risk categories emitted by the qualification scorer.
const (
	CategoryNoExecSponsor          SignalCategory = "no-exec-sponsor"
	CategoryFewStakeholders        SignalCategory = "few-stakeholders"
	CategoryMissingSuccessCriteria SignalCategory = "missing-success-criteria"
	CategoryMissingBusinessImpact  SignalCategory = "missing-business-impact"
	CategoryStrongCompetition      SignalCategory = "strong-competition"
	CategoryStalling               SignalCategory = "stalling"
)

// Opportunity categories emitted by the enrichment and usage sources.
const (
	CategoryNewBusiness SignalCategory = "new-business"
	CategoryExpansion   SignalCategory = "expansion"
)

// Severity ranks how urgent a signal is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
)

// Weight returns the contribution of this severity to an entity's risk
// score. Unknown severities contribute nothing.
func (s Severity) Weight() float64 {
	switch s {
	case SeverityCritical:
		return 30
	case SeverityHigh:
		return 20
	case SeverityMedium:
		return 10
	default:
		return 0
	}
}

// SourceSystem identifies which feed produced a signal.
type SourceSystem string

const (
	SourceQualification SourceSystem = "qualification"
	SourceIntent        SourceSystem = "intent"
	SourceUsage         SourceSystem = "usage"
	SourceCallIntel     SourceSystem = "call-intelligence"
	SourceStaleness     SourceSystem = "staleness"
)

// Signal is a discrete piece of evidence attached to an account or deal.
type Signal struct {
	Category SignalCategory `json:"category"`
	Label    string         `json:"label"`
	Evidence string         `json:"evidence"`
	Severity Severity       `json:"severity"`
	Source   SourceSystem   `json:"source"`
}

// Confidence is the vocabulary a signal source uses to qualify its own
// output before fusion normalizes it to the common 0-100 scale.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)
