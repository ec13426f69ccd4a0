package model

// ForecastMethod selects how open pipeline is bucketed into confidence
// tiers.
type ForecastMethod string

const (
	// MethodProbability buckets by probability thresholds.
	MethodProbability ForecastMethod = "probability"
	// MethodCategory buckets by the forecast-category label on each deal.
	MethodCategory ForecastMethod = "category"
)

// StageBucket aggregates open deals sharing a pipeline stage.
type StageBucket struct {
	Stage string  `json:"stage"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// ForecastSummary is the composite forecast view for one period. MethodUsed
// records which bucketing method actually produced the numbers, which may
// differ from the configured method when the fallback fired.
type ForecastSummary struct {
	Period Period        `json:"period"`
	Stages []StageBucket `json:"stages"`

	Commit   float64 `json:"commit"`
	BestCase float64 `json:"best_case"`
	Pipeline float64 `json:"pipeline"`

	ClosedWon       float64 `json:"closed_won"`
	QuotaTarget     float64 `json:"quota_target"`
	QuotaAttainment float64 `json:"quota_attainment"`

	MethodUsed ForecastMethod `json:"method_used"`
}
