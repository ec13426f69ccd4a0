package model

// Capability tags a fetched record set with the schema variant that produced
// it. Downstream scoring branches on this tag instead of probing individual
// field presence.
type Capability string

const (
	// CapabilityEnriched means the optional enrichment custom fields were
	// present in the source org and populated on the records.
	CapabilityEnriched Capability = "enriched"
	// CapabilityBasic means the enriched fetch failed on an unknown field
	// and the records carry standard fields only.
	CapabilityBasic Capability = "basic"
)

// Tier buckets an account or deal by priority.
type Tier string

const (
	TierHot  Tier = "hot"
	TierWarm Tier = "warm"
	TierCool Tier = "cool"
	// TierCold is reachable only through a manual override, never through
	// the computed score.
	TierCold Tier = "cold"
)

// Account holds the normalized facts about a CRM account used for scoring.
// Enrichment fields are pointers: nil means the field was absent from the
// source org (basic capability) or unset on the record.
type Account struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Industry      string  `json:"industry,omitempty"`
	Website       string  `json:"website,omitempty"`
	EmployeeCount int     `json:"employee_count"`
	AnnualRevenue float64 `json:"annual_revenue"`

	IntentScore      *float64 `json:"intent_score,omitempty"`
	ProfileFit       string   `json:"profile_fit,omitempty"`
	GrowthPct        *float64 `json:"growth_pct,omitempty"`
	HasFundingSignal bool     `json:"has_funding_signal,omitempty"`

	DaysSinceActivity int        `json:"days_since_activity"`
	TierOverride      Tier       `json:"tier_override,omitempty"`
	Capability        Capability `json:"capability"`
}

// ScoredAccount is an Account plus its computed priority outputs.
type ScoredAccount struct {
	Account

	Score        float64  `json:"score"`
	Tier         Tier     `json:"tier"`
	IsOverridden bool     `json:"is_overridden,omitempty"`
	Signals      []Signal `json:"signals,omitempty"`
}
