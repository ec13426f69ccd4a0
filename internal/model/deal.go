package model

import "time"

// Qualification holds the explicit MEDDPICC-style fields a deal may carry
// when the source org has the qualification package installed. Pointers are
// nil when the field is absent from the schema (basic capability).
type Qualification struct {
	EconomicBuyer    *string `json:"economic_buyer,omitempty"`
	Champion         *string `json:"champion,omitempty"`
	DecisionCriteria *string `json:"decision_criteria,omitempty"`
	CompetitionNotes *string `json:"competition_notes,omitempty"`
	PainArticulation *string `json:"pain_articulation,omitempty"`
}

// Present reports whether any explicit qualification field exists on the
// record, which selects the explicit scoring path over the heuristic one.
func (q Qualification) Present() bool {
	return q.EconomicBuyer != nil || q.Champion != nil || q.DecisionCriteria != nil ||
		q.CompetitionNotes != nil || q.PainArticulation != nil
}

// Deal holds the normalized facts about an open opportunity.
type Deal struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	AccountID        string    `json:"account_id,omitempty"`
	AccountName      string    `json:"account_name,omitempty"`
	Amount           float64   `json:"amount"`
	Stage            string    `json:"stage"`
	Probability      float64   `json:"probability"`
	ForecastCategory string    `json:"forecast_category,omitempty"`
	Type             string    `json:"type,omitempty"`
	CloseDate        time.Time `json:"close_date"`
	NextStep         string    `json:"next_step,omitempty"`
	Description      string    `json:"description,omitempty"`
	DaysInStage      int       `json:"days_in_stage"`

	Qualification Qualification `json:"qualification,omitempty"`
	Capability    Capability    `json:"capability"`
}

// ScoredDeal is a Deal plus its qualification score and risk reasons. A deal
// with no risk reasons is never considered at risk, whatever its score.
type ScoredDeal struct {
	Deal

	QualificationScore float64  `json:"qualification_score"`
	RiskScore          float64  `json:"risk_score"`
	RiskReasons        []Signal `json:"risk_reasons,omitempty"`
}

// AtRisk reports whether the deal belongs in at-risk result sets. Risk
// reasons are the only gate.
func (d ScoredDeal) AtRisk() bool {
	return len(d.RiskReasons) > 0
}
