package model

// Group collapses near-duplicate accounts (multiple brands of one parent
// company) under one fuzzy name-derived key. The representative is the
// highest-scored member; ties keep the earliest in input order.
type Group struct {
	Key            string          `json:"key"`
	DisplayName    string          `json:"display_name"`
	Representative ScoredAccount   `json:"representative"`
	Members        []ScoredAccount `json:"members"`

	// Aggregates summed across all members.
	TotalEmployees int     `json:"total_employees"`
	TotalRevenue   float64 `json:"total_revenue"`
}

// Size returns the member count.
func (g Group) Size() int { return len(g.Members) }
