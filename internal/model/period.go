// Package model defines the request-scoped value objects shared across the
// dashboard engine: periods, signals, scored accounts and deals, domain
// groups, and forecast summaries. Values are built fresh for each request
// and never mutated in place; scoring always produces a new record.
package model

import "time"

// Period is a concrete date interval resolved from a symbolic range token.
// Start is always <= End.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// Contains reports whether t falls inside the period (inclusive bounds).
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Days returns the period length in whole days, minimum 1.
func (p Period) Days() int {
	d := int(p.End.Sub(p.Start).Hours() / 24)
	if d < 1 {
		return 1
	}
	return d
}
