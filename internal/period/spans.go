package period

import (
	"time"

	"github.com/sells-group/revops-cli/internal/model"
)

// Span is one calendar-year slice of a period.
type Span struct {
	Year  int
	Start time.Time
	End   time.Time
}

// CalendarSpans splits a period at calendar-year boundaries. A fiscal
// quarter that starts in November of year N yields two spans: Nov-Dec of
// year N and Jan of year N+1. Periods within one calendar year yield a
// single span.
func CalendarSpans(p model.Period) []Span {
	if p.End.Before(p.Start) {
		return nil
	}

	var spans []Span
	cursor := p.Start
	for cursor.Year() < p.End.Year() {
		yearEnd := time.Date(cursor.Year(), time.December, 31, 23, 59, 59, 0, cursor.Location())
		spans = append(spans, Span{Year: cursor.Year(), Start: cursor, End: yearEnd})
		cursor = time.Date(cursor.Year()+1, time.January, 1, 0, 0, 0, 0, cursor.Location())
	}
	spans = append(spans, Span{Year: cursor.Year(), Start: cursor, End: p.End})
	return spans
}
