// Package period resolves symbolic date-range tokens into concrete date
// intervals, honoring a configurable fiscal-year start month. Resolution
// never fails: malformed tokens and bounds fall back to defined defaults.
package period

import (
	"fmt"
	"time"

	"github.com/sells-group/revops-cli/internal/model"
)

// Symbolic range tokens accepted by Resolve.
const (
	TokenToday             = "today"
	TokenYesterday         = "yesterday"
	TokenThisWeek          = "thisWeek"
	TokenLastWeek          = "lastWeek"
	TokenThisMonth         = "thisMonth"
	TokenLastMonth         = "lastMonth"
	TokenThisQuarter       = "thisQuarter"
	TokenLastQuarter       = "lastQuarter"
	TokenNextQuarter       = "nextQuarter"
	TokenThisFiscalQuarter = "thisFiscalQuarter"
	TokenLastFiscalQuarter = "lastFiscalQuarter"
	TokenThisFiscalYear    = "thisFiscalYear"
	TokenLastFiscalYear    = "lastFiscalYear"
	TokenThisYear          = "thisYear"
	TokenLastYear          = "lastYear"
	TokenNextYear          = "nextYear"
	TokenLast7Days         = "last7days"
	TokenLast30Days        = "last30days"
	TokenLast90Days        = "last90days"
	TokenLast120Days       = "last120days"
	TokenCustom            = "custom"
	TokenAll               = "all"
)

// DefaultFiscalStartMonth is the zero-based month index the fiscal year
// starts on when no org setting is available (1 = February).
const DefaultFiscalStartMonth = 1

const dateLayout = "2006-01-02"

// Resolve maps a symbolic token plus optional explicit bounds to a concrete
// period. Unknown tokens resolve to the current calendar year. The
// fiscalStartMonth is zero-based (0 = January).
func Resolve(token, startDate, endDate string, now time.Time, fiscalStartMonth int) model.Period {
	if fiscalStartMonth < 0 || fiscalStartMonth > 11 {
		fiscalStartMonth = DefaultFiscalStartMonth
	}

	switch token {
	case TokenToday:
		return dayPeriod(now, "Today")
	case TokenYesterday:
		return dayPeriod(now.AddDate(0, 0, -1), "Yesterday")
	case TokenThisWeek:
		return weekPeriod(now, 0, "This Week")
	case TokenLastWeek:
		return weekPeriod(now, -1, "Last Week")
	case TokenThisMonth:
		return monthPeriod(now, 0, "This Month")
	case TokenLastMonth:
		return monthPeriod(now, -1, "Last Month")
	case TokenThisQuarter:
		return calendarQuarter(now, 0)
	case TokenLastQuarter:
		return calendarQuarter(now, -1)
	case TokenNextQuarter:
		return calendarQuarter(now, 1)
	case TokenThisFiscalQuarter:
		return fiscalQuarter(now, fiscalStartMonth, 0)
	case TokenLastFiscalQuarter:
		return fiscalQuarter(now, fiscalStartMonth, -1)
	case TokenThisFiscalYear:
		return fiscalYearPeriod(now, fiscalStartMonth, 0)
	case TokenLastFiscalYear:
		return fiscalYearPeriod(now, fiscalStartMonth, -1)
	case TokenThisYear:
		return yearPeriod(now.Year(), now.Location())
	case TokenLastYear:
		return yearPeriod(now.Year()-1, now.Location())
	case TokenNextYear:
		return yearPeriod(now.Year()+1, now.Location())
	case TokenLast7Days:
		return trailingDays(now, 7)
	case TokenLast30Days:
		return trailingDays(now, 30)
	case TokenLast90Days:
		return trailingDays(now, 90)
	case TokenLast120Days:
		return trailingDays(now, 120)
	case TokenAll:
		return model.Period{
			Start: time.Date(1970, time.January, 1, 0, 0, 0, 0, now.Location()),
			End:   endOfDay(now.AddDate(100, 0, 0)),
			Label: "All Time",
		}
	case TokenCustom:
		return customPeriod(startDate, endDate, now, fiscalStartMonth)
	default:
		return yearPeriod(now.Year(), now.Location())
	}
}

// PeriodName returns the display label a token resolves to, without needing
// explicit bounds.
func PeriodName(token string, now time.Time, fiscalStartMonth int) string {
	return Resolve(token, "", "", now, fiscalStartMonth).Label
}

// customPeriod applies the custom-bounds priority chain: both bounds, then
// start-only, then end-only, then default to the current calendar quarter.
func customPeriod(startDate, endDate string, now time.Time, fiscalStartMonth int) model.Period {
	start, startOK := parseDate(startDate, now.Location())
	end, endOK := parseDate(endDate, now.Location())

	switch {
	case startOK && endOK:
		if end.Before(start) {
			start, end = end, start
		}
		return model.Period{Start: startOfDay(start), End: endOfDay(end), Label: "Custom"}
	case startOK:
		return model.Period{Start: startOfDay(start), End: endOfDay(now), Label: "Custom"}
	case endOK:
		return model.Period{
			Start: time.Date(1970, time.January, 1, 0, 0, 0, 0, now.Location()),
			End:   endOfDay(end),
			Label: "Custom",
		}
	default:
		return calendarQuarter(now, 0)
	}
}

// FiscalYear returns the fiscal year the given instant falls in: the
// calendar year when the current month is at or past the fiscal start
// month, otherwise the prior calendar year.
func FiscalYear(now time.Time, fiscalStartMonth int) int {
	if monthIndex(now) >= fiscalStartMonth {
		return now.Year()
	}
	return now.Year() - 1
}

// FiscalQuarterNumber returns the 1-based fiscal quarter the instant falls
// in, wrapping the fiscal start month to offset zero.
func FiscalQuarterNumber(now time.Time, fiscalStartMonth int) int {
	offset := (monthIndex(now) - fiscalStartMonth + 12) % 12
	return offset/3 + 1
}

// fiscalQuarter resolves the fiscal quarter qDelta quarters away from now.
// Quarters that cross a calendar-year boundary span the boundary as one
// contiguous interval (months X..11 of year N, months 0..Y of year N+1).
func fiscalQuarter(now time.Time, fiscalStartMonth, qDelta int) model.Period {
	fy := FiscalYear(now, fiscalStartMonth)
	fq := FiscalQuarterNumber(now, fiscalStartMonth) - 1

	// Normalize fiscal year + quarter after applying the delta.
	total := fy*4 + fq + qDelta
	fy = total / 4
	fq = total % 4
	if fq < 0 {
		fq += 4
		fy--
	}

	startMonths := fiscalStartMonth + fq*3
	startYear := fy + startMonths/12
	startMonth := startMonths % 12

	endMonths := startMonths + 2
	endYear := fy + endMonths/12
	endMonth := endMonths % 12

	return model.Period{
		Start: time.Date(startYear, time.Month(startMonth+1), 1, 0, 0, 0, 0, now.Location()),
		End:   endOfMonth(endYear, endMonth, now.Location()),
		Label: fmt.Sprintf("FY%d Q%d", fy, fq+1),
	}
}

// fiscalYearPeriod resolves the fiscal year yDelta years away from now.
func fiscalYearPeriod(now time.Time, fiscalStartMonth, yDelta int) model.Period {
	fy := FiscalYear(now, fiscalStartMonth) + yDelta

	endMonths := fiscalStartMonth + 11
	endYear := fy + endMonths/12
	endMonth := endMonths % 12

	return model.Period{
		Start: time.Date(fy, time.Month(fiscalStartMonth+1), 1, 0, 0, 0, 0, now.Location()),
		End:   endOfMonth(endYear, endMonth, now.Location()),
		Label: fmt.Sprintf("FY%d", fy),
	}
}

func calendarQuarter(now time.Time, qDelta int) model.Period {
	total := now.Year()*4 + monthIndex(now)/3 + qDelta
	year := total / 4
	q := total % 4
	if q < 0 {
		q += 4
		year--
	}

	startMonth := q * 3
	return model.Period{
		Start: time.Date(year, time.Month(startMonth+1), 1, 0, 0, 0, 0, now.Location()),
		End:   endOfMonth(year, startMonth+2, now.Location()),
		Label: fmt.Sprintf("Q%d %d", q+1, year),
	}
}

func yearPeriod(year int, loc *time.Location) model.Period {
	return model.Period{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, loc),
		End:   time.Date(year, time.December, 31, 23, 59, 59, 0, loc),
		Label: fmt.Sprintf("%d", year),
	}
}

func dayPeriod(t time.Time, label string) model.Period {
	return model.Period{Start: startOfDay(t), End: endOfDay(t), Label: label}
}

// weekPeriod resolves the Sunday-start week wDelta weeks away from now.
func weekPeriod(now time.Time, wDelta int, label string) model.Period {
	start := startOfDay(now.AddDate(0, 0, -int(now.Weekday())+wDelta*7))
	return model.Period{Start: start, End: endOfDay(start.AddDate(0, 0, 6)), Label: label}
}

func monthPeriod(now time.Time, mDelta int, label string) model.Period {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, mDelta, 0)
	return model.Period{
		Start: first,
		End:   endOfMonth(first.Year(), monthIndex(first), now.Location()),
		Label: label,
	}
}

func trailingDays(now time.Time, n int) model.Period {
	return model.Period{
		Start: startOfDay(now.AddDate(0, 0, -n)),
		End:   endOfDay(now),
		Label: fmt.Sprintf("Last %d Days", n),
	}
}

// monthIndex returns the zero-based month of t.
func monthIndex(t time.Time) int { return int(t.Month()) - 1 }

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// endOfMonth returns the last second of the zero-based month m of the given
// year.
func endOfMonth(year, m int, loc *time.Location) time.Time {
	firstOfNext := time.Date(year, time.Month(m+1), 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0)
	return firstOfNext.Add(-time.Second)
}

func parseDate(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
