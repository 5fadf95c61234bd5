package analytics

import "time"

// Interval is an inclusive calendar date range. Start and End are
// midnight-UTC dates.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the date of t falls inside the interval
func (iv Interval) Contains(t time.Time) bool {
	d := dateOf(t)
	return !d.Before(iv.Start) && !d.After(iv.End)
}

// Days returns the number of calendar days the interval spans
func (iv Interval) Days() int {
	return daysBetween(iv.Start, iv.End) + 1
}

// PeriodKind selects how the primary statistics interval is resolved
type PeriodKind string

const (
	PeriodWeek    PeriodKind = "week"
	PeriodMonth   PeriodKind = "month"
	PeriodQuarter PeriodKind = "quarter"
	PeriodYear    PeriodKind = "year"
	PeriodCustom  PeriodKind = "custom"
)

// IsValid checks if the PeriodKind is a valid enum value
func (pk PeriodKind) IsValid() bool {
	switch pk {
	case PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear, PeriodCustom:
		return true
	}
	return false
}

// ComparisonMode selects how the comparison interval is derived
type ComparisonMode string

const (
	// ComparePrevious is the block of equal length immediately before the
	// primary interval, ending the day before it starts.
	ComparePrevious ComparisonMode = "previous"
	// CompareSameLastYear is the primary interval shifted back one year.
	CompareSameLastYear ComparisonMode = "sameLastYear"
)

// IsValid checks if the ComparisonMode is a valid enum value
func (cm ComparisonMode) IsValid() bool {
	switch cm {
	case ComparePrevious, CompareSameLastYear:
		return true
	}
	return false
}

// ResolvePeriod turns a period selection into a concrete interval relative
// to now. Week is the trailing seven days, month and quarter are the
// calendar block containing now, year runs from January 1st to today.
// Custom bounds are swapped when given in reverse.
func ResolvePeriod(kind PeriodKind, customStart, customEnd time.Time, now time.Time) Interval {
	today := dateOf(now)
	switch kind {
	case PeriodWeek:
		return Interval{Start: today.AddDate(0, 0, -7), End: today}
	case PeriodQuarter:
		qStart := time.Date(today.Year(), quarterStartMonth(today.Month()), 1, 0, 0, 0, 0, time.UTC)
		return Interval{Start: qStart, End: qStart.AddDate(0, 3, -1)}
	case PeriodYear:
		return Interval{Start: time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), End: today}
	case PeriodCustom:
		start, end := dateOf(customStart), dateOf(customEnd)
		if start.After(end) {
			start, end = end, start
		}
		return Interval{Start: start, End: end}
	default: // PeriodMonth
		mStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return Interval{Start: mStart, End: mStart.AddDate(0, 1, -1)}
	}
}

// ResolveComparison derives the comparison interval for a primary one
func ResolveComparison(mode ComparisonMode, primary Interval) Interval {
	if mode == CompareSameLastYear {
		return Interval{
			Start: primary.Start.AddDate(-1, 0, 0),
			End:   primary.End.AddDate(-1, 0, 0),
		}
	}
	span := daysBetween(primary.Start, primary.End)
	end := primary.Start.AddDate(0, 0, -1)
	return Interval{Start: end.AddDate(0, 0, -span), End: end}
}

func quarterStartMonth(m time.Month) time.Month {
	return time.Month((int(m)-1)/3*3 + 1)
}
