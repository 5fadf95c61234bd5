package analytics_test

import (
	"testing"
	"time"

	"github.com/solemia/studio-api/internal/analytics"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolvePeriod(t *testing.T) {
	now := time.Date(2025, time.June, 15, 14, 30, 0, 0, time.UTC)

	week := analytics.ResolvePeriod(analytics.PeriodWeek, time.Time{}, time.Time{}, now)
	assert.Equal(t, date(2025, time.June, 8), week.Start)
	assert.Equal(t, date(2025, time.June, 15), week.End)

	month := analytics.ResolvePeriod(analytics.PeriodMonth, time.Time{}, time.Time{}, now)
	assert.Equal(t, date(2025, time.June, 1), month.Start)
	assert.Equal(t, date(2025, time.June, 30), month.End)

	quarter := analytics.ResolvePeriod(analytics.PeriodQuarter, time.Time{}, time.Time{}, now)
	assert.Equal(t, date(2025, time.April, 1), quarter.Start)
	assert.Equal(t, date(2025, time.June, 30), quarter.End)

	year := analytics.ResolvePeriod(analytics.PeriodYear, time.Time{}, time.Time{}, now)
	assert.Equal(t, date(2025, time.January, 1), year.Start)
	assert.Equal(t, date(2025, time.June, 15), year.End)
}

func TestResolvePeriod_CustomSwapsReversedBounds(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	iv := analytics.ResolvePeriod(analytics.PeriodCustom, date(2025, time.March, 20), date(2025, time.March, 5), now)

	assert.Equal(t, date(2025, time.March, 5), iv.Start)
	assert.Equal(t, date(2025, time.March, 20), iv.End)
}

func TestResolveComparison_Previous(t *testing.T) {
	primary := analytics.Interval{Start: date(2025, time.June, 11), End: date(2025, time.June, 20)}

	prev := analytics.ResolveComparison(analytics.ComparePrevious, primary)

	// Same 10-day span, ending the day before the primary starts.
	assert.Equal(t, date(2025, time.June, 1), prev.Start)
	assert.Equal(t, date(2025, time.June, 10), prev.End)
	assert.Equal(t, primary.Days(), prev.Days())
}

func TestResolveComparison_SameLastYear(t *testing.T) {
	primary := analytics.Interval{Start: date(2025, time.June, 1), End: date(2025, time.June, 30)}

	prev := analytics.ResolveComparison(analytics.CompareSameLastYear, primary)

	assert.Equal(t, date(2024, time.June, 1), prev.Start)
	assert.Equal(t, date(2024, time.June, 30), prev.End)
}

func TestInterval_Contains(t *testing.T) {
	iv := analytics.Interval{Start: date(2025, time.June, 1), End: date(2025, time.June, 3)}

	assert.True(t, iv.Contains(date(2025, time.June, 1)))
	assert.True(t, iv.Contains(time.Date(2025, time.June, 3, 23, 0, 0, 0, time.UTC)))
	assert.False(t, iv.Contains(date(2025, time.May, 31)))
	assert.False(t, iv.Contains(date(2025, time.June, 4)))
	assert.Equal(t, 3, iv.Days())
}
