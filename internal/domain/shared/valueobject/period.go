package valueobject

import (
	"fmt"
	"time"
)

// Period is the half-open date range [Start, End) one invoice covers.
// Period boundaries are dates; the time component is always midnight UTC.
type Period struct {
	Start time.Time
	End   time.Time
}

// PeriodOf returns the index-th billing period of a schedule anchored at
// anchor, each period spanning the given number of months. Both boundaries
// derive from the anchor, never from a clamped period start: a monthly
// schedule anchored on Jan 31 runs [Jan 31, Feb 28), [Feb 28, Mar 31),
// [Mar 31, Apr 30), each period's end equal to the next period's start.
func PeriodOf(anchor time.Time, index, months int) Period {
	return Period{
		Start: AddMonths(anchor, index*months),
		End:   AddMonths(anchor, (index+1)*months),
	}
}

// Contains reports whether t falls inside the half-open interval [Start, End)
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// String returns the period in "2006-01-02/2006-01-02" form
func (p Period) String() string {
	return fmt.Sprintf("%s/%s", p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))
}

// Date truncates t to its date at midnight UTC
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AddMonths advances a date by n calendar months, clamping to the last day
// of the target month. A lease starting Jan 31 bills Feb 28 (or 29), not
// Mar 3, which is what time.AddDate's normalization would produce.
func AddMonths(t time.Time, n int) time.Time {
	t = Date(t)
	year, month, day := t.Date()
	m := int(month) + n
	year += (m - 1) / 12
	m = (m-1)%12 + 1
	if m <= 0 {
		m += 12
		year--
	}
	if last := daysInMonth(year, time.Month(m)); day > last {
		day = last
	}
	return time.Date(year, time.Month(m), day, 0, 0, 0, 0, time.UTC)
}

// MonthsBetween returns the number of whole calendar months from a to b,
// counting month boundaries only; the day component is ignored. Billing
// period starts always share the lease start's day of month (modulo month
// length clamping), so month counting is exact for aligned dates.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
