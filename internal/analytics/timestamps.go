package analytics

import "time"

const (
	dayLayout   = "2006-01-02"
	monthLayout = "Jan 2006"
)

// DayKey formats the calendar date of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(location(loc)).Format(dayLayout)
}

// MonthKey formats the month of t in loc, e.g. "Mar 2026".
func MonthKey(t time.Time, loc *time.Location) string {
	return t.In(location(loc)).Format(monthLayout)
}

// HourOf returns the hour of day of t in loc.
func HourOf(t time.Time, loc *time.Location) int {
	return t.In(location(loc)).Hour()
}

// StartOfDay returns midnight of t's calendar date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(location(loc))
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, local.Location())
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
