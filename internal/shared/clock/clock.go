package clock

import "time"

// DateFormat is the calendar-date layout used across stores and ledger entries.
const DateFormat = "2006-01-02"

// Clock supplies "today" as a UTC calendar date. Injected so reminder logic
// can be tested against fixed dates.
type Clock interface {
	Today() time.Time
}

// UTC is the production clock.
type UTC struct{}

// Today returns the current UTC date truncated to midnight.
func (UTC) Today() time.Time {
	return Midnight(time.Now().UTC())
}

// Fixed is a clock pinned to a single date, for tests and replays.
type Fixed struct {
	Date time.Time
}

// Today returns the pinned date truncated to midnight.
func (f Fixed) Today() time.Time {
	return Midnight(f.Date)
}

// Midnight truncates t to the start of its UTC day.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date. The boolean is false when the
// value is absent or unparseable.
func ParseDate(value string) (time.Time, bool) {
	t, err := time.Parse(DateFormat, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
