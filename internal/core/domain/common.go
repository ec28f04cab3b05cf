package domain

import "time"

// DateLayout is the wire and storage form of calendar dates.
const DateLayout = "2006-01-02"

// DateOf returns t's calendar date as midnight UTC. Journals, rates and
// idempotency keys only ever compare calendar dates.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
