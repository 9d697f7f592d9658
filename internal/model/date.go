package model

import (
	"fmt"
	"time"
)

// DateLayout is the canonical calendar-date encoding used everywhere a date
// is persisted or travels over the API.
const DateLayout = "2006-01-02"

// Date is a calendar day in YYYY-MM-DD form. It deliberately carries no
// timezone: a booking binds a machine to a clinic for a civil day, not an
// instant.
type Date string

// ParseDate validates s against DateLayout and returns it as a Date.
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date(s), nil
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Time returns the midnight instant of the date in UTC. Invalid dates return
// the zero time; construct dates through ParseDate to avoid that.
func (d Date) Time() time.Time {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Valid reports whether d is a well-formed YYYY-MM-DD date.
func (d Date) Valid() bool {
	_, err := time.Parse(DateLayout, string(d))
	return err == nil
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// WeekOf returns the 7 dates of the Monday-to-Sunday week containing d,
// Monday first regardless of locale.
func WeekOf(d Date) []Date {
	// time.Weekday has Sunday == 0; shift so Monday == 0.
	back := (int(d.Time().Weekday()) + 6) % 7
	monday := d.AddDays(-back)

	week := make([]Date, 7)
	for i := range week {
		week[i] = monday.AddDays(i)
	}
	return week
}
