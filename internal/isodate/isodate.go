// Package isodate works with calendar dates serialized as YYYY-MM-DD.
//
// Two well-formed ISO dates compare lexically in the same order as they
// compare chronologically, so callers are free to use plain string
// comparison for range checks and sorting.
package isodate

import (
	"fmt"
	"time"
)

// Layout is the ISO calendar date layout.
const Layout = "2006-01-02"

// Parse parses a YYYY-MM-DD string into midnight UTC of that day.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// Valid reports whether s is a well-formed ISO date.
func Valid(s string) bool {
	_, err := time.Parse(Layout, s)
	return err == nil
}

// Format renders the calendar day of t as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// FromTime drops the clock part of t, keeping its calendar day in t's location.
func FromTime(t time.Time) string {
	return Format(Date(t.Year(), t.Month(), t.Day()))
}

// Today returns the current local calendar date.
func Today() string {
	return FromTime(time.Now())
}

// Date returns midnight UTC for the given calendar day, normalizing overflow.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// AddDays adds n days (n may be negative) to an ISO date.
func AddDays(s string, n int) (string, error) {
	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	return Format(t.AddDate(0, 0, n)), nil
}

// MustAddDays is like AddDays but panics on a malformed date.
func MustAddDays(s string, n int) string {
	out, err := AddDays(s, n)
	if err != nil {
		panic(err.Error())
	}
	return out
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the following month is the last day of this one.
	return Date(year, month+1, 0).Day()
}

// WeekStart returns the Sunday that starts t's week.
func WeekStart(t time.Time) time.Time {
	return t.AddDate(0, 0, -int(t.Weekday()))
}

// DaysBetween returns the whole number of days from a to b. It counts
// seconds directly since time.Duration saturates after about 292 years.
func DaysBetween(a, b time.Time) int {
	return int((b.Unix() - a.Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// Range returns every date from start to end inclusive. It returns nil when
// either bound is malformed or end precedes start.
func Range(start, end string) []string {
	s, err := Parse(start)
	if err != nil {
		return nil
	}
	e, err := Parse(end)
	if err != nil || e.Before(s) {
		return nil
	}
	out := make([]string, 0, DaysBetween(s, e)+1)
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		out = append(out, Format(d))
	}
	return out
}
