// Package projection expands recurring calendar events into dated instances
// and simulates a day-by-day balance walk over a horizon.
//
// Everything here is a pure function of its inputs.
package projection

import (
	"time"

	"github.com/cleared-dev/runway/internal/isodate"
	"github.com/cleared-dev/runway/internal/model"
)

const (
	minInterval = 1
	maxInterval = 52
)

// RecurrenceMatches reports whether candidate is generated by rec for an
// event anchored on anchor. Both dates are YYYY-MM-DD. The anchor itself is
// not special-cased here; ExpandInstances emits it separately.
func RecurrenceMatches(rec model.Recurrence, candidate, anchor string) bool {
	if !rec.IsRecurring() {
		return false
	}
	if rec.Until != "" && candidate > rec.Until {
		return false
	}

	cand, err := isodate.Parse(candidate)
	if err != nil {
		return false
	}
	anch, err := isodate.Parse(anchor)
	if err != nil {
		return false
	}

	interval := clamp(rec.Interval, minInterval, maxInterval)

	switch rec.Freq {
	case model.FreqWeekly:
		if rec.ByWeekday == nil || int(cand.Weekday()) != *rec.ByWeekday {
			return false
		}
		days := isodate.DaysBetween(isodate.WeekStart(anch), isodate.WeekStart(cand))
		weeks := days / 7
		return weeks >= 0 && weeks%interval == 0

	case model.FreqMonthly:
		if rec.ByMonthday == nil {
			return false
		}
		day := clamp(*rec.ByMonthday, 1, 31)
		effective := min(day, isodate.DaysInMonth(cand.Year(), cand.Month()))
		if cand.Day() != effective {
			return false
		}
		months := monthIndex(cand) - monthIndex(anch)
		return months >= 0 && months%interval == 0
	}

	return false
}

func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month())
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
