package projection

import (
	"github.com/cleared-dev/runway/internal/isodate"
	"github.com/cleared-dev/runway/internal/model"
)

// ExpandInstances materializes every occurrence of events within
// [start, end] inclusive. Events without an ID or a valid anchor date are
// ignored. Instances come out in event order, anchor first, then recurring
// instances by date.
func ExpandInstances(events []model.CalendarEvent, start, end string) []model.EventInstance {
	instances, _ := expand(events, start, end)
	return instances
}

// expand is ExpandInstances plus the list of events it had to ignore.
func expand(events []model.CalendarEvent, start, end string) ([]model.EventInstance, []model.Skip) {
	var (
		out     []model.EventInstance
		skipped []model.Skip
	)

	window := isodate.Range(start, end)

	for _, ev := range events {
		switch {
		case ev.ID == "":
			skipped = append(skipped, model.Skip{Kind: model.SkipEvent, Date: ev.Date, Reason: "missing id"})
			continue
		case ev.Date == "":
			skipped = append(skipped, model.Skip{Kind: model.SkipEvent, ID: ev.ID, Reason: "missing date"})
			continue
		case !isodate.Valid(ev.Date):
			skipped = append(skipped, model.Skip{Kind: model.SkipEvent, ID: ev.ID, Date: ev.Date, Reason: "invalid date"})
			continue
		}

		if ev.Date >= start && ev.Date <= end && !ev.Excepted(ev.Date) {
			out = append(out, instanceOf(ev, ev.Date, false))
		}

		if !ev.Recurrence.IsRecurring() {
			continue
		}
		for _, d := range window {
			if d == ev.Date || ev.Excepted(d) {
				continue
			}
			if RecurrenceMatches(ev.Recurrence, d, ev.Date) {
				out = append(out, instanceOf(ev, d, true))
			}
		}
	}

	return out, skipped
}

func instanceOf(ev model.CalendarEvent, date string, recurring bool) model.EventInstance {
	return model.EventInstance{
		CalendarEvent:       ev.WithOverride(date),
		BaseID:              ev.ID,
		InstanceDate:        date,
		IsRecurringInstance: recurring,
	}
}
