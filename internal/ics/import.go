package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/cleared-dev/runway/internal/isodate"
	"github.com/cleared-dev/runway/internal/model"
)

// propRecurrenceID identifies an overridden occurrence.
const propRecurrenceID ical.ComponentProperty = "RECURRENCE-ID"

// maxCountExpansion bounds the occurrences generated to resolve COUNT.
const maxCountExpansion = 5000

// Import reads VEVENTs into calendar events. Rules the recurrence model
// cannot express import as one-off events and produce a warning. VEVENTs
// with a RECURRENCE-ID become overrides on their base event.
func Import(r io.Reader) ([]model.CalendarEvent, []string, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing calendar: %w", err)
	}

	var (
		events    []model.CalendarEvent
		warnings  []string
		byUID     = make(map[string]int)
		overrides []*ical.VEvent
	)
	for _, ve := range cal.Events() {
		if ve.GetProperty(propRecurrenceID) != nil {
			overrides = append(overrides, ve)
			continue
		}
		ev, warns, err := parseEvent(ve)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		warnings = append(warnings, warns...)
		if _, dup := byUID[ev.ID]; dup {
			warnings = append(warnings, fmt.Sprintf("%s: duplicate UID, keeping the first", ev.ID))
			continue
		}
		byUID[ev.ID] = len(events)
		events = append(events, ev)
	}

	for _, ve := range overrides {
		if w := applyOverride(ve, events, byUID); w != "" {
			warnings = append(warnings, w)
		}
	}
	return events, warnings, nil
}

func propValue(ve *ical.VEvent, p ical.ComponentProperty) string {
	if prop := ve.GetProperty(p); prop != nil {
		return prop.Value
	}
	return ""
}

// icsDate converts a DATE or DATE-TIME value to YYYY-MM-DD using its
// calendar date as written.
func icsDate(v string) (string, error) {
	v = strings.TrimSpace(v)
	if len(v) < 8 {
		return "", fmt.Errorf("invalid date %q", v)
	}
	s := v[0:4] + "-" + v[4:6] + "-" + v[6:8]
	if !isodate.Valid(s) {
		return "", fmt.Errorf("invalid date %q", v)
	}
	return s, nil
}

func parseEvent(ve *ical.VEvent) (model.CalendarEvent, []string, error) {
	uid := propValue(ve, ical.ComponentPropertyUniqueId)
	if uid == "" {
		return model.CalendarEvent{}, nil, fmt.Errorf("event without UID skipped")
	}
	date, err := icsDate(propValue(ve, ical.ComponentPropertyDtStart))
	if err != nil {
		return model.CalendarEvent{}, nil, fmt.Errorf("%s: DTSTART: %w", uid, err)
	}

	ev := model.CalendarEvent{
		ID:         uid,
		Title:      propValue(ve, ical.ComponentPropertySummary),
		Date:       date,
		Flow:       parseFlow(propValue(ve, PropFlow)),
		Amount:     model.ParseAmount(propValue(ve, PropAmount)),
		Recurrence: model.Recurrence{Freq: model.FreqNone},
	}

	var warnings []string
	if raw := propValue(ve, ical.ComponentPropertyRrule); raw != "" {
		rec, err := convertRule(raw, date)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v; imported as a one-off event", uid, err))
		} else {
			ev.Recurrence = rec
		}
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if part = strings.TrimSpace(part); part == "" {
				continue
			}
			if d, err := icsDate(part); err == nil {
				ev.Exceptions = append(ev.Exceptions, d)
			}
		}
	}
	return ev, warnings, nil
}

func parseFlow(v string) model.Flow {
	switch f := model.Flow(strings.ToLower(strings.TrimSpace(v))); f {
	case model.FlowIncome, model.FlowExpense:
		return f
	case flowBill:
		return model.FlowExpense
	default:
		return model.FlowNeutral
	}
}

// convertRule maps an RRULE onto the weekly/monthly recurrence model.
func convertRule(raw, anchor string) (model.Recurrence, error) {
	opt, err := rrule.StrToROption(raw)
	if err != nil {
		return model.Recurrence{}, fmt.Errorf("unparsable RRULE %q", raw)
	}
	start, err := isodate.Parse(anchor)
	if err != nil {
		return model.Recurrence{}, err
	}

	rec := model.Recurrence{Interval: max(opt.Interval, 1)}
	switch opt.Freq {
	case rrule.WEEKLY:
		if len(opt.Byweekday) > 1 || len(opt.Bymonthday) > 0 || len(opt.Bysetpos) > 0 {
			return model.Recurrence{}, fmt.Errorf("unsupported weekly rule %q", raw)
		}
		wd := int(start.Weekday())
		if len(opt.Byweekday) == 1 {
			// rrule counts Monday as 0; time.Weekday counts Sunday as 0.
			wd = (opt.Byweekday[0].Day() + 1) % 7
		}
		rec.Freq = model.FreqWeekly
		rec.ByWeekday = &wd

	case rrule.MONTHLY:
		if len(opt.Byweekday) > 0 || len(opt.Bysetpos) > 0 || len(opt.Bymonthday) > 1 {
			return model.Recurrence{}, fmt.Errorf("unsupported monthly rule %q", raw)
		}
		day := start.Day()
		if len(opt.Bymonthday) == 1 {
			if opt.Bymonthday[0] <= 0 {
				return model.Recurrence{}, fmt.Errorf("unsupported monthly rule %q", raw)
			}
			day = opt.Bymonthday[0]
		}
		rec.Freq = model.FreqMonthly
		rec.ByMonthday = &day

	default:
		return model.Recurrence{}, fmt.Errorf("unsupported frequency in %q", raw)
	}

	switch {
	case !opt.Until.IsZero():
		rec.Until = isodate.FromTime(opt.Until)
	case opt.Count > 0:
		last, err := lastOccurrence(*opt, start)
		if err != nil {
			return model.Recurrence{}, err
		}
		rec.Until = last
	}
	return rec, nil
}

// lastOccurrence resolves COUNT to the date of the final occurrence.
func lastOccurrence(opt rrule.ROption, start time.Time) (string, error) {
	if opt.Count > maxCountExpansion {
		return "", fmt.Errorf("COUNT=%d too large", opt.Count)
	}
	opt.Dtstart = start
	r, err := rrule.NewRRule(opt)
	if err != nil {
		return "", fmt.Errorf("expanding COUNT: %w", err)
	}
	all := r.All()
	if len(all) == 0 {
		return "", fmt.Errorf("rule has no occurrences")
	}
	return isodate.FromTime(all[len(all)-1]), nil
}

// applyOverride folds a RECURRENCE-ID VEVENT into its base event's
// overrides. It returns a warning when the override cannot be applied.
func applyOverride(ve *ical.VEvent, events []model.CalendarEvent, byUID map[string]int) string {
	uid := propValue(ve, ical.ComponentPropertyUniqueId)
	i, ok := byUID[uid]
	if !ok {
		return fmt.Sprintf("%s: override without a base event skipped", uid)
	}
	date, err := icsDate(propValue(ve, propRecurrenceID))
	if err != nil {
		return fmt.Sprintf("%s: RECURRENCE-ID: %v", uid, err)
	}

	var o model.Override
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		title := p.Value
		o.Title = &title
	}
	if p := ve.GetProperty(PropFlow); p != nil {
		flow := parseFlow(p.Value)
		o.Flow = &flow
	}
	if amt := model.ParseAmount(propValue(ve, PropAmount)); amt.Valid {
		o.Amount = &amt
	}

	ev := &events[i]
	if ev.Overrides == nil {
		ev.Overrides = make(map[string]model.Override)
	}
	ev.Overrides[date] = o

	if start, err := icsDate(propValue(ve, ical.ComponentPropertyDtStart)); err == nil && start != date {
		return fmt.Sprintf("%s: occurrence on %s moved to %s; kept on its original date", uid, date, start)
	}
	return ""
}
