// Package ics converts between runway events and iCalendar files.
package ics

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/cleared-dev/runway/internal/id"
	"github.com/cleared-dev/runway/internal/isodate"
	"github.com/cleared-dev/runway/internal/model"
)

// Custom properties carrying cash-flow data.
const (
	PropFlow   ical.ComponentProperty = "X-RUNWAY-FLOW"
	PropAmount ical.ComponentProperty = "X-RUNWAY-AMOUNT"
)

// flowBill marks exported bills in PropFlow.
const flowBill = "bill"

const productID = "-//runway//cash-flow calendar//EN"

// ExportOptions controls calendar output.
type ExportOptions struct {
	Name     string       // X-WR-CALNAME, optional
	Currency string       // appended to descriptions, optional
	Bills    []model.Bill // exported alongside the instances
	Now      time.Time    // DTSTAMP; zero means time.Now
}

// Export writes one all-day VEVENT per instance (and per dated bill).
// Recurrence is already expanded, so no RRULEs are emitted.
func Export(w io.Writer, instances []model.EventInstance, opts ExportOptions) error {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}

	for _, inst := range instances {
		day, err := isodate.Parse(inst.InstanceDate)
		if err != nil {
			return fmt.Errorf("exporting %s: %w", inst.BaseID, err)
		}
		ev := cal.AddEvent(id.FormatInstanceKey(inst.BaseID, inst.InstanceDate))
		addDay(ev, day, now, inst.Title)
		ev.SetProperty(PropFlow, string(inst.Flow))
		setAmount(ev, inst.Amount, string(inst.Flow), opts.Currency)
	}

	for _, b := range opts.Bills {
		day, err := isodate.Parse(b.DueDate)
		if err != nil {
			continue
		}
		ev := cal.AddEvent(id.FormatInstanceKey(b.ID, b.DueDate))
		addDay(ev, day, now, b.Name)
		ev.SetProperty(PropFlow, flowBill)
		setAmount(ev, b.Amount, flowBill, opts.Currency)
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	return nil
}

func addDay(ev *ical.VEvent, day, now time.Time, title string) {
	ev.SetDtStampTime(now)
	ev.SetAllDayStartAt(day)
	ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
	ev.SetSummary(title)
}

func setAmount(ev *ical.VEvent, amt model.Amount, flow, currency string) {
	if !amt.Valid {
		return
	}
	ev.SetProperty(PropAmount, amt.String())
	desc := flow + " " + amt.String()
	if currency != "" {
		desc += " " + currency
	}
	ev.SetDescription(desc)
}
