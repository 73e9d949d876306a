package model

import (
	"bytes"
	"encoding/json"
	"slices"
)

// Flow tells whether an event adds money, removes it, or neither.
type Flow string

const (
	FlowIncome  Flow = "income"
	FlowExpense Flow = "expense"
	FlowNeutral Flow = "neutral"
)

// Frequency is the recurrence cadence of a calendar event.
type Frequency string

const (
	FreqNone    Frequency = "none"
	FreqWeekly  Frequency = "weekly"
	FreqMonthly Frequency = "monthly"
)

// Recurrence describes how an event repeats from its anchor date.
type Recurrence struct {
	Freq       Frequency `json:"freq"`
	Interval   int       `json:"interval,omitempty"`
	ByWeekday  *int      `json:"byWeekday,omitempty"`  // 0=Sunday..6, weekly only
	ByMonthday *int      `json:"byMonthday,omitempty"` // 1..31, monthly only
	Until      string    `json:"until,omitempty"`
}

// IsRecurring reports whether the recurrence generates instances beyond the anchor.
func (r Recurrence) IsRecurring() bool {
	return r.Freq != "" && r.Freq != FreqNone
}

// Override replaces fields of a single instance. Nil fields are left alone.
// An "amount" key that is present but null or unparseable yields a non-nil
// invalid Amount, so the instance is skipped rather than keeping the base
// amount.
type Override struct {
	Title  *string `json:"title,omitempty"`
	Flow   *Flow   `json:"flow,omitempty"`
	Amount *Amount `json:"amount,omitempty"`
}

func (o *Override) UnmarshalJSON(data []byte) error {
	type plain Override
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["amount"]; ok && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		p.Amount = &Amount{}
	}
	*o = Override(p)
	return nil
}

// CalendarEvent is a possibly recurring income or expense entry.
type CalendarEvent struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Date       string              `json:"date"` // anchor date, YYYY-MM-DD
	Flow       Flow                `json:"flow"`
	Amount     Amount              `json:"amount"`
	Recurrence Recurrence          `json:"recurrence"`
	Exceptions []string            `json:"exceptions,omitempty"`
	Overrides  map[string]Override `json:"overrides,omitempty"`
}

// Excepted reports whether date is listed as an exception.
func (e CalendarEvent) Excepted(date string) bool {
	return slices.Contains(e.Exceptions, date)
}

// WithOverride returns a copy of e with the override for date merged in.
func (e CalendarEvent) WithOverride(date string) CalendarEvent {
	o, ok := e.Overrides[date]
	if !ok {
		return e
	}
	if o.Title != nil {
		e.Title = *o.Title
	}
	if o.Flow != nil {
		e.Flow = *o.Flow
	}
	if o.Amount != nil {
		e.Amount = *o.Amount
	}
	return e
}

// EventInstance is one concrete occurrence of a CalendarEvent. Instances are
// derived on demand and never stored.
type EventInstance struct {
	CalendarEvent
	BaseID              string `json:"_baseId"`
	InstanceDate        string `json:"_instanceDate"`
	IsRecurringInstance bool   `json:"_isRecurringInstance"`
}

// Bill is a one-off outflow on its due date.
type Bill struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	DueDate string `json:"dueDate"`
	Amount  Amount `json:"amount"`
}
