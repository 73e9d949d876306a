package projection

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/runway/internal/isodate"
	"github.com/cleared-dev/runway/internal/model"
)

// Horizon bounds, in days.
const (
	DefaultHorizonDays = 30
	MinHorizonDays     = 7
	MaxHorizonDays     = 365
)

var (
	// ErrMissingStartingBalance is returned when the starting balance is absent
	// or not a finite number. No simulation is performed.
	ErrMissingStartingBalance = errors.New("missing starting balance")
	// ErrInvalidStartDate is returned when the start date is not YYYY-MM-DD.
	ErrInvalidStartDate = errors.New("invalid start date")
)

// ProjectParams holds the inputs of a cash-flow projection.
type ProjectParams struct {
	StartDate       string
	HorizonDays     int // 0 means DefaultHorizonDays
	StartingBalance model.Amount
	Events          []model.CalendarEvent
	Bills           []model.Bill
}

// ClampHorizon applies the default and the [MinHorizonDays, MaxHorizonDays] bounds.
func ClampHorizon(days int) int {
	if days == 0 {
		return DefaultHorizonDays
	}
	return clamp(days, MinHorizonDays, MaxHorizonDays)
}

// Project simulates the daily balance from StartDate over the horizon.
// Malformed events, instances and bills are left out of the totals and
// listed in Projection.Skipped.
func Project(params ProjectParams) (*model.Projection, error) {
	if !params.StartingBalance.Valid {
		return nil, ErrMissingStartingBalance
	}
	if !isodate.Valid(params.StartDate) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStartDate, params.StartDate)
	}

	start := params.StartDate
	horizon := ClampHorizon(params.HorizonDays)
	end := isodate.MustAddDays(start, horizon-1)

	dates := isodate.Range(start, end)
	days := make([]model.Day, len(dates))
	index := make(map[string]int, len(dates))
	for i, d := range dates {
		days[i] = model.Day{Date: d, Items: []model.DayItem{}}
		index[d] = i
	}

	instances, skipped := expand(params.Events, start, end)
	for _, inst := range instances {
		if !inst.Amount.Valid {
			skipped = append(skipped, model.Skip{Kind: model.SkipInstance, ID: inst.BaseID, Date: inst.InstanceDate, Reason: "invalid amount"})
			continue
		}
		day := &days[index[inst.InstanceDate]]
		amount := inst.Amount.Decimal
		switch inst.Flow {
		case model.FlowIncome:
			day.Income = day.Income.Add(amount)
			day.Items = append(day.Items, model.DayItem{Type: model.ItemIncome, Title: inst.Title, Amount: amount})
		case model.FlowExpense:
			day.Expense = day.Expense.Add(amount)
			day.Items = append(day.Items, model.DayItem{Type: model.ItemExpense, Title: inst.Title, Amount: amount})
		default:
			skipped = append(skipped, model.Skip{Kind: model.SkipInstance, ID: inst.BaseID, Date: inst.InstanceDate, Reason: "neutral flow"})
		}
	}

	for _, b := range params.Bills {
		i, inWindow := index[b.DueDate]
		switch {
		case b.DueDate == "":
			skipped = append(skipped, model.Skip{Kind: model.SkipBill, ID: b.ID, Reason: "missing date"})
			continue
		case !inWindow:
			skipped = append(skipped, model.Skip{Kind: model.SkipBill, ID: b.ID, Date: b.DueDate, Reason: "outside window"})
			continue
		case !b.Amount.Valid:
			skipped = append(skipped, model.Skip{Kind: model.SkipBill, ID: b.ID, Date: b.DueDate, Reason: "invalid amount"})
			continue
		}
		day := &days[i]
		day.Bills = day.Bills.Add(b.Amount.Decimal)
		day.Items = append(day.Items, model.DayItem{Type: model.ItemBill, Title: b.Name, Amount: b.Amount.Decimal})
	}

	result := &model.Projection{
		StartDate:       start,
		EndDate:         end,
		StartingBalance: params.StartingBalance.Decimal,
		Skipped:         skipped,
	}

	balance := params.StartingBalance.Decimal
	var lowest decimal.Decimal
	for i := range days {
		d := &days[i]
		d.NetChange = d.Income.Sub(d.Expense).Sub(d.Bills)
		balance = balance.Add(d.NetChange)
		d.Balance = balance

		result.TotalIncome = result.TotalIncome.Add(d.Income)
		result.TotalExpenses = result.TotalExpenses.Add(d.Expense)
		result.TotalBills = result.TotalBills.Add(d.Bills)

		// Strict comparison keeps the earliest date on ties.
		if i == 0 || balance.LessThan(lowest) {
			lowest = balance
			result.LowestDate = d.Date
		}
	}

	result.LowestBalance = lowest
	result.ProjectedEndBalance = balance
	result.TotalOut = result.TotalExpenses.Add(result.TotalBills)
	result.Daily = days
	return result, nil
}
