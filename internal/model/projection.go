package model

import "github.com/shopspring/decimal"

// DayItemType labels a single contribution to a day's cash flow.
type DayItemType string

const (
	ItemIncome  DayItemType = "income"
	ItemExpense DayItemType = "expense"
	ItemBill    DayItemType = "bill"
)

// DayItem is one line of a day's audit trail.
type DayItem struct {
	Type   DayItemType     `json:"type"`
	Title  string          `json:"title"`
	Amount decimal.Decimal `json:"amount"`
}

// Day is one bucket of the projected ledger. Income, Expense and Bills are
// non-negative sums for well-formed input.
type Day struct {
	Date      string          `json:"date"`
	Income    decimal.Decimal `json:"income"`
	Expense   decimal.Decimal `json:"expense"`
	Bills     decimal.Decimal `json:"bills"`
	NetChange decimal.Decimal `json:"netChange"`
	Balance   decimal.Decimal `json:"balance"`
	Items     []DayItem       `json:"items"`
}

// SkipKind names what kind of record was dropped from a projection.
type SkipKind string

const (
	SkipEvent    SkipKind = "event"
	SkipInstance SkipKind = "instance"
	SkipBill     SkipKind = "bill"
)

// Skip records an input that did not contribute to a projection and why.
type Skip struct {
	Kind   SkipKind `json:"kind"`
	ID     string   `json:"id,omitempty"`
	Date   string   `json:"date,omitempty"`
	Reason string   `json:"reason"`
}

// Projection is the result of a daily cash-flow simulation.
type Projection struct {
	StartDate           string          `json:"startDate"`
	EndDate             string          `json:"endDate"`
	StartingBalance     decimal.Decimal `json:"startingBalance"`
	ProjectedEndBalance decimal.Decimal `json:"projectedEndBalance"`
	LowestBalance       decimal.Decimal `json:"lowestBalance"`
	LowestDate          string          `json:"lowestDate"`
	TotalIncome         decimal.Decimal `json:"totalIncome"`
	TotalExpenses       decimal.Decimal `json:"totalExpenses"`
	TotalBills          decimal.Decimal `json:"totalBills"`
	TotalOut            decimal.Decimal `json:"totalOut"`
	Daily               []Day           `json:"daily"`
	Skipped             []Skip          `json:"skipped,omitempty"`
}
