package projection

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/runway/internal/isodate"
	"github.com/cleared-dev/runway/internal/model"
)

func TestProject_SingleBill(t *testing.T) {
	p, err := Project(ProjectParams{
		StartDate:       "2025-03-01",
		HorizonDays:     7,
		StartingBalance: amt("1000"),
		Bills:           []model.Bill{{Name: "Power", DueDate: "2025-03-04", Amount: amt("200")}},
	})
	require.NoError(t, err)

	assertDec(t, "800", p.ProjectedEndBalance)
	assertDec(t, "800", p.LowestBalance)
	assert.Equal(t, "2025-03-04", p.LowestDate)
	assertDec(t, "200", p.TotalBills)
	assertDec(t, "200", p.TotalOut)
	assertDec(t, "0", p.TotalIncome)
}

func TestProject_WindowShape(t *testing.T) {
	for _, horizon := range []int{7, 30, 90, 365} {
		p, err := Project(ProjectParams{StartDate: "2025-01-15", HorizonDays: horizon, StartingBalance: amt("0")})
		require.NoError(t, err)

		require.Len(t, p.Daily, horizon)
		assert.Equal(t, "2025-01-15", p.Daily[0].Date)
		assert.Equal(t, p.EndDate, p.Daily[horizon-1].Date)
		assert.Equal(t, isodate.MustAddDays("2025-01-15", horizon-1), p.EndDate)
	}
}

func TestClampHorizon(t *testing.T) {
	assert.Equal(t, 30, ClampHorizon(0))
	assert.Equal(t, 7, ClampHorizon(3))
	assert.Equal(t, 7, ClampHorizon(-10))
	assert.Equal(t, 45, ClampHorizon(45))
	assert.Equal(t, 365, ClampHorizon(1000))
}

func TestProject_HorizonClampedInResult(t *testing.T) {
	p, err := Project(ProjectParams{StartDate: "2025-01-01", HorizonDays: 2, StartingBalance: amt("10")})
	require.NoError(t, err)
	assert.Len(t, p.Daily, 7)

	p, err = Project(ProjectParams{StartDate: "2025-01-01", StartingBalance: amt("10")})
	require.NoError(t, err)
	assert.Len(t, p.Daily, 30)
}

func TestProject_MissingStartingBalance(t *testing.T) {
	p, err := Project(ProjectParams{StartDate: "2025-01-01", HorizonDays: 30})
	require.ErrorIs(t, err, ErrMissingStartingBalance)
	assert.Nil(t, p)
}

func TestProject_InvalidStartDate(t *testing.T) {
	_, err := Project(ProjectParams{StartDate: "01/02/2025", StartingBalance: amt("1")})
	require.ErrorIs(t, err, ErrInvalidStartDate)
}

func sampleParams() ProjectParams {
	return ProjectParams{
		StartDate:       "2025-01-01",
		HorizonDays:     60,
		StartingBalance: amt("1200.50"),
		Events: []model.CalendarEvent{
			{ID: "pay", Title: "Paycheck", Date: "2025-01-06", Flow: model.FlowIncome, Amount: amt("2100"), Recurrence: weekly(2, 1)},
			{ID: "rent", Title: "Rent", Date: "2024-12-01", Flow: model.FlowExpense, Amount: amt("1650"), Recurrence: monthly(1, 1)},
			{ID: "gym", Title: "Gym", Date: "2025-01-03", Flow: model.FlowExpense, Amount: amt("12.99"), Recurrence: weekly(1, 5)},
			{ID: "note", Title: "Reminder", Date: "2025-01-09", Flow: model.FlowNeutral, Amount: amt("5")},
			{ID: "gift", Title: "Gift", Date: "2025-01-20", Flow: model.FlowIncome},
		},
		Bills: []model.Bill{
			{ID: "b1", Name: "Phone", DueDate: "2025-01-18", Amount: amt("45")},
			{ID: "b2", Name: "Car insurance", DueDate: "2025-02-10", Amount: amt("310.40")},
			{ID: "b3", Name: "Old", DueDate: "2024-12-20", Amount: amt("99")},
			{ID: "b4", Name: "Broken", DueDate: "2025-01-22"},
		},
	}
}

func TestProject_CumulativeBalance(t *testing.T) {
	params := sampleParams()
	p, err := Project(params)
	require.NoError(t, err)

	running := params.StartingBalance.Decimal
	for _, d := range p.Daily {
		running = running.Add(d.Income).Sub(d.Expense).Sub(d.Bills)
		assertDec(t, running.String(), d.Balance)
		assertDec(t, d.Income.Sub(d.Expense).Sub(d.Bills).String(), d.NetChange)
	}
	assertDec(t, running.String(), p.ProjectedEndBalance)
	assertDec(t, p.TotalExpenses.Add(p.TotalBills).String(), p.TotalOut)
}

func TestProject_LowestIsEarliestMinimum(t *testing.T) {
	p, err := Project(sampleParams())
	require.NoError(t, err)

	minBal := p.Daily[0].Balance
	minDate := p.Daily[0].Date
	for _, d := range p.Daily[1:] {
		if d.Balance.LessThan(minBal) {
			minBal = d.Balance
			minDate = d.Date
		}
	}
	assertDec(t, minBal.String(), p.LowestBalance)
	assert.Equal(t, minDate, p.LowestDate)
}

func TestProject_LowestTieKeepsEarliest(t *testing.T) {
	p, err := Project(ProjectParams{
		StartDate:       "2025-05-01",
		HorizonDays:     7,
		StartingBalance: amt("1000"),
		Events: []model.CalendarEvent{
			{ID: "a", Title: "A", Date: "2025-05-02", Flow: model.FlowExpense, Amount: amt("300")},
			{ID: "b", Title: "B", Date: "2025-05-03", Flow: model.FlowIncome, Amount: amt("300")},
			{ID: "c", Title: "C", Date: "2025-05-04", Flow: model.FlowExpense, Amount: amt("300")},
		},
	})
	require.NoError(t, err)
	assertDec(t, "700", p.LowestBalance)
	assert.Equal(t, "2025-05-02", p.LowestDate)
}

func TestProject_TotalsAndSkips(t *testing.T) {
	p, err := Project(sampleParams())
	require.NoError(t, err)

	// Window is 2025-01-01..2025-03-01.
	// Paychecks: 01-06, 01-20, 02-03, 02-17. Rent: 01-01, 02-01, 03-01.
	// Gym Fridays from 01-03 through 02-28: 9 instances.
	assert.Equal(t, "2025-03-01", p.EndDate)
	assertDec(t, "8400", p.TotalIncome)
	assertDec(t, "5066.91", p.TotalExpenses)
	assertDec(t, "355.40", p.TotalBills)

	reasons := map[string]string{}
	for _, s := range p.Skipped {
		reasons[s.ID] = s.Reason
	}
	assert.Equal(t, "neutral flow", reasons["note"])
	assert.Equal(t, "invalid amount", reasons["gift"])
	assert.Equal(t, "outside window", reasons["b3"])
	assert.Equal(t, "invalid amount", reasons["b4"])
}

func TestProject_ItemOrderEventsBeforeBills(t *testing.T) {
	p, err := Project(ProjectParams{
		StartDate:       "2025-06-01",
		HorizonDays:     7,
		StartingBalance: amt("500"),
		Events: []model.CalendarEvent{
			{ID: "e1", Title: "Salary", Date: "2025-06-02", Flow: model.FlowIncome, Amount: amt("100")},
			{ID: "e2", Title: "Groceries", Date: "2025-06-02", Flow: model.FlowExpense, Amount: amt("40")},
		},
		Bills: []model.Bill{
			{Name: "Water", DueDate: "2025-06-02", Amount: amt("25")},
			{Name: "Internet", DueDate: "2025-06-02", Amount: amt("60")},
		},
	})
	require.NoError(t, err)

	day := p.Daily[1]
	require.Len(t, day.Items, 4)
	assert.Equal(t, model.DayItem{Type: model.ItemIncome, Title: "Salary", Amount: dec("100")}, day.Items[0])
	assert.Equal(t, "Groceries", day.Items[1].Title)
	assert.Equal(t, model.ItemBill, day.Items[2].Type)
	assert.Equal(t, "Water", day.Items[2].Title)
	assert.Equal(t, "Internet", day.Items[3].Title)
	assertDec(t, "-25", day.NetChange)

	assert.NotNil(t, p.Daily[0].Items, "empty days carry an empty item list")
	assert.Empty(t, p.Daily[0].Items)
}

func TestProject_BillsAlwaysOutflow(t *testing.T) {
	p, err := Project(ProjectParams{
		StartDate:       "2025-06-01",
		HorizonDays:     7,
		StartingBalance: amt("100"),
		Bills:           []model.Bill{{Name: "Refund?", DueDate: "2025-06-03", Amount: amt("30")}},
	})
	require.NoError(t, err)
	assertDec(t, "0", p.TotalIncome)
	assertDec(t, "70", p.ProjectedEndBalance)
}

func TestProject_Idempotent(t *testing.T) {
	params := sampleParams()
	first, err := Project(params)
	require.NoError(t, err)
	second, err := Project(params)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProject_DoesNotMutateInputs(t *testing.T) {
	params := sampleParams()
	before := params.Events[0].Amount.Decimal
	_, err := Project(params)
	require.NoError(t, err)
	assert.True(t, before.Equal(params.Events[0].Amount.Decimal))
	assert.Equal(t, "Paycheck", params.Events[0].Title)
	assert.Len(t, params.Bills, 4)
}

func TestProject_NegativeBalance(t *testing.T) {
	p, err := Project(ProjectParams{
		StartDate:       "2025-06-01",
		HorizonDays:     7,
		StartingBalance: model.NewAmount(decimal.NewFromInt(50)),
		Bills:           []model.Bill{{Name: "Tax", DueDate: "2025-06-07", Amount: amt("80")}},
	})
	require.NoError(t, err)
	assertDec(t, "-30", p.LowestBalance)
	assert.Equal(t, "2025-06-07", p.LowestDate)
}

func TestProject_NullOverrideAmountIsSkipped(t *testing.T) {
	var events []model.CalendarEvent
	require.NoError(t, json.Unmarshal([]byte(`[{
		"id": "pay", "title": "Paycheck", "date": "2025-01-06", "flow": "income", "amount": 2000,
		"recurrence": {"freq": "weekly", "interval": 2, "byWeekday": 1},
		"overrides": {"2025-01-20": {"amount": null}}
	}]`), &events))

	p, err := Project(ProjectParams{StartDate: "2025-01-01", HorizonDays: 31, StartingBalance: amt("0"), Events: events})
	require.NoError(t, err)

	assertDec(t, "2000", p.TotalIncome)
	require.Len(t, p.Skipped, 1)
	assert.Equal(t, model.SkipInstance, p.Skipped[0].Kind)
	assert.Equal(t, "2025-01-20", p.Skipped[0].Date)
	assert.Equal(t, "invalid amount", p.Skipped[0].Reason)
}
