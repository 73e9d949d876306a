package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/runway/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"1234.56", "USD", "$1,234.56"},
		{"-12", "USD", "-$12.00"},
		{"0.005", "usd", "$0.01"},
		{"1500", "JPY", "¥1,500"},
		{"99.999", "XYZ", "100.00 XYZ"},
		{"100000000000000000000", "USD", "100000000000000000000.00 USD"},
		{"-100000000000000000000.499", "USD", "-100000000000000000000.50 USD"},
		{"1e25", "JPY", "10000000000000000000000000 JPY"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMoney(dec(tt.amount), tt.currency), "%s %s", tt.amount, tt.currency)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "-", FormatAmount(false, dec("5"), "USD"))
	assert.Equal(t, "$5.00", FormatAmount(true, dec("5"), "USD"))
}

func sampleProjection() *model.Projection {
	return &model.Projection{
		StartDate:           "2025-01-01",
		EndDate:             "2025-01-03",
		StartingBalance:     dec("100"),
		ProjectedEndBalance: dec("1150"),
		LowestBalance:       dec("50"),
		LowestDate:          "2025-01-01",
		TotalIncome:         dec("1200"),
		TotalExpenses:       dec("50"),
		TotalBills:          dec("100"),
		TotalOut:            dec("150"),
		Daily: []model.Day{
			{Date: "2025-01-01", Expense: dec("50"), NetChange: dec("-50"), Balance: dec("50"),
				Items: []model.DayItem{{Type: model.ItemExpense, Title: "Groceries", Amount: dec("50")}}},
			{Date: "2025-01-02", Balance: dec("50"), Items: []model.DayItem{}},
			{Date: "2025-01-03", Income: dec("1200"), Bills: dec("100"), NetChange: dec("1100"), Balance: dec("1150"),
				Items: []model.DayItem{
					{Type: model.ItemIncome, Title: "Paycheck", Amount: dec("1200")},
					{Type: model.ItemBill, Title: "Phone", Amount: dec("100")},
				}},
		},
		Skipped: []model.Skip{{Kind: model.SkipBill, ID: "bill_9", Date: "2025-01-02", Reason: "invalid amount"}},
	}
}

func TestWriteProjection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteProjection(&buf, sampleProjection(), ProjectionOptions{Currency: "USD"}))
	out := buf.String()

	assert.Contains(t, out, "2025-01-01 to 2025-01-03")
	assert.Contains(t, out, "$1,150.00")
	assert.Contains(t, out, "$50.00 on 2025-01-01")
	assert.Contains(t, out, "Paycheck, Phone")
	assert.NotContains(t, out, "2025-01-02  ", "quiet days hidden")
	assert.Contains(t, out, "skipped bill bill_9 2025-01-02: invalid amount")

	buf.Reset()
	require.NoError(t, WriteProjection(&buf, sampleProjection(), ProjectionOptions{Currency: "USD", AllDays: true}))
	lines := strings.Split(buf.String(), "\n")
	found := false
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "2025-01-02") {
			found = true
		}
	}
	assert.True(t, found, "all days shown")
}

func TestWriteProjectionCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteProjectionCSV(&buf, sampleProjection()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "date,income,expense,bills,net_change,balance", lines[0])
	assert.Equal(t, "2025-01-01,0.00,50.00,0.00,-50.00,50.00", lines[1])
	assert.Equal(t, "2025-01-03,1200.00,0.00,100.00,1100.00,1150.00", lines[3])
}

func TestWritePortfolio(t *testing.T) {
	pf := model.Portfolio{
		Positions: []model.Position{
			{Key: "cash:USD", AssetType: "cash", Symbol: "USD", CashNet: dec("500"), Value: dec("500"), Unrealized: dec("500")},
			{Key: "etf:VTI", AssetType: "etf", Symbol: "VTI", Shares: dec("10"), CostBasis: dec("2501"), Price: dec("260"),
				Value: dec("2600"), Unrealized: dec("99"), UnrealizedPct: dec("3.958")},
		},
		TotalValue:      dec("3100"),
		TotalCost:       dec("2501"),
		TotalUnrealized: dec("599"),
	}

	var buf bytes.Buffer
	require.NoError(t, WritePortfolio(&buf, pf, "USD"))
	out := buf.String()

	assert.Contains(t, out, "etf:VTI")
	assert.Contains(t, out, "$2,501.00")
	assert.Contains(t, out, "3.96")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "$3,100.00")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleProjection()))

	var back map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "2025-01-01", back["startDate"])
	assert.Contains(t, buf.String(), "\n  ")
}
