package portfolio

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/runway/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func buy(date, symbol, qty, price, fee string) model.Transaction {
	return model.Transaction{Date: date, Type: model.TxBuy, AssetType: "stock", Symbol: symbol, Quantity: dec(qty), Price: dec(price), Fee: dec(fee)}
}

func sell(date, symbol, qty, price, fee string) model.Transaction {
	return model.Transaction{Date: date, Type: model.TxSell, AssetType: "stock", Symbol: symbol, Quantity: dec(qty), Price: dec(price), Fee: dec(fee)}
}

func position(t *testing.T, p model.Portfolio, key string) model.Position {
	t.Helper()
	for _, pos := range p.Positions {
		if pos.Key == key {
			return pos
		}
	}
	require.Failf(t, "position not found", "key %s", key)
	return model.Position{}
}

func TestCompute_BuyAddsSharesAndCost(t *testing.T) {
	p := Compute([]model.Transaction{
		buy("2025-01-02", "AAPL", "10", "100", "1"),
		buy("2025-01-05", "AAPL", "5", "130", "0"),
	}, model.PriceMap{"stock:AAPL": {Price: dec("120")}})

	pos := position(t, p, "stock:AAPL")
	assertDec(t, "15", pos.Shares)
	assertDec(t, "1651", pos.CostBasis)
	assertDec(t, "1800", pos.Value)
	assertDec(t, "149", pos.Unrealized)
}

func TestCompute_SellAtAverageCost(t *testing.T) {
	p := Compute([]model.Transaction{
		buy("2025-01-02", "MSFT", "10", "100", "0"),
		buy("2025-01-03", "MSFT", "10", "200", "0"),
		sell("2025-02-01", "MSFT", "5", "180", "2"),
	}, nil)

	pos := position(t, p, "stock:MSFT")
	// avg cost 150; 5 sold
	assertDec(t, "15", pos.Shares)
	assertDec(t, "2250", pos.CostBasis)
	assertDec(t, "148", pos.RealizedGain)
}

func TestCompute_OversellClipsToHeld(t *testing.T) {
	p := Compute([]model.Transaction{
		buy("2025-01-02", "TSLA", "5", "200", "0"),
		sell("2025-01-10", "TSLA", "10", "250", "0"),
	}, model.PriceMap{"stock:TSLA": {Price: dec("300")}})

	pos := position(t, p, "stock:TSLA")
	assertDec(t, "0", pos.Shares)
	assertDec(t, "0", pos.CostBasis)
	assertDec(t, "250", pos.RealizedGain)
	assertDec(t, "0", pos.Value)
	assert.False(t, pos.Shares.IsNegative())
}

func TestCompute_SellWithNothingHeld(t *testing.T) {
	p := Compute([]model.Transaction{sell("2025-01-10", "NVDA", "3", "100", "1")}, nil)
	pos := position(t, p, "stock:NVDA")
	assertDec(t, "0", pos.Shares)
	assertDec(t, "-1", pos.RealizedGain)
}

func TestCompute_InvalidRowsSkipped(t *testing.T) {
	p := Compute([]model.Transaction{
		buy("2025-01-02", "VTI", "0", "100", "0"),
		buy("2025-01-02", "VTI", "3", "-1", "0"),
		sell("2025-01-03", "VTI", "-2", "100", "0"),
		{Date: "2025-01-04", Type: model.TxDividend, AssetType: "stock", Symbol: "VTI", Amount: dec("0")},
		{Date: "2025-01-05", Type: "SPLIT", AssetType: "stock", Symbol: "VTI", Quantity: dec("2")},
	}, nil)

	pos := position(t, p, "stock:VTI")
	assertDec(t, "0", pos.Shares)
	assertDec(t, "0", pos.CostBasis)
	assertDec(t, "0", pos.RealizedGain)
	assertDec(t, "0", pos.Dividends)
}

func TestCompute_Dividends(t *testing.T) {
	p := Compute([]model.Transaction{
		buy("2025-01-02", "KO", "10", "60", "0"),
		{Date: "2025-03-01", Type: model.TxDividend, AssetType: "stock", Symbol: "KO", Amount: dec("4.85")},
	}, nil)

	pos := position(t, p, "stock:KO")
	assertDec(t, "4.85", pos.Dividends)
	assertDec(t, "4.85", pos.RealizedGain)
	assertDec(t, "4.85", p.TotalDividends)
}

func TestCompute_CashAsset(t *testing.T) {
	p := Compute([]model.Transaction{
		{Date: "2025-01-01", Type: model.TxCashIn, AssetType: model.AssetTypeCash, Symbol: "brokerage", Amount: dec("1000"), Fee: dec("1")},
		{Date: "2025-01-05", Type: model.TxCashOut, AssetType: model.AssetTypeCash, Symbol: "brokerage", Amount: dec("200"), Fee: dec("2")},
	}, model.PriceMap{"cash:brokerage": {Price: dec("999")}})

	pos := position(t, p, "cash:brokerage")
	assertDec(t, "801", pos.CashNet)
	assertDec(t, "801", pos.Value)
	assertDec(t, "0", pos.CostBasis)
	assertDec(t, "0", pos.UnrealizedPct)
}

func TestCompute_CashNeverNegativeValue(t *testing.T) {
	p := Compute([]model.Transaction{
		{Date: "2025-01-05", Type: model.TxCashOut, AssetType: model.AssetTypeCash, Symbol: "wallet", Amount: dec("50")},
	}, nil)
	pos := position(t, p, "cash:wallet")
	assertDec(t, "-50", pos.CashNet)
	assertDec(t, "0", pos.Value)
}

func TestCompute_UnrealizedPct(t *testing.T) {
	p := Compute([]model.Transaction{buy("2025-01-02", "BTC", "2", "100", "0")},
		model.PriceMap{"stock:BTC": {Price: dec("125")}})
	pos := position(t, p, "stock:BTC")
	assertDec(t, "50", pos.Unrealized)
	assertDec(t, "25", pos.UnrealizedPct)
}

func TestCompute_MissingPriceValuesAtZero(t *testing.T) {
	p := Compute([]model.Transaction{buy("2025-01-02", "XYZ", "4", "10", "0")}, model.PriceMap{})
	pos := position(t, p, "stock:XYZ")
	assertDec(t, "0", pos.Value)
	assertDec(t, "-40", pos.Unrealized)
	assertDec(t, "-100", pos.UnrealizedPct)
}

func TestCompute_SortsLedgerByDate(t *testing.T) {
	// The sell is listed first but happens after the buy.
	p := Compute([]model.Transaction{
		sell("2025-02-01", "AMD", "4", "150", "0"),
		buy("2025-01-01", "AMD", "4", "100", "0"),
	}, nil)
	pos := position(t, p, "stock:AMD")
	assertDec(t, "0", pos.Shares)
	assertDec(t, "200", pos.RealizedGain)
}

func TestCompute_Totals(t *testing.T) {
	txns := []model.Transaction{
		buy("2025-01-02", "AAPL", "10", "100", "0"),
		buy("2025-01-02", "MSFT", "2", "300", "0"),
		{Date: "2025-01-02", Type: model.TxCashIn, AssetType: model.AssetTypeCash, Symbol: "broker", Amount: dec("50")},
	}
	prices := model.PriceMap{"stock:AAPL": {Price: dec("110")}, "stock:MSFT": {Price: dec("280")}}
	p := Compute(txns, prices)

	require.Len(t, p.Positions, 3)
	assert.Equal(t, []string{"cash:broker", "stock:AAPL", "stock:MSFT"},
		[]string{p.Positions[0].Key, p.Positions[1].Key, p.Positions[2].Key})
	assertDec(t, "1710", p.TotalValue)
	assertDec(t, "1600", p.TotalCost)
	assertDec(t, "110", p.TotalUnrealized)
}

func TestCompute_DoesNotReorderInput(t *testing.T) {
	txns := []model.Transaction{
		sell("2025-02-01", "AMD", "1", "150", "0"),
		buy("2025-01-01", "AMD", "1", "100", "0"),
	}
	Compute(txns, nil)
	assert.Equal(t, model.TxSell, txns[0].Type)
}

func TestHeldAssets(t *testing.T) {
	held := HeldAssets([]model.Transaction{
		buy("2025-01-02", "AAPL", "1", "100", "0"),
		buy("2025-01-02", "GONE", "1", "100", "0"),
		sell("2025-01-03", "GONE", "1", "100", "0"),
		{Date: "2025-01-02", Type: model.TxCashIn, AssetType: model.AssetTypeCash, Symbol: "broker", Amount: dec("50")},
	})
	require.Len(t, held, 1)
	assert.Equal(t, "stock:AAPL", held[0].Key)
}
