package model

import (
	"github.com/shopspring/decimal"
)

// TxType is the kind of a portfolio transaction.
type TxType string

const (
	TxBuy      TxType = "BUY"
	TxSell     TxType = "SELL"
	TxDividend TxType = "DIVIDEND"
	TxCashIn   TxType = "CASH_IN"
	TxCashOut  TxType = "CASH_OUT"
)

// AssetTypeCash marks assets valued by their net cash rather than by shares.
const AssetTypeCash = "cash"

// Transaction is one dated row of the portfolio ledger.
type Transaction struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	Type      TxType          `json:"type"`
	AssetType string          `json:"assetType"` // stock, etf, crypto, cash...
	Symbol    string          `json:"symbol"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Fee       decimal.Decimal `json:"fee"`
	Amount    decimal.Decimal `json:"amount"` // DIVIDEND, CASH_IN, CASH_OUT
	Notes     string          `json:"notes,omitempty"`
}

// AssetKey returns the "type:symbol" key identifying the transaction's asset.
func (t Transaction) AssetKey() string {
	return AssetKey(t.AssetType, t.Symbol)
}

// AssetKey builds the "type:symbol" key used by positions and price maps.
func AssetKey(assetType, symbol string) string {
	return assetType + ":" + symbol
}
