package model

import "github.com/shopspring/decimal"

// Price is the last known quote for an asset.
type Price struct {
	Price     decimal.Decimal `json:"price"`
	UpdatedAt string          `json:"updatedAt,omitempty"`
	Source    string          `json:"source,omitempty"`
}

// PriceMap maps "type:symbol" asset keys to their last known price.
type PriceMap map[string]Price

// Position is the running state of one asset after replaying its ledger.
type Position struct {
	Key           string          `json:"key"`
	AssetType     string          `json:"assetType"`
	Symbol        string          `json:"symbol"`
	Shares        decimal.Decimal `json:"shares"`
	CostBasis     decimal.Decimal `json:"costBasis"`
	RealizedGain  decimal.Decimal `json:"realizedGain"`
	Dividends     decimal.Decimal `json:"dividends"`
	CashNet       decimal.Decimal `json:"cashNet"`
	Price         decimal.Decimal `json:"price"`
	Value         decimal.Decimal `json:"value"`
	Unrealized    decimal.Decimal `json:"unrealized"`
	UnrealizedPct decimal.Decimal `json:"unrealizedPct"`
}

// IsCash reports whether the position is valued by its net cash.
func (p Position) IsCash() bool {
	return p.AssetType == AssetTypeCash
}

// Portfolio aggregates every position.
type Portfolio struct {
	Positions       []Position      `json:"positions"`
	TotalValue      decimal.Decimal `json:"totalValue"`
	TotalCost       decimal.Decimal `json:"totalCost"`
	TotalRealized   decimal.Decimal `json:"totalRealized"`
	TotalDividends  decimal.Decimal `json:"totalDividends"`
	TotalUnrealized decimal.Decimal `json:"totalUnrealized"`
}
