// Package portfolio replays a transaction ledger into average-cost positions.
package portfolio

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/runway/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Compute replays txns per asset in date order and values each position
// with prices. Invalid transactions (non-positive quantity, price or amount)
// are skipped. Selling more than is held sells only what is held.
func Compute(txns []model.Transaction, prices model.PriceMap) model.Portfolio {
	ordered := slices.Clone(txns)
	slices.SortStableFunc(ordered, func(a, b model.Transaction) int {
		return cmp.Compare(a.Date, b.Date)
	})

	byKey := make(map[string]*model.Position)
	var keys []string
	for _, tx := range ordered {
		key := tx.AssetKey()
		pos, ok := byKey[key]
		if !ok {
			pos = &model.Position{Key: key, AssetType: tx.AssetType, Symbol: tx.Symbol}
			byKey[key] = pos
			keys = append(keys, key)
		}
		apply(pos, tx)
	}
	slices.Sort(keys)

	var out model.Portfolio
	out.Positions = make([]model.Position, 0, len(keys))
	for _, key := range keys {
		pos := byKey[key]
		value(pos, prices)

		out.TotalValue = out.TotalValue.Add(pos.Value)
		out.TotalCost = out.TotalCost.Add(pos.CostBasis)
		out.TotalRealized = out.TotalRealized.Add(pos.RealizedGain)
		out.TotalDividends = out.TotalDividends.Add(pos.Dividends)
		out.TotalUnrealized = out.TotalUnrealized.Add(pos.Unrealized)
		out.Positions = append(out.Positions, *pos)
	}
	return out
}

// apply folds one transaction into pos.
func apply(pos *model.Position, tx model.Transaction) {
	switch tx.Type {
	case model.TxBuy:
		if !tx.Quantity.IsPositive() || !tx.Price.IsPositive() {
			return
		}
		pos.Shares = pos.Shares.Add(tx.Quantity)
		pos.CostBasis = pos.CostBasis.Add(tx.Quantity.Mul(tx.Price)).Add(tx.Fee)

	case model.TxSell:
		if !tx.Quantity.IsPositive() || !tx.Price.IsPositive() {
			return
		}
		sold := decimal.Min(tx.Quantity, pos.Shares)
		avg := decimal.Zero
		if pos.Shares.IsPositive() {
			avg = pos.CostBasis.Div(pos.Shares)
		}
		pos.Shares = pos.Shares.Sub(sold)
		if pos.Shares.IsZero() {
			pos.CostBasis = decimal.Zero
		} else {
			pos.CostBasis = pos.CostBasis.Sub(avg.Mul(sold))
		}
		pos.RealizedGain = pos.RealizedGain.Add(tx.Price.Sub(avg).Mul(sold)).Sub(tx.Fee)

	case model.TxDividend:
		if !tx.Amount.IsPositive() {
			return
		}
		pos.Dividends = pos.Dividends.Add(tx.Amount)
		pos.RealizedGain = pos.RealizedGain.Add(tx.Amount)

	case model.TxCashIn:
		if !tx.Amount.IsPositive() {
			return
		}
		pos.CashNet = pos.CashNet.Add(tx.Amount).Sub(tx.Fee)

	case model.TxCashOut:
		if !tx.Amount.IsPositive() {
			return
		}
		pos.CashNet = pos.CashNet.Sub(tx.Amount).Add(tx.Fee)
	}
}

// value fills in the price-dependent fields of pos.
func value(pos *model.Position, prices model.PriceMap) {
	if pos.IsCash() {
		pos.Value = decimal.Max(decimal.Zero, pos.CashNet)
	} else {
		pos.Price = prices[pos.Key].Price
		pos.Value = pos.Shares.Mul(pos.Price)
	}

	pos.Unrealized = pos.Value.Sub(pos.CostBasis)
	pos.UnrealizedPct = decimal.Zero
	if pos.CostBasis.IsPositive() {
		pos.UnrealizedPct = pos.Unrealized.Div(pos.CostBasis).Mul(hundred)
	}
}

// HeldAssets returns the non-cash positions with a positive share count,
// sorted by key. These are the assets worth fetching a price for.
func HeldAssets(txns []model.Transaction) []model.Position {
	var held []model.Position
	for _, pos := range Compute(txns, nil).Positions {
		if !pos.IsCash() && pos.Shares.IsPositive() {
			held = append(held, pos)
		}
	}
	return held
}
