package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cleared-dev/runway/internal/model"
)

// Snapshot keys.
const (
	KeyEvents       = "events"
	KeyBills        = "bills"
	KeyAccounts     = "accounts"
	KeyTransactions = "transactions"
	KeyPrices       = "prices"
)

// Repository reads and writes whole snapshots of each collection.
//
// Lists decode one record at a time: a record that fails to decode is
// dropped and counted, the rest of the list still loads. A missing key
// reads as an empty collection.
type Repository struct {
	store Store
}

// NewRepository wraps a Store.
func NewRepository(s Store) *Repository {
	return &Repository{store: s}
}

// Events returns the stored calendar events and the number of records dropped.
func (r *Repository) Events(ctx context.Context) ([]model.CalendarEvent, int, error) {
	return loadList[model.CalendarEvent](ctx, r.store, KeyEvents)
}

// SaveEvents replaces the stored calendar events.
func (r *Repository) SaveEvents(ctx context.Context, events []model.CalendarEvent) error {
	return saveJSON(ctx, r.store, KeyEvents, nonNil(events))
}

// Bills returns the stored bills and the number of records dropped.
func (r *Repository) Bills(ctx context.Context) ([]model.Bill, int, error) {
	return loadList[model.Bill](ctx, r.store, KeyBills)
}

// SaveBills replaces the stored bills.
func (r *Repository) SaveBills(ctx context.Context, bills []model.Bill) error {
	return saveJSON(ctx, r.store, KeyBills, nonNil(bills))
}

// Accounts returns the stored accounts and the number of records dropped.
func (r *Repository) Accounts(ctx context.Context) ([]model.Account, int, error) {
	return loadList[model.Account](ctx, r.store, KeyAccounts)
}

// SaveAccounts replaces the stored accounts.
func (r *Repository) SaveAccounts(ctx context.Context, accounts []model.Account) error {
	return saveJSON(ctx, r.store, KeyAccounts, nonNil(accounts))
}

// Transactions returns the stored ledger and the number of records dropped.
func (r *Repository) Transactions(ctx context.Context) ([]model.Transaction, int, error) {
	return loadList[model.Transaction](ctx, r.store, KeyTransactions)
}

// SaveTransactions replaces the stored ledger.
func (r *Repository) SaveTransactions(ctx context.Context, txns []model.Transaction) error {
	return saveJSON(ctx, r.store, KeyTransactions, nonNil(txns))
}

// Prices returns the stored price map. Entries that fail to decode are dropped.
func (r *Repository) Prices(ctx context.Context) (model.PriceMap, int, error) {
	data, err := r.store.Get(ctx, KeyPrices)
	if errors.Is(err, ErrNotFound) {
		return model.PriceMap{}, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("decoding %s: %w", KeyPrices, err)
	}
	prices := make(model.PriceMap, len(raw))
	dropped := 0
	for key, msg := range raw {
		var p model.Price
		if err := json.Unmarshal(msg, &p); err != nil {
			dropped++
			continue
		}
		prices[key] = p
	}
	return prices, dropped, nil
}

// SavePrices replaces the stored price map.
func (r *Repository) SavePrices(ctx context.Context, prices model.PriceMap) error {
	if prices == nil {
		prices = model.PriceMap{}
	}
	return saveJSON(ctx, r.store, KeyPrices, prices)
}

func loadList[T any](ctx context.Context, s Store, key string) ([]T, int, error) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return []T{}, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("decoding %s: %w", key, err)
	}
	out := make([]T, 0, len(raw))
	dropped := 0
	for _, msg := range raw {
		var v T
		if err := json.Unmarshal(msg, &v); err != nil {
			dropped++
			continue
		}
		out = append(out, v)
	}
	return out, dropped, nil
}

func saveJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.Put(ctx, key, data)
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
