package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/runway/internal/model"
)

func newTestRepo(t *testing.T) (*Repository, Store) {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewRepository(s), s
}

func TestRepository_MissingKeysAreEmpty(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	events, dropped, err := repo.Events(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NotNil(t, events)
	assert.Zero(t, dropped)

	prices, _, err := repo.Prices(ctx)
	require.NoError(t, err)
	assert.Empty(t, prices)
	assert.NotNil(t, prices)
}

func TestRepository_EventsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	in := []model.CalendarEvent{{
		ID:     "evt_1",
		Title:  "Paycheck",
		Date:   "2025-01-03",
		Flow:   model.FlowIncome,
		Amount: model.ParseAmount("2100.00"),
		Recurrence: model.Recurrence{
			Freq:     model.FreqWeekly,
			Interval: 2,
		},
		Exceptions: []string{"2025-01-17"},
	}}
	require.NoError(t, repo.SaveEvents(ctx, in))

	out, dropped, err := repo.Events(ctx)
	require.NoError(t, err)
	assert.Zero(t, dropped)
	require.Len(t, out, 1)
	assert.Equal(t, "Paycheck", out[0].Title)
	assert.True(t, out[0].Amount.Decimal.Equal(decimal.RequireFromString("2100")))
	assert.Equal(t, 2, out[0].Recurrence.Interval)
	assert.Equal(t, []string{"2025-01-17"}, out[0].Exceptions)
}

func TestRepository_DropsUndecodableRecords(t *testing.T) {
	ctx := context.Background()
	repo, s := newTestRepo(t)

	raw := `[
		{"id":"tx_1","date":"2025-01-02","type":"BUY","assetType":"stock","symbol":"VTI","quantity":"10","price":"200"},
		{"id":"tx_2","date":"2025-01-03","type":"BUY","assetType":"stock","symbol":"VTI","quantity":"lots"},
		"not an object",
		{"id":"tx_3","date":"2025-01-04","type":"CASH_IN","assetType":"cash","symbol":"USD","amount":500}
	]`
	require.NoError(t, s.Put(ctx, KeyTransactions, []byte(raw)))

	txns, dropped, err := repo.Transactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, dropped)
	require.Len(t, txns, 2)
	assert.Equal(t, "tx_1", txns[0].ID)
	assert.Equal(t, "tx_3", txns[1].ID)
}

func TestRepository_InvalidAmountStillLoads(t *testing.T) {
	ctx := context.Background()
	repo, s := newTestRepo(t)

	raw := `[{"id":"evt_1","title":"Gift","date":"2025-02-01","flow":"income","amount":"abc","recurrence":{"freq":"none"}}]`
	require.NoError(t, s.Put(ctx, KeyEvents, []byte(raw)))

	events, dropped, err := repo.Events(ctx)
	require.NoError(t, err)
	assert.Zero(t, dropped)
	require.Len(t, events, 1)
	assert.False(t, events[0].Amount.Valid)
}

func TestRepository_NonListSnapshotIsAnError(t *testing.T) {
	ctx := context.Background()
	repo, s := newTestRepo(t)
	require.NoError(t, s.Put(ctx, KeyBills, []byte(`{"oops":true}`)))

	_, _, err := repo.Bills(ctx)
	assert.ErrorContains(t, err, "decoding bills")
}

func TestRepository_Prices(t *testing.T) {
	ctx := context.Background()
	repo, s := newTestRepo(t)

	require.NoError(t, repo.SavePrices(ctx, model.PriceMap{
		"stock:VTI": {Price: decimal.RequireFromString("250.5"), Source: "eodhd"},
	}))
	got, dropped, err := repo.Prices(ctx)
	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.True(t, got["stock:VTI"].Price.Equal(decimal.RequireFromString("250.5")))

	require.NoError(t, s.Put(ctx, KeyPrices, []byte(`{"stock:VTI":{"price":"1"},"crypto:BTC":{"price":"moon"}}`)))
	got, dropped, err = repo.Prices(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	assert.Len(t, got, 1)
}

func TestRepository_SaveNilWritesEmptyList(t *testing.T) {
	ctx := context.Background()
	repo, s := newTestRepo(t)

	require.NoError(t, repo.SaveBills(ctx, nil))
	data, err := s.Get(ctx, KeyBills)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
