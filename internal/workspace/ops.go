package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/cleared-dev/runway/internal/accounts"
	"github.com/cleared-dev/runway/internal/activity"
	"github.com/cleared-dev/runway/internal/ics"
	"github.com/cleared-dev/runway/internal/importer"
	"github.com/cleared-dev/runway/internal/isodate"
	"github.com/cleared-dev/runway/internal/metrics"
	"github.com/cleared-dev/runway/internal/model"
	"github.com/cleared-dev/runway/internal/portfolio"
	"github.com/cleared-dev/runway/internal/projection"
	"github.com/cleared-dev/runway/internal/quote"
)

// ProjectRequest selects the window and starting balance of a projection.
type ProjectRequest struct {
	Start   string       // empty means today
	Days    int          // 0 means the configured horizon
	Balance model.Amount // invalid means the sum of the cash accounts
}

// StartingBalance sums the balances of the configured cash account types.
func (w *Workspace) StartingBalance(ctx context.Context) (model.Amount, error) {
	svc, err := accounts.Load(ctx, w.Data)
	if err != nil {
		return model.Amount{}, err
	}
	return svc.StartingBalance(accounts.TypesFromStrings(w.Config.Projection.CashAccountTypes)), nil
}

// Project runs a cash-flow projection over the stored events and bills.
func (w *Workspace) Project(ctx context.Context, req ProjectRequest) (*model.Projection, error) {
	start := req.Start
	if start == "" {
		start = isodate.Today()
	}
	days := req.Days
	if days == 0 {
		days = w.Config.Projection.HorizonDays
	}

	events, droppedEvents, err := w.Data.Events(ctx)
	if err != nil {
		return nil, err
	}
	bills, droppedBills, err := w.Data.Bills(ctx)
	if err != nil {
		return nil, err
	}
	if droppedEvents > 0 || droppedBills > 0 {
		w.Logger.Warn().
			Int("events", droppedEvents).
			Int("bills", droppedBills).
			Msg("dropped unreadable records")
	}

	balance := req.Balance
	if !balance.Valid {
		if balance, err = w.StartingBalance(ctx); err != nil {
			return nil, err
		}
	}

	began := time.Now()
	p, err := projection.Project(projection.ProjectParams{
		StartDate:       start,
		HorizonDays:     days,
		StartingBalance: balance,
		Events:          events,
		Bills:           bills,
	})
	metrics.ProjectionDuration.Observe(time.Since(began).Seconds())
	switch {
	case errors.Is(err, projection.ErrMissingStartingBalance):
		metrics.ProjectionRuns.WithLabelValues("missing_balance").Inc()
		return nil, err
	case err != nil:
		metrics.ProjectionRuns.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.ProjectionRuns.WithLabelValues("ok").Inc()

	for _, s := range p.Skipped {
		metrics.ProjectionSkipped.WithLabelValues(string(s.Kind)).Inc()
		w.Logger.Debug().
			Str("kind", string(s.Kind)).
			Str("id", s.ID).
			Str("date", s.Date).
			Str("reason", s.Reason).
			Msg("skipped")
	}
	w.Logger.Info().
		Str("start", p.StartDate).
		Str("end", p.EndDate).
		Str("end_balance", p.ProjectedEndBalance.StringFixed(2)).
		Int("skipped", len(p.Skipped)).
		Msg("projection computed")
	return p, nil
}

// ErrWindowTooLong is returned when an instance window spans more than
// projection.MaxHorizonDays days.
var ErrWindowTooLong = fmt.Errorf("window longer than %d days", projection.MaxHorizonDays)

// Instances expands the stored events over [start, end].
func (w *Workspace) Instances(ctx context.Context, start, end string) ([]model.EventInstance, error) {
	s, err := isodate.Parse(start)
	if err != nil {
		return nil, fmt.Errorf("invalid window start: %w", err)
	}
	e, err := isodate.Parse(end)
	if err != nil {
		return nil, fmt.Errorf("invalid window end: %w", err)
	}
	if isodate.DaysBetween(s, e)+1 > projection.MaxHorizonDays {
		return nil, fmt.Errorf("%w: %s..%s", ErrWindowTooLong, start, end)
	}
	events, _, err := w.Data.Events(ctx)
	if err != nil {
		return nil, err
	}
	return projection.ExpandInstances(events, start, end), nil
}

// Portfolio derives positions from the stored ledger and prices.
func (w *Workspace) Portfolio(ctx context.Context) (model.Portfolio, error) {
	txns, dropped, err := w.Data.Transactions(ctx)
	if err != nil {
		return model.Portfolio{}, err
	}
	if dropped > 0 {
		w.Logger.Warn().Int("transactions", dropped).Msg("dropped unreadable records")
	}
	prices, _, err := w.Data.Prices(ctx)
	if err != nil {
		return model.Portfolio{}, err
	}
	return portfolio.Compute(txns, prices), nil
}

// RefreshPrices quotes every held asset and stores the updated prices.
// Concurrent calls run one at a time.
func (w *Workspace) RefreshPrices(ctx context.Context) (quote.RefreshReport, error) {
	w.refreshMu.Lock()
	defer w.refreshMu.Unlock()

	txns, _, err := w.Data.Transactions(ctx)
	if err != nil {
		return quote.RefreshReport{}, err
	}
	prices, _, err := w.Data.Prices(ctx)
	if err != nil {
		return quote.RefreshReport{}, err
	}

	updated, report := w.Quotes.Refresh(ctx, txns, prices)
	if err := w.Data.SavePrices(ctx, updated); err != nil {
		return report, err
	}

	err = activity.Append(w.Root, activity.Entry{
		Action:  activity.ActionRefresh,
		Details: fmt.Sprintf("%d failed, %d skipped", len(report.Failed), len(report.Skipped)),
		Count:   len(report.Updated),
	})
	if err != nil {
		return report, err
	}
	return report, w.Snapshot(fmt.Sprintf("prices: refresh %d asset(s)", len(report.Updated)))
}

// ImportTransactions parses r with the named format and appends the rows
// to the ledger. source is recorded in the activity log.
func (w *Workspace) ImportTransactions(ctx context.Context, r io.Reader, format, source string) (int, error) {
	parser := importer.DefaultRegistry().Get(format)
	if parser == nil {
		return 0, fmt.Errorf("unknown import format %q", format)
	}
	parsed, err := parser.Parse(r)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", source, err)
	}

	txns, _, err := w.Data.Transactions(ctx)
	if err != nil {
		return 0, err
	}
	if err := w.Data.SaveTransactions(ctx, append(txns, parsed...)); err != nil {
		return 0, err
	}

	w.Logger.Info().Str("format", parser.Format()).Str("source", source).Int("count", len(parsed)).Msg("transactions imported")
	err = activity.Append(w.Root, activity.Entry{
		Action:  activity.ActionImportLedger,
		Details: parser.Format() + " " + source,
		Count:   len(parsed),
	})
	if err != nil {
		return len(parsed), err
	}
	return len(parsed), w.Snapshot(fmt.Sprintf("transactions: import %d from %s", len(parsed), filepath.Base(source)))
}

// ImportBills reads a bills CSV and appends the rows to the stored bills.
func (w *Workspace) ImportBills(ctx context.Context, r io.Reader, source string) (int, error) {
	parsed, err := importer.ReadBills(r)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", source, err)
	}

	bills, _, err := w.Data.Bills(ctx)
	if err != nil {
		return 0, err
	}
	if err := w.Data.SaveBills(ctx, append(bills, parsed...)); err != nil {
		return 0, err
	}

	w.Logger.Info().Str("source", source).Int("count", len(parsed)).Msg("bills imported")
	err = activity.Append(w.Root, activity.Entry{
		Action:  activity.ActionImportBills,
		Details: source,
		Count:   len(parsed),
	})
	if err != nil {
		return len(parsed), err
	}
	return len(parsed), w.Snapshot(fmt.Sprintf("bills: import %d from %s", len(parsed), filepath.Base(source)))
}

// ImportEvents reads an iCalendar stream. Events whose ID is already
// stored replace the stored copy; the rest are appended.
func (w *Workspace) ImportEvents(ctx context.Context, r io.Reader, source string) (int, []string, error) {
	parsed, warnings, err := ics.Import(r)
	if err != nil {
		return 0, nil, fmt.Errorf("parsing %s: %w", source, err)
	}

	events, _, err := w.Data.Events(ctx)
	if err != nil {
		return 0, warnings, err
	}
	byID := make(map[string]int, len(events))
	for i, ev := range events {
		byID[ev.ID] = i
	}
	for _, ev := range parsed {
		if i, ok := byID[ev.ID]; ok {
			events[i] = ev
			continue
		}
		byID[ev.ID] = len(events)
		events = append(events, ev)
	}
	if err := w.Data.SaveEvents(ctx, events); err != nil {
		return 0, warnings, err
	}

	for _, msg := range warnings {
		w.Logger.Warn().Str("source", source).Msg(msg)
	}
	err = activity.Append(w.Root, activity.Entry{
		Action:  activity.ActionImportEvents,
		Details: source,
		Count:   len(parsed),
	})
	if err != nil {
		return len(parsed), warnings, err
	}
	return len(parsed), warnings, w.Snapshot(fmt.Sprintf("events: import %d from %s", len(parsed), filepath.Base(source)))
}

// ExportCalendar writes the instances and bills due in [start, end] as iCalendar.
func (w *Workspace) ExportCalendar(ctx context.Context, out io.Writer, start, end string) error {
	instances, err := w.Instances(ctx, start, end)
	if err != nil {
		return err
	}
	bills, _, err := w.Data.Bills(ctx)
	if err != nil {
		return err
	}
	var due []model.Bill
	for _, b := range bills {
		if b.DueDate >= start && b.DueDate <= end {
			due = append(due, b)
		}
	}
	return ics.Export(out, instances, ics.ExportOptions{
		Name:     "runway",
		Currency: w.Config.Currency,
		Bills:    due,
	})
}
