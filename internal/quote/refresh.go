package quote

import (
	"context"
	"maps"
	"time"

	"github.com/cleared-dev/runway/internal/logging"
	"github.com/cleared-dev/runway/internal/model"
	"github.com/cleared-dev/runway/internal/portfolio"
)

// RefreshReport summarizes one refresh pass.
type RefreshReport struct {
	Updated []string          `json:"updated"`
	Failed  map[string]string `json:"failed"`  // asset key -> error
	Skipped []string          `json:"skipped"` // no client for the asset type
}

// Refresher updates the price map for every held non-cash asset.
type Refresher struct {
	clients  map[string]Client // by asset type
	fallback Client
	logger   *logging.Logger
	now      func() time.Time
}

// NewRefresher creates a Refresher. fallback, if non-nil, quotes asset
// types without a dedicated client.
func NewRefresher(clients map[string]Client, fallback Client, logger *logging.Logger) *Refresher {
	if logger == nil {
		logger = logging.NewSilentLogger()
	}
	return &Refresher{
		clients:  clients,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

func (r *Refresher) clientFor(assetType string) Client {
	if c, ok := r.clients[assetType]; ok {
		return c
	}
	return r.fallback
}

// Refresh quotes each held asset and returns an updated copy of prices.
// Failures are recorded in the report and keep the previous price.
func (r *Refresher) Refresh(ctx context.Context, txns []model.Transaction, prices model.PriceMap) (model.PriceMap, RefreshReport) {
	out := make(model.PriceMap, len(prices))
	maps.Copy(out, prices)
	report := RefreshReport{Updated: []string{}, Failed: map[string]string{}, Skipped: []string{}}

	for _, pos := range portfolio.HeldAssets(txns) {
		client := r.clientFor(pos.AssetType)
		if client == nil {
			report.Skipped = append(report.Skipped, pos.Key)
			continue
		}
		price, err := client.Quote(ctx, pos.Symbol)
		if err != nil {
			r.logger.Warn().Err(err).Str("asset", pos.Key).Str("source", client.Name()).Msg("price refresh failed")
			report.Failed[pos.Key] = err.Error()
			if ctx.Err() != nil {
				break
			}
			continue
		}
		out[pos.Key] = model.Price{
			Price:     price,
			UpdatedAt: r.now().UTC().Format(time.RFC3339),
			Source:    client.Name(),
		}
		report.Updated = append(report.Updated, pos.Key)
	}

	r.logger.Info().
		Int("updated", len(report.Updated)).
		Int("failed", len(report.Failed)).
		Int("skipped", len(report.Skipped)).
		Msg("prices refreshed")
	return out, report
}
