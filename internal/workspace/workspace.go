// Package workspace ties a runway directory's config, storage and logger
// together and exposes the operations shared by the CLI and the API.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cleared-dev/runway/internal/accounts"
	"github.com/cleared-dev/runway/internal/activity"
	"github.com/cleared-dev/runway/internal/config"
	"github.com/cleared-dev/runway/internal/logging"
	"github.com/cleared-dev/runway/internal/model"
	"github.com/cleared-dev/runway/internal/quote"
	"github.com/cleared-dev/runway/internal/store"
)

// ErrNotInitialized is returned by Open when the directory has no runway.yaml.
var ErrNotInitialized = errors.New("not a runway workspace (run `runway init`)")

// ErrAlreadyInitialized is returned by Init when runway.yaml already exists.
var ErrAlreadyInitialized = errors.New("workspace already initialized")

// Workspace is an opened runway directory.
type Workspace struct {
	Root   string
	Config *config.Config
	Store  store.Store
	Data   *store.Repository
	Logger *logging.Logger
	Quotes *quote.Refresher

	// refreshMu serializes RefreshPrices so a scheduled refresh and an API
	// request cannot interleave their read and write of the price store.
	refreshMu sync.Mutex
}

// Open loads runway.yaml under root and opens the configured store. An
// empty logLevel uses the level from the config file.
func Open(root, logLevel string) (*Workspace, error) {
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, err
	}
	if logLevel == "" {
		logLevel = cfg.Logging.Level
	}
	return open(root, cfg, logging.NewLogger(logLevel))
}

// OpenWithLogger is Open with a caller-supplied logger.
func OpenWithLogger(root string, logger *logging.Logger) (*Workspace, error) {
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, err
	}
	return open(root, cfg, logger)
}

func loadConfig(root string) (*config.Config, error) {
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", root, ErrNotInitialized)
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

func open(root string, cfg *config.Config, logger *logging.Logger) (*Workspace, error) {
	s, err := store.Open(cfg.Storage.Backend, storePath(root, cfg))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return &Workspace{
		Root:   root,
		Config: cfg,
		Store:  s,
		Data:   store.NewRepository(s),
		Logger: logger,
		Quotes: quote.NewRefresherFromConfig(cfg.Quotes, logger),
	}, nil
}

func storePath(root string, cfg *config.Config) string {
	if filepath.IsAbs(cfg.Storage.Path) {
		return cfg.Storage.Path
	}
	return filepath.Join(root, cfg.Storage.Path)
}

// Close releases the store.
func (w *Workspace) Close() error {
	return w.Store.Close()
}

// Init creates a new workspace under root: runway.yaml, the import and
// logs folders, and a store seeded with the default accounts.
func Init(root, currency, backend string) (*config.Config, error) {
	cfgPath := filepath.Join(root, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return nil, fmt.Errorf("%s: %w", root, ErrAlreadyInitialized)
	}

	dirs := []string{
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(currency)
	switch backend {
	case "", store.BackendFile:
	case store.BackendSQLite:
		cfg.Storage.Backend = store.BackendSQLite
		cfg.Storage.Path = "runway.db"
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	s, err := store.Open(cfg.Storage.Backend, storePath(root, cfg))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	ctx := context.Background()
	repo := store.NewRepository(s)
	if err := accounts.NewService(accounts.DefaultAccounts()).Save(ctx, repo); err != nil {
		return nil, err
	}
	if err := repo.SaveEvents(ctx, []model.CalendarEvent{}); err != nil {
		return nil, err
	}
	if err := repo.SaveBills(ctx, []model.Bill{}); err != nil {
		return nil, err
	}
	if err := repo.SaveTransactions(ctx, []model.Transaction{}); err != nil {
		return nil, err
	}
	if err := repo.SavePrices(ctx, model.PriceMap{}); err != nil {
		return nil, err
	}

	if err := activity.Append(root, activity.Entry{Action: activity.ActionInit, Details: cfg.Currency + " " + cfg.Storage.Backend}); err != nil {
		return nil, err
	}
	return cfg, nil
}
