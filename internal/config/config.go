package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the workspace configuration file.
const FileName = "runway.yaml"

// Environment variables that override API keys from the file.
const (
	EnvEODHDAPIKey     = "RUNWAY_EODHD_API_KEY"
	EnvCoinGeckoAPIKey = "RUNWAY_COINGECKO_API_KEY"
)

// Config represents the top-level runway.yaml configuration.
type Config struct {
	Currency   string           `yaml:"currency"`
	Projection ProjectionConfig `yaml:"projection"`
	Storage    StorageConfig    `yaml:"storage"`
	Quotes     QuotesConfig     `yaml:"quotes"`
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Git        GitConfig        `yaml:"git"`
}

// ProjectionConfig holds cash-flow projection defaults.
type ProjectionConfig struct {
	HorizonDays      int      `yaml:"horizon_days"`
	CashAccountTypes []string `yaml:"cash_account_types"` // account types summed into the starting balance
}

// StorageConfig selects the key-value backend.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "file" or "sqlite"
	Path    string `yaml:"path"`    // relative to the workspace root
}

// QuotesConfig configures the price lookups.
type QuotesConfig struct {
	EODHD           QuoteSourceConfig `yaml:"eodhd"`
	CoinGecko       QuoteSourceConfig `yaml:"coingecko"`
	VsCurrency      string            `yaml:"vs_currency,omitempty"`
	RefreshSchedule string            `yaml:"refresh_schedule,omitempty"` // cron spec used by serve
}

// QuoteSourceConfig holds one quote API's settings.
type QuoteSourceConfig struct {
	BaseURL   string `yaml:"base_url,omitempty"`
	APIKey    string `yaml:"api_key,omitempty"`
	RateLimit int    `yaml:"rate_limit,omitempty"` // requests per second
	Timeout   string `yaml:"timeout,omitempty"`
}

// GetTimeout parses the timeout, falling back to 30 seconds.
func (c QuoteSourceConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// GitConfig controls git snapshots of the workspace.
type GitConfig struct {
	Enabled     bool   `yaml:"enabled"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a runway.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
// An empty currency means USD.
func Default(currency string) *Config {
	if currency == "" {
		currency = "USD"
	}
	return &Config{
		Currency: currency,
		Projection: ProjectionConfig{
			HorizonDays:      30,
			CashAccountTypes: []string{"checking", "savings", "cash"},
		},
		Storage: StorageConfig{
			Backend: "file",
			Path:    "data",
		},
		Quotes: QuotesConfig{
			EODHD: QuoteSourceConfig{
				BaseURL:   "https://eodhd.com/api",
				RateLimit: 10,
				Timeout:   "30s",
			},
			CoinGecko: QuoteSourceConfig{
				BaseURL:   "https://api.coingecko.com/api/v3",
				RateLimit: 5,
				Timeout:   "30s",
			},
			VsCurrency: "usd",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Git: GitConfig{
			AuthorName:  "runway",
			AuthorEmail: "runway@localhost",
		},
	}
}

// ApplyEnv overrides API keys from the environment when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvEODHDAPIKey); v != "" {
		c.Quotes.EODHD.APIKey = v
	}
	if v := os.Getenv(EnvCoinGeckoAPIKey); v != "" {
		c.Quotes.CoinGecko.APIKey = v
	}
}
