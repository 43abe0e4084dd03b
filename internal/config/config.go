// Package config loads and saves the tiffin TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/theirongolddev/tiffin/internal/ledger"
	"github.com/theirongolddev/tiffin/internal/model"
	"github.com/theirongolddev/tiffin/internal/store"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
)

// Config holds all tiffin configuration.
type Config struct {
	Ledger     LedgerConfig     `toml:"ledger"`
	Store      StoreConfig      `toml:"store"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// LedgerConfig holds the accrual parameters and the default user.
type LedgerConfig struct {
	UserID      string `toml:"user_id"`
	CostPerMeal string `toml:"cost_per_meal"`
	StartDate   string `toml:"start_date"`
	Timezone    string `toml:"timezone,omitempty"`
	Currency    string `toml:"currency"`
}

// StoreConfig selects the record backend.
type StoreConfig struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path,omitempty"`
	DSN    string `toml:"dsn,omitempty"`
	URL    string `toml:"url,omitempty"`
}

// DaemonConfig holds `tiffin serve` settings.
type DaemonConfig struct {
	Addr         string `toml:"addr"`
	IntervalSec  int    `toml:"interval_sec"`
	EventsBuffer int    `toml:"events_buffer"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Ledger: LedgerConfig{
			UserID:      "demo_user_123",
			CostPerMeal: "60",
			StartDate:   "2026-02-01",
			Currency:    "₹",
		},
		Store: StoreConfig{
			Driver: store.DriverSQLite,
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8787",
			IntervalSec:  30,
			EventsBuffer: 200,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// pathOverride is set by SetPath for the --config flag.
var pathOverride string

// SetPath makes Load and Save use path instead of the XDG location.
func SetPath(path string) {
	pathOverride = path
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tiffin")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tiffin")
}

// Path returns the full path to the config file.
func Path() string {
	if pathOverride != "" {
		return pathOverride
	}
	return filepath.Join(Dir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory for the default database.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tiffin")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "tiffin")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied last.
func Load() (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	return cfg, nil
}

// LoadFile reads the config file without environment overrides. Anything
// that is later passed to Save should come from here.
func LoadFile() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	} else if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if u := os.Getenv("TIFFIN_USER"); u != "" {
		cfg.Ledger.UserID = u
	}
	if dsn := os.Getenv("TIFFIN_DSN"); dsn != "" {
		cfg.Store.DSN = dsn
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// Location resolves the configured timezone; empty means local time.
func (c LedgerConfig) Location() (*time.Location, error) {
	if strings.TrimSpace(c.Timezone) == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("ledger.timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Accrual converts the [ledger] section into ledger parameters.
func (c Config) Accrual() (ledger.Config, error) {
	lc := ledger.DefaultConfig()

	loc, err := c.Ledger.Location()
	if err != nil {
		return lc, err
	}
	lc.Location = loc

	if c.Ledger.CostPerMeal != "" {
		cost, err := decimal.NewFromString(c.Ledger.CostPerMeal)
		if err != nil {
			return lc, fmt.Errorf("ledger.cost_per_meal %q: %w", c.Ledger.CostPerMeal, err)
		}
		if cost.IsNegative() {
			return lc, fmt.Errorf("ledger.cost_per_meal %q: must not be negative", c.Ledger.CostPerMeal)
		}
		lc.CostPerMeal = cost
	}

	if c.Ledger.StartDate != "" {
		start, err := time.ParseInLocation(model.DateLayout, c.Ledger.StartDate, loc)
		if err != nil {
			return lc, fmt.Errorf("ledger.start_date %q: %w", c.Ledger.StartDate, err)
		}
		lc.StartDate = start
	} else {
		d := lc.StartDate
		lc.StartDate = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	}

	return lc, nil
}

// StoreOptions converts the [store] section into backend options.
func (c Config) StoreOptions() store.Options {
	path := c.Store.Path
	if path == "" {
		path = filepath.Join(DataDir(), "ledger.db")
	}
	return store.Options{
		Driver: c.Store.Driver,
		Path:   path,
		DSN:    c.Store.DSN,
		URL:    c.Store.URL,
	}
}

// Interval returns the daemon poll interval.
func (c DaemonConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSec) * time.Second
}
