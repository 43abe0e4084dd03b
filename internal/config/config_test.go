package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func withConfigPath(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	SetPath(path)
	t.Cleanup(func() { SetPath("") })
	return path
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	withConfigPath(t)
	t.Setenv("TIFFIN_USER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Ledger.CostPerMeal != "60" || cfg.Ledger.StartDate != "2026-02-01" {
		t.Fatalf("defaults = %+v", cfg.Ledger)
	}
	if Exists() {
		t.Fatal("Exists() = true with no file")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := withConfigPath(t)
	t.Setenv("TIFFIN_USER", "")

	cfg := DefaultConfig()
	cfg.Ledger.UserID = "asha"
	cfg.Ledger.CostPerMeal = "75.50"
	cfg.Store.Driver = "postgres"
	cfg.Store.DSN = "postgres://localhost/tiffin"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config perm = %o, want 600", perm)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Ledger.UserID != "asha" || got.Store.DSN != cfg.Store.DSN || got.Ledger.CostPerMeal != "75.50" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := withConfigPath(t)
	if err := os.WriteFile(path, []byte("[ledger]\nuser_id = \"file-user\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TIFFIN_USER", "env-user")
	t.Setenv("TIFFIN_DSN", "postgres://env")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Ledger.UserID != "env-user" {
		t.Errorf("UserID = %q, want env-user", cfg.Ledger.UserID)
	}
	if cfg.Store.DSN != "postgres://env" {
		t.Errorf("DSN = %q, want env override", cfg.Store.DSN)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Ledger.CostPerMeal != "60" {
		t.Errorf("CostPerMeal = %q, want default 60", cfg.Ledger.CostPerMeal)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := withConfigPath(t)
	if err := os.WriteFile(path, []byte("[ledger\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("Load accepted malformed TOML")
	}
}

func TestAccrual(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ledger.CostPerMeal = "80"
	cfg.Ledger.StartDate = "2026-03-15"
	cfg.Ledger.Timezone = "UTC"

	lc, err := cfg.Accrual()
	if err != nil {
		t.Fatalf("Accrual: %v", err)
	}
	if !lc.CostPerMeal.Equal(decimal.NewFromInt(80)) {
		t.Errorf("CostPerMeal = %s, want 80", lc.CostPerMeal)
	}
	want := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	if !lc.StartDate.Equal(want) {
		t.Errorf("StartDate = %v, want %v", lc.StartDate, want)
	}
	if lc.Location != time.UTC {
		t.Errorf("Location = %v, want UTC", lc.Location)
	}
}

func TestAccrual_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad cost", func(c *Config) { c.Ledger.CostPerMeal = "sixty" }},
		{"negative cost", func(c *Config) { c.Ledger.CostPerMeal = "-1" }},
		{"bad date", func(c *Config) { c.Ledger.StartDate = "01/02/2026" }},
		{"bad zone", func(c *Config) { c.Ledger.Timezone = "Mars/Olympus" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := cfg.Accrual(); err == nil {
				t.Fatal("Accrual accepted invalid config")
			}
		})
	}
}

func TestStoreOptions_DefaultPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	opts := DefaultConfig().StoreOptions()
	if opts.Path != "/tmp/xdg-data/tiffin/ledger.db" {
		t.Fatalf("Path = %q", opts.Path)
	}
}

func TestLoadFile_IgnoresEnvSoSaveDoesNotPersistIt(t *testing.T) {
	path := withConfigPath(t)
	if err := os.WriteFile(path, []byte("[ledger]\nuser_id = \"file-user\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TIFFIN_USER", "someone_else")
	t.Setenv("TIFFIN_DSN", "postgres://u:secret@db/tiffin")

	cfg, err := LoadFile()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Ledger.UserID != "file-user" || cfg.Store.DSN != "" {
		t.Fatalf("LoadFile applied env: %+v %+v", cfg.Ledger, cfg.Store)
	}
	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "secret") || strings.Contains(string(data), "someone_else") {
		t.Errorf("env values written to config:\n%s", data)
	}
}
