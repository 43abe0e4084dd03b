package cmd

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/theirongolddev/tiffin/internal/config"
	"github.com/theirongolddev/tiffin/internal/store"
)

func TestPromptSetup(t *testing.T) {
	answers := strings.Join([]string{
		"alice",
		"75.50",
		"2026-03-01",
		"2",
		"postgres://u:p@localhost/tiffin",
		"3",
	}, "\n") + "\n"

	cfg := promptSetup(bufio.NewReader(strings.NewReader(answers)), io.Discard, config.DefaultConfig())

	if cfg.Ledger.UserID != "alice" {
		t.Errorf("UserID = %q", cfg.Ledger.UserID)
	}
	if cfg.Ledger.CostPerMeal != "75.5" {
		t.Errorf("CostPerMeal = %q", cfg.Ledger.CostPerMeal)
	}
	if cfg.Ledger.StartDate != "2026-03-01" {
		t.Errorf("StartDate = %q", cfg.Ledger.StartDate)
	}
	if cfg.Store.Driver != store.DriverPostgres || cfg.Store.DSN != "postgres://u:p@localhost/tiffin" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Appearance.Theme != "tokyo-night" {
		t.Errorf("Theme = %q", cfg.Appearance.Theme)
	}
}

func TestPromptSetup_KeepsDefaultsOnBadInput(t *testing.T) {
	answers := "\nlots\n02/03/2026\n\n\n"
	def := config.DefaultConfig()

	cfg := promptSetup(bufio.NewReader(strings.NewReader(answers)), io.Discard, def)

	if cfg.Ledger != def.Ledger {
		t.Errorf("Ledger = %+v, want %+v", cfg.Ledger, def.Ledger)
	}
	if cfg.Store.Driver != store.DriverSQLite {
		t.Errorf("Driver = %q", cfg.Store.Driver)
	}
}

func TestParseDateArg(t *testing.T) {
	s := config.DefaultConfig()
	lc, err := s.Accrual()
	if err != nil {
		t.Fatal(err)
	}

	if got, err := parseDateArg(nil, lc); err != nil || got != lc.Today() {
		t.Errorf("parseDateArg(nil) = %q, %v", got, err)
	}
	if got, err := parseDateArg([]string{"2026-02-03"}, lc); err != nil || got != "2026-02-03" {
		t.Errorf("parseDateArg(valid) = %q, %v", got, err)
	}
	for _, bad := range []string{"2026-2-3", "03-02-2026", "tomorrow", "2026-02-30"} {
		if _, err := parseDateArg([]string{bad}, lc); err == nil {
			t.Errorf("parseDateArg(%q) accepted", bad)
		}
	}
}

func TestMaskDSN(t *testing.T) {
	if got := maskDSN("postgres://me:secret@db/tiffin"); strings.Contains(got, "secret") {
		t.Errorf("maskDSN leaked password: %q", got)
	}
	if got := maskDSN("host=db user=me"); got != "host=db user=me" {
		t.Errorf("maskDSN(keyword form) = %q", got)
	}
}
