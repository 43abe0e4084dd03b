package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/theirongolddev/tiffin/internal/config"
	"github.com/theirongolddev/tiffin/internal/model"
	"github.com/theirongolddev/tiffin/internal/store"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Existing file or defaults; env overrides must not be written back.
	cfg, _ := config.LoadFile()

	fmt.Println()
	fmt.Println("  Welcome to tiffin!")
	fmt.Println()

	cfg = promptSetup(bufio.NewReader(os.Stdin), os.Stdout, cfg)

	if _, err := cfg.Accrual(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `tiffin setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}

// promptSetup walks through the wizard questions. Empty answers keep the
// current value; invalid answers are reported and ignored.
func promptSetup(reader *bufio.Reader, out io.Writer, cfg config.Config) config.Config {
	ask := func(q string) string {
		fmt.Fprint(out, q)
		line, _ := reader.ReadString('\n')
		return strings.TrimSpace(line)
	}

	// 1. User
	fmt.Fprintln(out, "  1. User id")
	fmt.Fprintf(out, "     Current: %s\n", cfg.Ledger.UserID)
	if v := ask("     > "); v != "" {
		cfg.Ledger.UserID = v
	}
	fmt.Fprintln(out)

	// 2. Cost per meal
	fmt.Fprintln(out, "  2. Cost per meal")
	fmt.Fprintf(out, "     Current: %s%s\n", cfg.Ledger.Currency, cfg.Ledger.CostPerMeal)
	if v := ask("     > "); v != "" {
		if d, err := decimal.NewFromString(v); err != nil || d.IsNegative() {
			fmt.Fprintf(out, "     Ignoring %q: not a valid amount\n", v)
		} else {
			cfg.Ledger.CostPerMeal = d.String()
		}
	}
	fmt.Fprintln(out)

	// 3. Start date
	fmt.Fprintln(out, "  3. Billing start date (YYYY-MM-DD)")
	fmt.Fprintf(out, "     Current: %s\n", cfg.Ledger.StartDate)
	if v := ask("     > "); v != "" {
		if _, err := time.Parse(model.DateLayout, v); err != nil {
			fmt.Fprintf(out, "     Ignoring %q: not a valid date\n", v)
		} else {
			cfg.Ledger.StartDate = v
		}
	}
	fmt.Fprintln(out)

	// 4. Storage
	fmt.Fprintln(out, "  4. Storage")
	fmt.Fprintln(out, "     (1) Local SQLite [default]")
	fmt.Fprintln(out, "     (2) PostgreSQL")
	fmt.Fprintln(out, "     (3) Remote tiffin daemon")
	switch ask("     > ") {
	case "2":
		cfg.Store.Driver = store.DriverPostgres
		if v := ask("     DSN > "); v != "" {
			cfg.Store.DSN = v
		}
	case "3":
		cfg.Store.Driver = store.DriverRemote
		if v := ask("     URL > "); v != "" {
			cfg.Store.URL = v
		}
	default:
		cfg.Store.Driver = store.DriverSQLite
	}
	fmt.Fprintln(out)

	// 5. Theme
	fmt.Fprintln(out, "  5. Color theme")
	fmt.Fprintln(out, "     (1) Flexoki Dark [default]")
	fmt.Fprintln(out, "     (2) Catppuccin Mocha")
	fmt.Fprintln(out, "     (3) Tokyo Night")
	fmt.Fprintln(out, "     (4) Terminal (ANSI 16)")
	switch ask("     > ") {
	case "2":
		cfg.Appearance.Theme = "catppuccin-mocha"
	case "3":
		cfg.Appearance.Theme = "tokyo-night"
	case "4":
		cfg.Appearance.Theme = "terminal"
	default:
		cfg.Appearance.Theme = "flexoki-dark"
	}

	return cfg
}
