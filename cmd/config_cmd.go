// Package cmd implements the tiffin CLI commands.
package cmd

import (
	"fmt"
	"net/url"

	"github.com/theirongolddev/tiffin/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Ledger]")
	fmt.Printf("    User:          %s\n", cfg.Ledger.UserID)
	fmt.Printf("    Cost per meal: %s%s\n", cfg.Ledger.Currency, cfg.Ledger.CostPerMeal)
	fmt.Printf("    Start date:    %s\n", cfg.Ledger.StartDate)
	if cfg.Ledger.Timezone != "" {
		fmt.Printf("    Timezone:      %s\n", cfg.Ledger.Timezone)
	} else {
		fmt.Println("    Timezone:      local")
	}
	if _, err := cfg.Accrual(); err != nil {
		fmt.Printf("    Invalid:       %v\n", err)
	}
	fmt.Println()

	opts := cfg.StoreOptions()
	fmt.Println("  [Store]")
	fmt.Printf("    Driver: %s\n", storeLabel(opts))
	if cfg.Store.DSN != "" {
		fmt.Printf("    DSN:    %s\n", maskDSN(cfg.Store.DSN))
	}
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval: %s\n", cfg.Daemon.Interval())
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `tiffin setup` to reconfigure.")
	return nil
}

// maskDSN hides the password of a postgres URL-style DSN.
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "****")
	}
	return u.String()
}
