package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/theirongolddev/tiffin/internal/config"
	"github.com/theirongolddev/tiffin/internal/ledger"
	"github.com/theirongolddev/tiffin/internal/model"
	"github.com/theirongolddev/tiffin/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagUser   string
	flagConfig string
	flagQuiet  bool
)

var rootCmd = &cobra.Command{
	Use:   "tiffin",
	Short: "Tiffin skip and payment ledger",
	Long:  "Track skipped meals and payments for a prepaid tiffin service, and see what you owe.",
	RunE:  runSummary,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagConfig != "" {
			config.SetPath(flagConfig)
		}
	},
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "User id (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// session bundles what a command needs to talk to the ledger.
type session struct {
	cfg    config.Config
	user   string
	ledger *ledger.Ledger
	store  store.Backend
}

func (s *session) Close() {
	_ = s.store.Close()
}

// openLedger is the shared setup path used by all ledger commands.
func openLedger(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	lc, err := cfg.Accrual()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	user := cfg.Ledger.UserID
	if flagUser != "" {
		user = flagUser
	}
	if strings.TrimSpace(user) == "" {
		return nil, fmt.Errorf("no user id: set ledger.user_id or pass --user")
	}

	opts := cfg.StoreOptions()
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Opening %s store...\n", storeLabel(opts))
	}
	st, err := store.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &session{
		cfg:    cfg,
		user:   user,
		ledger: ledger.New(st, lc),
		store:  st,
	}, nil
}

func storeLabel(opts store.Options) string {
	switch opts.Driver {
	case store.DriverPostgres:
		return "postgres"
	case store.DriverRemote:
		return "remote " + opts.URL
	case store.DriverMemory:
		return "in-memory"
	default:
		return "sqlite " + opts.Path
	}
}

// parseDateArg resolves an optional YYYY-MM-DD argument, defaulting to today.
func parseDateArg(args []string, lc ledger.Config) (string, error) {
	if len(args) == 0 {
		return lc.Today(), nil
	}
	d, err := time.Parse(model.DateLayout, args[0])
	if err != nil {
		return "", fmt.Errorf("invalid date %q (want YYYY-MM-DD)", args[0])
	}
	return d.Format(model.DateLayout), nil
}
