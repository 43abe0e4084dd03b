package cmd

import (
	"fmt"

	"github.com/theirongolddev/tiffin/internal/cli"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show days, skips, bill, payments and balance",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	s, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.ledger.ComputeSnapshot(cmd.Context(), s.user)
	if err != nil {
		return err
	}

	currency := s.cfg.Ledger.Currency
	lc := s.ledger.Config()

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("TIFFIN  %s  %s", s.user, cli.FormatSince(lc.StartDate))))
	fmt.Println()
	fmt.Println(cli.RenderBalance(currency, snap))
	fmt.Println(cli.RenderTodayStatus(snap))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.SnapshotTable(currency, snap)))

	if snap.TotalDays == 0 {
		fmt.Printf("\n  Billing starts on %s.\n", cli.FormatDate(lc.StartDate.Format("2006-01-02")))
	}
	return nil
}
