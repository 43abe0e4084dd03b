package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/tiffin/internal/cli"

	"github.com/spf13/cobra"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List skipped days and payments",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "l", 20, "Max rows per table (0 = all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	s, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	h, err := s.ledger.History(cmd.Context(), s.user)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("HISTORY  " + s.user))
	fmt.Println()

	if len(h.Skips) == 0 && len(h.Payments) == 0 {
		fmt.Println("  No skips or payments recorded yet.")
		return nil
	}

	// Newest first.
	skips := latest(h.Skips, flagHistoryLimit)
	skipRows := make([][]string, 0, len(skips))
	for _, sk := range skips {
		skipRows = append(skipRows, []string{cli.FormatDate(sk.Date), sk.CreatedAt.Local().Format(time.DateTime)})
	}
	if len(skipRows) > 0 {
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   fmt.Sprintf("Skipped days (%d)", len(h.Skips)),
			Headers: []string{"Date", "Marked At"},
			Rows:    skipRows,
		}))
		fmt.Println()
	}

	currency := s.cfg.Ledger.Currency
	payments := latest(h.Payments, flagHistoryLimit)
	payRows := make([][]string, 0, len(payments))
	for _, p := range payments {
		payRows = append(payRows, []string{p.PaidAt.Local().Format(time.DateTime), p.Note, cli.FormatMoney(currency, p.Amount)})
	}
	if len(payRows) > 0 {
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   fmt.Sprintf("Payments (%d)", len(h.Payments)),
			Headers: []string{"Paid At", "Note", "Amount"},
			Rows:    payRows,
		}))
	}
	return nil
}

// latest returns up to limit records from the end of recs, newest first.
func latest[T any](recs []T, limit int) []T {
	n := len(recs)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]T, 0, n)
	for i := len(recs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, recs[i])
	}
	return out
}
