package cmd

import (
	"fmt"

	"github.com/theirongolddev/tiffin/internal/cli"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var flagPayNote string

var payCmd = &cobra.Command{
	Use:   "pay <amount>",
	Short: "Record a payment",
	Args:  cobra.ExactArgs(1),
	RunE:  runPay,
}

func init() {
	payCmd.Flags().StringVar(&flagPayNote, "note", "", "Payment note (default \"Manual Entry\")")
	rootCmd.AddCommand(payCmd)
}

func runPay(cmd *cobra.Command, args []string) error {
	amount, err := decimal.NewFromString(args[0])
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[0])
	}
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", amount)
	}

	s, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	rec, err := s.ledger.RecordPaymentNote(cmd.Context(), s.user, amount, flagPayNote)
	if err != nil {
		return err
	}

	fmt.Printf("  Recorded %s (%s)\n", cli.FormatMoney(s.cfg.Ledger.Currency, rec.Amount), rec.Note)
	if !flagQuiet {
		fmt.Printf("  Payment id: %s\n", rec.ID)
	}
	return printBalance(cmd, s)
}
