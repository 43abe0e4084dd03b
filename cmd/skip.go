package cmd

import (
	"fmt"

	"github.com/theirongolddev/tiffin/internal/cli"

	"github.com/spf13/cobra"
)

var skipCmd = &cobra.Command{
	Use:   "skip [date]",
	Short: "Mark a day as skipped (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetSkip(cmd, args, true)
	},
}

var unskipCmd = &cobra.Command{
	Use:   "unskip [date]",
	Short: "Clear a skipped day (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetSkip(cmd, args, false)
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Flip today's skip state",
	Args:  cobra.NoArgs,
	RunE:  runToggle,
}

func init() {
	rootCmd.AddCommand(skipCmd)
	rootCmd.AddCommand(unskipCmd)
	rootCmd.AddCommand(toggleCmd)
}

func runSetSkip(cmd *cobra.Command, args []string, skipped bool) error {
	s, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	date, err := parseDateArg(args, s.ledger.Config())
	if err != nil {
		return err
	}

	if err := s.ledger.SetSkip(cmd.Context(), s.user, date, skipped); err != nil {
		return err
	}

	if skipped {
		fmt.Printf("  Skipped %s\n", cli.FormatDate(date))
	} else {
		fmt.Printf("  Cleared skip for %s\n", cli.FormatDate(date))
	}
	return printBalance(cmd, s)
}

func runToggle(cmd *cobra.Command, _ []string) error {
	s, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	skipped, err := s.ledger.ToggleToday(cmd.Context(), s.user)
	if err != nil {
		return err
	}

	today := s.ledger.Config().Today()
	if skipped {
		fmt.Printf("  Skipping today (%s)\n", today)
	} else {
		fmt.Printf("  Eating today (%s)\n", today)
	}
	return printBalance(cmd, s)
}

// printBalance re-reads the snapshot after a write and prints the headline.
func printBalance(cmd *cobra.Command, s *session) error {
	snap, err := s.ledger.ComputeSnapshot(cmd.Context(), s.user)
	if err != nil {
		return err
	}
	fmt.Println(cli.RenderBalance(s.cfg.Ledger.Currency, snap))
	return nil
}
