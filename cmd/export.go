package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/theirongolddev/tiffin/internal/archive"

	"github.com/spf13/cobra"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write skips and payments as JSON Lines",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load skips and payments from a JSON Lines archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "output", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	s, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	h, err := s.ledger.History(cmd.Context(), s.user)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if flagExportOut != "" {
		f, err := os.OpenFile(flagExportOut, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if err := archive.Export(w, h); err != nil {
		return err
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Exported %d skips and %d payments\n", len(h.Skips), len(h.Payments))
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	//nolint:gosec // archive path is given by the local user
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer func() { _ = f.Close() }()

	s, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := archive.Import(cmd.Context(), f, s.store, s.user)
	if err != nil {
		return err
	}

	fmt.Printf("  Imported %d skips and %d payments for %s\n", res.Skips, res.Payments, s.user)
	if res.Duplicates > 0 {
		fmt.Printf("  %d payments already present, skipped\n", res.Duplicates)
	}
	if res.BadLines > 0 {
		fmt.Fprintf(os.Stderr, "  %d lines could not be parsed\n", res.BadLines)
	}
	return nil
}
