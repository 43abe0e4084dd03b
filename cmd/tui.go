package cmd

import (
	"fmt"

	"github.com/theirongolddev/tiffin/internal/config"
	"github.com/theirongolddev/tiffin/internal/tui"
	"github.com/theirongolddev/tiffin/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Progress lines would land under the alt screen.
	flagQuiet = true

	s, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	theme.SetActive(s.cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(tui.Options{
		Config:     s.cfg,
		Store:      s.store,
		Ledger:     s.ledger,
		UserID:     s.user,
		StoreLabel: storeLabel(s.cfg.StoreOptions()),
		NeedSetup:  !config.Exists(),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
