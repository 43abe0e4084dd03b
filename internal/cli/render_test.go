package cli

import (
	"strings"
	"testing"

	"github.com/theirongolddev/tiffin/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func TestRenderTable_AlignsMultibyteCells(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Bill", "₹1,234"},
			{"---"},
			{"Paid", "₹60"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	width := lipgloss.Width(lines[0])
	for i, line := range lines {
		if w := lipgloss.Width(line); w != width {
			t.Errorf("line %d width = %d, want %d: %q", i, w, width, line)
		}
	}
	if !strings.Contains(out, "    ₹60 ") {
		t.Errorf("amount not right-aligned:\n%s", out)
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Errorf("RenderTable(empty) = %q, want empty", got)
	}
}

func TestSnapshotTable(t *testing.T) {
	snap := model.Snapshot{
		TotalDays:   5,
		SkippedDays: 1,
		TotalCost:   decimal.NewFromInt(240),
		TotalPaid:   decimal.NewFromInt(120),
		Balance:     decimal.NewFromInt(120),
	}
	out := RenderTable(SnapshotTable("₹", snap))
	for _, want := range []string{"Chargeable", "₹240", "Net Payable", "₹120"} {
		if !strings.Contains(out, want) {
			t.Errorf("snapshot table missing %q:\n%s", want, out)
		}
	}

	if got := RenderBalance("₹", snap); !strings.Contains(got, "You Owe") {
		t.Errorf("RenderBalance = %q, want You Owe", got)
	}
	snap.Balance = decimal.NewFromInt(-60)
	if got := RenderBalance("₹", snap); !strings.Contains(got, "Advance Paid") || !strings.Contains(got, "₹60") {
		t.Errorf("RenderBalance = %q, want Advance Paid ₹60", got)
	}
}
