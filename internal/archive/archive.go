// Package archive exports and imports ledger records as JSON Lines.
package archive

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/theirongolddev/tiffin/internal/ledger"
	"github.com/theirongolddev/tiffin/internal/model"

	"github.com/shopspring/decimal"
)

// Line kinds.
const (
	KindSkip    = "skip"
	KindPayment = "payment"
)

// Entry is one archive line. Fields irrelevant to Kind are omitted.
type Entry struct {
	Kind      string           `json:"kind"`
	Date      string           `json:"date,omitempty"`
	CreatedAt *time.Time       `json:"created_at,omitempty"`
	ID        string           `json:"id,omitempty"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	PaidAt    *time.Time       `json:"paid_at,omitempty"`
	Note      string           `json:"note,omitempty"`
}

// Export writes skips then payments, one JSON object per line.
func Export(w io.Writer, h ledger.History) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	for _, s := range h.Skips {
		created := s.CreatedAt
		if err := enc.Encode(Entry{Kind: KindSkip, Date: s.Date, CreatedAt: &created}); err != nil {
			return fmt.Errorf("archive: encoding skip %s: %w", s.Date, err)
		}
	}
	for _, p := range h.Payments {
		amount, paid := p.Amount, p.PaidAt
		e := Entry{Kind: KindPayment, ID: p.ID, Amount: &amount, PaidAt: &paid, Note: p.Note}
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("archive: encoding payment %s: %w", p.ID, err)
		}
	}
	return bw.Flush()
}

// ImportResult tallies what Import did.
type ImportResult struct {
	Skips      int
	Payments   int
	Duplicates int // payments whose id already existed
	BadLines   int // unparsable or incomplete lines
}

// Import replays an archive into st for userID. Payments already present
// (by id) are not appended again; skips are idempotent by nature. Malformed
// lines are counted, not fatal. Store failures abort the import.
func Import(ctx context.Context, r io.Reader, st ledger.HistoryStore, userID string) (ImportResult, error) {
	var res ImportResult

	existing, err := st.Payments(ctx, userID)
	if err != nil {
		return res, &ledger.RetrievalError{Op: "list payments", UserID: userID, Err: err}
	}
	seen := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		seen[p.ID] = struct{}{}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			res.BadLines++
			continue
		}

		switch e.Kind {
		case KindSkip:
			if e.Date == "" {
				res.BadLines++
				continue
			}
			rec := model.SkipRecord{Date: e.Date, CreatedAt: time.Now()}
			if e.CreatedAt != nil {
				rec.CreatedAt = *e.CreatedAt
			}
			if err := st.PutSkip(ctx, userID, rec); err != nil {
				return res, &ledger.WriteError{Op: "put skip " + e.Date, UserID: userID, Err: err}
			}
			res.Skips++

		case KindPayment:
			if e.ID == "" {
				res.BadLines++
				continue
			}
			if _, dup := seen[e.ID]; dup {
				res.Duplicates++
				continue
			}
			rec := model.PaymentRecord{ID: e.ID, Note: e.Note, PaidAt: time.Now()}
			// A missing amount counts as zero, mirroring the ledger sum.
			if e.Amount != nil {
				rec.Amount = *e.Amount
			}
			if e.PaidAt != nil {
				rec.PaidAt = *e.PaidAt
			}
			if err := st.AppendPayment(ctx, userID, rec); err != nil {
				return res, &ledger.WriteError{Op: "append payment", UserID: userID, Err: err}
			}
			seen[e.ID] = struct{}{}
			res.Payments++

		default:
			res.BadLines++
		}
	}

	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("archive: reading: %w", err)
	}
	return res, nil
}
