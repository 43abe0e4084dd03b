// Package store provides the record backends behind the ledger.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/tiffin/internal/model"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // register sqlite driver
)

// SQLite stores skip and payment records in a local SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at dbPath.
func OpenSQLite(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// SkipDates returns all skip keys for the user.
func (s *SQLite) SkipDates(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT date FROM skips WHERE user_id = ? ORDER BY date", userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// PutSkip upserts the skip record.
func (s *SQLite) PutSkip(ctx context.Context, userID string, rec model.SkipRecord) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO skips (user_id, date, created_at)
		VALUES (?, ?, ?)`, userID, rec.Date, rec.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

// DeleteSkip removes the skip record if present.
func (s *SQLite) DeleteSkip(ctx context.Context, userID, date string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM skips WHERE user_id = ? AND date = ?", userID, date)
	return err
}

// AppendPayment inserts a new payment row.
func (s *SQLite) AppendPayment(ctx context.Context, userID string, rec model.PaymentRecord) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO payments (id, user_id, amount, paid_at, note)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ID, userID, rec.Amount.String(), rec.PaidAt.UTC().Format(time.RFC3339Nano), rec.Note,
	)
	return err
}

// SumPayments totals payment amounts exactly; NULL or unparsable amounts count as zero.
func (s *SQLite) SumPayments(ctx context.Context, userID string) (decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT amount FROM payments WHERE user_id = ?", userID)
	if err != nil {
		return decimal.Zero, err
	}
	defer func() { _ = rows.Close() }()

	total := decimal.Zero
	for rows.Next() {
		var amount sql.NullString
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(parseAmount(amount))
	}
	return total, rows.Err()
}

// Skips returns full skip records ordered by date.
func (s *SQLite) Skips(ctx context.Context, userID string) ([]model.SkipRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT date, created_at FROM skips WHERE user_id = ? ORDER BY date", userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var skips []model.SkipRecord
	for rows.Next() {
		var rec model.SkipRecord
		var created string
		if err := rows.Scan(&rec.Date, &created); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("sqlite: skip %s created_at: %w", rec.Date, err)
		}
		rec.CreatedAt = t
		skips = append(skips, rec)
	}
	return skips, rows.Err()
}

// Payments returns payment records in insertion order.
func (s *SQLite) Payments(ctx context.Context, userID string) ([]model.PaymentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, amount, paid_at, note
		FROM payments WHERE user_id = ? ORDER BY seq`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var payments []model.PaymentRecord
	for rows.Next() {
		var rec model.PaymentRecord
		var amount sql.NullString
		var paidAt string
		if err := rows.Scan(&rec.ID, &amount, &paidAt, &rec.Note); err != nil {
			return nil, err
		}
		rec.Amount = parseAmount(amount)
		t, err := time.Parse(time.RFC3339Nano, paidAt)
		if err != nil {
			return nil, fmt.Errorf("sqlite: payment %s paid_at: %w", rec.ID, err)
		}
		rec.PaidAt = t
		payments = append(payments, rec)
	}
	return payments, rows.Err()
}

func parseAmount(s sql.NullString) decimal.Decimal {
	if !s.Valid || s.String == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return decimal.Zero
	}
	return d
}
