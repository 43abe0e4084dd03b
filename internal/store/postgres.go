package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/theirongolddev/tiffin/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Postgres stores records in a shared PostgreSQL database.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn, verifies the connection and ensures the schema.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, errors.New("postgres: empty dsn")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}
	cfg.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, pgSchemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: creating schema: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close releases the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// SkipDates returns the user's skipped dates in ascending order.
func (p *Postgres) SkipDates(ctx context.Context, userID string) ([]string, error) {
	rows, err := p.pool.Query(ctx, `SELECT date FROM skips WHERE user_id = $1 ORDER BY date`, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// PutSkip upserts a skip; on conflict the incoming created_at wins.
func (p *Postgres) PutSkip(ctx context.Context, userID string, rec model.SkipRecord) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO skips (user_id, date, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, date) DO UPDATE SET created_at = EXCLUDED.created_at
	`, userID, rec.Date, rec.CreatedAt)
	return err
}

// DeleteSkip removes a skip. Missing rows are not an error.
func (p *Postgres) DeleteSkip(ctx context.Context, userID, date string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM skips WHERE user_id = $1 AND date = $2`, userID, date)
	return err
}

// AppendPayment inserts a payment; a duplicate id is rejected.
func (p *Postgres) AppendPayment(ctx context.Context, userID string, rec model.PaymentRecord) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO payments (id, user_id, amount, paid_at, note)
		VALUES ($1, $2, $3::numeric, $4, $5)
	`, rec.ID, userID, rec.Amount.String(), rec.PaidAt, rec.Note)
	return err
}

// SumPayments lets the database total the amounts; SUM skips NULLs.
func (p *Postgres) SumPayments(ctx context.Context, userID string) (decimal.Decimal, error) {
	var total string
	err := p.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)::text FROM payments WHERE user_id = $1
	`, userID).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(total)
}

// Skips returns full skip records ordered by date.
func (p *Postgres) Skips(ctx context.Context, userID string) ([]model.SkipRecord, error) {
	rows, err := p.pool.Query(ctx, `SELECT date, created_at FROM skips WHERE user_id = $1 ORDER BY date`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SkipRecord
	for rows.Next() {
		var rec model.SkipRecord
		if err := rows.Scan(&rec.Date, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Payments returns payment records in insertion order.
func (p *Postgres) Payments(ctx context.Context, userID string) ([]model.PaymentRecord, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, COALESCE(amount, 0)::text, paid_at, note
		FROM payments WHERE user_id = $1 ORDER BY seq
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PaymentRecord
	for rows.Next() {
		var rec model.PaymentRecord
		var amount string
		if err := rows.Scan(&rec.ID, &amount, &rec.PaidAt, &rec.Note); err != nil {
			return nil, err
		}
		rec.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("postgres: payment %s amount: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
