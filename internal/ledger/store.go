package ledger

import (
	"context"

	"github.com/theirongolddev/tiffin/internal/model"

	"github.com/shopspring/decimal"
)

// Store is the minimal per-user record capability the ledger needs.
// Implementations must be safe for concurrent use.
type Store interface {
	// SkipDates returns every skip key recorded for the user.
	SkipDates(ctx context.Context, userID string) ([]string, error)
	// PutSkip creates or overwrites the skip record for rec.Date.
	PutSkip(ctx context.Context, userID string, rec model.SkipRecord) error
	// DeleteSkip removes the skip record for date. Missing records are not an error.
	DeleteSkip(ctx context.Context, userID, date string) error
	// AppendPayment adds a payment record.
	AppendPayment(ctx context.Context, userID string, rec model.PaymentRecord) error
	// SumPayments totals the amount field over the user's payments.
	SumPayments(ctx context.Context, userID string) (decimal.Decimal, error)
}

// HistoryStore is implemented by stores that can list full records.
type HistoryStore interface {
	Store
	// Skips returns skip records ordered by date.
	Skips(ctx context.Context, userID string) ([]model.SkipRecord, error)
	// Payments returns payment records in creation order.
	Payments(ctx context.Context, userID string) ([]model.PaymentRecord, error)
}
