package remote

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequest is the body of POST /v1/users/{user}/payments. An empty ID
// asks the server to assign one.
type PaymentRequest struct {
	ID     string          `json:"id,omitempty"`
	Amount decimal.Decimal `json:"amount"`
	PaidAt time.Time       `json:"paid_at,omitzero"`
	Note   string          `json:"note,omitempty"`
}

// SkipRequest is the optional body of PUT /v1/users/{user}/skips/{date}.
type SkipRequest struct {
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// SumResponse is served at GET /v1/users/{user}/payments/sum.
type SumResponse struct {
	Total decimal.Decimal `json:"total"`
}

// ErrorResponse is the JSON error body for non-2xx responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
