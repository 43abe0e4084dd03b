// Package remote provides a ledger store backed by a running tiffin daemon.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/theirongolddev/tiffin/internal/model"

	"github.com/shopspring/decimal"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
)

var (
	// ErrUnavailable indicates the daemon could not serve the request.
	ErrUnavailable = errors.New("remote: daemon unavailable")
	// ErrBadRequest indicates the daemon rejected the request input.
	ErrBadRequest = errors.New("remote: bad request")
)

// Client talks to the daemon's /v1/users API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the daemon at baseURL (e.g. http://127.0.0.1:8787).
func NewClient(baseURL string, hc *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("remote: empty base url")
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("remote: invalid base url %q", baseURL)
	}
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{baseURL: baseURL, http: hc}, nil
}

// Close is a no-op; the client holds no connections of its own.
func (c *Client) Close() error { return nil }

// Snapshot fetches the daemon-computed snapshot for userID.
func (c *Client) Snapshot(ctx context.Context, userID string) (model.Snapshot, error) {
	var snap model.Snapshot
	err := c.do(ctx, http.MethodGet, userPath(userID, "snapshot"), nil, &snap)
	return snap, err
}

func (c *Client) SkipDates(ctx context.Context, userID string) ([]string, error) {
	skips, err := c.Skips(ctx, userID)
	if err != nil {
		return nil, err
	}
	dates := make([]string, len(skips))
	for i, s := range skips {
		dates[i] = s.Date
	}
	return dates, nil
}

func (c *Client) Skips(ctx context.Context, userID string) ([]model.SkipRecord, error) {
	var skips []model.SkipRecord
	err := c.do(ctx, http.MethodGet, userPath(userID, "skips"), nil, &skips)
	return skips, err
}

func (c *Client) PutSkip(ctx context.Context, userID string, rec model.SkipRecord) error {
	return c.do(ctx, http.MethodPut, userPath(userID, "skips", rec.Date), SkipRequest{CreatedAt: rec.CreatedAt}, nil)
}

func (c *Client) DeleteSkip(ctx context.Context, userID, date string) error {
	return c.do(ctx, http.MethodDelete, userPath(userID, "skips", date), nil, nil)
}

func (c *Client) AppendPayment(ctx context.Context, userID string, rec model.PaymentRecord) error {
	body := PaymentRequest{ID: rec.ID, Amount: rec.Amount, PaidAt: rec.PaidAt, Note: rec.Note}
	return c.do(ctx, http.MethodPost, userPath(userID, "payments"), body, nil)
}

func (c *Client) Payments(ctx context.Context, userID string) ([]model.PaymentRecord, error) {
	var payments []model.PaymentRecord
	err := c.do(ctx, http.MethodGet, userPath(userID, "payments"), nil, &payments)
	return payments, err
}

func (c *Client) SumPayments(ctx context.Context, userID string) (decimal.Decimal, error) {
	var sum SumResponse
	if err := c.do(ctx, http.MethodGet, userPath(userID, "payments", "sum"), nil, &sum); err != nil {
		return decimal.Zero, err
	}
	return sum.Total, nil
}

func userPath(userID string, parts ...string) string {
	var b strings.Builder
	b.WriteString("/v1/users/")
	b.WriteString(url.PathEscape(userID))
	for _, p := range parts {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(p))
	}
	return b.String()
}

// do sends a JSON request and decodes a JSON response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("remote: encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("remote: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("remote: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := http.StatusText(resp.StatusCode)
		var er ErrorResponse
		if json.Unmarshal(data, &er) == nil && er.Error != "" {
			msg = er.Error
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return fmt.Errorf("%w: %s %s: %s", ErrBadRequest, method, path, msg)
		}
		return fmt.Errorf("%w: %s %s: %s", ErrUnavailable, method, path, msg)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("remote: parsing response: %w", err)
	}
	return nil
}
