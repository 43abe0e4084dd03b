package daemon

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/theirongolddev/tiffin/internal/ledger"
	"github.com/theirongolddev/tiffin/internal/model"
	"github.com/theirongolddev/tiffin/internal/remote"

	"go.uber.org/zap"
)

const maxRequestBody = 64 << 10

var errBodyRequired = errors.New("request body required")

func (s *Service) routeUsers(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/users/{user}/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /v1/users/{user}/skips", s.handleListSkips)
	mux.HandleFunc("PUT /v1/users/{user}/skips/{date}", s.handlePutSkip)
	mux.HandleFunc("DELETE /v1/users/{user}/skips/{date}", s.handleDeleteSkip)
	mux.HandleFunc("GET /v1/users/{user}/payments", s.handleListPayments)
	mux.HandleFunc("POST /v1/users/{user}/payments", s.handleAppendPayment)
	mux.HandleFunc("GET /v1/users/{user}/payments/sum", s.handleSumPayments)
}

func (s *Service) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.ledger.ComputeSnapshot(r.Context(), r.PathValue("user"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Service) handleListSkips(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")
	skips, err := s.store.Skips(r.Context(), user)
	if err != nil {
		s.writeError(w, &ledger.RetrievalError{Op: "list skips", UserID: user, Err: err})
		return
	}
	if skips == nil {
		skips = []model.SkipRecord{}
	}
	writeJSON(w, http.StatusOK, skips)
}

func (s *Service) handlePutSkip(w http.ResponseWriter, r *http.Request) {
	user, date := r.PathValue("user"), r.PathValue("date")

	var req remote.SkipRequest
	if err := decodeOptional(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, remote.ErrorResponse{Error: err.Error()})
		return
	}

	var err error
	if req.CreatedAt.IsZero() {
		err = s.ledger.SetSkip(r.Context(), user, date, true)
	} else if perr := s.store.PutSkip(r.Context(), user, model.SkipRecord{Date: date, CreatedAt: req.CreatedAt}); perr != nil {
		err = &ledger.WriteError{Op: "put skip " + date, UserID: user, Err: perr}
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.afterWrite(r, user)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleDeleteSkip(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")
	if err := s.ledger.SetSkip(r.Context(), user, r.PathValue("date"), false); err != nil {
		s.writeError(w, err)
		return
	}
	s.afterWrite(r, user)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleListPayments(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")
	payments, err := s.store.Payments(r.Context(), user)
	if err != nil {
		s.writeError(w, &ledger.RetrievalError{Op: "list payments", UserID: user, Err: err})
		return
	}
	if payments == nil {
		payments = []model.PaymentRecord{}
	}
	writeJSON(w, http.StatusOK, payments)
}

func (s *Service) handleAppendPayment(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")

	var req remote.PaymentRequest
	if err := decodeRequired(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, remote.ErrorResponse{Error: err.Error()})
		return
	}

	// Requests without an id are new payments; with an id they are replays
	// from a remote store client and keep the writer's identity.
	if req.ID == "" {
		rec, err := s.ledger.RecordPaymentNote(r.Context(), user, req.Amount, req.Note)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.afterWrite(r, user)
		writeJSON(w, http.StatusCreated, rec)
		return
	}

	rec := model.PaymentRecord{ID: req.ID, Amount: req.Amount, PaidAt: req.PaidAt, Note: req.Note}
	if rec.PaidAt.IsZero() {
		rec.PaidAt = time.Now()
	}
	if err := s.store.AppendPayment(r.Context(), user, rec); err != nil {
		s.writeError(w, &ledger.WriteError{Op: "append payment", UserID: user, Err: err})
		return
	}
	s.afterWrite(r, user)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Service) handleSumPayments(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")
	total, err := s.store.SumPayments(r.Context(), user)
	if err != nil {
		s.writeError(w, &ledger.RetrievalError{Op: "sum payments", UserID: user, Err: err})
		return
	}
	writeJSON(w, http.StatusOK, remote.SumResponse{Total: total})
}

// afterWrite refreshes the watched snapshot so subscribers see writes
// without waiting for the next tick.
func (s *Service) afterWrite(r *http.Request, user string) {
	if user == s.cfg.UserID {
		s.pollOnce(r.Context())
	}
}

func (s *Service) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrRetrieval), errors.Is(err, ledger.ErrWrite):
		status = http.StatusBadGateway
	}
	s.log.Warn("request failed", zap.Int("status", status), zap.Error(err))
	writeJSON(w, status, remote.ErrorResponse{Error: err.Error()})
}

func decodeRequired(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errBodyRequired
		}
		return err
	}
	return nil
}

func decodeOptional(r *http.Request, v any) error {
	err := decodeRequired(r, v)
	if errors.Is(err, errBodyRequired) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)),
		)
	})
}
