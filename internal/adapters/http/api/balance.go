package api

import (
	"errors"
	"net/http"

	"github.com/okian/teambalance/internal/adapters/source"
	"github.com/okian/teambalance/internal/domain/model"
	"github.com/okian/teambalance/pkg/logger"
)

// DefaultMaxBodyBytes caps the size of a posted pool.
const DefaultMaxBodyBytes int64 = 4 << 20

// BalanceHandler handles balancing requests.
type BalanceHandler struct {
	deps         Dependencies
	maxBodyBytes int64
	logger       logger.Logger
}

// BalanceOption configures a BalanceHandler.
type BalanceOption func(*BalanceHandler)

// WithMaxBodyBytes sets the request body limit.
func WithMaxBodyBytes(n int64) BalanceOption {
	return func(h *BalanceHandler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// WithLogger sets a custom logger for the handler.
func WithLogger(l logger.Logger) BalanceOption {
	return func(h *BalanceHandler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewBalanceHandler creates a new balance handler.
func NewBalanceHandler(deps Dependencies, opts ...BalanceOption) *BalanceHandler {
	h := &BalanceHandler{deps: deps, maxBodyBytes: DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = logger.Get()
	}
	return h
}

// HandlePostBalance handles POST /balance requests. The body is a qualifier
// pool; the response is the run summary.
func (h *BalanceHandler) HandlePostBalance(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_balance"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	pool, err := source.Decode(r.Context(), body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", WrapKind(op, ErrBadRequest, err))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	summary, err := h.deps.Run(r.Context(), pool)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, summary)
	case errors.Is(err, model.ErrMalformedInput):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, model.ErrInvalidConfiguration):
		h.logger.Error(r.Context(), "server configuration rejected", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "configuration_error", WrapKind(op, ErrRunFailed, err))
	default:
		h.logger.Error(r.Context(), "balancing run failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrRunFailed, err))
	}
}
