package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"fintrack/internal/domain/account"
	"fintrack/internal/domain/item"
	"fintrack/internal/domain/networth"
	"fintrack/internal/domain/plaid"
	"fintrack/internal/domain/transaction"
	plaidclient "fintrack/internal/infrastructure/plaid"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func init() {
	// Money is encoded as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("Failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps err to a status code. Validation errors become 400,
// missing rows 404, an overlapping sync 409 and provider errors keep the provider's status and message.
// Anything else is logged and reported as fallback with a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var providerErr *plaidclient.Error
	switch {
	case errors.Is(err, plaid.ErrPublicTokenRequired),
		errors.Is(err, transaction.ErrInvalidFilter),
		errors.Is(err, networth.ErrInvalidRange),
		errors.Is(err, account.ErrInvalidName),
		errors.Is(err, account.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, account.ErrAccountNotFound),
		errors.Is(err, item.ErrItemNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, plaid.ErrSyncInProgress):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &providerErr):
		zap.L().Warn("Provider request failed",
			zap.String("path", r.URL.Path),
			zap.Int("provider_status", providerErr.StatusCode),
			zap.String("error_code", providerErr.Code),
			zap.String("request_id", providerErr.RequestID),
		)
		status := providerErr.StatusCode
		if status < http.StatusBadRequest || status > 599 {
			status = http.StatusBadGateway
		}
		msg := providerErr.Message
		if msg == "" {
			msg = fallback
		}
		writeError(w, status, msg)
	default:
		zap.L().Error(fallback, zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

// intQuery parses an optional integer query parameter.
func intQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return n, nil
}
