package http

import (
	"context"
	"net/http"

	"fintrack/internal/domain/plaid"
)

type TransactionSyncer interface {
	SyncAll(ctx context.Context) (*plaid.SyncReport, error)
}

type BalanceRefresher interface {
	RefreshAll(ctx context.Context) (*plaid.RefreshReport, error)
}

type LiabilitySyncer interface {
	SyncAll(ctx context.Context) (*plaid.RefreshReport, error)
}

// SyncHandler triggers the provider orchestrations on demand
type SyncHandler struct {
	transactions TransactionSyncer
	balances     BalanceRefresher
	liabilities  LiabilitySyncer
}

func NewSyncHandler(transactions TransactionSyncer, balances BalanceRefresher, liabilities LiabilitySyncer) *SyncHandler {
	return &SyncHandler{transactions: transactions, balances: balances, liabilities: liabilities}
}

type syncResponse struct {
	Success bool `json:"success"`
	*plaid.SyncReport
}

type refreshResponse struct {
	Success bool `json:"success"`
	*plaid.RefreshReport
}

// HandleSync handles POST /api/sync. Item failures are listed in the
// report and leave the totals untouched.
func (h *SyncHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	report, err := h.transactions.SyncAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to sync transactions")
		return
	}
	writeJSON(w, http.StatusOK, syncResponse{Success: true, SyncReport: report})
}

// HandleRefreshBalances handles POST /api/refresh_balances
func (h *SyncHandler) HandleRefreshBalances(w http.ResponseWriter, r *http.Request) {
	report, err := h.balances.RefreshAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to refresh balances")
		return
	}
	writeJSON(w, http.StatusOK, refreshResponse{Success: true, RefreshReport: report})
}

// HandleSyncLiabilities handles POST /api/sync_liabilities
func (h *SyncHandler) HandleSyncLiabilities(w http.ResponseWriter, r *http.Request) {
	report, err := h.liabilities.SyncAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to sync liabilities")
		return
	}
	writeJSON(w, http.StatusOK, refreshResponse{Success: true, RefreshReport: report})
}
