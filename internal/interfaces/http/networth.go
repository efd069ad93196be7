package http

import (
	"context"
	"net/http"

	"fintrack/internal/domain/networth"
)

type NetWorthService interface {
	Calculate(ctx context.Context) (networth.Totals, error)
	SaveSnapshot(ctx context.Context) (*networth.Snapshot, error)
	History(ctx context.Context, days int) ([]*networth.Snapshot, error)
	CompositionTrends(ctx context.Context, filter networth.DateFilter) (*networth.CompositionTrend, error)
	AccountTrends(ctx context.Context, accountID string, filter networth.DateFilter) (*networth.AccountTrends, error)
}

type NetWorthHandler struct {
	networth NetWorthService
}

func NewNetWorthHandler(networth NetWorthService) *NetWorthHandler {
	return &NetWorthHandler{networth: networth}
}

type snapshotResponse struct {
	Success  bool               `json:"success"`
	Snapshot *networth.Snapshot `json:"snapshot"`
}

// HandleNetWorth handles GET /api/networth
func (h *NetWorthHandler) HandleNetWorth(w http.ResponseWriter, r *http.Request) {
	totals, err := h.networth.Calculate(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to calculate net worth")
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// HandleSaveSnapshot handles POST /api/networth/snapshot
func (h *NetWorthHandler) HandleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.networth.SaveSnapshot(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to save snapshot")
		return
	}
	writeJSON(w, http.StatusOK, snapshotResponse{Success: true, Snapshot: snap})
}

// HandleHistory handles GET /api/networth/history
func (h *NetWorthHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	days, err := intQuery(r, "days", networth.DefaultHistoryDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snapshots, err := h.networth.History(r.Context(), days)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load net worth history")
		return
	}
	writeJSON(w, http.StatusOK, snapshots)
}

// HandleCompositionTrends handles GET /api/trends/composition
func (h *NetWorthHandler) HandleCompositionTrends(w http.ResponseWriter, r *http.Request) {
	filter, err := dateFilterQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	trend, err := h.networth.CompositionTrends(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load composition trends")
		return
	}
	writeJSON(w, http.StatusOK, trend)
}

// HandleAccountTrends handles GET /api/trends/accounts
func (h *NetWorthHandler) HandleAccountTrends(w http.ResponseWriter, r *http.Request) {
	filter, err := dateFilterQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	trends, err := h.networth.AccountTrends(r.Context(), r.URL.Query().Get("account_id"), filter)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load account trends")
		return
	}
	writeJSON(w, http.StatusOK, trends)
}

func dateFilterQuery(r *http.Request) (networth.DateFilter, error) {
	days, err := intQuery(r, "days", 0)
	if err != nil {
		return networth.DateFilter{}, err
	}
	q := r.URL.Query()
	return networth.DateFilter{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Days:      days,
	}, nil
}
