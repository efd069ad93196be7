package http

import (
	"context"
	"encoding/json"
	"net/http"

	"fintrack/internal/domain/item"
	"fintrack/internal/domain/plaid"

	"go.uber.org/zap"
)

// Linker creates link tokens, exchanges public tokens and unlinks items
type Linker interface {
	CreateLinkToken(ctx context.Context) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string, inst *plaid.Institution) (*item.Item, error)
	RemoveItem(ctx context.Context, itemID string) error
}

// ItemSyncQueue schedules a transaction sync for a newly linked item.
// It returns false when the job could not be queued.
type ItemSyncQueue interface {
	EnqueueItemSync(itemID string) bool
}

type LinkHandler struct {
	linker Linker
	queue  ItemSyncQueue
}

// NewLinkHandler builds the handler. queue may be nil to skip the sync after linking.
func NewLinkHandler(linker Linker, queue ItemSyncQueue) *LinkHandler {
	return &LinkHandler{linker: linker, queue: queue}
}

type linkTokenResponse struct {
	LinkToken string `json:"link_token"`
}

type exchangeRequest struct {
	PublicToken string             `json:"public_token"`
	Institution *plaid.Institution `json:"institution,omitempty"`
}

type exchangeResponse struct {
	Success bool   `json:"success"`
	ItemID  string `json:"item_id"`
}

// HandleCreateLinkToken handles GET /api/create_link_token
func (h *LinkHandler) HandleCreateLinkToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.linker.CreateLinkToken(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to create link token")
		return
	}
	writeJSON(w, http.StatusOK, linkTokenResponse{LinkToken: token})
}

// HandleExchangePublicToken handles POST /api/exchange_public_token
func (h *LinkHandler) HandleExchangePublicToken(w http.ResponseWriter, r *http.Request) {
	var req exchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	it, err := h.linker.ExchangePublicToken(r.Context(), req.PublicToken, req.Institution)
	if err != nil {
		writeServiceError(w, r, err, "Failed to exchange token")
		return
	}

	if h.queue != nil && !h.queue.EnqueueItemSync(it.ID) {
		zap.L().Warn("Could not queue initial sync for item", zap.String("item_id", it.ID))
	}

	writeJSON(w, http.StatusOK, exchangeResponse{Success: true, ItemID: it.ID})
}

// HandleDeleteItem handles DELETE /api/items/{id}. Unknown ids succeed.
func (h *LinkHandler) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")
	if itemID == "" {
		writeError(w, http.StatusBadRequest, "Item ID is required")
		return
	}

	if err := h.linker.RemoveItem(r.Context(), itemID); err != nil {
		writeServiceError(w, r, err, "Failed to remove item")
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
