package http

import (
	"context"
	"encoding/json"
	"net/http"

	"fintrack/internal/domain/account"
	"fintrack/internal/domain/liability"
)

// AccountService lists items and accounts and renames accounts
type AccountService interface {
	ListItems(ctx context.Context) ([]*account.ItemWithAccounts, error)
	ListAccounts(ctx context.Context) ([]*account.AccountWithInstitution, error)
	RenameAccount(ctx context.Context, id, name string) (*account.Account, error)
}

type LiabilityService interface {
	List(ctx context.Context) ([]*liability.LiabilityWithAccount, error)
}

type AccountHandler struct {
	accounts    AccountService
	liabilities LiabilityService
}

func NewAccountHandler(accounts AccountService, liabilities LiabilityService) *AccountHandler {
	return &AccountHandler{accounts: accounts, liabilities: liabilities}
}

type renameAccountRequest struct {
	Name string `json:"name"`
}

type renameAccountResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// HandleListItems handles GET /api/items
func (h *AccountHandler) HandleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.accounts.ListItems(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to list items")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// HandleListAccounts handles GET /api/accounts
func (h *AccountHandler) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.ListAccounts(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to list accounts")
		return
	}
	if accounts == nil {
		accounts = []*account.AccountWithInstitution{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

// HandleRenameAccount handles PATCH /api/accounts/{id}
func (h *AccountHandler) HandleRenameAccount(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "Account ID is required")
		return
	}

	var req renameAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	acc, err := h.accounts.RenameAccount(r.Context(), accountID, req.Name)
	if err != nil {
		writeServiceError(w, r, err, "Failed to update account")
		return
	}
	writeJSON(w, http.StatusOK, renameAccountResponse{ID: acc.ID, Name: acc.Name})
}

// HandleListLiabilities handles GET /api/liabilities
func (h *AccountHandler) HandleListLiabilities(w http.ResponseWriter, r *http.Request) {
	rows, err := h.liabilities.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to list liabilities")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
