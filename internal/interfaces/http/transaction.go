package http

import (
	"context"
	"net/http"

	"fintrack/internal/domain/transaction"
)

type TransactionService interface {
	List(ctx context.Context, filter transaction.Filter) (*transaction.Page, error)
	SpendingByCategory(ctx context.Context, r transaction.DateRange) ([]transaction.CategoryTotal, error)
	Income(ctx context.Context, r transaction.DateRange) (*transaction.Income, error)
}

type TransactionHandler struct {
	transactions TransactionService
}

func NewTransactionHandler(transactions TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// HandleListTransactions handles GET /api/transactions
func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTransactionFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.transactions.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err, "Failed to list transactions")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleSpendingByCategory handles GET /api/spending_by_category
func (h *TransactionHandler) HandleSpendingByCategory(w http.ResponseWriter, r *http.Request) {
	totals, err := h.transactions.SpendingByCategory(r.Context(), dateRangeQuery(r))
	if err != nil {
		writeServiceError(w, r, err, "Failed to load spending")
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// HandleIncome handles GET /api/income
func (h *TransactionHandler) HandleIncome(w http.ResponseWriter, r *http.Request) {
	income, err := h.transactions.Income(r.Context(), dateRangeQuery(r))
	if err != nil {
		writeServiceError(w, r, err, "Failed to load income")
		return
	}
	writeJSON(w, http.StatusOK, income)
}

// parseTransactionFilter reads the listing filter from query parameters.
// Missing limit and offset are left zero for the service defaults.
func parseTransactionFilter(r *http.Request) (transaction.Filter, error) {
	q := r.URL.Query()
	filter := transaction.Filter{
		DateRange: dateRangeQuery(r),
		AccountID: q.Get("account_id"),
		Search:    q.Get("search"),
		Category:  q.Get("category"),
	}

	var err error
	if filter.Limit, err = intQuery(r, "limit", 0); err != nil {
		return filter, err
	}
	if filter.Offset, err = intQuery(r, "offset", 0); err != nil {
		return filter, err
	}
	return filter, nil
}

func dateRangeQuery(r *http.Request) transaction.DateRange {
	q := r.URL.Query()
	return transaction.DateRange{StartDate: q.Get("start_date"), EndDate: q.Get("end_date")}
}
