package main

import (
	"net/http"

	"fintrack/internal/shared/config"
	"fintrack/internal/shared/middleware"

	"go.uber.org/zap"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	api := http.NewServeMux()

	// Link
	api.HandleFunc("GET /api/create_link_token", deps.LinkHandler.HandleCreateLinkToken)
	api.HandleFunc("POST /api/exchange_public_token", deps.LinkHandler.HandleExchangePublicToken)
	api.HandleFunc("DELETE /api/items/{id}", deps.LinkHandler.HandleDeleteItem)

	// Orchestration
	api.HandleFunc("POST /api/sync", deps.SyncHandler.HandleSync)
	api.HandleFunc("POST /api/refresh_balances", deps.SyncHandler.HandleRefreshBalances)
	api.HandleFunc("POST /api/sync_liabilities", deps.SyncHandler.HandleSyncLiabilities)

	// Accounts
	api.HandleFunc("GET /api/items", deps.AccountHandler.HandleListItems)
	api.HandleFunc("GET /api/accounts", deps.AccountHandler.HandleListAccounts)
	api.HandleFunc("PATCH /api/accounts/{id}", deps.AccountHandler.HandleRenameAccount)
	api.HandleFunc("GET /api/liabilities", deps.AccountHandler.HandleListLiabilities)

	// Transactions
	api.HandleFunc("GET /api/transactions", deps.TransactionHandler.HandleListTransactions)
	api.HandleFunc("GET /api/spending_by_category", deps.TransactionHandler.HandleSpendingByCategory)
	api.HandleFunc("GET /api/income", deps.TransactionHandler.HandleIncome)

	// Net worth
	api.HandleFunc("GET /api/networth", deps.NetWorthHandler.HandleNetWorth)
	api.HandleFunc("POST /api/networth/snapshot", deps.NetWorthHandler.HandleSaveSnapshot)
	api.HandleFunc("GET /api/networth/history", deps.NetWorthHandler.HandleHistory)
	api.HandleFunc("GET /api/trends/composition", deps.NetWorthHandler.HandleCompositionTrends)
	api.HandleFunc("GET /api/trends/accounts", deps.NetWorthHandler.HandleAccountTrends)

	var apiHandler http.Handler = api
	if deps.JWT != nil {
		apiHandler = middleware.Auth(deps.JWT)(api)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", deps.HealthHandler.HandleHealth)
	mux.Handle("/api/", apiHandler)

	// Apply global middleware
	handler := middleware.Logging(middleware.CORS(cfg.Server.AllowedOrigins)(mux))
	handler = middleware.Telemetry(handler)

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(handler)
		zap.L().Info("TLS security middleware enabled (HSTS)")
	}

	return handler
}
