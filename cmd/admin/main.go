package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"fintrack/internal/domain/networth"
	"fintrack/internal/domain/plaid"
	"fintrack/internal/domain/transaction"
	"fintrack/internal/infrastructure/crypto"
	plaidclient "fintrack/internal/infrastructure/plaid"
	"fintrack/internal/infrastructure/storage"
	"fintrack/internal/shared/auth"
	"fintrack/internal/shared/config"
	"fintrack/internal/shared/logging"

	"go.uber.org/zap"
)

const usage = `fintrack admin CLI - maintenance commands for the fintrack API

Usage:
  admin <command> [options]

Commands:
  sync                 Sync transactions for every item (or one item with --item-id)
  refresh-balances     Refresh balances for every item
  sync-liabilities     Mirror liabilities for every item
  snapshot             Record today's net worth snapshot
  token                Mint an API bearer token (requires AUTH_JWT_SECRET)
  export-transactions  Write transactions as CSV, with the same filters as GET /api/transactions

Examples:
  # Sync everything with a one hour limit
  admin sync --timeout=1h

  # Sync a single item right after linking it
  admin sync --item-id=eVBnVMp7zdTJLkRNr33Rs6zr7KNJqBFL9DrE6

  # Mint a token valid for 90 days
  admin token --subject=me --ttl=2160h

  # Export this year's groceries
  admin export-transactions --start-date=2024-01-01 --category=FOOD_AND_DRINK --out=food.csv
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "sync":
		runSync(os.Args[2:])
	case "refresh-balances":
		runRefreshBalances(os.Args[2:])
	case "sync-liabilities":
		runSyncLiabilities(os.Args[2:])
	case "snapshot":
		runSnapshot(os.Args[2:])
	case "token":
		runToken(os.Args[2:])
	case "export-transactions":
		runExportTransactions(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage)
		os.Exit(1)
	}
}

// app is the slice of the API's dependency graph the commands need.
type app struct {
	db           *storage.DB
	transactions *plaid.TransactionSyncService
	balances     *plaid.BalanceSyncService
	liabilities  *plaid.LiabilitySyncService
	networth     *networth.Service
	query        *transaction.Service
}

func setup(ctx context.Context) (*app, func()) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	_, syncLogger, err := logging.Init(cfg.Log.Level, "console")
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	db, err := storage.New(ctx, cfg.Database)
	if err != nil {
		zap.L().Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := db.EnsureSchema(ctx); err != nil {
		zap.L().Fatal("Failed to prepare schema", zap.Error(err))
	}

	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		zap.L().Fatal("Failed to create encryptor", zap.Error(err))
	}

	itemRepo := storage.NewItemRepository(db, encryptor)
	accountRepo := storage.NewAccountRepository(db)
	transactionRepo := storage.NewTransactionRepository(db)
	client := plaidclient.NewClient(cfg.Plaid)

	a := &app{
		db: db,
		transactions: plaid.NewTransactionSyncService(client, itemRepo, transactionRepo, plaid.SyncOptions{
			EmptyPageDelay:      cfg.Sync.EmptyPageDelay,
			MaxEmptyPageRetries: cfg.Sync.MaxEmptyPageRetries,
			Concurrency:         cfg.Sync.Concurrency,
		}),
		balances:    plaid.NewBalanceSyncService(client, itemRepo, accountRepo, cfg.Sync.Concurrency),
		liabilities: plaid.NewLiabilitySyncService(client, itemRepo, storage.NewLiabilityRepository(db), cfg.Sync.Concurrency),
		networth:    networth.NewService(storage.NewNetWorthRepository(db)),
		query:       transaction.NewService(transactionRepo),
	}

	cleanup := func() {
		db.Close()
		syncLogger()
	}
	return a, cleanup
}

func timeoutContext(timeoutStr string) (context.Context, context.CancelFunc) {
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		log.Fatalf("Invalid timeout format: %v", err)
	}
	return context.WithTimeout(context.Background(), timeout)
}

func runSync(args []string) {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	itemID := fs.String("item-id", "", "Sync only this item")
	timeoutStr := fs.String("timeout", "30m", "Timeout for the operation (e.g., 5m, 1h)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	ctx, cancel := timeoutContext(*timeoutStr)
	defer cancel()
	a, cleanup := setup(ctx)
	defer cleanup()

	start := time.Now()
	if *itemID != "" {
		res, err := a.transactions.SyncItemByID(ctx, *itemID)
		if err != nil {
			zap.L().Error("Item sync failed", zap.String("item_id", *itemID), zap.Error(err))
		}
		printSyncReport(&plaid.SyncReport{Items: []plaid.ItemSyncResult{res}, Added: res.Added, Modified: res.Modified, Removed: res.Removed})
		return
	}

	report, err := a.transactions.SyncAll(ctx)
	if err != nil {
		zap.L().Fatal("Sync failed", zap.Error(err))
	}
	printSyncReport(report)
	zap.L().Info("Sync completed", zap.Duration("elapsed", time.Since(start)))
}

func runRefreshBalances(args []string) {
	fs := flag.NewFlagSet("refresh-balances", flag.ExitOnError)
	timeoutStr := fs.String("timeout", "10m", "Timeout for the operation (e.g., 5m, 1h)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	ctx, cancel := timeoutContext(*timeoutStr)
	defer cancel()
	a, cleanup := setup(ctx)
	defer cleanup()

	report, err := a.balances.RefreshAll(ctx)
	if err != nil {
		zap.L().Fatal("Balance refresh failed", zap.Error(err))
	}
	printRefreshReport(report)
}

func runSyncLiabilities(args []string) {
	fs := flag.NewFlagSet("sync-liabilities", flag.ExitOnError)
	timeoutStr := fs.String("timeout", "10m", "Timeout for the operation (e.g., 5m, 1h)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	ctx, cancel := timeoutContext(*timeoutStr)
	defer cancel()
	a, cleanup := setup(ctx)
	defer cleanup()

	report, err := a.liabilities.SyncAll(ctx)
	if err != nil {
		zap.L().Fatal("Liability sync failed", zap.Error(err))
	}
	printRefreshReport(report)
}

func runSnapshot(args []string) {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	timeoutStr := fs.String("timeout", "1m", "Timeout for the operation (e.g., 30s, 5m)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	ctx, cancel := timeoutContext(*timeoutStr)
	defer cancel()
	a, cleanup := setup(ctx)
	defer cleanup()

	snap, err := a.networth.SaveSnapshot(ctx)
	if err != nil {
		zap.L().Fatal("Snapshot failed", zap.Error(err))
	}
	fmt.Printf("Snapshot %s\n", snap.SnapshotDate)
	fmt.Printf("  Assets:      %s\n", snap.TotalAssets.StringFixed(2))
	fmt.Printf("  Liabilities: %s\n", snap.TotalLiabilities.StringFixed(2))
	fmt.Printf("  Net worth:   %s\n", snap.NetWorth.StringFixed(2))
}

func runToken(args []string) {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	subject := fs.String("subject", "admin", "Token subject")
	ttl := fs.Duration("ttl", 0, "Token lifetime; 0 uses AUTH_TOKEN_TTL")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is not set")
	}

	lifetime := cfg.Auth.TokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	token, err := auth.NewJWT(cfg.Auth.JWTSecret, lifetime).Generate(*subject)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}
	fmt.Println(token)
}

func runExportTransactions(args []string) {
	fs := flag.NewFlagSet("export-transactions", flag.ExitOnError)
	accountID := fs.String("account-id", "", "Only this account")
	startDate := fs.String("start-date", "", "First date, YYYY-MM-DD")
	endDate := fs.String("end-date", "", "Last date, YYYY-MM-DD")
	search := fs.String("search", "", "Case-insensitive match on name or merchant")
	category := fs.String("category", "", "Exact category")
	out := fs.String("out", "", "Output file (default stdout)")
	timeoutStr := fs.String("timeout", "5m", "Timeout for the operation (e.g., 30s, 5m)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	filter := transaction.Filter{
		DateRange: transaction.DateRange{StartDate: *startDate, EndDate: *endDate},
		AccountID: *accountID,
		Search:    *search,
		Category:  *category,
	}

	ctx, cancel := timeoutContext(*timeoutStr)
	defer cancel()
	a, cleanup := setup(ctx)
	defer cleanup()

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			zap.L().Fatal("Failed to create output file", zap.Error(err))
		}
		defer f.Close()
		w = f
	}

	n, err := exportTransactions(ctx, a.query, filter, w)
	if err != nil {
		zap.L().Fatal("Export failed", zap.Error(err))
	}
	zap.L().Info("Export completed", zap.Int("transactions", n))
}

func printSyncReport(report *plaid.SyncReport) {
	fmt.Printf("Added: %d  Modified: %d  Removed: %d\n", report.Added, report.Modified, report.Removed)
	for _, it := range report.Items {
		fmt.Printf("  %-40s %-24s +%d ~%d -%d", it.ItemID, institution(it.InstitutionName), it.Added, it.Modified, it.Removed)
		if it.Error != "" {
			fmt.Printf("  error: %s", it.Error)
		}
		fmt.Println()
	}
}

func printRefreshReport(report *plaid.RefreshReport) {
	for _, it := range report.Items {
		fmt.Printf("  %-40s %-24s updated=%d skipped=%d failed=%d", it.ItemID, institution(it.InstitutionName), it.Updated, it.Skipped, it.Failed)
		if it.Error != "" {
			fmt.Printf("  error: %s", it.Error)
		}
		fmt.Println()
	}
	if n := report.FailedItems(); n > 0 {
		fmt.Printf("%d item(s) failed\n", n)
	}
}

func institution(name *string) string {
	if name == nil {
		return "-"
	}
	return *name
}
