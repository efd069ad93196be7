package main

import (
	"context"
	"fmt"

	"fintrack/internal/domain/account"
	"fintrack/internal/domain/liability"
	"fintrack/internal/domain/networth"
	"fintrack/internal/domain/plaid"
	"fintrack/internal/domain/transaction"
	"fintrack/internal/infrastructure/crypto"
	plaidclient "fintrack/internal/infrastructure/plaid"
	"fintrack/internal/infrastructure/storage"
	httphandlers "fintrack/internal/interfaces/http"
	"fintrack/internal/interfaces/scheduler"
	"fintrack/internal/shared/auth"
	"fintrack/internal/shared/config"

	"go.uber.org/zap"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *storage.DB

	// Handlers
	HealthHandler      *httphandlers.HealthHandler
	LinkHandler        *httphandlers.LinkHandler
	SyncHandler        *httphandlers.SyncHandler
	AccountHandler     *httphandlers.AccountHandler
	TransactionHandler *httphandlers.TransactionHandler
	NetWorthHandler    *httphandlers.NetWorthHandler

	// Auth, nil when AUTH_JWT_SECRET is unset
	JWT *auth.JWT

	// Background work
	WorkerPool *scheduler.WorkerPool
	Scheduler  *scheduler.Scheduler
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	db, err := storage.New(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		db.Close()
		return nil, err
	}

	// Repositories
	itemRepo := storage.NewItemRepository(db, encryptor)
	accountRepo := storage.NewAccountRepository(db)
	transactionRepo := storage.NewTransactionRepository(db)
	liabilityRepo := storage.NewLiabilityRepository(db)
	netWorthRepo := storage.NewNetWorthRepository(db)

	// Aggregator client and sync services
	client := plaidclient.NewClient(cfg.Plaid)
	accountSyncService := plaid.NewAccountSyncService(client, accountRepo)
	linkService := plaid.NewLinkService(client, itemRepo, accountSyncService, cfg.Plaid.RedirectURI)
	transactionSyncService := plaid.NewTransactionSyncService(client, itemRepo, transactionRepo, plaid.SyncOptions{
		EmptyPageDelay:      cfg.Sync.EmptyPageDelay,
		MaxEmptyPageRetries: cfg.Sync.MaxEmptyPageRetries,
		Concurrency:         cfg.Sync.Concurrency,
	})
	balanceSyncService := plaid.NewBalanceSyncService(client, itemRepo, accountRepo, cfg.Sync.Concurrency)
	liabilitySyncService := plaid.NewLiabilitySyncService(client, itemRepo, liabilityRepo, cfg.Sync.Concurrency)

	// Query services
	accountService := account.NewService(accountRepo, itemRepo)
	transactionService := transaction.NewService(transactionRepo)
	liabilityService := liability.NewService(liabilityRepo)
	netWorthService := networth.NewService(netWorthRepo)

	// The pool runs scheduled jobs and the sync that follows a new link
	pool := scheduler.NewWorkerPool(cfg.Scheduler.WorkerCount, cfg.Scheduler.JobTimeout, cfg.Scheduler.QueueSize)

	var queue httphandlers.ItemSyncQueue
	if cfg.Sync.OnLink {
		queue = scheduler.NewItemSyncQueue(pool, transactionSyncService)
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		schedule, err := scheduler.LoadSchedule(cfg.Scheduler.File)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to load schedule: %w", err)
		}
		sched = scheduler.NewScheduler(pool, schedule, map[string]scheduler.JobFactory{
			scheduler.JobSync: func() scheduler.Job {
				return scheduler.NewTransactionSyncJob(transactionSyncService)
			},
			scheduler.JobRefreshBalances: func() scheduler.Job {
				return scheduler.NewBalanceRefreshJob(balanceSyncService)
			},
			scheduler.JobSyncLiabilities: func() scheduler.Job {
				return scheduler.NewLiabilitySyncJob(liabilitySyncService)
			},
			scheduler.JobSnapshot: func() scheduler.Job {
				return scheduler.NewSnapshotJob(netWorthService)
			},
		}, cfg.Scheduler.RunOnStartup)
	} else {
		zap.L().Info("Scheduler is disabled")
	}

	var jwt *auth.JWT
	if cfg.Auth.JWTSecret != "" {
		jwt = auth.NewJWT(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	} else {
		zap.L().Warn("AUTH_JWT_SECRET not set, /api routes are unauthenticated")
	}

	return &Dependencies{
		DB:                 db,
		HealthHandler:      httphandlers.NewHealthHandler(db),
		LinkHandler:        httphandlers.NewLinkHandler(linkService, queue),
		SyncHandler:        httphandlers.NewSyncHandler(transactionSyncService, balanceSyncService, liabilitySyncService),
		AccountHandler:     httphandlers.NewAccountHandler(accountService, liabilityService),
		TransactionHandler: httphandlers.NewTransactionHandler(transactionService),
		NetWorthHandler:    httphandlers.NewNetWorthHandler(netWorthService),
		JWT:                jwt,
		WorkerPool:         pool,
		Scheduler:          sched,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
