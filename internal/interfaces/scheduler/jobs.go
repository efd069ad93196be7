package scheduler

import (
	"context"
	"fmt"

	"fintrack/internal/domain/networth"
	"fintrack/internal/domain/plaid"

	"go.uber.org/zap"
)

// Job names accepted in the schedule file
const (
	JobSync            = "sync"
	JobRefreshBalances = "refresh_balances"
	JobSyncLiabilities = "sync_liabilities"
	JobSnapshot        = "snapshot"
	JobItemSync        = "item_sync"
)

type TransactionSyncer interface {
	SyncAll(ctx context.Context) (*plaid.SyncReport, error)
	SyncItemByID(ctx context.Context, itemID string) (plaid.ItemSyncResult, error)
}

type BalanceRefresher interface {
	RefreshAll(ctx context.Context) (*plaid.RefreshReport, error)
}

type LiabilitySyncer interface {
	SyncAll(ctx context.Context) (*plaid.RefreshReport, error)
}

type SnapshotSaver interface {
	SaveSnapshot(ctx context.Context) (*networth.Snapshot, error)
}

// TransactionSyncJob syncs transactions for every item
type TransactionSyncJob struct {
	syncer TransactionSyncer
}

func NewTransactionSyncJob(syncer TransactionSyncer) *TransactionSyncJob {
	return &TransactionSyncJob{syncer: syncer}
}

// Execute fails when any item failed, after every item has been attempted.
func (j *TransactionSyncJob) Execute(ctx context.Context) error {
	report, err := j.syncer.SyncAll(ctx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	zap.L().Info("Scheduled transaction sync finished",
		zap.Int("added", report.Added),
		zap.Int("modified", report.Modified),
		zap.Int("removed", report.Removed),
	)
	if n := report.FailedItems(); n > 0 {
		return fmt.Errorf("sync completed with %d failed items", n)
	}
	return nil
}

func (j *TransactionSyncJob) Name() string        { return JobSync }
func (j *TransactionSyncJob) Description() string { return "Transaction sync for all items" }

// ItemSyncJob syncs transactions for one item, used right after linking
type ItemSyncJob struct {
	itemID string
	syncer TransactionSyncer
}

func NewItemSyncJob(itemID string, syncer TransactionSyncer) *ItemSyncJob {
	return &ItemSyncJob{itemID: itemID, syncer: syncer}
}

func (j *ItemSyncJob) Execute(ctx context.Context) error {
	res, err := j.syncer.SyncItemByID(ctx, j.itemID)
	if err != nil {
		return fmt.Errorf("sync of item %s failed: %w", j.itemID, err)
	}

	zap.L().Info("Initial item sync finished",
		zap.String("item_id", j.itemID),
		zap.Int("added", res.Added),
		zap.Int("modified", res.Modified),
		zap.Int("removed", res.Removed),
	)
	return nil
}

func (j *ItemSyncJob) Name() string        { return JobItemSync }
func (j *ItemSyncJob) Description() string { return fmt.Sprintf("Transaction sync for item %s", j.itemID) }

// BalanceRefreshJob refreshes balances for every item
type BalanceRefreshJob struct {
	refresher BalanceRefresher
}

func NewBalanceRefreshJob(refresher BalanceRefresher) *BalanceRefreshJob {
	return &BalanceRefreshJob{refresher: refresher}
}

func (j *BalanceRefreshJob) Execute(ctx context.Context) error {
	report, err := j.refresher.RefreshAll(ctx)
	if err != nil {
		return fmt.Errorf("balance refresh failed: %w", err)
	}
	if n := report.FailedItems(); n > 0 {
		return fmt.Errorf("balance refresh completed with %d failed items", n)
	}
	return nil
}

func (j *BalanceRefreshJob) Name() string        { return JobRefreshBalances }
func (j *BalanceRefreshJob) Description() string { return "Balance refresh for all items" }

// LiabilitySyncJob mirrors liabilities for every item
type LiabilitySyncJob struct {
	syncer LiabilitySyncer
}

func NewLiabilitySyncJob(syncer LiabilitySyncer) *LiabilitySyncJob {
	return &LiabilitySyncJob{syncer: syncer}
}

// Execute succeeds even when some institutions reject the liabilities
// product; those items are logged by the sync itself.
func (j *LiabilitySyncJob) Execute(ctx context.Context) error {
	if _, err := j.syncer.SyncAll(ctx); err != nil {
		return fmt.Errorf("liability sync failed: %w", err)
	}
	return nil
}

func (j *LiabilitySyncJob) Name() string        { return JobSyncLiabilities }
func (j *LiabilitySyncJob) Description() string { return "Liability sync for all items" }

// SnapshotJob records the daily net worth snapshot
type SnapshotJob struct {
	saver SnapshotSaver
}

func NewSnapshotJob(saver SnapshotSaver) *SnapshotJob {
	return &SnapshotJob{saver: saver}
}

func (j *SnapshotJob) Execute(ctx context.Context) error {
	snap, err := j.saver.SaveSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("snapshot failed: %w", err)
	}

	zap.L().Info("Net worth snapshot saved",
		zap.String("date", snap.SnapshotDate),
		zap.String("net_worth", snap.NetWorth.String()),
	)
	return nil
}

func (j *SnapshotJob) Name() string        { return JobSnapshot }
func (j *SnapshotJob) Description() string { return "Net worth snapshot" }

// ItemSyncQueue submits a one-off item sync to the worker pool
type ItemSyncQueue struct {
	pool   *WorkerPool
	syncer TransactionSyncer
}

func NewItemSyncQueue(pool *WorkerPool, syncer TransactionSyncer) *ItemSyncQueue {
	return &ItemSyncQueue{pool: pool, syncer: syncer}
}

func (q *ItemSyncQueue) EnqueueItemSync(itemID string) bool {
	if err := q.pool.Submit(NewItemSyncJob(itemID, q.syncer)); err != nil {
		zap.L().Warn("Could not queue item sync", zap.String("item_id", itemID), zap.Error(err))
		return false
	}
	return true
}
