package plaid

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fintrack/internal/domain/item"
	"fintrack/internal/domain/transaction"
	plaidclient "fintrack/internal/infrastructure/plaid"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	DefaultEmptyPageDelay      = 2 * time.Second
	DefaultMaxEmptyPageRetries = 15
)

// SyncOptions tunes the transaction sync loop
type SyncOptions struct {
	// EmptyPageDelay is the wait before asking again for a first page that had no data yet
	EmptyPageDelay time.Duration
	// MaxEmptyPageRetries bounds those waits; the item then fails with ErrInitialDataNotReady
	MaxEmptyPageRetries int
	// Concurrency is how many items sync at once. Pages of one item are always sequential.
	Concurrency int
}

// TransactionSyncService pulls the incremental transaction feed for each
// item and applies it to local storage, persisting the cursor after every page.
type TransactionSyncService struct {
	client       plaidclient.ClientInterface
	items        item.Repository
	transactions transaction.Repository
	opts         SyncOptions

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewTransactionSyncService(
	client plaidclient.ClientInterface,
	items item.Repository,
	transactions transaction.Repository,
	opts SyncOptions,
) *TransactionSyncService {
	if opts.EmptyPageDelay <= 0 {
		opts.EmptyPageDelay = DefaultEmptyPageDelay
	}
	if opts.MaxEmptyPageRetries < 0 {
		opts.MaxEmptyPageRetries = DefaultMaxEmptyPageRetries
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &TransactionSyncService{
		client:       client,
		items:        items,
		transactions: transactions,
		opts:         opts,
		inflight:     make(map[string]struct{}),
	}
}

// acquire marks the item as syncing. It reports false if a sync for the
// same item is already running in this process.
func (s *TransactionSyncService) acquire(itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[itemID]; busy {
		return false
	}
	s.inflight[itemID] = struct{}{}
	return true
}

func (s *TransactionSyncService) release(itemID string) {
	s.mu.Lock()
	delete(s.inflight, itemID)
	s.mu.Unlock()
}

// SyncAll syncs every linked item. A failing item is recorded in the report
// and does not stop the others; only listing the items can fail the call.
func (s *TransactionSyncService) SyncAll(ctx context.Context) (*SyncReport, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	results := forEachItem(ctx, items, s.opts.Concurrency, func(ctx context.Context, it *item.Item) ItemSyncResult {
		res, err := s.SyncItem(ctx, it)
		if errors.Is(err, ErrSyncInProgress) {
			res.Error = err.Error()
			zap.L().Warn("Skipping item with a sync already running", zap.String("item_id", it.ID))
		} else if err != nil {
			res.Error = err.Error()
			recordItemFailure(ctx, "transactions")
			zap.L().Error("Error syncing transactions for item",
				zap.String("item_id", it.ID),
				zap.Error(err),
			)
		}
		return res
	})

	report := newSyncReport(results)
	zap.L().Info("Transaction sync completed",
		zap.Int("items", len(items)),
		zap.Int("failed_items", report.FailedItems()),
		zap.Int("added", report.Added),
		zap.Int("modified", report.Modified),
		zap.Int("removed", report.Removed),
	)
	return report, nil
}

// SyncItemByID loads one item and syncs it.
func (s *TransactionSyncService) SyncItemByID(ctx context.Context, itemID string) (ItemSyncResult, error) {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return ItemSyncResult{ItemID: itemID}, fmt.Errorf("failed to load item: %w", err)
	}
	if it == nil {
		return ItemSyncResult{ItemID: itemID}, item.ErrItemNotFound
	}
	return s.SyncItem(ctx, it)
}

// SyncItem runs the page loop for one item until the provider reports no more
// pages. The returned counts include pages applied before an error.
// Overlapping calls for the same item fail fast with ErrSyncInProgress.
func (s *TransactionSyncService) SyncItem(ctx context.Context, it *item.Item) (res ItemSyncResult, err error) {
	res = newItemSyncResult(it)
	if !s.acquire(it.ID) {
		return res, ErrSyncInProgress
	}
	defer s.release(it.ID)

	ctx, span := syncTracer.Start(ctx, "sync.item", trace.WithAttributes(attribute.String("item.id", it.ID)))
	defer func() {
		span.SetAttributes(
			attribute.Int("sync.added", res.Added),
			attribute.Int("sync.modified", res.Modified),
			attribute.Int("sync.removed", res.Removed),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	cursor := it.SyncCursor()
	emptyRetries := 0

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		page, err := s.client.SyncTransactions(ctx, it.AccessToken, cursor)
		if err != nil {
			return res, fmt.Errorf("failed to fetch transactions page: %w", err)
		}

		// The first pages can come back empty while the provider is still
		// pulling history. Ask again with the same (empty) cursor.
		if cursor == "" && len(page.Added) == 0 && len(page.Modified) == 0 {
			if emptyRetries >= s.opts.MaxEmptyPageRetries {
				return res, fmt.Errorf("%w after %d retries", ErrInitialDataNotReady, emptyRetries)
			}
			emptyRetries++
			zap.L().Debug("Initial transactions not ready, waiting",
				zap.String("item_id", it.ID),
				zap.Int("attempt", emptyRetries),
				zap.Duration("delay", s.opts.EmptyPageDelay),
			)
			if err := sleep(ctx, s.opts.EmptyPageDelay); err != nil {
				return res, err
			}
			continue
		}

		added, modified, removed, err := s.applyPage(ctx, page)
		if err != nil {
			return res, err
		}
		res.Added += added
		res.Modified += modified
		res.Removed += removed
		recordDeltas(ctx, added, modified, removed)

		if err := s.items.UpdateCursor(ctx, it.ID, page.NextCursor); err != nil {
			return res, fmt.Errorf("failed to save cursor: %w", err)
		}
		cursor = page.NextCursor

		if !page.HasMore {
			return res, nil
		}
	}
}

// applyPage writes one page in provider order: added, modified, removed.
// Modified and removed records for rows we don't have are no-ops but are counted.
func (s *TransactionSyncService) applyPage(ctx context.Context, page *plaidclient.TransactionsSyncResponse) (added, modified, removed int, err error) {
	for _, txn := range page.Added {
		if err := s.transactions.Upsert(ctx, toUpsertParams(txn)); err != nil {
			return added, modified, removed, fmt.Errorf("failed to save transaction %s: %w", txn.TransactionID, err)
		}
		added++
	}

	for _, txn := range page.Modified {
		if _, err := s.transactions.Modify(ctx, txn.TransactionID, toModifyParams(txn)); err != nil {
			return added, modified, removed, fmt.Errorf("failed to update transaction %s: %w", txn.TransactionID, err)
		}
		modified++
	}

	for _, txn := range page.Removed {
		if _, err := s.transactions.Delete(ctx, txn.TransactionID); err != nil {
			return added, modified, removed, fmt.Errorf("failed to delete transaction %s: %w", txn.TransactionID, err)
		}
		removed++
	}
	return added, modified, removed, nil
}

func toUpsertParams(txn plaidclient.Transaction) transaction.UpsertParams {
	return transaction.UpsertParams{
		ID:              txn.TransactionID,
		AccountID:       txn.AccountID,
		Amount:          txn.Amount,
		Date:            txn.Date,
		Name:            txn.Name,
		MerchantName:    txn.MerchantName,
		Category:        resolveCategory(txn),
		Pending:         txn.Pending,
		IsoCurrencyCode: txn.IsoCurrencyCode,
	}
}

func toModifyParams(txn plaidclient.Transaction) transaction.ModifyParams {
	return transaction.ModifyParams{
		Amount:       txn.Amount,
		Name:         txn.Name,
		MerchantName: txn.MerchantName,
		Category:     resolveCategory(txn),
		Pending:      txn.Pending,
	}
}

func resolveCategory(txn plaidclient.Transaction) *string {
	var primary *string
	if txn.PersonalFinanceCategory != nil {
		primary = &txn.PersonalFinanceCategory.Primary
	}
	return transaction.ResolveCategory(primary, txn.Category)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
