package plaid

import (
	"context"
	"fmt"

	"fintrack/internal/domain/account"
	"fintrack/internal/domain/item"
	plaidclient "fintrack/internal/infrastructure/plaid"

	"go.uber.org/zap"
)

// BalanceSyncService overwrites stored balances with fresh provider values
type BalanceSyncService struct {
	client      plaidclient.ClientInterface
	items       item.Repository
	accounts    account.Repository
	concurrency int
}

func NewBalanceSyncService(client plaidclient.ClientInterface, items item.Repository, accounts account.Repository, concurrency int) *BalanceSyncService {
	return &BalanceSyncService{client: client, items: items, accounts: accounts, concurrency: concurrency}
}

// RefreshAll refreshes balances for every item. Accounts the provider reports
// but we never mirrored are skipped.
func (s *BalanceSyncService) RefreshAll(ctx context.Context) (*RefreshReport, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	results := forEachItem(ctx, items, s.concurrency, s.refreshItem)

	report := &RefreshReport{Items: results}
	zap.L().Info("Balance refresh completed",
		zap.Int("items", len(items)),
		zap.Int("failed_items", report.FailedItems()),
	)
	return report, nil
}

func (s *BalanceSyncService) refreshItem(ctx context.Context, it *item.Item) ItemRefreshResult {
	res := newItemRefreshResult(it)

	resp, err := s.client.GetBalances(ctx, it.AccessToken)
	if err != nil {
		res.Error = err.Error()
		recordItemFailure(ctx, "balances")
		zap.L().Error("Error refreshing balances for item", zap.String("item_id", it.ID), zap.Error(err))
		return res
	}

	for _, acct := range resp.Accounts {
		ok, err := s.accounts.UpdateBalances(ctx, acct.AccountID, toBalances(acct.Balances))
		switch {
		case err != nil:
			res.Failed++
			zap.L().Warn("Failed to update balances",
				zap.String("item_id", it.ID),
				zap.String("account_id", acct.AccountID),
				zap.Error(err),
			)
		case !ok:
			res.Skipped++
		default:
			res.Updated++
		}
	}
	return res
}
