package plaid

import (
	"context"
	"fmt"

	"fintrack/internal/domain/account"
	"fintrack/internal/domain/item"
	plaidclient "fintrack/internal/infrastructure/plaid"

	"go.uber.org/zap"
)

// AccountSyncService mirrors an item's provider accounts into local storage
type AccountSyncService struct {
	client   plaidclient.ClientInterface
	accounts account.Repository
}

func NewAccountSyncService(client plaidclient.ClientInterface, accounts account.Repository) *AccountSyncService {
	return &AccountSyncService{client: client, accounts: accounts}
}

// SyncItem upserts every account the provider reports for the item and
// returns how many were written. Accounts missing from the response are kept.
func (s *AccountSyncService) SyncItem(ctx context.Context, it *item.Item) (int, error) {
	resp, err := s.client.GetAccounts(ctx, it.AccessToken)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	for _, acct := range resp.Accounts {
		if err := s.accounts.Upsert(ctx, toAccountParams(it.ID, acct)); err != nil {
			return 0, fmt.Errorf("failed to save account %s: %w", acct.AccountID, err)
		}
	}

	zap.L().Info("Mirrored accounts",
		zap.String("item_id", it.ID),
		zap.Int("accounts", len(resp.Accounts)),
	)
	return len(resp.Accounts), nil
}

func toAccountParams(itemID string, acct plaidclient.Account) account.UpsertParams {
	return account.UpsertParams{
		ID:           acct.AccountID,
		ItemID:       itemID,
		Name:         acct.Name,
		OfficialName: acct.OfficialName,
		Type:         acct.Type,
		Subtype:      acct.Subtype,
		Mask:         acct.Mask,
		Balances:     toBalances(acct.Balances),
	}
}

func toBalances(b plaidclient.Balances) account.Balances {
	return account.Balances{
		Current:         b.Current,
		Available:       b.Available,
		Limit:           b.Limit,
		IsoCurrencyCode: b.IsoCurrencyCode,
	}
}
