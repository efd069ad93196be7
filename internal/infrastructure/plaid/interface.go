package plaid

import (
	"context"
)

// ClientInterface defines the aggregator operations used by the domain services
type ClientInterface interface {
	CreateLinkToken(ctx context.Context, req LinkTokenRequest) (*LinkTokenResponse, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResponse, error)
	GetAccounts(ctx context.Context, accessToken string) (*AccountsResponse, error)
	GetBalances(ctx context.Context, accessToken string) (*AccountsResponse, error)
	SyncTransactions(ctx context.Context, accessToken, cursor string) (*TransactionsSyncResponse, error)
	GetLiabilities(ctx context.Context, accessToken string) (*LiabilitiesResponse, error)
	RemoveItem(ctx context.Context, accessToken string) error
}
