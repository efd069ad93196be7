package networth

import "context"

// Repository defines the interface for net worth data access
type Repository interface {
	// ListAccountBalances returns the current balance of every mirrored account
	ListAccountBalances(ctx context.Context) ([]AccountBalance, error)

	// CreateSnapshot persists the totals and one balance row per account, atomically
	CreateSnapshot(ctx context.Context, date string, totals Totals, balances []AccountBalance) (*Snapshot, error)

	// ListSnapshots returns snapshots within the range, oldest first
	ListSnapshots(ctx context.Context, r DateRange) ([]*Snapshot, error)

	// ListBalanceSamples returns per-account snapshot rows within the range ordered
	// by snapshot date then snapshot id. An empty accountID means all accounts.
	ListBalanceSamples(ctx context.Context, r DateRange, accountID string) ([]BalanceSample, error)
}
