package account

import "context"

// Repository defines the interface for account data access
// This interface is defined in the domain layer, but implemented in the infrastructure layer
type Repository interface {
	// Upsert inserts the account or overwrites its identity and balance fields
	Upsert(ctx context.Context, params UpsertParams) error

	// UpdateBalances overwrites balances of an existing account.
	// Returns false when no account has the given ID.
	UpdateBalances(ctx context.Context, id string, balances Balances) (bool, error)

	// GetByID returns nil, nil when the account does not exist
	GetByID(ctx context.Context, id string) (*Account, error)

	// List returns all accounts ordered by institution name, then account name
	List(ctx context.Context) ([]*AccountWithInstitution, error)

	// ListByItemID returns the accounts of one item
	ListByItemID(ctx context.Context, itemID string) ([]*Account, error)

	// UpdateName renames an account. Returns nil, nil when it does not exist.
	UpdateName(ctx context.Context, id, name string) (*Account, error)
}
