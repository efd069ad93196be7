package liability

import "context"

// Repository defines the interface for liability persistence.
// There is at most one liability per account; Upsert replaces it.
type Repository interface {
	Upsert(ctx context.Context, params UpsertParams) error

	// List returns liabilities ordered by account current balance, largest first
	List(ctx context.Context) ([]*LiabilityWithAccount, error)
}
