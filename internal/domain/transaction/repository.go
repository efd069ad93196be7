package transaction

import "context"

// Repository defines the interface for transaction data access
type Repository interface {
	// Upsert inserts a transaction or overwrites it when the ID exists
	Upsert(ctx context.Context, params UpsertParams) error

	// Modify updates an existing row and reports rows affected (0 when absent)
	Modify(ctx context.Context, id string, params ModifyParams) (int64, error)

	// Delete removes a row and reports rows affected (0 when absent)
	Delete(ctx context.Context, id string) (int64, error)

	// List returns one page ordered by date then creation time, newest first,
	// and the total number of rows matching the filter
	List(ctx context.Context, filter Filter) ([]*TransactionWithAccount, int, error)

	// SpendingByCategory sums settled outflows per category, largest first
	SpendingByCategory(ctx context.Context, r DateRange) ([]CategoryTotal, error)

	// ListIncome returns settled inflows, newest first
	ListIncome(ctx context.Context, r DateRange) ([]*IncomeItem, error)
}
