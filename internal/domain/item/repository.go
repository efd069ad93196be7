package item

import "context"

// Repository defines the interface for item persistence.
// GetByID returns nil, nil when the item does not exist.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context) ([]*Item, error)
	UpdateCursor(ctx context.Context, id, cursor string) error
	Delete(ctx context.Context, id string) error
}
