package storage

import (
	"context"
	"database/sql"
	"fmt"

	"fintrack/internal/domain/item"
)

var _ item.Repository = (*ItemRepository)(nil)

// Cipher seals access tokens at rest.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

type ItemRepository struct {
	db     *DB
	cipher Cipher
}

func NewItemRepository(db *DB, cipher Cipher) *ItemRepository {
	return &ItemRepository{db: db, cipher: cipher}
}

const itemColumns = `id, access_token, institution_id, institution_name, sync_cursor, created_at`

// Create stores a linked item. Relinking an existing item replaces its credential
// and keeps its cursor.
func (r *ItemRepository) Create(ctx context.Context, params item.CreateParams) (*item.Item, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", item.ErrInvalidInput, err)
	}

	sealed, err := r.cipher.Encrypt(params.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}

	query := `
		INSERT INTO items (id, access_token, institution_id, institution_name)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			access_token = excluded.access_token,
			institution_id = COALESCE(excluded.institution_id, items.institution_id),
			institution_name = COALESCE(excluded.institution_name, items.institution_name)
	`

	_, err = r.db.ExecContext(ctx, query, params.ID, sealed, params.InstitutionID, params.InstitutionName)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	it, err := r.GetByID(ctx, params.ID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, item.ErrItemNotFound
	}
	return it, nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id string) (*item.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ?`

	it, err := r.scanItem(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return it, nil
}

// List returns all items, newest first.
func (r *ItemRepository) List(ctx context.Context) ([]*item.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY created_at DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*item.Item
	for rows.Next() {
		it, err := r.scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}
	return items, nil
}

func (r *ItemRepository) UpdateCursor(ctx context.Context, id, cursor string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE items SET sync_cursor = ? WHERE id = ?`, cursor, id)
	if err != nil {
		return fmt.Errorf("failed to update cursor: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return item.ErrItemNotFound
	}
	return nil
}

// Delete removes the item; accounts, transactions, liabilities and
// balance snapshots go with it through cascading foreign keys.
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

func (r *ItemRepository) scanItem(row rowScanner) (*item.Item, error) {
	var it item.Item
	var sealed string

	err := row.Scan(&it.ID, &sealed, &it.InstitutionID, &it.InstitutionName, &it.Cursor, &it.CreatedAt)
	if err != nil {
		return nil, err
	}

	it.AccessToken, err = r.cipher.Decrypt(sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt access token for item %s: %w", it.ID, err)
	}
	return &it, nil
}
