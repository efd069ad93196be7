package storage

import (
	"context"
	"database/sql"
	"fmt"

	"fintrack/internal/domain/account"
)

var _ account.Repository = (*AccountRepository)(nil)

type AccountRepository struct {
	db *DB
}

func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, item_id, name, official_name, type, subtype, mask,
	current_balance, available_balance, credit_limit, iso_currency_code, updated_at`

const joinedAccountColumns = `a.id, a.item_id, a.name, a.official_name, a.type, a.subtype, a.mask,
	a.current_balance, a.available_balance, a.credit_limit, a.iso_currency_code, a.updated_at`

func (r *AccountRepository) Upsert(ctx context.Context, params account.UpsertParams) error {
	if err := params.Validate(); err != nil {
		return fmt.Errorf("%w: %v", account.ErrInvalidInput, err)
	}

	query := `
		INSERT INTO accounts (id, item_id, name, official_name, type, subtype, mask,
			current_balance, available_balance, credit_limit, iso_currency_code, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			item_id = excluded.item_id,
			name = excluded.name,
			official_name = excluded.official_name,
			type = excluded.type,
			subtype = excluded.subtype,
			mask = excluded.mask,
			current_balance = excluded.current_balance,
			available_balance = excluded.available_balance,
			credit_limit = excluded.credit_limit,
			iso_currency_code = excluded.iso_currency_code,
			updated_at = CURRENT_TIMESTAMP
	`

	b := params.Balances
	_, err := r.db.ExecContext(ctx, query,
		params.ID, params.ItemID, params.Name, params.OfficialName, params.Type, params.Subtype, params.Mask,
		b.Current, b.Available, b.Limit, b.IsoCurrencyCode,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert account: %w", err)
	}
	return nil
}

func (r *AccountRepository) UpdateBalances(ctx context.Context, id string, b account.Balances) (bool, error) {
	query := `
		UPDATE accounts
		SET current_balance = ?,
		    available_balance = ?,
		    credit_limit = ?,
		    iso_currency_code = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, b.Current, b.Available, b.Limit, b.IsoCurrencyCode, id)
	if err != nil {
		return false, fmt.Errorf("failed to update balances: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n > 0, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`

	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return acc, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]*account.AccountWithInstitution, error) {
	query := `
		SELECT ` + joinedAccountColumns + `, i.institution_name
		FROM accounts a
		LEFT JOIN items i ON i.id = a.item_id
		ORDER BY i.institution_name ASC, a.name ASC, a.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.AccountWithInstitution
	for rows.Next() {
		var awi account.AccountWithInstitution
		var name, accType sql.NullString
		a := &awi.Account
		err := rows.Scan(
			&a.ID, &a.ItemID, &name, &a.OfficialName, &accType, &a.Subtype, &a.Mask,
			&a.CurrentBalance, &a.AvailableBalance, &a.CreditLimit, &a.IsoCurrencyCode, &a.UpdatedAt,
			&awi.InstitutionName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		a.Name, a.Type = name.String, accType.String
		accounts = append(accounts, &awi)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepository) ListByItemID(ctx context.Context, itemID string) ([]*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE item_id = ? ORDER BY name ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepository) UpdateName(ctx context.Context, id, name string) (*account.Account, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, name, id)
	if err != nil {
		return nil, fmt.Errorf("failed to rename account: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func scanAccount(row rowScanner) (*account.Account, error) {
	var a account.Account
	var name, accType sql.NullString

	err := row.Scan(
		&a.ID, &a.ItemID, &name, &a.OfficialName, &accType, &a.Subtype, &a.Mask,
		&a.CurrentBalance, &a.AvailableBalance, &a.CreditLimit, &a.IsoCurrencyCode, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Name, a.Type = name.String, accType.String
	return &a, nil
}
