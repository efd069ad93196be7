package storage

import (
	"context"
	"database/sql"
	"fmt"

	"fintrack/internal/domain/liability"
)

var _ liability.Repository = (*LiabilityRepository)(nil)

type LiabilityRepository struct {
	db *DB
}

func NewLiabilityRepository(db *DB) *LiabilityRepository {
	return &LiabilityRepository{db: db}
}

// Upsert keeps a single row per account; a re-sync replaces the previous values.
func (r *LiabilityRepository) Upsert(ctx context.Context, params liability.UpsertParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO liabilities (account_id, type, apr, minimum_payment, next_payment_due_date,
			last_statement_balance, last_statement_date, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (account_id) DO UPDATE SET
			type = excluded.type,
			apr = excluded.apr,
			minimum_payment = excluded.minimum_payment,
			next_payment_due_date = excluded.next_payment_due_date,
			last_statement_balance = excluded.last_statement_balance,
			last_statement_date = excluded.last_statement_date,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.ExecContext(ctx, query,
		params.AccountID, params.Type, params.APR, params.MinimumPayment, params.NextPaymentDueDate,
		params.LastStatementBalance, params.LastStatementDate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert liability for account %s: %w", params.AccountID, err)
	}
	return nil
}

func (r *LiabilityRepository) List(ctx context.Context) ([]*liability.LiabilityWithAccount, error) {
	query := `
		SELECT l.account_id, l.type, l.apr, l.minimum_payment, l.next_payment_due_date,
			l.last_statement_balance, l.last_statement_date, l.updated_at,
			a.name, a.current_balance, i.institution_name
		FROM liabilities l
		JOIN accounts a ON a.id = l.account_id
		LEFT JOIN items i ON i.id = a.item_id
		ORDER BY a.current_balance DESC NULLS LAST, l.account_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list liabilities: %w", err)
	}
	defer rows.Close()

	var liabilities []*liability.LiabilityWithAccount
	for rows.Next() {
		var l liability.LiabilityWithAccount
		var nextDue, lastStatement sql.NullTime
		err := rows.Scan(
			&l.AccountID, &l.Type, &l.APR, &l.MinimumPayment, &nextDue,
			&l.LastStatementBalance, &lastStatement, &l.UpdatedAt,
			&l.AccountName, &l.CurrentBalance, &l.InstitutionName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan liability: %w", err)
		}
		l.NextPaymentDueDate = formatDate(nextDue)
		l.LastStatementDate = formatDate(lastStatement)
		liabilities = append(liabilities, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating liabilities: %w", err)
	}
	return liabilities, nil
}
