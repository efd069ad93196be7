package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"fintrack/internal/domain/transaction"

	"github.com/shopspring/decimal"
)

var _ transaction.Repository = (*TransactionRepository)(nil)

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Upsert(ctx context.Context, params transaction.UpsertParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO transactions (id, account_id, amount, date, name, merchant_name, category, pending, iso_currency_code)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			account_id = excluded.account_id,
			amount = excluded.amount,
			date = excluded.date,
			name = excluded.name,
			merchant_name = excluded.merchant_name,
			category = excluded.category,
			pending = excluded.pending,
			iso_currency_code = excluded.iso_currency_code
	`

	_, err := r.db.ExecContext(ctx, query,
		params.ID, params.AccountID, params.Amount, params.Date, params.Name,
		params.MerchantName, params.Category, params.Pending, params.IsoCurrencyCode,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert transaction %s: %w", params.ID, err)
	}
	return nil
}

func (r *TransactionRepository) Modify(ctx context.Context, id string, params transaction.ModifyParams) (int64, error) {
	query := `
		UPDATE transactions
		SET amount = ?, name = ?, merchant_name = ?, category = ?, pending = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		params.Amount, params.Name, params.MerchantName, params.Category, params.Pending, id,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to modify transaction %s: %w", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete transaction %s: %w", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n, nil
}

func (r *TransactionRepository) List(ctx context.Context, filter transaction.Filter) ([]*transaction.TransactionWithAccount, int, error) {
	where, args := buildTransactionFilter(filter)

	countQuery := `SELECT COUNT(*) FROM transactions t` + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `
		SELECT t.id, t.account_id, t.amount, t.date, t.name, t.merchant_name, t.category,
			t.pending, t.iso_currency_code, t.created_at, a.name, i.institution_name
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		LEFT JOIN items i ON i.id = a.item_id` + where + `
		ORDER BY t.date DESC, t.created_at DESC, t.id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*transaction.TransactionWithAccount
	for rows.Next() {
		var t transaction.TransactionWithAccount
		var date sql.NullTime
		var name sql.NullString
		err := rows.Scan(
			&t.ID, &t.AccountID, &t.Amount, &date, &name, &t.MerchantName, &t.Category,
			&t.Pending, &t.IsoCurrencyCode, &t.CreatedAt, &t.AccountName, &t.InstitutionName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.Date = formatRequiredDate(date.Time)
		t.Name = name.String
		txns = append(txns, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txns, total, nil
}

// SpendingByCategory sums settled outflows per category. Amounts are added with
// decimal arithmetic since SQLite stores DECIMAL columns as REAL.
func (r *TransactionRepository) SpendingByCategory(ctx context.Context, dr transaction.DateRange) ([]transaction.CategoryTotal, error) {
	conds, args := dateConditions("t.date", dr.StartDate, dr.EndDate)
	conds = append(conds, "t.amount > 0", "t.pending = ?")
	args = append(args, false)

	query := `
		SELECT t.category, t.amount
		FROM transactions t
		WHERE ` + strings.Join(conds, " AND ") + `
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum spending: %w", err)
	}
	defer rows.Close()

	var totals []transaction.CategoryTotal
	index := map[string]int{}
	for rows.Next() {
		var category sql.NullString
		var amount decimal.Decimal
		if err := rows.Scan(&category, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan spending row: %w", err)
		}

		key := "\x00"
		if category.Valid {
			key = "c:" + category.String
		}
		i, ok := index[key]
		if !ok {
			ct := transaction.CategoryTotal{Total: decimal.Zero}
			if category.Valid {
				c := category.String
				ct.Category = &c
			}
			totals = append(totals, ct)
			i = len(totals) - 1
			index[key] = i
		}
		totals[i].Total = totals[i].Total.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating spending rows: %w", err)
	}

	sort.SliceStable(totals, func(i, j int) bool {
		if c := totals[i].Total.Cmp(totals[j].Total); c != 0 {
			return c > 0
		}
		return categoryLess(totals[i].Category, totals[j].Category)
	})
	return totals, nil
}

// categoryLess orders named categories alphabetically with the uncategorised bucket last.
func categoryLess(a, b *string) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return *a < *b
	}
}

func (r *TransactionRepository) ListIncome(ctx context.Context, dr transaction.DateRange) ([]*transaction.IncomeItem, error) {
	conds, args := dateConditions("t.date", dr.StartDate, dr.EndDate)
	conds = append(conds, "t.amount < 0", "t.pending = ?")
	args = append(args, false)

	query := `
		SELECT t.id, t.account_id, t.amount, t.date, t.name, t.merchant_name, t.category, a.name
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY t.date DESC, t.created_at DESC, t.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list income: %w", err)
	}
	defer rows.Close()

	var income []*transaction.IncomeItem
	for rows.Next() {
		var it transaction.IncomeItem
		var date sql.NullTime
		var name sql.NullString
		err := rows.Scan(&it.ID, &it.AccountID, &it.Amount, &date, &name, &it.MerchantName, &it.Category, &it.AccountName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		it.Date = formatRequiredDate(date.Time)
		it.Name = name.String
		income = append(income, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating income: %w", err)
	}
	return income, nil
}

// buildTransactionFilter renders the WHERE clause shared by the count and page queries.
// The page query joins accounts as a and items as i; the filter only references t.
func buildTransactionFilter(f transaction.Filter) (string, []any) {
	conds, args := dateConditions("t.date", f.StartDate, f.EndDate)

	if f.AccountID != "" {
		conds = append(conds, "t.account_id = ?")
		args = append(args, f.AccountID)
	}
	if f.Category != "" {
		conds = append(conds, "t.category = ?")
		args = append(args, f.Category)
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(f.Search) + "%"
		conds = append(conds, `(LOWER(t.name) LIKE LOWER(?) ESCAPE '\' OR LOWER(t.merchant_name) LIKE LOWER(?) ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	if len(conds) == 0 {
		return "", args
	}
	return "\n\t\tWHERE " + strings.Join(conds, " AND "), args
}

func dateConditions(column, start, end string) ([]string, []any) {
	var conds []string
	var args []any
	if start != "" {
		conds = append(conds, column+" >= ?")
		args = append(args, start)
	}
	if end != "" {
		conds = append(conds, column+" <= ?")
		args = append(args, end)
	}
	return conds, args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
