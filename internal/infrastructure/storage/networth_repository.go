package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"fintrack/internal/domain/networth"
)

var _ networth.Repository = (*NetWorthRepository)(nil)

type NetWorthRepository struct {
	db *DB
}

func NewNetWorthRepository(db *DB) *NetWorthRepository {
	return &NetWorthRepository{db: db}
}

func (r *NetWorthRepository) ListAccountBalances(ctx context.Context) ([]networth.AccountBalance, error) {
	query := `SELECT id, name, type, current_balance FROM accounts ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list account balances: %w", err)
	}
	defer rows.Close()

	var balances []networth.AccountBalance
	for rows.Next() {
		var b networth.AccountBalance
		var name, accType sql.NullString
		if err := rows.Scan(&b.AccountID, &name, &accType, &b.CurrentBalance); err != nil {
			return nil, fmt.Errorf("failed to scan account balance: %w", err)
		}
		b.Name, b.Type = name.String, accType.String
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account balances: %w", err)
	}
	return balances, nil
}

// CreateSnapshot writes the snapshot and its per-account rows in one transaction.
func (r *NetWorthRepository) CreateSnapshot(ctx context.Context, date string, totals networth.Totals, balances []networth.AccountBalance) (*networth.Snapshot, error) {
	snap := &networth.Snapshot{
		SnapshotDate:     date,
		TotalAssets:      totals.TotalAssets,
		TotalLiabilities: totals.TotalLiabilities,
		NetWorth:         totals.NetWorth,
	}

	err := r.db.WithTx(ctx, func(tx *Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO net_worth_history (total_assets, total_liabilities, net_worth, snapshot_date)
			VALUES (?, ?, ?, ?)
			RETURNING id
		`, totals.TotalAssets, totals.TotalLiabilities, totals.NetWorth, date).Scan(&snap.ID)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot: %w", err)
		}

		for _, b := range balances {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO account_balance_snapshots (snapshot_id, account_id, balance, account_type, account_name)
				VALUES (?, ?, ?, ?, ?)
			`, snap.ID, b.AccountID, b.CurrentBalance, b.Type, b.Name)
			if err != nil {
				return fmt.Errorf("failed to insert balance for account %s: %w", b.AccountID, err)
			}
		}

		err = tx.QueryRowContext(ctx,
			`SELECT created_at FROM net_worth_history WHERE id = ?`, snap.ID,
		).Scan(&snap.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to read snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (r *NetWorthRepository) ListSnapshots(ctx context.Context, dr networth.DateRange) ([]*networth.Snapshot, error) {
	conds, args := dateConditions("snapshot_date", dr.StartDate, dr.EndDate)

	query := `SELECT id, snapshot_date, total_assets, total_liabilities, net_worth, created_at FROM net_worth_history`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY snapshot_date ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*networth.Snapshot
	for rows.Next() {
		var s networth.Snapshot
		var date sql.NullTime
		if err := rows.Scan(&s.ID, &date, &s.TotalAssets, &s.TotalLiabilities, &s.NetWorth, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		s.SnapshotDate = formatRequiredDate(date.Time)
		snapshots = append(snapshots, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return snapshots, nil
}

func (r *NetWorthRepository) ListBalanceSamples(ctx context.Context, dr networth.DateRange, accountID string) ([]networth.BalanceSample, error) {
	conds, args := dateConditions("h.snapshot_date", dr.StartDate, dr.EndDate)
	if accountID != "" {
		conds = append(conds, "s.account_id = ?")
		args = append(args, accountID)
	}

	query := `
		SELECT s.snapshot_id, h.snapshot_date, s.account_id, s.account_name, s.account_type, s.balance
		FROM account_balance_snapshots s
		JOIN net_worth_history h ON h.id = s.snapshot_id`
	if len(conds) > 0 {
		query += `
		WHERE ` + strings.Join(conds, " AND ")
	}
	query += `
		ORDER BY h.snapshot_date ASC, h.id ASC, s.id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list balance samples: %w", err)
	}
	defer rows.Close()

	var samples []networth.BalanceSample
	for rows.Next() {
		var s networth.BalanceSample
		var date sql.NullTime
		if err := rows.Scan(&s.SnapshotID, &date, &s.AccountID, &s.AccountName, &s.AccountType, &s.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan balance sample: %w", err)
		}
		s.SnapshotDate = formatRequiredDate(date.Time)
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balance samples: %w", err)
	}
	return samples, nil
}
