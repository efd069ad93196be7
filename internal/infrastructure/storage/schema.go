package storage

import (
	"context"
	"fmt"
	"strings"
)

// schema is written once; {{ID}} expands to the driver's auto-increment key.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id VARCHAR(255) PRIMARY KEY,
		access_token TEXT NOT NULL,
		institution_id VARCHAR(255),
		institution_name VARCHAR(255),
		sync_cursor TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id VARCHAR(255) PRIMARY KEY,
		item_id VARCHAR(255) NOT NULL REFERENCES items(id) ON DELETE CASCADE,
		name VARCHAR(255),
		official_name VARCHAR(255),
		type VARCHAR(50),
		subtype VARCHAR(50),
		mask VARCHAR(10),
		current_balance DECIMAL(14,2),
		available_balance DECIMAL(14,2),
		credit_limit DECIMAL(14,2),
		iso_currency_code VARCHAR(10),
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id VARCHAR(255) PRIMARY KEY,
		account_id VARCHAR(255) NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		amount DECIMAL(14,2) NOT NULL,
		date DATE NOT NULL,
		name TEXT,
		merchant_name VARCHAR(255),
		category VARCHAR(255),
		pending BOOLEAN NOT NULL DEFAULT FALSE,
		iso_currency_code VARCHAR(10),
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS liabilities (
		account_id VARCHAR(255) PRIMARY KEY REFERENCES accounts(id) ON DELETE CASCADE,
		type VARCHAR(50) NOT NULL,
		apr DECIMAL(8,4),
		minimum_payment DECIMAL(14,2),
		next_payment_due_date DATE,
		last_statement_balance DECIMAL(14,2),
		last_statement_date DATE,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS net_worth_history (
		id {{ID}},
		total_assets DECIMAL(14,2) NOT NULL,
		total_liabilities DECIMAL(14,2) NOT NULL,
		net_worth DECIMAL(14,2) NOT NULL,
		snapshot_date DATE NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS account_balance_snapshots (
		id {{ID}},
		snapshot_id INTEGER NOT NULL REFERENCES net_worth_history(id) ON DELETE CASCADE,
		account_id VARCHAR(255) NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		balance DECIMAL(14,2),
		account_type VARCHAR(50),
		account_name VARCHAR(255)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_accounts_item_id ON accounts(item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_account_id ON transactions(account_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date)`,
	`CREATE INDEX IF NOT EXISTS idx_net_worth_history_date ON net_worth_history(snapshot_date)`,
	`CREATE INDEX IF NOT EXISTS idx_account_balance_snapshots_snapshot_id ON account_balance_snapshots(snapshot_id)`,
	`CREATE INDEX IF NOT EXISTS idx_account_balance_snapshots_account_id ON account_balance_snapshots(account_id)`,
}

// EnsureSchema creates missing tables and indexes. It is idempotent.
func (db *DB) EnsureSchema(ctx context.Context) error {
	idType := "SERIAL PRIMARY KEY"
	if db.driver == DriverSQLite {
		idType = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	for _, stmt := range schema {
		stmt = strings.ReplaceAll(stmt, "{{ID}}", idType)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema (%s): %w", extractSQLVerb(stmt), err)
		}
	}
	return nil
}
