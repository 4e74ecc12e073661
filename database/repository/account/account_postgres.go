package accountRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tripmarket/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS vendor_accounts (
	vendor_id  TEXT PRIMARY KEY,
	credits    BIGINT NOT NULL DEFAULT 0 CHECK (credits >= 0),
	version    INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS credit_transactions (
	seq             BIGSERIAL PRIMARY KEY,
	id              TEXT NOT NULL UNIQUE,
	vendor_id       TEXT NOT NULL REFERENCES vendor_accounts (vendor_id),
	type            TEXT NOT NULL,
	amount          BIGINT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	related_trip_id TEXT NOT NULL DEFAULT '',
	balance_after   BIGINT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS credit_transactions_vendor_idx ON credit_transactions (vendor_id, seq);
`

// EnsureSchema creates the ledger tables when they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create credit ledger schema: %w", err)
	}
	return nil
}

// postgresAccountRepo keeps balances in vendor_accounts and the log in
// credit_transactions. Append locks the account row for the duration of the
// write, then still honours the caller's expected version.
type postgresAccountRepo struct {
	db *sql.DB
}

func NewPostgresAccountRepo(db *sql.DB) AccountRepository {
	return &postgresAccountRepo{db: db}
}

func (r *postgresAccountRepo) GetAccount(ctx context.Context, vendorID string) (*models.VendorAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	acct := models.VendorAccount{VendorID: vendorID}
	err := r.db.QueryRowContext(ctx,
		`SELECT credits, version, created_at, updated_at FROM vendor_accounts WHERE vendor_id = $1`,
		vendorID,
	).Scan(&acct.Credits, &acct.Version, &acct.CreatedAt, &acct.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NotFoundError{Resource: "vendor account", ID: vendorID}
		}
		return nil, fmt.Errorf("get account %s: %w", vendorID, err)
	}
	return &acct, nil
}

func (r *postgresAccountRepo) Append(ctx context.Context, vendorID string, expectedVersion int, entry models.CreditTransaction) (err error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now()
	if expectedVersion == 0 {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO vendor_accounts (vendor_id, credits, version, created_at, updated_at)
			 VALUES ($1, 0, 0, $2, $2)
			 ON CONFLICT (vendor_id) DO NOTHING`,
			vendorID, now,
		)
		if err != nil {
			return fmt.Errorf("create account %s: %w", vendorID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return models.ConflictError{Resource: "vendor account", ID: vendorID}
		}
	}

	var credits int64
	var version int
	err = tx.QueryRowContext(ctx,
		`SELECT credits, version FROM vendor_accounts WHERE vendor_id = $1 FOR UPDATE`,
		vendorID,
	).Scan(&credits, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.NotFoundError{Resource: "vendor account", ID: vendorID}
		}
		return fmt.Errorf("lock account %s: %w", vendorID, err)
	}
	if version != expectedVersion {
		return models.ConflictError{Resource: "vendor account", ID: vendorID}
	}
	if credits+entry.Amount < 0 {
		return models.InsufficientCreditsError{VendorID: vendorID, Required: -entry.Amount, Available: credits}
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE vendor_accounts SET credits = credits + $2, version = version + 1, updated_at = $3 WHERE vendor_id = $1`,
		vendorID, entry.Amount, now,
	); err != nil {
		return fmt.Errorf("update balance %s: %w", vendorID, err)
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO credit_transactions (id, vendor_id, type, amount, description, related_trip_id, balance_after, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, vendorID, string(entry.Type), entry.Amount, entry.Description, entry.RelatedTripID, entry.BalanceAfter, entry.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert transaction %s: %w", entry.ID, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *postgresAccountRepo) ListTransactions(ctx context.Context, vendorID string) ([]models.CreditTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, type, amount, description, related_trip_id, balance_after, created_at
		 FROM credit_transactions WHERE vendor_id = $1 ORDER BY seq`,
		vendorID,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions %s: %w", vendorID, err)
	}
	defer rows.Close()

	txs := []models.CreditTransaction{}
	for rows.Next() {
		t := models.CreditTransaction{VendorID: vendorID}
		var kind string
		if err := rows.Scan(&t.ID, &kind, &t.Amount, &t.Description, &t.RelatedTripID, &t.BalanceAfter, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = models.TransactionType(kind)
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	if len(txs) == 0 {
		var exists bool
		err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM vendor_accounts WHERE vendor_id = $1)`, vendorID,
		).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("check account %s: %w", vendorID, err)
		}
		if !exists {
			return nil, models.NotFoundError{Resource: "vendor account", ID: vendorID}
		}
	}
	return txs, nil
}
