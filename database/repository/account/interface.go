package accountRepo

import (
	"context"

	"tripmarket/models"
)

// AccountRepository stores vendor credit accounts and their transaction logs.
//
// Append is the only write path: it adds one transaction and moves the balance
// by its amount in a single atomic step, provided the account is still at
// expectedVersion. expectedVersion 0 means the account does not exist yet and
// Append creates it. A stale version yields models.ConflictError.
type AccountRepository interface {
	// GetAccount returns the balance and version without the transaction log.
	GetAccount(ctx context.Context, vendorID string) (*models.VendorAccount, error)
	Append(ctx context.Context, vendorID string, expectedVersion int, tx models.CreditTransaction) error
	// ListTransactions returns the log oldest first.
	ListTransactions(ctx context.Context, vendorID string) ([]models.CreditTransaction, error)
}
