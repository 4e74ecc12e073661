package credit

import (
	"context"

	accountRepo "tripmarket/database/repository/account"
	"tripmarket/models"

	"go.uber.org/zap"
)

// CreditLedger is the only writer of vendor balances. Every balance change is
// one appended transaction; nothing is ever edited or removed.
type CreditLedger interface {
	Purchase(ctx context.Context, vendorID string, amount int64, description string) (*models.CreditTransaction, error)
	// Spend fails with models.InsufficientCreditsError, and writes nothing,
	// when the balance cannot cover amount.
	Spend(ctx context.Context, vendorID string, amount int64, description, relatedTripID string) (*models.CreditTransaction, error)
	// Refund appends a compensating credit for a spend whose purchase could
	// not be completed.
	Refund(ctx context.Context, vendorID string, amount int64, description, relatedTripID string) (*models.CreditTransaction, error)
	GetBalance(ctx context.Context, vendorID string) (int64, error)
	GetHistory(ctx context.Context, vendorID string) ([]models.CreditTransaction, error)
}

type DefaultCreditLedger struct {
	Accounts accountRepo.AccountRepository
	Logger   *zap.Logger
	Attempts uint
}

func NewCreditLedger(accounts accountRepo.AccountRepository, attempts uint, logger *zap.Logger) *DefaultCreditLedger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultCreditLedger{Accounts: accounts, Logger: logger, Attempts: attempts}
}
