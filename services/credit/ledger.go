package credit

import (
	"context"
	"fmt"
	"time"

	"tripmarket/metrics"
	"tripmarket/models"
	"tripmarket/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (l *DefaultCreditLedger) Purchase(ctx context.Context, vendorID string, amount int64, description string) (*models.CreditTransaction, error) {
	if err := validateMovement(vendorID, amount); err != nil {
		return nil, err
	}
	if description == "" {
		description = fmt.Sprintf("Purchased %d credits", amount)
	}
	return l.append(ctx, vendorID, models.TxPurchase, amount, description, "")
}

func (l *DefaultCreditLedger) Spend(ctx context.Context, vendorID string, amount int64, description, relatedTripID string) (*models.CreditTransaction, error) {
	if err := validateMovement(vendorID, amount); err != nil {
		return nil, err
	}
	return l.append(ctx, vendorID, models.TxSpend, -amount, description, relatedTripID)
}

func (l *DefaultCreditLedger) Refund(ctx context.Context, vendorID string, amount int64, description, relatedTripID string) (*models.CreditTransaction, error) {
	if err := validateMovement(vendorID, amount); err != nil {
		return nil, err
	}
	return l.append(ctx, vendorID, models.TxRefund, amount, description, relatedTripID)
}

// GetBalance reports 0 for a vendor that never bought credits.
func (l *DefaultCreditLedger) GetBalance(ctx context.Context, vendorID string) (int64, error) {
	acct, err := l.Accounts.GetAccount(ctx, vendorID)
	if err != nil {
		if models.IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	return acct.Credits, nil
}

// GetHistory returns transactions oldest first, empty for unknown vendors.
func (l *DefaultCreditLedger) GetHistory(ctx context.Context, vendorID string) ([]models.CreditTransaction, error) {
	txs, err := l.Accounts.ListTransactions(ctx, vendorID)
	if err != nil {
		if models.IsNotFound(err) {
			return []models.CreditTransaction{}, nil
		}
		return nil, err
	}
	if txs == nil {
		txs = []models.CreditTransaction{}
	}
	return txs, nil
}

func validateMovement(vendorID string, amount int64) error {
	if vendorID == "" {
		return models.ValidationError{Field: "vendorId", Msg: "is required"}
	}
	if amount <= 0 {
		return models.ValidationError{Field: "amount", Msg: "must be greater than zero"}
	}
	return nil
}

// append reads the balance at some version and writes one transaction
// conditional on that version still being current.
func (l *DefaultCreditLedger) append(ctx context.Context, vendorID string, kind models.TransactionType, signed int64, description, tripID string) (*models.CreditTransaction, error) {
	var entry models.CreditTransaction
	err := utils.RetryOnConflict(ctx, l.Attempts, "credit", func() error {
		var balance int64
		version := 0
		acct, err := l.Accounts.GetAccount(ctx, vendorID)
		switch {
		case err == nil:
			balance, version = acct.Credits, acct.Version
		case models.IsNotFound(err):
		default:
			return err
		}

		if balance+signed < 0 {
			return models.InsufficientCreditsError{VendorID: vendorID, Required: -signed, Available: balance}
		}

		entry = models.CreditTransaction{
			ID:            uuid.New().String(),
			VendorID:      vendorID,
			Type:          kind,
			Amount:        signed,
			Description:   description,
			RelatedTripID: tripID,
			BalanceAfter:  balance + signed,
			CreatedAt:     time.Now().UTC(),
		}
		return l.Accounts.Append(ctx, vendorID, version, entry)
	})
	if err != nil {
		if short, ok := models.AsInsufficientCredits(err); ok {
			l.Logger.Info("Credit spend refused",
				zap.String("vendorId", vendorID),
				zap.Int64("required", short.Required),
				zap.Int64("available", short.Available),
			)
		}
		return nil, err
	}

	magnitude := signed
	if magnitude < 0 {
		magnitude = -magnitude
	}
	metrics.CreditsMoved.WithLabelValues(string(kind)).Add(float64(magnitude))
	l.Logger.Info("Credit transaction recorded",
		zap.String("vendorId", vendorID),
		zap.String("transactionId", entry.ID),
		zap.String("type", string(kind)),
		zap.Int64("amount", signed),
		zap.Int64("balanceAfter", entry.BalanceAfter),
	)
	return &entry, nil
}
