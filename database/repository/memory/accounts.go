package memoryRepo

import (
	"context"
	"sync"
	"time"

	"tripmarket/models"
)

type AccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*models.VendorAccount
}

func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: make(map[string]*models.VendorAccount)}
}

func (s *AccountStore) GetAccount(_ context.Context, vendorID string) (*models.VendorAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[vendorID]
	if !ok {
		return nil, models.NotFoundError{Resource: "vendor account", ID: vendorID}
	}
	c := *a
	c.Transactions = nil
	return &c, nil
}

func (s *AccountStore) Append(_ context.Context, vendorID string, expectedVersion int, tx models.CreditTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[vendorID]
	switch {
	case !ok && expectedVersion != 0:
		return models.NotFoundError{Resource: "vendor account", ID: vendorID}
	case ok && a.Version != expectedVersion:
		return models.ConflictError{Resource: "vendor account", ID: vendorID}
	case !ok:
		now := time.Now()
		a = &models.VendorAccount{VendorID: vendorID, CreatedAt: now}
		defer func() {
			if a.Version > 0 {
				s.accounts[vendorID] = a
			}
		}()
	}

	if a.Credits+tx.Amount < 0 {
		return models.InsufficientCreditsError{VendorID: vendorID, Required: -tx.Amount, Available: a.Credits}
	}
	a.Credits += tx.Amount
	a.Transactions = append(a.Transactions, tx)
	a.Version++
	a.UpdatedAt = time.Now()
	return nil
}

func (s *AccountStore) ListTransactions(_ context.Context, vendorID string) ([]models.CreditTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[vendorID]
	if !ok {
		return nil, models.NotFoundError{Resource: "vendor account", ID: vendorID}
	}
	return append([]models.CreditTransaction(nil), a.Transactions...), nil
}
