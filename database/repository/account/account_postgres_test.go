package accountRepo

import (
	"context"
	"testing"
	"time"

	"tripmarket/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (AccountRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresAccountRepo(db), mock
}

func TestPostgresAppendCreatesAccount(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO vendor_accounts").
		WithArgs("v1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT credits, version FROM vendor_accounts").
		WithArgs("v1").
		WillReturnRows(sqlmock.NewRows([]string{"credits", "version"}).AddRow(int64(0), 0))
	mock.ExpectExec("UPDATE vendor_accounts SET credits").
		WithArgs("v1", int64(500), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO credit_transactions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Append(context.Background(), "v1", 0, models.CreditTransaction{
		ID:           "tx-1",
		VendorID:     "v1",
		Type:         models.TxPurchase,
		Amount:       500,
		Description:  "Purchased 500 credits",
		BalanceAfter: 500,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("append error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresAppendConcurrentCreateIsConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO vendor_accounts").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Append(context.Background(), "v1", 0, models.CreditTransaction{ID: "tx-1", Type: models.TxPurchase, Amount: 100})
	if !models.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresAppendStaleVersion(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT credits, version FROM vendor_accounts").
		WithArgs("v1").
		WillReturnRows(sqlmock.NewRows([]string{"credits", "version"}).AddRow(int64(50), 3))
	mock.ExpectRollback()

	err := repo.Append(context.Background(), "v1", 2, models.CreditTransaction{ID: "tx-2", Type: models.TxSpend, Amount: -150})
	if !models.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresAppendRefusesNegativeBalance(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT credits, version FROM vendor_accounts").
		WillReturnRows(sqlmock.NewRows([]string{"credits", "version"}).AddRow(int64(100), 1))
	mock.ExpectRollback()

	err := repo.Append(context.Background(), "v1", 1, models.CreditTransaction{ID: "tx-3", Type: models.TxSpend, Amount: -150})
	shortfall, ok := models.AsInsufficientCredits(err)
	if !ok {
		t.Fatalf("expected insufficient credits, got %v", err)
	}
	if shortfall.Required != 150 || shortfall.Available != 100 {
		t.Fatalf("unexpected shortfall: %+v", shortfall)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresGetAccountNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT credits, version, created_at, updated_at FROM vendor_accounts").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"credits", "version", "created_at", "updated_at"}))

	_, err := repo.GetAccount(context.Background(), "ghost")
	if !models.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPostgresListTransactionsInOrder(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now()
	mock.ExpectQuery("FROM credit_transactions WHERE vendor_id").
		WithArgs("v1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "amount", "description", "related_trip_id", "balance_after", "created_at"}).
			AddRow("tx-1", "purchase", int64(1000), "Purchased 1000 credits", "", int64(1000), now).
			AddRow("tx-2", "spend", int64(-600), "Homepage spotlight for 3 days", "trip-1", int64(400), now))

	txs, err := repo.ListTransactions(context.Background(), "v1")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if txs[1].Type != models.TxSpend || txs[1].Amount != -600 || txs[1].RelatedTripID != "trip-1" {
		t.Fatalf("unexpected second transaction: %+v", txs[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresListTransactionsUnknownVendor(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM credit_transactions WHERE vendor_id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "amount", "description", "related_trip_id", "balance_after", "created_at"}))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := repo.ListTransactions(context.Background(), "ghost")
	if !models.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
