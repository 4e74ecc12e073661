package memoryRepo

import (
	"context"
	"testing"

	"tripmarket/models"
)

func TestTripStoreSeatGuards(t *testing.T) {
	ctx := context.Background()
	s := NewTripStore()
	if err := s.Create(ctx, &models.Trip{ID: "t1", TotalSeats: 10, AvailableSeats: 10, Status: models.TripPublished}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.UpdateSeats(ctx, "t1", 0, 7); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := s.UpdateSeats(ctx, "t1", 0, 5); !models.IsConflict(err) {
		t.Fatalf("stale version: got %v, want conflict", err)
	}
	if err := s.UpdateSeats(ctx, "t1", 1, 11); !models.IsConflict(err) {
		t.Fatalf("above capacity: got %v, want conflict", err)
	}
	if err := s.UpdateSeats(ctx, "missing", 0, 1); !models.IsNotFound(err) {
		t.Fatalf("missing trip: got %v, want not found", err)
	}

	got, _ := s.GetByID(ctx, "t1")
	if got.AvailableSeats != 7 || got.Version != 1 {
		t.Fatalf("trip = %d seats v%d, want 7 seats v1", got.AvailableSeats, got.Version)
	}

	got.AvailableSeats = 0
	if again, _ := s.GetByID(ctx, "t1"); again.AvailableSeats != 7 {
		t.Fatalf("GetByID returned shared state")
	}
}

func TestTripStoreListPromoted(t *testing.T) {
	ctx := context.Background()
	s := NewTripStore()
	for _, trip := range []*models.Trip{
		{ID: "a", VendorID: "v1"},
		{ID: "b", VendorID: "v1"},
		{ID: "c", VendorID: "v2"},
	} {
		if err := s.Create(ctx, trip); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := s.ReplacePromotions(ctx, "b", 0, []models.Promotion{{ID: "p1", Status: models.PromotionActive}}, true); err != nil {
		t.Fatalf("replace promotions: %v", err)
	}
	if err := s.ReplacePromotions(ctx, "b", 0, nil, false); !models.IsConflict(err) {
		t.Fatalf("stale promotions version: got %v, want conflict", err)
	}

	promoted, _ := s.ListPromoted(ctx)
	if len(promoted) != 1 || promoted[0].ID != "b" {
		t.Fatalf("promoted = %+v, want only b", promoted)
	}
	mine, _ := s.ListByVendor(ctx, "v1")
	if len(mine) != 2 {
		t.Fatalf("vendor v1 has %d trips, want 2", len(mine))
	}
}

func TestAccountStoreAppend(t *testing.T) {
	ctx := context.Background()
	s := NewAccountStore()

	if err := s.Append(ctx, "v1", 0, models.CreditTransaction{ID: "x", Amount: -10}); err == nil {
		t.Fatalf("negative opening balance accepted")
	}
	if _, err := s.GetAccount(ctx, "v1"); !models.IsNotFound(err) {
		t.Fatalf("failed create left an account behind: %v", err)
	}

	if err := s.Append(ctx, "v1", 0, models.CreditTransaction{ID: "t1", Amount: 200}); err != nil {
		t.Fatalf("open account: %v", err)
	}
	if err := s.Append(ctx, "v1", 0, models.CreditTransaction{ID: "t2", Amount: 5}); !models.IsConflict(err) {
		t.Fatalf("second create: got %v, want conflict", err)
	}
	if err := s.Append(ctx, "v1", 1, models.CreditTransaction{ID: "t3", Amount: -250}); err == nil {
		t.Fatalf("overdraft accepted")
	}
	if err := s.Append(ctx, "v1", 1, models.CreditTransaction{ID: "t4", Amount: -150}); err != nil {
		t.Fatalf("spend: %v", err)
	}

	acct, _ := s.GetAccount(ctx, "v1")
	history, _ := s.ListTransactions(ctx, "v1")
	if acct.Credits != 50 || len(history) != 2 {
		t.Fatalf("credits %d with %d transactions, want 50 with 2", acct.Credits, len(history))
	}
}
