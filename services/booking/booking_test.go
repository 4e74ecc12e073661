package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	memoryRepo "tripmarket/database/repository/memory"
	"tripmarket/models"
	"tripmarket/services/coupon"
	"tripmarket/services/inventory"
	"tripmarket/services/pricing"
)

type fixture struct {
	trips    *memoryRepo.TripStore
	bookings *memoryRepo.BookingStore
	coupons  *coupon.DefaultCouponEvaluator
	svc      *DefaultBookingService
}

func newFixture(t *testing.T, singleUse bool) *fixture {
	t.Helper()
	f := &fixture{
		trips:    memoryRepo.NewTripStore(),
		bookings: memoryRepo.NewBookingStore(),
		coupons:  coupon.NewCouponEvaluator(coupon.DefaultRules, singleUse, coupon.NewMemoryRedemptionStore(), nil),
	}
	f.svc = NewBookingService(
		f.trips,
		f.bookings,
		inventory.NewInventoryLedger(f.trips, 3, nil),
		f.coupons,
		pricing.NewCalculator(99),
		3,
		nil,
	)

	ctx := context.Background()
	for _, trip := range []*models.Trip{
		{
			ID: "trip-1", VendorID: "vendor-1", Title: "Spiti Valley", Destination: "Spiti",
			BasePrice: 24999, SharingPrices: models.SharingPrices{Double: 24999},
			TotalSeats: 20, AvailableSeats: 20, Status: models.TripPublished,
		},
		{
			ID: "draft", VendorID: "vendor-1", Destination: "Goa",
			BasePrice: 9999, TotalSeats: 10, AvailableSeats: 10, Status: models.TripDraft,
		},
	} {
		if err := f.trips.Create(ctx, trip); err != nil {
			t.Fatalf("seed trip: %v", err)
		}
	}
	return f
}

func (f *fixture) seats(t *testing.T) int {
	t.Helper()
	trip, err := f.trips.GetByID(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("get trip: %v", err)
	}
	return trip.AvailableSeats
}

func request(adults, children int, code string) models.CreateBookingRequest {
	return models.CreateBookingRequest{
		TripID:      "trip-1",
		Guests:      models.Guests{Adults: adults, Children: children},
		SharingType: models.SharingDouble,
		TravelDate:  "2026-05-10",
		CouponCode:  code,
		Contact:     models.ContactDetails{Name: "Asha", Email: "asha@example.com"},
	}
}

func TestBookAndCancelRestoresSeats(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	b, err := f.svc.CreateBooking(ctx, "user-1", request(3, 2, ""))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.BookingStatus != models.BookingConfirmed || b.PaymentStatus != models.PaymentCompleted {
		t.Fatalf("unexpected statuses: %s/%s", b.BookingStatus, b.PaymentStatus)
	}
	if got := f.seats(t); got != 15 {
		t.Fatalf("expected 15 seats after booking, got %d", got)
	}

	cancelled, err := f.svc.CancelBooking(ctx, b.ID, "user-1")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.BookingStatus != models.BookingCancelled || cancelled.PaymentStatus != models.PaymentRefunded {
		t.Fatalf("unexpected statuses after cancel: %s/%s", cancelled.BookingStatus, cancelled.PaymentStatus)
	}
	if got := f.seats(t); got != 20 {
		t.Fatalf("expected 20 seats after cancel, got %d", got)
	}

	if _, err := f.svc.CancelBooking(ctx, b.ID, "user-1"); err != nil {
		t.Fatalf("repeat cancel: %v", err)
	}
	if got := f.seats(t); got != 20 {
		t.Fatalf("repeat cancel released seats again: %d", got)
	}
}

func TestCreateBookingWithGENZ20(t *testing.T) {
	f := newFixture(t, false)
	b, err := f.svc.CreateBooking(context.Background(), "user-1", request(2, 0, "genz20"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Pricing.Subtotal != 49998 || b.Pricing.Discount != 10000 || b.Pricing.Tax != 7200 {
		t.Fatalf("unexpected pricing: %+v", b.Pricing)
	}
	if b.TotalAmount != 47297 || b.CouponCode != "GENZ20" {
		t.Fatalf("unexpected total %d / code %q", b.TotalAmount, b.CouponCode)
	}
}

func TestCreateBookingInsufficientSeats(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.svc.CreateBooking(context.Background(), "user-1", request(15, 6, ""))
	short, ok := models.AsInsufficientInventory(err)
	if !ok || short.Requested != 21 || short.Available != 20 {
		t.Fatalf("expected shortfall 21/20, got %v", err)
	}
	if got := f.seats(t); got != 20 {
		t.Fatalf("seats changed on rejected booking: %d", got)
	}
	if list, _ := f.bookings.ListByTrip(context.Background(), "trip-1"); len(list) != 0 {
		t.Fatalf("rejected booking was stored")
	}
}

func TestCreateBookingRejectsBeforeReserving(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	draft := request(1, 0, "")
	draft.TripID = "draft"
	if _, err := f.svc.CreateBooking(ctx, "user-1", draft); !models.IsNotFound(err) {
		t.Fatalf("unpublished trip: expected not found, got %v", err)
	}

	missing := request(1, 0, "")
	missing.TripID = "missing"
	if _, err := f.svc.CreateBooking(ctx, "user-1", missing); !models.IsNotFound(err) {
		t.Fatalf("missing trip: expected not found, got %v", err)
	}

	if _, err := f.svc.CreateBooking(ctx, "user-1", request(0, 2, "")); !models.IsValidation(err) {
		t.Fatalf("no adults: expected validation error, got %v", err)
	}

	badSharing := request(1, 0, "")
	badSharing.SharingType = "dorm"
	if _, err := f.svc.CreateBooking(ctx, "user-1", badSharing); !models.IsValidation(err) {
		t.Fatalf("bad sharing type: expected validation error, got %v", err)
	}

	if got := f.seats(t); got != 20 {
		t.Fatalf("rejected requests changed seats: %d", got)
	}
}

func TestInvalidCouponReleasesReservation(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.svc.CreateBooking(context.Background(), "user-1", request(2, 0, "NOTREAL"))
	if !models.IsInvalidCoupon(err) {
		t.Fatalf("expected invalid coupon, got %v", err)
	}
	if got := f.seats(t); got != 20 {
		t.Fatalf("reservation leaked: %d seats", got)
	}
}

// failingBookings cannot store bookings.
type failingBookings struct {
	*memoryRepo.BookingStore
	block bool
}

func (f failingBookings) Create(ctx context.Context, _ *models.Booking) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return errors.New("disk full")
}

func TestStoreFailureReleasesReservationAndCoupon(t *testing.T) {
	f := newFixture(t, true)
	f.svc.Bookings = failingBookings{BookingStore: f.bookings}
	ctx := context.Background()

	if _, err := f.svc.CreateBooking(ctx, "user-1", request(4, 0, "GENZ20")); err == nil {
		t.Fatalf("expected store failure")
	}
	if got := f.seats(t); got != 20 {
		t.Fatalf("reservation leaked: %d seats", got)
	}
	if err := f.coupons.Redeem(ctx, "GENZ20", "user-1"); err != nil {
		t.Fatalf("coupon should be redeemable again: %v", err)
	}
}

func TestTimedOutBookingStillReleases(t *testing.T) {
	f := newFixture(t, false)
	f.svc.Bookings = failingBookings{BookingStore: f.bookings, block: true}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := f.svc.CreateBooking(ctx, "user-1", request(2, 0, ""))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if got := f.seats(t); got != 20 {
		t.Fatalf("timed-out booking leaked seats: %d", got)
	}
}

func TestSingleUseCouponPerUser(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	if _, err := f.svc.CreateBooking(ctx, "user-1", request(1, 0, "GENZ20")); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := f.svc.CreateBooking(ctx, "user-1", request(1, 0, "GENZ20")); !models.IsInvalidCoupon(err) {
		t.Fatalf("expected reused coupon to be rejected, got %v", err)
	}
	if got := f.seats(t); got != 19 {
		t.Fatalf("expected 19 seats, got %d", got)
	}
}

func TestConcurrentCancelReleasesOnce(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	b, err := f.svc.CreateBooking(ctx, "user-1", request(5, 0, ""))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.CancelBooking(ctx, b.ID, "user-1"); err != nil {
				t.Errorf("cancel: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := f.seats(t); got != 20 {
		t.Fatalf("expected exactly 5 seats back (20), got %d", got)
	}
}

func TestSeatAccountingAcrossBookings(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	var kept []*models.Booking
	for i, party := range []int{2, 3, 4, 1} {
		b, err := f.svc.CreateBooking(ctx, "user-1", request(party, 0, ""))
		if err != nil {
			t.Fatalf("booking %d: %v", i, err)
		}
		kept = append(kept, b)
	}
	if _, err := f.svc.CancelBooking(ctx, kept[1].ID, "user-1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	all, _ := f.bookings.ListByTrip(ctx, "trip-1")
	held := 0
	for _, b := range all {
		if b.BookingStatus.HoldsSeats() {
			held += b.Guests.Count()
		}
	}
	if got := f.seats(t); got != 20-held || held != 7 {
		t.Fatalf("available %d does not match 20 - %d held", got, held)
	}
}

func TestCancelAuthorization(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	b, _ := f.svc.CreateBooking(ctx, "user-1", request(1, 0, ""))

	if _, err := f.svc.CancelBooking(ctx, b.ID, "user-2"); !models.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := f.svc.CancelBooking(ctx, b.ID, "vendor-1"); err != nil {
		t.Fatalf("vendor cancel: %v", err)
	}
	if _, err := f.svc.CancelBooking(ctx, "missing", "user-1"); !models.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPendingBookingLifecycle(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	pending := &models.Booking{
		ID: "b-pending", TripID: "trip-1", UserID: "user-1", VendorID: "vendor-1",
		Guests:        models.Guests{Adults: 2},
		BookingStatus: models.BookingPending, PaymentStatus: models.PaymentPending,
	}
	if err := f.bookings.Create(ctx, pending); err != nil {
		t.Fatalf("seed: %v", err)
	}

	confirmed, err := f.svc.ConfirmBooking(ctx, pending.ID, "user-1")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.BookingStatus != models.BookingConfirmed || f.seats(t) != 18 {
		t.Fatalf("confirm did not reserve: %s, %d seats", confirmed.BookingStatus, f.seats(t))
	}

	completed, err := f.svc.CompleteBooking(ctx, pending.ID, "vendor-1")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.BookingStatus != models.BookingCompleted {
		t.Fatalf("expected COMPLETED, got %s", completed.BookingStatus)
	}
	if _, err := f.svc.CancelBooking(ctx, pending.ID, "user-1"); !models.IsValidation(err) {
		t.Fatalf("completed booking should not cancel, got %v", err)
	}
}

func TestCancelPendingBookingKeepsSeats(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	pending := &models.Booking{
		ID: "b-pending", TripID: "trip-1", UserID: "user-1", VendorID: "vendor-1",
		Guests:        models.Guests{Adults: 2},
		BookingStatus: models.BookingPending, PaymentStatus: models.PaymentPending,
	}
	f.bookings.Create(ctx, pending)

	cancelled, err := f.svc.CancelBooking(ctx, pending.ID, "user-1")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.BookingStatus != models.BookingCancelled || f.seats(t) != 20 {
		t.Fatalf("pending cancel changed seats: %d", f.seats(t))
	}
}

func TestCompleteRequiresVendor(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	b, _ := f.svc.CreateBooking(ctx, "user-1", request(1, 0, ""))

	if _, err := f.svc.CompleteBooking(ctx, b.ID, "user-1"); !models.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
