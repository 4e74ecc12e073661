package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	memoryRepo "tripmarket/database/repository/memory"
	"tripmarket/handlers"
	"tripmarket/middleware"
	"tripmarket/services/booking"
	"tripmarket/services/coupon"
	"tripmarket/services/credit"
	"tripmarket/services/inventory"
	"tripmarket/services/pricing"
	"tripmarket/services/promotion"
	"tripmarket/services/trip"
	"tripmarket/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var testSecret = []byte("test-secret")

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	trips := memoryRepo.NewTripStore()
	coupons := coupon.NewCouponEvaluator(coupon.DefaultRules, false, nil, nil)
	credits := credit.NewCreditLedger(memoryRepo.NewAccountStore(), 3, nil)
	svc := handlers.Services{
		Trips:      trip.NewTripService(trips, 3, nil),
		Coupons:    coupons,
		Credits:    credits,
		Promotions: promotion.NewPromotionEngine(trips, credits, nil, 3, nil),
		Bookings: booking.NewBookingService(
			trips,
			memoryRepo.NewBookingStore(),
			inventory.NewInventoryLedger(trips, 3, nil),
			coupons,
			pricing.NewCalculator(99),
			3,
			nil,
		),
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(zap.NewNop()))
	RegisterRoutes(r, handlers.NewHandlerBundle(svc, testSecret, 1000))
	return r
}

func token(t *testing.T, subject, role string) string {
	t.Helper()
	tok, err := utils.GenerateToken(testSecret, subject, role, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return tok
}

func call(t *testing.T, r *gin.Engine, method, path, tok string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

// publishTrip creates and publishes a trip for vendor-1 and returns its id.
func publishTrip(t *testing.T, r *gin.Engine, vendorTok string, seats int) string {
	t.Helper()
	w, created := call(t, r, http.MethodPost, "/api/vendors/vendor-1/trips", vendorTok, gin.H{
		"title":       "Spiti Valley",
		"destination": "Spiti",
		"basePrice":   10000,
		"totalSeats":  seats,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create trip: status %d body %s", w.Code, w.Body.String())
	}
	tripID := created["id"].(string)

	w, _ = call(t, r, http.MethodPatch, "/api/vendors/vendor-1/trips/"+tripID+"/status", vendorTok, gin.H{"status": "published"})
	if w.Code != http.StatusOK {
		t.Fatalf("publish trip: status %d body %s", w.Code, w.Body.String())
	}
	return tripID
}

func bookingBody(tripID string, adults int) gin.H {
	return gin.H{
		"tripId":  tripID,
		"guests":  gin.H{"adults": adults, "children": 0},
		"contact": gin.H{"name": "Asha", "email": "asha@example.com"},
	}
}

func TestBookingFlowOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	vendorTok := token(t, "vendor-1", utils.RoleVendor)
	userTok := token(t, "user-1", utils.RoleUser)
	tripID := publishTrip(t, r, vendorTok, 4)

	w, created := call(t, r, http.MethodPost, "/api/bookings", userTok, bookingBody(tripID, 2))
	if w.Code != http.StatusCreated {
		t.Fatalf("create booking: status %d body %s", w.Code, w.Body.String())
	}
	if created["bookingStatus"] != "CONFIRMED" {
		t.Errorf("bookingStatus = %v, want CONFIRMED", created["bookingStatus"])
	}
	// 20000 + 18% tax + 99 fee
	if created["totalAmount"] != float64(23699) {
		t.Errorf("totalAmount = %v, want 23699", created["totalAmount"])
	}
	bookingID := created["bookingId"].(string)

	_, tripView := call(t, r, http.MethodGet, "/api/trips/"+tripID, "", nil)
	if tripView["availableSeats"] != float64(2) {
		t.Errorf("availableSeats = %v, want 2", tripView["availableSeats"])
	}

	w, errBody := call(t, r, http.MethodPost, "/api/bookings", userTok, bookingBody(tripID, 3))
	if w.Code != http.StatusConflict {
		t.Fatalf("oversized booking: status %d, want 409", w.Code)
	}
	details, _ := errBody["details"].(map[string]any)
	if details["required"] != float64(3) || details["available"] != float64(2) {
		t.Errorf("details = %v, want required 3 available 2", details)
	}

	w, _ = call(t, r, http.MethodGet, "/api/bookings/"+bookingID, token(t, "user-2", utils.RoleUser), nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("stranger read: status %d, want 403", w.Code)
	}

	for i := 0; i < 2; i++ {
		w, cancelled := call(t, r, http.MethodPost, "/api/bookings/"+bookingID+"/cancel", userTok, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("cancel #%d: status %d body %s", i+1, w.Code, w.Body.String())
		}
		if cancelled["bookingStatus"] != "CANCELLED" {
			t.Errorf("cancel #%d: bookingStatus = %v", i+1, cancelled["bookingStatus"])
		}
	}
	_, tripView = call(t, r, http.MethodGet, "/api/trips/"+tripID, "", nil)
	if tripView["availableSeats"] != float64(4) {
		t.Errorf("availableSeats after cancel = %v, want 4", tripView["availableSeats"])
	}
}

func TestPromotionFlowOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	vendorTok := token(t, "vendor-1", utils.RoleVendor)
	tripID := publishTrip(t, r, vendorTok, 10)

	w, purchased := call(t, r, http.MethodPost, "/api/vendors/vendor-1/credits/purchase", vendorTok, gin.H{"amount": 1000})
	if w.Code != http.StatusOK {
		t.Fatalf("purchase: status %d body %s", w.Code, w.Body.String())
	}
	if purchased["balance"] != float64(1000) {
		t.Errorf("balance = %v, want 1000", purchased["balance"])
	}

	w, promoted := call(t, r, http.MethodPost, "/api/vendors/vendor-1/promotions", vendorTok, gin.H{
		"tripId":   tripID,
		"type":     "homepage_spotlight",
		"duration": 3,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("promote: status %d body %s", w.Code, w.Body.String())
	}
	if promoted["remainingBalance"] != float64(400) {
		t.Errorf("remainingBalance = %v, want 400", promoted["remainingBalance"])
	}
	promo := promoted["promotion"].(map[string]any)

	w, _ = call(t, r, http.MethodGet, "/api/vendors/vendor-1/promotions/active", vendorTok, nil)
	var active []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &active); err != nil || len(active) != 1 {
		t.Fatalf("active promotions = %s, want one trip", w.Body.String())
	}

	w, _ = call(t, r, http.MethodPost, "/api/vendors/vendor-1/promotions", vendorTok, gin.H{
		"tripId":   tripID,
		"type":     "homepage_spotlight",
		"duration": 3,
	})
	if w.Code != http.StatusConflict {
		t.Errorf("second spotlight with 400 credits: status %d, want 409", w.Code)
	}

	path := "/api/vendors/vendor-1/trips/" + tripID + "/promotions/" + promo["id"].(string)
	if w, _ = call(t, r, http.MethodDelete, path, vendorTok, nil); w.Code != http.StatusOK {
		t.Fatalf("cancel promotion: status %d body %s", w.Code, w.Body.String())
	}
	_, tripView := call(t, r, http.MethodGet, "/api/trips/"+tripID, "", nil)
	if tripView["isPromoted"] != false {
		t.Errorf("isPromoted = %v after cancel, want false", tripView["isPromoted"])
	}

	w, _ = call(t, r, http.MethodGet, "/api/vendors/vendor-1/credits/history", vendorTok, nil)
	var history []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(history) != 2 || history[0]["type"] != "purchase" || history[1]["type"] != "spend" {
		t.Errorf("history = %s, want purchase then spend", w.Body.String())
	}
}

func TestVendorRoutesRequireOwnToken(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name string
		tok  string
		want int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized},
		{"user token", token(t, "user-1", utils.RoleUser), http.StatusForbidden},
		{"other vendor", token(t, "vendor-2", utils.RoleVendor), http.StatusForbidden},
		{"own vendor", token(t, "vendor-1", utils.RoleVendor), http.StatusOK},
		{"admin", token(t, "ops", utils.RoleAdmin), http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, _ := call(t, r, http.MethodGet, "/api/vendors/vendor-1/credits/balance", tc.tok, nil)
			if w.Code != tc.want {
				t.Errorf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}

func TestValidateCouponIsPublic(t *testing.T) {
	r := newTestRouter(t)

	w, body := call(t, r, http.MethodPost, "/api/coupons/validate", "", gin.H{"code": "genz20"})
	if w.Code != http.StatusOK || body["valid"] != true || body["percentOff"] != float64(20) {
		t.Errorf("GENZ20: status %d body %v", w.Code, body)
	}

	w, body = call(t, r, http.MethodPost, "/api/coupons/validate", "", gin.H{"code": "NOPE"})
	if w.Code != http.StatusOK || body["valid"] != false {
		t.Errorf("NOPE: status %d body %v", w.Code, body)
	}

	w, _ = call(t, r, http.MethodPost, "/api/coupons/validate", "", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing code: status %d, want 400", w.Code)
	}
}

func TestCreateBookingNeedsUserToken(t *testing.T) {
	r := newTestRouter(t)
	vendorTok := token(t, "vendor-1", utils.RoleVendor)
	tripID := publishTrip(t, r, vendorTok, 4)

	w, _ := call(t, r, http.MethodPost, "/api/bookings", vendorTok, bookingBody(tripID, 1))
	if w.Code != http.StatusForbidden {
		t.Errorf("vendor booking: status %d, want 403", w.Code)
	}

	w, _ = call(t, r, http.MethodPost, "/api/bookings", token(t, "user-1", utils.RoleUser), bookingBody("missing", 1))
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown trip: status %d, want 404", w.Code)
	}
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	r := newTestRouter(t)

	if w, _ := call(t, r, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Errorf("/health status = %d", w.Code)
	}
	if w, _ := call(t, r, http.MethodGet, "/metrics", "", nil); w.Code != http.StatusOK {
		t.Errorf("/metrics status = %d", w.Code)
	}
}
