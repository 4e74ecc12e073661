package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"tripmarket/models"

	"github.com/gin-gonic/gin"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"validation", models.ValidationError{Field: "guests.adults", Msg: "at least one adult is required"}, http.StatusBadRequest, "validation_error"},
		{"invalid coupon", models.InvalidCouponError{Code: "NOPE"}, http.StatusBadRequest, "invalid_coupon"},
		{"unauthorized", models.UnauthorizedError{}, http.StatusForbidden, "forbidden"},
		{"not found", models.NotFoundError{Resource: "trip", ID: "t1"}, http.StatusNotFound, "not_found"},
		{"wrapped not found", fmt.Errorf("load: %w", models.NotFoundError{Resource: "booking"}), http.StatusNotFound, "not_found"},
		{"inventory", models.InsufficientInventoryError{TripID: "t1", Requested: 3, Available: 1}, http.StatusConflict, "insufficient_inventory"},
		{"credits", models.InsufficientCreditsError{VendorID: "v1", Required: 600, Available: 400}, http.StatusConflict, "insufficient_credits"},
		{"conflict", models.ConflictError{Resource: "trip", ID: "t1"}, http.StatusConflict, "conflict"},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tc.err)

			if w.Code != tc.want {
				t.Errorf("status = %d, want %d", w.Code, tc.want)
			}
			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["code"] != tc.code {
				t.Errorf("code = %v, want %s", body["code"], tc.code)
			}
		})
	}
}

func TestRespondErrorShortfallDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	respondError(c, models.InsufficientCreditsError{VendorID: "v1", Required: 600, Available: 400})

	var body struct {
		Details map[string]int64 `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Details["required"] != 600 || body.Details["available"] != 400 {
		t.Errorf("details = %v", body.Details)
	}
}
