package models

import (
	"strings"
	"time"
)

type TripStatus string

const (
	TripDraft     TripStatus = "DRAFT"
	TripPending   TripStatus = "PENDING"
	TripPublished TripStatus = "PUBLISHED"
	TripCompleted TripStatus = "COMPLETED"
	TripCancelled TripStatus = "CANCELLED"
)

// tripTransitions lists the status moves a vendor may make.
var tripTransitions = map[TripStatus][]TripStatus{
	TripDraft:     {TripPending, TripPublished, TripCancelled},
	TripPending:   {TripPublished, TripDraft, TripCancelled},
	TripPublished: {TripCompleted, TripCancelled},
}

// CanTransitionTrip reports whether a trip may move from one status to another.
func CanTransitionTrip(from, to TripStatus) bool {
	for _, s := range tripTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func ParseTripStatus(s string) (TripStatus, bool) {
	switch st := TripStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case TripDraft, TripPending, TripPublished, TripCompleted, TripCancelled:
		return st, true
	}
	return "", false
}

type SharingType string

const (
	SharingSingle SharingType = "single"
	SharingDouble SharingType = "double"
	SharingTriple SharingType = "triple"
	SharingQuad   SharingType = "quad"
)

// SharingPrices is the per-person price for each room-sharing arrangement.
// A zero entry falls back to the trip base price.
type SharingPrices struct {
	Single int64 `bson:"single" json:"single"`
	Double int64 `bson:"double" json:"double"`
	Triple int64 `bson:"triple" json:"triple"`
	Quad   int64 `bson:"quad" json:"quad"`
}

// Trip is a vendor's bookable itinerary. AvailableSeats and Version are owned by
// the inventory ledger; Promotions, PromotionsVersion and IsPromoted by the
// promotion engine.
type Trip struct {
	ID                string        `bson:"id" json:"id"`
	VendorID          string        `bson:"vendorId" json:"vendorId"`
	Title             string        `bson:"title" json:"title"`
	Destination       string        `bson:"destination" json:"destination"`
	BasePrice         int64         `bson:"basePrice" json:"basePrice"`
	SharingPrices     SharingPrices `bson:"sharingPrices" json:"sharingPrices"`
	TotalSeats        int           `bson:"totalSeats" json:"totalSeats"`
	AvailableSeats    int           `bson:"availableSeats" json:"availableSeats"`
	Status            TripStatus    `bson:"status" json:"status"`
	StartDate         time.Time     `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate           time.Time     `bson:"endDate,omitempty" json:"endDate,omitempty"`
	IsPromoted        bool          `bson:"isPromoted" json:"isPromoted"`
	Promotions        []Promotion   `bson:"promotions" json:"promotions"`
	Version           int           `bson:"version" json:"-"`
	PromotionsVersion int           `bson:"promotionsVersion" json:"-"`
	CreatedAt         time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// PriceFor returns the per-person price for a sharing type. An empty sharing
// type means the base price; an unknown one is rejected.
func (t *Trip) PriceFor(sharing SharingType) (int64, bool) {
	var p int64
	switch sharing {
	case "":
		return t.BasePrice, true
	case SharingSingle:
		p = t.SharingPrices.Single
	case SharingDouble:
		p = t.SharingPrices.Double
	case SharingTriple:
		p = t.SharingPrices.Triple
	case SharingQuad:
		p = t.SharingPrices.Quad
	default:
		return 0, false
	}
	if p <= 0 {
		return t.BasePrice, true
	}
	return p, true
}

// HasActivePromotion reports whether any promotion is live at now.
func (t *Trip) HasActivePromotion(now time.Time) bool {
	for i := range t.Promotions {
		if t.Promotions[i].IsActiveAt(now) {
			return true
		}
	}
	return false
}

// RecomputePromoted derives IsPromoted from the promotion list.
func (t *Trip) RecomputePromoted(now time.Time) {
	t.IsPromoted = t.HasActivePromotion(now)
}

// ExpireLapsed marks active promotions whose window has closed as expired,
// recomputes IsPromoted and reports whether anything changed.
func (t *Trip) ExpireLapsed(now time.Time) bool {
	changed := false
	for i := range t.Promotions {
		p := &t.Promotions[i]
		if p.Status == PromotionActive && !p.IsActiveAt(now) {
			p.Status = PromotionExpired
			changed = true
		}
	}
	before := t.IsPromoted
	t.RecomputePromoted(now)
	return changed || before != t.IsPromoted
}

// CreateTripRequest is the vendor payload for a new trip.
type CreateTripRequest struct {
	Title         string        `json:"title"`
	Destination   string        `json:"destination" binding:"required"`
	BasePrice     int64         `json:"basePrice"`
	SharingPrices SharingPrices `json:"sharingPrices"`
	TotalSeats    int           `json:"totalSeats"`
	StartDate     time.Time     `json:"startDate"`
	EndDate       time.Time     `json:"endDate"`
}
