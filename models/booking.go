package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

// CanTransitionBooking reports whether the booking state machine allows from -> to.
func CanTransitionBooking(from, to BookingStatus) bool {
	for _, s := range bookingTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// HoldsSeats reports whether a booking in this status consumes trip inventory.
func (s BookingStatus) HoldsSeats() bool {
	return s == BookingConfirmed || s == BookingCompleted
}

type Guests struct {
	Adults   int `bson:"adults" json:"adults"`
	Children int `bson:"children" json:"children"`
}

// Count is the number of seats the party occupies.
func (g Guests) Count() int {
	return g.Adults + g.Children
}

type ContactDetails struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone" json:"phone"`
}

// PriceBreakdown records how the booking total was computed.
type PriceBreakdown struct {
	UnitPrice   int64 `bson:"unitPrice" json:"unitPrice"`
	AdultsTotal int64 `bson:"adultsTotal" json:"adultsTotal"`
	ChildTotal  int64 `bson:"childTotal" json:"childTotal"`
	Subtotal    int64 `bson:"subtotal" json:"subtotal"`
	Discount    int64 `bson:"discount" json:"discount"`
	Tax         int64 `bson:"tax" json:"tax"`
	PlatformFee int64 `bson:"platformFee" json:"platformFee"`
	Total       int64 `bson:"total" json:"total"`
}

// Booking is a user's confirmed claim on trip seats. After creation only the
// status fields and the seat-release claim change.
type Booking struct {
	ID            string         `bson:"id" json:"id"`
	TripID        string         `bson:"tripId" json:"tripId"`
	UserID        string         `bson:"userId" json:"userId"`
	VendorID      string         `bson:"vendorId" json:"vendorId"`
	ReservationID string         `bson:"reservationId" json:"reservationId"`
	Guests        Guests         `bson:"guests" json:"guests"`
	SharingType   SharingType    `bson:"sharingType,omitempty" json:"sharingType,omitempty"`
	TravelDate    string         `bson:"travelDate" json:"travelDate"`
	CouponCode    string         `bson:"couponCode,omitempty" json:"couponCode,omitempty"`
	Pricing       PriceBreakdown `bson:"pricing" json:"pricing"`
	TotalAmount   int64          `bson:"totalAmount" json:"totalAmount"`
	PaymentStatus PaymentStatus  `bson:"paymentStatus" json:"paymentStatus"`
	BookingStatus BookingStatus  `bson:"bookingStatus" json:"bookingStatus"`
	Contact       ContactDetails `bson:"contact" json:"contact"`
	SeatsReleased bool           `bson:"seatsReleased" json:"-"`
	CreatedAt     time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// CreateBookingRequest is the createBooking payload.
type CreateBookingRequest struct {
	TripID      string         `json:"tripId" binding:"required"`
	Guests      Guests         `json:"guests"`
	SharingType SharingType    `json:"sharingType"`
	TravelDate  string         `json:"travelDate"`
	CouponCode  string         `json:"couponCode"`
	Contact     ContactDetails `json:"contact"`
}

// Reservation is the token produced by a successful seat hold.
type Reservation struct {
	ID             string    `json:"id"`
	TripID         string    `json:"tripId"`
	Seats          int       `json:"seats"`
	AvailableAfter int       `json:"availableAfter"`
	CreatedAt      time.Time `json:"createdAt"`
}
