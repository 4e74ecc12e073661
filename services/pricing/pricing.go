// Package pricing computes booking totals. Every fractional step rounds half
// away from zero to whole currency units.
package pricing

import (
	"math"

	"tripmarket/models"
)

const (
	ChildFareRate = 0.75
	TaxRate       = 0.18
)

// Calculator quotes bookings with a fixed platform fee.
type Calculator struct {
	PlatformFee int64
}

func NewCalculator(platformFee int64) *Calculator {
	return &Calculator{PlatformFee: platformFee}
}

func roundUnits(v float64) int64 {
	return int64(math.Round(v))
}

// Quote prices a party on a trip. discount may be nil.
func (c *Calculator) Quote(trip *models.Trip, guests models.Guests, sharing models.SharingType, discount *models.Discount) (models.PriceBreakdown, error) {
	unit, ok := trip.PriceFor(sharing)
	if !ok {
		return models.PriceBreakdown{}, models.ValidationError{Field: "sharingType", Msg: "must be one of single, double, triple, quad"}
	}

	var p models.PriceBreakdown
	p.UnitPrice = unit
	p.AdultsTotal = unit * int64(guests.Adults)
	p.ChildTotal = roundUnits(float64(unit*int64(guests.Children)) * ChildFareRate)
	p.Subtotal = p.AdultsTotal + p.ChildTotal
	p.Discount = DiscountOn(p.Subtotal, discount)

	discounted := p.Subtotal - p.Discount
	p.Tax = roundUnits(float64(discounted) * TaxRate)
	p.PlatformFee = c.PlatformFee

	p.Total = discounted + p.Tax + p.PlatformFee
	if p.Total < 0 {
		p.Total = 0
	}
	return p, nil
}

// DiscountOn returns what a coupon takes off subtotal, never more than subtotal.
func DiscountOn(subtotal int64, d *models.Discount) int64 {
	if d == nil || subtotal <= 0 {
		return 0
	}
	var off int64
	switch {
	case d.PercentOff > 0:
		off = roundUnits(float64(subtotal) * float64(d.PercentOff) / 100)
	case d.AmountOff > 0:
		off = d.AmountOff
	}
	if off > subtotal {
		off = subtotal
	}
	return off
}
