package models

import (
	"fmt"
	"strings"
	"time"
)

type PromotionType string

const (
	HomepageSpotlightType PromotionType = "homepage_spotlight"
	EmailCampaignType     PromotionType = "email_campaign"
	SocialBoostType       PromotionType = "social_boost"
)

type PromotionStatus string

const (
	PromotionActive    PromotionStatus = "active"
	PromotionCancelled PromotionStatus = "cancelled"
	PromotionExpired   PromotionStatus = "expired"
)

const (
	SpotlightCostPerDay   int64 = 200
	EmailCampaignCost     int64 = 50
	SocialBoostCost       int64 = 25
	SpotlightMinDays            = 1
	SpotlightMaxDays            = 30
	OneTimePromotionDays        = 30
)

// PromotionOption is a purchasable promotion. The set of implementations is
// closed: HomepageSpotlight, EmailCampaign and SocialBoost.
type PromotionOption interface {
	Type() PromotionType
	// Cost is the credit price of the whole promotion.
	Cost() int64
	// Days is the length of the promotion window.
	Days() int
	promotionOption()
}

// HomepageSpotlight is billed per day for the requested number of days.
type HomepageSpotlight struct {
	Duration int
}

func (h HomepageSpotlight) Type() PromotionType { return HomepageSpotlightType }
func (h HomepageSpotlight) Cost() int64         { return SpotlightCostPerDay * int64(h.Duration) }
func (h HomepageSpotlight) Days() int           { return h.Duration }
func (HomepageSpotlight) promotionOption()      {}

// EmailCampaign is a one-time charge with a fixed validity window.
type EmailCampaign struct{}

func (EmailCampaign) Type() PromotionType { return EmailCampaignType }
func (EmailCampaign) Cost() int64         { return EmailCampaignCost }
func (EmailCampaign) Days() int           { return OneTimePromotionDays }
func (EmailCampaign) promotionOption()    {}

// SocialBoost is a one-time charge with a fixed validity window.
type SocialBoost struct{}

func (SocialBoost) Type() PromotionType { return SocialBoostType }
func (SocialBoost) Cost() int64         { return SocialBoostCost }
func (SocialBoost) Days() int           { return OneTimePromotionDays }
func (SocialBoost) promotionOption()    {}

// ParsePromotionOption builds a catalog entry from its wire form. duration is
// only read for homepage_spotlight, where nil means one day.
func ParsePromotionOption(kind string, duration *int) (PromotionOption, error) {
	switch PromotionType(strings.ToLower(strings.TrimSpace(kind))) {
	case HomepageSpotlightType:
		days := SpotlightMinDays
		if duration != nil {
			days = *duration
		}
		if days < SpotlightMinDays || days > SpotlightMaxDays {
			return nil, ValidationError{
				Field: "duration",
				Msg:   fmt.Sprintf("must be between %d and %d days", SpotlightMinDays, SpotlightMaxDays),
			}
		}
		return HomepageSpotlight{Duration: days}, nil
	case EmailCampaignType:
		return EmailCampaign{}, nil
	case SocialBoostType:
		return SocialBoost{}, nil
	}
	return nil, ValidationError{Field: "type", Msg: fmt.Sprintf("unknown promotion type %q", kind)}
}

// PromotionWindow returns [now, now+days) for an option.
func PromotionWindow(opt PromotionOption, now time.Time) (time.Time, time.Time) {
	return now, now.AddDate(0, 0, opt.Days())
}

// Promotion is a purchased promotion embedded in its trip.
type Promotion struct {
	ID           string          `bson:"id" json:"id"`
	TripID       string          `bson:"tripId" json:"tripId"`
	Type         PromotionType   `bson:"type" json:"type"`
	StartDate    time.Time       `bson:"startDate" json:"startDate"`
	EndDate      time.Time       `bson:"endDate" json:"endDate"`
	CreditsSpent int64           `bson:"creditsSpent" json:"creditsSpent"`
	Status       PromotionStatus `bson:"status" json:"status"`
	CreatedAt    time.Time       `bson:"createdAt" json:"createdAt"`
}

// IsActiveAt reports whether the promotion is live at t. An active promotion
// past its end date counts as expired even before the expiry task runs.
func (p *Promotion) IsActiveAt(t time.Time) bool {
	return p.Status == PromotionActive && t.Before(p.EndDate)
}

// PromoteTripRequest is the vendor payload for buying a promotion.
type PromoteTripRequest struct {
	TripID   string `json:"tripId" binding:"required"`
	Type     string `json:"type" binding:"required"`
	Duration *int   `json:"duration,omitempty"`
}

// TripPromotions groups a trip with its live promotions.
type TripPromotions struct {
	TripID      string      `json:"tripId"`
	Title       string      `json:"title"`
	Destination string      `json:"destination"`
	Promotions  []Promotion `json:"promotions"`
}
