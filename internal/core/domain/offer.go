package domain

import "time"

// Offer is a trader's bid on a crop. TraderName and TraderPhone are a snapshot
// of the trader profile taken at creation and are never refreshed.
//
// Offers survive deletion of their crop; an offer whose CropID no longer
// resolves is a valid state.
type Offer struct {
	ID           string     `json:"_id"`
	CropID       string     `json:"crop_id"`
	TraderID     string     `json:"trader_id"`
	OfferedPrice float64    `json:"offered_price"`
	TraderName   string     `json:"trader_name"`
	TraderPhone  string     `json:"trader_phone"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// TraderOffer is an offer joined with its parent crop. Crop is nil when the
// crop has been deleted.
type TraderOffer struct {
	Offer
	Crop *Crop `json:"crop"`
}
