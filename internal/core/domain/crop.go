package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Crop is a listing published by a farmer.
type Crop struct {
	ID          string     `json:"_id"`
	CropType    string     `json:"crop_type"`
	Quantity    float64    `json:"quantity"`
	Price       float64    `json:"price"`
	Location    string     `json:"location"`
	HarvestDate string     `json:"harvest_date"`
	OwnerID     string     `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// CropPatch is a partial update. Nil fields are left untouched; fields outside
// this struct cannot be changed.
type CropPatch struct {
	CropType    *string  `json:"crop_type"`
	Quantity    *float64 `json:"quantity"`
	Price       *float64 `json:"price"`
	Location    *string  `json:"location"`
	HarvestDate *string  `json:"harvest_date"`
}

// IsEmpty reports whether the patch carries no field at all.
func (p CropPatch) IsEmpty() bool {
	return p.CropType == nil && p.Quantity == nil && p.Price == nil &&
		p.Location == nil && p.HarvestDate == nil
}

// Apply copies the set fields of p onto c.
func (p CropPatch) Apply(c *Crop) {
	if p.CropType != nil {
		c.CropType = *p.CropType
	}
	if p.Quantity != nil {
		c.Quantity = *p.Quantity
	}
	if p.Price != nil {
		c.Price = *p.Price
	}
	if p.Location != nil {
		c.Location = *p.Location
	}
	if p.HarvestDate != nil {
		c.HarvestDate = *p.HarvestDate
	}
}

// MarketplaceListing is a crop joined with its owner's public profile.
type MarketplaceListing struct {
	Crop
	Farmer FarmerProfile `json:"farmer"`
}

// MarketplaceFilter narrows the public marketplace. Zero values mean "no filter".
type MarketplaceFilter struct {
	CropType string
	Location string
	MinPrice *float64
	MaxPrice *float64
}

// Key returns a stable, normalized representation of the filter, used as a
// cache key. Filters that match the same listings produce the same key.
func (f MarketplaceFilter) Key() string {
	bound := func(v *float64) string {
		if v == nil {
			return "-"
		}
		return strconv.FormatFloat(*v, 'g', -1, 64)
	}
	return fmt.Sprintf("type=%s|loc=%s|min=%s|max=%s",
		strings.ToLower(f.CropType),
		strings.ToLower(f.Location),
		bound(f.MinPrice),
		bound(f.MaxPrice),
	)
}

// Matches applies the filter in memory with the same semantics the store uses.
func (f MarketplaceFilter) Matches(c Crop) bool {
	if f.CropType != "" && !strings.Contains(strings.ToLower(c.CropType), strings.ToLower(f.CropType)) {
		return false
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(c.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.MinPrice != nil && c.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && c.Price > *f.MaxPrice {
		return false
	}
	return true
}
