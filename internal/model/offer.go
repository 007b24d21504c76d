package model

import "time"

// Discount types an offer can carry. The discount fields present on an
// offer are expected to match its type, but the schema stays lenient:
// only ranges are checked, never cross-field consistency.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
	DiscountBonus      = "bonus"
)

// IsDiscountType reports whether t is a known discount type.
func IsDiscountType(t string) bool {
	return t == DiscountPercentage || t == DiscountFixed || t == DiscountBonus
}

// Offer represents a row in the `offers` table. Code is unique and stored
// upper-cased. MaxRedemptions of zero means unlimited.
type Offer struct {
	ID              uint64    `json:"id"`
	Name            string    `json:"name"`
	Code            string    `json:"code"`
	DiscountType    string    `json:"discount_type"`
	DiscountPercent float64   `json:"discount_percent"`
	DiscountAmount  float64   `json:"discount_amount"`
	BonusPoints     uint32    `json:"bonus_points"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	IsActive        bool      `json:"is_active"`
	MaxRedemptions  uint32    `json:"max_redemptions"`
	RedeemedCount   uint32    `json:"redeemed_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
