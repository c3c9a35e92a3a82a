package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Coupon is a flat amount subtracted from the item subtotal before tax and
// shipping are computed.
type Coupon struct {
	ID        gocql.UUID `json:"id" db:"coupon_id"`
	Code      string     `json:"code" db:"code"`
	Amount    float64    `json:"amount" db:"amount"`
	MinAmount float64    `json:"min_amount" db:"min_amount"`
	StartsAt  time.Time  `json:"starts_at" db:"starts_at"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

type CouponValidation struct {
	IsValid      bool    `json:"is_valid"`
	ErrorMessage string  `json:"error_message,omitempty"`
	Code         string  `json:"code"`
	Discount     float64 `json:"discount"`
}

// Validate checks the coupon against the cart subtotal at a point in time.
func (cp Coupon) Validate(cartTotal float64, now time.Time) CouponValidation {
	invalid := func(msg string) CouponValidation {
		return CouponValidation{IsValid: false, ErrorMessage: msg, Code: cp.Code}
	}

	if !cp.IsActive {
		return invalid("This coupon is no longer active")
	}
	if now.Before(cp.StartsAt) {
		return invalid("This coupon is not valid yet")
	}
	if !cp.ExpiresAt.IsZero() && now.After(cp.ExpiresAt) {
		return invalid("This coupon has expired")
	}
	if cartTotal < cp.MinAmount {
		return invalid("Cart total is below the coupon minimum")
	}

	return CouponValidation{IsValid: true, Code: cp.Code, Discount: cp.Amount}
}
