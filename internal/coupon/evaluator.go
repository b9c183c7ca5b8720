// Package coupon holds the pure discount rules: deciding whether a coupon
// applies to an order amount at a point in time, and how much it takes off.
// Nothing here touches storage; lookup and redemption live in the store.
package coupon

import (
	"fmt"
	"time"

	"snackshop/internal/models"
)

// Rejection reasons surfaced to the customer.
const (
	ReasonNotFound     = "Coupon not found"
	ReasonNotActive    = "Coupon is not active"
	ReasonNotYetValid  = "Coupon is not yet valid"
	ReasonExpired      = "Coupon has expired"
	ReasonLimitReached = "Coupon usage limit reached"
)

// Result is the outcome of a validation check. Rejections are data, not
// errors: the checkout flow decides whether to abort on them.
type Result struct {
	Valid  bool
	Reason string
}

// Validate runs the eligibility checks in order, short-circuiting on the
// first failure. It has no side effects; calling it repeatedly with the
// same inputs yields the same result.
func Validate(c *models.Coupon, orderAmount float64, now time.Time) Result {
	if !c.IsActive {
		return Result{Reason: ReasonNotActive}
	}
	if now.Before(c.ValidFrom) {
		return Result{Reason: ReasonNotYetValid}
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return Result{Reason: ReasonExpired}
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return Result{Reason: ReasonLimitReached}
	}
	if orderAmount < c.MinimumOrderAmount {
		return Result{Reason: fmt.Sprintf("Minimum order amount is %g", c.MinimumOrderAmount)}
	}
	return Result{Valid: true}
}

// Discount computes the discount for an order amount.
//
// Percentage discounts take discountValue% of the amount, capped at
// MaximumDiscountAmount when set; an uncapped percentage is allowed to be
// arbitrarily large. Fixed discounts never exceed the order amount, so the
// net total floors at zero. The result is not rounded here; callers round
// to currency precision at persistence and display.
func Discount(c *models.Coupon, orderAmount float64) float64 {
	switch c.DiscountType {
	case models.DiscountPercentage:
		discount := orderAmount * c.DiscountValue / 100
		if c.MaximumDiscountAmount != nil && discount > *c.MaximumDiscountAmount {
			discount = *c.MaximumDiscountAmount
		}
		return discount
	case models.DiscountFixed:
		if c.DiscountValue > orderAmount {
			return orderAmount
		}
		return c.DiscountValue
	default:
		return 0
	}
}
