package coupon

import (
	"testing"
	"time"

	"snackshop/internal/models"

	"github.com/stretchr/testify/assert"
)

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }
func ptrT(v time.Time) *time.Time {
	return &v
}

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func welcome20() *models.Coupon {
	return &models.Coupon{
		Code:                  "WELCOME20",
		DiscountType:          models.DiscountPercentage,
		DiscountValue:         20,
		MinimumOrderAmount:    500,
		MaximumDiscountAmount: ptrF(200),
		IsActive:              true,
		ValidFrom:             now.Add(-24 * time.Hour),
	}
}

func save50() *models.Coupon {
	return &models.Coupon{
		Code:               "SAVE50",
		DiscountType:       models.DiscountFixed,
		DiscountValue:      50,
		MinimumOrderAmount: 300,
		IsActive:           true,
		ValidFrom:          now.Add(-24 * time.Hour),
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		coupon      *models.Coupon
		orderAmount float64
		wantValid   bool
		wantReason  string
	}{
		{
			name:        "valid percentage coupon",
			coupon:      welcome20(),
			orderAmount: 1000,
			wantValid:   true,
		},
		{
			name:        "valid at exact minimum",
			coupon:      welcome20(),
			orderAmount: 500,
			wantValid:   true,
		},
		{
			name:        "below minimum order amount",
			coupon:      save50(),
			orderAmount: 40,
			wantReason:  "Minimum order amount is 300",
		},
		{
			name: "inactive",
			coupon: func() *models.Coupon {
				c := welcome20()
				c.IsActive = false
				return c
			}(),
			orderAmount: 1000,
			wantReason:  ReasonNotActive,
		},
		{
			name: "not yet valid",
			coupon: func() *models.Coupon {
				c := welcome20()
				c.ValidFrom = now.Add(time.Hour)
				return c
			}(),
			orderAmount: 1000,
			wantReason:  ReasonNotYetValid,
		},
		{
			name: "expired",
			coupon: func() *models.Coupon {
				c := welcome20()
				c.ValidUntil = ptrT(now.Add(-time.Minute))
				return c
			}(),
			orderAmount: 1000,
			wantReason:  ReasonExpired,
		},
		{
			name: "valid exactly at validUntil",
			coupon: func() *models.Coupon {
				c := welcome20()
				c.ValidUntil = ptrT(now)
				return c
			}(),
			orderAmount: 1000,
			wantValid:   true,
		},
		{
			name: "usage limit reached",
			coupon: func() *models.Coupon {
				c := welcome20()
				c.UsageLimit = ptrI(1)
				c.UsedCount = 1
				return c
			}(),
			orderAmount: 1000,
			wantReason:  ReasonLimitReached,
		},
		{
			name: "one use left",
			coupon: func() *models.Coupon {
				c := welcome20()
				c.UsageLimit = ptrI(5)
				c.UsedCount = 4
				return c
			}(),
			orderAmount: 1000,
			wantValid:   true,
		},
		{
			name: "inactive wins over expired",
			coupon: func() *models.Coupon {
				c := welcome20()
				c.IsActive = false
				c.ValidUntil = ptrT(now.Add(-time.Hour))
				return c
			}(),
			orderAmount: 1000,
			wantReason:  ReasonNotActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.coupon, tt.orderAmount, now)
			assert.Equal(t, tt.wantValid, result.Valid)
			assert.Equal(t, tt.wantReason, result.Reason)
		})
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	c := welcome20()
	first := Validate(c, 1000, now)
	second := Validate(c, 1000, now)
	assert.Equal(t, first, second)
	assert.Zero(t, c.UsedCount)
}

func TestDiscount(t *testing.T) {
	tests := []struct {
		name        string
		coupon      *models.Coupon
		orderAmount float64
		want        float64
	}{
		{
			name:        "percentage capped at maximum",
			coupon:      welcome20(), // 20% of 1500 = 300, cap 200
			orderAmount: 1500,
			want:        200,
		},
		{
			name:        "percentage below cap",
			coupon:      welcome20(), // 20% of 600 = 120
			orderAmount: 600,
			want:        120,
		},
		{
			name:        "percentage exactly at cap",
			coupon:      welcome20(), // 20% of 1000 = 200
			orderAmount: 1000,
			want:        200,
		},
		{
			name: "uncapped percentage",
			coupon: func() *models.Coupon {
				c := welcome20()
				c.MaximumDiscountAmount = nil
				return c
			}(),
			orderAmount: 5000,
			want:        1000,
		},
		{
			name:        "fixed discount",
			coupon:      save50(),
			orderAmount: 400,
			want:        50,
		},
		{
			name:        "fixed discount never exceeds order amount",
			coupon:      save50(),
			orderAmount: 30,
			want:        30,
		},
		{
			name: "unknown type discounts nothing",
			coupon: &models.Coupon{
				DiscountType:  "bogo",
				DiscountValue: 50,
			},
			orderAmount: 1000,
			want:        0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Discount(tt.coupon, tt.orderAmount), 1e-9)
		})
	}
}
