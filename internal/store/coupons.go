package store

import (
	"context"
	"database/sql"
	"strings"

	"snackshop/internal/models"
)

// NormalizeCode upper-cases a coupon code; codes are matched
// case-insensitively by storing and looking them up upper-cased.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// GetCouponByCode retrieves a coupon by its normalized code, or nil when absent
func (s *Store) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := s.db.GetContext(ctx, &coupon,
		"SELECT * FROM coupons WHERE code = $1", NormalizeCode(code))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// GetCouponByID retrieves a coupon by ID, or nil when absent
func (s *Store) GetCouponByID(ctx context.Context, id string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := s.db.GetContext(ctx, &coupon, "SELECT * FROM coupons WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// GetAllCoupons retrieves every coupon, newest first
func (s *Store) GetAllCoupons(ctx context.Context) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := s.db.SelectContext(ctx, &coupons,
		"SELECT * FROM coupons ORDER BY created_at DESC")
	return coupons, err
}

// RedeemCoupon consumes one use of a coupon with a single conditional
// update: the counter only moves when the limit still has room at the
// moment of the write. Two concurrent redemptions of a coupon with one
// use left therefore cannot both succeed, even across server instances.
// Returns false when the coupon is unknown or its limit is exhausted.
func (s *Store) RedeemCoupon(ctx context.Context, code string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE coupons
		SET used_count = used_count + 1
		WHERE code = $1
		  AND (usage_limit IS NULL OR used_count < usage_limit)`,
		NormalizeCode(code))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ReleaseCouponUsage hands back a redemption reserved by RedeemCoupon,
// for checkouts that fail after the coupon step. The counter never goes
// below zero.
func (s *Store) ReleaseCouponUsage(ctx context.Context, code string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE coupons
		SET used_count = used_count - 1
		WHERE code = $1 AND used_count > 0`,
		NormalizeCode(code))
	return err
}

// CreateCoupon inserts a coupon with its code normalized
func (s *Store) CreateCoupon(ctx context.Context, c *models.Coupon) error {
	c.Code = NormalizeCode(c.Code)
	query := `
		INSERT INTO coupons (code, description, discount_type, discount_value,
		                     minimum_order_amount, maximum_discount_amount,
		                     usage_limit, is_active, valid_from, valid_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, used_count, created_at`

	row := s.db.QueryRowxContext(ctx, query,
		c.Code, c.Description, c.DiscountType, c.DiscountValue,
		c.MinimumOrderAmount, c.MaximumDiscountAmount,
		c.UsageLimit, c.IsActive, c.ValidFrom, c.ValidUntil)

	return row.Scan(&c.ID, &c.UsedCount, &c.CreatedAt)
}

// UpdateCoupon replaces the mutable fields of a coupon. The usage counter
// is deliberately not writable through admin CRUD.
func (s *Store) UpdateCoupon(ctx context.Context, c *models.Coupon) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE coupons
		SET code = $1, description = $2, discount_type = $3, discount_value = $4,
		    minimum_order_amount = $5, maximum_discount_amount = $6,
		    usage_limit = $7, is_active = $8, valid_from = $9, valid_until = $10
		WHERE id = $11`,
		NormalizeCode(c.Code), c.Description, c.DiscountType, c.DiscountValue,
		c.MinimumOrderAmount, c.MaximumDiscountAmount,
		c.UsageLimit, c.IsActive, c.ValidFrom, c.ValidUntil, c.ID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteCoupon removes a coupon
func (s *Store) DeleteCoupon(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM coupons WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
