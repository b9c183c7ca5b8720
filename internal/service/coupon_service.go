package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"snackshop/internal/coupon"
	"snackshop/internal/models"
	"snackshop/internal/store"
	"snackshop/internal/util"

	"go.uber.org/zap"
)

// CouponAdminStore is the persistence surface for coupon management.
type CouponAdminStore interface {
	CouponStore
	GetCouponByID(ctx context.Context, id string) (*models.Coupon, error)
	GetAllCoupons(ctx context.Context) ([]models.Coupon, error)
	CreateCoupon(ctx context.Context, c *models.Coupon) error
	UpdateCoupon(ctx context.Context, c *models.Coupon) (bool, error)
	DeleteCoupon(ctx context.Context, id string) (bool, error)
}

// ErrCouponNotFound reports an unknown coupon ID or code.
var ErrCouponNotFound = errors.New("coupon not found")

// ValidationOutcome is the payload of the public validate endpoint.
type ValidationOutcome struct {
	Valid  bool           `json:"valid"`
	Coupon *models.Coupon `json:"coupon,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// CouponService exposes public validation/redemption and admin CRUD.
type CouponService struct {
	coupons CouponAdminStore
	logger  *zap.Logger
	now     func() time.Time
}

// NewCouponService creates a new coupon service
func NewCouponService(coupons CouponAdminStore) *CouponService {
	return &CouponService{
		coupons: coupons,
		logger:  util.GetLogger(),
		now:     time.Now,
	}
}

// ValidateCode checks a code against an order amount without consuming a
// use. Rejections come back as data, not errors, so callers can decide
// what to do with them.
func (s *CouponService) ValidateCode(ctx context.Context, code string, orderAmount float64) (*ValidationOutcome, error) {
	c, err := s.coupons.GetCouponByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up coupon: %w", err)
	}
	if c == nil {
		return &ValidationOutcome{Error: coupon.ReasonNotFound}, nil
	}

	result := coupon.Validate(c, orderAmount, s.now())
	if !result.Valid {
		return &ValidationOutcome{Error: result.Reason}, nil
	}
	return &ValidationOutcome{Valid: true, Coupon: c}, nil
}

// Apply consumes one use of a coupon via the conditional increment.
// Returns false when the code is unknown or its limit is exhausted.
func (s *CouponService) Apply(ctx context.Context, code string) (bool, error) {
	ok, err := s.coupons.RedeemCoupon(ctx, code)
	if err != nil {
		return false, fmt.Errorf("failed to apply coupon: %w", err)
	}
	if ok {
		util.CouponsRedeemedTotal.Inc()
	}
	return ok, nil
}

// ListCoupons retrieves every coupon for the back office
func (s *CouponService) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	return s.coupons.GetAllCoupons(ctx)
}

// GetCoupon retrieves a coupon by ID
func (s *CouponService) GetCoupon(ctx context.Context, id string) (*models.Coupon, error) {
	c, err := s.coupons.GetCouponByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCouponNotFound
	}
	return c, nil
}

// CreateCoupon validates and inserts a new coupon
func (s *CouponService) CreateCoupon(ctx context.Context, c *models.Coupon) error {
	if err := validateCouponFields(c); err != nil {
		return err
	}
	if err := s.coupons.CreateCoupon(ctx, c); err != nil {
		return fmt.Errorf("failed to create coupon: %w", err)
	}
	s.logger.Info("Coupon created", zap.String("code", c.Code))
	return nil
}

// UpdateCoupon validates and replaces a coupon's rule fields
func (s *CouponService) UpdateCoupon(ctx context.Context, c *models.Coupon) error {
	if err := validateCouponFields(c); err != nil {
		return err
	}
	updated, err := s.coupons.UpdateCoupon(ctx, c)
	if err != nil {
		return fmt.Errorf("failed to update coupon: %w", err)
	}
	if !updated {
		return ErrCouponNotFound
	}
	return nil
}

// DeleteCoupon removes a coupon
func (s *CouponService) DeleteCoupon(ctx context.Context, id string) error {
	deleted, err := s.coupons.DeleteCoupon(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	if !deleted {
		return ErrCouponNotFound
	}
	return nil
}

func validateCouponFields(c *models.Coupon) error {
	if store.NormalizeCode(c.Code) == "" {
		return &RejectionError{Reason: "coupon code is required"}
	}
	switch c.DiscountType {
	case models.DiscountPercentage:
		if c.DiscountValue < 0 || c.DiscountValue > 100 {
			return &RejectionError{Reason: "percentage discount must be between 0 and 100"}
		}
	case models.DiscountFixed:
		if c.DiscountValue < 0 {
			return &RejectionError{Reason: "fixed discount must not be negative"}
		}
	default:
		return &RejectionError{Reason: fmt.Sprintf("unknown discount type %q", c.DiscountType)}
	}
	if c.MinimumOrderAmount < 0 {
		return &RejectionError{Reason: "minimum order amount must not be negative"}
	}
	if c.UsageLimit != nil && *c.UsageLimit < 1 {
		return &RejectionError{Reason: "usage limit must be at least 1"}
	}
	return nil
}
