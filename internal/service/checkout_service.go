package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"snackshop/internal/coupon"
	"snackshop/internal/models"
	"snackshop/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store interfaces are narrowed per service so tests can substitute fakes
// (the concrete *store.Store satisfies all of them).

type CouponStore interface {
	GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error)
	RedeemCoupon(ctx context.Context, code string) (bool, error)
	ReleaseCouponUsage(ctx context.Context, code string) error
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	GetAllOrders(ctx context.Context) ([]models.Order, error)
	GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (bool, error)
}

type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
	PublishCouponRedeemed(ctx context.Context, event *models.CouponRedeemedEvent) error
}

// ErrEmptyCart rejects a checkout with no items.
var ErrEmptyCart = errors.New("empty cart")

// RejectionError is a business-rule checkout rejection. The reason is
// safe to surface to the customer.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return e.Reason
}

// CheckoutService turns a cart plus an optional coupon into a persisted
// order. Coupon redemption runs before the order insert: the atomic
// increment reserves the use, and a failed insert hands it back.
type CheckoutService struct {
	orders    OrderStore
	coupons   CouponStore
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(orders OrderStore, coupons CouponStore, publisher EventPublisher) *CheckoutService {
	return &CheckoutService{
		orders:    orders,
		coupons:   coupons,
		publisher: publisher,
		logger:    util.GetLogger(),
		now:       time.Now,
	}
}

// PlaceOrderRequest carries checkout input. Items are the cart snapshot;
// prices come from the snapshot, never re-fetched from the catalog, so a
// price change mid-checkout cannot silently alter the charged amount.
type PlaceOrderRequest struct {
	UserID          *string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
	Items           []models.CartItem
	CouponCode      string
}

// PlaceOrder creates exactly one order per successful call and consumes
// at most one coupon use. An invalid coupon aborts the whole checkout;
// nothing is persisted on any rejection path.
func (s *CheckoutService) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.PlaceOrder")
	defer span.End()

	if len(req.Items) == 0 {
		util.CheckoutsRejectedTotal.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	}

	subtotal := models.Subtotal(req.Items)
	total := subtotal
	discount := 0.0

	var appliedCoupon *models.Coupon
	if req.CouponCode != "" {
		c, err := s.coupons.GetCouponByCode(ctx, req.CouponCode)
		if err != nil {
			return nil, fmt.Errorf("failed to look up coupon: %w", err)
		}
		if c == nil {
			util.CouponRejectionsTotal.WithLabelValues("not_found").Inc()
			return nil, &RejectionError{Reason: coupon.ReasonNotFound}
		}

		if result := coupon.Validate(c, subtotal, s.now()); !result.Valid {
			util.CouponRejectionsTotal.WithLabelValues("invalid").Inc()
			return nil, &RejectionError{Reason: result.Reason}
		}

		discount = coupon.Discount(c, subtotal)
		total = subtotal - discount
		appliedCoupon = c
	}

	// Reserve the coupon use before committing the order. The conditional
	// increment is the authority on the usage limit; losing the race here
	// aborts the checkout with nothing persisted.
	if appliedCoupon != nil {
		ok, err := s.coupons.RedeemCoupon(ctx, appliedCoupon.Code)
		if err != nil {
			return nil, fmt.Errorf("failed to redeem coupon: %w", err)
		}
		if !ok {
			util.CouponRejectionsTotal.WithLabelValues("limit_reached").Inc()
			return nil, &RejectionError{Reason: coupon.ReasonLimitReached}
		}
	}

	order := &models.Order{
		UserID:          req.UserID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		Items:           req.Items,
		TotalAmount:     models.Round2(total),
		DiscountAmount:  models.Round2(discount),
		Status:          models.OrderStatusPending,
	}
	if appliedCoupon != nil {
		order.CouponCode = &appliedCoupon.Code
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		if appliedCoupon != nil {
			if relErr := s.coupons.ReleaseCouponUsage(ctx, appliedCoupon.Code); relErr != nil {
				s.logger.Error("Failed to release coupon usage after failed order insert",
					zap.String("code", appliedCoupon.Code),
					zap.Error(relErr))
			} else {
				util.CouponReleasesTotal.Inc()
			}
		}
		util.CheckoutsRejectedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	util.OrdersCreatedTotal.Inc()
	if appliedCoupon != nil {
		util.CouponsRedeemedTotal.Inc()
	}
	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.Float64("total", order.TotalAmount),
		zap.Float64("discount", order.DiscountAmount))

	s.publishOrderCreated(ctx, order)

	return order, nil
}

// publishOrderCreated notifies observers best-effort; a broker outage
// never fails a committed checkout.
func (s *CheckoutService) publishOrderCreated(ctx context.Context, order *models.Order) {
	userID := ""
	if order.UserID != nil {
		userID = *order.UserID
	}

	event := &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCreated,
			Timestamp: time.Now(),
		},
		OrderID:        order.ID,
		UserID:         userID,
		TotalAmount:    order.TotalAmount,
		DiscountAmount: order.DiscountAmount,
		Items:          order.Items,
	}
	if order.CouponCode != nil {
		event.CouponCode = *order.CouponCode
	}

	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event",
			zap.String("order_id", order.ID),
			zap.Error(err))
		return
	}

	if order.CouponCode != nil {
		redeemed := &models.CouponRedeemedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeCouponRedeemed,
				Timestamp: time.Now(),
			},
			Code:           *order.CouponCode,
			OrderID:        order.ID,
			DiscountAmount: order.DiscountAmount,
		}
		if err := s.publisher.PublishCouponRedeemed(ctx, redeemed); err != nil {
			s.logger.Error("Failed to publish CouponRedeemed event",
				zap.String("order_id", order.ID),
				zap.Error(err))
		}
	}
}
