package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"snackshop/internal/coupon"
	"snackshop/internal/models"
	"snackshop/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCouponStore mirrors the conditional-increment semantics of the real
// store behind a mutex, so redemption races behave like the SQL would.
type fakeCouponStore struct {
	mu      sync.Mutex
	coupons map[string]*models.Coupon
}

func newFakeCouponStore(coupons ...*models.Coupon) *fakeCouponStore {
	s := &fakeCouponStore{coupons: make(map[string]*models.Coupon)}
	for _, c := range coupons {
		s.coupons[c.Code] = c
	}
	return s
}

func (s *fakeCouponStore) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.coupons[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (s *fakeCouponStore) RedeemCoupon(ctx context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.coupons[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return false, nil
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return false, nil
	}
	c.UsedCount++
	return true, nil
}

func (s *fakeCouponStore) ReleaseCouponUsage(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.coupons[strings.ToUpper(strings.TrimSpace(code))]; ok && c.UsedCount > 0 {
		c.UsedCount--
	}
	return nil
}

func (s *fakeCouponStore) usedCount(code string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coupons[code].UsedCount
}

type fakeOrderStore struct {
	mu         sync.Mutex
	orders     []*models.Order
	failInsert bool
}

func (s *fakeOrderStore) CreateOrder(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInsert {
		return errors.New("insert failed")
	}
	order.ID = fmt.Sprintf("order-%d", len(s.orders)+1)
	order.CreatedAt = time.Now()
	copied := *order
	s.orders = append(s.orders, &copied)
	return nil
}

func (s *fakeOrderStore) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			copied := *o
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeOrderStore) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (s *fakeOrderStore) GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == orderID {
			o.Status = status
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeOrderStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

type fakePublisher struct {
	mu      sync.Mutex
	created []*models.OrderCreatedEvent
	status  []*models.OrderStatusChangedEvent
	redeems []*models.CouponRedeemedEvent
	err     error
}

func (p *fakePublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.created = append(p.created, event)
	return nil
}

func (p *fakePublisher) PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.status = append(p.status, event)
	return nil
}

func (p *fakePublisher) PublishCouponRedeemed(ctx context.Context, event *models.CouponRedeemedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.redeems = append(p.redeems, event)
	return nil
}

func fixedNow() time.Time {
	return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
}

func newCheckoutFixture(coupons ...*models.Coupon) (*CheckoutService, *fakeOrderStore, *fakeCouponStore, *fakePublisher) {
	orders := &fakeOrderStore{}
	store := newFakeCouponStore(coupons...)
	publisher := &fakePublisher{}
	svc := &CheckoutService{
		orders:    orders,
		coupons:   store,
		publisher: publisher,
		logger:    util.GetLogger(),
		now:       fixedNow,
	}
	return svc, orders, store, publisher
}

func testCoupon() *models.Coupon {
	max := 200.0
	return &models.Coupon{
		ID:                    "c1",
		Code:                  "WELCOME20",
		DiscountType:          models.DiscountPercentage,
		DiscountValue:         20,
		MinimumOrderAmount:    500,
		MaximumDiscountAmount: &max,
		IsActive:              true,
		ValidFrom:             fixedNow().Add(-24 * time.Hour),
	}
}

func cartItems() []models.CartItem {
	return []models.CartItem{
		{ProductID: "p1", Name: "Spicy Chips", Price: 600, Quantity: 1},
		{ProductID: "p2", Name: "Gummy Mix", Price: 200, Quantity: 2},
	}
}

func TestPlaceOrderWithoutCoupon(t *testing.T) {
	svc, orders, _, publisher := newCheckoutFixture()

	order, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		CustomerName:    "Dana",
		CustomerEmail:   "dana@example.com",
		CustomerPhone:   "555-1234",
		ShippingAddress: "1 Main St",
		Items:           cartItems(),
	})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, order.TotalAmount)
	assert.Equal(t, 0.0, order.DiscountAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Nil(t, order.CouponCode)
	assert.Equal(t, 1, orders.count())
	assert.Len(t, publisher.created, 1)
	assert.Empty(t, publisher.redeems)
}

func TestPlaceOrderWithCoupon(t *testing.T) {
	svc, _, store, publisher := newCheckoutFixture(testCoupon())

	order, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		CustomerName:    "Dana",
		CustomerEmail:   "dana@example.com",
		CustomerPhone:   "555-1234",
		ShippingAddress: "1 Main St",
		Items:           cartItems(), // subtotal 1000
		CouponCode:      "WELCOME20",
	})
	require.NoError(t, err)

	// 20% of 1000 is 200, exactly at the cap.
	assert.Equal(t, 200.0, order.DiscountAmount)
	assert.Equal(t, 800.0, order.TotalAmount)
	require.NotNil(t, order.CouponCode)
	assert.Equal(t, "WELCOME20", *order.CouponCode)
	assert.Equal(t, 1, store.usedCount("WELCOME20"))
	assert.Len(t, publisher.redeems, 1)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	svc, orders, _, _ := newCheckoutFixture()

	_, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		CustomerEmail: "dana@example.com",
	})
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, orders.count())
}

func TestPlaceOrderUnknownCouponAbortsCheckout(t *testing.T) {
	svc, orders, _, _ := newCheckoutFixture()

	_, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		CustomerEmail: "dana@example.com",
		Items:         cartItems(),
		CouponCode:    "NOPE",
	})

	var rejection *RejectionError
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, coupon.ReasonNotFound, rejection.Reason)
	assert.Zero(t, orders.count(), "no order may be created when the coupon is rejected")
}

func TestPlaceOrderInvalidCouponAbortsCheckout(t *testing.T) {
	c := testCoupon()
	c.IsActive = false
	svc, orders, store, _ := newCheckoutFixture(c)

	_, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		CustomerEmail: "dana@example.com",
		Items:         cartItems(),
		CouponCode:    "WELCOME20",
	})

	var rejection *RejectionError
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, coupon.ReasonNotActive, rejection.Reason)
	assert.Zero(t, orders.count())
	assert.Zero(t, store.usedCount("WELCOME20"))
}

func TestPlaceOrderBelowMinimumAbortsCheckout(t *testing.T) {
	c := testCoupon()
	svc, orders, _, _ := newCheckoutFixture(c)

	_, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		CustomerEmail: "dana@example.com",
		Items:         []models.CartItem{{ProductID: "p1", Price: 40, Quantity: 1}},
		CouponCode:    "WELCOME20",
	})

	var rejection *RejectionError
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, "Minimum order amount is 500", rejection.Reason)
	assert.Zero(t, orders.count())
}

func TestPlaceOrderReleasesCouponOnInsertFailure(t *testing.T) {
	svc, orders, store, _ := newCheckoutFixture(testCoupon())
	orders.failInsert = true

	_, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		CustomerEmail: "dana@example.com",
		Items:         cartItems(),
		CouponCode:    "WELCOME20",
	})
	require.Error(t, err)
	assert.Zero(t, store.usedCount("WELCOME20"), "a failed insert must hand the coupon use back")
}

func TestPlaceOrderPublishFailureDoesNotFailCheckout(t *testing.T) {
	svc, orders, _, publisher := newCheckoutFixture()
	publisher.err = errors.New("broker down")

	order, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		CustomerEmail: "dana@example.com",
		Items:         cartItems(),
	})
	require.NoError(t, err)
	assert.NotNil(t, order)
	assert.Equal(t, 1, orders.count())
}

func TestConcurrentRedemptionOfLastUse(t *testing.T) {
	c := testCoupon()
	limit := 1
	c.UsageLimit = &limit
	svc, orders, store, _ := newCheckoutFixture(c)

	const attempts = 10
	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
				CustomerEmail: "dana@example.com",
				Items:         cartItems(),
				CouponCode:    "WELCOME20",
			})
			results[i] = err
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		} else {
			var rejection *RejectionError
			assert.ErrorAs(t, err, &rejection)
		}
	}

	assert.Equal(t, 1, successes, "exactly one checkout may win the last use")
	assert.Equal(t, 1, store.usedCount("WELCOME20"))
	assert.Equal(t, 1, orders.count())
}

func TestFixedDiscountFloorsAtZero(t *testing.T) {
	c := &models.Coupon{
		Code:          "SAVE50",
		DiscountType:  models.DiscountFixed,
		DiscountValue: 50,
		IsActive:      true,
		ValidFrom:     fixedNow().Add(-time.Hour),
	}
	svc, _, _, _ := newCheckoutFixture(c)

	order, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		CustomerEmail: "dana@example.com",
		Items:         []models.CartItem{{ProductID: "p1", Price: 30, Quantity: 1}},
		CouponCode:    "SAVE50",
	})
	require.NoError(t, err)
	assert.Equal(t, 30.0, order.DiscountAmount)
	assert.Equal(t, 0.0, order.TotalAmount)
}
