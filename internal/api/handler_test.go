package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"snackshop/internal/auth"
	"snackshop/internal/models"
	"snackshop/internal/service"
	"snackshop/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducts struct {
	products map[string]*models.Product
}

func (f *fakeProducts) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (f *fakeProducts) GetProducts(ctx context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProducts) GetFeaturedProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if p.IsFeatured {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProducts) CreateProduct(ctx context.Context, p *models.Product) error {
	p.ID = fmt.Sprintf("p%d", len(f.products)+1)
	f.products[p.ID] = p
	return nil
}

func (f *fakeProducts) UpdateProduct(ctx context.Context, p *models.Product) (bool, error) {
	if _, ok := f.products[p.ID]; !ok {
		return false, nil
	}
	f.products[p.ID] = p
	return true, nil
}

func (f *fakeProducts) DeleteProduct(ctx context.Context, id string) (bool, error) {
	if _, ok := f.products[id]; !ok {
		return false, nil
	}
	delete(f.products, id)
	return true, nil
}

type fakeCoupons struct {
	coupons map[string]*models.Coupon
}

func (f *fakeCoupons) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	c, ok := f.coupons[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (f *fakeCoupons) GetCouponByID(ctx context.Context, id string) (*models.Coupon, error) {
	for _, c := range f.coupons {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCoupons) GetAllCoupons(ctx context.Context) ([]models.Coupon, error) {
	out := make([]models.Coupon, 0, len(f.coupons))
	for _, c := range f.coupons {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCoupons) RedeemCoupon(ctx context.Context, code string) (bool, error) {
	c, ok := f.coupons[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return false, nil
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return false, nil
	}
	c.UsedCount++
	return true, nil
}

func (f *fakeCoupons) ReleaseCouponUsage(ctx context.Context, code string) error {
	if c, ok := f.coupons[strings.ToUpper(strings.TrimSpace(code))]; ok && c.UsedCount > 0 {
		c.UsedCount--
	}
	return nil
}

func (f *fakeCoupons) CreateCoupon(ctx context.Context, c *models.Coupon) error {
	c.ID = fmt.Sprintf("c%d", len(f.coupons)+1)
	f.coupons[c.Code] = c
	return nil
}

func (f *fakeCoupons) UpdateCoupon(ctx context.Context, c *models.Coupon) (bool, error) {
	for code, existing := range f.coupons {
		if existing.ID == c.ID {
			delete(f.coupons, code)
			f.coupons[c.Code] = c
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCoupons) DeleteCoupon(ctx context.Context, id string) (bool, error) {
	for code, existing := range f.coupons {
		if existing.ID == id {
			delete(f.coupons, code)
			return true, nil
		}
	}
	return false, nil
}

type fakeOrders struct {
	orders []*models.Order
}

func (f *fakeOrders) CreateOrder(ctx context.Context, order *models.Order) error {
	order.ID = fmt.Sprintf("o%d", len(f.orders)+1)
	order.CreatedAt = time.Now()
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeOrders) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, nil
}

func (f *fakeOrders) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	out := make([]models.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrders) GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrders) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (bool, error) {
	for _, o := range f.orders {
		if o.ID == orderID {
			o.Status = status
			return true, nil
		}
	}
	return false, nil
}

type nopPublisher struct{}

func (nopPublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	return nil
}

func (nopPublisher) PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	return nil
}

func (nopPublisher) PublishCouponRedeemed(ctx context.Context, event *models.CouponRedeemedEvent) error {
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeOrders, *fakeCoupons) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	max := 200.0
	coupons := &fakeCoupons{coupons: map[string]*models.Coupon{
		"WELCOME20": {
			ID:                    "c1",
			Code:                  "WELCOME20",
			DiscountType:          models.DiscountPercentage,
			DiscountValue:         20,
			MinimumOrderAmount:    500,
			MaximumDiscountAmount: &max,
			IsActive:              true,
			ValidFrom:             time.Now().Add(-time.Hour),
		},
	}}
	orders := &fakeOrders{}
	products := &fakeProducts{products: map[string]*models.Product{
		"p1": {ID: "p1", Name: "Spicy Chips", Price: 600, IsFeatured: true},
	}}

	handler := NewHandler(
		service.NewCheckoutService(orders, coupons, nopPublisher{}),
		service.NewOrderService(orders, nopPublisher{}),
		service.NewCouponService(coupons),
		service.NewCatalogService(products, nil),
		nil,
		nil,
		nil,
		auth.NewGoogle("", "", ""),
		ws.NewHub(),
		false,
	)

	router := gin.New()
	handler.SetupRoutes(router)
	return router, orders, coupons
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListProducts(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var products []models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	assert.Len(t, products, 1)
}

func TestGetProductNotFound(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/products/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestValidateCouponEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/coupons/validate", gin.H{
		"code":        "welcome20",
		"orderAmount": 1000,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var outcome service.ValidationOutcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.True(t, outcome.Valid)
}

func TestValidateCouponRejection(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/coupons/validate", gin.H{
		"code":        "NOPE",
		"orderAmount": 1000,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var outcome service.ValidationOutcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.False(t, outcome.Valid)
	assert.Equal(t, "Coupon not found", outcome.Error)
}

func TestGuestCheckout(t *testing.T) {
	router, orders, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/orders", gin.H{
		"customerName":    "Dana",
		"customerEmail":   "dana@example.com",
		"customerPhone":   "555-1234",
		"shippingAddress": "1 Main St",
		"items": []gin.H{
			{"productId": "p1", "name": "Spicy Chips", "price": 600, "quantity": 2},
		},
		"couponCode": "WELCOME20",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, 1000.0, order.TotalAmount) // 1200 minus 20% capped at 200
	assert.Equal(t, 200.0, order.DiscountAmount)
	assert.Len(t, orders.orders, 1)
}

func TestGuestCheckoutRequiresEmail(t *testing.T) {
	router, orders, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/orders", gin.H{
		"customerName":    "Dana",
		"customerPhone":   "555-1234",
		"shippingAddress": "1 Main St",
		"items": []gin.H{
			{"productId": "p1", "price": 600, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, orders.orders)
}

func TestCheckoutUnknownCoupon(t *testing.T) {
	router, orders, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/orders", gin.H{
		"customerName":    "Dana",
		"customerEmail":   "dana@example.com",
		"customerPhone":   "555-1234",
		"shippingAddress": "1 Main St",
		"items": []gin.H{
			{"productId": "p1", "price": 600, "quantity": 2},
		},
		"couponCode": "NOPE",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Coupon not found")
	assert.Empty(t, orders.orders, "a rejected coupon must abort the whole checkout")
}

func TestMyOrdersRequiresAuth(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	router, _, _ := newTestRouter(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/admin/orders"},
		{http.MethodPatch, "/api/admin/orders/o1/status"},
		{http.MethodPost, "/api/admin/products"},
		{http.MethodGet, "/api/admin/coupons"},
		{http.MethodGet, "/api/admin/subscribers"},
	} {
		w := doJSON(t, router, route.method, route.path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}
}
