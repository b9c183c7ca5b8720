package service

import (
	"context"
	"testing"

	"snackshop/internal/models"
	"snackshop/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderFixture(seed ...*models.Order) (*OrderService, *fakeOrderStore, *fakePublisher) {
	orders := &fakeOrderStore{}
	for _, o := range seed {
		copied := *o
		orders.orders = append(orders.orders, &copied)
	}
	publisher := &fakePublisher{}
	svc := &OrderService{
		orders:    orders,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
	return svc, orders, publisher
}

func pendingOrder(id string) *models.Order {
	return &models.Order{
		ID:            id,
		CustomerName:  "Dana",
		CustomerEmail: "dana@example.com",
		TotalAmount:   800,
		Status:        models.OrderStatusPending,
	}
}

func TestUpdateStatusAllowedTransition(t *testing.T) {
	svc, orders, publisher := newOrderFixture(pendingOrder("o1"))

	order, err := svc.UpdateStatus(context.Background(), "o1", "processing")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)

	stored, err := orders.GetOrderByID(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, stored.Status)

	require.Len(t, publisher.status, 1)
	assert.Equal(t, models.OrderStatusPending, publisher.status[0].OldStatus)
	assert.Equal(t, models.OrderStatusProcessing, publisher.status[0].NewStatus)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, orders, _ := newOrderFixture(pendingOrder("o1"))

	_, err := svc.UpdateStatus(context.Background(), "o1", "in-transit")
	assert.ErrorIs(t, err, models.ErrUnknownStatus)

	stored, _ := orders.GetOrderByID(context.Background(), "o1")
	assert.Equal(t, models.OrderStatusPending, stored.Status, "a rejected update must leave the status untouched")
}

func TestUpdateStatusRejectsSkippedTransition(t *testing.T) {
	svc, orders, publisher := newOrderFixture(pendingOrder("o1"))

	_, err := svc.UpdateStatus(context.Background(), "o1", "delivered")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	stored, _ := orders.GetOrderByID(context.Background(), "o1")
	assert.Equal(t, models.OrderStatusPending, stored.Status)
	assert.Empty(t, publisher.status)
}

func TestUpdateStatusRejectsTerminalExit(t *testing.T) {
	o := pendingOrder("o1")
	o.Status = models.OrderStatusDelivered
	svc, _, _ := newOrderFixture(o)

	_, err := svc.UpdateStatus(context.Background(), "o1", "cancelled")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc, _, _ := newOrderFixture()

	_, err := svc.UpdateStatus(context.Background(), "missing", "processing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestGetOrderUnknown(t *testing.T) {
	svc, _, _ := newOrderFixture()

	_, err := svc.GetOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListUserOrders(t *testing.T) {
	mine := pendingOrder("o1")
	userID := "u1"
	mine.UserID = &userID

	other := pendingOrder("o2")
	otherID := "u2"
	other.UserID = &otherID

	svc, _, _ := newOrderFixture(mine, other, pendingOrder("o3"))

	orders, err := svc.ListUserOrders(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].ID)
}
