package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"snackshop/internal/models"
	"snackshop/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrOrderNotFound reports an unknown order ID.
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidTransition rejects a status change the state machine
	// does not allow, including any change out of a terminal state.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// OrderService exposes order reads and the admin-driven status state
// machine. Orders are immutable except for status and never deleted.
type OrderService struct {
	orders    OrderStore
	publisher EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(orders OrderStore, publisher EventPublisher) *OrderService {
	return &OrderService{
		orders:    orders,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders retrieves all orders for the back office
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.GetAllOrders(ctx)
}

// ListUserOrders retrieves a customer's own orders
func (s *OrderService) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orders.GetOrdersByUserID(ctx, userID)
}

// UpdateStatus applies an admin status transition. The raw status string
// is validated against the closed enum and the transition table before
// anything is persisted; on rejection the stored status is untouched.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, rawStatus string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()

	next, err := models.ParseOrderStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
	}

	updated, err := s.orders.UpdateOrderStatus(ctx, orderID, next)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if !updated {
		return nil, ErrOrderNotFound
	}

	util.OrderStatusTransitionsTotal.WithLabelValues(string(next)).Inc()
	s.logger.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("from", string(order.Status)),
		zap.String("to", string(next)))

	s.publishStatusChanged(ctx, order, next)

	order.Status = next
	return order, nil
}

func (s *OrderService) publishStatusChanged(ctx context.Context, order *models.Order, next models.OrderStatus) {
	userID := ""
	if order.UserID != nil {
		userID = *order.UserID
	}

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID:   order.ID,
		UserID:    userID,
		OldStatus: order.Status,
		NewStatus: next,
	}

	if err := s.publisher.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
}
