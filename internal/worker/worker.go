package worker

import (
	"context"

	"snackshop/internal/broker"
	"snackshop/internal/models"
	"snackshop/internal/util"
	"snackshop/internal/ws"

	"go.uber.org/zap"
)

// NotificationWorker consumes order events from Kafka and fans them out
// to connected browsers through the WebSocket hub. It is purely a relay;
// losing it degrades clients to polling, nothing else.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	hub          *ws.Hub
	logger       *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, hub *ws.Hub) *NotificationWorker {
	w := &NotificationWorker{
		consumer: consumer,
		hub:      hub,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderCreated(w.handleOrderCreated)
	eventHandler.OnOrderStatusChanged(w.handleOrderStatusChanged)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting notification worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	w.logger.Info("Stopping notification worker")
	return w.consumer.Close()
}

func (w *NotificationWorker) handleOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	w.hub.Broadcast("order_created", map[string]interface{}{
		"orderId":     event.OrderID,
		"userId":      event.UserID,
		"totalAmount": event.TotalAmount,
	})
	return nil
}

func (w *NotificationWorker) handleOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	w.hub.Broadcast("order_status_changed", map[string]interface{}{
		"orderId":   event.OrderID,
		"userId":    event.UserID,
		"oldStatus": event.OldStatus,
		"newStatus": event.NewStatus,
	})
	return nil
}
