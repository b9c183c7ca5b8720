package models

import "time"

// Event types
const (
	EventTypeOrderCreated       = "ORDER_CREATED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventTypeCouponRedeemed     = "COUPON_REDEEMED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCreatedEvent published when checkout persists a new order
type OrderCreatedEvent struct {
	BaseEvent
	OrderID        string     `json:"order_id"`
	UserID         string     `json:"user_id,omitempty"`
	TotalAmount    float64    `json:"total_amount"`
	DiscountAmount float64    `json:"discount_amount,omitempty"`
	CouponCode     string     `json:"coupon_code,omitempty"`
	Items          []CartItem `json:"items"`
}

// OrderStatusChangedEvent published on an admin status transition
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID   string      `json:"order_id"`
	UserID    string      `json:"user_id,omitempty"`
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
}

// CouponRedeemedEvent published when a checkout consumes a coupon use
type CouponRedeemedEvent struct {
	BaseEvent
	Code           string  `json:"code"`
	OrderID        string  `json:"order_id"`
	DiscountAmount float64 `json:"discount_amount"`
}
