package models

import (
	"errors"
	"fmt"
)

// ErrUnknownStatus rejects a status string outside the closed set.
var ErrUnknownStatus = errors.New("unknown order status")

// OrderStatus is the closed set of order lifecycle states. Raw strings
// from the API must go through ParseOrderStatus before they reach storage.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// nextStatuses is the admin-driven state machine:
// pending -> processing -> shipped -> delivered, with cancelled reachable
// from any non-terminal state. delivered and cancelled are terminal.
var nextStatuses = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// ParseOrderStatus validates a raw status string against the known set.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := nextStatuses[status]; !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownStatus, s)
	}
	return status, nil
}

// IsTerminal reports whether no further transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	return len(nextStatuses[s]) == 0
}

// CanTransitionTo reports whether moving to next is a legal transition.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range nextStatuses[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
