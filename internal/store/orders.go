package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"snackshop/internal/models"
)

// CreateOrder persists a new order with its denormalized item snapshot.
// The items are serialized once here; they are never re-resolved against
// the live catalog afterward.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to serialize order items: %w", err)
	}
	order.ItemsJSON = string(itemsJSON)

	query := `
		INSERT INTO orders (user_id, customer_name, customer_email, customer_phone,
		                    shipping_address, items, total_amount, coupon_code,
		                    discount_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	row := s.db.QueryRowxContext(ctx, query,
		order.UserID, order.CustomerName, order.CustomerEmail, order.CustomerPhone,
		order.ShippingAddress, order.ItemsJSON, order.TotalAmount, order.CouponCode,
		order.DiscountAmount, order.Status)

	return row.Scan(&order.ID, &order.CreatedAt)
}

// GetOrderByID retrieves an order, or nil when absent
func (s *Store) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := decodeItems(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetAllOrders retrieves every order, newest first
func (s *Store) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if err := decodeItems(&orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// GetOrdersByUserID retrieves a customer's own orders, newest first
func (s *Store) GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if err := decodeItems(&orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateOrderStatus persists a status transition. The caller is
// responsible for having validated the transition.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1 WHERE id = $2", status, orderID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func decodeItems(order *models.Order) error {
	if order.ItemsJSON == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(order.ItemsJSON), &order.Items); err != nil {
		return fmt.Errorf("failed to decode items for order %s: %w", order.ID, err)
	}
	return nil
}
