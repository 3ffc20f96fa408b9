package store

import (
	"context"
	"database/sql"
	"fmt"

	"image-store/internal/models"
)

// CreateOrder persists a pending order carrying its gateway reference and
// the frozen variant copy.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (user_id, product_id, variant, gateway_order_id, amount, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	return s.db.QueryRowxContext(ctx, query,
		order.UserID, order.ProductID, order.Variant,
		order.GatewayOrderID, order.Amount, order.Status).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
}

// GetOrderByGatewayOrderID retrieves the order matching a gateway reference.
func (s *Store) GetOrderByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT * FROM orders WHERE gateway_order_id = $1", gatewayOrderID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %s: %w", gatewayOrderID, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrdersByUserID retrieves a user's orders newest first, joined with the
// catalog fields shown on the orders page.
func (s *Store) GetOrdersByUserID(ctx context.Context, userID int64) ([]models.UserOrder, error) {
	var orders []models.UserOrder
	query := `
		SELECT o.*,
		       COALESCE(p.name, 'Product no longer available') AS product_name,
		       COALESCE(p.image_url, '') AS product_image_url
		FROM orders o
		LEFT JOIN products p ON p.id = o.product_id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC`
	err := s.db.SelectContext(ctx, &orders, query, userID)
	return orders, err
}

// CompletePendingOrder transitions an order pending -> completed and records
// the gateway payment ID in a single conditional update. The status guard
// makes duplicate webhook deliveries a no-op: the second delivery matches
// zero rows. Returns the transitioned order, or nil when nothing matched.
func (s *Store) CompletePendingOrder(ctx context.Context, gatewayOrderID, gatewayPaymentID string) (*models.Order, error) {
	var order models.Order
	query := `
		UPDATE orders
		SET gateway_payment_id = $1, status = $2, updated_at = NOW()
		WHERE gateway_order_id = $3 AND status = $4
		RETURNING *`

	err := s.db.GetContext(ctx, &order, query,
		gatewayPaymentID, models.OrderStatusCompleted,
		gatewayOrderID, models.OrderStatusPending)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FailPendingOrder transitions an order pending -> failed with the same
// status guard as CompletePendingOrder.
func (s *Store) FailPendingOrder(ctx context.Context, gatewayOrderID string) (*models.Order, error) {
	var order models.Order
	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE gateway_order_id = $2 AND status = $3
		RETURNING *`

	err := s.db.GetContext(ctx, &order, query,
		models.OrderStatusFailed, gatewayOrderID, models.OrderStatusPending)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// RecordReconciliation stores an orphaned gateway payment intent for manual
// follow-up.
func (s *Store) RecordReconciliation(ctx context.Context, rec *models.Reconciliation) error {
	query := `
		INSERT INTO reconciliation_log (gateway_order_id, user_id, product_id, amount, reason)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (gateway_order_id) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query,
		rec.GatewayOrderID, rec.UserID, rec.ProductID, rec.Amount, rec.Reason)
	return err
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed marks an event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
