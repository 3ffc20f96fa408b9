package models

import "time"

// Event types
const (
	EventTypeOrderCreated   = "ORDER_CREATED"
	EventTypeOrderCompleted = "ORDER_COMPLETED"
	EventTypeOrderFailed    = "ORDER_FAILED"
	EventTypeOrderReconcile = "ORDER_RECONCILE"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCreatedEvent published when checkout persists a pending order
type OrderCreatedEvent struct {
	BaseEvent
	OrderID        int64   `json:"order_id"`
	UserID         int64   `json:"user_id"`
	ProductID      int64   `json:"product_id"`
	GatewayOrderID string  `json:"gateway_order_id"`
	Amount         float64 `json:"amount"`
}

// OrderCompletedEvent published when a captured payment confirms an order
type OrderCompletedEvent struct {
	BaseEvent
	OrderID          int64   `json:"order_id"`
	UserID           int64   `json:"user_id"`
	GatewayOrderID   string  `json:"gateway_order_id"`
	GatewayPaymentID string  `json:"gateway_payment_id"`
	Amount           float64 `json:"amount"`
}

// OrderFailedEvent published when the gateway reports a failed payment
type OrderFailedEvent struct {
	BaseEvent
	OrderID        int64  `json:"order_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	Reason         string `json:"reason"`
}

// OrderReconcileEvent records a gateway payment intent with no local order
// row. Checkout registers the intent before persisting; if the persist step
// fails the gateway reference would otherwise be lost.
type OrderReconcileEvent struct {
	BaseEvent
	GatewayOrderID string  `json:"gateway_order_id"`
	UserID         int64   `json:"user_id"`
	ProductID      int64   `json:"product_id"`
	Amount         float64 `json:"amount"`
	Reason         string  `json:"reason"`
}
