package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"image-store/internal/broker"
	"image-store/internal/gateway"
	"image-store/internal/models"
	"image-store/internal/store"
	"image-store/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService handles checkout and order listing.
type OrderService struct {
	store          *store.Store
	gateway        *gateway.Client
	eventPublisher *broker.EventPublisher
	currency       string
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	store *store.Store,
	gw *gateway.Client,
	eventPublisher *broker.EventPublisher,
	currency string,
) *OrderService {
	return &OrderService{
		store:          store,
		gateway:        gw,
		eventPublisher: eventPublisher,
		currency:       currency,
		logger:         util.GetLogger(),
	}
}

// CheckoutRequest represents a request to purchase one variant of a product
type CheckoutRequest struct {
	ProductID int64          `json:"productId" binding:"required"`
	Variant   models.Variant `json:"variant" binding:"required"`
}

// CheckoutResponse carries the gateway reference the client pays against
type CheckoutResponse struct {
	OrderID   string `json:"orderId"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	DBOrderID int64  `json:"dbOrderId"`
}

// Checkout creates a pending order and registers a matching payment intent
// with the gateway. The two steps are not transactional across the process
// boundary: the intent is registered first, and if persisting the local
// order then fails the orphaned gateway reference is logged and published
// for reconciliation.
func (s *OrderService) Checkout(ctx context.Context, userID int64, req *CheckoutRequest) (*CheckoutResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Checkout")
	defer span.End()

	product, err := s.store.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	declared, ok := matchVariant(product.Variants, req.Variant)
	if !ok {
		util.OrdersFailedTotal.WithLabelValues("invalid_variant").Inc()
		return nil, fmt.Errorf("variant %s/%s is not offered for product %d: %w",
			req.Variant.Type, req.Variant.License, product.ID, models.ErrInvalidInput)
	}

	// The charge always comes from the declared variant, never from the
	// client-supplied price.
	amount := declared.Price
	receipt := fmt.Sprintf("order_%d_%d", time.Now().UnixMilli(), userID)

	start := time.Now()
	gwOrder, err := s.gateway.CreateOrder(ctx, &gateway.CreateOrderRequest{
		Amount:         minorUnits(amount),
		Currency:       s.currency,
		Receipt:        receipt,
		PaymentCapture: 1,
		Notes: map[string]string{
			"product": strconv.FormatInt(product.ID, 10),
		},
	})
	util.PaymentIntentLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("gateway_error").Inc()
		return nil, fmt.Errorf("failed to register payment intent: %w", err)
	}

	order := &models.Order{
		UserID:         userID,
		ProductID:      product.ID,
		Variant:        declared,
		GatewayOrderID: gwOrder.ID,
		Amount:         amount,
		Status:         models.OrderStatusPending,
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		s.recordOrphanedIntent(ctx, gwOrder.ID, userID, product.ID, amount, err)
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.String("gateway_order_id", gwOrder.ID),
		zap.Float64("amount", amount))

	event := &models.OrderCreatedEvent{
		BaseEvent:      newBaseEvent(models.EventTypeOrderCreated),
		OrderID:        order.ID,
		UserID:         userID,
		ProductID:      product.ID,
		GatewayOrderID: gwOrder.ID,
		Amount:         amount,
	}
	if err := s.eventPublisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}

	return &CheckoutResponse{
		OrderID:   gwOrder.ID,
		Amount:    gwOrder.Amount,
		Currency:  gwOrder.Currency,
		DBOrderID: order.ID,
	}, nil
}

// ListUserOrders returns a user's orders newest first. An empty result is
// ErrNotFound, matching the catalog contract.
func (s *OrderService) ListUserOrders(ctx context.Context, userID int64) ([]models.UserOrder, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ListUserOrders")
	defer span.End()

	orders, err := s.store.GetOrdersByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("no orders found: %w", models.ErrNotFound)
	}
	return orders, nil
}

// recordOrphanedIntent surfaces a gateway payment intent that has no local
// order row: log it and publish it to the reconciliation stream so ops can
// follow up. Best effort, the checkout error is returned regardless.
func (s *OrderService) recordOrphanedIntent(ctx context.Context, gatewayOrderID string, userID, productID int64, amount float64, cause error) {
	util.OrdersOrphanedTotal.Inc()
	s.logger.Error("Gateway payment intent has no local order, reconciliation required",
		zap.String("gateway_order_id", gatewayOrderID),
		zap.Int64("user_id", userID),
		zap.Int64("product_id", productID),
		zap.Float64("amount", amount),
		zap.Error(cause))

	event := &models.OrderReconcileEvent{
		BaseEvent:      newBaseEvent(models.EventTypeOrderReconcile),
		GatewayOrderID: gatewayOrderID,
		UserID:         userID,
		ProductID:      productID,
		Amount:         amount,
		Reason:         cause.Error(),
	}
	if err := s.eventPublisher.PublishOrderReconcile(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderReconcile event",
			zap.String("gateway_order_id", gatewayOrderID),
			zap.Error(err))
	}
}

// matchVariant returns the product's declared variant matching the
// requested type and license.
func matchVariant(declared models.VariantList, requested models.Variant) (models.Variant, bool) {
	for _, v := range declared {
		if v.Type == requested.Type && v.License == requested.License {
			return v, true
		}
	}
	return models.Variant{}, false
}

// minorUnits converts a price in major units to the gateway's minor units.
func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
