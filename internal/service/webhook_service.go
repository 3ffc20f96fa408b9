package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"image-store/internal/broker"
	"image-store/internal/gateway"
	"image-store/internal/mailer"
	"image-store/internal/models"
	"image-store/internal/store"
	"image-store/internal/util"

	"go.uber.org/zap"
)

// Gateway webhook event names.
const (
	eventPaymentCaptured = "payment.captured"
	eventPaymentFailed   = "payment.failed"
)

// WebhookService is the payment confirmation receiver. It verifies message
// authenticity, transitions the matching order and triggers the
// confirmation email.
type WebhookService struct {
	store          *store.Store
	mailer         *mailer.Mailer
	eventPublisher *broker.EventPublisher
	webhookSecret  string
	logger         *zap.Logger
}

// NewWebhookService creates a new webhook service
func NewWebhookService(
	store *store.Store,
	mail *mailer.Mailer,
	eventPublisher *broker.EventPublisher,
	webhookSecret string,
) *WebhookService {
	return &WebhookService{
		store:          store,
		mailer:         mail,
		eventPublisher: eventPublisher,
		webhookSecret:  webhookSecret,
		logger:         util.GetLogger(),
	}
}

// webhookEvent is the gateway's event envelope.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity *paymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// paymentEntity is the payment object inside the envelope.
type paymentEntity struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// HandleEvent processes one gateway notification delivery.
//
// Signature and structural failures return ErrInvalidInput: retrying the
// same payload cannot succeed. An unmatched order returns ErrNotFound so
// the gateway redelivers, which covers the window where checkout has
// registered the intent but not yet persisted the order. Event types other
// than payment capture/failure are acknowledged and ignored. Duplicate
// deliveries are absorbed by the status-guarded update: the order
// transitions exactly once and the confirmation email is not re-sent.
func (s *WebhookService) HandleEvent(ctx context.Context, body []byte, signature string) error {
	ctx, span := util.StartSpan(ctx, "WebhookService.HandleEvent")
	defer span.End()

	if signature == "" {
		util.WebhookEventsTotal.WithLabelValues("missing_signature").Inc()
		return fmt.Errorf("missing signature header: %w", models.ErrInvalidInput)
	}
	if !gateway.VerifySignature(s.webhookSecret, body, signature) {
		util.WebhookEventsTotal.WithLabelValues("bad_signature").Inc()
		return fmt.Errorf("payment verification failed: %w", models.ErrInvalidInput)
	}

	event, payment, err := parseWebhookEvent(body)
	if err != nil {
		util.WebhookEventsTotal.WithLabelValues("malformed").Inc()
		return err
	}

	switch event {
	case eventPaymentCaptured:
		return s.handlePaymentCaptured(ctx, payment)
	case eventPaymentFailed:
		return s.handlePaymentFailed(ctx, payment)
	default:
		// Acknowledge so the gateway stops redelivering event types this
		// receiver does not consume.
		util.WebhookEventsTotal.WithLabelValues("ignored").Inc()
		s.logger.Info("Ignoring webhook event", zap.String("event", event))
		return nil
	}
}

// parseWebhookEvent validates the envelope after the signature check. The
// payment entity is required only for the event types we consume.
func parseWebhookEvent(body []byte) (string, *paymentEntity, error) {
	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return "", nil, fmt.Errorf("malformed event payload: %w", models.ErrInvalidInput)
	}
	if event.Event == "" {
		return "", nil, fmt.Errorf("event type missing: %w", models.ErrInvalidInput)
	}

	payment := event.Payload.Payment.Entity
	if event.Event == eventPaymentCaptured || event.Event == eventPaymentFailed {
		if payment == nil || payment.OrderID == "" {
			return "", nil, fmt.Errorf("event missing payment entity: %w", models.ErrInvalidInput)
		}
	}
	return event.Event, payment, nil
}

func (s *WebhookService) handlePaymentCaptured(ctx context.Context, payment *paymentEntity) error {
	order, err := s.store.CompletePendingOrder(ctx, payment.OrderID, payment.ID)
	if err != nil {
		util.WebhookEventsTotal.WithLabelValues("db_error").Inc()
		return fmt.Errorf("failed to complete order: %w", err)
	}

	if order == nil {
		// Nothing transitioned: either a duplicate delivery or an unknown
		// order reference.
		existing, err := s.store.GetOrderByGatewayOrderID(ctx, payment.OrderID)
		if err != nil {
			util.WebhookEventsTotal.WithLabelValues("order_not_found").Inc()
			return err
		}
		util.WebhookEventsTotal.WithLabelValues("duplicate").Inc()
		s.logger.Info("Duplicate capture delivery ignored",
			zap.Int64("order_id", existing.ID),
			zap.String("status", existing.Status))
		return nil
	}

	util.OrdersCompletedTotal.Inc()
	util.WebhookEventsTotal.WithLabelValues("completed").Inc()
	s.logger.Info("Order completed",
		zap.Int64("order_id", order.ID),
		zap.String("gateway_payment_id", payment.ID))

	s.sendConfirmation(ctx, order)

	event := &models.OrderCompletedEvent{
		BaseEvent:        newBaseEvent(models.EventTypeOrderCompleted),
		OrderID:          order.ID,
		UserID:           order.UserID,
		GatewayOrderID:   order.GatewayOrderID,
		GatewayPaymentID: payment.ID,
		Amount:           order.Amount,
	}
	if err := s.eventPublisher.PublishOrderCompleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCompleted event", zap.Error(err))
	}
	return nil
}

func (s *WebhookService) handlePaymentFailed(ctx context.Context, payment *paymentEntity) error {
	order, err := s.store.FailPendingOrder(ctx, payment.OrderID)
	if err != nil {
		util.WebhookEventsTotal.WithLabelValues("db_error").Inc()
		return fmt.Errorf("failed to mark order failed: %w", err)
	}

	if order == nil {
		existing, err := s.store.GetOrderByGatewayOrderID(ctx, payment.OrderID)
		if err != nil {
			util.WebhookEventsTotal.WithLabelValues("order_not_found").Inc()
			return err
		}
		util.WebhookEventsTotal.WithLabelValues("duplicate").Inc()
		s.logger.Info("Failure delivery for already-settled order ignored",
			zap.Int64("order_id", existing.ID),
			zap.String("status", existing.Status))
		return nil
	}

	util.OrdersFailedTotal.WithLabelValues("payment_failed").Inc()
	util.WebhookEventsTotal.WithLabelValues("failed").Inc()
	s.logger.Warn("Order failed",
		zap.Int64("order_id", order.ID),
		zap.String("gateway_order_id", order.GatewayOrderID))

	event := &models.OrderFailedEvent{
		BaseEvent:      newBaseEvent(models.EventTypeOrderFailed),
		OrderID:        order.ID,
		GatewayOrderID: order.GatewayOrderID,
		Reason:         payment.Status,
	}
	if err := s.eventPublisher.PublishOrderFailed(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderFailed event", zap.Error(err))
	}
	return nil
}

// sendConfirmation delivers the confirmation email for a completed order.
// Mail failures never roll back the status transition.
func (s *WebhookService) sendConfirmation(ctx context.Context, order *models.Order) {
	user, err := s.store.GetUserByID(ctx, order.UserID)
	if err != nil {
		util.EmailFailuresTotal.Inc()
		s.logger.Error("Cannot resolve order user for confirmation mail",
			zap.Int64("order_id", order.ID),
			zap.Error(err))
		return
	}

	productName := "Product no longer available"
	if product, err := s.store.GetProductByID(ctx, order.ProductID); err == nil {
		productName = product.Name
	}

	err = s.mailer.SendOrderConfirmation(user.Email, mailer.OrderConfirmation{
		OrderRef:    truncateRef(order.ID),
		ProductName: productName,
		VariantType: order.Variant.Type,
		License:     order.Variant.License,
		Amount:      order.Amount,
	})
	if err != nil {
		util.EmailFailuresTotal.Inc()
		s.logger.Error("Failed to send confirmation email",
			zap.Int64("order_id", order.ID),
			zap.Error(err))
		return
	}
	util.EmailsSentTotal.Inc()
}

// truncateRef keeps the tail of the order reference for the email.
func truncateRef(id int64) string {
	ref := strconv.FormatInt(id, 10)
	if len(ref) > 6 {
		ref = ref[len(ref)-6:]
	}
	return ref
}
