package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"image-store/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing order lifecycle events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderCreated publishes OrderCreated event
func (ep *EventPublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishOrderCompleted publishes OrderCompleted event
func (ep *EventPublisher) PublishOrderCompleted(ctx context.Context, event *models.OrderCompletedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishOrderFailed publishes OrderFailed event
func (ep *EventPublisher) PublishOrderFailed(ctx context.Context, event *models.OrderFailedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishOrderReconcile publishes OrderReconcile event. The topic acts as
// the durable reconciliation log for orphaned gateway intents.
func (ep *EventPublisher) PublishOrderReconcile(ctx context.Context, event *models.OrderReconcileEvent) error {
	key := fmt.Sprintf("reconcile-%s", event.GatewayOrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes incoming events to registered callbacks
type EventHandler struct {
	onOrderReconcile func(context.Context, *models.OrderReconcileEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnOrderReconcile registers a handler for OrderReconcile events
func (eh *EventHandler) OnOrderReconcile(handler func(context.Context, *models.OrderReconcileEvent) error) {
	eh.onOrderReconcile = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeOrderReconcile:
		if eh.onOrderReconcile != nil {
			var event models.OrderReconcileEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderReconcile event: %w", err)
			}
			return eh.onOrderReconcile(ctx, &event)
		}

	default:
		// Lifecycle events feed downstream consumers; nothing to do here.
		log.Printf("Skipping event type: %s", baseEvent.EventType)
	}

	return nil
}
