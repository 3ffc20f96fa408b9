package worker

import (
	"context"
	"fmt"
	"log"

	"image-store/internal/broker"
	"image-store/internal/models"
	"image-store/internal/store"
)

// ReconciliationWorker consumes the order event stream and persists
// reconciliation records for gateway payment intents that have no matching
// local order, so ops can settle or void them manually.
type ReconciliationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        *store.Store
}

// NewReconciliationWorker creates a new reconciliation worker
func NewReconciliationWorker(consumer *broker.Consumer, st *store.Store) *ReconciliationWorker {
	w := &ReconciliationWorker{
		consumer: consumer,
		store:    st,
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderReconcile(w.handleReconcile)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *ReconciliationWorker) Start(ctx context.Context) error {
	log.Println("Starting reconciliation worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ReconciliationWorker) Stop() error {
	log.Println("Stopping reconciliation worker...")
	return w.consumer.Close()
}

// handleReconcile records one orphaned gateway intent, deduplicated by
// event ID against redelivery.
func (w *ReconciliationWorker) handleReconcile(ctx context.Context, event *models.OrderReconcileEvent) error {
	processed, err := w.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		log.Printf("Event already processed: %s", event.EventID)
		return nil
	}

	rec := &models.Reconciliation{
		GatewayOrderID: event.GatewayOrderID,
		UserID:         event.UserID,
		ProductID:      event.ProductID,
		Amount:         event.Amount,
		Reason:         event.Reason,
	}
	if err := w.store.RecordReconciliation(ctx, rec); err != nil {
		return fmt.Errorf("failed to record reconciliation: %w", err)
	}

	if err := w.store.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
		log.Printf("Failed to mark event processed: %v", err)
	}

	log.Printf("Recorded orphaned gateway intent: %s", event.GatewayOrderID)
	return nil
}
