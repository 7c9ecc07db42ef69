package worker

import (
	"context"
	"log"

	"cashflow-insight/internal/broker"
	"cashflow-insight/internal/models"
	"cashflow-insight/internal/store"
)

// AuditWorker consumes dataset and analysis events and records them in the
// audit store, keeping a queryable history of what was uploaded and which
// analyses ran.
type AuditWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        *store.Store
}

// NewAuditWorker creates a new audit worker
func NewAuditWorker(consumer *broker.Consumer, auditStore *store.Store) *AuditWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnDatasetUploaded(func(ctx context.Context, event *models.DatasetUploadedEvent) error {
		return auditStore.RecordDatasetUpload(ctx, event)
	})
	eventHandler.OnAnalysisCompleted(func(ctx context.Context, event *models.AnalysisCompletedEvent) error {
		return auditStore.RecordAnalysisRun(ctx, event)
	})
	eventHandler.OnDatasetReset(func(ctx context.Context, event *models.DatasetResetEvent) error {
		log.Printf("Dataset reset recorded: %s", event.EventID)
		return nil
	})

	return &AuditWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		store:        auditStore,
	}
}

// Start starts the worker
func (w *AuditWorker) Start(ctx context.Context) error {
	log.Println("Starting audit worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *AuditWorker) Stop() error {
	log.Println("Stopping audit worker...")
	return w.consumer.Close()
}
