package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"cashflow-insight/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishDatasetUploaded publishes DatasetUploaded event
func (ep *EventPublisher) PublishDatasetUploaded(ctx context.Context, event *models.DatasetUploadedEvent) error {
	key := fmt.Sprintf("upload-%s", event.UploadID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishDatasetReset publishes DatasetReset event
func (ep *EventPublisher) PublishDatasetReset(ctx context.Context, event *models.DatasetResetEvent) error {
	return ep.producer.PublishEvent(ctx, "dataset-reset", event)
}

// PublishAnalysisCompleted publishes AnalysisCompleted event
func (ep *EventPublisher) PublishAnalysisCompleted(ctx context.Context, event *models.AnalysisCompletedEvent) error {
	key := fmt.Sprintf("analysis-%s", event.RunID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes incoming events to registered handlers
type EventHandler struct {
	onDatasetUploaded   func(context.Context, *models.DatasetUploadedEvent) error
	onDatasetReset      func(context.Context, *models.DatasetResetEvent) error
	onAnalysisCompleted func(context.Context, *models.AnalysisCompletedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnDatasetUploaded registers a handler for DatasetUploaded events
func (eh *EventHandler) OnDatasetUploaded(handler func(context.Context, *models.DatasetUploadedEvent) error) {
	eh.onDatasetUploaded = handler
}

// OnDatasetReset registers a handler for DatasetReset events
func (eh *EventHandler) OnDatasetReset(handler func(context.Context, *models.DatasetResetEvent) error) {
	eh.onDatasetReset = handler
}

// OnAnalysisCompleted registers a handler for AnalysisCompleted events
func (eh *EventHandler) OnAnalysisCompleted(handler func(context.Context, *models.AnalysisCompletedEvent) error) {
	eh.onAnalysisCompleted = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeDatasetUploaded:
		if eh.onDatasetUploaded != nil {
			var event models.DatasetUploadedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal DatasetUploaded event: %w", err)
			}
			return eh.onDatasetUploaded(ctx, &event)
		}

	case models.EventTypeDatasetReset:
		if eh.onDatasetReset != nil {
			var event models.DatasetResetEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal DatasetReset event: %w", err)
			}
			return eh.onDatasetReset(ctx, &event)
		}

	case models.EventTypeAnalysisCompleted:
		if eh.onAnalysisCompleted != nil {
			var event models.AnalysisCompletedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal AnalysisCompleted event: %w", err)
			}
			return eh.onAnalysisCompleted(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
