package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"rental-sync-service/internal/contextkeys"
	"rental-sync-service/internal/core/domain"
	"rental-sync-service/internal/core/port"
	"rental-sync-service/pkg/rabbitmq/rabbitmq_producer"
)

const publishTimeout = 10 * time.Second

// ReportQueueAdapter implements ReportQueuePort over RabbitMQ.
type ReportQueueAdapter struct {
	producer   *rabbitmq_producer.Publisher
	routingKey string
}

func NewReportQueueAdapter(producer *rabbitmq_producer.Publisher, routingKey string) (*ReportQueueAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	return &ReportQueueAdapter{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

func (a *ReportQueueAdapter) Publish(ctx context.Context, report domain.BatchReport) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "ReportQueueAdapter",
		"routing_key": a.routingKey,
		"task_id":     report.TaskID.String(),
	})

	reportJSON, err := json.Marshal(report)
	if err != nil {
		logger.Error("Failed to marshal batch report to JSON", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to marshal report for task %s: %w", report.TaskID, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         reportJSON,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers:      make(amqp.Table),
	}

	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	logger.Info("Publishing batch report", nil)
	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		logger.Error("Failed to publish batch report", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish report for task %s: %w", report.TaskID, err)
	}

	logger.Info("Successfully published batch report", nil)
	return nil
}
