package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"rental-sync-service/internal/contextkeys"
	"rental-sync-service/internal/contracts"
	"rental-sync-service/internal/core/domain"
	"rental-sync-service/internal/core/port"
	usecases_port "rental-sync-service/internal/core/port/usecases"
	"rental-sync-service/pkg/rabbitmq/rabbitmq_common"
	"rental-sync-service/pkg/rabbitmq/rabbitmq_consumer"
)

const rawRecordsEventType = "RawRecordsBatchEvent"

// RawRecordsConsumerAdapter consumes raw record batches from the crawling
// layer and feeds them into the sync use case.
type RawRecordsConsumerAdapter struct {
	consumer *rabbitmq_consumer.DistributingConsumer
	syncUC   usecases_port.SyncProviderBatchPort
	logger   port.LoggerPort
}

func NewRawRecordsConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	syncUC usecases_port.SyncProviderBatchPort,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*RawRecordsConsumerAdapter, error) {
	adapter := &RawRecordsConsumerAdapter{
		syncUC: syncUC,
		logger: logger,
	}

	pkgLogger := logger.WithFields(port.Fields{
		"component":    "rabbitmq_distributing_consumer",
		"consumer_tag": consumerCfg.ConsumerTag,
	})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewDistributingConsumer(consumerCfg, adapter.messageHandler, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for raw records: %w", err)
	}
	adapter.consumer = consumer

	return adapter, nil
}

func (a *RawRecordsConsumerAdapter) messageHandler(d amqp.Delivery) error {
	traceID, ok := d.Headers["x-trace-id"].(string)
	if !ok || traceID == "" {
		traceID = uuid.New().String()
	}

	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"delivery_tag": d.DeliveryTag,
	})

	ctx := context.Background()
	ctx = contextkeys.ContextWithLogger(ctx, msgLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	msgLogger.Info("Received raw records batch", nil)

	eventVersion, ok := d.Headers["x-event-version"].(string)
	if !ok || eventVersion == "" {
		eventVersion = "1.0.0"
	}
	if err := contracts.ValidateEvent(rawRecordsEventType, eventVersion, d.Body); err != nil {
		// A message that fails its schema will fail on every retry too.
		msgLogger.Error("Message failed schema validation, dropping", err, nil)
		return nil
	}

	var batchDTO rawRecordsBatchDTO
	if err := json.Unmarshal(d.Body, &batchDTO); err != nil {
		msgLogger.Error("Error unmarshalling batch DTO", err, nil)
		return nil
	}

	batchLogger := msgLogger.WithFields(port.Fields{
		"task_id":  batchDTO.TaskID.String(),
		"provider": batchDTO.Provider,
	})
	ctx = contextkeys.ContextWithLogger(ctx, batchLogger)

	records := make([]domain.RawScrapedRecord, 0, len(batchDTO.Records))
	for _, dto := range batchDTO.Records {
		records = append(records, toDomainRecord(batchDTO.Provider, dto))
	}

	if _, err := a.syncUC.Execute(ctx, batchDTO.Provider, records, batchDTO.TaskID); err != nil {
		batchLogger.Error("Sync use case failed", err, nil)
		return err // returning the error routes the message into the retry cycle
	}

	return nil
}

// Start implements EventListenerPort.
func (a *RawRecordsConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

// Close implements EventListenerPort.
func (a *RawRecordsConsumerAdapter) Close() error {
	return a.consumer.Close()
}
