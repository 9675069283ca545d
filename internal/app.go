package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"

	"rental-sync-service/internal/adapters/auditfile"
	"rental-sync-service/internal/adapters/equivalence"
	"rental-sync-service/internal/adapters/inventoryapi"
	logger_adapter "rental-sync-service/internal/adapters/logger"
	rabbitmq_adapter "rental-sync-service/internal/adapters/rabbitmq"
	"rental-sync-service/internal/adapters/reportstore"
	"rental-sync-service/internal/adapters/rest"
	"rental-sync-service/internal/configs"
	"rental-sync-service/internal/constants"
	"rental-sync-service/internal/core/port"
	"rental-sync-service/internal/core/usecase"
	"rental-sync-service/pkg/fluentlogger"
	"rental-sync-service/pkg/rabbitmq/rabbitmq_common"
	"rental-sync-service/pkg/rabbitmq/rabbitmq_consumer"
	"rental-sync-service/pkg/rabbitmq/rabbitmq_producer"
)

type App struct {
	config    *configs.AppConfig
	apiServer *rest.Server

	rawRecordsListener port.EventListenerPort
	eventProducer      *rabbitmq_producer.Publisher
	connManager        *rabbitmq_common.ConnectionManager

	logger       port.LoggerPort
	fluentClient *fluent.Fluent
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// Loggers
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// RabbitMQ infrastructure
	connManagerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})
	connManager, err := rabbitmq_common.NewManager(appConfig.RabbitMQ.URL, rabbitmq_adapter.NewPkgLoggerBridge(connManagerLogger))
	if err != nil {
		appLogger.Error("Failed to create connection manager", err, nil)
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

	producerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})
	eventProducer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		ExchangeName:             constants.ExchangeSyncEvents,
		ExchangeType:             "direct",
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(producerLogger),
	}, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create event producer: %w", err)
	}
	appLogger.Info("RabbitMQ Event Producer initialized.", nil)

	// Outgoing adapters
	inventoryClient := inventoryapi.NewClient(
		appConfig.Inventory.BaseURL,
		appConfig.Inventory.APIKey,
		time.Duration(appConfig.Inventory.TimeoutSeconds)*time.Second,
	)

	equivalenceLoader, err := equivalence.NewLoader(
		appConfig.Sync.EquivalenceDir,
		baseLogger.WithFields(port.Fields{"component": "equivalence_loader"}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load equivalence tables: %w", err)
	}

	auditSink := auditfile.NewWriter(
		appConfig.Sync.AuditDir,
		baseLogger.WithFields(port.Fields{"component": "audit_writer"}),
	)

	reportQueueAdapter, err := rabbitmq_adapter.NewReportQueueAdapter(eventProducer, constants.RoutingKeyBatchReports)
	if err != nil {
		return nil, fmt.Errorf("failed to create report queue adapter: %w", err)
	}

	reportStore := reportstore.NewMemory()

	// Use cases
	loadCatalogUseCase := usecase.NewLoadCatalogUseCase(inventoryClient)
	syncRecordUseCase := usecase.NewSyncRecordUseCase(inventoryClient, auditSink)
	syncProviderBatchUseCase := usecase.NewSyncProviderBatchUseCase(
		loadCatalogUseCase,
		syncRecordUseCase,
		equivalenceLoader,
		reportQueueAdapter,
		reportStore,
		appConfig.Sync.Workers,
	)
	appLogger.Info("All use cases initialized", nil)

	// Incoming adapters
	rawRecordsConsumerCfg := rabbitmq_consumer.ConsumerConfig{
		Config:              rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		QueueName:           constants.QueueRawRecords,
		RoutingKeyForBind:   constants.RoutingKeyRawRecords,
		ExchangeNameForBind: constants.ExchangeSyncEvents,
		PrefetchCount:       1,
		DurableQueue:        true,
		ConsumerTag:         "raw-records-sync-adapter",
		DeclareQueue:        true,

		EnableRetryMechanism: true,
		RetryExchange:        constants.RetryExchangeRawRecords,
		RetryQueue:           constants.RetryQueueRawRecords,
		RetryTTL:             10000,

		FinalDLXExchange:   constants.FinalDLXRawRecords,
		FinalDLQ:           constants.FinalDLQRawRecords,
		FinalDLQRoutingKey: constants.FinalDLQRoutingKeyRawRecords,

		MaxRetries: 3,
	}
	rawRecordsListener, err := rabbitmq_adapter.NewRawRecordsConsumerAdapter(rawRecordsConsumerCfg, syncProviderBatchUseCase, baseLogger, connManager)
	if err != nil {
		appLogger.Error("Failed to initialize Raw Records Listener", err, nil)
		eventProducer.Close()
		return nil, err
	}
	appLogger.Info("Raw Records Listener initialized.", nil)

	apiHandlers := rest.NewSyncHandlers(syncProviderBatchUseCase, reportStore, baseLogger)
	apiServer := rest.NewServer(appConfig.Rest.Port, apiHandlers, baseLogger)

	return &App{
		config:             appConfig,
		apiServer:          apiServer,
		rawRecordsListener: rawRecordsListener,
		eventProducer:      eventProducer,
		connManager:        connManager,
		logger:             appLogger,
		fluentClient:       fluentClient,
	}, nil
}

// Run starts every component and manages the shared lifecycle.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		a.logger.Info("Waiting for background processes to finish...", nil)
		wg.Wait()
		a.logger.Info("All background processes finished.", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}
		if a.rawRecordsListener != nil {
			if err := a.rawRecordsListener.Close(); err != nil {
				a.logger.Error("Error closing raw records listener", err, nil)
			}
		}
		if a.eventProducer != nil {
			if err := a.eventProducer.Close(); err != nil {
				a.logger.Error("Error closing event producer", err, nil)
			}
		}
		if a.connManager != nil {
			if err := a.connManager.Close(); err != nil {
				a.logger.Error("Error closing RabbitMQ connection manager", err, nil)
			}
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// stdout only: fluent may already be unreachable
				log.Printf("App: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	consumerErrors := make(chan error, 1)

	startListener := func(name string, listener port.EventListenerPort) {
		defer wg.Done()
		listenerLogger := a.logger.WithFields(port.Fields{"listener_name": name})
		listenerLogger.Info("Starting listener...", nil)

		if err := listener.Start(appCtx); err != nil {
			listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
			consumerErrors <- fmt.Errorf("%s error: %w", name, err)
		} else {
			listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}
	}

	wg.Add(1)
	go startListener("Raw Records Listener", a.rawRecordsListener)

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.Port})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or component error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received signal, shutting down", port.Fields{"signal": receivedSignal.String()})
	case err := <-consumerErrors:
		a.logger.Error("A critical component failed, shutting down", err, nil)
	case err := <-serverErrors:
		a.logger.Error("HTTP server failed to start, shutting down", err, nil)
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down", nil)
	}

	cancelApp()

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
