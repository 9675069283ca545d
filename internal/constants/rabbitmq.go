package constants

// Queue names
const (
	QueueRawRecords = "raw_scraped_records"
)

// Exchanges
const (
	ExchangeSyncEvents = "sync_events"
)

// Routing keys
const (
	RoutingKeyRawRecords   = "sync.records.batch"
	RoutingKeyBatchReports = "notify.sync.report"
)

// Retry topology for the raw records queue
const (
	RetryExchangeRawRecords = "raw_scraped_records_retry_exchange"
	RetryQueueRawRecords    = "raw_scraped_records_retry_wait"

	FinalDLXRawRecords           = "raw_scraped_records_final_dlx"
	FinalDLQRawRecords           = "raw_scraped_records_final_dlq"
	FinalDLQRoutingKeyRawRecords = "raw_records.dlq.key"
)
