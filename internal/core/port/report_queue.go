package port

import (
	"context"

	"rental-sync-service/internal/core/domain"
)

// ReportQueuePort publishes finished batch reports for downstream consumers
// (task tracking, dashboards).
type ReportQueuePort interface {
	Publish(ctx context.Context, report domain.BatchReport) error
}

// ReportStorePort keeps the latest reports readable for the REST surface.
type ReportStorePort interface {
	Put(report domain.BatchReport)
	Latest() (domain.BatchReport, bool)
}
