package usecases

import (
	"context"

	"rental-sync-service/internal/core/domain"
)

// SyncRecordPort uploads one assembled property with its units and calendar
// blocks, returning the per-record outcome. Never returns an error: every
// failure mode is record-scoped and lands in the result.
type SyncRecordPort interface {
	Execute(ctx context.Context, assembled *domain.AssembledProperty, diagnostics []string) domain.RecordResult
}
