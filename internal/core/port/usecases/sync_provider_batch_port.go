package usecases

import (
	"context"

	"github.com/google/uuid"

	"rental-sync-service/internal/core/domain"
)

// SyncProviderBatchPort is the single entry point the core exposes to its
// callers: normalize and upload one provider's raw record batch.
type SyncProviderBatchPort interface {
	Execute(ctx context.Context, provider string, records []domain.RawScrapedRecord, taskID uuid.UUID) (*domain.BatchReport, error)
}
