package port

import (
	"context"

	"rental-sync-service/internal/core/domain"
)

// AuditSinkPort appends successfully assembled entities to the per-provider
// audit trail. Sink failures are logged by callers and never fail the
// pipeline.
type AuditSinkPort interface {
	Append(ctx context.Context, provider string, record domain.AuditRecord) error
}
