package usecases

import (
	"context"

	"rental-sync-service/internal/core/domain"
)

// LoadCatalogPort fetches and validates the canonical element catalog.
type LoadCatalogPort interface {
	Execute(ctx context.Context) (domain.Catalog, error)
}
