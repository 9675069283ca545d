package usecase

import (
	"context"
	"fmt"

	"rental-sync-service/internal/contextkeys"
	"rental-sync-service/internal/core/domain"
	"rental-sync-service/internal/core/port"
)

// LoadCatalogUseCase fetches the canonical element catalog and refuses to
// hand out an incomplete one. A transiently empty upstream must fail the run
// fast: proceeding with missing entries would resolve features to nothing and
// corrupt every downstream record.
type LoadCatalogUseCase struct {
	inventory port.InventoryPort
}

func NewLoadCatalogUseCase(inventory port.InventoryPort) *LoadCatalogUseCase {
	return &LoadCatalogUseCase{inventory: inventory}
}

func (uc *LoadCatalogUseCase) Execute(ctx context.Context) (domain.Catalog, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "LoadCatalog"})

	catalog, err := uc.inventory.FetchCatalog(ctx)
	if err != nil {
		logger.Error("Failed to fetch canonical element catalog", err, nil)
		return domain.Catalog{}, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	if !catalog.Complete() {
		err := fmt.Errorf("%w: upstream returned a partial catalog (features=%d, property_types=%d, contract_models=%d)",
			domain.ErrCatalogUnavailable, len(catalog.Features), len(catalog.PropertyTypes), len(catalog.ContractModels))
		logger.Error("Catalog is incomplete, refusing to proceed", err, nil)
		return domain.Catalog{}, err
	}

	logger.Info("Canonical element catalog loaded", port.Fields{
		"features":        len(catalog.Features),
		"property_types":  len(catalog.PropertyTypes),
		"contract_models": len(catalog.ContractModels),
	})
	return catalog, nil
}
