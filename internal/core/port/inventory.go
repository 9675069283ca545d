package port

import (
	"context"

	"rental-sync-service/internal/core/domain"
)

// InventoryPort is the outgoing contract towards the external inventory
// system of record. The system has no native upsert: create/update
// decisioning happens remotely, keyed by reference code, so callers only owe
// it stable codes.
type InventoryPort interface {
	// FetchCatalog returns the canonical element dictionaries. Implementations
	// return the raw upstream state; completeness checks belong to the caller.
	FetchCatalog(ctx context.Context) (domain.Catalog, error)

	// SaveProperty creates or updates a property by reference code and
	// returns the remote ID.
	SaveProperty(ctx context.Context, property domain.Property) (int, error)

	// SaveRentalUnit creates or updates a rental unit and returns the remote
	// ID. The unit must carry a resolved PropertyID.
	SaveRentalUnit(ctx context.Context, unit domain.RentalUnit) (int, error)

	// FetchCalendar lists the unit's existing availability blocks.
	FetchCalendar(ctx context.Context, rentalUnitID int) ([]domain.CalendarBlock, error)

	// SaveCalendarBlock appends one availability block.
	SaveCalendarBlock(ctx context.Context, block domain.CalendarBlock) error
}
