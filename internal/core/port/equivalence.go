package port

import "rental-sync-service/internal/core/features"

// EquivalenceSourcePort hands out the per-provider amenity equivalence
// tables. Tables are configuration data loaded at startup, not package-level
// globals.
type EquivalenceSourcePort interface {
	// TableFor returns the provider's table or domain.ErrUnknownProvider.
	TableFor(provider string) (features.Table, error)
}
