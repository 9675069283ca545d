// Package features resolves a provider's free-text amenity strings to
// canonical feature IDs through a per-provider equivalence table.
package features

import (
	"fmt"
	"sort"
	"strings"

	"rental-sync-service/internal/core/domain"
)

// Scope says which entity level a canonical feature applies to.
type Scope string

const (
	ScopeProperty Scope = "property"
	ScopeUnit     Scope = "unit"
	ScopeBoth     Scope = "both"
)

// Entry is one equivalence mapping. HasMapping=false records the deliberate
// "we know this source concept, it has no canonical counterpart" case, which
// skips silently instead of producing a diagnostic.
type Entry struct {
	Canonical  string
	HasMapping bool
	Scope      Scope
}

// Table maps a provider's source labels to equivalence entries. Keys are
// matched case-insensitively.
type Table map[string]Entry

// MissReason classifies why a source string produced no feature ID.
type MissReason string

const (
	ReasonUnmapped     MissReason = "no equivalence entry"
	ReasonNotInCatalog MissReason = "canonical label not in catalog"
)

// Miss is a non-fatal resolution diagnostic. Partial feature coverage is
// expected; misses are surfaced for observability, never abort a record.
type Miss struct {
	Source string
	Reason MissReason
}

func (m Miss) String() string {
	return fmt.Sprintf("feature %q: %s", m.Source, m.Reason)
}

// Resolver holds one provider's equivalence table pre-normalized against one
// catalog snapshot. Read-only after construction, safe for concurrent use.
type Resolver struct {
	entries  map[string]Entry // keys and canonical labels lowercased
	features map[string]int   // catalog labels lowercased
}

// NewResolver lowercases the table's keys and canonical labels and the
// catalog's feature labels once up front; source vocabularies and catalog
// casing are never guaranteed consistent.
func NewResolver(table Table, catalog domain.Catalog) *Resolver {
	entries := make(map[string]Entry, len(table))
	for source, entry := range table {
		if entry.Scope == "" {
			entry.Scope = ScopeProperty
		}
		entry.Canonical = strings.ToLower(strings.TrimSpace(entry.Canonical))
		entries[strings.ToLower(strings.TrimSpace(source))] = entry
	}

	features := make(map[string]int, len(catalog.Features))
	for label, id := range catalog.Features {
		features[strings.ToLower(strings.TrimSpace(label))] = id
	}

	return &Resolver{entries: entries, features: features}
}

// Resolved is the outcome of resolving one record's amenity list: the
// deduplicated canonical IDs split by scope, plus the misses.
type Resolved struct {
	PropertyIDs []int
	UnitIDs     []int
	Misses      []Miss
}

// Resolve maps source amenity strings to canonical feature IDs. The result
// sets are deduplicated and sorted; order carries no meaning, sorting only
// keeps re-runs byte-identical for the audit trail.
func (r *Resolver) Resolve(sourceFeatures []string) Resolved {
	propertySet := map[int]struct{}{}
	unitSet := map[int]struct{}{}
	var misses []Miss

	for _, raw := range sourceFeatures {
		source := strings.ToLower(strings.TrimSpace(raw))
		if source == "" {
			continue
		}

		entry, ok := r.entries[source]
		if !ok {
			misses = append(misses, Miss{Source: raw, Reason: ReasonUnmapped})
			continue
		}
		if !entry.HasMapping {
			continue // deliberate no-mapping, skip silently
		}

		id, ok := r.features[entry.Canonical]
		if !ok {
			misses = append(misses, Miss{Source: raw, Reason: ReasonNotInCatalog})
			continue
		}

		switch entry.Scope {
		case ScopeUnit:
			unitSet[id] = struct{}{}
		case ScopeBoth:
			propertySet[id] = struct{}{}
			unitSet[id] = struct{}{}
		default:
			propertySet[id] = struct{}{}
		}
	}

	return Resolved{
		PropertyIDs: sortedIDs(propertySet),
		UnitIDs:     sortedIDs(unitSet),
		Misses:      misses,
	}
}

func sortedIDs(set map[int]struct{}) []int {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
