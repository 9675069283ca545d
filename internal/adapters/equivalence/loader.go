// Package equivalence loads per-provider amenity equivalence tables from a
// directory of JSON files. One file per provider, named <provider>.json.
package equivalence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rental-sync-service/internal/core/domain"
	"rental-sync-service/internal/core/features"
	"rental-sync-service/internal/core/port"
)

// entryDTO is one line of an equivalence file. A null canonical value is the
// deliberate "known source concept, no canonical counterpart" marker.
type entryDTO struct {
	Canonical *string `json:"canonical"`
	Scope     string  `json:"scope,omitempty"`
}

type Loader struct {
	tables map[string]features.Table
}

// NewLoader reads every *.json file in dir at startup. A malformed file is a
// configuration error and fails construction; a missing provider only
// surfaces later, when a batch for it arrives.
func NewLoader(dir string, logger port.LoggerPort) (*Loader, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read equivalence dir %q: %w", dir, err)
	}

	tables := make(map[string]features.Table)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		provider := strings.TrimSuffix(entry.Name(), ".json")

		table, err := loadTable(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("provider %q: %w", provider, err)
		}
		tables[provider] = table

		logger.Info("Equivalence table loaded", port.Fields{
			"provider": provider,
			"entries":  len(table),
		})
	}

	if len(tables) == 0 {
		logger.Warn("No equivalence tables found", port.Fields{"dir": dir})
	}
	return &Loader{tables: tables}, nil
}

func loadTable(path string) (features.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read equivalence file: %w", err)
	}

	var dtos map[string]entryDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("failed to parse equivalence file: %w", err)
	}

	table := make(features.Table, len(dtos))
	for source, dto := range dtos {
		entry := features.Entry{Scope: features.Scope(dto.Scope)}
		if dto.Canonical != nil {
			entry.Canonical = *dto.Canonical
			entry.HasMapping = true
		}
		table[source] = entry
	}
	return table, nil
}

func (l *Loader) TableFor(provider string) (features.Table, error) {
	table, ok := l.tables[provider]
	if !ok {
		return nil, domain.ErrUnknownProvider
	}
	return table, nil
}
