package usecase

import (
	"context"
	"fmt"

	"rental-sync-service/internal/contextkeys"
	"rental-sync-service/internal/core/domain"
	"rental-sync-service/internal/core/port"
)

// SyncRecordUseCase is the sync engine for one assembled record. It owns the
// create-vs-skip decisions against the inventory system: the property goes
// first, units wait for the property ID, calendar blocks are reconciled
// against remote state before writing. Idempotency rests on the reference
// codes, not on check-then-write logic.
type SyncRecordUseCase struct {
	inventory port.InventoryPort
	audit     port.AuditSinkPort
}

func NewSyncRecordUseCase(inventory port.InventoryPort, audit port.AuditSinkPort) *SyncRecordUseCase {
	return &SyncRecordUseCase{inventory: inventory, audit: audit}
}

// Execute uploads the record. A property failure cascades to its units (they
// cannot exist without a parent ID); a single unit failure is isolated and
// its siblings continue. The returned result is the only failure channel —
// nothing here aborts a batch.
func (uc *SyncRecordUseCase) Execute(ctx context.Context, assembled *domain.AssembledProperty, diagnostics []string) domain.RecordResult {
	property := assembled.Property
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":       "SyncRecord",
		"reference_code": property.ReferenceCode,
		"provider_ref":   property.ProviderRef,
	})

	result := domain.RecordResult{
		ProviderRef:  property.ProviderRef,
		PropertyCode: property.ReferenceCode,
		Diagnostics:  diagnostics,
	}

	propertyID, err := uc.inventory.SaveProperty(ctx, property)
	if err != nil {
		logger.Error("Property upload failed, skipping its rental units", err, nil)
		result.FailedStage = domain.StageUpload
		result.Message = fmt.Sprintf("property upload: %v", err)
		return result
	}
	property.ID = propertyID
	result.PropertyID = propertyID
	logger.Info("Property uploaded", port.Fields{"property_id": propertyID})

	uc.append(ctx, logger, property.Provider, property)

	for i := range assembled.Units {
		unit := assembled.Units[i].Unit
		unit.PropertyID = propertyID
		unitLogger := logger.WithFields(port.Fields{"unit_code": unit.ReferenceCode})

		unitID, err := uc.inventory.SaveRentalUnit(ctx, unit)
		if err != nil {
			// Isolated: one bad unit must not block its siblings.
			unitLogger.Error("Rental unit upload failed", err, nil)
			result.Diagnostics = append(result.Diagnostics,
				fmt.Sprintf("unit %s upload: %v", unit.ReferenceCode, err))
			continue
		}
		unit.ID = unitID
		result.UnitIDs = append(result.UnitIDs, unitID)
		unitLogger.Debug("Rental unit uploaded", port.Fields{"unit_id": unitID})

		uc.append(ctx, unitLogger, property.Provider, unit)
		uc.reconcileCalendar(ctx, unitLogger, property.Provider, unitID, assembled.Units[i].Blocks, &result)
	}

	result.Succeeded = true
	return result
}

// reconcileCalendar writes the unit's blocks, skipping any candidate whose
// end date already exists remotely. End-date equality is a coarse check:
// overlapping-but-different ranges are written anyway, favoring completeness
// over strict dedup.
func (uc *SyncRecordUseCase) reconcileCalendar(
	ctx context.Context,
	logger port.LoggerPort,
	provider string,
	unitID int,
	blocks []domain.CalendarBlock,
	result *domain.RecordResult,
) {
	if len(blocks) == 0 {
		return
	}

	existingEnds := map[string]struct{}{}
	existing, err := uc.inventory.FetchCalendar(ctx, unitID)
	if err != nil {
		// Remote state unknown: log and write everything rather than drop
		// availability data.
		logger.Warn("Could not fetch existing calendar, writing blocks unreconciled", port.Fields{"error": err.Error()})
	} else {
		for _, b := range existing {
			existingEnds[b.EndDate] = struct{}{}
		}
	}

	for _, block := range blocks {
		if block.StartDate == "" {
			continue // never upload a block without a start date
		}
		if _, dup := existingEnds[block.EndDate]; dup {
			logger.Debug("Calendar block already synchronized, skipping", port.Fields{"end_date": block.EndDate})
			continue
		}

		block.RentalUnitID = unitID
		if err := uc.inventory.SaveCalendarBlock(ctx, block); err != nil {
			logger.Error("Calendar block upload failed", err, port.Fields{"start_date": block.StartDate})
			result.Diagnostics = append(result.Diagnostics,
				fmt.Sprintf("calendar block %s/%s: %v", block.StartDate, block.EndDate, err))
			continue
		}
		uc.append(ctx, logger, provider, block)
	}
}

// append writes to the audit trail; failures there are logged, never fatal.
func (uc *SyncRecordUseCase) append(ctx context.Context, logger port.LoggerPort, provider string, record domain.AuditRecord) {
	if err := uc.audit.Append(ctx, provider, record); err != nil {
		logger.Warn("Audit sink append failed", port.Fields{"kind": record.Kind(), "error": err.Error()})
	}
}
