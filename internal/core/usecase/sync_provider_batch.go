package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"rental-sync-service/internal/contextkeys"
	"rental-sync-service/internal/core/assemble"
	"rental-sync-service/internal/core/domain"
	"rental-sync-service/internal/core/features"
	"rental-sync-service/internal/core/port"
	usecases_port "rental-sync-service/internal/core/port/usecases"
)

// SyncProviderBatchUseCase is the core's single entry point: it loads the
// catalog once per run, then normalizes and uploads every raw record of one
// provider batch. Records are independent, so they fan out across workers —
// but one worker owns all entities of one record, which keeps the
// property→unit ordering and the calendar read-then-write cycle free of
// cross-worker races.
type SyncProviderBatchUseCase struct {
	loadCatalog usecases_port.LoadCatalogPort
	syncRecord  usecases_port.SyncRecordPort
	equivalence port.EquivalenceSourcePort
	reportQueue port.ReportQueuePort
	reportStore port.ReportStorePort
	workers     int
}

func NewSyncProviderBatchUseCase(
	loadCatalog usecases_port.LoadCatalogPort,
	syncRecord usecases_port.SyncRecordPort,
	equivalence port.EquivalenceSourcePort,
	reportQueue port.ReportQueuePort,
	reportStore port.ReportStorePort,
	workers int,
) *SyncProviderBatchUseCase {
	if workers < 1 {
		workers = 1
	}
	return &SyncProviderBatchUseCase{
		loadCatalog: loadCatalog,
		syncRecord:  syncRecord,
		equivalence: equivalence,
		reportQueue: reportQueue,
		reportStore: reportStore,
		workers:     workers,
	}
}

// Execute runs the batch to completion: a bad record lands in the report and
// never sinks the run. Only a missing equivalence table or an unavailable
// catalog fails the whole batch.
func (uc *SyncProviderBatchUseCase) Execute(
	ctx context.Context,
	provider string,
	records []domain.RawScrapedRecord,
	taskID uuid.UUID,
) (*domain.BatchReport, error) {
	baseLogger := contextkeys.LoggerFromContext(ctx)
	logger := baseLogger.WithFields(port.Fields{
		"use_case": "SyncProviderBatch",
		"provider": provider,
		"task_id":  taskID.String(),
	})
	logger.Info("Batch started", port.Fields{"record_count": len(records)})

	table, err := uc.equivalence.TableFor(provider)
	if err != nil {
		logger.Error("No equivalence table for provider", err, nil)
		return nil, fmt.Errorf("provider %q: %w", provider, err)
	}

	catalog, err := uc.loadCatalog.Execute(ctx)
	if err != nil {
		return nil, err
	}

	resolver := features.NewResolver(table, catalog)
	assembler := assemble.NewAssembler(catalog, resolver, logger)

	report := &domain.BatchReport{
		TaskID:    taskID,
		Provider:  provider,
		StartedAt: time.Now().UTC(),
		Results:   make([]domain.RecordResult, 0, len(records)),
	}

	jobs := make(chan domain.RawScrapedRecord)
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for w := 0; w < uc.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range jobs {
				result := uc.processOne(ctx, assembler, rec)
				mu.Lock()
				report.Results = append(report.Results, result)
				mu.Unlock()
			}
		}()
	}

feed:
	for _, rec := range records {
		select {
		case jobs <- rec:
		case <-ctx.Done():
			logger.Warn("Context cancelled, stopping batch feed", nil)
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	report.FinishedAt = time.Now().UTC()
	logger.Info("Batch finished", port.Fields{
		"succeeded": report.Succeeded(),
		"failed":    report.Failed(),
	})

	uc.reportStore.Put(*report)
	if err := uc.reportQueue.Publish(ctx, *report); err != nil {
		// The sync already happened; a lost report must not fail the batch.
		logger.Error("Failed to publish batch report", err, nil)
	}

	return report, nil
}

func (uc *SyncProviderBatchUseCase) processOne(
	ctx context.Context,
	assembler *assemble.Assembler,
	rec domain.RawScrapedRecord,
) domain.RecordResult {
	assembled, diags := assembler.Assemble(rec)
	result := uc.syncRecord.Execute(ctx, assembled, diags)
	if result.ProviderRef == "" {
		result.ProviderRef = rec.ProviderRef
	}
	return result
}
