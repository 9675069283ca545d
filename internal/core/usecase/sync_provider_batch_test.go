package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"rental-sync-service/internal/core/domain"
	"rental-sync-service/internal/core/features"
)

var errUpstream = errors.New("502: upstream failed")

type fakeEquivalence struct {
	tables map[string]features.Table
}

func (f *fakeEquivalence) TableFor(provider string) (features.Table, error) {
	table, ok := f.tables[provider]
	if !ok {
		return nil, domain.ErrUnknownProvider
	}
	return table, nil
}

type fakeReportQueue struct {
	mu        sync.Mutex
	published []domain.BatchReport
}

func (f *fakeReportQueue) Publish(ctx context.Context, report domain.BatchReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, report)
	return nil
}

type fakeReportStore struct {
	mu     sync.Mutex
	latest *domain.BatchReport
}

func (f *fakeReportStore) Put(report domain.BatchReport) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest = &report
}

func (f *fakeReportStore) Latest() (domain.BatchReport, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.latest == nil {
		return domain.BatchReport{}, false
	}
	return *f.latest, true
}

func batchFixtures(inv *fakeInventory) (*SyncProviderBatchUseCase, *fakeReportQueue, *fakeReportStore) {
	equivalence := &fakeEquivalence{tables: map[string]features.Table{
		"sunnyrentals": {
			"gimnasio": {Canonical: "Gym", HasMapping: true},
			"wifi":     {Canonical: "WiFi", HasMapping: true, Scope: features.ScopeBoth},
		},
	}}
	queue := &fakeReportQueue{}
	store := &fakeReportStore{}
	uc := NewSyncProviderBatchUseCase(
		NewLoadCatalogUseCase(inv),
		NewSyncRecordUseCase(inv, &fakeAudit{}),
		equivalence,
		queue,
		store,
		2,
	)
	return uc, queue, store
}

func rawRecordFixture(ref string) domain.RawScrapedRecord {
	return domain.NewRecordBuilder("sunnyrentals", ref).
		Identity("Malaga-Centro "+ref, "Malaga").
		Texts("es", "Piso céntrico", "Luminoso piso de 85m2").
		Figures("85m2", "€1,150.00", "1.150€").
		Availability("Available from August 2025").
		Layout(2, "monthly", "Apartment").
		Amenities([]string{"gimnasio", "wifi"}).
		Build()
}

func TestSyncProviderBatchEndToEnd(t *testing.T) {
	inv := newFakeInventory()
	uc, queue, store := batchFixtures(inv)

	report, err := uc.Execute(context.Background(), "sunnyrentals",
		[]domain.RawScrapedRecord{rawRecordFixture("SR-1"), rawRecordFixture("SR-2")}, uuid.New())

	require.NoError(t, err)
	require.Equal(t, 2, report.Succeeded())
	require.Zero(t, report.Failed())
	require.Len(t, inv.savedProperties, 2)

	for _, res := range report.Results {
		require.NotEmpty(t, res.PropertyCode)
		require.NotZero(t, res.PropertyID)
		require.NotEmpty(t, res.UnitIDs, "each record yields at least one rental unit")
	}
	for _, u := range inv.savedUnits {
		require.NotEmpty(t, u.ReferenceCode)
		require.NotEmpty(t, u.FeatureIDs, "unit-scope features resolved")
	}
	for _, blocks := range inv.calendars {
		for _, b := range blocks {
			require.LessOrEqual(t, b.StartDate, b.EndDate)
		}
	}

	require.Len(t, queue.published, 1)
	latest, ok := store.Latest()
	require.True(t, ok)
	require.Len(t, latest.Results, 2)
}

func TestSyncProviderBatchUnknownProvider(t *testing.T) {
	inv := newFakeInventory()
	uc, _, _ := batchFixtures(inv)

	_, err := uc.Execute(context.Background(), "nosuchsite", nil, uuid.New())

	require.ErrorIs(t, err, domain.ErrUnknownProvider)
}

func TestSyncProviderBatchCatalogUnavailableIsFatal(t *testing.T) {
	inv := newFakeInventory()
	inv.catalog = domain.Catalog{} // transiently empty upstream
	uc, queue, _ := batchFixtures(inv)

	_, err := uc.Execute(context.Background(), "sunnyrentals",
		[]domain.RawScrapedRecord{rawRecordFixture("SR-1")}, uuid.New())

	require.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	require.Empty(t, inv.savedProperties, "no record may proceed without the catalog")
	require.Empty(t, queue.published)
}

func TestSyncProviderBatchBadRecordDoesNotSinkTheRun(t *testing.T) {
	inv := newFakeInventory()
	// SR-1's property upload fails; SR-2 must still go through.
	inv.propertyErrFor["malaga-Malaga-Centro-SR-1-001"] = errUpstream
	uc, _, _ := batchFixtures(inv)

	records := []domain.RawScrapedRecord{rawRecordFixture("SR-1"), rawRecordFixture("SR-2")}
	report, err := uc.Execute(context.Background(), "sunnyrentals", records, uuid.New())

	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	require.Equal(t, 1, report.Succeeded())
	require.Equal(t, 1, report.Failed())

	for _, res := range report.Results {
		if res.ProviderRef == "SR-1" {
			require.False(t, res.Succeeded)
			require.Equal(t, domain.StageUpload, res.FailedStage)
		} else {
			require.True(t, res.Succeeded)
		}
	}
}
