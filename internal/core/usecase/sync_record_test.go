package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"rental-sync-service/internal/core/domain"
)

// fakeInventory is an in-memory stand-in for the inventory API. Calendar
// state accumulates across calls so reconciliation can be exercised over
// repeated runs.
type fakeInventory struct {
	mu sync.Mutex

	catalog        domain.Catalog
	catalogErr     error
	propertyErr    error
	propertyErrFor map[string]error // by property reference code
	unitErr        map[string]error // by unit reference code

	nextID          int
	idByCode        map[string]int // the remote side updates, not duplicates
	savedProperties []domain.Property
	savedUnits      []domain.RentalUnit
	calendars       map[int][]domain.CalendarBlock
	calendarWrites  int
	calendarErr     error
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{
		catalog: domain.Catalog{
			Features:       map[string]int{"gym": 4, "wifi": 9},
			PropertyTypes:  map[string]int{"apartment": 3},
			ContractModels: map[string]int{"monthly": 1},
		},
		unitErr:        map[string]error{},
		propertyErrFor: map[string]error{},
		idByCode:       map[string]int{},
		calendars:      map[int][]domain.CalendarBlock{},
	}
}

func (f *fakeInventory) FetchCatalog(ctx context.Context) (domain.Catalog, error) {
	return f.catalog, f.catalogErr
}

func (f *fakeInventory) SaveProperty(ctx context.Context, p domain.Property) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.propertyErr != nil {
		return 0, f.propertyErr
	}
	if err := f.propertyErrFor[p.ReferenceCode]; err != nil {
		return 0, err
	}
	f.savedProperties = append(f.savedProperties, p)
	return f.assignID(p.ReferenceCode), nil
}

func (f *fakeInventory) assignID(code string) int {
	if id, ok := f.idByCode[code]; ok {
		return id
	}
	f.nextID++
	f.idByCode[code] = f.nextID
	return f.nextID
}

func (f *fakeInventory) SaveRentalUnit(ctx context.Context, u domain.RentalUnit) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.unitErr[u.ReferenceCode]; err != nil {
		return 0, err
	}
	f.savedUnits = append(f.savedUnits, u)
	return f.assignID(u.ReferenceCode), nil
}

func (f *fakeInventory) FetchCalendar(ctx context.Context, unitID int) ([]domain.CalendarBlock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calendarErr != nil {
		return nil, f.calendarErr
	}
	return f.calendars[unitID], nil
}

func (f *fakeInventory) SaveCalendarBlock(ctx context.Context, b domain.CalendarBlock) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calendarWrites++
	f.calendars[b.RentalUnitID] = append(f.calendars[b.RentalUnitID], b)
	return nil
}

type fakeAudit struct {
	mu      sync.Mutex
	kinds   []string
	failing bool
}

func (f *fakeAudit) Append(ctx context.Context, provider string, rec domain.AuditRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("disk full")
	}
	f.kinds = append(f.kinds, rec.Kind())
	return nil
}

func assembledFixture() *domain.AssembledProperty {
	block := domain.CalendarBlock{StartDate: "2025-08-01", EndDate: "2025-08-31"}
	return &domain.AssembledProperty{
		Property: domain.Property{
			ReferenceCode: "malaga-Malaga-Centro-001",
			Provider:      "sunnyrentals",
			ProviderRef:   "SR-9913",
		},
		Units: []domain.AssembledUnit{
			{Unit: domain.RentalUnit{ReferenceCode: "M-M-C-001"}, Blocks: []domain.CalendarBlock{block}},
			{Unit: domain.RentalUnit{ReferenceCode: "M-M-C-002"}, Blocks: []domain.CalendarBlock{block}},
		},
	}
}

func TestSyncRecordHappyPath(t *testing.T) {
	inv := newFakeInventory()
	audit := &fakeAudit{}
	uc := NewSyncRecordUseCase(inv, audit)

	result := uc.Execute(context.Background(), assembledFixture(), nil)

	require.True(t, result.Succeeded)
	require.Equal(t, 1, result.PropertyID)
	require.Len(t, result.UnitIDs, 2)
	require.Len(t, inv.savedUnits, 2)
	require.Equal(t, 1, inv.savedUnits[0].PropertyID, "units carry the resolved property ID")
	require.Equal(t, 2, inv.calendarWrites)
	require.Contains(t, audit.kinds, "property")
	require.Contains(t, audit.kinds, "rental_unit")
	require.Contains(t, audit.kinds, "calendar_block")
}

func TestSyncRecordPropertyFailureCascades(t *testing.T) {
	inv := newFakeInventory()
	inv.propertyErr = errors.New("422: reference code rejected")
	uc := NewSyncRecordUseCase(inv, &fakeAudit{})

	result := uc.Execute(context.Background(), assembledFixture(), nil)

	require.False(t, result.Succeeded)
	require.Equal(t, domain.StageUpload, result.FailedStage)
	require.Empty(t, inv.savedUnits, "units must not upload without a parent ID")
	require.Zero(t, inv.calendarWrites)
}

func TestSyncRecordUnitFailureIsIsolated(t *testing.T) {
	inv := newFakeInventory()
	inv.unitErr["M-M-C-001"] = errors.New("500: upstream hiccup")
	uc := NewSyncRecordUseCase(inv, &fakeAudit{})

	result := uc.Execute(context.Background(), assembledFixture(), nil)

	require.True(t, result.Succeeded, "one bad unit must not fail the record")
	require.Len(t, result.UnitIDs, 1)
	require.Len(t, inv.savedUnits, 1)
	require.Equal(t, "M-M-C-002", inv.savedUnits[0].ReferenceCode)
	require.NotEmpty(t, result.Diagnostics)
}

func TestSyncRecordCalendarReconciliationIsIdempotent(t *testing.T) {
	inv := newFakeInventory()
	uc := NewSyncRecordUseCase(inv, &fakeAudit{})

	uc.Execute(context.Background(), assembledFixture(), nil)
	firstRunWrites := inv.calendarWrites
	require.Equal(t, 2, firstRunWrites)

	// Second run against unchanged remote state: every candidate end date
	// already exists, so nothing new is written.
	uc.Execute(context.Background(), assembledFixture(), nil)
	require.Equal(t, firstRunWrites, inv.calendarWrites)
}

func TestSyncRecordSkipsBlocksWithoutStartDate(t *testing.T) {
	inv := newFakeInventory()
	uc := NewSyncRecordUseCase(inv, &fakeAudit{})

	assembled := assembledFixture()
	assembled.Units[0].Blocks = []domain.CalendarBlock{{StartDate: "", EndDate: "2025-08-31"}}
	assembled.Units = assembled.Units[:1]

	uc.Execute(context.Background(), assembled, nil)

	require.Zero(t, inv.calendarWrites)
}

func TestSyncRecordWritesUnreconciledWhenCalendarFetchFails(t *testing.T) {
	inv := newFakeInventory()
	inv.calendarErr = errors.New("timeout")
	uc := NewSyncRecordUseCase(inv, &fakeAudit{})

	result := uc.Execute(context.Background(), assembledFixture(), nil)

	// Unknown remote state: completeness wins over strict dedup.
	require.True(t, result.Succeeded)
	require.Equal(t, 2, inv.calendarWrites)
}

func TestSyncRecordAuditFailureIsNonFatal(t *testing.T) {
	inv := newFakeInventory()
	uc := NewSyncRecordUseCase(inv, &fakeAudit{failing: true})

	result := uc.Execute(context.Background(), assembledFixture(), nil)

	require.True(t, result.Succeeded)
	require.Len(t, result.UnitIDs, 2)
}
