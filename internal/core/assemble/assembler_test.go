package assemble

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"rental-sync-service/internal/core/domain"
	"rental-sync-service/internal/core/features"
	"rental-sync-service/internal/core/port"
)

type captureLogger struct {
	warns []string
}

func (l *captureLogger) Debug(msg string, fields port.Fields)            {}
func (l *captureLogger) Info(msg string, fields port.Fields)             {}
func (l *captureLogger) Warn(msg string, fields port.Fields)             { l.warns = append(l.warns, msg) }
func (l *captureLogger) Error(msg string, err error, fields port.Fields) {}
func (l *captureLogger) WithFields(fields port.Fields) port.LoggerPort   { return l }

func testCatalog() domain.Catalog {
	return domain.Catalog{
		Features: map[string]int{
			"gym":          4,
			"wifi":         9,
			"private bath": 19,
		},
		PropertyTypes:  map[string]int{"apartment": 3, "house": 5},
		ContractModels: map[string]int{"monthly": 1, "weekly": 2},
	}
}

func testResolver() *features.Resolver {
	table := features.Table{
		"gimnasio":     {Canonical: "Gym", HasMapping: true},
		"wifi":         {Canonical: "WiFi", HasMapping: true, Scope: features.ScopeBoth},
		"baño privado": {Canonical: "Private Bath", HasMapping: true, Scope: features.ScopeUnit},
	}
	return features.NewResolver(table, testCatalog())
}

func testRecord() domain.RawScrapedRecord {
	return domain.NewRecordBuilder("sunnyrentals", "SR-9913").
		Identity("Malaga-Centro", "Malaga").
		Address("Calle Larios 4", "ES", 36.7213, -4.4214).
		Texts("es", "Piso céntrico", "<p>Luminoso piso de 85m2 en el  centro</p>").
		Figures("85 m2", "€1,150.00 al mes", "Fianza: 1.150€").
		Availability("Available from August 2025").
		Layout(5, "monthly", "Apartment").
		Media("https://tour.example/sr-9913", []string{"a.jpg", "b.jpg"}).
		Amenities([]string{"gimnasio", "wifi", "baño privado"}).
		AddRoom(domain.RoomArchetype{Name: "Habitación A", AreaText: "12m2", PriceText: "450€"}).
		AddRoom(domain.RoomArchetype{Name: "Habitación B", AreaText: "14m2", PriceText: "490€"}).
		Build()
}

func TestAssembleProperty(t *testing.T) {
	logger := &captureLogger{}
	a := NewAssembler(testCatalog(), testResolver(), logger)

	assembled, diags := a.Assemble(testRecord())

	p := assembled.Property
	require.Equal(t, "malaga-Malaga-Centro-001", p.ReferenceCode)
	require.LessOrEqual(t, len(p.ReferenceCode), 30)
	require.Equal(t, 85.0, p.Area)
	require.Equal(t, 3, p.PropertyTypeID)
	require.Equal(t, []int{4, 9}, p.FeatureIDs)
	require.Equal(t, "sunnyrentals", p.Provider)
	require.Equal(t, "SR-9913", p.ProviderRef)
	require.NotEmpty(t, p.Location.Geohash)
	require.Equal(t, "Luminoso piso de 85m2 en el centro", p.Texts[0].Description)
	// The only diagnostic on this record is the fan-out remainder.
	require.Len(t, diags, 1)
	require.Contains(t, diags[0], "remainder")
}

func TestAssembleFanOut(t *testing.T) {
	a := NewAssembler(testCatalog(), testResolver(), &captureLogger{})

	// 5 bedrooms over 2 archetypes: 5/2 = 2 units per archetype, 4 total,
	// remainder dropped without raising.
	assembled, diags := a.Assemble(testRecord())

	require.Len(t, assembled.Units, 4)
	require.Contains(t, strings.Join(diags, "; "), "remainder")

	codes := map[string]struct{}{}
	for _, u := range assembled.Units {
		codes[u.Unit.ReferenceCode] = struct{}{}
		require.LessOrEqual(t, len(u.Unit.ReferenceCode), 30)
	}
	require.Len(t, codes, 4, "unit reference codes must be unique")
	_, ok := codes["M-M-C-001"]
	require.True(t, ok)
	_, ok = codes["M-M-C-004"]
	require.True(t, ok)
}

func TestAssembleFanOutRemainderLogged(t *testing.T) {
	logger := &captureLogger{}
	a := NewAssembler(testCatalog(), testResolver(), logger)

	a.Assemble(testRecord())

	require.Len(t, logger.warns, 1)
	require.Contains(t, logger.warns[0], "remainder")
}

func TestAssembleUnitDetails(t *testing.T) {
	a := NewAssembler(testCatalog(), testResolver(), &captureLogger{})

	assembled, _ := a.Assemble(testRecord())
	first := assembled.Units[0].Unit

	require.Equal(t, 12.0, first.Area)
	require.Equal(t, 450.0, first.Price.Amount)
	require.Equal(t, "EUR", first.Price.Currency)
	require.Equal(t, "monthly", first.Price.PaymentCycle)
	require.Equal(t, 1150.0, first.Price.Deposit)
	// Unit-scope features only: wifi (both) and private bath (unit).
	require.Equal(t, []int{9, 19}, first.FeatureIDs)
	// No room description scraped, so texts are inherited from the property.
	require.Equal(t, assembled.Property.Texts, first.Texts)
}

func TestAssembleCalendarBlocks(t *testing.T) {
	a := NewAssembler(testCatalog(), testResolver(), &captureLogger{})

	assembled, _ := a.Assemble(testRecord())

	for _, u := range assembled.Units {
		require.Len(t, u.Blocks, 1)
		require.Equal(t, "2025-08-01", u.Blocks[0].StartDate)
		require.Equal(t, "2025-08-31", u.Blocks[0].EndDate)
		require.LessOrEqual(t, u.Blocks[0].StartDate, u.Blocks[0].EndDate)
	}
}

func TestAssembleDropsUnparseableAvailability(t *testing.T) {
	a := NewAssembler(testCatalog(), testResolver(), &captureLogger{})

	rec := testRecord()
	rec.AvailabilityText = "ask the landlord"
	assembled, diags := a.Assemble(rec)

	for _, u := range assembled.Units {
		require.Empty(t, u.Blocks)
	}
	require.Contains(t, strings.Join(diags, "; "), "calendar entry dropped")
}

func TestAssembleWithoutArchetypes(t *testing.T) {
	a := NewAssembler(testCatalog(), testResolver(), &captureLogger{})

	rec := testRecord()
	rec.Rooms = nil
	rec.BedroomCount = 3
	assembled, _ := a.Assemble(rec)

	// One synthesized archetype, 3/1 = 3 units.
	require.Len(t, assembled.Units, 3)
	require.Equal(t, 1150.0, assembled.Units[0].Unit.Price.Amount)
}

func TestAssembleZeroBedroomsStillYieldsAUnit(t *testing.T) {
	a := NewAssembler(testCatalog(), testResolver(), &captureLogger{})

	rec := testRecord()
	rec.Rooms = nil
	rec.BedroomCount = 0
	assembled, _ := a.Assemble(rec)

	require.Len(t, assembled.Units, 1)
}
