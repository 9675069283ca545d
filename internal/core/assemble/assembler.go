// Package assemble builds canonical Property, RentalUnit and CalendarBlock
// objects from one raw scraped record. Construction happens here and only
// here; the sync engine decides what to do with the result.
package assemble

import (
	"fmt"
	"strings"

	"github.com/mmcloughlin/geohash"

	"rental-sync-service/internal/core/domain"
	"rental-sync-service/internal/core/extract"
	"rental-sync-service/internal/core/features"
	"rental-sync-service/internal/core/port"
	"rental-sync-service/internal/core/refcode"
)

const (
	defaultLanguage     = "en"
	defaultCurrency     = "EUR"
	defaultPaymentCycle = "monthly"
)

// Assembler turns raw records into assembled properties against one catalog
// snapshot. Read-only after construction; one assembler may serve all workers
// of a batch.
type Assembler struct {
	catalog  domain.Catalog
	resolver *features.Resolver
	logger   port.LoggerPort
}

func NewAssembler(catalog domain.Catalog, resolver *features.Resolver, logger port.LoggerPort) *Assembler {
	return &Assembler{catalog: catalog, resolver: resolver, logger: logger}
}

// Assemble builds the property and fans out its rental units. Extraction and
// resolution misses are returned as diagnostics, never as errors: partial
// records are expected and the sync engine uploads what could be assembled.
func (a *Assembler) Assemble(rec domain.RawScrapedRecord) (*domain.AssembledProperty, []string) {
	var diags []string

	code := refcode.PropertyCode(rec.Name, rec.City)
	logger := a.logger.WithFields(port.Fields{"provider": rec.Provider, "reference_code": code})

	resolved := a.resolver.Resolve(rec.Amenities)
	for _, miss := range resolved.Misses {
		diags = append(diags, miss.String())
	}

	area, ok := extract.Area(rec.AreaText)
	if !ok {
		// Some sources only mention the size inside the description.
		if area, ok = extract.Area(rec.Description); !ok {
			diags = append(diags, "area: no value")
		}
	}

	property := domain.Property{
		ReferenceCode:  code,
		Area:           area,
		RentalType:     rec.RentalType,
		Active:         true,
		Published:      true,
		FeatureIDs:     resolved.PropertyIDs,
		Images:         rec.Images,
		Location:       a.buildLocation(rec),
		Texts:          a.buildTexts(rec),
		PropertyTypeID: a.lookupPropertyType(rec.PropertyType, &diags),
		TourURL:        rec.TourURL,
		Provider:       rec.Provider,
		ProviderRef:    rec.ProviderRef,
	}

	blocks, blockDiags := a.buildBlocks(rec)
	diags = append(diags, blockDiags...)

	units, fanoutDiags := a.fanOutUnits(rec, property, resolved.UnitIDs, blocks, logger)
	diags = append(diags, fanoutDiags...)

	return &domain.AssembledProperty{Property: property, Units: units}, diags
}

func (a *Assembler) buildLocation(rec domain.RawScrapedRecord) domain.Location {
	loc := domain.Location{
		Latitude:  rec.Latitude,
		Longitude: rec.Longitude,
		Street:    rec.Street,
		City:      rec.City,
		Country:   rec.Country,
	}
	if rec.Latitude != 0 || rec.Longitude != 0 {
		loc.Geohash = geohash.Encode(rec.Latitude, rec.Longitude)
	}
	return loc
}

func (a *Assembler) buildTexts(rec domain.RawScrapedRecord) []domain.LocalizedText {
	language := rec.Language
	if language == "" {
		language = defaultLanguage
	}
	title := rec.Title
	if title == "" {
		title = rec.Name
	}
	return []domain.LocalizedText{{
		Language:    language,
		Title:       extract.CollapseWhitespace(title),
		Description: extract.CleanDescription(rec.Description),
	}}
}

func (a *Assembler) lookupPropertyType(label string, diags *[]string) int {
	if label == "" {
		return 0
	}
	if id, ok := a.catalog.PropertyTypes[strings.ToLower(strings.TrimSpace(label))]; ok {
		return id
	}
	*diags = append(*diags, fmt.Sprintf("property type %q not in catalog", label))
	return 0
}

// buildBlocks parses the availability window into at most one calendar
// block. An unparseable window yields no block: entries without a start date
// must never reach upload.
func (a *Assembler) buildBlocks(rec domain.RawScrapedRecord) ([]domain.CalendarBlock, []string) {
	if rec.AvailabilityText == "" {
		return nil, nil
	}
	start, end, ok := extract.MonthWindow(rec.AvailabilityText)
	if !ok {
		return nil, []string{fmt.Sprintf("availability %q: no value, calendar entry dropped", rec.AvailabilityText)}
	}
	return []domain.CalendarBlock{{StartDate: start, EndDate: end}}, nil
}

// fanOutUnits synthesizes rental units when the source offers only a bedroom
// count and generic room descriptions: bedrooms / archetypes instances per
// archetype, both inputs floored at 1 before dividing. Remainder bedrooms are
// not represented; the shortfall is logged so the under-count stays visible.
func (a *Assembler) fanOutUnits(
	rec domain.RawScrapedRecord,
	property domain.Property,
	unitFeatureIDs []int,
	blocks []domain.CalendarBlock,
	logger port.LoggerPort,
) ([]domain.AssembledUnit, []string) {
	var diags []string

	archetypes := rec.Rooms
	if len(archetypes) == 0 {
		archetypes = []domain.RoomArchetype{{
			Name:        rec.Name,
			AreaText:    rec.AreaText,
			PriceText:   rec.PriceText,
			Description: rec.Description,
			Images:      rec.Images,
		}}
	}

	bedrooms := rec.BedroomCount
	if bedrooms < 1 {
		bedrooms = 1
	}

	perArchetype := bedrooms / len(archetypes)
	if remainder := bedrooms - perArchetype*len(archetypes); remainder > 0 {
		logger.Warn("bedroom count not divisible by room archetypes, remainder not represented", port.Fields{
			"bedrooms":   bedrooms,
			"archetypes": len(archetypes),
			"remainder":  remainder,
		})
		diags = append(diags, fmt.Sprintf("fan-out: %d remainder bedroom(s) not represented", remainder))
	}

	units := make([]domain.AssembledUnit, 0, perArchetype*len(archetypes))
	index := 0
	for _, arch := range archetypes {
		for i := 0; i < perArchetype; i++ {
			unit, unitDiags := a.buildUnit(rec, property, arch, unitFeatureIDs, index)
			diags = append(diags, unitDiags...)
			units = append(units, domain.AssembledUnit{Unit: unit, Blocks: blocks})
			index++
		}
	}
	return units, diags
}

func (a *Assembler) buildUnit(
	rec domain.RawScrapedRecord,
	property domain.Property,
	arch domain.RoomArchetype,
	unitFeatureIDs []int,
	index int,
) (domain.RentalUnit, []string) {
	var diags []string

	code := refcode.UnitCode(property.ReferenceCode, index)

	area, ok := extract.Area(arch.AreaText)
	if !ok {
		area = property.Area
	}

	amount, ok := extract.Cost(arch.PriceText)
	if !ok {
		if amount, ok = extract.Cost(rec.PriceText); !ok {
			diags = append(diags, fmt.Sprintf("unit %s: cost has no value, defaulting to zero", code))
		}
	}
	deposit, _ := extract.Cost(rec.DepositText)

	featureIDs := unitFeatureIDs
	if len(arch.Amenities) > 0 {
		archResolved := a.resolver.Resolve(arch.Amenities)
		for _, miss := range archResolved.Misses {
			diags = append(diags, miss.String())
		}
		featureIDs = mergeIDs(unitFeatureIDs, archResolved.UnitIDs)
	}

	images := arch.Images
	if len(images) == 0 {
		images = property.Images
	}

	texts := property.Texts
	if arch.Description != "" {
		title := arch.Name
		if title == "" {
			title = rec.Name
		}
		texts = []domain.LocalizedText{{
			Language:    property.Texts[0].Language,
			Title:       extract.CollapseWhitespace(title),
			Description: extract.CleanDescription(arch.Description),
		}}
	}

	return domain.RentalUnit{
		ReferenceCode: code,
		Area:          area,
		FeatureIDs:    featureIDs,
		Price: domain.Price{
			Amount:       amount,
			Currency:     defaultCurrency,
			PaymentCycle: a.paymentCycle(rec.RentalType),
			Deposit:      deposit,
		},
		Images: images,
		Texts:  texts,
	}, diags
}

// paymentCycle maps the scraped rental type onto a catalog contract model
// label when one matches, defaulting to monthly.
func (a *Assembler) paymentCycle(rentalType string) string {
	label := strings.ToLower(strings.TrimSpace(rentalType))
	if _, ok := a.catalog.ContractModels[label]; ok {
		return label
	}
	return defaultPaymentCycle
}

func mergeIDs(a, b []int) []int {
	seen := make(map[int]struct{}, len(a)+len(b))
	out := make([]int, 0, len(a)+len(b))
	for _, ids := range [][]int{a, b} {
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
