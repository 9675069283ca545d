package domain

// Catalog holds the canonical element dictionaries fetched from the inventory
// system at the start of a run. Labels are stored lowercased; the catalog is
// read-only after load, so concurrent workers may share one copy.
type Catalog struct {
	Features       map[string]int
	PropertyTypes  map[string]int
	ContractModels map[string]int
}

// Complete reports whether every dictionary carries at least one entry.
// A partial catalog would silently resolve features to nothing downstream,
// so callers must treat an incomplete catalog as fatal.
func (c Catalog) Complete() bool {
	return len(c.Features) > 0 && len(c.PropertyTypes) > 0 && len(c.ContractModels) > 0
}

// LocalizedText is a title/description pair in one language.
type LocalizedText struct {
	Language    string `json:"language"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Location holds the address parts of a property. Geohash is derived from
// the coordinates when both are present.
type Location struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Geohash    string  `json:"geohash,omitempty"`
	Street     string  `json:"street,omitempty"`
	City       string  `json:"city"`
	PostalCode string  `json:"postal_code,omitempty"`
	Country    string  `json:"country,omitempty"`
}

// Property is the canonical representation of one scraped building/listing.
// Identity is ReferenceCode: it is derived deterministically from source
// fields so a re-run uploads the same code and the inventory system updates
// instead of duplicating. ID is zero until the sync engine's create call
// returns.
type Property struct {
	ID             int             `json:"id,omitempty"`
	ReferenceCode  string          `json:"reference_code"`
	Area           float64         `json:"area"`
	RentalType     string          `json:"rental_type"`
	Active         bool            `json:"active"`
	Published      bool            `json:"published"`
	FeatureIDs     []int           `json:"feature_ids"`
	Images         []string        `json:"images"` // ordered, first one is the cover
	Location       Location        `json:"location"`
	Texts          []LocalizedText `json:"texts"`
	PropertyTypeID int             `json:"property_type_id"`
	TourURL        string          `json:"tour_url,omitempty"`
	Provider       string          `json:"provider"`
	ProviderRef    string          `json:"provider_ref"`
}

// Price describes the rental conditions of a unit.
type Price struct {
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	PaymentCycle    string  `json:"payment_cycle"`
	Deposit         float64 `json:"deposit"`
	Reservation     float64 `json:"reservation"`
	MinPeriodMonths int     `json:"min_period_months"`
}

// RentalUnit is one rentable room/unit inside a Property. PropertyID is only
// resolvable after the parent property has been uploaded.
type RentalUnit struct {
	ID            int             `json:"id,omitempty"`
	ReferenceCode string          `json:"reference_code"`
	PropertyID    int             `json:"property_id"`
	Area          float64         `json:"area"`
	FeatureIDs    []int           `json:"feature_ids"`
	Price         Price           `json:"price"`
	Images        []string        `json:"images"`
	Texts         []LocalizedText `json:"texts"`
}

// CalendarBlock marks a rental unit as not available between StartDate and
// EndDate (inclusive, YYYY-MM-DD). A block with no parseable start date is
// dropped before upload.
type CalendarBlock struct {
	RentalUnitID int    `json:"rental_unit_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

// AssembledUnit pairs a rental unit with the calendar blocks assembled for
// it. The blocks carry no RentalUnitID yet; the sync engine fills it in after
// the unit upload returns an ID.
type AssembledUnit struct {
	Unit   RentalUnit
	Blocks []CalendarBlock
}

// AssembledProperty is the full output of the entity assembler for one
// scraped record: the property plus its fanned-out units.
type AssembledProperty struct {
	Property Property
	Units    []AssembledUnit
}
