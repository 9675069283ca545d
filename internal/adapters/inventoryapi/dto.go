package inventoryapi

// Every inventory API response carries a {msg, data} envelope. Success is
// detected by the message text, not the HTTP status alone.

type elementDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type elementsDataDTO struct {
	Features       []elementDTO `json:"features"`
	PropertyTypes  []elementDTO `json:"property_types"`
	ContractModels []elementDTO `json:"contract_models"`
}

type savedEntityDTO struct {
	ID int `json:"id"`
}

type calendarBlockDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type localizedTextDTO struct {
	Language    string `json:"language"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type propertyRequestDTO struct {
	ReferenceCode  string             `json:"reference_code"`
	Area           float64            `json:"area"`
	RentalType     string             `json:"rental_type"`
	Active         bool               `json:"active"`
	Published      bool               `json:"published"`
	FeatureIDs     []int              `json:"feature_ids"`
	Images         []string           `json:"images"`
	Latitude       float64            `json:"latitude"`
	Longitude      float64            `json:"longitude"`
	Street         string             `json:"street,omitempty"`
	City           string             `json:"city"`
	PostalCode     string             `json:"postal_code,omitempty"`
	Country        string             `json:"country,omitempty"`
	Texts          []localizedTextDTO `json:"texts"`
	PropertyTypeID int                `json:"property_type_id"`
	TourURL        string             `json:"tour_url,omitempty"`
	Provider       string             `json:"provider"`
	ProviderRef    string             `json:"provider_ref"`
}

type rentalUnitRequestDTO struct {
	ReferenceCode   string             `json:"reference_code"`
	PropertyID      int                `json:"property_id"`
	Area            float64            `json:"area"`
	FeatureIDs      []int              `json:"feature_ids"`
	Amount          float64            `json:"amount"`
	Currency        string             `json:"currency"`
	PaymentCycle    string             `json:"payment_cycle"`
	Deposit         float64            `json:"deposit"`
	Reservation     float64            `json:"reservation"`
	MinPeriodMonths int                `json:"min_period_months"`
	Images          []string           `json:"images"`
	Texts           []localizedTextDTO `json:"texts"`
}
