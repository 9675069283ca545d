package domain

// RawScrapedRecord is the provider-agnostic hand-over shape produced by the
// crawling layer for one property page. Fields that the source did not offer
// stay at their zero value; the pipeline treats missing text as a recoverable
// extraction miss, never as an error.
type RawScrapedRecord struct {
	Provider    string
	ProviderRef string

	Name      string
	City      string
	Street    string
	Country   string
	Latitude  float64
	Longitude float64

	Language    string
	Title       string
	Description string

	AreaText         string
	PriceText        string
	DepositText      string
	AvailabilityText string

	BedroomCount int
	RentalType   string
	PropertyType string
	TourURL      string

	Images    []string
	Amenities []string

	Rooms []RoomArchetype
}

// RoomArchetype is one distinct room description scraped from the source.
// When a source offers only aggregate data, the assembler fans archetypes out
// into multiple rental units.
type RoomArchetype struct {
	Name        string
	AreaText    string
	PriceText   string
	Description string
	Images      []string
	Amenities   []string
}

// RecordBuilder accumulates the partial state the crawl stages produce for
// one record. Each stage fills the fields it owns through a named setter, so
// the compiler catches a mistyped field where a loose map merge would not.
type RecordBuilder struct {
	rec RawScrapedRecord
}

func NewRecordBuilder(provider, providerRef string) *RecordBuilder {
	return &RecordBuilder{rec: RawScrapedRecord{Provider: provider, ProviderRef: providerRef}}
}

func (b *RecordBuilder) Identity(name, city string) *RecordBuilder {
	b.rec.Name = name
	b.rec.City = city
	return b
}

func (b *RecordBuilder) Address(street, country string, lat, lon float64) *RecordBuilder {
	b.rec.Street = street
	b.rec.Country = country
	b.rec.Latitude = lat
	b.rec.Longitude = lon
	return b
}

func (b *RecordBuilder) Texts(language, title, description string) *RecordBuilder {
	b.rec.Language = language
	b.rec.Title = title
	b.rec.Description = description
	return b
}

func (b *RecordBuilder) Figures(areaText, priceText, depositText string) *RecordBuilder {
	b.rec.AreaText = areaText
	b.rec.PriceText = priceText
	b.rec.DepositText = depositText
	return b
}

func (b *RecordBuilder) Availability(text string) *RecordBuilder {
	b.rec.AvailabilityText = text
	return b
}

func (b *RecordBuilder) Layout(bedrooms int, rentalType, propertyType string) *RecordBuilder {
	b.rec.BedroomCount = bedrooms
	b.rec.RentalType = rentalType
	b.rec.PropertyType = propertyType
	return b
}

func (b *RecordBuilder) Media(tourURL string, images []string) *RecordBuilder {
	b.rec.TourURL = tourURL
	b.rec.Images = images
	return b
}

func (b *RecordBuilder) Amenities(amenities []string) *RecordBuilder {
	b.rec.Amenities = amenities
	return b
}

func (b *RecordBuilder) AddRoom(room RoomArchetype) *RecordBuilder {
	b.rec.Rooms = append(b.rec.Rooms, room)
	return b
}

func (b *RecordBuilder) Build() RawScrapedRecord {
	return b.rec
}
