package rest

// SyncRequestDTO is the body of POST /api/v1/sync.
type SyncRequestDTO struct {
	Provider string         `json:"provider"`
	Records  []RawRecordDTO `json:"records"`
}

// RawRecordDTO mirrors the queue message record shape so both intake surfaces
// accept the same JSON.
type RawRecordDTO struct {
	ProviderRef string `json:"provider_ref"`

	Name      string  `json:"name"`
	City      string  `json:"city"`
	Street    string  `json:"street,omitempty"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`

	Language    string `json:"language,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	AreaText         string `json:"area_text,omitempty"`
	PriceText        string `json:"price_text,omitempty"`
	DepositText      string `json:"deposit_text,omitempty"`
	AvailabilityText string `json:"availability_text,omitempty"`

	BedroomCount int    `json:"bedroom_count,omitempty"`
	RentalType   string `json:"rental_type,omitempty"`
	PropertyType string `json:"property_type,omitempty"`
	TourURL      string `json:"tour_url,omitempty"`

	Images    []string `json:"images,omitempty"`
	Amenities []string `json:"amenities,omitempty"`

	Rooms []RoomArchetypeDTO `json:"rooms,omitempty"`
}

type RoomArchetypeDTO struct {
	Name        string   `json:"name"`
	AreaText    string   `json:"area_text,omitempty"`
	PriceText   string   `json:"price_text,omitempty"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`
}
