package rabbitmq

import (
	"github.com/google/uuid"

	"rental-sync-service/internal/core/domain"
)

// rawRecordsBatchDTO is the wire shape of one RawRecordsBatchEvent message.
type rawRecordsBatchDTO struct {
	TaskID   uuid.UUID      `json:"task_id"`
	Provider string         `json:"provider"`
	Records  []rawRecordDTO `json:"records"`
}

type rawRecordDTO struct {
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

	Rooms []roomArchetypeDTO `json:"rooms,omitempty"`
}

type roomArchetypeDTO struct {
	Name        string   `json:"name"`
	AreaText    string   `json:"area_text,omitempty"`
	PriceText   string   `json:"price_text,omitempty"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`
}

// toDomainRecord rebuilds the domain record through the builder, the same
// path the in-process crawl stages use.
func toDomainRecord(provider string, dto rawRecordDTO) domain.RawScrapedRecord {
	b := domain.NewRecordBuilder(provider, dto.ProviderRef).
		Identity(dto.Name, dto.City).
		Address(dto.Street, dto.Country, dto.Latitude, dto.Longitude).
		Texts(dto.Language, dto.Title, dto.Description).
		Figures(dto.AreaText, dto.PriceText, dto.DepositText).
		Availability(dto.AvailabilityText).
		Layout(dto.BedroomCount, dto.RentalType, dto.PropertyType).
		Media(dto.TourURL, dto.Images).
		Amenities(dto.Amenities)

	for _, room := range dto.Rooms {
		b.AddRoom(domain.RoomArchetype{
			Name:        room.Name,
			AreaText:    room.AreaText,
			PriceText:   room.PriceText,
			Description: room.Description,
			Images:      room.Images,
			Amenities:   room.Amenities,
		})
	}
	return b.Build()
}
