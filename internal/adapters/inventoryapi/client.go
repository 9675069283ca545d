// Package inventoryapi is the outgoing HTTP adapter towards the external
// inventory system of record.
package inventoryapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rental-sync-service/internal/contextkeys"
	"rental-sync-service/internal/core/domain"
	"rental-sync-service/internal/core/port"
)

// successMsgSuffix is how the inventory API signals a persisted entity:
// "Property saved successfully!", "Rental unit saved successfully!", etc.
// Any other message shape is a failure even on HTTP 200.
const successMsgSuffix = "saved successfully!"

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds the adapter. The timeout bounds every call so a stuck
// upstream cannot stall a whole batch.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) doRequest(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

func (c *Client) FetchCatalog(ctx context.Context) (domain.Catalog, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "InventoryApiClient",
		"method":    "FetchCatalog",
	})

	url := c.baseURL + "/api/v1/elements"
	logger.Debug("Sending request to inventory API", port.Fields{"url": url})

	resp, err := c.doRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		logger.Error("Failed to perform request to inventory API", err, nil)
		return domain.Catalog{}, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		logger.Error("Received error response from inventory API", err, port.Fields{"status_code": resp.StatusCode})
		return domain.Catalog{}, err
	}

	var env struct {
		Msg  string          `json:"msg"`
		Data elementsDataDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		logger.Error("Failed to decode elements response", err, nil)
		return domain.Catalog{}, err
	}

	catalog := domain.Catalog{
		Features:       elementsToMap(env.Data.Features),
		PropertyTypes:  elementsToMap(env.Data.PropertyTypes),
		ContractModels: elementsToMap(env.Data.ContractModels),
	}
	logger.Info("Catalog fetched", port.Fields{
		"features":        len(catalog.Features),
		"property_types":  len(catalog.PropertyTypes),
		"contract_models": len(catalog.ContractModels),
	})
	return catalog, nil
}

// elementsToMap keys the catalog by lowercased label: the resolver compares
// case-insensitively and the catalog's own casing is not guaranteed stable.
func elementsToMap(elements []elementDTO) map[string]int {
	m := make(map[string]int, len(elements))
	for _, e := range elements {
		m[strings.ToLower(strings.TrimSpace(e.Name))] = e.ID
	}
	return m
}

func (c *Client) SaveProperty(ctx context.Context, property domain.Property) (int, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":      "InventoryApiClient",
		"method":         "SaveProperty",
		"reference_code": property.ReferenceCode,
	})
	return c.saveEntity(ctx, logger, c.baseURL+"/api/v1/properties", toPropertyDTO(property))
}

func (c *Client) SaveRentalUnit(ctx context.Context, unit domain.RentalUnit) (int, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":      "InventoryApiClient",
		"method":         "SaveRentalUnit",
		"reference_code": unit.ReferenceCode,
	})
	return c.saveEntity(ctx, logger, c.baseURL+"/api/v1/rental-units", toRentalUnitDTO(unit))
}

// saveEntity POSTs the payload and extracts the saved entity ID. The remote
// side decides create-vs-update by reference code.
func (c *Client) saveEntity(ctx context.Context, logger port.LoggerPort, url string, payload any) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal payload: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		logger.Error("Failed to perform request to inventory API", err, nil)
		return 0, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		logger.Error("Received error response from inventory API", err, port.Fields{"status_code": resp.StatusCode})
		return 0, err
	}

	var env struct {
		Msg  string         `json:"msg"`
		Data savedEntityDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		logger.Error("Failed to decode save response", err, nil)
		return 0, err
	}
	if !strings.HasSuffix(env.Msg, successMsgSuffix) {
		err := fmt.Errorf("inventory API did not confirm save: %q", env.Msg)
		logger.Error("Unexpected response message", err, nil)
		return 0, err
	}

	logger.Debug("Entity saved", port.Fields{"id": env.Data.ID})
	return env.Data.ID, nil
}

func (c *Client) FetchCalendar(ctx context.Context, rentalUnitID int) ([]domain.CalendarBlock, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":      "InventoryApiClient",
		"method":         "FetchCalendar",
		"rental_unit_id": rentalUnitID,
	})

	url := fmt.Sprintf("%s/api/v1/rental-units/%d/calendar", c.baseURL, rentalUnitID)
	resp, err := c.doRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		logger.Error("Failed to perform request to inventory API", err, nil)
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		logger.Error("Received error response from inventory API", err, port.Fields{"status_code": resp.StatusCode})
		return nil, err
	}

	var env struct {
		Msg  string             `json:"msg"`
		Data []calendarBlockDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		logger.Error("Failed to decode calendar response", err, nil)
		return nil, err
	}

	blocks := make([]domain.CalendarBlock, len(env.Data))
	for i, dto := range env.Data {
		blocks[i] = domain.CalendarBlock{
			RentalUnitID: rentalUnitID,
			StartDate:    dto.StartDate,
			EndDate:      dto.EndDate,
		}
	}
	return blocks, nil
}

func (c *Client) SaveCalendarBlock(ctx context.Context, block domain.CalendarBlock) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":      "InventoryApiClient",
		"method":         "SaveCalendarBlock",
		"rental_unit_id": block.RentalUnitID,
	})

	url := fmt.Sprintf("%s/api/v1/rental-units/%d/calendar", c.baseURL, block.RentalUnitID)
	_, err := c.saveEntity(ctx, logger, url, calendarBlockDTO{
		StartDate: block.StartDate,
		EndDate:   block.EndDate,
	})
	return err
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	bodyBytes, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("inventory API returned non-success status code %d: %s", resp.StatusCode, string(bodyBytes))
}

func toPropertyDTO(p domain.Property) propertyRequestDTO {
	return propertyRequestDTO{
		ReferenceCode:  p.ReferenceCode,
		Area:           p.Area,
		RentalType:     p.RentalType,
		Active:         p.Active,
		Published:      p.Published,
		FeatureIDs:     p.FeatureIDs,
		Images:         p.Images,
		Latitude:       p.Location.Latitude,
		Longitude:      p.Location.Longitude,
		Street:         p.Location.Street,
		City:           p.Location.City,
		PostalCode:     p.Location.PostalCode,
		Country:        p.Location.Country,
		Texts:          toTextDTOs(p.Texts),
		PropertyTypeID: p.PropertyTypeID,
		TourURL:        p.TourURL,
		Provider:       p.Provider,
		ProviderRef:    p.ProviderRef,
	}
}

func toRentalUnitDTO(u domain.RentalUnit) rentalUnitRequestDTO {
	return rentalUnitRequestDTO{
		ReferenceCode:   u.ReferenceCode,
		PropertyID:      u.PropertyID,
		Area:            u.Area,
		FeatureIDs:      u.FeatureIDs,
		Amount:          u.Price.Amount,
		Currency:        u.Price.Currency,
		PaymentCycle:    u.Price.PaymentCycle,
		Deposit:         u.Price.Deposit,
		Reservation:     u.Price.Reservation,
		MinPeriodMonths: u.Price.MinPeriodMonths,
		Images:          u.Images,
		Texts:           toTextDTOs(u.Texts),
	}
}

func toTextDTOs(texts []domain.LocalizedText) []localizedTextDTO {
	out := make([]localizedTextDTO, len(texts))
	for i, t := range texts {
		out[i] = localizedTextDTO(t)
	}
	return out
}
