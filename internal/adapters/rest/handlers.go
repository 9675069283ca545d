package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"rental-sync-service/internal/contextkeys"
	"rental-sync-service/internal/core/domain"
	"rental-sync-service/internal/core/port"
	usecases_port "rental-sync-service/internal/core/port/usecases"
)

type SyncHandlers struct {
	syncUC      usecases_port.SyncProviderBatchPort
	reportStore port.ReportStorePort
	baseLogger  port.LoggerPort
}

func NewSyncHandlers(syncUC usecases_port.SyncProviderBatchPort, reportStore port.ReportStorePort, baseLogger port.LoggerPort) *SyncHandlers {
	return &SyncHandlers{
		syncUC:      syncUC,
		reportStore: reportStore,
		baseLogger:  baseLogger,
	}
}

// HandleSync handles POST /api/v1/sync: it accepts the batch, answers 202 and
// runs the sync in the background. The report lands in the store and on the
// report queue.
func (h *SyncHandlers) HandleSync(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleSync"})

	var reqDTO SyncRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		if err == io.EOF {
			logger.Error("Failed to decode request body", err, nil)
			WriteJSONError(w, http.StatusBadRequest, "Request body is empty")
			return
		}
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if reqDTO.Provider == "" {
		WriteJSONError(w, http.StatusBadRequest, "Field 'provider' is required")
		return
	}
	if len(reqDTO.Records) == 0 {
		WriteJSONError(w, http.StatusBadRequest, "Field 'records' must not be empty")
		return
	}

	taskID := uuid.New()
	batchLogger := logger.WithFields(port.Fields{
		"provider":     reqDTO.Provider,
		"task_id":      taskID.String(),
		"record_count": len(reqDTO.Records),
	})
	batchLogger.Info("Received sync request", nil)

	records := make([]domain.RawScrapedRecord, 0, len(reqDTO.Records))
	for _, dto := range reqDTO.Records {
		records = append(records, toDomainRecord(reqDTO.Provider, dto))
	}

	// The request context dies with the response; the batch gets its own
	// context carrying the same logger and trace ID.
	bgCtx := context.Background()
	bgCtx = contextkeys.ContextWithLogger(bgCtx, batchLogger)
	bgCtx = contextkeys.ContextWithTraceID(bgCtx, contextkeys.TraceIDFromContext(r.Context()))

	go func() {
		if _, err := h.syncUC.Execute(bgCtx, reqDTO.Provider, records, taskID); err != nil {
			batchLogger.Error("Sync use case failed", err, nil)
		}
	}()

	RespondWithJSON(w, http.StatusAccepted, map[string]string{"task_id": taskID.String()})
}

// HandleLatestReport handles GET /api/v1/reports/latest.
func (h *SyncHandlers) HandleLatestReport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.reportStore.Latest()
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "No batch report available yet")
		return
	}
	RespondWithJSON(w, http.StatusOK, report)
}

func toDomainRecord(provider string, dto RawRecordDTO) domain.RawScrapedRecord {
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
