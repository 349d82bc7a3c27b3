package update_event

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/events"
)

const (
	msgMissingEventID     = "не указан идентификатор события"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректное время, ожидается RFC3339"
	msgInvalidData        = "некорректные данные события"
	msgNotFound           = "событие не найдено"
	msgNotConfigured      = "календарь не настроен"
	msgRemoteFailed       = "не удалось обновить событие в календаре"
)

type Handler struct {
	service    EventsService
	defaultLoc *time.Location
	logger     Logger
}

// NewHandler service == nil означает, что календарь не настроен
func NewHandler(service EventsService, defaultLoc *time.Location, logger Logger) *Handler {
	return &Handler{
		service:    service,
		defaultLoc: defaultLoc,
		logger:     logger,
	}
}

// Handle PATCH /api/v1/calendar/events/{eventId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		handlers.RespondNotConfigured(w, msgNotConfigured)
		return
	}

	externalID := mux.Vars(r)["eventId"]
	if externalID == "" {
		handlers.RespondBadRequest(w, msgMissingEventID)
		return
	}

	var req UpdateEventRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /calendar/events/%s - Invalid request body: %v", externalID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	changes, err := req.ToDomain()
	if err != nil {
		h.logger.Warn("PATCH /calendar/events/%s - Failed to parse request: %v", externalID, err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	event, err := h.service.Update(r.Context(), externalID, changes)
	if err != nil && event == nil {
		switch {
		case errors.Is(err, events.ErrInvalidInput):
			h.logger.Warn("PATCH /calendar/events/%s - Invalid changes: %v", externalID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, events.ErrEventNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, events.ErrRemoteUpdate):
			h.logger.Error("PATCH /calendar/events/%s - Remote update failed: %v", externalID, err)
			handlers.RespondBadGateway(w, msgRemoteFailed)

		default:
			h.logger.Error("PATCH /calendar/events/%s - Failed to update event: %v", externalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	deferred := errors.Is(err, events.ErrPartialSync)
	if deferred {
		h.logger.Warn("PATCH /calendar/events/%s - Event updated, mirror deferred", externalID)
	}

	h.logger.Info("PATCH /calendar/events/%s - Event updated", externalID)
	handlers.RespondJSON(w, http.StatusOK, UpdateEventResponse{
		EventResponse:  handlers.FromDomainEvent(event, h.defaultLoc),
		MirrorDeferred: deferred,
	})
}
