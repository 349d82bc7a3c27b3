package create_event

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/events"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректное время, ожидается RFC3339"
	msgInvalidData        = "некорректные данные события"
	msgNotConfigured      = "календарь не настроен"
	msgRemoteFailed       = "не удалось создать событие в календаре"
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

// Handle POST /api/v1/calendar/events
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		handlers.RespondNotConfigured(w, msgNotConfigured)
		return
	}

	var req CreateEventRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /calendar/events - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	draft, err := req.ToDomain()
	if err != nil {
		h.logger.Warn("POST /calendar/events - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	event, err := h.service.Create(r.Context(), draft)
	if err != nil && event == nil {
		switch {
		case errors.Is(err, events.ErrInvalidInput):
			h.logger.Warn("POST /calendar/events - Invalid event: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, events.ErrRemoteCreate):
			h.logger.Error("POST /calendar/events - Remote create failed: %v", err)
			handlers.RespondBadGateway(w, msgRemoteFailed)

		default:
			h.logger.Error("POST /calendar/events - Failed to create event: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	deferred := errors.Is(err, events.ErrPartialSync)
	if deferred {
		h.logger.Warn("POST /calendar/events - Event created, mirror deferred: external_id=%s", event.ExternalEventID)
	}

	h.logger.Info("POST /calendar/events - Event created: external_id=%s", event.ExternalEventID)
	handlers.RespondJSON(w, http.StatusCreated, CreateEventResponse{
		EventResponse:  handlers.FromDomainEvent(event, h.defaultLoc),
		MirrorDeferred: deferred,
	})
}
