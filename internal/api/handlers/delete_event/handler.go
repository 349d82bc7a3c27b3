package delete_event

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/events"
)

const (
	msgMissingEventID = "не указан идентификатор события"
	msgNotFound       = "событие не найдено"
	msgNotConfigured  = "календарь не настроен"
	msgRemoteFailed   = "не удалось удалить событие в календаре"
)

// DeleteEventResponse ответ при отложенном удалении записи зеркала
type DeleteEventResponse struct {
	ExternalEventID string `json:"externalEventId"`
	MirrorDeferred  bool   `json:"mirrorDeferred"`
}

type Handler struct {
	service EventsService
	logger  Logger
}

// NewHandler service == nil означает, что календарь не настроен
func NewHandler(service EventsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/calendar/events/{eventId}
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

	err := h.service.Delete(r.Context(), externalID)
	switch {
	case err == nil:
		h.logger.Info("DELETE /calendar/events/%s - Event deleted", externalID)
		w.WriteHeader(http.StatusNoContent)

	case errors.Is(err, events.ErrPartialSync):
		// У провайдера событие удалено, зеркало догонит сверка
		h.logger.Warn("DELETE /calendar/events/%s - Event deleted, mirror deferred: %v", externalID, err)
		handlers.RespondJSON(w, http.StatusAccepted, DeleteEventResponse{ExternalEventID: externalID, MirrorDeferred: true})

	case errors.Is(err, events.ErrEventNotFound):
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, events.ErrRemoteDelete):
		h.logger.Error("DELETE /calendar/events/%s - Remote delete failed: %v", externalID, err)
		handlers.RespondBadGateway(w, msgRemoteFailed)

	default:
		h.logger.Error("DELETE /calendar/events/%s - Failed to delete event: %v", externalID, err)
		handlers.RespondInternalError(w)
	}
}
