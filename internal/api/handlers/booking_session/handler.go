package booking_session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingWizard "github.com/m04kA/SMC-SchedulingService/internal/usecase/booking_wizard"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingSessionID   = "не указан идентификатор сессии"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgInvalidInput       = "некорректные данные запроса"
	msgSessionNotFound    = "сессия бронирования не найдена или истекла"
	msgInvalidTransition  = "действие недоступно на текущем шаге"
	msgNotConfigured      = "онлайн-запись не настроена"
)

// Handler HTTP обработчики шагов мастера бронирования
type Handler struct {
	useCase BookingWizardUseCase
	logger  Logger
}

func NewHandler(useCase BookingWizardUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Start POST /api/v1/booking/sessions
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("POST /booking/sessions - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	session, err := h.useCase.Start(r.Context(), bookingWizard.StartRequest{Timezone: req.Timezone})
	if err != nil {
		h.respondError(w, "POST /booking/sessions", nil, err)
		return
	}

	h.logger.Info("POST /booking/sessions - Session started: session=%s", session.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(session))
}

// Get GET /api/v1/booking/sessions/{sessionId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	session, err := h.useCase.Get(r.Context(), id)
	h.respond(w, "GET /booking/sessions/{id}", session, err)
}

// ChooseDate POST /api/v1/booking/sessions/{sessionId}/date
func (h *Handler) ChooseDate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req ChooseDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking/sessions/{id}/date - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Дата без пояса: календарный день интерпретируется в поясе сессии
	date, err := handlers.ParseDate(req.Date, time.UTC)
	if err != nil {
		h.logger.Warn("POST /booking/sessions/{id}/date - Invalid date: %s", req.Date)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	session, err := h.useCase.ChooseDate(r.Context(), id, date)
	h.respond(w, "POST /booking/sessions/{id}/date", session, err)
}

// ChooseSlot POST /api/v1/booking/sessions/{sessionId}/slot
func (h *Handler) ChooseSlot(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req ChooseSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking/sessions/{id}/slot - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	slot, err := domain.ParseTimeSlot(req.StartTime)
	if err != nil {
		h.logger.Warn("POST /booking/sessions/{id}/slot - Invalid time: %s", req.StartTime)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	session, err := h.useCase.ChooseSlot(r.Context(), id, slot)
	h.respond(w, "POST /booking/sessions/{id}/slot", session, err)
}

// Back POST /api/v1/booking/sessions/{sessionId}/back
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	session, err := h.useCase.Back(r.Context(), id)
	h.respond(w, "POST /booking/sessions/{id}/back", session, err)
}

// Next POST /api/v1/booking/sessions/{sessionId}/next
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	session, err := h.useCase.Next(r.Context(), id)
	h.respond(w, "POST /booking/sessions/{id}/next", session, err)
}

// UpdateContact PUT /api/v1/booking/sessions/{sessionId}/contact
func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req ContactRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /booking/sessions/{id}/contact - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	session, err := h.useCase.UpdateContact(r.Context(), id, req.ToDomain())
	h.respond(w, "PUT /booking/sessions/{id}/contact", session, err)
}

// Submit POST /api/v1/booking/sessions/{sessionId}/submit
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req ContactRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking/sessions/{id}/submit - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	session, err := h.useCase.Submit(r.Context(), id, req.ToDomain())
	if err == nil {
		h.logger.Info("POST /booking/sessions/{id}/submit - Booking confirmed: session=%s", id)
	}
	h.respond(w, "POST /booking/sessions/{id}/submit", session, err)
}

// Restart POST /api/v1/booking/sessions/{sessionId}/restart
func (h *Handler) Restart(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	session, err := h.useCase.Restart(r.Context(), id)
	h.respond(w, "POST /booking/sessions/{id}/restart", session, err)
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := mux.Vars(r)["sessionId"]
	if id == "" {
		h.logger.Warn("%s %s - Missing session id", r.Method, r.URL.Path)
		handlers.RespondBadRequest(w, msgMissingSessionID)
		return "", false
	}
	return id, true
}

func (h *Handler) respond(w http.ResponseWriter, route string, session *domain.BookingSession, err error) {
	if err != nil {
		h.respondError(w, route, session, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, FromDomain(session))
}

// respondError отвечает ошибкой. Ошибки шага возвращаются вместе с сессией,
// сообщение для посетителя находится в поле error.
func (h *Handler) respondError(w http.ResponseWriter, route string, session *domain.BookingSession, err error) {
	switch {
	case errors.Is(err, bookingWizard.ErrNotConfigured):
		h.logger.Warn("%s - Booking is not configured", route)
		handlers.RespondNotConfigured(w, msgNotConfigured)

	case errors.Is(err, bookingWizard.ErrSessionNotFound):
		handlers.RespondNotFound(w, msgSessionNotFound)

	case errors.Is(err, bookingWizard.ErrInvalidTransition):
		handlers.RespondConflict(w, msgInvalidTransition)

	case errors.Is(err, bookingWizard.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	case session != nil && (errors.Is(err, bookingWizard.ErrValidation) ||
		errors.Is(err, bookingWizard.ErrDateDisabled) ||
		errors.Is(err, bookingWizard.ErrSlotUnavailable)):
		handlers.RespondJSON(w, http.StatusUnprocessableEntity, FromDomain(session))

	case session != nil && errors.Is(err, bookingWizard.ErrSubmitFailed):
		h.logger.Error("%s - Submit failed: session=%s, error=%v", route, session.ID, err)
		handlers.RespondJSON(w, http.StatusBadGateway, FromDomain(session))

	default:
		h.logger.Error("%s - Failed: error=%v", route, err)
		handlers.RespondInternalError(w)
	}
}
