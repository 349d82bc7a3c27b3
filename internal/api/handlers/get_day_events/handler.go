package get_day_events

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	getDayEvents "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_day_events"
)

const (
	msgMissingDate         = "дата обязательна"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTimezone     = "неизвестный часовой пояс"
	msgInvalidResync       = "некорректное значение resync"
	msgNotConfigured       = "календарь не настроен"
	msgCalendarUnavailable = "календарь временно недоступен"
)

type Handler struct {
	useCase    GetDayEventsUseCase
	defaultLoc *time.Location
	logger     Logger
}

func NewHandler(useCase GetDayEventsUseCase, defaultLoc *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:    useCase,
		defaultLoc: defaultLoc,
		logger:     logger,
	}
}

// Handle GET /api/v1/calendar/events?date=YYYY-MM-DD&tz=Area/City&resync=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dateStr := query.Get("date")
	if dateStr == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	loc, err := handlers.ParseLocation(query.Get("tz"), h.defaultLoc)
	if err != nil {
		h.logger.Warn("GET /calendar/events - Invalid timezone: %s", query.Get("tz"))
		handlers.RespondBadRequest(w, msgInvalidTimezone)
		return
	}

	date, err := handlers.ParseDate(dateStr, loc)
	if err != nil {
		h.logger.Warn("GET /calendar/events - Invalid date: %s", dateStr)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var resync bool
	if v := query.Get("resync"); v != "" {
		resync, err = strconv.ParseBool(v)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidResync)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &getDayEvents.Request{
		Date:     date,
		Location: loc,
		Resync:   resync,
	})
	if err != nil {
		switch {
		case errors.Is(err, getDayEvents.ErrNotConfigured):
			handlers.RespondNotConfigured(w, msgNotConfigured)

		case errors.Is(err, getDayEvents.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getDayEvents.ErrCalendarUnavailable):
			h.logger.Error("GET /calendar/events - Calendar unavailable: date=%s, error=%v", dateStr, err)
			handlers.RespondBadGateway(w, msgCalendarUnavailable)

		default:
			h.logger.Error("GET /calendar/events - Failed to list events: date=%s, error=%v", dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /calendar/events - Events retrieved: date=%s, count=%d", dateStr, len(result.Events))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result, loc))
}
