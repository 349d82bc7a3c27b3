package get_available_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
)

const (
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректная дата или часовой пояс, ожидается date=YYYY-MM-DD&tz=Area/City"
	msgNotConfigured     = "онлайн-запись не настроена"
	msgDateInPast        = "нельзя выбрать прошедшую дату"
	msgDateTooFar        = "дата слишком далеко в будущем"
	msgAvailabilityError = "не удалось получить свободное время, попробуйте позже"
)

type Handler struct {
	useCase    GetAvailableSlotsUseCase
	defaultLoc *time.Location
	logger     Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, defaultLoc *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:    useCase,
		defaultLoc: defaultLoc,
		logger:     logger,
	}
}

// Handle GET /api/v1/booking/available-slots
// Query params: date (required, YYYY-MM-DD), tz (optional, IANA)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /booking/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(dateStr, r.URL.Query().Get("tz"), h.defaultLoc)
	if err != nil {
		h.logger.Warn("GET /booking/available-slots - Invalid date or timezone: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrNotConfigured):
			h.logger.Warn("GET /booking/available-slots - Booking is not configured")
			handlers.RespondNotConfigured(w, msgNotConfigured)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrAvailabilityUnavailable):
			h.logger.Error("GET /booking/available-slots - Availability unavailable: date=%s, error=%v", dateStr, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgAvailabilityError)

		default:
			h.logger.Error("GET /booking/available-slots - Failed to get slots: date=%s, error=%v", dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /booking/available-slots - Slots retrieved successfully: date=%s, slots_count=%d", dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
