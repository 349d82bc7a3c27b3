package get_booking_config

import (
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
)

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type Handler struct {
	settings Settings
	logger   Logger
}

func NewHandler(settings Settings, logger Logger) *Handler {
	return &Handler{
		settings: settings,
		logger:   logger,
	}
}

// Handle GET /api/v1/booking/config
// Отвечает 200 и без токена: клиент показывает заглушку по configured=false
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if !h.settings.Configured {
		h.logger.Warn("GET /booking/config - Booking is not configured")
	}
	handlers.RespondJSON(w, http.StatusOK, fromSettings(h.settings))
}
