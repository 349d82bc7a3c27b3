package resync_calendar

import (
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
)

const msgNotConfigured = "календарь не настроен"

// ResyncResponse итог прохода сверки
type ResyncResponse struct {
	Processed int `json:"processed"`
	Retried   int `json:"retried"`
	Skipped   int `json:"skipped"`
	Pending   int `json:"pending"`
}

type Handler struct {
	reconciler Reconciler
	logger     Logger
}

// NewHandler reconciler == nil означает, что календарь не настроен
func NewHandler(reconciler Reconciler, logger Logger) *Handler {
	return &Handler{
		reconciler: reconciler,
		logger:     logger,
	}
}

// Handle POST /api/v1/calendar/resync
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.reconciler == nil {
		handlers.RespondNotConfigured(w, msgNotConfigured)
		return
	}

	result, err := h.reconciler.Reconcile(r.Context())
	if err != nil {
		h.logger.Error("POST /calendar/resync - Reconcile failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /calendar/resync - processed=%d, retried=%d, skipped=%d, pending=%d",
		result.Processed, result.Retried, result.Skipped, result.Pending)
	handlers.RespondJSON(w, http.StatusOK, ResyncResponse{
		Processed: result.Processed,
		Retried:   result.Retried,
		Skipped:   result.Skipped,
		Pending:   result.Pending,
	})
}
