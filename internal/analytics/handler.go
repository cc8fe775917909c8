package analytics

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	customErrors "feedback-tool/internal/types/errors"
	"feedback-tool/internal/types/response"
)

type Handler struct {
	service ActivityService
	logger  *zap.SugaredLogger
}

func NewHandler(service ActivityService, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// GetActivity - GET /activity?days=N
func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	days := DefaultDays
	if daysParam := r.URL.Query().Get("days"); daysParam != "" {
		if n, err := strconv.Atoi(daysParam); err == nil && n > 0 {
			days = n
		}
	}

	activity, err := h.service.Recent(r.Context(), days)
	if err != nil {
		h.logger.Errorw("Failed to get activity", zap.Error(err))
		customErrors.SendErrorTo(w, customErrors.ErrActivityFailed, http.StatusInternalServerError, h.logger)
		return
	}

	if activity == nil {
		activity = []DailyActivity{}
	}

	response.SendSuccessTo(w, activity, http.StatusOK, h.logger)
}
