package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HealthResponse — ответ /health.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// Health проверяет, что сервер жив и БД отвечает.
//
// @Summary  Health check
// @Tags     service
// @Produce  json
// @Success  200 {object} HealthResponse
// @Failure  503 {object} ErrorResponse
// @Router   /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.DB.PingContext(ctx); err != nil {
			h.Log.Warn("health: db ping failed", zap.Error(err))
			WriteError(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
