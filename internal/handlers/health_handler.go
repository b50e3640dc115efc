package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/photosync/photolist/internal/models"
	"github.com/photosync/photolist/internal/services"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	lists *services.ListService
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(lists *services.ListService) *HealthHandler {
	return &HealthHandler{lists: lists}
}

// HealthCheck returns the server health status
// @Summary Health check
// @Description Returns the health status together with the number of cached lists and the cache capacity
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse "Server is healthy"
// @Router /api/health [get]
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Lists:     len(h.lists.Lists()),
		Capacity:  h.lists.Capacity(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
