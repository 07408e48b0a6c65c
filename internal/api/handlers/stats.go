package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/inventory-allocator/internal/api/dto"
	"github.com/eshaffer321/inventory-allocator/internal/application/service"
)

// StatsHandler handles statistics requests.
type StatsHandler struct {
	*Base
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(svc *service.AllocationService) *StatsHandler {
	return &StatsHandler{
		Base: NewBase(svc),
	}
}

// Get handles GET /api/stats - returns aggregate allocation statistics.
func (h *StatsHandler) Get(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		h.WriteServiceError(c, err, "stats")
		return
	}

	c.JSON(http.StatusOK, dto.NewStatsResponse(stats))
}
