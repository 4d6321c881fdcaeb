package handler

import (
	"github.com/gin-gonic/gin"
	storefrontapp "github.com/storefront/backend/internal/application/storefront"
)

// StatsHandler serves the admin dashboard counters
type StatsHandler struct {
	BaseHandler
	statsService *storefrontapp.StatsService
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(statsService *storefrontapp.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Get godoc
// @ID           getAdminStats
// @Summary      Dashboard counters
// @Description  Count products, categories and active promotions of the store
// @Tags         admin-store
// @Produce      json
// @Success      200 {object} APIResponse[storefrontapp.StatsResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/stats [get]
func (h *StatsHandler) Get(c *gin.Context) {
	storeID, ok := h.storeID(c)
	if !ok {
		return
	}

	stats, err := h.statsService.Get(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
