package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kestrelhq/model-registry/internal/analytics"
	"github.com/kestrelhq/model-registry/pkg/api"
)

// UsageHandler serves the aggregated usage views.
type UsageHandler struct {
	service analytics.Service
}

func NewUsageHandler(service analytics.Service) *UsageHandler {
	return &UsageHandler{service: service}
}

// Overview handles GET /v1/usage/overview?days=N.
func (h *UsageHandler) Overview(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 365 {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{
				Code:    "validation",
				Message: "days must be an integer between 1 and 365",
			})
			return
		}
		days = parsed
	}

	stats, err := h.service.GetUsageOverview(c.Request.Context(), days)
	if err != nil {
		status, body := api.FromError(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, api.UsageOverviewResponse{Days: days, Stats: stats})
}
