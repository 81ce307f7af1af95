package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/harukit/journeys-backend-go/internal/models"
	"github.com/harukit/journeys-backend-go/internal/service"
	"github.com/harukit/journeys-backend-go/pkg/response"
)

// JourneyHandler handles HTTP requests for journey history
type JourneyHandler struct {
	service *service.JourneyService
}

// NewJourneyHandler creates a new journey handler
func NewJourneyHandler(service *service.JourneyService) *JourneyHandler {
	return &JourneyHandler{service: service}
}

// GetJourneys handles GET /api/v1/users/:id/journeys
func (h *JourneyHandler) GetJourneys(c *gin.Context) {
	var filter models.JourneyFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	filter.UserID = c.Param("id")

	journeys, total, err := h.service.GetJourneys(c.Request.Context(), filter)
	if err != nil {
		response.InternalError(c, "Failed to get journeys")
		return
	}

	// Calculate pagination info
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 100
	}
	totalPages := int(total) / filter.PageSize
	if int(total)%filter.PageSize > 0 {
		totalPages++
	}

	response.Success(c, gin.H{
		"data":       journeys,
		"total":      total,
		"page":       filter.Page,
		"pageSize":   filter.PageSize,
		"totalPages": totalPages,
	})
}

// GetCurrentJourney handles GET /api/v1/users/:id/journeys/current
func (h *JourneyHandler) GetCurrentJourney(c *gin.Context) {
	journey, err := h.service.GetCurrentJourney(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, "Failed to get current journey")
		return
	}
	if journey == nil {
		response.NotFound(c, "No journey for user")
		return
	}

	response.Success(c, journey)
}
