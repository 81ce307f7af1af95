package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/harukit/journeys-backend-go/internal/engine"
	"github.com/harukit/journeys-backend-go/internal/middleware"
	"github.com/harukit/journeys-backend-go/internal/models"
	"github.com/harukit/journeys-backend-go/internal/service"
	"github.com/harukit/journeys-backend-go/pkg/response"
)

// SampleHandler handles HTTP requests for sample ingest
type SampleHandler struct {
	ingestService *service.IngestService
}

// NewSampleHandler creates a new sample handler
func NewSampleHandler(ingestService *service.IngestService) *SampleHandler {
	return &SampleHandler{ingestService: ingestService}
}

// ProcessSample handles POST /api/v1/samples
func (h *SampleHandler) ProcessSample(c *gin.Context) {
	var req models.SampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid sample payload")
		return
	}

	userID := c.GetString(middleware.ContextUserKey)

	mutation, err := h.ingestService.ProcessSample(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrStaleSample):
			response.Conflict(c, err.Error())
		case errors.Is(err, engine.ErrInvalidSample):
			response.BadRequest(c, err.Error())
		case errors.Is(err, engine.ErrStoreUnavailable):
			response.ServiceUnavailable(c, "Storage unavailable, retry later")
		default:
			response.InternalError(c, err.Error())
		}
		return
	}

	response.Success(c, mutation)
}
