package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/logger"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/models"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/services"
)

// AdvisorHandler handles advisor review requests.
type AdvisorHandler struct {
	service services.AdvisorService
	log     *logger.Logger
}

// NewAdvisorHandler creates a new AdvisorHandler instance.
func NewAdvisorHandler(service services.AdvisorService, log *logger.Logger) *AdvisorHandler {
	return &AdvisorHandler{
		service: service,
		log:     log,
	}
}

// AdvisorRequestBody is the body of POST /properties/:id/advisor-requests.
type AdvisorRequestBody struct {
	Message string `json:"message" binding:"required,max=2000"`
}

// RespondRequest is the body of PUT /advisor-requests/:id.
type RespondRequest struct {
	Status   string `json:"status" binding:"required,oneof=approved rejected"`
	Response string `json:"response" binding:"max=2000"`
}

// AdvisorListResponse wraps the visible advisor requests.
type AdvisorListResponse struct {
	Requests []models.AdvisorRequest `json:"requests"`
	Count    int                     `json:"count"`
}

// Create handles POST /api/v1/properties/:id/advisor-requests.
func (h *AdvisorHandler) Create(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req AdvisorRequestBody
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.service.Create(c.Request.Context(), id, c.Param("id"), req.Message)
	if err != nil {
		respondError(c, err, "Failed to create advisor request")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// List handles GET /api/v1/advisor-requests. Administrators see every
// request; other users see their own.
func (h *AdvisorHandler) List(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	requests, err := h.service.List(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to list advisor requests")
		return
	}
	if requests == nil {
		requests = []models.AdvisorRequest{}
	}

	c.JSON(http.StatusOK, AdvisorListResponse{Requests: requests, Count: len(requests)})
}

// Respond handles PUT /api/v1/advisor-requests/:id.
func (h *AdvisorHandler) Respond(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req RespondRequest
	if !bindJSON(c, &req) {
		return
	}

	resolved, err := h.service.Respond(c.Request.Context(), id, c.Param("id"), models.AdvisorStatus(req.Status), req.Response)
	if err != nil {
		respondError(c, err, "Failed to respond to advisor request")
		return
	}

	c.JSON(http.StatusOK, resolved)
}
