package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/saadrehman171000/SmartInvest-RealEstate/internal/errors"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/logger"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/metrics"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/models"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/services"
	"github.com/saadrehman171000/SmartInvest-RealEstate/internal/storage"
)

// Asker answers a free-text question about a listing.
type Asker interface {
	Ask(ctx context.Context, property models.Property, question string) (string, error)
}

// PropertyHandler handles listing CRUD, status changes, images and questions.
type PropertyHandler struct {
	service services.PropertyService
	images  storage.ImageStore
	asker   Asker
	log     *logger.Logger
}

// NewPropertyHandler creates a new PropertyHandler instance.
func NewPropertyHandler(service services.PropertyService, images storage.ImageStore, asker Asker, log *logger.Logger) *PropertyHandler {
	return &PropertyHandler{
		service: service,
		images:  images,
		asker:   asker,
		log:     log,
	}
}

// ListPropertiesRequest represents the query parameters for listing properties.
type ListPropertiesRequest struct {
	Search string `form:"search" binding:"max=200"`
	Mine   string `form:"mine"`
}

// PropertyRequest is the body for creating or replacing a listing.
type PropertyRequest struct {
	Description      *string  `json:"description"`
	PropertyID       *string  `json:"propertyId"`
	Title            string   `json:"title" binding:"required,max=200"`
	Address          string   `json:"address" binding:"required,max=500"`
	DealType         string   `json:"dealType"`
	Images           []string `json:"images" binding:"omitempty,dive,url"`
	Price            float64  `json:"price" binding:"gt=0,lte=1000000000000"`
	RepairCost       float64  `json:"repairCost" binding:"gte=0,lte=1000000000000"`
	ProfitForSelling float64  `json:"profitForSelling"`
	ROI              float64  `json:"roi"`
	Rent             float64  `json:"rent" binding:"gte=0,lte=1000000000000"`
	NetCashFlow      float64  `json:"netCashFlow"`
	CashOnCashReturn float64  `json:"cashOnCashReturn"`
	ARV              float64  `json:"arv" binding:"gte=0,lte=1000000000000"`
}

func (r PropertyRequest) input() models.PropertyInput {
	return models.PropertyInput{
		Description:      r.Description,
		PropertyID:       r.PropertyID,
		Title:            r.Title,
		Address:          r.Address,
		DealType:         models.DealType(r.DealType),
		Images:           r.Images,
		Price:            r.Price,
		RepairCost:       r.RepairCost,
		ProfitForSelling: r.ProfitForSelling,
		ROI:              r.ROI,
		Rent:             r.Rent,
		NetCashFlow:      r.NetCashFlow,
		CashOnCashReturn: r.CashOnCashReturn,
		ARV:              r.ARV,
	}
}

// StatusRequest is the body of PATCH /properties/:id/status.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AskRequest is the body of POST /properties/:id/ask.
type AskRequest struct {
	Question string `json:"question" binding:"required,max=2000"`
}

// AskResponse carries the assistant's plain-text answer.
type AskResponse struct {
	Answer string `json:"answer"`
}

// PropertyListResponse wraps a listing page.
type PropertyListResponse struct {
	Properties []models.Property `json:"properties"`
	Count      int               `json:"count"`
}

// List handles GET /api/v1/properties?search=&mine=.
func (h *PropertyHandler) List(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req ListPropertiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return
	}

	mine := false
	if req.Mine != "" {
		parsed, err := strconv.ParseBool(req.Mine)
		if err != nil {
			apierrors.BadRequest(c, "mine must be true or false", map[string]interface{}{
				"mine": req.Mine,
			})
			return
		}
		mine = parsed
	}

	properties, err := h.service.List(c.Request.Context(), id, strings.TrimSpace(req.Search), mine)
	if err != nil {
		respondError(c, err, "Failed to list properties")
		return
	}
	if properties == nil {
		properties = []models.Property{}
	}

	c.JSON(http.StatusOK, PropertyListResponse{Properties: properties, Count: len(properties)})
}

// Get handles GET /api/v1/properties/:id.
func (h *PropertyHandler) Get(c *gin.Context) {
	property, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to load property")
		return
	}
	c.JSON(http.StatusOK, property)
}

// Create handles POST /api/v1/properties.
func (h *PropertyHandler) Create(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req PropertyRequest
	if !bindJSON(c, &req) {
		return
	}

	property, err := h.service.Create(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err, "Failed to create property")
		return
	}

	c.JSON(http.StatusCreated, property)
}

// Update handles PUT /api/v1/properties/:id.
func (h *PropertyHandler) Update(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req PropertyRequest
	if !bindJSON(c, &req) {
		return
	}

	property, err := h.service.Update(c.Request.Context(), id, c.Param("id"), req.input())
	if err != nil {
		respondError(c, err, "Failed to update property")
		return
	}

	c.JSON(http.StatusOK, property)
}

// Delete handles DELETE /api/v1/properties/:id.
func (h *PropertyHandler) Delete(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete property")
		return
	}

	c.Status(http.StatusNoContent)
}

// SetStatus handles PATCH /api/v1/properties/:id/status.
func (h *PropertyHandler) SetStatus(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req StatusRequest
	if !bindJSON(c, &req) {
		return
	}

	property, err := h.service.SetStatus(c.Request.Context(), id, c.Param("id"), models.PropertyStatus(req.Status))
	if err != nil {
		respondError(c, err, "Failed to update property status")
		return
	}

	c.JSON(http.StatusOK, property)
}

// UploadImages handles POST /api/v1/properties/:id/images. Ownership is
// checked before any file is stored.
func (h *PropertyHandler) UploadImages(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	property, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to load property")
		return
	}
	if !id.CanManage(property.UserID) {
		respondError(c, services.ErrForbidden, "")
		return
	}

	urls, ok := receiveImages(c, h.images, storage.DefaultPrefix+"/"+property.ID)
	if !ok {
		return
	}

	updated, err := h.service.AddImages(c.Request.Context(), id, property.ID, urls)
	if err != nil {
		respondError(c, err, "Failed to attach images")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Ask handles POST /api/v1/properties/:id/ask.
func (h *PropertyHandler) Ask(c *gin.Context) {
	var req AskRequest
	if !bindJSON(c, &req) {
		metrics.AssistantRequests.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return
	}

	property, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to load property")
		return
	}

	answer, err := h.asker.Ask(c.Request.Context(), *property, req.Question)
	if err != nil {
		metrics.AssistantRequests.WithLabelValues(metrics.OutcomeError).Inc()
		respondError(c, err, "Failed to get an answer from the assistant")
		return
	}

	metrics.AssistantRequests.WithLabelValues(metrics.OutcomeSuccess).Inc()
	c.JSON(http.StatusOK, AskResponse{Answer: answer})
}
