package handler

import (
	"github.com/gin-gonic/gin"
	crmapp "github.com/salesdesk/backend/internal/application/crm"
)

// DealHandler handles CRM deal API endpoints
type DealHandler struct {
	BaseHandler
	dealService *crmapp.DealService
}

// NewDealHandler creates a new DealHandler
func NewDealHandler(dealService *crmapp.DealService) *DealHandler {
	return &DealHandler{dealService: dealService}
}

// RegisterRoutes registers deal routes on the API group
func (h *DealHandler) RegisterRoutes(rg *gin.RouterGroup) {
	deals := rg.Group("/deals")
	{
		deals.POST("", h.Create)
		deals.GET("", h.List)
		deals.GET("/:id", h.GetByID)
		deals.PUT("/:id", h.Update)
		deals.DELETE("/:id", h.Delete)
		deals.POST("/:id/move", h.Move)
	}
}

// Create creates a new deal
func (h *DealHandler) Create(c *gin.Context) {
	var req crmapp.CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	deal, err := h.dealService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, deal)
}

// List lists deals with pagination and filters
func (h *DealHandler) List(c *gin.Context) {
	var filter crmapp.DealListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	deals, total, err := h.dealService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, deals, total, filter.Page, filter.PageSize)
}

// GetByID retrieves a deal by ID
func (h *DealHandler) GetByID(c *gin.Context) {
	dealID, ok := parseIDParam(c)
	if !ok {
		return
	}

	deal, err := h.dealService.GetByID(c.Request.Context(), dealID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, deal)
}

// Update updates an open deal
func (h *DealHandler) Update(c *gin.Context) {
	dealID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req crmapp.UpdateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	deal, err := h.dealService.Update(c.Request.Context(), dealID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, deal)
}

// Delete deletes a deal
func (h *DealHandler) Delete(c *gin.Context) {
	dealID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.dealService.Delete(c.Request.Context(), dealID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Move moves a deal through the pipeline
func (h *DealHandler) Move(c *gin.Context) {
	dealID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req crmapp.MoveDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	deal, err := h.dealService.Move(c.Request.Context(), dealID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, deal)
}
