package handler

import (
	"github.com/gin-gonic/gin"
	returnsapp "github.com/salesdesk/backend/internal/application/returns"
)

// ReturnHandler handles return API endpoints
type ReturnHandler struct {
	BaseHandler
	returnService *returnsapp.ReturnService
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(returnService *returnsapp.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

// RegisterRoutes registers return routes on the API group
func (h *ReturnHandler) RegisterRoutes(rg *gin.RouterGroup) {
	returns := rg.Group("/returns")
	{
		returns.POST("", h.Create)
		returns.GET("", h.List)
		returns.GET("/:id", h.GetByID)
		returns.DELETE("/:id", h.Delete)
		returns.POST("/:id/approve", h.Approve)
		returns.POST("/:id/reject", h.Reject)
		returns.POST("/:id/complete", h.Complete)
	}
}

// Create files a return against a sale
func (h *ReturnHandler) Create(c *gin.Context) {
	var req returnsapp.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ret, err := h.returnService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, ret)
}

// List lists returns with pagination and filters
func (h *ReturnHandler) List(c *gin.Context) {
	var filter returnsapp.ReturnListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	returnRows, total, err := h.returnService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, returnRows, total, filter.Page, filter.PageSize)
}

// GetByID retrieves a return by ID
func (h *ReturnHandler) GetByID(c *gin.Context) {
	returnID, ok := parseIDParam(c)
	if !ok {
		return
	}

	ret, err := h.returnService.GetByID(c.Request.Context(), returnID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ret)
}

// Delete deletes a pending or rejected return
func (h *ReturnHandler) Delete(c *gin.Context) {
	returnID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.returnService.Delete(c.Request.Context(), returnID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Approve approves a return, restocking resellable items and paying out the
// refund
func (h *ReturnHandler) Approve(c *gin.Context) {
	returnID, ok := parseIDParam(c)
	if !ok {
		return
	}

	ret, err := h.returnService.Approve(c.Request.Context(), returnID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ret)
}

// Reject rejects a pending return
func (h *ReturnHandler) Reject(c *gin.Context) {
	returnID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req returnsapp.RejectReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ret, err := h.returnService.Reject(c.Request.Context(), returnID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ret)
}

// Complete marks an approved return as completed
func (h *ReturnHandler) Complete(c *gin.Context) {
	returnID, ok := parseIDParam(c)
	if !ok {
		return
	}

	ret, err := h.returnService.Complete(c.Request.Context(), returnID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ret)
}
