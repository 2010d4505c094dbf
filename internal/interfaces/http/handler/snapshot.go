package handler

import (
	"github.com/gin-gonic/gin"
	snapshotapp "github.com/salesdesk/backend/internal/application/snapshot"
	"github.com/salesdesk/backend/internal/domain/snapshot"
)

// SnapshotHandler handles full database export and import
type SnapshotHandler struct {
	BaseHandler
	snapshotService *snapshotapp.SnapshotService
}

// NewSnapshotHandler creates a new SnapshotHandler
func NewSnapshotHandler(snapshotService *snapshotapp.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{snapshotService: snapshotService}
}

// RegisterRoutes registers snapshot routes on the API group
func (h *SnapshotHandler) RegisterRoutes(rg *gin.RouterGroup) {
	snapshots := rg.Group("/snapshot")
	{
		snapshots.GET("/export", h.Export)
		snapshots.POST("/import", h.Import)
	}
}

// Export serializes the entire database as one document
func (h *SnapshotHandler) Export(c *gin.Context) {
	doc, err := h.snapshotService.Export(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// Import replaces all stored data with the uploaded document
func (h *SnapshotHandler) Import(c *gin.Context) {
	var doc snapshot.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.snapshotService.Import(c.Request.Context(), &doc); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
