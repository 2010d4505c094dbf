package handler

import (
	"github.com/gin-gonic/gin"
	settingsapp "github.com/salesdesk/backend/internal/application/settings"
)

// SettingsHandler handles settings and invoice template API endpoints
type SettingsHandler struct {
	BaseHandler
	settingsService *settingsapp.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *settingsapp.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// RegisterRoutes registers settings routes on the API group
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	settings := rg.Group("/settings")
	{
		settings.GET("", h.ListSettings)
		settings.GET("/:key", h.GetSetting)
		settings.PUT("/:key", h.PutSetting)
		settings.DELETE("/:key", h.DeleteSetting)
	}

	templates := rg.Group("/invoice-templates")
	{
		templates.POST("", h.CreateTemplate)
		templates.GET("", h.ListTemplates)
		templates.PUT("/:id", h.UpdateTemplate)
		templates.DELETE("/:id", h.DeleteTemplate)
	}
}

// ListSettings lists all settings
func (h *SettingsHandler) ListSettings(c *gin.Context) {
	settingRows, err := h.settingsService.ListSettings(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, settingRows)
}

// GetSetting reads one setting by key
func (h *SettingsHandler) GetSetting(c *gin.Context) {
	setting, err := h.settingsService.GetSetting(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, setting)
}

type putSettingRequest struct {
	Value string `json:"value"`
}

// PutSetting creates or overwrites a setting
func (h *SettingsHandler) PutSetting(c *gin.Context) {
	var req putSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	setting, err := h.settingsService.PutSetting(c.Request.Context(), c.Param("key"), req.Value)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, setting)
}

// DeleteSetting removes a setting
func (h *SettingsHandler) DeleteSetting(c *gin.Context) {
	if err := h.settingsService.DeleteSetting(c.Request.Context(), c.Param("key")); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// CreateTemplate creates an invoice template
func (h *SettingsHandler) CreateTemplate(c *gin.Context) {
	var req settingsapp.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	template, err := h.settingsService.CreateTemplate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, template)
}

// ListTemplates lists all invoice templates
func (h *SettingsHandler) ListTemplates(c *gin.Context) {
	templates, err := h.settingsService.ListTemplates(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, templates)
}

// UpdateTemplate updates an invoice template
func (h *SettingsHandler) UpdateTemplate(c *gin.Context) {
	templateID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req settingsapp.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	template, err := h.settingsService.UpdateTemplate(c.Request.Context(), templateID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, template)
}

// DeleteTemplate removes an invoice template
func (h *SettingsHandler) DeleteTemplate(c *gin.Context) {
	templateID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.settingsService.DeleteTemplate(c.Request.Context(), templateID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
