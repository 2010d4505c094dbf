package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	reportapp "github.com/salesdesk/backend/internal/application/report"
	"github.com/salesdesk/backend/internal/domain/report"
	"github.com/salesdesk/backend/internal/interfaces/http/dto"
)

// ReportHandler handles dashboard and revenue report API endpoints
type ReportHandler struct {
	BaseHandler
	dashboardService *reportapp.DashboardService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(dashboardService *reportapp.DashboardService) *ReportHandler {
	return &ReportHandler{dashboardService: dashboardService}
}

// RegisterRoutes registers report routes on the API group
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard/stats", h.GetDashboardStats)
	rg.GET("/reports/revenue", h.GetRevenueReport)
}

// GetDashboardStats returns reconciled figures for a named period
func (h *ReportHandler) GetDashboardStats(c *gin.Context) {
	period := reportapp.Period(c.DefaultQuery("period", string(reportapp.PeriodToday)))

	stats, err := h.dashboardService.GetDashboardStats(c.Request.Context(), period)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// GetRevenueReport returns reconciled figures for an explicit window
func (h *ReportHandler) GetRevenueReport(c *gin.Context) {
	start, ok := parseTimeParam(c, "start")
	if !ok {
		return
	}
	end, ok := parseTimeParam(c, "end")
	if !ok {
		return
	}
	granularity := report.Granularity(c.DefaultQuery("granularity", string(report.GranularityDay)))

	stats, err := h.dashboardService.GetRevenueReport(c.Request.Context(), start, end, granularity)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// parseTimeParam reads a required query parameter as RFC 3339 or a bare date
func parseTimeParam(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, "Missing required query parameter: "+name))
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return t, true
	}

	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, "Invalid time value for query parameter: "+name))
	return time.Time{}, false
}
