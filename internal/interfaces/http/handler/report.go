package handler

import (
	"strconv"

	reportapp "github.com/pos/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles daily and monthly sales report endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RunDaily aggregates one business day into a daily sales report.
// When some orders could not be aggregated the report still lands, and
// the response carries the skipped orders under a 207 status.
func (h *ReportHandler) RunDaily(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	var req reportapp.RunDailyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	report, err := h.reportService.RunDaily(c.Request.Context(), businessID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if len(report.SkippedOrders) > 0 {
		h.PartialSuccess(c, report)
		return
	}
	h.Success(c, report)
}

// GetDaily returns the daily report for one reference day
func (h *ReportHandler) GetDaily(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	dailyRef, err := parseRefParam(c, "daily_ref")
	if err != nil {
		h.BadRequest(c, "Invalid daily reference number")
		return
	}

	report, err := h.reportService.GetDaily(c.Request.Context(), businessID, dailyRef)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// ListDailyByMonth returns all daily reports of one month
func (h *ReportHandler) ListDailyByMonth(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	monthRef, err := parseRefParam(c, "month_ref")
	if err != nil {
		h.BadRequest(c, "Invalid month reference number")
		return
	}

	reports, err := h.reportService.ListDailyByMonth(c.Request.Context(), businessID, monthRef)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reports)
}

// CloseDaily freezes a daily report against reruns
func (h *ReportHandler) CloseDaily(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	dailyRef, err := parseRefParam(c, "daily_ref")
	if err != nil {
		h.BadRequest(c, "Invalid daily reference number")
		return
	}

	report, err := h.reportService.CloseDaily(c.Request.Context(), businessID, dailyRef)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// RunMonthly rolls the month's daily reports up into one monthly report
func (h *ReportHandler) RunMonthly(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	var req reportapp.RunMonthlyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	report, err := h.reportService.RunMonthly(c.Request.Context(), businessID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// GetMonthly returns the monthly report for one reference month
func (h *ReportHandler) GetMonthly(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid business ID")
		return
	}

	monthRef, err := parseRefParam(c, "month_ref")
	if err != nil {
		h.BadRequest(c, "Invalid month reference number")
		return
	}

	report, err := h.reportService.GetMonthly(c.Request.Context(), businessID, monthRef)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// parseRefParam parses a numeric reference path parameter
func parseRefParam(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
