package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ledgerlite/ledger_reports_app/internal/apperrors"
	"github.com/ledgerlite/ledger_reports_app/internal/core/domain"
	portssvc "github.com/ledgerlite/ledger_reports_app/internal/core/ports/services"
	"github.com/ledgerlite/ledger_reports_app/internal/core/services"
	"github.com/ledgerlite/ledger_reports_app/internal/dto"
	"github.com/ledgerlite/ledger_reports_app/internal/middleware"
)

const dateQueryLayout = "2006-01-02"

// reportHandler handles HTTP requests for ledger reports. Report instances
// are long-lived and not safe for concurrent refresh, so the handler
// serializes access per report.
type reportHandler struct {
	container *services.Container
	locks     map[string]*sync.Mutex
}

func newReportHandler(container *services.Container) *reportHandler {
	locks := make(map[string]*sync.Mutex, len(container.Reports))
	for name := range container.Reports {
		locks[name] = &sync.Mutex{}
	}
	return &reportHandler{container: container, locks: locks}
}

// RegisterReportRoutes registers routes for the ledger reports.
func RegisterReportRoutes(rg *gin.RouterGroup, container *services.Container) {
	h := newReportHandler(container)

	reportGroup := rg.Group("/reports")
	{
		reportGroup.GET("", h.listReports)
		reportGroup.GET("/:reportName", h.getReport)
		reportGroup.GET("/:reportName/export", h.exportReport)
	}
}

func (h *reportHandler) listReports(c *gin.Context) {
	items := make([]dto.ReportListItemResponse, 0, len(h.container.Order))
	for _, name := range h.container.Order {
		report := h.container.Reports[name]
		items = append(items, dto.ReportListItemResponse{Name: report.Name(), Title: report.Title()})
	}
	c.JSON(http.StatusOK, items)
}

func (h *reportHandler) getReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, release, ok := h.lockReport(c)
	if !ok {
		return
	}
	defer release()

	if err := h.refresh(c, report); err != nil {
		logger.Error("Failed to refresh report", slog.String("report", report.Name()), slog.String("error", err.Error()))
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	response := dto.ToReportResponse(report.Name(), report.Title(), report.GetColumns(), report.GetFilters(), report.ReportData())
	logger.Info("Report generated", slog.String("report", report.Name()), slog.Int("row_count", len(response.Rows)))
	c.JSON(http.StatusOK, response)
}

func (h *reportHandler) exportReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, release, ok := h.lockReport(c)
	if !ok {
		return
	}
	defer release()

	format := c.DefaultQuery("format", "csv")
	var action *domain.Action
	for _, a := range report.GetActions() {
		if a.Extension == format {
			action = &a
			break
		}
	}
	if action == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown export format %q", format)})
		return
	}

	if err := h.refresh(c, report); err != nil {
		logger.Error("Failed to refresh report for export", slog.String("report", report.Name()), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	filename := fmt.Sprintf("%s.%s", report.Name(), action.Extension)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	switch action.Extension {
	case "xlsx":
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	default:
		c.Header("Content-Type", "text/csv")
	}

	if err := action.Run(c.Request.Context(), c.Writer); err != nil {
		logger.Error("Failed to stream report export", slog.String("report", report.Name()), slog.String("error", err.Error()))
	}
}

// lockReport resolves the report from the path and takes its refresh lock.
// It writes the error response itself when the report is unknown.
func (h *reportHandler) lockReport(c *gin.Context) (portssvc.ReportService, func(), bool) {
	name := c.Param("reportName")
	report, ok := h.container.Reports[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Unknown report %q", name)})
		return nil, nil, false
	}
	mu := h.locks[name]
	mu.Lock()
	return report, mu.Unlock, true
}

// refresh applies the query parameters to the report and runs one refresh
// cycle.
func (h *reportHandler) refresh(c *gin.Context, report portssvc.ReportService) error {
	var query dto.ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		return fmt.Errorf("binding report query: %w: %s", apperrors.ErrValidation, err.Error())
	}

	params := portssvc.ReportParams{
		Party:     query.Party,
		Reverted:  query.Reverted,
		GroupBy:   domain.GroupByKey(query.GroupBy),
		Ascending: query.Ascending,
	}
	if params.GroupBy == "" {
		params.GroupBy = domain.GroupByNone
	}
	if !params.GroupBy.Valid() {
		return fmt.Errorf("unknown groupBy %q: %w", query.GroupBy, apperrors.ErrValidation)
	}

	var err error
	if params.FromDate, err = parseDateParam(query.FromDate); err != nil {
		return err
	}
	if params.ToDate, err = parseDateParam(query.ToDate); err != nil {
		return err
	}

	report.ApplyFilters(params)
	report.SetDefaultFilters()
	return report.SetReportData(c.Request.Context(), query.Mode, query.Force)
}

func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateQueryLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", value, apperrors.ErrValidation)
	}
	return &t, nil
}
