package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/finledger/internal/core/domain"
	portssvc "github.com/SscSPs/finledger/internal/core/ports/services"
	"github.com/SscSPs/finledger/internal/dto"
	"github.com/SscSPs/finledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
	tolerance        decimal.Decimal
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService, tolerance decimal.Decimal) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		tolerance:        tolerance,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService, tolerance decimal.Decimal) {
	h := newReportingHandler(reportingService, tolerance)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
	}
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Per-account debit and credit totals in base currency; without asOf it covers the whole ledger
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf, ok := optionalDate(c, "asOf")
	if !ok {
		return
	}

	tb, err := h.reportingService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err, "Failed to generate trial balance")
		return
	}

	asOfStr := ""
	if asOf != nil {
		asOfStr = asOf.Format(domain.DateLayout)
	}
	resp := dto.ToTrialBalanceResponse(tb, asOfStr, h.tolerance)
	if !resp.Balanced {
		logger.Error("Trial balance does not balance",
			slog.String("total_debit", tb.TotalDebit.String()), slog.String("total_credit", tb.TotalCredit.String()))
	}
	c.JSON(http.StatusOK, resp)
}
