package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/finledger/internal/core/domain"
	portssvc "github.com/SscSPs/finledger/internal/core/ports/services"
	"github.com/SscSPs/finledger/internal/dto"
	"github.com/SscSPs/finledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{
		exchangeRateService: ers,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, ers portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(ers)

	rates := rg.Group("/exchange-rates")
	{
		rates.POST("", h.addExchangeRate)
		rates.GET("/:from/:to", h.getExchangeRate)
	}
}

// addExchangeRate godoc
// @Summary Add an exchange rate
// @Description Stores the rate for a currency pair on a date, replacing any rate already stored for it
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.CreateExchangeRateRequest true "Exchange Rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to add exchange rate"
// @Security BearerAuth
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) addExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddExchangeRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actorID, ok := actorOrAbort(c)
	if !ok {
		return
	}
	date, err := req.ParsedDate()
	if err != nil {
		respondError(c, err, "Failed to add exchange rate")
		return
	}

	rate, err := h.exchangeRateService.AddRate(c.Request.Context(), date, req.FromCurrencyCode, req.ToCurrencyCode, req.Rate, req.Source, actorID)
	if err != nil {
		respondError(c, err, "Failed to add exchange rate")
		return
	}

	logger.Info("Exchange rate stored",
		slog.String("from_code", rate.FromCurrency), slog.String("to_code", rate.ToCurrency), slog.String("date", req.Date))
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(rate))
}

// getExchangeRate godoc
// @Summary Get exchange rates for a pair
// @Description With date, returns the rate the resolver applies on that date; otherwise the stored rates, newest first
// @Tags exchange rates
// @Produce  json
// @Param   from path string true "From Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param   to   path string true "To Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param   date query string false "Resolution date (YYYY-MM-DD)"
// @Success 200 {array} dto.ExchangeRateResponse "Stored rates when no date is given"
// @Success 200 {object} dto.ResolvedRateResponse "Resolved rate when a date is given"
// @Failure 400 {object} map[string]string "Invalid currency code format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Exchange rate not found"
// @Failure 500 {object} map[string]string "Failed to retrieve exchange rate"
// @Security BearerAuth
// @Router /exchange-rates/{from}/{to} [get]
func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	fromCode := strings.ToUpper(c.Param("from"))
	toCode := strings.ToUpper(c.Param("to"))
	if len(fromCode) != 3 || len(toCode) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency codes must be 3 letters"})
		return
	}

	date, ok := optionalDate(c, "date")
	if !ok {
		return
	}

	if date == nil {
		rates, err := h.exchangeRateService.ListRates(c.Request.Context(), fromCode, toCode)
		if err != nil {
			respondError(c, err, "Failed to list exchange rates")
			return
		}
		c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(rates))
		return
	}

	rate, err := h.exchangeRateService.GetRate(c.Request.Context(), fromCode, *date, toCode)
	if err != nil {
		respondError(c, err, "Failed to resolve exchange rate")
		return
	}
	c.JSON(http.StatusOK, dto.ResolvedRateResponse{
		Date:             date.Format(domain.DateLayout),
		FromCurrencyCode: fromCode,
		ToCurrencyCode:   toCode,
		Rate:             rate,
	})
}
