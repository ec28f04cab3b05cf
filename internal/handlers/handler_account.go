package handlers

import (
	"net/http"

	"github.com/SscSPs/finledger/internal/core/domain"
	portssvc "github.com/SscSPs/finledger/internal/core/ports/services"
	"github.com/SscSPs/finledger/internal/dto"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountReaderSvc
	journalService portssvc.JournalCalculatorSvc
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountReaderSvc, js portssvc.JournalCalculatorSvc) *accountHandler {
	return &accountHandler{
		accountService: as,
		journalService: js,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, as portssvc.AccountReaderSvc, js portssvc.JournalCalculatorSvc) {
	h := newAccountHandler(as, js)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.GET("/hierarchy", h.getHierarchy)
		accounts.GET("/:code", h.getAccount)
		accounts.GET("/:code/children", h.getChildren)
		accounts.GET("/:code/balance", h.getBalance)
		accounts.GET("/:code/ledger", h.getLedger)
	}
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists the chart of accounts ordered by code
// @Tags accounts
// @Produce  json
// @Success 200 {array} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// getAccount godoc
// @Summary Get an account
// @Description Retrieves one account by its code
// @Tags accounts
// @Produce  json
// @Param   code path string true "Account code"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Security BearerAuth
// @Router /accounts/{code} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.accountService.Lookup(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getChildren godoc
// @Summary List child accounts
// @Description Lists the direct children of an account
// @Tags accounts
// @Produce  json
// @Param   code path string true "Parent account code"
// @Success 200 {array} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to list child accounts"
// @Security BearerAuth
// @Router /accounts/{code}/children [get]
func (h *accountHandler) getChildren(c *gin.Context) {
	children, err := h.accountService.Children(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err, "Failed to list child accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(children))
}

// getHierarchy godoc
// @Summary Get the account hierarchy
// @Description Returns the account tree; root narrows it to one subtree
// @Tags accounts
// @Produce  json
// @Param   root query string false "Root account code"
// @Success 200 {array} dto.AccountNodeResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to build account hierarchy"
// @Security BearerAuth
// @Router /accounts/hierarchy [get]
func (h *accountHandler) getHierarchy(c *gin.Context) {
	nodes, err := h.accountService.Hierarchy(c.Request.Context(), c.Query("root"))
	if err != nil {
		respondError(c, err, "Failed to build account hierarchy")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountTreeResponse(nodes))
}

// getBalance godoc
// @Summary Get an account balance
// @Description Sums debits minus credits in the account currency, excluding reversal pairs
// @Tags accounts
// @Produce  json
// @Param   code path string true "Account code"
// @Param   asOf query string false "Balance date (YYYY-MM-DD)"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to calculate balance"
// @Security BearerAuth
// @Router /accounts/{code}/balance [get]
func (h *accountHandler) getBalance(c *gin.Context) {
	code := c.Param("code")
	asOf, ok := optionalDate(c, "asOf")
	if !ok {
		return
	}

	account, err := h.accountService.Lookup(c.Request.Context(), code)
	if err != nil {
		respondError(c, err, "Failed to calculate balance")
		return
	}
	balance, err := h.journalService.AccountBalance(c.Request.Context(), code, asOf)
	if err != nil {
		respondError(c, err, "Failed to calculate balance")
		return
	}

	resp := dto.AccountBalanceResponse{AccountCode: code, CurrencyCode: account.CurrencyCode, Balance: balance}
	if asOf != nil {
		resp.AsOf = asOf.Format(domain.DateLayout)
	}
	c.JSON(http.StatusOK, resp)
}

// getLedger godoc
// @Summary Get an account ledger
// @Description Lists every line posted to the account with a running balance
// @Tags accounts
// @Produce  json
// @Param   code path string true "Account code"
// @Success 200 {array} dto.LedgerRowResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve ledger"
// @Security BearerAuth
// @Router /accounts/{code}/ledger [get]
func (h *accountHandler) getLedger(c *gin.Context) {
	rows, err := h.journalService.AccountLedger(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err, "Failed to retrieve ledger")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerResponse(rows))
}
