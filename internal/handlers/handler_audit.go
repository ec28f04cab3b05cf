package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/finledger/internal/core/ports/services"
	"github.com/SscSPs/finledger/internal/dto"
	"github.com/gin-gonic/gin"
)

// auditHandler exposes the audit log read-only.
type auditHandler struct {
	auditService portssvc.AuditReaderSvc
}

func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditReaderSvc) {
	h := &auditHandler{auditService: auditService}

	audit := rg.Group("/audit")
	{
		audit.GET("/records/:table/:recordID", h.recordHistory)
		audit.GET("/tables/:table", h.tableHistory)
		audit.GET("/actors/:actorID", h.actorActivity)
	}
}

// recordHistory godoc
// @Summary Get the audit history of a record
// @Description Lists every change to one record, oldest first
// @Tags audit
// @Produce  json
// @Param   table path string true "Table name"
// @Param   recordID path string true "Record ID"
// @Success 200 {object} dto.ListAuditResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to retrieve audit history"
// @Security BearerAuth
// @Router /audit/records/{table}/{recordID} [get]
func (h *auditHandler) recordHistory(c *gin.Context) {
	entries, err := h.auditService.History(c.Request.Context(), c.Param("table"), c.Param("recordID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve audit history")
		return
	}
	c.JSON(http.StatusOK, dto.ListAuditResponse{Entries: entries})
}

// tableHistory godoc
// @Summary Get the audit history of a table
// @Description Lists changes to a table within a time window, newest first
// @Tags audit
// @Produce  json
// @Param   table path string true "Table name"
// @Param   from query string false "Window start (YYYY-MM-DD)"
// @Param   to query string false "Window end, inclusive (YYYY-MM-DD)"
// @Param   limit query int false "Limit number of results" default(100)
// @Success 200 {object} dto.ListAuditResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to retrieve audit history"
// @Security BearerAuth
// @Router /audit/tables/{table} [get]
func (h *auditHandler) tableHistory(c *gin.Context) {
	var q dto.AuditQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	window, err := q.Window()
	if err != nil {
		respondError(c, err, "Failed to retrieve audit history")
		return
	}

	entries, err := h.auditService.TableHistory(c.Request.Context(), c.Param("table"), window, q.Limit)
	if err != nil {
		respondError(c, err, "Failed to retrieve audit history")
		return
	}
	c.JSON(http.StatusOK, dto.ListAuditResponse{Entries: entries})
}

// actorActivity godoc
// @Summary Get the activity of an actor
// @Description Lists changes made by one actor within a time window, newest first
// @Tags audit
// @Produce  json
// @Param   actorID path string true "Actor ID"
// @Param   from query string false "Window start (YYYY-MM-DD)"
// @Param   to query string false "Window end, inclusive (YYYY-MM-DD)"
// @Param   limit query int false "Limit number of results" default(100)
// @Success 200 {object} dto.ListAuditResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to retrieve actor activity"
// @Security BearerAuth
// @Router /audit/actors/{actorID} [get]
func (h *auditHandler) actorActivity(c *gin.Context) {
	var q dto.AuditQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	window, err := q.Window()
	if err != nil {
		respondError(c, err, "Failed to retrieve actor activity")
		return
	}

	entries, err := h.auditService.ActorActivity(c.Request.Context(), c.Param("actorID"), window, q.Limit)
	if err != nil {
		respondError(c, err, "Failed to retrieve actor activity")
		return
	}
	c.JSON(http.StatusOK, dto.ListAuditResponse{Entries: entries})
}
