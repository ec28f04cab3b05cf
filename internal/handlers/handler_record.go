package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/finledger/internal/core/ports/services"
	"github.com/SscSPs/finledger/internal/dto"
	"github.com/SscSPs/finledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// recordHandler accepts normalized records from statement parsers.
type recordHandler struct {
	transactionService portssvc.TransactionSvc
	ingestService      portssvc.IngestSvc
}

func newRecordHandler(ts portssvc.TransactionSvc, is portssvc.IngestSvc) *recordHandler {
	return &recordHandler{transactionService: ts, ingestService: is}
}

func registerRecordRoutes(rg *gin.RouterGroup, ts portssvc.TransactionSvc, is portssvc.IngestSvc) {
	h := newRecordHandler(ts, is)

	records := rg.Group("/records")
	{
		records.POST("", h.recordOne)
		records.POST("/batch", h.recordBatch)
	}
}

// recordOne godoc
// @Summary Record a normalized statement record
// @Description Maps the record to a journal exactly once; a duplicate answers 200 with the original journal
// @Tags records
// @Accept  json
// @Produce  json
// @Param   record body dto.RecordRequest true "Record and its source"
// @Success 201 {object} domain.TransactionResult "Newly recorded"
// @Success 200 {object} domain.TransactionResult "Duplicate"
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]interface{} "Unbalanced mapping or exchange rate not found"
// @Failure 500 {object} map[string]string "Failed to record transaction"
// @Security BearerAuth
// @Router /records [post]
func (h *recordHandler) recordOne(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for record", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actorID, ok := actorOrAbort(c)
	if !ok {
		return
	}
	rec, err := req.Record.ToDomain()
	if err != nil {
		respondError(c, err, "Failed to record transaction")
		return
	}

	result, err := h.transactionService.Record(c.Request.Context(), actorID, rec, req.SourceType, req.SourceFile)
	if err != nil {
		respondError(c, err, "Failed to record transaction")
		return
	}

	status := http.StatusOK
	if result.WasNewlyRecorded {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

// recordBatch godoc
// @Summary Record a batch of normalized records
// @Description Records each item in its own transaction; per-record failures are reported in the body
// @Tags records
// @Accept  json
// @Produce  json
// @Param   batch body dto.BatchRecordRequest true "Records and their source"
// @Success 200 {object} domain.BatchReport
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to ingest batch"
// @Security BearerAuth
// @Router /records/batch [post]
func (h *recordHandler) recordBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.BatchRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for record batch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actorID, ok := actorOrAbort(c)
	if !ok {
		return
	}
	records, err := req.ToDomainRecords()
	if err != nil {
		respondError(c, err, "Failed to ingest batch")
		return
	}

	report, err := h.ingestService.Ingest(c.Request.Context(), actorID, req.SourceType, req.SourceFile, records)
	if err != nil {
		respondError(c, err, "Failed to ingest batch")
		return
	}
	c.JSON(http.StatusOK, report)
}
