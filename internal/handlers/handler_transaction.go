package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roomledger/roomledger_backend/internal/apperrors"
	portssvc "github.com/roomledger/roomledger_backend/internal/core/ports/services"
	"github.com/roomledger/roomledger_backend/internal/dto"
	"github.com/roomledger/roomledger_backend/internal/middleware"
)

// transactionHandler handles HTTP requests for the bank feed.
type transactionHandler struct {
	ingestService portssvc.IngestSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(is portssvc.IngestSvcFacade) *transactionHandler {
	return &transactionHandler{
		ingestService: is,
	}
}

// registerTransactionRoutes registers routes for the bank feed.
func registerTransactionRoutes(rg *gin.RouterGroup, ingestService portssvc.IngestSvcFacade) {
	h := newTransactionHandler(ingestService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.ingestTransactions)
	}
}

// ingestTransactions upserts a batch of feed entries keyed on their
// provider-assigned external ids. Replayed entries come back unchanged.
func (h *transactionHandler) ingestTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.IngestTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for IngestTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received feed batch", slog.Int("count", len(req.Transactions)))

	stored, err := h.ingestService.IngestTransactions(c.Request.Context(), req.ToDomainTransactions())
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error ingesting transactions", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to ingest transactions", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ingest transactions"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transactions": dto.ToListTransactionResponse(stored)})
}
