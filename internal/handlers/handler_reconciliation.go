package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roomledger/roomledger_backend/internal/apperrors"
	"github.com/roomledger/roomledger_backend/internal/core/domain"
	portssvc "github.com/roomledger/roomledger_backend/internal/core/ports/services"
	"github.com/roomledger/roomledger_backend/internal/dto"
	"github.com/roomledger/roomledger_backend/internal/middleware"
)

// reconciliationHandler handles HTTP requests for the matching workflow.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
	aggregationService    portssvc.AggregationSvcFacade
}

// newReconciliationHandler creates a new reconciliationHandler.
func newReconciliationHandler(rs portssvc.ReconciliationSvcFacade, as portssvc.AggregationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{
		reconciliationService: rs,
		aggregationService:    as,
	}
}

// registerReconciliationRoutes registers the workflow routes.
func registerReconciliationRoutes(rg *gin.RouterGroup, rs portssvc.ReconciliationSvcFacade, as portssvc.AggregationSvcFacade) {
	h := newReconciliationHandler(rs, as)

	reconciliation := rg.Group("/reconciliation")
	{
		reconciliation.POST("/transactions/:transactionID", h.reconcileTransaction)
		reconciliation.GET("/tenants/:tenantID/groups", h.findGroups)
		reconciliation.POST("/tenants/:tenantID/groups/apply", h.applyGroups)
	}
}

// reconcileTransaction runs one transaction through the matching workflow.
// 200 with a receipt means the payment was credited; 204 means the
// transaction was examined and deliberately not credited.
func (h *reconciliationHandler) reconcileTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	if operatorID, ok := middleware.GetUserIDFromContext(c); ok {
		logger = logger.With(slog.String("operator_id", operatorID))
	}

	// The body is optional; an empty body means no same-day total.
	var req dto.ReconcileTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("Failed to bind JSON for ReconcileTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	receipt, err := h.reconciliationService.Reconcile(c.Request.Context(), transactionID, req.SameDayTotal)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error reconciling transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Conflict reconciling transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to reconcile transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile transaction"})
		}
		return
	}
	if receipt == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, dto.ToReceiptResponse(*receipt))
}

// findGroups returns the winning aggregated group for a tenant and period,
// if any.
func (h *reconciliationHandler) findGroups(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	periodStart, ok := h.bindPeriodStart(c)
	if !ok {
		return
	}

	groups, err := h.aggregationService.FindPartialGroups(c.Request.Context(), tenantID, periodStart)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tenant not found"})
			return
		}
		logger.Error("Failed to find payment groups", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find payment groups"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": dto.ToListPaymentGroupResponse(groups)})
}

// applyGroups re-finds the winning group for the period and feeds its
// members through the workflow.
func (h *reconciliationHandler) applyGroups(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenantID")

	var req dto.ApplyGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ApplyGroups", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	period, err := domain.ParsePeriod(req.Period)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	groups, err := h.aggregationService.FindPartialGroups(c.Request.Context(), tenantID, period.Start())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tenant not found"})
			return
		}
		logger.Error("Failed to find payment groups", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find payment groups"})
		return
	}

	receipts := make([]dto.ReceiptResponse, 0)
	for _, group := range groups {
		applied, err := h.aggregationService.ApplyGroup(c.Request.Context(), group)
		if err != nil {
			logger.Error("Failed to apply payment group", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply payment group"})
			return
		}
		for _, receipt := range applied {
			if receipt != nil {
				receipts = append(receipts, dto.ToReceiptResponse(*receipt))
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"receipts": receipts})
}

// bindPeriodStart reads the optional ?period=YYYY-MM query parameter,
// defaulting to the current month.
func (h *reconciliationHandler) bindPeriodStart(c *gin.Context) (time.Time, bool) {
	var req dto.FindGroupsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return time.Time{}, false
	}
	if req.Period == "" {
		return domain.PeriodOf(time.Now().UTC()).Start(), true
	}
	period, err := domain.ParsePeriod(req.Period)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return time.Time{}, false
	}
	return period.Start(), true
}
