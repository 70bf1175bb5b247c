package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kigalisoft/salon_manager_app/internal/apperrors"
	portssvc "github.com/kigalisoft/salon_manager_app/internal/core/ports/services"
	"github.com/kigalisoft/salon_manager_app/internal/dto"
	"github.com/kigalisoft/salon_manager_app/internal/middleware"
)

// commissionHandler handles HTTP requests related to commissions and settlements.
type commissionHandler struct {
	commissionService portssvc.CommissionSvcFacade
}

// newCommissionHandler creates a new commissionHandler.
func newCommissionHandler(cs portssvc.CommissionSvcFacade) *commissionHandler {
	return &commissionHandler{
		commissionService: cs,
	}
}

// registerCommissionRoutes registers routes related to commissions.
func registerCommissionRoutes(rg *gin.RouterGroup, commissionService portssvc.CommissionSvcFacade) {
	h := newCommissionHandler(commissionService)

	commissions := rg.Group("/commissions")
	{
		commissions.GET("", h.listCommissions)
		commissions.GET("/unpaid-summary", h.getUnpaidSummary)
		commissions.GET("/:commissionID", h.getCommission)
		commissions.POST("/:commissionID/mark-paid", h.markPaid)
		commissions.POST("/mark-paid-batch", h.markPaidBatch)
	}
}

// settlementErrorResponse maps a settlement failure to an HTTP response.
// Insufficient balance carries the wallet detail the client needs to offer a
// top-up before retrying.
func settlementErrorResponse(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error settling commissions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Commission not found for settlement", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAlreadyPaid), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Settlement conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientBalance):
		logger.Warn("Settlement rejected for insufficient balance", slog.String("error", err.Error()))
		resp := gin.H{"error": err.Error()}
		var balErr *apperrors.InsufficientBalanceError
		if errors.As(err, &balErr) {
			resp["balance"] = balErr.Balance
			resp["required"] = balErr.Required
		}
		c.JSON(http.StatusUnprocessableEntity, resp)
	default:
		logger.Error("Failed to settle commissions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to settle commissions"})
	}
}

// markPaid godoc
// @Summary Mark a commission as paid
// @Description Settles one unpaid commission, debiting the employee's wallet when the method is WALLET
// @Tags commissions
// @Accept  json
// @Produce  json
// @Param   commissionID path string true "Commission ID"
// @Param   settlement body dto.SettleRequest true "Settlement details"
// @Success 200 {object} dto.SettlementResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Commission not found"
// @Failure 409 {object} map[string]string "Commission already paid"
// @Failure 422 {object} map[string]interface{} "Insufficient wallet balance"
// @Failure 500 {object} map[string]string "Failed to settle commission"
// @Security BearerAuth
// @Router /commissions/{commissionID}/mark-paid [post]
func (h *commissionHandler) markPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	commissionID := c.Param("commissionID")

	var req dto.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for MarkPaid", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("commission_id", commissionID))
	logger.Info("Received request to settle commission", slog.String("method", req.PaymentMethod))

	settlement, err := h.commissionService.SettleSingle(c.Request.Context(), commissionID, req, userID)
	if err != nil {
		settlementErrorResponse(c, logger, err)
		return
	}

	logger.Info("Commission settled successfully", slog.String("settlement_id", settlement.SettlementID))
	c.JSON(http.StatusOK, dto.ToSettlementResponse(settlement))
}

// markPaidBatch godoc
// @Summary Mark a batch of commissions as paid
// @Description Settles a set of unpaid commissions all-or-nothing with one wallet debit of the total
// @Tags commissions
// @Accept  json
// @Produce  json
// @Param   settlement body dto.SettleBatchRequest true "Batch settlement details"
// @Success 200 {object} dto.SettlementResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "A listed commission was not found"
// @Failure 409 {object} map[string]string "A listed commission is already paid"
// @Failure 422 {object} map[string]interface{} "Insufficient wallet balance for the batch total"
// @Failure 500 {object} map[string]string "Failed to settle commissions"
// @Security BearerAuth
// @Router /commissions/mark-paid-batch [post]
func (h *commissionHandler) markPaidBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SettleBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for MarkPaidBatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger.Info("Received request to settle commission batch",
		slog.Int("commission_count", len(req.CommissionIDs)),
		slog.String("method", req.PaymentMethod))

	settlement, err := h.commissionService.SettleBatch(c.Request.Context(), req, userID)
	if err != nil {
		settlementErrorResponse(c, logger, err)
		return
	}

	logger.Info("Commission batch settled successfully",
		slog.String("settlement_id", settlement.SettlementID),
		slog.String("total_amount", settlement.TotalAmount.String()))
	c.JSON(http.StatusOK, dto.ToSettlementResponse(settlement))
}

// getCommission godoc
// @Summary Get a commission by ID
// @Description Retrieves details for a specific commission record
// @Tags commissions
// @Produce  json
// @Param   commissionID path string true "Commission ID"
// @Success 200 {object} dto.CommissionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Commission not found"
// @Failure 500 {object} map[string]string "Failed to retrieve commission"
// @Security BearerAuth
// @Router /commissions/{commissionID} [get]
func (h *commissionHandler) getCommission(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	commissionID := c.Param("commissionID")

	record, err := h.commissionService.GetCommissionByID(c.Request.Context(), commissionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commission not found"})
		} else {
			logger.Error("Failed to get commission", slog.String("error", err.Error()), slog.String("commission_id", commissionID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve commission"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCommissionResponse(record))
}

// listCommissions godoc
// @Summary List an employee's commissions
// @Description Retrieves a page of an employee's commissions, newest first, optionally filtered by paid status
// @Tags commissions
// @Produce  json
// @Param   employeeID query string true "Employee ID"
// @Param   paid query bool false "Filter by paid status"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListCommissionsResponse
// @Failure 400 {object} map[string]string "Missing employee ID or invalid parameter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list commissions"
// @Security BearerAuth
// @Router /commissions [get]
func (h *commissionHandler) listCommissions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ListCommissionsParams{
		EmployeeID: c.Query("employeeID"),
	}
	if paidStr := c.Query("paid"); paidStr != "" {
		paid, err := strconv.ParseBool(paidStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paid parameter"})
			return
		}
		params.Paid = &paid
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		params.Limit = limit
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	resp, err := h.commissionService.ListCommissions(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) && appErr.Code == 400 {
				c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Message})
				return
			}
			logger.Error("Failed to list commissions", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list commissions"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getUnpaidSummary godoc
// @Summary Summarize an employee's unpaid commissions
// @Description Returns the count and total of unpaid commissions for the batch settlement screen
// @Tags commissions
// @Produce  json
// @Param   employeeID query string true "Employee ID"
// @Success 200 {object} dto.UnpaidCommissionSummary
// @Failure 400 {object} map[string]string "Missing employee ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to summarize commissions"
// @Security BearerAuth
// @Router /commissions/unpaid-summary [get]
func (h *commissionHandler) getUnpaidSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	employeeID := c.Query("employeeID")

	summary, err := h.commissionService.GetUnpaidSummary(c.Request.Context(), employeeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to summarize unpaid commissions", slog.String("error", err.Error()), slog.String("employee_id", employeeID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to summarize commissions"})
		}
		return
	}

	c.JSON(http.StatusOK, summary)
}
