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

// stockHandler handles HTTP requests related to the stock ledger.
type stockHandler struct {
	inventoryService portssvc.InventorySvcFacade
}

// newStockHandler creates a new stockHandler.
func newStockHandler(is portssvc.InventorySvcFacade) *stockHandler {
	return &stockHandler{
		inventoryService: is,
	}
}

// registerStockRoutes registers routes related to stock movements and levels.
func registerStockRoutes(rg *gin.RouterGroup, inventoryService portssvc.InventorySvcFacade) {
	h := newStockHandler(inventoryService)

	products := rg.Group("/products")
	{
		products.POST("/:productID/movements", h.appendMovement)
		products.GET("/:productID/movements", h.listMovements)
		products.GET("/:productID/stock", h.getStockLevel)
		products.POST("/:productID/stock/rebuild", h.rebuildStockLevel)
	}

	salons := rg.Group("/salons")
	{
		salons.GET("/:salonID/products/low-stock", h.listLowStockProducts)
	}
}

// appendMovement godoc
// @Summary Append a stock movement
// @Description Appends one immutable movement to a product's stock ledger and returns it with the resulting level
// @Tags stock
// @Accept  json
// @Produce  json
// @Param   productID path string true "Product ID"
// @Param   movement body dto.CreateMovementRequest true "Movement details"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 422 {object} map[string]string "Insufficient stock under strict policy"
// @Failure 500 {object} map[string]string "Failed to append movement"
// @Security BearerAuth
// @Router /products/{productID}/movements [post]
func (h *stockHandler) appendMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")

	var req dto.CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AppendMovement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("product_id", productID))
	logger.Info("Received request to append stock movement", slog.String("movement_type", req.MovementType))

	movement, err := h.inventoryService.AppendMovement(c.Request.Context(), productID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error appending movement", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Product not found for movement")
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		} else if errors.Is(err, apperrors.ErrInsufficientStock) {
			logger.Warn("Movement rejected for insufficient stock", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to append movement in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to append movement"})
		}
		return
	}

	logger.Info("Stock movement appended successfully", slog.String("movement_id", movement.MovementID))
	c.JSON(http.StatusCreated, movement)
}

// listMovements godoc
// @Summary List a product's stock movements
// @Description Retrieves a page of a product's movement history, oldest first
// @Tags stock
// @Produce  json
// @Param   productID path string true "Product ID"
// @Param   limit query int false "Limit number of results" default(50)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListMovementsResponse
// @Failure 400 {object} map[string]string "Invalid pagination token"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Failed to list movements"
// @Security BearerAuth
// @Router /products/{productID}/movements [get]
func (h *stockHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")

	params := dto.ListMovementsParams{}
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

	resp, err := h.inventoryService.ListMovements(c.Request.Context(), productID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		} else {
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) && appErr.Code == 400 {
				c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Message})
				return
			}
			logger.Error("Failed to list movements", slog.String("error", err.Error()), slog.String("product_id", productID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list movements"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getStockLevel godoc
// @Summary Get a product's stock level
// @Description Retrieves the current stock projection (level, low-stock and out-of-stock flags) for a product
// @Tags stock
// @Produce  json
// @Param   productID path string true "Product ID"
// @Success 200 {object} dto.StockLevelResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Failed to retrieve stock level"
// @Security BearerAuth
// @Router /products/{productID}/stock [get]
func (h *stockHandler) getStockLevel(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")

	resp, err := h.inventoryService.GetStockLevel(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		} else {
			logger.Error("Failed to get stock level", slog.String("error", err.Error()), slog.String("product_id", productID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stock level"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// rebuildStockLevel godoc
// @Summary Rebuild a product's stock level from its ledger
// @Description Refolds the full movement history and repairs the cached stock level
// @Tags stock
// @Produce  json
// @Param   productID path string true "Product ID"
// @Success 200 {object} dto.StockLevelResponse
// @Failure 400 {object} map[string]string "Product is not inventory-tracked"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Failed to rebuild stock level"
// @Security BearerAuth
// @Router /products/{productID}/stock/rebuild [post]
func (h *stockHandler) rebuildStockLevel(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("product_id", productID))
	logger.Info("Received request to rebuild stock level")

	resp, err := h.inventoryService.RebuildStockLevel(c.Request.Context(), productID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error rebuilding stock level", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Product not found for rebuild")
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		} else {
			logger.Error("Failed to rebuild stock level", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rebuild stock level"})
		}
		return
	}

	logger.Info("Stock level rebuilt", slog.String("level", resp.Level.String()))
	c.JSON(http.StatusOK, resp)
}

// listLowStockProducts godoc
// @Summary List low-stock products for a salon
// @Description Retrieves inventory-tracked products at or below the low-stock threshold, most depleted first
// @Tags stock
// @Produce  json
// @Param   salonID path string true "Salon ID"
// @Success 200 {array} dto.ProductStockResponse
// @Failure 400 {object} map[string]string "Missing salon ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list low stock products"
// @Security BearerAuth
// @Router /salons/{salonID}/products/low-stock [get]
func (h *stockHandler) listLowStockProducts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	salonID := c.Param("salonID")

	resp, err := h.inventoryService.ListLowStockProducts(c.Request.Context(), salonID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list low stock products", slog.String("error", err.Error()), slog.String("salon_id", salonID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list low stock products"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
