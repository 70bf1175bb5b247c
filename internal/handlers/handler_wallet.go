package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kigalisoft/salon_manager_app/internal/apperrors"
	portssvc "github.com/kigalisoft/salon_manager_app/internal/core/ports/services"
	"github.com/kigalisoft/salon_manager_app/internal/dto"
	"github.com/kigalisoft/salon_manager_app/internal/middleware"
)

// walletHandler handles HTTP requests related to wallets.
type walletHandler struct {
	walletService portssvc.WalletSvcFacade
}

// newWalletHandler creates a new walletHandler.
func newWalletHandler(ws portssvc.WalletSvcFacade) *walletHandler {
	return &walletHandler{
		walletService: ws,
	}
}

// registerWalletRoutes registers routes related to wallets.
func registerWalletRoutes(rg *gin.RouterGroup, walletService portssvc.WalletSvcFacade) {
	h := newWalletHandler(walletService)

	wallets := rg.Group("/wallets")
	{
		wallets.GET("/:ownerID", h.getBalance)
		wallets.POST("/:ownerID/top-up", h.topUp)
	}
}

// getBalance godoc
// @Summary Get a wallet balance
// @Description Retrieves the wallet balance for an owner (employee or salon)
// @Tags wallets
// @Produce  json
// @Param   ownerID path string true "Owner ID"
// @Success 200 {object} dto.WalletBalanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Wallet not found"
// @Failure 500 {object} map[string]string "Failed to retrieve wallet"
// @Security BearerAuth
// @Router /wallets/{ownerID} [get]
func (h *walletHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID := c.Param("ownerID")

	wallet, err := h.walletService.GetBalance(c.Request.Context(), ownerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
		} else {
			logger.Error("Failed to get wallet balance", slog.String("error", err.Error()), slog.String("owner_id", ownerID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve wallet"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToWalletBalanceResponse(wallet))
}

// topUp godoc
// @Summary Top up a wallet
// @Description Credits the owner's wallet and returns the new balance
// @Tags wallets
// @Accept  json
// @Produce  json
// @Param   ownerID path string true "Owner ID"
// @Param   topUp body dto.TopUpRequest true "Top-up details"
// @Success 200 {object} dto.WalletBalanceResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Wallet not found"
// @Failure 500 {object} map[string]string "Failed to top up wallet"
// @Security BearerAuth
// @Router /wallets/{ownerID}/top-up [post]
func (h *walletHandler) topUp(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID := c.Param("ownerID")

	var req dto.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for TopUp", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("owner_id", ownerID))
	logger.Info("Received request to top up wallet", slog.String("amount", req.Amount.String()))

	if _, err := h.walletService.TopUp(c.Request.Context(), ownerID, req, userID); err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error topping up wallet", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Wallet not found for top-up")
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
		} else {
			logger.Error("Failed to top up wallet", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to top up wallet"})
		}
		return
	}

	// Re-read for the full response shape (owner type, currency, display).
	wallet, err := h.walletService.GetBalance(c.Request.Context(), ownerID)
	if err != nil {
		logger.Error("Failed to re-read wallet after top-up", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve wallet"})
		return
	}

	logger.Info("Wallet topped up successfully", slog.String("new_balance", wallet.Balance.String()))
	c.JSON(http.StatusOK, dto.ToWalletBalanceResponse(wallet))
}
