package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "quantia/internal/errors"
	"quantia/internal/models"
	"quantia/internal/services"
)

// LedgerHandler handles the transactional write surface: deposits,
// withdrawals, trades and risk profile changes.
type LedgerHandler struct {
	ledgerService services.LedgerServicer
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService services.LedgerServicer) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// CashRequest represents a deposit or withdrawal payload
type CashRequest struct {
	UserID      uint    `json:"userId" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description" binding:"max=255"`
}

// TradeRequest represents a buy or sell payload
type TradeRequest struct {
	UserID      uint    `json:"userId" binding:"required"`
	PortfolioID uint    `json:"portfolioId" binding:"required"`
	AssetSymbol string  `json:"assetSymbol" binding:"required,max=10"`
	Quantity    float64 `json:"quantity" binding:"required,gt=0"`
	Price       float64 `json:"price" binding:"required,gt=0"`
}

// ChangeRiskRequest represents a risk profile change payload
type ChangeRiskRequest struct {
	UserID uint   `json:"userId" binding:"required"`
	Risk   string `json:"risk" binding:"required,risk_level"`
}

// Deposit credits a user's cash balance
// @Summary     Make a deposit
// @Description Credit the user's balance and record the transaction
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Param       request body CashRequest true "Deposit data"
// @Success     200 {object} map[string]interface{} "Deposit completed"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /db/deposit [post]
func (h *LedgerHandler) Deposit(c *gin.Context) {
	var req CashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	receipt, err := h.ledgerService.Deposit(c.Request.Context(), req.UserID, req.Amount, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Deposit completed successfully",
		"amount":  receipt.Amount,
	})
}

// Withdraw debits a user's cash balance
// @Summary     Make a withdrawal
// @Description Debit the user's balance if funds suffice and record the transaction
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Param       request body CashRequest true "Withdrawal data"
// @Success     200 {object} map[string]interface{} "Withdrawal completed"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient funds"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /db/withdrawal [post]
func (h *LedgerHandler) Withdraw(c *gin.Context) {
	var req CashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	receipt, err := h.ledgerService.Withdraw(c.Request.Context(), req.UserID, req.Amount, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Withdrawal completed successfully",
		"amount":  receipt.Amount,
	})
}

// Buy executes a buy trade against a portfolio
// @Summary     Buy an asset
// @Description Debit funds and fold the purchase into the portfolio holding
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Param       request body TradeRequest true "Buy order"
// @Success     200 {object} map[string]interface{} "Buy completed"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient funds"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /db/buy-asset [post]
func (h *LedgerHandler) Buy(c *gin.Context) {
	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	receipt, err := h.ledgerService.Buy(c.Request.Context(), req.UserID, req.PortfolioID, req.AssetSymbol, req.Quantity, req.Price)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Buy completed successfully",
		"asset":    receipt.Asset,
		"quantity": receipt.Quantity,
		"total":    receipt.Total,
	})
}

// Sell executes a sell trade against a portfolio
// @Summary     Sell an asset
// @Description Release the held quantity and credit the proceeds
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Param       request body TradeRequest true "Sell order"
// @Success     200 {object} map[string]interface{} "Sell completed"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient quantity"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /db/sell-asset [post]
func (h *LedgerHandler) Sell(c *gin.Context) {
	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	receipt, err := h.ledgerService.Sell(c.Request.Context(), req.UserID, req.PortfolioID, req.AssetSymbol, req.Quantity, req.Price)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Sell completed successfully",
		"asset":    receipt.Asset,
		"quantity": receipt.Quantity,
		"total":    receipt.Total,
	})
}

// ChangeRisk updates a user's risk profile
// @Summary     Change risk profile
// @Description Set the user's risk level to conservative, moderate or aggressive
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Param       request body ChangeRiskRequest true "Risk change data"
// @Success     201 {object} map[string]interface{} "Risk updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /db/change-risk [post]
func (h *LedgerHandler) ChangeRisk(c *gin.Context) {
	var req ChangeRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.ledgerService.ChangeRisk(req.UserID, models.RiskLevel(req.Risk)); err != nil {
		// A risk change against an unknown user reports a conflict, not a
		// missing resource.
		if errors.Is(err, apperrors.ErrUserNotFound) {
			err = apperrors.WithStatus(apperrors.ErrUserNotFound, http.StatusConflict)
		}
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Risk level updated successfully",
		"risk":    req.Risk,
	})
}
