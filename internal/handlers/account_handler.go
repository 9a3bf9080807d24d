package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "quantia/internal/errors"
	"quantia/internal/pagination"
	"quantia/internal/services"
)

// AccountHandler handles the read surface: connection checks and directory
// queries over users, portfolios, holdings and transactions.
type AccountHandler struct {
	accountService services.AccountServicer
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService services.AccountServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// CheckConnection verifies database reachability
// @Summary     Check database connection
// @Description Acquire a pooled connection and run a trivial round-trip query
// @Tags        account
// @Produce     json
// @Success     200 {object} map[string]interface{} "Connection OK"
// @Failure     500 {object} map[string]interface{} "Connection failed"
// @Router      /db/check-conn [get]
func (h *AccountHandler) CheckConnection(c *gin.Context) {
	if err := h.accountService.CheckConnection(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Database connection failed",
			"result":  "Error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connection successful",
		"result":  "OK",
	})
}

// LookupUser dispatches the two user lookup routes. They share a prefix the
// router cannot split statically (`/db/user/:id` vs `/db/user/email/:email`),
// so both hang off one catch-all.
func (h *AccountHandler) LookupUser(c *gin.Context) {
	lookup := strings.TrimPrefix(c.Param("lookup"), "/")
	if email, ok := strings.CutPrefix(lookup, "email/"); ok {
		c.Params = append(c.Params, gin.Param{Key: "email", Value: email})
		h.GetUserByEmail(c)
		return
	}
	c.Params = append(c.Params, gin.Param{Key: "id", Value: lookup})
	h.GetUser(c)
}

// GetUser returns one user by ID
// @Summary     Get user by ID
// @Description Fetch a user's directory record with normalized balance
// @Tags        account
// @Produce     json
// @Param       id path int true "User ID"
// @Success     200 {object} map[string]interface{} "User record"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /db/user/{id} [get]
func (h *AccountHandler) GetUser(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.accountService.GetUserByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// GetUserByEmail returns one user by email
// @Summary     Get user by email
// @Description Fetch a user's directory record by email address
// @Tags        account
// @Produce     json
// @Param       email path string true "Email address"
// @Success     200 {object} map[string]interface{} "User record"
// @Failure     400 {object} ErrorResponse "Invalid email"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /db/user/email/{email} [get]
func (h *AccountHandler) GetUserByEmail(c *gin.Context) {
	email := c.Param("email")

	user, err := h.accountService.GetUserByEmail(email)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// ListTransactions returns a user's transaction history, newest first
// @Summary     List transactions
// @Description Page through a user's transaction history in reverse date order
// @Tags        account
// @Produce     json
// @Param       userId path int true "User ID"
// @Param       limit query int false "Page size" default(10)
// @Param       offset query int false "Rows to skip" default(0)
// @Success     200 {object} map[string]interface{} "Transaction page"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /db/transactions/{userId} [get]
func (h *AccountHandler) ListTransactions(c *gin.Context) {
	userID, err := parsePathID(c, "userId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	page.Defaults()

	result, err := h.accountService.ListTransactions(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Data,
		"total":   result.Total,
	})
}

// ListPortfolios returns a user's portfolios with holding aggregates
// @Summary     List portfolios
// @Description Fetch a user's portfolios enriched with holding counts and invested totals
// @Tags        account
// @Produce     json
// @Param       userId path int true "User ID"
// @Success     200 {object} map[string]interface{} "Portfolio list"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /db/portfolios/{userId} [get]
func (h *AccountHandler) ListPortfolios(c *gin.Context) {
	userID, err := parsePathID(c, "userId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	portfolios, err := h.accountService.ListPortfolios(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user_id":    userID,
			"portfolios": portfolios,
			"count":      len(portfolios),
		},
	})
}

// GetPortfolioAssets returns the holdings of one portfolio
// @Summary     Get portfolio assets
// @Description Fetch a portfolio's holdings with normalized quantities and totals
// @Tags        account
// @Produce     json
// @Param       portfolioId path int true "Portfolio ID"
// @Success     200 {object} map[string]interface{} "Holdings listing"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Router      /db/portfolio/assets/{portfolioId} [get]
func (h *AccountHandler) GetPortfolioAssets(c *gin.Context) {
	portfolioID, err := parsePathID(c, "portfolioId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	record, err := h.accountService.GetPortfolioAssets(portfolioID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    record,
	})
}
