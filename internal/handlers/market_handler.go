package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "quantia/internal/errors"
	"quantia/internal/market"
)

// MarketHandler handles the market data pass-through surface. Every endpoint
// delegates to the upstream provider and reshapes the response; nothing is
// cached or persisted.
type MarketHandler struct {
	client *market.Client
}

// NewMarketHandler creates a new MarketHandler
func NewMarketHandler(client *market.Client) *MarketHandler {
	return &MarketHandler{client: client}
}

func symbolParam(c *gin.Context) (string, bool) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Symbol is required"))
		return "", false
	}
	return symbol, true
}

func countQuery(c *gin.Context, fallback int) int {
	raw := c.Query("count")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// Search looks up symbols matching a query
// @Summary     Search symbols
// @Description Search the provider for symbols matching a ticker or name
// @Tags        market
// @Produce     json
// @Param       symbol path string true "Search query"
// @Success     200 {object} market.SearchResult
// @Failure     500 {object} map[string]interface{} "Provider failure"
// @Router      /api/search/{symbol} [get]
func (h *MarketHandler) Search(c *gin.Context) {
	symbol, ok := symbolParam(c)
	if !ok {
		return
	}

	result, err := h.client.Search(c.Request.Context(), symbol)
	if err != nil {
		respondProviderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Historical returns daily bars since the fixed analysis start date
// @Summary     Historical bars
// @Description Fetch daily OHLCV bars for long-horizon analysis
// @Tags        market
// @Produce     json
// @Param       symbol path string true "Ticker symbol"
// @Success     200 {object} market.HistoricalResult
// @Failure     500 {object} map[string]interface{} "Provider failure"
// @Router      /api/historical/{symbol} [get]
func (h *MarketHandler) Historical(c *gin.Context) {
	symbol, ok := symbolParam(c)
	if !ok {
		return
	}

	result, err := h.client.Historical(c.Request.Context(), symbol)
	if err != nil {
		respondProviderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Intraday returns today's bars at a chosen interval
// @Summary     Intraday bars
// @Description Fetch the current day's bars at the requested interval
// @Tags        market
// @Produce     json
// @Param       symbol path string true "Ticker symbol"
// @Param       interval query string false "Bar interval" default(1m)
// @Success     200 {object} market.IntradayResult
// @Failure     400 {object} ErrorResponse "Invalid interval"
// @Failure     500 {object} map[string]interface{} "Provider failure"
// @Router      /api/today/{symbol} [get]
func (h *MarketHandler) Intraday(c *gin.Context) {
	symbol, ok := symbolParam(c)
	if !ok {
		return
	}

	interval := c.DefaultQuery("interval", "1m")
	if !market.ValidInterval(interval) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unsupported interval: "+interval))
		return
	}

	result, err := h.client.Intraday(c.Request.Context(), symbol, interval)
	if err != nil {
		respondProviderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Quote returns a merged quote and fundamentals view
// @Summary     Full quote
// @Description Fetch the real-time quote merged with profile and key statistics
// @Tags        market
// @Produce     json
// @Param       symbol path string true "Ticker symbol"
// @Success     200 {object} market.QuoteResult
// @Failure     500 {object} map[string]interface{} "Provider failure"
// @Router      /api/quote/{symbol} [get]
func (h *MarketHandler) Quote(c *gin.Context) {
	symbol, ok := symbolParam(c)
	if !ok {
		return
	}

	result, err := h.client.Quote(c.Request.Context(), symbol)
	if err != nil {
		respondProviderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Price returns the compact price view
// @Summary     Current price
// @Description Fetch price, previous close and day change for one symbol
// @Tags        market
// @Produce     json
// @Param       symbol path string true "Ticker symbol"
// @Success     200 {object} market.PriceResult
// @Failure     500 {object} map[string]interface{} "Provider failure"
// @Router      /api/price/{symbol} [get]
func (h *MarketHandler) Price(c *gin.Context) {
	symbol, ok := symbolParam(c)
	if !ok {
		return
	}

	result, err := h.client.Price(c.Request.Context(), symbol)
	if err != nil {
		respondProviderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SymbolNews returns recent news about one symbol's company
// @Summary     Symbol news
// @Description Fetch recent news items about the company behind a symbol
// @Tags        market
// @Produce     json
// @Param       symbol path string true "Ticker symbol"
// @Param       count query int false "Item count" default(5)
// @Success     200 {object} market.SymbolNewsResult
// @Failure     500 {object} map[string]interface{} "Provider failure"
// @Router      /api/news/{symbol} [get]
func (h *MarketHandler) SymbolNews(c *gin.Context) {
	symbol, ok := symbolParam(c)
	if !ok {
		return
	}

	result, err := h.client.SymbolNews(c.Request.Context(), symbol, countQuery(c, 5))
	if err != nil {
		respondProviderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// NewsFeed returns the general market news feed
// @Summary     Market news feed
// @Description Fetch a categorized market news feed
// @Tags        market
// @Produce     json
// @Param       count query int false "Item count" default(10)
// @Param       category query string false "News category" default(general)
// @Param       region query string false "Region code" default(US)
// @Success     200 {object} market.NewsFeedResult
// @Failure     500 {object} map[string]interface{} "Provider failure"
// @Router      /api/news [get]
func (h *MarketHandler) NewsFeed(c *gin.Context) {
	category := c.DefaultQuery("category", "general")
	region := c.DefaultQuery("region", "US")

	result, err := h.client.NewsFeed(c.Request.Context(), countQuery(c, 10), category, region)
	if err != nil {
		respondProviderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
