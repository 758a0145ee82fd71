package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hyperstack-labs/hyperpulse/cmd/server/internal/market"
	"github.com/hyperstack-labs/hyperpulse/pkg/models"
)

// Market is the slice of the snapshot generator the HTTP layer needs.
type Market interface {
	Quotes(ctx context.Context) ([]models.TokenQuote, error)
	OrderBook(symbol string) models.OrderBook
	Chart(symbol, timeframe string, limit int) models.Chart
}

type Handlers struct {
	market Market
	logger *zap.Logger
}

func NewHandlers(m Market, logger *zap.Logger) *Handlers {
	return &Handlers{market: m, logger: logger}
}

// ListTokens serves GET /api/tokens.
func (h *Handlers) ListTokens(c *gin.Context) {
	quotes, err := h.market.Quotes(c.Request.Context())
	if err != nil {
		h.logger.Error("Token listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, quotes)
}

// OrderBook serves GET /api/orderbook/:symbol. Every symbol gets a
// book; unknown ones are not an error.
func (h *Handlers) OrderBook(c *gin.Context) {
	c.JSON(http.StatusOK, h.market.OrderBook(c.Param("symbol")))
}

// Chart serves GET /api/chart/:symbol?timeframe=5m&limit=60. Bad query
// values fall back to defaults instead of rejecting the request.
func (h *Handlers) Chart(c *gin.Context) {
	timeframe := c.DefaultQuery("timeframe", market.DefaultTimeframe)
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(market.DefaultChartLimit)))
	if err != nil {
		limit = market.DefaultChartLimit
	}
	c.JSON(http.StatusOK, h.market.Chart(c.Param("symbol"), timeframe, limit))
}
