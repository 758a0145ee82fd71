package market

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hyperstack-labs/hyperpulse/pkg/models"
)

const (
	// DefaultOrderBookDepth is the number of levels per side when the
	// configured depth falls outside the supported range.
	DefaultOrderBookDepth = 15

	minOrderBookDepth = 10
	maxOrderBookDepth = 15

	basePriceMin  = 0.005
	basePriceSpan = 0.01
	amountMin     = 500.0
	amountSpan    = 2500.0
	changeSpan    = 10.0
	flowMin       = 30
	flowSpan      = 41
)

var (
	levelStepRatio = decimal.RequireFromString("0.0001")
	minLevelStep   = decimal.RequireFromString("0.00001")
)

// seedQuote is the built-in market snapshot for one token. Prices and
// changes are the numeric sources for both the static listing and the
// chart random walk.
type seedQuote struct {
	symbol string
	name   string
	price  float64
	change float64
	volume int64
}

var seedQuotes = []seedQuote{
	{symbol: "BUDDY", name: "alright buddy", price: 0.01214, change: 2.01, volume: 132000},
	{symbol: "RUB", name: "RUB", price: 6960000, change: 14.06, volume: 33000},
	{symbol: "PURR", name: "Purr", price: 0.1743, change: 0.51, volume: 43000},
	{symbol: "LHYPE", name: "Looped HYPE", price: 44.03, change: 1.03, volume: 458000},
	{symbol: "PiP", name: "PiP", price: 15.55, change: 1.86, volume: 10000},
	{symbol: "VEGAS", name: "Vegas", price: 0.3054, change: 4.14, volume: 25000},
	{symbol: "LIQD", name: "LiquidLaunch", price: 0.01253, change: -8.34, volume: 12000},
	{symbol: "UBTC", name: "Unit Bitcoin", price: 117140, change: 2.15, volume: 820000},
}

// StaticQuotes returns the built-in token listing. It is the fallback
// whenever no external source is configured or the source fails.
func StaticQuotes() []models.TokenQuote {
	quotes := make([]models.TokenQuote, len(seedQuotes))
	for i, s := range seedQuotes {
		quotes[i] = models.TokenQuote{
			Symbol:    s.symbol,
			Price:     decimal.NewFromFloat(s.price).StringFixed(8),
			Change24h: fmt.Sprintf("%+.2f", s.change),
			Volume:    models.FormatVolume(s.volume),
		}
	}
	return quotes
}

// Generator produces market snapshots: token listings, synthetic order
// books, candlestick charts and the per-tick payloads for the realtime
// feed. Safe for concurrent use.
type Generator struct {
	logger *zap.Logger
	source QuoteSource
	clock  Clock
	depth  int

	mu   sync.Mutex // guards rand
	rand Rand
}

// NewGenerator wires a Generator. source may be nil, in which case the
// listing always comes from the static seed data.
func NewGenerator(logger *zap.Logger, source QuoteSource, rnd Rand, clock Clock, depth int) *Generator {
	if depth < minOrderBookDepth || depth > maxOrderBookDepth {
		depth = DefaultOrderBookDepth
	}
	return &Generator{
		logger: logger,
		source: source,
		clock:  clock,
		depth:  depth,
		rand:   rnd,
	}
}

// Quotes returns the current token listing. The external source is
// preferred; any failure or empty result falls back to the static seed
// data so the endpoint never surfaces source errors.
func (g *Generator) Quotes(ctx context.Context) ([]models.TokenQuote, error) {
	if g.source != nil {
		quotes, err := g.source.Fetch(ctx)
		if err == nil && len(quotes) > 0 {
			return quotes, nil
		}
		if err != nil {
			g.logger.Warn("quote source failed, serving static data", zap.Error(err))
		}
	}
	return StaticQuotes(), nil
}

// Symbols lists the symbols of the built-in token set.
func (g *Generator) Symbols() []string {
	symbols := make([]string, len(seedQuotes))
	for i, s := range seedQuotes {
		symbols[i] = s.symbol
	}
	return symbols
}

// Symbol picks one symbol from the built-in set at random.
func (g *Generator) Symbol() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return seedQuotes[g.rand.Intn(len(seedQuotes))].symbol
}

// OrderBook builds a synthetic depth ladder around a random base price.
// Bids descend below the base, asks ascend above it, one step apart per
// level. Any symbol is accepted; the book does not depend on it.
func (g *Generator) OrderBook(symbol string) models.OrderBook {
	g.mu.Lock()
	defer g.mu.Unlock()

	base := decimal.NewFromFloat(basePriceMin + g.rand.Float64()*basePriceSpan)
	step := base.Mul(levelStepRatio)
	if step.LessThan(minLevelStep) {
		step = minLevelStep
	}

	book := models.OrderBook{
		Symbol: symbol,
		Bids:   make([]models.OrderBookLevel, g.depth),
		Asks:   make([]models.OrderBookLevel, g.depth),
	}
	for i := 0; i < g.depth; i++ {
		offset := step.Mul(decimal.NewFromInt(int64(i + 1)))
		book.Bids[i] = models.OrderBookLevel{
			Price:  base.Sub(offset).StringFixed(8),
			Amount: g.amount(),
		}
		book.Asks[i] = models.OrderBookLevel{
			Price:  base.Add(offset).StringFixed(8),
			Amount: g.amount(),
		}
	}
	return book
}

func (g *Generator) amount() string {
	return decimal.NewFromFloat(amountMin + g.rand.Float64()*amountSpan).StringFixed(2)
}

// TickPrice draws a fresh price snapshot for one push event.
func (g *Generator) TickPrice(symbol string) models.PriceTick {
	g.mu.Lock()
	defer g.mu.Unlock()

	price := basePriceMin + g.rand.Float64()*basePriceSpan
	change := (g.rand.Float64() - 0.5) * changeSpan
	return models.PriceTick{
		Symbol: symbol,
		Price:  decimal.NewFromFloat(price).StringFixed(8),
		Change: fmt.Sprintf("%+.2f", change),
	}
}

// TickOrderBook draws buy and sell pressure percentages for one push
// event. The two draws are independent.
func (g *Generator) TickOrderBook(symbol string) models.OrderBookTick {
	g.mu.Lock()
	defer g.mu.Unlock()

	return models.OrderBookTick{
		Symbol:         symbol,
		BuyPercentage:  flowMin + g.rand.Intn(flowSpan),
		SellPercentage: flowMin + g.rand.Intn(flowSpan),
	}
}
