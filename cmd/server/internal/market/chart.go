package market

import (
	"math"
	"time"

	"github.com/hyperstack-labs/hyperpulse/pkg/models"
)

const (
	// DefaultTimeframe is used when the requested timeframe is unknown.
	DefaultTimeframe = "5m"
	// DefaultChartLimit is the candle count when none is requested.
	DefaultChartLimit = 60
	// MaxChartLimit caps the candle count per request.
	MaxChartLimit = 500

	chartFallbackPrice  = 0.001
	chartFallbackVolume = 50000
)

// timeframeSpec tunes the random walk per candle interval. Wider
// intervals move more and grow longer wicks.
type timeframeSpec struct {
	step       time.Duration
	volatility float64
	trend      float64
	wick       float64
}

var timeframeSpecs = map[string]timeframeSpec{
	"1m":  {step: time.Minute, volatility: 0.018, trend: 0.004, wick: 1.8},
	"5m":  {step: 5 * time.Minute, volatility: 0.040, trend: 0.010, wick: 2.2},
	"15m": {step: 15 * time.Minute, volatility: 0.065, trend: 0.018, wick: 2.8},
	"1h":  {step: time.Hour, volatility: 0.095, trend: 0.035, wick: 3.5},
	"4h":  {step: 4 * time.Hour, volatility: 0.150, trend: 0.065, wick: 4.2},
	"1d":  {step: 24 * time.Hour, volatility: 0.220, trend: 0.100, wick: 5.0},
}

// Chart generates a candlestick series for the symbol by walking the
// price backwards from the seeded quote, spreading part of the 24h
// change across the window. Unknown timeframes fall back to the default
// and the limit is clamped to [1, MaxChartLimit]. Consecutive candles
// share a boundary: each open equals the previous close.
func (g *Generator) Chart(symbol, timeframe string, limit int) models.Chart {
	g.mu.Lock()
	defer g.mu.Unlock()

	spec, ok := timeframeSpecs[timeframe]
	if !ok {
		timeframe = DefaultTimeframe
		spec = timeframeSpecs[timeframe]
	}
	if limit <= 0 {
		limit = DefaultChartLimit
	}
	if limit > MaxChartLimit {
		limit = MaxChartLimit
	}

	price := chartFallbackPrice
	change := 0.0
	volume := int64(chartFallbackVolume)
	for _, s := range seedQuotes {
		if s.symbol == symbol {
			price, change, volume = s.price, s.change, s.volume
			break
		}
	}

	// Attribute ~70% of the 24h move to the charted window and walk
	// forward from the implied start price back up to the current one.
	prev := price / (1 + change/100*0.7)
	trendDir := 1.0
	if change < 0 {
		trendDir = -1.0
	}
	trendStrength := math.Min(math.Abs(change)/100, 0.3)

	now := g.clock.Now().Truncate(spec.step)
	perCandle := float64(volume) / (24 * time.Hour.Seconds() / spec.step.Seconds())

	candles := make([]models.Candle, 0, limit)
	lo, hi := math.MaxFloat64, 0.0
	for i := limit - 1; i >= 0; i-- {
		openPrice := prev
		progress := float64(limit-i) / float64(limit)
		noise := (g.rand.Float64() - 0.5) * 2 * spec.volatility
		movement := noise + trendDir*trendStrength*progress*spec.trend
		closePrice := openPrice * (1 + movement)
		if closePrice <= 0 {
			closePrice = openPrice * 0.95
		}

		wickRange := math.Abs(movement) * openPrice * spec.wick
		highPrice := math.Max(openPrice, closePrice) + g.rand.Float64()*wickRange
		lowPrice := math.Min(openPrice, closePrice) - g.rand.Float64()*wickRange
		if lowPrice <= 0 {
			lowPrice = math.Min(openPrice, closePrice) * 0.85
		}

		candleVolume := int64(perCandle * (0.5 + 2*g.rand.Float64()) * (1 + 15*math.Abs(movement)))
		if candleVolume < 100 {
			candleVolume = 100
		}

		direction := "up"
		if closePrice < openPrice {
			direction = "down"
		}

		candle := models.Candle{
			Timestamp: now.Add(-time.Duration(i) * spec.step).UnixMilli(),
			Open:      round8(openPrice),
			High:      round8(highPrice),
			Low:       round8(lowPrice),
			Close:     round8(closePrice),
			Volume:    candleVolume,
			Direction: direction,
		}
		candles = append(candles, candle)
		prev = closePrice

		if candle.High > hi {
			hi = candle.High
		}
		if candle.Low < lo {
			lo = candle.Low
		}
	}

	return models.Chart{
		Success:      true,
		Symbol:       symbol,
		Timeframe:    timeframe,
		CurrentPrice: candles[len(candles)-1].Close,
		PriceRange:   models.PriceRange{Min: lo, Max: hi},
		Candlesticks: candles,
	}
}

func round8(f float64) float64 {
	return math.Round(f*1e8) / 1e8
}
