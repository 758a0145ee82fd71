package models

import "fmt"

// TokenQuote is a single row in the token listing. Numeric fields are
// pre-formatted strings so every consumer renders identical precision.
type TokenQuote struct {
	Symbol    string `json:"symbol"`
	Price     string `json:"price"`
	Change24h string `json:"change24h"`
	Volume    string `json:"volume"`
}

// OrderBookLevel is one price level of a synthetic order book.
type OrderBookLevel struct {
	Price  string `json:"price"`
	Amount string `json:"amount"`
}

// OrderBook holds the bid and ask ladders for a symbol.
type OrderBook struct {
	Symbol string           `json:"symbol"`
	Bids   []OrderBookLevel `json:"bids"`
	Asks   []OrderBookLevel `json:"asks"`
}

// PriceTick is the payload of a priceUpdate push event.
type PriceTick struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
	Change string `json:"change"`
}

// OrderBookTick is the payload of an orderBookUpdate push event. The
// percentages are independent draws and do not need to sum to 100.
type OrderBookTick struct {
	Symbol         string `json:"symbol"`
	BuyPercentage  int    `json:"buyPercentage"`
	SellPercentage int    `json:"sellPercentage"`
}

// Candle is a single OHLCV bar. Timestamp is unix milliseconds.
type Candle struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
	Direction string  `json:"direction"`
}

// PriceRange bounds the candles of a chart response.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Chart is the response body of the candlestick endpoint.
type Chart struct {
	Success      bool       `json:"success"`
	Symbol       string     `json:"symbol"`
	Timeframe    string     `json:"timeframe"`
	CurrentPrice float64    `json:"currentPrice"`
	PriceRange   PriceRange `json:"priceRange"`
	Candlesticks []Candle   `json:"candlesticks"`
}

// ExternalQuote is the wire format emitted by the fetcher process on
// stdout, one object per token.
type ExternalQuote struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Change24h   string `json:"change_24h"`
	Volume24h   int64  `json:"volume_24h"`
	MarketCap   int64  `json:"market_cap,omitempty"`
	Liquidity   int64  `json:"liquidity,omitempty"`
	PairAddress string `json:"pair_address,omitempty"`
	DexID       string `json:"dex_id,omitempty"`
	ChainID     string `json:"chain_id,omitempty"`
	LastUpdated int64  `json:"last_updated,omitempty"`
	Source      string `json:"source,omitempty"`
}

// FormatVolume renders a raw 24h volume as the abbreviated dollar string
// used in token listings, e.g. 132000 -> "$132K".
func FormatVolume(v int64) string {
	f := float64(v)
	switch {
	case f >= 1e9:
		return fmt.Sprintf("$%.1fB", f/1e9)
	case f >= 1e6:
		return fmt.Sprintf("$%.1fM", f/1e6)
	case f >= 1e3:
		return fmt.Sprintf("$%.0fK", f/1e3)
	default:
		return fmt.Sprintf("$%d", v)
	}
}
