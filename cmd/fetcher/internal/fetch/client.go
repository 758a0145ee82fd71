// Package fetch pulls live HyperEVM token data from public DEX
// aggregator APIs. DexScreener is the primary; GeckoTerminal fills in
// when the primary comes up short, and a verified static list backs
// both so the process always emits a usable listing.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/hyperstack-labs/hyperpulse/pkg/models"
)

const (
	defaultDexScreenerURL = "https://api.dexscreener.com/latest/dex/pairs/hyperevm"
	defaultGeckoBaseURL   = "https://api.geckoterminal.com/api/v2/networks"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// If the primary returns fewer tokens than this, the secondary is
	// queried as well.
	minPrimaryTokens = 5
)

// geckoNetworks are the identifiers tried in order; the registry has
// renamed the HyperEVM network before.
var geckoNetworks = []string{"hyperevm", "hyperliquid", "hyper"}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Client queries the aggregator APIs. The URL fields exist so tests can
// point it at local servers.
type Client struct {
	HTTP           *http.Client
	Logger         *zap.Logger
	Clock          Clock
	DexScreenerURL string
	GeckoBaseURL   string
}

func NewClient(logger *zap.Logger) *Client {
	return &Client{
		HTTP:           &http.Client{Timeout: 15 * time.Second},
		Logger:         logger,
		Clock:          RealClock{},
		DexScreenerURL: defaultDexScreenerURL,
		GeckoBaseURL:   defaultGeckoBaseURL,
	}
}

// Quotes runs the full failover chain and returns a deduplicated
// listing. It never returns nil; with every upstream down it serves the
// verified static list.
func (c *Client) Quotes(ctx context.Context) []models.ExternalQuote {
	tokens, err := c.DexScreener(ctx)
	if err != nil {
		c.Logger.Warn("DexScreener fetch failed", zap.Error(err))
	} else {
		c.Logger.Info("DexScreener pairs fetched", zap.Int("tokens", len(tokens)))
	}

	if len(tokens) < minPrimaryTokens {
		secondary, err := c.GeckoTerminal(ctx)
		if err != nil {
			c.Logger.Warn("GeckoTerminal fetch failed", zap.Error(err))
		} else {
			c.Logger.Info("GeckoTerminal pools fetched", zap.Int("tokens", len(secondary)))
		}
		tokens = append(tokens, secondary...)
	}

	if len(tokens) == 0 {
		c.Logger.Info("No live data available, using verified token list")
		tokens = AuthenticTokens(c.Clock.Now().Unix())
	}

	return dedupe(tokens)
}

type dexToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type dexPair struct {
	ChainID     string   `json:"chainId"`
	DexID       string   `json:"dexId"`
	PairAddress string   `json:"pairAddress"`
	BaseToken   dexToken `json:"baseToken"`
	QuoteToken  dexToken `json:"quoteToken"`
	PriceUsd    string   `json:"priceUsd"`
	PriceChange struct {
		H24 float64 `json:"h24"`
	} `json:"priceChange"`
	Volume struct {
		H24 float64 `json:"h24"`
	} `json:"volume"`
	Liquidity struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
	MarketCap float64 `json:"marketCap"`
}

type dexPairsResponse struct {
	Pairs []dexPair `json:"pairs"`
}

// DexScreener fetches the HyperEVM pair list and keeps HYPE-quoted
// pairs only, so every row prices a token against the native coin.
func (c *Client) DexScreener(ctx context.Context) ([]models.ExternalQuote, error) {
	var response dexPairsResponse
	if err := c.getJSON(ctx, c.DexScreenerURL, &response); err != nil {
		return nil, err
	}

	now := c.Clock.Now().Unix()
	seen := make(map[string]bool)
	tokens := make([]models.ExternalQuote, 0, len(response.Pairs))
	for _, pair := range response.Pairs {
		if !isHypeQuote(pair.QuoteToken.Symbol) {
			continue
		}
		symbol := pair.BaseToken.Symbol
		if symbol == "" || seen[symbol] || isHypeQuote(symbol) {
			continue
		}
		price, err := strconv.ParseFloat(pair.PriceUsd, 64)
		if err != nil || price <= 0 {
			continue
		}

		tokens = append(tokens, models.ExternalQuote{
			Symbol:      symbol,
			Name:        nameOrSymbol(pair.BaseToken.Name, symbol),
			Price:       fmt.Sprintf("%.8f", price),
			Change24h:   fmt.Sprintf("%+.2f", pair.PriceChange.H24),
			Volume24h:   int64(pair.Volume.H24),
			MarketCap:   int64(pair.MarketCap),
			Liquidity:   int64(pair.Liquidity.USD),
			PairAddress: pair.PairAddress,
			DexID:       pair.DexID,
			ChainID:     "hyperevm",
			LastUpdated: now,
			Source:      "dexscreener",
		})
		seen[symbol] = true
	}
	return tokens, nil
}

type geckoToken struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type geckoPool struct {
	ID         string `json:"id"`
	Attributes struct {
		BaseToken             geckoToken `json:"base_token"`
		QuoteToken            geckoToken `json:"quote_token"`
		BaseTokenPriceUsd     string     `json:"base_token_price_usd"`
		PriceChangePercentage struct {
			H24 string `json:"h24"`
		} `json:"price_change_percentage"`
		VolumeUsd struct {
			H24 string `json:"h24"`
		} `json:"volume_usd"`
		ReserveInUsd string `json:"reserve_in_usd"`
		MarketCapUsd string `json:"market_cap_usd"`
	} `json:"attributes"`
}

type geckoPoolsResponse struct {
	Data []geckoPool `json:"data"`
}

// GeckoTerminal tries each known network identifier until one returns
// pools, then applies the same HYPE-quote filter as the primary.
func (c *Client) GeckoTerminal(ctx context.Context) ([]models.ExternalQuote, error) {
	var lastErr error
	for _, network := range geckoNetworks {
		var response geckoPoolsResponse
		url := fmt.Sprintf("%s/%s/pools", c.GeckoBaseURL, network)
		if err := c.getJSON(ctx, url, &response); err != nil {
			lastErr = err
			continue
		}
		if len(response.Data) == 0 {
			continue
		}
		return c.parseGeckoPools(response.Data), nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, nil
}

func (c *Client) parseGeckoPools(pools []geckoPool) []models.ExternalQuote {
	now := c.Clock.Now().Unix()
	seen := make(map[string]bool)
	tokens := make([]models.ExternalQuote, 0, len(pools))
	for _, pool := range pools {
		attrs := pool.Attributes
		if !isHypeQuote(attrs.QuoteToken.Symbol) {
			continue
		}
		symbol := attrs.BaseToken.Symbol
		if symbol == "" || seen[symbol] || isHypeQuote(symbol) {
			continue
		}
		price, err := strconv.ParseFloat(attrs.BaseTokenPriceUsd, 64)
		if err != nil || price <= 0 {
			continue
		}

		tokens = append(tokens, models.ExternalQuote{
			Symbol:      symbol,
			Name:        nameOrSymbol(attrs.BaseToken.Name, symbol),
			Price:       fmt.Sprintf("%.8f", price),
			Change24h:   fmt.Sprintf("%+.2f", parseFloatOrZero(attrs.PriceChangePercentage.H24)),
			Volume24h:   int64(parseFloatOrZero(attrs.VolumeUsd.H24)),
			MarketCap:   int64(parseFloatOrZero(attrs.MarketCapUsd)),
			Liquidity:   int64(parseFloatOrZero(attrs.ReserveInUsd)),
			PairAddress: pool.ID,
			ChainID:     "hyperevm",
			LastUpdated: now,
			Source:      "geckoterminal",
		})
		seen[symbol] = true
	}
	return tokens
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func isHypeQuote(symbol string) bool {
	return symbol == "HYPE" || symbol == "WHYPE"
}

func nameOrSymbol(name, symbol string) string {
	if name == "" {
		return symbol
	}
	return name
}

func parseFloatOrZero(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func dedupe(tokens []models.ExternalQuote) []models.ExternalQuote {
	seen := make(map[string]bool)
	out := make([]models.ExternalQuote, 0, len(tokens))
	for _, t := range tokens {
		if seen[t.Symbol] {
			continue
		}
		out = append(out, t)
		seen[t.Symbol] = true
	}
	return out
}
