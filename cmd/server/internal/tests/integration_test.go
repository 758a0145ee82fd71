package tests

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket" // Using Gorilla for the test CLIENT
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hyperstack-labs/hyperpulse/cmd/server/internal/api"
	"github.com/hyperstack-labs/hyperpulse/cmd/server/internal/feed"
	"github.com/hyperstack-labs/hyperpulse/cmd/server/internal/market"
	"github.com/hyperstack-labs/hyperpulse/cmd/server/internal/sink"
	"github.com/hyperstack-labs/hyperpulse/cmd/server/internal/source"
	"github.com/hyperstack-labs/hyperpulse/cmd/server/internal/testutils"
	"github.com/hyperstack-labs/hyperpulse/pkg/models"
)

func startServer(t *testing.T, interval time.Duration, quoteSource market.QuoteSource) (*httptest.Server, *feed.Manager) {
	logger := zap.NewNop()
	rnd := market.RealRand{Rand: rand.New(rand.NewSource(1))}
	generator := market.NewGenerator(logger, quoteSource, rnd, market.RealClock{}, 15)

	manager := feed.NewManager(generator, sink.NopSink{}, logger, interval, 64)
	router := api.NewRouter(api.NewHandlers(generator, logger), manager, logger)

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		manager.Shutdown()
		server.Close()
	})
	return server, manager
}

func connectWS(t *testing.T, serverURL string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(serverURL, "http") + "/ws"
	wsConn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to connect to websocket: %v", err)
	}
	return wsConn
}

var (
	priceRe  = regexp.MustCompile(`^\d+\.\d{8}$`)
	changeRe = regexp.MustCompile(`^[+-]\d+\.\d{2}$`)
)

func TestEndToEnd_TokenListing(t *testing.T) {
	server, _ := startServer(t, time.Hour, nil)

	resp, err := http.Get(server.URL + "/api/tokens")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var quotes []models.TokenQuote
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if len(quotes) != 8 {
		t.Fatalf("Expected 8 tokens, got %d", len(quotes))
	}
	for _, q := range quotes {
		if !priceRe.MatchString(q.Price) {
			t.Errorf("%s: price %q not 8-decimal formatted", q.Symbol, q.Price)
		}
		if !changeRe.MatchString(q.Change24h) {
			t.Errorf("%s: change %q missing sign or precision", q.Symbol, q.Change24h)
		}
		if !strings.HasPrefix(q.Volume, "$") {
			t.Errorf("%s: volume %q not dollar-formatted", q.Symbol, q.Volume)
		}
	}
}

func TestEndToEnd_OrderBookEndpoint(t *testing.T) {
	server, _ := startServer(t, time.Hour, nil)

	resp, err := http.Get(server.URL + "/api/orderbook/BUDDY")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("Book response carries error key: %v", body)
	}
	bids, ok := body["bids"].([]interface{})
	if !ok || len(bids) != 15 {
		t.Errorf("Expected 15 bids, got %v", body["bids"])
	}
	asks, ok := body["asks"].([]interface{})
	if !ok || len(asks) != 15 {
		t.Errorf("Expected 15 asks, got %v", body["asks"])
	}
}

func TestEndToEnd_ChartEndpoint(t *testing.T) {
	server, _ := startServer(t, time.Hour, nil)

	resp, err := http.Get(server.URL + "/api/chart/PURR?timeframe=1h&limit=30")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var chart models.Chart
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if !chart.Success || chart.Timeframe != "1h" {
		t.Errorf("Unexpected chart header: %+v", chart)
	}
	if len(chart.Candlesticks) != 30 {
		t.Errorf("Expected 30 candles, got %d", len(chart.Candlesticks))
	}
}

func TestEndToEnd_DeadFetchCommandStaysUp(t *testing.T) {
	logger := zap.NewNop()
	script := source.NewScript("/nonexistent/fetcher", nil, time.Second, logger)
	quoteSource := source.WithFallback(script, market.StaticQuotes(), logger)

	server, _ := startServer(t, time.Hour, quoteSource)

	resp, err := http.Get(server.URL + "/api/tokens")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 despite dead fetch command, got %d", resp.StatusCode)
	}

	var quotes []models.TokenQuote
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if len(quotes) != 8 {
		t.Errorf("Expected static fallback listing, got %d tokens", len(quotes))
	}
}

func TestEndToEnd_CachedQuoteSource(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	logger := zap.NewNop()
	inner := &testutils.MockQuoteSource{Quotes: market.StaticQuotes()}
	cached := source.NewCache(client, inner, 5*time.Minute, logger)
	quoteSource := source.WithFallback(cached, market.StaticQuotes(), logger)

	server, _ := startServer(t, time.Hour, quoteSource)

	for i := 0; i < 3; i++ {
		resp, err := http.Get(server.URL + "/api/tokens")
		if err != nil {
			t.Fatalf("Request %d failed: %v", i, err)
		}
		resp.Body.Close()
	}

	if inner.CallCount() != 1 {
		t.Errorf("Expected fetch command to run once behind the cache, ran %d times", inner.CallCount())
	}
}

func TestEndToEnd_WebsocketStream(t *testing.T) {
	server, manager := startServer(t, 30*time.Millisecond, nil)

	wsConn := connectWS(t, server.URL)
	defer wsConn.Close()

	var messages []string
	for i := 0; i < 4; i++ {
		wsConn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := wsConn.ReadMessage()
		if err != nil {
			t.Fatalf("Failed to read message %d: %v", i, err)
		}
		messages = append(messages, string(msg))
	}

	if !strings.Contains(messages[0], `"event":"priceUpdate"`) {
		t.Errorf("Expected priceUpdate first, got: %s", messages[0])
	}
	if !strings.Contains(messages[1], `"event":"orderBookUpdate"`) {
		t.Errorf("Expected orderBookUpdate second, got: %s", messages[1])
	}
	if !strings.Contains(messages[2], `"event":"priceUpdate"`) {
		t.Errorf("Expected the pair to repeat, got: %s", messages[2])
	}

	if manager.ClientCount() != 1 {
		t.Errorf("Expected 1 registered client, got %d", manager.ClientCount())
	}

	wsConn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for manager.ClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if manager.ClientCount() != 0 {
		t.Errorf("Client not unregistered after disconnect, count %d", manager.ClientCount())
	}
}

func TestEndToEnd_ConcurrentClients(t *testing.T) {
	server, manager := startServer(t, 20*time.Millisecond, nil)

	conns := make([]*websocket.Conn, 3)
	for i := range conns {
		conns[i] = connectWS(t, server.URL)
	}

	for i, conn := range conns {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, _, err := conn.ReadMessage(); err != nil {
			t.Fatalf("Client %d got no events: %v", i, err)
		}
	}

	if manager.ClientCount() != 3 {
		t.Errorf("Expected 3 clients, got %d", manager.ClientCount())
	}

	for _, conn := range conns {
		conn.Close()
	}
	deadline := time.Now().Add(2 * time.Second)
	for manager.ClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if manager.ClientCount() != 0 {
		t.Errorf("Clients leaked after disconnect, count %d", manager.ClientCount())
	}
}
