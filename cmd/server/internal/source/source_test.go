package source_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hyperstack-labs/hyperpulse/cmd/server/internal/source"
	"github.com/hyperstack-labs/hyperpulse/cmd/server/internal/testutils"
	"github.com/hyperstack-labs/hyperpulse/pkg/models"
)

var staticQuotes = []models.TokenQuote{
	{Symbol: "BUDDY", Price: "0.01214000", Change24h: "+2.01", Volume: "$132K"},
	{Symbol: "PURR", Price: "0.17430000", Change24h: "+0.51", Volume: "$43K"},
}

func TestStaticSource_ReturnsCopy(t *testing.T) {
	src := source.NewStatic(staticQuotes)

	first, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	first[0].Symbol = "MUTATED"

	second, _ := src.Fetch(context.Background())
	if second[0].Symbol != "BUDDY" {
		t.Errorf("Static listing was mutated by a caller: %s", second[0].Symbol)
	}
}

func TestFallback_ServesStaticOnError(t *testing.T) {
	inner := &testutils.MockQuoteSource{Err: errors.New("fetch process died")}
	src := source.WithFallback(inner, staticQuotes, zap.NewNop())

	quotes, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fallback source must never error, got: %v", err)
	}
	if len(quotes) != 2 || quotes[0].Symbol != "BUDDY" {
		t.Errorf("Expected static listing, got %+v", quotes)
	}
}

func TestFallback_ServesStaticOnEmpty(t *testing.T) {
	inner := &testutils.MockQuoteSource{Quotes: []models.TokenQuote{}}
	src := source.WithFallback(inner, staticQuotes, zap.NewNop())

	quotes, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(quotes) != 2 {
		t.Errorf("Expected static listing on empty result, got %d quotes", len(quotes))
	}
}

func TestFallback_PassesThroughLiveQuotes(t *testing.T) {
	live := []models.TokenQuote{{Symbol: "LIVE", Price: "1.00000000", Change24h: "+0.10", Volume: "$1K"}}
	inner := &testutils.MockQuoteSource{Quotes: live}
	src := source.WithFallback(inner, staticQuotes, zap.NewNop())

	quotes, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(quotes) != 1 || quotes[0].Symbol != "LIVE" {
		t.Errorf("Expected live listing to pass through, got %+v", quotes)
	}
}

func TestScriptSource_NormalizesOutput(t *testing.T) {
	payload := `[
		{"symbol":"BUDDY","name":"alright buddy","price":"0.01214","change_24h":"2.01","volume_24h":132000},
		{"symbol":"LIQD","name":"LiquidLaunch","price":"0.01253","change_24h":"-8.34","volume_24h":12000},
		{"symbol":"","price":"1","change_24h":"0","volume_24h":1},
		{"symbol":"BAD","price":"not-a-number","change_24h":"0","volume_24h":5}
	]`
	src := source.NewScript("echo", []string{payload}, 5*time.Second, zap.NewNop())

	quotes, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("Expected 2 usable quotes, got %d", len(quotes))
	}
	if quotes[0].Price != "0.01214000" {
		t.Errorf("Expected price padded to 8 decimals, got %s", quotes[0].Price)
	}
	if quotes[0].Change24h != "+2.01" {
		t.Errorf("Expected explicit plus sign, got %s", quotes[0].Change24h)
	}
	if quotes[0].Volume != "$132K" {
		t.Errorf("Expected abbreviated volume, got %s", quotes[0].Volume)
	}
	if quotes[1].Change24h != "-8.34" {
		t.Errorf("Expected negative change preserved, got %s", quotes[1].Change24h)
	}
}

func TestScriptSource_CommandExitFailure(t *testing.T) {
	src := source.NewScript("false", nil, 5*time.Second, zap.NewNop())
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Error("Expected error from failing command")
	}
}

func TestScriptSource_MissingBinary(t *testing.T) {
	src := source.NewScript("/nonexistent/fetcher", nil, 5*time.Second, zap.NewNop())
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Error("Expected error for missing binary")
	}
}

func TestScriptSource_BadJSON(t *testing.T) {
	src := source.NewScript("echo", []string{"this is not json"}, 5*time.Second, zap.NewNop())
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Error("Expected decode error for malformed output")
	}
}

func TestCacheSource_ServesFromRedisUntilTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	inner := &testutils.MockQuoteSource{Quotes: staticQuotes}
	src := source.NewCache(client, inner, 5*time.Minute, zap.NewNop())

	if _, err := src.Fetch(context.Background()); err != nil {
		t.Fatalf("First fetch failed: %v", err)
	}
	if _, err := src.Fetch(context.Background()); err != nil {
		t.Fatalf("Second fetch failed: %v", err)
	}
	if inner.CallCount() != 1 {
		t.Errorf("Expected inner source hit once while cached, got %d", inner.CallCount())
	}

	mr.FastForward(6 * time.Minute)

	if _, err := src.Fetch(context.Background()); err != nil {
		t.Fatalf("Post-expiry fetch failed: %v", err)
	}
	if inner.CallCount() != 2 {
		t.Errorf("Expected inner source refreshed after TTL, got %d calls", inner.CallCount())
	}
}

func TestCacheSource_RedisDownDegradesToInner(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()

	inner := &testutils.MockQuoteSource{Quotes: staticQuotes}
	src := source.NewCache(client, inner, 5*time.Minute, zap.NewNop())

	quotes, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Cache must degrade to inner source, got: %v", err)
	}
	if len(quotes) != 2 {
		t.Errorf("Expected inner listing, got %d quotes", len(quotes))
	}
	if inner.CallCount() != 1 {
		t.Errorf("Expected inner source hit, got %d calls", inner.CallCount())
	}
}

func TestCacheSource_InnerErrorPropagates(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	inner := &testutils.MockQuoteSource{Err: errors.New("boom")}
	src := source.NewCache(client, inner, 5*time.Minute, zap.NewNop())

	if _, err := src.Fetch(context.Background()); err == nil {
		t.Error("Expected inner error to propagate on cache miss")
	}
}
