package testutils

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/hyperstack-labs/hyperpulse/cmd/server/internal/sink"
	"github.com/hyperstack-labs/hyperpulse/pkg/models"
)

type MockRand struct {
	ValInt   int
	ValFloat float64
}

func (m *MockRand) Intn(n int) int   { return m.ValInt }
func (m *MockRand) Float64() float64 { return m.ValFloat }

type MockClock struct {
	CurrentTime time.Time
}

func (m *MockClock) Now() time.Time        { return m.CurrentTime }
func (m *MockClock) Sleep(d time.Duration) { m.CurrentTime = m.CurrentTime.Add(d) }

// MockQuoteSource simulates the external fetch process.
type MockQuoteSource struct {
	Quotes []models.TokenQuote
	Err    error
	Calls  int
	Mu     sync.Mutex
}

func (m *MockQuoteSource) Fetch(ctx context.Context) ([]models.TokenQuote, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Quotes, nil
}

func (m *MockQuoteSource) CallCount() int {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return m.Calls
}

// MockSnapshots feeds canned tick payloads to the push loop.
type MockSnapshots struct {
	SymbolVal string
	Mu        sync.Mutex
	Ticks     int
}

func (m *MockSnapshots) Symbol() string {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Ticks++
	return m.SymbolVal
}

func (m *MockSnapshots) TickCount() int {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return m.Ticks
}

func (m *MockSnapshots) TickPrice(symbol string) models.PriceTick {
	return models.PriceTick{Symbol: symbol, Price: "0.01000000", Change: "+1.00"}
}

func (m *MockSnapshots) TickOrderBook(symbol string) models.OrderBookTick {
	return models.OrderBookTick{Symbol: symbol, BuyPercentage: 50, SellPercentage: 50}
}

// MockMarket stubs the HTTP layer's view of the generator.
type MockMarket struct {
	QuotesVal []models.TokenQuote
	QuotesErr error
	BookVal   models.OrderBook
	ChartVal  models.Chart

	LastSymbol    string
	LastTimeframe string
	LastLimit     int
}

func (m *MockMarket) Quotes(ctx context.Context) ([]models.TokenQuote, error) {
	if m.QuotesErr != nil {
		return nil, m.QuotesErr
	}
	return m.QuotesVal, nil
}

func (m *MockMarket) OrderBook(symbol string) models.OrderBook {
	m.LastSymbol = symbol
	return m.BookVal
}

func (m *MockMarket) Chart(symbol, timeframe string, limit int) models.Chart {
	m.LastSymbol = symbol
	m.LastTimeframe = timeframe
	m.LastLimit = limit
	return m.ChartVal
}

// MockSink records every published tick.
type MockSink struct {
	Keys     []string
	Payloads []string
	Mu       sync.Mutex
}

func (m *MockSink) Publish(ctx context.Context, symbol string, payload []byte) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Keys = append(m.Keys, symbol)
	m.Payloads = append(m.Payloads, string(payload))
}

func (m *MockSink) PublishCount() int {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return len(m.Keys)
}

type MockKafkaWriter struct {
	Messages    []kafka.Message
	Mu          sync.Mutex
	ShouldFail  bool
	CloseCalled bool
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.ShouldFail {
		return errors.New("kafka error")
	}
	m.Messages = append(m.Messages, msgs...)
	return nil
}

func (m *MockKafkaWriter) Close() error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.CloseCalled = true
	return nil
}

type MockKafkaConn struct {
	CreatedTopics []string
}

func (m *MockKafkaConn) Controller() (kafka.Broker, error) {
	return kafka.Broker{Host: "localhost", Port: 9092}, nil
}
func (m *MockKafkaConn) Close() error { return nil }
func (m *MockKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	for _, t := range topics {
		m.CreatedTopics = append(m.CreatedTopics, t.Topic)
	}
	return nil
}
func (m *MockKafkaConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	// Simulate "Ready" state immediately
	return []kafka.Partition{{ID: 0}}, nil
}

type MockKafkaDialer struct {
	ConnSpy *MockKafkaConn
}

func (m *MockKafkaDialer) DialContext(ctx context.Context, network, address string) (sink.Conn, error) {
	if m.ConnSpy == nil {
		m.ConnSpy = &MockKafkaConn{}
	}
	return m.ConnSpy, nil
}

func AssertTrue(t *testing.T, condition bool, msg string) {
	if !condition {
		t.Errorf("Assertion failed: %s", msg)
	}
}
