// Package feed runs the realtime push channel. Every connection gets
// its own Client with an independent push schedule; the Manager is the
// registry that guarantees each connection is torn down exactly once.
package feed

import (
	"context"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperstack-labs/hyperpulse/pkg/models"
)

const (
	// DefaultPushInterval matches the cadence browsers expect between
	// consecutive priceUpdate/orderBookUpdate pairs.
	DefaultPushInterval = 2 * time.Second
	// DefaultSendBuffer is the per-client outbound queue length.
	DefaultSendBuffer = 256
)

// SnapshotSource supplies the per-tick payloads.
type SnapshotSource interface {
	Symbol() string
	TickPrice(symbol string) models.PriceTick
	TickOrderBook(symbol string) models.OrderBookTick
}

// EventSink receives a copy of every pushed event.
type EventSink interface {
	Publish(ctx context.Context, symbol string, payload []byte)
}

type Manager struct {
	clients map[*Client]bool
	mu      sync.Mutex

	snapshots  SnapshotSource
	sink       EventSink
	logger     *zap.Logger
	interval   time.Duration
	sendBuffer int
}

func NewManager(snapshots SnapshotSource, sink EventSink, logger *zap.Logger, interval time.Duration, sendBuffer int) *Manager {
	if interval <= 0 {
		interval = DefaultPushInterval
	}
	if sendBuffer <= 0 {
		sendBuffer = DefaultSendBuffer
	}
	return &Manager{
		clients:    make(map[*Client]bool),
		snapshots:  snapshots,
		sink:       sink,
		logger:     logger,
		interval:   interval,
		sendBuffer: sendBuffer,
	}
}

// Join adopts an upgraded connection: registers a Client and starts its
// pumps and push loop.
func (m *Manager) Join(conn net.Conn) *Client {
	client := newClient(conn, m, m.logger)

	m.mu.Lock()
	m.clients[client] = true
	count := len(m.clients)
	m.mu.Unlock()

	m.logger.Info("Client connected", zap.String("id", client.ID()), zap.Int("clients", count))
	client.start()
	return client
}

// Unregister removes the client and stops its push loop. Calling it for
// an already removed client is a no-op, so the read pump's deferred
// teardown and an explicit shutdown can overlap safely.
func (m *Manager) Unregister(client *Client) {
	m.mu.Lock()
	_, ok := m.clients[client]
	if ok {
		delete(m.clients, client)
	}
	count := len(m.clients)
	m.mu.Unlock()

	if !ok {
		return
	}
	client.Close()
	m.logger.Info("Client disconnected", zap.String("id", client.ID()), zap.Int("clients", count))
}

// Shutdown disconnects every client.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	clients := make([]*Client, 0, len(m.clients))
	for client := range m.clients {
		clients = append(clients, client)
	}
	m.mu.Unlock()

	for _, client := range clients {
		m.Unregister(client)
	}
	m.logger.Info("Feed manager stopped", zap.Int("disconnected", len(clients)))
}

// ClientCount reports the number of live connections.
func (m *Manager) ClientCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}
