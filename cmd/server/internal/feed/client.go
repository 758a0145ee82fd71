package feed

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperstack-labs/hyperpulse/cmd/server/internal/protocol"
)

const (
	maxMessageSize = 512 * 1024
)

// Client owns one websocket connection: a write pump, a read pump and a
// push loop that emits a price and an order book event every interval.
// The push loop is started exactly once per connection and stops when
// the client's context is canceled.
type Client struct {
	id     string
	conn   net.Conn
	mgr    *Manager
	send   chan []byte
	logger *zap.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	writeWait    time.Duration
	pongWait     time.Duration
	pingPeriod   time.Duration
	pushInterval time.Duration
}

func newClient(conn net.Conn, mgr *Manager, logger *zap.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		id:           uuid.NewString(),
		conn:         conn,
		mgr:          mgr,
		send:         make(chan []byte, mgr.sendBuffer),
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
		writeWait:    5 * time.Second,
		pongWait:     60 * time.Second,
		pingPeriod:   50 * time.Second,
		pushInterval: mgr.interval,
	}
}

func (c *Client) start() {
	go c.writePump()
	go c.readPump()
	go c.pushLoop()
}

func (c *Client) ID() string { return c.id }

// Close stops the push loop and tells the write pump to send a close
// frame. Safe to call any number of times. The send channel is never
// closed, so late pushes are dropped instead of panicking.
func (c *Client) Close() {
	c.closeOnce.Do(c.cancel)
}

// Send enqueues a frame without blocking.
func (c *Client) Send(b []byte) {
	select {
	case c.send <- b:
	default:
		// Drop message if buffer full (Backpressure)
	}
}

// pushLoop is the per-connection scheduler. Every interval it picks a
// symbol and pushes a fresh price and order book snapshot for it.
func (c *Client) pushLoop() {
	ticker := time.NewTicker(c.pushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			symbol := c.mgr.snapshots.Symbol()
			c.push(symbol, protocol.EventPriceUpdate, c.mgr.snapshots.TickPrice(symbol))
			c.push(symbol, protocol.EventOrderBookUpdate, c.mgr.snapshots.TickOrderBook(symbol))
		}
	}
}

func (c *Client) push(symbol, event string, data interface{}) {
	b, err := json.Marshal(protocol.PushEvent{Event: event, Data: data})
	if err != nil {
		c.logger.Error("Push marshal error", zap.String("event", event), zap.Error(err))
		return
	}
	c.Send(b)
	c.mgr.sink.Publish(c.ctx, symbol, b)
}

func (c *Client) readPump() {
	defer func() {
		c.mgr.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))

	for {
		header, err := ws.ReadHeader(c.conn)
		if err != nil {
			break
		}

		if header.Length > int64(maxMessageSize) {
			c.logger.Warn("Msg too big", zap.Int64("size", header.Length))
			break
		}

		if !header.Fin {
			c.logger.Warn("Client sent fragmented message (not supported)")
			break
		}

		payload := make([]byte, header.Length)
		if _, err := io.ReadFull(c.conn, payload); err != nil {
			break
		}

		if header.Masked {
			ws.Cipher(payload, header.Mask, 0)
		}

		if header.OpCode == ws.OpClose {
			break
		}
		if header.OpCode == ws.OpPong {
			c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
			continue
		}

		// The feed is push-only; inbound text frames carry no commands.
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			c.conn.Write(ws.CompiledClose)
			return

		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := wsutil.WriteServerText(c.conn, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := wsutil.WriteServerMessage(c.conn, ws.OpPing, nil); err != nil {
				return
			}
		}
	}
}
