package sink

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Clock is used for the topic readiness retry loop.
type Clock interface {
	Sleep(d time.Duration)
}

type Dialer interface {
	DialContext(ctx context.Context, network, address string) (Conn, error)
}

type Conn interface {
	Controller() (kafka.Broker, error)
	Close() error
	CreateTopics(topics ...kafka.TopicConfig) error
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
}

type RealClock struct{}

func (RealClock) Sleep(d time.Duration) { time.Sleep(d) }

// RealConn adapts a *kafka.Conn to our interface
type RealConn struct{ *kafka.Conn }

func (c *RealConn) Controller() (kafka.Broker, error) { return c.Conn.Controller() }
func (c *RealConn) Close() error                      { return c.Conn.Close() }
func (c *RealConn) CreateTopics(topics ...kafka.TopicConfig) error {
	return c.Conn.CreateTopics(topics...)
}
func (c *RealConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	return c.Conn.ReadPartitions(topics...)
}

// RealDialer adapts *kafka.Dialer
type RealDialer struct{ *kafka.Dialer }

func (d *RealDialer) DialContext(ctx context.Context, network, address string) (Conn, error) {
	conn, err := d.Dialer.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}
	return &RealConn{Conn: conn}, nil
}
