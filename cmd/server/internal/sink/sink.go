// Package sink mirrors every pushed tick into Kafka so downstream
// consumers can replay the same stream the browsers saw. Publishing is
// best-effort: a broker outage never delays or drops a client push.
package sink

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// NewWriter builds the production kafka writer.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
		// Optimization: Send batches to reduce network IO
		BatchSize:    100,                   // Send after 100 messages
		BatchTimeout: 10 * time.Millisecond, // OR send after 10ms
		Async:        true,                  // Write non-blocking (fire and forget handled by buffer)
	}
}

// KafkaSink publishes tick payloads keyed by symbol so one symbol stays
// on one partition.
type KafkaSink struct {
	writer Writer
	logger *zap.Logger
}

func NewKafka(writer Writer, logger *zap.Logger) *KafkaSink {
	return &KafkaSink{writer: writer, logger: logger}
}

func (s *KafkaSink) Publish(ctx context.Context, symbol string, payload []byte) {
	err := s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(symbol),
		Value: payload,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("Kafka Write Error", zap.String("symbol", symbol), zap.Error(err))
	}
}

// Close flushes the writer buffer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

// NopSink is used when Kafka is disabled.
type NopSink struct{}

func (NopSink) Publish(ctx context.Context, symbol string, payload []byte) {}
