package sink

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// TopicEnsurer creates the tick topic at startup and waits for it to
// become readable. Failures are logged, not fatal: the broker may
// auto-create topics or come up later.
type TopicEnsurer struct {
	logger *zap.Logger
	dialer Dialer
	clock  Clock
}

func NewTopicEnsurer(logger *zap.Logger, dialer Dialer, clock Clock) *TopicEnsurer {
	return &TopicEnsurer{
		logger: logger,
		dialer: dialer,
		clock:  clock,
	}
}

func (te *TopicEnsurer) Ensure(brokers []string, topicName string) {
	ctx := context.Background()
	var conn Conn
	var err error

	for _, addr := range brokers {
		conn, err = te.dialer.DialContext(ctx, "tcp", addr)
		if err == nil {
			break
		}
	}
	if err != nil {
		te.logger.Warn("Failed to dial brokers", zap.Error(err))
		return
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		te.logger.Warn("Failed to get controller", zap.Error(err))
		return
	}

	controllerAddr := net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port))
	controllerConn, err := te.dialer.DialContext(ctx, "tcp", controllerAddr)
	if err != nil {
		te.logger.Warn("Failed to dial controller", zap.Error(err))
		return
	}
	defer controllerConn.Close()

	err = controllerConn.CreateTopics(kafka.TopicConfig{
		Topic:             topicName,
		NumPartitions:     4,
		ReplicationFactor: 1,
	})

	if err != nil {
		te.logger.Info("Topic creation finished (might already exist)", zap.Error(err))
	} else {
		te.logger.Info("Topic creation request sent", zap.String("topic", topicName))
	}

	te.waitForTopic(conn, topicName)
}

func (te *TopicEnsurer) waitForTopic(conn Conn, topicName string) {
	for i := 0; i < 5; i++ {
		te.clock.Sleep(200 * time.Millisecond)
		partitions, err := conn.ReadPartitions(topicName)
		if err == nil && len(partitions) > 0 {
			te.logger.Info("Topic is ready", zap.Int("partitions", len(partitions)))
			return
		}
	}
	te.logger.Warn("Timed out waiting for topic", zap.String("topic", topicName))
}
