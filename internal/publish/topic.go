package publish

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"

	kafkaGo "github.com/segmentio/kafka-go"
)

// EnsureTopic creates topic through the cluster controller if it does not
// already exist.
func EnsureTopic(broker, topic string, partitions int, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if partitions <= 0 {
		partitions = 1
	}

	conn, err := kafkaGo.Dial("tcp", broker)
	if err != nil {
		return fmt.Errorf("dial kafka: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("get kafka controller: %w", err)
	}

	controllerConn, err := kafkaGo.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("dial kafka controller: %w", err)
	}
	defer controllerConn.Close()

	err = controllerConn.CreateTopics(kafkaGo.TopicConfig{
		Topic:             topic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}

	logger.Info("kafka topic ready", "topic", topic)
	return nil
}
