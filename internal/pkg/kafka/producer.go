package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ds124wfegd/flux-ideal-size/internal/entity"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type Producer interface {
	Publish(ctx context.Context, event entity.InvocationEvent) error
	HealthCheck() error
	Close() error
}

type kafkaProducer struct {
	writer  *kafka.Writer
	brokers []string
	topic   string
}

// NewProducer connects to the first reachable broker and makes sure the topic
// exists. When no broker answers it falls back to a producer that only logs.
func NewProducer(brokers []string, topic string) Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	log := logrus.WithFields(logrus.Fields{"brokers": brokers, "topic": topic})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var conn *kafka.Conn
	var err error
	for _, broker := range brokers {
		if conn, err = kafka.DialContext(ctx, "tcp", broker); err == nil {
			break
		}
	}
	if conn == nil {
		log.WithError(err).Warn("Kafka connection failed, using mock producer")
		writer.Close()
		return NewMockProducer()
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		log.WithError(err).Debug("Could not create topic (might already exist)")
	}

	log.Info("Kafka producer connected")
	return &kafkaProducer{writer: writer, brokers: brokers, topic: topic}
}

func (p *kafkaProducer) Publish(ctx context.Context, event entity.InvocationEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.NodeType),
		Value: value,
		Time:  event.Timestamp,
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"topic":         p.topic,
		"invocation_id": event.InvocationID,
	}).Debug("Invocation event published")
	return nil
}

// HealthCheck succeeds when at least one broker accepts a connection.
func (p *kafkaProducer) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := errors.New("no kafka brokers configured")
	for _, broker := range p.brokers {
		var conn *kafka.Conn
		if conn, err = kafka.DialContext(ctx, "tcp", broker); err == nil {
			return conn.Close()
		}
	}
	return fmt.Errorf("kafka health check failed: %w", err)
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}

// mockProducer stands in when no broker is available.
type mockProducer struct{}

func NewMockProducer() Producer {
	return &mockProducer{}
}

func (m *mockProducer) Publish(_ context.Context, event entity.InvocationEvent) error {
	logrus.WithFields(logrus.Fields{
		"invocation_id": event.InvocationID,
		"node_type":     event.NodeType,
	}).Debug("MOCK: invocation event")
	return nil
}

func (m *mockProducer) HealthCheck() error {
	return nil
}

func (m *mockProducer) Close() error {
	return nil
}
