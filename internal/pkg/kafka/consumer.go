package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ds124wfegd/flux-ideal-size/internal/entity"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// TaskHandler processes one decoded size task.
type TaskHandler func(ctx context.Context, task entity.SizeTask) error

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Consumer struct {
	reader  messageReader
	handler TaskHandler
}

func NewConsumer(brokers []string, topic, groupID string, handler TaskHandler) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})

	return &Consumer{reader: reader, handler: handler}
}

// Run reads tasks until ctx is cancelled. Malformed messages and failed tasks are
// logged and skipped.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	logrus.Info("Size task consumer started")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			logrus.WithError(err).Error("Error reading message from Kafka")
			continue
		}

		c.handle(ctx, msg)
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) {
	log := logrus.WithFields(logrus.Fields{
		"topic":     msg.Topic,
		"partition": msg.Partition,
		"offset":    msg.Offset,
	})

	var task entity.SizeTask
	if err := json.Unmarshal(msg.Value, &task); err != nil {
		log.WithError(err).Warn("Failed to parse size task")
		return
	}

	if err := c.handler(ctx, task); err != nil {
		log.WithError(err).WithField("task_id", task.ID).Error("Size task failed")
		return
	}
	log.WithField("task_id", task.ID).Debug("Size task processed")
}
