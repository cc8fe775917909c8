package kafka

import (
	"context"
	"encoding/json"
	"errors"

	kgo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Consumer реализует EventConsumer.
type Consumer struct {
	Reader ReaderInterface
	Logger *zap.SugaredLogger
}

func NewConsumer(brokers []string, topic, groupID string, logger *zap.SugaredLogger) *Consumer {
	return &Consumer{
		Reader: &kafkaReaderWrapper{
			Reader: kgo.NewReader(kgo.ReaderConfig{
				Brokers:  brokers,
				Topic:    topic,
				GroupID:  groupID,
				MinBytes: 1,
				MaxBytes: 10e6, // 10MB
			}),
		},
		Logger: logger,
	}
}

type kafkaReaderWrapper struct {
	Reader *kgo.Reader
}

func (w *kafkaReaderWrapper) ReadMessage(ctx context.Context) (kgo.Message, error) {
	return w.Reader.ReadMessage(ctx)
}

func (w *kafkaReaderWrapper) Close() error {
	return w.Reader.Close()
}

// Consume читает топик до отмены контекста.
// Битые сообщения и ошибки обработчика логируются и пропускаются.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, Event) error) {
	for {
		msg, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return
			}
			c.Logger.Errorw("Failed to read message", zap.Error(err))
			continue
		}

		var event Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.Logger.Errorw("Failed to unmarshal event", zap.Error(err), "offset", msg.Offset)
			continue
		}

		if err := handler(ctx, event); err != nil {
			c.Logger.Errorw("Failed to process event", zap.Error(err), "type", event.Type)
		}
	}
}

func (c *Consumer) Close() error {
	return c.Reader.Close()
}
