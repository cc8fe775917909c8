package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Producer struct {
	Writer WriterInterface
	Logger *zap.SugaredLogger
}

func NewProducer(brokers []string, topic string, logger *zap.SugaredLogger) *Producer {
	return &Producer{
		Writer: &kafkaWriterWrapper{
			Writer: &kafka.Writer{
				Addr:                   kafka.TCP(brokers...),
				Topic:                  topic,
				Balancer:               &kafka.Hash{},
				BatchTimeout:           10 * time.Millisecond,
				AllowAutoTopicCreation: true,
			},
		},
		Logger: logger,
	}
}

type kafkaWriterWrapper struct {
	Writer *kafka.Writer
}

func (w *kafkaWriterWrapper) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	return w.Writer.WriteMessages(ctx, msgs...)
}

func (w *kafkaWriterWrapper) Close() error {
	return w.Writer.Close()
}

// SendEvent пишет событие с ключом по id отзыва,
// чтобы создание и удаление одного отзыва попадали в одну партицию
func (p *Producer) SendEvent(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.FeedbackID, 10)),
		Value: value,
	})
	if err != nil {
		p.Logger.Errorw("Failed to write Kafka message", zap.Error(err), "type", event.Type)
		return err
	}

	return nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

// NopProducer используется, когда брокеры не настроены
type NopProducer struct{}

func (NopProducer) SendEvent(context.Context, Event) error { return nil }

func (NopProducer) Close() error { return nil }
