package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"vcardops/config"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

var ErrEmptyTopic = errors.New("kafka topic is required")

// Handler processes one message. The offset is committed after it returns,
// whether or not it failed, so a malformed event cannot block the partition.
type Handler func(ctx context.Context, msg kafkaGo.Message) error

type Consumer interface {
	Consume(ctx context.Context, topic string, handler Handler) error
}

type Reader interface {
	FetchMessage(ctx context.Context) (kafkaGo.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

type ReaderFactory func(topic string) Reader

type consumerImpl struct {
	newReader ReaderFactory
}

func New(cfg *config.Config) Consumer {
	dialer := &kafkaGo.Dialer{DualStack: true}

	if cfg.Kafka.SASL.Username != "" {
		dialer.SASLMechanism = plain.Mechanism{
			Username: cfg.Kafka.SASL.Username,
			Password: cfg.Kafka.SASL.Password,
		}
	}

	return NewWithReader(func(topic string) Reader {
		return kafkaGo.NewReader(kafkaGo.ReaderConfig{
			Brokers:     cfg.Kafka.Brokers,
			Topic:       topic,
			GroupID:     cfg.Kafka.ConsumerGroup,
			Dialer:      dialer,
			StartOffset: kafkaGo.LastOffset,
		})
	})
}

func NewWithReader(newReader ReaderFactory) Consumer {
	return &consumerImpl{newReader: newReader}
}

// Consume blocks until ctx is cancelled. Messages are handled one at a time
// in partition order.
func (c *consumerImpl) Consume(ctx context.Context, topic string, handler Handler) error {
	if topic == "" {
		return ErrEmptyTopic
	}

	reader := c.newReader(topic)
	defer func() {
		if err := reader.Close(); err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("failed to close kafka reader")
		}
	}()

	log.Info().Str("topic", topic).Msg("kafka consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Str("topic", topic).Msg("kafka consumer stopped")

				return nil
			}

			log.Error().Err(err).Str("topic", topic).Msg("failed to fetch message from kafka")

			return fmt.Errorf("failed to fetch message from kafka: %w", err)
		}

		if err := handler(ctx, msg); err != nil {
			log.Error().Err(err).
				Str("topic", topic).
				Int("partition", msg.Partition).
				Int64("offset", msg.Offset).
				Msg("failed to handle kafka message")
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error().Err(err).Str("topic", topic).Int64("offset", msg.Offset).Msg("failed to commit kafka message")
		}
	}
}

// Decode unmarshals the JSON value of msg into T.
func Decode[T any](msg kafkaGo.Message) (T, error) {
	var value T

	if err := json.Unmarshal(msg.Value, &value); err != nil {
		return value, fmt.Errorf("failed to decode kafka message: %w", err)
	}

	return value, nil
}
