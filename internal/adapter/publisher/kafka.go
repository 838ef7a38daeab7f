package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/srgjo27/stay_engine/internal/core/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes each intent as one JSON message keyed by entity id,
// so every intent for one booking or order lands on the same partition.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
}

func NewKafkaPublisher(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, intents []domain.Intent) error {
	if len(intents) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(intents))
	for _, in := range intents {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode intent %s: %w", in.Kind, err)
		}

		msgs = append(msgs, kafka.Message{
			Key:   []byte(in.EntityID.String()),
			Value: data,
			Time:  in.CreatedAt,
			Headers: []kafka.Header{
				{Key: "kind", Value: []byte(in.Kind)},
			},
		})
	}

	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
