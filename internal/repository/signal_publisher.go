package repository

import (
	"context"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	pkgkafka "TradePulse/pkg/kafka"
)

// KafkaSignalPublisher implements SignalPublisher for Kafka. Envelopes are
// keyed by symbol so downstream consumers see per-symbol ordering.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

var _ domrepo.SignalPublisher = (*KafkaSignalPublisher)(nil)

// NewKafkaSignalPublisher creates a Kafka-backed signal publisher.
func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) *KafkaSignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

func (p *KafkaSignalPublisher) Publish(ctx context.Context, env *models.SignalEnvelope) error {
	return p.producer.Publish(ctx, p.topic, []byte(env.Symbol), env)
}

func (p *KafkaSignalPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
