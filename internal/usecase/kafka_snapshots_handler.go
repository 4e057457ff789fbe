package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	pkgkafka "TradePulse/pkg/kafka"
)

// KafkaSnapshotsHandler consumes externally produced market snapshots and
// runs them through the evaluator. This is the ingest path for producers that
// assemble their own features instead of relying on the tick feed.
type KafkaSnapshotsHandler struct {
	topic     string
	cache     domrepo.SnapshotCache
	evaluator *SignalEvaluator
	metrics   domrepo.Metrics
}

func NewKafkaSnapshotsHandler(topic string, cache domrepo.SnapshotCache, evaluator *SignalEvaluator, metrics domrepo.Metrics) *KafkaSnapshotsHandler {
	return &KafkaSnapshotsHandler{topic: topic, cache: cache, evaluator: evaluator, metrics: metrics}
}

func (h *KafkaSnapshotsHandler) Topic() string { return h.topic }

func (h *KafkaSnapshotsHandler) Handle(ctx context.Context, b []byte) error {
	var snap models.MarketSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if snap.Symbol == "" || snap.Price <= 0 {
		h.metrics.RecordError("consumer_invalid_snapshot")
		return fmt.Errorf("invalid snapshot: symbol=%q price=%v", snap.Symbol, snap.Price)
	}
	h.cache.Put(snap)
	h.metrics.RecordLastPrice(snap.Symbol, snap.Price)

	if _, err := h.evaluator.EvaluateAll(ctx, snap); err != nil {
		h.metrics.RecordError("consumer_evaluate")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaSnapshotsHandler)(nil)
