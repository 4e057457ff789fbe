package repository

import (
	"context"
	"time"

	"TradePulse/internal/domain/models"
)

// MarketStream is a live tick source (WebSocket feed collaborator).
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Tick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// SignalStore persists emitted envelopes and no-signal diagnostics.
type SignalStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, env *models.SignalEnvelope) error
	Query(ctx context.Context, symbol string, from, to time.Time, limit int, emittedOnly bool) ([]*models.SignalEnvelope, error)
	Health(ctx context.Context) error
	Close() error
}

// SignalPublisher forwards emitted envelopes to downstream notification collaborators.
type SignalPublisher interface {
	Publish(ctx context.Context, env *models.SignalEnvelope) error
	Close() error
}

// SnapshotCache holds the latest snapshot per symbol for queued evaluations.
type SnapshotCache interface {
	Put(snap models.MarketSnapshot)
	Latest(symbol string) (models.MarketSnapshot, bool)
}

// Metrics records engine and pipeline observability signals.
type Metrics interface {
	RecordEvaluation(tier, outcome string, seconds float64)
	RecordGateRejection(tier, reason string)
	RecordSignalConfidence(tier string, confidence float64)
	RecordLastPrice(symbol string, price float64)
	RecordError(kind string)
}
