package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	"TradePulse/internal/engine"
	applogger "TradePulse/pkg/logger"
)

// SignalEvaluator runs tier evaluations against snapshots and routes results:
// every envelope (emitted or not) is persisted for later analysis, emitted
// ones are additionally published downstream.
type SignalEvaluator struct {
	eng     *engine.Engine
	cache   domrepo.SnapshotCache
	store   domrepo.SignalStore
	pub     domrepo.SignalPublisher
	metrics domrepo.Metrics
	l       *applogger.Logger
}

func NewSignalEvaluator(
	eng *engine.Engine,
	cache domrepo.SnapshotCache,
	store domrepo.SignalStore,
	pub domrepo.SignalPublisher,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *SignalEvaluator {
	return &SignalEvaluator{eng: eng, cache: cache, store: store, pub: pub, metrics: metrics, l: l}
}

// Tiers exposes the configured tier ladder.
func (e *SignalEvaluator) Tiers() []engine.TierConfig {
	return e.eng.Config().Tiers
}

// EvaluateTier evaluates a single tier against the snapshot, persisting and
// publishing the result.
func (e *SignalEvaluator) EvaluateTier(ctx context.Context, tierID string, snap models.MarketSnapshot) (*models.SignalEnvelope, error) {
	start := time.Now()
	env, err := e.eng.EvaluateTier(tierID, snap)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidRiskInput) {
			e.metrics.RecordEvaluation(tierID, "error", time.Since(start).Seconds())
		}
		e.metrics.RecordError("evaluate")
		return nil, err
	}
	e.observe(env, time.Since(start))
	e.route(ctx, env)
	return env, nil
}

// EvaluateAll evaluates every configured tier against the snapshot. A risk
// construction failure in any tier aborts the whole evaluation.
func (e *SignalEvaluator) EvaluateAll(ctx context.Context, snap models.MarketSnapshot) ([]*models.SignalEnvelope, error) {
	start := time.Now()
	envs, err := e.eng.EvaluateAll(snap)
	if err != nil {
		e.metrics.RecordError("evaluate")
		return nil, err
	}
	elapsed := time.Since(start)
	for _, env := range envs {
		e.observe(env, elapsed)
		e.route(ctx, env)
	}
	return envs, nil
}

// EvaluateSymbol evaluates the cached latest snapshot of a symbol. When
// tierID is empty every tier runs.
func (e *SignalEvaluator) EvaluateSymbol(ctx context.Context, symbol, tierID string) ([]*models.SignalEnvelope, error) {
	snap, ok := e.cache.Latest(symbol)
	if !ok {
		return nil, fmt.Errorf("no snapshot for symbol %s", symbol)
	}
	if tierID != "" {
		env, err := e.EvaluateTier(ctx, tierID, snap)
		if err != nil {
			return nil, err
		}
		return []*models.SignalEnvelope{env}, nil
	}
	return e.EvaluateAll(ctx, snap)
}

func (e *SignalEvaluator) observe(env *models.SignalEnvelope, elapsed time.Duration) {
	outcome := "emitted"
	if !env.Emitted {
		outcome = env.NoSignalCause
	}
	e.metrics.RecordEvaluation(env.TierID, outcome, elapsed.Seconds())
	if env.NoSignalCause == models.NoSignalGateRejected {
		e.metrics.RecordGateRejection(env.TierID, models.NoSignalGateRejected)
	}
	if env.Emitted {
		e.metrics.RecordSignalConfidence(env.TierID, env.Confidence)
		e.l.Info("signal emitted",
			applogger.String("symbol", env.Symbol),
			applogger.String("tier", env.TierID),
			applogger.String("direction", string(env.Direction)),
			applogger.Float64("confidence", env.Confidence),
			applogger.Float64("entry", env.Entry),
			applogger.Float64("stop_loss", env.StopLoss),
		)
	}
}

func (e *SignalEvaluator) route(ctx context.Context, env *models.SignalEnvelope) {
	if e.store != nil {
		if err := e.store.Store(ctx, env); err != nil {
			e.metrics.RecordError("store_signal")
			e.l.Error("store signal", applogger.Error(err),
				applogger.String("symbol", env.Symbol),
				applogger.String("tier", env.TierID))
		}
	}
	if e.pub != nil && env.Emitted {
		if err := e.pub.Publish(ctx, env); err != nil {
			e.metrics.RecordError("publish_signal")
			e.l.Error("publish signal", applogger.Error(err),
				applogger.String("symbol", env.Symbol),
				applogger.String("tier", env.TierID))
		}
	}
}
