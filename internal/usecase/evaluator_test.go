package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"TradePulse/internal/domain/models"
	"TradePulse/internal/engine"
	applogger "TradePulse/pkg/logger"
)

type fakeCache struct {
	snaps map[string]models.MarketSnapshot
}

func (c *fakeCache) Put(snap models.MarketSnapshot) {
	if c.snaps == nil {
		c.snaps = map[string]models.MarketSnapshot{}
	}
	c.snaps[snap.Symbol] = snap
}

func (c *fakeCache) Latest(symbol string) (models.MarketSnapshot, bool) {
	s, ok := c.snaps[symbol]
	return s, ok
}

type fakeStore struct {
	stored []*models.SignalEnvelope
	err    error
}

func (s *fakeStore) Init(context.Context) error { return nil }

func (s *fakeStore) Store(_ context.Context, env *models.SignalEnvelope) error {
	if s.err != nil {
		return s.err
	}
	s.stored = append(s.stored, env)
	return nil
}

func (s *fakeStore) Query(context.Context, string, time.Time, time.Time, int, bool) ([]*models.SignalEnvelope, error) {
	return nil, nil
}

func (s *fakeStore) Health(context.Context) error { return nil }
func (s *fakeStore) Close() error                 { return nil }

type fakePublisher struct {
	published []*models.SignalEnvelope
}

func (p *fakePublisher) Publish(_ context.Context, env *models.SignalEnvelope) error {
	p.published = append(p.published, env)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

type recordingMetrics struct {
	evaluations map[string]int
	rejections  int
	errors      map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{evaluations: map[string]int{}, errors: map[string]int{}}
}

func (m *recordingMetrics) RecordEvaluation(_, outcome string, _ float64) { m.evaluations[outcome]++ }

func (m *recordingMetrics) RecordGateRejection(string, string) { m.rejections++ }

func (m *recordingMetrics) RecordSignalConfidence(string, float64) {}

func (m *recordingMetrics) RecordLastPrice(string, float64) {}

func (m *recordingMetrics) RecordError(kind string) { m.errors[kind]++ }

func testEngine(required int, minConfidence float64) *engine.Engine {
	return engine.New(&engine.Config{
		DirectionThreshold: 0.2,
		PeriodScaling:      365,
		HorizonDays:        3,
		Risk: engine.RiskParameters{
			Capital:       100000,
			RiskFraction:  0.01,
			ATRMultiplier: 2,
			TPMultipliers: []float64{1, 2, 3},
		},
		Tiers: []engine.TierConfig{{
			ID: "scout",
			Criteria: []string{
				"range_wellformed", "trend_confirmed", "breakout_proximity",
				"volume_baseline", "volume_surge", "volatility_floor",
				"volatility_ceiling", "sentiment_bullish",
			},
			RequiredPassCount: required,
			MinConfidence:     minConfidence,
			Weights:           engine.EnsembleWeights{Algebraic: 0.3, Probabilistic: 0.4, Projection: 0.3},
		}},
	})
}

func bullishSnapshot() models.MarketSnapshot {
	return models.MarketSnapshot{
		Symbol:      "BTCUSDT",
		Timestamp:   time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Price:       87670,
		RecentHigh:  88000,
		RecentLow:   86000,
		Volatility:  0.042,
		Sentiment:   0.58,
		VolumeRatio: 1.2,
	}
}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func TestEvaluateSymbolStoresAndPublishes(t *testing.T) {
	cache := &fakeCache{}
	cache.Put(bullishSnapshot())
	store := &fakeStore{}
	pub := &fakePublisher{}
	m := newRecordingMetrics()

	ev := NewSignalEvaluator(testEngine(3, 0.4), cache, store, pub, m, testLogger(t))

	envs, err := ev.EvaluateSymbol(context.Background(), "BTCUSDT", "")
	if err != nil {
		t.Fatalf("evaluate symbol: %v", err)
	}
	if len(envs) != 1 {
		t.Fatalf("envelopes %d, want 1", len(envs))
	}
	if !envs[0].Emitted {
		t.Fatalf("expected emitted signal, got cause %q", envs[0].NoSignalCause)
	}
	if len(store.stored) != 1 {
		t.Fatalf("stored %d envelopes, want 1", len(store.stored))
	}
	if len(pub.published) != 1 {
		t.Fatalf("published %d envelopes, want 1", len(pub.published))
	}
	if m.evaluations["emitted"] != 1 {
		t.Fatalf("emitted evaluations %d, want 1", m.evaluations["emitted"])
	}
}

func TestEvaluateSymbolUnknownSymbol(t *testing.T) {
	ev := NewSignalEvaluator(testEngine(3, 0.4), &fakeCache{snaps: map[string]models.MarketSnapshot{}},
		&fakeStore{}, &fakePublisher{}, newRecordingMetrics(), testLogger(t))

	if _, err := ev.EvaluateSymbol(context.Background(), "DOGEUSDT", ""); err == nil {
		t.Fatal("missing snapshot must be an error")
	}
}

func TestGateRejectionStoredButNotPublished(t *testing.T) {
	cache := &fakeCache{}
	cache.Put(bullishSnapshot())
	store := &fakeStore{}
	pub := &fakePublisher{}
	m := newRecordingMetrics()

	// all eight criteria cannot pass on this snapshot
	ev := NewSignalEvaluator(testEngine(8, 0.8), cache, store, pub, m, testLogger(t))

	envs, err := ev.EvaluateSymbol(context.Background(), "BTCUSDT", "scout")
	if err != nil {
		t.Fatalf("evaluate symbol: %v", err)
	}
	if envs[0].Emitted {
		t.Fatal("strict gate must reject")
	}
	if len(store.stored) != 1 {
		t.Fatalf("rejections must still be stored, got %d", len(store.stored))
	}
	if len(pub.published) != 0 {
		t.Fatalf("rejections must not be published, got %d", len(pub.published))
	}
	if m.rejections != 1 {
		t.Fatalf("gate rejections %d, want 1", m.rejections)
	}
}

func TestEvaluateTierUnknownTier(t *testing.T) {
	cache := &fakeCache{}
	cache.Put(bullishSnapshot())
	m := newRecordingMetrics()
	ev := NewSignalEvaluator(testEngine(3, 0.4), cache, &fakeStore{}, &fakePublisher{}, m, testLogger(t))

	if _, err := ev.EvaluateSymbol(context.Background(), "BTCUSDT", "whale"); !errors.Is(err, engine.ErrUnknownTier) {
		t.Fatalf("err %v, want ErrUnknownTier", err)
	}
	if m.errors["evaluate"] != 1 {
		t.Fatalf("evaluate errors %d, want 1", m.errors["evaluate"])
	}
}

func TestStoreFailureDoesNotBlockPublish(t *testing.T) {
	cache := &fakeCache{}
	cache.Put(bullishSnapshot())
	store := &fakeStore{err: errors.New("clickhouse down")}
	pub := &fakePublisher{}
	m := newRecordingMetrics()

	ev := NewSignalEvaluator(testEngine(3, 0.4), cache, store, pub, m, testLogger(t))

	envs, err := ev.EvaluateSymbol(context.Background(), "BTCUSDT", "scout")
	if err != nil {
		t.Fatalf("evaluate symbol: %v", err)
	}
	if !envs[0].Emitted {
		t.Fatal("expected emitted signal")
	}
	if len(pub.published) != 1 {
		t.Fatalf("published %d, want 1 despite store failure", len(pub.published))
	}
	if m.errors["store_signal"] != 1 {
		t.Fatalf("store_signal errors %d, want 1", m.errors["store_signal"])
	}
}
