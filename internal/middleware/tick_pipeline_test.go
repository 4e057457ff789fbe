package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"TradePulse/internal/domain/models"
)

type procFunc func(ctx context.Context, t *models.Tick) error

func (f procFunc) Process(ctx context.Context, t *models.Tick) error { return f(ctx, t) }

type nopMetrics struct {
	mu     sync.Mutex
	errors map[string]int
}

func newNopMetrics() *nopMetrics { return &nopMetrics{errors: map[string]int{}} }

func (m *nopMetrics) RecordEvaluation(string, string, float64) {}
func (m *nopMetrics) RecordGateRejection(string, string)       {}
func (m *nopMetrics) RecordSignalConfidence(string, float64)   {}
func (m *nopMetrics) RecordLastPrice(string, float64)          {}

func (m *nopMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errors[kind]++
	m.mu.Unlock()
}

func (m *nopMetrics) count(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors[kind]
}

func validTick() *models.Tick {
	return &models.Tick{Symbol: "BTCUSDT", Timestamp: time.Now(), Price: 87000, Volume: 1}
}

func TestPipelineForwardsValidTicks(t *testing.T) {
	var got []*models.Tick
	p := NewTickPipeline(procFunc(func(_ context.Context, tk *models.Tick) error {
		got = append(got, tk)
		return nil
	}), newNopMetrics())

	if err := p.Process(context.Background(), validTick()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("forwarded %d ticks, want 1", len(got))
	}
}

func TestPipelineRejectsInvalidTicks(t *testing.T) {
	m := newNopMetrics()
	p := NewTickPipeline(procFunc(func(context.Context, *models.Tick) error {
		t.Fatal("invalid tick must not reach downstream")
		return nil
	}), m)

	bad := validTick()
	bad.Price = 0
	if err := p.Process(context.Background(), bad); err == nil {
		t.Fatal("expected a validation error")
	}
	if err := p.Process(context.Background(), &models.Tick{Symbol: "", Timestamp: time.Now(), Price: 1}); err == nil {
		t.Fatal("expected a validation error for empty symbol")
	}
	if m.count("pipeline_validate") != 2 {
		t.Fatalf("validate errors %d, want 2", m.count("pipeline_validate"))
	}
}

func TestPipelineThrottlesPerSymbol(t *testing.T) {
	m := newNopMetrics()
	forwarded := 0
	p := NewTickPipeline(procFunc(func(context.Context, *models.Tick) error {
		forwarded++
		return nil
	}), m, WithMaxRPS(1), WithBurst(2))

	for i := 0; i < 10; i++ {
		if err := p.Process(context.Background(), validTick()); err != nil {
			t.Fatalf("process: %v", err)
		}
	}
	if forwarded > 3 {
		t.Fatalf("forwarded %d of 10 rapid ticks through a 2-token bucket", forwarded)
	}
	if m.count("pipeline_throttle") == 0 {
		t.Fatal("expected throttle drops to be recorded")
	}
}

func TestPipelineBuffersOnDownstreamError(t *testing.T) {
	m := newNopMetrics()
	fail := true
	var mu sync.Mutex
	delivered := 0
	p := NewTickPipeline(procFunc(func(context.Context, *models.Tick) error {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return errors.New("downstream down")
		}
		delivered++
		return nil
	}), m, WithBufferSize(8))

	if err := p.Process(context.Background(), validTick()); err == nil {
		t.Fatal("expected downstream error to surface")
	}

	p.Start(context.Background())
	defer p.Stop()

	mu.Lock()
	fail = false
	mu.Unlock()

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		ok := delivered == 1
		mu.Unlock()
		if ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("buffered tick was never flushed")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
