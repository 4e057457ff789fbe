package features

import (
	"math"
	"testing"
	"time"

	"TradePulse/internal/domain/models"
)

func tick(symbol string, price, volume float64, offset time.Duration) models.Tick {
	return models.Tick{
		Symbol:    symbol,
		Price:     price,
		Volume:    volume,
		Timestamp: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC).Add(offset),
	}
}

func TestComputeLogReturns(t *testing.T) {
	rets := ComputeLogReturns([]float64{100, 110, 99})
	if len(rets) != 2 {
		t.Fatalf("returns %d, want 2", len(rets))
	}
	if math.Abs(rets[0]-math.Log(1.1)) > 1e-12 {
		t.Fatalf("first return %v", rets[0])
	}
	if ComputeLogReturns([]float64{100}) != nil {
		t.Fatal("single price must yield nil")
	}
}

func TestComputeLogReturnsSkipsBadPrices(t *testing.T) {
	rets := ComputeLogReturns([]float64{100, 0, 100})
	if rets[0] != 0 || rets[1] != 0 {
		t.Fatalf("non-positive prices must produce zero returns, got %v", rets)
	}
}

func TestRealizedVolatilityConstantSeries(t *testing.T) {
	rets := ComputeLogReturns([]float64{100, 100, 100, 100})
	if v := RealizedVolatility(rets, len(rets), 365); v != 0 {
		t.Fatalf("flat series volatility %v, want 0", v)
	}
}

func TestRealizedVolatilityScalesWithBarsPerYear(t *testing.T) {
	rets := []float64{0.01, -0.02, 0.015, -0.005, 0.01, -0.01}
	lo := RealizedVolatility(rets, len(rets), 365)
	hi := RealizedVolatility(rets, len(rets), 365*4)
	if math.Abs(hi-2*lo) > 1e-12 {
		t.Fatalf("quadrupled bars must double sigma: %v vs %v", hi, lo)
	}
}

func TestExtractorSnapshotLifecycle(t *testing.T) {
	e := NewExtractor(10)

	if _, ok := e.Snapshot("BTCUSDT"); ok {
		t.Fatal("empty window must not produce a snapshot")
	}

	prices := []float64{87000, 87100, 86950, 87200, 87150}
	for i, p := range prices {
		e.Observe(tick("BTCUSDT", p, 1+float64(i), time.Duration(i)*time.Second))
	}
	e.SetSentiment("BTCUSDT", 0.62)

	snap, ok := e.Snapshot("BTCUSDT")
	if !ok {
		t.Fatal("expected a snapshot after five ticks")
	}
	if snap.Price != 87150 {
		t.Fatalf("price %v, want last tick", snap.Price)
	}
	if snap.RecentHigh != 87200 || snap.RecentLow != 86950 {
		t.Fatalf("range %v..%v, want 86950..87200", snap.RecentLow, snap.RecentHigh)
	}
	if snap.Volatility <= 0 {
		t.Fatalf("volatility %v, want positive", snap.Volatility)
	}
	if snap.Sentiment != 0.62 {
		t.Fatalf("sentiment %v, want 0.62", snap.Sentiment)
	}
	if snap.VolumeRatio <= 1 {
		t.Fatalf("rising volume should read above average, got %v", snap.VolumeRatio)
	}
}

func TestExtractorWindowBound(t *testing.T) {
	e := NewExtractor(3)
	e.Observe(tick("BTCUSDT", 90000, 1, 0)) // will roll out of the window
	e.Observe(tick("BTCUSDT", 87000, 1, time.Second))
	e.Observe(tick("BTCUSDT", 87100, 1, 2*time.Second))
	e.Observe(tick("BTCUSDT", 87050, 1, 3*time.Second))

	snap, ok := e.Snapshot("BTCUSDT")
	if !ok {
		t.Fatal("expected a snapshot")
	}
	if snap.RecentHigh != 87100 {
		t.Fatalf("high %v must forget the rolled-out tick", snap.RecentHigh)
	}
}

func TestSetSentimentClamps(t *testing.T) {
	e := NewExtractor(10)
	e.Observe(tick("BTCUSDT", 87000, 1, 0))
	e.Observe(tick("BTCUSDT", 87100, 1, time.Second))
	e.SetSentiment("BTCUSDT", 1.7)

	snap, ok := e.Snapshot("BTCUSDT")
	if !ok {
		t.Fatal("expected a snapshot")
	}
	if snap.Sentiment != 1 {
		t.Fatalf("sentiment %v, want clamped to 1", snap.Sentiment)
	}
}
