package engine

import (
	"testing"

	"TradePulse/internal/domain/models"
)

var defaultWeights = EnsembleWeights{Algebraic: 0.3, Probabilistic: 0.4, Projection: 0.3}

func TestEnsembleAllBullishResolvesLong(t *testing.T) {
	// Fair value sits above price, sentiment drift is positive, and the
	// projection follows the drift: every vote is long.
	snap := models.MarketSnapshot{
		Symbol:      "BTCUSDT",
		Price:       86000,
		RecentHigh:  88800,
		RecentLow:   86600,
		Volatility:  0.04,
		Sentiment:   0.55,
		VolumeRatio: 1.0,
	}
	res := CombineOpinions(defaultWeights, 0.2, 3, snap)
	if res.Direction != models.DirectionLong {
		t.Fatalf("direction %s, want long", res.Direction)
	}
	if res.SignalWeight < 0.99 {
		t.Fatalf("signal weight %v, want near +1", res.SignalWeight)
	}
	if res.ProbUp <= 0.5 {
		t.Fatalf("prob up %v, want > 0.5", res.ProbUp)
	}
}

func TestEnsembleAllBearishResolvesShort(t *testing.T) {
	snap := models.MarketSnapshot{
		Symbol:      "BTCUSDT",
		Price:       90000,
		RecentHigh:  88800,
		RecentLow:   86600,
		Volatility:  0.04,
		Sentiment:   0.40,
		VolumeRatio: 1.0,
	}
	res := CombineOpinions(defaultWeights, 0.2, 3, snap)
	if res.Direction != models.DirectionShort {
		t.Fatalf("direction %s, want short", res.Direction)
	}
	if res.SignalWeight > -0.99 {
		t.Fatalf("signal weight %v, want near -1", res.SignalWeight)
	}
}

func TestEnsembleDisagreementHolds(t *testing.T) {
	// Price above fair value but bullish sentiment: algebraic votes short
	// while the other two vote long. With 0.3/0.4/0.3 the combined weight is
	// 0.4, still above a 0.2 threshold, so force a higher threshold to hold.
	snap := models.MarketSnapshot{
		Symbol:      "BTCUSDT",
		Price:       90000,
		RecentHigh:  88800,
		RecentLow:   86600,
		Volatility:  0.04,
		Sentiment:   0.60,
		VolumeRatio: 1.0,
	}
	res := CombineOpinions(defaultWeights, 0.5, 3, snap)
	if res.Direction != models.DirectionHold {
		t.Fatalf("direction %s, want hold at threshold 0.5", res.Direction)
	}
	if res.SignalWeight < 0.39 || res.SignalWeight > 0.41 {
		t.Fatalf("signal weight %v, want 0.4", res.SignalWeight)
	}
}

func TestProjectionDeterministic(t *testing.T) {
	snap := baseSnapshot()
	first := projectionOpinion(snap, 3)
	second := projectionOpinion(snap, 3)
	if first != second {
		t.Fatalf("projection is not reproducible: %+v vs %+v", first, second)
	}
}

func TestEnsembleWeightsNormalized(t *testing.T) {
	// Unnormalized weights must not push the combined weight outside [-1,1].
	w := EnsembleWeights{Algebraic: 3, Probabilistic: 4, Projection: 3}
	snap := baseSnapshot()
	snap.Sentiment = 0.9
	res := CombineOpinions(w, 0.2, 3, snap)
	if res.SignalWeight < -1 || res.SignalWeight > 1 {
		t.Fatalf("signal weight %v out of [-1,1]", res.SignalWeight)
	}
}
