package engine

import (
	"reflect"
	"testing"
)

func eightCriterionTier() TierConfig {
	return TierConfig{
		ID: "scout",
		Criteria: []string{
			"range_wellformed", "trend_confirmed", "breakout_proximity",
			"volume_baseline", "volume_surge", "volatility_floor",
			"volatility_ceiling", "sentiment_bullish",
		},
		RequiredPassCount: 8,
		MinConfidence:     0.8,
		Weights:           EnsembleWeights{Algebraic: 0.3, Probabilistic: 0.4, Projection: 0.3},
	}
}

func TestScoreDeterministic(t *testing.T) {
	tier := eightCriterionTier()
	snap := baseSnapshot()
	first := Score(tier, snap)
	second := Score(tier, snap)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated scoring differed: %+v vs %+v", first, second)
	}
}

func TestScoreOrderIndependent(t *testing.T) {
	tier := eightCriterionTier()
	snap := baseSnapshot()
	fwd := Score(tier, snap)

	rev := tier
	rev.Criteria = make([]string, len(tier.Criteria))
	for i, id := range tier.Criteria {
		rev.Criteria[len(tier.Criteria)-1-i] = id
	}
	back := Score(rev, snap)

	if fwd.Passed != back.Passed || fwd.Total != back.Total || fwd.Confidence != back.Confidence {
		t.Fatalf("order changed the outcome: %d/%d %.3f vs %d/%d %.3f",
			fwd.Passed, fwd.Total, fwd.Confidence, back.Passed, back.Total, back.Confidence)
	}
}

func TestScoreDiagnosticsAlwaysPopulated(t *testing.T) {
	tier := eightCriterionTier()
	snap := baseSnapshot()
	snap.VolumeRatio = 0 // fails volume criteria, gate will reject
	ts := Score(tier, snap)
	if len(ts.Results) != len(tier.Criteria) {
		t.Fatalf("expected %d per-criterion results, got %d", len(tier.Criteria), len(ts.Results))
	}
	for i, res := range ts.Results {
		if res.ID != tier.Criteria[i] {
			t.Fatalf("result %d is %s, want %s", i, res.ID, tier.Criteria[i])
		}
	}
}

func TestScoreRatioConfidence(t *testing.T) {
	tier := eightCriterionTier()
	ts := Score(tier, baseSnapshot())
	want := float64(ts.Passed) / float64(ts.Total)
	if ts.Confidence != want {
		t.Fatalf("confidence %v, want passed/total %v", ts.Confidence, want)
	}
}

func TestScoreWeightedConfidence(t *testing.T) {
	tier := TierConfig{
		ID:                "weighted",
		Criteria:          []string{"volume_surge", "volatility_floor"}, // weights 1.5 and 1
		RequiredPassCount: 1,
		Weighted:          true,
	}
	snap := baseSnapshot()
	snap.VolumeRatio = 0.2 // surge fails, floor passes
	ts := Score(tier, snap)
	if ts.Passed != 1 {
		t.Fatalf("expected exactly one pass, got %d", ts.Passed)
	}
	want := 1.0 / 2.5
	if diff := ts.Confidence - want; diff > 1e-12 || diff < -1e-12 {
		t.Fatalf("weighted confidence %v, want %v", ts.Confidence, want)
	}
}
