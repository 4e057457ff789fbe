package engine

import (
	"testing"

	"TradePulse/internal/domain/models"
)

func baseSnapshot() models.MarketSnapshot {
	return models.MarketSnapshot{
		Symbol:      "BTCUSDT",
		Price:       87670,
		RecentHigh:  88000,
		RecentLow:   86000,
		Volatility:  0.042,
		Sentiment:   0.58,
		VolumeRatio: 1.2,
	}
}

func TestCriterionDeterministic(t *testing.T) {
	snap := baseSnapshot()
	c, ok := LookupCriterion("trend_confirmed")
	if !ok {
		t.Fatalf("criterion not registered")
	}
	first := c.Evaluate(snap)
	second := c.Evaluate(snap)
	if first != second {
		t.Fatalf("same snapshot gave different results: %+v vs %+v", first, second)
	}
}

func TestCriterionMissingInputReason(t *testing.T) {
	snap := baseSnapshot() // no funding rate set
	c, ok := LookupCriterion("funding_favorable")
	if !ok {
		t.Fatalf("criterion not registered")
	}
	res := c.Evaluate(snap)
	if res.Passed {
		t.Fatalf("expected fail on absent input")
	}
	if res.Reason != models.ReasonMissingInput {
		t.Fatalf("expected reason %q, got %q", models.ReasonMissingInput, res.Reason)
	}

	f := -0.001
	snap.FundingRate = &f
	res = c.Evaluate(snap)
	if !res.Passed || res.Reason != "" {
		t.Fatalf("expected pass with funding present, got %+v", res)
	}
}

func TestCriterionConditionNotMetReason(t *testing.T) {
	snap := baseSnapshot()
	snap.VolumeRatio = 0.4
	c, _ := LookupCriterion("volume_surge")
	res := c.Evaluate(snap)
	if res.Passed {
		t.Fatalf("expected fail for low volume ratio")
	}
	if res.Reason != models.ReasonConditionNotMet {
		t.Fatalf("expected reason %q, got %q", models.ReasonConditionNotMet, res.Reason)
	}
	if res.Score <= 0 || res.Score >= 1 {
		t.Fatalf("expected partial credit in (0,1), got %v", res.Score)
	}
}

func TestGradedScoreBounds(t *testing.T) {
	snap := baseSnapshot()
	snap.VolumeRatio = 50 // far above any threshold
	for _, id := range CriterionIDs() {
		c, _ := LookupCriterion(id)
		res := c.Evaluate(snap)
		if res.Score < 0 || res.Score > 1 {
			t.Fatalf("criterion %s score out of [0,1]: %v", id, res.Score)
		}
	}
}
