package engine

import (
	"math"

	"TradePulse/internal/domain/models"
)

// Criterion is a named, pure predicate over a MarketSnapshot. Evaluating the
// same snapshot twice yields the same result; criteria hold no state. Each
// criterion also produces a graded score in [0,1] so the scorer can report
// partial credit when the binary pass fails.
type Criterion struct {
	ID     string
	Weight float64 // contribution weight for the weighted confidence variant
	eval   func(s models.MarketSnapshot) (score float64, pass bool, missing bool)
}

// Evaluate runs one criterion against a snapshot. A criterion that cannot be
// evaluated because a required snapshot field is absent fails with reason
// "missing_input" rather than "condition_not_met"; it never returns an error.
func (c Criterion) Evaluate(s models.MarketSnapshot) models.CriterionResult {
	score, pass, missing := c.eval(s)
	res := models.CriterionResult{ID: c.ID, Weight: c.Weight, Score: clamp01(score)}
	switch {
	case missing:
		res.Reason = models.ReasonMissingInput
		res.Score = 0
	case !pass:
		res.Reason = models.ReasonConditionNotMet
	default:
		res.Passed = true
	}
	return res
}

// defaultRegistry holds every criterion the tier ladder can reference.
var defaultRegistry = buildRegistry()

// LookupCriterion returns a registered criterion by id.
func LookupCriterion(id string) (Criterion, bool) {
	c, ok := defaultRegistry[id]
	return c, ok
}

// CriterionIDs lists all registered criterion ids.
func CriterionIDs() []string {
	ids := make([]string, 0, len(defaultRegistry))
	for id := range defaultRegistry {
		ids = append(ids, id)
	}
	return ids
}

func buildRegistry() map[string]Criterion {
	cs := []Criterion{
		{ID: "range_wellformed", Weight: 1, eval: func(s models.MarketSnapshot) (float64, bool, bool) {
			ok := s.Price > 0 && s.RecentLow > 0 && s.RecentHigh > s.RecentLow
			return boolScore(ok), ok, false
		}},
		{ID: "trend_confirmed", Weight: 1, eval: func(s models.MarketSnapshot) (float64, bool, bool) {
			pos, ok := rangePosition(s)
			if !ok {
				return 0, false, false
			}
			return pos, pos >= 0.5, false
		}},
		{ID: "breakout_proximity", Weight: 1.5, eval: func(s models.MarketSnapshot) (float64, bool, bool) {
			if s.RecentHigh <= 0 || s.Price <= 0 {
				return 0, false, false
			}
			gap := (s.RecentHigh - s.Price) / s.RecentHigh
			if gap < 0 {
				gap = 0
			}
			return clamp01(1 - gap/0.03), gap <= 0.03, false
		}},
		{ID: "not_overextended", Weight: 1, eval: func(s models.MarketSnapshot) (float64, bool, bool) {
			pos, ok := rangePosition(s)
			if !ok {
				return 0, false, false
			}
			return clamp01((1 - pos) / 0.05), pos <= 0.95, false
		}},
		{ID: "pullback_contained", Weight: 1, eval: func(s models.MarketSnapshot) (float64, bool, bool) {
			if s.RecentHigh <= 0 || s.Price <= 0 {
				return 0, false, false
			}
			dd := (s.RecentHigh - s.Price) / s.RecentHigh
			if dd < 0 {
				dd = 0
			}
			return clamp01(1 - dd/0.08), dd <= 0.08, false
		}},
		{ID: "upside_room", Weight: 1, eval: func(s models.MarketSnapshot) (float64, bool, bool) {
			if s.RecentLow <= 0 || s.RecentHigh <= s.RecentLow {
				return 0, false, false
			}
			width := (s.RecentHigh - s.RecentLow) / s.RecentLow
			return clamp01(width / 0.05), width >= 0.02, false
		}},
		{ID: "volume_baseline", Weight: 1, eval: func(s models.MarketSnapshot) (float64, bool, bool) {
			return clamp01(s.VolumeRatio), s.VolumeRatio >= 1.0, false
		}},
		{ID: "volume_surge", Weight: 1.5, eval: func(s models.MarketSnapshot) (float64, bool, bool) {
			return clamp01(s.VolumeRatio / 2), s.VolumeRatio >= 1.5, false
		}},
		{ID: "volatility_floor", Weight: 1, eval: func(s models.MarketSnapshot) (float64, bool, bool) {
			return clamp01(s.Volatility / 0.015), s.Volatility >= 0.015, false
		}},
		{ID: "volatility_ceiling", Weight: 1, eval: func(s models.MarketSnapshot) (float64, bool, bool) {
			if s.Volatility <= 0 {
				return 0, false, false
			}
			return clamp01(1 - s.Volatility/0.24), s.Volatility <= 0.12, false
		}},
		{ID: "sentiment_bullish", Weight: 1, eval: func(s models.MarketSnapshot) (float64, bool, bool) {
			return clamp01(s.Sentiment), s.Sentiment >= 0.55, false
		}},
		{ID: "sentiment_extreme", Weight: 1.5, eval: func(s models.MarketSnapshot) (float64, bool, bool) {
			ext := math.Abs(2*s.Sentiment - 1)
			return clamp01(ext), ext >= 0.6, false
		}},
		{ID: "sentiment_not_euphoric", Weight: 1, eval: func(s models.MarketSnapshot) (float64, bool, bool) {
			return clamp01((1 - s.Sentiment) / 0.08), s.Sentiment <= 0.92, false
		}},
		{ID: "funding_favorable", Weight: 1, eval: func(s models.MarketSnapshot) (float64, bool, bool) {
			if s.FundingRate == nil {
				return 0, false, true
			}
			f := *s.FundingRate
			return clamp01(0.5 - f/0.02), f <= 0, false
		}},
		{ID: "funding_not_crowded", Weight: 1, eval: func(s models.MarketSnapshot) (float64, bool, bool) {
			if s.FundingRate == nil {
				return 0, false, true
			}
			m := math.Abs(*s.FundingRate)
			return clamp01(1 - m/0.02), m <= 0.01, false
		}},
		{ID: "dominance_stable", Weight: 1, eval: func(s models.MarketSnapshot) (float64, bool, bool) {
			if s.Dominance == nil {
				return 0, false, true
			}
			d := *s.Dominance
			dist := math.Abs(d - 0.5)
			return clamp01(1 - dist/0.3), d >= 0.35 && d <= 0.65, false
		}},
		{ID: "peer_aligned", Weight: 1, eval: func(s models.MarketSnapshot) (float64, bool, bool) {
			if s.PeerSignal == nil {
				return 0, false, true
			}
			p := *s.PeerSignal
			return clamp01((p + 1) / 2), p > 0, false
		}},
		{ID: "peer_strong", Weight: 1, eval: func(s models.MarketSnapshot) (float64, bool, bool) {
			if s.PeerSignal == nil {
				return 0, false, true
			}
			p := *s.PeerSignal
			return clamp01(p), p >= 0.5, false
		}},
		{ID: "fair_value_discount", Weight: 2, eval: func(s models.MarketSnapshot) (float64, bool, bool) {
			if s.ReferenceRate == nil {
				return 0, false, true
			}
			if s.Price <= 0 {
				return 0, false, false
			}
			dev := (fairValue(s) - s.Price) / s.Price
			return clamp01(dev/0.02 + 0.5), dev > 0, false
		}},
		{ID: "risk_reward_viable", Weight: 1, eval: func(s models.MarketSnapshot) (float64, bool, bool) {
			up := s.RecentHigh - s.Price
			down := s.Price - s.RecentLow
			if down <= 0 || up < 0 {
				return 0, false, false
			}
			rr := up / down
			return clamp01(rr / 2), rr >= 1, false
		}},
	}

	m := make(map[string]Criterion, len(cs))
	for _, c := range cs {
		m[c.ID] = c
	}
	return m
}

// rangePosition places the price inside the recent range, 0 at the low and 1
// at the high. ok=false when the range is degenerate.
func rangePosition(s models.MarketSnapshot) (float64, bool) {
	if s.RecentHigh <= s.RecentLow {
		return 0, false
	}
	return clamp01((s.Price - s.RecentLow) / (s.RecentHigh - s.RecentLow)), true
}

func boolScore(ok bool) float64 {
	if ok {
		return 1
	}
	return 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
