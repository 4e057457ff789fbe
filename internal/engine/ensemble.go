package engine

import (
	"math"

	"TradePulse/internal/domain/models"
)

// Fair-value model constants. These shape the algebraic sub-model only; the
// gating thresholds and weights live in configuration.
const (
	sentimentTilt  = 0.04 // max fractional tilt of fair value at full sentiment extremity
	refRateDrag    = 0.5  // fraction of the reference rate subtracted from fair value
	projectionGain = 10   // slope of the saturating map from projected move to [-1,1]
	driftScale     = 0.5  // annualized drift at full sentiment extremity
)

// EnsembleResult combines the three sub-model opinions into a signed signal
// weight in [-1,1] and a resolved direction.
type EnsembleResult struct {
	SignalWeight float64
	Direction    models.Direction
	ProbUp       float64 // probabilistic model's secondary confidence, not a gate
	Opinions     []models.ModelOpinion
}

// CombineOpinions evaluates the algebraic, probabilistic, and closed-form
// projection sub-models on the same snapshot and combines their directional
// votes under the tier's weight profile:
//
//	signal_weight = w1*algebraic + w2*probabilistic + w3*projection
//
// with each sub-model contributing its direction as +1/-1 (0 if flat) and
// weights normalized to sum to 1. Direction resolves long above +threshold,
// short below -threshold, hold otherwise. The threshold is tier-independent
// configuration, never a code branch constant.
func CombineOpinions(w EnsembleWeights, threshold, horizonDays float64, s models.MarketSnapshot) EnsembleResult {
	alg := algebraicOpinion(s)
	prob, probUp := probabilisticOpinion(s, horizonDays)
	proj := projectionOpinion(s, horizonDays)

	total := w.Algebraic + w.Probabilistic + w.Projection
	if total <= 0 {
		total = 1
	}
	alg.Weight = w.Algebraic / total
	prob.Weight = w.Probabilistic / total
	proj.Weight = w.Projection / total

	sw := alg.Weight*directionSign(alg.Direction) +
		prob.Weight*directionSign(prob.Direction) +
		proj.Weight*directionSign(proj.Direction)

	dir := models.DirectionHold
	switch {
	case sw > threshold:
		dir = models.DirectionLong
	case sw < -threshold:
		dir = models.DirectionShort
	}

	return EnsembleResult{
		SignalWeight: sw,
		Direction:    dir,
		ProbUp:       probUp,
		Opinions:     []models.ModelOpinion{alg, prob, proj},
	}
}

// algebraicOpinion compares a linear fair value against the current price.
// The relative deviation is passed through a tanh saturated by the volatility
// estimate, so large volatility compresses rather than inflates the vote.
func algebraicOpinion(s models.MarketSnapshot) models.ModelOpinion {
	op := models.ModelOpinion{Model: "algebraic", Direction: models.DirectionHold}
	if s.Price <= 0 {
		return op
	}
	dev := (fairValue(s) - s.Price) / s.Price
	op.Value = math.Tanh(dev / (0.01 + s.Volatility))
	op.Direction = signDirection(dev)
	return op
}

// fairValue is a linear combination of macro inputs: the recent range
// midpoint, tilted by sentiment and dragged by the reference rate when one is
// supplied.
func fairValue(s models.MarketSnapshot) float64 {
	mid := (s.RecentHigh + s.RecentLow) / 2
	tilt := sentimentTilt * (2*s.Sentiment - 1)
	drag := 0.0
	if s.ReferenceRate != nil {
		drag = refRateDrag * *s.ReferenceRate
	}
	return mid * (1 + tilt - drag)
}

// probabilisticOpinion derives an expected short-horizon drift mu from
// sentiment and a volatility-scaled dispersion sigma. Direction is the sign
// of mu; the approximate probability of an up move is reported as secondary
// confidence only.
func probabilisticOpinion(s models.MarketSnapshot, horizonDays float64) (models.ModelOpinion, float64) {
	op := models.ModelOpinion{Model: "probabilistic", Direction: models.DirectionHold}

	h := horizonDays / 365.0
	mu := driftScale * (2*s.Sentiment - 1) * h
	sigma := s.Volatility * math.Sqrt(h)

	probUp := 0.5
	if sigma > 0 {
		probUp = 0.5 * (1 + math.Erf(mu/(sigma*math.Sqrt2)))
	} else if mu != 0 {
		probUp = boolScore(mu > 0)
	}

	op.Value = 2*probUp - 1
	op.Direction = signDirection(mu)
	return op, probUp
}

// projectionOpinion is the closed-form horizon projection: the lognormal
// expectation of the price after the configured horizon. It is deterministic
// and reproducible bit-for-bit; no random sampling is involved.
func projectionOpinion(s models.MarketSnapshot, horizonDays float64) models.ModelOpinion {
	op := models.ModelOpinion{Model: "projection", Direction: models.DirectionHold}
	if s.Price <= 0 {
		return op
	}

	h := horizonDays / 365.0
	mu := driftScale * (2*s.Sentiment - 1) * h
	sigma := s.Volatility * math.Sqrt(h)
	projected := s.Price * math.Exp(mu+0.5*sigma*sigma)

	move := (projected - s.Price) / s.Price
	op.Value = math.Tanh(projectionGain * move)
	op.Direction = signDirection(projected - s.Price)
	return op
}

func signDirection(v float64) models.Direction {
	switch {
	case v > 0:
		return models.DirectionLong
	case v < 0:
		return models.DirectionShort
	default:
		return models.DirectionHold
	}
}

func directionSign(d models.Direction) float64 {
	switch d {
	case models.DirectionLong:
		return 1
	case models.DirectionShort:
		return -1
	default:
		return 0
	}
}
