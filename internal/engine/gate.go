package engine

// GateDecision reports whether a tier's checklist outcome clears the emission
// gate. Both thresholds are independent; when rejecting, both are reported
// with their shortfalls so callers can render "N/M criteria passed"
// diagnostics.
type GateDecision struct {
	Passed bool

	RequiredPassCount int
	MinConfidence     float64

	PassShortfall       int     // required - passed, 0 when met
	ConfidenceShortfall float64 // min - confidence, 0 when met
}

// Gate decides pass/fail for a scored tier. It passes iff the passed count
// meets the tier's required count AND confidence meets the tier's minimum.
// It is monotonic in the passed count: raising passed_count under the same
// config (with confidence held above threshold) never flips pass to fail.
func Gate(tier TierConfig, score TierScore) GateDecision {
	d := GateDecision{
		RequiredPassCount: tier.RequiredPassCount,
		MinConfidence:     tier.MinConfidence,
	}
	if short := tier.RequiredPassCount - score.Passed; short > 0 {
		d.PassShortfall = short
	}
	if short := tier.MinConfidence - score.Confidence; short > 0 {
		d.ConfidenceShortfall = short
	}
	d.Passed = d.PassShortfall == 0 && d.ConfidenceShortfall == 0
	return d
}
