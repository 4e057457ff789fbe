package engine

import "TradePulse/internal/domain/models"

// TierScore is the outcome of running a tier's full checklist. Results are
// always fully populated, pass or fail, so rejected evaluations can report
// per-criterion diagnostics.
type TierScore struct {
	TierID     string
	Passed     int
	Total      int
	Confidence float64
	Results    []models.CriterionResult
}

// Score runs every criterion in the tier's ordered list against the snapshot.
// Evaluation order does not affect the result: there is no short-circuiting,
// and criteria are pure, so repeated calls with the same inputs are identical.
// Confidence is passed/total, or the weight share of passing criteria when the
// tier selects the weighted variant; either way it is normalized to [0,1].
func Score(tier TierConfig, snap models.MarketSnapshot) TierScore {
	ts := TierScore{
		TierID:  tier.ID,
		Total:   len(tier.Criteria),
		Results: make([]models.CriterionResult, 0, len(tier.Criteria)),
	}

	var weightSum, weightPassed float64
	for _, id := range tier.Criteria {
		c, ok := defaultRegistry[id]
		if !ok {
			// Unknown ids are rejected at config load; an unregistered id at
			// runtime counts as a failed criterion with a missing_input reason.
			ts.Results = append(ts.Results, models.CriterionResult{
				ID:     id,
				Reason: models.ReasonMissingInput,
			})
			weightSum++
			continue
		}
		res := c.Evaluate(snap)
		ts.Results = append(ts.Results, res)
		weightSum += c.Weight
		if res.Passed {
			ts.Passed++
			weightPassed += c.Weight
		}
	}

	if ts.Total > 0 {
		if tier.Weighted && weightSum > 0 {
			ts.Confidence = weightPassed / weightSum
		} else {
			ts.Confidence = float64(ts.Passed) / float64(ts.Total)
		}
	}
	return ts
}
