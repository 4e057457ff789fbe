package engine

import (
	"math"

	"TradePulse/internal/domain/models"
)

// OrderLevels is the risk-managed order construction for a confirmed
// direction: entry, stop, take-profit ladder, and a position size consistent
// with the fixed fractional-risk budget.
type OrderLevels struct {
	Direction    models.Direction
	Entry        float64
	StopLoss     float64
	StopDistance float64
	TakeProfits  []models.TakeProfitLevel
	PositionSize float64
	RiskAmount   float64
}

// BuildOrder derives price levels and size for a confirmed direction.
//
//	stop_distance = price * volatility * atr_multiplier / sqrt(period_scaling)
//	position_size = capital * risk_fraction / stop_distance
//
// The stop sits opposite the direction at stop distance; each take-profit sits
// in the direction of the trade at stop_distance * tp_multiplier[i]. All risk
// inputs are validated before any level is computed, and a bad input aborts
// with ErrInvalidRiskInput; no default is ever substituted, since a silent
// fallback would corrupt position sizing. Reward:risk per level is reported
// for transparency and never vetoes emission.
func BuildOrder(direction models.Direction, price float64, volatility float64, periodScaling float64, p RiskParameters) (OrderLevels, error) {
	var out OrderLevels

	if direction != models.DirectionLong && direction != models.DirectionShort {
		return out, invalidRiskInput("direction must be long or short, got %q", direction)
	}
	if price <= 0 {
		return out, invalidRiskInput("price must be positive, got %v", price)
	}
	if volatility <= 0 {
		return out, invalidRiskInput("volatility must be positive, got %v", volatility)
	}
	if p.Capital <= 0 {
		return out, invalidRiskInput("capital must be positive, got %v", p.Capital)
	}
	if p.RiskFraction <= 0 || p.RiskFraction >= 1 {
		return out, invalidRiskInput("risk fraction must be in (0,1), got %v", p.RiskFraction)
	}
	if p.ATRMultiplier <= 0 {
		return out, invalidRiskInput("atr multiplier must be positive, got %v", p.ATRMultiplier)
	}
	if periodScaling <= 0 {
		return out, invalidRiskInput("period scaling must be positive, got %v", periodScaling)
	}
	if err := validateTPLadder(p.TPMultipliers); err != nil {
		return out, err
	}

	stopDistance := price * volatility * p.ATRMultiplier / math.Sqrt(periodScaling)

	sign := 1.0
	if direction == models.DirectionShort {
		sign = -1.0
	}

	out.Direction = direction
	out.Entry = price
	out.StopDistance = stopDistance
	out.StopLoss = price - sign*stopDistance
	out.RiskAmount = p.Capital * p.RiskFraction
	out.PositionSize = out.RiskAmount / stopDistance

	out.TakeProfits = make([]models.TakeProfitLevel, 0, len(p.TPMultipliers))
	for _, mult := range p.TPMultipliers {
		tpDistance := stopDistance * mult
		out.TakeProfits = append(out.TakeProfits, models.TakeProfitLevel{
			Price:           price + sign*tpDistance,
			RewardRisk:      mult,
			PotentialProfit: out.PositionSize * tpDistance,
		})
	}
	return out, nil
}

// validateTPLadder rejects empty, non-positive, or non-increasing take-profit
// multiplier ladders before any price level is computed.
func validateTPLadder(mults []float64) error {
	if len(mults) == 0 {
		return invalidRiskInput("tp multipliers must not be empty")
	}
	prev := 0.0
	for i, m := range mults {
		if m <= prev {
			return invalidRiskInput("tp multipliers must be positive and strictly increasing, got %v at index %d", m, i)
		}
		prev = m
	}
	return nil
}
