package engine

import (
	"TradePulse/internal/domain/models"
)

// Engine runs the full pipeline for one tier evaluation: checklist scoring,
// the tier gate, direction resolution, and order construction. It is purely
// functional per evaluation: no I/O, no shared mutable state, so independent
// evaluations may run concurrently without locking.
type Engine struct {
	cfg *Config
}

// New creates an engine bound to a loaded configuration.
func New(cfg *Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config exposes the active configuration (read-only by convention).
func (e *Engine) Config() *Config { return e.cfg }

// EvaluateTier scores a snapshot against the named tier.
func (e *Engine) EvaluateTier(tierID string, snap models.MarketSnapshot) (*models.SignalEnvelope, error) {
	tier, err := e.cfg.Tier(tierID)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(tier, snap)
}

// EvaluateAll scores a snapshot against every configured tier independently.
// There is no auto-escalation between tiers; each decision stands alone.
// A risk-construction failure on any tier aborts the whole evaluation.
func (e *Engine) EvaluateAll(snap models.MarketSnapshot) ([]*models.SignalEnvelope, error) {
	out := make([]*models.SignalEnvelope, 0, len(e.cfg.Tiers))
	for _, tier := range e.cfg.Tiers {
		env, err := e.Evaluate(tier, snap)
		if err != nil {
			return nil, err
		}
		out = append(out, env)
	}
	return out, nil
}

// Evaluate scores the snapshot against one tier config and, if the gate opens
// and the ensemble resolves a direction, constructs the risk-managed order
// levels. The no-signal outcomes (gate rejection, unresolved direction) are
// not errors: they return an envelope with Emitted=false and full criteria
// diagnostics. Only invalid risk inputs return an error, and then no envelope
// is produced at all.
func (e *Engine) Evaluate(tier TierConfig, snap models.MarketSnapshot) (*models.SignalEnvelope, error) {
	score := Score(tier, snap)

	env := &models.SignalEnvelope{
		Symbol:     snap.Symbol,
		TierID:     tier.ID,
		Direction:  models.DirectionHold,
		Confidence: score.Confidence,
		Passed:     score.Passed,
		Total:      score.Total,
		Criteria:   score.Results,
		Timestamp:  snap.Timestamp,
	}

	if gate := Gate(tier, score); !gate.Passed {
		env.NoSignalCause = models.NoSignalGateRejected
		return env, nil
	}

	ens := CombineOpinions(tier.Weights, e.cfg.DirectionThreshold, e.cfg.HorizonDays, snap)
	env.SignalWeight = ens.SignalWeight
	env.Opinions = ens.Opinions

	if ens.Direction == models.DirectionHold {
		env.NoSignalCause = models.NoSignalDirectionUnresolved
		return env, nil
	}

	levels, err := BuildOrder(ens.Direction, snap.Price, snap.Volatility, e.cfg.PeriodScaling, e.cfg.Risk)
	if err != nil {
		return nil, err
	}

	env.Emitted = true
	env.Direction = levels.Direction
	env.Entry = levels.Entry
	env.StopLoss = levels.StopLoss
	env.TakeProfits = levels.TakeProfits
	env.PositionSize = levels.PositionSize
	env.RiskAmount = levels.RiskAmount
	return env, nil
}
