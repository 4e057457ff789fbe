package models

import "time"

// Direction is the resolved trade direction of an evaluation.
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
	DirectionHold  Direction = "hold"
)

// Reason codes attached to per-criterion results.
const (
	ReasonConditionNotMet = "condition_not_met"
	ReasonMissingInput    = "missing_input"
)

// Reasons a tier evaluation ended without a signal.
const (
	NoSignalGateRejected        = "gate_rejected"
	NoSignalDirectionUnresolved = "direction_unresolved"
)

// CriterionResult records the outcome of one checklist criterion against a
// snapshot. Score carries partial credit in [0,1] even when the binary pass
// fails, so rejected evaluations still report full diagnostics.
type CriterionResult struct {
	ID     string  `json:"id"`
	Passed bool    `json:"passed"`
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
	Reason string  `json:"reason,omitempty"` // empty on pass
}

// ModelOpinion is one sub-model's directional vote.
type ModelOpinion struct {
	Model     string    `json:"model"`
	Direction Direction `json:"direction"`
	Value     float64   `json:"value"` // graded strength in [-1,1], diagnostic only
	Weight    float64   `json:"weight"`
}

// TakeProfitLevel is one rung of the take-profit ladder.
type TakeProfitLevel struct {
	Price           float64 `json:"price"`
	RewardRisk      float64 `json:"reward_risk"`
	PotentialProfit float64 `json:"potential_profit"`
}

// SignalEnvelope is the terminal, immutable result of one tier evaluation.
// Emitted=false marks the explicit no-signal outcome, which still carries the
// criteria diagnostics callers rely on ("N/M criteria passed").
type SignalEnvelope struct {
	Symbol        string            `json:"symbol"`
	TierID        string            `json:"tier_id"`
	Emitted       bool              `json:"emitted"`
	NoSignalCause string            `json:"no_signal_cause,omitempty"`
	Direction     Direction         `json:"direction"`
	Entry         float64           `json:"entry,omitempty"`
	StopLoss      float64           `json:"stop_loss,omitempty"`
	TakeProfits   []TakeProfitLevel `json:"take_profits,omitempty"`
	PositionSize  float64           `json:"position_size,omitempty"`
	RiskAmount    float64           `json:"risk_amount,omitempty"`
	Confidence    float64           `json:"confidence"`
	SignalWeight  float64           `json:"signal_weight"`
	Passed        int               `json:"criteria_passed"`
	Total         int               `json:"criteria_total"`
	Criteria      []CriterionResult `json:"criteria,omitempty"`
	Opinions      []ModelOpinion    `json:"opinions,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
}
