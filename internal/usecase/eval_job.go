package usecase

import (
	"context"
	"fmt"
	"time"

	"TradePulse/pkg/queue"
)

// EvalMessageType is the queue message type for deferred tier evaluations.
const EvalMessageType = "evaluate_symbol"

// EvalPayload asks for an evaluation of one symbol. TierID empty means all tiers.
type EvalPayload struct {
	Symbol string `json:"symbol"`
	TierID string `json:"tier_id,omitempty"`
}

// EvalJob consumes queued evaluation requests against the latest cached
// snapshot of the symbol.
type EvalJob struct {
	evaluator *SignalEvaluator
	timeout   time.Duration
}

var _ queue.Job = (*EvalJob)(nil)

func NewEvalJob(evaluator *SignalEvaluator, timeout time.Duration) *EvalJob {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &EvalJob{evaluator: evaluator, timeout: timeout}
}

func (j *EvalJob) Name() string { return "signal-evaluation" }

func (j *EvalJob) Type() string { return EvalMessageType }

func (j *EvalJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[EvalPayload](payload)
	if err != nil {
		return fmt.Errorf("parse eval payload: %w", err)
	}
	if p.Symbol == "" {
		return fmt.Errorf("eval payload missing symbol")
	}

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	if _, err := j.evaluator.EvaluateSymbol(ctx, p.Symbol, p.TierID); err != nil {
		return fmt.Errorf("evaluate %s: %w", p.Symbol, err)
	}
	return nil
}
