package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidRiskInput marks risk-construction failures: non-positive
// volatility, capital or risk fraction, or a non-monotonic take-profit ladder.
// It aborts order building after a direction has been confirmed; no partial
// envelope is produced and no default value is ever substituted.
var ErrInvalidRiskInput = errors.New("invalid risk input")

func invalidRiskInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidRiskInput, fmt.Sprintf(format, args...))
}

// ErrUnknownTier is returned when a caller names a tier that is not configured.
var ErrUnknownTier = errors.New("unknown tier")

// ErrUnknownCriterion is returned when a tier config references a criterion id
// that is not registered.
var ErrUnknownCriterion = errors.New("unknown criterion")
