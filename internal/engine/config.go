package engine

import (
	"fmt"
	"os"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// EnsembleWeights is a tier's weight profile for the three sub-models.
// Weights are normalized before combination, so they only need to be positive.
type EnsembleWeights struct {
	Algebraic     float64 `yaml:"algebraic" default:"0.3" validate:"gte=0"`
	Probabilistic float64 `yaml:"probabilistic" default:"0.4" validate:"gte=0"`
	Projection    float64 `yaml:"projection" default:"0.3" validate:"gte=0"`
}

// TierConfig describes one rung of the strictness ladder: which criteria to
// run, how many must pass, and the minimum confidence. Higher tiers list a
// superset of a lower tier's criteria by convention; that is not enforced
// structurally.
type TierConfig struct {
	ID                string          `yaml:"id" validate:"required"`
	Criteria          []string        `yaml:"criteria" validate:"min=1"`
	RequiredPassCount int             `yaml:"required_pass_count" validate:"gte=1"`
	MinConfidence     float64         `yaml:"min_confidence" validate:"gte=0,lte=1"`
	TargetRR          float64         `yaml:"target_rr" default:"1.5" validate:"gt=0"`
	WinRateLow        float64         `yaml:"win_rate_low" default:"0.45" validate:"gte=0,lte=1"`
	WinRateHigh       float64         `yaml:"win_rate_high" default:"0.65" validate:"gte=0,lte=1"`
	Weighted          bool            `yaml:"weighted"` // weighted confidence variant
	Weights           EnsembleWeights `yaml:"weights"`
}

// RiskParameters size orders under a fixed fractional-risk budget.
type RiskParameters struct {
	Capital       float64   `yaml:"capital" validate:"required"`
	RiskFraction  float64   `yaml:"risk_fraction" default:"0.01"`
	ATRMultiplier float64   `yaml:"atr_multiplier" default:"2"`
	TPMultipliers []float64 `yaml:"tp_multipliers"`
}

// Config is the full engine configuration: tier ladder, risk budget, and the
// tier-independent ensemble constants. It is external versioned YAML, loaded
// at startup and passed to the engine explicitly; evaluators hold no embedded
// thresholds.
type Config struct {
	// DirectionThreshold gates long/short resolution on the combined signal
	// weight; below it in magnitude the ensemble holds.
	DirectionThreshold float64 `yaml:"direction_threshold" default:"0.2" validate:"gt=0,lt=1"`
	// PeriodScaling converts the annualized volatility estimate into a
	// per-period stop distance (sqrt-time rule).
	PeriodScaling float64 `yaml:"period_scaling" default:"365" validate:"gt=0"`
	// HorizonDays is the projection horizon of the probabilistic and
	// closed-form projection sub-models.
	HorizonDays float64 `yaml:"horizon_days" default:"3" validate:"gt=0"`

	Risk  RiskParameters `yaml:"risk"`
	Tiers []TierConfig   `yaml:"tiers" validate:"min=1,dive"`
}

// LoadConfig reads and validates the engine YAML.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read engine config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse engine config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("engine config defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate engine config: %w", err)
	}
	return &c, nil
}

// Validate checks structural consistency beyond the struct tags: criterion ids
// must be registered and per-tier counts must be satisfiable. TP ladder
// monotonicity is rechecked by the order builder, which fails fast before
// computing any level.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	seen := map[string]bool{}
	for i := range c.Tiers {
		t := &c.Tiers[i]
		if seen[t.ID] {
			return fmt.Errorf("duplicate tier id %q", t.ID)
		}
		seen[t.ID] = true
		if t.RequiredPassCount > len(t.Criteria) {
			return fmt.Errorf("tier %q: required_pass_count %d exceeds %d criteria",
				t.ID, t.RequiredPassCount, len(t.Criteria))
		}
		for _, id := range t.Criteria {
			if _, ok := defaultRegistry[id]; !ok {
				return fmt.Errorf("tier %q: %w: %s", t.ID, ErrUnknownCriterion, id)
			}
		}
		if t.Weights.Algebraic+t.Weights.Probabilistic+t.Weights.Projection <= 0 {
			return fmt.Errorf("tier %q: ensemble weights sum to zero", t.ID)
		}
	}
	if err := validateTPLadder(c.Risk.TPMultipliers); err != nil {
		return err
	}
	return nil
}

// Tier looks up a tier by id.
func (c *Config) Tier(id string) (TierConfig, error) {
	for _, t := range c.Tiers {
		if t.ID == id {
			return t, nil
		}
	}
	return TierConfig{}, fmt.Errorf("%w: %s", ErrUnknownTier, id)
}
