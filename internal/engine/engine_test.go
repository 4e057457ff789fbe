package engine

import (
	"errors"
	"testing"
	"time"

	"TradePulse/internal/domain/models"
)

func testConfig(tier TierConfig) *Config {
	return &Config{
		DirectionThreshold: 0.2,
		PeriodScaling:      365,
		HorizonDays:        3,
		Risk: RiskParameters{
			Capital:       100000,
			RiskFraction:  0.01,
			ATRMultiplier: 2,
			TPMultipliers: []float64{1, 2, 3},
		},
		Tiers: []TierConfig{tier},
	}
}

func TestEvaluateGateRejectionKeepsDiagnostics(t *testing.T) {
	eng := New(testConfig(eightCriterionTier()))
	snap := models.MarketSnapshot{
		Symbol:      "BTCUSDT",
		Timestamp:   time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Price:       87670,
		RecentHigh:  90500,
		RecentLow:   86000,
		Volatility:  0.042,
		Sentiment:   0.58,
		VolumeRatio: 1.1,
	}
	env, err := eng.EvaluateTier("scout", snap)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if env.Emitted {
		t.Fatal("five of eight criteria must not clear an eight-pass gate")
	}
	if env.NoSignalCause != models.NoSignalGateRejected {
		t.Fatalf("cause %q, want %q", env.NoSignalCause, models.NoSignalGateRejected)
	}
	if env.Passed != 5 || env.Total != 8 {
		t.Fatalf("passed/total = %d/%d, want 5/8", env.Passed, env.Total)
	}
	if len(env.Criteria) != 8 {
		t.Fatalf("criteria results %d, want 8", len(env.Criteria))
	}
	if !env.Timestamp.Equal(snap.Timestamp) {
		t.Fatalf("timestamp %v, want snapshot time %v", env.Timestamp, snap.Timestamp)
	}
}

func TestEvaluateEmitsFullEnvelope(t *testing.T) {
	tier := eightCriterionTier()
	tier.RequiredPassCount = 3
	tier.MinConfidence = 0.4
	eng := New(testConfig(tier))

	env, err := eng.EvaluateTier("scout", baseSnapshot())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !env.Emitted {
		t.Fatalf("expected an emitted signal, got cause %q", env.NoSignalCause)
	}
	if env.Direction != models.DirectionLong {
		t.Fatalf("direction %s, want long", env.Direction)
	}
	if env.Entry != baseSnapshot().Price {
		t.Fatalf("entry %v, want snapshot price %v", env.Entry, baseSnapshot().Price)
	}
	if env.StopLoss >= env.Entry {
		t.Fatalf("long stop %v must sit below entry %v", env.StopLoss, env.Entry)
	}
	if len(env.TakeProfits) != 3 {
		t.Fatalf("take profits %d, want 3", len(env.TakeProfits))
	}
	if env.PositionSize <= 0 || env.RiskAmount <= 0 {
		t.Fatalf("position size %v / risk amount %v must be positive", env.PositionSize, env.RiskAmount)
	}
	if len(env.Opinions) != 3 {
		t.Fatalf("opinions %d, want 3", len(env.Opinions))
	}
	if env.Confidence <= 0 || env.Confidence > 1 {
		t.Fatalf("confidence %v out of (0,1]", env.Confidence)
	}
}

func TestEvaluateUnresolvedDirection(t *testing.T) {
	tier := eightCriterionTier()
	tier.RequiredPassCount = 3
	tier.MinConfidence = 0.4
	cfg := testConfig(tier)
	cfg.DirectionThreshold = 0.5
	eng := New(cfg)

	env, err := eng.EvaluateTier("scout", baseSnapshot())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if env.Emitted {
		t.Fatal("split ensemble under a 0.5 threshold must not emit")
	}
	if env.NoSignalCause != models.NoSignalDirectionUnresolved {
		t.Fatalf("cause %q, want %q", env.NoSignalCause, models.NoSignalDirectionUnresolved)
	}
	if env.SignalWeight == 0 {
		t.Fatal("signal weight diagnostic must survive a hold")
	}
}

func TestEvaluateRiskErrorYieldsNoEnvelope(t *testing.T) {
	tier := eightCriterionTier()
	tier.RequiredPassCount = 3
	tier.MinConfidence = 0.4
	cfg := testConfig(tier)
	cfg.Risk.TPMultipliers = []float64{2.5, 1.2}
	eng := New(cfg)

	env, err := eng.EvaluateTier("scout", baseSnapshot())
	if !errors.Is(err, ErrInvalidRiskInput) {
		t.Fatalf("err %v, want ErrInvalidRiskInput", err)
	}
	if env != nil {
		t.Fatal("a risk construction failure must not hand back a partial envelope")
	}
}

func TestEvaluateUnknownTier(t *testing.T) {
	eng := New(testConfig(eightCriterionTier()))
	if _, err := eng.EvaluateTier("whale", baseSnapshot()); !errors.Is(err, ErrUnknownTier) {
		t.Fatalf("err %v, want ErrUnknownTier", err)
	}
}

func TestEvaluateAllCoversEveryTier(t *testing.T) {
	relaxed := eightCriterionTier()
	relaxed.ID = "setup"
	relaxed.RequiredPassCount = 3
	relaxed.MinConfidence = 0.4
	cfg := testConfig(eightCriterionTier())
	cfg.Tiers = append(cfg.Tiers, relaxed)
	eng := New(cfg)

	envs, err := eng.EvaluateAll(baseSnapshot())
	if err != nil {
		t.Fatalf("evaluate all: %v", err)
	}
	if len(envs) != 2 {
		t.Fatalf("envelopes %d, want 2", len(envs))
	}
	byTier := map[string]*models.SignalEnvelope{}
	for _, env := range envs {
		byTier[env.TierID] = env
	}
	if byTier["scout"].Emitted {
		t.Fatal("strict tier must reject")
	}
	if !byTier["setup"].Emitted {
		t.Fatal("relaxed tier must emit")
	}
}
