package engine

import (
	"os"
	"path/filepath"
	"testing"
)

const tierYAML = `
risk:
  capital: 100000
  tp_multipliers: [1, 2, 3]
tiers:
  - id: scout
    criteria: [range_wellformed, trend_confirmed, volume_baseline]
    required_pass_count: 2
    min_confidence: 0.5
  - id: prime
    criteria: [range_wellformed, trend_confirmed, volume_baseline, volume_surge]
    required_pass_count: 4
    min_confidence: 0.9
    weighted: true
`

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeTempConfig(t, tierYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DirectionThreshold != 0.2 {
		t.Fatalf("direction threshold %v, want default 0.2", cfg.DirectionThreshold)
	}
	if cfg.PeriodScaling != 365 {
		t.Fatalf("period scaling %v, want default 365", cfg.PeriodScaling)
	}
	if cfg.Risk.RiskFraction != 0.01 {
		t.Fatalf("risk fraction %v, want default 0.01", cfg.Risk.RiskFraction)
	}
	scout, err := cfg.Tier("scout")
	if err != nil {
		t.Fatalf("tier lookup: %v", err)
	}
	if scout.Weights.Probabilistic != 0.4 {
		t.Fatalf("probabilistic weight %v, want default 0.4", scout.Weights.Probabilistic)
	}
	if scout.TargetRR != 1.5 {
		t.Fatalf("target rr %v, want default 1.5", scout.TargetRR)
	}
}

func TestLoadConfigRejectsInconsistency(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"duplicate tier id", `
risk:
  capital: 1000
  tp_multipliers: [1, 2]
tiers:
  - id: scout
    criteria: [range_wellformed]
    required_pass_count: 1
  - id: scout
    criteria: [range_wellformed]
    required_pass_count: 1
`},
		{"required exceeds criteria", `
risk:
  capital: 1000
  tp_multipliers: [1, 2]
tiers:
  - id: scout
    criteria: [range_wellformed]
    required_pass_count: 3
`},
		{"unknown criterion", `
risk:
  capital: 1000
  tp_multipliers: [1, 2]
tiers:
  - id: scout
    criteria: [moon_phase]
    required_pass_count: 1
`},
		{"decreasing tp ladder", `
risk:
  capital: 1000
  tp_multipliers: [2.5, 1.2]
tiers:
  - id: scout
    criteria: [range_wellformed]
    required_pass_count: 1
`},
		{"no tiers", `
risk:
  capital: 1000
  tp_multipliers: [1]
tiers: []
`},
	}
	for _, tc := range cases {
		if _, err := LoadConfig(writeTempConfig(t, tc.body)); err == nil {
			t.Fatalf("%s: expected a validation error", tc.name)
		}
	}
}

func TestTierUnknown(t *testing.T) {
	cfg, err := LoadConfig(writeTempConfig(t, tierYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := cfg.Tier("whale"); err == nil {
		t.Fatal("expected an unknown tier error")
	}
}
