package engine

import (
	"errors"
	"math"
	"testing"

	"TradePulse/internal/domain/models"
)

func baseRisk() RiskParameters {
	return RiskParameters{
		Capital:       100000,
		RiskFraction:  0.01,
		ATRMultiplier: 2,
		TPMultipliers: []float64{1, 2, 3},
	}
}

func TestBuildOrderStopDistance(t *testing.T) {
	levels, err := BuildOrder(models.DirectionLong, 87670, 0.042, 365, baseRisk())
	if err != nil {
		t.Fatalf("build order: %v", err)
	}
	want := 87670 * 0.042 * 2 / math.Sqrt(365)
	if math.Abs(levels.StopDistance-want) > 1e-9 {
		t.Fatalf("stop distance %v, want %v", levels.StopDistance, want)
	}
	if got := math.Abs(levels.Entry - levels.StopLoss); math.Abs(got-levels.StopDistance) > 1e-9 {
		t.Fatalf("|entry-stop| = %v, want stop distance %v", got, levels.StopDistance)
	}
	if levels.StopLoss >= levels.Entry {
		t.Fatalf("long stop %v must sit below entry %v", levels.StopLoss, levels.Entry)
	}
}

func TestBuildOrderShortPlacement(t *testing.T) {
	levels, err := BuildOrder(models.DirectionShort, 87670, 0.042, 365, baseRisk())
	if err != nil {
		t.Fatalf("build order: %v", err)
	}
	if levels.StopLoss <= levels.Entry {
		t.Fatalf("short stop %v must sit above entry %v", levels.StopLoss, levels.Entry)
	}
	prev := levels.Entry
	for i, tp := range levels.TakeProfits {
		if tp.Price >= prev {
			t.Fatalf("tp %d price %v must descend below %v for a short", i, tp.Price, prev)
		}
		prev = tp.Price
	}
}

func TestBuildOrderRiskRoundTrip(t *testing.T) {
	p := baseRisk()
	levels, err := BuildOrder(models.DirectionLong, 87670, 0.042, 365, p)
	if err != nil {
		t.Fatalf("build order: %v", err)
	}
	got := levels.PositionSize * levels.StopDistance
	want := p.Capital * p.RiskFraction
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("size*stopDistance = %v, want capital*riskFraction = %v", got, want)
	}
	if math.Abs(levels.RiskAmount-want) > 1e-9 {
		t.Fatalf("risk amount %v, want %v", levels.RiskAmount, want)
	}
}

func TestBuildOrderLadderStrictlyIncreases(t *testing.T) {
	levels, err := BuildOrder(models.DirectionLong, 87670, 0.042, 365, baseRisk())
	if err != nil {
		t.Fatalf("build order: %v", err)
	}
	if len(levels.TakeProfits) != 3 {
		t.Fatalf("take profits %d, want 3", len(levels.TakeProfits))
	}
	prevDist := 0.0
	for i, tp := range levels.TakeProfits {
		dist := tp.Price - levels.Entry
		if dist <= prevDist {
			t.Fatalf("tp %d distance %v does not increase past %v", i, dist, prevDist)
		}
		if math.Abs(tp.RewardRisk-baseRisk().TPMultipliers[i]) > 1e-9 {
			t.Fatalf("tp %d reward/risk %v, want %v", i, tp.RewardRisk, baseRisk().TPMultipliers[i])
		}
		wantProfit := levels.PositionSize * dist
		if math.Abs(tp.PotentialProfit-wantProfit) > 1e-6 {
			t.Fatalf("tp %d potential profit %v, want %v", i, tp.PotentialProfit, wantProfit)
		}
		prevDist = dist
	}
}

func TestBuildOrderRejectsZeroVolatility(t *testing.T) {
	_, err := BuildOrder(models.DirectionLong, 87670, 0, 365, baseRisk())
	if !errors.Is(err, ErrInvalidRiskInput) {
		t.Fatalf("err %v, want ErrInvalidRiskInput", err)
	}
}

func TestBuildOrderRejectsBadLadder(t *testing.T) {
	p := baseRisk()
	p.TPMultipliers = []float64{2.5, 1.2}
	if _, err := BuildOrder(models.DirectionLong, 87670, 0.042, 365, p); !errors.Is(err, ErrInvalidRiskInput) {
		t.Fatalf("decreasing ladder: err %v, want ErrInvalidRiskInput", err)
	}
	p.TPMultipliers = nil
	if _, err := BuildOrder(models.DirectionLong, 87670, 0.042, 365, p); !errors.Is(err, ErrInvalidRiskInput) {
		t.Fatalf("empty ladder: err %v, want ErrInvalidRiskInput", err)
	}
}

func TestBuildOrderValidatesEverything(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RiskParameters) (models.Direction, float64, float64, float64)
	}{
		{"hold direction", func(p *RiskParameters) (models.Direction, float64, float64, float64) {
			return models.DirectionHold, 87670, 0.042, 365
		}},
		{"zero price", func(p *RiskParameters) (models.Direction, float64, float64, float64) {
			return models.DirectionLong, 0, 0.042, 365
		}},
		{"negative capital", func(p *RiskParameters) (models.Direction, float64, float64, float64) {
			p.Capital = -1
			return models.DirectionLong, 87670, 0.042, 365
		}},
		{"risk fraction one", func(p *RiskParameters) (models.Direction, float64, float64, float64) {
			p.RiskFraction = 1
			return models.DirectionLong, 87670, 0.042, 365
		}},
		{"zero atr multiplier", func(p *RiskParameters) (models.Direction, float64, float64, float64) {
			p.ATRMultiplier = 0
			return models.DirectionLong, 87670, 0.042, 365
		}},
		{"zero period scaling", func(p *RiskParameters) (models.Direction, float64, float64, float64) {
			return models.DirectionLong, 87670, 0.042, 0
		}},
	}
	for _, tc := range cases {
		p := baseRisk()
		dir, price, vol, scaling := tc.mutate(&p)
		if _, err := BuildOrder(dir, price, vol, scaling, p); !errors.Is(err, ErrInvalidRiskInput) {
			t.Fatalf("%s: err %v, want ErrInvalidRiskInput", tc.name, err)
		}
	}
}
