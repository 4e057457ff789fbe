package engine

import "testing"

func TestGateRequiresBothThresholds(t *testing.T) {
	tier := TierConfig{ID: "g", RequiredPassCount: 6, MinConfidence: 0.8}

	d := Gate(tier, TierScore{Passed: 6, Total: 8, Confidence: 0.75})
	if d.Passed {
		t.Fatalf("expected rejection on confidence alone")
	}
	if d.PassShortfall != 0 {
		t.Fatalf("pass shortfall should be 0, got %d", d.PassShortfall)
	}
	if diff := d.ConfidenceShortfall - 0.05; diff > 1e-12 || diff < -1e-12 {
		t.Fatalf("confidence shortfall %v, want 0.05", d.ConfidenceShortfall)
	}

	d = Gate(tier, TierScore{Passed: 5, Total: 8, Confidence: 0.9})
	if d.Passed {
		t.Fatalf("expected rejection on count alone")
	}
	if d.PassShortfall != 1 {
		t.Fatalf("pass shortfall %d, want 1", d.PassShortfall)
	}

	d = Gate(tier, TierScore{Passed: 7, Total: 8, Confidence: 0.875})
	if !d.Passed {
		t.Fatalf("expected pass, got %+v", d)
	}
}

func TestGateMonotonicInPassedCount(t *testing.T) {
	tier := TierConfig{ID: "g", RequiredPassCount: 6, MinConfidence: 0.5}
	passedAt := -1
	for passed := 0; passed <= 10; passed++ {
		d := Gate(tier, TierScore{Passed: passed, Total: 10, Confidence: 0.9})
		if d.Passed && passedAt < 0 {
			passedAt = passed
		}
		if passedAt >= 0 && passed >= passedAt && !d.Passed {
			t.Fatalf("gate flipped back to fail at passed=%d after passing at %d", passed, passedAt)
		}
	}
	if passedAt != tier.RequiredPassCount {
		t.Fatalf("gate opened at %d, want %d", passedAt, tier.RequiredPassCount)
	}
}
