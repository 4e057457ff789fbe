package models

import "time"

// MarketSnapshot is an immutable view of market conditions for one symbol at
// evaluation time. It is produced by the feed/features collaborators (or posted
// through the API) and consumed read-only by the scoring engine; the engine
// never fetches or caches market data itself.
type MarketSnapshot struct {
	Symbol      string    `json:"symbol"`
	Timestamp   time.Time `json:"timestamp"`
	Price       float64   `json:"price"`
	RecentHigh  float64   `json:"recent_high"`
	RecentLow   float64   `json:"recent_low"`
	Volatility  float64   `json:"volatility"`   // annualized sigma estimate
	Sentiment   float64   `json:"sentiment"`    // [0,1], 0.5 is neutral
	VolumeRatio float64   `json:"volume_ratio"` // current volume vs baseline

	// Optional auxiliary inputs; nil when the producer has no value.
	// Criteria that need a missing field fail with reason "missing_input".
	FundingRate   *float64 `json:"funding_rate,omitempty"`
	Dominance     *float64 `json:"dominance,omitempty"`
	PeerSignal    *float64 `json:"peer_signal,omitempty"`    // correlated-asset bias in [-1,1]
	ReferenceRate *float64 `json:"reference_rate,omitempty"` // macro rate input to the fair-value model
}

// Tick is a single trade event from a market stream.
type Tick struct {
	Symbol    string
	Timestamp time.Time
	Price     float64
	Volume    float64
}
