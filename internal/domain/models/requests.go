package models

// Requests for the engine HTTP endpoints. Defined in domain for consistency and reuse.

// EvaluateRequest carries a snapshot to score against one or all tiers.
type EvaluateRequest struct {
	Symbol      string  `json:"symbol" validate:"required"`
	Tier        string  `json:"tier"` // empty evaluates every configured tier
	Price       float64 `json:"price" validate:"gt=0"`
	RecentHigh  float64 `json:"recent_high" validate:"gt=0"`
	RecentLow   float64 `json:"recent_low" validate:"gt=0"`
	Volatility  float64 `json:"volatility" validate:"gte=0"`
	Sentiment   float64 `json:"sentiment" default:"0.5" validate:"gte=0,lte=1"`
	VolumeRatio float64 `json:"volume_ratio" default:"1" validate:"gte=0"`

	FundingRate   *float64 `json:"funding_rate,omitempty"`
	Dominance     *float64 `json:"dominance,omitempty" validate:"omitempty,gte=0,lte=1"`
	PeerSignal    *float64 `json:"peer_signal,omitempty" validate:"omitempty,gte=-1,lte=1"`
	ReferenceRate *float64 `json:"reference_rate,omitempty"`
}

// SignalsRequest queries stored evaluation results.
type SignalsRequest struct {
	Symbol      string `query:"symbol" json:"symbol" validate:"required"`
	From        string `query:"from" json:"from"`
	To          string `query:"to" json:"to"`
	Limit       int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=5000"`
	EmittedOnly bool   `query:"emitted_only" json:"emitted_only"`
}

// Snapshot converts the request body into the immutable engine input.
func (r *EvaluateRequest) Snapshot() MarketSnapshot {
	return MarketSnapshot{
		Symbol:        r.Symbol,
		Price:         r.Price,
		RecentHigh:    r.RecentHigh,
		RecentLow:     r.RecentLow,
		Volatility:    r.Volatility,
		Sentiment:     r.Sentiment,
		VolumeRatio:   r.VolumeRatio,
		FundingRate:   r.FundingRate,
		Dominance:     r.Dominance,
		PeerSignal:    r.PeerSignal,
		ReferenceRate: r.ReferenceRate,
	}
}
