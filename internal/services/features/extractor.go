package features

import (
	"math"
	"sync"
	"time"

	"TradePulse/internal/domain/models"
)

// window holds the rolling per-symbol tick state feeding snapshot assembly.
type window struct {
	prices    []float64
	volumes   []float64
	high      float64
	low       float64
	last      float64
	lastTime  time.Time
	sentiment float64
}

// Extractor turns a tick stream into market snapshots over a bounded rolling
// window per symbol. Volatility is realized volatility of tick log returns,
// annualized with secondsPerYear over the observed window span.
type Extractor struct {
	mu      sync.RWMutex
	windows map[string]*window
	size    int
}

const secondsPerYear = 365 * 24 * 60 * 60

func NewExtractor(windowSize int) *Extractor {
	if windowSize < 2 {
		windowSize = 120
	}
	return &Extractor{
		windows: make(map[string]*window),
		size:    windowSize,
	}
}

// Observe folds one tick into the symbol's rolling window.
func (e *Extractor) Observe(tick models.Tick) {
	e.mu.Lock()
	defer e.mu.Unlock()

	w, ok := e.windows[tick.Symbol]
	if !ok {
		w = &window{high: tick.Price, low: tick.Price, sentiment: 0.5}
		e.windows[tick.Symbol] = w
	}

	w.prices = append(w.prices, tick.Price)
	w.volumes = append(w.volumes, tick.Volume)
	if len(w.prices) > e.size {
		w.prices = w.prices[1:]
		w.volumes = w.volumes[1:]
		// recompute extremes over the retained window
		w.high, w.low = w.prices[0], w.prices[0]
		for _, p := range w.prices[1:] {
			if p > w.high {
				w.high = p
			}
			if p < w.low {
				w.low = p
			}
		}
	} else {
		if tick.Price > w.high {
			w.high = tick.Price
		}
		if tick.Price < w.low {
			w.low = tick.Price
		}
	}
	w.last = tick.Price
	w.lastTime = tick.Timestamp
}

// SetSentiment updates the symbol's sentiment reading from an external source.
func (e *Extractor) SetSentiment(symbol string, sentiment float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	w, ok := e.windows[symbol]
	if !ok {
		w = &window{sentiment: 0.5}
		e.windows[symbol] = w
	}
	if sentiment < 0 {
		sentiment = 0
	}
	if sentiment > 1 {
		sentiment = 1
	}
	w.sentiment = sentiment
}

// Snapshot assembles the current market snapshot for the symbol. It reports
// false until the window carries enough ticks for a volatility estimate.
func (e *Extractor) Snapshot(symbol string) (models.MarketSnapshot, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	w, ok := e.windows[symbol]
	if !ok || len(w.prices) < 2 {
		return models.MarketSnapshot{}, false
	}

	vol := realizedVolatility(w.prices)
	if vol <= 0 {
		return models.MarketSnapshot{}, false
	}

	return models.MarketSnapshot{
		Symbol:      symbol,
		Timestamp:   w.lastTime,
		Price:       w.last,
		RecentHigh:  w.high,
		RecentLow:   w.low,
		Volatility:  vol,
		Sentiment:   w.sentiment,
		VolumeRatio: volumeRatio(w.volumes),
	}, true
}

// ComputeLogReturns computes log returns r_t = ln(P_t / P_{t-1}).
// It returns a slice of length len(prices)-1, or nil if insufficient data.
func ComputeLogReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	out := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1]
		cur := prices[i]
		if prev <= 0 || cur <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, math.Log(cur/prev))
	}
	return out
}

// RealizedVolatility computes annualized realized volatility over the last
// window log returns using the provided number of bars per year.
func RealizedVolatility(logReturns []float64, window int, barsPerYear float64) float64 {
	if window <= 1 || len(logReturns) < window {
		return 0
	}
	sum := 0.0
	sum2 := 0.0
	for i := len(logReturns) - window; i < len(logReturns); i++ {
		r := logReturns[i]
		sum += r
		sum2 += r * r
	}
	n := float64(window)
	mean := sum / n
	variance := (sum2 - n*mean*mean) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	// annualize
	return math.Sqrt(variance * barsPerYear)
}

// realizedVolatility annualizes over the full retained window assuming
// roughly one tick per second.
func realizedVolatility(prices []float64) float64 {
	rets := ComputeLogReturns(prices)
	return RealizedVolatility(rets, len(rets), secondsPerYear)
}

// volumeRatio compares the most recent volume against the window average.
func volumeRatio(volumes []float64) float64 {
	if len(volumes) == 0 {
		return 1
	}
	sum := 0.0
	for _, v := range volumes {
		sum += v
	}
	avg := sum / float64(len(volumes))
	if avg <= 0 {
		return 1
	}
	return volumes[len(volumes)-1] / avg
}
