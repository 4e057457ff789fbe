package usecase

import (
	"context"
	"fmt"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	"TradePulse/internal/services/features"
)

// FeatureCollector folds ticks into the rolling feature windows and refreshes
// the per-symbol snapshot cache. It sits downstream of the tick pipeline.
type FeatureCollector struct {
	extractor *features.Extractor
	cache     domrepo.SnapshotCache
}

func NewFeatureCollector(extractor *features.Extractor, cache domrepo.SnapshotCache) *FeatureCollector {
	return &FeatureCollector{extractor: extractor, cache: cache}
}

// Process implements the pipeline processor contract.
func (f *FeatureCollector) Process(_ context.Context, t *models.Tick) error {
	if t == nil {
		return fmt.Errorf("tick is nil")
	}
	f.extractor.Observe(*t)
	if snap, ok := f.extractor.Snapshot(t.Symbol); ok {
		f.cache.Put(snap)
	}
	return nil
}
