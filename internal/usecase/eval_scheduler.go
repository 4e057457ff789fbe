package usecase

import (
	"context"
	"sync"
	"time"

	"TradePulse/pkg/queue"

	applogger "TradePulse/pkg/logger"
)

// EvalScheduler periodically enqueues evaluation requests for the configured
// symbols so queue workers re-score them on fresh snapshots.
type EvalScheduler struct {
	q        queue.QueueService
	symbols  []string
	interval time.Duration
	l        *applogger.Logger

	stopCh  chan struct{}
	started bool
	mu      sync.Mutex
}

func NewEvalScheduler(q queue.QueueService, symbols []string, interval time.Duration, l *applogger.Logger) *EvalScheduler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &EvalScheduler{
		q:        q,
		symbols:  symbols,
		interval: interval,
		l:        l,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the periodic enqueue loop.
func (s *EvalScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				s.enqueueAll(ctx)
			}
		}
	}()
}

// Stop halts the enqueue loop.
func (s *EvalScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	close(s.stopCh)
}

func (s *EvalScheduler) enqueueAll(ctx context.Context) {
	for _, sym := range s.symbols {
		payload := EvalPayload{Symbol: sym}
		if err := s.q.PublishMessage(ctx, EvalMessageType, payload); err != nil {
			s.l.Warn("enqueue evaluation",
				applogger.String("symbol", sym),
				applogger.Error(err))
		}
	}
}
