package stats

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Snapshot is what the header displays.
type Snapshot struct {
	TotalVisits int `json:"totalVisits"`
	LiveUsers   int `json:"liveUsers"`
}

// Ticker is the subset of *time.Ticker the refresh loop needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.Ticker.C }

// Service owns the visit total and refreshes the live estimate on an
// interval. All methods are safe for concurrent use.
type Service struct {
	counter   *VisitCounter
	estimator *LiveEstimator
	refresh   time.Duration
	newTicker func(time.Duration) Ticker
	logger    *slog.Logger

	mu   sync.RWMutex
	snap Snapshot
}

// NewService creates a Service. Call Init once, then Run in a goroutine.
func NewService(counter *VisitCounter, estimator *LiveEstimator, refresh time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		counter:   counter,
		estimator: estimator,
		refresh:   refresh,
		newTicker: func(d time.Duration) Ticker { return timeTicker{time.NewTicker(d)} },
		logger:    logger,
	}
}

// Init records this start as a visit and takes the first live estimate.
// A counter failure leaves the total at zero and is returned.
func (s *Service) Init(ctx context.Context) error {
	s.refreshLive()

	total, err := s.counter.Increment(ctx)
	if err != nil {
		s.logger.Error("visit counter failed", "error", err)
		return err
	}

	s.mu.Lock()
	s.snap.TotalVisits = total
	s.mu.Unlock()

	s.logger.Info("visit recorded", "total", total)

	return nil
}

// Run refreshes the live estimate every interval until ctx is done.
func (s *Service) Run(ctx context.Context) {
	ticker := s.newTicker(s.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			s.refreshLive()
		}
	}
}

// Snapshot returns the current figures.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snap
}

func (s *Service) refreshLive() {
	live := s.estimator.Estimate()

	s.mu.Lock()
	s.snap.LiveUsers = live
	s.mu.Unlock()
}
