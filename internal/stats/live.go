package stats

import (
	"math/rand/v2"
	"time"
)

// LiveEstimator produces a plausible "users online" figure from the local
// hour. It is decorative and not backed by real presence data.
type LiveEstimator struct {
	now  func() time.Time
	intN func(n int) int
}

// NewLiveEstimator creates an estimator using the wall clock and math/rand.
func NewLiveEstimator() *LiveEstimator {
	return &LiveEstimator{now: time.Now, intN: rand.IntN}
}

// Estimate returns base(hour) plus a fluctuation in [0,4).
func (e *LiveEstimator) Estimate() int {
	return liveBase(e.now().Hour()) + e.intN(4)
}

func liveBase(hour int) int {
	switch {
	case hour >= 19 && hour <= 23:
		return 12
	case hour >= 1 && hour <= 5:
		return 2
	default:
		return 5
	}
}
