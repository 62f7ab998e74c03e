package engine

import (
	"time"

	"github.com/bmizerany/perks/quantile"
)

// Latency collects frame evaluation times. It is fed by the caller, which
// times Step; the engine itself does not read the clock.
type Latency struct {
	q   *quantile.Stream
	max time.Duration
	n   int
}

func NewLatency() *Latency {
	return &Latency{q: quantile.NewTargeted(0.50, 0.95, 0.99)}
}

func (l *Latency) Observe(d time.Duration) {
	l.q.Insert(float64(d))
	if d > l.max {
		l.max = d
	}
	l.n++
}

func (l *Latency) Count() int {
	return l.n
}

func (l *Latency) Max() time.Duration {
	return l.max
}

// Query returns the q quantile (one of 0.5, 0.95, 0.99).
func (l *Latency) Query(q float64) time.Duration {
	if l.n == 0 {
		return 0
	}
	return time.Duration(l.q.Query(q))
}
