// Package stats provides wall-clock moving averages for monitoring a
// running simulation. It has no bearing on simulation determinism: the
// scheduler's update loop is driven purely by discrete update counts, but
// a live demo or dashboard wants to know "what has population/merit looked
// like over roughly the last N seconds of real time," which these types
// answer cheaply without retaining unbounded history.
package stats

import (
	"container/ring"
	"sync"
	"time"
)

// clock lets tests substitute a fake Now().
type clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

var clk clock = realClock{}

type entry struct {
	v float64
	t time.Time
}

// MovingAvg is the average of every value added within the trailing
// Duration window. Zero value is usable once Duration is set.
type MovingAvg struct {
	Duration time.Duration

	mu sync.Mutex
	r  *ring.Ring // earliest node; r.Prev() is the latest
}

// Add records v at the current time and prunes anything older than
// Duration.
func (a *MovingAvg) Add(v float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := ring.New(1)
	n.Value = entry{v, clk.Now()}
	if a.r == nil {
		a.r = n
	} else {
		a.r.Prev().Link(n)
	}
	a.pruneLocked()
}

// Valid reports whether Value() has at least one sample to average.
func (a *MovingAvg) Valid() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.r != nil
}

// Value returns the average of every sample still within the window, plus
// the newest sample even when it is older than Duration. It is 0 only when
// no sample has ever been added.
func (a *MovingAvg) Value() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pruneLocked()
	if a.r == nil {
		return 0
	}
	num := 0
	avg := 0.0
	a.r.Do(func(i interface{}) {
		e := i.(entry)
		num++
		avg = (e.v + float64(num-1)*avg) / float64(num)
	})
	return avg
}

// pruneLocked drops every stale sample except the newest, which is kept
// regardless of age so a single old-but-only sample still reports a value.
func (a *MovingAvg) pruneLocked() {
	if a.r == nil {
		return
	}
	n := a.r.Len()
	del := 0
	for i := a.r; del < n-1; i = i.Next() {
		e := i.Value.(entry)
		if clk.Now().Sub(e.t) < a.Duration {
			break
		}
		del++
	}
	if del == 0 {
		return
	}
	p := a.r.Prev()
	p.Unlink(del)
	a.r = p.Next()
}
