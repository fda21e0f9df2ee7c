// Package sched implements the merit-weighted cooperative scheduler: each
// update snapshots the population, allocates a cycle budget to every
// organism proportional to its merit, and runs each organism's allotted
// cycles through the interpreter.
package sched

import (
	"math"
	"time"

	"github.com/maccam912/avida-go/avida/interp"
	"github.com/maccam912/avida-go/avida/organism"
	"github.com/maccam912/avida-go/avida/stats"
	"github.com/maccam912/avida-go/avida/world"
)

// DefaultCyclesPerOrganism is C_avg, the average number of CPU cycles per
// organism per update; each organism's share of the N*C_avg total is
// proportional to its merit.
const DefaultCyclesPerOrganism = 30

// trendWindow is how far back the population/merit moving averages look.
// It bounds wall-clock monitoring only; it has no bearing on simulation
// determinism, which runs purely on update counts.
const trendWindow = 30 * time.Second

// Scheduler drives a World forward one update at a time.
type Scheduler struct {
	World             *world.World
	CyclesPerOrganism int

	// PopulationTrend and MeanMeritTrend are wall-clock moving averages
	// of the population size and mean merit, sampled once per Update().
	// A live demo reads these to show a smoothed trend instead of a
	// single noisy per-update snapshot.
	PopulationTrend *stats.MovingAvg
	MeanMeritTrend  *stats.MovingAvg
}

// New returns a Scheduler over w with the default cycle budget.
func New(w *world.World) *Scheduler {
	return &Scheduler{
		World:             w,
		CyclesPerOrganism: DefaultCyclesPerOrganism,
		PopulationTrend:   &stats.MovingAvg{Duration: trendWindow},
		MeanMeritTrend:    &stats.MovingAvg{Duration: trendWindow},
	}
}

// Update runs exactly one scheduling round: every organism present at the
// start of the round gets a merit-proportional cycle budget and is
// stepped that many times, skipping the rest of its budget if it gets
// displaced mid-update by another organism's divide. Every organism still
// alive at the end has its age incremented.
func (s *Scheduler) Update() {
	w := s.World
	snap := w.Snapshot()
	n := len(snap)
	if n == 0 {
		return
	}

	totalMerit := 0.0
	for _, o := range snap {
		totalMerit += o.Merit
	}
	if totalMerit <= 0 {
		totalMerit = float64(n)
	}

	totalCycles := n * s.CyclesPerOrganism
	budgets := allocateBudgets(snap, totalMerit, totalCycles)

	for i, o := range snap {
		if !w.IsAlive(o) {
			continue
		}
		for t := 0; t < budgets[i]; t++ {
			if !w.IsAlive(o) {
				break
			}
			interp.Step(o, w)
		}
	}

	w.EachAlive(func(o *organism.Organism) {
		o.Age++
	})

	s.PopulationTrend.Add(float64(n))
	s.MeanMeritTrend.Add(totalMerit / float64(n))
}

// allocateBudgets computes each organism's cycle budget as
// round(totalCycles * merit_i / totalMerit), then nudges entries in
// snapshot order so the budgets sum to exactly totalCycles.
func allocateBudgets(snap []*organism.Organism, totalMerit float64, totalCycles int) []int {
	n := len(snap)
	budgets := make([]int, n)
	sum := 0
	for i, o := range snap {
		raw := float64(totalCycles) * o.Merit / totalMerit
		b := int(math.Round(raw))
		if b < 0 {
			b = 0
		}
		budgets[i] = b
		sum += b
	}

	diff := totalCycles - sum
	for i := 0; diff > 0 && n > 0; i++ {
		budgets[i%n]++
		diff--
	}
	for i := 0; diff < 0 && n > 0; i++ {
		idx := i % n
		if budgets[idx] > 0 {
			budgets[idx]--
			diff++
		}
		if i > n*4 {
			break
		}
	}
	return budgets
}
