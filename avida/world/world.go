// Package world implements the toroidal grid organisms live on: cell
// storage, Moore-neighborhood placement with random-empty-or-displace
// semantics, the single PRNG shared by mutation and placement, and the
// population statistics computed from a grid snapshot.
package world

import (
	"log/slog"
	"math/rand"

	"github.com/maccam912/avida-go/avida/mutate"
	"github.com/maccam912/avida-go/avida/organism"
	"github.com/maccam912/avida-go/avida/symbol"
	"github.com/maccam912/avida-go/avida/task"
	"github.com/maccam912/avida-go/avida/tracelog"
)

// DefaultWidth and DefaultHeight are the canonical grid dimensions.
const (
	DefaultWidth  = 60
	DefaultHeight = 60
)

// neighborDeltas lists the eight Moore neighbors in the fixed iteration
// order the toroidal-wrap property depends on: NW, N, NE, W, E, SW, S, SE.
var neighborDeltas = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// World owns the grid, the single shared PRNG, and the current mutation
// rates. It implements interp.Context.
type World struct {
	Width, Height int

	cells []*organism.Organism

	rng   *rand.Rand
	rates mutate.Rates

	logger *slog.Logger
}

// New creates an empty width x height world seeded deterministically.
func New(width, height int, seed uint64) *World {
	return &World{
		Width:  width,
		Height: height,
		cells:  make([]*organism.Organism, width*height),
		rng:    rand.New(rand.NewSource(int64(seed))),
		rates:  mutate.DefaultRates(),
		logger: tracelog.Null(),
	}
}

func (w *World) index(x, y int) int { return y*w.Width + x }

func (w *World) wrap(x, y int) (int, int) {
	x = ((x % w.Width) + w.Width) % w.Width
	y = ((y % w.Height) + w.Height) % w.Height
	return x, y
}

// Get returns the occupant at (x, y), or nil if empty. Coordinates wrap.
func (w *World) Get(x, y int) *organism.Organism {
	x, y = w.wrap(x, y)
	return w.cells[w.index(x, y)]
}

// Set places o at (x, y), overwriting whatever was there, and stamps o's
// recorded position. Coordinates wrap.
func (w *World) Set(x, y int, o *organism.Organism) {
	x, y = w.wrap(x, y)
	if o != nil {
		o.X, o.Y = x, y
	}
	w.cells[w.index(x, y)] = o
}

// Neighbors returns the eight Moore-neighborhood coordinates of (x, y),
// wrapped, in fixed NW/N/NE/W/E/SW/S/SE order.
func (w *World) Neighbors(x, y int) [8][2]int {
	var out [8][2]int
	for i, d := range neighborDeltas {
		nx, ny := w.wrap(x+d[0], y+d[1])
		out[i] = [2]int{nx, ny}
	}
	return out
}

// Rand exposes the world's single shared PRNG. Every mutation call and
// every placement draw comes from this one source, in the order the
// interpreter and scheduler invoke them.
func (w *World) Rand() *rand.Rand { return w.rng }

// Rates returns the current mutation rates.
func (w *World) Rates() mutate.Rates { return w.rates }

// SetRates replaces the mutation rates wholesale.
func (w *World) SetRates(r mutate.Rates) { w.rates = r }

// Logger returns the world's trace logger.
func (w *World) Logger() *slog.Logger { return w.logger }

// SetLogger replaces the world's trace logger.
func (w *World) SetLogger(l *slog.Logger) {
	if l == nil {
		l = tracelog.Null()
	}
	w.logger = l
}

// Place implements interp.Context.Place: it finds a home for childGenome
// among parent's Moore neighbors, preferring an empty cell and otherwise
// displacing a uniformly random neighbor, draws the child's own seed from
// the shared PRNG, and installs it.
func (w *World) Place(parent *organism.Organism, childGenome []symbol.Symbol) bool {
	neighbors := w.Neighbors(parent.X, parent.Y)

	var empty []int
	for i, n := range neighbors {
		if w.Get(n[0], n[1]) == nil {
			empty = append(empty, i)
		}
	}

	var targetIdx int
	if len(empty) > 0 {
		targetIdx = empty[w.rng.Intn(len(empty))]
	} else {
		targetIdx = w.rng.Intn(len(neighbors))
	}

	nx, ny := neighbors[targetIdx][0], neighbors[targetIdx][1]
	seed := w.rng.Uint64()
	child := organism.New(childGenome, parent.Generation+1, seed)
	w.Set(nx, ny, child)

	w.logger.Debug("placed child",
		"parent_x", parent.X, "parent_y", parent.Y,
		"child_x", nx, "child_y", ny,
		"displaced", len(empty) == 0)
	return true
}

// Snapshot returns every live occupant in fixed grid-index order, as of
// the moment it's called. The scheduler takes one snapshot per update so
// that organisms placed mid-update aren't scheduled until the next one.
func (w *World) Snapshot() []*organism.Organism {
	out := make([]*organism.Organism, 0, len(w.cells))
	for _, o := range w.cells {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

// IsAlive reports whether o still occupies the cell it last recorded as
// its own; a divide elsewhere in the grid can displace an organism that
// hasn't had its turn yet in the current update.
func (w *World) IsAlive(o *organism.Organism) bool {
	if o == nil {
		return false
	}
	return w.cells[w.index(o.X, o.Y)] == o
}

// EachAlive calls fn for every occupied cell, in grid-index order.
func (w *World) EachAlive(fn func(*organism.Organism)) {
	for _, o := range w.cells {
		if o != nil {
			fn(o)
		}
	}
}

// Stats is the set of population statistics computed purely from the
// current grid snapshot.
type Stats struct {
	Population       int
	MeanGenomeLength float64
	MeanMerit        float64
	TaskCounts       [task.NumTasks]int
}

// Stats computes the current population statistics.
func (w *World) Stats() Stats {
	var s Stats
	var totalLen, totalMerit float64
	for _, o := range w.cells {
		if o == nil {
			continue
		}
		s.Population++
		totalLen += float64(len(o.Genome))
		totalMerit += o.Merit
		for t := 0; t < task.NumTasks; t++ {
			if o.Flags[t] {
				s.TaskCounts[t]++
			}
		}
	}
	if s.Population > 0 {
		s.MeanGenomeLength = totalLen / float64(s.Population)
		s.MeanMerit = totalMerit / float64(s.Population)
	}
	return s
}
