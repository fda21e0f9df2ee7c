// Package control is the library-level entry point host programs drive a
// simulation through: resetting to an ancestor, stepping updates,
// adjusting mutation and cycle tunables, and reading back snapshots and
// statistics. It is where the two surfaced error sentinels live.
package control

import (
	"errors"
	"fmt"

	"github.com/maccam912/avida-go/avida/cpu"
	"github.com/maccam912/avida-go/avida/mutate"
	"github.com/maccam912/avida-go/avida/organism"
	"github.com/maccam912/avida-go/avida/sched"
	"github.com/maccam912/avida-go/avida/symbol"
	"github.com/maccam912/avida-go/avida/world"
)

// ErrBadSymbol is symbol.ErrBadSymbol re-exported, for callers that only
// want to check errors.Is(err, control.ErrBadSymbol) against ancestor
// genome text.
var ErrBadSymbol = symbol.ErrBadSymbol

// ErrBadParam is returned when a tunable is set outside its valid range.
var ErrBadParam = errors.New("avida: parameter out of range")

// AncestorDefault is the canonical self-replicating ancestor genome every
// fresh simulation starts from unless a different one is supplied.
const AncestorDefault = "rutyabsvacccccccccccccccccccccccccccccccccccccccbc"

// AncestorWithTasks is a second canonical ancestor: the same replication
// loop with push/pop/IO/nand/add/sub operators spliced into the junk-DNA
// padding. The loop never executes them, so it replicates exactly like
// AncestorDefault, but a single point mutation can pull them into the
// execution path and start earning task bonuses.
const AncestorWithTasks = "rutyabsvagqfgqpgqnocccccccccccccccccccccccccccccbc"

// Surface is a running simulation. The zero value is not usable; create
// one with New.
type Surface struct {
	World *world.World
	Sched *sched.Scheduler
}

// New returns an unstarted Surface. Call Reset before stepping it.
func New() *Surface {
	return &Surface{}
}

// Reset tears down any running simulation and starts a fresh one: a new
// width x height world seeded by seed, with a single ancestor organism
// parsed from genome placed at the grid's center.
func (s *Surface) Reset(width, height int, genome string, seed uint64) error {
	syms, err := symbol.ParseString(genome)
	if err != nil {
		return fmt.Errorf("control: %w", err)
	}
	if len(syms) == 0 {
		return fmt.Errorf("control: %w: ancestor genome must be non-empty", ErrBadParam)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("control: %w: grid dimensions must be positive", ErrBadParam)
	}

	w := world.New(width, height, seed)
	ancestor := organism.New(syms, 0, w.Rand().Uint64())
	w.Set(width/2, height/2, ancestor)

	s.World = w
	s.Sched = sched.New(w)
	return nil
}

// Step runs n scheduler updates.
func (s *Surface) Step(n uint32) {
	for i := uint32(0); i < n; i++ {
		s.Sched.Update()
	}
}

// SetMutationRates replaces p_copy, p_ins, and p_del, each of which must
// lie in [0, 1].
func (s *Surface) SetMutationRates(pCopy, pIns, pDel float64) error {
	for _, p := range []float64{pCopy, pIns, pDel} {
		if p < 0 || p > 1 {
			return fmt.Errorf("control: %w: mutation rate must be in [0,1]", ErrBadParam)
		}
	}
	s.World.SetRates(mutate.Rates{PCopy: pCopy, PIns: pIns, PDel: pDel})
	return nil
}

// SetCyclesPerOrganism replaces C_avg, the average per-update cycle
// budget per organism. c must be positive.
func (s *Surface) SetCyclesPerOrganism(c int) error {
	if c <= 0 {
		return fmt.Errorf("control: %w: cycles per organism must be positive", ErrBadParam)
	}
	s.Sched.CyclesPerOrganism = c
	return nil
}

// Stats returns the current population statistics.
func (s *Surface) Stats() world.Stats {
	return s.World.Stats()
}

// Trend reports the wall-clock moving averages of population and mean
// merit over the scheduler's trend window, for a live demo to display
// alongside the instantaneous Stats().
type Trend struct {
	Population float64
	MeanMerit  float64
	Valid      bool
}

// Trend returns the current population/merit moving averages.
func (s *Surface) Trend() Trend {
	return Trend{
		Population: s.Sched.PopulationTrend.Value(),
		MeanMerit:  s.Sched.MeanMeritTrend.Value(),
		Valid:      s.Sched.PopulationTrend.Valid(),
	}
}

// CellView is a read-only summary of one occupied cell, suitable for a
// snapshot or a demo renderer.
type CellView struct {
	X, Y         int
	GenomeLength int
	Merit        float64
	Age          uint32
	Generation   uint32
	TaskMask     uint16
	GenomeHash   uint32
}

// Snapshot returns the whole grid in row-major order, one entry per cell
// (index y*width + x), nil where the cell is empty.
func (s *Surface) Snapshot() []*CellView {
	w := s.World
	out := make([]*CellView, w.Width*w.Height)
	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			o := w.Get(x, y)
			if o == nil {
				continue
			}
			out[y*w.Width+x] = &CellView{
				X:            o.X,
				Y:            o.Y,
				GenomeLength: o.Len(),
				Merit:        o.Merit,
				Age:          o.Age,
				Generation:   o.Generation,
				TaskMask:     o.Flags.Mask(),
				GenomeHash:   o.GenomeHash(),
			}
		}
	}
	return out
}

// Heads reports the current position of each of the organism's four heads,
// for Detail.
type Heads struct {
	IP, Read, Write, Flow int
}

// Detail is the full per-organism view the front-end's cell inspector
// gets: everything in CellView plus the genome text, register values, head
// positions, and both stacks (bottom first).
type Detail struct {
	CellView
	Genome    string
	Registers [3]int32
	Heads     Heads
	Stacks    [2][]int32
}

// Inspect returns the full detail for the occupant at (x, y), or nil if
// the cell is empty. It fails with ErrBadParam if (x, y) is out of
// bounds.
func (s *Surface) Inspect(x, y int) (*Detail, error) {
	if x < 0 || x >= s.World.Width || y < 0 || y >= s.World.Height {
		return nil, fmt.Errorf("control: %w: coordinates out of bounds", ErrBadParam)
	}
	o := s.World.Get(x, y)
	if o == nil {
		return nil, nil
	}
	return &Detail{
		CellView: CellView{
			X:            o.X,
			Y:            o.Y,
			GenomeLength: o.Len(),
			Merit:        o.Merit,
			Age:          o.Age,
			Generation:   o.Generation,
			TaskMask:     o.Flags.Mask(),
			GenomeHash:   o.GenomeHash(),
		},
		Genome:    o.GenomeString(),
		Registers: [3]int32{o.CPU.Get(cpu.AX), o.CPU.Get(cpu.BX), o.CPU.Get(cpu.CX)},
		Heads: Heads{
			IP:    o.CPU.HeadPos(cpu.IPHead),
			Read:  o.CPU.HeadPos(cpu.ReadHead),
			Write: o.CPU.HeadPos(cpu.WriteHead),
			Flow:  o.CPU.HeadPos(cpu.FlowHead),
		},
		Stacks: [2][]int32{o.CPU.Stack(0), o.CPU.Stack(1)},
	}, nil
}
