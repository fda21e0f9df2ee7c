// Package organism models a single genome-bearing occupant of the world:
// its CPU, its in-progress offspring buffer, its accumulated task flags
// and merit, and the small state machine that governs replication.
package organism

import (
	"hash/crc32"
	"math/rand"

	"github.com/maccam912/avida-go/avida/cpu"
	"github.com/maccam912/avida-go/avida/symbol"
	"github.com/maccam912/avida-go/avida/task"
)

// State is the organism's position in the replication cycle.
type State int

const (
	Executing State = iota
	Copying
	ReadyToDivide
)

func (s State) String() string {
	switch s {
	case Executing:
		return "executing"
	case Copying:
		return "copying"
	case ReadyToDivide:
		return "ready-to-divide"
	default:
		return "unknown"
	}
}

// Offspring is the in-progress child genome buffer created by h-alloc and
// grown one symbol at a time by h-copy.
type Offspring struct {
	Buffer []symbol.Symbol
}

// Organism is one cell's occupant.
type Organism struct {
	Genome []symbol.Symbol
	CPU    *cpu.CPU

	Flags task.Flags
	Merit float64

	Age        uint32
	Generation uint32

	// X, Y is the organism's last-known grid position, maintained by the
	// world package on placement. Organism itself has no notion of the
	// grid it lives in.
	X, Y int

	// Rand is this organism's own IO input stream, seeded independently
	// at birth so two organisms never draw the same input sequence even
	// when born in the same update.
	Rand *rand.Rand

	Offspring *Offspring
	State     State
}

// New creates a fresh organism around genome, at the given generation,
// with its own independently seeded input stream.
func New(genome []symbol.Symbol, generation uint32, seed uint64) *Organism {
	return &Organism{
		Genome:     genome,
		CPU:        cpu.New(),
		Merit:      1.0,
		Generation: generation,
		Rand:       rand.New(rand.NewSource(int64(seed))),
		State:      Executing,
	}
}

// Len returns the genome length.
func (o *Organism) Len() int { return len(o.Genome) }

// GenomeString renders the genome back to its letter form.
func (o *Organism) GenomeString() string { return symbol.Render(o.Genome) }

// GenomeHash is a stable content hash of the genome, used as a cheap
// lineage-identity signature in snapshots.
func (o *Organism) GenomeHash() uint32 {
	return crc32.ChecksumIEEE([]byte(o.GenomeString()))
}

// NextInput draws the next value from this organism's own input stream.
func (o *Organism) NextInput() int32 {
	return int32(o.Rand.Uint32())
}

// Allocate starts (or, if already in progress, no-ops) a new offspring
// buffer, transitioning into the Copying state.
func (o *Organism) Allocate() {
	if o.Offspring != nil {
		return
	}
	o.Offspring = &Offspring{Buffer: make([]symbol.Symbol, 0, len(o.Genome))}
	o.State = Copying
}

// CopyOne appends sym to the in-progress offspring buffer. It is a no-op
// if no allocation is in progress.
func (o *Organism) CopyOne(sym symbol.Symbol) {
	if o.Offspring == nil {
		return
	}
	o.Offspring.Buffer = append(o.Offspring.Buffer, sym)
}

// LastCopied returns the last n symbols copied into the offspring buffer
// so far, or fewer if the buffer is shorter than n.
func (o *Organism) LastCopied(n int) []symbol.Symbol {
	if o.Offspring == nil || n <= 0 {
		return nil
	}
	b := o.Offspring.Buffer
	if n > len(b) {
		n = len(b)
	}
	return b[len(b)-n:]
}

// MarkReadyToDivide transitions into the ReadyToDivide state.
func (o *Organism) MarkReadyToDivide() {
	if o.Offspring != nil {
		o.State = ReadyToDivide
	}
}

// TakeOffspring removes and returns the in-progress offspring buffer,
// unconditionally clearing it and returning to Executing. Callers apply
// division-time mutation to the result themselves; TakeOffspring makes no
// judgment about whether the attempt will succeed.
func (o *Organism) TakeOffspring() ([]symbol.Symbol, bool) {
	if o.Offspring == nil {
		return nil, false
	}
	buf := o.Offspring.Buffer
	o.Offspring = nil
	o.State = Executing
	return buf, true
}

// ResetAfterDivide clears the parent's CPU state, stacks, heads, skip
// flag, I/O buffers, and task flags following a successful divide, while
// preserving merit, age, and generation.
func (o *Organism) ResetAfterDivide() {
	o.CPU.Reset()
	o.Flags = task.Flags{}
	o.State = Executing
}
