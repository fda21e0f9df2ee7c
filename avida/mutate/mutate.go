// Package mutate implements the copy-time substitution and division-time
// insertion/deletion that give organism lineages genetic variation.
package mutate

import "github.com/maccam912/avida-go/avida/symbol"

// Rates bundles the three mutation probabilities. Each is a fraction in
// [0, 1]; validation of that range happens at the control surface, not
// here, since this package has no notion of what a bad value should do.
type Rates struct {
	PCopy float64
	PIns  float64
	PDel  float64
}

// Standard rates a fresh world starts with.
const (
	DefaultPCopy = 0.0025
	DefaultPIns  = 0.05
	DefaultPDel  = 0.05
)

// DefaultRates returns the standard rate set.
func DefaultRates() Rates {
	return Rates{PCopy: DefaultPCopy, PIns: DefaultPIns, PDel: DefaultPDel}
}

// Randomer is what this package needs from a PRNG: a uniform int in
// [0, n) and a uniform float in [0, 1). World's shared PRNG satisfies
// this directly via math/rand.Rand.
type Randomer interface {
	Intn(n int) int
	Float64() float64
}

// CopySymbol implements h-copy's per-symbol mutation: with probability
// rate, the symbol being copied is replaced by a uniformly random symbol
// instead of being copied verbatim.
func CopySymbol(r Randomer, rate float64, s symbol.Symbol) symbol.Symbol {
	if r.Float64() < rate {
		return symbol.Random(r)
	}
	return s
}

// Finalize applies division-time mutation to a freshly copied child
// genome: an independent deletion (probability PDel) and an independent
// insertion (probability PIns), each applied at most once. If the
// deletion leaves the genome empty, no insertion rescues it; Finalize
// returns the empty result and callers treat that as a failed divide.
func Finalize(r Randomer, rates Rates, genome []symbol.Symbol) []symbol.Symbol {
	out := make([]symbol.Symbol, len(genome))
	copy(out, genome)

	if len(out) > 0 && r.Float64() < rates.PDel {
		pos := r.Intn(len(out))
		out = append(out[:pos], out[pos+1:]...)
	}

	if len(out) > 0 && r.Float64() < rates.PIns {
		pos := r.Intn(len(out) + 1)
		sym := symbol.Random(r)
		grown := make([]symbol.Symbol, 0, len(out)+1)
		grown = append(grown, out[:pos]...)
		grown = append(grown, sym)
		grown = append(grown, out[pos:]...)
		out = grown
	}

	return out
}
