// Package interp executes a single organism's genome one symbol at a
// time: register and stack manipulation, head movement and template
// matching, the h-alloc/h-copy/h-divide/h-search replication protocol,
// and IO-driven task detection.
package interp

import (
	"log/slog"
	"math/rand"

	"github.com/maccam912/avida-go/avida/cpu"
	"github.com/maccam912/avida-go/avida/mutate"
	"github.com/maccam912/avida-go/avida/organism"
	"github.com/maccam912/avida-go/avida/symbol"
	"github.com/maccam912/avida-go/avida/task"
)

// Context is what the interpreter needs from its host in order to run an
// instruction that reaches outside the organism: the shared, deterministic
// PRNG used for mutation and placement, the current mutation rates, a way
// to place a newly divided child, and a logger. World implements this.
type Context interface {
	Rand() *rand.Rand
	Rates() mutate.Rates
	Place(parent *organism.Organism, childGenome []symbol.Symbol) bool
	Logger() *slog.Logger
}

// Step executes exactly one genome position's worth of work against o: if
// a previous conditional left a skip pending, this call consumes it and
// advances past the instruction without executing it; otherwise it
// dispatches the instruction at the current IP.
func Step(o *organism.Organism, ctx Context) {
	length := len(o.Genome)
	if length == 0 {
		return
	}
	o.CPU.IP = wrap(o.CPU.IP, length)

	if o.CPU.SkipNext {
		o.CPU.SkipNext = false
		advanceIP(o, length, 1)
		return
	}

	ip := o.CPU.IP
	sym := o.Genome[ip]
	dispatch(sym, o, ctx, ip, length)
}

func wrap(pos, length int) int {
	return ((pos % length) + length) % length
}

func nextPos(pos, length int) int {
	return wrap(pos+1, length)
}

func advanceIP(o *organism.Organism, length, delta int) {
	o.CPU.IP = wrap(o.CPU.IP+delta, length)
}

// readTemplate reads a contiguous run of nop symbols starting at start,
// stopping at the first non-nop symbol or after a full revolution.
func readTemplate(genome []symbol.Symbol, start, length int) []symbol.Symbol {
	var tmpl []symbol.Symbol
	pos := start
	for i := 0; i < length; i++ {
		s := genome[pos]
		if !s.IsNop() {
			break
		}
		tmpl = append(tmpl, s)
		pos = nextPos(pos, length)
	}
	return tmpl
}

func registerFromNop(s symbol.Symbol) (cpu.Reg, bool) {
	idx, ok := s.NopIndex()
	if !ok {
		return 0, false
	}
	return cpu.Reg(idx), true
}

func headFromNop(s symbol.Symbol) (cpu.Head, bool) {
	idx, ok := s.NopIndex()
	if !ok {
		return 0, false
	}
	switch idx {
	case 0:
		return cpu.IPHead, true
	case 1:
		return cpu.ReadHead, true
	case 2:
		return cpu.WriteHead, true
	}
	return 0, false
}

func peekNop(genome []symbol.Symbol, ip, length int) (symbol.Symbol, bool) {
	s := genome[nextPos(ip, length)]
	return s, s.IsNop()
}

// resolveRegister looks at the symbol right after ip; if it's a nop, it
// designates the register argument, overriding def. Returns whether a nop
// was actually consumed, which callers use to decide the extra +1 IP
// advance.
func resolveRegister(genome []symbol.Symbol, ip, length int, def cpu.Reg) (cpu.Reg, bool) {
	s, isNop := peekNop(genome, ip, length)
	if !isNop {
		return def, false
	}
	r, _ := registerFromNop(s)
	return r, true
}

// resolveHead is resolveRegister's counterpart for head-argument
// instructions (mov-head, jmp-head, get-head).
func resolveHead(genome []symbol.Symbol, ip, length int, def cpu.Head) (cpu.Head, bool) {
	s, isNop := peekNop(genome, ip, length)
	if !isNop {
		return def, false
	}
	h, ok := headFromNop(s)
	if !ok {
		return def, false
	}
	return h, true
}

// matchAt reports whether pattern occurs in genome starting at pos,
// wrapping.
func matchAt(genome []symbol.Symbol, pos int, pattern []symbol.Symbol, length int) bool {
	for i, s := range pattern {
		if genome[wrap(pos+i, length)] != s {
			return false
		}
	}
	return true
}

// findTemplate searches forward from start, within one full revolution,
// for the first occurrence of pattern. It returns the distance from start
// to the match and true on success.
func findTemplate(genome []symbol.Symbol, start int, pattern []symbol.Symbol, length int) (int, bool) {
	for d := 0; d < length; d++ {
		if matchAt(genome, wrap(start+d, length), pattern, length) {
			return d, true
		}
	}
	return 0, false
}

func dispatch(sym symbol.Symbol, o *organism.Organism, ctx Context, ip, length int) {
	switch sym {
	case symbol.NopA, symbol.NopB, symbol.NopC:
		advanceIP(o, length, 1)

	case symbol.IfNEqu:
		execIfTemplate(o, ip, length, func(bx, tv int32) bool { return bx != tv })

	case symbol.IfLess:
		execIfTemplate(o, ip, length, func(bx, tv int32) bool { return bx < tv })

	case symbol.Pop:
		reg, consumed := resolveRegister(o.Genome, ip, length, cpu.BX)
		o.CPU.Set(reg, o.CPU.Pop())
		advanceIP(o, length, advanceFor(consumed))

	case symbol.Push:
		reg, consumed := resolveRegister(o.Genome, ip, length, cpu.BX)
		o.CPU.Push(o.CPU.Get(reg))
		advanceIP(o, length, advanceFor(consumed))

	case symbol.SwapStk:
		o.CPU.SwapStack()
		advanceIP(o, length, 1)

	case symbol.Swap:
		reg, consumed := resolveRegister(o.Genome, ip, length, cpu.CX)
		bx := o.CPU.Get(cpu.BX)
		rv := o.CPU.Get(reg)
		o.CPU.Set(cpu.BX, rv)
		o.CPU.Set(reg, bx)
		advanceIP(o, length, advanceFor(consumed))

	case symbol.ShiftR:
		reg, consumed := resolveRegister(o.Genome, ip, length, cpu.BX)
		o.CPU.Set(reg, o.CPU.Get(reg)>>1)
		advanceIP(o, length, advanceFor(consumed))

	case symbol.ShiftL:
		reg, consumed := resolveRegister(o.Genome, ip, length, cpu.BX)
		o.CPU.Set(reg, o.CPU.Get(reg)<<1)
		advanceIP(o, length, advanceFor(consumed))

	case symbol.Inc:
		reg, consumed := resolveRegister(o.Genome, ip, length, cpu.BX)
		o.CPU.Set(reg, o.CPU.Get(reg)+1)
		advanceIP(o, length, advanceFor(consumed))

	case symbol.Dec:
		reg, consumed := resolveRegister(o.Genome, ip, length, cpu.BX)
		o.CPU.Set(reg, o.CPU.Get(reg)-1)
		advanceIP(o, length, advanceFor(consumed))

	case symbol.Add:
		o.CPU.Set(cpu.BX, o.CPU.Get(cpu.BX)+o.CPU.Get(cpu.CX))
		advanceIP(o, length, 1)

	case symbol.Sub:
		o.CPU.Set(cpu.BX, o.CPU.Get(cpu.BX)-o.CPU.Get(cpu.CX))
		advanceIP(o, length, 1)

	case symbol.Nand:
		o.CPU.Set(cpu.BX, ^(o.CPU.Get(cpu.BX) & o.CPU.Get(cpu.CX)))
		advanceIP(o, length, 1)

	case symbol.IO:
		execIO(o, ctx)
		advanceIP(o, length, 1)

	case symbol.HAlloc:
		o.Allocate()
		advanceIP(o, length, 1)

	case symbol.HSearch:
		tmpl := execHSearch(o, ip, length)
		advanceIP(o, length, 1+len(tmpl))

	case symbol.HCopy:
		execHCopy(o, ctx, length)
		advanceIP(o, length, 1)

	case symbol.HDivide:
		if !execHDivide(o, ctx) {
			advanceIP(o, length, 1)
		}

	case symbol.MovHead:
		execMovHead(o, ip, length)

	case symbol.JmpHead:
		execJmpHead(o, ip, length)

	case symbol.GetHead:
		head, consumed := resolveHead(o.Genome, ip, length, cpu.IPHead)
		o.CPU.Set(cpu.CX, int32(o.CPU.HeadPos(head)))
		advanceIP(o, length, advanceFor(consumed))

	case symbol.IfLabel:
		tmplStart := nextPos(ip, length)
		tmpl := readTemplate(o.Genome, tmplStart, length)
		comp := symbol.ComplementTemplate(tmpl)
		last := o.LastCopied(len(comp))
		predicate := len(comp) > 0 && symbol.Equal(last, comp)
		o.CPU.SkipNext = !predicate
		advanceIP(o, length, 1+len(tmpl))

	case symbol.SetFlow:
		reg, consumed := resolveRegister(o.Genome, ip, length, cpu.CX)
		v := o.CPU.Get(reg)
		o.CPU.Flow = wrap(int(v), length)
		advanceIP(o, length, advanceFor(consumed))

	default:
		advanceIP(o, length, 1)
	}
}

// advanceFor is the extra-nop-skip rule: register-argument instructions
// that consumed a following nop as their modifier advance IP by 2 instead
// of 1, so the nop itself is never separately executed.
func advanceFor(consumedModifier bool) int {
	if consumedModifier {
		return 2
	}
	return 1
}

// execIfTemplate is the shared body of if-n-equ and if-less: read the nop
// template following the instruction, compare BX against the register the
// template's complement designates (CX when the template is empty), and
// arm a one-instruction skip when the predicate fails. IP advances past
// the template either way.
func execIfTemplate(o *organism.Organism, ip, length int, pred func(bx, tv int32) bool) {
	tmplStart := nextPos(ip, length)
	tmpl := readTemplate(o.Genome, tmplStart, length)
	target := cpu.CX
	if len(tmpl) > 0 {
		comp, _ := tmpl[0].Complement()
		if r, ok := registerFromNop(comp); ok {
			target = r
		}
	}
	o.CPU.SkipNext = !pred(o.CPU.Get(cpu.BX), o.CPU.Get(target))
	advanceIP(o, length, 1+len(tmpl))
}

func execIO(o *organism.Organism, ctx Context) {
	bx := o.CPU.Get(cpu.BX)
	o.CPU.PushOutput(bx)

	recent := o.CPU.RecentInputs()
	task.Detect(&o.Flags, &o.Merit, recent, o.CPU.InputCount, bx)

	input := o.NextInput()
	o.CPU.PushInput(input)
	o.CPU.Set(cpu.BX, input)
}

func execHSearch(o *organism.Organism, ip, length int) []symbol.Symbol {
	tmplStart := nextPos(ip, length)
	tmpl := readTemplate(o.Genome, tmplStart, length)
	if len(tmpl) == 0 {
		o.CPU.Set(cpu.BX, 0)
		o.CPU.Set(cpu.CX, 0)
		o.CPU.Flow = nextPos(ip, length)
		return tmpl
	}

	comp := symbol.ComplementTemplate(tmpl)
	searchStart := nextPos(wrap(tmplStart+len(tmpl)-1, length), length)
	dist, found := findTemplate(o.Genome, searchStart, comp, length)
	if !found {
		o.CPU.Set(cpu.BX, 0)
		o.CPU.Set(cpu.CX, 0)
		o.CPU.Flow = nextPos(ip, length)
		return tmpl
	}

	targetPos := wrap(searchStart+dist, length)
	o.CPU.Set(cpu.BX, int32(wrap(targetPos-ip, length)))
	o.CPU.Set(cpu.CX, int32(len(tmpl)))
	o.CPU.Flow = wrap(targetPos+len(comp), length)
	return tmpl
}

func execHCopy(o *organism.Organism, ctx Context, length int) {
	if o.Offspring == nil {
		return
	}
	readPos := wrap(o.CPU.Read, length)
	s := o.Genome[readPos]
	mutated := mutate.CopySymbol(ctx.Rand(), ctx.Rates().PCopy, s)
	o.CopyOne(mutated)
	o.CPU.Read = nextPos(readPos, length)
	o.CPU.Write = len(o.Offspring.Buffer)
}

// execHDivide reports whether the divide succeeded. On success the
// parent's CPU has been reset, so the IP sits back at position zero and
// must not be advanced past the genome's first instruction.
func execHDivide(o *organism.Organism, ctx Context) bool {
	if o.Offspring == nil {
		return false
	}
	o.MarkReadyToDivide()
	buf, _ := o.TakeOffspring()
	finalized := mutate.Finalize(ctx.Rand(), ctx.Rates(), buf)
	if len(finalized) == 0 {
		return false
	}
	ctx.Place(o, finalized)
	o.ResetAfterDivide()
	ctx.Logger().Debug("divide",
		"child_len", len(finalized), "parent_generation", o.Generation)
	return true
}

// execMovHead jumps the designated head to Flow. When the target is IP
// the move is the whole effect: IP is left exactly at Flow, never
// auto-advanced afterward.
func execMovHead(o *organism.Organism, ip, length int) {
	target, consumed := resolveHead(o.Genome, ip, length, cpu.IPHead)
	o.CPU.SetHead(target, o.CPU.Flow)
	if target != cpu.IPHead {
		advanceIP(o, length, advanceFor(consumed))
	}
}

func execJmpHead(o *organism.Organism, ip, length int) {
	target, consumed := resolveHead(o.Genome, ip, length, cpu.IPHead)
	delta := int(o.CPU.Get(cpu.CX))
	o.CPU.AdvanceHead(target, delta, length)
	if target != cpu.IPHead {
		advanceIP(o, length, advanceFor(consumed))
	}
}
