package organism

import (
	"testing"

	"github.com/maccam912/avida-go/avida/symbol"
)

func genome(s string) []symbol.Symbol {
	syms, err := symbol.ParseString(s)
	if err != nil {
		panic(err)
	}
	return syms
}

func TestNewStartsExecuting(t *testing.T) {
	o := New(genome("rutyabsvac"), 0, 1)
	if o.State != Executing {
		t.Errorf("New organism state = %v, want %v", o.State, Executing)
	}
	if o.Merit != 1.0 {
		t.Errorf("New organism merit = %v, want 1.0", o.Merit)
	}
}

func TestAllocateStartsCopying(t *testing.T) {
	o := New(genome("rutyabsvac"), 0, 1)
	o.Allocate()
	if o.State != Copying {
		t.Errorf("state after Allocate() = %v, want %v", o.State, Copying)
	}
	if o.Offspring == nil {
		t.Fatalf("Offspring is nil after Allocate()")
	}
}

func TestAllocateIdempotent(t *testing.T) {
	o := New(genome("rutyabsvac"), 0, 1)
	o.Allocate()
	o.CopyOne(symbol.NopA)
	o.Allocate()
	if len(o.Offspring.Buffer) != 1 {
		t.Errorf("second Allocate() reset the in-progress buffer: len=%d, want 1", len(o.Offspring.Buffer))
	}
}

func TestCopyOneWithoutAllocateIsNoop(t *testing.T) {
	o := New(genome("rutyabsvac"), 0, 1)
	o.CopyOne(symbol.NopA)
	if o.Offspring != nil {
		t.Errorf("CopyOne without Allocate created an offspring")
	}
}

func TestLastCopied(t *testing.T) {
	o := New(genome("rutyabsvac"), 0, 1)
	o.Allocate()
	o.CopyOne(symbol.NopA)
	o.CopyOne(symbol.NopB)
	o.CopyOne(symbol.NopC)
	got := o.LastCopied(2)
	want := []symbol.Symbol{symbol.NopB, symbol.NopC}
	if !symbol.Equal(got, want) {
		t.Errorf("LastCopied(2) = %v, want %v", got, want)
	}
	if got := o.LastCopied(10); len(got) != 3 {
		t.Errorf("LastCopied(10) with only 3 copied = %d entries, want 3", len(got))
	}
}

func TestTakeOffspringClearsState(t *testing.T) {
	o := New(genome("rutyabsvac"), 0, 1)
	o.Allocate()
	o.CopyOne(symbol.NopA)
	buf, ok := o.TakeOffspring()
	if !ok {
		t.Fatalf("TakeOffspring() ok = false, want true")
	}
	if len(buf) != 1 {
		t.Errorf("TakeOffspring() buffer len = %d, want 1", len(buf))
	}
	if o.Offspring != nil {
		t.Errorf("Offspring not cleared after TakeOffspring()")
	}
	if o.State != Executing {
		t.Errorf("state after TakeOffspring() = %v, want %v", o.State, Executing)
	}
}

func TestTakeOffspringWithoutAllocate(t *testing.T) {
	o := New(genome("rutyabsvac"), 0, 1)
	if _, ok := o.TakeOffspring(); ok {
		t.Errorf("TakeOffspring() without Allocate: ok = true, want false")
	}
}

func TestResetAfterDividePreservesMeritAndAge(t *testing.T) {
	o := New(genome("rutyabsvac"), 0, 1)
	o.Merit = 4.0
	o.Age = 10
	o.Flags[0] = true
	o.CPU.Set(0, 99)

	o.ResetAfterDivide()

	if o.Merit != 4.0 {
		t.Errorf("Merit after ResetAfterDivide() = %v, want preserved 4.0", o.Merit)
	}
	if o.Age != 10 {
		t.Errorf("Age after ResetAfterDivide() = %v, want preserved 10", o.Age)
	}
	if o.Flags[0] {
		t.Errorf("Flags not cleared after ResetAfterDivide()")
	}
	if o.CPU.Get(0) != 0 {
		t.Errorf("CPU register not cleared after ResetAfterDivide()")
	}
	if o.State != Executing {
		t.Errorf("state after ResetAfterDivide() = %v, want %v", o.State, Executing)
	}
}

func TestIndependentInputStreams(t *testing.T) {
	a := New(genome("a"), 0, 1)
	b := New(genome("a"), 0, 2)
	if a.NextInput() == b.NextInput() {
		t.Errorf("two organisms with different seeds produced the same first input")
	}
}
