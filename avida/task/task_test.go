package task

import "testing"

func TestDetectAndMerit(t *testing.T) {
	var flags Flags
	merit := 1.0
	recent := [3]int32{0b1010, 0b1100, 0}
	done := Detect(&flags, &merit, recent, 2, 0b1100&0b1010)
	if len(done) == 0 {
		t.Fatalf("Detect: expected at least one task detected, got none")
	}
	found := false
	for _, d := range done {
		if d == AND {
			found = true
		}
	}
	if !found {
		t.Errorf("Detect: expected AND among %v", done)
	}
	if merit <= 1.0 {
		t.Errorf("merit after detection = %v, want > 1.0", merit)
	}
}

func TestDetectOnlyOncePerTask(t *testing.T) {
	var flags Flags
	merit := 1.0
	recent := [3]int32{0b1010, 0b1100, 0}
	Detect(&flags, &merit, recent, 2, 0b1100&0b1010)
	meritAfterFirst := merit
	Detect(&flags, &merit, recent, 2, 0b1100&0b1010)
	if merit != meritAfterFirst {
		t.Errorf("merit changed on repeat detection: %v -> %v", meritAfterFirst, merit)
	}
}

func TestDetectNoMatch(t *testing.T) {
	var flags Flags
	merit := 1.0
	recent := [3]int32{1, 2, 0}
	done := Detect(&flags, &merit, recent, 2, 999999)
	if len(done) != 0 {
		t.Errorf("Detect: expected no tasks, got %v", done)
	}
	if merit != 1.0 {
		t.Errorf("merit = %v, want unchanged 1.0", merit)
	}
}

func TestDetectEchoedSingleInputMatchesNothing(t *testing.T) {
	var flags Flags
	merit := 1.0
	recent := [3]int32{5, 0, 0}
	done := Detect(&flags, &merit, recent, 1, 5)
	if len(done) != 0 {
		t.Errorf("Detect echoing the sole input back: expected no tasks, got %v", done)
	}
}

func TestDetectNotWithSingleInput(t *testing.T) {
	var flags Flags
	merit := 1.0
	recent := [3]int32{5, 0, 0}
	done := Detect(&flags, &merit, recent, 1, ^int32(5))
	if len(done) != 1 || done[0] != NOT {
		t.Fatalf("Detect(^input) with one input = %v, want [NOT]", done)
	}
	if merit != 2.0 {
		t.Errorf("merit after NOT = %v, want 2.0", merit)
	}
}

func TestWeightOrdering(t *testing.T) {
	if Weight[NOT] != 1 || Weight[EQU] != 4 {
		t.Errorf("Weight[NOT]=%d Weight[EQU]=%d, want 1 and 4", Weight[NOT], Weight[EQU])
	}
}

func TestMaskBits(t *testing.T) {
	var f Flags
	f[NOT] = true
	f[XOR] = true
	m := f.Mask()
	if m&(1<<uint(NOT)) == 0 {
		t.Errorf("Mask() missing NOT bit: %b", m)
	}
	if m&(1<<uint(XOR)) == 0 {
		t.Errorf("Mask() missing XOR bit: %b", m)
	}
	if m&(1<<uint(AND)) != 0 {
		t.Errorf("Mask() has unexpected AND bit: %b", m)
	}
}
