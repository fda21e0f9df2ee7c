package symbol

import "testing"

func TestParseRoundTrip(t *testing.T) {
	for c := byte('a'); c <= 'z'; c++ {
		sym, err := Parse(c)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error: %v", c, err)
		}
		if got := sym.Char(); got != c {
			t.Errorf("Parse(%q).Char() = %q, want %q", c, got, c)
		}
	}
}

func TestParseBadSymbol(t *testing.T) {
	cases := []byte{'A', 'Z', '0', ' ', '-'}
	for _, c := range cases {
		if _, err := Parse(c); err == nil {
			t.Errorf("Parse(%q): expected error, got nil", c)
		}
	}
}

func TestParseStringAndRender(t *testing.T) {
	const s = "rutyabsvac"
	syms, err := ParseString(s)
	if err != nil {
		t.Fatalf("ParseString(%q): unexpected error: %v", s, err)
	}
	if got := Render(syms); got != s {
		t.Errorf("Render(ParseString(%q)) = %q, want %q", s, got, s)
	}
}

func TestParseStringFailsOnFirstBadChar(t *testing.T) {
	if _, err := ParseString("abcX"); err == nil {
		t.Errorf("ParseString(\"abcX\"): expected error, got nil")
	}
}

func TestIsNop(t *testing.T) {
	for _, s := range []Symbol{NopA, NopB, NopC} {
		if !s.IsNop() {
			t.Errorf("%v.IsNop() = false, want true", s)
		}
	}
	if HAlloc.IsNop() {
		t.Errorf("HAlloc.IsNop() = true, want false")
	}
}

func TestComplementCycle(t *testing.T) {
	want := map[Symbol]Symbol{NopA: NopB, NopB: NopC, NopC: NopA}
	for s, w := range want {
		got, ok := s.Complement()
		if !ok {
			t.Fatalf("%v.Complement(): ok = false, want true", s)
		}
		if got != w {
			t.Errorf("%v.Complement() = %v, want %v", s, got, w)
		}
	}
	if _, ok := HAlloc.Complement(); ok {
		t.Errorf("HAlloc.Complement(): ok = true, want false")
	}
}

func TestComplementTemplate(t *testing.T) {
	tmpl := []Symbol{NopA, NopA, NopB}
	want := []Symbol{NopB, NopB, NopC}
	got := ComplementTemplate(tmpl)
	if !Equal(got, want) {
		t.Errorf("ComplementTemplate(%v) = %v, want %v", tmpl, got, want)
	}
}

type fixedRand struct{ n int }

func (f fixedRand) Intn(n int) int { return f.n % n }

func TestRandom(t *testing.T) {
	got := Random(fixedRand{n: 5})
	if got != Symbol(5) {
		t.Errorf("Random(fixedRand{5}) = %v, want %v", got, Symbol(5))
	}
}
