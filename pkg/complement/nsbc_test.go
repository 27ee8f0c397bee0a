package complement

import (
	"testing"

	"github.com/ha1tch/omega-toolkit/pkg/buchi"
	"github.com/ha1tch/omega-toolkit/pkg/symbol"
)

// TestNSBCUniversalInput tests the complement of the universal language.
func TestNSBCUniversalInput(t *testing.T) {
	d := symbol.MustDict("a")

	res, err := NewComplementSemidet(universalAcc(d), false)
	if err != nil {
		t.Fatalf("NewComplementSemidet failed: %v", err)
	}
	if !buchi.IsEmpty(res) {
		t.Error("complement of the universal language should be empty")
	}
}

// TestNSBCEmptyInput tests the complement of the empty language.
func TestNSBCEmptyInput(t *testing.T) {
	d := symbol.MustDict("a")
	a := d.AP(0)

	res, err := NewComplementSemidet(emptyLang(d), false)
	if err != nil {
		t.Fatalf("NewComplementSemidet failed: %v", err)
	}
	if buchi.IsEmpty(res) {
		t.Error("complement of the empty language should be universal")
	}
	if !accepts(t, res, nil, []symbol.Guard{a}) {
		t.Error("a^ω should be accepted")
	}
	if !accepts(t, res, nil, []symbol.Guard{a, a.Not()}) {
		t.Error("(ab)^ω should be accepted")
	}
}

// TestNSBCInfinitelyOftenA tests the complement language against a word
// battery.
func TestNSBCInfinitelyOftenA(t *testing.T) {
	d := symbol.MustDict("a")
	a := d.AP(0)
	b := a.Not()

	in := infinitelyOftenA(d)
	res, err := NewComplementSemidet(in, false)
	if err != nil {
		t.Fatalf("NewComplementSemidet failed: %v", err)
	}
	disjointFrom(t, in, res, "nsbc")

	tests := []struct {
		desc   string
		prefix []symbol.Guard
		cycle  []symbol.Guard
		want   bool
	}{
		{"b^ω", nil, []symbol.Guard{b}, true},
		{"ab^ω", []symbol.Guard{a}, []symbol.Guard{b}, true},
		{"a^ω", nil, []symbol.Guard{a}, false},
		{"(ab)^ω", nil, []symbol.Guard{a, b}, false},
	}
	for _, tt := range tests {
		if got := accepts(t, res, tt.prefix, tt.cycle); got != tt.want {
			t.Errorf("accepts(%s) = %v, want %v", tt.desc, got, tt.want)
		}
	}
}

// TestNSBCAThenBForever tests the complement of a·b^ω.
func TestNSBCAThenBForever(t *testing.T) {
	d := symbol.MustDict("a")
	a := d.AP(0)
	b := a.Not()

	in := aThenBForever(d)
	res, err := NewComplementSemidet(in, false)
	if err != nil {
		t.Fatalf("NewComplementSemidet failed: %v", err)
	}
	disjointFrom(t, in, res, "nsbc")

	if !hasAcceptingTrueSelfLoop(res) {
		t.Error("sink expected for a partial letter domain")
	}
	if !accepts(t, res, nil, []symbol.Guard{b}) {
		t.Error("b^ω should be accepted")
	}
	if !accepts(t, res, nil, []symbol.Guard{a}) {
		t.Error("a^ω should be accepted")
	}
	if accepts(t, res, []symbol.Guard{a}, []symbol.Guard{b}) {
		t.Error("ab^ω should be rejected")
	}
}

// TestNSBCStateNames tests the {I},{N},{S},{B},{C} rendering.
func TestNSBCStateNames(t *testing.T) {
	d := symbol.MustDict("a")

	res, err := NewComplementSemidet(infinitelyOftenA(d), true)
	if err != nil {
		t.Fatalf("NewComplementSemidet failed: %v", err)
	}
	if got := res.StateName(res.Initial()); got != "{i0},{},{},{},{}" {
		t.Errorf("initial macrostate name = %q, want {i0},{},{},{},{}", got)
	}
	for s := 0; s < res.NumStates(); s++ {
		if groups := nameGroups(res.StateName(s)); len(groups) != 5 {
			t.Fatalf("state %d name %q: want 5 groups", s, res.StateName(s))
		}
	}
}

// TestNSBCBreakpointChain tests that a nonempty breakpoint group stays
// nonempty across non-accepting edges: the rank-decrease proof only
// resets on colored edges.
func TestNSBCBreakpointChain(t *testing.T) {
	d := symbol.MustDict("a")

	res, err := NewComplementSemidet(infinitelyOftenA(d), true)
	if err != nil {
		t.Fatalf("NewComplementSemidet failed: %v", err)
	}
	for s := 0; s < res.NumStates(); s++ {
		src := nameGroups(res.StateName(s))
		if len(src[3]) == 0 {
			continue
		}
		for _, e := range res.Out(s) {
			if e.Accepting {
				continue
			}
			dst := nameGroups(res.StateName(e.Dst))
			if len(dst[3]) == 0 {
				t.Errorf("non-accepting edge %d->%d empties the breakpoint group", s, e.Dst)
			}
		}
	}
}

// TestNSBCExhaustiveCover tests per-state guard coverage.
func TestNSBCExhaustiveCover(t *testing.T) {
	d := symbol.MustDict("a")

	for _, in := range []*buchi.Automaton{
		universalAcc(d), emptyLang(d), infinitelyOftenA(d), aThenBForever(d),
	} {
		res, err := NewComplementSemidet(in, false)
		if err != nil {
			t.Fatalf("NewComplementSemidet failed: %v", err)
		}
		for s := 0; s < res.NumStates(); s++ {
			if !outgoingCover(res, s).IsTrue() {
				t.Errorf("state %d guards do not cover the alphabet", s)
			}
		}
	}
}

// TestNSBCDeterministicOutput tests reproducibility.
func TestNSBCDeterministicOutput(t *testing.T) {
	d := symbol.MustDict("a")

	first, err := NewComplementSemidet(infinitelyOftenA(d), true)
	if err != nil {
		t.Fatalf("NewComplementSemidet failed: %v", err)
	}
	second, err := NewComplementSemidet(infinitelyOftenA(d), true)
	if err != nil {
		t.Fatalf("NewComplementSemidet failed: %v", err)
	}
	if !sameAutomaton(first, second) {
		t.Error("two constructions differ")
	}
}
