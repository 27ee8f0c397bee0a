package complement

import (
	"strings"
	"testing"

	"github.com/ha1tch/omega-toolkit/pkg/buchi"
	"github.com/ha1tch/omega-toolkit/pkg/symbol"
)

// The tests below model the two-letter alphabet {a, b} with one atomic
// proposition: the letter a is the valuation where it holds, b its
// negation.

// universalAcc is the one-state automaton accepting every word: a true
// self-loop marked accepting.
func universalAcc(d *symbol.Dict) *buchi.Automaton {
	aut := buchi.New(d)
	aut.AddStates(1)
	aut.SetInitial(0)
	aut.NewEdge(0, 0, d.True(), true)
	return aut
}

// emptyLang is the one-state automaton accepting nothing: the same
// loop without the acceptance mark.
func emptyLang(d *symbol.Dict) *buchi.Automaton {
	aut := buchi.New(d)
	aut.AddStates(1)
	aut.SetInitial(0)
	aut.NewEdge(0, 0, d.True(), false)
	return aut
}

// infinitelyOftenA accepts the words with infinitely many a-letters.
func infinitelyOftenA(d *symbol.Dict) *buchi.Automaton {
	a := d.AP(0)
	aut := buchi.New(d)
	aut.AddStates(2)
	aut.SetInitial(0)
	aut.NewEdge(0, 1, a, true)
	aut.NewEdge(0, 0, a.Not(), false)
	aut.NewEdge(1, 1, a, true)
	aut.NewEdge(1, 0, a.Not(), false)
	return aut
}

// aThenBForever accepts exactly a·b^ω.
func aThenBForever(d *symbol.Dict) *buchi.Automaton {
	a := d.AP(0)
	aut := buchi.New(d)
	aut.AddStates(2)
	aut.SetInitial(0)
	aut.NewEdge(0, 1, a, false)
	aut.NewEdge(1, 1, a.Not(), true)
	return aut
}

// lasso builds an automaton accepting exactly prefix·cycle^ω. Guards
// should be single letters.
func lasso(d *symbol.Dict, prefix, cycle []symbol.Guard) *buchi.Automaton {
	aut := buchi.New(d)
	aut.AddStates(len(prefix) + len(cycle))
	aut.SetInitial(0)
	for i, g := range prefix {
		aut.NewEdge(i, i+1, g, false)
	}
	base := len(prefix)
	for i, g := range cycle {
		dst := base + (i+1)%len(cycle)
		aut.NewEdge(base+i, dst, g, true)
	}
	return aut
}

// accepts reports whether the automaton accepts the ultimately periodic
// word prefix·cycle^ω.
func accepts(t *testing.T, aut *buchi.Automaton, prefix, cycle []symbol.Guard) bool {
	t.Helper()
	w := lasso(aut.Dict(), prefix, cycle)
	p, err := buchi.Intersection(w, aut)
	if err != nil {
		t.Fatalf("Intersection failed: %v", err)
	}
	return !buchi.IsEmpty(p)
}

// disjointFrom fails the test when the two automata share a word.
func disjointFrom(t *testing.T, a, b *buchi.Automaton, what string) {
	t.Helper()
	p, err := buchi.Intersection(a, b)
	if err != nil {
		t.Fatalf("Intersection failed: %v", err)
	}
	if !buchi.IsEmpty(p) {
		t.Errorf("%s: complement overlaps the input language", what)
	}
}

// sameAutomaton reports whether two automata are identical state for
// state and edge for edge.
func sameAutomaton(a, b *buchi.Automaton) bool {
	if a.NumStates() != b.NumStates() || a.Initial() != b.Initial() {
		return false
	}
	for s := 0; s < a.NumStates(); s++ {
		ea, eb := a.Out(s), b.Out(s)
		if len(ea) != len(eb) {
			return false
		}
		for i := range ea {
			if ea[i].Dst != eb[i].Dst || ea[i].Accepting != eb[i].Accepting ||
				!ea[i].Guard.Equal(eb[i].Guard) {
				return false
			}
		}
	}
	return true
}

// nameGroups splits a macrostate display name into its brace-delimited
// groups.
func nameGroups(name string) [][]string {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(name, "{"), "}")
	var groups [][]string
	for _, part := range strings.Split(trimmed, "},{") {
		if part == "" {
			groups = append(groups, nil)
			continue
		}
		groups = append(groups, strings.Split(part, ","))
	}
	return groups
}

// hasAcceptingTrueSelfLoop reports whether some state carries the sink
// signature: an accepting self-loop on the constant true guard.
func hasAcceptingTrueSelfLoop(a *buchi.Automaton) bool {
	for s := 0; s < a.NumStates(); s++ {
		for _, e := range a.Out(s) {
			if e.Dst == s && e.Accepting && e.Guard.IsTrue() {
				return true
			}
		}
	}
	return false
}

// outgoingCover returns the disjunction of the outgoing guards of s.
func outgoingCover(a *buchi.Automaton, s int) symbol.Guard {
	cover := a.Dict().False()
	for _, e := range a.Out(s) {
		cover = cover.Or(e.Guard)
	}
	return cover
}

// TestPreconditionErrors tests that each entry point rejects inputs
// violating its structural requirement without producing output.
func TestPreconditionErrors(t *testing.T) {
	d := symbol.MustDict("a")
	a := d.AP(0)

	// Nondeterministic after an accepting edge: not semi-deterministic.
	notSemidet := buchi.New(d)
	notSemidet.AddStates(2)
	notSemidet.SetInitial(0)
	notSemidet.NewEdge(0, 1, a, true)
	notSemidet.NewEdge(1, 0, d.True(), false)
	notSemidet.NewEdge(1, 1, d.True(), false)

	for name, f := range map[string]func(*buchi.Automaton, bool) (*buchi.Automaton, error){
		"ComplementSemidet":            ComplementSemidet,
		"ComplementSemidetOpt":         ComplementSemidetOpt,
		"ComplementSemidetOnTheFly":    ComplementSemidetOnTheFly,
		"ComplementSemidetOptOnTheFly": ComplementSemidetOptOnTheFly,
		"NewComplementSemidet":         NewComplementSemidet,
	} {
		res, err := f(notSemidet, false)
		if err == nil {
			t.Errorf("%s should reject a non-semi-deterministic input", name)
		}
		if _, ok := err.(*PreconditionError); !ok {
			t.Errorf("%s returned %T, want *PreconditionError", name, err)
		}
		if res != nil {
			t.Errorf("%s should not produce partial output", name)
		}
	}

	// Two accepting runs on a^ω: ambiguous.
	ambiguous := buchi.New(d)
	ambiguous.AddStates(2)
	ambiguous.SetInitial(0)
	ambiguous.NewEdge(0, 0, a, true)
	ambiguous.NewEdge(0, 1, a, false)
	ambiguous.NewEdge(1, 1, a, true)

	res, err := ComplementUnambiguous(ambiguous, false)
	if err == nil {
		t.Error("ComplementUnambiguous should reject an ambiguous input")
	}
	if _, ok := err.(*PreconditionError); !ok {
		t.Errorf("got %T, want *PreconditionError", err)
	}
	if res != nil {
		t.Error("no partial output expected")
	}
}
