package buchi

import (
	"testing"

	"github.com/ha1tch/omega-toolkit/pkg/symbol"
)

// infinitelyOftenA builds the automaton accepting words with infinitely
// many a-letters: both states loop, the a-edges accept.
func infinitelyOftenA(d *symbol.Dict) *Automaton {
	a := d.AP(0)
	aut := New(d)
	aut.AddStates(2)
	aut.SetInitial(0)
	aut.NewEdge(0, 1, a, true)
	aut.NewEdge(0, 0, a.Not(), false)
	aut.NewEdge(1, 1, a, true)
	aut.NewEdge(1, 0, a.Not(), false)
	return aut
}

// finitelyOftenA builds the automaton accepting words that eventually
// read only !a.
func finitelyOftenA(d *symbol.Dict) *Automaton {
	a := d.AP(0)
	aut := New(d)
	aut.AddStates(2)
	aut.SetInitial(0)
	aut.NewEdge(0, 0, d.True(), false)
	aut.NewEdge(0, 1, a.Not(), false)
	aut.NewEdge(1, 1, a.Not(), true)
	return aut
}

// TestAutomatonBasics tests state and edge management.
func TestAutomatonBasics(t *testing.T) {
	d := symbol.MustDict("a")
	aut := New(d)

	s0 := aut.NewState()
	s1 := aut.NewState()
	if s0 != 0 || s1 != 1 {
		t.Fatalf("unexpected state ids %d, %d", s0, s1)
	}
	aut.SetInitial(s0)
	aut.NewEdge(s0, s1, d.AP(0), true)

	if aut.NumStates() != 2 {
		t.Errorf("NumStates = %d, want 2", aut.NumStates())
	}
	if aut.NumEdges() != 1 {
		t.Errorf("NumEdges = %d, want 1", aut.NumEdges())
	}
	if len(aut.Out(s0)) != 1 || aut.Out(s0)[0].Dst != s1 {
		t.Error("Out(s0) should contain the edge to s1")
	}
	if err := aut.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

// TestStateNames tests display names.
func TestStateNames(t *testing.T) {
	d := symbol.MustDict("a")
	aut := New(d)
	aut.AddStates(2)
	aut.SetInitial(0)

	if aut.HasStateNames() {
		t.Error("fresh automaton should have no names")
	}
	if got := aut.StateName(1); got != "1" {
		t.Errorf("unnamed state renders as %q, want \"1\"", got)
	}
	aut.SetStateName(1, "{0},{1}")
	if !aut.HasStateNames() {
		t.Error("HasStateNames should be true after SetStateName")
	}
	if got := aut.StateName(1); got != "{0},{1}" {
		t.Errorf("StateName = %q", got)
	}
}

// TestMergeEdges tests that parallel edges merge per acceptance class
// and unsatisfiable edges are dropped.
func TestMergeEdges(t *testing.T) {
	d := symbol.MustDict("a", "b")
	a := d.AP(0)
	b := d.AP(1)

	aut := New(d)
	aut.AddStates(2)
	aut.SetInitial(0)
	aut.NewEdge(0, 1, a, false)
	aut.NewEdge(0, 1, b, false)
	aut.NewEdge(0, 1, a.And(b), true) // different acceptance: kept apart
	aut.NewEdge(0, 0, d.False(), false)

	aut.MergeEdges()

	out := aut.Out(0)
	if len(out) != 2 {
		t.Fatalf("got %d edges after merge, want 2", len(out))
	}
	var plain, accepting *Edge
	for i := range out {
		if out[i].Accepting {
			accepting = &out[i]
		} else {
			plain = &out[i]
		}
	}
	if plain == nil || !plain.Guard.Equal(a.Or(b)) {
		t.Error("non-accepting edges should merge to a | b")
	}
	if accepting == nil || !accepting.Guard.Equal(a.And(b)) {
		t.Error("accepting edge should survive unmerged")
	}
}

// TestValidateErrors tests malformed automata.
func TestValidateErrors(t *testing.T) {
	d := symbol.MustDict("a")

	empty := New(d)
	if err := empty.Validate(); err == nil {
		t.Error("empty automaton should fail validation")
	}

	noInit := New(d)
	noInit.AddStates(1)
	if err := noInit.Validate(); err == nil {
		t.Error("automaton without initial state should fail validation")
	}

	other := symbol.MustDict("b")
	wrongDict := New(d)
	wrongDict.AddStates(1)
	wrongDict.SetInitial(0)
	wrongDict.NewEdge(0, 0, other.True(), false)
	if err := wrongDict.Validate(); err == nil {
		t.Error("foreign-dictionary guard should fail validation")
	}
}
