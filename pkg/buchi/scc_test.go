package buchi

import (
	"testing"

	"github.com/ha1tch/omega-toolkit/pkg/symbol"
)

// TestSCCDecomposition tests Tarjan on a two-component automaton.
func TestSCCDecomposition(t *testing.T) {
	d := symbol.MustDict("a")
	a := d.AP(0)

	// 0 <-> 1 form one SCC, 2 a trivial one downstream.
	aut := New(d)
	aut.AddStates(3)
	aut.SetInitial(0)
	aut.NewEdge(0, 1, a, false)
	aut.NewEdge(1, 0, a.Not(), false)
	aut.NewEdge(1, 2, a, false)
	aut.NewEdge(2, 2, d.True(), true)

	si := NewSCCInfo(aut)
	if si.NumSCCs() != 2 {
		t.Fatalf("NumSCCs = %d, want 2", si.NumSCCs())
	}
	if si.SCCOf(0) != si.SCCOf(1) {
		t.Error("states 0 and 1 should share a component")
	}
	if si.SCCOf(2) == si.SCCOf(0) {
		t.Error("state 2 should be its own component")
	}
}

// TestSCCAccepting tests the accepting-component predicate.
func TestSCCAccepting(t *testing.T) {
	d := symbol.MustDict("a")

	// Accepting edge inside the loop of state 1; the edge 0->1 is
	// accepting but crosses components, so component 0 stays rejecting.
	aut := New(d)
	aut.AddStates(2)
	aut.SetInitial(0)
	aut.NewEdge(0, 1, d.True(), true)
	aut.NewEdge(1, 1, d.True(), true)

	si := NewSCCInfo(aut)
	if si.IsAccepting(si.SCCOf(0)) {
		t.Error("component of state 0 has no internal accepting edge")
	}
	if !si.IsAccepting(si.SCCOf(1)) {
		t.Error("component of state 1 should be accepting")
	}
}

// TestDeterministicPart tests the accepting-reachable region used for
// N-successor routing.
func TestDeterministicPart(t *testing.T) {
	d := symbol.MustDict("a")
	a := d.AP(0)

	// 0 guesses, the accepting edge enters the tail 1 -> 1.
	aut := New(d)
	aut.AddStates(2)
	aut.SetInitial(0)
	aut.NewEdge(0, 0, d.True(), false)
	aut.NewEdge(0, 1, a, true)
	aut.NewEdge(1, 1, a, false)

	si := NewSCCInfo(aut)
	if si.InDeterministicPart(si.SCCOf(0)) {
		t.Error("state 0 is not reachable from an accepting edge")
	}
	if !si.InDeterministicPart(si.SCCOf(1)) {
		t.Error("state 1 should be in the deterministic part")
	}
}
