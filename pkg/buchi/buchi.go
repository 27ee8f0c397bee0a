// Package buchi provides transition-based Büchi omega-automata and the
// structural analyses the complementation algorithms depend on.
package buchi

import (
	"fmt"
	"strings"

	"github.com/ha1tch/omega-toolkit/pkg/symbol"
)

// Edge is one labeled transition. Acceptance sits on edges: a run is
// accepting when it crosses accepting edges infinitely often.
type Edge struct {
	Dst       int
	Guard     symbol.Guard
	Accepting bool
}

// Automaton is a nondeterministic Büchi automaton with symbolic guards.
// States are dense integers starting at 0.
type Automaton struct {
	Name string

	dict    *symbol.Dict
	edges   [][]Edge
	initial int
	names   []string
}

// New creates an empty automaton over the given dictionary.
func New(d *symbol.Dict) *Automaton {
	return &Automaton{dict: d, initial: -1}
}

// Dict returns the atomic-proposition dictionary.
func (a *Automaton) Dict() *symbol.Dict { return a.dict }

// NumStates returns the number of states.
func (a *Automaton) NumStates() int { return len(a.edges) }

// NewState allocates a new state and returns its id.
func (a *Automaton) NewState() int {
	a.edges = append(a.edges, nil)
	return len(a.edges) - 1
}

// AddStates allocates n new states.
func (a *Automaton) AddStates(n int) {
	for i := 0; i < n; i++ {
		a.NewState()
	}
}

// SetInitial sets the initial state.
func (a *Automaton) SetInitial(s int) { a.initial = s }

// Initial returns the initial state, or -1 if unset.
func (a *Automaton) Initial() int { return a.initial }

// NewEdge adds a transition from src to dst under the given guard.
func (a *Automaton) NewEdge(src, dst int, g symbol.Guard, accepting bool) {
	a.edges[src] = append(a.edges[src], Edge{Dst: dst, Guard: g, Accepting: accepting})
}

// Out returns the outgoing edges of s. The slice is owned by the
// automaton and must not be modified.
func (a *Automaton) Out(s int) []Edge { return a.edges[s] }

// SetStateName attaches a display name to a state.
func (a *Automaton) SetStateName(s int, name string) {
	for len(a.names) < len(a.edges) {
		a.names = append(a.names, "")
	}
	a.names[s] = name
}

// StateName returns the display name of s, or its numeric id.
func (a *Automaton) StateName(s int) string {
	if s < len(a.names) && a.names[s] != "" {
		return a.names[s]
	}
	return fmt.Sprintf("%d", s)
}

// HasStateNames reports whether any state carries a display name.
func (a *Automaton) HasStateNames() bool {
	for _, n := range a.names {
		if n != "" {
			return true
		}
	}
	return false
}

// MergeEdges or-joins parallel edges that share source, destination and
// acceptance, and drops edges with unsatisfiable guards.
func (a *Automaton) MergeEdges() {
	for s := range a.edges {
		type key struct {
			dst int
			acc bool
		}
		merged := make(map[key]symbol.Guard)
		var order []key
		for _, e := range a.edges[s] {
			if e.Guard.IsFalse() {
				continue
			}
			k := key{e.Dst, e.Accepting}
			if g, ok := merged[k]; ok {
				merged[k] = g.Or(e.Guard)
			} else {
				merged[k] = e.Guard
				order = append(order, k)
			}
		}
		out := make([]Edge, 0, len(order))
		for _, k := range order {
			out = append(out, Edge{Dst: k.dst, Guard: merged[k], Accepting: k.acc})
		}
		a.edges[s] = out
	}
}

// NumEdges returns the total number of transitions.
func (a *Automaton) NumEdges() int {
	n := 0
	for _, out := range a.edges {
		n += len(out)
	}
	return n
}

// Validate checks that the automaton is well-formed.
func (a *Automaton) Validate() error {
	if a.dict == nil {
		return fmt.Errorf("automaton has no dictionary")
	}
	if len(a.edges) == 0 {
		return fmt.Errorf("automaton has no states")
	}
	if a.initial < 0 || a.initial >= len(a.edges) {
		return fmt.Errorf("initial state %d out of range", a.initial)
	}
	for s, out := range a.edges {
		for i, e := range out {
			if e.Dst < 0 || e.Dst >= len(a.edges) {
				return fmt.Errorf("state %d edge %d: destination %d out of range", s, i, e.Dst)
			}
			if e.Guard.Dict() != a.dict {
				return fmt.Errorf("state %d edge %d: guard built over a different dictionary", s, i)
			}
		}
	}
	return nil
}

// String returns a short description of the automaton.
func (a *Automaton) String() string {
	var sb strings.Builder
	name := a.Name
	if name == "" {
		name = "buchi"
	}
	sb.WriteString(fmt.Sprintf("NBA[%s]\n", name))
	sb.WriteString(fmt.Sprintf("  APs:    %v\n", a.dict.Names()))
	sb.WriteString(fmt.Sprintf("  States: %d\n", a.NumStates()))
	sb.WriteString(fmt.Sprintf("  Edges:  %d\n", a.NumEdges()))
	sb.WriteString(fmt.Sprintf("  Initial: %d\n", a.initial))
	return sb.String()
}
