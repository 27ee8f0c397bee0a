package buchi

import "fmt"

// Intersection builds an automaton accepting L(a) ∩ L(b) with the usual
// two-phase degeneralized product: phase 0 waits for an accepting edge of
// a, phase 1 for one of b; completing a round marks the edge accepting.
// Both automata must share the same dictionary.
func Intersection(a, b *Automaton) (*Automaton, error) {
	if a.Dict() != b.Dict() {
		return nil, fmt.Errorf("intersection requires a shared dictionary")
	}

	type pstate struct {
		p, q, phase int
	}
	res := New(a.Dict())
	res.Name = "intersection"
	ids := make(map[pstate]int)
	var todo []pstate
	state := func(ps pstate) int {
		if id, ok := ids[ps]; ok {
			return id
		}
		id := res.NewState()
		ids[ps] = id
		todo = append(todo, ps)
		return id
	}

	res.SetInitial(state(pstate{a.Initial(), b.Initial(), 0}))
	for len(todo) > 0 {
		ps := todo[0]
		todo = todo[1:]
		src := ids[ps]
		for _, e1 := range a.Out(ps.p) {
			for _, e2 := range b.Out(ps.q) {
				g := e1.Guard.And(e2.Guard)
				if g.IsFalse() {
					continue
				}
				phase := ps.phase
				accepting := false
				if phase == 0 && e1.Accepting {
					phase = 1
				}
				if phase == 1 && e2.Accepting {
					phase = 0
					accepting = true
				}
				res.NewEdge(src, state(pstate{e1.Dst, e2.Dst, phase}), g, accepting)
			}
		}
	}
	res.MergeEdges()
	return res, nil
}

// IsEmpty reports whether the automaton accepts no word: true unless some
// component reachable from the initial state contains an accepting edge
// between two of its own states.
func IsEmpty(a *Automaton) bool {
	reach := make([]bool, a.NumStates())
	queue := []int{a.Initial()}
	reach[a.Initial()] = true
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, e := range a.Out(s) {
			if e.Guard.IsFalse() {
				continue
			}
			if !reach[e.Dst] {
				reach[e.Dst] = true
				queue = append(queue, e.Dst)
			}
		}
	}
	si := NewSCCInfo(a)
	for s := 0; s < a.NumStates(); s++ {
		if !reach[s] {
			continue
		}
		for _, e := range a.Out(s) {
			if e.Accepting && !e.Guard.IsFalse() && si.SCCOf(e.Dst) == si.SCCOf(s) {
				return false
			}
		}
	}
	return true
}
