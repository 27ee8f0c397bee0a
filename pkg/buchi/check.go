package buchi

// IsSemiDeterministic reports whether every state reachable from the
// destination of an accepting edge behaves deterministically, i.e. no two
// of its outgoing edges share a satisfying valuation.
func IsSemiDeterministic(a *Automaton) bool {
	si := NewSCCInfo(a)
	reach := si.reachableFromAccepting()
	for s := 0; s < a.NumStates(); s++ {
		if !reach[s] {
			continue
		}
		out := a.Out(s)
		for i := 0; i < len(out); i++ {
			for j := i + 1; j < len(out); j++ {
				if out[i].Guard.Overlaps(out[j].Guard) {
					return false
				}
			}
		}
	}
	return true
}

// IsUnambiguous reports whether every accepted word has exactly one
// accepting run. The check explores the self-product of the automaton:
// the input is ambiguous iff a pair of runs that have diverged can both
// keep visiting accepting edges, i.e. some reachable product component of
// diverged pairs carries accepting edges of both copies.
func IsUnambiguous(a *Automaton) bool {
	type pstate struct {
		p, q     int
		diverged bool
	}
	ids := make(map[pstate]int)
	var states []pstate
	state := func(ps pstate) (int, bool) {
		if id, ok := ids[ps]; ok {
			return id, false
		}
		id := len(states)
		ids[ps] = id
		states = append(states, ps)
		return id, true
	}

	type pedge struct {
		dst        int
		acc1, acc2 bool
	}
	var edges [][]pedge

	init, _ := state(pstate{a.Initial(), a.Initial(), false})
	queue := []int{init}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for len(edges) <= id {
			edges = append(edges, nil)
		}
		ps := states[id]
		out1 := a.Out(ps.p)
		out2 := a.Out(ps.q)
		for i, e1 := range out1 {
			for j, e2 := range out2 {
				if !e1.Guard.Overlaps(e2.Guard) {
					continue
				}
				div := ps.diverged || e1.Dst != e2.Dst || (ps.p == ps.q && i != j)
				dst, fresh := state(pstate{e1.Dst, e2.Dst, div})
				edges[id] = append(edges[id], pedge{dst: dst, acc1: e1.Accepting, acc2: e2.Accepting})
				if fresh {
					queue = append(queue, dst)
				}
			}
		}
	}

	// Tarjan over the product, then look for a diverged component with
	// internal accepting edges of both copies.
	n := len(states)
	const unvisited = -1
	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	sccOf := make([]int, n)
	for i := range index {
		index[i] = unvisited
	}
	var stack []int
	next, count := 0, 0
	type frame struct {
		state int
		edge  int
	}
	for root := 0; root < n; root++ {
		if index[root] != unvisited {
			continue
		}
		frames := []frame{{state: root}}
		index[root] = next
		lowlink[root] = next
		next++
		stack = append(stack, root)
		onStack[root] = true
		for len(frames) > 0 {
			f := &frames[len(frames)-1]
			s := f.state
			if f.edge < len(edges[s]) {
				dst := edges[s][f.edge].dst
				f.edge++
				if index[dst] == unvisited {
					index[dst] = next
					lowlink[dst] = next
					next++
					stack = append(stack, dst)
					onStack[dst] = true
					frames = append(frames, frame{state: dst})
				} else if onStack[dst] && index[dst] < lowlink[s] {
					lowlink[s] = index[dst]
				}
				continue
			}
			frames = frames[:len(frames)-1]
			if len(frames) > 0 {
				parent := frames[len(frames)-1].state
				if lowlink[s] < lowlink[parent] {
					lowlink[parent] = lowlink[s]
				}
			}
			if lowlink[s] == index[s] {
				for {
					top := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[top] = false
					sccOf[top] = count
					if top == s {
						break
					}
				}
				count++
			}
		}
	}

	acc1InSCC := make([]bool, count)
	acc2InSCC := make([]bool, count)
	divergedSCC := make([]bool, count)
	for s := 0; s < n; s++ {
		c := sccOf[s]
		if states[s].diverged {
			divergedSCC[c] = true
		}
		for _, e := range edges[s] {
			if sccOf[e.dst] != c {
				continue
			}
			if e.acc1 {
				acc1InSCC[c] = true
			}
			if e.acc2 {
				acc2InSCC[c] = true
			}
		}
	}
	for c := 0; c < count; c++ {
		if divergedSCC[c] && acc1InSCC[c] && acc2InSCC[c] {
			return false
		}
	}
	return true
}
