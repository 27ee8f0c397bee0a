package complement

import (
	"strconv"
	"strings"

	"github.com/ha1tch/omega-toolkit/pkg/buchi"
	"github.com/ha1tch/omega-toolkit/pkg/symbol"
)

// NCSB labels. C and CB share the C bit so that "in the check set" is a
// mask test covering both C and the breakpoint CB.
const (
	ncsbM  byte = 0 // absent
	ncsbN  byte = 1 // nondeterministic part
	ncsbC  byte = 2 // check: committed to the deterministic continuation
	ncsbB  byte = 4
	ncsbCB byte = ncsbC | ncsbB // breakpoint within C
	ncsbS  byte = 8             // safe: must avoid accepting edges forever
)

// ncsb explores the NCSB macrostate space of a semi-deterministic input.
// The optb and onTheFly policies are fixed at construction and never
// change during run.
type ncsb struct {
	aut      *buchi.Automaton
	scc      *buchi.SCCInfo
	n        int
	info     *stateInfo
	ex       *explorer
	isDeter  []bool
	optb     bool
	onTheFly bool
}

func newNCSB(aut *buchi.Automaton, res Builder, showNames, optb, onTheFly bool) *ncsb {
	c := &ncsb{
		aut:      aut,
		scc:      buchi.NewSCCInfo(aut),
		n:        aut.NumStates(),
		info:     newStateInfo(aut),
		optb:     optb,
		onTheFly: onTheFly,
	}
	c.ex = newExplorer(res, showNames, c.name)

	// A single initial state necessarily sits in the N part.
	init := make(macrostate, c.n)
	init[aut.Initial()] = ncsbN
	res.SetInitial(c.ex.state(init))
	return c
}

func (c *ncsb) name(ms macrostate) string {
	var sb strings.Builder
	group := func(member func(byte) bool) {
		sb.WriteByte('{')
		first := true
		for i, l := range ms {
			if l == ncsbM || !member(l) {
				continue
			}
			if !first {
				sb.WriteByte(',')
			}
			first = false
			sb.WriteString(strconv.Itoa(i))
		}
		sb.WriteByte('}')
	}
	group(func(l byte) bool { return l == ncsbN })
	sb.WriteByte(',')
	group(func(l byte) bool { return l&ncsbC != 0 })
	sb.WriteByte(',')
	group(func(l byte) bool { return l == ncsbS })
	sb.WriteByte(',')
	group(func(l byte) bool { return l == ncsbCB })
	return sb.String()
}

func (c *ncsb) run() {
	if !c.onTheFly {
		c.isDeter = make([]bool, c.scc.NumSCCs())
		for i := range c.isDeter {
			c.isDeter[i] = c.scc.InDeterministicPart(i)
		}
	}

	for {
		ms, origin, ok := c.ex.pop()
		if !ok {
			break
		}

		// The letter domain: states that could still virtually move to S
		// (N, S, C, or all-accepting) contribute by disjunction; the
		// remaining breakpoint states constrain it by conjunction.
		var msupport uint32
		xCompat := c.aut.Dict().False()
		yCompat := c.aut.Dict().True()
		yEmpty := true
		for i := 0; i < c.n; i++ {
			if ms[i] == ncsbM {
				continue
			}
			msupport |= c.info.support[i]
			if ms[i] == ncsbN || ms[i] == ncsbS || ms[i] == ncsbC || c.info.allAccepting[i] {
				xCompat = xCompat.Or(c.info.compat[i])
			} else {
				yEmpty = false
				yCompat = yCompat.And(c.info.compat[i])
			}
		}

		var all symbol.Guard
		if !yEmpty {
			all = yCompat
		} else {
			all = xCompat
			if !all.IsTrue() {
				// Letters outside the domain kill every run of the input,
				// so the complement accepts them via the sink.
				sink := make(macrostate, c.n)
				c.ex.res.NewEdge(origin, c.ex.state(sink), all.Not(), true)
			}
		}
		for !all.IsFalse() {
			one := all.SatOne(msupport)
			all = all.Diff(one)
			c.successors(ms, origin, one)
		}
	}

	c.ex.res.MergeEdges()
}

// successors computes the NCSB successors of ms under one letter and
// emits them. The source macrostate is read-only; branching clones the
// candidate successors instead.
func (c *ncsb) successors(ms macrostate, origin int, letter symbol.Guard) {
	succs := []macrostate{make(macrostate, c.n)}
	accSuccs := []bool{false}

	// S states first: escape early when the letter forces a safe state
	// through an accepting transition.
	for i := 0; i < c.n; i++ {
		if ms[i] != ncsbS {
			continue
		}
		for _, t := range c.aut.Out(i) {
			if !letter.Implies(t.Guard) {
				continue
			}
			if t.Accepting || c.info.allAccepting[t.Dst] {
				return
			}
			succs[0][t.Dst] = ncsbS
			// Deterministic part: at most one compatible edge per state.
			break
		}
	}

	// Successors that were placed into C' by the check set. Frozen at the
	// end of this phase; the optb breakpoint only promotes these.
	fromC := make([]bool, c.n)

	// C states, including the breakpoint.
	for i := 0; i < c.n; i++ {
		if ms[i]&ncsbC == 0 {
			continue
		}
		for _, t := range c.aut.Out(i) {
			if !letter.Implies(t.Guard) {
				continue
			}
			// States already claimed by S' stay out of C'.
			if succs[0][t.Dst] == ncsbM {
				succs[0][t.Dst] = ncsbC
				if c.optb {
					fromC[t.Dst] = true
				}
			}
			break
		}
	}

	// N states.
	for i := 0; i < c.n; i++ {
		if ms[i] != ncsbN {
			continue
		}
		for _, t := range c.aut.Out(i) {
			if !letter.Implies(t.Guard) {
				continue
			}
			if c.onTheFly {
				// Without SCC information the acceptance bit decides what
				// enters the deterministic continuation.
				if t.Accepting {
					if succs[0][t.Dst] == ncsbM {
						succs[0][t.Dst] = ncsbC
					}
				} else {
					for _, succ := range succs {
						if succ[t.Dst] == ncsbM {
							succ[t.Dst] = ncsbN
						}
					}
				}
			} else {
				if c.isDeter[c.scc.SCCOf(t.Dst)] {
					if succs[0][t.Dst] == ncsbM {
						succs[0][t.Dst] = ncsbC
					}
				} else {
					for _, succ := range succs {
						succ[t.Dst] = ncsbN
					}
				}
			}
		}
	}

	// Breakpoint states, first pass: move their successors that remained
	// in C' into B', and kill the letter when a breakpoint run dies.
	for i := 0; i < c.n; i++ {
		if ms[i] != ncsbCB {
			continue
		}
		hasSucc := false
		for _, t := range c.aut.Out(i) {
			if !letter.Implies(t.Guard) {
				continue
			}
			hasSucc = true
			if succs[0][t.Dst] == ncsbC {
				succs[0][t.Dst] = ncsbCB
			}
			// A non-accepting move into S' means the source should have
			// been safe already; the letter contributes nothing.
			if !t.Accepting && succs[0][t.Dst] == ncsbS {
				return
			}
			break
		}
		if !hasSucc && !c.info.allAccepting[i] {
			return
		}
	}

	// Second pass: a target reached by an accepting breakpoint edge may
	// instead be guessed safe, branching the successor set.
	for i := 0; i < c.n; i++ {
		if ms[i] != ncsbCB {
			continue
		}
		for _, t := range c.aut.Out(i) {
			if !letter.Implies(t.Guard) {
				continue
			}
			if t.Accepting {
				length := len(succs)
				for j := 0; j < length; j++ {
					if succs[j][t.Dst] == ncsbCB && !c.info.allAccepting[t.Dst] {
						dup := cloneMacrostate(succs[j])
						dup[t.Dst] = ncsbS
						succs = append(succs, dup)
						accSuccs = append(accSuccs, false)
					}
				}
			}
		}
	}

	// Breakpoint check: candidates whose B' emptied take an accepting
	// edge and refill B' from C', branching each refilled state into a
	// safe guess as well.
	length := len(succs)
	for j := 0; j < length; j++ {
		bEmpty := true
		for i := 0; i < c.n; i++ {
			if succs[j][i] == ncsbCB {
				bEmpty = false
				break
			}
		}
		if !bEmpty {
			continue
		}

		for i := 0; i < c.n; i++ {
			if c.optb {
				// Only states that remain in C' from the check set are
				// promoted; branched-to-B' states may no longer be in C'.
				if !fromC[i] || succs[j][i] != ncsbC {
					continue
				}
			} else {
				if succs[j][i] != ncsbC {
					continue
				}
			}
			succs[j][i] = ncsbCB
		}
		accSuccs[j] = true

		newSuccs := []macrostate{succs[j]}
		for i := 0; i < c.n; i++ {
			if c.optb {
				if succs[j][i] != ncsbC && succs[j][i] != ncsbCB {
					continue
				}
			} else {
				if succs[j][i] != ncsbCB {
					continue
				}
			}
			kLength := len(newSuccs)
			for k := 0; k < kLength; k++ {
				if c.info.allAccepting[i] {
					continue
				}
				dup := cloneMacrostate(newSuccs[k])
				dup[i] = ncsbS
				newSuccs = append(newSuccs, dup)
			}
			succs[j] = newSuccs[0]
			for k := 1; k < len(newSuccs); k++ {
				succs = append(succs, newSuccs[k])
				accSuccs = append(accSuccs, true)
			}
		}
	}

	for j := 0; j < len(succs); j++ {
		dst := c.ex.state(succs[j])
		c.ex.res.NewEdge(origin, dst, letter, accSuccs[j])
	}
}
