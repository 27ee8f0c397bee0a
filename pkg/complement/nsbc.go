package complement

import (
	"strconv"
	"strings"

	"github.com/ha1tch/omega-toolkit/pkg/buchi"
	"github.com/ha1tch/omega-toolkit/pkg/symbol"
)

// NSBC labels, all distinct: I is the subset phase, N the
// nondeterministic part, S the safe candidates, B the breakpoint and C
// the check set.
const (
	nsbcM byte = 0
	nsbcI byte = 1
	nsbcN byte = 2
	nsbcS byte = 3
	nsbcB byte = 4
	nsbcC byte = 5
)

// nsbc explores the NSBC macrostate space of a semi-deterministic input.
type nsbc struct {
	aut     *buchi.Automaton
	scc     *buchi.SCCInfo
	n       int
	info    *stateInfo
	ex      *explorer
	isDeter []bool
}

func newNSBC(aut *buchi.Automaton, res Builder, showNames bool) *nsbc {
	scc := buchi.NewSCCInfo(aut)
	c := &nsbc{
		aut:     aut,
		scc:     scc,
		n:       aut.NumStates(),
		info:    newStateInfo(aut),
		isDeter: make([]bool, scc.NumSCCs()),
	}
	for i := range c.isDeter {
		c.isDeter[i] = scc.InDeterministicPart(i)
	}
	c.ex = newExplorer(res, showNames, c.name)

	init := make(macrostate, c.n)
	init[aut.Initial()] = nsbcI
	res.SetInitial(c.ex.state(init))
	return c
}

func (c *nsbc) name(ms macrostate) string {
	var sb strings.Builder
	group := func(label byte, prefix string) {
		sb.WriteByte('{')
		first := true
		for i, l := range ms {
			if l != label {
				continue
			}
			if !first {
				sb.WriteByte(',')
			}
			first = false
			sb.WriteString(prefix)
			sb.WriteString(strconv.Itoa(i))
		}
		sb.WriteByte('}')
	}
	group(nsbcI, "i")
	sb.WriteByte(',')
	group(nsbcN, "")
	sb.WriteByte(',')
	group(nsbcS, "")
	sb.WriteByte(',')
	group(nsbcB, "")
	sb.WriteByte(',')
	group(nsbcC, "")
	return sb.String()
}

func (c *nsbc) run() {
	for {
		ms, origin, ok := c.ex.pop()
		if !ok {
			break
		}

		var msupport uint32
		all := c.aut.Dict().False()
		for i := 0; i < c.n; i++ {
			if ms[i] == nsbcM {
				continue
			}
			msupport |= c.info.support[i]
			all = all.Or(c.info.compat[i])
		}

		if !all.IsTrue() {
			sink := make(macrostate, c.n)
			c.ex.res.NewEdge(origin, c.ex.state(sink), all.Not(), true)
		}
		for !all.IsFalse() {
			one := all.SatOne(msupport)
			all = all.Diff(one)
			c.successors(ms, origin, one)
		}
	}

	c.ex.res.MergeEdges()
}

func (c *nsbc) successors(ms macrostate, origin int, letter symbol.Guard) {
	hasI, hasRank := false, false
	for i := 0; i < c.n; i++ {
		switch ms[i] {
		case nsbcM:
		case nsbcI:
			hasI = true
		default:
			hasRank = true
		}
	}
	if hasI && hasRank {
		invariantf("NSBC macrostate mixes initial and accepting phases: %s", c.name(ms))
	}
	if hasI || !hasRank {
		c.initSuccessors(ms, origin, letter)
	} else {
		c.accSuccessors(ms, origin, letter)
	}
}

// initSuccessors advances the plain subset and lifts the macrostate into
// the accepting phase, splitting the lifted states by SCC kind: a state
// in the deterministic part becomes B when its matching edge accepts and
// S otherwise; the rest become N.
func (c *nsbc) initSuccessors(ms macrostate, origin int, letter symbol.Guard) {
	succ := make(macrostate, c.n)
	for i := 0; i < c.n; i++ {
		if ms[i] != nsbcI {
			continue
		}
		for _, t := range c.aut.Out(i) {
			if !letter.Implies(t.Guard) {
				continue
			}
			succ[t.Dst] = nsbcI
		}
	}
	c.ex.res.NewEdge(origin, c.ex.state(succ), letter, false)

	lifted := make(macrostate, c.n)
	for i := 0; i < c.n; i++ {
		if ms[i] != nsbcI {
			continue
		}
		if c.isDeter[c.scc.SCCOf(i)] {
			for _, t := range c.aut.Out(i) {
				if !letter.Implies(t.Guard) {
					continue
				}
				if t.Accepting {
					lifted[i] = nsbcB
				} else {
					lifted[i] = nsbcS
				}
			}
		} else {
			lifted[i] = nsbcN
		}
	}
	c.accSuccessors(lifted, origin, letter)
}

func (c *nsbc) accSuccessors(ms macrostate, origin int, letter symbol.Guard) {
	succ := make(macrostate, c.n)

	// S states: an accepting move falls back to C unless the target is
	// already claimed safe.
	for i := 0; i < c.n; i++ {
		if ms[i] != nsbcS {
			continue
		}
		for _, t := range c.aut.Out(i) {
			if !letter.Implies(t.Guard) {
				continue
			}
			if t.Accepting {
				if succ[t.Dst] != nsbcS {
					succ[t.Dst] = nsbcC
				}
			} else {
				succ[t.Dst] = nsbcS
			}
		}
	}

	// B states.
	bEmpty := true
	for i := 0; i < c.n; i++ {
		if ms[i] != nsbcB {
			continue
		}
		bEmpty = false
		for _, t := range c.aut.Out(i) {
			if !letter.Implies(t.Guard) {
				continue
			}
			if succ[t.Dst] != nsbcS {
				succ[t.Dst] = nsbcB
			}
			break
		}
	}

	// N states: targets in the deterministic part join the check set.
	for i := 0; i < c.n; i++ {
		if ms[i] != nsbcN {
			continue
		}
		for _, t := range c.aut.Out(i) {
			if !letter.Implies(t.Guard) {
				continue
			}
			if c.isDeter[c.scc.SCCOf(t.Dst)] {
				if succ[t.Dst] != nsbcS && succ[t.Dst] != nsbcB {
					succ[t.Dst] = nsbcC
				}
			} else {
				succ[t.Dst] = nsbcN
			}
		}
	}

	// C states.
	for i := 0; i < c.n; i++ {
		if ms[i] != nsbcC {
			continue
		}
		for _, t := range c.aut.Out(i) {
			if !letter.Implies(t.Guard) {
				continue
			}
			if succ[t.Dst] != nsbcS && succ[t.Dst] != nsbcB {
				succ[t.Dst] = nsbcC
			}
			break
		}
	}

	// Breakpoint: an emptied B refills B' from C'.
	if bEmpty {
		for i := 0; i < c.n; i++ {
			if succ[i] == nsbcC {
				succ[i] = nsbcB
			}
		}
	}

	accepting := true
	for i := 0; i < c.n; i++ {
		if succ[i] == nsbcB {
			accepting = false
			break
		}
	}
	c.ex.res.NewEdge(origin, c.ex.state(succ), letter, accepting)
}
