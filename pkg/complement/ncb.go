package complement

import (
	"strconv"
	"strings"

	"github.com/ha1tch/omega-toolkit/pkg/buchi"
	"github.com/ha1tch/omega-toolkit/pkg/symbol"
)

// NCB labels. N, C and B form a chain sharing the N bit, so "took part
// in the reachability step" is a single mask test; I is the initial
// subset phase with no rank obligation yet.
const (
	ncbM byte = 0
	ncbN byte = 1
	ncbC byte = ncbN | 2
	ncbB byte = ncbC | 4
	ncbI byte = 8
)

// ncb explores the NCB macrostate space of an unambiguous input.
type ncb struct {
	aut  *buchi.Automaton
	n    int
	info *stateInfo
	ex   *explorer
}

func newNCB(aut *buchi.Automaton, res Builder, showNames bool) *ncb {
	c := &ncb{
		aut:  aut,
		n:    aut.NumStates(),
		info: newStateInfo(aut),
	}
	c.ex = newExplorer(res, showNames, c.name)

	init := make(macrostate, c.n)
	init[aut.Initial()] = ncbI
	res.SetInitial(c.ex.state(init))
	return c
}

func (c *ncb) name(ms macrostate) string {
	var sb strings.Builder

	sb.WriteByte('{')
	first := true
	for i, l := range ms {
		if l != ncbN && l != ncbI {
			continue
		}
		if !first {
			sb.WriteByte(',')
		}
		first = false
		if l == ncbI {
			sb.WriteByte('i')
		}
		sb.WriteString(strconv.Itoa(i))
	}
	sb.WriteString("},{")

	first = true
	for i, l := range ms {
		if l != ncbC && l != ncbB {
			continue
		}
		if !first {
			sb.WriteByte(',')
		}
		first = false
		sb.WriteString(strconv.Itoa(i))
	}
	sb.WriteString("},{")

	first = true
	for i, l := range ms {
		if l != ncbB {
			continue
		}
		if !first {
			sb.WriteByte(',')
		}
		first = false
		sb.WriteString(strconv.Itoa(i))
	}
	sb.WriteByte('}')
	return sb.String()
}

func (c *ncb) run() {
	for {
		ms, origin, ok := c.ex.pop()
		if !ok {
			break
		}

		var msupport uint32
		all := c.aut.Dict().False()
		for i := 0; i < c.n; i++ {
			if ms[i] == ncbM {
				continue
			}
			msupport |= c.info.support[i]
			all = all.Or(c.info.compat[i])
		}

		// Letters no active state can read route to the sink on the
		// complement's accepting edge.
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

// successors dispatches on the phase of ms: a pure-I macrostate still
// tracks the plain subset, anything carrying an N/C/B label is in the
// accepting phase.
func (c *ncb) successors(ms macrostate, origin int, letter symbol.Guard) {
	hasI, hasRank := false, false
	for i := 0; i < c.n; i++ {
		if ms[i] == ncbI {
			hasI = true
		} else if ms[i]&ncbN != 0 {
			hasRank = true
		}
	}
	if hasI && hasRank {
		invariantf("NCB macrostate mixes initial and accepting phases: %s", c.name(ms))
	}
	if hasI || !hasRank {
		c.initSuccessors(ms, origin, letter)
	} else {
		c.accSuccessors(ms, origin, letter)
	}
}

// initSuccessors advances the plain subset and, in parallel, lifts the
// macrostate into the accepting phase by promoting every I to N.
func (c *ncb) initSuccessors(ms macrostate, origin int, letter symbol.Guard) {
	succ := make(macrostate, c.n)
	for i := 0; i < c.n; i++ {
		if ms[i] != ncbI {
			continue
		}
		for _, t := range c.aut.Out(i) {
			if !letter.Implies(t.Guard) {
				continue
			}
			succ[t.Dst] = ncbI
		}
	}
	c.ex.res.NewEdge(origin, c.ex.state(succ), letter, false)

	lifted := make(macrostate, c.n)
	for i := 0; i < c.n; i++ {
		if ms[i] == ncbI {
			lifted[i] = ncbN
		}
	}
	c.accSuccessors(lifted, origin, letter)
}

func (c *ncb) accSuccessors(ms macrostate, origin int, letter symbol.Guard) {
	succ := make(macrostate, c.n)

	// Which source placed each reached state; first writer wins. The C
	// and B steps pick their successors out of this record.
	dstSrc := make(map[int]int)

	// Reachability step over the whole N∪C∪B part; accepting moves seed C'.
	for i := 0; i < c.n; i++ {
		if ms[i]&ncbN == 0 {
			continue
		}
		for _, t := range c.aut.Out(i) {
			if !letter.Implies(t.Guard) {
				continue
			}
			succ[t.Dst] = ncbN
			if t.Accepting {
				succ[t.Dst] = ncbC
			}
			if _, seen := dstSrc[t.Dst]; !seen {
				dstSrc[t.Dst] = i
			}
		}
	}

	// C': successors of C∪B, plus the accepting-reached states above.
	for i := 0; i < c.n; i++ {
		if ms[i] != ncbC && ms[i] != ncbB {
			continue
		}
		for dst, src := range dstSrc {
			if src == i {
				succ[dst] = ncbC
			}
		}
	}

	// B': successors of B.
	bEmpty := true
	for i := 0; i < c.n; i++ {
		if ms[i] != ncbB {
			continue
		}
		bEmpty = false
		for dst, src := range dstSrc {
			if src == i {
				succ[dst] = ncbB
			}
		}
	}

	// Breakpoint: when the source B set was empty, B' refills from C'.
	if bEmpty {
		for i := 0; i < c.n; i++ {
			if succ[i] == ncbC {
				succ[i] = ncbB
			}
		}
	}

	accepting := true
	for i := 0; i < c.n; i++ {
		if succ[i] == ncbB {
			accepting = false
			break
		}
	}
	c.ex.res.NewEdge(origin, c.ex.state(succ), letter, accepting)
}
