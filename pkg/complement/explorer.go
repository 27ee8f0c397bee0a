package complement

import (
	"github.com/ha1tch/omega-toolkit/pkg/buchi"
	"github.com/ha1tch/omega-toolkit/pkg/symbol"
)

// Builder is the narrow surface of the result container the exploration
// needs. *buchi.Automaton satisfies it.
type Builder interface {
	NewState() int
	SetInitial(s int)
	NewEdge(src, dst int, g symbol.Guard, accepting bool)
	SetStateName(s int, name string)
	MergeEdges()
}

var _ Builder = (*buchi.Automaton)(nil)

// macrostate is the dense representation of a labeled macrostate: one
// label byte per input state, zero meaning absent. Successor computation
// works on the dense form; deduplication uses the sparse key below.
type macrostate []byte

// smallKey encodes the sparse form of ms as a map key: the (state,
// label) pairs in state order, absent entries skipped.
func smallKey(ms macrostate) string {
	buf := make([]byte, 0, 3*len(ms))
	for i, l := range ms {
		if l != 0 {
			buf = append(buf, byte(i>>8), byte(i), l)
		}
	}
	return string(buf)
}

// workItem pairs a dense macrostate with its result-state id.
type workItem struct {
	ms macrostate
	id int
}

// explorer owns the worklist and the macrostate→state map shared by the
// three constructions. Each construction supplies its own display-name
// renderer.
type explorer struct {
	res       Builder
	ids       map[string]int
	todo      []workItem
	showNames bool
	name      func(macrostate) string
}

func newExplorer(res Builder, showNames bool, name func(macrostate) string) *explorer {
	return &explorer{
		res:       res,
		ids:       make(map[string]int),
		showNames: showNames,
		name:      name,
	}
}

// state canonicalizes ms and returns its result-state id, allocating a
// fresh state and queueing the macrostate on first sight. The explorer
// takes ownership of ms; callers must not mutate it afterwards.
func (e *explorer) state(ms macrostate) int {
	key := smallKey(ms)
	if id, ok := e.ids[key]; ok {
		return id
	}
	id := e.res.NewState()
	e.ids[key] = id
	if e.showNames {
		e.res.SetStateName(id, e.name(ms))
	}
	e.todo = append(e.todo, workItem{ms: ms, id: id})
	return id
}

// pop removes and returns the oldest queued macrostate.
func (e *explorer) pop() (macrostate, int, bool) {
	if len(e.todo) == 0 {
		return nil, 0, false
	}
	item := e.todo[0]
	e.todo = e.todo[1:]
	return item.ms, item.id, true
}

// stateInfo holds the per-state precomputation shared by the
// constructions: the union of the supports of the outgoing guards, the
// disjunction of the guards, and whether every outgoing edge (of at
// least one) is accepting.
type stateInfo struct {
	support      []uint32
	compat       []symbol.Guard
	allAccepting []bool
}

func newStateInfo(a *buchi.Automaton) *stateInfo {
	n := a.NumStates()
	si := &stateInfo{
		support:      make([]uint32, n),
		compat:       make([]symbol.Guard, n),
		allAccepting: make([]bool, n),
	}
	for i := 0; i < n; i++ {
		compat := a.Dict().False()
		accepting := true
		hasEdges := false
		for _, t := range a.Out(i) {
			hasEdges = true
			si.support[i] |= t.Guard.Support()
			compat = compat.Or(t.Guard)
			if !t.Accepting {
				accepting = false
			}
		}
		si.compat[i] = compat
		si.allAccepting[i] = accepting && hasEdges
	}
	return si
}

func cloneMacrostate(ms macrostate) macrostate {
	out := make(macrostate, len(ms))
	copy(out, ms)
	return out
}
