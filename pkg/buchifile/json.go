// Package buchifile provides file formats and renderers for Büchi
// automata: a JSON interchange format, Graphviz DOT output, and a
// native PNG renderer.
package buchifile

import (
	"encoding/json"
	"fmt"

	"github.com/ha1tch/omega-toolkit/pkg/buchi"
	"github.com/ha1tch/omega-toolkit/pkg/symbol"
)

// jsonAutomaton is the JSON representation of a Büchi automaton.
type jsonAutomaton struct {
	Name        string           `json:"name,omitempty"`
	APs         []string         `json:"aps"`
	States      int              `json:"states"`
	Initial     int              `json:"initial"`
	StateNames  []string         `json:"state_names,omitempty"`
	Transitions []jsonTransition `json:"transitions"`
}

type jsonTransition struct {
	From      int    `json:"from"`
	To        int    `json:"to"`
	Guard     string `json:"guard"`
	Accepting bool   `json:"accepting,omitempty"`
}

// ParseJSON parses a Büchi automaton from JSON.
func ParseJSON(data []byte) (*buchi.Automaton, error) {
	var j jsonAutomaton
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}

	d, err := symbol.NewDict(j.APs...)
	if err != nil {
		return nil, err
	}
	a := buchi.New(d)
	a.Name = j.Name
	a.AddStates(j.States)
	a.SetInitial(j.Initial)

	for i, name := range j.StateNames {
		if i >= j.States {
			break
		}
		if name != "" {
			a.SetStateName(i, name)
		}
	}

	for i, t := range j.Transitions {
		if t.From < 0 || t.From >= j.States || t.To < 0 || t.To >= j.States {
			return nil, fmt.Errorf("transition %d: state out of range", i)
		}
		g, err := symbol.Parse(d, t.Guard)
		if err != nil {
			return nil, fmt.Errorf("transition %d: %w", i, err)
		}
		a.NewEdge(t.From, t.To, g, t.Accepting)
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// ToJSON converts a Büchi automaton to JSON.
func ToJSON(a *buchi.Automaton, pretty bool) ([]byte, error) {
	j := jsonAutomaton{
		Name:    a.Name,
		APs:     a.Dict().Names(),
		States:  a.NumStates(),
		Initial: a.Initial(),
	}

	if a.HasStateNames() {
		j.StateNames = make([]string, a.NumStates())
		for s := 0; s < a.NumStates(); s++ {
			j.StateNames[s] = a.StateName(s)
		}
	}

	for s := 0; s < a.NumStates(); s++ {
		for _, e := range a.Out(s) {
			j.Transitions = append(j.Transitions, jsonTransition{
				From:      s,
				To:        e.Dst,
				Guard:     e.Guard.String(),
				Accepting: e.Accepting,
			})
		}
	}

	if pretty {
		return json.MarshalIndent(j, "", "  ")
	}
	return json.Marshal(j)
}
