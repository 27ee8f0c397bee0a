package buchi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ha1tch/omega-toolkit/pkg/symbol"
)

// Runner steps an automaton letter by letter, tracking all states the
// read prefix can reach simultaneously. It reports whether an accepting
// edge could be crossed on each step, which is what a finite prefix of an
// omega-run can witness.
type Runner struct {
	aut     *Automaton
	current map[int]bool
	history []Step
}

// Step records one step of execution.
type Step struct {
	From         []int
	Letter       symbol.Guard
	To           []int
	SawAccepting bool
}

// NewRunner creates a runner positioned at the initial state.
func NewRunner(a *Automaton) (*Runner, error) {
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("invalid automaton: %w", err)
	}
	r := &Runner{aut: a, current: map[int]bool{a.Initial(): true}}
	return r, nil
}

// Current returns the tracked states as a sorted slice.
func (r *Runner) Current() []int {
	var states []int
	for s := range r.current {
		states = append(states, s)
	}
	sort.Ints(states)
	return states
}

// Step reads one letter. The letter should be a single valuation (see
// symbol.ParseLetter); an edge is taken when the letter implies its
// guard. Returns an error if no tracked state has a matching edge.
func (r *Runner) Step(letter symbol.Guard) error {
	from := r.Current()
	next := make(map[int]bool)
	sawAcc := false
	for s := range r.current {
		for _, e := range r.aut.Out(s) {
			if !letter.Implies(e.Guard) {
				continue
			}
			next[e.Dst] = true
			if e.Accepting {
				sawAcc = true
			}
		}
	}
	if len(next) == 0 {
		return fmt.Errorf("no transition from %s on letter %s", formatStates(r.aut, from), letter)
	}
	r.current = next
	r.history = append(r.history, Step{
		From:         from,
		Letter:       letter,
		To:           r.Current(),
		SawAccepting: sawAcc,
	})
	return nil
}

// Run reads a sequence of letters, stopping at the first failing step.
func (r *Runner) Run(letters []symbol.Guard) error {
	for _, l := range letters {
		if err := r.Step(l); err != nil {
			return err
		}
	}
	return nil
}

// Reset returns the runner to the initial state and clears the history.
func (r *Runner) Reset() {
	r.current = map[int]bool{r.aut.Initial(): true}
	r.history = nil
}

// History returns the execution history.
func (r *Runner) History() []Step { return r.history }

// Status returns a one-line description of the tracked states.
func (r *Runner) Status() string {
	status := fmt.Sprintf("States: %s", formatStates(r.aut, r.Current()))
	if n := len(r.history); n > 0 && r.history[n-1].SawAccepting {
		status += " [accepting edge crossed]"
	}
	return status
}

func formatStates(a *Automaton, states []int) string {
	var parts []string
	for _, s := range states {
		parts = append(parts, a.StateName(s))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
