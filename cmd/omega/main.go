// Command omega is a CLI tool for working with Büchi omega-automata.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/ha1tch/omega-toolkit/pkg/buchi"
	"github.com/ha1tch/omega-toolkit/pkg/buchifile"
	"github.com/ha1tch/omega-toolkit/pkg/complement"
	"github.com/ha1tch/omega-toolkit/pkg/symbol"
)

const usage = `omega - Büchi omega-automaton toolkit

Usage:
  omega <command> [options]

Commands:
  complement  Complement an automaton (rank-based constructions)
  dot         Generate Graphviz DOT output
  png         Render to PNG
  info        Show automaton information
  empty       Check language emptiness
  run         Step the automaton interactively
  validate    Validate automaton file

Examples:
  omega complement input.json -a ncsb -o output.json
  omega complement input.json -a ncb --names
  omega dot input.json | dot -Tpng -o output.png
  omega png input.json -o output.png
  omega run input.json

Use "omega <command> -h" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	// "omega <command> -h" prints the command's usage line.
	if len(args) == 1 && (args[0] == "-h" || args[0] == "--help") {
		args = nil
	}

	switch cmd {
	case "complement":
		cmdComplement(args)
	case "dot":
		cmdDot(args)
	case "png":
		cmdPNG(args)
	case "info":
		cmdInfo(args)
	case "empty":
		cmdEmpty(args)
	case "run":
		cmdRun(args)
	case "validate":
		cmdValidate(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}

func cmdComplement(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: omega complement <input> [-a algo] [-o output] [--names] [--pretty]")
		fmt.Fprintln(os.Stderr, "Algorithms: ncsb (default), ncsb-opt, ncsb-otf, ncsb-opt-otf, ncb, nsbc")
		os.Exit(1)
	}

	input := args[0]
	algo := "ncsb"
	var output string
	names := false
	pretty := false

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-a", "--algo":
			if i+1 < len(args) {
				algo = args[i+1]
				i++
			}
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		case "--names":
			names = true
		case "--pretty":
			pretty = true
		}
	}

	a := loadAutomaton(input)

	var res *buchi.Automaton
	var err error
	switch algo {
	case "ncsb":
		res, err = complement.ComplementSemidet(a, names)
	case "ncsb-opt":
		res, err = complement.ComplementSemidetOpt(a, names)
	case "ncsb-otf":
		res, err = complement.ComplementSemidetOnTheFly(a, names)
	case "ncsb-opt-otf":
		res, err = complement.ComplementSemidetOptOnTheFly(a, names)
	case "ncb":
		res, err = complement.ComplementUnambiguous(a, names)
	case "nsbc":
		res, err = complement.NewComplementSemidet(a, names)
	default:
		fmt.Fprintf(os.Stderr, "Unknown algorithm: %s\n", algo)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	data, err := buchifile.ToJSON(res, pretty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error serializing result: %v\n", err)
		os.Exit(1)
	}

	if output == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(output, append(data, '\n'), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", output, err)
		os.Exit(1)
	}
	fmt.Printf("Written: %s (%d states, %d edges)\n", output, res.NumStates(), res.NumEdges())
}

func cmdDot(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: omega dot <input> [-o output] [-t title]")
		os.Exit(1)
	}

	input := args[0]
	var output, title string

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		case "-t", "--title":
			if i+1 < len(args) {
				title = args[i+1]
				i++
			}
		}
	}

	a := loadAutomaton(input)

	if title == "" {
		if a.Name != "" {
			title = a.Name
		} else {
			title = fmt.Sprintf("NBA: %d states", a.NumStates())
		}
	}

	dot := buchifile.GenerateDOT(a, title)

	if output != "" {
		if err := os.WriteFile(output, []byte(dot), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", output, err)
			os.Exit(1)
		}
	} else {
		fmt.Print(dot)
	}
}

func cmdPNG(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: omega png <input> [-o output]")
		os.Exit(1)
	}

	input := args[0]
	output := strings.TrimSuffix(input, ".json") + ".png"

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		}
	}

	a := loadAutomaton(input)

	opts := buchifile.DefaultPNGOptions()
	if a.Name != "" {
		opts.Title = a.Name
	}

	f, err := os.Create(output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", output, err)
		os.Exit(1)
	}
	defer f.Close()

	if err := buchifile.RenderPNG(a, f, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Written: %s\n", output)
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: omega info <input>")
		os.Exit(1)
	}

	a := loadAutomaton(args[0])

	if a.Name != "" {
		fmt.Printf("Name:        %s\n", a.Name)
	}
	fmt.Printf("APs:         %v\n", a.Dict().Names())
	fmt.Printf("States:      %d\n", a.NumStates())
	fmt.Printf("Edges:       %d\n", a.NumEdges())
	fmt.Printf("Initial:     %s\n", a.StateName(a.Initial()))

	si := buchi.NewSCCInfo(a)
	fmt.Printf("SCCs:        %d\n", si.NumSCCs())
	fmt.Printf("Semi-det:    %v\n", buchi.IsSemiDeterministic(a))
	fmt.Printf("Unambiguous: %v\n", buchi.IsUnambiguous(a))
	fmt.Printf("Empty:       %v\n", buchi.IsEmpty(a))
}

func cmdEmpty(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: omega empty <input>")
		os.Exit(1)
	}

	a := loadAutomaton(args[0])
	if buchi.IsEmpty(a) {
		fmt.Println("empty")
	} else {
		fmt.Println("nonempty")
	}
}

func cmdValidate(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: omega validate <input>")
		os.Exit(1)
	}

	input := args[0]
	a := loadAutomaton(input)

	if err := a.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s: valid NBA with %d states, %d edges\n", input, a.NumStates(), a.NumEdges())
}

func cmdRun(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: omega run <input>")
		os.Exit(1)
	}

	a := loadAutomaton(args[0])

	runner, err := buchi.NewRunner(a)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating runner: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("NBA: %s over %v\n", a.Name, a.Dict().Names())
	fmt.Printf("Letters list the true propositions, e.g. \"a!b\" or \"a b\"; unmentioned ones are false.\n")
	fmt.Printf("Commands: <letter>, reset, status, history, quit\n")
	fmt.Println()
	fmt.Println(runner.Status())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		cmd := strings.TrimSpace(scanner.Text())
		if cmd == "" {
			continue
		}

		switch cmd {
		case "quit", "exit", "q":
			return
		case "reset":
			runner.Reset()
			fmt.Println("Reset to initial state")
			fmt.Println(runner.Status())
		case "status":
			fmt.Println(runner.Status())
		case "history":
			printHistory(a, runner)
		case "help", "?":
			fmt.Println("Commands:")
			fmt.Println("  <letter> - Read one letter (e.g. a!b)")
			fmt.Println("  reset    - Reset to initial state")
			fmt.Println("  status   - Show tracked states")
			fmt.Println("  history  - Show execution history")
			fmt.Println("  quit     - Exit")
		default:
			letter, err := symbol.ParseLetter(a.Dict(), cmd)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			if err := runner.Step(letter); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			fmt.Println(runner.Status())
		}
	}
}

func printHistory(a *buchi.Automaton, r *buchi.Runner) {
	history := r.History()
	if len(history) == 0 {
		fmt.Println("No history yet")
		return
	}

	fmt.Println("History:")
	for i, step := range history {
		line := fmt.Sprintf("  %d: %v --%s--> %v", i+1, step.From, step.Letter, step.To)
		if step.SawAccepting {
			line += " [accepting]"
		}
		fmt.Println(line)
	}
}

func loadAutomaton(path string) *buchi.Automaton {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", path, err)
		os.Exit(1)
	}
	a, err := buchifile.ParseJSON(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", path, err)
		os.Exit(1)
	}
	return a
}
