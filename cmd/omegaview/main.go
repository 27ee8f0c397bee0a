// Command omegaview is a TUI for stepping a Büchi automaton letter by
// letter and watching the tracked state set.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/omega-toolkit/pkg/buchi"
	"github.com/ha1tch/omega-toolkit/pkg/buchifile"
	"github.com/ha1tch/omega-toolkit/pkg/symbol"
)

// Config holds persistent viewer settings
type Config struct {
	LastDir string // last used directory
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	cwd, _ := os.Getwd()
	return Config{LastDir: cwd}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".omegaview"
	}
	return filepath.Join(home, ".omegaview")
}

// LoadConfig loads configuration from TOML file
func LoadConfig() Config {
	cfg := DefaultConfig()
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		return cfg
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "last_dir") {
			parts := strings.SplitN(line, "=", 2)
			if len(parts) == 2 {
				val := strings.Trim(strings.TrimSpace(parts[1]), "\"")
				if val != "" {
					cfg.LastDir = val
				}
			}
		}
	}
	return cfg
}

// SaveConfig saves configuration to TOML file
func SaveConfig(cfg Config) error {
	content := fmt.Sprintf("# omegaview configuration\nlast_dir = \"%s\"\n", cfg.LastDir)
	return os.WriteFile(ConfigPath(), []byte(content), 0644)
}

// Viewer holds all viewer state
type Viewer struct {
	screen   tcell.Screen
	aut      *buchi.Automaton
	runner   *buchi.Runner
	filename string
	config   Config

	input   string // letter being typed
	message string
	scroll  int
}

// Styles
var (
	styleDefault   = tcell.StyleDefault
	styleTitle     = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorWhite)
	styleState     = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleStateCur  = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	styleStateInit = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleEdgeAcc   = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	styleEdge      = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleStatus    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgError  = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleHelp      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleInput     = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: omegaview <input.json>")
		os.Exit(1)
	}

	v := &Viewer{
		filename: os.Args[1],
		config:   LoadConfig(),
	}

	data, err := os.ReadFile(v.filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", v.filename, err)
		os.Exit(1)
	}
	v.aut, err = buchifile.ParseJSON(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", v.filename, err)
		os.Exit(1)
	}
	v.runner, err = buchi.NewRunner(v.aut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating runner: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.Clear()
	v.screen = screen

	v.config.LastDir = filepath.Dir(v.filename)
	_ = SaveConfig(v.config)

	v.run()

	screen.Fini()
}

func (v *Viewer) run() {
	for {
		v.draw()
		v.screen.Show()

		ev := v.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			if v.handleKey(ev) {
				return
			}
		}
	}
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		if v.scroll > 0 {
			v.scroll--
		}
	case tcell.KeyDown:
		v.scroll++
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(v.input) > 0 {
			v.input = v.input[:len(v.input)-1]
		}
	case tcell.KeyEnter:
		v.step()
	case tcell.KeyRune:
		r := ev.Rune()
		switch r {
		case 'q':
			if v.input == "" {
				return true
			}
			v.input += string(r)
		case 'r':
			if v.input == "" {
				v.runner.Reset()
				v.message = "reset"
				return false
			}
			v.input += string(r)
		default:
			v.input += string(r)
		}
	}
	return false
}

func (v *Viewer) step() {
	letter, err := symbol.ParseLetter(v.aut.Dict(), v.input)
	if err != nil {
		v.message = err.Error()
		return
	}
	if err := v.runner.Step(letter); err != nil {
		v.message = err.Error()
		return
	}
	v.message = ""
	v.input = ""
}

func (v *Viewer) draw() {
	v.screen.Clear()
	w, h := v.screen.Size()

	title := fmt.Sprintf("omegaview - %s (%d states, APs %v)",
		filepath.Base(v.filename), v.aut.NumStates(), v.aut.Dict().Names())
	drawText(v.screen, 0, 0, w, styleTitle, title)

	current := make(map[int]bool)
	for _, s := range v.runner.Current() {
		current[s] = true
	}

	// State and edge listing
	row := 2
	line := 0
	for s := 0; s < v.aut.NumStates(); s++ {
		style := styleState
		if s == v.aut.Initial() {
			style = styleStateInit
		}
		if current[s] {
			style = styleStateCur
		}
		if line >= v.scroll && row < h-4 {
			drawText(v.screen, 1, row, w, style, v.aut.StateName(s))
			row++
		}
		line++
		for _, e := range v.aut.Out(s) {
			style := styleEdge
			mark := ""
			if e.Accepting {
				style = styleEdgeAcc
				mark = " ⓿"
			}
			if line >= v.scroll && row < h-4 {
				text := fmt.Sprintf("  --[%s]%s--> %s", e.Guard, mark, v.aut.StateName(e.Dst))
				drawText(v.screen, 1, row, w, style, text)
				row++
			}
			line++
		}
	}

	// Trace summary
	steps := v.runner.History()
	acc := 0
	for _, st := range steps {
		if st.SawAccepting {
			acc++
		}
	}
	status := fmt.Sprintf(" %s | steps: %d | accepting steps: %d ", v.runner.Status(), len(steps), acc)
	drawText(v.screen, 0, h-3, w, styleStatus, pad(status, w))

	if v.message != "" {
		drawText(v.screen, 0, h-2, w, styleMsgError, pad(" "+v.message+" ", w))
	} else {
		drawText(v.screen, 0, h-2, w, styleInput, pad(" letter> "+v.input, w))
	}
	drawText(v.screen, 0, h-1, w, styleHelp,
		"type a letter (e.g. a!b) + Enter to step | r reset | up/down scroll | q/Esc quit")
}

func drawText(s tcell.Screen, x, y, maxW int, style tcell.Style, text string) {
	col := x
	for _, r := range text {
		if col >= x+maxW {
			break
		}
		s.SetContent(col, y, r, nil, style)
		col++
	}
}

func pad(s string, w int) string {
	for len(s) < w {
		s += " "
	}
	return s
}
