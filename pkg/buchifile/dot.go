package buchifile

import (
	"fmt"
	"strings"

	"github.com/ha1tch/omega-toolkit/pkg/buchi"
)

// GenerateDOT converts a Büchi automaton to Graphviz DOT format.
// Accepting edges carry the ⓿ mark and are drawn bold.
func GenerateDOT(a *buchi.Automaton, title string) string {
	var sb strings.Builder

	sb.WriteString("digraph NBA {\n")
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [shape=circle, fontname=\"Helvetica\", fontsize=11];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", escapeDOT(title)))
		sb.WriteString("\n")
	}

	// Invisible start node
	if a.Initial() >= 0 {
		sb.WriteString("    __start [shape=none, label=\"\", width=0, height=0];\n")
		sb.WriteString(fmt.Sprintf("    __start -> %d;\n", a.Initial()))
		sb.WriteString("\n")
	}

	for s := 0; s < a.NumStates(); s++ {
		sb.WriteString(fmt.Sprintf("    %d [label=\"%s\"];\n", s, escapeDOT(a.StateName(s))))
	}
	sb.WriteString("\n")

	// Group transitions by (from, to, accepting)
	type key struct {
		from, to  int
		accepting bool
	}
	edgeLabels := make(map[key][]string)
	var order []key
	for s := 0; s < a.NumStates(); s++ {
		for _, e := range a.Out(s) {
			k := key{s, e.Dst, e.Accepting}
			if _, seen := edgeLabels[k]; !seen {
				order = append(order, k)
			}
			edgeLabels[k] = append(edgeLabels[k], e.Guard.String())
		}
	}

	for _, k := range order {
		label := strings.Join(edgeLabels[k], ", ")
		attrs := fmt.Sprintf("label=\"%s\"", escapeDOT(label))
		if k.accepting {
			attrs = fmt.Sprintf("label=\"%s ⓿\", style=bold", escapeDOT(label))
		}
		sb.WriteString(fmt.Sprintf("    %d -> %d [%s];\n", k.from, k.to, attrs))
	}

	sb.WriteString("}\n")

	return sb.String()
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "<", "\\<")
	s = strings.ReplaceAll(s, ">", "\\>")
	return s
}
