package buchifile

import (
	"bytes"
	"strings"
	"testing"
)

// TestGenerateDOT tests the DOT output shape.
func TestGenerateDOT(t *testing.T) {
	aut := sampleAutomaton()
	dot := GenerateDOT(aut, "sample")

	for _, want := range []string{
		"digraph NBA {",
		"__start -> 0;",
		"label=\"sample\";",
		"0 -> 1 [label=\"a & !b\"];",
		"1 -> 1 [label=\"b ⓿\", style=bold];",
		"1 -> 0 [label=\"!b\"];",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
}

// TestRenderPNG tests that rendering produces a decodable PNG header.
func TestRenderPNG(t *testing.T) {
	aut := sampleAutomaton()

	var buf bytes.Buffer
	opts := DefaultPNGOptions()
	opts.Width = 200
	opts.Height = 150
	opts.Title = "sample"
	if err := RenderPNG(aut, &buf, opts); err != nil {
		t.Fatalf("RenderPNG failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty output")
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("output does not start with a PNG signature")
	}
}
