package symbol

import (
	"fmt"
	"strings"
	"unicode"
)

// Parse parses an infix guard expression over d's propositions.
// Grammar: expr := term ('|' term)*, term := factor ('&' factor)*,
// factor := '!' factor | '(' expr ')' | name | '1' | '0' | 'true' | 'false'.
func Parse(d *Dict, s string) (Guard, error) {
	p := &parser{d: d, input: s}
	g, err := p.expr()
	if err != nil {
		return Guard{}, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return Guard{}, fmt.Errorf("unexpected %q at offset %d", p.input[p.pos], p.pos)
	}
	return g, nil
}

type parser struct {
	d     *Dict
	input string
	pos   int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) expr() (Guard, error) {
	g, err := p.term()
	if err != nil {
		return Guard{}, err
	}
	for {
		p.skipSpace()
		if p.pos >= len(p.input) || p.input[p.pos] != '|' {
			return g, nil
		}
		p.pos++
		h, err := p.term()
		if err != nil {
			return Guard{}, err
		}
		g = g.Or(h)
	}
}

func (p *parser) term() (Guard, error) {
	g, err := p.factor()
	if err != nil {
		return Guard{}, err
	}
	for {
		p.skipSpace()
		if p.pos >= len(p.input) || p.input[p.pos] != '&' {
			return g, nil
		}
		p.pos++
		h, err := p.factor()
		if err != nil {
			return Guard{}, err
		}
		g = g.And(h)
	}
}

func (p *parser) factor() (Guard, error) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return Guard{}, fmt.Errorf("unexpected end of expression")
	}
	switch c := p.input[p.pos]; {
	case c == '!':
		p.pos++
		g, err := p.factor()
		if err != nil {
			return Guard{}, err
		}
		return g.Not(), nil
	case c == '(':
		p.pos++
		g, err := p.expr()
		if err != nil {
			return Guard{}, err
		}
		p.skipSpace()
		if p.pos >= len(p.input) || p.input[p.pos] != ')' {
			return Guard{}, fmt.Errorf("missing ')' at offset %d", p.pos)
		}
		p.pos++
		return g, nil
	default:
		name := p.ident()
		switch name {
		case "":
			return Guard{}, fmt.Errorf("unexpected %q at offset %d", c, p.pos)
		case "1", "true":
			return p.d.True(), nil
		case "0", "false":
			return p.d.False(), nil
		}
		i := p.d.Index(name)
		if i < 0 {
			return Guard{}, fmt.Errorf("unknown proposition %q", name)
		}
		return p.d.AP(i), nil
	}
}

func (p *parser) ident() string {
	start := p.pos
	for p.pos < len(p.input) {
		r := rune(p.input[p.pos])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		p.pos++
	}
	return p.input[start:p.pos]
}

// ParseLetter parses a concrete letter written as a sequence of literals,
// e.g. "a!b" or "a !b" over {a,b}. Propositions not mentioned are taken
// as false, so the result is always a single valuation.
func ParseLetter(d *Dict, s string) (Guard, error) {
	value := make([]bool, d.Len())
	mentioned := make([]bool, d.Len())
	rest := strings.TrimSpace(s)
	for rest != "" {
		neg := false
		for rest != "" && (rest[0] == '!' || rest[0] == ' ') {
			if rest[0] == '!' {
				neg = !neg
			}
			rest = rest[1:]
		}
		end := 0
		for end < len(rest) {
			r := rune(rest[end])
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				break
			}
			end++
		}
		if end == 0 {
			return Guard{}, fmt.Errorf("bad letter syntax near %q", rest)
		}
		name := rest[:end]
		rest = strings.TrimSpace(rest[end:])
		i := d.Index(name)
		if i < 0 {
			return Guard{}, fmt.Errorf("unknown proposition %q", name)
		}
		if mentioned[i] {
			return Guard{}, fmt.Errorf("proposition %q mentioned twice", name)
		}
		mentioned[i] = true
		value[i] = !neg
	}
	g := d.True()
	for i := 0; i < d.Len(); i++ {
		g = g.And(d.Lit(i, value[i]))
	}
	return g, nil
}
