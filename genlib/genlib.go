// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package genlib

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-air/aigmap/tt"
)

var (
	// ErrParse indicates malformed genlib input.
	ErrParse = errors.New("genlib: parse error")
	// ErrUnknownTech indicates an unrecognized technology selector.
	ErrUnknownTech = errors.New("unknown technology library")
	// ErrEmptyLibrary indicates a library with no usable gates.
	ErrEmptyLibrary = errors.New("library contains no gates")
)

// Pin holds the timing description of one gate input, as given on a
// genlib PIN line.
type Pin struct {
	Name       string
	Phase      string
	Load       float64
	MaxLoad    float64
	RiseBlock  float64
	RiseFanout float64
	FallBlock  float64
	FallFanout float64
}

// Delay gives the load-independent delay through the pin, the worse of
// the rise and fall block delays.
func (p *Pin) Delay() float64 {
	if p.RiseBlock > p.FallBlock {
		return p.RiseBlock
	}
	return p.FallBlock
}

// Gate is one library cell.  Pins are in the order the cell's inputs
// bind to the expression variables, so Table var i corresponds to
// Pins[i].  Gates wider than tt.MaxVars carry a zero Table; callers
// that need the function must reject them by arity first.
type Gate struct {
	Name   string
	Area   float64
	Output string
	Expr   string
	Pins   []Pin
	Table  tt.Table
}

// NumPins gives the gate arity.
func (g *Gate) NumPins() int {
	return len(g.Pins)
}

// IsConst reports whether the gate has no inputs.
func (g *Gate) IsConst() bool {
	return len(g.Pins) == 0
}

// Load reads a genlib file from path.
func Load(path string) ([]Gate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open genlib file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// ParseString parses genlib text.
func ParseString(s string) ([]Gate, error) {
	return Parse(strings.NewReader(s))
}

// Parse reads a genlib description.  Comments run from '#' to end of
// line.  Only combinational GATE statements are accepted; LATCH
// statements are rejected.
func Parse(r io.Reader) ([]Gate, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	toks, err := tokenize(string(buf))
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	var gates []Gate
	for !p.eof() {
		switch w := p.peek(); w {
		case "GATE":
			g, err := p.gate()
			if err != nil {
				return nil, err
			}
			gates = append(gates, g)
		case "LATCH":
			return nil, fmt.Errorf("%w: sequential LATCH statements not supported", ErrParse)
		default:
			return nil, fmt.Errorf("%w: unexpected token %q", ErrParse, w)
		}
	}
	return gates, nil
}

// tokenize splits genlib text into words, keeping ';' as its own
// token so expressions need no space before the terminator.
func tokenize(s string) ([]string, error) {
	var toks []string
	var w strings.Builder
	flush := func() {
		if w.Len() > 0 {
			toks = append(toks, w.String())
			w.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '#':
			flush()
			for i < len(s) && s[i] != '\n' {
				i++
			}
		case c == ';':
			flush()
			toks = append(toks, ";")
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			flush()
		default:
			w.WriteByte(c)
		}
	}
	flush()
	return toks, nil
}

type parser struct {
	toks []string
	pos  int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.toks)
}

func (p *parser) peek() string {
	return p.toks[p.pos]
}

func (p *parser) next() (string, error) {
	if p.eof() {
		return "", fmt.Errorf("%w: unexpected end of input", ErrParse)
	}
	t := p.toks[p.pos]
	p.pos++
	return t, nil
}

func (p *parser) float(what string) (float64, error) {
	t, err := p.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s %q", ErrParse, what, t)
	}
	return v, nil
}

// gate parses one GATE statement:
//
//	GATE <name> <area> <out>=<expr>; [PIN <name> <phase> <6 floats>]...
func (p *parser) gate() (Gate, error) {
	var g Gate
	p.pos++ // GATE
	name, err := p.next()
	if err != nil {
		return g, err
	}
	g.Name = name
	if g.Area, err = p.float("area"); err != nil {
		return g, err
	}
	// The expression runs up to the ';' token and may contain spaces.
	var expr strings.Builder
	for {
		t, err := p.next()
		if err != nil {
			return g, err
		}
		if t == ";" {
			break
		}
		expr.WriteString(t)
	}
	eq := strings.IndexByte(expr.String(), '=')
	if eq <= 0 {
		return g, fmt.Errorf("%w: gate %s: expression %q lacks output assignment", ErrParse, g.Name, expr.String())
	}
	g.Output = expr.String()[:eq]
	g.Expr = expr.String()[eq+1:]
	ast, err := parseExpr(g.Expr)
	if err != nil {
		return g, fmt.Errorf("%w: gate %s: %v", ErrParse, g.Name, err)
	}
	vars := exprVars(ast)
	// PIN lines follow until the next GATE/LATCH or end of input.
	var pins []Pin
	for !p.eof() && p.peek() == "PIN" {
		p.pos++
		var pin Pin
		if pin.Name, err = p.next(); err != nil {
			return g, err
		}
		if pin.Phase, err = p.next(); err != nil {
			return g, err
		}
		for _, fp := range []*float64{
			&pin.Load, &pin.MaxLoad,
			&pin.RiseBlock, &pin.RiseFanout,
			&pin.FallBlock, &pin.FallFanout} {
			if *fp, err = p.float("pin value"); err != nil {
				return g, err
			}
		}
		pins = append(pins, pin)
	}
	if g.Pins, err = bindPins(g.Name, vars, pins); err != nil {
		return g, err
	}
	if len(g.Pins) <= tt.MaxVars {
		order := make(map[string]int, len(g.Pins))
		for i := range g.Pins {
			order[g.Pins[i].Name] = i
		}
		if g.Table, err = evalExpr(ast, order, len(g.Pins)); err != nil {
			return g, fmt.Errorf("%w: gate %s: %v", ErrParse, g.Name, err)
		}
	}
	return g, nil
}

// bindPins reconciles the PIN lines with the expression variables.  A
// single '*' pin stands for every input and is replicated in the order
// the variables first appear in the expression.
func bindPins(gate string, vars []string, pins []Pin) ([]Pin, error) {
	if len(pins) == 1 && pins[0].Name == "*" {
		out := make([]Pin, len(vars))
		for i, v := range vars {
			out[i] = pins[0]
			out[i].Name = v
		}
		return out, nil
	}
	if len(vars) == 0 && len(pins) == 0 {
		return nil, nil
	}
	byName := make(map[string]bool, len(pins))
	for i := range pins {
		if pins[i].Name == "*" {
			return nil, fmt.Errorf("%w: gate %s: '*' pin mixed with named pins", ErrParse, gate)
		}
		if byName[pins[i].Name] {
			return nil, fmt.Errorf("%w: gate %s: duplicate pin %s", ErrParse, gate, pins[i].Name)
		}
		byName[pins[i].Name] = true
	}
	inExpr := make(map[string]bool, len(vars))
	for _, v := range vars {
		if !byName[v] {
			return nil, fmt.Errorf("%w: gate %s: no PIN line for input %s", ErrParse, gate, v)
		}
		inExpr[v] = true
	}
	for i := range pins {
		if !inExpr[pins[i].Name] {
			return nil, fmt.Errorf("%w: gate %s: pin %s not used in expression", ErrParse, gate, pins[i].Name)
		}
	}
	return pins, nil
}
