// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package genlib

import (
	"fmt"

	"github.com/go-air/aigmap/tt"
)

// genlib expressions:
//
//	expr   := term  (('+' | '|') term)*
//	term   := xterm (('^') xterm)*
//	xterm  := unary (('*' | '&') unary)*
//	unary  := ('!')* atom ('\'')*
//	atom   := ident | '(' expr ')' | CONST0 | CONST1
//
// Identifiers are runs of letters, digits, '_' and '.'.

type exprNode struct {
	op   byte // '&', '|', '^', '!', 'v', '0', '1'
	a, b *exprNode
	name string
}

type exprScan struct {
	s   string
	pos int
}

func (sc *exprScan) skipWS() {
	for sc.pos < len(sc.s) && (sc.s[sc.pos] == ' ' || sc.s[sc.pos] == '\t') {
		sc.pos++
	}
}

func (sc *exprScan) peek() byte {
	sc.skipWS()
	if sc.pos >= len(sc.s) {
		return 0
	}
	return sc.s[sc.pos]
}

func identByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '_' || c == '.'
}

func (sc *exprScan) ident() string {
	start := sc.pos
	for sc.pos < len(sc.s) && identByte(sc.s[sc.pos]) {
		sc.pos++
	}
	return sc.s[start:sc.pos]
}

func parseExpr(s string) (*exprNode, error) {
	sc := &exprScan{s: s}
	n, err := sc.or()
	if err != nil {
		return nil, err
	}
	if c := sc.peek(); c != 0 {
		return nil, fmt.Errorf("unexpected %q in expression %q", c, s)
	}
	return n, nil
}

func (sc *exprScan) or() (*exprNode, error) {
	n, err := sc.xor()
	if err != nil {
		return nil, err
	}
	for c := sc.peek(); c == '+' || c == '|'; c = sc.peek() {
		sc.pos++
		m, err := sc.xor()
		if err != nil {
			return nil, err
		}
		n = &exprNode{op: '|', a: n, b: m}
	}
	return n, nil
}

func (sc *exprScan) xor() (*exprNode, error) {
	n, err := sc.and()
	if err != nil {
		return nil, err
	}
	for sc.peek() == '^' {
		sc.pos++
		m, err := sc.and()
		if err != nil {
			return nil, err
		}
		n = &exprNode{op: '^', a: n, b: m}
	}
	return n, nil
}

func (sc *exprScan) and() (*exprNode, error) {
	n, err := sc.unary()
	if err != nil {
		return nil, err
	}
	for c := sc.peek(); c == '*' || c == '&'; c = sc.peek() {
		sc.pos++
		m, err := sc.unary()
		if err != nil {
			return nil, err
		}
		n = &exprNode{op: '&', a: n, b: m}
	}
	return n, nil
}

func (sc *exprScan) unary() (*exprNode, error) {
	if sc.peek() == '!' {
		sc.pos++
		n, err := sc.unary()
		if err != nil {
			return nil, err
		}
		return &exprNode{op: '!', a: n}, nil
	}
	n, err := sc.atom()
	if err != nil {
		return nil, err
	}
	for sc.peek() == '\'' {
		sc.pos++
		n = &exprNode{op: '!', a: n}
	}
	return n, nil
}

func (sc *exprScan) atom() (*exprNode, error) {
	switch c := sc.peek(); {
	case c == '(':
		sc.pos++
		n, err := sc.or()
		if err != nil {
			return nil, err
		}
		if sc.peek() != ')' {
			return nil, fmt.Errorf("missing ')' in expression %q", sc.s)
		}
		sc.pos++
		return n, nil
	case identByte(c):
		id := sc.ident()
		switch id {
		case "CONST0", "0":
			return &exprNode{op: '0'}, nil
		case "CONST1", "1":
			return &exprNode{op: '1'}, nil
		}
		return &exprNode{op: 'v', name: id}, nil
	case c == 0:
		return nil, fmt.Errorf("unexpected end of expression %q", sc.s)
	default:
		return nil, fmt.Errorf("unexpected %q in expression %q", c, sc.s)
	}
}

// exprVars lists the distinct variables of an expression in first
// appearance order.
func exprVars(n *exprNode) []string {
	var vars []string
	seen := map[string]bool{}
	var walk func(*exprNode)
	walk = func(n *exprNode) {
		if n == nil {
			return
		}
		if n.op == 'v' && !seen[n.name] {
			seen[n.name] = true
			vars = append(vars, n.name)
		}
		walk(n.a)
		walk(n.b)
	}
	walk(n)
	return vars
}

// evalExpr computes the truth table of an expression over nv variables
// with the given name to index binding.
func evalExpr(n *exprNode, order map[string]int, nv int) (tt.Table, error) {
	switch n.op {
	case '0':
		return tt.Const(nv, false), nil
	case '1':
		return tt.Const(nv, true), nil
	case 'v':
		i, ok := order[n.name]
		if !ok {
			return tt.Table{}, fmt.Errorf("unbound variable %s", n.name)
		}
		return tt.Var(i, nv), nil
	case '!':
		a, err := evalExpr(n.a, order, nv)
		if err != nil {
			return tt.Table{}, err
		}
		return a.Not(), nil
	}
	a, err := evalExpr(n.a, order, nv)
	if err != nil {
		return tt.Table{}, err
	}
	b, err := evalExpr(n.b, order, nv)
	if err != nil {
		return tt.Table{}, err
	}
	switch n.op {
	case '&':
		return a.And(b), nil
	case '|':
		return a.Or(b), nil
	case '^':
		return a.Xor(b), nil
	}
	return tt.Table{}, fmt.Errorf("bad expression node %q", n.op)
}
