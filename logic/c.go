// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package logic

import (
	"github.com/go-air/aigmap/z"
)

// Type C represents a combinational circuit as an and-inverter
// graph.  Nodes are either inputs or 2-input ands; inversion lives
// on the edges as literal signs.  Nodes are structurally hashed, so
// requesting the same and twice yields the same literal.
type C struct {
	nodes  []node   // list of all nodes
	strash []uint32 // strash
	F      z.Lit    // false literal
	T      z.Lit    // true literal
}

type node struct {
	a z.Lit  // input a
	b z.Lit  // input b
	n uint32 // next strash
}

// NewC creates a new circuit.
func NewC() *C {
	c := &C{}
	initC(c, 128)
	return c
}

// NewCCap creates a new circuit with initial capacity capHint.
func NewCCap(capHint int) *C {
	c := &C{}
	initC(c, capHint)
	return c
}

func initC(c *C, capHint int) {
	if capHint < 2 {
		capHint = 2
	}
	c.nodes = make([]node, 2, capHint)
	c.strash = make([]uint32, capHint)
	c.F = z.Var(1).Neg()
	c.T = c.F.Not()
}

// Len returns the length of c, the number of nodes used to represent
// c, including the unused node 0 and the constant node 1.
func (c *C) Len() int {
	return len(c.nodes)
}

// At returns the i'th element.  Elements from 0..Len(c) are in
// topological order: if i < j then c.At(j) is not reachable from
// c.At(i) via the edge relation defined by c.Ins().  All elements
// are positive literals.
func (c *C) At(i int) z.Lit {
	return z.Var(i).Pos()
}

// Lit returns a new variable/input to c.
func (c *C) Lit() z.Lit {
	m := len(c.nodes)
	c.newNode()
	return z.Var(m).Pos()
}

// IsInput tells whether m refers to an input node of c.
func (c *C) IsInput(m z.Lit) bool {
	v := m.Var()
	if int(v) < 2 || int(v) >= len(c.nodes) {
		return false
	}
	n := &c.nodes[v]
	return n.a == z.LitNull && n.b == z.LitNull
}

// IsAnd tells whether m refers to an and node of c.
func (c *C) IsAnd(m z.Lit) bool {
	v := m.Var()
	if int(v) < 2 || int(v) >= len(c.nodes) {
		return false
	}
	return c.nodes[v].a != z.LitNull
}

// NumAnds returns the number of and nodes in c.
func (c *C) NumAnds() int {
	ct := 0
	for i := 2; i < len(c.nodes); i++ {
		if c.nodes[i].a != z.LitNull {
			ct++
		}
	}
	return ct
}

// InPos returns the positions of all inputs in c in the sequence
// attainable via Len() and At().  The result is placed in dst if
// there is space.
func (c *C) InPos(dst []int) []int {
	dst = dst[:0]
	for i := 2; i < len(c.nodes); i++ {
		n := &c.nodes[i]
		if n.a == z.LitNull && n.b == z.LitNull {
			dst = append(dst, i)
		}
	}
	return dst
}

// Eval evaluates the circuit with values vs, where for each literal
// m in the circuit, vs[i] contains the value for m's variable if
// m.Var() == i.
//
// vs should contain values for all inputs.  The constant node is set
// by Eval, callers need not initialize it.
func (c *C) Eval(vs []bool) {
	vs[c.T.Var()] = true
	for i := range c.nodes {
		n := &c.nodes[i]
		if n.a == z.LitNull {
			continue
		}
		a, b := n.a, n.b
		va, vb := vs[a.Var()], vs[b.Var()]
		if !a.IsPos() {
			va = !va
		}
		if !b.IsPos() {
			vb = !vb
		}
		vs[i] = va && vb
	}
}

// Eval64 is like Eval but evaluates 64 different inputs in parallel
// as the bits of a uint64.
func (c *C) Eval64(vs []uint64) {
	vs[c.T.Var()] = ^uint64(0)
	for i := range c.nodes {
		n := &c.nodes[i]
		if n.a == z.LitNull {
			continue
		}
		a, b := n.a, n.b
		va, vb := vs[a.Var()], vs[b.Var()]
		if !a.IsPos() {
			va = ^va
		}
		if !b.IsPos() {
			vb = ^vb
		}
		vs[i] = va & vb
	}
}

// And returns a literal equivalent to "a and b", which may be a new
// variable.
func (c *C) And(a, b z.Lit) z.Lit {
	if a == b {
		return a
	}
	if a == b.Not() {
		return c.F
	}
	if a > b {
		a, b = b, a
	}
	if a == c.F {
		return c.F
	}
	if a == c.T {
		return b
	}
	h := strashCode(a, b)
	l := uint32(cap(c.nodes))
	i := h % l
	si := c.strash[i]
	for {
		n := &c.nodes[si]
		if n.a == a && n.b == b {
			return z.Var(si).Pos()
		}
		if n.n == 0 {
			break
		}
		si = n.n
	}
	m, j := c.newNode()
	m.a = a
	m.b = b
	k := h % uint32(cap(c.nodes))
	m.n = c.strash[k]
	c.strash[k] = j
	return z.Var(j).Pos()
}

// Ands constructs a conjunction of a sequence of literals.  If ms is
// empty, then Ands returns c.T.
func (c *C) Ands(ms ...z.Lit) z.Lit {
	a := c.T
	for _, m := range ms {
		a = c.And(a, m)
	}
	return a
}

// Or constructs a literal which is the disjunction of a and b.
func (c *C) Or(a, b z.Lit) z.Lit {
	nor := c.And(a.Not(), b.Not())
	return nor.Not()
}

// Ors constructs a literal which is the disjunction of the literals
// in ms.  If ms is empty, then Ors returns c.F.
func (c *C) Ors(ms ...z.Lit) z.Lit {
	d := c.F
	for _, m := range ms {
		d = c.Or(d, m)
	}
	return d
}

// Implies constructs a literal which is equivalent to (a implies b).
func (c *C) Implies(a, b z.Lit) z.Lit {
	return c.Or(a.Not(), b)
}

// Xor constructs a literal which is equivalent to (a xor b).
func (c *C) Xor(a, b z.Lit) z.Lit {
	return c.Or(c.And(a, b.Not()), c.And(a.Not(), b))
}

// Choice constructs a literal which is equivalent to
//
//	if i then t else e
func (c *C) Choice(i, t, e z.Lit) z.Lit {
	return c.Or(c.And(i, t), c.And(i.Not(), e))
}

// Ins returns the children/operands of m.
//
//	If m is an input, then Ins returns z.LitNull, z.LitNull
//	If m is an and, then Ins returns the two conjuncts
func (c *C) Ins(m z.Lit) (z.Lit, z.Lit) {
	v := m.Var()
	n := c.nodes[v]
	return n.a, n.b
}

func (c *C) newNode() (*node, uint32) {
	if len(c.nodes) == cap(c.nodes) {
		c.grow()
	}
	id := len(c.nodes)
	c.nodes = c.nodes[:id+1]
	return &c.nodes[id], uint32(id)
}

func (c *C) grow() {
	newCap := cap(c.nodes) * 2
	nodes := make([]node, cap(c.nodes), newCap)
	strash := make([]uint32, newCap)
	copy(nodes, c.nodes)
	ucap := uint32(newCap)
	for i := range nodes {
		n := &nodes[i]
		if n.a == 0 || n.a == c.F || n.a == c.T {
			continue
		}
		h := strashCode(n.a, n.b)
		j := h % ucap
		n.n = strash[j]
		strash[j] = uint32(i)
	}
	c.nodes = nodes
	c.strash = strash
}

func strashCode(a, b z.Lit) uint32 {
	return uint32((a << 13) * b)
}
