// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package tt implements truth tables of Boolean functions over a
// bounded number of variables, with the permutation machinery used
// to match cut functions against library cells.
package tt

import (
	"fmt"
	"sort"
)

// MaxVars bounds the arity of functions representable here.  Table
// construction cost grows exponentially with it, so it is a real
// limit, not a tunable.
const MaxVars = 9

// PermVars bounds the arity up to which Canon searches input
// permutations exhaustively.  Above it, canonicalization degrades to
// the identity permutation: 7! and up permuted table builds per
// function cost more than they recover.
const PermVars = 6

// projections of the first 6 variables within one 64 bit word
var varWords = [6]uint64{
	0xaaaaaaaaaaaaaaaa,
	0xcccccccccccccccc,
	0xf0f0f0f0f0f0f0f0,
	0xff00ff00ff00ff00,
	0xffff0000ffff0000,
	0xffffffff00000000,
}

// Table is the truth table of a Boolean function of nv variables,
// one bit per input assignment, variable i at bit weight 1<<i.
type Table struct {
	nv int
	w  []uint64
}

func words(nv int) int {
	if nv <= 6 {
		return 1
	}
	return 1 << uint(nv-6)
}

func mask(nv int) uint64 {
	if nv >= 6 {
		return ^uint64(0)
	}
	return (uint64(1) << (1 << uint(nv))) - 1
}

// New returns the constant-false table over nv variables.
func New(nv int) Table {
	if nv < 0 || nv > MaxVars {
		panic(fmt.Sprintf("tt: %d variables", nv))
	}
	return Table{nv: nv, w: make([]uint64, words(nv))}
}

// Const returns a constant table over nv variables.
func Const(nv int, v bool) Table {
	t := New(nv)
	if v {
		for i := range t.w {
			t.w[i] = ^uint64(0)
		}
		t.w[0] &= mask(nv)
	}
	return t
}

// Var returns the projection table of variable i over nv variables.
func Var(i, nv int) Table {
	t := New(nv)
	if i < 0 || i >= nv {
		panic(fmt.Sprintf("tt: var %d of %d", i, nv))
	}
	if i < 6 {
		m := varWords[i] & mask(nv)
		for j := range t.w {
			t.w[j] = m
		}
		return t
	}
	for j := range t.w {
		if (j>>uint(i-6))&1 == 1 {
			t.w[j] = ^uint64(0)
		}
	}
	return t
}

// NumVars returns the number of variables of t.
func (t Table) NumVars() int {
	return t.nv
}

// Not returns the complement of t.
func (t Table) Not() Table {
	r := New(t.nv)
	for i := range t.w {
		r.w[i] = ^t.w[i]
	}
	r.w[0] &= mask(t.nv)
	return r
}

// And returns the conjunction of t and u, which must range over the
// same number of variables.
func (t Table) And(u Table) Table {
	r := New(t.nv)
	for i := range t.w {
		r.w[i] = t.w[i] & u.w[i]
	}
	return r
}

// Or returns the disjunction of t and u.
func (t Table) Or(u Table) Table {
	r := New(t.nv)
	for i := range t.w {
		r.w[i] = t.w[i] | u.w[i]
	}
	return r
}

// Xor returns the exclusive or of t and u.
func (t Table) Xor(u Table) Table {
	r := New(t.nv)
	for i := range t.w {
		r.w[i] = t.w[i] ^ u.w[i]
	}
	return r
}

// Flip returns the table of f with variable i complemented, that is
// the function g(x) = f(x with bit i inverted).
func (t Table) Flip(i int) Table {
	if i < 0 || i >= t.nv {
		panic(fmt.Sprintf("tt: flip var %d of %d", i, t.nv))
	}
	r := New(t.nv)
	if i < 6 {
		sh := uint(1) << uint(i)
		for j := range t.w {
			hi := t.w[j] & varWords[i]
			lo := t.w[j] &^ varWords[i]
			r.w[j] = hi>>sh | lo<<sh
		}
		r.w[0] &= mask(t.nv)
		return r
	}
	d := 1 << uint(i-6)
	for j := range t.w {
		r.w[j] = t.w[j^d]
	}
	return r
}

// Bit returns the function value, 0 or 1, under the input assignment
// coded in m.
func (t Table) Bit(m uint) uint64 {
	return (t.w[m>>6] >> (m & 63)) & 1
}

// Word returns the single table word of a function of at most 6
// variables.
func (t Table) Word() uint64 {
	return t.w[0]
}

// Eq tells whether t and u are the same function over the same
// variables.
func (t Table) Eq(u Table) bool {
	if t.nv != u.nv {
		return false
	}
	for i := range t.w {
		if t.w[i] != u.w[i] {
			return false
		}
	}
	return true
}

// Less orders tables of equal arity lexicographically, low word
// first.  It is the order underlying Canon.
func (t Table) Less(u Table) bool {
	for i := range t.w {
		if t.w[i] != u.w[i] {
			return t.w[i] < u.w[i]
		}
	}
	return false
}

// Key returns a compact map key identifying the function.
func (t Table) Key() string {
	b := make([]byte, 1, 1+8*len(t.w))
	b[0] = byte(t.nv)
	for _, w := range t.w {
		for s := 0; s < 64; s += 8 {
			b = append(b, byte(w>>uint(s)))
		}
	}
	return string(b)
}

func (t Table) String() string {
	s := make([]byte, 1<<uint(t.nv))
	for m := uint(0); m < 1<<uint(t.nv); m++ {
		s[m] = '0' + byte(t.Bit(m))
	}
	return string(s)
}

// Permute returns the table of f(x[p[0]], ..., x[p[nv-1]]) where f
// is the function of t: argument i of t is fed variable p[i] of the
// result.
func (t Table) Permute(p []int) Table {
	r := New(t.nv)
	n := uint(t.nv)
	for m := uint(0); m < 1<<n; m++ {
		var m2 uint
		for i := uint(0); i < n; i++ {
			if (m>>uint(p[i]))&1 == 1 {
				m2 |= 1 << i
			}
		}
		if t.Bit(m2) == 1 {
			r.w[m>>6] |= 1 << (m & 63)
		}
	}
	return r
}

// InvPerm returns the inverse of permutation p.
func InvPerm(p []int) []int {
	q := make([]int, len(p))
	for i, v := range p {
		q[v] = i
	}
	return q
}

// Canon returns the minimal table reachable from t by permuting
// inputs, together with the permutation p achieving it, so that
// Canon(t) = t.Permute(p).  Functions wider than PermVars get the
// identity permutation.
func Canon(t Table) (Table, []int) {
	id := make([]int, t.nv)
	for i := range id {
		id[i] = i
	}
	if t.nv > PermVars {
		return t, id
	}
	best := t
	bestP := id
	forEachPerm(t.nv, func(p []int) {
		u := t.Permute(p)
		if u.Less(best) {
			best = u
			bestP = append([]int(nil), p...)
		}
	})
	return best, bestP
}

// forEachPerm visits all permutations of 0..n-1 in lexicographic
// order.
func forEachPerm(n int, f func(p []int)) {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	for {
		f(p)
		// next permutation
		i := n - 2
		for i >= 0 && p[i] >= p[i+1] {
			i--
		}
		if i < 0 {
			return
		}
		j := n - 1
		for p[j] <= p[i] {
			j--
		}
		p[i], p[j] = p[j], p[i]
		sort.Ints(p[i+1:])
	}
}
