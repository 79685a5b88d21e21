// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package logic_test

import (
	"math/rand"
	"testing"

	"github.com/go-air/aigmap/logic"
	"github.com/go-air/aigmap/z"
)

func TestCGrowStrash(t *testing.T) {
	c := logic.NewC()
	N := 1020
	ins := make([]z.Lit, 0, N)
	for i := 0; i < N; i++ {
		ins = append(ins, c.Lit())
	}
	gs := make([]z.Lit, N/2)
	for i := 0; i < N/2; i++ {
		j := len(ins) - 1 - i
		a, b := ins[i], ins[j]
		g := c.And(a, b)
		gs[i] = g
	}
	for i := 0; i < N/2; i++ {
		j := len(ins) - 1 - i
		a, b := ins[i], ins[j]
		g := c.And(a, b)
		if g != gs[i] {
			t.Errorf("invalid strash")
		}
	}
}

type op struct {
	a z.Lit
	b z.Lit
	g z.Lit
}

func TestCLogic(t *testing.T) {
	c := logic.NewC()
	a := c.Lit()
	b := c.Lit()
	ops := []op{
		{a: c.T, b: c.Lit()},
		{a: c.F, b: c.Lit()},
		{a: a, b: a},
		{a: a, b: a.Not()},
		{a: a, b: b},
		{a: b, b: a}}

	for i := range ops {
		o := &ops[i]
		o.g = c.And(o.a, o.b)
	}
	if ops[0].g != ops[0].b {
		t.Errorf("and with true not identity")
	}
	if ops[1].g != c.F {
		t.Errorf("and with false not false")
	}
	if ops[2].g != a {
		t.Errorf("and with self not self")
	}
	if ops[3].g != c.F {
		t.Errorf("and with negated self not false")
	}
	if ops[4].g != ops[5].g {
		t.Errorf("and not commutative under strash")
	}
}

func TestCEval64(t *testing.T) {
	c := logic.NewC()
	a, b, d := c.Lit(), c.Lit(), c.Lit()
	g := c.Or(c.And(a, b), c.Xor(b, d))
	vs := make([]uint64, c.Len())
	rnd := rand.New(rand.NewSource(44))
	for i := range vs {
		vs[i] = rnd.Uint64()
	}
	va, vb, vd := vs[a.Var()], vs[b.Var()], vs[d.Var()]
	c.Eval64(vs)
	want := (va & vb) | (vb ^ vd)
	got := vs[g.Var()]
	if !g.IsPos() {
		got = ^got
	}
	if got != want {
		t.Errorf("eval64: got %x want %x", got, want)
	}
}

func TestCEvalConst(t *testing.T) {
	c := logic.NewC()
	a := c.Lit()
	o := c.Or(a, a.Not()) // strashes to the constant
	if o != c.T {
		t.Fatalf("tautology not strashed: %s", o)
	}
	// the constant node is pinned by Eval/Eval64, not by the caller
	vs := make([]uint64, c.Len())
	c.Eval64(vs)
	if vs[c.T.Var()] != ^uint64(0) {
		t.Errorf("eval64 constant: %x", vs[c.T.Var()])
	}
	bs := make([]bool, c.Len())
	c.Eval(bs)
	if !bs[c.T.Var()] {
		t.Errorf("eval constant: %v", bs[c.T.Var()])
	}
}

func TestCIns(t *testing.T) {
	c := logic.NewC()
	a, b := c.Lit(), c.Lit()
	g := c.And(a, b)
	x, y := c.Ins(g)
	if x != a || y != b {
		t.Errorf("ins: got %s,%s want %s,%s", x, y, a, b)
	}
	if !c.IsAnd(g) || c.IsAnd(a) {
		t.Errorf("and classification")
	}
	if !c.IsInput(a) || c.IsInput(g) {
		t.Errorf("input classification")
	}
	if c.NumAnds() != 1 {
		t.Errorf("num ands: %d", c.NumAnds())
	}
}
