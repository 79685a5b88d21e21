// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package tt

import (
	"math/rand"
	"testing"
)

func randTable(rnd *rand.Rand, nv int) Table {
	t := New(nv)
	for i := range t.w {
		t.w[i] = rnd.Uint64()
	}
	t.w[0] &= mask(nv)
	return t
}

func TestVarProjection(t *testing.T) {
	for nv := 1; nv <= MaxVars; nv++ {
		for i := 0; i < nv; i++ {
			v := Var(i, nv)
			for m := uint(0); m < 1<<uint(nv); m++ {
				want := uint64((m >> uint(i)) & 1)
				if v.Bit(m) != want {
					t.Fatalf("var %d of %d at %d: %d", i, nv, m, v.Bit(m))
				}
			}
		}
	}
}

func TestOps(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	for nv := 0; nv <= MaxVars; nv++ {
		a, b := randTable(rnd, nv), randTable(rnd, nv)
		and, or, xor, not := a.And(b), a.Or(b), a.Xor(b), a.Not()
		for m := uint(0); m < 1<<uint(nv); m++ {
			if and.Bit(m) != (a.Bit(m) & b.Bit(m)) {
				t.Fatalf("and at %d", m)
			}
			if or.Bit(m) != (a.Bit(m) | b.Bit(m)) {
				t.Fatalf("or at %d", m)
			}
			if xor.Bit(m) != (a.Bit(m) ^ b.Bit(m)) {
				t.Fatalf("xor at %d", m)
			}
			if not.Bit(m) != 1-a.Bit(m) {
				t.Fatalf("not at %d", m)
			}
		}
		if !a.Not().Not().Eq(a) {
			t.Errorf("double negation at %d vars", nv)
		}
	}
}

func TestConst(t *testing.T) {
	for nv := 0; nv <= MaxVars; nv++ {
		f, tr := Const(nv, false), Const(nv, true)
		for m := uint(0); m < 1<<uint(nv); m++ {
			if f.Bit(m) != 0 || tr.Bit(m) != 1 {
				t.Fatalf("const at %d vars, %d", nv, m)
			}
		}
		if !f.Not().Eq(tr) {
			t.Errorf("const negation at %d vars", nv)
		}
	}
}

func TestPermuteSemantics(t *testing.T) {
	// f = x0 & !x2: with p = [2 0 1], g(x) = f(x2, x0, x1) = x2 & !x1
	f := Var(0, 3).And(Var(2, 3).Not())
	g := f.Permute([]int{2, 0, 1})
	want := Var(2, 3).And(Var(1, 3).Not())
	if !g.Eq(want) {
		t.Errorf("permute: got %s want %s", g, want)
	}
}

func TestPermuteCompose(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	for nv := 2; nv <= PermVars; nv++ {
		a := randTable(rnd, nv)
		p := rnd.Perm(nv)
		if !a.Permute(p).Permute(InvPerm(p)).Eq(a) {
			t.Errorf("inverse permutation at %d vars", nv)
		}
	}
}

func TestCanonInvariance(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		nv := 2 + rnd.Intn(PermVars-1)
		a := randTable(rnd, nv)
		ca, pa := Canon(a)
		if !a.Permute(pa).Eq(ca) {
			t.Fatalf("canon/permutation witness disagree")
		}
		b := a.Permute(rnd.Perm(nv))
		cb, _ := Canon(b)
		if !ca.Eq(cb) {
			t.Errorf("canon not permutation invariant at %d vars", nv)
		}
		if x := a.Permute(rnd.Perm(nv)); x.Less(ca) {
			t.Errorf("canon not minimal")
		}
	}
}

func TestFlip(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	for nv := 1; nv <= MaxVars; nv++ {
		a := randTable(rnd, nv)
		for i := 0; i < nv; i++ {
			f := a.Flip(i)
			for m := uint(0); m < 1<<uint(nv); m++ {
				if f.Bit(m) != a.Bit(m^(1<<uint(i))) {
					t.Fatalf("flip %d of %d at %d", i, nv, m)
				}
			}
			if !f.Flip(i).Eq(a) {
				t.Fatalf("flip not involutive at %d/%d", i, nv)
			}
		}
	}
}

func TestKeyDistinguishesArity(t *testing.T) {
	if New(2).Key() == New(3).Key() {
		t.Errorf("keys collide across arity")
	}
}
