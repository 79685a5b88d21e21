// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package logic

import (
	"sort"

	"github.com/go-air/aigmap/z"
)

// BalanceOpts configures Balance.
type BalanceOpts struct {
	// MinimizeLevels rebuilds multi-input and trees pairing early
	// arriving operands first, reducing logic depth at some cost in
	// run time.
	MinimizeLevels bool
	// Fast performs a single bottom-up pass.  When false, Balance
	// runs a second pass over the result, catching sharing exposed
	// by the first.
	Fast bool
}

// Balance rebuilds c node by node through the structural hash,
// merging duplicated subtrees, constant-propagating trivial ands and
// dropping nodes unreachable from ms.  The circuit is transformed in
// place; input nodes are all kept, in their original relative order.
// Balance returns the literals of ms mapped into the rebuilt
// circuit.
//
// Balance is total: it always terminates, never introduces cycles
// and preserves the Boolean function of every literal in ms.
func (c *C) Balance(opts BalanceOpts, ms ...z.Lit) []z.Lit {
	passes := 1
	if !opts.Fast {
		passes = 2
	}
	out := ms
	for p := 0; p < passes; p++ {
		out = c.rebuild(opts, out)
	}
	res := make([]z.Lit, len(out))
	copy(res, out)
	return res
}

// per-node use counts within the cone of the outputs.
type uses struct {
	pos   []int32 // positive and-edge uses
	other []int32 // negative edges and output uses
}

func (u *uses) reached(v z.Var) bool {
	return u.pos[v]+u.other[v] > 0
}

// internal tells whether v is an inner node of a single-fanout and
// tree: exactly one use, and that use is a positive and edge.
func (u *uses) internal(v z.Var) bool {
	return u.pos[v] == 1 && u.other[v] == 0
}

func (c *C) countUses(ms []z.Lit) *uses {
	u := &uses{
		pos:   make([]int32, len(c.nodes)),
		other: make([]int32, len(c.nodes)),
	}
	for _, m := range ms {
		u.other[m.Var()]++
	}
	for i := len(c.nodes) - 1; i >= 2; i-- {
		n := &c.nodes[i]
		if n.a == z.LitNull || !u.reached(z.Var(i)) {
			continue
		}
		for _, e := range [2]z.Lit{n.a, n.b} {
			if e.IsPos() {
				u.pos[e.Var()]++
			} else {
				u.other[e.Var()]++
			}
		}
	}
	return u
}

func (c *C) rebuild(opts BalanceOpts, ms []z.Lit) []z.Lit {
	d := NewCCap(len(c.nodes))
	mp := make([]z.Lit, len(c.nodes))
	mp[1] = d.T
	u := c.countUses(ms)
	var lv []int
	if opts.MinimizeLevels {
		lv = make([]int, 2, len(c.nodes))
	}
	for i := 2; i < len(c.nodes); i++ {
		n := &c.nodes[i]
		v := z.Var(i)
		if n.a == z.LitNull {
			mp[i] = d.Lit()
			continue
		}
		if !u.reached(v) {
			continue
		}
		if !opts.MinimizeLevels {
			mp[i] = d.And(mapLit(mp, n.a), mapLit(mp, n.b))
			continue
		}
		if u.internal(v) {
			// folded into the tree of its unique parent
			continue
		}
		leaves := c.treeLeaves(v.Pos(), u, mp)
		mp[i] = buildBalanced(d, leaves, &lv)
	}
	out := make([]z.Lit, len(ms))
	for i, m := range ms {
		out[i] = mapLit(mp, m)
	}
	*c = *d
	return out
}

func mapLit(mp []z.Lit, m z.Lit) z.Lit {
	n := mp[m.Var()]
	if !m.IsPos() {
		n = n.Not()
	}
	return n
}

// treeLeaves collects the conjunction leaves of the maximal
// single-fanout and tree rooted at m, mapped into the circuit under
// construction.
func (c *C) treeLeaves(m z.Lit, u *uses, mp []z.Lit) []z.Lit {
	var leaves []z.Lit
	stack := []z.Lit{m}
	root := true
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		expand := root || (t.IsPos() && c.IsAnd(t) && u.internal(t.Var()))
		root = false
		if expand {
			n := &c.nodes[t.Var()]
			stack = append(stack, n.a, n.b)
			continue
		}
		leaves = append(leaves, mapLit(mp, t))
	}
	return leaves
}

// buildBalanced conjoins leaves pairing lowest levels first, so the
// resulting tree has minimal depth with respect to leaf levels.
func buildBalanced(d *C, leaves []z.Lit, lv *[]int) z.Lit {
	sort.Slice(leaves, func(i, j int) bool {
		li, lj := levelOf(*lv, leaves[i]), levelOf(*lv, leaves[j])
		if li != lj {
			return li < lj
		}
		return leaves[i] < leaves[j]
	})
	for len(leaves) > 1 {
		a, b := leaves[0], leaves[1]
		g := d.And(a, b)
		*lv = noteAnd(*lv, g, a, b)
		leaves = leaves[2:]
		// insert g keeping the level order
		k := sort.Search(len(leaves), func(i int) bool {
			li, lg := levelOf(*lv, leaves[i]), levelOf(*lv, g)
			if li != lg {
				return li > lg
			}
			return leaves[i] >= g
		})
		leaves = append(leaves, 0)
		copy(leaves[k+1:], leaves[k:])
		leaves[k] = g
	}
	if len(leaves) == 0 {
		return d.T
	}
	return leaves[0]
}

func levelOf(lv []int, m z.Lit) int {
	v := int(m.Var())
	if v >= len(lv) {
		return 0
	}
	return lv[v]
}

// growLv extends lv to cover m.  Fresh entries are level 0.
func growLv(lv []int, m z.Lit) []int {
	v := int(m.Var())
	for v >= len(lv) {
		lv = append(lv, 0)
	}
	return lv
}

// noteAnd records the level of g = a&b when g is a fresh and node.
func noteAnd(lv []int, g, a, b z.Lit) []int {
	lv = growLv(lv, g)
	v := int(g.Var())
	if lv[v] != 0 {
		return lv
	}
	la, lb := levelOf(lv, a), levelOf(lv, b)
	if lb > la {
		la = lb
	}
	lv[v] = la + 1
	return lv
}
