// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package logic

import (
	"github.com/go-air/aigmap/z"
)

// Levels computes the logic level of every node of c in one
// topological sweep: inputs and constants are level 0 and each and
// node is 1 + the maximum level of its operands.  The result is
// indexed by variable.
func (c *C) Levels() []int {
	lv := make([]int, len(c.nodes))
	for i := 2; i < len(c.nodes); i++ {
		n := &c.nodes[i]
		if n.a == z.LitNull {
			continue
		}
		la, lb := lv[n.a.Var()], lv[n.b.Var()]
		if lb > la {
			la = lb
		}
		lv[i] = la + 1
	}
	return lv
}

// Depth returns the longest path length, in logic levels, from any
// input to any of the literals ms.  A circuit whose outputs are
// wired directly to inputs or constants has depth 0.
func (c *C) Depth(ms ...z.Lit) int {
	lv := c.Levels()
	d := 0
	for _, m := range ms {
		if l := lv[m.Var()]; l > d {
			d = l
		}
	}
	return d
}
