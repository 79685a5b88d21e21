// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package gen contains generators for common kinds of combinational
// networks, used for benchmarking and testing the mapping pipeline.
package gen

import (
	"math/rand"

	"github.com/go-air/aigmap/logic"
	"github.com/go-air/aigmap/z"
)

// Rand builds a random combinational cone soup: nIns inputs, nAnds
// and nodes over random (possibly inverted) earlier literals, and
// nOuts outputs drawn from the most recent nodes.  Strash collapsing
// may leave fewer than nAnds distinct nodes.  Deterministic in rnd.
func Rand(rnd *rand.Rand, c *logic.C, nIns, nAnds, nOuts int) (ins, outs []z.Lit) {
	for i := 0; i < nIns; i++ {
		ins = append(ins, c.Lit())
	}
	pool := append([]z.Lit(nil), ins...)
	for i := 0; i < nAnds; i++ {
		a := pick(rnd, pool)
		b := pick(rnd, pool)
		pool = append(pool, c.And(a, b))
	}
	recent := len(pool) - nIns
	if recent > 16 {
		recent = 16
	}
	if recent == 0 {
		recent = len(pool)
	}
	for i := 0; i < nOuts; i++ {
		o := pool[len(pool)-1-rnd.Intn(recent)]
		if rnd.Intn(2) == 1 {
			o = o.Not()
		}
		outs = append(outs, o)
	}
	return ins, outs
}

func pick(rnd *rand.Rand, pool []z.Lit) z.Lit {
	m := pool[rnd.Intn(len(pool))]
	if rnd.Intn(2) == 1 {
		m = m.Not()
	}
	return m
}

// Chain builds an n-input and chain, the worst case for balancing
// depth.
func Chain(c *logic.C, n int) (ins []z.Lit, out z.Lit) {
	out = c.T
	for i := 0; i < n; i++ {
		in := c.Lit()
		ins = append(ins, in)
		out = c.And(out, in)
	}
	return ins, out
}
