// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package aiger

import (
	"github.com/go-air/aigmap/logic"
	"github.com/go-air/aigmap/z"
)

type cDfs struct {
	marks []byte
	c     *logic.C
	fn    func(c *logic.C, m z.Lit)
}

func newCDfs(c *logic.C, f func(c *logic.C, m z.Lit)) *cDfs {
	ms := make([]byte, c.Len())
	return &cDfs{marks: ms, c: c, fn: f}
}

func (d *cDfs) reset() {
	for i := range d.marks {
		d.marks[i] = 0
	}
}

func (d *cDfs) post(ms ...z.Lit) {
	for _, m := range ms {
		d.vis(m)
	}
}

func (d *cDfs) vis(m z.Lit) {
	if d.marks[m.Var()] == 2 {
		return
	}
	if d.marks[m.Var()] == 1 {
		panic("loop")
	}
	d.marks[m.Var()] = 1
	if d.c.IsAnd(m) {
		c0, c1 := d.c.Ins(m)
		d.vis(c0)
		d.vis(c1)
	}
	d.fn(d.c, m)
	d.marks[m.Var()] = 2
}
