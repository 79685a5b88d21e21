// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package tmap

import (
	"github.com/go-air/aigmap/genlib"
)

// Sig identifies a signal in a CellNet.  Values below NumPIs are
// primary inputs in order; NumPIs+i is the output of Cells[i].
type Sig int32

// Cell is one placed library cell.  Ins[j] feeds Gate.Pins[j].
type Cell struct {
	Gate *genlib.Gate
	Ins  []Sig
}

// CellNet is a mapped netlist.  Cells are in topological order:
// every input of Cells[i] is a primary input or the output of an
// earlier cell.
type CellNet struct {
	NumPIs int
	Cells  []Cell
	Outs   []Sig
}

// NumCells counts placed cells.
func (n *CellNet) NumCells() int {
	return len(n.Cells)
}

// Area sums cell areas.
func (n *CellNet) Area() float64 {
	a := 0.0
	for i := range n.Cells {
		a += n.Cells[i].Gate.Area
	}
	return a
}

// arrivals computes per-signal arrival times through pin block
// delays, with primary inputs at 0.
func (n *CellNet) arrivals() []float64 {
	arr := make([]float64, n.NumPIs+len(n.Cells))
	for i := range n.Cells {
		c := &n.Cells[i]
		at := 0.0
		for j, in := range c.Ins {
			if d := arr[in] + c.Gate.Pins[j].Delay(); d > at {
				at = d
			}
		}
		arr[n.NumPIs+i] = at
	}
	return arr
}

// WorstDelay is the longest arrival time over the outputs.
func (n *CellNet) WorstDelay() float64 {
	arr := n.arrivals()
	d := 0.0
	for _, o := range n.Outs {
		if arr[o] > d {
			d = arr[o]
		}
	}
	return d
}

// Depth is the longest output path counted in cells, primary inputs
// at level 0.
func (n *CellNet) Depth() int {
	lv := make([]int, n.NumPIs+len(n.Cells))
	for i := range n.Cells {
		c := &n.Cells[i]
		l := 0
		for _, in := range c.Ins {
			if lv[in] >= l {
				l = lv[in] + 1
			}
		}
		if len(c.Ins) == 0 {
			l = 1
		}
		lv[n.NumPIs+i] = l
	}
	d := 0
	for _, o := range n.Outs {
		if lv[o] > d {
			d = lv[o]
		}
	}
	return d
}
