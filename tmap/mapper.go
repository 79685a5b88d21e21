// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package tmap

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/bits"
	"sort"

	"github.com/go-air/aigmap/genlib"
	"github.com/go-air/aigmap/logic"
	"github.com/go-air/aigmap/tt"
	"github.com/go-air/aigmap/z"
)

// cut enumeration bounds.  cutSize stays within one truth table word
// so matching is a single canonical lookup; maxCuts is the priority
// cut budget per node.
const (
	cutSize = 6
	maxCuts = 8
)

// ErrNoMatch indicates a network node no library cell can realize.
var ErrNoMatch = errors.New("tmap: no matching cell")

// Mode selects the primary optimization objective.
type Mode int

const (
	// Hybrid maps for delay, then recovers area within the
	// required times.
	Hybrid Mode = iota
	// DelayMode maps for delay only.
	DelayMode
	// AreaMode maps for area, then still runs area recovery.
	AreaMode
)

// MapOpts configures a mapping run.
type MapOpts struct {
	Mode Mode
	// AreaOriented weighs area first even in Hybrid mode.
	AreaOriented bool
	// MultiOutput merges cells that realize the same function of
	// the same input signals.
	MultiOutput bool
	// RelaxRequired loosens required times by a percentage of the
	// delay-optimal arrival before area recovery.
	RelaxRequired float64
	Verbose       bool
}

// DefaultMapOpts mirrors the benchmark pipeline defaults.
func DefaultMapOpts() MapOpts {
	return MapOpts{Mode: Hybrid, MultiOutput: true}
}

// Stats summarizes a mapping run.
type Stats struct {
	Cells     int
	Inverters int
	Area      float64
	Delay     float64
}

// cut is a set of graph variables dominating a node's cone, with the
// cone function over them, leaf i as table variable i.
type cut struct {
	leaves []uint32
	tbl    tt.Table
}

// choice is the selected realization of one and node.
type choice struct {
	m      match
	leaves []uint32
	arr    float64
	af     float64
	ok     bool
}

type mapper struct {
	lib  *Library
	c    *logic.C
	opts MapOpts
	ins  []z.Lit
	outs []z.Lit

	piSig map[uint32]Sig
	refs  []int32
	need  []bool
	cuts  [][]cut
	best  []choice
	arr   []float64
	af    []float64
	req   []float64

	net     *CellNet
	sigPos  map[uint32]Sig
	sigNeg  map[uint32]Sig
	shared  map[string]Sig
	const0  Sig
	const1  Sig
	hasC0   bool
	hasC1   bool
	numInvs int
}

// Map maps the cones of outs in c onto cells of lib.  ins fixes the
// primary input order of the result; every output must be a constant
// or lie in the cone of ins.
//
// lib must be able to realize a 2-input conjunction, possibly through
// inverters (any library with a nand or and cell qualifies).  A
// library without one, say buffers and inverters only, makes some
// node unrealizable and Map returns ErrNoMatch.
func Map(lib *Library, c *logic.C, ins, outs []z.Lit, opts MapOpts) (*CellNet, Stats, error) {
	m := &mapper{
		lib:  lib,
		c:    c,
		opts: opts,
		ins:  ins,
		outs: outs,
	}
	if err := m.run(); err != nil {
		return nil, Stats{}, err
	}
	st := Stats{
		Cells:     m.net.NumCells(),
		Inverters: m.numInvs,
		Area:      m.net.Area(),
		Delay:     m.net.WorstDelay(),
	}
	if opts.Verbose {
		log.Printf("mapped %d cells (%d inverters), area %g delay %g",
			st.Cells, st.Inverters, st.Area, st.Delay)
	}
	return m.net, st, nil
}

func (m *mapper) run() error {
	n := m.c.Len()
	m.refs = make([]int32, n)
	m.need = make([]bool, n)
	m.markCones()
	m.cuts = make([][]cut, n)
	m.best = make([]choice, n)
	m.arr = make([]float64, n)
	m.af = make([]float64, n)
	if err := m.matchAll(); err != nil {
		return err
	}
	if m.opts.Mode != DelayMode {
		m.computeRequired()
		if err := m.recoverArea(); err != nil {
			return err
		}
	}
	return m.cover()
}

// markCones counts references and marks the variables in output
// cones.
func (m *mapper) markCones() {
	var stack []uint32
	for _, o := range m.outs {
		v := uint32(o.Var())
		m.refs[v]++
		if !m.need[v] {
			m.need[v] = true
			stack = append(stack, v)
		}
	}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !m.c.IsAnd(z.Var(v).Pos()) {
			continue
		}
		a, b := m.c.Ins(z.Var(v).Pos())
		for _, ch := range [2]z.Lit{a, b} {
			cv := uint32(ch.Var())
			m.refs[cv]++
			if !m.need[cv] {
				m.need[cv] = true
				stack = append(stack, cv)
			}
		}
	}
}

// matchAll enumerates cuts bottom up and picks a first-pass match per
// and node.
func (m *mapper) matchAll() error {
	areaFirst := m.opts.AreaOriented || m.opts.Mode == AreaMode
	for i := 2; i < m.c.Len(); i++ {
		v := uint32(i)
		if !m.need[v] {
			continue
		}
		lit := z.Var(v).Pos()
		if !m.c.IsAnd(lit) {
			m.cuts[v] = []cut{trivialCut(v)}
			continue
		}
		m.cuts[v] = m.enumCuts(v)
		ch, err := m.matchNode(v, areaFirst, math.Inf(1))
		if err != nil {
			return err
		}
		m.best[v] = ch
		m.arr[v] = ch.arr
		m.af[v] = ch.af
	}
	return nil
}

func trivialCut(v uint32) cut {
	return cut{leaves: []uint32{v}, tbl: tt.Var(0, 1)}
}

// enumCuts merges the child cut sets of and node v, prunes to the
// priority budget and re-adds the trivial cut of v for use by the
// fanout.
func (m *mapper) enumCuts(v uint32) []cut {
	a, b := m.c.Ins(z.Var(v).Pos())
	var out []cut
	for _, ca := range m.cuts[a.Var()] {
		for _, cb := range m.cuts[b.Var()] {
			leaves := mergeLeaves(ca.leaves, cb.leaves)
			if leaves == nil || hasCut(out, leaves) {
				continue
			}
			out = append(out, cut{leaves: leaves, tbl: m.coneTable(v, leaves)})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return lessLeaves(out[i].leaves, out[j].leaves)
	})
	if len(out) > maxCuts {
		out = out[:maxCuts]
	}
	return append(out, trivialCut(v))
}

// mergeLeaves unions two sorted leaf sets, or nil past cutSize.
func mergeLeaves(a, b []uint32) []uint32 {
	out := make([]uint32, 0, cutSize)
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		var l uint32
		switch {
		case j == len(b) || i < len(a) && a[i] < b[j]:
			l = a[i]
			i++
		case i == len(a) || b[j] < a[i]:
			l = b[j]
			j++
		default:
			l = a[i]
			i++
			j++
		}
		if len(out) == cutSize {
			return nil
		}
		out = append(out, l)
	}
	return out
}

func hasCut(cs []cut, leaves []uint32) bool {
	for i := range cs {
		if sameLeaves(cs[i].leaves, leaves) {
			return true
		}
	}
	return false
}

func sameLeaves(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// lessLeaves orders cuts smaller-first, then by leaf set, so pruning
// and matching are deterministic.
func lessLeaves(a, b []uint32) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// coneTable simulates the cone of v over the cut leaves, leaf i as
// table variable i.
func (m *mapper) coneTable(v uint32, leaves []uint32) tt.Table {
	nv := len(leaves)
	memo := make(map[uint32]tt.Table, 2*nv)
	for i, l := range leaves {
		memo[l] = tt.Var(i, nv)
	}
	var eval func(z.Lit) tt.Table
	eval = func(lit z.Lit) tt.Table {
		u := uint32(lit.Var())
		t, ok := memo[u]
		if !ok {
			if u == 1 {
				t = tt.Const(nv, true)
			} else {
				a, b := m.c.Ins(z.Var(u).Pos())
				t = eval(a).And(eval(b))
			}
			memo[u] = t
		}
		if !lit.IsPos() {
			return t.Not()
		}
		return t
	}
	return eval(z.Var(v).Pos())
}

// matchNode scores every cell match over every nontrivial cut of v
// and keeps the best under the given objective and required time.
func (m *mapper) matchNode(v uint32, areaFirst bool, req float64) (choice, error) {
	var best choice
	for ci := range m.cuts[v] {
		cu := &m.cuts[v][ci]
		if len(cu.leaves) == 1 && cu.leaves[0] == v {
			continue
		}
		for _, ma := range m.lib.lookup(cu.tbl) {
			arr, af := m.score(&ma, cu.leaves)
			if arr > req {
				continue
			}
			cand := choice{m: ma, leaves: cu.leaves, arr: arr, af: af, ok: true}
			if !best.ok || lessChoice(&cand, &best, areaFirst) {
				best = cand
			}
		}
	}
	if !best.ok {
		return best, fmt.Errorf("%w: node %d", ErrNoMatch, v)
	}
	return best, nil
}

// score computes the arrival time and area flow of binding ma to the
// cut leaves.
func (m *mapper) score(ma *match, leaves []uint32) (arr, af float64) {
	g := ma.gate
	af = g.Area + float64(bits.OnesCount(ma.inMask))*m.lib.invArea
	if ma.compl {
		af += m.lib.invArea
	}
	for j := range ma.pins {
		l := leaves[ma.pins[j]]
		la := m.arr[l] + g.Pins[j].Delay()
		if ma.inMask>>uint(j)&1 == 1 {
			la += m.lib.invDelay
		}
		if la > arr {
			arr = la
		}
		r := m.refs[l]
		if r < 1 {
			r = 1
		}
		af += m.af[l] / float64(r)
	}
	if ma.compl {
		arr += m.lib.invDelay
	}
	return arr, af
}

// lessChoice orders candidate choices under the objective; ties fall
// through to inverter count and cell name for determinism.
func lessChoice(a, b *choice, areaFirst bool) bool {
	x1, x2 := a.arr, a.af
	y1, y2 := b.arr, b.af
	if areaFirst {
		x1, x2 = a.af, a.arr
		y1, y2 = b.af, b.arr
	}
	if x1 != y1 {
		return x1 < y1
	}
	if x2 != y2 {
		return x2 < y2
	}
	ai, bi := a.invCount(), b.invCount()
	if ai != bi {
		return ai < bi
	}
	return a.m.gate.Name < b.m.gate.Name
}

func (c *choice) invCount() int {
	n := bits.OnesCount(c.m.inMask)
	if c.m.compl {
		n++
	}
	return n
}

// computeRequired derives required times from the first-pass arrival,
// relaxed by RelaxRequired percent, and propagates them through the
// chosen matches.
func (m *mapper) computeRequired() {
	n := m.c.Len()
	d := 0.0
	for _, o := range m.outs {
		oa := m.outArrival(o)
		if oa > d {
			d = oa
		}
	}
	relaxed := d * (1 + m.opts.RelaxRequired/100)
	m.req = make([]float64, n)
	for i := range m.req {
		m.req[i] = math.Inf(1)
	}
	for _, o := range m.outs {
		r := relaxed
		if !o.IsPos() {
			r -= m.lib.invDelay
		}
		v := o.Var()
		if r < m.req[v] {
			m.req[v] = r
		}
	}
	for i := n - 1; i >= 2; i-- {
		v := uint32(i)
		ch := &m.best[v]
		if !ch.ok {
			continue
		}
		r := m.req[v]
		if math.IsInf(r, 1) {
			r = relaxed
		}
		if ch.m.compl {
			r -= m.lib.invDelay
		}
		for j := range ch.m.pins {
			l := ch.leaves[ch.m.pins[j]]
			lr := r - ch.m.gate.Pins[j].Delay()
			if ch.m.inMask>>uint(j)&1 == 1 {
				lr -= m.lib.invDelay
			}
			if lr < m.req[l] {
				m.req[l] = lr
			}
		}
	}
}

func (m *mapper) outArrival(o z.Lit) float64 {
	a := m.arr[o.Var()]
	if !o.IsPos() {
		a += m.lib.invDelay
	}
	return a
}

// recoverArea re-chooses matches area-first where the slack allows.
// Arrival times are refreshed on the way up; a later node whose
// required time a swap would violate keeps its first-pass choice.
func (m *mapper) recoverArea() error {
	for i := 2; i < m.c.Len(); i++ {
		v := uint32(i)
		if !m.best[v].ok {
			continue
		}
		req := m.req[v]
		if math.IsInf(req, 1) {
			continue
		}
		ch, err := m.matchNode(v, true, req+1e-9)
		if err != nil {
			// Required time too tight after upstream swaps; the
			// first-pass choice stands, rescored on fresh arrivals.
			ch = m.best[v]
			ch.arr, ch.af = m.score(&ch.m, ch.leaves)
		}
		m.best[v] = ch
		m.arr[v] = ch.arr
		m.af[v] = ch.af
	}
	return nil
}

// cover extracts the chosen cells reachable from the outputs into a
// CellNet, sharing inverters and, under MultiOutput, cells with
// identical function and inputs.
func (m *mapper) cover() error {
	n := m.c.Len()
	used := make([]bool, n)
	for _, o := range m.outs {
		used[o.Var()] = true
	}
	for i := n - 1; i >= 2; i-- {
		v := uint32(i)
		if !used[v] || !m.best[v].ok {
			continue
		}
		ch := &m.best[v]
		for j := range ch.m.pins {
			used[ch.leaves[ch.m.pins[j]]] = true
		}
	}

	m.net = &CellNet{NumPIs: len(m.ins)}
	m.piSig = make(map[uint32]Sig, len(m.ins))
	for i, in := range m.ins {
		m.piSig[uint32(in.Var())] = Sig(i)
	}
	m.sigPos = make(map[uint32]Sig)
	m.sigNeg = make(map[uint32]Sig)
	m.shared = make(map[string]Sig)

	for i := 2; i < n; i++ {
		v := uint32(i)
		if !used[v] || !m.best[v].ok {
			continue
		}
		if err := m.emitNode(v); err != nil {
			return err
		}
	}
	for _, o := range m.outs {
		s, err := m.sigFor(o)
		if err != nil {
			return err
		}
		m.net.Outs = append(m.net.Outs, s)
	}
	return nil
}

// emitNode places the chosen cell of and node v.  Leaves are emitted
// already: cut leaves are always earlier variables.
func (m *mapper) emitNode(v uint32) error {
	ch := &m.best[v]
	ins := make([]Sig, len(ch.m.pins))
	for j := range ch.m.pins {
		lit := z.Var(ch.leaves[ch.m.pins[j]]).Pos()
		if ch.m.inMask>>uint(j)&1 == 1 {
			lit = lit.Not()
		}
		s, err := m.sigFor(lit)
		if err != nil {
			return err
		}
		ins[j] = s
	}
	s := m.place(ch.m.gate, ins)
	if ch.m.compl {
		m.sigNeg[v] = s
	} else {
		m.sigPos[v] = s
	}
	return nil
}

// place appends a cell, or reuses an equivalent one under
// MultiOutput.
func (m *mapper) place(g *genlib.Gate, ins []Sig) Sig {
	var key string
	if m.opts.MultiOutput {
		key = cellKey(g, ins)
		if s, ok := m.shared[key]; ok {
			return s
		}
	}
	m.net.Cells = append(m.net.Cells, Cell{Gate: g, Ins: ins})
	s := Sig(m.net.NumPIs + len(m.net.Cells) - 1)
	if m.opts.MultiOutput {
		m.shared[key] = s
	}
	return s
}

func cellKey(g *genlib.Gate, ins []Sig) string {
	b := make([]byte, 0, len(g.Name)+1+4*len(ins))
	b = append(b, g.Name...)
	for _, s := range ins {
		b = append(b, 0, byte(s), byte(s>>8), byte(s>>16))
	}
	return string(b)
}

// sigFor resolves the signal of a graph literal, inserting shared
// inverters and constant cells on demand.
func (m *mapper) sigFor(lit z.Lit) (Sig, error) {
	v := uint32(lit.Var())
	if v == 1 {
		return m.constSig(lit.IsPos())
	}
	pos, neg := m.sigPos, m.sigNeg
	if !lit.IsPos() {
		pos, neg = neg, pos
	}
	if s, ok := pos[v]; ok {
		return s, nil
	}
	if s, ok := neg[v]; ok {
		before := len(m.net.Cells)
		inv := m.place(m.lib.inv, []Sig{s})
		if len(m.net.Cells) > before {
			m.numInvs++
		}
		pos[v] = inv
		return inv, nil
	}
	if s, ok := m.piSig[v]; ok {
		m.sigPos[v] = s
		if lit.IsPos() {
			return s, nil
		}
		return m.sigFor(lit)
	}
	return 0, fmt.Errorf("tmap: no signal for node %d", v)
}

// constSig places (once) the constant cell of the given value.
func (m *mapper) constSig(v bool) (Sig, error) {
	if v {
		if m.hasC1 {
			return m.const1, nil
		}
		if m.lib.const1 == nil {
			return 0, fmt.Errorf("%w: constant one", ErrNoConst)
		}
		m.const1 = m.place(m.lib.const1, nil)
		m.hasC1 = true
		return m.const1, nil
	}
	if m.hasC0 {
		return m.const0, nil
	}
	if m.lib.const0 == nil {
		return 0, fmt.Errorf("%w: constant zero", ErrNoConst)
	}
	m.const0 = m.place(m.lib.const0, nil)
	m.hasC0 = true
	return m.const0, nil
}
