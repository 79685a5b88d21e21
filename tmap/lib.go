// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package tmap

import (
	"errors"
	"fmt"
	"log"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/go-air/aigmap/genlib"
	"github.com/go-air/aigmap/tt"
)

// MaxArity bounds the widest cell the matcher will index.
const MaxArity = 9

var (
	// ErrGateTooWide indicates a library cell with more inputs than
	// MaxArity.
	ErrGateTooWide = errors.New("tmap: gate exceeds supported arity")
	// ErrNoInverter indicates a library without an inverter cell.
	ErrNoInverter = errors.New("tmap: library has no inverter")
	// ErrNoConst indicates a needed constant cell is missing.
	ErrNoConst = errors.New("tmap: library has no constant cell")
)

// LibOpts configures library indexing.
type LibOpts struct {
	// IgnoreSymmetries indexes cell functions as written, without
	// permutation canonicalization, so only cuts whose functions
	// agree with a cell pin order literally will match.
	IgnoreSymmetries bool
	Verbose          bool
}

// cand is one way a cell realizes a canonical function class: the
// permutation that canonicalized the (input-complemented) cell
// table, and the complementation masks applied to get there.
type cand struct {
	gate   *genlib.Gate
	perm   []int // Canon witness: table.Permute(perm) is canonical
	inMask uint  // bit j set: gate pin j takes an inverted leaf
}

// match binds a cell to the leaves of a cut: leaf pins[j], inverted
// when inMask bit j is set, feeds gate pin j; compl asks for an
// inverter on the cell output.
type match struct {
	gate   *genlib.Gate
	pins   []int
	inMask uint
	compl  bool
}

type canonKey struct {
	w  uint64
	nv int
}

type canonVal struct {
	t tt.Table
	p []int
}

// canonCacheSize bounds the memoized canonicalizations.  Cut
// functions repeat heavily across a network, so most lookups hit.
const canonCacheSize = 1 << 14

// Library is a genlib cell set indexed for cut matching.
type Library struct {
	opts  LibOpts
	gates []genlib.Gate
	cands map[string][]cand

	inv      *genlib.Gate
	invArea  float64
	invDelay float64
	const0   *genlib.Gate
	const1   *genlib.Gate

	canon *lru.Cache[canonKey, canonVal]
}

// NewLibrary indexes gates for matching.  The library must contain
// at least one gate and an inverter; cells wider than MaxArity are
// rejected.
//
// Cut enumeration in the mapper is bounded to cutSize inputs, so
// cells wider than that are accepted and indexed but never selected
// by Map.  NewLibrary reports them when opts.Verbose is set.
func NewLibrary(gates []genlib.Gate, opts LibOpts) (*Library, error) {
	if len(gates) == 0 {
		return nil, genlib.ErrEmptyLibrary
	}
	cache, err := lru.New[canonKey, canonVal](canonCacheSize)
	if err != nil {
		return nil, err
	}
	l := &Library{
		opts:  opts,
		gates: append([]genlib.Gate(nil), gates...),
		cands: make(map[string][]cand),
		canon: cache,
	}
	for i := range l.gates {
		g := &l.gates[i]
		if g.NumPins() > MaxArity {
			return nil, fmt.Errorf("%w: %s has %d inputs", ErrGateTooWide, g.Name, g.NumPins())
		}
		if g.NumPins() > cutSize && opts.Verbose {
			log.Printf("library: %s has %d inputs, beyond the %d input cut bound; it will not be used",
				g.Name, g.NumPins(), cutSize)
		}
		l.classify(g)
		l.index(g)
	}
	if l.inv == nil {
		return nil, ErrNoInverter
	}
	if opts.Verbose {
		log.Printf("library: %d gates, %d function classes, inverter %s",
			len(l.gates), len(l.cands), l.inv.Name)
	}
	return l, nil
}

// classify records the cheapest inverter and constant cells.
func (l *Library) classify(g *genlib.Gate) {
	switch g.NumPins() {
	case 0:
		if g.Table.Bit(0) == 0 {
			if l.const0 == nil || g.Area < l.const0.Area {
				l.const0 = g
			}
		} else {
			if l.const1 == nil || g.Area < l.const1.Area {
				l.const1 = g
			}
		}
	case 1:
		if !g.Table.Eq(tt.Var(0, 1).Not()) {
			return
		}
		d := g.Pins[0].Delay()
		if l.inv == nil || g.Area < l.invArea ||
			g.Area == l.invArea && d < l.invDelay {
			l.inv = g
			l.invArea = g.Area
			l.invDelay = d
		}
	}
}

// index registers every input-complemented variant of the cell under
// its canonical key.  Variants let the matcher absorb edge inversions
// on cut leaves at the price of an input inverter each.
func (l *Library) index(g *genlib.Gate) {
	nv := g.NumPins()
	if nv == 0 {
		return
	}
	masks := uint(1)
	if nv <= tt.PermVars {
		masks = 1 << uint(nv)
	}
	for m := uint(0); m < masks; m++ {
		t := g.Table
		for j := 0; j < nv; j++ {
			if m>>uint(j)&1 == 1 {
				t = t.Flip(j)
			}
		}
		var p []int
		if l.opts.IgnoreSymmetries {
			p = identPerm(nv)
		} else {
			t, p = tt.Canon(t)
		}
		key := t.Key()
		if l.dupCand(key, g, p, m) {
			continue
		}
		l.cands[key] = append(l.cands[key], cand{gate: g, perm: p, inMask: m})
	}
}

// dupCand drops variants that land on an existing candidate of the
// same gate with the same pin binding.
func (l *Library) dupCand(key string, g *genlib.Gate, p []int, m uint) bool {
	for _, c := range l.cands[key] {
		if c.gate == g && c.inMask == m && samePerm(c.perm, p) {
			return true
		}
	}
	return false
}

func identPerm(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

func samePerm(a, b []int) bool {
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

// canonical memoizes tt.Canon for single-word functions.
func (l *Library) canonical(t tt.Table) (tt.Table, []int) {
	if t.NumVars() > tt.PermVars {
		return t, identPerm(t.NumVars())
	}
	k := canonKey{w: t.Word(), nv: t.NumVars()}
	if v, ok := l.canon.Get(k); ok {
		return v.t, v.p
	}
	ct, p := tt.Canon(t)
	l.canon.Add(k, canonVal{t: ct, p: p})
	return ct, p
}

// lookup finds the cells realizing the function t of a cut, in both
// output polarities.  Matches bind gate pins to leaf positions of t.
func (l *Library) lookup(t tt.Table) []match {
	var ms []match
	ms = l.lookupPhase(t, false, ms)
	ms = l.lookupPhase(t.Not(), true, ms)
	sort.Slice(ms, func(i, j int) bool {
		if ms[i].gate.Name != ms[j].gate.Name {
			return ms[i].gate.Name < ms[j].gate.Name
		}
		if ms[i].compl != ms[j].compl {
			return !ms[i].compl
		}
		return ms[i].inMask < ms[j].inMask
	})
	return ms
}

func (l *Library) lookupPhase(t tt.Table, compl bool, ms []match) []match {
	var key string
	var invPC []int
	if l.opts.IgnoreSymmetries {
		key = t.Key()
		invPC = identPerm(t.NumVars())
	} else {
		ct, pc := l.canonical(t)
		key = ct.Key()
		invPC = tt.InvPerm(pc)
	}
	for _, c := range l.cands[key] {
		pins := make([]int, len(c.perm))
		for j := range c.perm {
			pins[j] = invPC[c.perm[j]]
		}
		ms = append(ms, match{gate: c.gate, pins: pins, inMask: c.inMask, compl: compl})
	}
	return ms
}

// NumGates counts the indexed cells.
func (l *Library) NumGates() int {
	return len(l.gates)
}

// Inv gives the library inverter.
func (l *Library) Inv() *genlib.Gate {
	return l.inv
}
