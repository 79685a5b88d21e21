// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package bench

import (
	"fmt"

	"github.com/go-air/aigmap/genlib"
	"github.com/go-air/aigmap/logic"
	"github.com/go-air/aigmap/logic/aiger"
	"github.com/go-air/aigmap/tmap"
	"github.com/go-air/aigmap/z"
)

// Options configures one pipeline run.  Tech selects a built-in
// library; LibraryPath, when set, overrides it with a genlib file.
type Options struct {
	LibraryPath string
	Tech        string
	Balance     logic.BalanceOpts
	Lib         tmap.LibOpts
	Map         tmap.MapOpts
}

// DefaultOptions is the benchmark configuration: fast single-pass
// balancing and hybrid mapping with multi-output cell sharing.
func DefaultOptions() Options {
	return Options{
		Tech:    "default",
		Balance: logic.BalanceOpts{MinimizeLevels: false, Fast: true},
		Map:     tmap.DefaultMapOpts(),
	}
}

// stage names the pipeline states; stages advance linearly and any
// error moves the run to the terminal failure state.
type stage int

const (
	stInit stage = iota
	stNetworkLoaded
	stBalanced
	stLibraryLoaded
	stLibraryBuilt
	stMapped
	stMetricsCollected
	stDone
)

var stageNames = [...]string{
	"init", "network loaded", "balanced", "library loaded",
	"library built", "mapped", "metrics collected", "done",
}

func (s stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// pipeline carries the state threaded through the stages.
type pipeline struct {
	opts   Options
	path   string
	net    *aiger.T
	ins    []z.Lit
	outs   []z.Lit
	gates  []genlib.Gate
	lib    *tmap.Library
	mapped *tmap.CellNet
	res    Result
}

// Run executes the full pipeline on one netlist and always returns a
// result record; every stage failure, including panics out of the
// optimization passes, lands here as a Result with Success false.
func Run(path string, opts Options) Result {
	p := &pipeline{opts: opts, path: path, res: Result{Filename: path}}
	if err := p.run(); err != nil {
		return fail(path, err)
	}
	p.res.Success = true
	return p.res
}

// run is the single aggregation point: it steps the state machine to
// completion and converts panics into internal errors.
func (p *pipeline) run() (err error) {
	st := stInit
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal: %v at stage %q", r, st)
		}
	}()
	for st != stDone {
		next, serr := p.step(st)
		if serr != nil {
			return serr
		}
		st = next
	}
	return nil
}

func (p *pipeline) step(st stage) (stage, error) {
	switch st {
	case stInit:
		net, err := aiger.ReadFile(p.path)
		if err != nil {
			return st, fmt.Errorf("failed to read AIGER file: %w", err)
		}
		p.net = net
		return stNetworkLoaded, nil
	case stNetworkLoaded:
		p.outs = p.net.C.Balance(p.opts.Balance, p.net.Outputs...)
		for _, pos := range p.net.C.InPos(nil) {
			p.ins = append(p.ins, p.net.C.At(pos))
		}
		return stBalanced, nil
	case stBalanced:
		gates, err := p.loadLibrary()
		if err != nil {
			return st, err
		}
		p.gates = gates
		return stLibraryLoaded, nil
	case stLibraryLoaded:
		lib, err := tmap.NewLibrary(p.gates, p.opts.Lib)
		if err != nil {
			return st, err
		}
		p.lib = lib
		return stLibraryBuilt, nil
	case stLibraryBuilt:
		mapped, _, err := tmap.Map(p.lib, p.net.C, p.ins, p.outs, p.opts.Map)
		if err != nil {
			return st, err
		}
		p.mapped = mapped
		return stMapped, nil
	case stMapped:
		p.collect()
		return stMetricsCollected, nil
	case stMetricsCollected:
		return stDone, nil
	}
	return st, fmt.Errorf("internal: bad stage %q", st)
}

// loadLibrary resolves the gate list from the user file or the
// built-in selector.
func (p *pipeline) loadLibrary() ([]genlib.Gate, error) {
	if p.opts.LibraryPath != "" {
		gates, err := genlib.Load(p.opts.LibraryPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load genlib library: %w", err)
		}
		return gates, nil
	}
	content, err := genlib.Builtin(p.opts.Tech)
	if err != nil {
		return nil, err
	}
	gates, err := genlib.ParseString(content)
	if err != nil {
		return nil, fmt.Errorf("failed to load genlib library: %w", err)
	}
	return gates, nil
}

// collect fills the metrics: counts and depth from the balanced
// network, area and delay from the mapped netlist.
func (p *pipeline) collect() {
	c := p.net.C
	p.res.Gates = c.NumAnds()
	p.res.NumInputs = len(p.ins)
	p.res.NumOutputs = len(p.outs)
	p.res.Depth = c.Depth(p.outs...)
	p.res.Area = int(p.mapped.Area())
	p.res.Delay = int(p.mapped.WorstDelay())
}
