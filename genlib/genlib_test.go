// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package genlib

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-air/aigmap/tt"
)

func gateByName(t *testing.T, gs []Gate, name string) *Gate {
	t.Helper()
	for i := range gs {
		if gs[i].Name == name {
			return &gs[i]
		}
	}
	t.Fatalf("no gate %s", name)
	return nil
}

func TestParseDefault(t *testing.T) {
	gs, err := ParseString(defaultGenlib)
	if err != nil {
		t.Fatal(err)
	}
	if len(gs) < 10 {
		t.Fatalf("default library too small: %d gates", len(gs))
	}
	inv := gateByName(t, gs, "inv1")
	if inv.NumPins() != 1 || inv.Area != 1 {
		t.Errorf("inv1: pins %d area %f", inv.NumPins(), inv.Area)
	}
	if !inv.Table.Eq(tt.Var(0, 1).Not()) {
		t.Errorf("inv1 table %s", inv.Table)
	}
	if d := inv.Pins[0].Delay(); d != 1 {
		t.Errorf("inv1 delay %f", d)
	}
	and2 := gateByName(t, gs, "and2")
	want := tt.Var(0, 2).And(tt.Var(1, 2))
	if !and2.Table.Eq(want) {
		t.Errorf("and2 table %s", and2.Table)
	}
	if and2.Pins[0].Name != "a" || and2.Pins[1].Name != "b" {
		t.Errorf("and2 pins %v", and2.Pins)
	}
	zero := gateByName(t, gs, "zero")
	if !zero.IsConst() || !zero.Table.Eq(tt.Const(0, false)) {
		t.Errorf("zero gate: %v %s", zero.Pins, zero.Table)
	}
	one := gateByName(t, gs, "one")
	if !one.IsConst() || !one.Table.Eq(tt.Const(0, true)) {
		t.Errorf("one gate: %v %s", one.Pins, one.Table)
	}
}

func TestParseSky130(t *testing.T) {
	gs, err := ParseString(sky130Genlib)
	if err != nil {
		t.Fatal(err)
	}
	xor := gateByName(t, gs, "sky130_fd_sc_hd__xor2_1")
	want := tt.Var(0, 2).Xor(tt.Var(1, 2))
	if !xor.Table.Eq(want) {
		t.Errorf("xor2 table %s", xor.Table)
	}
	oai := gateByName(t, gs, "sky130_fd_sc_hd__o21ai_0")
	a1, a2, b1 := tt.Var(0, 3), tt.Var(1, 3), tt.Var(2, 3)
	if !oai.Table.Eq(a1.Or(a2).And(b1).Not()) {
		t.Errorf("o21ai table %s", oai.Table)
	}
}

func TestParseNamedPins(t *testing.T) {
	gs, err := ParseString(`
GATE weird 4 O = !sel * lo + sel*hi;
PIN lo NONINV 1 999 2 0.1 2 0.1
PIN hi NONINV 1 999 2 0.1 2 0.1
PIN sel UNKNOWN 1 999 3 0.1 3 0.1
`)
	if err != nil {
		t.Fatal(err)
	}
	g := &gs[0]
	// Pin order follows the PIN lines, not expression appearance.
	if g.Pins[0].Name != "lo" || g.Pins[1].Name != "hi" || g.Pins[2].Name != "sel" {
		t.Fatalf("pins %v", g.Pins)
	}
	lo, hi, sel := tt.Var(0, 3), tt.Var(1, 3), tt.Var(2, 3)
	want := sel.Not().And(lo).Or(sel.And(hi))
	if !g.Table.Eq(want) {
		t.Errorf("table %s want %s", g.Table, want)
	}
	if d := g.Pins[2].Delay(); d != 3 {
		t.Errorf("sel delay %f", d)
	}
}

func TestParsePostfixNot(t *testing.T) {
	gs, err := ParseString("GATE n 1 O=a'; PIN a INV 1 999 1 0 1 0")
	if err != nil {
		t.Fatal(err)
	}
	if !gs[0].Table.Eq(tt.Var(0, 1).Not()) {
		t.Errorf("table %s", gs[0].Table)
	}
}

func TestParseErrors(t *testing.T) {
	for _, bad := range []string{
		"GATE g 1 O=a*; PIN a INV 1 999 1 0 1 0",
		"GATE g 1 O=(a; PIN a INV 1 999 1 0 1 0",
		"GATE g x O=a; PIN a INV 1 999 1 0 1 0",
		"GATE g 1 a; PIN a INV 1 999 1 0 1 0",
		"GATE g 1 O=a*b; PIN a INV 1 999 1 0 1 0",
		"GATE g 1 O=a; PIN a INV 1 999 1 0 1 0\nPIN b INV 1 999 1 0 1 0",
		"GATE g 1 O=a; PIN * INV 1 999 1 0 1 0\nPIN a INV 1 999 1 0 1 0",
		"LATCH l 1 O=a; PIN a INV 1 999 1 0 1 0",
		"WIDGET w",
		"GATE g 1 O=a",
	} {
		if _, err := ParseString(bad); !errors.Is(err, ErrParse) {
			t.Errorf("no parse error for %q: %v", bad, err)
		}
	}
}

func TestParseComments(t *testing.T) {
	gs, err := ParseString(`
# leading comment
GATE g 2 O=a+b; # trailing comment
PIN * NONINV 1 999 1 0 1 0
`)
	if err != nil {
		t.Fatal(err)
	}
	if len(gs) != 1 || gs[0].NumPins() != 2 {
		t.Fatalf("gates %v", gs)
	}
}

func TestWideGateSkipsTable(t *testing.T) {
	gs, err := ParseString(`
GATE wide 10 O=a*b*c*d*e*f*g*h*i*j;
PIN * NONINV 1 999 1 0 1 0
`)
	if err != nil {
		t.Fatal(err)
	}
	if gs[0].NumPins() != 10 {
		t.Fatalf("pins %d", gs[0].NumPins())
	}
	if gs[0].Table.NumVars() != 0 {
		t.Errorf("wide gate should carry no table")
	}
}

func TestBuiltin(t *testing.T) {
	for _, name := range BuiltinNames() {
		s, err := Builtin(name)
		if err != nil {
			t.Fatal(err)
		}
		gs, err := ParseString(s)
		if err != nil {
			t.Fatalf("builtin %s: %v", name, err)
		}
		if len(gs) == 0 {
			t.Fatalf("builtin %s empty", name)
		}
	}
	if _, err := Builtin("nangate45"); !errors.Is(err, ErrUnknownTech) {
		t.Errorf("expected ErrUnknownTech, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cells.genlib")
	if err := os.WriteFile(path, []byte(defaultGenlib), 0644); err != nil {
		t.Fatal(err)
	}
	gs, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(gs) == 0 {
		t.Fatal("no gates")
	}
	if _, err := Load(filepath.Join(dir, "nope.genlib")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
