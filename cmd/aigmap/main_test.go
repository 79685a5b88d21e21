// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"testing"
)

func TestParseArgs(t *testing.T) {
	path, opts, err := parseArgs([]string{"x.aag"})
	if err != nil || path != "x.aag" || opts.Tech != "default" {
		t.Errorf("plain: %s %v %v", path, opts, err)
	}
	path, opts, err = parseArgs([]string{"--tech", "sky130", "x.aag"})
	if err != nil || path != "x.aag" || opts.Tech != "sky130" {
		t.Errorf("tech first: %s %v %v", path, opts, err)
	}
	path, opts, err = parseArgs([]string{"x.aag", "-l", "cells.genlib"})
	if err != nil || path != "x.aag" || opts.LibraryPath != "cells.genlib" {
		t.Errorf("library after: %s %v %v", path, opts, err)
	}
	for _, bad := range [][]string{
		{},
		{"--tech"},
		{"-l"},
		{"a.aag", "b.aag"},
		{"--frobnicate", "x.aag"},
	} {
		if _, _, err := parseArgs(bad); err == nil {
			t.Errorf("no error for %v", bad)
		}
	}
}
