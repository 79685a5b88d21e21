// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package aiger implements readers and writers for combinational
// circuits in aiger format, ascii and binary, version 1.9 headers.
//
// The aiger objects are backed by and-inverter graphs as represented
// in *logic.C.  Sequential elements (latches) and the 1.9 property
// sections are rejected: this package handles the combinational
// subset used for technology mapping benchmarks.
package aiger
