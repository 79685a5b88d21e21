// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package bench runs the mapping benchmark pipeline: read an AIGER
// netlist, balance it, build a technology library, map, and report
// the metrics as a single JSON record.
package bench

import (
	"encoding/json"
)

// Result is the benchmark report for one netlist.  On failure the
// numeric fields are zero and Error carries the reason; on success
// Error is absent.
type Result struct {
	Filename   string `json:"filename"`
	Gates      int    `json:"gates"`
	NumInputs  int    `json:"num_inputs"`
	NumOutputs int    `json:"num_outputs"`
	Depth      int    `json:"depth"`
	Area       int    `json:"area"`
	Delay      int    `json:"delay"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

// JSON renders r as an indented JSON object.
func (r *Result) JSON() []byte {
	buf, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		// Result has no unmarshalable fields.
		panic(err)
	}
	return buf
}

// fail produces the uniform failure record for path.
func fail(path string, err error) Result {
	return Result{Filename: path, Error: err.Error()}
}
