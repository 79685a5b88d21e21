// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package bench

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const andAag = `aag 3 2 0 1 1
2
4
6
6 2 4
`

const passAag = `aag 1 1 0 1 0
2
2
`

const chainAag = `aag 7 3 0 2 4
2
4
6
10
14
8 2 4
10 8 6
12 4 6
14 2 12
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunAnd(t *testing.T) {
	path := writeFile(t, "and.aag", andAag)
	r := Run(path, DefaultOptions())
	require.True(t, r.Success, "error: %s", r.Error)
	assert.Equal(t, path, r.Filename)
	assert.Equal(t, 1, r.Gates)
	assert.Equal(t, 2, r.NumInputs)
	assert.Equal(t, 1, r.NumOutputs)
	assert.Equal(t, 1, r.Depth)
	assert.Equal(t, 3, r.Area)
	assert.Equal(t, 2, r.Delay)
	assert.Empty(t, r.Error)
}

func TestResultJSONShape(t *testing.T) {
	path := writeFile(t, "and.aag", andAag)
	r := Run(path, DefaultOptions())
	buf := r.JSON()

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf, &m))
	for _, k := range []string{
		"filename", "gates", "num_inputs", "num_outputs",
		"depth", "area", "delay", "success"} {
		assert.Contains(t, m, k)
	}
	assert.NotContains(t, m, "error", "error absent on success")

	// Field order is part of the report format.
	s := string(buf)
	last := -1
	for _, k := range []string{
		`"filename"`, `"gates"`, `"num_inputs"`, `"num_outputs"`,
		`"depth"`, `"area"`, `"delay"`, `"success"`} {
		i := strings.Index(s, k)
		require.Greater(t, i, last, "field %s out of order", k)
		last = i
	}

	bad := Run(filepath.Join(t.TempDir(), "nope.aag"), DefaultOptions())
	require.False(t, bad.Success)
	var fm map[string]any
	require.NoError(t, json.Unmarshal(bad.JSON(), &fm))
	assert.Contains(t, fm, "error")
	assert.Equal(t, float64(0), fm["gates"])
}

func TestRunDeterministic(t *testing.T) {
	path := writeFile(t, "chain.aag", chainAag)
	a := Run(path, DefaultOptions())
	b := Run(path, DefaultOptions())
	assert.Equal(t, string(a.JSON()), string(b.JSON()))
}

func TestRunMissingFile(t *testing.T) {
	r := Run(filepath.Join(t.TempDir(), "nope.aag"), DefaultOptions())
	require.False(t, r.Success)
	assert.Contains(t, r.Error, "failed to read AIGER file")
	assert.Zero(t, r.Gates)
	assert.Zero(t, r.Area)
}

func TestRunUnknownTech(t *testing.T) {
	path := writeFile(t, "and.aag", andAag)
	opts := DefaultOptions()
	opts.Tech = "unknown_name"
	r := Run(path, opts)
	require.False(t, r.Success)
	assert.Contains(t, r.Error, "unknown technology library")
	assert.Contains(t, r.Error, "unknown_name")
}

func TestRunEmptyLibrary(t *testing.T) {
	path := writeFile(t, "and.aag", andAag)
	opts := DefaultOptions()
	opts.LibraryPath = writeFile(t, "empty.genlib", "# no cells here\n")
	r := Run(path, opts)
	require.False(t, r.Success)
	assert.Contains(t, r.Error, "library contains no gates")
}

func TestRunMalformedLibrary(t *testing.T) {
	path := writeFile(t, "and.aag", andAag)
	opts := DefaultOptions()
	opts.LibraryPath = writeFile(t, "bad.genlib", "GATE broken\n")
	r := Run(path, opts)
	require.False(t, r.Success)
	assert.Contains(t, r.Error, "failed to load genlib library")
}

func TestRunUserLibrary(t *testing.T) {
	path := writeFile(t, "and.aag", andAag)
	opts := DefaultOptions()
	opts.LibraryPath = writeFile(t, "nand.genlib", `
GATE inv   2 O=!a;     PIN a INV 1 999 1 0 1 0
GATE nand2 3 O=!(a*b); PIN * INV 1 999 1 0 1 0
`)
	r := Run(path, opts)
	require.True(t, r.Success, "error: %s", r.Error)
	// Only nand2 and inv are available, so the and costs both.
	assert.Equal(t, 5, r.Area)
	assert.Equal(t, 2, r.Delay)
}

func TestRunLatchedInput(t *testing.T) {
	latched := "aag 3 1 1 1 0\n2\n4 2\n4\n"
	path := writeFile(t, "latch.aag", latched)
	r := Run(path, DefaultOptions())
	require.False(t, r.Success)
	assert.Contains(t, r.Error, "failed to read AIGER file")
}

func TestRunPassthrough(t *testing.T) {
	path := writeFile(t, "pass.aag", passAag)
	r := Run(path, DefaultOptions())
	require.True(t, r.Success, "error: %s", r.Error)
	assert.Equal(t, 0, r.Gates)
	assert.Equal(t, 1, r.NumInputs)
	assert.Equal(t, 1, r.NumOutputs)
	assert.Equal(t, 0, r.Depth)
	assert.Equal(t, 0, r.Area)
	assert.Equal(t, 0, r.Delay)
}

func TestRunBalanceOptions(t *testing.T) {
	path := writeFile(t, "chain.aag", chainAag)
	def := Run(path, DefaultOptions())
	require.True(t, def.Success, "error: %s", def.Error)

	opts := DefaultOptions()
	opts.Balance.MinimizeLevels = true
	opts.Balance.Fast = false
	min := Run(path, opts)
	require.True(t, min.Success, "error: %s", min.Error)
	assert.Less(t, min.Gates, def.Gates, "level minimization should merge the and trees")
}

func TestRunSky130(t *testing.T) {
	path := writeFile(t, "and.aag", andAag)
	opts := DefaultOptions()
	opts.Tech = "sky130"
	r := Run(path, opts)
	require.True(t, r.Success, "error: %s", r.Error)
	assert.Positive(t, r.Area)
	assert.Positive(t, r.Delay)
}

func TestRunSuite(t *testing.T) {
	and := writeFile(t, "and.aag", andAag)
	missing := filepath.Join(t.TempDir(), "nope.aag")
	s := RunSuite([]string{and, missing, and}, DefaultOptions(), 2)
	require.Equal(t, 3, s.Count)
	assert.Equal(t, 1, s.Failures)
	require.Len(t, s.Results, 3)
	assert.True(t, s.Results[0].Success)
	assert.False(t, s.Results[1].Success)
	assert.Equal(t, and, s.Results[2].Filename)
	assert.False(t, s.GeneratedAt.IsZero())

	var m map[string]any
	require.NoError(t, json.Unmarshal(s.JSON(), &m))
	assert.Contains(t, m, "results")
}
