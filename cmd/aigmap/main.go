// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-air/aigmap/bench"
	"github.com/go-air/aigmap/genlib"
)

const usage = `usage: %s <netlist.aag|aig> [options]

Benchmarks technology mapping of one AIGER netlist and writes a JSON
report to stdout.  Exit status is 0 iff the pipeline succeeded.

options:
	--library, -l <path>  map onto the cells of a genlib file
	--tech <name>         map onto a built-in library: %s
`

func usageExit() {
	p := os.Args[0]
	_, p = filepath.Split(p)
	fmt.Fprintf(os.Stderr, usage, p, strings.Join(genlib.BuiltinNames(), ", "))
	os.Exit(1)
}

// parseArgs handles the single positional netlist path followed (or
// preceded) by options, so the flag package's stop-at-positional rule
// doesn't get in the way.
func parseArgs(args []string) (string, bench.Options, error) {
	opts := bench.DefaultOptions()
	path := ""
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch a {
		case "--library", "-l", "--tech":
			if i+1 == len(args) {
				return "", opts, fmt.Errorf("%s needs a value", a)
			}
			i++
			if a == "--tech" {
				opts.Tech = args[i]
			} else {
				opts.LibraryPath = args[i]
			}
		case "-h", "--help":
			return "", opts, fmt.Errorf("help")
		default:
			if strings.HasPrefix(a, "-") {
				return "", opts, fmt.Errorf("unknown option %s", a)
			}
			if path != "" {
				return "", opts, fmt.Errorf("more than one netlist: %s, %s", path, a)
			}
			path = a
		}
	}
	if path == "" {
		return "", opts, fmt.Errorf("no netlist given")
	}
	return path, opts, nil
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("[aigmap] ")
	path, opts, err := parseArgs(os.Args[1:])
	if err != nil {
		usageExit()
	}
	// A missing input is a CLI failure, not a benchmark result.
	if _, err := os.Stat(path); err != nil {
		log.Println(err)
		os.Exit(1)
	}
	r := bench.Run(path, opts)
	fmt.Printf("%s\n", r.JSON())
	if !r.Success {
		os.Exit(1)
	}
}
