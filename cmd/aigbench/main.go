// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Command aigbench runs the mapping benchmark over a batch of AIGER
// files or directories of them and writes one aggregate JSON report.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/go-air/aigmap/bench"
)

var (
	tech    = flag.String("tech", "default", "built-in technology library")
	library = flag.String("library", "", "genlib file overriding -tech")
	par     = flag.Int("j", runtime.NumCPU(), "parallel runs")
	out     = flag.String("o", "", "write the report here instead of stdout")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("[aigbench] ")
	flag.Usage = func() {
		p := os.Args[0]
		_, p = filepath.Split(p)
		fmt.Fprintf(os.Stderr, "usage: %s [options] <file|dir> ...\n", p)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}
	paths, err := expand(flag.Args())
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		log.Println("no .aag or .aig files found")
		os.Exit(1)
	}
	opts := bench.DefaultOptions()
	opts.Tech = *tech
	opts.LibraryPath = *library
	s := bench.RunSuite(paths, opts, *par)
	buf := append(s.JSON(), '\n')
	if *out == "" {
		os.Stdout.Write(buf)
	} else if err := os.WriteFile(*out, buf, 0644); err != nil {
		log.Println(err)
		os.Exit(1)
	}
	log.Printf("%d runs, %d failures", s.Count, s.Failures)
	if s.Failures > 0 {
		os.Exit(1)
	}
}

// expand resolves arguments to netlist files; directories contribute
// their .aag and .aig entries, sorted.
func expand(args []string) ([]string, error) {
	var paths []string
	for _, a := range args {
		st, err := os.Stat(a)
		if err != nil {
			return nil, err
		}
		if !st.IsDir() {
			paths = append(paths, a)
			continue
		}
		ents, err := os.ReadDir(a)
		if err != nil {
			return nil, err
		}
		var found []string
		for _, e := range ents {
			if e.IsDir() {
				continue
			}
			switch filepath.Ext(e.Name()) {
			case ".aag", ".aig":
				found = append(found, filepath.Join(a, e.Name()))
			}
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	return paths, nil
}
