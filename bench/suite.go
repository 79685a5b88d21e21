// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package bench

import (
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"
)

// SuiteResult aggregates a batch of runs.
type SuiteResult struct {
	GeneratedAt time.Time `json:"generated_at"`
	Count       int       `json:"count"`
	Failures    int       `json:"failures"`
	Results     []Result  `json:"results"`
}

// JSON renders s as an indented JSON object.
func (s *SuiteResult) JSON() []byte {
	buf, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		panic(err)
	}
	return buf
}

// RunSuite benchmarks each path with the same options, at most par
// runs at a time (par < 1 means unbounded).  Runs share nothing, so
// they parallelize freely; results keep the input order.
func RunSuite(paths []string, opts Options, par int) SuiteResult {
	results := make([]Result, len(paths))
	var g errgroup.Group
	if par > 0 {
		g.SetLimit(par)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = Run(path, opts)
			return nil
		})
	}
	_ = g.Wait() // workers never error; Run absorbs failures
	s := SuiteResult{
		GeneratedAt: time.Now().UTC(),
		Count:       len(results),
		Results:     results,
	}
	for i := range results {
		if !results[i].Success {
			s.Failures++
		}
	}
	return s
}
