// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package genlib reads technology libraries in the genlib format:
// cells listed by name, area, Boolean expression and per-pin timing.
// It also carries the built-in libraries embedded in the program.
package genlib
