// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package tmap maps and-inverter graphs onto standard-cell libraries.
//
// A genlib library is first indexed into a Library: every cell
// function is canonicalized over input permutations and input
// complementations, so a cut function found in the network can be
// matched in one lookup.  Map then enumerates priority cuts over the
// graph, picks a cell for every needed node balancing arrival time
// against area flow, and extracts the cover as a CellNet.
package tmap
