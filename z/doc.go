// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package z gives representations for Boolean variables and literals
// used throughout aigmap.
//
// A literal packs a variable and a sign into one machine word, so
// circuit edges with optional inversion are just literals.
package z
