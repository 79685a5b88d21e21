// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package logic gives a representation of combinational Boolean
// networks as and-inverter graphs with structural hashing, together
// with structural transforms (balancing) and level analysis over
// them.
package logic
