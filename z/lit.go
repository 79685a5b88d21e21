// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package z

import "strconv"

// Lit is a Boolean literal: a variable together with a sign.  The
// low bit holds the sign, so m>>1 recovers the variable and m^1 the
// negation.  LitNull, with null variable, is not a valid literal.
type Lit uint32

// LitNull is the null literal.
const LitNull Lit = 0

// IsPos tells whether m is a positive literal.
func (m Lit) IsPos() bool {
	return m&1 == 0
}

// Not returns the negation of m.
func (m Lit) Not() Lit {
	return m ^ 1
}

// Var returns the variable underlying m.
func (m Lit) Var() Var {
	return Var(m >> 1)
}

// Sign returns 1 if m is positive and -1 otherwise.
func (m Lit) Sign() int {
	if m.IsPos() {
		return 1
	}
	return -1
}

// Dimacs returns the dimacs representation of m: the variable index,
// negated for negative literals.
func (m Lit) Dimacs() int {
	v := int(m >> 1)
	if m.IsPos() {
		return v
	}
	return -v
}

// Dimacs2Lit translates a dimacs coded literal to a Lit.
func Dimacs2Lit(d int) Lit {
	if d < 0 {
		return Var(-d).Neg()
	}
	return Var(d).Pos()
}

func (m Lit) String() string {
	return strconv.Itoa(m.Dimacs())
}
