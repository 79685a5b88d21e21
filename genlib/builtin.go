// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package genlib

import (
	"fmt"
	"sort"
)

// defaultGenlib is a small generic standard-cell library.  Areas and
// block delays are in round units so mapped area and delay totals stay
// integral on simple circuits.
const defaultGenlib = `# aigmap default technology library
GATE zero  0 O=CONST0;
GATE one   0 O=CONST1;
GATE inv1  1 O=!a;              PIN a INV 1 999 1.0 0.2 1.0 0.2
GATE buf1  2 O=a;               PIN a NONINV 1 999 2.0 0.2 2.0 0.2
GATE nand2 2 O=!(a*b);          PIN * INV 1 999 1.0 0.2 1.0 0.2
GATE nor2  2 O=!(a+b);          PIN * INV 1 999 1.0 0.2 1.0 0.2
GATE and2  3 O=a*b;             PIN * NONINV 1 999 2.0 0.2 2.0 0.2
GATE or2   3 O=a+b;             PIN * NONINV 1 999 2.0 0.2 2.0 0.2
GATE nand3 3 O=!(a*b*c);        PIN * INV 1 999 2.0 0.2 2.0 0.2
GATE nor3  3 O=!(a+b+c);        PIN * INV 1 999 2.0 0.2 2.0 0.2
GATE nand4 4 O=!(a*b*c*d);      PIN * INV 1 999 2.0 0.2 2.0 0.2
GATE nor4  4 O=!(a+b+c+d);      PIN * INV 1 999 2.0 0.2 2.0 0.2
GATE aoi21 3 O=!(a*b+c);        PIN * INV 1 999 2.0 0.2 2.0 0.2
GATE oai21 3 O=!((a+b)*c);      PIN * INV 1 999 2.0 0.2 2.0 0.2
GATE aoi22 4 O=!(a*b+c*d);      PIN * INV 1 999 2.0 0.2 2.0 0.2
GATE oai22 4 O=!((a+b)*(c+d));  PIN * INV 1 999 2.0 0.2 2.0 0.2
GATE xor2  5 O=a*!b+!a*b;       PIN * UNKNOWN 2 999 3.0 0.4 3.0 0.4
GATE xnor2 5 O=a*b+!a*!b;       PIN * UNKNOWN 2 999 3.0 0.4 3.0 0.4
GATE mux21 6 O=s*a+!s*b;        PIN * UNKNOWN 2 999 3.0 0.4 3.0 0.4
GATE maj3  8 O=a*b+a*c+b*c;     PIN * UNKNOWN 2 999 4.0 0.4 4.0 0.4
`

// sky130Genlib approximates the high-density corner of the sky130
// open-source cell library.
const sky130Genlib = `# aigmap sky130 technology library (hd flavor)
GATE sky130_fd_sc_hd__conb_0   0 LO=CONST0;
GATE sky130_fd_sc_hd__conb_1   0 HI=CONST1;
GATE sky130_fd_sc_hd__inv_1    1 Y=!A;                 PIN A INV 1 999 1.0 0.1 1.0 0.1
GATE sky130_fd_sc_hd__buf_1    2 X=A;                  PIN A NONINV 1 999 2.0 0.1 2.0 0.1
GATE sky130_fd_sc_hd__nand2_1  2 Y=!(A*B);             PIN * INV 1 999 1.0 0.1 1.0 0.1
GATE sky130_fd_sc_hd__nor2_1   2 Y=!(A+B);             PIN * INV 1 999 1.0 0.1 1.0 0.1
GATE sky130_fd_sc_hd__and2_0   4 X=A*B;                PIN * NONINV 1 999 3.0 0.2 3.0 0.2
GATE sky130_fd_sc_hd__or2_0    4 X=A+B;                PIN * NONINV 1 999 3.0 0.2 3.0 0.2
GATE sky130_fd_sc_hd__nand3_1  3 Y=!(A*B*C);           PIN * INV 1 999 2.0 0.2 2.0 0.2
GATE sky130_fd_sc_hd__nor3_1   3 Y=!(A+B+C);           PIN * INV 1 999 2.0 0.2 2.0 0.2
GATE sky130_fd_sc_hd__a21oi_1  3 Y=!(A1*A2+B1);        PIN * INV 1 999 2.0 0.2 2.0 0.2
GATE sky130_fd_sc_hd__o21ai_0  3 Y=!((A1+A2)*B1);      PIN * INV 1 999 2.0 0.2 2.0 0.2
GATE sky130_fd_sc_hd__a22oi_1  4 Y=!(A1*A2+B1*B2);     PIN * INV 1 999 2.0 0.2 2.0 0.2
GATE sky130_fd_sc_hd__xor2_1   6 X=A^B;                PIN * UNKNOWN 2 999 4.0 0.3 4.0 0.3
GATE sky130_fd_sc_hd__xnor2_1  6 Y=!(A^B);             PIN * UNKNOWN 2 999 4.0 0.3 4.0 0.3
GATE sky130_fd_sc_hd__mux2_1   7 X=S*A1+!S*A0;         PIN * UNKNOWN 2 999 4.0 0.3 4.0 0.3
GATE sky130_fd_sc_hd__maj3_1   9 X=A*B+A*C+B*C;        PIN * UNKNOWN 2 999 5.0 0.3 5.0 0.3
`

// builtins maps technology selector names to embedded genlib text.
// asap7 has no dedicated description yet and is served the default
// content; the mapping is kept explicit rather than implied by
// fallthrough.
var builtins = map[string]string{
	"default": defaultGenlib,
	"asap7":   defaultGenlib,
	"sky130":  sky130Genlib,
}

// Builtin gives the genlib text of a built-in technology library.
func Builtin(name string) (string, error) {
	s, ok := builtins[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTech, name)
	}
	return s, nil
}

// BuiltinNames lists the recognized technology selectors, sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
