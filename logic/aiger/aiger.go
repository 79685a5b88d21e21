// Copyright 2025 The Aigmap Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package aiger

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-air/aigmap/logic"
	"github.com/go-air/aigmap/z"
)

// Errors related to IO and formatting
var (
	PrematureEOF       = errors.New("premature EOF")
	UnexpectedChar     = errors.New("unexpected char")
	BadHeader          = errors.New("bad header")
	NotCombinational   = errors.New("latches or property sections present")
	LitOOB             = errors.New("literal out of bounds")
	BadDeltaEncoding   = errors.New("bad delta encoding")
	InvalidIndex       = errors.New("invalid index")
	InvalidName        = errors.New("invalid symbol name")
	SignedInput        = errors.New("input is negated")
	SignedAnd          = errors.New("and gate def is negated")
	CombLoop           = errors.New("combinational logic has a loop")
	AndMultiplyDefined = errors.New("and gate multiply defined")
	UndefinedLit       = errors.New("literal not defined")
)

// Type T contains the information read from or written to disk in
// aiger format: a combinational circuit together with its input and
// output literals and optional symbol names.
type T struct {
	*logic.C
	Inputs  []z.Lit
	Outputs []z.Lit
	symbols map[byte]map[int]string
}

// MakeFor makes an aiger object from a circuit.  The circuit is the
// backing store for the aiger object, no copy is made.
func MakeFor(c *logic.C, ms ...z.Lit) *T {
	result := &T{
		C:       c,
		symbols: make(map[byte]map[int]string, 2)}
	result.symbols['i'] = make(map[int]string)
	result.symbols['o'] = make(map[int]string)
	n := c.Len()
	for i := 2; i < n; i++ {
		m := c.At(i)
		if c.IsInput(m) {
			result.Inputs = append(result.Inputs, m)
		}
	}
	result.Outputs = make([]z.Lit, len(ms))
	copy(result.Outputs, ms)
	return result
}

// Make makes an aiger object with initial capacity hint c for the
// underlying circuit.
func Make(c int) *T {
	return MakeFor(logic.NewCCap(c))
}

// Sys returns the circuit backing this aiger object.
func (a *T) Sys() *logic.C {
	return a.C
}

// NewIn adds a fresh input to the circuit.
func (a *T) NewIn() z.Lit {
	m := a.C.Lit()
	a.Inputs = append(a.Inputs, m)
	return m
}

// SetOutput appends m to the outputs.
func (a *T) SetOutput(m z.Lit) {
	a.Outputs = append(a.Outputs, m)
}

// NameInput names the index'th input nm.  It returns a non-nil error
// if index is out of bounds or nm contains a new line.
func (a *T) NameInput(index int, nm string) error {
	if index < 0 || index >= len(a.Inputs) {
		return InvalidIndex
	}
	if strings.Contains(nm, "\n") {
		return InvalidName
	}
	a.symbols['i'][index] = nm
	return nil
}

// InputName gives the name of the index'th input, with a flag
// telling whether a name exists.
func (a *T) InputName(index int) (string, bool) {
	nm, found := a.symbols['i'][index]
	return nm, found
}

// NameOutput names the index'th output nm.
func (a *T) NameOutput(index int, nm string) error {
	if index < 0 || index >= len(a.Outputs) {
		return InvalidIndex
	}
	if strings.Contains(nm, "\n") {
		return InvalidName
	}
	a.symbols['o'][index] = nm
	return nil
}

// OutputName gives the name of the index'th output, with a flag
// telling whether a name exists.
func (a *T) OutputName(index int) (string, bool) {
	nm, found := a.symbols['o'][index]
	return nm, found
}

// ReadFile reads the aiger file at path, detecting ascii versus
// binary format from the header.
func ReadFile(path string) (*T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read reads an aiger coded combinational circuit from r, detecting
// ascii versus binary format from the header.
func Read(r io.Reader) (*T, error) {
	br := bufio.NewReader(r)
	hdr, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	if hdr.Binary {
		return readBinary(br, hdr)
	}
	return readAscii(br, hdr)
}

func readAscii(br *bufio.Reader, hdr *header) (*T, error) {
	a := Make(int(hdr.Max + 1))
	rdr := makeReader(a, hdr)
	if err := rdr.readAsciiInputs(hdr, br); err != nil {
		return nil, err
	}
	if err := rdr.readOutputs(hdr, br); err != nil {
		return nil, err
	}
	if err := rdr.readAsciiAnds(hdr, br); err != nil {
		return nil, err
	}
	if err := rdr.readSymsAndComments(br); err != nil {
		return nil, err
	}
	if err := rdr.commit(); err != nil {
		return nil, err
	}
	return rdr.T, nil
}

func readBinary(br *bufio.Reader, hdr *header) (*T, error) {
	a := Make(int(hdr.Max + 1))
	rdr := makeReader(a, hdr)
	var i uint
	for i = 0; i < hdr.In; i++ {
		m := rdr.C.Lit()
		rdr.mapLit((i+1)*2, m)
		rdr.Inputs = append(rdr.Inputs, m)
	}
	if err := rdr.readOutputs(hdr, br); err != nil {
		return nil, err
	}
	if err := rdr.readBinaryAnds(hdr, br); err != nil {
		return nil, err
	}
	if err := rdr.readSymsAndComments(br); err != nil {
		return nil, err
	}
	if err := rdr.commit(); err != nil {
		return nil, err
	}
	return rdr.T, nil
}

// WriteAscii writes an ascii aiger rendition of a to w.
func (a *T) WriteAscii(w io.Writer) error {
	hdr := makeHeader(a, false)
	bw := bufio.NewWriter(w)
	hdr.write(bw)
	for _, m := range a.Inputs {
		writeLit(bw, m, a.C.T)
		bw.WriteString("\n")
	}
	for _, m := range a.Outputs {
		writeLit(bw, m, a.C.T)
		bw.WriteString("\n")
	}
	a.writeAsciiAnds(bw)
	a.writeSymtab(bw)
	writeComment(bw)
	return bw.Flush()
}

// WriteBinary writes a binary aiger rendition of a to w.
func (a *T) WriteBinary(w io.Writer) error {
	hdr := makeHeader(a, true)
	bw := bufio.NewWriter(w)
	hdr.write(bw)
	abw := &binWriter{
		trueLit: a.C.T,
		w:       bw,
		idMap:   make([]uint, a.Len())}

	// stage 1: mapping meeting the binary packing requirement
	// (const id < input ids < and ids, ands in topological order)
	abw.mapLit(a.C.T)
	for _, m := range a.Inputs {
		abw.mapLit(m)
	}
	dfs := newCDfs(a.C, func(c *logic.C, m z.Lit) {
		if c.IsAnd(m) {
			abw.mapLit(m)
		}
	})
	dfs.post(a.Outputs...)
	dfs.reset()

	// stage 2: outputs then delta coded ands
	for _, m := range a.Outputs {
		bw.WriteString(fmt.Sprintf("%d\n", abw.forLit(m)))
	}
	dfs.fn = abw.writeBinAnd
	dfs.post(a.Outputs...)
	a.writeSymtab(bw)
	writeComment(bw)
	return bw.Flush()
}

func (a *T) writeSymtab(w *bufio.Writer) error {
	for _, k := range [...]byte{'i', 'o'} {
		for i, nm := range a.symbols[k] {
			if _, err := w.WriteString(fmt.Sprintf("%c%d %s\n", k, i, nm)); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

func writeComment(w *bufio.Writer) {
	w.WriteString("c\naiger file version 1.9 created by aigmap\n")
}

func (a *T) writeAsciiAnds(w *bufio.Writer) {
	// be nice and put them in topologic order
	dfs := newCDfs(a.C, func(c *logic.C, m z.Lit) {
		if !c.IsAnd(m) {
			return
		}
		// the dfs can reach an and through a negative edge, but an
		// and definition is always the positive literal.
		writeLit(w, m.Var().Pos(), a.C.T)
		w.WriteString(" ")
		c0, c1 := c.Ins(m)
		writeLit(w, c0, a.C.T)
		w.WriteString(" ")
		writeLit(w, c1, a.C.T)
		w.WriteString("\n")
	})
	dfs.post(a.Outputs...)
}

// state information for the binary writer
type binWriter struct {
	trueLit z.Lit
	w       *bufio.Writer
	id      uint
	idMap   []uint
}

func (abw *binWriter) mapLit(m z.Lit) {
	abw.idMap[int(m.Var())] = abw.id
	abw.id += 2
}

func (abw *binWriter) forLit(m z.Lit) uint {
	if m == abw.trueLit {
		return 1
	}
	if m == abw.trueLit.Not() {
		return 0
	}
	v := m.Var()
	a := abw.idMap[v]
	if m.IsPos() {
		return a
	}
	return a | 1
}

func (abw *binWriter) writeBinAnd(c *logic.C, m z.Lit) {
	if !c.IsAnd(m) {
		return
	}
	m = m.Var().Pos()
	// *logic.C stores c0 < c1, aiger wants c0 > c1, so we swap
	// the assignment to c1, c0 :=
	c1, c0 := c.Ins(m)
	mc0 := abw.forLit(c0)
	mc1 := abw.forLit(c1)
	me := abw.forLit(m)
	if mc0 < mc1 {
		mc0, mc1 = mc1, mc0
	}
	delta0 := me - mc0
	delta1 := mc0 - mc1
	write7(abw.w, delta0)
	write7(abw.w, delta1)
}

// data for aiger ands -- we need to keep a copy of this info to
// verify comb loops/multiple defs etc.
type aigAnd struct {
	children [2]uint
	defined  bool
	mapped   bool
	dfsColor uint8
}

type reader struct {
	*T
	// the on-disk uints, translated only after all ands are known,
	// since the *logic.C can optimize away some ands resulting in a
	// smaller circuit and a need to store the mapping from aiger
	// literals explicitly
	AigInputs  []uint // only used in ascii reading
	AigOutputs []uint
	varMap     []z.Var
	AigAnds    []aigAnd
}

func makeReader(a *T, hdr *header) *reader {
	r := &reader{
		T:          a,
		AigInputs:  make([]uint, 0, hdr.In),
		AigOutputs: make([]uint, 0, hdr.Out),
		varMap:     make([]z.Var, hdr.Max+1)}
	r.varMap[0] = a.C.F.Var()
	return r
}

func (r *reader) mapLit(aigerLit uint, m z.Lit) {
	r.varMap[int(aigerLit>>1)] = m.Var()
}

func (r *reader) litFor(aigerLit uint) z.Lit {
	if aigerLit <= 1 {
		// aiger literal 0 is the constant false, 1 true
		if aigerLit == 0 {
			return r.C.F
		}
		return r.C.T
	}
	v := aigerLit >> 1
	rv := r.varMap[v]
	if rv == 0 {
		return z.LitNull
	}
	if aigerLit&1 != 0 {
		return rv.Pos().Not()
	}
	return rv.Pos()
}

// once everything is read, we can use the aiger to circuit literal
// mapping to populate the outputs.
func (r *reader) commit() error {
	for _, u := range r.AigOutputs {
		m := r.litFor(u)
		if m == z.LitNull {
			return UndefinedLit
		}
		r.T.Outputs = append(r.T.Outputs, m)
	}
	return nil
}

func (r *reader) readAsciiInputs(hdr *header, br *bufio.Reader) error {
	var i uint
	for i = 0; i < hdr.In; i++ {
		in, err := readUint(br)
		if err != nil {
			return err
		}
		if in > hdr.Max*2+1 {
			return LitOOB
		}
		if in&1 != 0 {
			return SignedInput
		}
		m := r.C.Lit()
		r.Inputs = append(r.Inputs, m)
		r.mapLit(in, m)
		r.AigInputs = append(r.AigInputs, in)
		if err := readNL(br); err != nil {
			return err
		}
	}
	return nil
}

func (r *reader) readOutputs(hdr *header, br *bufio.Reader) error {
	var i uint
	for i = 0; i < hdr.Out; i++ {
		u, e := readUint(br)
		if e != nil {
			return e
		}
		if u > 2*hdr.Max+1 {
			return LitOOB
		}
		r.AigOutputs = append(r.AigOutputs, u)
		if err := readNL(br); err != nil {
			return err
		}
	}
	return nil
}

func (r *reader) readBinaryAnds(hdr *header, br *bufio.Reader) error {
	id := (hdr.In + 1) * 2 // inputs and constant
	var i uint
	for i = 0; i < hdr.And; i++ {
		delta0, err0 := read7(br)
		if err0 != nil {
			return err0
		}
		if delta0 > id {
			return BadDeltaEncoding
		}
		c0 := id - delta0
		delta1, err1 := read7(br)
		if err1 != nil {
			return err1
		}
		if delta1 > c0 {
			return BadDeltaEncoding
		}
		c1 := c0 - delta1
		m := r.And(r.litFor(c1), r.litFor(c0))
		r.mapLit(id, m)
		id += 2
	}
	return nil
}

func (r *reader) readAsciiAnds(hdr *header, br *bufio.Reader) error {
	r.AigAnds = make([]aigAnd, hdr.Max+1)
	var i uint
	for i = 0; i < hdr.And; i++ {
		g, gErr := readUint(br)
		if gErr != nil {
			return gErr
		}
		if g > hdr.Max*2+1 {
			return LitOOB
		}
		if g&1 != 0 {
			return SignedAnd
		}
		if err := readSP(br); err != nil {
			return err
		}
		c0, c0Err := readUint(br)
		if c0Err != nil {
			return c0Err
		}
		if c0 > hdr.Max*2+1 {
			return LitOOB
		}
		if err := readSP(br); err != nil {
			return err
		}
		c1, c1Err := readUint(br)
		if c1Err != nil {
			return c1Err
		}
		if c1 > hdr.Max*2+1 {
			return LitOOB
		}
		if err := readNL(br); err != nil {
			return err
		}
		aa := &r.AigAnds[int(g>>1)]
		if aa.defined {
			return AndMultiplyDefined
		}
		aa.defined = true
		aa.children[0] = c0
		aa.children[1] = c1
	}
	return r.mapAnds()
}

func (r *reader) mapAnds() error {
	for _, m := range r.AigInputs {
		ag := &r.AigAnds[int(m>>1)]
		ag.defined = true
		ag.mapped = true
	}
	for i := 0; i < len(r.AigAnds); i++ {
		ag := &r.AigAnds[i]
		if ag.defined && !ag.mapped {
			if err := r.mapAndsRec(ag, uint(i*2)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *reader) mapAndsRec(ag *aigAnd, aig uint) error {
	switch ag.dfsColor {
	case 0:
		ag.dfsColor = 1
		c0, c1 := ag.children[0], ag.children[1]
		ag0 := &r.AigAnds[int(c0>>1)]
		if c0 > 1 {
			if !ag0.defined {
				return UndefinedLit
			}
			if !ag0.mapped {
				if err := r.mapAndsRec(ag0, c0); err != nil {
					return err
				}
			}
		}
		m := r.litFor(c0)
		ag1 := &r.AigAnds[int(c1>>1)]
		if c1 > 1 {
			if !ag1.defined {
				return UndefinedLit
			}
			if !ag1.mapped {
				if err := r.mapAndsRec(ag1, c1); err != nil {
					return err
				}
			}
		}
		n := r.litFor(c1)
		r.mapLit(aig, r.And(m, n))
		ag.dfsColor = 2
		ag.mapped = true
	case 1:
		return CombLoop
	case 2:
	default:
		panic("unknown dfs color")
	}
	return nil
}

func (r *reader) readSymsAndComments(br *bufio.Reader) error {
	for {
		b, e := br.ReadByte()
		if e == io.EOF {
			return nil
		}
		if e != nil {
			return e
		}
		switch b {
		case 'i', 'o':
			index, err := readUint(br)
			if err != nil {
				return err
			}
			if err := readSP(br); err != nil {
				return err
			}
			bs, err := br.ReadBytes('\n')
			if err == io.EOF {
				return PrematureEOF
			}
			if err != nil {
				return err
			}
			r.symbols[b][int(index)] = string(bs[0 : len(bs)-1])
		case 'c':
			bn, e := br.ReadByte()
			if e == io.EOF {
				return nil
			}
			if e != nil {
				return e
			}
			if bn == '\n' {
				return r.readComments(br)
			}
			return UnexpectedChar
		case '\n':
		default:
			return UnexpectedChar
		}
	}
}

func (r *reader) readComments(br *bufio.Reader) error {
	for {
		_, err := br.ReadString('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// header for aiger, combinational subset of version 1.9
type header struct {
	Binary bool
	Max    uint
	In     uint
	Out    uint
	And    uint
}

func makeHeader(a *T, binary bool) *header {
	nAnd := uint(0)
	seen := newCDfs(a.C, func(c *logic.C, m z.Lit) {
		if c.IsAnd(m) {
			nAnd++
		}
	})
	seen.post(a.Outputs...)
	max := uint(len(a.Inputs)) + nAnd
	if !binary && a.Len() > 2 {
		// ascii literals keep their circuit variable indexing,
		// which may have gaps from strash collapses
		max = uint(a.Len() - 2)
	}
	return &header{
		Binary: binary,
		Max:    max,
		In:     uint(len(a.Inputs)),
		Out:    uint(len(a.Outputs)),
		And:    nAnd}
}

func (h *header) write(w *bufio.Writer) {
	if h.Binary {
		w.WriteString("aig ")
	} else {
		w.WriteString("aag ")
	}
	w.WriteString(fmt.Sprintf("%d %d 0 %d %d\n", h.Max, h.In, h.Out, h.And))
}

// readHeader reads the header, allowing version 1 style files as
// well as 1.9 ones with zeroed latch/property counts.
func readHeader(r *bufio.Reader) (*header, error) {
	result := &header{}
	buf := make([]byte, 0, 3)
	buf, err := readNonWS(r, buf)
	if err != nil {
		return nil, err
	}
	tok := string(buf)
	if tok == "aag" {
		result.Binary = false
	} else if tok == "aig" {
		result.Binary = true
	} else {
		return nil, BadHeader
	}
	wantSpace := true
	i := 0
	var counts [9]uint
	for {
		if !wantSpace {
			if i > 8 {
				return nil, BadHeader
			}
			counts[i], err = readUint(r)
			i++
			if err != nil {
				return nil, err
			}
			wantSpace = true
			continue
		}
		b, e := r.ReadByte()
		if e == io.EOF {
			return nil, PrematureEOF
		}
		if b == '\n' {
			if i < 5 {
				return nil, BadHeader
			}
			break
		}
		if b != ' ' {
			return nil, BadHeader
		}
		wantSpace = false
	}
	// counts beyond M I L O A are the 1.9 property sections
	if counts[2] != 0 || counts[5] != 0 || counts[6] != 0 || counts[7] != 0 || counts[8] != 0 {
		return nil, NotCombinational
	}
	result.Max = counts[0]
	result.In = counts[1]
	result.Out = counts[3]
	result.And = counts[4]
	return result, nil
}

// readNL reads a new line character and returns nil unless there was
// no new line character.
func readNL(r *bufio.Reader) error {
	b, e := r.ReadByte()
	if e == io.EOF {
		return PrematureEOF
	}
	if e != nil {
		return e
	}
	if b == '\n' {
		return nil
	}
	return UnexpectedChar
}

func readSP(r *bufio.Reader) error {
	b, e := r.ReadByte()
	if e == io.EOF {
		return PrematureEOF
	}
	if e != nil {
		return e
	}
	if b == ' ' {
		return nil
	}
	return UnexpectedChar
}

// readNonWS reads non-white space and puts the result in buf.
func readNonWS(r *bufio.Reader, buf []byte) ([]byte, error) {
	buf = buf[:0]
	for {
		b, e := r.ReadByte()
		if e == io.EOF {
			break
		}
		if e != nil {
			return buf, e
		}
		if b == ' ' || b == '\t' || b == '\r' || b == '\n' {
			r.UnreadByte()
			break
		}
		buf = append(buf, b)
	}
	return buf, nil
}

// readUint reads a uint.
func readUint(r *bufio.Reader) (uint, error) {
	var result uint = 0
	first := true
	for {
		b, e := r.ReadByte()
		if e == io.EOF {
			if first {
				return 0, PrematureEOF
			}
			break
		}
		if e != nil {
			return 0, e
		}
		if b >= '0' && b <= '9' {
			result *= 10
			result += uint(b - '0')
			first = false
			continue
		}
		r.UnreadByte()
		break
	}
	if first {
		return 0, UnexpectedChar
	}
	return result, nil
}

// writeLit writes a literal in aiger style (modulo 2 gives pos/neg).
func writeLit(w *bufio.Writer, m, t z.Lit) error {
	if m == t {
		_, err := w.WriteString("1")
		return err
	}
	if m == t.Not() {
		_, err := w.WriteString("0")
		return err
	}
	u := m - 2
	_, err := w.WriteString(fmt.Sprintf("%d", uint(u)))
	return err
}

// write7 does binary aiger coding of and deltas.
func write7(w *bufio.Writer, val uint) error {
	for {
		b := byte(val & 0x7f)
		val = val >> 7
		if val != 0 {
			b |= 0x80
		}
		err := w.WriteByte(b)
		if err != nil {
			return err
		}
		if val == 0 {
			return nil
		}
	}
}

// read7 decodes binary aiger coding of and deltas.
func read7(r *bufio.Reader) (result uint, err error) {
	var i int = 0
	for {
		b, e := r.ReadByte()
		if e == io.EOF {
			return 0, PrematureEOF
		}
		if e != nil {
			return 0, e
		}
		result |= (uint(b) & 0x7f) << uint8(7*i)
		i++
		if b&0x80 == 0 {
			break
		}
	}
	return
}
