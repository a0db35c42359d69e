/*
   DCPU16 Assembler

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*/

// Package assembler turns the machine's assembly text syntax into a []word.Word
// program plus a label -> address symbol table, in two passes: the first
// fixes every label's address by walking instruction lengths, the second
// emits the actual words now that every label reference can be resolved.
package assembler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rcornwell/dcpu16/machine/registers"
	w "github.com/rcornwell/dcpu16/machine/word"
)

const (
	tyNullary = 1 + iota
	tyUnary
	tyBinary
)

type opcode struct {
	code w.Word
	ty   int
}

var opMap = map[string]opcode{
	"NOP": {0x00, tyNullary},
	"CLK": {0x01, tyNullary},

	"JSR": {0x01, tyUnary},
	"NOT": {0x02, tyUnary},
	"INT": {0x08, tyUnary},
	"IAG": {0x09, tyUnary},
	"IAS": {0x0a, tyUnary},
	"RFI": {0x0b, tyUnary},
	"IAQ": {0x0c, tyUnary},
	"HWN": {0x10, tyUnary},
	"HWQ": {0x11, tyUnary},
	"HWI": {0x12, tyUnary},

	"SET": {0x01, tyBinary},
	"ADD": {0x02, tyBinary},
	"SUB": {0x03, tyBinary},
	"MUL": {0x04, tyBinary},
	"MLI": {0x05, tyBinary},
	"DIV": {0x06, tyBinary},
	"DVI": {0x07, tyBinary},
	"MOD": {0x08, tyBinary},
	"MDI": {0x09, tyBinary},
	"AND": {0x0a, tyBinary},
	"BOR": {0x0b, tyBinary},
	"XOR": {0x0c, tyBinary},
	"LLS": {0x0d, tyBinary},
	"LRS": {0x0e, tyBinary},
	"ARS": {0x0f, tyBinary},
	"IFB": {0x10, tyBinary},
	"IFC": {0x11, tyBinary},
	"IFE": {0x12, tyBinary},
	"IFN": {0x13, tyBinary},
	"IFG": {0x14, tyBinary},
	"IFA": {0x15, tyBinary},
	"IFL": {0x16, tyBinary},
	"IFU": {0x17, tyBinary},
	"ADX": {0x1a, tyBinary},
	"SBX": {0x1b, tyBinary},
	"STI": {0x1e, tyBinary},
	"STD": {0x1f, tyBinary},
}

var regNames = map[string]registers.Selector{
	"A": registers.SelA, "B": registers.SelB, "C": registers.SelC,
	"X": registers.SelX, "Y": registers.SelY, "Z": registers.SelZ,
	"I": registers.SelI, "J": registers.SelJ,
}

const (
	opndReg = iota
	opndIndirectReg
	opndIndirectRegOffset
	opndPush
	opndPop
	opndPeek
	opndPick
	opndSP
	opndPC
	opndPS
	opndIndirectLiteral
	opndLiteral
)

// expr is either a resolved number or a pending label reference.
type expr struct {
	isLabel bool
	label   string
	value   w.Word
}

type operand struct {
	kind int
	reg  registers.Selector
	val  expr
}

// needsNextWord reports whether this operand consumes an inline word once
// emitted. Literal compression only applies to a numeric (non-label) value
// used as a source operand, decided once here so pass one's sizing never
// has to wait on label resolution.
func (o operand) needsNextWord(source bool) bool {
	switch o.kind {
	case opndIndirectRegOffset, opndPick, opndIndirectLiteral:
		return true
	case opndLiteral:
		if source && !o.val.isLabel && compressible(o.val.value) {
			return false
		}
		return true
	default:
		return false
	}
}

func compressible(v w.Word) bool {
	return v == 0xffff || v <= 30
}

// statement is one parsed assembly line: a resolved opcode plus its
// operands, still carrying unresolved label references.
type statement struct {
	line    int
	mnem    string
	ty      int
	code    w.Word
	dst     operand // binary only
	src     operand // unary, binary
	addr    w.Word  // address this statement starts at
	nwords  w.Word
}

// Assemble turns source text into a program image and its label table.
func Assemble(source string) ([]w.Word, map[string]w.Word, error) {
	lines := strings.Split(source, "\n")
	labels := map[string]w.Word{}
	var stmts []statement

	pc := w.Word(0)
	for lineNo, raw := range lines {
		text := stripComment(raw)
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if colon := strings.IndexByte(text, ':'); colon >= 0 && !strings.ContainsAny(text[:colon], " \t[") {
			name := text[:colon]
			if _, ok := labels[name]; ok {
				return nil, nil, fmt.Errorf("line %d: duplicate label %q", lineNo+1, name)
			}
			labels[name] = pc
			text = strings.TrimSpace(text[colon+1:])
			if text == "" {
				continue
			}
		}

		st, err := parseStatement(text)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
		st.line = lineNo + 1
		st.addr = pc

		nwords := w.Word(1)
		if st.ty == tyUnary && st.src.needsNextWord(true) {
			nwords++
		}
		if st.ty == tyBinary {
			if st.src.needsNextWord(true) {
				nwords++
			}
			if st.dst.needsNextWord(false) {
				nwords++
			}
		}
		st.nwords = nwords
		pc += nwords
		stmts = append(stmts, st)
	}

	prog := make([]w.Word, pc)
	for _, st := range stmts {
		words, err := encode(st, labels)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", st.line, err)
		}
		copy(prog[st.addr:], words)
	}
	return prog, labels, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		return line[:i]
	}
	return line
}

func parseStatement(text string) (statement, error) {
	mnem, rest := splitToken(text)
	mnem = strings.ToUpper(mnem)
	opc, ok := opMap[mnem]
	if !ok {
		return statement{}, fmt.Errorf("unknown mnemonic %q", mnem)
	}
	st := statement{mnem: mnem, ty: opc.ty, code: opc.code}

	switch opc.ty {
	case tyNullary:
		if strings.TrimSpace(rest) != "" {
			return statement{}, fmt.Errorf("%s takes no operands", mnem)
		}

	case tyUnary:
		src, err := parseOperand(strings.TrimSpace(rest))
		if err != nil {
			return statement{}, err
		}
		st.src = src

	case tyBinary:
		a, b, err := splitOperands(rest)
		if err != nil {
			return statement{}, fmt.Errorf("%s: %w", mnem, err)
		}
		dst, err := parseOperand(a)
		if err != nil {
			return statement{}, err
		}
		src, err := parseOperand(b)
		if err != nil {
			return statement{}, err
		}
		st.dst, st.src = dst, src
	}
	return st, nil
}

// splitOperands divides "dst, src" on the first top-level comma, tracking
// square-bracket depth so a comma inside [...] is never taken as the split.
func splitOperands(rest string) (string, string, error) {
	depth := 0
	for i, r := range rest {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				return strings.TrimSpace(rest[:i]), strings.TrimSpace(rest[i+1:]), nil
			}
		}
	}
	return "", "", errors.New("expected \"dst, src\"")
}

func splitToken(text string) (string, string) {
	text = strings.TrimLeft(text, " \t")
	for i, r := range text {
		if r == ' ' || r == '\t' {
			return text[:i], text[i+1:]
		}
	}
	return text, ""
}

func parseOperand(text string) (operand, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return operand{}, errors.New("missing operand")
	}

	upper := strings.ToUpper(text)
	switch upper {
	case "PUSH":
		return operand{kind: opndPush}, nil
	case "POP":
		return operand{kind: opndPop}, nil
	case "PEEK":
		return operand{kind: opndPeek}, nil
	case "SP":
		return operand{kind: opndSP}, nil
	case "PC":
		return operand{kind: opndPC}, nil
	case "PS":
		return operand{kind: opndPS}, nil
	}
	if reg, ok := regNames[upper]; ok {
		return operand{kind: opndReg, reg: reg}, nil
	}
	if strings.HasPrefix(upper, "PICK") {
		rest := strings.TrimSpace(text[len("PICK"):])
		e, err := parseExpr(rest)
		if err != nil {
			return operand{}, fmt.Errorf("PICK: %w", err)
		}
		return operand{kind: opndPick, val: e}, nil
	}
	if strings.HasPrefix(text, "[") {
		if !strings.HasSuffix(text, "]") {
			return operand{}, fmt.Errorf("unterminated %q", text)
		}
		inner := strings.TrimSpace(text[1 : len(text)-1])
		if reg, ok := regNames[strings.ToUpper(inner)]; ok {
			return operand{kind: opndIndirectReg, reg: reg}, nil
		}
		if plus := strings.IndexByte(inner, '+'); plus >= 0 {
			left := strings.ToUpper(strings.TrimSpace(inner[:plus]))
			right := strings.TrimSpace(inner[plus+1:])
			if reg, ok := regNames[left]; ok {
				e, err := parseExpr(right)
				if err != nil {
					return operand{}, err
				}
				return operand{kind: opndIndirectRegOffset, reg: reg, val: e}, nil
			}
		}
		e, err := parseExpr(inner)
		if err != nil {
			return operand{}, err
		}
		return operand{kind: opndIndirectLiteral, val: e}, nil
	}

	e, err := parseExpr(text)
	if err != nil {
		return operand{}, err
	}
	return operand{kind: opndLiteral, val: e}, nil
}

func parseExpr(text string) (expr, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return expr{}, errors.New("expected a value")
	}
	if n, ok := parseNumber(text); ok {
		return expr{value: n}, nil
	}
	if !isIdent(text) {
		return expr{}, fmt.Errorf("invalid operand %q", text)
	}
	return expr{isLabel: true, label: text}, nil
}

func parseNumber(text string) (w.Word, bool) {
	neg := false
	if strings.HasPrefix(text, "-") {
		neg = true
		text = text[1:]
	}
	base := 10
	if strings.HasPrefix(strings.ToLower(text), "0x") {
		base = 16
		text = text[2:]
	}
	n, err := strconv.ParseUint(text, base, 32)
	if err != nil {
		return 0, false
	}
	if neg {
		return w.Mask(uint32(-int64(n))), true
	}
	return w.Mask(uint32(n)), true
}

func isIdent(text string) bool {
	for i, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func encode(st statement, labels map[string]w.Word) ([]w.Word, error) {
	var dstField, srcField w.Word
	var extra []w.Word
	var err error

	if st.ty == tyUnary || st.ty == tyBinary {
		srcField, extra, err = encodeOperand(st.src, true, labels, extra)
		if err != nil {
			return nil, err
		}
	}
	if st.ty == tyBinary {
		dstField, extra, err = encodeOperand(st.dst, false, labels, extra)
		if err != nil {
			return nil, err
		}
	}

	var head w.Word
	switch st.ty {
	case tyNullary:
		head = st.code << 10
	case tyUnary:
		head = (srcField << 10) | (st.code << 5)
	case tyBinary:
		head = (srcField << 10) | (dstField << 5) | st.code
	}
	return append([]w.Word{head}, extra...), nil
}

// encodeOperand returns the field value for o, appending any inline word it
// needs to extra (source operands append their word first, matching decode's
// a-before-b fetch order; a binary instruction's extra words are emitted in
// encode in src-then-dst call order for that reason).
func encodeOperand(o operand, source bool, labels map[string]w.Word, extra []w.Word) (w.Word, []w.Word, error) {
	resolve := func(e expr) (w.Word, error) {
		if !e.isLabel {
			return e.value, nil
		}
		addr, ok := labels[e.label]
		if !ok {
			return 0, fmt.Errorf("undefined label %q", e.label)
		}
		return addr, nil
	}

	switch o.kind {
	case opndReg:
		return regField(o.reg), extra, nil
	case opndIndirectReg:
		return 0x08 + regField(o.reg), extra, nil
	case opndIndirectRegOffset:
		v, err := resolve(o.val)
		if err != nil {
			return 0, nil, err
		}
		return 0x10 + regField(o.reg), append(extra, v), nil
	case opndPush:
		if source {
			return 0, nil, errors.New("PUSH is only valid as a destination")
		}
		return 0x18, extra, nil
	case opndPop:
		if !source {
			return 0, nil, errors.New("POP is only valid as a source")
		}
		return 0x18, extra, nil
	case opndPeek:
		return 0x19, extra, nil
	case opndPick:
		v, err := resolve(o.val)
		if err != nil {
			return 0, nil, err
		}
		return 0x1a, append(extra, v), nil
	case opndSP:
		return 0x1b, extra, nil
	case opndPC:
		return 0x1c, extra, nil
	case opndPS:
		return 0x1d, extra, nil
	case opndIndirectLiteral:
		v, err := resolve(o.val)
		if err != nil {
			return 0, nil, err
		}
		return 0x1e, append(extra, v), nil
	case opndLiteral:
		v, err := resolve(o.val)
		if err != nil {
			return 0, nil, err
		}
		if source && !o.val.isLabel && compressible(v) {
			return 0x21 + v, extra, nil
		}
		return 0x1f, append(extra, v), nil
	default:
		return 0, nil, errors.New("unresolved operand")
	}
}

func regField(s registers.Selector) w.Word {
	for field, sel := range [8]registers.Selector{
		registers.SelA, registers.SelB, registers.SelC, registers.SelX,
		registers.SelY, registers.SelZ, registers.SelI, registers.SelJ,
	} {
		if sel == s {
			return w.Word(field)
		}
	}
	return 0
}
