/*
   DCPU16 Disassembler

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

// Package disassembler performs the inverse of package assembler: given a
// slice of program words it recovers one mnemonic line per instruction,
// word-exact, for a "show disassemble" CLI command and for the assembler's
// own round-trip tests.
package disassembler

import (
	"fmt"
	"strings"

	w "github.com/rcornwell/dcpu16/machine/word"
)

var regName = [8]string{"A", "B", "C", "X", "Y", "Z", "I", "J"}

var nullaryName = map[w.Word]string{
	0x00: "NOP",
	0x01: "CLK",
}

var unaryName = map[w.Word]string{
	0x01: "JSR",
	0x02: "NOT",
	0x08: "INT",
	0x09: "IAG",
	0x0a: "IAS",
	0x0b: "RFI",
	0x0c: "IAQ",
	0x10: "HWN",
	0x11: "HWQ",
	0x12: "HWI",
}

var binaryName = map[w.Word]string{
	0x01: "SET", 0x02: "ADD", 0x03: "SUB", 0x04: "MUL", 0x05: "MLI",
	0x06: "DIV", 0x07: "DVI", 0x08: "MOD", 0x09: "MDI", 0x0a: "AND",
	0x0b: "BOR", 0x0c: "XOR", 0x0d: "LLS", 0x0e: "LRS", 0x0f: "ARS",
	0x10: "IFB", 0x11: "IFC", 0x12: "IFE", 0x13: "IFN", 0x14: "IFG",
	0x15: "IFA", 0x16: "IFL", 0x17: "IFU", 0x1a: "ADX", 0x1b: "SBX",
	0x1e: "STI", 0x1f: "STD",
}

// Line is one disassembled instruction: its address, the words it occupies,
// and the rendered mnemonic text.
type Line struct {
	Addr w.Word
	Len  int
	Text string
}

// Disassemble walks prog from address 0 and renders one Line per
// instruction. A word that does not decode to any known opcode is rendered
// as a literal DAT so the walk can continue past data embedded in the image.
func Disassemble(prog []w.Word) []Line {
	var out []Line
	addr := 0
	for addr < len(prog) {
		text, n := disassembleOne(prog, addr)
		out = append(out, Line{Addr: w.Word(addr), Len: n, Text: text})
		addr += n
	}
	return out
}

func disassembleOne(prog []w.Word, at int) (string, int) {
	word := prog[at]

	if word&0x3ff == 0 {
		op := (word >> 10) & 0x3f
		if name, ok := nullaryName[op]; ok {
			return name, 1
		}
		return fmt.Sprintf("DAT %#04x", word), 1
	}

	if word&0x1f == 0 {
		op := (word >> 5) & 0x1f
		aField := (word >> 10) & 0x3f
		name, ok := unaryName[op]
		if !ok {
			return fmt.Sprintf("DAT %#04x", word), 1
		}
		text, n := operandText(prog, at+1, aField, true)
		return fmt.Sprintf("%s %s", name, text), n + 1
	}

	op := word & 0x1f
	name, ok := binaryName[op]
	if !ok {
		return fmt.Sprintf("DAT %#04x", word), 1
	}
	aField := (word >> 10) & 0x3f
	bField := (word >> 5) & 0x1f
	srcText, srcLen := operandText(prog, at+1, aField, true)
	dstText, dstLen := operandText(prog, at+1+srcLen, bField, false)
	return fmt.Sprintf("%s %s, %s", name, dstText, srcText), 1 + srcLen + dstLen
}

// operandText renders one operand field to its assembler-syntax spelling,
// returning how many extra inline words (0 or 1) it consumed from
// prog[next:]. source selects whether field 0x18 means POP (true) or PUSH
// (false), matching decode's a/b asymmetry.
func operandText(prog []w.Word, next int, field w.Word, source bool) (string, int) {
	switch {
	case field <= 0x07:
		return regName[field], 0

	case field <= 0x0f:
		return fmt.Sprintf("[%s]", regName[field-0x08]), 0

	case field <= 0x17:
		n := safeWord(prog, next)
		return fmt.Sprintf("[%s+%#04x]", regName[field-0x10], n), 1

	case field == 0x18:
		if source {
			return "POP", 0
		}
		return "PUSH", 0

	case field == 0x19:
		return "PEEK", 0

	case field == 0x1a:
		n := safeWord(prog, next)
		return fmt.Sprintf("PICK %#04x", n), 1

	case field == 0x1b:
		return "SP", 0
	case field == 0x1c:
		return "PC", 0
	case field == 0x1d:
		return "PS", 0

	case field == 0x1e:
		n := safeWord(prog, next)
		return fmt.Sprintf("[%#04x]", n), 1

	case field == 0x1f:
		n := safeWord(prog, next)
		return fmt.Sprintf("%#04x", n), 1

	default: // 0x20..0x3F, source field only
		v := field - 0x21
		if v == 0xffff {
			return "-1", 0
		}
		return fmt.Sprintf("%#x", v), 0
	}
}

func safeWord(prog []w.Word, at int) w.Word {
	if at < 0 || at >= len(prog) {
		return 0
	}
	return prog[at]
}

// Text joins Disassemble's output into a newline-terminated listing, one
// instruction per line, with no label recovery — each line starts with its
// address as a plain hex column, since the image carries no symbol table
// of its own.
func Text(prog []w.Word) string {
	var b strings.Builder
	for _, l := range Disassemble(prog) {
		fmt.Fprintf(&b, "%#06x  %s\n", l.Addr, l.Text)
	}
	return b.String()
}
