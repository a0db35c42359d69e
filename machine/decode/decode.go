/*
   DCPU16 - Instruction decoder.

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

// Package decode turns one instruction word, plus whatever inline extra
// words follow it at PC, into a Class/opcode/operand triple the executor
// can apply without touching the register file or memory itself.
package decode

import (
	"github.com/rcornwell/dcpu16/machine/memory"
	"github.com/rcornwell/dcpu16/machine/registers"
	w "github.com/rcornwell/dcpu16/machine/word"
)

// Class identifies which of the three instruction shapes a word encodes.
type Class uint8

const (
	Nullary Class = iota
	Unary
	Binary
)

// Kind identifies what an Operand addresses.
type Kind uint8

const (
	KindLiteral Kind = iota
	KindRegister
	KindMemory
)

// Operand is a resolved operand reference: where to read from and, for
// anything but a literal, where a write should land. Decoding performs any
// push/pop side effect up front, so Read and Write act purely on the
// frozen address or register they were resolved to.
type Operand struct {
	Kind  Kind
	Value w.Word             // literal value, when Kind == KindLiteral
	Reg   registers.Selector // register selector, when Kind == KindRegister
	Addr  w.Word             // memory address, when Kind == KindMemory
}

// Read returns the operand's current value.
func (o Operand) Read(regs *registers.Registers, mem *memory.Memory) w.Word {
	switch o.Kind {
	case KindLiteral:
		return o.Value
	case KindRegister:
		return o.Reg.Get(regs)
	default:
		return mem.Get(o.Addr)
	}
}

// Write stores value into the operand. Writes to a literal are silently
// discarded — the mechanism §4.3 relies on to "consume without effect".
func (o Operand) Write(regs *registers.Registers, mem *memory.Memory, value w.Word) {
	switch o.Kind {
	case KindLiteral:
		return
	case KindRegister:
		o.Reg.Set(regs, value)
	default:
		mem.Set(o.Addr, value)
	}
}

// Instruction is a fully decoded instruction, ready for the executor to
// apply. Dst and Src are populated according to Class: Nullary uses
// neither, Unary uses Src only (Dst is the zero Operand), Binary uses
// both. ExtraCycles is the busy time already charged for extra-word
// operand fetches during decode; the executor adds the instruction's own
// base cost on top of it.
type Instruction struct {
	Class       Class
	Opcode      w.Word
	Dst         Operand
	Src         Operand
	ExtraCycles uint64
}

// regSelectors maps the eight low encodings, in order, to their register
// selector.
var regSelectors = [8]registers.Selector{
	registers.SelA, registers.SelB, registers.SelC, registers.SelX,
	registers.SelY, registers.SelZ, registers.SelI, registers.SelJ,
}

// Decode classifies and resolves the instruction word currently at
// regs.PC, advancing PC past the instruction word and any inline extra
// words it consumes. It never touches the interrupt queue, a device, or
// the clock — the executor applies everything Decode hands back.
func Decode(regs *registers.Registers, mem *memory.Memory) Instruction {
	word := mem.Get(regs.PC)
	regs.PC++

	switch {
	case word&0x3ff == 0:
		return Instruction{Class: Nullary, Opcode: (word >> 10) & 0x3f}

	case word&0x1f == 0:
		opcode := (word >> 5) & 0x1f
		aField := (word >> 10) & 0x3f
		src, cycles := resolveOperand(aField, true, regs, mem)
		return Instruction{Class: Unary, Opcode: opcode, Src: src, ExtraCycles: cycles}

	default:
		opcode := word & 0x1f
		aField := (word >> 10) & 0x3f
		bField := (word >> 5) & 0x1f
		// Source (upper, a) resolves before destination (middle, b):
		// on real DCPU-16 hardware the a-field next-word, if any, is
		// always fetched first.
		src, srcCycles := resolveOperand(aField, true, regs, mem)
		dst, dstCycles := resolveOperand(bField, false, regs, mem)
		return Instruction{
			Class:       Binary,
			Opcode:      opcode,
			Dst:         dst,
			Src:         src,
			ExtraCycles: srcCycles + dstCycles,
		}
	}
}

// resolveOperand resolves one 6-bit (source) or 5-bit (destination) field
// to an Operand, performing any push/pop side effect and consuming an
// inline next-word if the encoding calls for one. It returns the number
// of busy cycles charged for the extra-word fetch (0 or 1).
//
// source is true when field came from the upper (a) position, which is
// the only position where literal compression (0x20..0x3F) and SP-pop
// (0x18) apply; in the middle (b, destination) position 0x18 instead
// means SP-push, and fields above 0x1f are not encodable (callers never
// pass them in that shape, since b is only 5 bits).
func resolveOperand(field w.Word, source bool, regs *registers.Registers, mem *memory.Memory) (Operand, uint64) {
	switch {
	case field <= 0x07:
		return Operand{Kind: KindRegister, Reg: regSelectors[field]}, 0

	case field <= 0x0f:
		reg := regSelectors[field-0x08]
		return Operand{Kind: KindMemory, Addr: reg.Get(regs)}, 0

	case field <= 0x17:
		reg := regSelectors[field-0x10]
		next := fetchNextWord(regs, mem)
		return Operand{Kind: KindMemory, Addr: reg.Get(regs) + next}, 1

	case field == 0x18:
		if source {
			addr := regs.Pop()
			return Operand{Kind: KindMemory, Addr: addr}, 0
		}
		addr := regs.Push()
		return Operand{Kind: KindMemory, Addr: addr}, 0

	case field == 0x19:
		return Operand{Kind: KindMemory, Addr: regs.SP}, 0

	case field == 0x1a:
		next := fetchNextWord(regs, mem)
		return Operand{Kind: KindMemory, Addr: regs.SP + next}, 1

	case field == 0x1b:
		return Operand{Kind: KindRegister, Reg: registers.SelSP}, 0

	case field == 0x1c:
		return Operand{Kind: KindRegister, Reg: registers.SelPC}, 0

	case field == 0x1d:
		return Operand{Kind: KindRegister, Reg: registers.SelPS}, 0

	case field == 0x1e:
		next := fetchNextWord(regs, mem)
		return Operand{Kind: KindMemory, Addr: next}, 1

	case field == 0x1f:
		next := fetchNextWord(regs, mem)
		return Operand{Kind: KindLiteral, Value: next}, 1

	default: // 0x20..=0x3F, source field only
		return Operand{Kind: KindLiteral, Value: field - 0x21}, 0
	}
}

// fetchNextWord reads the inline word at PC and advances PC past it.
func fetchNextWord(regs *registers.Registers, mem *memory.Memory) w.Word {
	v := mem.Get(regs.PC)
	regs.PC++
	return v
}
