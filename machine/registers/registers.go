/*
   DCPU16 - Register file.

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

// Package registers holds the CPU's named register file.
package registers

import w "github.com/rcornwell/dcpu16/machine/word"

// ID indexes a general-purpose register A..J. Decoding enumerates
// registers by small integer, so the register file is an array indexed by
// ID rather than eight named fields switched on separately.
type ID uint8

// General-purpose register indices, in encoding order.
const (
	A ID = iota
	B
	C
	X
	Y
	Z
	I
	J
	numGeneral
)

// Registers is the CPU's entire named register file. The zero value is
// every register initialised to zero, matching power-on state.
type Registers struct {
	gen [numGeneral]w.Word // A, B, C, X, Y, Z, I, J

	PC w.Word // Program counter
	SP w.Word // Stack pointer
	PS w.Word // Overflow / carry / extended-result register ("EX")
	IA w.Word // Interrupt handler address
}

// Get returns the value of general-purpose register r.
func (rs *Registers) Get(r ID) w.Word {
	return rs.gen[r]
}

// Set stores value into general-purpose register r.
func (rs *Registers) Set(r ID, value w.Word) {
	rs.gen[r] = value
}

// Selector addresses any register reachable by an operand encoding: the
// eight general-purpose registers plus SP, PC and PS (IA is not reachable
// through an operand field; only IAG/IAS touch it). Grouping these behind
// one indexable type, rather than a second switch over named fields, keeps
// decode and execute sharing a single addressing scheme.
type Selector uint8

// Selector values in operand-encoding order for the general registers,
// followed by the three named registers an operand field can reach.
const (
	SelA Selector = iota
	SelB
	SelC
	SelX
	SelY
	SelZ
	SelI
	SelJ
	SelSP
	SelPC
	SelPS
)

// Get returns the value of the selected register.
func (s Selector) Get(rs *Registers) w.Word {
	switch s {
	case SelSP:
		return rs.SP
	case SelPC:
		return rs.PC
	case SelPS:
		return rs.PS
	default:
		return rs.gen[ID(s)]
	}
}

// Set stores value into the selected register.
func (s Selector) Set(rs *Registers, value w.Word) {
	switch s {
	case SelSP:
		rs.SP = value
	case SelPC:
		rs.PC = value
	case SelPS:
		rs.PS = value
	default:
		rs.gen[ID(s)] = value
	}
}

// Push decrements SP and returns the address the caller should store the
// pushed value at. SP pre-decrements: an empty stack starts at SP=0, so
// the first push lands at 0xffff.
func (rs *Registers) Push() w.Word {
	rs.SP--
	return rs.SP
}

// Pop returns the address the caller should read the popped value from,
// then increments SP. SP post-increments to match Push's pre-decrement.
func (rs *Registers) Pop() w.Word {
	addr := rs.SP
	rs.SP++
	return addr
}
