/*
   DCPU16 - Native word type.

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

// Package word defines the machine's native 16-bit storage unit, shared by
// every other package in the emulator so arithmetic and masking stay
// consistent everywhere.
package word

// Word is an unsigned 16-bit value. All arithmetic on a Word wraps modulo
// 2^16 unless a wider intermediate is explicitly called for.
type Word uint16

// Mask clips a wider unsigned value down to 16 bits.
func Mask(v uint32) Word {
	return Word(v & 0xffff)
}

// Signed reinterprets w as a two's-complement 16-bit signed value.
func (w Word) Signed() int16 {
	return int16(w)
}

// HighLow splits a 32-bit value into its high and low 16-bit Words.
func HighLow(v uint32) (hi, lo Word) {
	return Word(v >> 16), Word(v)
}
