/*
   DCPU16 - Low level memory

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

// Package memory implements the machine's flat 65,536-word address space.
package memory

import (
	"encoding/binary"
	"io"

	w "github.com/rcornwell/dcpu16/machine/word"
)

// Size is the number of addressable words: the entire 16-bit address space.
const Size = 0x10000

// ImageBytes is the byte length of a little-endian memory image (Size
// words, two bytes each).
const ImageBytes = Size * 2

// Memory is the 65,536-word linear store. The zero value is a zero-filled,
// ready to use memory.
type Memory struct {
	cells [Size]w.Word
}

// Get returns the word at addr. addr is taken modulo Size so every 16-bit
// address is always valid.
func (m *Memory) Get(addr w.Word) w.Word {
	return m.cells[addr]
}

// Set stores value at addr.
func (m *Memory) Set(addr, value w.Word) {
	m.cells[addr] = value
}

// ReadSlice returns a read-only view of length words starting at addr,
// clipped to the end of the address space rather than wrapping or
// panicking.
func (m *Memory) ReadSlice(addr w.Word, length int) []w.Word {
	start := int(addr)
	end := start + length
	if end > Size {
		end = Size
	}
	return m.cells[start:end]
}

// WriteSlice copies data into memory starting at addr, clipping at the end
// of the address space rather than wrapping or panicking.
func (m *Memory) WriteSlice(addr w.Word, data []w.Word) {
	copy(m.cells[int(addr):], data)
}

// Clear zero-fills the entire address space.
func (m *Memory) Clear() {
	m.cells = [Size]w.Word{}
}

// Load reads exactly ImageBytes little-endian bytes from r and installs
// them starting at address 0. A short read is a hard error.
func (m *Memory) Load(r io.Reader) error {
	buf := make([]byte, ImageBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	for i := range m.cells {
		m.cells[i] = w.Word(binary.LittleEndian.Uint16(buf[i*2:]))
	}
	return nil
}

// Save writes the entire address space to dst as ImageBytes little-endian
// bytes. A short write is a hard error.
func (m *Memory) Save(dst io.Writer) error {
	buf := make([]byte, ImageBytes)
	for i, cell := range m.cells {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(cell))
	}
	_, err := dst.Write(buf)
	return err
}
