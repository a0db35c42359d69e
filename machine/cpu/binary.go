/*
   DCPU16 - Binary instruction execution.

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

package cpu

import (
	"github.com/rcornwell/dcpu16/machine/decode"
	"github.com/rcornwell/dcpu16/machine/machineerr"
	"github.com/rcornwell/dcpu16/machine/memory"
	"github.com/rcornwell/dcpu16/machine/registers"
	w "github.com/rcornwell/dcpu16/machine/word"
)

// applyBinary executes a two-operand instruction. m is the destination
// (read-modify-write unless the opcode is one of the IFx family, which
// never writes m); u is the source. failed reports an IFx whose condition
// came out false.
func (c *CPU) applyBinary(inst decode.Instruction, regs *registers.Registers, mem *memory.Memory) (uint64, bool, error) {
	dst, src := inst.Dst, inst.Src
	m := dst.Read(regs, mem)
	u := src.Read(regs, mem)

	switch inst.Opcode {
	case 0x01: // SET
		dst.Write(regs, mem, u)
		return 1, false, nil

	case 0x02: // ADD
		sum := uint32(m) + uint32(u)
		dst.Write(regs, mem, w.Mask(sum))
		regs.PS = flagIf(sum > 0xffff, 1)
		return 2, false, nil

	case 0x03: // SUB
		diff := int32(m) - int32(u)
		dst.Write(regs, mem, w.Mask(uint32(diff)))
		regs.PS = flagIf(diff < 0, 0xffff)
		return 2, false, nil

	case 0x04: // MUL
		prod := uint32(m) * uint32(u)
		dst.Write(regs, mem, w.Word(prod&0xffff))
		regs.PS = w.Word(prod >> 16)
		return 2, false, nil

	case 0x05: // MLI
		prod := int32(int16(m)) * int32(int16(u))
		dst.Write(regs, mem, w.Word(uint32(prod)&0xffff))
		regs.PS = w.Word(uint32(prod) >> 16)
		return 2, false, nil

	case 0x06: // DIV
		if u == 0 {
			dst.Write(regs, mem, 0)
			regs.PS = 0
		} else {
			dst.Write(regs, mem, w.Word(uint32(m)/uint32(u)))
			regs.PS = w.Word(((uint32(m) << 16) / uint32(u)) & 0xffff)
		}
		return 3, false, nil

	case 0x07: // DVI
		if u == 0 {
			dst.Write(regs, mem, 0)
			regs.PS = 0
		} else {
			sm, su := int32(int16(m)), int32(int16(u))
			dst.Write(regs, mem, w.Mask(uint32(sm/su)))
			regs.PS = w.Word(uint32((int64(sm)<<16)/int64(su)) & 0xffff)
		}
		return 3, false, nil

	case 0x08: // MOD
		if u == 0 {
			dst.Write(regs, mem, 0)
		} else {
			dst.Write(regs, mem, w.Word(uint32(m)%uint32(u)))
		}
		return 3, false, nil

	case 0x09: // MDI
		if u == 0 {
			dst.Write(regs, mem, 0)
		} else {
			dst.Write(regs, mem, w.Mask(uint32(int16(m)%int16(u))))
		}
		return 3, false, nil

	case 0x0a: // AND
		dst.Write(regs, mem, m&u)
		return 1, false, nil

	case 0x0b: // BOR
		dst.Write(regs, mem, m|u)
		return 1, false, nil

	case 0x0c: // XOR
		dst.Write(regs, mem, m^u)
		return 1, false, nil

	case 0x0d: // LLS
		ext := uint32(m) << uint32(u)
		dst.Write(regs, mem, w.Word(ext&0xffff))
		regs.PS = w.Word((ext >> 16) & 0xffff)
		return 1, false, nil

	case 0x0e: // LRS
		dst.Write(regs, mem, w.Word(uint32(m)>>uint32(u)))
		regs.PS = w.Word(((uint32(m) << 16) >> uint32(u)) & 0xffff)
		return 1, false, nil

	case 0x0f: // ARS
		signed := int32(int16(m))
		dst.Write(regs, mem, w.Mask(uint32(signed>>uint32(u))))
		regs.PS = w.Word(uint64(int64(signed)<<16>>uint64(u)) & 0xffff)
		return 1, false, nil

	case 0x10: // IFB
		return 2, (m & u) == 0, nil
	case 0x11: // IFC
		return 2, (m & u) != 0, nil
	case 0x12: // IFE
		return 2, m != u, nil
	case 0x13: // IFN
		return 2, m == u, nil
	case 0x14: // IFG
		return 2, m <= u, nil
	case 0x15: // IFA
		return 2, int16(m) <= int16(u), nil
	case 0x16: // IFL
		return 2, m >= u, nil
	case 0x17: // IFU
		return 2, int16(m) >= int16(u), nil

	case 0x1a: // ADX
		sum := uint32(m) + uint32(u) + uint32(regs.PS)
		dst.Write(regs, mem, w.Mask(sum))
		regs.PS = flagIf(sum > 0xffff, 1)
		return 3, false, nil

	case 0x1b: // SBX
		diff := int64(m) - int64(u) + int64(regs.PS)
		dst.Write(regs, mem, w.Mask(uint32(diff)))
		regs.PS = flagIf(diff < 0, 0xffff)
		return 3, false, nil

	case 0x1e: // STI
		dst.Write(regs, mem, u)
		regs.Set(registers.I, regs.Get(registers.I)+1)
		regs.Set(registers.J, regs.Get(registers.J)+1)
		return 2, false, nil

	case 0x1f: // STD
		dst.Write(regs, mem, u)
		regs.Set(registers.I, regs.Get(registers.I)-1)
		regs.Set(registers.J, regs.Get(registers.J)-1)
		return 2, false, nil

	default:
		return 0, false, machineerr.ErrDecode
	}
}

// flagIf returns value when cond holds, else zero. ADD/ADX signal overflow
// with 1; SUB/SBX signal underflow with 0xffff; both follow this shape.
func flagIf(cond bool, value w.Word) w.Word {
	if cond {
		return value
	}
	return 0
}
