/*
   DCPU16 - Instruction execution.

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
	"github.com/rcornwell/dcpu16/machine/interruptqueue"
	"github.com/rcornwell/dcpu16/machine/machineerr"
	"github.com/rcornwell/dcpu16/machine/memory"
	"github.com/rcornwell/dcpu16/machine/registers"
	w "github.com/rcornwell/dcpu16/machine/word"
)

// apply dispatches a decoded instruction to its class table and returns
// the instruction's base cycle cost. failed is true only for a binary IFx
// whose condition evaluated false, telling fetchExecute to enter the
// skip-chain.
func (c *CPU) apply(inst decode.Instruction, regs *registers.Registers, mem *memory.Memory, iq *interruptqueue.Queue, bus Bus, cycle uint64) (base uint64, failed bool, err error) {
	switch inst.Class {
	case decode.Nullary:
		return c.applyNullary(inst, regs, cycle)
	case decode.Unary:
		return c.applyUnary(inst, regs, mem, iq, bus)
	default:
		return c.applyBinary(inst, regs, mem)
	}
}

func (c *CPU) applyNullary(inst decode.Instruction, regs *registers.Registers, cycle uint64) (uint64, bool, error) {
	switch inst.Opcode {
	case 0x00: // NOP
		return 1, false, nil
	case 0x01: // CLK
		low := uint32(cycle & 0xffffffff)
		if low < c.clkLatch {
			regs.PS = 1
		} else {
			regs.PS = 0
		}
		c.clkLatch = low
		regs.Set(registers.I, w.Word(low>>16))
		regs.Set(registers.J, w.Word(low))
		return 1, false, nil
	default:
		return 0, false, machineerr.ErrDecode
	}
}

func (c *CPU) applyUnary(inst decode.Instruction, regs *registers.Registers, mem *memory.Memory, iq *interruptqueue.Queue, bus Bus) (uint64, bool, error) {
	u := inst.Src

	switch inst.Opcode {
	case 0x01: // JSR
		ret := regs.PC
		addr := regs.Push()
		mem.Set(addr, ret)
		regs.PC = u.Read(regs, mem)
		return 3, false, nil

	case 0x02: // NOT
		u.Write(regs, mem, ^u.Read(regs, mem))
		return 1, false, nil

	case 0x08: // INT
		// IA=0 disables interrupts entirely (glossary, §9): the message is
		// dropped rather than enqueued. Device-raised interrupts are not
		// gated here; they still queue, and Step in cpu.go discards them
		// instead of delivering them while IA=0.
		if regs.IA != 0 {
			if err := iq.Enqueue(u.Read(regs, mem)); err != nil {
				return 0, false, err
			}
		}
		return 4, false, nil

	case 0x09: // IAG
		u.Write(regs, mem, regs.IA)
		return 1, false, nil

	case 0x0a: // IAS
		regs.IA = u.Read(regs, mem)
		return 1, false, nil

	case 0x0b: // RFI
		iq.Enable(false)
		aAddr := regs.Pop()
		regs.Set(registers.A, mem.Get(aAddr))
		pcAddr := regs.Pop()
		regs.PC = mem.Get(pcAddr)
		return 3, false, nil

	case 0x0c: // IAQ
		iq.Enable(u.Read(regs, mem) != 0)
		return 2, false, nil

	case 0x10: // HWN
		u.Write(regs, mem, w.Word(bus.Count()))
		return 2, false, nil

	case 0x11: // HWQ
		idx := int(u.Read(regs, mem))
		if idx >= bus.Count() {
			return 0, false, machineerr.ErrHardwareFailure
		}
		lo, hi, version := bus.Identify(idx)
		regs.Set(registers.X, lo)
		regs.Set(registers.Y, hi)
		regs.Set(registers.Z, version)
		return 4, false, nil

	case 0x12: // HWI
		idx := int(u.Read(regs, mem))
		if idx >= bus.Count() {
			return 0, false, machineerr.ErrHardwareFailure
		}
		bus.Interrupt(idx, regs.Get(registers.A))
		return 4, false, nil

	default:
		return 0, false, machineerr.ErrDecode
	}
}
