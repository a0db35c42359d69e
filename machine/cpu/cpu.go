/*
   DCPU16 - Instruction executor.

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

// Package cpu holds the per-cycle state machine (busy-wait, interrupt
// delivery, fetch-execute) and the logic to apply one decoded instruction
// to the register file and memory. System drives one Step per simulated
// cycle; cpu never touches the Clock itself, only the cycle count System
// hands it for CLK.
package cpu

import (
	"github.com/rcornwell/dcpu16/machine/decode"
	"github.com/rcornwell/dcpu16/machine/interruptqueue"
	"github.com/rcornwell/dcpu16/machine/machineerr"
	"github.com/rcornwell/dcpu16/machine/memory"
	"github.com/rcornwell/dcpu16/machine/registers"
	w "github.com/rcornwell/dcpu16/machine/word"
)

// Bus is the subset of the device list the executor needs for HWN/HWQ/HWI.
// Keeping this as a small local interface, rather than importing the
// device package directly, lets cpu stay ignorant of how devices are
// stored or constructed.
type Bus interface {
	// Count returns the number of attached devices.
	Count() int
	// Identify returns device idx's hardware-id (low, high) and version.
	Identify(idx int) (lo, hi, version w.Word)
	// Interrupt delivers msg to device idx via its Interrupt method.
	Interrupt(idx int, msg w.Word)
}

// CPU is the executor's own state: the busy-cycle counter and the CLK
// instruction's wraparound latch. Everything else it operates on
// (registers, memory, the interrupt queue) is owned by System and passed
// in on each Step.
type CPU struct {
	busy     uint64
	clkLatch uint32
}

// Step advances the machine by one cycle: decrement busy, delivering a
// pending interrupt (or discarding pending ones while IA=0), or decoding
// and executing the next instruction. cycle
// is the total cycle count so far (used only by CLK). Step never touches
// the Clock; System is responsible for calling Clock.Advance and for not
// calling Step at all when the clock is halted.
func (c *CPU) Step(regs *registers.Registers, mem *memory.Memory, iq *interruptqueue.Queue, bus Bus, cycle uint64) error {
	switch {
	case c.busy > 0:
		c.busy--
		return nil

	case !iq.Queueing() && !iq.Empty() && regs.IA != 0:
		msg, err := iq.Dequeue()
		if err != nil {
			return err
		}
		pcAddr := regs.Push()
		mem.Set(pcAddr, regs.PC)
		aAddr := regs.Push()
		mem.Set(aAddr, regs.Get(registers.A))
		regs.PC = regs.IA
		regs.Set(registers.A, msg)
		iq.Enable(true)
		c.busy = 4 - 1
		return nil

	case !iq.Queueing() && !iq.Empty() && regs.IA == 0:
		// IA=0 disables interrupts: pending messages are discarded, and
		// the cycle goes on to fetch-execute as if none had been queued.
		for !iq.Empty() {
			if _, err := iq.Dequeue(); err != nil {
				return err
			}
		}
		return c.fetchExecute(regs, mem, iq, bus, cycle)

	default:
		return c.fetchExecute(regs, mem, iq, bus, cycle)
	}
}

// fetchExecute decodes and applies exactly one instruction. When that
// instruction is an IFx whose condition is false, it then walks the
// conditional-skip chain: decoding (but not applying) instructions until
// it skips one that is not itself an IFx.
func (c *CPU) fetchExecute(regs *registers.Registers, mem *memory.Memory, iq *interruptqueue.Queue, bus Bus, cycle uint64) error {
	inst := decode.Decode(regs, mem)
	base, failed, err := c.apply(inst, regs, mem, iq, bus, cycle)
	if err != nil {
		return err
	}
	charged := inst.ExtraCycles + base

	for failed {
		skipped := decode.Decode(regs, mem)
		charged += skipped.ExtraCycles + 1
		failed = isConditional(skipped)
	}

	if charged > 0 {
		c.busy = charged - 1
	}
	return nil
}

// isConditional reports whether inst is one of the IFx family (its class
// and opcode alone determine this; a skipped instruction's condition is
// never evaluated).
func isConditional(inst decode.Instruction) bool {
	return inst.Class == decode.Binary && inst.Opcode >= 0x10 && inst.Opcode <= 0x17
}
