/*
   DCPU16 - Hardware device interface.

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

// Package device defines the contract external hardware implements to sit
// on the CPU's bus. A device never gets an owning reference back to the
// system; System.Step passes it the state it needs for the duration of
// one Update call only.
package device

import (
	"github.com/rcornwell/dcpu16/machine/clock"
	"github.com/rcornwell/dcpu16/machine/interruptqueue"
	"github.com/rcornwell/dcpu16/machine/memory"
	"github.com/rcornwell/dcpu16/machine/registers"
	w "github.com/rcornwell/dcpu16/machine/word"
)

// Device is the hardware-bus contract. Position in the System's device
// list is the device's port, used by HWN/HWQ/HWI. Implementations must not
// panic; a failure from Update is reported as a returned error (System.Step
// wraps it in machineerr.ErrHardwareFailure), never a crash.
type Device interface {
	// ID returns the device's 32-bit hardware-id as (low, high) Words.
	ID() (lo, hi w.Word)

	// Version returns the device's 16-bit revision.
	Version() w.Word

	// Manufacturer returns the device's 32-bit manufacturer-id as
	// (low, high) Words. HWQ does not place this into any register (it
	// only ever exposed hardware-id and version); a driver may still
	// query it, e.g. to print a device listing.
	Manufacturer() (lo, hi w.Word)

	// Interrupt notifies the device that the CPU delivered a hardware
	// interrupt to it via HWI, carrying the command word (by convention,
	// the value of register A at the time of HWI). The device should
	// record what it needs and act on it from Update, which runs with
	// full register and memory access later in the same cycle.
	Interrupt(msg w.Word)

	// Update runs once per cycle, after the CPU's fetch-execute phase,
	// with scoped access to clock, registers, memory and the interrupt
	// queue for the duration of the call only. A device may raise
	// interrupts by enqueueing into iq; they become eligible for delivery
	// no earlier than the next cycle.
	Update(clk *clock.Clock, regs *registers.Registers, mem *memory.Memory, iq *interruptqueue.Queue) error
}
