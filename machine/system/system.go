/*
   DCPU16 - Complete machine.

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

// Package system assembles registers, memory, the clock, the interrupt
// queue, the executor and the device bus into one machine and drives the
// fixed per-cycle ordering: clock advance, CPU busy/interrupt/fetch-
// execute, then each device's update in attach order.
package system

import (
	"fmt"
	"io"

	"github.com/rcornwell/dcpu16/machine/clock"
	"github.com/rcornwell/dcpu16/machine/cpu"
	"github.com/rcornwell/dcpu16/machine/device"
	"github.com/rcornwell/dcpu16/machine/interruptqueue"
	"github.com/rcornwell/dcpu16/machine/machineerr"
	"github.com/rcornwell/dcpu16/machine/memory"
	"github.com/rcornwell/dcpu16/machine/registers"
	w "github.com/rcornwell/dcpu16/machine/word"
)

// System owns the entire simulated machine.
type System struct {
	Regs    registers.Registers
	Mem     memory.Memory
	Clock   clock.Clock
	IQ      interruptqueue.Queue
	CPU     cpu.CPU
	devices []device.Device
}

// New returns a freshly initialised, ready to run System.
func New() *System {
	return &System{}
}

// Attach appends d to the device bus. Its port (the index HWN/HWQ/HWI
// address it by) is its position in attach order; devices are never
// removed once attached.
func (s *System) Attach(d device.Device) {
	s.devices = append(s.devices, d)
}

// DeviceCount returns the number of attached devices.
func (s *System) DeviceCount() int {
	return len(s.devices)
}

// Device returns the device attached at port, for callers (a CLI's "show
// devices") that need to inspect the bus rather than just drive it.
func (s *System) Device(port int) device.Device {
	return s.devices[port]
}

// Load installs a memory image, per §6's flat little-endian format.
func (s *System) Load(r io.Reader) error {
	return s.Mem.Load(r)
}

// Save writes the current memory image, per §6's flat little-endian format.
func (s *System) Save(w io.Writer) error {
	return s.Mem.Save(w)
}

// Step advances the simulated machine by exactly one cycle: the clock,
// then the CPU's busy/interrupt/fetch-execute check, then every attached
// device's Update in attach order. A device update error aborts the
// remaining device updates for this cycle and is returned wrapped in
// ErrHardwareFailure; the step has already happened and state is left as
// the device left it.
func (s *System) Step() error {
	if err := s.Clock.Advance(); err != nil {
		return err
	}

	if err := s.CPU.Step(&s.Regs, &s.Mem, &s.IQ, busAdapter{s}, s.Clock.Cycles()); err != nil {
		return err
	}

	for _, d := range s.devices {
		if err := d.Update(&s.Clock, &s.Regs, &s.Mem, &s.IQ); err != nil {
			return fmt.Errorf("%w: %v", machineerr.ErrHardwareFailure, err)
		}
	}
	return nil
}

// Run calls Step until the clock halts, an error occurs, or n cycles have
// elapsed (n <= 0 means unbounded). It returns the error that stopped it,
// or nil if it stopped because the clock halted cleanly.
func (s *System) Run(n int) error {
	for i := 0; n <= 0 || i < n; i++ {
		if s.Clock.Halted() {
			return nil
		}
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// busAdapter lets cpu.CPU reach the device list through the small Bus
// interface it declares, without cpu importing the device package.
type busAdapter struct {
	s *System
}

func (b busAdapter) Count() int { return len(b.s.devices) }

func (b busAdapter) Identify(idx int) (lo, hi, version w.Word) {
	lo, hi = b.s.devices[idx].ID()
	return lo, hi, b.s.devices[idx].Version()
}

func (b busAdapter) Interrupt(idx int, msg w.Word) {
	b.s.devices[idx].Interrupt(msg)
}
