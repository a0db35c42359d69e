/*
   DCPU16 - Periodic interrupt timer.

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

   The timer counts simulated cycles, never wall-clock time: its period is
   measured in Update calls, each of which corresponds to exactly one
   System.Step. This keeps it deterministic and replayable, unlike a
   wall-clock timer would be.
*/

package timerdevice

import (
	"github.com/rcornwell/dcpu16/config/configparser"
	"github.com/rcornwell/dcpu16/machine/clock"
	"github.com/rcornwell/dcpu16/machine/device"
	"github.com/rcornwell/dcpu16/machine/interruptqueue"
	"github.com/rcornwell/dcpu16/machine/memory"
	"github.com/rcornwell/dcpu16/machine/registers"
	w "github.com/rcornwell/dcpu16/machine/word"
)

// Command numbers, carried in register A at HWI time.
const (
	CmdSetPeriod = 0 // B <- period in cycles; 0 disables the timer
	CmdElapsed   = 1 // C <- cycles elapsed since the period last fired
	CmdSetIRQ    = 2 // B becomes the message raised each period
)

const (
	hwidLow   = 0x12d0
	hwidHigh  = 0xb402
	version   = 1
	manufLow  = 0x0001
	manufHigh = 0x0000
)

// Timer is a Device that raises an interrupt every N cycles.
type Timer struct {
	period  w.Word
	elapsed w.Word
	irqMsg  w.Word
	hasCmd  bool
	cmd     w.Word
}

// New returns a disabled Timer; CmdSetPeriod arms it.
func New() *Timer {
	return &Timer{}
}

func (t *Timer) ID() (lo, hi w.Word)           { return hwidLow, hwidHigh }
func (t *Timer) Version() w.Word               { return version }
func (t *Timer) Manufacturer() (lo, hi w.Word) { return manufLow, manufHigh }

func (t *Timer) Interrupt(msg w.Word) {
	t.hasCmd = true
	t.cmd = msg
}

// Update services a pending command, then advances the period counter and
// raises the configured interrupt whenever it fires.
func (t *Timer) Update(_ *clock.Clock, regs *registers.Registers, _ *memory.Memory, iq *interruptqueue.Queue) error {
	if t.hasCmd {
		t.hasCmd = false
		switch t.cmd {
		case CmdSetPeriod:
			t.period = regs.Get(registers.B)
			t.elapsed = 0
		case CmdElapsed:
			regs.Set(registers.C, t.elapsed)
		case CmdSetIRQ:
			t.irqMsg = regs.Get(registers.B)
		}
	}

	if t.period == 0 {
		return nil
	}
	t.elapsed++
	if t.elapsed >= t.period {
		t.elapsed = 0
		if t.irqMsg != 0 {
			if err := iq.Enqueue(t.irqMsg); err != nil {
				return err
			}
		}
	}
	return nil
}

// create builds a disarmed Timer for the config DSL. It takes no options;
// the guest arms it at runtime with CmdSetPeriod.
func create(_ int, _ []configparser.Option) (device.Device, error) {
	return New(), nil
}

func init() {
	configparser.RegisterModel("clock", create)
}
