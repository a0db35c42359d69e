/*
   DCPU16 - Text console device.

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

   A buffered text console: one byte queue feeding guest reads, one writer
   for guest output. Input arrives out of band via FeedInput, called by
   whatever owns a source of bytes for the guest (a test, a pty); Update
   only ever drains what's already buffered, so it never blocks the
   simulation waiting on a human.
*/

package console

import (
	"io"
	"os"

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
	CmdStatus    = 0 // B <- 1 if input is queued, else 0
	CmdReadChar  = 1 // C <- next queued byte (0 if none queued)
	CmdWriteRune = 2 // writes the low byte of B to the output stream
	CmdSetIRQ    = 3 // B becomes the message raised when input arrives
)

const (
	hwidLow   = 0x1337
	hwidHigh  = 0xc0de
	version   = 1
	manufLow  = 0x0001
	manufHigh = 0x0000
)

// Console is a Device implementing a minimal text terminal.
type Console struct {
	Out io.Writer

	in       []byte
	hasCmd   bool
	cmd      w.Word
	irqMsg   w.Word
	notified bool
}

// New returns a Console that writes guest output to out.
func New(out io.Writer) *Console {
	return &Console{Out: out}
}

// FeedInput queues raw bytes for the guest to read via CmdReadChar. It is
// not part of the Device interface — only a driver with its own input
// source (a REPL, a test) calls it.
func (c *Console) FeedInput(data []byte) {
	c.in = append(c.in, data...)
	c.notified = false
}

func (c *Console) ID() (lo, hi w.Word) { return hwidLow, hwidHigh }
func (c *Console) Version() w.Word     { return version }

func (c *Console) Manufacturer() (lo, hi w.Word) { return manufLow, manufHigh }

// Interrupt records the command word for Update to act on; by convention
// it is register A's value at HWI time.
func (c *Console) Interrupt(msg w.Word) {
	c.hasCmd = true
	c.cmd = msg
}

// Update services a pending command, with full access to registers for
// operands HWI's single Word could not carry, then checks whether queued
// input should raise an interrupt.
func (c *Console) Update(_ *clock.Clock, regs *registers.Registers, _ *memory.Memory, iq *interruptqueue.Queue) error {
	if c.hasCmd {
		c.hasCmd = false
		switch c.cmd {
		case CmdStatus:
			if len(c.in) > 0 {
				regs.Set(registers.B, 1)
			} else {
				regs.Set(registers.B, 0)
			}

		case CmdReadChar:
			if len(c.in) > 0 {
				regs.Set(registers.C, w.Word(c.in[0]))
				c.in = c.in[1:]
			} else {
				regs.Set(registers.C, 0)
			}

		case CmdWriteRune:
			if c.Out != nil {
				_, _ = c.Out.Write([]byte{byte(regs.Get(registers.B))})
			}

		case CmdSetIRQ:
			c.irqMsg = regs.Get(registers.B)
		}
	}

	if len(c.in) > 0 && !c.notified && c.irqMsg != 0 {
		if err := iq.Enqueue(c.irqMsg); err != nil {
			return err
		}
		c.notified = true
	}
	return nil
}

// create builds a Console for the config DSL. It takes no options; guest
// output always goes to os.Stdout when attached this way.
func create(_ int, _ []configparser.Option) (device.Device, error) {
	return New(os.Stdout), nil
}

func init() {
	configparser.RegisterModel("console", create)
}
