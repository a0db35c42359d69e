/*
   DCPU16 - Cycle clock.

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

// Package clock counts simulated cycles. Unlike a wall-clock timer, it has
// no notion of real time: a step is one abstract cycle, advanced only by
// the driver calling System.Step.
package clock

import "github.com/rcornwell/dcpu16/machine/machineerr"

// Clock is a monotonic cycle counter with a sticky halt flag. The zero
// value is cycles=0, running.
type Clock struct {
	cycles uint64
	halted bool
}

// Cycles returns the number of cycles successfully advanced so far.
func (c *Clock) Cycles() uint64 {
	return c.cycles
}

// Halted reports whether the clock has been halted.
func (c *Clock) Halted() bool {
	return c.halted
}

// Halt stops the clock. Halting is sticky: once halted, Advance always
// fails until the owning system is recreated.
func (c *Clock) Halt() {
	c.halted = true
}

// Advance moves the clock forward one cycle, or fails with ErrClockHalted
// if the clock is halted.
func (c *Clock) Advance() error {
	if c.halted {
		return machineerr.ErrClockHalted
	}
	c.cycles++
	return nil
}
