/*
   DCPU16 - Shared error sentinels.

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

// Package machineerr holds the error sentinels shared across the emulator
// core, so callers can test the failure kind with errors.Is instead of a
// bespoke error-code enum.
package machineerr

import "errors"

var (
	// ErrClockHalted is returned by System.Step when the clock is halted.
	ErrClockHalted = errors.New("clock halted")

	// ErrHardwareFailure wraps an error a device returned from Update.
	ErrHardwareFailure = errors.New("hardware failure")

	// ErrAddressOverflow marks an internal invariant violation, such as a
	// slice write that would exceed the address space.
	ErrAddressOverflow = errors.New("address overflow")

	// ErrInterruptOverflow is returned by InterruptQueue.Enqueue on a full queue.
	ErrInterruptOverflow = errors.New("interrupt queue overflow")

	// ErrInterruptUnderflow is returned by InterruptQueue.Dequeue on an empty queue.
	ErrInterruptUnderflow = errors.New("interrupt queue underflow")

	// ErrDecode marks an opcode outside the nullary/unary/binary tables.
	ErrDecode = errors.New("decode error: unknown opcode")
)
