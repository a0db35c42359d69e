/*
   DCPU16 - Interrupt queue.

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

// Package interruptqueue implements the CPU's bounded pending-interrupt
// buffer and the queueing-enable flag that governs whether a newly raised
// interrupt is buffered or delivered right away.
package interruptqueue

import (
	"github.com/rcornwell/dcpu16/machine/machineerr"
	w "github.com/rcornwell/dcpu16/machine/word"
)

// Capacity is the fixed size of the circular buffer. One slot is always
// kept empty to distinguish full from empty, so Capacity-1 messages can be
// held at once.
const Capacity = 256

// Queue is a fixed-capacity circular buffer of pending interrupt messages.
// The zero value is an empty queue with queueing disabled.
type Queue struct {
	buf      [Capacity]w.Word
	read     uint16
	write    uint16
	queueing bool
}

// Empty reports whether the queue holds no messages.
func (q *Queue) Empty() bool {
	return q.read == q.write
}

// Full reports whether the queue has no free slots.
func (q *Queue) Full() bool {
	return (q.write+1)%Capacity == q.read
}

// Queueing reports whether a newly raised interrupt should be enqueued
// (true) or delivered immediately (false).
func (q *Queue) Queueing() bool {
	return q.queueing
}

// Enable turns queueing on or off.
func (q *Queue) Enable(on bool) {
	q.queueing = on
}

// Enqueue appends msg to the queue. It fails with ErrInterruptOverflow if
// the queue is already full; a full queue is a guest-caused fatal
// condition and a driver should halt the clock on seeing it.
func (q *Queue) Enqueue(msg w.Word) error {
	if q.Full() {
		return machineerr.ErrInterruptOverflow
	}
	q.buf[q.write] = msg
	q.write = (q.write + 1) % Capacity
	return nil
}

// Dequeue removes and returns the oldest message. It fails with
// ErrInterruptUnderflow on an empty queue; this path should be unreachable
// from a well-formed caller and indicates a bug if seen.
func (q *Queue) Dequeue() (w.Word, error) {
	if q.Empty() {
		return 0, machineerr.ErrInterruptUnderflow
	}
	msg := q.buf[q.read]
	q.read = (q.read + 1) % Capacity
	return msg, nil
}
