package interruptqueue

/*
 * DCPU16 - Interrupt queue tests
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcornwell/dcpu16/machine/machineerr"
	w "github.com/rcornwell/dcpu16/machine/word"
)

func TestEmptyQueue(t *testing.T) {
	var q Queue
	require.True(t, q.Empty(), "new queue not empty")
	_, err := q.Dequeue()
	assert.ErrorIs(t, err, machineerr.ErrInterruptUnderflow)
}

// Property 3: FIFO order over 255 messages.
func TestFIFOOrder(t *testing.T) {
	var q Queue
	for i := 0; i < Capacity-1; i++ {
		require.NoErrorf(t, q.Enqueue(w.Word(i)), "Enqueue(%d)", i)
	}
	require.Truef(t, q.Full(), "queue should be full after %d enqueues", Capacity-1)
	assert.ErrorIs(t, q.Enqueue(0xdead), machineerr.ErrInterruptOverflow)

	for i := 0; i < Capacity-1; i++ {
		got, err := q.Dequeue()
		require.NoErrorf(t, err, "Dequeue(%d)", i)
		assert.Equalf(t, w.Word(i), got, "Dequeue(%d)", i)
	}
	assert.True(t, q.Empty(), "queue should be empty after draining")
}

// Property 3: repeated enqueue/dequeue cycles exercise wraparound of the
// read/write cursors without losing FIFO order.
func TestWraparound(t *testing.T) {
	var q Queue
	var next w.Word
	for i := 0; i < 1000; i++ {
		require.NoErrorf(t, q.Enqueue(next), "iter %d Enqueue", i)
		got, err := q.Dequeue()
		require.NoErrorf(t, err, "iter %d Dequeue", i)
		assert.Equalf(t, next, got, "iter %d", i)
		next++
	}
}

func TestQueueingFlag(t *testing.T) {
	var q Queue
	require.False(t, q.Queueing(), "queueing should start disabled")
	q.Enable(true)
	assert.True(t, q.Queueing(), "Enable(true) did not take effect")
	q.Enable(false)
	assert.False(t, q.Queueing(), "Enable(false) did not take effect")
}
