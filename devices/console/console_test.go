package console

/*
 * DCPU16 - Console device tests
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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcornwell/dcpu16/machine/interruptqueue"
	"github.com/rcornwell/dcpu16/machine/memory"
	"github.com/rcornwell/dcpu16/machine/registers"
)

func TestWriteRune(t *testing.T) {
	var out bytes.Buffer
	c := New(&out)
	var regs registers.Registers
	var mem memory.Memory
	var iq interruptqueue.Queue

	regs.Set(registers.B, 'X')
	c.Interrupt(CmdWriteRune)
	require.NoError(t, c.Update(nil, &regs, &mem, &iq))
	assert.Equal(t, "X", out.String())
}

func TestReadCharAndStatus(t *testing.T) {
	c := New(nil)
	var regs registers.Registers
	var mem memory.Memory
	var iq interruptqueue.Queue

	c.Interrupt(CmdStatus)
	require.NoError(t, c.Update(nil, &regs, &mem, &iq))
	require.Zero(t, regs.Get(registers.B), "status before input")

	c.FeedInput([]byte("hi"))

	c.Interrupt(CmdStatus)
	require.NoError(t, c.Update(nil, &regs, &mem, &iq))
	require.EqualValues(t, 1, regs.Get(registers.B), "status after input")

	c.Interrupt(CmdReadChar)
	require.NoError(t, c.Update(nil, &regs, &mem, &iq))
	assert.EqualValues(t, 'h', regs.Get(registers.C))

	c.Interrupt(CmdReadChar)
	require.NoError(t, c.Update(nil, &regs, &mem, &iq))
	assert.EqualValues(t, 'i', regs.Get(registers.C))
}

func TestInputRaisesInterruptOnce(t *testing.T) {
	c := New(nil)
	var regs registers.Registers
	var mem memory.Memory
	var iq interruptqueue.Queue

	regs.Set(registers.B, 0x42)
	c.Interrupt(CmdSetIRQ)
	require.NoError(t, c.Update(nil, &regs, &mem, &iq))

	c.FeedInput([]byte("a"))
	require.NoError(t, c.Update(nil, &regs, &mem, &iq))
	require.False(t, iq.Empty(), "expected an interrupt to be queued after input arrived")
	msg, err := iq.Dequeue()
	require.NoError(t, err)
	assert.EqualValues(t, 0x42, msg)

	// No further notification until new input arrives.
	require.NoError(t, c.Update(nil, &regs, &mem, &iq))
	assert.True(t, iq.Empty(), "should not re-notify for input already queued")
}
