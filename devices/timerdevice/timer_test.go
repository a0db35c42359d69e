package timerdevice

/*
 * DCPU16 - Timer device tests
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

	"github.com/rcornwell/dcpu16/machine/interruptqueue"
	"github.com/rcornwell/dcpu16/machine/memory"
	"github.com/rcornwell/dcpu16/machine/registers"
)

func TestDisabledByDefault(t *testing.T) {
	tm := New()
	var regs registers.Registers
	var mem memory.Memory
	var iq interruptqueue.Queue
	for i := 0; i < 1000; i++ {
		require.NoErrorf(t, tm.Update(nil, &regs, &mem, &iq), "update %d", i)
	}
	assert.True(t, iq.Empty(), "a disabled timer must never raise an interrupt")
}

func TestFiresEveryPeriod(t *testing.T) {
	tm := New()
	var regs registers.Registers
	var mem memory.Memory
	var iq interruptqueue.Queue

	regs.Set(registers.B, 10)
	tm.Interrupt(CmdSetPeriod)
	_ = tm.Update(nil, &regs, &mem, &iq)

	regs.Set(registers.B, 0x55)
	tm.Interrupt(CmdSetIRQ)
	_ = tm.Update(nil, &regs, &mem, &iq)

	fires := 0
	for i := 0; i < 100; i++ {
		require.NoErrorf(t, tm.Update(nil, &regs, &mem, &iq), "update %d", i)
		if !iq.Empty() {
			msg, _ := iq.Dequeue()
			assert.EqualValuesf(t, 0x55, msg, "fired message")
			fires++
		}
	}
	assert.Equal(t, 10, fires, "fires in 100 cycles at period 10")
}

func TestElapsedQuery(t *testing.T) {
	tm := New()
	var regs registers.Registers
	var mem memory.Memory
	var iq interruptqueue.Queue

	regs.Set(registers.B, 5)
	tm.Interrupt(CmdSetPeriod)
	_ = tm.Update(nil, &regs, &mem, &iq)

	for i := 0; i < 3; i++ {
		_ = tm.Update(nil, &regs, &mem, &iq)
	}
	// The arming Update also advances the counter, so four Updates have
	// counted by the time CmdElapsed is serviced.
	tm.Interrupt(CmdElapsed)
	_ = tm.Update(nil, &regs, &mem, &iq)
	assert.EqualValues(t, 4, regs.Get(registers.C))
}
