package cpu

/*
 * DCPU16 - Executor tests
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
	w "github.com/rcornwell/dcpu16/machine/word"
)

// fakeBus is a minimal Bus for HWN/HWQ/HWI tests: ids holds one
// (lo, hi, version) triple per device, and delivered records HWI messages.
type fakeBus struct {
	ids       []w.Word
	delivered []w.Word
}

func (b *fakeBus) Count() int { return len(b.ids) / 3 }

func (b *fakeBus) Identify(idx int) (lo, hi, version w.Word) {
	base := idx * 3
	return b.ids[base], b.ids[base+1], b.ids[base+2]
}

func (b *fakeBus) Interrupt(idx int, msg w.Word) {
	b.delivered = append(b.delivered, msg)
}

// assembleBinary packs a binary instruction word: opcode with a-field
// (source, upper 6 bits) and b-field (destination, middle 5 bits).
func assembleBinary(opcode, aField, bField w.Word) w.Word {
	return (aField << 10) | (bField << 5) | opcode
}

func assembleUnary(opcode, aField w.Word) w.Word {
	return (aField << 10) | (opcode << 5)
}

func runUntilIdle(t *testing.T, c *CPU, regs *registers.Registers, mem *memory.Memory, iq *interruptqueue.Queue, bus Bus, steps int) {
	t.Helper()
	for i := 0; i < steps; i++ {
		require.NoErrorf(t, c.Step(regs, mem, iq, bus, uint64(i+1)), "step %d", i)
	}
}

// Property 5: arithmetic overflow semantics.
func TestArithmeticOverflow(t *testing.T) {
	t.Run("ADD overflow", func(t *testing.T) {
		var regs registers.Registers
		var mem memory.Memory
		var iq interruptqueue.Queue
		var c CPU
		regs.Set(registers.A, 0xffff)
		// ADD A, 1 -> a field = literal 1 (0x22), b field = 0 (A), opcode=2.
		mem.Set(0, assembleBinary(0x02, 0x22, 0x00))
		runUntilIdle(t, &c, &regs, &mem, &iq, nil, 2)
		assert.Zero(t, regs.Get(registers.A))
		assert.EqualValues(t, 1, regs.PS)
	})

	t.Run("SUB underflow", func(t *testing.T) {
		var regs registers.Registers
		var mem memory.Memory
		var iq interruptqueue.Queue
		var c CPU
		// SUB A, 1 -> opcode=3, a field literal 1 (0x22), b field = 0.
		mem.Set(0, assembleBinary(0x03, 0x22, 0x00))
		runUntilIdle(t, &c, &regs, &mem, &iq, nil, 2)
		assert.EqualValues(t, 0xffff, regs.Get(registers.A))
		assert.EqualValues(t, 0xffff, regs.PS)
	})

	t.Run("MUL overflow", func(t *testing.T) {
		var regs registers.Registers
		var mem memory.Memory
		var iq interruptqueue.Queue
		var c CPU
		regs.Set(registers.A, 0x8000)
		// MUL A, 2 -> opcode=4, a field literal 2 (0x23), b field = 0.
		mem.Set(0, assembleBinary(0x04, 0x23, 0x00))
		runUntilIdle(t, &c, &regs, &mem, &iq, nil, 2)
		assert.Zero(t, regs.Get(registers.A))
		assert.EqualValues(t, 1, regs.PS)
	})

	t.Run("MLI signed", func(t *testing.T) {
		var regs registers.Registers
		var mem memory.Memory
		var iq interruptqueue.Queue
		var c CPU
		regs.Set(registers.A, 0xffff) // -1
		// MLI A, 2 -> opcode=5, a field literal 2 (0x23), b field = 0.
		mem.Set(0, assembleBinary(0x05, 0x23, 0x00))
		runUntilIdle(t, &c, &regs, &mem, &iq, nil, 2)
		assert.EqualValues(t, 0xfffe, regs.Get(registers.A))
		assert.EqualValues(t, 0xffff, regs.PS)
	})

	t.Run("DIV by zero", func(t *testing.T) {
		var regs registers.Registers
		var mem memory.Memory
		var iq interruptqueue.Queue
		var c CPU
		regs.Set(registers.A, 5)
		// DIV A, 0 -> opcode=6, a field literal 0 (0x21), b field = 0.
		mem.Set(0, assembleBinary(0x06, 0x21, 0x00))
		runUntilIdle(t, &c, &regs, &mem, &iq, nil, 3)
		assert.Zero(t, regs.Get(registers.A))
		assert.Zero(t, regs.PS)
	})
}

// Property 6: conditional-skip chain.
func TestSkipChain(t *testing.T) {
	t.Run("both IFE false, inner SET skipped", func(t *testing.T) {
		var regs registers.Registers
		var mem memory.Memory
		var iq interruptqueue.Queue
		var c CPU
		// IFE B, 1 with B=0 (the 5-bit b field has no short literals, so B
		// stands in for 0) -> opcode=0x12, a field literal 1 (0x22), b field B (0x01).
		mem.Set(0, assembleBinary(0x12, 0x22, 0x01))
		mem.Set(1, assembleBinary(0x12, 0x22, 0x01))
		// SET A, 7 -> opcode=1, a=literal 7(0x28), b=0(A).
		mem.Set(2, assembleBinary(0x01, 0x28, 0x00))
		// SET A, 9 -> opcode=1, a=literal 9(0x2a), b=0(A).
		mem.Set(3, assembleBinary(0x01, 0x2a, 0x00))

		for i := 0; i < 20 && regs.PC < 4; i++ {
			require.NoErrorf(t, c.Step(&regs, &mem, &iq, nil, uint64(i+1)), "step %d", i)
		}
		assert.EqualValues(t, 9, regs.Get(registers.A))
	})

	t.Run("IFE true, both SETs execute", func(t *testing.T) {
		var regs registers.Registers
		var mem memory.Memory
		var iq interruptqueue.Queue
		var c CPU
		// IFE B, 1 with B=1 -> opcode=0x12, a=literal1(0x22), b=B(0x01).
		regs.Set(registers.B, 1)
		mem.Set(0, assembleBinary(0x12, 0x22, 0x01))
		mem.Set(1, assembleBinary(0x01, 0x28, 0x00)) // SET A, 7
		mem.Set(2, assembleBinary(0x01, 0x2a, 0x00)) // SET A, 9

		for i := 0; i < 20 && regs.PC < 3; i++ {
			require.NoErrorf(t, c.Step(&regs, &mem, &iq, nil, uint64(i+1)), "step %d", i)
		}
		assert.EqualValues(t, 9, regs.Get(registers.A))
	})
}

// Property 7: stack discipline.
func TestStackDiscipline(t *testing.T) {
	var regs registers.Registers
	var mem memory.Memory
	var iq interruptqueue.Queue
	var c CPU
	startSP := regs.SP

	// SET PUSH, 1 -> destination field 0x18 (push), source literal 1 (0x22), opcode=1.
	mem.Set(0, assembleBinary(0x01, 0x22, 0x18))
	// SET PUSH, 2 -> source literal 2 (0x23).
	mem.Set(1, assembleBinary(0x01, 0x23, 0x18))
	// SET A, POP -> source field 0x18 (pop), destination A (0x00).
	mem.Set(2, assembleBinary(0x01, 0x18, 0x00))
	// SET B, POP -> destination B (0x01).
	mem.Set(3, assembleBinary(0x01, 0x18, 0x01))

	for i := 0; i < 20 && regs.PC < 4; i++ {
		require.NoErrorf(t, c.Step(&regs, &mem, &iq, nil, uint64(i+1)), "step %d", i)
	}
	assert.EqualValues(t, 2, regs.Get(registers.A))
	assert.EqualValues(t, 1, regs.Get(registers.B))
	assert.Equal(t, startSP, regs.SP, "SP should return to start")
}

// Property 8: JSR/return.
func TestJSRReturn(t *testing.T) {
	var regs registers.Registers
	var mem memory.Memory
	var iq interruptqueue.Queue
	var c CPU
	startSP := regs.SP

	// JSR target(=2) -> unary opcode 0x01, a field literal 2 (0x23).
	mem.Set(0, assembleUnary(0x01, 0x23))
	mem.Set(1, assembleBinary(0x00, 0x00, 0x00)) // never reached (NOP-ish filler)
	// target: SET A, 1 -> opcode=1, a=literal1(0x22), b=A(0x00).
	mem.Set(2, assembleBinary(0x01, 0x22, 0x00))
	// SET PC, POP -> destination PC (0x1c), source pop (0x18).
	mem.Set(3, assembleBinary(0x01, 0x18, 0x1c))

	for i := 0; i < 20 && regs.PC != 1; i++ {
		require.NoErrorf(t, c.Step(&regs, &mem, &iq, nil, uint64(i+1)), "step %d", i)
	}
	assert.EqualValues(t, 1, regs.Get(registers.A))
	assert.EqualValues(t, 1, regs.PC, "PC should have returned past JSR")
	assert.Equal(t, startSP, regs.SP)
}

// Property 9: interrupt delivery.
func TestInterruptDelivery(t *testing.T) {
	var regs registers.Registers
	var mem memory.Memory
	var iq interruptqueue.Queue
	var c CPU
	regs.IA = 0x100
	regs.SP = 0
	_ = iq.Enqueue(0x42)

	require.NoError(t, c.Step(&regs, &mem, &iq, nil, 1))
	assert.EqualValues(t, 0x42, regs.Get(registers.A))
	assert.EqualValues(t, 0x100, regs.PC)
	assert.True(t, iq.Queueing(), "queueing should be enabled after delivery")
	assert.EqualValues(t, 3, c.busy, "4 cycles charged, 1 already spent this step")

	// IA=0: message dropped, no delivery.
	var regs2 registers.Registers
	var mem2 memory.Memory
	var iq2 interruptqueue.Queue
	var c2 CPU
	_ = iq2.Enqueue(0x99)
	require.NoError(t, c2.Step(&regs2, &mem2, &iq2, nil, 1))
	assert.EqualValues(t, 1, regs2.PC, "fetch-execute should have run a NOP, interrupt not delivered")
}

// INT with IA=0: message must be dropped, not enqueued.
func TestSoftwareInterruptDroppedWhenIAZero(t *testing.T) {
	var regs registers.Registers
	var mem memory.Memory
	var iq interruptqueue.Queue
	var c CPU

	// INT 4 -> unary opcode 0x08, a field literal 4 (0x21+4=0x25).
	mem.Set(0, assembleUnary(0x08, 0x25))

	require.NoError(t, c.Step(&regs, &mem, &iq, nil, 1))
	assert.True(t, iq.Empty(), "INT must drop its message while IA=0")
}

// INT with IA!=0: message is enqueued normally.
func TestSoftwareInterruptQueuedWhenIANonZero(t *testing.T) {
	var regs registers.Registers
	var mem memory.Memory
	var iq interruptqueue.Queue
	var c CPU
	regs.IA = 0x100

	mem.Set(0, assembleUnary(0x08, 0x25))

	require.NoError(t, c.Step(&regs, &mem, &iq, nil, 1))
	assert.False(t, iq.Empty(), "queue should hold INT's message when IA!=0")
}

// Property 10: STI/STD.
func TestSTISTD(t *testing.T) {
	var regs registers.Registers
	var mem memory.Memory
	var iq interruptqueue.Queue
	var c CPU
	// STI [I], [J] with I=J=0 -> opcode=0x1e, source [J] (reg-indirect field
	// 0x08+7), destination [I] (reg-indirect field 0x08+6).
	mem.Set(0, assembleBinary(0x1e, 0x0f, 0x0e))
	require.NoError(t, c.Step(&regs, &mem, &iq, nil, 1))
	assert.EqualValues(t, 1, regs.Get(registers.I))
	assert.EqualValues(t, 1, regs.Get(registers.J))

	var regs2 registers.Registers
	var mem2 memory.Memory
	var iq2 interruptqueue.Queue
	var c2 CPU
	mem2.Set(0, assembleBinary(0x1f, 0x0f, 0x0e)) // STD [I], [J]
	require.NoError(t, c2.Step(&regs2, &mem2, &iq2, nil, 1))
	assert.EqualValues(t, 0xffff, regs2.Get(registers.I))
	assert.EqualValues(t, 0xffff, regs2.Get(registers.J))
}

// Property 11: busy cycle accounting.
func TestBusyCycleAccounting(t *testing.T) {
	var regs registers.Registers
	var mem memory.Memory
	var iq interruptqueue.Queue
	var c CPU
	// SET B, A -> opcode 1, a=A(0x00), b=B(0x01): register-to-register, 1 cycle.
	mem.Set(0, assembleBinary(0x01, 0x00, 0x01))
	require.NoError(t, c.Step(&regs, &mem, &iq, nil, 1))
	assert.EqualValues(t, 1, regs.PC, "PC after a single-cycle SET")
	assert.Zero(t, c.busy, "1-cycle instruction fully paid in one step")

	var regs2 registers.Registers
	var mem2 memory.Memory
	var iq2 interruptqueue.Queue
	var c2 CPU
	regs2.Set(registers.A, 0x4000)
	// SET B, [A+nextword] -> a field 0x10 (Memory(A+next)), b=B(0x01), opcode=1.
	mem2.Set(0, assembleBinary(0x01, 0x10, 0x01))
	mem2.Set(1, 4)
	require.NoError(t, c2.Step(&regs2, &mem2, &iq2, nil, 1))
	assert.EqualValues(t, 1, c2.busy, "base 1 + 1 extra-word fetch, 1 already spent")
	require.NoError(t, c2.Step(&regs2, &mem2, &iq2, nil, 2))
	assert.EqualValues(t, 2, regs2.PC, "instruction + next-word consumed")
}

// Property 12: cycle-exact CLK.
func TestCycleExactCLK(t *testing.T) {
	var regs registers.Registers
	var mem memory.Memory
	var iq interruptqueue.Queue
	var c CPU
	mem.Set(0, 0x01<<10) // CLK: nullary opcode = a field = 1.
	require.NoError(t, c.Step(&regs, &mem, &iq, nil, 0x10000))
	assert.EqualValues(t, 1, regs.Get(registers.I), "I at cycle 0x10000")
	assert.Zero(t, regs.Get(registers.J), "J at cycle 0x10000")
}

func TestHardwareQuery(t *testing.T) {
	var regs registers.Registers
	var mem memory.Memory
	var iq interruptqueue.Queue
	var c CPU
	bus := &fakeBus{ids: []w.Word{0x1234, 0x5678, 3}}

	// HWN A -> unary opcode 0x10, a field = A (0x00).
	mem.Set(0, assembleUnary(0x10, 0x00))
	require.NoError(t, c.Step(&regs, &mem, &iq, bus, 1))
	assert.EqualValues(t, 1, regs.Get(registers.A), "HWN")

	regs.PC = 0
	regs.Set(registers.A, 0)
	// HWQ A -> unary opcode 0x11, a field = A.
	mem.Set(0, assembleUnary(0x11, 0x00))
	require.NoError(t, c.Step(&regs, &mem, &iq, bus, 2))
	assert.EqualValues(t, 0x1234, regs.Get(registers.X))
	assert.EqualValues(t, 0x5678, regs.Get(registers.Y))
	assert.EqualValues(t, 3, regs.Get(registers.Z))

	regs.PC = 0
	regs.Set(registers.A, 0)
	// HWI A -> unary opcode 0x12, a field = A.
	mem.Set(0, assembleUnary(0x12, 0x00))
	require.NoError(t, c.Step(&regs, &mem, &iq, bus, 3))
	require.Len(t, bus.delivered, 1)
	assert.Zero(t, bus.delivered[0])
}
