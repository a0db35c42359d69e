package registers

/*
 * DCPU16 - Register file tests
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
)

func TestZeroValue(t *testing.T) {
	var rs Registers
	for r := A; r < numGeneral; r++ {
		assert.Zerof(t, rs.Get(r), "register %d", r)
	}
	assert.Zero(t, rs.PC)
	assert.Zero(t, rs.SP)
	assert.Zero(t, rs.PS)
	assert.Zero(t, rs.IA)
}

// Stack discipline: SP pre-decrements on push, post-increments on pop, and
// an empty stack's first push lands at 0xffff.
func TestPushPop(t *testing.T) {
	var rs Registers
	addr := rs.Push()
	require.EqualValues(t, 0xffff, addr)
	require.EqualValues(t, 0xffff, rs.SP)

	addr2 := rs.Push()
	require.EqualValues(t, 0xfffe, addr2)
	require.EqualValues(t, 0xfffe, rs.SP)

	popAddr := rs.Pop()
	require.EqualValues(t, 0xfffe, popAddr)
	require.EqualValues(t, 0xffff, rs.SP)

	popAddr2 := rs.Pop()
	require.EqualValues(t, 0xffff, popAddr2)
	require.Zero(t, rs.SP)
}

func TestSetGet(t *testing.T) {
	var rs Registers
	rs.Set(I, 0x1234)
	rs.Set(J, 0x5678)
	assert.EqualValues(t, 0x1234, rs.Get(I))
	assert.EqualValues(t, 0x5678, rs.Get(J))
}
