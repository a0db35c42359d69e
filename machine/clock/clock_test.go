package clock

/*
 * DCPU16 - Cycle clock tests
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
)

// Property 2: clock monotonicity.
func TestMonotonic(t *testing.T) {
	var c Clock
	for i := 0; i < 100; i++ {
		require.NoErrorf(t, c.Advance(), "Advance() #%d", i)
	}
	assert.EqualValues(t, 100, c.Cycles())
}

func TestHaltIsSticky(t *testing.T) {
	var c Clock
	_ = c.Advance()
	_ = c.Advance()
	c.Halt()

	before := c.Cycles()
	require.ErrorIs(t, c.Advance(), machineerr.ErrClockHalted)
	assert.Equal(t, before, c.Cycles(), "Cycles() must not change across a halted Advance")

	// Still halted on a second attempt.
	assert.ErrorIs(t, c.Advance(), machineerr.ErrClockHalted)
}
