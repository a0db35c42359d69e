/*
 * DCPU16 - Configuration file parser test set.
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

package configparser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcornwell/dcpu16/machine/clock"
	"github.com/rcornwell/dcpu16/machine/device"
	"github.com/rcornwell/dcpu16/machine/interruptqueue"
	"github.com/rcornwell/dcpu16/machine/memory"
	"github.com/rcornwell/dcpu16/machine/registers"
	w "github.com/rcornwell/dcpu16/machine/word"
)

func cleanUpRegistry() {
	factories = map[string]Factory{}
}

// fakeDevice records the options it was built with, for assertions.
type fakeDevice struct {
	port int
	opts []Option
}

func (f *fakeDevice) ID() (lo, hi w.Word)           { return 0, 0 }
func (f *fakeDevice) Version() w.Word               { return 0 }
func (f *fakeDevice) Manufacturer() (lo, hi w.Word) { return 0, 0 }
func (f *fakeDevice) Interrupt(w.Word)              {}
func (f *fakeDevice) Update(*clock.Clock, *registers.Registers, *memory.Memory, *interruptqueue.Queue) error {
	return nil
}

func fakeFactory(port int, opts []Option) (device.Device, error) {
	return &fakeDevice{port: port, opts: opts}, nil
}

func TestParseSimpleLine(t *testing.T) {
	cleanUpRegistry()
	RegisterModel("widget", fakeFactory)

	attachments, err := Parse(strings.NewReader("widget 0\n"))
	require.NoError(t, err)
	require.Len(t, attachments, 1)
	assert.Zero(t, attachments[0].Port)
	assert.Equal(t, "widget", attachments[0].Model)
}

func TestParseOptionsWithValues(t *testing.T) {
	cleanUpRegistry()
	RegisterModel("disk", fakeFactory)

	attachments, err := Parse(strings.NewReader(`disk 0 sectors=128 file="my disk.img"` + "\n"))
	require.NoError(t, err)
	dev := attachments[0].Device.(*fakeDevice)
	want := []Option{{Name: "sectors", Value: "128"}, {Name: "file", Value: "my disk.img"}}
	require.Equal(t, want, dev.opts)
}

func TestCommentsAndBlankLinesIgnored(t *testing.T) {
	cleanUpRegistry()
	RegisterModel("console", fakeFactory)

	attachments, err := Parse(strings.NewReader("# a comment\n\nconsole 0  # trailing comment\n"))
	require.NoError(t, err)
	require.Len(t, attachments, 1)
}

func TestUnknownModelIsAnError(t *testing.T) {
	cleanUpRegistry()
	_, err := Parse(strings.NewReader("nosuchdevice 0\n"))
	assert.Error(t, err, "an unregistered model must be an error")
}

func TestNonContiguousPortsIsAnError(t *testing.T) {
	cleanUpRegistry()
	RegisterModel("console", fakeFactory)
	_, err := Parse(strings.NewReader("console 0\nconsole 2\n"))
	assert.Error(t, err, "a port gap must be an error")
}

func TestDuplicatePortIsAnError(t *testing.T) {
	cleanUpRegistry()
	RegisterModel("console", fakeFactory)
	_, err := Parse(strings.NewReader("console 0\nconsole 0\n"))
	assert.Error(t, err, "a duplicate port must be an error")
}

func TestPortsOutOfOrderInFile(t *testing.T) {
	cleanUpRegistry()
	RegisterModel("console", fakeFactory)
	attachments, err := Parse(strings.NewReader("console 1\nconsole 0\n"))
	require.NoError(t, err)
	require.Len(t, attachments, 2)
	assert.Zero(t, attachments[0].Port)
	assert.EqualValues(t, 1, attachments[1].Port)
}
