/*
   DCPU16 - Block storage device.

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

   A small fixed-geometry disk: SectorCount sectors of SectorWords words
   each, held as one flat in-memory buffer (optionally backed by a file
   loaded up front). There is no seek latency or DMA queueing — reads and
   writes complete within the Update call that services them, since the
   core has no notion of an in-flight asynchronous operation.
*/

package disk

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rcornwell/dcpu16/config/configparser"
	"github.com/rcornwell/dcpu16/machine/clock"
	"github.com/rcornwell/dcpu16/machine/device"
	"github.com/rcornwell/dcpu16/machine/interruptqueue"
	"github.com/rcornwell/dcpu16/machine/memory"
	"github.com/rcornwell/dcpu16/machine/registers"
	w "github.com/rcornwell/dcpu16/machine/word"
)

// defaultSectors is used when a config line gives neither sectors= nor
// file= enough information to size the disk.
const defaultSectors = 128

// SectorWords is the number of Words per sector.
const SectorWords = 512

// Command numbers, carried in register A at HWI time.
const (
	CmdQuery  = 0 // B <- sector count, C <- SectorWords
	CmdRead   = 1 // B = mem address, C = sector number: sector -> memory
	CmdWrite  = 2 // B = mem address, C = sector number: memory -> sector
	CmdSetIRQ = 3 // B becomes the message raised when an op completes
)

const (
	hwidLow   = 0x4441
	hwidHigh  = 0x1101
	version   = 1
	manufLow  = 0x0001
	manufHigh = 0x0000
)

// Disk is a Device implementing fixed-geometry block storage.
type Disk struct {
	sectors []w.Word // flat SectorCount*SectorWords store
	count   int
	irqMsg  w.Word
	hasCmd  bool
	cmd     w.Word
}

// New returns a zero-filled Disk of the given sector count.
func New(sectorCount int) *Disk {
	return &Disk{sectors: make([]w.Word, sectorCount*SectorWords), count: sectorCount}
}

// Load replaces the disk's contents from r, a flat little-endian image of
// exactly count*SectorWords*2 bytes (mirroring Memory's image format).
func (d *Disk) Load(r io.Reader) error {
	buf := make([]byte, len(d.sectors)*2)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	for i := range d.sectors {
		d.sectors[i] = w.Word(binary.LittleEndian.Uint16(buf[i*2:]))
	}
	return nil
}

// Save writes the disk's full contents to dst in the same image format Load reads.
func (d *Disk) Save(dst io.Writer) error {
	buf := make([]byte, len(d.sectors)*2)
	for i, cell := range d.sectors {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(cell))
	}
	_, err := dst.Write(buf)
	return err
}

func (d *Disk) ID() (lo, hi w.Word)           { return hwidLow, hwidHigh }
func (d *Disk) Version() w.Word               { return version }
func (d *Disk) Manufacturer() (lo, hi w.Word) { return manufLow, manufHigh }

func (d *Disk) Interrupt(msg w.Word) {
	d.hasCmd = true
	d.cmd = msg
}

// Update services a pending command, with full access to registers and
// memory for operands HWI's single Word could not carry.
func (d *Disk) Update(_ *clock.Clock, regs *registers.Registers, mem *memory.Memory, iq *interruptqueue.Queue) error {
	if !d.hasCmd {
		return nil
	}
	d.hasCmd = false

	switch d.cmd {
	case CmdQuery:
		regs.Set(registers.B, w.Word(d.count))
		regs.Set(registers.C, SectorWords)

	case CmdRead:
		addr := regs.Get(registers.B)
		sector := int(regs.Get(registers.C))
		if sector < 0 || sector >= d.count {
			return nil
		}
		base := sector * SectorWords
		mem.WriteSlice(addr, d.sectors[base:base+SectorWords])
		d.complete(iq)

	case CmdWrite:
		addr := regs.Get(registers.B)
		sector := int(regs.Get(registers.C))
		if sector < 0 || sector >= d.count {
			return nil
		}
		base := sector * SectorWords
		copy(d.sectors[base:base+SectorWords], mem.ReadSlice(addr, SectorWords))
		d.complete(iq)

	case CmdSetIRQ:
		d.irqMsg = regs.Get(registers.B)
	}
	return nil
}

func (d *Disk) complete(iq *interruptqueue.Queue) {
	if d.irqMsg != 0 {
		_ = iq.Enqueue(d.irqMsg)
	}
}

// create builds a Disk for the config DSL. sectors=N sizes an empty disk;
// file=path loads an existing image instead, sized from the file itself
// unless sectors= is also given.
func create(_ int, opts []configparser.Option) (device.Device, error) {
	sectors := 0
	var file string
	for _, o := range opts {
		switch o.Name {
		case "sectors":
			n, err := strconv.Atoi(o.Value)
			if err != nil {
				return nil, fmt.Errorf("invalid sectors=%q: %w", o.Value, err)
			}
			sectors = n
		case "file":
			file = o.Value
		}
	}

	if file == "" {
		if sectors == 0 {
			sectors = defaultSectors
		}
		return New(sectors), nil
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sectors == 0 {
		info, err := f.Stat()
		if err != nil {
			return nil, err
		}
		sectors = int(info.Size() / (SectorWords * 2))
	}

	d := New(sectors)
	if err := d.Load(f); err != nil {
		return nil, fmt.Errorf("loading %s: %w", file, err)
	}
	return d, nil
}

func init() {
	configparser.RegisterModel("disk", create)
}
