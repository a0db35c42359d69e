/*
   DCPU16 - Command implementations.

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

package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/rcornwell/dcpu16/asm"
	"github.com/rcornwell/dcpu16/config/configparser"
	"github.com/rcornwell/dcpu16/disasm"
	w "github.com/rcornwell/dcpu16/machine/word"
)

// defaultDisasmWords is how many words "disasm" shows when the caller gives
// no explicit length.
const defaultDisasmWords = 64

func load(line *cmdLine, s *Session) (bool, error) {
	file := line.getWord()
	if file == "" {
		return false, errors.New("load: missing file name")
	}
	f, err := os.Open(file)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if err := s.Sys.Load(f); err != nil {
		return false, err
	}
	slog.Info("loaded memory image", "file", file)
	return false, nil
}

func save(line *cmdLine, s *Session) (bool, error) {
	file := line.getWord()
	if file == "" {
		return false, errors.New("save: missing file name")
	}
	f, err := os.Create(file)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if err := s.Sys.Save(f); err != nil {
		return false, err
	}
	slog.Info("saved memory image", "file", file)
	return false, nil
}

func step(line *cmdLine, s *Session) (bool, error) {
	n := 1
	if tok := line.getWord(); tok != "" {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return false, fmt.Errorf("step: %w", err)
		}
		n = v
	}
	if err := s.Sys.Run(n); err != nil {
		return false, err
	}
	fmt.Printf("PC=%#06x cycles=%d\n", s.Sys.Regs.PC, s.Sys.Clock.Cycles())
	return false, nil
}

// run drives the machine to completion or, given a count, for that many
// cycles. System.Run is synchronous, so by the time this returns there is
// nothing left running in the background for "stop" to interrupt.
func run(line *cmdLine, s *Session) (bool, error) {
	n := 0
	if tok := line.getWord(); tok != "" {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return false, fmt.Errorf("run: %w", err)
		}
		n = v
	}
	if err := s.Sys.Run(n); err != nil {
		return false, err
	}
	if s.Sys.Clock.Halted() {
		fmt.Println("halted")
	}
	return false, nil
}

// stop exists for the teacher's command set's sake, not because there is
// anything to stop: "run" only returns once the machine halts or a count is
// used up, so the prompt never gets control back while one is in flight.
func stop(_ *cmdLine, s *Session) (bool, error) {
	if s.Sys.Clock.Halted() {
		fmt.Println("already halted")
	} else {
		fmt.Println("nothing running")
	}
	return false, nil
}

func examine(line *cmdLine, s *Session) (bool, error) {
	tok := line.getWord()
	if tok == "" {
		return false, errors.New("examine: missing address")
	}
	startText, endText, hasRange := strings.Cut(tok, "-")

	start, err := parseAddr(startText)
	if err != nil {
		return false, fmt.Errorf("examine: %w", err)
	}
	end := start
	if hasRange {
		end, err = parseAddr(endText)
		if err != nil {
			return false, fmt.Errorf("examine: %w", err)
		}
	}
	if end < start {
		return false, errors.New("examine: end precedes start")
	}

	for addr := start; addr <= end; addr++ {
		fmt.Printf("%#06x: %#06x\n", addr, s.Sys.Mem.Get(addr))
	}
	return false, nil
}

func deposit(line *cmdLine, s *Session) (bool, error) {
	addr, err := parseAddr(line.getWord())
	if err != nil {
		return false, fmt.Errorf("deposit: %w", err)
	}
	rest := line.rest()
	if rest == "" {
		return false, errors.New("deposit: missing value")
	}
	for _, tok := range strings.Split(rest, ",") {
		v, err := parseAddr(strings.TrimSpace(tok))
		if err != nil {
			return false, fmt.Errorf("deposit: %w", err)
		}
		s.Sys.Mem.Set(addr, v)
		addr++
	}
	return false, nil
}

// attach parses one device-attach line, the same grammar a config file
// line uses, and appends the resulting device to the running machine. Its
// port must be the next free one, since ports are positions in the device
// list.
func attach(line *cmdLine, s *Session) (bool, error) {
	model, port, opts, err := configparser.ParseLine(line.rest())
	if err != nil {
		return false, fmt.Errorf("attach: %w", err)
	}
	if port != s.Sys.DeviceCount() {
		return false, fmt.Errorf("attach: port %d must be the next free port (%d)", port, s.Sys.DeviceCount())
	}
	dev, err := configparser.Create(model, port, opts)
	if err != nil {
		return false, fmt.Errorf("attach: %w", err)
	}
	s.Sys.Attach(dev)
	slog.Info("attached device", "model", model, "port", port)
	return false, nil
}

func show(line *cmdLine, s *Session) (bool, error) {
	switch topic := line.getWord(); topic {
	case "", "state":
		spew.Dump(s.Sys.Regs)
	case "devices":
		showDevices(s)
	case "disassemble":
		return false, showDisassemble(line, s)
	default:
		return false, fmt.Errorf("show: unknown topic %q", topic)
	}
	return false, nil
}

func showDevices(s *Session) {
	for port := 0; port < s.Sys.DeviceCount(); port++ {
		dev := s.Sys.Device(port)
		lo, hi := dev.ID()
		mlo, mhi := dev.Manufacturer()
		fmt.Printf("port %d: id=%04x%04x version=%#04x manufacturer=%04x%04x\n", port, hi, lo, dev.Version(), mhi, mlo)
	}
}

func showDisassemble(line *cmdLine, s *Session) error {
	start := w.Word(0)
	length := defaultDisasmWords
	if tok := line.getWord(); tok != "" {
		v, err := parseAddr(tok)
		if err != nil {
			return fmt.Errorf("show disassemble: %w", err)
		}
		start = v
	}
	if tok := line.getWord(); tok != "" {
		v, err := parseAddr(tok)
		if err != nil {
			return fmt.Errorf("show disassemble: %w", err)
		}
		length = int(v)
	}
	prog := s.Sys.Mem.ReadSlice(start, length)
	for _, l := range disassembler.Disassemble(prog) {
		fmt.Printf("%#06x  %s\n", start+l.Addr, l.Text)
	}
	return nil
}

func asmCmd(line *cmdLine, s *Session) (bool, error) {
	file := line.getWord()
	if file == "" {
		return false, errors.New("asm: missing file name")
	}
	source, err := os.ReadFile(file)
	if err != nil {
		return false, err
	}
	prog, labels, err := assembler.Assemble(string(source))
	if err != nil {
		return false, fmt.Errorf("asm: %w", err)
	}
	s.Sys.Mem.WriteSlice(0, prog)
	s.Labels = labels
	fmt.Printf("assembled %d words from %s\n", len(prog), file)
	return false, nil
}

func disasmCmd(line *cmdLine, s *Session) (bool, error) {
	return false, showDisassemble(line, s)
}

func quit(_ *cmdLine, _ *Session) (bool, error) {
	slog.Info("command quit")
	return true, nil
}

// matchModel returns completions for the device model name being typed as
// an "attach" command's first argument.
func matchModel(line cmdLine) []string {
	leading := line.line[:line.pos]
	typed := strings.ToLower(line.getWord())

	var matches []string
	for _, name := range configparser.ModelNames() {
		if strings.HasPrefix(strings.ToLower(name), typed) {
			matches = append(matches, leading+name+" ")
		}
	}
	return matches
}
