/*
   DCPU16 - Command parser.

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

// Package cli implements the machine's interactive command set: loading and
// saving memory images, single-stepping and running, examining and
// depositing memory, attaching devices, and assembling or disassembling
// text, on top of a machine/system.System.
package cli

import (
	"errors"
	"strconv"
	"unicode"

	"github.com/rcornwell/dcpu16/machine/system"
	w "github.com/rcornwell/dcpu16/machine/word"
)

// Session is the state one REPL owns across commands: the machine it drives,
// plus the label table left behind by the most recent "asm".
type Session struct {
	Sys    *system.System
	Labels map[string]w.Word
}

// NewSession returns a Session ready to drive sys.
func NewSession(sys *system.System) *Session {
	return &Session{Sys: sys}
}

type cmd struct {
	name    string
	min     int // minimum abbreviation length
	process func(*cmdLine, *Session) (bool, error)
}

type cmdLine struct {
	line string
	pos  int
}

var cmdList = []cmd{
	{name: "load", min: 2, process: load},
	{name: "save", min: 2, process: save},
	{name: "step", min: 3, process: step},
	{name: "run", min: 2, process: run},
	{name: "stop", min: 3, process: stop},
	{name: "examine", min: 2, process: examine},
	{name: "deposit", min: 2, process: deposit},
	{name: "attach", min: 2, process: attach},
	{name: "show", min: 2, process: show},
	{name: "asm", min: 2, process: asmCmd},
	{name: "disasm", min: 2, process: disasmCmd},
	{name: "quit", min: 2, process: quit},
}

// ProcessCommand parses and runs one command line against s. It returns true
// when the session should end (the "quit" command), or an error describing
// what went wrong — a bad argument, an unknown command, an ambiguous
// abbreviation.
func ProcessCommand(commandLine string, s *Session) (bool, error) {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	match := matchList(name)
	switch len(match) {
	case 0:
		return false, errors.New("command not found: " + name)
	case 1:
		return match[0].process(&line, s)
	default:
		return false, errors.New("ambiguous command: " + name)
	}
}

// CompleteCmd returns the line-editor completions for commandLine: the
// matching command names while the first word is still being typed, or a
// device-model completion once "attach " has been typed in full.
func CompleteCmd(commandLine string) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	if !line.isEOL() {
		match := matchList(name)
		if len(match) != 1 || match[0].name != "attach" {
			return nil
		}
		line.skipSpace()
		return matchModel(line)
	}

	match := matchList(name)
	names := make([]string, len(match))
	for i, m := range match {
		names[i] = m.name
	}
	return names
}

// matchCommand reports whether command is a valid, long-enough abbreviation
// of match.name: every character command supplies must agree with name, and
// command must be at least match.min characters long.
func matchCommand(match cmd, command string) bool {
	if len(command) < match.min || len(command) > len(match.name) {
		return false
	}
	for i := range command {
		if match.name[i] != command[i] {
			return false
		}
	}
	return true
}

func matchList(command string) []cmd {
	if command == "" {
		return nil
	}
	var match []cmd
	for _, m := range cmdList {
		if matchCommand(m, command) {
			match = append(match, m)
		}
	}
	return match
}

func (line *cmdLine) isEOL() bool {
	return line.pos >= len(line.line)
}

func (line *cmdLine) skipSpace() {
	for !line.isEOL() && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

// getWord returns the next whitespace-delimited token, advancing past it.
func (line *cmdLine) getWord() string {
	line.skipSpace()
	start := line.pos
	for !line.isEOL() && !unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
	return line.line[start:line.pos]
}

// rest returns everything left on the line, leading space trimmed.
func (line *cmdLine) rest() string {
	line.skipSpace()
	return line.line[line.pos:]
}

// parseAddr parses a 16-bit address or value, accepting decimal or a 0x
// prefixed hex literal.
func parseAddr(text string) (w.Word, error) {
	v, err := strconv.ParseUint(text, 0, 32)
	if err != nil {
		return 0, err
	}
	return w.Mask(uint32(v)), nil
}
