/*
 * DCPU16 - Configuration file parser
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
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/rcornwell/dcpu16/machine/device"
)

/* Configuration file format:
 *
 * '#' indicates comment, rest of line is ignored.
 * <line> := <model> <whitespace> <port> *(<whitespace> <option>)
 * <model> := <string>
 * <port>  := <number>
 * <option> ::= <name> ['=' <quoteopt>]
 * <quoteopt> ::= <string> | '"' *(<letter> | <whitespace>) '"'
 */

// Option is one trailing key[=value] pair on a device-attach line.
type Option struct {
	Name  string
	Value string
}

// Factory builds the device a config line names, given its port and
// trailing options.
type Factory func(port int, opts []Option) (device.Device, error)

var factories = map[string]Factory{}

// RegisterModel registers a device factory under mod. Device packages call
// this from an init() func so they are wired into the config file format
// without main.go naming them directly.
func RegisterModel(mod string, fn Factory) {
	factories[strings.ToUpper(mod)] = fn
}

// Attachment is one resolved device-attach line.
type Attachment struct {
	Model  string
	Port   int
	Device device.Device
}

// Parse reads a device-attach config file and returns its attachments in
// port order. Ports must be unique and contiguous from 0, since a device's
// port is also its position in System's device list, which HWN/HWQ/HWI
// address positionally.
func Parse(r io.Reader) ([]Attachment, error) {
	var attachments []Attachment
	seen := map[int]bool{}

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := &lineScanner{text: scanner.Text()}
		line.skipSpace()
		if line.isEOL() {
			continue
		}

		model, port, opts, err := line.parseLine()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		if seen[port] {
			return nil, fmt.Errorf("line %d: port %d already attached", lineNumber, port)
		}
		seen[port] = true

		fn, ok := factories[strings.ToUpper(model)]
		if !ok {
			return nil, fmt.Errorf("line %d: unknown device model %q", lineNumber, model)
		}
		dev, err := fn(port, opts)
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", lineNumber, model, err)
		}
		attachments = append(attachments, Attachment{Model: model, Port: port, Device: dev})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.Slice(attachments, func(i, j int) bool { return attachments[i].Port < attachments[j].Port })
	for i, a := range attachments {
		if a.Port != i {
			return nil, fmt.Errorf("ports must be contiguous from 0: missing port %d", i)
		}
	}
	return attachments, nil
}

// Create looks up the factory registered for model and invokes it with
// port and opts. It is the single-device counterpart to Parse, for a
// driver attaching one device at a time (a CLI's attach command) rather
// than reading a whole config file.
func Create(model string, port int, opts []Option) (device.Device, error) {
	fn, ok := factories[strings.ToUpper(model)]
	if !ok {
		return nil, fmt.Errorf("unknown device model %q", model)
	}
	return fn(port, opts)
}

// ParseLine parses one device-attach line on its own, skipping the
// contiguous-port bookkeeping Parse does across a whole file. It is the
// single-device counterpart to Parse, for the same use as Create.
func ParseLine(text string) (model string, port int, opts []Option, err error) {
	line := &lineScanner{text: text}
	line.skipSpace()
	return line.parseLine()
}

// ModelNames returns the registered device model names, lower-cased, in
// sorted order, for a CLI's attach-command completion.
func ModelNames() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, strings.ToLower(name))
	}
	sort.Strings(names)
	return names
}

// lineScanner walks one line of the config file by byte position, in the
// style of a small hand-rolled recursive-descent scanner rather than a
// regexp: the grammar is simple enough that backtracking is never needed.
type lineScanner struct {
	text string
	pos  int
}

func (l *lineScanner) isEOL() bool {
	return l.pos >= len(l.text) || l.text[l.pos] == '#'
}

func (l *lineScanner) skipSpace() {
	for !l.isEOL() && unicode.IsSpace(rune(l.text[l.pos])) {
		l.pos++
	}
}

// getToken returns the next run of non-space, non-'#', non-'=' characters.
func (l *lineScanner) getToken() string {
	start := l.pos
	for l.pos < len(l.text) {
		by := l.text[l.pos]
		if by == '#' || by == '=' || unicode.IsSpace(rune(by)) {
			break
		}
		l.pos++
	}
	return l.text[start:l.pos]
}

func (l *lineScanner) parseLine() (string, int, []Option, error) {
	model := l.getToken()
	if model == "" {
		return "", 0, nil, errors.New("expected a device model")
	}

	l.skipSpace()
	portText := l.getToken()
	port, err := strconv.Atoi(portText)
	if err != nil {
		return "", 0, nil, fmt.Errorf("invalid port %q: %w", portText, err)
	}

	var opts []Option
	for {
		l.skipSpace()
		if l.isEOL() {
			break
		}
		name := l.getToken()
		if name == "" {
			return "", 0, nil, fmt.Errorf("invalid option near %q", l.text[l.pos:])
		}
		opt := Option{Name: name}
		if !l.isEOL() && l.text[l.pos] == '=' {
			l.pos++
			value, err := l.parseValue()
			if err != nil {
				return "", 0, nil, err
			}
			opt.Value = value
		}
		opts = append(opts, opt)
	}
	return model, port, opts, nil
}

// parseValue reads either a bare token or a "quoted string", so option
// values like a disk image path can contain spaces.
func (l *lineScanner) parseValue() (string, error) {
	if l.isEOL() {
		return "", errors.New("expected a value after '='")
	}
	if l.text[l.pos] != '"' {
		return l.getToken(), nil
	}

	l.pos++
	start := l.pos
	for l.pos < len(l.text) && l.text[l.pos] != '"' {
		l.pos++
	}
	if l.pos >= len(l.text) {
		return "", errors.New("unterminated quoted string")
	}
	value := l.text[start:l.pos]
	l.pos++ // consume closing quote
	return value, nil
}
