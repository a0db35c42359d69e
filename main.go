/*
 * DCPU16 - Main process.
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

package main

import (
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/dcpu16/cli"
	"github.com/rcornwell/dcpu16/config/configparser"
	"github.com/rcornwell/dcpu16/internal/logging"
	"github.com/rcornwell/dcpu16/machine/system"

	_ "github.com/rcornwell/dcpu16/devices/console"
	_ "github.com/rcornwell/dcpu16/devices/disk"
	_ "github.com/rcornwell/dcpu16/devices/timerdevice"
)

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Device-attach configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.BoolLong("debug", 'd', "Mirror debug-level log records to stderr")
	optIPL := getopt.StringLong("ipl", 'i', "", "Memory image to load at startup")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		f, err := os.Create(*optLogFile)
		if err != nil {
			slog.Error("opening log file", "error", err)
			os.Exit(1)
		}
		file = f
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	logger := slog.New(logging.NewHandler(file, &slog.HandlerOptions{Level: programLevel}, *optDebug))
	slog.SetDefault(logger)

	slog.Info("dcpu16 started")

	sys := system.New()

	if *optConfig != "" {
		f, err := os.Open(*optConfig)
		if err != nil {
			slog.Error("opening configuration file", "error", err)
			os.Exit(1)
		}
		attachments, err := configparser.Parse(f)
		f.Close()
		if err != nil {
			slog.Error("parsing configuration file", "error", err)
			os.Exit(1)
		}
		for _, a := range attachments {
			sys.Attach(a.Device)
			slog.Info("attached device", "model", a.Model, "port", a.Port)
		}
	}

	if *optIPL != "" {
		f, err := os.Open(*optIPL)
		if err != nil {
			slog.Error("opening IPL image", "error", err)
			os.Exit(1)
		}
		err = sys.Load(f)
		f.Close()
		if err != nil {
			slog.Error("loading IPL image", "error", err)
			os.Exit(1)
		}
		slog.Info("loaded IPL image", "file", *optIPL)
	}

	cli.ConsoleReader(cli.NewSession(sys))

	slog.Info("dcpu16 exiting")
}
