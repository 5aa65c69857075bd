/*
 * zcpm - Main process.
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
	"fmt"
	"io"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/zcpm/internal/charset"
	"github.com/rcornwell/zcpm/internal/config"
	"github.com/rcornwell/zcpm/internal/console"
	"github.com/rcornwell/zcpm/internal/logger"
	"github.com/rcornwell/zcpm/internal/zcpm"
)

var Logger *slog.Logger

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optUser := getopt.IntLong("user", 'u', 0, "Initial user number")
	optDebug := getopt.BoolLong("debug", 'd', "Mirror all log levels to stderr")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.SetParameters("command[.com] [args...]")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	args := getopt.Args()
	if len(args) == 0 {
		getopt.Usage()
		os.Exit(1)
	}

	var file io.Writer
	if *optLogFile != "" {
		f, err := os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "zcpm: %v\n", err)
			os.Exit(1)
		}
		file = f
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	Logger = slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, *optDebug))
	slog.SetDefault(Logger)

	var cfg *config.Config
	if *optConfig != "" {
		loaded, err := config.Load(*optConfig)
		if err != nil {
			Logger.Error("loading configuration", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	} else {
		cfg = config.New()
		cfg.Drives[0] = &config.Drive{Letter: 'A', Path: "."}
	}

	cs := charset.Identity()
	if cfg.CharsetPath != "" {
		loaded, err := charset.Load(cfg.CharsetPath)
		if err != nil {
			Logger.Error("loading charset", "error", err)
			os.Exit(1)
		}
		cs = loaded
	}

	con := console.New()
	m := zcpm.New(cfg, cs, con, Logger)
	m.SetUserNumber(byte(*optUser))

	if err := m.Boot(args[0], args[1:]); err != nil {
		Logger.Error("boot failed", "error", err)
		os.Exit(1)
	}

	if err := m.Run(); err != nil {
		Logger.Error("run failed", "error", err)
		os.Exit(1)
	}

	if !m.Reason().Ok() {
		fmt.Fprintf(os.Stderr, "zcpm: %s\n", m.Reason())
	}
	os.Exit(m.ExitCode())
}
