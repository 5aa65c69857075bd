/*
 * zcpm - configuration file parser
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

// Package config parses the drive/charset/throttle configuration file.
//
// Configuration file format:
//
//	'#' indicates a comment, rest of line ignored.
//	<line> := 'drive' <letter> ['ro'] <path> |
//	          'charset' <path> |
//	          'closefiles' 'keep' |
//	          'throttle' 'every=' <number> 'sleepms=' <number> |
//	          'log' <path>
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Drive is one configured drive letter.
type Drive struct {
	Letter   byte
	Path     string
	ReadOnly bool
}

// Config holds every directive from a configuration file.
type Config struct {
	Drives        [16]*Drive
	CharsetPath   string
	LogPath       string
	KeepFilesOpen bool
	ThrottleEvery uint64
	ThrottleSleep time.Duration
}

// New returns an empty configuration.
func New() *Config {
	return &Config{}
}

// Load reads and applies every directive in the named file to a fresh
// Config.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := New()
	reader := bufio.NewReader(f)
	lineNum := 0
	for {
		line, err := reader.ReadString('\n')
		lineNum++
		if line == "" && err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if perr := cfg.applyLine(line); perr != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNum, perr)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
	}
	return cfg, nil
}

// applyLine parses and applies one directive line.
func (cfg *Config) applyLine(raw string) error {
	line := raw
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		line = line[:idx]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	directive := strings.ToLower(fields[0])
	args := fields[1:]

	switch directive {
	case "drive":
		return cfg.applyDrive(args)
	case "charset":
		if len(args) != 1 {
			return errors.New("charset requires exactly one path")
		}
		cfg.CharsetPath = args[0]
	case "log":
		if len(args) != 1 {
			return errors.New("log requires exactly one path")
		}
		cfg.LogPath = args[0]
	case "closefiles":
		if len(args) != 1 || strings.ToLower(args[0]) != "keep" {
			return errors.New("closefiles only accepts 'keep'")
		}
		cfg.KeepFilesOpen = true
	case "throttle":
		return cfg.applyThrottle(args)
	default:
		return fmt.Errorf("unknown directive %q", fields[0])
	}
	return nil
}

func (cfg *Config) applyDrive(args []string) error {
	if len(args) < 2 {
		return errors.New("drive requires a letter and a path")
	}
	letter := strings.ToUpper(args[0])
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'P' {
		return fmt.Errorf("drive letter must be A-P, got %q", args[0])
	}
	idx := letter[0] - 'A'

	readOnly := false
	rest := args[1:]
	if strings.ToLower(rest[0]) == "ro" {
		readOnly = true
		rest = rest[1:]
	}
	if len(rest) != 1 {
		return errors.New("drive requires exactly one path")
	}

	cfg.Drives[idx] = &Drive{Letter: letter[0], Path: rest[0], ReadOnly: readOnly}
	return nil
}

func (cfg *Config) applyThrottle(args []string) error {
	for _, arg := range args {
		kv := strings.SplitN(arg, "=", 2)
		if len(kv) != 2 {
			return fmt.Errorf("malformed throttle option %q", arg)
		}
		switch strings.ToLower(kv[0]) {
		case "every":
			n, err := strconv.ParseUint(kv[1], 10, 64)
			if err != nil {
				return err
			}
			cfg.ThrottleEvery = n
		case "sleepms":
			n, err := strconv.ParseUint(kv[1], 10, 64)
			if err != nil {
				return err
			}
			cfg.ThrottleSleep = time.Duration(n) * time.Millisecond
		default:
			return fmt.Errorf("unknown throttle option %q", kv[0])
		}
	}
	return nil
}
