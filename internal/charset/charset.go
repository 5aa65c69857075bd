/*
 * zcpm - guest/host character set translation tables
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

// Package charset holds the two 256-entry byte tables that translate
// between the guest's CP/M character set and the host's, used by the
// console and by printer/punch/reader character devices running in
// "text" mode.
package charset

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Table is a pair of mutually-consistent translation tables.
type Table struct {
	ToHost [256]byte
	ToCPM  [256]byte
}

// Identity returns the default table: every byte maps to itself,
// which is correct for plain ASCII text.
func Identity() *Table {
	t := &Table{}
	for i := 0; i < 256; i++ {
		t.ToHost[i] = byte(i)
		t.ToCPM[i] = byte(i)
	}
	return t
}

// Load reads a translation file: one "cpmByte hostByte" pair per
// line, both given as hex, blank lines and '#' comments ignored.
// Unlisted bytes keep their identity mapping.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t := Identity()
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("charset %s: line %d: expected two columns", path, lineNum)
		}
		cpm, err := strconv.ParseUint(fields[0], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("charset %s: line %d: %w", path, lineNum, err)
		}
		host, err := strconv.ParseUint(fields[1], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("charset %s: line %d: %w", path, lineNum, err)
		}
		t.ToHost[cpm] = byte(host)
		t.ToCPM[host] = byte(cpm)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return t, nil
}
