/*
 * zcpm - Flat 64 KiB Z80 address space test set.
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

package z80

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetPutByte(t *testing.T) {
	var m Memory
	m.Put(0x1234, 0xAB)
	require.Equal(t, byte(0xAB), m.Get(0x1234))
}

func TestGetPutU16LittleEndian(t *testing.T) {
	var m Memory
	m.PutU16(0x0100, 0xBEEF)
	require.Equal(t, byte(0xEF), m.Get(0x0100))
	require.Equal(t, byte(0xBE), m.Get(0x0101))
	require.Equal(t, uint16(0xBEEF), m.GetU16(0x0100))
}

func TestRangeHelpers(t *testing.T) {
	var m Memory
	m.PutRange(0x2000, 1, 2, 3, 4)
	require.Equal(t, []byte{1, 2, 3, 4}, m.GetRange(0x2000, 4))

	m.FillRange(0x3000, 5, 0x5A)
	require.Equal(t, []byte{0x5A, 0x5A, 0x5A, 0x5A, 0x5A}, m.GetRange(0x3000, 5))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.com")
	require.NoError(t, os.WriteFile(path, []byte{0x11, 0x22, 0x33}, 0o644))

	var m Memory
	require.NoError(t, m.LoadFile(path, 0x0100, 0xE400))
	require.Equal(t, []byte{0x11, 0x22, 0x33}, m.GetRange(0x0100, 3))
}

func TestLoadFileOverflowsLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.com")
	require.NoError(t, os.WriteFile(path, make([]byte, 200), 0o644))

	var m Memory
	err := m.LoadFile(path, 0xFF00, 0xFF40)
	require.Error(t, err)
}

func TestBytesAliasesBackingArray(t *testing.T) {
	var m Memory
	m.Put(0, 0x42)
	require.Equal(t, byte(0x42), m.Bytes()[0])
}
