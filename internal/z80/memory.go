package z80

/*
 * zcpm - Flat 64 KiB Z80 address space
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

import (
	"fmt"
	"os"
)

// Memory is the flat 64 KiB guest address space. All addressing wraps
// modulo 65536; every exported accessor masks its argument so callers
// never need to do so themselves.
type Memory struct {
	mem [65536]byte
}

// Get reads a single byte, wrapping the address modulo 65536.
func (m *Memory) Get(addr uint16) byte {
	return m.mem[addr]
}

// Put writes a single byte, wrapping the address modulo 65536.
func (m *Memory) Put(addr uint16, b byte) {
	m.mem[addr] = b
}

// GetU16 reads a little-endian word, wrapping each byte address.
func (m *Memory) GetU16(addr uint16) uint16 {
	lo := m.mem[addr]
	hi := m.mem[addr+1]
	return uint16(hi)<<8 | uint16(lo)
}

// PutU16 writes a little-endian word, wrapping each byte address.
func (m *Memory) PutU16(addr uint16, v uint16) {
	m.mem[addr] = byte(v)
	m.mem[addr+1] = byte(v >> 8)
}

// GetRange returns a copy of n bytes starting at addr, wrapping.
func (m *Memory) GetRange(addr uint16, n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = m.mem[addr+uint16(i)]
	}
	return out
}

// PutRange writes data starting at addr, wrapping.
func (m *Memory) PutRange(addr uint16, data ...byte) {
	for i, b := range data {
		m.mem[addr+uint16(i)] = b
	}
}

// FillRange sets n bytes starting at addr to b, wrapping.
func (m *Memory) FillRange(addr uint16, n int, b byte) {
	for i := 0; i < n; i++ {
		m.mem[addr+uint16(i)] = b
	}
}

// LoadFile reads the named file and copies its contents into memory
// starting at origin, refusing to overflow into the reserved system
// area at or above limit.
func (m *Memory) LoadFile(path string, origin, limit uint16) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if int(origin)+len(data) > int(limit) {
		return fmt.Errorf("%s: %d bytes does not fit in %d bytes of TPA", path, len(data), int(limit)-int(origin))
	}
	m.PutRange(origin, data...)
	return nil
}

// Bytes exposes the backing array for bulk consumers (the boot loader,
// the memory-dump writer). Callers must not retain the slice past a
// Memory's lifetime assumptions; it aliases the live array.
func (m *Memory) Bytes() []byte {
	return m.mem[:]
}
