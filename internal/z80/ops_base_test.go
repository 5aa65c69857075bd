/*
 * zcpm - base-plane opcode test set: ALU flag quirks and port I/O.
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
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCPImmediateFlagsXYFromOperand confirms the undocumented X/Y bits
// after CP n come from the compared operand, not from the discarded
// A-minus-n difference.
func TestCPImmediateFlagsXYFromOperand(t *testing.T) {
	mem := &Memory{}
	mem.PutRange(0, 0xFE, 0x21) // CP 0x21 (bit 3 clear, bit 5 set; 0-0x21 = 0xDF has the opposite bits)
	cpu := NewCPU(mem)
	cpu.Regs.A = 0x00

	require.NoError(t, cpu.Step())
	require.False(t, cpu.Regs.F.X, "X should mirror operand bit 3, not result bit 3")
	require.True(t, cpu.Regs.F.Y, "Y should mirror operand bit 5, not result bit 5")
	require.Equal(t, byte(0x00), cpu.Regs.A, "CP must not alter A")
}

// TestCPRegisterFlagsXYFromOperand repeats the check for the
// register-operand form (CP A,x) to cover both ALU entry points.
func TestCPRegisterFlagsXYFromOperand(t *testing.T) {
	mem := &Memory{}
	mem.Put(0, 0xB9) // CP C
	cpu := NewCPU(mem)
	cpu.Regs.A = 0x50
	cpu.Regs.C = 0x08 // bit 3 set, bit 5 clear

	require.NoError(t, cpu.Step())
	require.True(t, cpu.Regs.F.X, "X should mirror operand bit 3")
	require.False(t, cpu.Regs.F.Y, "Y should mirror operand bit 5")
}

// TestSubStillUsesResultFlags guards against the CP fix leaking into
// SUB, which keeps its X/Y flags derived from the subtraction result.
func TestSubStillUsesResultFlags(t *testing.T) {
	mem := &Memory{}
	mem.PutRange(0, 0xD6, 0x28) // SUB 0x28
	cpu := NewCPU(mem)
	cpu.Regs.A = 0x28 // A-operand = 0, so result bits 3/5 are clear
	// regardless of the operand's own bit 3/5 pattern.

	require.NoError(t, cpu.Step())
	require.False(t, cpu.Regs.F.X)
	require.False(t, cpu.Regs.F.Y)
	require.Equal(t, byte(0x00), cpu.Regs.A)
}

// TestInPortReadsZero confirms IN A,(n) reads back 0 on this host (no
// peripherals are wired behind any port), not the floating-bus 0xFF a
// real disconnected port would often show.
func TestInPortReadsZero(t *testing.T) {
	mem := &Memory{}
	mem.PutRange(0, 0xDB, 0x10) // IN A,(0x10)
	cpu := NewCPU(mem)
	cpu.Regs.A = 0xFF // poison, to be sure the opcode overwrites it

	require.NoError(t, cpu.Step())
	require.Equal(t, byte(0x00), cpu.Regs.A)
}

// TestEDInPortReadsZero covers the ED-prefixed IN r,(C) form, which
// routes through CPU.inPort the same as the base-plane form.
func TestEDInPortReadsZero(t *testing.T) {
	mem := &Memory{}
	mem.PutRange(0, 0xED, 0x78) // IN A,(C)
	cpu := NewCPU(mem)
	cpu.Regs.B, cpu.Regs.C = 0x12, 0x34
	cpu.Regs.A = 0xFF

	require.NoError(t, cpu.Step())
	require.Equal(t, byte(0x00), cpu.Regs.A)
}
