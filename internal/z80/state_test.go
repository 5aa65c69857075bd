/*
 * zcpm - Z80 CPU run-loop test set.
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

func TestStepNOP(t *testing.T) {
	mem := &Memory{}
	mem.Put(0, 0x00) // NOP
	cpu := NewCPU(mem)

	require.NoError(t, cpu.Step())
	require.Equal(t, uint16(1), cpu.Regs.PC)
}

func TestStepLDAImmediate(t *testing.T) {
	mem := &Memory{}
	mem.PutRange(0, 0x3E, 0x42) // LD A,0x42
	cpu := NewCPU(mem)

	require.NoError(t, cpu.Step())
	require.Equal(t, byte(0x42), cpu.Regs.A)
	require.Equal(t, uint16(2), cpu.Regs.PC)
}

func TestStepLDAtAddr(t *testing.T) {
	mem := &Memory{}
	mem.PutRange(0, 0x32, 0x00, 0x20) // LD (0x2000),A
	cpu := NewCPU(mem)
	cpu.Regs.A = 0x99

	require.NoError(t, cpu.Step())
	require.Equal(t, byte(0x99), mem.Get(0x2000))
}

func TestRunHaltsOnHALT(t *testing.T) {
	mem := &Memory{}
	mem.PutRange(0, 0x3E, 0x07, 0x76) // LD A,7 ; HALT
	cpu := NewCPU(mem)

	require.NoError(t, cpu.Run())
	require.True(t, cpu.Halted)
	require.Equal(t, byte(0x07), cpu.Regs.A)
}

func TestMagicTrapInvokesOnMagicThenReturns(t *testing.T) {
	mem := &Memory{}
	// Set up a return address on the stack, jump straight into the
	// magic sentinel range, and confirm the host callback fires and
	// the RET pops back to the caller.
	cpu := NewCPU(mem)
	cpu.Regs.SP = 0xFFF0
	mem.PutU16(0xFFF0, 0x1234)
	cpu.Regs.PC = MagicBase + 5

	var gotSlot = -1
	cpu.OnMagic = func(c *CPU, slot int) {
		gotSlot = slot
	}

	require.NoError(t, cpu.Step())
	require.Equal(t, 5, gotSlot)
	require.Equal(t, uint16(0x1234), cpu.Regs.PC)
	require.Equal(t, uint16(0xFFF2), cpu.Regs.SP)
}

func TestTerminateStopsRun(t *testing.T) {
	mem := &Memory{}
	for i := 0; i < 10; i++ {
		mem.Put(uint16(i), 0x00) // NOP forever
	}
	cpu := NewCPU(mem)
	cpu.Terminate()

	require.True(t, cpu.Terminated())
	require.NoError(t, cpu.Run())
}
