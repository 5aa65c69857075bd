package z80

/*
 * zcpm - Z80 CPU: run loop, magic-address trap, prefix state
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
	"sync/atomic"
	"time"
)

// MagicBase is the first sentinel address; slots 0..18 occupy
// [MagicBase, MagicBase+18].
const MagicBase uint16 = 0xFFED

// MagicSlots is the number of reserved host-service slots.
const MagicSlots = 19

// prefix enumerates the active index/extended prefix while decoding
// one instruction. DDCB/FDCB have no constants of their own: decode
// sees the CB byte after a DD/FD prefix and hands the prefix, the
// displacement and the CB opcode straight to execIndexedCB.
type prefix int

const (
	prefixNone prefix = iota
	prefixDD
	prefixFD
)

// CPU bundles the whole interpreter state the run loop owns: registers,
// memory, halt/terminate flags and the hooks
// into the host (magic trap, periodic poll, throttle). Bundling state
// in one struct rather than package-level globals lets tests build
// fresh, independent machines.
type CPU struct {
	Regs Registers
	Mem  *Memory

	// OnMagic is invoked when PC enters the sentinel range
	// [MagicBase, MagicBase+MagicSlots). slot = PC - MagicBase. The
	// callback may mutate Regs/Mem freely; the run loop performs the
	// RET (pop SP into PC) itself immediately afterwards.
	OnMagic func(cpu *CPU, slot int)

	// OnPoll is called every PollInterval instructions (default
	// 131072) so the host can service the
	// terminal without a dedicated goroutine.
	OnPoll       func()
	PollInterval uint64

	// Throttle: after every ThrottleEvery instructions, sleep
	// ThrottleSleep. Zero ThrottleEvery disables throttling.
	ThrottleEvery uint64
	ThrottleSleep time.Duration

	Halted bool

	terminate atomic.Bool

	instrCount    uint64
	throttleCount uint64
}

// NewCPU returns a CPU with zeroed registers, PC at 0, bound to mem.
func NewCPU(mem *Memory) *CPU {
	return &CPU{
		Mem:          mem,
		PollInterval: 131072,
	}
}

// Terminate requests that Run stop at the top of its next iteration.
// Safe to call from a signal handler concurrently with Run.
func (c *CPU) Terminate() {
	c.terminate.Store(true)
}

// Terminated reports whether Terminate has been called.
func (c *CPU) Terminated() bool {
	return c.terminate.Load()
}

// Run executes the fetch/decode/execute cycle (component L) until
// Halted, Terminated, or a handler returns a non-nil error.
func (c *CPU) Run() error {
	for {
		if c.terminate.Load() {
			return nil
		}
		if c.Halted {
			return nil
		}

		if err := c.Step(); err != nil {
			return err
		}

		c.instrCount++
		if c.PollInterval > 0 && c.OnPoll != nil && c.instrCount%c.PollInterval == 0 {
			c.OnPoll()
		}

		if c.ThrottleEvery > 0 {
			c.throttleCount++
			if c.throttleCount >= c.ThrottleEvery {
				c.throttleCount = 0
				time.Sleep(c.ThrottleSleep)
			}
		}
	}
}

// Step executes exactly one instruction (or services one magic trap).
func (c *CPU) Step() error {
	r := &c.Regs

	if int(r.PC) >= int(MagicBase) && int(r.PC) < int(MagicBase)+MagicSlots {
		slot := int(r.PC) - int(MagicBase)
		if c.OnMagic != nil {
			c.OnMagic(c, slot)
		}
		// the host performs the RET itself: pop SP into PC.
		r.PC = c.Mem.GetU16(r.SP)
		r.SP += 2
		return nil
	}

	return c.decode()
}
