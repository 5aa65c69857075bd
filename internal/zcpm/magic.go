package zcpm

/*
 * zcpm - magic-trap dispatcher: routes sentinel-slot entry to BDOS,
 * BIOS, or the delay service
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
	"time"

	"github.com/rcornwell/zcpm/internal/z80"
)

// onMagic is wired to CPU.OnMagic: slot 0 is BDOS, slots 1..17 are the
// BIOS jump table, slot 18 is the loader's delay service.
func (m *Machine) onMagic(cpu *z80.CPU, slot int) {
	switch {
	case slot == 0:
		m.dispatchBDOS()
	case slot >= 1 && slot <= 17:
		m.dispatchBIOS(slot)
	case slot == 18:
		time.Sleep(time.Millisecond)
	}
}

// onPoll runs every CPU.PollInterval instructions. Console
// cancellation (F10) is detected inline by the blocking console reads
// BDOS functions perform, so there is no per-instruction housekeeping
// needed here; the hook exists for parity with the core's interface
// and as a place to hang future periodic work.
func (m *Machine) onPoll() {
}
