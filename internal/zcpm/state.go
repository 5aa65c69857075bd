/*
 * zcpm - CP/M host: machine state, termination reasons, magic-trap
 * wiring between the Z80 core and the BDOS/BIOS service layer
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

// Package zcpm hosts a CP/M-2.2 virtual operating system behind the
// z80 package's magic-address trap: BDOS/BIOS service dispatch, the
// FCB<->host-file translation, console I/O, and the boot/loader
// sequence that prepares a guest image to run.
package zcpm

import (
	"log/slog"
	"time"

	"github.com/rcornwell/zcpm/internal/charset"
	"github.com/rcornwell/zcpm/internal/config"
	"github.com/rcornwell/zcpm/internal/console"
	"github.com/rcornwell/zcpm/internal/vfs"
	"github.com/rcornwell/zcpm/internal/z80"
)

// Reason identifies why a run stopped.
type Reason int

const (
	OKNotRun Reason = iota
	OKTerm
	OKCtrlC
	ErrBoot
	ErrBDOSArg
	ErrSelect
	ErrRODisk
	ErrROFile
	ErrHost
	ErrLogic
	ErrSignal
)

func (r Reason) String() string {
	switch r {
	case OKNotRun:
		return "OK_NOTRUN"
	case OKTerm:
		return "OK_TERM"
	case OKCtrlC:
		return "OK_CTRLC"
	case ErrBoot:
		return "ERR_BOOT"
	case ErrBDOSArg:
		return "ERR_BDOSARG"
	case ErrSelect:
		return "ERR_SELECT"
	case ErrRODisk:
		return "ERR_RODISK"
	case ErrROFile:
		return "ERR_ROFILE"
	case ErrHost:
		return "ERR_HOST"
	case ErrLogic:
		return "ERR_LOGIC"
	case ErrSignal:
		return "ERR_SIGNAL"
	default:
		return "UNKNOWN"
	}
}

// Ok reports whether r is one of the OK_* outcomes.
func (r Reason) Ok() bool {
	return r == OKNotRun || r == OKTerm || r == OKCtrlC
}

// CCPStackTop is the top of the 8-level return-address stack that
// stageCCPStack fills with WBOOT addresses just below it, so a guest RET
// from the top-level program exits cleanly through WBOOT.
const (
	DefaultDMA  uint16 = 0x0080
	FCB1Addr    uint16 = 0x005C
	FCB2Addr    uint16 = 0x006C
	TPABase     uint16 = 0x0100
	BDOSBase    uint16 = 0xE400 // conservative default; fixed upper limit of the loaded image
	CCPStackTop uint16 = 0xFFFE
)

// Machine is the whole emulator instance: the Z80 core, its 64 KiB
// memory, and every host service behind the magic trap.
type Machine struct {
	CPU     *z80.CPU
	Mem     *z80.Memory
	VFS     *vfs.VFS
	Console *console.Console
	Charset *charset.Table
	Log     *slog.Logger

	DMA uint16

	// Now supplies the host clock consulted by BDOS function 105 (Get
	// Date and Time) and function 102 (Read File Date Stamps). Tests
	// override it to pin a specific instant; real runs leave it nil and
	// fall back to time.Now via the now() helper.
	Now func() time.Time

	column int // console output column, for TAB expansion

	userNumber byte
	retCode    uint16 // extended BDOS program-return-code (function 108)

	pending *byte // one-byte console lookahead for status/peek checks

	reason    Reason
	reasonSet bool

	throttleEvery uint64
	throttleSleep time.Duration
}

// New builds a Machine with a fresh 64 KiB address space and the
// given host services. cfg may be nil, meaning no drives configured.
func New(cfg *config.Config, cs *charset.Table, con *console.Console, log *slog.Logger) *Machine {
	if cs == nil {
		cs = charset.Identity()
	}
	mem := &z80.Memory{}
	m := &Machine{
		Mem:     mem,
		VFS:     vfs.New(),
		Console: con,
		Charset: cs,
		Log:     log,
		DMA:     DefaultDMA,
	}
	m.CPU = z80.NewCPU(mem)
	m.CPU.OnMagic = m.onMagic
	m.CPU.OnPoll = m.onPoll

	if cfg != nil {
		for i, d := range cfg.Drives {
			if d != nil {
				m.VFS.Configure(byte(i), d.Path, d.ReadOnly)
			}
		}
		m.VFS.SetKeepFilesOpen(cfg.KeepFilesOpen)
		m.throttleEvery = cfg.ThrottleEvery
		m.throttleSleep = cfg.ThrottleSleep
		m.CPU.ThrottleEvery = cfg.ThrottleEvery
		m.CPU.ThrottleSleep = cfg.ThrottleSleep
	}
	return m
}

// now returns the host instant used for date/time BDOS calls, via Now
// if the caller set one, else the real wall clock.
func (m *Machine) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// SetUserNumber sets the initial CP/M user number (0-15).
func (m *Machine) SetUserNumber(n byte) {
	m.userNumber = n & 0x0F
}

// Terminate requests an orderly stop with the given reason, if none
// is already recorded (the first delivery wins).
func (m *Machine) Terminate(reason Reason) {
	if m.reasonSet {
		return
	}
	m.reason = reason
	m.reasonSet = true
	m.CPU.Terminate()
}

// Reason reports the recorded termination reason, or OKNotRun if the
// machine never ran to completion.
func (m *Machine) Reason() Reason {
	if !m.reasonSet {
		return OKNotRun
	}
	return m.reason
}

// ExitCode maps the termination reason (and any extended BDOS return
// code) to a process exit status: zero only for a clean OK outcome
// with no elevated return code.
func (m *Machine) ExitCode() int {
	if m.retCode >= 0xFF00 {
		return 1
	}
	if m.Reason().Ok() {
		return 0
	}
	return 1
}
