package zcpm

/*
 * zcpm - BDOS function dispatch: console, file, and disk services
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
	"errors"
	"os"
	"syscall"
	"time"

	"github.com/rcornwell/zcpm/internal/fcb"
	"github.com/rcornwell/zcpm/internal/vfs"
)

// bdosFunc services one BDOS call number. The registers are already
// loaded with the guest's arguments; the handler loads A or HL with
// the result before returning. wordResult marks the handful of calls
// whose primary result is the 16-bit HL (the rest return a byte in A);
// dispatchBDOS uses it to mirror the result into the other register
// pair per the BDOS return convention.
type bdosFunc struct {
	desc       string
	handler    func(m *Machine)
	wordResult bool
}

// bdosTable maps BDOS function numbers to their handlers, grounded on
// the well-known CP/M-2.2 function list plus the CP/M-3 extensions
// this host recognizes.
var bdosTable = map[byte]bdosFunc{
	0:   {desc: "system reset", handler: (*Machine).bdosSystemReset},
	1:   {desc: "console input", handler: (*Machine).bdosConsoleInput},
	2:   {desc: "console output", handler: (*Machine).bdosConsoleOutput},
	3:   {desc: "reader input", handler: (*Machine).bdosReaderInput},
	4:   {desc: "punch output", handler: (*Machine).bdosPunchOutput},
	5:   {desc: "list output", handler: (*Machine).bdosListOutput},
	6:   {desc: "direct console io", handler: (*Machine).bdosDirectConsoleIO},
	7:   {desc: "get iobyte", handler: (*Machine).bdosGetIOByte},
	8:   {desc: "set iobyte", handler: (*Machine).bdosSetIOByte},
	9:   {desc: "print string", handler: (*Machine).bdosPrintString},
	10:  {desc: "read console buffer", handler: (*Machine).bdosReadConsoleBuffer},
	11:  {desc: "console status", handler: (*Machine).bdosConsoleStatus},
	12:  {desc: "return version", handler: (*Machine).bdosReturnVersion, wordResult: true},
	13:  {desc: "reset disk system", handler: (*Machine).bdosResetDisk},
	14:  {desc: "select disk", handler: (*Machine).bdosSelectDisk},
	15:  {desc: "open file", handler: (*Machine).bdosOpenFile},
	16:  {desc: "close file", handler: (*Machine).bdosCloseFile},
	17:  {desc: "search first", handler: (*Machine).bdosSearchFirst},
	18:  {desc: "search next", handler: (*Machine).bdosSearchNext},
	19:  {desc: "delete file", handler: (*Machine).bdosDeleteFile},
	20:  {desc: "read sequential", handler: (*Machine).bdosReadSequential},
	21:  {desc: "write sequential", handler: (*Machine).bdosWriteSequential},
	22:  {desc: "make file", handler: (*Machine).bdosMakeFile},
	23:  {desc: "rename file", handler: (*Machine).bdosRenameFile},
	24:  {desc: "login vector", handler: (*Machine).bdosLoginVector, wordResult: true},
	25:  {desc: "current disk", handler: (*Machine).bdosCurrentDisk},
	26:  {desc: "set dma", handler: (*Machine).bdosSetDMA},
	28:  {desc: "write protect disk", handler: (*Machine).bdosWriteProtectDisk},
	29:  {desc: "read-only vector", handler: (*Machine).bdosReadOnlyVector, wordResult: true},
	32:  {desc: "get/set user code", handler: (*Machine).bdosUserCode},
	33:  {desc: "read random", handler: (*Machine).bdosReadRandom},
	34:  {desc: "write random", handler: (*Machine).bdosWriteRandom},
	35:  {desc: "compute file size", handler: (*Machine).bdosComputeFileSize},
	36:  {desc: "set random record", handler: (*Machine).bdosSetRandomRecord},
	49:  {desc: "get/set SCB", handler: (*Machine).bdosGetSetSCB, wordResult: true},
	101: {desc: "return directory label data", handler: (*Machine).bdosDirLabel},
	102: {desc: "read file date stamps", handler: (*Machine).bdosReadFileDateStamps},
	105: {desc: "get date and time", handler: (*Machine).bdosGetDateTime},
	108: {desc: "set program return code", handler: (*Machine).bdosSetReturnCode},
	141: {desc: "delay", handler: (*Machine).bdosDelay},
}

// dispatchBDOS reads the function number from C and runs the
// registered handler. An unregistered function number is not an
// error: the CP/M-3 contract is that any unlisted call (including the
// whole 38..141 range this host doesn't otherwise implement) returns
// HL=BC=0 and leaves the guest running. Afterward, A is mirrored into
// L and H into B, matching the BDOS return convention that byte
// results also appear in L and word results in BC.
func (m *Machine) dispatchBDOS() {
	fn := m.CPU.Regs.C
	entry, ok := bdosTable[fn]
	if !ok {
		m.Log.Debug("unlisted bdos function returns zero", "function", fn)
		m.CPU.Regs.SetHL(0)
		m.CPU.Regs.SetBC(0)
		return
	}
	entry.handler(m)
	r := &m.CPU.Regs
	if entry.wordResult {
		r.A = r.L
	} else {
		r.L = r.A
		r.H = 0
	}
	r.B = r.H
	r.C = r.L
}

func (m *Machine) bdosSystemReset() {
	m.Terminate(OKTerm)
}

func (m *Machine) bdosConsoleInput() {
	b := m.consoleReadByte()
	m.echoInput(b)
	m.CPU.Regs.A = m.Charset.ToCPM[b]
}

func (m *Machine) bdosConsoleOutput() {
	m.writeConsole(m.CPU.Regs.E)
}

func (m *Machine) bdosReaderInput() {
	m.CPU.Regs.A = 0x1A // EOF; no reader device attached
}

func (m *Machine) bdosPunchOutput() {
	// no punch device attached; byte is discarded
}

func (m *Machine) bdosListOutput() {
	m.writeConsole(m.CPU.Regs.E)
}

func (m *Machine) bdosDirectConsoleIO() {
	e := m.CPU.Regs.E
	switch e {
	case 0xFF:
		if b, ok := peekConsole(m); ok {
			m.pending = nil
			m.CPU.Regs.A = m.Charset.ToCPM[b]
		} else {
			m.CPU.Regs.A = 0
		}
	case 0xFE:
		if _, ok := peekConsole(m); ok {
			m.CPU.Regs.A = 0xFF
		} else {
			m.CPU.Regs.A = 0x00
		}
	default:
		m.writeConsole(e)
	}
}

// peekConsole checks for a pending byte without consuming it. The
// host console has no true peek, so this does a destructive read and
// immediately re-feeds it through a one-byte lookahead slot.
func peekConsole(m *Machine) (byte, bool) {
	if m.pending != nil {
		return *m.pending, true
	}
	if b, ok := m.Console.TryReadByte(); ok {
		m.pending = &b
		return b, true
	}
	return 0, false
}

func (m *Machine) bdosGetIOByte() { m.CPU.Regs.A = 0 }
func (m *Machine) bdosSetIOByte() {}

func (m *Machine) bdosPrintString() {
	addr := m.CPU.Regs.DE()
	for {
		b := m.Mem.Get(addr)
		if b == '$' {
			break
		}
		m.writeConsole(b)
		addr++
	}
}

func (m *Machine) bdosConsoleStatus() {
	if _, ok := peekConsole(m); ok {
		m.CPU.Regs.A = 0xFF
	} else {
		m.CPU.Regs.A = 0x00
	}
}

func (m *Machine) bdosReturnVersion() {
	m.CPU.Regs.SetHL(0x0022) // CP/M 2.2
}

func (m *Machine) bdosResetDisk() {
	m.CPU.Regs.A = 0
}

func (m *Machine) bdosSelectDisk() {
	letter := m.CPU.Regs.E
	if err := m.VFS.SelectDrive(letter); err != nil {
		m.Terminate(ErrSelect)
		return
	}
	m.CPU.Regs.A = 0
}

func (m *Machine) bdosOpenFile() {
	f := m.readFCB(m.CPU.Regs.DE())
	h, err := m.VFS.Open(f, 0)
	if err != nil {
		m.CPU.Regs.A = 0xFF
		return
	}
	if h == nil {
		m.Terminate(ErrLogic)
		return
	}
	f.SetID(h.ID)
	f.RC = byte(fileSizeRecords(h))
	m.writeFCB(m.CPU.Regs.DE(), f)
	m.CPU.Regs.A = 0
}

func fileSizeRecords(h *vfs.Handle) int {
	info, err := h.File.Stat()
	if err != nil {
		return 0
	}
	n := (info.Size() + 127) / 128
	if n > 127 {
		n = 127
	}
	return int(n)
}

func (m *Machine) bdosCloseFile() {
	f := m.readFCB(m.CPU.Regs.DE())
	if !f.Live() {
		m.CPU.Regs.A = 0xFF
		return
	}
	if err := m.VFS.Close(f.ID16()); err != nil {
		m.CPU.Regs.A = 0xFF
		return
	}
	f.ClearID()
	m.writeFCB(m.CPU.Regs.DE(), f)
	m.CPU.Regs.A = 0
}

func (m *Machine) bdosSearchFirst() {
	f := m.readFCB(m.CPU.Regs.DE())
	found, err := m.VFS.StartSearch(f)
	if err != nil || !found {
		m.CPU.Regs.A = 0xFF
		return
	}
	m.returnSearchResult()
}

func (m *Machine) bdosSearchNext() {
	m.returnSearchResult()
}

func (m *Machine) returnSearchResult() {
	name, ok := m.VFS.NextSearchResult()
	if !ok {
		m.CPU.Regs.A = 0xFF
		return
	}
	result := fcb.FromHostName(name)
	b := result.AsBytes()
	m.Mem.PutRange(m.DMA, b[:32]...)
	m.CPU.Regs.A = 0
}

func (m *Machine) bdosDeleteFile() {
	f := m.readFCB(m.CPU.Regs.DE())
	count, roDisk, roFile, err := m.VFS.Delete(f)
	switch {
	case roDisk:
		m.Terminate(ErrRODisk)
	case roFile:
		m.Terminate(ErrROFile)
	case err != nil || count == 0:
		m.CPU.Regs.A = 0xFF
	default:
		m.CPU.Regs.A = 0
	}
}

func (m *Machine) bdosReadSequential() {
	f := m.readFCB(m.CPU.Regs.DE())
	h, ok := m.VFS.Lookup(f.ID16())
	if !f.Live() || !ok {
		m.CPU.Regs.A = 0xFF
		return
	}
	if f.Offset() >= 65536 {
		m.CPU.Regs.A = 0x06
		return
	}
	off := int64(f.Offset()) * 128
	buf := make([]byte, 128)
	n, err := h.File.ReadAt(buf, off)
	if n == 0 {
		m.CPU.Regs.A = 0x01
		return
	}
	if err != nil && !errors.Is(err, os.ErrClosed) && n < 128 {
		for i := n; i < 128; i++ {
			buf[i] = 0x1A
		}
	}
	m.Mem.PutRange(m.DMA, buf...)
	f.SetOffset(f.Offset() + 1)
	m.writeFCB(m.CPU.Regs.DE(), f)
	m.CPU.Regs.A = 0
}

func (m *Machine) bdosWriteSequential() {
	f := m.readFCB(m.CPU.Regs.DE())
	h, ok := m.VFS.Lookup(f.ID16())
	if !f.Live() || !ok {
		m.CPU.Regs.A = 0xFF
		return
	}
	if h.ReadOnly {
		m.Terminate(ErrROFile)
		return
	}
	if f.Offset() >= 65536 {
		m.CPU.Regs.A = 0x06
		return
	}
	buf := m.Mem.GetRange(m.DMA, 128)
	off := int64(f.Offset()) * 128
	if _, err := h.File.WriteAt(buf, off); err != nil {
		if errors.Is(err, syscall.ENOSPC) {
			m.CPU.Regs.A = 0x02
		} else {
			m.CPU.Regs.A = 0xFF
		}
		return
	}
	h.Dirty = true
	f.SetOffset(f.Offset() + 1)
	m.writeFCB(m.CPU.Regs.DE(), f)
	m.CPU.Regs.A = 0
}

func (m *Machine) bdosMakeFile() {
	f := m.readFCB(m.CPU.Regs.DE())
	h, err := m.VFS.Make(f)
	if err != nil {
		m.CPU.Regs.A = 0xFF
		return
	}
	if h == nil {
		m.Terminate(ErrLogic)
		return
	}
	f.SetID(h.ID)
	f.RC = 0
	m.writeFCB(m.CPU.Regs.DE(), f)
	m.CPU.Regs.A = 0
}

func (m *Machine) bdosRenameFile() {
	oldF := m.readFCB(m.CPU.Regs.DE())
	newF := fcb.FromBytes(m.Mem.GetRange(m.CPU.Regs.DE()+16, fcb.Size))
	if err := m.VFS.Rename(oldF, newF); err != nil {
		m.CPU.Regs.A = 0xFF
		return
	}
	m.CPU.Regs.A = 0
}

func (m *Machine) bdosLoginVector() {
	m.CPU.Regs.SetHL(m.VFS.LogInVector())
}

func (m *Machine) bdosCurrentDisk() {
	m.CPU.Regs.A = m.VFS.CurrentDrive()
}

func (m *Machine) bdosSetDMA() {
	addr := m.CPU.Regs.DE()
	if int(addr)+128 > 0x10000 {
		m.CPU.Regs.A = 0x00
		m.Terminate(ErrBDOSArg)
		return
	}
	m.DMA = addr
	m.CPU.Regs.A = 0x00
}

func (m *Machine) bdosReadOnlyVector() {
	m.CPU.Regs.SetHL(m.VFS.ReadOnlyVector())
}

func (m *Machine) bdosWriteProtectDisk() {
	m.VFS.WriteProtectCurrent()
}

func (m *Machine) bdosUserCode() {
	e := m.CPU.Regs.E
	if e == 0xFF {
		m.CPU.Regs.A = m.userNumber
		return
	}
	m.userNumber = e & 0x0F
}

func (m *Machine) bdosReadRandom() {
	f := m.readFCB(m.CPU.Regs.DE())
	h, ok := m.VFS.Lookup(f.ID16())
	if !f.Live() || !ok {
		m.CPU.Regs.A = 0xFF
		return
	}
	rec := f.RandomRecord()
	off := int64(rec) * 128
	buf := make([]byte, 128)
	n, err := h.File.ReadAt(buf, off)
	if n == 0 {
		m.CPU.Regs.A = 0x01
		return
	}
	if err != nil && n < 128 {
		for i := n; i < 128; i++ {
			buf[i] = 0x1A
		}
	}
	m.Mem.PutRange(m.DMA, buf...)
	f.SetOffset(uint32(rec))
	m.writeFCB(m.CPU.Regs.DE(), f)
	m.CPU.Regs.A = 0
}

func (m *Machine) bdosWriteRandom() {
	f := m.readFCB(m.CPU.Regs.DE())
	h, ok := m.VFS.Lookup(f.ID16())
	if !f.Live() || !ok {
		m.CPU.Regs.A = 0xFF
		return
	}
	if h.ReadOnly {
		m.Terminate(ErrROFile)
		return
	}
	buf := m.Mem.GetRange(m.DMA, 128)
	rec := f.RandomRecord()
	off := int64(rec) * 128
	if _, err := h.File.WriteAt(buf, off); err != nil {
		m.CPU.Regs.A = 0xFF
		return
	}
	h.Dirty = true
	f.SetOffset(uint32(rec))
	m.writeFCB(m.CPU.Regs.DE(), f)
	m.CPU.Regs.A = 0
}

func (m *Machine) bdosComputeFileSize() {
	f := m.readFCB(m.CPU.Regs.DE())
	records, err := m.VFS.FileRecords(f)
	if err != nil {
		m.CPU.Regs.A = 0xFF
		return
	}
	f.SetRandomRecord(uint32(records))
	m.writeFCB(m.CPU.Regs.DE(), f)
	m.CPU.Regs.A = 0
}

func (m *Machine) bdosSetRandomRecord() {
	f := m.readFCB(m.CPU.Regs.DE())
	f.SetRandomRecord(f.Offset())
	m.writeFCB(m.CPU.Regs.DE(), f)
}

func (m *Machine) bdosSetReturnCode() {
	m.retCode = m.CPU.Regs.DE()
}

// consoleLines is the fixed terminal height reported through the SCB;
// this host, unlike a real CP/M 3 BIOS, never negotiates a screen size.
const consoleLines = 24

// bdosGetSetSCB implements function 49: a read-only virtual System
// Control Block, addressed the way real CP/M 3 does it. DE points to a
// 2-byte parameter block: byte 0 is the SCB field offset, byte 1 is
// the action code (0x00 = read a word starting at that offset into
// HL; 0xFE/0xFF = set a word/byte, silently ignored since this SCB is
// read-only). Any other action code, or a buffer too close to the top
// of memory to hold both bytes, is a guest argument error.
func (m *Machine) bdosGetSetSCB() {
	addr := m.CPU.Regs.DE()
	m.CPU.Regs.SetHL(0)
	if int(addr) > 0x10000-2 {
		m.Terminate(ErrBDOSArg)
		return
	}
	offset := m.Mem.Get(addr)
	action := m.Mem.Get(addr + 1)
	switch action {
	case 0x00:
		l := m.scbByte(offset)
		h := m.scbByte(offset + 1)
		m.CPU.Regs.SetHL(uint16(h)<<8 | uint16(l))
	case 0xFE, 0xFF:
		// read-only SCB: writes are silently ignored
	default:
		m.Terminate(ErrBDOSArg)
	}
}

// scbByte returns one byte of the synthesized SCB at the given
// offset, matching the subset of real CP/M 3's SCB layout this host
// has data for.
func (m *Machine) scbByte(offset byte) byte {
	switch offset {
	case 0x05: // BDOS version number
		return 0x22
	case 0x10: // program return code, low byte
		return byte(m.retCode)
	case 0x11: // program return code, high byte
		return byte(m.retCode >> 8)
	case 0x1A: // console columns - 1
		col := m.column - 1
		if col < 0 {
			col = 0
		}
		return byte(col)
	case 0x1C: // console lines
		return consoleLines
	case 0x37: // output line delimiter ('$')
		return 0x24
	case 0x3C: // current DMA address, low byte
		return byte(m.DMA)
	case 0x3D: // current DMA address, high byte
		return byte(m.DMA >> 8)
	case 0x3E: // current disk, 0..15
		return m.VFS.CurrentDrive()
	case 0x44: // current user number, 0..15
		return m.userNumber
	case 0x4A: // current multi-sector count
		return 1
	default:
		return 0x00
	}
}

// bdosDirLabel implements function 101 (Return Directory Label Data).
// This host keeps no directory label of its own and always reports the
// label byte 0x61: label present, with access and update date stamping
// on (the two stamps function 102 returns).
func (m *Machine) bdosDirLabel() {
	m.CPU.Regs.A = 0x61
}

// hostFileTimes returns the host modification and access times of
// info, falling back to ModTime for access when the platform stat
// struct isn't available.
func hostFileTimes(info os.FileInfo) (mtime, atime time.Time) {
	mtime = info.ModTime()
	atime = mtime
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		atime = time.Unix(st.Atim.Sec, st.Atim.Nsec)
	}
	return mtime, atime
}

// bdosReadFileDateStamps implements function 102: fills bytes 24..31
// of the FCB at DE with the matching host file's update and access
// timestamps, packed as CP/M-3 day counts plus BCD hour/minute.
func (m *Machine) bdosReadFileDateStamps() {
	f := m.readFCB(m.CPU.Regs.DE())
	info, err := m.VFS.Stat(f)
	if err != nil {
		m.CPU.Regs.A = 0xFF
		return
	}
	mtime, atime := hostFileTimes(info)
	aDay, aHour, aMin, _ := packedTime(atime)
	uDay, uHour, uMin, _ := packedTime(mtime)
	f.SetDateStamps(aDay, aHour, aMin, uDay, uHour, uMin)
	m.writeFCB(m.CPU.Regs.DE(), f)
	m.CPU.Regs.A = 0x00
}

// bdosGetDateTime implements function 105: DE points to a 4-byte
// buffer that receives the day count (word) plus BCD hour and minute;
// A returns the BCD second.
func (m *Machine) bdosGetDateTime() {
	addr := m.CPU.Regs.DE()
	if int(addr)+4 > 0x10000 {
		m.Terminate(ErrBDOSArg)
		return
	}
	day, hour, min, sec := packedTime(m.now())
	m.Mem.Put(addr, byte(day))
	m.Mem.Put(addr+1, byte(day>>8))
	m.Mem.Put(addr+2, hour)
	m.Mem.Put(addr+3, min)
	m.CPU.Regs.A = sec
}

// bdosDelay implements function 141: DE counts ticks of 20 ms each.
func (m *Machine) bdosDelay() {
	ticks := m.CPU.Regs.DE()
	time.Sleep(time.Duration(ticks) * 20 * time.Millisecond)
}

// readFCB/writeFCB marshal the 36-byte guest FCB at addr.
func (m *Machine) readFCB(addr uint16) fcb.FCB {
	return fcb.FromBytes(m.Mem.GetRange(addr, fcb.Size))
}

func (m *Machine) writeFCB(addr uint16, f fcb.FCB) {
	b := f.AsBytes()
	m.Mem.PutRange(addr, b[:]...)
}
