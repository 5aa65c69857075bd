package zcpm

/*
 * zcpm - BIOS entry points: console status/in/out, list/punch/reader
 * stubs, and the disk-geometry entries the file-level VFS makes moot
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

// dispatchBIOS services slots 1..17 of the magic trap, matching the
// 17-entry jump vector written by writeBIOSVector: BOOT, WBOOT, CONST,
// CONIN, CONOUT, LIST, PUNCH, READER, HOME, SELDSK, SETTRK, SETSEC,
// SETDMA, READ, WRITE, LISTST, SECTRAN.
func (m *Machine) dispatchBIOS(slot int) {
	switch slot {
	case 1: // BOOT
		m.Terminate(ErrBoot)
	case 2: // WBOOT
		m.Terminate(OKTerm)
	case 3: // CONST
		if _, ok := peekConsole(m); ok {
			m.CPU.Regs.A = 0xFF
		} else {
			m.CPU.Regs.A = 0x00
		}
	case 4: // CONIN
		m.CPU.Regs.A = m.Charset.ToCPM[m.consoleReadByte()]
	case 5: // CONOUT
		m.writeConsole(m.CPU.Regs.C)
	case 6: // LIST
		m.writeConsole(m.CPU.Regs.C)
	case 7: // PUNCH
		// no punch device attached
	case 8: // READER
		m.CPU.Regs.A = 0x1A
	case 9: // HOME
		// single-level file access has no track concept
	case 10: // SELDSK - no DPH structures behind the file-level VFS;
		// drive validity is surfaced through the login/read-only vectors
		// and SelectDrive's ERR_SELECT instead.
		m.CPU.Regs.SetHL(0)
	case 11, 12: // SETTRK, SETSEC
		// geometry is irrelevant above the file-level VFS
	case 13: // SETDMA
		m.DMA = m.CPU.Regs.BC()
	case 14: // READ
		m.CPU.Regs.A = 0x01 // no raw sector interface; always report error
	case 15: // WRITE
		m.CPU.Regs.A = 0x01
	case 16: // LISTST
		m.CPU.Regs.A = 0xFF
	case 17: // SECTRAN
		m.CPU.Regs.SetHL(m.CPU.Regs.BC()) // identity translation
	}
}
