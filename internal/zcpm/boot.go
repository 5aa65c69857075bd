package zcpm

/*
 * zcpm - boot/loader: zero page, BIOS vector, sentinel fill,
 * command tail, default FCBs
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
	"math/rand"
	"path/filepath"
	"strings"

	"github.com/rcornwell/zcpm/internal/fcb"
	"github.com/rcornwell/zcpm/internal/z80"
)

// resolveImagePath implements the drive-qualified/default-drive
// resolution and the ".com" default extension.
func (m *Machine) resolveImagePath(arg string) (string, error) {
	if strings.ContainsRune(arg, '/') {
		return arg, nil
	}

	drive := m.VFS.CurrentDrive()
	name := arg
	if len(arg) >= 2 && arg[1] == ':' {
		d := strings.ToUpper(arg[:1])[0]
		if d < 'A' || d > 'P' {
			return "", fmt.Errorf("invalid drive qualifier in %q", arg)
		}
		drive = d - 'A'
		name = arg[2:]
	}
	if filepath.Ext(name) == "" {
		name += ".com"
	}

	d, ok := m.driveDir(drive)
	if !ok {
		return "", fmt.Errorf("drive %c: not configured", 'A'+drive)
	}
	return filepath.Join(d, strings.ToLower(name)), nil
}

func (m *Machine) driveDir(letter byte) (string, bool) {
	if !m.VFS.DriveConfigured(letter) {
		return "", false
	}
	return m.VFS.DrivePath(letter), true
}

// Boot performs the full init/loader sequence: load the command
// image, paint the sentinel range, write the zero page and BIOS
// vector, stage the CCP stack, and compose the command tail and
// default FCBs from args.
func (m *Machine) Boot(imagePath string, args []string) error {
	m.CPU.Regs.R = byte(rand.Intn(256))

	path := imagePath
	if !strings.ContainsRune(imagePath, '/') {
		resolved, err := m.resolveImagePath(imagePath)
		if err != nil {
			return err
		}
		path = resolved
	}

	if err := m.Mem.LoadFile(path, TPABase, BDOSBase); err != nil {
		return err
	}

	for addr := int(z80.MagicBase); addr <= 0xFFFF; addr++ {
		m.Mem.Put(uint16(addr), 0xC9) // RET
	}

	m.writeBIOSVector()
	m.writeZeroPage()
	m.stageCCPStack()
	m.composeCommandTail(args)

	m.CPU.Regs.PC = TPABase
	return nil
}

// biosVectorBase is just below the magic sentinel range, with room for
// 18 JP entries. writeBIOSVector fills the first 17 (slots 1..17); the
// delay slot 18 gets no vector entry.
const biosVectorBase = z80.MagicBase - 18*3

func (m *Machine) writeBIOSVector() {
	addr := biosVectorBase
	for slot := 1; slot <= 17; slot++ {
		m.Mem.Put(addr, 0xC3) // JP
		m.Mem.PutU16(addr+1, z80.MagicBase+uint16(slot))
		addr += 3
	}
}

func (m *Machine) writeZeroPage() {
	// 0x0000: JP WBOOT (slot 2)
	m.Mem.Put(0x0000, 0xC3)
	m.Mem.PutU16(0x0001, z80.MagicBase+2)

	// 0x0003: IOBYTE, 0x0004: current drive/user
	m.Mem.Put(0x0003, 0x00)
	m.Mem.Put(0x0004, m.userNumber<<4|m.VFS.CurrentDrive())

	// 0x0005: JP BDOS stub; the stub itself is JP MAGIC (slot 0).
	const bdosStub = 0x0006
	m.Mem.Put(0x0005, 0xC3)
	m.Mem.PutU16(0x0006, bdosStub+3)
	m.Mem.Put(bdosStub+3, 0xC3)
	m.Mem.PutU16(bdosStub+4, z80.MagicBase)
}

// stageCCPStack pre-pushes a WBOOT return address eight levels deep
// so a guest RET at the top level exits cleanly through WBOOT,
// matching the way the CCP's own call chain would unwind.
func (m *Machine) stageCCPStack() {
	sp := CCPStackTop
	for i := 0; i < 8; i++ {
		sp -= 2
		m.Mem.PutU16(sp, z80.MagicBase+2)
	}
	m.CPU.Regs.SP = sp
}

// composeCommandTail concatenates args with single spaces, uppercases
// and charset-translates them, stores the Pascal-style length-prefixed
// string at 0x0080, and derives the two default FCBs.
func (m *Machine) composeCommandTail(args []string) {
	m.Mem.Put(FCB1Addr, 0)
	m.Mem.FillRange(FCB1Addr+1, 11, ' ')
	m.Mem.Put(FCB2Addr, 0)
	m.Mem.FillRange(FCB2Addr+1, 11, ' ')

	cli := strings.ToUpper(strings.TrimSpace(strings.Join(args, " ")))

	m.Mem.Put(DefaultDMA, 0)
	m.Mem.FillRange(DefaultDMA+1, 127, 0x00)
	if len(cli) > 0 {
		n := len(cli)
		if n > 127 {
			n = 127
		}
		m.Mem.Put(DefaultDMA, byte(n))
		for i := 0; i < n; i++ {
			m.Mem.Put(DefaultDMA+1+uint16(i), m.Charset.ToCPM[cli[i]])
		}
	}

	if len(args) > 0 {
		f := fcb.FromString(args[0])
		b := f.AsBytes()
		m.Mem.PutRange(FCB1Addr, b[:12]...)
	}
	if len(args) > 1 {
		f := fcb.FromString(args[1])
		b := f.AsBytes()
		m.Mem.PutRange(FCB2Addr, b[:12]...)
	}
}
