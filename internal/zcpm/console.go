package zcpm

/*
 * zcpm - console I/O: column-tracked output, line-editor semantics for
 * the buffered console-input BDOS call
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

const tabWidth = 8

// consoleReadByte returns the next console byte, draining the
// one-byte peek slot first.
func (m *Machine) consoleReadByte() byte {
	if m.pending != nil {
		b := *m.pending
		m.pending = nil
		return b
	}
	return m.Console.ReadByteBlocking(nil)
}

// writeConsole sends one host byte to the console, expanding tabs and
// tracking the output column the way a real CP/M console driver does
// for its own TAB emulation.
func (m *Machine) writeConsole(cpmByte byte) {
	host := m.Charset.ToHost[cpmByte]
	switch cpmByte {
	case 0x09: // TAB
		spaces := tabWidth - (m.column % tabWidth)
		for i := 0; i < spaces; i++ {
			m.Console.WriteByte(' ')
		}
		m.column += spaces
	case 0x0D: // CR
		m.Console.WriteByte(host)
		m.column = 0
	case 0x0A: // LF
		m.Console.WriteByte(host)
	case 0x08: // BS
		m.Console.WriteByte(host)
		if m.column > 0 {
			m.column--
		}
	default:
		m.Console.WriteByte(host)
		m.column++
	}
}

// echoInput mirrors a byte read via console input back to the
// terminal, matching CP/M's "console input is echoed" convention.
func (m *Machine) echoInput(b byte) {
	m.writeConsole(m.Charset.ToCPM[b])
}

// bdosReadConsoleBuffer implements function 10: a line editor reading
// into the guest buffer at DE, honoring ^C (cancel), ^E (wrap to a new
// line), ^H/DEL (erase one char), ^R (retype), ^U/^X (kill line), and
// CR/LF (end of input).
func (m *Machine) bdosReadConsoleBuffer() {
	addr := m.CPU.Regs.DE()
	maxLen := int(m.Mem.Get(addr))
	if maxLen == 0 {
		return
	}
	buf := make([]byte, 0, maxLen)

	redraw := func() {
		m.writeConsole(0x0D)
		m.writeConsole(0x0A)
		for _, c := range buf {
			m.echoInput(c)
		}
	}

	for {
		raw := m.consoleReadByte()
		b := m.Charset.ToCPM[raw]
		switch b {
		case 0x03: // ^C
			if len(buf) == 0 {
				m.Terminate(OKCtrlC)
				return
			}
			buf = buf[:0]
			redraw()
		case 0x0D, 0x0A: // CR, LF
			m.echoInput(raw)
			goto done
		case 0x05: // ^E, logical end of line
			m.writeConsole(0x0D)
			m.writeConsole(0x0A)
		case 0x08, 0x7F: // BS, DEL
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
				m.writeConsole(0x08)
				m.writeConsole(' ')
				m.writeConsole(0x08)
			}
		case 0x12: // ^R retype
			redraw()
		case 0x15, 0x18: // ^U, ^X kill line
			buf = buf[:0]
			redraw()
		default:
			if len(buf) < maxLen {
				buf = append(buf, b)
				m.echoInput(raw)
			}
		}
	}
done:
	m.Mem.Put(addr+1, byte(len(buf)))
	m.Mem.PutRange(addr+2, buf...)
}
