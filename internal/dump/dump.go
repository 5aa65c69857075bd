/*
 * zcpm - SIGUSR1 state dump: registers and a memory summary, for
 * diagnosing a guest program that has gone off into the weeds
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

// Package dump renders Z80 register and memory state to a writer, for
// a SIGUSR1-triggered diagnostic snapshot of a running guest.
package dump

import (
	"fmt"
	"io"
	"strings"

	"github.com/rcornwell/zcpm/internal/hexutil"
	"github.com/rcornwell/zcpm/internal/z80"
)

func addrStr(addr uint16) string {
	var b strings.Builder
	hexutil.FormatAddr(&b, addr)
	return b.String()
}

func byteStr(v byte) string {
	var b strings.Builder
	hexutil.FormatByte(&b, v)
	return b.String()
}

// Registers writes a one-screen register dump, flags rendered as the
// SZYHXPNC mnemonic string.
func Registers(w io.Writer, r *z80.Registers) {
	fmt.Fprintf(w, "PC=%s SP=%s\n", addrStr(r.PC), addrStr(r.SP))
	fmt.Fprintf(w, "A=%s F=%s(%s) BC=%s DE=%s HL=%s\n",
		byteStr(r.A), byteStr(r.F.Pack()), hexutil.FormatFlags(r.F.Pack()),
		addrStr(r.BC()), addrStr(r.DE()), addrStr(r.HL()))
	fmt.Fprintf(w, "IX=%s IY=%s I=%s R=%s IFF1=%v IFF2=%v\n",
		addrStr(r.IX), addrStr(r.IY), byteStr(r.I), byteStr(r.R), r.IFF1, r.IFF2)
}

// MemoryAround writes a hex dump of the span [addr-span, addr+span]
// centered on addr (typically PC or SP), 16 bytes per line.
func MemoryAround(w io.Writer, mem *z80.Memory, addr uint16, span uint16) {
	start := int(addr) - int(span)
	if start < 0 {
		start = 0
	}
	end := int(addr) + int(span)
	if end > 0xFFFF {
		end = 0xFFFF
	}
	start -= start % 16
	for a := start; a <= end; a += 16 {
		n := end - a + 1
		if n > 16 {
			n = 16
		}
		row := mem.GetRange(uint16(a), n)
		var b strings.Builder
		hexutil.FormatBytes(&b, true, row)
		fmt.Fprintf(w, "%s  %s\n", addrStr(uint16(a)), b.String())
	}
}
