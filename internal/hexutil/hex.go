/*
 * zcpm - Convert bytes to hex strings for state dumps
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

package hexutil

import "strings"

var hexMap = "0123456789ABCDEF"

// FormatByte appends the two-digit hex form of b.
func FormatByte(str *strings.Builder, b byte) {
	str.WriteByte(hexMap[(b>>4)&0xf])
	str.WriteByte(hexMap[b&0xf])
}

// FormatAddr appends the four-digit hex form of a 16-bit address.
func FormatAddr(str *strings.Builder, addr uint16) {
	str.WriteByte(hexMap[(addr>>12)&0xf])
	str.WriteByte(hexMap[(addr>>8)&0xf])
	str.WriteByte(hexMap[(addr>>4)&0xf])
	str.WriteByte(hexMap[addr&0xf])
}

// FormatBytes appends each byte of data in hex, space-separated if
// space is true.
func FormatBytes(str *strings.Builder, space bool, data []byte) {
	for i, by := range data {
		if space && i > 0 {
			str.WriteByte(' ')
		}
		FormatByte(str, by)
	}
}

// FormatFlags renders the classic Z80 flag mnemonic string, one
// character per bit, upper-case when set: S Z Y H X P N C.
func FormatFlags(packed byte) string {
	const names = "SZYHXPNC"
	var b strings.Builder
	for i := 0; i < 8; i++ {
		bit := byte(0x80) >> i
		ch := names[i]
		if packed&bit == 0 {
			ch = ch - 'A' + 'a'
		}
		b.WriteByte(ch)
	}
	return b.String()
}
