/*
 * zcpm - hex formatting test set.
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

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatByte(t *testing.T) {
	var b strings.Builder
	FormatByte(&b, 0xA5)
	require.Equal(t, "A5", b.String())
}

func TestFormatAddr(t *testing.T) {
	var b strings.Builder
	FormatAddr(&b, 0xFFED)
	require.Equal(t, "FFED", b.String())
}

func TestFormatBytesSpaced(t *testing.T) {
	var b strings.Builder
	FormatBytes(&b, true, []byte{0x01, 0x02, 0xFF})
	require.Equal(t, "01 02 FF", b.String())
}

func TestFormatBytesUnspaced(t *testing.T) {
	var b strings.Builder
	FormatBytes(&b, false, []byte{0x01, 0x02, 0xFF})
	require.Equal(t, "0102FF", b.String())
}

func TestFormatBytesEmpty(t *testing.T) {
	var b strings.Builder
	FormatBytes(&b, true, nil)
	require.Equal(t, "", b.String())
}

func TestFormatFlagsAllSet(t *testing.T) {
	require.Equal(t, "SZYHXPNC", FormatFlags(0xFF))
}

func TestFormatFlagsAllClear(t *testing.T) {
	require.Equal(t, "szyhxpnc", FormatFlags(0x00))
}

func TestFormatFlagsMixed(t *testing.T) {
	// S and Z set, rest clear.
	require.Equal(t, "SZyhxpnc", FormatFlags(0xC0))
}
