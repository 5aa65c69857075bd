/*
 * zcpm - File Control Block test set.
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

package fcb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromStringBasic(t *testing.T) {
	f := FromString("readme.txt")
	require.Equal(t, "README  TXT", string(f.Name[:])+string(f.Ext[:]))
	require.Equal(t, byte(0), f.Drive)
}

func TestFromStringDriveQualifier(t *testing.T) {
	f := FromString("B:foo.c")
	require.Equal(t, byte(2), f.Drive)
	require.Equal(t, "FOO     C  ", string(f.Name[:])+string(f.Ext[:]))
}

func TestFromStringNoExtension(t *testing.T) {
	f := FromString("makefile")
	require.Equal(t, "MAKEFILE", string(f.Name[:]))
	require.Equal(t, "   ", string(f.Ext[:]))
}

func TestAsBytesRoundTrip(t *testing.T) {
	f := FromString("foo.bar")
	f.Extent = 3
	f.RC = 5
	b := f.AsBytes()
	require.Len(t, b, Size)

	back := FromBytes(b[:])
	require.Equal(t, f.Name, back.Name)
	require.Equal(t, f.Ext, back.Ext)
	require.Equal(t, f.Extent, back.Extent)
	require.Equal(t, f.RC, back.RC)
}

func TestOffsetRoundTrip(t *testing.T) {
	var f FCB
	f.SetOffset(12345)
	require.Equal(t, uint32(12345), f.Offset())
}

func TestRandomRecordRoundTrip(t *testing.T) {
	var f FCB
	f.SetRandomRecord(0x654321)
	require.Equal(t, uint32(0x654321), f.RandomRecord())
}

func TestSetIDAndLive(t *testing.T) {
	var f FCB
	require.False(t, f.Live())

	f.SetID(0x1234)
	require.True(t, f.Live())
	require.Equal(t, uint16(0x1234), f.ID16())

	f.ClearID()
	require.False(t, f.Live())
}

func TestMatchWildcard(t *testing.T) {
	pattern := FromString("FOO?????.?XT")
	candidate := FromString("FOOBAR.TXT")
	require.True(t, pattern.Match(candidate))

	other := FromString("BAZ.TXT")
	require.False(t, pattern.Match(other))
}

func TestUnixName(t *testing.T) {
	f := FromString("readme.txt")
	require.Equal(t, "readme.txt", f.UnixName())

	noExt := FromString("makefile")
	require.Equal(t, "makefile", noExt.UnixName())
}

func TestFromHostName(t *testing.T) {
	f := FromHostName("readme.txt")
	require.Equal(t, "README  TXT", string(f.Name[:])+string(f.Ext[:]))
}

func TestSetDateStampsByteOrder(t *testing.T) {
	var f FCB
	f.SetDateStamps(8036, 0x12, 0x30, 8037, 0x09, 0x45)

	require.Len(t, f.D, 12)
	require.Equal(t, byte(8036), f.D[4], "access day low byte at D[4] (FCB byte 24)")
	require.Equal(t, byte(8036>>8), f.D[5])
	require.Equal(t, byte(0x12), f.D[6], "access hour")
	require.Equal(t, byte(0x30), f.D[7], "access minute")
	require.Equal(t, byte(8037), f.D[8], "update day low byte at D[8] (FCB byte 28)")
	require.Equal(t, byte(8037>>8), f.D[9])
	require.Equal(t, byte(0x09), f.D[10], "update hour")
	require.Equal(t, byte(0x45), f.D[11], "update minute")
}

func TestValid8Dot3(t *testing.T) {
	cases := map[string]bool{
		"readme.txt":      true,
		"a":               true,
		"toolongname.txt": false,
		"x.toolong":       false,
		"go#d-2.$@c":      true,
		"":                false,
		"has space.txt":   false,
	}
	for name, want := range cases {
		require.Equal(t, want, Valid8Dot3(name), "name=%q", name)
	}
}
