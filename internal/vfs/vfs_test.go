/*
 * zcpm - virtual filesystem test set.
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

package vfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rcornwell/zcpm/internal/fcb"
)

func newTestVFS(t *testing.T) (*VFS, string) {
	t.Helper()
	dir := t.TempDir()
	v := New()
	v.Configure(0, dir, false)
	return v, dir
}

func TestSelectDriveUnconfigured(t *testing.T) {
	v, _ := newTestVFS(t)
	require.ErrorIs(t, v.SelectDrive(5), ErrUnconfigured)
	require.NoError(t, v.SelectDrive(0))
	require.Equal(t, byte(0), v.CurrentDrive())
}

func TestDriveConfiguredAndPath(t *testing.T) {
	v, dir := newTestVFS(t)
	require.True(t, v.DriveConfigured(0))
	require.Equal(t, dir, v.DrivePath(0))
	require.False(t, v.DriveConfigured(3))
	require.Equal(t, "", v.DrivePath(3))
}

func TestFindMatchingWildcard(t *testing.T) {
	v, dir := newTestVFS(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bar.txt"), []byte("hi"), 0o644))

	pattern := fcb.FromString("????????.TXT")
	names, err := v.FindMatching(pattern, 0)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"foo.txt", "bar.txt"}, names)
}

func TestMakeOpenCloseRoundTrip(t *testing.T) {
	v, _ := newTestVFS(t)
	pattern := fcb.FromString("NEWFILE.DAT")

	h, err := v.Make(pattern)
	require.NoError(t, err)
	require.NotZero(t, h.ID)
	require.False(t, h.ReadOnly)

	_, err = h.File.WriteString("hello")
	require.NoError(t, err)
	require.NoError(t, v.Close(h.ID))

	_, ok := v.Lookup(h.ID)
	require.False(t, ok)

	h2, err := v.Open(fcb.FromString("NEWFILE.DAT"), 0)
	require.NoError(t, err)
	require.Equal(t, h.Path, h2.Path)
	require.NoError(t, v.Close(h2.ID))
}

func TestOpenMissingFile(t *testing.T) {
	v, _ := newTestVFS(t)
	_, err := v.Open(fcb.FromString("MISSING.DAT"), 0)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestMakeOnReadOnlyDrive(t *testing.T) {
	dir := t.TempDir()
	v := New()
	v.Configure(0, dir, true)

	_, err := v.Make(fcb.FromString("NEWFILE.DAT"))
	require.ErrorIs(t, err, os.ErrPermission)
}

func TestCloseStaleID(t *testing.T) {
	v, _ := newTestVFS(t)
	err := v.Close(999)
	require.Error(t, err)
}

func TestDeleteFile(t *testing.T) {
	v, dir := newTestVFS(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kill.me"), []byte("x"), 0o644))

	count, roDisk, roFile, err := v.Delete(fcb.FromString("KILL.ME"))
	require.NoError(t, err)
	require.False(t, roDisk)
	require.False(t, roFile)
	require.Equal(t, 1, count)

	_, err = os.Stat(filepath.Join(dir, "kill.me"))
	require.True(t, os.IsNotExist(err))
}

func TestDeleteOnReadOnlyDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kill.me"), []byte("x"), 0o644))
	v := New()
	v.Configure(0, dir, true)

	_, roDisk, _, err := v.Delete(fcb.FromString("KILL.ME"))
	require.NoError(t, err)
	require.True(t, roDisk)
}

func TestRenameFile(t *testing.T) {
	v, dir := newTestVFS(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.dat"), []byte("x"), 0o644))

	err := v.Rename(fcb.FromString("OLD.DAT"), fcb.FromString("NEW.DAT"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "new.dat"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "old.dat"))
	require.True(t, os.IsNotExist(err))
}

func TestReadOnlyAndLogInVectors(t *testing.T) {
	v := New()
	v.Configure(0, t.TempDir(), false)
	v.Configure(1, t.TempDir(), true)

	require.Equal(t, uint16(0x0003), v.LogInVector())
	require.Equal(t, uint16(0x0002), v.ReadOnlyVector())
}

func TestWriteProtectCurrent(t *testing.T) {
	v, _ := newTestVFS(t)
	require.False(t, v.DriveReadOnly(0))
	v.WriteProtectCurrent()
	require.True(t, v.DriveReadOnly(0))
}

func TestFileRecords(t *testing.T) {
	v, dir := newTestVFS(t)
	data := make([]byte, 300)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.dat"), data, 0o644))

	records, err := v.FileRecords(fcb.FromString("BIG.DAT"))
	require.NoError(t, err)
	require.Equal(t, 3, records) // ceil(300/128)
}

func TestSearchQueue(t *testing.T) {
	v, dir := newTestVFS(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("x"), 0o644))

	found, err := v.StartSearch(fcb.FromString("????????.TXT"))
	require.NoError(t, err)
	require.True(t, found)

	var names []string
	for {
		name, ok := v.NextSearchResult()
		if !ok {
			break
		}
		names = append(names, name)
	}
	require.ElementsMatch(t, []string{"a.txt", "b.txt"}, names)

	_, ok := v.NextSearchResult()
	require.False(t, ok)
}
