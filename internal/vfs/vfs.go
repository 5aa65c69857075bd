/*
 * zcpm - virtual filesystem: drive table, FCB<->host path resolution,
 * open-file registry, and the Search-First/Next queue
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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rcornwell/zcpm/internal/fcb"
)

// MaxFileSize is the CP/M-addressable file-size limit (65536 records
// of 128 bytes): files larger than this are invisible/refused.
const MaxFileSize = 65536 * 128

// ErrUnconfigured is returned when selecting a drive with no host
// path bound to it.
var ErrUnconfigured = errors.New("drive not configured")

// Drive is one of the 16 configured (or unconfigured) host directories.
type Drive struct {
	Path     string
	ReadOnly bool
}

// Handle is a single open-file record, owned by the registry from
// Open/Make until Close.
type Handle struct {
	ID       uint16
	Path     string
	File     *os.File
	ReadOnly bool // READONLY_DISK or READONLY_FILE
	Dirty    bool
}

// VFS bundles the drive table, the open-file registry, and the
// pending search queue for one emulator run.
type VFS struct {
	drives  [16]*Drive
	current byte // 0-based current drive

	handles  map[uint16]*Handle
	nextID   uint16
	keepOpen bool // "never actually close files" configuration flag

	searchQueue []string // host basenames pending for the current drive
}

// New returns an empty VFS with no drives configured.
func New() *VFS {
	return &VFS{
		handles: make(map[uint16]*Handle),
		nextID:  1,
	}
}

// SetKeepFilesOpen implements the configuration flag that makes Close
// retain the OS handle (clearing only DIRTY) instead of releasing it.
func (v *VFS) SetKeepFilesOpen(keep bool) {
	v.keepOpen = keep
}

// Configure binds drive letter (0=A..15=P) to a host directory.
func (v *VFS) Configure(letter byte, path string, readOnly bool) {
	v.drives[letter] = &Drive{Path: path, ReadOnly: readOnly}
}

// CurrentDrive returns the 0-based selected drive.
func (v *VFS) CurrentDrive() byte { return v.current }

// SelectDrive changes the current drive; selecting an unconfigured
// drive is a guest-misbehaviour error (ERR_SELECT at the host layer).
func (v *VFS) SelectDrive(letter byte) error {
	if int(letter) >= len(v.drives) || v.drives[letter] == nil {
		return ErrUnconfigured
	}
	v.current = letter
	return nil
}

// DriveConfigured reports whether letter (0-based) has a host
// directory bound to it.
func (v *VFS) DriveConfigured(letter byte) bool {
	return int(letter) < len(v.drives) && v.drives[letter] != nil
}

// DrivePath returns the host directory bound to letter, or "" if
// unconfigured.
func (v *VFS) DrivePath(letter byte) string {
	if !v.DriveConfigured(letter) {
		return ""
	}
	return v.drives[letter].Path
}

// resolveDrive returns the drive an FCB's Drive byte refers to: 0
// means "current", 1..16 means A..P.
func (v *VFS) resolveDrive(fcbDrive byte) (byte, *Drive, error) {
	letter := v.current
	if fcbDrive != 0 {
		letter = fcbDrive - 1
	}
	if int(letter) >= len(v.drives) || v.drives[letter] == nil {
		return 0, nil, ErrUnconfigured
	}
	return letter, v.drives[letter], nil
}

// HostPath joins a drive's configured path with a host-side filename.
func (d *Drive) HostPath(name string) string {
	return filepath.Join(d.Path, name)
}

// listDir returns the lowercase 8.3-valid regular file names in a
// drive's directory, filtered to files no larger than MaxFileSize.
// os.ReadDir sorts by host filename, so the host's own directory
// order is not preserved.
func listDir(d *Drive) ([]string, error) {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		if !fcb.Valid8Dot3(name) {
			continue
		}
		info, err := e.Info()
		if err != nil || info.Size() > MaxFileSize {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// FindMatching returns the host filenames in pattern's drive whose
// 8.3 name matches pattern (with '?' wildcards) and whose size in
// 128-byte records is at least minRecords, sorted by name.
func (v *VFS) FindMatching(pattern fcb.FCB, minRecords int) ([]string, error) {
	_, drive, err := v.resolveDrive(pattern.Drive)
	if err != nil {
		return nil, err
	}
	names, err := listDir(drive)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, name := range names {
		cand := fcb.FromHostName(name)
		if !pattern.Match(cand) {
			continue
		}
		if minRecords > 0 {
			info, err := os.Stat(drive.HostPath(name))
			if err != nil {
				continue
			}
			records := int((info.Size() + 127) / 128)
			if records < minRecords {
				continue
			}
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// StartSearch replaces the pending search queue with every host name
// in pattern's drive matching pattern, discarding any prior queue.
func (v *VFS) StartSearch(pattern fcb.FCB) (found bool, err error) {
	names, err := v.FindMatching(pattern, 0)
	if err != nil {
		return false, err
	}
	v.searchQueue = names
	return len(names) > 0, nil
}

// NextSearchResult pops one name from the pending queue.
func (v *VFS) NextSearchResult() (name string, ok bool) {
	if len(v.searchQueue) == 0 {
		return "", false
	}
	name = v.searchQueue[0]
	v.searchQueue = v.searchQueue[1:]
	return name, true
}

// Open resolves pattern against its drive's directory (first match by
// name order with enough records), then opens it for
// read-write, falling back to read-only on a read-only disk or an
// access-denied error.
func (v *VFS) Open(pattern fcb.FCB, minRecords int) (*Handle, error) {
	_, drive, err := v.resolveDrive(pattern.Drive)
	if err != nil {
		return nil, err
	}
	matches, err := v.FindMatching(pattern, minRecords)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, os.ErrNotExist
	}
	path := drive.HostPath(matches[0])

	readOnly := drive.ReadOnly
	var f *os.File
	if !readOnly {
		f, err = os.OpenFile(path, os.O_RDWR, 0o644)
		if errors.Is(err, os.ErrPermission) {
			readOnly = true
		} else if err != nil {
			return nil, err
		}
	}
	if readOnly {
		f, err = os.Open(path)
		if err != nil {
			return nil, err
		}
	}

	return v.register(path, f, readOnly), nil
}

// Make creates a new file named by pattern in its drive (truncating
// if it somehow exists) and registers it read-write.
func (v *VFS) Make(pattern fcb.FCB) (*Handle, error) {
	_, drive, err := v.resolveDrive(pattern.Drive)
	if err != nil {
		return nil, err
	}
	if drive.ReadOnly {
		return nil, os.ErrPermission
	}
	name := pattern.UnixName()
	if !fcb.Valid8Dot3(name) {
		return nil, fmt.Errorf("invalid filename %q", name)
	}
	path := drive.HostPath(name)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	return v.register(path, f, false), nil
}

// register allocates a fresh identifier for an opened file and adds
// it to the registry, wrapping around the 16-bit id space and
// scanning for a free slot; all 65535 ids live is a fatal condition
// the caller should translate to ERR_LOGIC.
func (v *VFS) register(path string, f *os.File, readOnly bool) *Handle {
	h := &Handle{Path: path, File: f, ReadOnly: readOnly}
	for i := 0; i < 65535; i++ {
		id := v.nextID
		v.nextID++
		if v.nextID == 0 {
			v.nextID = 1
		}
		if _, used := v.handles[id]; !used {
			h.ID = id
			v.handles[id] = h
			return h
		}
	}
	return nil // all 65535 slots live; caller must treat as ERR_LOGIC
}

// Lookup returns the live handle for id, if any.
func (v *VFS) Lookup(id uint16) (*Handle, bool) {
	h, ok := v.handles[id]
	return h, ok
}

// Close releases (or, under keepOpen, merely un-dirties) the handle
// registered under id.
func (v *VFS) Close(id uint16) error {
	h, ok := v.handles[id]
	if !ok {
		return fmt.Errorf("close: stale id %d", id)
	}
	if v.keepOpen {
		h.Dirty = false
		return nil
	}
	delete(v.handles, id)
	return h.File.Close()
}

// Delete unlinks every file matching pattern; a read-only disk or
// read-only file among the matches is a fatal condition for the
// caller (ERR_RODISK / ERR_ROFILE).
func (v *VFS) Delete(pattern fcb.FCB) (count int, roDisk bool, roFile bool, err error) {
	_, drive, err := v.resolveDrive(pattern.Drive)
	if err != nil {
		return 0, false, false, err
	}
	if drive.ReadOnly {
		return 0, true, false, nil
	}
	matches, err := v.FindMatching(pattern, 0)
	if err != nil {
		return 0, false, false, err
	}
	for _, name := range matches {
		path := drive.HostPath(name)
		info, statErr := os.Stat(path)
		if statErr == nil && info.Mode().Perm()&0o200 == 0 {
			return count, false, true, nil
		}
		if rmErr := os.Remove(path); rmErr != nil {
			return count, false, false, rmErr
		}
		count++
	}
	return count, false, false, nil
}

// Rename links oldPattern's match to newPattern's name then unlinks
// the original.
func (v *VFS) Rename(oldPattern, newPattern fcb.FCB) error {
	_, drive, err := v.resolveDrive(oldPattern.Drive)
	if err != nil {
		return err
	}
	if drive.ReadOnly {
		return os.ErrPermission
	}
	matches, err := v.FindMatching(oldPattern, 0)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return os.ErrNotExist
	}
	oldPath := drive.HostPath(matches[0])
	newName := newPattern.UnixName()
	if !fcb.Valid8Dot3(newName) {
		return fmt.Errorf("invalid filename %q", newName)
	}
	newPath := drive.HostPath(newName)

	if err := os.Link(oldPath, newPath); err != nil {
		return err
	}
	return os.Remove(oldPath)
}

// ReadOnlyVector returns a 16-bit bitmask with bit i set when drive i
// is configured read-only.
func (v *VFS) ReadOnlyVector() uint16 {
	var mask uint16
	for i, d := range v.drives {
		if d != nil && d.ReadOnly {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// LogInVector returns a 16-bit bitmask with bit i set when drive i is
// configured at all.
func (v *VFS) LogInVector() uint16 {
	var mask uint16
	for i, d := range v.drives {
		if d != nil {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// WriteProtectCurrent marks the currently selected drive read-only
// for the remainder of the run.
func (v *VFS) WriteProtectCurrent() {
	if d := v.drives[v.current]; d != nil {
		d.ReadOnly = true
	}
}

// DriveReadOnly reports whether the given 0-based drive is configured
// read-only (false if unconfigured).
func (v *VFS) DriveReadOnly(letter byte) bool {
	d := v.drives[letter]
	return d != nil && d.ReadOnly
}

// FileRecords returns the 128-byte record count of pattern's first
// match, for BDOS function 35 (Compute File Size).
func (v *VFS) FileRecords(pattern fcb.FCB) (int, error) {
	_, drive, err := v.resolveDrive(pattern.Drive)
	if err != nil {
		return 0, err
	}
	matches, err := v.FindMatching(pattern, 0)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, os.ErrNotExist
	}
	info, err := os.Stat(drive.HostPath(matches[0]))
	if err != nil {
		return 0, err
	}
	return int((info.Size() + 127) / 128), nil
}

// Stat returns the host file info of pattern's first match, for BDOS
// function 102 (Read File Date Stamps).
func (v *VFS) Stat(pattern fcb.FCB) (os.FileInfo, error) {
	_, drive, err := v.resolveDrive(pattern.Drive)
	if err != nil {
		return nil, err
	}
	matches, err := v.FindMatching(pattern, 0)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, os.ErrNotExist
	}
	return os.Stat(drive.HostPath(matches[0]))
}
