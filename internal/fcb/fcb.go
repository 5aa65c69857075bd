/*
 * zcpm - CP/M File Control Block: parsing, matching, offset encoding
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

// Package fcb models the 36-byte guest File Control Block: drive,
// padded 8.3 name, extent fields, the host-owned open-file identifier,
// and the current/random record fields.
package fcb

import "strings"

// Size is the on-guest byte length of an FCB, including the
// random-record extension used by bytes 33..35.
const Size = 36

// WildDrive marks a search pattern that matches any drive.
const WildDrive = 0x3F

// obfuscator is XORed with the open-file identifier so that bytes
// 16..19 encode both the id and a checksum of it.
const obfuscator = 0xAFCB

// FCB is the decoded, in-memory form of the 36-byte guest record.
type FCB struct {
	Drive byte // 0 = default, 1..16 = A..P, WildDrive = any
	Name  [8]byte
	Ext   [3]byte
	Extent byte // byte 12
	S1     byte // byte 13, unused
	S2     byte // byte 14, extent-high
	RC     byte // byte 15

	ID byte // low byte of the host-owned open-file identifier (byte 16)
	// bytes 17..19 mirror/checksum ID; see Live/ClearID.
	idHi  byte
	idChk byte
	idPad byte

	D []byte // bytes 20..31, disk map, unused by this host

	CR     byte    // byte 32, current record
	Random [3]byte // bytes 33..35, 24-bit random record
}

// FromBytes decodes an FCB from a 36-byte (or longer) guest buffer.
func FromBytes(b []byte) FCB {
	var f FCB
	f.Drive = b[0]
	copy(f.Name[:], b[1:9])
	copy(f.Ext[:], b[9:12])
	f.Extent = b[12]
	f.S1 = b[13]
	f.S2 = b[14]
	f.RC = b[15]
	f.ID = b[16]
	f.idHi = b[17]
	f.idChk = b[18]
	f.idPad = b[19]
	f.D = append([]byte(nil), b[20:32]...)
	f.CR = b[32]
	if len(b) >= Size {
		copy(f.Random[:], b[33:36])
	}
	return f
}

// AsBytes encodes the FCB back to its 36-byte guest representation.
func (f FCB) AsBytes() [Size]byte {
	var b [Size]byte
	b[0] = f.Drive
	copy(b[1:9], f.Name[:])
	copy(b[9:12], f.Ext[:])
	b[12] = f.Extent
	b[13] = f.S1
	b[14] = f.S2
	b[15] = f.RC
	b[16] = f.ID
	b[17] = f.idHi
	b[18] = f.idChk
	b[19] = f.idPad
	copy(b[20:32], f.D)
	b[32] = f.CR
	copy(b[33:36], f.Random[:])
	return b
}

// FromString builds an FCB from a command-line-style "name.ext"
// argument (already uppercased by the caller), space-padding both
// fields as CP/M does. A leading "X:" drive qualifier is recognized.
func FromString(arg string) FCB {
	var f FCB
	for i := range f.Name {
		f.Name[i] = ' '
	}
	for i := range f.Ext {
		f.Ext[i] = ' '
	}

	arg = strings.ToUpper(strings.TrimSpace(arg))
	if len(arg) >= 2 && arg[1] == ':' {
		d := arg[0]
		if d >= 'A' && d <= 'P' {
			f.Drive = d - 'A' + 1
		}
		arg = arg[2:]
	}

	name, ext, _ := strings.Cut(arg, ".")
	for i := 0; i < len(name) && i < 8; i++ {
		f.Name[i] = name[i]
	}
	for i := 0; i < len(ext) && i < 3; i++ {
		f.Ext[i] = ext[i]
	}
	return f
}

// Offset decodes the sequential record offset (in 128-byte records)
// implied by S2/Extent/CR, per the formula offset = (S2<<12) | (EX<<7)
// | CR. 65536 is valid only as an end-of-file sentinel.
func (f FCB) Offset() uint32 {
	return uint32(f.S2)<<12 | uint32(f.Extent)<<7 | uint32(f.CR)
}

// SetOffset is the inverse of Offset: it distributes a 0..65536 record
// offset back across S2/Extent/CR.
func (f *FCB) SetOffset(off uint32) {
	f.S2 = byte(off >> 12)
	f.Extent = byte((off >> 7) & 0x1F)
	f.CR = byte(off & 0x7F)
}

// RandomRecord reads the 24-bit random-record field (bytes 33..35).
func (f FCB) RandomRecord() uint32 {
	return uint32(f.Random[0]) | uint32(f.Random[1])<<8 | uint32(f.Random[2])<<16
}

// SetRandomRecord writes the 24-bit random-record field.
func (f *FCB) SetRandomRecord(rec uint32) {
	f.Random[0] = byte(rec)
	f.Random[1] = byte(rec >> 8)
	f.Random[2] = byte(rec >> 16)
}

// SetDateStamps fills bytes 24..31 (the second half of D) with the
// CP/M-3 packed access and update timestamps, in that byte order: each
// is a 16-bit day count (little-endian) followed by BCD hour and
// minute bytes. Byte 24 is access, byte 28 is update/modify.
func (f *FCB) SetDateStamps(accessDay uint16, accessHour, accessMin byte, updateDay uint16, updateHour, updateMin byte) {
	if len(f.D) < 12 {
		f.D = append(f.D, make([]byte, 12-len(f.D))...)
	}
	f.D[4] = byte(accessDay)
	f.D[5] = byte(accessDay >> 8)
	f.D[6] = accessHour
	f.D[7] = accessMin
	f.D[8] = byte(updateDay)
	f.D[9] = byte(updateDay >> 8)
	f.D[10] = updateHour
	f.D[11] = updateMin
}

// SetID stores a live open-file identifier: bytes 16..17 get id
// (low byte first), bytes 18..19 the XOR-obfuscated checksum word,
// matching the "ID, ID xor 0xAFCB" contract.
func (f *FCB) SetID(id uint16) {
	chk := id ^ obfuscator
	f.ID = byte(id)
	f.idHi = byte(id >> 8)
	f.idChk = byte(chk)
	f.idPad = byte(chk >> 8)
}

// ID16 reconstructs the 16-bit identifier from bytes 16..17.
func (f FCB) ID16() uint16 {
	return uint16(f.idHi)<<8 | uint16(f.ID)
}

// Live reports whether bytes 16..19 encode a live (id, id xor
// 0xAFCB) pair: a file is open iff this holds and the host registry
// still has a record under that id.
func (f FCB) Live() bool {
	id := f.ID16()
	if id == 0 {
		return false
	}
	chk := uint16(f.idPad)<<8 | uint16(f.idChk)
	return chk == id^obfuscator
}

// ClearID zeroes bytes 16..19, marking the FCB as referring to no
// open file.
func (f *FCB) ClearID() {
	f.ID, f.idHi, f.idChk, f.idPad = 0, 0, 0, 0
}

// unixName renders the 8.3 name/ext pair as a lowercase "name.ext"
// (or bare "name" with no extension), trimming padding spaces.
func unixName(name [8]byte, ext [3]byte) string {
	n := strings.TrimRight(string(name[:]), " ")
	e := strings.TrimRight(string(ext[:]), " ")
	n = strings.ToLower(n)
	e = strings.ToLower(e)
	if e == "" {
		return n
	}
	return n + "." + e
}

// UnixName renders this FCB's name/extension as a host filename.
func (f FCB) UnixName() string {
	return unixName(f.Name, f.Ext)
}

// pad11 renders an 8.3 pair as an 11-character space-padded buffer,
// as CP/M stores it and as Match compares it.
func pad11(name [8]byte, ext [3]byte) [11]byte {
	var b [11]byte
	copy(b[:8], name[:])
	copy(b[8:], ext[:])
	return b
}

// Match reports whether this FCB's name/ext (used as a search
// pattern, '?' wildcarding any single character) matches candidate's.
func (f FCB) Match(candidate FCB) bool {
	pat := pad11(f.Name, f.Ext)
	cand := pad11(candidate.Name, candidate.Ext)
	for i := range pat {
		if pat[i] == '?' {
			continue
		}
		if pat[i] != cand[i] {
			return false
		}
	}
	return true
}

// FromHostName builds an FCB (drive left at 0) whose Name/Ext are the
// uppercased 8.3 fields parsed from a lowercase host filename such as
// "readme.txt".
func FromHostName(hostName string) FCB {
	var f FCB
	for i := range f.Name {
		f.Name[i] = ' '
	}
	for i := range f.Ext {
		f.Ext[i] = ' '
	}
	name, ext, _ := strings.Cut(hostName, ".")
	name = strings.ToUpper(name)
	ext = strings.ToUpper(ext)
	for i := 0; i < len(name) && i < 8; i++ {
		f.Name[i] = name[i]
	}
	for i := 0; i < len(ext) && i < 3; i++ {
		f.Ext[i] = ext[i]
	}
	return f
}

// Valid8Dot3 reports whether name (without any drive qualifier)
// satisfies the CP/M-conforming, host-portable filename grammar:
// 1..8 name characters, optional '.' plus 1..3 extension characters,
// each drawn from [0-9A-Za-z#$-@] (checked case-insensitively).
func Valid8Dot3(name string) bool {
	base, ext, hasExt := strings.Cut(name, ".")
	if len(base) < 1 || len(base) > 8 {
		return false
	}
	if hasExt && (len(ext) < 1 || len(ext) > 3) {
		return false
	}
	for _, r := range base + ext {
		if !validChar(r) {
			return false
		}
	}
	return true
}

func validChar(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r == '#' || r == '$' || r == '-' || r == '@':
		return true
	}
	return false
}
