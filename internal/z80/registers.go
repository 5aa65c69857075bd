package z80

/*
 * zcpm - Z80 register file and flag state
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

// Flag bit positions, matching the layout PUSH AF places on the stack:
// S Z Y H X P/V N C, bit 7 down to bit 0.
const (
	FlagC = 1 << 0
	FlagN = 1 << 1
	FlagP = 1 << 2 // aka V, overflow
	FlagX = 1 << 3 // undocumented, bit 3 of result
	FlagH = 1 << 4
	FlagY = 1 << 5 // undocumented, bit 5 of result
	FlagZ = 1 << 6
	FlagS = 1 << 7
)

// Flags is the decomposed view of the F register. The hot ALU path
// mutates these booleans directly; Pack/Unpack convert to/from the
// packed byte at PUSH/POP AF, EX AF,AF' and other bitwise touch points.
type Flags struct {
	S, Z, Y, H, X, P, N, C bool
}

// Pack returns the packed byte form of the flags (the F register).
func (f Flags) Pack() byte {
	var b byte
	if f.S {
		b |= FlagS
	}
	if f.Z {
		b |= FlagZ
	}
	if f.Y {
		b |= FlagY
	}
	if f.H {
		b |= FlagH
	}
	if f.X {
		b |= FlagX
	}
	if f.P {
		b |= FlagP
	}
	if f.N {
		b |= FlagN
	}
	if f.C {
		b |= FlagC
	}
	return b
}

// Unpack sets the decomposed flags from a packed byte.
func (f *Flags) Unpack(b byte) {
	f.S = b&FlagS != 0
	f.Z = b&FlagZ != 0
	f.Y = b&FlagY != 0
	f.H = b&FlagH != 0
	f.X = b&FlagX != 0
	f.P = b&FlagP != 0
	f.N = b&FlagN != 0
	f.C = b&FlagC != 0
}

// Registers holds the full Z80 programmer-visible state: the main and
// shadow register banks, the index registers, refresh/interrupt
// registers, the interrupt-enable latch and the internal MEMPTR latch
// used to reproduce undocumented X/Y flag behaviour.
type Registers struct {
	A, B, C, D, E, H, L byte
	F                   Flags

	A2, F2         byte // shadow bank A'/F', kept packed: swapped wholesale
	B2, C2         byte
	D2, E2         byte
	H2, L2         byte

	IX, IY uint16
	SP, PC uint16

	I, R byte // interrupt vector base, refresh counter

	IFF1, IFF2 bool

	MEMPTR uint16
}

// BC, DE, HL return the 16-bit register-pair views.
func (r *Registers) BC() uint16 { return uint16(r.B)<<8 | uint16(r.C) }
func (r *Registers) DE() uint16 { return uint16(r.D)<<8 | uint16(r.E) }
func (r *Registers) HL() uint16 { return uint16(r.H)<<8 | uint16(r.L) }

// SetBC, SetDE, SetHL store a 16-bit value into a register pair.
func (r *Registers) SetBC(v uint16) { r.B, r.C = byte(v>>8), byte(v) }
func (r *Registers) SetDE(v uint16) { r.D, r.E = byte(v>>8), byte(v) }
func (r *Registers) SetHL(v uint16) { r.H, r.L = byte(v>>8), byte(v) }

// AF returns the packed AF pair (A high, flags low).
func (r *Registers) AF() uint16 { return uint16(r.A)<<8 | uint16(r.F.Pack()) }

// SetAF stores a packed AF pair.
func (r *Registers) SetAF(v uint16) {
	r.A = byte(v >> 8)
	r.F.Unpack(byte(v))
}

// IXH, IXL, IYH, IYL give byte access to the index-register halves,
// used by the DD/FD-prefixed substitution of H/L.
func (r *Registers) IXH() byte     { return byte(r.IX >> 8) }
func (r *Registers) IXL() byte     { return byte(r.IX) }
func (r *Registers) IYH() byte     { return byte(r.IY >> 8) }
func (r *Registers) IYL() byte     { return byte(r.IY) }
func (r *Registers) SetIXH(v byte) { r.IX = uint16(v)<<8 | (r.IX & 0x00FF) }
func (r *Registers) SetIXL(v byte) { r.IX = (r.IX & 0xFF00) | uint16(v) }
func (r *Registers) SetIYH(v byte) { r.IY = uint16(v)<<8 | (r.IY & 0x00FF) }
func (r *Registers) SetIYL(v byte) { r.IY = (r.IY & 0xFF00) | uint16(v) }

// ExxAFAlt swaps AF with the shadow A'F' (EX AF,AF').
func (r *Registers) ExxAFAlt() {
	r.A, r.A2 = r.A2, r.A
	fp := r.F.Pack()
	r.F.Unpack(r.F2)
	r.F2 = fp
}

// Exx swaps BC/DE/HL with the shadow bank (EXX).
func (r *Registers) Exx() {
	r.B, r.B2 = r.B2, r.B
	r.C, r.C2 = r.C2, r.C
	r.D, r.D2 = r.D2, r.D
	r.E, r.E2 = r.E2, r.E
	r.H, r.H2 = r.H2, r.H
	r.L, r.L2 = r.L2, r.L
}

// BumpR increments the 7 low bits of the refresh register, preserving
// bit 7, as every M1 (opcode) fetch does.
func (r *Registers) BumpR() {
	r.R = (r.R & 0x80) | ((r.R + 1) & 0x7F)
}

// Parity reports the Z80 parity/overflow flag value for logic-op
// results: true means an even number of set bits.
func Parity(b byte) bool {
	b ^= b >> 4
	b ^= b >> 2
	b ^= b >> 1
	return b&1 == 0
}
