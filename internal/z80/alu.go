package z80

/*
 * zcpm - bitwise-traced 8/16-bit ALU with full Z80 flag semantics
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

// add8 computes a+b+carryIn bit by bit so H (carry out of bit 3), the
// bit-6 carry used for overflow, and the final C all come from the
// same primitive.
func add8(a, b byte, carryIn bool) (result byte, h, c6, c bool) {
	var carry uint16
	if carryIn {
		carry = 1
	}
	sum := uint16(a) + uint16(b) + carry

	// Track carry into bit 4 (H) and bit 7 (C) and the carry generated
	// into bit 6 (used to derive overflow) via nibble/byte arithmetic.
	h = ((a & 0x0F) + (b & 0x0F) + byte(carry)) > 0x0F
	c6 = (uint16(a&0x7F) + uint16(b&0x7F) + carry) > 0x7F
	c = sum > 0xFF
	result = byte(sum)
	return
}

// sub8 computes a-b-carryIn with the same bit-level tracking as add8.
func sub8(a, b byte, carryIn bool) (result byte, h, c6, c bool) {
	var borrow uint16
	if carryIn {
		borrow = 1
	}
	diff := uint16(a) - uint16(b) - borrow

	h = int(a&0x0F)-int(b&0x0F)-int(borrow) < 0
	c6 = int(a&0x7F)-int(b&0x7F)-int(borrow) < 0
	c = diff > 0xFF
	result = byte(diff)
	return
}

// Add8 performs an 8-bit ADD/ADC and returns the result and new flags.
func Add8(a, b byte, carryIn bool) (byte, Flags) {
	res, h, c6, c := add8(a, b, carryIn)
	var f Flags
	f.C = c
	f.H = h
	f.P = c != c6
	f.N = false
	f.S = res&0x80 != 0
	f.Z = res == 0
	f.X = res&0x08 != 0
	f.Y = res&0x20 != 0
	return res, f
}

// Sub8 performs an 8-bit SUB/SBC/CP and returns the result and new flags.
func Sub8(a, b byte, carryIn bool) (byte, Flags) {
	res, h, c6, c := sub8(a, b, carryIn)
	var f Flags
	f.C = c
	f.H = h
	f.P = c != c6
	f.N = true
	f.S = res&0x80 != 0
	f.Z = res == 0
	f.X = res&0x08 != 0
	f.Y = res&0x20 != 0
	return res, f
}

// IncDec8 computes INC r / DEC r: identical to ADD/SUB 1 except that C
// is preserved from the incoming flags.
func IncDec8(a byte, dec bool, carryIn bool) (byte, Flags) {
	var res byte
	var f Flags
	if dec {
		res, f = Sub8(a, 1, false)
	} else {
		res, f = Add8(a, 1, false)
	}
	f.C = carryIn
	return res, f
}

// Add16 performs ADD HL,rr / ADD IX,rr: only C, H, N, X, Y change; S, Z, P
// are left untouched by the caller (this returns only the touched bits,
// via the h/c/x/y fields of the partial Flags; caller merges).
func Add16(a, b uint16) (uint16, Flags) {
	h := ((a & 0x0FFF) + (b & 0x0FFF)) > 0x0FFF
	sum := uint32(a) + uint32(b)
	c := sum > 0xFFFF
	res := uint16(sum)
	var f Flags
	f.H = h
	f.C = c
	f.N = false
	f.X = byte(res>>8)&0x08 != 0
	f.Y = byte(res>>8)&0x20 != 0
	return res, f
}

// Adc16Sbc16 performs ADC HL,rr / SBC HL,rr: full flag set, at bit
// positions 11/14/15 (the 16-bit analogue of add8/sub8).
func Adc16Sbc16(a, b uint16, carryIn bool, sub bool) (uint16, Flags) {
	var carry uint32
	if carryIn {
		carry = 1
	}
	var sum uint32
	var h, c bool
	if sub {
		sum = uint32(a) - uint32(b) - carry
		h = int(a&0x0FFF)-int(b&0x0FFF)-int(carry) < 0
		c = sum > 0xFFFF
	} else {
		sum = uint32(a) + uint32(b) + carry
		h = ((a & 0x0FFF) + (b & 0x0FFF) + uint16(carry)) > 0x0FFF
		c = sum > 0xFFFF
	}
	res := uint16(sum)

	// Overflow: compare sign of operands vs result, 16-bit ADC/SBC style.
	signA := a&0x8000 != 0
	signB := b&0x8000 != 0
	signR := res&0x8000 != 0
	var v bool
	if sub {
		v = signA != signB && signR != signA
	} else {
		v = signA == signB && signR != signA
	}

	var f Flags
	f.H = h
	f.C = c
	f.N = sub
	f.P = v
	f.S = res&0x8000 != 0
	f.Z = res == 0
	f.X = byte(res>>8)&0x08 != 0
	f.Y = byte(res>>8)&0x20 != 0
	return res, f
}

// And8, Or8, Xor8 apply the Z80 logic-op flag rule: C=0,N=0, H=1 for
// AND / 0 otherwise, P = parity of result, S/Z/X/Y from the result.
func logicFlags(res byte, h bool) Flags {
	var f Flags
	f.H = h
	f.P = Parity(res)
	f.S = res&0x80 != 0
	f.Z = res == 0
	f.X = res&0x08 != 0
	f.Y = res&0x20 != 0
	return f
}

func And8(a, b byte) (byte, Flags) {
	res := a & b
	return res, logicFlags(res, true)
}

func Or8(a, b byte) (byte, Flags) {
	res := a | b
	return res, logicFlags(res, false)
}

func Xor8(a, b byte) (byte, Flags) {
	res := a ^ b
	return res, logicFlags(res, false)
}

// DAA implements the Z80 decimal adjust: derive a
// six-case adjustment from (C, H, N, high nibble, low nibble), apply
// via add/sub per N, then recompute P from parity and C/H from the
// decision table.
func DAA(a byte, f Flags) (byte, Flags) {
	hi := a >> 4
	lo := a & 0x0F

	var diff byte
	newC := f.C
	newH := f.H

	if f.C || hi >= 0x0A || (hi >= 0x09 && lo >= 0x0A) {
		diff |= 0x60
		newC = true
	}
	if f.H || lo >= 0x0A {
		diff |= 0x06
	}

	var res byte
	if f.N {
		res = a - diff
		newH = f.H && lo < 0x06
	} else {
		res = a + diff
		newH = lo >= 0x0A
	}

	nf := f
	nf.C = newC
	nf.H = newH
	nf.P = Parity(res)
	nf.S = res&0x80 != 0
	nf.Z = res == 0
	nf.X = res&0x08 != 0
	nf.Y = res&0x20 != 0
	return res, nf
}
