package z80

/*
 * zcpm - CB dispatch plane: rotates, shifts, BIT/RES/SET
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

// rotateShift applies one of the 8 CB-plane rotate/shift kinds (y) to
// v, returning the new value and flags. S/Z/P are set (unlike the
// A-variant rotates in the base plane, which touch only H/C/N/X/Y).
func rotateShift(y byte, v byte, carryIn bool) (byte, Flags) {
	var res byte
	var carryOut bool
	switch y & 7 {
	case 0: // RLC
		carryOut = v&0x80 != 0
		res = v<<1 | boolBit(carryOut)
	case 1: // RRC
		carryOut = v&0x01 != 0
		res = v>>1 | boolBit(carryOut)<<7
	case 2: // RL
		carryOut = v&0x80 != 0
		res = v<<1 | boolBit(carryIn)
	case 3: // RR
		carryOut = v&0x01 != 0
		res = v>>1 | boolBit(carryIn)<<7
	case 4: // SLA
		carryOut = v&0x80 != 0
		res = v << 1
	case 5: // SRA
		carryOut = v&0x01 != 0
		res = v>>1 | (v & 0x80)
	case 6: // SLL / SL1, undocumented: shifts in a 1
		carryOut = v&0x80 != 0
		res = v<<1 | 1
	default: // 7 - SRL
		carryOut = v&0x01 != 0
		res = v >> 1
	}
	var f Flags
	f.C = carryOut
	f.P = Parity(res)
	f.S = res&0x80 != 0
	f.Z = res == 0
	f.X = res&0x08 != 0
	f.Y = res&0x20 != 0
	return res, f
}

// bitFlags computes the flag set for BIT b,x given the value under
// test and the high byte of whatever address supplies the
// undocumented X/Y bits (MEMPTR for (HL), the effective address for
// indexed forms).
func bitFlags(v byte, bit byte, xySource byte) Flags {
	var f Flags
	set := v&(1<<bit) != 0
	f.Z = !set
	f.P = f.Z
	f.H = true
	f.N = false
	f.S = set && bit == 7
	f.X = xySource&0x08 != 0
	f.Y = xySource&0x20 != 0
	return f
}

// execCB dispatches an un-prefixed CB-plane opcode.
func (c *CPU) execCB(op byte) error {
	group := op >> 6
	y := (op >> 3) & 7
	z := op & 7

	get, set := c.regField8(z, prefixNone)

	switch group {
	case 0: // rotate/shift
		v, f := rotateShift(y, get(), c.Regs.F.C)
		set(v)
		c.Regs.F = f
	case 1: // BIT b,r
		v := get()
		xy := v
		if z == 6 {
			xy = byte(c.Regs.MEMPTR >> 8)
		}
		f := bitFlags(v, y, xy)
		// BIT preserves C; H/N/Z/S/P/X/Y are set by bitFlags.
		f.C = c.Regs.F.C
		c.Regs.F = f
	case 2: // RES b,r
		set(get() &^ (1 << y))
	default: // 3 - SET b,r
		set(get() | (1 << y))
	}
	return nil
}

// execIndexedCB handles the DD CB d op / FD CB d op forms. The operand
// is always (IX+d)/(IY+d); for non-BIT operations the result is also
// written back to the named register when z != 6, replicating the
// documented "undocumented" double-write quirk.
func (c *CPU) execIndexedCB(pfx prefix, disp int16, op byte) error {
	group := op >> 6
	y := (op >> 3) & 7
	z := op & 7

	addr := c.indexedAddr(pfx, disp)
	v := c.Mem.Get(addr)

	writeBack := func(res byte) {
		c.Mem.Put(addr, res)
		if z != 6 {
			_, set := c.regField8(z, prefixNone)
			set(res)
		}
	}

	switch group {
	case 0: // rotate/shift
		res, f := rotateShift(y, v, c.Regs.F.C)
		writeBack(res)
		c.Regs.F = f
	case 1: // BIT b,(IX+d)/(IY+d): X/Y come from the effective address
		f := bitFlags(v, y, byte(addr>>8))
		f.C = c.Regs.F.C
		c.Regs.F = f
	case 2: // RES b,(IX+d)
		writeBack(v &^ (1 << y))
	default: // 3 - SET b,(IX+d)
		writeBack(v | (1 << y))
	}
	return nil
}
