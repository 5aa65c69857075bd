package z80

/*
 * zcpm - prefix-collapsing fetch and dispatch-plane selection
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

// fetch8 reads the byte at PC, advances PC, and bumps the refresh
// counter (every M1 fetch, including prefix bytes, bumps it).
func (c *CPU) fetch8() byte {
	b := c.Mem.Get(c.Regs.PC)
	c.Regs.PC++
	c.Regs.BumpR()
	return b
}

// fetchArg8 reads the byte at PC as an instruction argument (imm8 or
// displacement): it advances PC but does not bump R, since only
// opcode (M1) fetches do.
func (c *CPU) fetchArg8() byte {
	b := c.Mem.Get(c.Regs.PC)
	c.Regs.PC++
	return b
}

func (c *CPU) fetchArg16() uint16 {
	lo := c.fetchArg8()
	hi := c.fetchArg8()
	return uint16(hi)<<8 | uint16(lo)
}

func signExtend(b byte) int16 {
	return int16(int8(b))
}

// decode accumulates at most one active DD/FD prefix (a later prefix
// overwrites an earlier one), fetches the primary opcode, and selects
// the CB/ED/base dispatch plane.
func (c *CPU) decode() error {
	pfx := prefixNone

	op := c.fetch8()
	for op == 0xDD || op == 0xFD {
		if op == 0xDD {
			pfx = prefixDD
		} else {
			pfx = prefixFD
		}
		op = c.fetch8()
	}

	switch op {
	case 0xCB:
		if pfx == prefixNone {
			cbOp := c.fetch8()
			return c.execCB(cbOp)
		}
		// Indexed CB form: displacement precedes the CB-opcode byte.
		disp := signExtend(c.fetchArg8())
		cbOp := c.fetchArg8()
		return c.execIndexedCB(pfx, disp, cbOp)

	case 0xED:
		// Index prefix has no effect on the ED plane.
		edOp := c.fetch8()
		return c.execED(edOp)

	default:
		return c.execBase(pfx, op)
	}
}

// indexedAddr computes (IX+d) or (IY+d), latching the result into
// MEMPTR, as the indexed (HL) substitution requires.
func (c *CPU) indexedAddr(pfx prefix, disp int16) uint16 {
	base := c.Regs.IX
	if pfx == prefixFD {
		base = c.Regs.IY
	}
	addr := uint16(int32(base) + int32(disp))
	c.Regs.MEMPTR = addr
	return addr
}
