package z80

/*
 * zcpm - shared operand decoding: register fields, register pairs,
 * condition codes, stack push/pop
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

// regField8 resolves one of the eight 3-bit operand8 fields (B C D E H
// L (HL) A) to a get/set pair. Under a DD/FD prefix, H/L is promoted
// to IXH/IXL or IYH/IYL and (HL) is promoted to (IX+d)/(IY+d), fetching
// the displacement byte as it goes. No "other field is (HL)" exception
// applies here, since every caller of regField8 has only one
// register-field operand.
func (c *CPU) regField8(field byte, pfx prefix) (get func() byte, set func(byte)) {
	switch field & 7 {
	case 0:
		return func() byte { return c.Regs.B }, func(v byte) { c.Regs.B = v }
	case 1:
		return func() byte { return c.Regs.C }, func(v byte) { c.Regs.C = v }
	case 2:
		return func() byte { return c.Regs.D }, func(v byte) { c.Regs.D = v }
	case 3:
		return func() byte { return c.Regs.E }, func(v byte) { c.Regs.E = v }
	case 4:
		switch pfx {
		case prefixDD:
			return func() byte { return c.Regs.IXH() }, func(v byte) { c.Regs.SetIXH(v) }
		case prefixFD:
			return func() byte { return c.Regs.IYH() }, func(v byte) { c.Regs.SetIYH(v) }
		default:
			return func() byte { return c.Regs.H }, func(v byte) { c.Regs.H = v }
		}
	case 5:
		switch pfx {
		case prefixDD:
			return func() byte { return c.Regs.IXL() }, func(v byte) { c.Regs.SetIXL(v) }
		case prefixFD:
			return func() byte { return c.Regs.IYL() }, func(v byte) { c.Regs.SetIYL(v) }
		default:
			return func() byte { return c.Regs.L }, func(v byte) { c.Regs.L = v }
		}
	case 6:
		if pfx == prefixNone {
			addr := c.Regs.HL()
			return func() byte { return c.Mem.Get(addr) }, func(v byte) { c.Mem.Put(addr, v) }
		}
		disp := signExtend(c.fetchArg8())
		addr := c.indexedAddr(pfx, disp)
		return func() byte { return c.Mem.Get(addr) }, func(v byte) { c.Mem.Put(addr, v) }
	default: // 7
		return func() byte { return c.Regs.A }, func(v byte) { c.Regs.A = v }
	}
}

// reg16 resolves a 2-bit register-pair field (00=BC 01=DE 10=HL/IX/IY
// 11=SP) used by LD rp,nn / INC rp / DEC rp / ADD HL,rr.
func (c *CPU) reg16(pp byte, pfx prefix) (get func() uint16, set func(uint16)) {
	switch pp & 3 {
	case 0:
		return c.Regs.BC, c.Regs.SetBC
	case 1:
		return c.Regs.DE, c.Regs.SetDE
	case 2:
		switch pfx {
		case prefixDD:
			return func() uint16 { return c.Regs.IX }, func(v uint16) { c.Regs.IX = v }
		case prefixFD:
			return func() uint16 { return c.Regs.IY }, func(v uint16) { c.Regs.IY = v }
		default:
			return c.Regs.HL, c.Regs.SetHL
		}
	default: // 3
		return func() uint16 { return c.Regs.SP }, func(v uint16) { c.Regs.SP = v }
	}
}

// reg16Stack resolves the register-pair field used by PUSH/POP, where
// the third pair is AF rather than SP.
func (c *CPU) reg16Stack(qq byte, pfx prefix) (get func() uint16, set func(uint16)) {
	switch qq & 3 {
	case 0:
		return c.Regs.BC, c.Regs.SetBC
	case 1:
		return c.Regs.DE, c.Regs.SetDE
	case 2:
		switch pfx {
		case prefixDD:
			return func() uint16 { return c.Regs.IX }, func(v uint16) { c.Regs.IX = v }
		case prefixFD:
			return func() uint16 { return c.Regs.IY }, func(v uint16) { c.Regs.IY = v }
		default:
			return c.Regs.HL, c.Regs.SetHL
		}
	default: // 3 - AF
		return c.Regs.AF, c.Regs.SetAF
	}
}

// condition evaluates one of the 8 three-bit condition codes used by
// conditional JP/CALL/RET (and the first four by JR).
func (c *CPU) condition(cc byte) bool {
	f := &c.Regs.F
	switch cc & 7 {
	case 0:
		return !f.Z
	case 1:
		return f.Z
	case 2:
		return !f.C
	case 3:
		return f.C
	case 4:
		return !f.P
	case 5:
		return f.P
	case 6:
		return !f.S
	default:
		return f.S
	}
}

func (c *CPU) push16(v uint16) {
	c.Regs.SP -= 2
	c.Mem.PutU16(c.Regs.SP, v)
}

func (c *CPU) pop16() uint16 {
	v := c.Mem.GetU16(c.Regs.SP)
	c.Regs.SP += 2
	return v
}
