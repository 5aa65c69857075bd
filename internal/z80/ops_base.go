package z80

/*
 * zcpm - base dispatch plane (and its DD/FD-prefixed substitution)
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

// execBase dispatches one opcode byte from the base plane (or its
// DD/FD-substituted form, selected by pfx).
func (c *CPU) execBase(pfx prefix, op byte) error { //nolint:gocyclo
	r := &c.Regs

	switch {
	case op == 0x00: // NOP

	case op&0xC7 == 0x01: // LD rp,nn (01,11,21,31)
		_, set := c.reg16((op>>4)&3, pfx)
		set(c.fetchArg16())

	case op == 0x02: // LD (BC),A
		c.Mem.Put(r.BC(), r.A)
	case op == 0x12: // LD (DE),A
		c.Mem.Put(r.DE(), r.A)
	case op == 0x0A: // LD A,(BC)
		r.A = c.Mem.Get(r.BC())
	case op == 0x1A: // LD A,(DE)
		r.A = c.Mem.Get(r.DE())

	case op == 0x22: // LD (nn),HL / SHLD, or (nn),IX/IY
		addr := c.fetchArg16()
		hl := c.hlLike(pfx)
		c.Mem.PutU16(addr, hl)
		r.MEMPTR = addr + 1
	case op == 0x2A: // LD HL,(nn) / LHLD, or IX/IY,(nn)
		addr := c.fetchArg16()
		v := c.Mem.GetU16(addr)
		c.setHLLike(pfx, v)
		r.MEMPTR = addr + 1

	case op == 0x32: // LD (nn),A
		addr := c.fetchArg16()
		c.Mem.Put(addr, r.A)
		r.MEMPTR = uint16(r.A)<<8 | (addr+1)&0xFF
	case op == 0x3A: // LD A,(nn)
		addr := c.fetchArg16()
		r.A = c.Mem.Get(addr)
		r.MEMPTR = addr + 1

	case op&0xC7 == 0x03: // INC rp
		get, set := c.reg16((op>>4)&3, pfx)
		set(get() + 1)
	case op&0xC7 == 0x0B: // DEC rp
		get, set := c.reg16((op>>4)&3, pfx)
		set(get() - 1)

	case op&0xC7 == 0x04: // INC r
		field := (op >> 3) & 7
		get, set := c.regField8(field, pfx)
		v, f := IncDec8(get(), false, r.F.C)
		set(v)
		r.F = f
	case op&0xC7 == 0x05: // DEC r
		field := (op >> 3) & 7
		get, set := c.regField8(field, pfx)
		v, f := IncDec8(get(), true, r.F.C)
		set(v)
		r.F = f

	case op&0xC7 == 0x06: // LD r,n
		field := (op >> 3) & 7
		_, set := c.regField8(field, pfx)
		set(c.fetchArg8())

	case op == 0x07: // RLCA
		carry := r.A&0x80 != 0
		r.A = r.A<<1 | boolBit(carry)
		r.F.C = carry
		r.F.H, r.F.N = false, false
		r.F.X, r.F.Y = r.A&0x08 != 0, r.A&0x20 != 0
	case op == 0x0F: // RRCA
		carry := r.A&0x01 != 0
		r.A = r.A>>1 | boolBit(carry)<<7
		r.F.C = carry
		r.F.H, r.F.N = false, false
		r.F.X, r.F.Y = r.A&0x08 != 0, r.A&0x20 != 0
	case op == 0x17: // RLA
		carry := r.A&0x80 != 0
		r.A = r.A<<1 | boolBit(r.F.C)
		r.F.C = carry
		r.F.H, r.F.N = false, false
		r.F.X, r.F.Y = r.A&0x08 != 0, r.A&0x20 != 0
	case op == 0x1F: // RRA
		carry := r.A&0x01 != 0
		r.A = r.A>>1 | boolBit(r.F.C)<<7
		r.F.C = carry
		r.F.H, r.F.N = false, false
		r.F.X, r.F.Y = r.A&0x08 != 0, r.A&0x20 != 0

	case op == 0x27: // DAA
		r.A, r.F = DAA(r.A, r.F)
	case op == 0x2F: // CPL
		r.A = ^r.A
		r.F.H, r.F.N = true, true
		r.F.X, r.F.Y = r.A&0x08 != 0, r.A&0x20 != 0
	case op == 0x37: // SCF
		r.F.C = true
		r.F.H, r.F.N = false, false
		r.F.X, r.F.Y = r.A&0x08 != 0, r.A&0x20 != 0
	case op == 0x3F: // CCF
		r.F.H = r.F.C
		r.F.C = !r.F.C
		r.F.N = false
		r.F.X, r.F.Y = r.A&0x08 != 0, r.A&0x20 != 0

	case op == 0x08: // EX AF,AF'
		r.ExxAFAlt()
	case op == 0xD9: // EXX
		r.Exx()

	case op == 0x10: // DJNZ e
		e := signExtend(c.fetchArg8())
		r.B--
		if r.B != 0 {
			r.PC = uint16(int32(r.PC) + int32(e))
			r.MEMPTR = r.PC
		}
	case op == 0x18: // JR e
		e := signExtend(c.fetchArg8())
		r.PC = uint16(int32(r.PC) + int32(e))
		r.MEMPTR = r.PC
	case op&0xE7 == 0x20: // JR cc,e (NZ,Z,NC,C)
		e := signExtend(c.fetchArg8())
		if c.condition((op >> 3) & 3) {
			r.PC = uint16(int32(r.PC) + int32(e))
			r.MEMPTR = r.PC
		}

	case op&0xCF == 0x09: // ADD HL,rr (or IX/IY,rr)
		get, _ := c.reg16((op>>4)&3, pfx)
		hl := c.hlLike(pfx)
		res, f := Add16(hl, get())
		c.setHLLike(pfx, res)
		r.F.C, r.F.H, r.F.N, r.F.X, r.F.Y = f.C, f.H, f.N, f.X, f.Y
		r.MEMPTR = hl + 1

	case op == 0x76: // HALT
		c.Halted = true

	case op&0xC0 == 0x40: // LD r,r'
		return c.execLDrr(pfx, op)

	case op&0xC0 == 0x80: // ALU A,r
		field := op & 7
		get, _ := c.regField8(field, pfx)
		c.execALU((op>>3)&7, get())

	case op&0xC7 == 0xC0: // RET cc
		if c.condition((op >> 3) & 7) {
			r.PC = c.pop16()
			r.MEMPTR = r.PC
		}
	case op&0xCF == 0xC1: // POP rp
		_, set := c.reg16Stack((op>>4)&3, pfx)
		set(c.pop16())
	case op&0xC7 == 0xC2: // JP cc,nn
		addr := c.fetchArg16()
		r.MEMPTR = addr
		if c.condition((op >> 3) & 7) {
			r.PC = addr
		}
	case op == 0xC3: // JP nn
		addr := c.fetchArg16()
		r.PC = addr
		r.MEMPTR = addr
	case op&0xC7 == 0xC4: // CALL cc,nn
		addr := c.fetchArg16()
		r.MEMPTR = addr
		if c.condition((op >> 3) & 7) {
			c.push16(r.PC)
			r.PC = addr
		}
	case op&0xCF == 0xC5: // PUSH rp
		get, _ := c.reg16Stack((op>>4)&3, pfx)
		c.push16(get())
	case op&0xC0 == 0xC0 && op&7 == 6: // ALU A,n
		c.execALU((op>>3)&7, c.fetchArg8())
	case op&0xC7 == 0xC7: // RST n
		c.push16(r.PC)
		r.PC = uint16(op & 0x38)
		r.MEMPTR = r.PC
	case op == 0xC9: // RET
		r.PC = c.pop16()
		r.MEMPTR = r.PC
	case op == 0xCD: // CALL nn
		addr := c.fetchArg16()
		r.MEMPTR = addr
		c.push16(r.PC)
		r.PC = addr

	case op == 0xD3: // OUT (n),A - no device behind this port, no-op
		_ = c.fetchArg8()
	case op == 0xDB: // IN A,(n) - reads 0
		_ = c.fetchArg8()
		r.A = 0

	case op == 0xE3: // EX (SP),HL (or IX/IY)
		v := c.Mem.GetU16(r.SP)
		old := c.hlLike(pfx)
		c.Mem.PutU16(r.SP, old)
		c.setHLLike(pfx, v)
		r.MEMPTR = v
	case op == 0xE9: // JP (HL) (or IX/IY) - no memory indirection
		r.PC = c.hlLike(pfx)
	case op == 0xEB: // EX DE,HL
		de, hl := r.DE(), r.HL()
		r.SetDE(hl)
		r.SetHL(de)

	case op == 0xF3: // DI
		r.IFF1, r.IFF2 = false, false
	case op == 0xFB: // EI
		r.IFF1, r.IFF2 = true, true

	case op == 0xF9: // LD SP,HL (or IX/IY)
		r.SP = c.hlLike(pfx)

	default:
		// Every remaining base-plane byte not covered above is an
		// undocumented alias already handled by a broader mask case.
	}

	return nil
}

// execLDrr implements the 0x40-0x7F LD r,r' block including HALT
// (0x76). H/L substitutes to IXH/IXL/IYH/IYL only when the OTHER
// operand field is not (HL); when one side is (HL)/(IX+d), the plain
// register side always stays on the main bank.
func (c *CPU) execLDrr(pfx prefix, op byte) error {
	dst := (op >> 3) & 7
	src := op & 7

	if dst == 6 && src == 6 {
		c.Halted = true
		return nil
	}

	otherIsIndirect := dst == 6 || src == 6
	effPfx := pfx

	var disp int16
	hasDisp := pfx != prefixNone && otherIsIndirect
	if hasDisp {
		// The displacement belongs to whichever field is (HL); fetch
		// it once, before reading/writing either operand.
		disp = signExtend(c.fetchArg8())
	}

	readField := func(field byte) byte {
		if field == 6 {
			if pfx == prefixNone {
				return c.Mem.Get(c.Regs.HL())
			}
			addr := c.indexedAddr(pfx, disp)
			return c.Mem.Get(addr)
		}
		p := effPfx
		if otherIsIndirect {
			p = prefixNone
		}
		get, _ := c.regField8(field, p)
		return get()
	}
	writeField := func(field byte, v byte) {
		if field == 6 {
			if pfx == prefixNone {
				c.Mem.Put(c.Regs.HL(), v)
				return
			}
			addr := c.indexedAddr(pfx, disp)
			c.Mem.Put(addr, v)
			return
		}
		p := effPfx
		if otherIsIndirect {
			p = prefixNone
		}
		_, set := c.regField8(field, p)
		set(v)
	}

	v := readField(src)
	writeField(dst, v)
	return nil
}

// execALU applies one of the eight ALU-A operations (ADD,ADC,SUB,SBC,
// AND,XOR,OR,CP) selected by the 3-bit field used in both the 0x80-0xBF
// block and the 0xC6-style immediate forms.
func (c *CPU) execALU(op byte, operand byte) {
	r := &c.Regs
	switch op & 7 {
	case 0: // ADD A,x
		r.A, r.F = Add8(r.A, operand, false)
	case 1: // ADC A,x
		r.A, r.F = Add8(r.A, operand, r.F.C)
	case 2: // SUB x
		r.A, r.F = Sub8(r.A, operand, false)
	case 3: // SBC A,x
		r.A, r.F = Sub8(r.A, operand, r.F.C)
	case 4: // AND x
		r.A, r.F = And8(r.A, operand)
	case 5: // XOR x
		r.A, r.F = Xor8(r.A, operand)
	case 6: // OR x
		r.A, r.F = Or8(r.A, operand)
	case 7: // CP x - like SUB but discard result; X/Y come from the
		// operand being compared, not from the (discarded) difference
		_, f := Sub8(r.A, operand, false)
		f.X = operand&0x08 != 0
		f.Y = operand&0x20 != 0
		r.F = f
	}
}

func boolBit(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// hlLike/setHLLike read or write HL, or IX/IY when a DD/FD prefix is
// active, for the handful of base-plane opcodes that substitute the
// whole pair (ADD HL,rr; SHLD/LHLD; EX (SP),HL; JP (HL); LD SP,HL).
func (c *CPU) hlLike(pfx prefix) uint16 {
	switch pfx {
	case prefixDD:
		return c.Regs.IX
	case prefixFD:
		return c.Regs.IY
	default:
		return c.Regs.HL()
	}
}

func (c *CPU) setHLLike(pfx prefix, v uint16) {
	switch pfx {
	case prefixDD:
		c.Regs.IX = v
	case prefixFD:
		c.Regs.IY = v
	default:
		c.Regs.SetHL(v)
	}
}
