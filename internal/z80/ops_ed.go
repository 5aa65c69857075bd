package z80

/*
 * zcpm - ED dispatch plane: extended loads, 16-bit ADC/SBC, NEG,
 * RETN/RETI, IM, I/R transfers, RRD/RLD, and the block instructions
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

// execED dispatches an ED-prefixed opcode. The host never runs real
// peripherals behind IN/OUT; ports read as 0 and writes are discarded,
// which is enough for programs that only probe the flag side effects.
// Bytes outside the documented 0x40-0x7F and 0xA0-0xBF ranges are
// undocumented no-ops on real silicon and are treated the same way
// here.
func (c *CPU) execED(op byte) error {
	switch {
	case op >= 0xA0 && op <= 0xBF:
		return c.execEDBlock(op)
	case op >= 0x40 && op <= 0x7F:
		return c.execEDGeneral(op)
	default:
		return nil
	}
}

func (c *CPU) execEDGeneral(op byte) error {
	y := (op >> 3) & 7
	z := op & 7
	p := y >> 1
	q := y & 1

	switch z {
	case 0: // IN r,(C) / IN (C)
		v := c.inPort(c.Regs.C)
		if y != 6 {
			_, set := c.regField8(y, prefixNone)
			set(v)
		}
		f := c.Regs.F
		f.S = v&0x80 != 0
		f.Z = v == 0
		f.H = false
		f.N = false
		f.P = Parity(v)
		f.X = v&0x08 != 0
		f.Y = v&0x20 != 0
		c.Regs.F = f

	case 1: // OUT (C),r / OUT (C),0
		var v byte
		if y != 6 {
			get, _ := c.regField8(y, prefixNone)
			v = get()
		}
		c.outPort(c.Regs.C, v)

	case 2: // ADC/SBC HL,rr
		get, _ := c.reg16(p, prefixNone)
		res, f := Adc16Sbc16(c.Regs.HL(), get(), c.Regs.F.C, q == 0)
		c.Regs.SetHL(res)
		c.Regs.F = f

	case 3: // LD (nn),rr / LD rr,(nn)
		addr := c.fetchArg16()
		get, set := c.reg16(p, prefixNone)
		if q == 0 {
			c.Mem.PutU16(addr, get())
		} else {
			set(c.Mem.GetU16(addr))
		}
		c.Regs.MEMPTR = addr + 1

	case 4: // NEG (all y, undocumented duplicates included)
		res, f := Sub8(0, c.Regs.A, false)
		c.Regs.A = res
		c.Regs.F = f

	case 5: // RETN (y==0) / RETI (y==1, and undocumented duplicates)
		c.Regs.IFF1 = c.Regs.IFF2
		c.Regs.PC = c.pop16()

	case 6: // IM 0/1/2: no interrupt controller is modeled, so this is
		// purely cosmetic bookkeeping and has no observable effect.

	default: // 7 - I/R transfers, RRD/RLD
		switch y {
		case 0: // LD I,A
			c.Regs.I = c.Regs.A
		case 1: // LD R,A
			c.Regs.R = c.Regs.A
		case 2: // LD A,I
			c.Regs.A = c.Regs.I
			c.setIRFlags(c.Regs.I)
		case 3: // LD A,R
			c.Regs.A = c.Regs.R
			c.setIRFlags(c.Regs.R)
		case 4: // RRD
			c.execRRD()
		case 5: // RLD
			c.execRLD()
		default: // 6, 7 - undocumented NOP
		}
	}
	return nil
}

// setIRFlags applies the LD A,I / LD A,R flag rule: S/Z/X/Y from the
// loaded value, H=N=0, P/V = IFF2, C unchanged.
func (c *CPU) setIRFlags(v byte) {
	f := c.Regs.F
	f.S = v&0x80 != 0
	f.Z = v == 0
	f.H = false
	f.N = false
	f.P = c.Regs.IFF2
	f.X = v&0x08 != 0
	f.Y = v&0x20 != 0
	c.Regs.F = f
}

// execRRD rotates the low nibble of (HL) into A's low nibble, A's old
// low nibble into (HL)'s high nibble, and (HL)'s high nibble into its
// own low nibble - a 12-bit rotate through memory and A.
func (c *CPU) execRRD() {
	addr := c.Regs.HL()
	m := c.Mem.Get(addr)
	a := c.Regs.A
	c.Regs.A = (a & 0xF0) | (m & 0x0F)
	c.Mem.Put(addr, (a<<4)|(m>>4))
	c.Regs.MEMPTR = addr + 1
	c.rrdRldFlags()
}

func (c *CPU) execRLD() {
	addr := c.Regs.HL()
	m := c.Mem.Get(addr)
	a := c.Regs.A
	c.Regs.A = (a & 0xF0) | (m >> 4)
	c.Mem.Put(addr, (m<<4)|(a&0x0F))
	c.Regs.MEMPTR = addr + 1
	c.rrdRldFlags()
}

func (c *CPU) rrdRldFlags() {
	a := c.Regs.A
	f := c.Regs.F
	f.S = a&0x80 != 0
	f.Z = a == 0
	f.H = false
	f.N = false
	f.P = Parity(a)
	f.X = a&0x08 != 0
	f.Y = a&0x20 != 0
	c.Regs.F = f
}

// inPort and outPort model a host with no peripherals: reads come back
// zero (matching the base-plane IN A,(n) at 0xDB), writes are
// discarded. A real deployment wiring an actual device behind IN/OUT
// would replace these.
func (c *CPU) inPort(_ byte) byte {
	return 0
}

func (c *CPU) outPort(_, _ byte) {}
