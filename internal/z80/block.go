package z80

/*
 * zcpm - ED block instructions: LDI/LDD/LDIR/LDDR, CPI/CPD/CPIR/CPDR,
 * INI/IND/INIR/INDR, OUTI/OUTD/OTIR/OTDR
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

// execEDBlock dispatches the sixteen documented block-move/search/IO
// opcodes plus their repeating forms. The *IR/*DR variants run to
// completion inside this single call rather than yielding one
// iteration per Step, so a poll that lands mid-block sees it as
// already finished; for the console/keyboard polling this host does,
// that is not observable.
func (c *CPU) execEDBlock(op byte) error {
	switch op {
	case 0xA0:
		c.ldStep(1)
	case 0xA8:
		c.ldStep(-1)
	case 0xB0:
		for {
			c.ldStep(1)
			if c.Regs.BC() == 0 {
				break
			}
		}
	case 0xB8:
		for {
			c.ldStep(-1)
			if c.Regs.BC() == 0 {
				break
			}
		}

	case 0xA1:
		c.cpStep(1)
	case 0xA9:
		c.cpStep(-1)
	case 0xB1:
		for {
			c.cpStep(1)
			if c.Regs.BC() == 0 || c.Regs.F.Z {
				break
			}
		}
	case 0xB9:
		for {
			c.cpStep(-1)
			if c.Regs.BC() == 0 || c.Regs.F.Z {
				break
			}
		}

	case 0xA2:
		c.inStep(1)
	case 0xAA:
		c.inStep(-1)
	case 0xB2:
		for {
			c.inStep(1)
			if c.Regs.B == 0 {
				break
			}
		}
	case 0xBA:
		for {
			c.inStep(-1)
			if c.Regs.B == 0 {
				break
			}
		}

	case 0xA3:
		c.outStep(1)
	case 0xAB:
		c.outStep(-1)
	case 0xB3:
		for {
			c.outStep(1)
			if c.Regs.B == 0 {
				break
			}
		}
	case 0xBB:
		for {
			c.outStep(-1)
			if c.Regs.B == 0 {
				break
			}
		}

	default: // undocumented: no-op
	}
	return nil
}

// ldStep implements one LDI/LDD iteration: copy (HL) to (DE), step
// both by dir, decrement BC, and set the undocumented X/Y from
// A + transferred byte.
func (c *CPU) ldStep(dir int16) {
	r := &c.Regs
	v := c.Mem.Get(r.HL())
	c.Mem.Put(r.DE(), v)
	r.SetHL(uint16(int32(r.HL()) + int32(dir)))
	r.SetDE(uint16(int32(r.DE()) + int32(dir)))
	r.SetBC(r.BC() - 1)

	n := r.A + v
	f := r.F
	f.H = false
	f.N = false
	f.P = r.BC() != 0
	f.X = n&0x08 != 0
	f.Y = n&0x02 != 0
	r.F = f
}

// cpStep implements one CPI/CPD iteration: CP A,(HL) without touching
// C, step HL by dir, decrement BC.
func (c *CPU) cpStep(dir int16) {
	r := &c.Regs
	v := c.Mem.Get(r.HL())
	res, f := Sub8(r.A, v, false)
	f.C = r.F.C
	r.SetHL(uint16(int32(r.HL()) + int32(dir)))
	r.SetBC(r.BC() - 1)
	f.P = r.BC() != 0

	n := r.A - v
	if f.H {
		n--
	}
	f.X = n&0x08 != 0
	f.Y = n&0x02 != 0
	r.F = f
	_ = res
}

// inStep implements one INI/IND iteration: read port C into (HL),
// step HL by dir, decrement B.
func (c *CPU) inStep(dir int16) {
	r := &c.Regs
	v := c.inPort(r.C)
	c.Mem.Put(r.HL(), v)
	r.SetHL(uint16(int32(r.HL()) + int32(dir)))
	r.B--

	f := r.F
	f.Z = r.B == 0
	f.N = v&0x80 != 0
	f.S = r.B&0x80 != 0
	f.X = r.B&0x08 != 0
	f.Y = r.B&0x20 != 0
	k := int(v) + int(byte(int16(r.C)+dir))
	f.H = k > 0xFF
	f.C = f.H
	f.P = Parity(byte(k&7) ^ r.B)
	r.F = f
}

// outStep implements one OUTI/OUTD iteration: write (HL) to port C,
// step HL by dir, decrement B.
func (c *CPU) outStep(dir int16) {
	r := &c.Regs
	v := c.Mem.Get(r.HL())
	c.outPort(r.C, v)
	r.SetHL(uint16(int32(r.HL()) + int32(dir)))
	r.B--

	f := r.F
	f.Z = r.B == 0
	f.N = v&0x80 != 0
	f.S = r.B&0x80 != 0
	f.X = r.B&0x08 != 0
	f.Y = r.B&0x20 != 0
	k := int(v) + int(r.L)
	f.H = k > 0xFF
	f.C = f.H
	f.P = Parity(byte(k&7) ^ r.B)
	r.F = f
}
