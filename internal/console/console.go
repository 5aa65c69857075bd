/*
 * zcpm - interactive console: raw-mode stdin/stdout over the host
 * terminal, with F10 mapped to SIGINT per the cancellation contract
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

package console

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/term"
)

// f10Sequence is the xterm escape sequence for the F10 key.
var f10Sequence = []byte{0x1b, '[', '2', '1', '~'}

// Console owns the host terminal file descriptor in raw, non-blocking
// mode. Start/Stop bracket the whole run; TryReadByte never blocks, so
// the run loop's poll callback can drive it.
type Console struct {
	fd       int
	oldState *term.State
	raw      bool

	// OnCancel is invoked once when the F10 escape sequence is seen on
	// stdin. The host wires this to raising SIGINT against itself.
	OnCancel func()

	escBuf []byte
}

// New returns a Console bound to stdin/stdout.
func New() *Console {
	return &Console{fd: int(os.Stdin.Fd())}
}

// Start switches the terminal to raw, non-blocking mode.
func (c *Console) Start() error {
	oldState, err := term.MakeRaw(c.fd)
	if err != nil {
		return err
	}
	c.oldState = oldState
	c.raw = true
	return syscall.SetNonblock(c.fd, true)
}

// Stop restores the terminal to its original (cooked) state. Safe to
// call even if Start failed or was never called.
func (c *Console) Stop() {
	if c.raw && c.oldState != nil {
		_ = term.Restore(c.fd, c.oldState)
		c.raw = false
	}
}

// TryReadByte performs one non-blocking read. ok is false when no
// byte is currently available. F10 sequences are intercepted and
// never returned to the caller.
func (c *Console) TryReadByte() (b byte, ok bool) {
	buf := make([]byte, 1)
	n, err := syscall.Read(c.fd, buf)
	if n <= 0 || err != nil {
		return 0, false
	}
	b = buf[0]
	if c.feedCancelDetector(b) {
		return 0, false
	}
	return b, true
}

// feedCancelDetector folds b into the pending F10-escape match buffer,
// firing OnCancel and consuming the whole sequence when it completes.
// Returns true when b was consumed as part of a (possible) sequence.
func (c *Console) feedCancelDetector(b byte) bool {
	if len(c.escBuf) == 0 && b != f10Sequence[0] {
		return false
	}
	c.escBuf = append(c.escBuf, b)
	for i, want := range f10Sequence[:len(c.escBuf)] {
		if c.escBuf[i] != want {
			c.escBuf = nil
			return false
		}
	}
	if len(c.escBuf) == len(f10Sequence) {
		c.escBuf = nil
		if c.OnCancel != nil {
			c.OnCancel()
		}
	}
	return true
}

// ReadByteBlocking polls until a byte is available, calling poll on
// every empty attempt (about once a millisecond) so the caller can
// service cancellation and periodic housekeeping meanwhile.
func (c *Console) ReadByteBlocking(poll func()) byte {
	for {
		if b, ok := c.TryReadByte(); ok {
			return b
		}
		if poll != nil {
			poll()
		}
		time.Sleep(time.Millisecond)
	}
}

// WriteByte writes a single raw byte to stdout.
func (c *Console) WriteByte(b byte) {
	_, _ = os.Stdout.Write([]byte{b})
}

// WriteString writes a string of raw bytes to stdout.
func (c *Console) WriteString(s string) {
	_, _ = os.Stdout.WriteString(s)
}
