package zcpm

/*
 * zcpm - run loop wiring: signal-driven termination and console
 * lifecycle around the Z80 core's Run
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

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rcornwell/zcpm/internal/dump"
)

// Run starts the console, wires SIGINT/SIGTERM/SIGQUIT to an orderly
// ErrSignal termination, runs the CPU to completion, and restores the
// terminal before returning.
func (m *Machine) Run() error {
	if m.Console != nil {
		m.Console.OnCancel = func() { _ = syscall.Kill(os.Getpid(), syscall.SIGINT) }
		if err := m.Console.Start(); err != nil {
			return err
		}
		defer m.Console.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sigCh)

	dumpCh := make(chan os.Signal, 1)
	signal.Notify(dumpCh, syscall.SIGUSR1)
	defer signal.Stop(dumpCh)

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-sigCh:
				m.Terminate(ErrSignal)
				return
			case <-dumpCh:
				dump.Registers(os.Stderr, &m.CPU.Regs)
				dump.MemoryAround(os.Stderr, m.Mem, m.CPU.Regs.PC, 32)
			case <-done:
				return
			}
		}
	}()

	return m.CPU.Run()
}
