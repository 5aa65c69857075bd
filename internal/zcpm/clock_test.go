/*
 * zcpm - CP/M-3 packed date/time test set.
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

package zcpm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPackedDayEpoch(t *testing.T) {
	require.Equal(t, uint16(1), packedDay(time.Date(1978, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, uint16(2), packedDay(time.Date(1978, 1, 2, 12, 30, 0, 0, time.UTC)))
}

func TestPackedDayKnownInstant(t *testing.T) {
	require.Equal(t, uint16(8036), packedDay(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestPackedTimeComponents(t *testing.T) {
	day, hour, min, sec := packedTime(time.Date(2000, 1, 1, 13, 45, 9, 0, time.UTC))
	require.Equal(t, uint16(8036), day)
	require.Equal(t, byte(0x13), hour)
	require.Equal(t, byte(0x45), min)
	require.Equal(t, byte(0x09), sec)
}

func TestToBCD(t *testing.T) {
	require.Equal(t, byte(0x00), toBCD(0))
	require.Equal(t, byte(0x09), toBCD(9))
	require.Equal(t, byte(0x10), toBCD(10))
	require.Equal(t, byte(0x59), toBCD(59))
}
