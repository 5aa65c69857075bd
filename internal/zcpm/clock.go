package zcpm

/*
 * zcpm - CP/M-3 packed date/time: day count since 1978-01-01 plus BCD
 * hour/minute/second, shared by BDOS functions 102 and 105
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

import "time"

// cpmEpoch is day 1 of the CP/M-3 packed day count.
var cpmEpoch = time.Date(1978, 1, 1, 0, 0, 0, 0, time.UTC)

// packedDay returns the 1-based day count since cpmEpoch, in UTC, the
// way CP/M 3's date stamps encode a day.
func packedDay(t time.Time) uint16 {
	t = t.UTC()
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	days := int(midnight.Sub(cpmEpoch).Hours() / 24)
	return uint16(days + 1)
}

// toBCD packs a 0..99 value into one byte of binary-coded decimal.
func toBCD(n int) byte {
	return byte((n/10)<<4 | (n % 10))
}

// packedTime splits t (in UTC) into its CP/M day count and BCD
// hour/minute/second components.
func packedTime(t time.Time) (day uint16, hour, min, sec byte) {
	day = packedDay(t)
	t = t.UTC()
	hour = toBCD(t.Hour())
	min = toBCD(t.Minute())
	sec = toBCD(t.Second())
	return
}
