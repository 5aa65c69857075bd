/*
 * zcpm - configuration file parser test set.
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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zcpm.cfg")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDrives(t *testing.T) {
	path := writeConfig(t, "drive A /cpm/a\ndrive B ro /cpm/b\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Drives[0])
	require.Equal(t, byte('A'), cfg.Drives[0].Letter)
	require.Equal(t, "/cpm/a", cfg.Drives[0].Path)
	require.False(t, cfg.Drives[0].ReadOnly)

	require.NotNil(t, cfg.Drives[1])
	require.True(t, cfg.Drives[1].ReadOnly)
	require.Equal(t, "/cpm/b", cfg.Drives[1].Path)
}

func TestLoadCommentsAndBlankLines(t *testing.T) {
	path := writeConfig(t, "# full line comment\n\ndrive A /cpm/a  # trailing comment\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/cpm/a", cfg.Drives[0].Path)
}

func TestLoadCharsetAndLog(t *testing.T) {
	path := writeConfig(t, "charset /etc/zcpm.cs\nlog /var/log/zcpm.log\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/etc/zcpm.cs", cfg.CharsetPath)
	require.Equal(t, "/var/log/zcpm.log", cfg.LogPath)
}

func TestLoadCloseFilesKeep(t *testing.T) {
	path := writeConfig(t, "closefiles keep\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, cfg.KeepFilesOpen)
}

func TestLoadThrottle(t *testing.T) {
	path := writeConfig(t, "throttle every=131072 sleepms=5\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, uint64(131072), cfg.ThrottleEvery)
	require.Equal(t, 5*time.Millisecond, cfg.ThrottleSleep)
}

func TestLoadUnknownDirective(t *testing.T) {
	path := writeConfig(t, "bogus thing\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadBadDriveLetter(t *testing.T) {
	path := writeConfig(t, "drive Z /cpm/z\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/zcpm.cfg")
	require.Error(t, err)
}

func TestNewIsEmpty(t *testing.T) {
	cfg := New()
	for _, d := range cfg.Drives {
		require.Nil(t, d)
	}
	require.Equal(t, "", cfg.CharsetPath)
}
