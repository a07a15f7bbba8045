package autostart

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls [][]string
	fail  string
}

func (r *recorder) run(name string, args ...string) ([]byte, error) {
	call := append([]string{name}, args...)
	r.calls = append(r.calls, call)
	if r.fail != "" && strings.Contains(strings.Join(call, " "), r.fail) {
		return []byte("boom"), errors.New("exit status 1")
	}
	return nil, nil
}

func TestWriteUnit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeUnit(&buf, "/usr/local/bin/nasmover"))

	unit := buf.String()
	assert.Contains(t, unit, "ExecStart=/usr/local/bin/nasmover watch")
	assert.Contains(t, unit, "[Service]")
	assert.Contains(t, unit, "After=network-online.target")
}

func TestLinuxInstallAndUninstall(t *testing.T) {
	rec := &recorder{}
	l := &LinuxAutoStarter{run: rec.run, unitDir: t.TempDir()}

	require.NoError(t, l.Install("/opt/nasmover"))
	installed, err := l.IsInstalled()
	require.NoError(t, err)
	assert.True(t, installed)
	assert.Equal(t, []string{"systemctl", "--user", "start", unitName}, rec.calls[len(rec.calls)-1])

	require.NoError(t, l.Uninstall())
	installed, err = l.IsInstalled()
	require.NoError(t, err)
	assert.False(t, installed)
}

func TestLinuxInstallReportsSystemctlFailure(t *testing.T) {
	rec := &recorder{fail: "enable"}
	l := &LinuxAutoStarter{run: rec.run, unitDir: t.TempDir()}

	err := l.Install("/opt/nasmover")
	assert.ErrorContains(t, err, "boom")
}

func TestWindowsInstall(t *testing.T) {
	rec := &recorder{}
	w := &WindowsAutoStarter{run: rec.run}

	require.NoError(t, w.Install(`C:\tools\nasmover.exe`))
	require.Len(t, rec.calls, 1)
	assert.Contains(t, rec.calls[0], `"C:\tools\nasmover.exe" watch`)
	assert.Contains(t, rec.calls[0], "ONLOGON")

	rec.fail = "/Query"
	installed, err := w.IsInstalled()
	require.NoError(t, err)
	assert.False(t, installed)
}
