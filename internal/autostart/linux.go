package autostart

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"
)

const unitName = "nasmover.service"

const serviceTemplate = `[Unit]
Description=nasmover watch-and-relocate daemon
Wants=network-online.target
After=network-online.target remote-fs.target

[Service]
ExecStart={{.ExecPath}} watch
Restart=on-failure
RestartSec=10

[Install]
WantedBy=default.target
`

var serviceTmpl = template.Must(template.New("service").Parse(serviceTemplate))

type LinuxAutoStarter struct {
	run     runFunc
	unitDir string
}

func (l *LinuxAutoStarter) servicePath() (string, error) {
	dir := l.unitDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config", "systemd", "user")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(dir, unitName), nil
}

func writeUnit(w io.Writer, execPath string) error {
	return serviceTmpl.Execute(w, map[string]string{"ExecPath": execPath})
}

func (l *LinuxAutoStarter) Install(execPath string) error {
	path, err := l.servicePath()
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create service file: %w", err)
	}

	if err := writeUnit(f, execPath); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write service file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write service file: %w", err)
	}

	cmds := [][]string{
		{"systemctl", "--user", "daemon-reload"},
		{"systemctl", "--user", "enable", unitName},
		{"systemctl", "--user", "start", unitName},
	}

	for _, args := range cmds {
		if out, err := l.run(args[0], args[1:]...); err != nil {
			return fmt.Errorf("failed to run %v: %w\n%s", args, err, out)
		}
	}

	return nil
}

func (l *LinuxAutoStarter) Uninstall() error {
	cmds := [][]string{
		{"systemctl", "--user", "stop", unitName},
		{"systemctl", "--user", "disable", unitName},
	}

	for _, args := range cmds {
		_, _ = l.run(args[0], args[1:]...)
	}

	path, err := l.servicePath()
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

func (l *LinuxAutoStarter) IsInstalled() (bool, error) {
	path, err := l.servicePath()
	if err != nil {
		return false, err
	}

	_, err = os.Stat(path)
	return err == nil, nil
}
