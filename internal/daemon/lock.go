package daemon

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

var ErrAlreadyRunning = errors.New("another nasmover watcher is already running")

// Lock keeps a second watcher from starting against the same state directory.
type Lock struct {
	path string
	fl   *flock.Flock
}

func NewLock(path string) *Lock {
	return &Lock{path: path, fl: flock.New(path)}
}

func (l *Lock) Acquire() error {
	ok, err := l.fl.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock %s: %w", l.path, err)
	}
	if !ok {
		return ErrAlreadyRunning
	}

	return nil
}

func (l *Lock) Release() error {
	return l.fl.Unlock()
}

func (l *Lock) Path() string {
	return l.path
}
