package daemon

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockIsExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nasmover.lock")

	first := NewLock(path)
	require.NoError(t, first.Acquire())

	second := NewLock(path)
	assert.ErrorIs(t, second.Acquire(), ErrAlreadyRunning)

	require.NoError(t, first.Release())
	require.NoError(t, second.Acquire())
	require.NoError(t, second.Release())
}
