package cleanup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAged(t *testing.T, path string, age time.Duration, now time.Time) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(filepath.Base(path)), 0644))

	mtime := now.Add(-age)
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestScanAndDeleteByAge(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	day := 24 * time.Hour

	old := filepath.Join(dir, "old.log")
	fresh := filepath.Join(dir, "fresh.log")
	writeAged(t, old, 90*day, now)
	writeAged(t, fresh, 10*day, now)

	candidates, err := Scan(dir, Options{Days: 60, Now: now})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, old, candidates[0].Path)

	deleted, err := Delete(candidates)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
}

func TestScanRecursive(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	nested := filepath.Join(dir, "sub", "nested.bin")
	writeAged(t, nested, 100*24*time.Hour, now)

	flat, err := Scan(dir, Options{Days: 60, Now: now})
	require.NoError(t, err)
	assert.Empty(t, flat)

	deep, err := Scan(dir, Options{Days: 60, Recursive: true, Now: now})
	require.NoError(t, err)
	require.Len(t, deep, 1)
	assert.Equal(t, nested, deep[0].Path)
	assert.Equal(t, int64(len("nested.bin")), TotalSize(deep))
}

func TestScanRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := Scan(file, Options{Days: 1})
	assert.Error(t, err)

	_, err = Scan(dir, Options{Days: -1})
	assert.Error(t, err)

	_, err = Scan(filepath.Join(dir, "missing"), Options{Days: 1})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDeleteContinuesPastMissingFiles(t *testing.T) {
	dir := t.TempDir()
	kept := filepath.Join(dir, "a")
	require.NoError(t, os.WriteFile(kept, nil, 0644))

	deleted, err := Delete([]Candidate{{Path: filepath.Join(dir, "gone")}, {Path: kept}})
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	assert.NoFileExists(t, kept)
}
