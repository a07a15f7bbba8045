package activity

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var linePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} - (.+)$`)

func TestWriterLineFormat(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriter(&buf)

	sink.Append("Moved a.txt to /dest")

	line := strings.TrimSuffix(buf.String(), "\n")
	m := linePattern.FindStringSubmatch(line)
	require.NotNil(t, m, "unexpected line %q", line)
	assert.Equal(t, "Moved a.txt to /dest", m[1])
}

func TestOpenFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "activity.log")

	first, err := OpenFile(path)
	require.NoError(t, err)
	first.Append("watcher started")
	require.NoError(t, first.Close())

	second, err := OpenFile(path)
	require.NoError(t, err)
	second.Append("Removed empty folder: batch1")
	require.NoError(t, second.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], " - watcher started"))
	assert.True(t, strings.HasSuffix(lines[1], " - Removed empty folder: batch1"))
}

func TestConcurrentAppendsStayWhole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")
	sink, err := OpenFile(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sink.Append(fmt.Sprintf("Moved file-%02d.bin to /dest", i))
		}()
	}
	wg.Wait()
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 50)
	for _, line := range lines {
		assert.Regexp(t, linePattern, line)
	}
}

func TestMemoryKeepsMostRecent(t *testing.T) {
	m := NewMemory(2)
	m.Append("one")
	m.Append("two")
	m.Append("three")

	assert.Equal(t, []string{"two", "three"}, m.Entries())
}

func TestMultiFansOut(t *testing.T) {
	a, b := NewMemory(0), NewMemory(0)
	Multi(a, b).Append("watcher started")

	assert.Equal(t, []string{"watcher started"}, a.Entries())
	assert.Equal(t, []string{"watcher started"}, b.Entries())
}
