// Package activity writes the operator-facing activity log: one
// "<timestamp> - <message>" line per relocation step.
package activity

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const TimeLayout = "2006-01-02 15:04:05"

type Sink interface {
	Append(message string)
}

type File struct {
	log    *zap.Logger
	closer io.Closer
}

// OpenFile appends to path, creating it and its parent directory if needed.
func OpenFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open activity log: %w", err)
	}

	a := NewWriter(f)
	a.closer = f
	return a, nil
}

// NewWriter returns a sink whose entries are written to w one whole line at a time.
func NewWriter(w io.Writer) *File {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		zapcore.DebugLevel,
	)

	return &File{log: zap.New(core)}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "ts",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout(TimeLayout),
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " - ",
	}
}

func (f *File) Append(message string) {
	f.log.Info(message)
}

func (f *File) Close() error {
	_ = f.log.Sync()
	if f.closer == nil {
		return nil
	}

	return f.closer.Close()
}

// Memory keeps the most recent entries in process.
type Memory struct {
	mu      sync.Mutex
	limit   int
	entries []string
}

func NewMemory(limit int) *Memory {
	return &Memory{limit: limit}
}

func (m *Memory) Append(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, message)
	if m.limit > 0 && len(m.entries) > m.limit {
		m.entries = m.entries[len(m.entries)-m.limit:]
	}
}

func (m *Memory) Entries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.entries...)
}

type multi []Sink

func (m multi) Append(message string) {
	for _, s := range m {
		s.Append(message)
	}
}

// Multi fans every entry out to all sinks in order.
func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}
