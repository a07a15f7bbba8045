package local

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Settler decides when a freshly created directory is done being written.
type Settler interface {
	Settle(ctx context.Context, dir string) error
}

// DelaySettler waits a fixed grace period. It does not look at the directory.
type DelaySettler struct {
	Grace time.Duration
}

func (s DelaySettler) Settle(ctx context.Context, _ string) error {
	return sleep(ctx, s.Grace)
}

// StableSettler waits the grace period, then polls the direct children of
// the directory until their names, sizes and mtimes are unchanged for
// Checks consecutive samples.
type StableSettler struct {
	Grace    time.Duration
	Interval time.Duration
	Checks   int
}

func (s StableSettler) Settle(ctx context.Context, dir string) error {
	if err := sleep(ctx, s.Grace); err != nil {
		return err
	}

	prev, err := sample(dir)
	if err != nil {
		return err
	}

	stable := 0
	for stable < s.Checks {
		if err := sleep(ctx, s.Interval); err != nil {
			return err
		}

		next, err := sample(dir)
		if err != nil {
			return err
		}

		if sameSample(prev, next) {
			stable++
		} else {
			stable = 0
		}
		prev = next
	}

	return nil
}

type fileState struct {
	size    int64
	modTime time.Time
}

func sample(dir string) (map[string]fileState, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dir: %w", err)
	}

	states := make(map[string]fileState, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		states[e.Name()] = fileState{size: info.Size(), modTime: info.ModTime()}
	}

	return states, nil
}

func sameSample(a, b map[string]fileState) bool {
	if len(a) != len(b) {
		return false
	}
	for name, sa := range a {
		sb, ok := b[name]
		if !ok || sa.size != sb.size || !sa.modTime.Equal(sb.modTime) {
			return false
		}
	}
	return true
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
