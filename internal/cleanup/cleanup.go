// Package cleanup finds and deletes files that have not been modified for
// a number of days.
package cleanup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"nasmover/internal/logger"
	"nasmover/internal/util"

	"go.uber.org/zap"
)

var ErrConfirmationRequired = errors.New("confirmation required: rerun with --yes")

type Candidate struct {
	Path    string
	Size    int64
	ModTime time.Time
}

type Options struct {
	Days      int
	Recursive bool
	Now       time.Time
}

// Cutoff is the instant files must have been modified before to qualify.
func (o Options) Cutoff() time.Time {
	now := o.Now
	if now.IsZero() {
		now = time.Now()
	}
	return now.Add(-time.Duration(o.Days) * 24 * time.Hour)
}

// Scan lists the files in dir last modified strictly before the cutoff.
// Directories are never candidates.
func Scan(dir string, opts Options) ([]Candidate, error) {
	if opts.Days < 0 {
		return nil, fmt.Errorf("days must not be negative, got %d", opts.Days)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	cutoff := opts.Cutoff()
	var candidates []Candidate

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != dir && !opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}

		fi, err := d.Info()
		if err != nil || !fi.Mode().IsRegular() {
			return nil
		}

		if fi.ModTime().Before(cutoff) {
			candidates = append(candidates, Candidate{Path: path, Size: fi.Size(), ModTime: fi.ModTime()})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	return candidates, nil
}

// Delete removes every candidate and reports how many were deleted.
// Failures do not stop the remaining deletions.
func Delete(candidates []Candidate) (int, error) {
	var (
		deleted int
		errs    []error
	)

	for _, c := range candidates {
		if err := util.RemoveIfExists(c.Path); err != nil {
			logger.Log.Warn("failed to delete file",
				zap.String("path", c.Path),
				zap.Error(err))
			errs = append(errs, err)
			continue
		}

		deleted++
		logger.Log.Debug("deleted file",
			zap.String("path", c.Path))
	}

	return deleted, errors.Join(errs...)
}

func TotalSize(candidates []Candidate) int64 {
	var total int64
	for _, c := range candidates {
		total += c.Size
	}
	return total
}
