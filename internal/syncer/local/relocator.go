package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"nasmover/internal/activity"
	"nasmover/internal/logger"
	"nasmover/internal/model"
	"nasmover/internal/pipeline"
	"nasmover/internal/syncer"
	"nasmover/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Options struct {
	Settler      Settler
	StrictRemove bool
	MaxInflight  int
	Ignore       *pipeline.Ignore
	Activity     activity.Sink
}

// Relocator moves the direct child files of every new directory into one
// flat destination directory and then removes the source directory.
type Relocator struct {
	dst      string
	settler  Settler
	strict   bool
	slots    chan struct{}
	ignore   *pipeline.Ignore
	activity activity.Sink
	locks    *util.KeyedMutex
}

func NewRelocator(dst string, opts Options) (*Relocator, error) {
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return nil, fmt.Errorf("invalid dst path: %w", err)
	}

	if err := os.MkdirAll(absDst, 0755); err != nil {
		return nil, fmt.Errorf("failed to create dst dir: %w", err)
	}

	settler := opts.Settler
	if settler == nil {
		settler = DelaySettler{Grace: 5 * time.Second}
	}

	sink := opts.Activity
	if sink == nil {
		sink = activity.NewMemory(0)
	}

	var slots chan struct{}
	if opts.MaxInflight > 0 {
		slots = make(chan struct{}, opts.MaxInflight)
	}

	return &Relocator{
		dst:      absDst,
		settler:  settler,
		strict:   opts.StrictRemove,
		slots:    slots,
		ignore:   opts.Ignore,
		activity: sink,
		locks:    util.NewKeyedMutex(),
	}, nil
}

func (r *Relocator) Dst() string {
	return r.dst
}

func (r *Relocator) Run(ctx context.Context, inCh <-chan model.FileEvent) <-chan model.RelocateResult {
	return syncer.Dispatch(ctx, inCh, r.Handle)
}

// Handle processes a single creation event. Entries that are not directories
// are ignored without a log line and without taking an in-flight slot. The
// first failing step ends the handling of the event; later files and the
// folder removal are skipped.
func (r *Relocator) Handle(ctx context.Context, event model.FileEvent) model.RelocateResult {
	result := model.RelocateResult{
		BatchID: uuid.NewString(),
		Event:   event,
		Dir:     event.Path,
	}

	info, err := os.Stat(event.Path)
	if err != nil || !info.IsDir() {
		result.Outcome = model.OutcomeIgnored
		return finish(result)
	}

	name := filepath.Base(event.Path)
	log := logger.Log.With(
		zap.String("batch", result.BatchID),
		zap.String("dir", event.Path))

	if r.slots != nil {
		select {
		case r.slots <- struct{}{}:
			defer func() { <-r.slots }()
		case <-ctx.Done():
			result.Outcome = model.OutcomeCanceled
			result.Err = ctx.Err()
			log.Info("folder handling canceled")
			return finish(result)
		}
	}

	log.Debug("new folder, waiting for copy to settle")
	if err := r.settler.Settle(ctx, event.Path); err != nil {
		if ctx.Err() != nil {
			result.Outcome = model.OutcomeCanceled
			result.Err = ctx.Err()
			log.Info("folder handling canceled")
			return finish(result)
		}
		if errors.Is(err, fs.ErrNotExist) {
			result.Outcome = model.OutcomeIgnored
			log.Debug("folder vanished before it settled")
			return finish(result)
		}
		return r.fail(log, result, fmt.Sprintf("Failed to inspect folder %s: %v", name, err), err)
	}

	files, err := listFiles(log, event.Path, r.ignore)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			result.Outcome = model.OutcomeIgnored
			log.Debug("folder vanished before it settled")
			return finish(result)
		}
		return r.fail(log, result, fmt.Sprintf("Failed to list folder %s: %v", name, err), err)
	}

	for _, f := range files {
		moved, err := r.move(f)
		if err != nil {
			result.FailedFile = f.path
			return r.fail(log, result, fmt.Sprintf("Failed to move %s: %v", f.name, err), err)
		}

		result.Moved = append(result.Moved, moved)
		log.Info("moved",
			zap.String("src", moved.SrcPath),
			zap.String("dst", moved.DstPath),
			zap.Int64("size", moved.Size))
	}

	if err := r.removeDir(log, &result); err != nil {
		msg := fmt.Sprintf("Failed to remove folder %s: %v", name, err)
		if errors.Is(err, util.ErrNotEmpty) {
			msg = fmt.Sprintf("Refusing to remove non-empty folder: %s", name)
		}
		return r.fail(log, result, msg, err)
	}

	result.Removed = true
	r.activity.Append(fmt.Sprintf("Removed empty folder: %s", name))
	log.Info("removed folder",
		zap.Int("moved", len(result.Moved)))

	result.Outcome = model.OutcomeMoved
	return finish(result)
}

// move holds the lock for the destination path across the move and its log line.
func (r *Relocator) move(f sourceFile) (model.MovedFile, error) {
	dst := filepath.Join(r.dst, f.name)

	unlock := r.locks.Lock(dst)
	defer unlock()

	if err := util.MoveFile(f.path, dst); err != nil {
		return model.MovedFile{}, err
	}

	r.activity.Append(fmt.Sprintf("Moved %s to %s", f.name, r.dst))

	return model.MovedFile{
		Name:    f.name,
		SrcPath: f.path,
		DstPath: dst,
		Size:    f.size,
	}, nil
}

func (r *Relocator) removeDir(log *zap.Logger, result *model.RelocateResult) error {
	if r.strict {
		return util.RemoveEmptyDir(result.Dir)
	}

	leftovers, err := util.CountEntries(result.Dir)
	if err == nil && leftovers > 0 {
		result.Leftovers = leftovers
		log.Warn("removing folder that still holds unmoved entries",
			zap.Int("leftovers", leftovers))
	}

	if err := os.RemoveAll(result.Dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", result.Dir, err)
	}

	return nil
}

func (r *Relocator) fail(log *zap.Logger, result model.RelocateResult, msg string, err error) model.RelocateResult {
	r.activity.Append(msg)
	log.Error("folder handling failed",
		zap.String("failed_file", result.FailedFile),
		zap.Int("moved", len(result.Moved)),
		zap.Error(err))

	result.Err = err
	result.Outcome = model.OutcomeFailed
	if len(result.Moved) > 0 {
		result.Outcome = model.OutcomePartial
	}

	return finish(result)
}

func finish(result model.RelocateResult) model.RelocateResult {
	result.FinishedAt = time.Now()
	return result
}

type sourceFile struct {
	name string
	path string
	size int64
}

// listFiles returns the direct child files of dir sorted by name.
// Subdirectories, anything that is not a regular file and names matched by
// ignore are skipped.
func listFiles(log *zap.Logger, dir string, ignore *pipeline.Ignore) ([]sourceFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []sourceFile
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())

		if ignore.Match(e.Name()) {
			log.Debug("skipping ignored file",
				zap.String("path", path))
			continue
		}

		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		files = append(files, sourceFile{name: e.Name(), path: path, size: info.Size()})
	}

	return files, nil
}
