package local

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"nasmover/internal/logger"
	"nasmover/internal/model"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

var ErrNotDirectory = errors.New("not a directory")

type Watcher struct {
	fw      *fsnotify.Watcher
	root    string
	eventCh chan model.FileEvent
	doneCh  chan struct{}
}

func New(bufferSize int) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		fw:      fw,
		eventCh: make(chan model.FileEvent, bufferSize),
		doneCh:  make(chan struct{}),
	}, nil
}

// ValidateRoot resolves dir and checks that it is an existing directory.
func ValidateRoot(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absDir)
	if err != nil {
		return "", fmt.Errorf("watch root not accessible: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("watch root %s: %w", absDir, ErrNotDirectory)
	}

	return absDir, nil
}

func (w *Watcher) Watch(dir string) error {
	absDir, err := ValidateRoot(dir)
	if err != nil {
		return err
	}

	if err := w.addRecursive(absDir); err != nil {
		return err
	}

	w.root = absDir
	go w.run()

	logger.Log.Info("watcher started",
		zap.String("dir", absDir))
	return nil
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if err := w.fw.Add(path); err != nil {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			logger.Log.Debug("watching directory",
				zap.String("path", path))
		}

		return nil
	})
}

func (w *Watcher) run() {
	defer close(w.eventCh)

	for {
		select {
		case <-w.doneCh:
			logger.Log.Info("watcher stopping")
			return

		case fsEvent, ok := <-w.fw.Events:
			if !ok {
				return
			}

			if !fsEvent.Op.Has(fsnotify.Create) {
				continue
			}

			// A tree moved in with one rename only reports its top directory.
			if info, err := os.Stat(fsEvent.Name); err == nil && info.IsDir() {
				if err := w.addRecursive(fsEvent.Name); err != nil {
					logger.Log.Warn("failed to watch new directory",
						zap.String("path", fsEvent.Name),
						zap.Error(err))
				}
			}

			event := model.FileEvent{
				Type:      model.EventCreate,
				Path:      fsEvent.Name,
				Timestamp: time.Now(),
			}

			select {
			case w.eventCh <- event:
			case <-w.doneCh:
				logger.Log.Info("watcher stopping")
				return
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}

			logger.Log.Error("watcher error",
				zap.Error(err))
		}
	}
}

func (w *Watcher) Root() string {
	return w.root
}

func (w *Watcher) Events() <-chan model.FileEvent {
	return w.eventCh
}

func (w *Watcher) Stop() {
	close(w.doneCh)
	_ = w.fw.Close()
}
