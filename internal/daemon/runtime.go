package daemon

import (
	"context"
	"fmt"

	"nasmover/internal/activity"
	"nasmover/internal/logger"
	"nasmover/internal/model"
	"nasmover/internal/repository"
	"nasmover/internal/syncer"

	"go.uber.org/zap"
)

// Runtime feeds an event source into the relocator and records every result.
type Runtime struct {
	src       syncer.EventSource
	relocator syncer.Relocator
	history   *repository.HistoryRepository
	activity  activity.Sink
	state     *State
}

type RuntimeDeps struct {
	Source    syncer.EventSource
	Relocator syncer.Relocator
	History   *repository.HistoryRepository
	Activity  activity.Sink
	State     *State
}

func NewRuntime(deps RuntimeDeps) (*Runtime, error) {
	if deps.Source == nil || deps.Relocator == nil || deps.Activity == nil || deps.State == nil {
		return nil, fmt.Errorf("runtime requires source, relocator, activity log and state")
	}

	return &Runtime{
		src:       deps.Source,
		relocator: deps.Relocator,
		history:   deps.History,
		activity:  deps.Activity,
		state:     deps.State,
	}, nil
}

// Run blocks until ctx is canceled and every in-flight folder has finished.
func (rt *Runtime) Run(ctx context.Context) error {
	if err := rt.src.Start(); err != nil {
		return fmt.Errorf("failed to start source: %w", err)
	}

	rt.activity.Append("watcher started")

	go func() {
		<-ctx.Done()
		rt.src.Stop()
	}()

	results := rt.relocator.Run(ctx, rt.count(rt.src.Events()))

	for result := range results {
		rt.record(result)
	}

	logger.Log.Info("runtime stopped")
	return nil
}

func (rt *Runtime) count(inCh <-chan model.FileEvent) <-chan model.FileEvent {
	outCh := make(chan model.FileEvent, cap(inCh))

	go func() {
		defer close(outCh)
		for event := range inCh {
			rt.state.RecordEvent()
			outCh <- event
		}
	}()

	return outCh
}

func (rt *Runtime) record(result model.RelocateResult) {
	rt.state.RecordResult(result)
	if result.Ignored() {
		return
	}

	if rt.history != nil {
		if err := rt.history.Save(result); err != nil {
			logger.Log.Warn("failed to save history",
				zap.String("batch", result.BatchID),
				zap.Error(err))
		}
	}
}
