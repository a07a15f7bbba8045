package syncer

import (
	"context"
	"sync"

	"nasmover/internal/model"
)

// EventSource yields creation events until it is stopped, then closes the channel.
type EventSource interface {
	Events() <-chan model.FileEvent
	Start() error
	Stop()
}

type Relocator interface {
	Run(ctx context.Context, inCh <-chan model.FileEvent) <-chan model.RelocateResult
}

type HandleFunc func(ctx context.Context, event model.FileEvent) model.RelocateResult

// Dispatch handles every event on its own goroutine and never blocks reading
// inCh on a slow handler. Handlers bound their own concurrency. The returned
// channel is closed once inCh is closed and all handlers have returned.
func Dispatch(ctx context.Context, inCh <-chan model.FileEvent, handle HandleFunc) <-chan model.RelocateResult {
	outCh := make(chan model.RelocateResult, max(cap(inCh), 1))

	go func() {
		var wg sync.WaitGroup
		defer func() {
			wg.Wait()
			close(outCh)
		}()

		for event := range inCh {
			wg.Go(func() {
				outCh <- handle(ctx, event)
			})
		}
	}()

	return outCh
}
