package syncer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"nasmover/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestDispatchHandlesEveryEvent(t *testing.T) {
	in := make(chan model.FileEvent, 4)
	for _, p := range []string{"a", "b", "c", "d"} {
		in <- model.FileEvent{Type: model.EventCreate, Path: p}
	}
	close(in)

	out := Dispatch(context.Background(), in, func(_ context.Context, e model.FileEvent) model.RelocateResult {
		return model.RelocateResult{Dir: e.Path, Outcome: model.OutcomeMoved}
	})

	seen := map[string]bool{}
	for r := range out {
		seen[r.Dir] = true
	}
	assert.Len(t, seen, 4)
}

func TestDispatchRunsHandlersConcurrently(t *testing.T) {
	in := make(chan model.FileEvent, 3)
	for range 3 {
		in <- model.FileEvent{Type: model.EventCreate}
	}
	close(in)

	release := make(chan struct{})
	var started atomic.Int32

	out := Dispatch(context.Background(), in, func(_ context.Context, _ model.FileEvent) model.RelocateResult {
		started.Add(1)
		<-release
		return model.RelocateResult{}
	})

	assert.Eventually(t, func() bool { return started.Load() == 3 }, time.Second, 5*time.Millisecond)
	close(release)

	n := 0
	for range out {
		n++
	}
	assert.Equal(t, 3, n)
}

func TestDispatchKeepsReadingWhileHandlersBlock(t *testing.T) {
	in := make(chan model.FileEvent)
	release := make(chan struct{})

	out := Dispatch(context.Background(), in, func(_ context.Context, e model.FileEvent) model.RelocateResult {
		if e.Path == "slow" {
			<-release
		}
		return model.RelocateResult{Dir: e.Path}
	})

	sent := make(chan struct{})
	go func() {
		defer close(sent)
		in <- model.FileEvent{Type: model.EventCreate, Path: "slow"}
		for range 200 {
			in <- model.FileEvent{Type: model.EventCreate, Path: "fast"}
		}
		close(in)
	}()

	select {
	case <-sent:
	case <-time.After(3 * time.Second):
		t.Fatal("dispatch stopped reading while a handler was blocked")
	}

	close(release)
	n := 0
	for range out {
		n++
	}
	assert.Equal(t, 201, n)
}
