package daemon

import (
	"errors"
	"testing"
	"time"

	"nasmover/internal/activity"
	"nasmover/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestStateCounters(t *testing.T) {
	recent := activity.NewMemory(5)
	recent.Append("watcher started")
	s := NewState("/watch", "/dest", recent)

	for range 4 {
		s.RecordEvent()
	}
	s.RecordResult(model.RelocateResult{Outcome: model.OutcomeIgnored})
	s.RecordResult(model.RelocateResult{
		Outcome:    model.OutcomeMoved,
		Moved:      []model.MovedFile{{Name: "a.txt"}, {Name: "b.txt"}},
		Removed:    true,
		FinishedAt: time.Now(),
	})
	s.RecordResult(model.RelocateResult{Outcome: model.OutcomeFailed, Err: errors.New("locked")})

	snap := s.Snapshot()
	assert.Equal(t, 4, snap.Events)
	assert.Equal(t, 1, snap.Inflight)
	assert.Equal(t, 2, snap.Moved)
	assert.Equal(t, 1, snap.Removed)
	assert.Equal(t, 1, snap.Failed)
	assert.NotNil(t, snap.LastActivity)
	assert.Equal(t, []string{"watcher started"}, snap.Recent)
}

func TestStateIgnoresCanceledAsFailure(t *testing.T) {
	s := NewState("/watch", "/dest", nil)
	s.RecordEvent()
	s.RecordResult(model.RelocateResult{Outcome: model.OutcomeCanceled, Err: errors.New("context canceled")})

	snap := s.Snapshot()
	assert.Zero(t, snap.Failed)
	assert.Zero(t, snap.Inflight)
}
