package daemon

import (
	"sync"
	"time"

	"nasmover/internal/activity"
	"nasmover/internal/model"
)

type State struct {
	mu           sync.RWMutex
	WatchRoot    string
	DestRoot     string
	StartedAt    time.Time
	Events       int
	Moved        int
	Removed      int
	Failed       int
	Inflight     int
	LastActivity *time.Time
	recent       *activity.Memory
}

func NewState(watchRoot, destRoot string, recent *activity.Memory) *State {
	return &State{
		WatchRoot: watchRoot,
		DestRoot:  destRoot,
		StartedAt: time.Now(),
		recent:    recent,
	}
}

func (s *State) RecordEvent() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Events++
	s.Inflight++
}

func (s *State) RecordResult(result model.RelocateResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Inflight > 0 {
		s.Inflight--
	}
	if result.Ignored() {
		return
	}

	s.LastActivity = new(result.FinishedAt)
	s.Moved += len(result.Moved)
	if result.Removed {
		s.Removed++
	}
	if result.Err != nil && result.Outcome != model.OutcomeCanceled {
		s.Failed++
	}
}

func (s *State) Snapshot() model.DaemonSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := model.DaemonSnapshot{
		WatchRoot:    s.WatchRoot,
		DestRoot:     s.DestRoot,
		StartedAt:    s.StartedAt,
		Events:       s.Events,
		Moved:        s.Moved,
		Removed:      s.Removed,
		Failed:       s.Failed,
		Inflight:     s.Inflight,
		LastActivity: s.LastActivity,
	}
	if s.recent != nil {
		snap.Recent = s.recent.Entries()
	}

	return snap
}
