package model

import "time"

type Outcome string

const (
	OutcomeIgnored  Outcome = "IGNORED"
	OutcomeMoved    Outcome = "MOVED"
	OutcomePartial  Outcome = "PARTIAL"
	OutcomeFailed   Outcome = "FAILED"
	OutcomeCanceled Outcome = "CANCELED"
)

type MovedFile struct {
	Name    string
	SrcPath string
	DstPath string
	Size    int64
}

// RelocateResult describes how one creation event was handled.
type RelocateResult struct {
	BatchID    string
	Event      FileEvent
	Dir        string
	Moved      []MovedFile
	FailedFile string
	Removed    bool
	Leftovers  int
	Outcome    Outcome
	Err        error
	FinishedAt time.Time
}

func (r RelocateResult) Ignored() bool {
	return r.Outcome == OutcomeIgnored
}
