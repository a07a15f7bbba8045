package model

import "time"

type EventType string

const (
	EventCreate EventType = "CREATE"
)

// FileEvent is a single creation notification under the watched root.
type FileEvent struct {
	Type      EventType
	Path      string
	Timestamp time.Time
}
