package model

import "time"

type DaemonSnapshot struct {
	WatchRoot    string     `json:"watch_root"`
	DestRoot     string     `json:"dest_root"`
	StartedAt    time.Time  `json:"started_at"`
	Events       int        `json:"events"`
	Moved        int        `json:"moved"`
	Removed      int        `json:"removed"`
	Failed       int        `json:"failed"`
	Inflight     int        `json:"inflight"`
	LastActivity *time.Time `json:"last_activity"`
	Recent       []string   `json:"recent"`
}
