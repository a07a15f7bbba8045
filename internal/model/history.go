package model

import (
	"time"

	"gorm.io/gorm"
)

type HistoryStatus string

const (
	StatusSuccess HistoryStatus = "SUCCESS"
	StatusFailed  HistoryStatus = "FAILED"
)

type HistoryAction string

const (
	ActionMove   HistoryAction = "MOVE"
	ActionRemove HistoryAction = "REMOVE"
)

type History struct {
	gorm.Model
	BatchID    string        `gorm:"index;not null" json:"batch_id"`
	Status     HistoryStatus `gorm:"not null" json:"status"`
	Action     HistoryAction `gorm:"not null" json:"action"`
	SrcPath    string        `gorm:"not null" json:"src_path"`
	DstPath    string        `json:"dst_path"`
	ErrMsg     string        `json:"err_msg"`
	OccurredAt time.Time     `gorm:"not null" json:"occurred_at"`
}
