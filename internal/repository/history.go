package repository

import (
	"nasmover/internal/db"
	"nasmover/internal/model"
	"time"

	"gorm.io/gorm"
)

type HistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository uses conn, or the shared db.DB when conn is nil.
func NewHistoryRepository(conn *gorm.DB) *HistoryRepository {
	if conn == nil {
		conn = db.DB
	}
	return &HistoryRepository{db: conn}
}

// Save writes one row per moved file, one for the folder removal and one for
// the failure, if any. Ignored events are not recorded.
func (r *HistoryRepository) Save(result model.RelocateResult) error {
	if result.Ignored() {
		return nil
	}

	at := result.FinishedAt
	if at.IsZero() {
		at = time.Now()
	}

	var rows []model.History
	for _, f := range result.Moved {
		rows = append(rows, model.History{
			BatchID:    result.BatchID,
			Status:     model.StatusSuccess,
			Action:     model.ActionMove,
			SrcPath:    f.SrcPath,
			DstPath:    f.DstPath,
			OccurredAt: at,
		})
	}

	if result.Removed {
		rows = append(rows, model.History{
			BatchID:    result.BatchID,
			Status:     model.StatusSuccess,
			Action:     model.ActionRemove,
			SrcPath:    result.Dir,
			OccurredAt: at,
		})
	}

	if result.Err != nil {
		action, src := model.ActionRemove, result.Dir
		if result.FailedFile != "" {
			action, src = model.ActionMove, result.FailedFile
		}
		rows = append(rows, model.History{
			BatchID:    result.BatchID,
			Status:     model.StatusFailed,
			Action:     action,
			SrcPath:    src,
			ErrMsg:     result.Err.Error(),
			OccurredAt: at,
		})
	}

	if len(rows) == 0 {
		return nil
	}

	return r.db.Create(&rows).Error
}

type Stats struct {
	Total   int64 `json:"total"`
	Success int64 `json:"success"`
	Failed  int64 `json:"failed"`
}

func (r *HistoryRepository) GetStats() (Stats, error) {
	var stats Stats
	if err := r.db.Model(&model.History{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}

	if err := r.db.Model(&model.History{}).
		Where("status = ?", model.StatusSuccess).
		Count(&stats.Success).Error; err != nil {
		return stats, err
	}

	stats.Failed = stats.Total - stats.Success
	return stats, nil
}

func (r *HistoryRepository) GetRecent(limit int) ([]model.History, error) {
	var histories []model.History
	result := r.db.
		Order("occurred_at desc, id desc").
		Limit(limit).
		Find(&histories)

	return histories, result.Error
}

func (r *HistoryRepository) GetFailed() ([]model.History, error) {
	var histories []model.History
	result := r.db.
		Where("status = ?", model.StatusFailed).
		Order("occurred_at desc").
		Find(&histories)

	return histories, result.Error
}
