package repository

import (
	"context"
	"errors"
	"sphereview_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

var userDevotionColumns = []clause.Column{{Name: "user_id"}, {Name: "devotion_id"}}

// FindOne 不存在时返回 nil, nil
func (r *ProgressRepository) FindOne(ctx context.Context, userID string, devotionID uint) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND devotion_id = ?", userID, devotionID).
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// UpsertWatch 只写观看字段；completed 只能由假变真，completed_at 只写一次
func (r *ProgressRepository) UpsertWatch(ctx context.Context, progress *model.UserProgress) error {
	var completedAt interface{}
	if progress.CompletedAt != nil {
		completedAt = *progress.CompletedAt
	}

	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: userDevotionColumns,
		DoUpdates: clause.Assignments(map[string]interface{}{
			"watch_percentage": progress.WatchPercentage,
			"completed":        gorm.Expr("completed OR ?", progress.Completed),
			"completed_at":     gorm.Expr("COALESCE(completed_at, ?)", completedAt),
			"last_watched_at":  progress.LastWatchedAt,
			"updated_at":       time.Now(),
		}),
	}).Create(progress).Error
}

// UpsertResponsesCompleted 反思路径唯一的进度写入，responses_completed_at 只写一次
func (r *ProgressRepository) UpsertResponsesCompleted(ctx context.Context, userID string, devotionID uint, at time.Time) error {
	progress := &model.UserProgress{
		UserID:               userID,
		DevotionID:           devotionID,
		ResponsesCompletedAt: &at,
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: userDevotionColumns,
		DoUpdates: clause.Assignments(map[string]interface{}{
			"responses_completed_at": gorm.Expr("COALESCE(responses_completed_at, ?)", at),
			"updated_at":             time.Now(),
		}),
	}).Create(progress).Error
}

func (r *ProgressRepository) Find(ctx context.Context, userID string, q ProgressQuery) ([]model.UserProgress, error) {
	var records []model.UserProgress
	db := r.DB.WithContext(ctx).Where("user_id = ?", userID)
	err := q.apply(db).Order("devotion_id ASC").Find(&records).Error
	return records, err
}

// Count 每个用户每条灵修至多一条记录，计数即不同灵修数
func (r *ProgressRepository) Count(ctx context.Context, userID string, q ProgressQuery) (int64, error) {
	var count int64
	db := r.DB.WithContext(ctx).Model(&model.UserProgress{}).Where("user_id = ?", userID)
	err := q.apply(db).Count(&count).Error
	return count, err
}
