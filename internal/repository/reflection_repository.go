package repository

import (
	"context"
	"sphereview_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReflectionRepository struct {
	DB *gorm.DB
}

func NewReflectionRepository(db *gorm.DB) *ReflectionRepository {
	return &ReflectionRepository{DB: db}
}

// Upsert 同一用户同一问题只保留最新回答
func (r *ReflectionRepository) Upsert(ctx context.Context, response *model.ReflectionResponse) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "devotion_id"}, {Name: "question_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"response_text": response.ResponseText,
			"updated_at":    time.Now(),
		}),
	}).Create(response).Error
}

func (r *ReflectionRepository) FindByDevotion(ctx context.Context, userID string, devotionID uint) ([]model.ReflectionResponse, error) {
	var responses []model.ReflectionResponse
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND devotion_id = ?", userID, devotionID).
		Order("question_key ASC").
		Find(&responses).Error
	return responses, err
}
