package service

import (
	"context"
	"sphereview_backend/internal/catalog"
	"sphereview_backend/internal/model"
	"sphereview_backend/internal/repository"
	"sphereview_backend/internal/util"
	"sphereview_backend/internal/validation"
	"sphereview_backend/pkg/logger"
	"sphereview_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// WatchInput 观看进度上报，客户端的 completed 字段不被采信
type WatchInput struct {
	DevotionID      uint     `json:"devotionId" validate:"required"`
	WatchPercentage *float64 `json:"watchPercentage" validate:"required"`
}

type ResponseInput struct {
	DevotionID   uint   `json:"devotionId" validate:"required"`
	QuestionKey  string `json:"questionKey" validate:"required,oneof=q1 q2 q3 q4"`
	ResponseText string `json:"responseText" validate:"maxwords=500"`
}

type SaveResponseResult struct {
	AllCompleted bool `json:"allCompleted"`
}

// ProgressService 观看与反思两条写入路径
type ProgressService struct {
	progress    ProgressStore
	reflections ReflectionStore
	catalog     *catalog.Catalog
	clock       clock
}

func NewProgressService(progress ProgressStore, reflections ReflectionStore, cat *catalog.Catalog, opts ...Option) *ProgressService {
	return &ProgressService{
		progress:    progress,
		reflections: reflections,
		catalog:     cat,
		clock:       newClock(opts),
	}
}

func (s *ProgressService) Configured() bool {
	return s.progress != nil && s.reflections != nil
}

func (s *ProgressService) devotion(id uint) (model.Devotion, error) {
	d, ok := s.catalog.Get(id)
	if !ok {
		return model.Devotion{}, util.ErrDevotionNotFound
	}
	return d, nil
}

// RecordWatch 先读后写：保留已有的完成状态和完成时间
func (s *ProgressService) RecordWatch(ctx context.Context, userID string, in WatchInput) (*model.UserProgress, error) {
	if !s.Configured() {
		return nil, util.ErrNotConfigured
	}
	if userID == "" {
		return nil, util.ErrUnauthorized
	}
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	if _, err := s.devotion(in.DevotionID); err != nil {
		return nil, err
	}

	percentage := ClampPercentage(*in.WatchPercentage)

	existing, err := s.progress.FindOne(ctx, userID, in.DevotionID)
	if err != nil {
		monitoring.ProgressWrites.WithLabelValues("watch", "error").Inc()
		return nil, err
	}

	next := applyWatch(existing, userID, in.DevotionID, percentage, s.clock.Now())
	if err := s.progress.UpsertWatch(ctx, next); err != nil {
		monitoring.ProgressWrites.WithLabelValues("watch", "error").Inc()
		return nil, err
	}
	monitoring.ProgressWrites.WithLabelValues("watch", "ok").Inc()

	if next.Completed && (existing == nil || !existing.Completed) {
		logger.Log.Debug("Devotion watched",
			zap.String("userID", userID),
			zap.Uint("devotionID", in.DevotionID),
			zap.Int("percentage", percentage),
		)
	}
	return next, nil
}

// SaveResponse 保存单个问题的回答，全部问题都有非空回答时写入 responses_completed_at
func (s *ProgressService) SaveResponse(ctx context.Context, userID string, in ResponseInput) (*SaveResponseResult, error) {
	if !s.Configured() {
		return nil, util.ErrNotConfigured
	}
	if userID == "" {
		return nil, util.ErrUnauthorized
	}
	// 字数校验在截断之前
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	devotion, err := s.devotion(in.DevotionID)
	if err != nil {
		return nil, err
	}

	key := model.QuestionKey(in.QuestionKey)
	text := truncateRunes(in.ResponseText, model.MaxResponseChars)

	if err := s.reflections.Upsert(ctx, &model.ReflectionResponse{
		UserID:       userID,
		DevotionID:   in.DevotionID,
		QuestionKey:  key,
		ResponseText: text,
	}); err != nil {
		monitoring.ProgressWrites.WithLabelValues("response", "error").Inc()
		return nil, err
	}
	monitoring.ProgressWrites.WithLabelValues("response", "ok").Inc()

	stored, err := s.reflections.FindByDevotion(ctx, userID, in.DevotionID)
	if err != nil {
		return nil, err
	}

	result := &SaveResponseResult{AllCompleted: reflectionsComplete(devotion, stored, key, text)}
	if !result.AllCompleted {
		return result, nil
	}

	if err := s.progress.UpsertResponsesCompleted(ctx, userID, in.DevotionID, s.clock.Now()); err != nil {
		monitoring.ProgressWrites.WithLabelValues("responses_completed", "error").Inc()
		return nil, err
	}
	monitoring.ProgressWrites.WithLabelValues("responses_completed", "ok").Inc()
	return result, nil
}

// GetResponses 按问题编号返回已保存的回答
func (s *ProgressService) GetResponses(ctx context.Context, userID string, devotionID uint) (map[model.QuestionKey]model.ResponseView, error) {
	if !s.Configured() {
		return nil, util.ErrNotConfigured
	}
	if userID == "" {
		return nil, util.ErrUnauthorized
	}
	if _, err := s.devotion(devotionID); err != nil {
		return nil, err
	}

	stored, err := s.reflections.FindByDevotion(ctx, userID, devotionID)
	if err != nil {
		return nil, err
	}

	views := make(map[model.QuestionKey]model.ResponseView, len(stored))
	for _, r := range stored {
		views[r.QuestionKey] = model.ResponseView{ResponseText: r.ResponseText, UpdatedAt: r.UpdatedAt}
	}
	return views, nil
}

// GetDevotionStatuses 卡片展示用，读取失败时返回空结果
func (s *ProgressService) GetDevotionStatuses(ctx context.Context, userID string, devotionIDs []uint) map[uint]model.DevotionStatus {
	statuses := make(map[uint]model.DevotionStatus)
	if s.progress == nil || userID == "" || len(devotionIDs) == 0 {
		return statuses
	}

	records, err := s.progress.Find(ctx, userID, repository.ProgressQuery{DevotionIDs: devotionIDs})
	if err != nil {
		logger.Log.Warn("Failed to load devotion statuses", zap.String("userID", userID), zap.Error(err))
		monitoring.AggregationFallbacks.WithLabelValues("devotion_status").Inc()
		return statuses
	}

	for _, p := range records {
		statuses[p.DevotionID] = model.DevotionStatus{
			Completed:          p.Completed,
			WatchPercentage:    p.WatchPercentage,
			ResponsesCompleted: p.ResponsesCompleted(),
		}
	}
	return statuses
}
