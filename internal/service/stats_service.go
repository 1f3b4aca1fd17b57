package service

import (
	"context"
	"sphereview_backend/internal/catalog"
	"sphereview_backend/internal/model"
	"sphereview_backend/internal/repository"
	"sphereview_backend/pkg/logger"
	"sphereview_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// StatsService 只读聚合，任何读取失败都降级为零值，不向上返回错误
type StatsService struct {
	progress ProgressStore
	catalog  *catalog.Catalog
	clock    clock
}

func NewStatsService(progress ProgressStore, cat *catalog.Catalog, opts ...Option) *StatsService {
	return &StatsService{
		progress: progress,
		catalog:  cat,
		clock:    newClock(opts),
	}
}

func (s *StatsService) Configured() bool {
	return s.progress != nil
}

func (s *StatsService) fallback(metric, userID string, err error) {
	logger.Log.Warn("Progress aggregation degraded to zero",
		zap.String("metric", metric),
		zap.String("userID", userID),
		zap.Error(err),
	)
	monitoring.AggregationFallbacks.WithLabelValues(metric).Inc()
}

func (s *StatsService) count(ctx context.Context, userID, metric string, q repository.ProgressQuery) int {
	if s.progress == nil || userID == "" {
		return 0
	}
	n, err := s.progress.Count(ctx, userID, q)
	if err != nil {
		s.fallback(metric, userID, err)
		return 0
	}
	return int(n)
}

// find 读取失败返回 nil，调用方按无记录处理
func (s *StatsService) find(ctx context.Context, userID, metric string, q repository.ProgressQuery) ([]model.UserProgress, bool) {
	if s.progress == nil || userID == "" {
		return nil, false
	}
	records, err := s.progress.Find(ctx, userID, q)
	if err != nil {
		s.fallback(metric, userID, err)
		return nil, false
	}
	return records, true
}

// GetOverallProgress 分母固定为 TotalItems
func (s *StatsService) GetOverallProgress(ctx context.Context, userID string) model.OverallProgress {
	completed := s.count(ctx, userID, "overall_completed", repository.ProgressQuery{CompletedOnly: true})
	responses := s.count(ctx, userID, "overall_responses", repository.ProgressQuery{ResponsesCompletedOnly: true})

	return model.OverallProgress{
		CompletedCount:          completed,
		ResponsesCompletedCount: responses,
		Percentage:              percentOf(completed, model.TotalItems),
		ResponsesPercentage:     percentOf(responses, model.TotalItems),
	}
}

// GetSphereProgress 分母固定为 ItemsPerGroup，不按目录中实际条数计算
func (s *StatsService) GetSphereProgress(ctx context.Context, userID string, sphere model.Sphere) model.SphereProgress {
	result := model.SphereProgress{
		SphereID:     sphere.ID,
		Slug:         sphere.Slug,
		Name:         sphere.Name,
		ColorPrimary: sphere.ColorPrimary,
	}

	ids := s.catalog.IDsBySphere(sphere.ID)
	if len(ids) == 0 {
		return result
	}

	result.Completed = s.count(ctx, userID, "sphere_completed", repository.ProgressQuery{DevotionIDs: ids, CompletedOnly: true})
	result.ResponsesCompleted = s.count(ctx, userID, "sphere_responses", repository.ProgressQuery{DevotionIDs: ids, ResponsesCompletedOnly: true})
	result.Percentage = percentOf(result.Completed, model.ItemsPerGroup)
	result.ResponsesPercentage = percentOf(result.ResponsesCompleted, model.ItemsPerGroup)
	return result
}

// GetAllSphereProgress 一次读取全部记录后按领域分组，避免 8 x 2 次计数查询
func (s *StatsService) GetAllSphereProgress(ctx context.Context, userID string) []model.SphereProgress {
	records, _ := s.find(ctx, userID, "sphere_all", repository.ProgressQuery{})

	completed := make(map[uint]int, model.GroupCount)
	responses := make(map[uint]int, model.GroupCount)
	for _, p := range records {
		sphere, ok := s.catalog.SphereOf(p.DevotionID)
		if !ok {
			continue
		}
		if p.Completed {
			completed[sphere.ID]++
		}
		if p.ResponsesCompleted() {
			responses[sphere.ID]++
		}
	}

	result := make([]model.SphereProgress, 0, len(model.Spheres))
	for _, sphere := range model.Spheres {
		result = append(result, model.SphereProgress{
			SphereID:            sphere.ID,
			Slug:                sphere.Slug,
			Name:                sphere.Name,
			ColorPrimary:        sphere.ColorPrimary,
			Completed:           completed[sphere.ID],
			Percentage:          percentOf(completed[sphere.ID], model.ItemsPerGroup),
			ResponsesCompleted:  responses[sphere.ID],
			ResponsesPercentage: percentOf(responses[sphere.ID], model.ItemsPerGroup),
		})
	}
	return result
}

// GetBadges 观看徽章按观看完成数，全完成徽章按反思完成数
func (s *StatsService) GetBadges(ctx context.Context, userID string) model.BadgeSummary {
	return badgesFor(s.GetOverallProgress(ctx, userID))
}

func badgesFor(overall model.OverallProgress) model.BadgeSummary {
	summary := model.BadgeSummary{
		Achievements:   make([]model.BadgeStatus, 0, len(model.AchievementBadges)),
		FullCompletion: make([]model.BadgeStatus, 0, len(model.FullCompletionBadges)),
	}
	for _, b := range model.AchievementBadges {
		earned := overall.CompletedCount >= b.Threshold
		if earned {
			summary.EarnedCount++
		}
		summary.Achievements = append(summary.Achievements, model.BadgeStatus{Badge: b, Earned: earned})
	}
	for _, b := range model.FullCompletionBadges {
		earned := overall.ResponsesCompletedCount >= b.Threshold
		if earned {
			summary.EarnedCount++
		}
		summary.FullCompletion = append(summary.FullCompletion, model.BadgeStatus{Badge: b, Earned: earned})
	}
	return summary
}
