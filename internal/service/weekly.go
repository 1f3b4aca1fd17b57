package service

import (
	"context"
	"sphereview_backend/internal/model"
	"sphereview_backend/internal/repository"
	"time"
)

const weeklyWindow = 7 * 24 * time.Hour

// GetWeeklySummary 最近 7x24 小时内观看过、完成反思的不同灵修数量
func (s *StatsService) GetWeeklySummary(ctx context.Context, userID string) model.WeeklySummary {
	now := s.clock.Now()
	window := &repository.TimeRange{From: now.Add(-weeklyWindow), To: now}

	return model.WeeklySummary{
		WatchedThisWeek:     s.count(ctx, userID, "weekly_watched", repository.ProgressQuery{WatchedIn: window}),
		ReflectionsThisWeek: s.count(ctx, userID, "weekly_reflections", repository.ProgressQuery{ResponsesCompletedIn: window}),
	}
}
