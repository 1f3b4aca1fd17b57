package service

import (
	"context"
	"sphereview_backend/internal/repository"
	"time"
)

// GetStreak 连续有完成记录（观看或反思）的天数，必须截止到今天或昨天
func (s *StatsService) GetStreak(ctx context.Context, userID string) int {
	records, ok := s.find(ctx, userID, "streak", repository.ProgressQuery{WithActivity: true})
	if !ok {
		return 0
	}

	var activity []time.Time
	for _, p := range records {
		if p.CompletedAt != nil {
			activity = append(activity, *p.CompletedAt)
		}
		if p.ResponsesCompletedAt != nil {
			activity = append(activity, *p.ResponsesCompletedAt)
		}
	}
	return calculateStreak(activity, s.clock.Now(), s.clock.loc)
}

// civilDay 时区内的自然日，统一用 UTC 零点表示，便于逐日回退
func civilDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func calculateStreak(activity []time.Time, now time.Time, loc *time.Location) int {
	today := civilDay(now, loc)

	days := make(map[time.Time]bool, len(activity))
	for _, t := range activity {
		day := civilDay(t, loc)
		// 时钟偏差导致的未来日期忽略
		if day.After(today) {
			continue
		}
		days[day] = true
	}

	anchor := today
	if !days[anchor] {
		anchor = today.AddDate(0, 0, -1)
		if !days[anchor] {
			return 0
		}
	}

	streak := 0
	for day := anchor; days[day]; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}
