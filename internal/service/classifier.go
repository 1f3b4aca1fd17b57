package service

import (
	"math"
	"sphereview_backend/internal/model"
	"strings"
	"time"
	"unicode/utf8"
)

// ClampPercentage 四舍五入后限制在 0..100
func ClampPercentage(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return int(r)
}

func IsWatched(percentage int) bool {
	return percentage >= model.CompletionThreshold
}

// applyWatch 在已有记录基础上合并一次观看写入
// completed 只能由假变真，completed_at 仅在这次转变时写入
func applyWatch(existing *model.UserProgress, userID string, devotionID uint, percentage int, now time.Time) *model.UserProgress {
	next := &model.UserProgress{
		UserID:          userID,
		DevotionID:      devotionID,
		WatchPercentage: percentage,
		LastWatchedAt:   &now,
	}

	wasCompleted := existing != nil && existing.Completed
	next.Completed = wasCompleted || IsWatched(percentage)

	switch {
	case existing != nil && existing.CompletedAt != nil:
		completedAt := *existing.CompletedAt
		next.CompletedAt = &completedAt
	case next.Completed:
		next.CompletedAt = &now
	}

	if existing != nil {
		next.ID = existing.ID
		next.ResponsesCompletedAt = existing.ResponsesCompletedAt
	}
	return next
}

// reflectionsComplete 当前写入的问题使用新文本，其余问题使用已保存文本
// 没有任何反思问题的灵修永远不算完成
func reflectionsComplete(devotion model.Devotion, stored []model.ReflectionResponse, key model.QuestionKey, text string) bool {
	required := devotion.RequiredKeys()
	if len(required) == 0 {
		return false
	}

	answered := make(map[model.QuestionKey]bool, len(stored)+1)
	for _, r := range stored {
		answered[r.QuestionKey] = strings.TrimSpace(r.ResponseText) != ""
	}
	answered[key] = strings.TrimSpace(text) != ""

	for _, k := range required {
		if !answered[k] {
			return false
		}
	}
	return true
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}

func percentOf(count, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}
