package repository

import (
	"sphereview_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// TimeRange 闭区间 [From, To]
type TimeRange struct {
	From time.Time
	To   time.Time
}

func (r TimeRange) contains(t *time.Time) bool {
	return t != nil && !t.Before(r.From) && !t.After(r.To)
}

// ProgressQuery 单个用户的进度查询条件，零值表示该用户的全部记录
type ProgressQuery struct {
	// nil 不限制；非 nil 的空切片不匹配任何记录
	DevotionIDs            []uint
	CompletedOnly          bool
	ResponsesCompletedOnly bool
	WatchedIn              *TimeRange
	ResponsesCompletedIn   *TimeRange
	// completed_at 或 responses_completed_at 至少一个非空
	WithActivity bool
}

func (q ProgressQuery) apply(db *gorm.DB) *gorm.DB {
	if q.DevotionIDs != nil {
		db = db.Where("devotion_id IN ?", q.DevotionIDs)
	}
	if q.CompletedOnly {
		db = db.Where("completed = ?", true)
	}
	if q.ResponsesCompletedOnly {
		db = db.Where("responses_completed_at IS NOT NULL")
	}
	if q.WatchedIn != nil {
		db = db.Where("last_watched_at BETWEEN ? AND ?", q.WatchedIn.From, q.WatchedIn.To)
	}
	if q.ResponsesCompletedIn != nil {
		db = db.Where("responses_completed_at BETWEEN ? AND ?", q.ResponsesCompletedIn.From, q.ResponsesCompletedIn.To)
	}
	if q.WithActivity {
		db = db.Where("(completed_at IS NOT NULL OR responses_completed_at IS NOT NULL)")
	}
	return db
}

// Match 与 apply 等价的内存判断
func (q ProgressQuery) Match(p *model.UserProgress) bool {
	if q.DevotionIDs != nil {
		found := false
		for _, id := range q.DevotionIDs {
			if id == p.DevotionID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.CompletedOnly && !p.Completed {
		return false
	}
	if q.ResponsesCompletedOnly && p.ResponsesCompletedAt == nil {
		return false
	}
	if q.WatchedIn != nil && !q.WatchedIn.contains(p.LastWatchedAt) {
		return false
	}
	if q.ResponsesCompletedIn != nil && !q.ResponsesCompletedIn.contains(p.ResponsesCompletedAt) {
		return false
	}
	if q.WithActivity && p.CompletedAt == nil && p.ResponsesCompletedAt == nil {
		return false
	}
	return true
}
