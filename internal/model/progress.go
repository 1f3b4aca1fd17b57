package model

import (
	"time"
)

// UserProgress 用户 x 灵修 的观看与反思进度，首次交互时创建
// swagger:model UserProgress
type UserProgress struct {
	UUIDBase
	UserID          string `gorm:"type:varchar(64);not null;uniqueIndex:idx_user_devotion;comment:身份服务用户ID" json:"userId"`
	DevotionID      uint   `gorm:"not null;uniqueIndex:idx_user_devotion;index" json:"devotionId"`
	WatchPercentage int    `gorm:"default:0" json:"watchPercentage"`
	// 达到阈值后不再回退
	Completed bool `gorm:"default:false" json:"completed"`
	// 只写一次
	CompletedAt   *time.Time `json:"completedAt"`
	LastWatchedAt *time.Time `gorm:"index" json:"lastWatchedAt"`
	// 只写一次
	ResponsesCompletedAt *time.Time `gorm:"index" json:"responsesCompletedAt"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}

func (p *UserProgress) ResponsesCompleted() bool {
	return p != nil && p.ResponsesCompletedAt != nil
}
