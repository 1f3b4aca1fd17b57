package model

import "time"

// OverallProgress 全部灵修的完成统计
type OverallProgress struct {
	CompletedCount          int `json:"completedCount"`
	ResponsesCompletedCount int `json:"responsesCompletedCount"`
	Percentage              int `json:"percentage"`
	ResponsesPercentage     int `json:"responsesPercentage"`
}

// SphereProgress 单个领域的完成统计，百分比以每组固定52条为分母
type SphereProgress struct {
	SphereID            uint   `json:"sphereId"`
	Slug                string `json:"slug"`
	Name                string `json:"name"`
	ColorPrimary        string `json:"colorPrimary"`
	Completed           int    `json:"completed"`
	Percentage          int    `json:"percentage"`
	ResponsesCompleted  int    `json:"responsesCompleted"`
	ResponsesPercentage int    `json:"responsesPercentage"`
}

type WeeklySummary struct {
	WatchedThisWeek     int `json:"watchedThisWeek"`
	ReflectionsThisWeek int `json:"reflectionsThisWeek"`
}

// NextIntent 推荐的下一步类型
type NextIntent string

const (
	IntentReflections NextIntent = "reflections"
	IntentWatch       NextIntent = "watch"
	IntentNone        NextIntent = "none"
)

// NextDevotion 推荐结果，Intent 为 none 时其余字段为空
type NextDevotion struct {
	Intent     NextIntent `json:"intent"`
	DevotionID uint       `json:"devotionId,omitempty"`
	Slug       string     `json:"slug,omitempty"`
	Code       string     `json:"code,omitempty"`
	Title      string     `json:"title,omitempty"`
}

func (n NextDevotion) Found() bool {
	return n.Intent == IntentReflections || n.Intent == IntentWatch
}

// DevotionStatus 单条灵修在卡片上展示的状态
type DevotionStatus struct {
	Completed          bool `json:"completed"`
	WatchPercentage    int  `json:"watchPercentage"`
	ResponsesCompleted bool `json:"responsesCompleted"`
}

type BadgeStatus struct {
	Badge
	Earned bool `json:"earned"`
}

type BadgeSummary struct {
	Achievements   []BadgeStatus `json:"achievements"`
	FullCompletion []BadgeStatus `json:"fullCompletion"`
	EarnedCount    int           `json:"earnedCount"`
}

// ResponseView 按问题编号返回的已保存回答
type ResponseView struct {
	ResponseText string    `json:"responseText"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
