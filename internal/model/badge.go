package model

// Badge 根据完成数量解锁的徽章
type Badge struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Threshold int    `json:"threshold"`
	Emoji     string `json:"emoji"`
}

// AchievementBadges 观看类徽章
var AchievementBadges = []Badge{
	{ID: "first-step", Name: "First Step", Threshold: 1, Emoji: "🌟"},
	{ID: "getting-started", Name: "Getting Started", Threshold: 10, Emoji: "🚀"},
	{ID: "half-century", Name: "Half Century", Threshold: 50, Emoji: "📚"},
	{ID: "century-club", Name: "Century Club", Threshold: 100, Emoji: "💯"},
	{ID: "double-century", Name: "Double Century", Threshold: 200, Emoji: "🔥"},
	{ID: "master-scholar", Name: "Master Scholar", Threshold: TotalItems, Emoji: "🏆"},
}

// FullCompletionBadges 观看并完成全部反思问题的徽章
var FullCompletionBadges = []Badge{
	{ID: "first-full", Name: "First Full", Threshold: 1, Emoji: "✨"},
	{ID: "ten-full", Name: "Ten Complete", Threshold: 10, Emoji: "📖"},
	{ID: "sphere-full", Name: "Sphere Complete", Threshold: ItemsPerGroup, Emoji: "🎯"},
	{ID: "all-full", Name: "All 416", Threshold: TotalItems, Emoji: "👑"},
}
