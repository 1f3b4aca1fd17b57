package service

import (
	"context"
	"sphereview_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregationsWithZeroRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, model.OverallProgress{}, f.statsSvc.GetOverallProgress(ctx, "nobody"))
	sphere, _ := model.SphereBySlug("family")
	p := f.statsSvc.GetSphereProgress(ctx, "nobody", sphere)
	assert.Zero(t, p.Completed)
	assert.Zero(t, p.Percentage)
	assert.Zero(t, p.ResponsesPercentage)
	assert.Equal(t, 0, f.statsSvc.GetStreak(ctx, "nobody"))
	assert.Equal(t, model.WeeklySummary{}, f.statsSvc.GetWeeklySummary(ctx, "nobody"))
	for _, sp := range f.statsSvc.GetAllSphereProgress(ctx, "nobody") {
		assert.Zero(t, sp.Completed)
		assert.Zero(t, sp.Percentage)
	}
	assert.Zero(t, f.statsSvc.GetBadges(ctx, "nobody").EarnedCount)
}

func TestAggregationsDegradeOnStoreFailure(t *testing.T) {
	c := testCatalog(t)
	ctx := context.Background()

	for name, svc := range map[string]*StatsService{
		"failing":      NewStatsService(failingProgressStore{}, c),
		"unconfigured": NewStatsService(nil, c),
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, model.OverallProgress{}, svc.GetOverallProgress(ctx, "u1"))
			assert.Equal(t, 0, svc.GetStreak(ctx, "u1"))
			assert.Equal(t, model.WeeklySummary{}, svc.GetWeeklySummary(ctx, "u1"))
			spheres := svc.GetAllSphereProgress(ctx, "u1")
			require.Len(t, spheres, model.GroupCount)
			for _, sp := range spheres {
				assert.Zero(t, sp.Completed)
			}
		})
	}
}

func TestOverallAndSphereProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 领域1 观看 26 条，其中 13 条完成反思；领域2 观看 1 条未达阈值
	for id := uint(1); id <= 26; id++ {
		f.watch(t, "u1", id, 100)
	}
	for id := uint(5); id <= 17; id++ {
		f.answerAll(t, "u1", id)
	}
	f.watch(t, "u1", 53, 50)

	overall := f.statsSvc.GetOverallProgress(ctx, "u1")
	assert.Equal(t, 26, overall.CompletedCount)
	assert.Equal(t, 13, overall.ResponsesCompletedCount)
	assert.Equal(t, 6, overall.Percentage)
	assert.Equal(t, 3, overall.ResponsesPercentage)

	foundational, _ := model.SphereBySlug("foundational")
	sp := f.statsSvc.GetSphereProgress(ctx, "u1", foundational)
	assert.Equal(t, 26, sp.Completed)
	assert.Equal(t, 50, sp.Percentage)
	assert.Equal(t, 13, sp.ResponsesCompleted)
	assert.Equal(t, 25, sp.ResponsesPercentage)

	family, _ := model.SphereBySlug("family")
	assert.Zero(t, f.statsSvc.GetSphereProgress(ctx, "u1", family).Completed)

	all := f.statsSvc.GetAllSphereProgress(ctx, "u1")
	require.Len(t, all, model.GroupCount)
	assert.Equal(t, sp, all[0])
	assert.Equal(t, "family", all[1].Slug)
	assert.Zero(t, all[1].Completed)
}

func TestWeeklySummaryCountsDistinctDevotions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 8 天前观看，2 天前再次观看，只计一次
	f.clock.Advance(-8 * 24 * time.Hour)
	f.watch(t, "u1", 1, 100)
	f.watch(t, "u1", 2, 40)
	f.answerAll(t, "u1", 1)

	f.clock.Advance(6 * 24 * time.Hour)
	f.watch(t, "u1", 1, 100)
	f.watch(t, "u1", 1, 100)
	f.watch(t, "u1", 3, 20)
	f.answerAll(t, "u1", 5)

	f.clock.Advance(2 * 24 * time.Hour)
	weekly := f.statsSvc.GetWeeklySummary(ctx, "u1")
	assert.Equal(t, 2, weekly.WatchedThisWeek)
	// 8 天前完成的反思不在窗口内，重复提交也不会移动时间
	assert.Equal(t, 1, weekly.ReflectionsThisWeek)
}

func TestGetBadges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for id := uint(1); id <= 10; id++ {
		f.watch(t, "u1", id, 100)
	}
	f.answerAll(t, "u1", 1)

	badges := f.statsSvc.GetBadges(ctx, "u1")
	require.Len(t, badges.Achievements, len(model.AchievementBadges))
	require.Len(t, badges.FullCompletion, len(model.FullCompletionBadges))

	assert.True(t, badges.Achievements[0].Earned)
	assert.True(t, badges.Achievements[1].Earned)
	assert.False(t, badges.Achievements[2].Earned)
	assert.True(t, badges.FullCompletion[0].Earned)
	assert.False(t, badges.FullCompletion[1].Earned)
	assert.Equal(t, 3, badges.EarnedCount)
}
