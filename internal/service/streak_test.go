package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	day := func(offset int, hour int) time.Time {
		return time.Date(2026, 3, 10+offset, hour, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name     string
		activity []time.Time
		want     int
	}{
		{"no activity", nil, 0},
		{"today only", []time.Time{day(0, 8)}, 1},
		{"gap stops the count", []time.Time{day(0, 8), day(-1, 8), day(-3, 8)}, 2},
		{"anchored at yesterday", []time.Time{day(-1, 8), day(-2, 23)}, 2},
		{"lapsed", []time.Time{day(-2, 8), day(-3, 8)}, 0},
		{"same day counted once", []time.Time{day(0, 1), day(0, 2), day(-1, 3), day(-1, 4)}, 2},
		{"future dates ignored", []time.Time{day(2, 8), day(0, 8)}, 1},
		{"only future", []time.Time{day(1, 8)}, 0},
		{"across month boundary", []time.Time{day(0, 8), day(-1, 8), day(-2, 8), day(-3, 8), day(-4, 8), day(-5, 8), day(-6, 8), day(-7, 8), day(-8, 8), day(-9, 8), day(-10, 8)}, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calculateStreak(tt.activity, now, time.UTC))
		})
	}
}

func TestCalculateStreakTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 纽约时间 3月10日 02:00
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	// 纽约时间 3月9日 22:00，UTC 已是 3月10日
	activity := []time.Time{time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)}

	assert.Equal(t, 1, calculateStreak(activity, now, time.UTC))
	assert.Equal(t, 1, calculateStreak(activity, now, loc))

	// 纽约时间下同一自然日的两次活动只算一天
	activity = append(activity, time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, 2, calculateStreak(activity, now, time.UTC))
	assert.Equal(t, 1, calculateStreak(activity, now, loc))
}

func TestGetStreakUsesBothTimestamps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 前天观看并完成
	f.clock.Advance(-48 * time.Hour)
	f.watch(t, "u1", 10, 100)

	// 昨天只完成了另一条的反思
	f.clock.Advance(24 * time.Hour)
	f.answerAll(t, "u1", 11)

	// 今天
	f.clock.Advance(24 * time.Hour)
	assert.Equal(t, 2, f.statsSvc.GetStreak(ctx, "u1"))

	f.watch(t, "u1", 12, 95)
	assert.Equal(t, 3, f.statsSvc.GetStreak(ctx, "u1"))

	// 观看未达阈值不算活动
	assert.Equal(t, 0, f.statsSvc.GetStreak(ctx, "u2"))
	f.watch(t, "u2", 12, 50)
	assert.Equal(t, 0, f.statsSvc.GetStreak(ctx, "u2"))
}
