package service

import (
	"context"
	"sphereview_backend/internal/model"
	"sphereview_backend/internal/repository"
	"time"
)

// ProgressStore 进度记录存储，nil 表示未配置
type ProgressStore interface {
	FindOne(ctx context.Context, userID string, devotionID uint) (*model.UserProgress, error)
	UpsertWatch(ctx context.Context, progress *model.UserProgress) error
	UpsertResponsesCompleted(ctx context.Context, userID string, devotionID uint, at time.Time) error
	Find(ctx context.Context, userID string, q repository.ProgressQuery) ([]model.UserProgress, error)
	Count(ctx context.Context, userID string, q repository.ProgressQuery) (int64, error)
}

// ReflectionStore 反思回答存储，nil 表示未配置
type ReflectionStore interface {
	Upsert(ctx context.Context, response *model.ReflectionResponse) error
	FindByDevotion(ctx context.Context, userID string, devotionID uint) ([]model.ReflectionResponse, error)
}

var (
	_ ProgressStore   = (*repository.ProgressRepository)(nil)
	_ ProgressStore   = (*repository.MemoryProgressStore)(nil)
	_ ReflectionStore = (*repository.ReflectionRepository)(nil)
	_ ReflectionStore = (*repository.MemoryReflectionStore)(nil)
)

type clock struct {
	now func() time.Time
	loc *time.Location
}

func (c clock) Now() time.Time {
	return c.now().UTC()
}

// Option 注入时钟与业务时区，测试中固定时间
type Option func(*clock)

func WithClock(now func() time.Time) Option {
	return func(c *clock) {
		if now != nil {
			c.now = now
		}
	}
}

func WithLocation(loc *time.Location) Option {
	return func(c *clock) {
		if loc != nil {
			c.loc = loc
		}
	}
}

func newClock(opts []Option) clock {
	c := clock{now: time.Now, loc: time.UTC}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
