package repository

import (
	"context"
	"fmt"
	"sphereview_backend/internal/model"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.UserProgress{}, &model.ReflectionResponse{}))
	return db
}

type progressStore interface {
	FindOne(ctx context.Context, userID string, devotionID uint) (*model.UserProgress, error)
	UpsertWatch(ctx context.Context, progress *model.UserProgress) error
	UpsertResponsesCompleted(ctx context.Context, userID string, devotionID uint, at time.Time) error
	Find(ctx context.Context, userID string, q ProgressQuery) ([]model.UserProgress, error)
	Count(ctx context.Context, userID string, q ProgressQuery) (int64, error)
}

type reflectionStore interface {
	Upsert(ctx context.Context, response *model.ReflectionResponse) error
	FindByDevotion(ctx context.Context, userID string, devotionID uint) ([]model.ReflectionResponse, error)
}

// 两种实现跑同一组用例
func progressStores(t *testing.T) map[string]func() progressStore {
	return map[string]func() progressStore{
		"gorm":   func() progressStore { return NewProgressRepository(setupTestDB(t)) },
		"memory": func() progressStore { return NewMemoryProgressStore() },
	}
}

func reflectionStores(t *testing.T) map[string]func() reflectionStore {
	return map[string]func() reflectionStore{
		"gorm":   func() reflectionStore { return NewReflectionRepository(setupTestDB(t)) },
		"memory": func() reflectionStore { return NewMemoryReflectionStore() },
	}
}

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	t = t.UTC()
	return &t
}

func TestProgressStoreFindOneMissing(t *testing.T) {
	for name, newStore := range progressStores(t) {
		t.Run(name, func(t *testing.T) {
			p, err := newStore().FindOne(context.Background(), "u1", 1)
			require.NoError(t, err)
			assert.Nil(t, p)
		})
	}
}

func TestProgressStoreUpsertWatchWriteOnce(t *testing.T) {
	ctx := context.Background()
	for name, newStore := range progressStores(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore()

			first := ts("2026-03-01T10:00:00Z")
			require.NoError(t, store.UpsertWatch(ctx, &model.UserProgress{
				UserID: "u1", DevotionID: 7, WatchPercentage: 95,
				Completed: true, CompletedAt: first, LastWatchedAt: first,
			}))

			// 后续较低的观看进度不能清除完成状态或改写完成时间
			later := ts("2026-03-02T10:00:00Z")
			require.NoError(t, store.UpsertWatch(ctx, &model.UserProgress{
				UserID: "u1", DevotionID: 7, WatchPercentage: 40,
				Completed: false, CompletedAt: nil, LastWatchedAt: later,
			}))
			require.NoError(t, store.UpsertWatch(ctx, &model.UserProgress{
				UserID: "u1", DevotionID: 7, WatchPercentage: 100,
				Completed: true, CompletedAt: later, LastWatchedAt: later,
			}))

			p, err := store.FindOne(ctx, "u1", 7)
			require.NoError(t, err)
			require.NotNil(t, p)
			assert.Equal(t, 100, p.WatchPercentage)
			assert.True(t, p.Completed)
			require.NotNil(t, p.CompletedAt)
			assert.True(t, first.Equal(*p.CompletedAt))
			require.NotNil(t, p.LastWatchedAt)
			assert.True(t, later.Equal(*p.LastWatchedAt))
			assert.Nil(t, p.ResponsesCompletedAt)
		})
	}
}

func TestProgressStoreResponsesCompletedWriteOnce(t *testing.T) {
	ctx := context.Background()
	for name, newStore := range progressStores(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore()

			watched := ts("2026-03-01T08:00:00Z")
			require.NoError(t, store.UpsertWatch(ctx, &model.UserProgress{
				UserID: "u1", DevotionID: 3, WatchPercentage: 92,
				Completed: true, CompletedAt: watched, LastWatchedAt: watched,
			}))

			first := ts("2026-03-01T09:00:00Z")
			require.NoError(t, store.UpsertResponsesCompleted(ctx, "u1", 3, *first))
			require.NoError(t, store.UpsertResponsesCompleted(ctx, "u1", 3, *ts("2026-03-05T09:00:00Z")))

			p, err := store.FindOne(ctx, "u1", 3)
			require.NoError(t, err)
			require.NotNil(t, p)
			require.NotNil(t, p.ResponsesCompletedAt)
			assert.True(t, first.Equal(*p.ResponsesCompletedAt))
			// 反思路径不触碰观看字段
			assert.Equal(t, 92, p.WatchPercentage)
			assert.True(t, p.Completed)

			// 未观看时首次写入只带默认值
			require.NoError(t, store.UpsertResponsesCompleted(ctx, "u1", 4, *first))
			p, err = store.FindOne(ctx, "u1", 4)
			require.NoError(t, err)
			require.NotNil(t, p)
			assert.False(t, p.Completed)
			assert.Equal(t, 0, p.WatchPercentage)
			assert.Nil(t, p.CompletedAt)
		})
	}
}

func TestProgressStoreQueries(t *testing.T) {
	ctx := context.Background()
	for name, newStore := range progressStores(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore()

			d1 := ts("2026-03-01T10:00:00Z")
			d5 := ts("2026-03-05T10:00:00Z")
			require.NoError(t, store.UpsertWatch(ctx, &model.UserProgress{UserID: "u1", DevotionID: 1, WatchPercentage: 100, Completed: true, CompletedAt: d1, LastWatchedAt: d1}))
			require.NoError(t, store.UpsertWatch(ctx, &model.UserProgress{UserID: "u1", DevotionID: 2, WatchPercentage: 30, LastWatchedAt: d5}))
			require.NoError(t, store.UpsertWatch(ctx, &model.UserProgress{UserID: "u1", DevotionID: 60, WatchPercentage: 90, Completed: true, CompletedAt: d5, LastWatchedAt: d5}))
			require.NoError(t, store.UpsertResponsesCompleted(ctx, "u1", 1, *d5))
			require.NoError(t, store.UpsertWatch(ctx, &model.UserProgress{UserID: "u2", DevotionID: 1, WatchPercentage: 100, Completed: true, CompletedAt: d1, LastWatchedAt: d1}))

			count := func(q ProgressQuery) int64 {
				n, err := store.Count(ctx, "u1", q)
				require.NoError(t, err)
				return n
			}

			assert.EqualValues(t, 3, count(ProgressQuery{}))
			assert.EqualValues(t, 2, count(ProgressQuery{CompletedOnly: true}))
			assert.EqualValues(t, 1, count(ProgressQuery{ResponsesCompletedOnly: true}))
			assert.EqualValues(t, 1, count(ProgressQuery{CompletedOnly: true, DevotionIDs: []uint{1, 2, 3}}))
			assert.EqualValues(t, 0, count(ProgressQuery{DevotionIDs: []uint{}}))
			assert.EqualValues(t, 2, count(ProgressQuery{WatchedIn: &TimeRange{From: *ts("2026-03-04T00:00:00Z"), To: *ts("2026-03-06T00:00:00Z")}}))
			assert.EqualValues(t, 1, count(ProgressQuery{ResponsesCompletedIn: &TimeRange{From: *d5, To: *d5}}))
			assert.EqualValues(t, 2, count(ProgressQuery{WithActivity: true}))

			records, err := store.Find(ctx, "u1", ProgressQuery{CompletedOnly: true})
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Equal(t, uint(1), records[0].DevotionID)
			assert.Equal(t, uint(60), records[1].DevotionID)

			other, err := store.Find(ctx, "nobody", ProgressQuery{})
			require.NoError(t, err)
			assert.Empty(t, other)
		})
	}
}

func TestReflectionStoreUpsert(t *testing.T) {
	ctx := context.Background()
	for name, newStore := range reflectionStores(t) {
		t.Run(name, func(t *testing.T) {
			store := newStore()

			require.NoError(t, store.Upsert(ctx, &model.ReflectionResponse{UserID: "u1", DevotionID: 5, QuestionKey: model.QuestionQ2, ResponseText: "first"}))
			require.NoError(t, store.Upsert(ctx, &model.ReflectionResponse{UserID: "u1", DevotionID: 5, QuestionKey: model.QuestionQ1, ResponseText: "one"}))
			require.NoError(t, store.Upsert(ctx, &model.ReflectionResponse{UserID: "u1", DevotionID: 5, QuestionKey: model.QuestionQ2, ResponseText: "second"}))
			require.NoError(t, store.Upsert(ctx, &model.ReflectionResponse{UserID: "u1", DevotionID: 6, QuestionKey: model.QuestionQ1, ResponseText: "other"}))

			responses, err := store.FindByDevotion(ctx, "u1", 5)
			require.NoError(t, err)
			require.Len(t, responses, 2)
			assert.Equal(t, model.QuestionQ1, responses[0].QuestionKey)
			assert.Equal(t, "one", responses[0].ResponseText)
			assert.Equal(t, model.QuestionQ2, responses[1].QuestionKey)
			assert.Equal(t, "second", responses[1].ResponseText)

			none, err := store.FindByDevotion(ctx, "u2", 5)
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestProgressQueryMatchEmptyIDs(t *testing.T) {
	p := &model.UserProgress{DevotionID: 1}
	assert.True(t, ProgressQuery{}.Match(p))
	assert.False(t, ProgressQuery{DevotionIDs: []uint{}}.Match(p))
	assert.True(t, ProgressQuery{DevotionIDs: []uint{1}}.Match(p))
}
