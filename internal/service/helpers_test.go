package service

import (
	"context"
	"errors"
	"fmt"
	"sphereview_backend/internal/catalog"
	"sphereview_backend/internal/model"
	"sphereview_backend/internal/repository"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var errStoreDown = errors.New("store unreachable")

// 各领域按顺序编号：领域 s 的第 p 条 ID = (s-1)*52 + p
// ID 3 没有反思问题，ID 4 只有 q1、q3
func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	devotions := make([]model.Devotion, 0, model.TotalItems)
	for _, sphere := range model.Spheres {
		for pos := 1; pos <= model.ItemsPerGroup; pos++ {
			id := (sphere.ID-1)*model.ItemsPerGroup + uint(pos)
			d := model.Devotion{
				ID:            id,
				SphereID:      sphere.ID,
				OrderInSphere: pos,
				Code:          fmt.Sprintf("S%d-%02d", sphere.ID, pos),
				Title:         fmt.Sprintf("Devotion %d", id),
				ReflectionQ1:  "What stands out to you?",
				ReflectionQ2:  "Where do you see this today?",
				ReflectionQ3:  "What is hard about this?",
				ReflectionQ4:  "What will you do this week?",
			}
			switch id {
			case 3:
				d.ReflectionQ1, d.ReflectionQ2, d.ReflectionQ3, d.ReflectionQ4 = "", "", "", ""
			case 4:
				d.ReflectionQ2, d.ReflectionQ4 = "", "  "
			}
			devotions = append(devotions, d)
		}
	}
	c, err := catalog.New(devotions)
	require.NoError(t, err)
	return c
}

// fakeClock 可手动推进的时钟
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
}

type fixture struct {
	clock       *fakeClock
	catalog     *catalog.Catalog
	progress    ProgressStore
	reflections ReflectionStore
	progressSvc *ProgressService
	statsSvc    *StatsService
}

func newFixtureWith(t *testing.T, progress ProgressStore, reflections ReflectionStore) *fixture {
	t.Helper()
	f := &fixture{
		clock:       newFakeClock(),
		catalog:     testCatalog(t),
		progress:    progress,
		reflections: reflections,
	}
	f.progressSvc = NewProgressService(f.progress, f.reflections, f.catalog, WithClock(f.clock.Now))
	f.statsSvc = NewStatsService(f.progress, f.catalog, WithClock(f.clock.Now))
	return f
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, repository.NewMemoryProgressStore(), repository.NewMemoryReflectionStore())
}

// newSQLFixture 使用 sqlite 内存库上的 gorm 仓储
func newSQLFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.UserProgress{}, &model.ReflectionResponse{}))
	return newFixtureWith(t, repository.NewProgressRepository(db), repository.NewReflectionRepository(db))
}

// fixtures 同一组用例分别跑在内存存储和 gorm 存储上
func fixtures() map[string]func(t *testing.T) *fixture {
	return map[string]func(t *testing.T) *fixture{
		"memory": newFixture,
		"gorm":   newSQLFixture,
	}
}

func (f *fixture) watch(t *testing.T, userID string, devotionID uint, pct float64) *model.UserProgress {
	t.Helper()
	p, err := f.progressSvc.RecordWatch(context.Background(), userID, WatchInput{DevotionID: devotionID, WatchPercentage: &pct})
	require.NoError(t, err)
	return p
}

func (f *fixture) answer(t *testing.T, userID string, devotionID uint, key model.QuestionKey, text string) bool {
	t.Helper()
	res, err := f.progressSvc.SaveResponse(context.Background(), userID, ResponseInput{
		DevotionID:   devotionID,
		QuestionKey:  string(key),
		ResponseText: text,
	})
	require.NoError(t, err)
	return res.AllCompleted
}

func (f *fixture) answerAll(t *testing.T, userID string, devotionID uint) {
	t.Helper()
	for _, k := range model.QuestionKeys {
		f.answer(t, userID, devotionID, k, "answer "+string(k))
	}
}

// failingProgressStore 所有操作都返回错误
type failingProgressStore struct{}

func (failingProgressStore) FindOne(ctx context.Context, userID string, devotionID uint) (*model.UserProgress, error) {
	return nil, errStoreDown
}

func (failingProgressStore) UpsertWatch(ctx context.Context, progress *model.UserProgress) error {
	return errStoreDown
}

func (failingProgressStore) UpsertResponsesCompleted(ctx context.Context, userID string, devotionID uint, at time.Time) error {
	return errStoreDown
}

func (failingProgressStore) Find(ctx context.Context, userID string, q repository.ProgressQuery) ([]model.UserProgress, error) {
	return nil, errStoreDown
}

func (failingProgressStore) Count(ctx context.Context, userID string, q repository.ProgressQuery) (int64, error) {
	return 0, errStoreDown
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
