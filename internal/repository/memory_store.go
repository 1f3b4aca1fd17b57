package repository

import (
	"context"
	"sort"
	"sphereview_backend/internal/model"
	"sync"
	"time"
)

type progressKey struct {
	userID     string
	devotionID uint
}

// MemoryProgressStore database.driver=memory 时使用，语义与 ProgressRepository 一致，重启即丢失
type MemoryProgressStore struct {
	mu      sync.RWMutex
	records map[progressKey]model.UserProgress
}

func NewMemoryProgressStore() *MemoryProgressStore {
	return &MemoryProgressStore{records: make(map[progressKey]model.UserProgress)}
}

func (s *MemoryProgressStore) FindOne(ctx context.Context, userID string, devotionID uint) (*model.UserProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.records[progressKey{userID, devotionID}]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *MemoryProgressStore) UpsertWatch(ctx context.Context, progress *model.UserProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	key := progressKey{progress.UserID, progress.DevotionID}
	existing, ok := s.records[key]
	if !ok {
		rec := *progress
		if rec.ID == "" {
			rec.ID = model.GenerateUUID()
		}
		rec.CreatedAt = now
		rec.UpdatedAt = now
		s.records[key] = rec
		return nil
	}

	existing.WatchPercentage = progress.WatchPercentage
	existing.Completed = existing.Completed || progress.Completed
	if existing.CompletedAt == nil {
		existing.CompletedAt = progress.CompletedAt
	}
	existing.LastWatchedAt = progress.LastWatchedAt
	existing.UpdatedAt = now
	s.records[key] = existing
	return nil
}

func (s *MemoryProgressStore) UpsertResponsesCompleted(ctx context.Context, userID string, devotionID uint, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	key := progressKey{userID, devotionID}
	existing, ok := s.records[key]
	if !ok {
		s.records[key] = model.UserProgress{
			UUIDBase:             model.UUIDBase{ID: model.GenerateUUID(), CreatedAt: now, UpdatedAt: now},
			UserID:               userID,
			DevotionID:           devotionID,
			ResponsesCompletedAt: &at,
		}
		return nil
	}

	if existing.ResponsesCompletedAt == nil {
		existing.ResponsesCompletedAt = &at
	}
	existing.UpdatedAt = now
	s.records[key] = existing
	return nil
}

func (s *MemoryProgressStore) Find(ctx context.Context, userID string, q ProgressQuery) ([]model.UserProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.UserProgress
	for key, p := range s.records {
		if key.userID != userID {
			continue
		}
		if q.Match(&p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DevotionID < out[j].DevotionID })
	return out, nil
}

func (s *MemoryProgressStore) Count(ctx context.Context, userID string, q ProgressQuery) (int64, error) {
	records, err := s.Find(ctx, userID, q)
	return int64(len(records)), err
}

type reflectionKey struct {
	userID      string
	devotionID  uint
	questionKey model.QuestionKey
}

type MemoryReflectionStore struct {
	mu        sync.RWMutex
	responses map[reflectionKey]model.ReflectionResponse
}

func NewMemoryReflectionStore() *MemoryReflectionStore {
	return &MemoryReflectionStore{responses: make(map[reflectionKey]model.ReflectionResponse)}
}

func (s *MemoryReflectionStore) Upsert(ctx context.Context, response *model.ReflectionResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	key := reflectionKey{response.UserID, response.DevotionID, response.QuestionKey}
	existing, ok := s.responses[key]
	if !ok {
		rec := *response
		if rec.ID == "" {
			rec.ID = model.GenerateUUID()
		}
		rec.CreatedAt = now
		rec.UpdatedAt = now
		s.responses[key] = rec
		return nil
	}

	existing.ResponseText = response.ResponseText
	existing.UpdatedAt = now
	s.responses[key] = existing
	return nil
}

func (s *MemoryReflectionStore) FindByDevotion(ctx context.Context, userID string, devotionID uint) ([]model.ReflectionResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.ReflectionResponse
	for key, r := range s.responses {
		if key.userID == userID && key.devotionID == devotionID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionKey < out[j].QuestionKey })
	return out, nil
}
