package service

import (
	"context"
	"sphereview_backend/internal/catalog"
	"sphereview_backend/internal/model"
	"sphereview_backend/internal/util"
)

// PassageLookup 经文查询协作者
type PassageLookup interface {
	Lookup(ctx context.Context, reference string) *model.ScripturePassage
}

type CatalogService struct {
	catalog   *catalog.Catalog
	progress  *ProgressService
	stats     *StatsService
	scripture PassageLookup
}

func NewCatalogService(cat *catalog.Catalog, progress *ProgressService, stats *StatsService, scripture PassageLookup) *CatalogService {
	return &CatalogService{
		catalog:   cat,
		progress:  progress,
		stats:     stats,
		scripture: scripture,
	}
}

// SphereSummary 未登录时不带 Progress
type SphereSummary struct {
	model.Sphere
	DevotionCount int                   `json:"devotionCount"`
	Progress      *model.SphereProgress `json:"progress,omitempty"`
}

type DevotionCard struct {
	ID                 uint                  `json:"id"`
	Code               string                `json:"code"`
	OrderInSphere      int                   `json:"orderInSphere"`
	Title              string                `json:"title"`
	ScriptureReference string                `json:"scriptureReference"`
	CategoryTitle      string                `json:"categoryTitle,omitempty"`
	Status             *model.DevotionStatus `json:"status,omitempty"`
}

type SphereDetail struct {
	Sphere    model.Sphere          `json:"sphere"`
	Progress  *model.SphereProgress `json:"progress,omitempty"`
	Devotions []DevotionCard        `json:"devotions"`
}

type DevotionDetail struct {
	Devotion model.Devotion          `json:"devotion"`
	Sphere   model.Sphere            `json:"sphere"`
	Passage  *model.ScripturePassage `json:"passage,omitempty"`
	Status   *model.DevotionStatus   `json:"status,omitempty"`
	// 同一领域内的前后一条，0 表示没有
	PrevID uint `json:"prevId,omitempty"`
	NextID uint `json:"nextId,omitempty"`
}

func (s *CatalogService) ListSpheres(ctx context.Context, userID string) []SphereSummary {
	var progress map[uint]model.SphereProgress
	if userID != "" {
		progress = make(map[uint]model.SphereProgress, model.GroupCount)
		for _, p := range s.stats.GetAllSphereProgress(ctx, userID) {
			progress[p.SphereID] = p
		}
	}

	summaries := make([]SphereSummary, 0, len(model.Spheres))
	for _, sphere := range model.Spheres {
		summary := SphereSummary{
			Sphere:        sphere,
			DevotionCount: len(s.catalog.IDsBySphere(sphere.ID)),
		}
		if p, ok := progress[sphere.ID]; ok {
			summary.Progress = &p
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

func (s *CatalogService) GetSphere(ctx context.Context, userID, slug string) (*SphereDetail, error) {
	sphere, ok := model.SphereBySlug(slug)
	if !ok {
		return nil, util.ErrSphereNotFound
	}

	devotions := s.catalog.BySphere(sphere.ID)
	detail := &SphereDetail{
		Sphere:    sphere,
		Devotions: make([]DevotionCard, 0, len(devotions)),
	}

	var statuses map[uint]model.DevotionStatus
	if userID != "" {
		p := s.stats.GetSphereProgress(ctx, userID, sphere)
		detail.Progress = &p
		statuses = s.progress.GetDevotionStatuses(ctx, userID, s.catalog.IDsBySphere(sphere.ID))
	}

	for _, d := range devotions {
		card := DevotionCard{
			ID:                 d.ID,
			Code:               d.Code,
			OrderInSphere:      d.OrderInSphere,
			Title:              d.Title,
			ScriptureReference: d.ScriptureReference,
			CategoryTitle:      d.CategoryTitle,
		}
		if userID != "" {
			status := statuses[d.ID]
			card.Status = &status
		}
		detail.Devotions = append(detail.Devotions, card)
	}
	return detail, nil
}

func (s *CatalogService) GetDevotion(ctx context.Context, userID string, id uint) (*DevotionDetail, error) {
	devotion, ok := s.catalog.Get(id)
	if !ok {
		return nil, util.ErrDevotionNotFound
	}
	sphere, _ := model.SphereByID(devotion.SphereID)

	detail := &DevotionDetail{Devotion: devotion, Sphere: sphere}

	ids := s.catalog.IDsBySphere(sphere.ID)
	for i, other := range ids {
		if other != id {
			continue
		}
		if i > 0 {
			detail.PrevID = ids[i-1]
		}
		if i < len(ids)-1 {
			detail.NextID = ids[i+1]
		}
		break
	}

	if s.scripture != nil {
		detail.Passage = s.scripture.Lookup(ctx, devotion.ScriptureReference)
	}

	if userID != "" {
		status := s.progress.GetDevotionStatuses(ctx, userID, []uint{id})[id]
		detail.Status = &status
	}
	return detail, nil
}
