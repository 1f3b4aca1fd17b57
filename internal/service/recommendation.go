package service

import (
	"context"
	"sphereview_backend/internal/model"
	"sphereview_backend/internal/repository"
)

// GetNextDevotion 优先补完已观看但未完成反思的灵修，其次是第一个未观看的
func (s *StatsService) GetNextDevotion(ctx context.Context, userID string) model.NextDevotion {
	records, ok := s.find(ctx, userID, "next_devotion", repository.ProgressQuery{})
	if !ok {
		return model.NextDevotion{Intent: model.IntentNone}
	}

	byDevotion := make(map[uint]model.UserProgress, len(records))
	for _, p := range records {
		byDevotion[p.DevotionID] = p
	}
	return pickNextDevotion(s.catalog.All(), byDevotion)
}

// pickNextDevotion devotions 须为规范顺序
func pickNextDevotion(devotions []model.Devotion, progress map[uint]model.UserProgress) model.NextDevotion {
	var needWatch *model.Devotion
	for i := range devotions {
		d := &devotions[i]
		p, ok := progress[d.ID]
		if ok && p.Completed && !p.ResponsesCompleted() {
			return nextFor(*d, model.IntentReflections)
		}
		if needWatch == nil && (!ok || !p.Completed) {
			needWatch = d
		}
	}

	if needWatch != nil {
		return nextFor(*needWatch, model.IntentWatch)
	}
	return model.NextDevotion{Intent: model.IntentNone}
}

func nextFor(d model.Devotion, intent model.NextIntent) model.NextDevotion {
	sphere, _ := model.SphereByID(d.SphereID)
	return model.NextDevotion{
		Intent:     intent,
		DevotionID: d.ID,
		Slug:       sphere.Slug,
		Code:       d.Code,
		Title:      d.Title,
	}
}
