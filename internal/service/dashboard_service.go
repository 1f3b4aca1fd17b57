package service

import (
	"context"
	"sphereview_backend/internal/model"
	"sphereview_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

type DashboardService struct {
	Stats *StatsService
}

func NewDashboardService(stats *StatsService) *DashboardService {
	return &DashboardService{Stats: stats}
}

// Dashboard 个人主页一次性返回的全部指标，Configured=false 时前端展示精简模式
type Dashboard struct {
	Configured bool                   `json:"configured"`
	Overall    model.OverallProgress  `json:"overall"`
	Spheres    []model.SphereProgress `json:"spheres"`
	Streak     int                    `json:"streak"`
	Weekly     model.WeeklySummary    `json:"weekly"`
	Next       model.NextDevotion     `json:"next"`
	Badges     model.BadgeSummary     `json:"badges"`
}

// GetUserDashboard 各指标互不依赖，并发读取
func (s *DashboardService) GetUserDashboard(ctx context.Context, userID string) (*Dashboard, error) {
	ctx, span := tracing.StartSpan(ctx, "DashboardService.GetUserDashboard",
		attribute.Bool("configured", s.Stats.Configured()),
	)
	defer span.End()

	d := &Dashboard{Configured: s.Stats.Configured()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.Overall = s.Stats.GetOverallProgress(gctx, userID)
		return nil
	})
	g.Go(func() error {
		d.Spheres = s.Stats.GetAllSphereProgress(gctx, userID)
		return nil
	})
	g.Go(func() error {
		d.Streak = s.Stats.GetStreak(gctx, userID)
		return nil
	})
	g.Go(func() error {
		d.Weekly = s.Stats.GetWeeklySummary(gctx, userID)
		return nil
	})
	g.Go(func() error {
		d.Next = s.Stats.GetNextDevotion(gctx, userID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.Badges = badgesFor(d.Overall)
	span.SetAttributes(
		attribute.Int("completed", d.Overall.CompletedCount),
		attribute.Int("streak", d.Streak),
		attribute.String("next.intent", string(d.Next.Intent)),
	)
	return d, nil
}
