package controller

import (
	"sphereview_backend/internal/model"
	"sphereview_backend/internal/service"
	"sphereview_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// StatsController 聚合查询，存储不可用时返回零值而不是错误
type StatsController struct {
	StatsService *service.StatsService
}

func NewStatsController(statsService *service.StatsService) *StatsController {
	return &StatsController{StatsService: statsService}
}

// @Summary 总体进度
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.OverallProgress}
// @Router /api/progress/overall [get]
func (c *StatsController) GetOverall(ctx *gin.Context) {
	util.Success(ctx, c.StatsService.GetOverallProgress(ctx.Request.Context(), userID(ctx)))
}

// @Summary 领域进度
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Param slug path string true "领域标识"
// @Success 200 {object} util.Response{data=model.SphereProgress}
// @Failure 404 {object} util.Response
// @Router /api/progress/spheres/{slug} [get]
func (c *StatsController) GetSphere(ctx *gin.Context) {
	sphere, ok := model.SphereBySlug(ctx.Param("slug"))
	if !ok {
		util.NotFound(ctx, "Sphere not found")
		return
	}
	util.Success(ctx, c.StatsService.GetSphereProgress(ctx.Request.Context(), userID(ctx), sphere))
}

// @Summary 连续天数
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/progress/streak [get]
func (c *StatsController) GetStreak(ctx *gin.Context) {
	util.Success(ctx, gin.H{"streak": c.StatsService.GetStreak(ctx.Request.Context(), userID(ctx))})
}

// @Summary 本周统计
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.WeeklySummary}
// @Router /api/progress/weekly [get]
func (c *StatsController) GetWeekly(ctx *gin.Context) {
	util.Success(ctx, c.StatsService.GetWeeklySummary(ctx.Request.Context(), userID(ctx)))
}

// @Summary 推荐的下一条灵修
// @Description intent 为 reflections、watch 或 none
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.NextDevotion}
// @Router /api/progress/next [get]
func (c *StatsController) GetNext(ctx *gin.Context) {
	util.Success(ctx, c.StatsService.GetNextDevotion(ctx.Request.Context(), userID(ctx)))
}

// @Summary 徽章
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.BadgeSummary}
// @Router /api/progress/badges [get]
func (c *StatsController) GetBadges(ctx *gin.Context) {
	util.Success(ctx, c.StatsService.GetBadges(ctx.Request.Context(), userID(ctx)))
}
