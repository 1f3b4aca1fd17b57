package controller

import (
	"sphereview_backend/internal/service"
	"sphereview_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// RecordProgress godoc
// @Summary 上报观看进度
// @Description 观看百分比四舍五入并限制在0-100，达到90视为已观看且不可回退
// @Tags 进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.WatchInput true "观看进度"
// @Success 200 {object} util.Response{data=model.UserProgress}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/progress [post]
func (c *ProgressController) RecordProgress(ctx *gin.Context) {
	var req service.WatchInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid body")
		return
	}

	progress, err := c.ProgressService.RecordWatch(ctx.Request.Context(), userID(ctx), req)
	if err != nil {
		respondError(ctx, err, "Failed to save progress")
		return
	}

	util.Success(ctx, progress)
}

// GetResponses godoc
// @Summary 获取某条灵修的反思回答
// @Tags 反思
// @Produce json
// @Security BearerAuth
// @Param devotionId query int true "灵修ID"
// @Success 200 {object} util.Response
// @Router /api/responses [get]
func (c *ProgressController) GetResponses(ctx *gin.Context) {
	raw := ctx.Query("devotionId")
	if raw == "" {
		util.BadRequest(ctx, "Missing devotionId")
		return
	}
	devotionID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		util.BadRequest(ctx, "Invalid devotionId")
		return
	}

	responses, err := c.ProgressService.GetResponses(ctx.Request.Context(), userID(ctx), uint(devotionID))
	if err != nil {
		respondError(ctx, err, "Failed to load responses")
		return
	}

	util.Success(ctx, gin.H{"responses": responses})
}

// SaveResponse godoc
// @Summary 保存反思回答
// @Description 每个回答最多500词，超过4000字符部分截断；全部问题回答后标记反思完成
// @Tags 反思
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ResponseInput true "回答内容"
// @Success 200 {object} util.Response{data=service.SaveResponseResult}
// @Failure 400 {object} util.Response
// @Router /api/responses [post]
func (c *ProgressController) SaveResponse(ctx *gin.Context) {
	var req service.ResponseInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Invalid body")
		return
	}

	result, err := c.ProgressService.SaveResponse(ctx.Request.Context(), userID(ctx), req)
	if err != nil {
		respondError(ctx, err, "Failed to save response")
		return
	}

	util.Success(ctx, result)
}
