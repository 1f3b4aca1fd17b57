package controller

import (
	"errors"
	"sphereview_backend/internal/util"
	"sphereview_backend/internal/validation"

	"github.com/gin-gonic/gin"
)

// respondError 按错误类型映射状态码，未知错误记录日志并返回 failMessage
func respondError(ctx *gin.Context, err error, failMessage string) {
	switch {
	case errors.Is(err, util.ErrNotConfigured):
		util.NotConfigured(ctx)
	case errors.Is(err, util.ErrUnauthorized):
		util.Unauthorized(ctx)
	case validation.IsValidationError(err):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrDevotionNotFound):
		util.NotFound(ctx, "Devotion not found")
	case errors.Is(err, util.ErrSphereNotFound):
		util.NotFound(ctx, "Sphere not found")
	default:
		util.LogInternalError(ctx, err, failMessage)
	}
}

// userID 未登录返回空字符串
func userID(ctx *gin.Context) string {
	return util.GetUserFromContext(ctx).UserID()
}
