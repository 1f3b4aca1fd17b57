package controller

import (
	"net/http"
	"sphereview_backend/internal/catalog"
	"sphereview_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB         *gorm.DB
	Catalog    *catalog.Catalog
	Configured bool
}

// NewHealthController db 为 nil 时按 configured 区分内存存储和未配置
func NewHealthController(db *gorm.DB, cat *catalog.Catalog, configured bool) *HealthController {
	return &HealthController{DB: db, Catalog: cat, Configured: configured}
}

// @Summary 健康检查
// @Description 检查服务状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	components := gin.H{"catalog": c.Catalog.Len()}

	switch {
	case c.DB != nil:
		sqlDB, err := c.DB.DB()
		if err != nil {
			util.InternalServerError(ctx)
			return
		}
		if err := sqlDB.PingContext(ctx.Request.Context()); err != nil {
			util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
		components["database"] = "up"
	case c.Configured:
		components["database"] = "memory"
	default:
		components["database"] = "not_configured"
	}

	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": components,
	})
}
