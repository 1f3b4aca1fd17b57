package controller

import (
	"sphereview_backend/internal/service"
	"sphereview_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// CatalogController 目录浏览，登录时附带个人进度
type CatalogController struct {
	CatalogService *service.CatalogService
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{CatalogService: catalogService}
}

// @Summary 领域列表
// @Tags 目录
// @Produce json
// @Success 200 {object} util.Response{data=[]service.SphereSummary}
// @Router /api/spheres [get]
func (c *CatalogController) ListSpheres(ctx *gin.Context) {
	util.Success(ctx, c.CatalogService.ListSpheres(ctx.Request.Context(), userID(ctx)))
}

// @Summary 领域详情
// @Tags 目录
// @Produce json
// @Param slug path string true "领域标识"
// @Success 200 {object} util.Response{data=service.SphereDetail}
// @Failure 404 {object} util.Response
// @Router /api/spheres/{slug} [get]
func (c *CatalogController) GetSphere(ctx *gin.Context) {
	detail, err := c.CatalogService.GetSphere(ctx.Request.Context(), userID(ctx), ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err, "")
		return
	}
	util.Success(ctx, detail)
}

// @Summary 灵修详情
// @Description 包含经文内容，经文接口不可用时不返回 passage
// @Tags 目录
// @Produce json
// @Param id path int true "灵修ID"
// @Success 200 {object} util.Response{data=service.DevotionDetail}
// @Failure 404 {object} util.Response
// @Router /api/devotions/{id} [get]
func (c *CatalogController) GetDevotion(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "Invalid devotion id")
		return
	}

	detail, err := c.CatalogService.GetDevotion(ctx.Request.Context(), userID(ctx), uint(id))
	if err != nil {
		respondError(ctx, err, "")
		return
	}
	util.Success(ctx, detail)
}
