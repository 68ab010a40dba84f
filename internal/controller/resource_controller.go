package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"learning_pathway_backend/internal/model"
	"learning_pathway_backend/internal/repository"
	"learning_pathway_backend/internal/service"
	"learning_pathway_backend/internal/util"
)

type ResourceController struct {
	resourceRepo   *repository.ResourceRepository
	userRepo       *repository.UserRepository
	recommendation *service.RecommendationService
}

func NewResourceController(
	resourceRepo *repository.ResourceRepository,
	userRepo *repository.UserRepository,
	recommendation *service.RecommendationService,
) *ResourceController {
	return &ResourceController{
		resourceRepo:   resourceRepo,
		userRepo:       userRepo,
		recommendation: recommendation,
	}
}

// Recommend 按主题推荐资源
// @Summary 按主题推荐学习资源
// @Description 库存充足直接混选返回，不足时调AI补库，AI失败回退精选目录
// @Tags 资源
// @Produce json
// @Security BearerAuth
// @Param topic query string true "学习主题"
// @Param limit query int false "返回数量" default(6)
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/resources/recommend [get]
func (ctrl *ResourceController) Recommend(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	topic := c.Query("topic")
	if topic == "" {
		util.BadRequest(c, "topic is required")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "6"))

	user, err := ctrl.userRepo.FindByID(claims.UserID)
	if err != nil {
		util.LogInternalError(c, "failed to load user", err)
		return
	}

	resources, err := ctrl.recommendation.GetSmartResources(c.Request.Context(), topic, user.LearningStyle, limit)
	if err != nil {
		util.LogInternalError(c, "failed to recommend resources", err)
		return
	}

	util.Success(c, resources)
}

// Search 搜索资源库
// @Summary 搜索资源库
// @Tags 资源
// @Produce json
// @Security BearerAuth
// @Param q query string false "关键词"
// @Param category query string false "分类"
// @Param type query string false "资源类型"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} util.Response
// @Router /api/v1/resources [get]
func (ctrl *ResourceController) Search(c *gin.Context) {
	page, pageSize := pagination(c)

	resources, total, err := ctrl.resourceRepo.Search(
		c.Query("q"),
		c.Query("category"),
		model.ResourceType(c.Query("type")),
		page, pageSize,
	)
	if err != nil {
		util.LogInternalError(c, "failed to search resources", err)
		return
	}

	util.Success(c, util.PageResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Items:    resources,
	})
}

// Get 查询单个资源
// @Summary 查询资源详情
// @Tags 资源
// @Produce json
// @Security BearerAuth
// @Param id path int true "资源ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/resources/{id} [get]
func (ctrl *ResourceController) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		util.BadRequest(c, "invalid resource id")
		return
	}

	resource, err := ctrl.resourceRepo.FindByID(id)
	if err != nil {
		util.NotFound(c, "resource not found")
		return
	}

	util.Success(c, resource)
}
