package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"learning_pathway_backend/internal/model"
	"learning_pathway_backend/internal/repository"
	"learning_pathway_backend/internal/service"
	"learning_pathway_backend/internal/util"
)

type StudyPlanController struct {
	planService *service.StudyPlanService
	userRepo    *repository.UserRepository
}

func NewStudyPlanController(planService *service.StudyPlanService, userRepo *repository.UserRepository) *StudyPlanController {
	return &StudyPlanController{planService: planService, userRepo: userRepo}
}

// Create 创建学习计划
// @Summary 创建学习计划
// @Description 创建计划并按学习目标自动推荐资源，开始日不得早于今天
// @Tags 学习计划
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreatePlanInput true "计划信息"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/plans [post]
func (ctrl *StudyPlanController) Create(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	var input service.CreatePlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := ctrl.userRepo.FindByID(claims.UserID)
	if err != nil {
		util.LogInternalError(c, "failed to load user", err)
		return
	}

	plan, err := ctrl.planService.Create(c.Request.Context(), user, &input)
	if err != nil {
		if isValidationErr(err) {
			util.BadRequest(c, err.Error())
			return
		}
		util.LogInternalError(c, "failed to create study plan", err)
		return
	}

	util.Created(c, plan)
}

// List 查询学习计划列表
// @Summary 查询当前用户的学习计划
// @Tags 学习计划
// @Produce json
// @Security BearerAuth
// @Param status query string false "状态过滤" Enums(active, completed, paused, cancelled)
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} util.Response
// @Router /api/v1/plans [get]
func (ctrl *StudyPlanController) List(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	page, pageSize := pagination(c)
	status := model.PlanStatus(c.Query("status"))

	plans, total, err := ctrl.planService.List(claims.UserID, status, page, pageSize)
	if err != nil {
		util.LogInternalError(c, "failed to list study plans", err)
		return
	}

	util.Success(c, util.PageResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Items:    plans,
	})
}

// Get 查询单个学习计划
// @Summary 查询计划详情（含关联资源）
// @Tags 学习计划
// @Produce json
// @Security BearerAuth
// @Param id path int true "计划ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/plans/{id} [get]
func (ctrl *StudyPlanController) Get(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	planID, err := parseIDParam(c, "id")
	if err != nil {
		util.BadRequest(c, "invalid plan id")
		return
	}

	plan, err := ctrl.planService.Get(claims.UserID, planID)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	util.Success(c, plan)
}

// Update 更新学习计划
// @Summary 更新计划字段或状态
// @Tags 学习计划
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "计划ID"
// @Param request body service.UpdatePlanInput true "待更新字段"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/plans/{id} [put]
func (ctrl *StudyPlanController) Update(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	planID, err := parseIDParam(c, "id")
	if err != nil {
		util.BadRequest(c, "invalid plan id")
		return
	}

	var input service.UpdatePlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	plan, err := ctrl.planService.Update(claims.UserID, planID, &input)
	if err != nil {
		if isValidationErr(err) {
			util.BadRequest(c, err.Error())
			return
		}
		respondPlanError(c, err)
		return
	}

	util.Success(c, plan)
}

// Delete 删除学习计划
// @Summary 删除计划及其进度、会话数据
// @Tags 学习计划
// @Produce json
// @Security BearerAuth
// @Param id path int true "计划ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/plans/{id} [delete]
func (ctrl *StudyPlanController) Delete(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	planID, err := parseIDParam(c, "id")
	if err != nil {
		util.BadRequest(c, "invalid plan id")
		return
	}

	if err := ctrl.planService.Delete(claims.UserID, planID); err != nil {
		respondPlanError(c, err)
		return
	}

	util.Success(c, gin.H{"message": "plan deleted"})
}

// RefreshResources 为计划追加推荐资源
// @Summary 为计划追加一批新的推荐资源
// @Tags 学习计划
// @Produce json
// @Security BearerAuth
// @Param id path int true "计划ID"
// @Param count query int false "追加数量" default(4)
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/plans/{id}/resources/refresh [post]
func (ctrl *StudyPlanController) RefreshResources(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	planID, err := parseIDParam(c, "id")
	if err != nil {
		util.BadRequest(c, "invalid plan id")
		return
	}

	count, _ := strconv.Atoi(c.DefaultQuery("count", "4"))

	user, err := ctrl.userRepo.FindByID(claims.UserID)
	if err != nil {
		util.LogInternalError(c, "failed to load user", err)
		return
	}

	plan, err := ctrl.planService.RefreshResources(c.Request.Context(), user, planID, count)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	util.Success(c, plan)
}

func isValidationErr(err error) bool {
	return errors.Is(err, util.ErrStartDateInPast) ||
		errors.Is(err, util.ErrEndBeforeStart) ||
		errors.Is(err, util.ErrInvalidWeeklyLoad)
}

func respondPlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrPlanNotFound):
		util.NotFound(c, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(c, err.Error())
	default:
		util.LogInternalError(c, "study plan operation failed", err)
	}
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}
