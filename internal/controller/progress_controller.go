package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"learning_pathway_backend/internal/service"
	"learning_pathway_backend/internal/util"
)

type ProgressController struct {
	progressService    *service.ProgressService
	achievementService *service.AchievementService
}

func NewProgressController(progressService *service.ProgressService, achievementService *service.AchievementService) *ProgressController {
	return &ProgressController{progressService: progressService, achievementService: achievementService}
}

// GetPlanProgress 查询计划总进度
// @Summary 查询某个计划的总进度
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Param id path int true "计划ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/plans/{id}/progress [get]
func (ctrl *ProgressController) GetPlanProgress(c *gin.Context) {
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

	progress, err := ctrl.progressService.GetPlanProgress(claims.UserID, planID)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	util.Success(c, progress)
}

// List 查询当前用户所有进度
// @Summary 查询当前用户全部计划的进度
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/v1/progress [get]
func (ctrl *ProgressController) List(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	items, err := ctrl.progressService.ListByUser(claims.UserID)
	if err != nil {
		util.LogInternalError(c, "failed to list progress", err)
		return
	}

	util.Success(c, items)
}

type toggleCompletionInput struct {
	Completed *bool `json:"completed" binding:"required"`
}

// ToggleResourceCompletion 切换资源完成状态
// @Summary 标记/取消标记计划内资源为已完成
// @Description 切换后自动重算计划总进度并检查成就
// @Tags 进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "计划资源关联ID"
// @Param request body toggleCompletionInput true "完成状态"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/plan-resources/{id}/completion [put]
func (ctrl *ProgressController) ToggleResourceCompletion(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	linkID, err := parseIDParam(c, "id")
	if err != nil {
		util.BadRequest(c, "invalid plan resource id")
		return
	}

	var input toggleCompletionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	progress, err := ctrl.progressService.ToggleResourceCompletion(claims.UserID, linkID, *input.Completed)
	if err != nil {
		if errors.Is(err, util.ErrResourceNotFound) {
			util.NotFound(c, err.Error())
			return
		}
		respondPlanError(c, err)
		return
	}

	util.Success(c, progress)
}

// UpdateResourceProgress 更新资源学习进度
// @Summary 更新计划内资源的进度、耗时、笔记
// @Tags 进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "计划资源关联ID"
// @Param request body service.UpdateResourceProgressInput true "进度信息"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/plan-resources/{id}/progress [put]
func (ctrl *ProgressController) UpdateResourceProgress(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	linkID, err := parseIDParam(c, "id")
	if err != nil {
		util.BadRequest(c, "invalid plan resource id")
		return
	}

	var input service.UpdateResourceProgressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	rp, err := ctrl.progressService.UpdateResourceProgress(claims.UserID, linkID, &input)
	if err != nil {
		if errors.Is(err, util.ErrResourceNotFound) {
			util.NotFound(c, err.Error())
			return
		}
		respondPlanError(c, err)
		return
	}

	util.Success(c, rp)
}

// StartSession 开始学习会话
// @Summary 开始一次学习会话
// @Tags 进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.StartSessionInput true "会话信息"
// @Success 201 {object} util.Response
// @Router /api/v1/sessions [post]
func (ctrl *ProgressController) StartSession(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	var input service.StartSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	session, err := ctrl.progressService.StartSession(claims.UserID, &input)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	util.Created(c, session)
}

// EndSession 结束学习会话
// @Summary 结束会话并把时长累加到计划进度
// @Tags 进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "会话ID"
// @Param request body service.EndSessionInput true "会话备注"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/sessions/{id}/end [put]
func (ctrl *ProgressController) EndSession(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	sessionID := c.Param("id")
	if sessionID == "" {
		util.BadRequest(c, "invalid session id")
		return
	}

	var input service.EndSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	session, err := ctrl.progressService.EndSession(claims.UserID, sessionID, &input)
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(c, err.Error())
			return
		}
		util.NotFound(c, "session not found")
		return
	}

	util.Success(c, session)
}

// RecentSessions 查询最近的学习会话
// @Summary 查询最近的学习会话
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Param limit query int false "返回数量" default(10)
// @Success 200 {object} util.Response
// @Router /api/v1/sessions [get]
func (ctrl *ProgressController) RecentSessions(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	sessions, err := ctrl.progressService.RecentSessions(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(c, "failed to list sessions", err)
		return
	}

	util.Success(c, sessions)
}

// ListAchievements 查询成就
// @Summary 查询当前用户获得的成就
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/v1/achievements [get]
func (ctrl *ProgressController) ListAchievements(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	achievements, err := ctrl.achievementService.ListByUser(claims.UserID)
	if err != nil {
		util.LogInternalError(c, "failed to list achievements", err)
		return
	}

	util.Success(c, achievements)
}
