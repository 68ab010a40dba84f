package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"learning_pathway_backend/internal/model"
	"learning_pathway_backend/internal/service"
	"learning_pathway_backend/internal/util"
)

type QuizController struct {
	quizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{quizService: quizService}
}

// Generate AI生成测验
// @Summary AI生成测验（草稿状态）
// @Description 按主题和难度生成选择题，AI不可用时使用兜底题目
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.GenerateQuizInput true "生成参数"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/quizzes/generate [post]
func (ctrl *QuizController) Generate(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	var input service.GenerateQuizInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	quiz, err := ctrl.quizService.Generate(c.Request.Context(), claims.UserID, &input)
	if err != nil {
		respondQuizError(c, err)
		return
	}

	util.Created(c, quiz)
}

// List 查询测验列表
// @Summary 查询当前用户创建的测验
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param status query string false "状态过滤" Enums(draft, published, archived)
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} util.Response
// @Router /api/v1/quizzes [get]
func (ctrl *QuizController) List(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	page, pageSize := pagination(c)
	status := model.QuizStatus(c.Query("status"))

	quizzes, total, err := ctrl.quizService.List(claims.UserID, status, page, pageSize)
	if err != nil {
		util.LogInternalError(c, "failed to list quizzes", err)
		return
	}

	util.Success(c, util.PageResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Items:    quizzes,
	})
}

// Get 查询测验详情
// @Summary 查询测验详情（含题目与选项，正确答案不外露）
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/quizzes/{id} [get]
func (ctrl *QuizController) Get(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	quizID, err := parseIDParam(c, "id")
	if err != nil {
		util.BadRequest(c, "invalid quiz id")
		return
	}

	quiz, err := ctrl.quizService.Get(claims.UserID, quizID)
	if err != nil {
		respondQuizError(c, err)
		return
	}

	util.Success(c, quiz)
}

// Publish 发布测验
// @Summary 发布测验，发布后才能作答
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/v1/quizzes/{id}/publish [put]
func (ctrl *QuizController) Publish(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	quizID, err := parseIDParam(c, "id")
	if err != nil {
		util.BadRequest(c, "invalid quiz id")
		return
	}

	quiz, err := ctrl.quizService.Publish(claims.UserID, quizID)
	if err != nil {
		respondQuizError(c, err)
		return
	}

	util.Success(c, quiz)
}

// Delete 删除测验
// @Summary 删除测验及其题目、作答记录
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/v1/quizzes/{id} [delete]
func (ctrl *QuizController) Delete(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	quizID, err := parseIDParam(c, "id")
	if err != nil {
		util.BadRequest(c, "invalid quiz id")
		return
	}

	if err := ctrl.quizService.Delete(claims.UserID, quizID); err != nil {
		respondQuizError(c, err)
		return
	}

	util.Success(c, gin.H{"message": "quiz deleted"})
}

// AddQuestion 手动添加题目
// @Summary 向测验添加题目
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Param request body service.QuestionInput true "题目与选项"
// @Success 201 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/v1/quizzes/{id}/questions [post]
func (ctrl *QuizController) AddQuestion(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	quizID, err := parseIDParam(c, "id")
	if err != nil {
		util.BadRequest(c, "invalid quiz id")
		return
	}

	var input service.QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	quiz, err := ctrl.quizService.AddQuestion(claims.UserID, quizID, &input)
	if err != nil {
		respondQuizError(c, err)
		return
	}

	util.Created(c, quiz)
}

// UpdateQuestion 更新题目
// @Summary 整体替换题目内容与选项
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Param request body service.QuestionInput true "题目与选项"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/v1/questions/{id} [put]
func (ctrl *QuizController) UpdateQuestion(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	questionID, err := parseIDParam(c, "id")
	if err != nil {
		util.BadRequest(c, "invalid question id")
		return
	}

	var input service.QuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	quiz, err := ctrl.quizService.UpdateQuestion(claims.UserID, questionID, &input)
	if err != nil {
		respondQuizError(c, err)
		return
	}

	util.Success(c, quiz)
}

// DeleteQuestion 删除题目
// @Summary 删除题目及其选项、答案
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/v1/questions/{id} [delete]
func (ctrl *QuizController) DeleteQuestion(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	questionID, err := parseIDParam(c, "id")
	if err != nil {
		util.BadRequest(c, "invalid question id")
		return
	}

	quiz, err := ctrl.quizService.DeleteQuestion(claims.UserID, questionID)
	if err != nil {
		respondQuizError(c, err)
		return
	}

	util.Success(c, quiz)
}

// PlanStats 计划作答统计
// @Summary 某计划下的测验作答统计
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param id path int true "计划ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/plans/{id}/quiz-stats [get]
func (ctrl *QuizController) PlanStats(c *gin.Context) {
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

	stats, err := ctrl.quizService.PlanStats(claims.UserID, planID)
	if err != nil {
		respondQuizError(c, err)
		return
	}

	util.Success(c, stats)
}

// StartAttempt 开始作答
// @Summary 开始一次作答，校验发布状态与次数上限
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/quizzes/{id}/attempts [post]
func (ctrl *QuizController) StartAttempt(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	quizID, err := parseIDParam(c, "id")
	if err != nil {
		util.BadRequest(c, "invalid quiz id")
		return
	}

	attempt, err := ctrl.quizService.StartAttempt(claims.UserID, quizID)
	if err != nil {
		respondQuizError(c, err)
		return
	}

	util.Created(c, attempt)
}

// SubmitAttempt 提交答案
// @Summary 提交答案并判分
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "作答ID"
// @Param request body service.SubmitAttemptInput true "答案列表"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/attempts/{id}/submit [post]
func (ctrl *QuizController) SubmitAttempt(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	attemptID, err := parseIDParam(c, "id")
	if err != nil {
		util.BadRequest(c, "invalid attempt id")
		return
	}

	var input service.SubmitAttemptInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	result, err := ctrl.quizService.SubmitAttempt(claims.UserID, attemptID, &input)
	if err != nil {
		respondQuizError(c, err)
		return
	}

	util.Success(c, result)
}

// ListAttempts 查询作答历史
// @Summary 查询当前用户在某测验下的作答历史
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/v1/quizzes/{id}/attempts [get]
func (ctrl *QuizController) ListAttempts(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	quizID, err := parseIDParam(c, "id")
	if err != nil {
		util.BadRequest(c, "invalid quiz id")
		return
	}

	attempts, err := ctrl.quizService.ListAttempts(claims.UserID, quizID)
	if err != nil {
		util.LogInternalError(c, "failed to list attempts", err)
		return
	}

	util.Success(c, attempts)
}

// ReviewAttempt 作答回顾
// @Summary 查看某次作答的答题明细
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param id path int true "作答ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/attempts/{id} [get]
func (ctrl *QuizController) ReviewAttempt(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	attemptID, err := parseIDParam(c, "id")
	if err != nil {
		util.BadRequest(c, "invalid attempt id")
		return
	}

	review, err := ctrl.quizService.ReviewAttempt(claims.UserID, attemptID)
	if err != nil {
		respondQuizError(c, err)
		return
	}

	util.Success(c, review)
}

func respondQuizError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuizNotFound), errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrAttemptNotFound), errors.Is(err, util.ErrPlanNotFound):
		util.NotFound(c, err.Error())
	case errors.Is(err, util.ErrQuizNotPublished), errors.Is(err, util.ErrQuizEmpty),
		errors.Is(err, util.ErrMaxAttemptsReached), errors.Is(err, util.ErrAttemptAlreadyEnded):
		util.BadRequest(c, err.Error())
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(c, err.Error())
	default:
		util.LogInternalError(c, "quiz operation failed", err)
	}
}
