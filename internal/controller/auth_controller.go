package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"learning_pathway_backend/internal/service"
	"learning_pathway_backend/internal/util"
)

type AuthController struct {
	authService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register 用户注册
// @Summary 用户注册
// @Description 注册新用户，需提供学习风格，成功后返回JWT令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "注册信息"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/v1/auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var input service.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	result, err := ctrl.authService.Register(&input)
	if err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.Conflict(c, err.Error())
			return
		}
		util.LogInternalError(c, "failed to register user", err)
		return
	}

	util.Created(c, result)
}

// Login 用户登录
// @Summary 用户登录
// @Description 邮箱密码登录，成功后返回JWT令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "登录信息"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/v1/auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var input service.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	result, err := ctrl.authService.Login(&input)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) || errors.Is(err, util.ErrAccountDisabled) {
			util.Unauthorized(c, err.Error())
			return
		}
		util.LogInternalError(c, "failed to login", err)
		return
	}

	util.Success(c, result)
}
