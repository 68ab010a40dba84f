package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"learning_pathway_backend/internal/service"
	"learning_pathway_backend/internal/util"
)

type UserController struct {
	userService    *service.UserService
	storageService *service.StorageService
}

func NewUserController(userService *service.UserService, storageService *service.StorageService) *UserController {
	return &UserController{userService: userService, storageService: storageService}
}

// GetProfile 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/v1/users/me [get]
func (ctrl *UserController) GetProfile(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	user, err := ctrl.userService.GetProfile(claims.UserID)
	if err != nil {
		util.LogInternalError(c, "failed to load profile", err)
		return
	}

	util.Success(c, user)
}

// UpdateProfile 更新当前用户信息
// @Summary 更新当前用户信息
// @Description 学习风格或学习目标变更时会清空个性化建议缓存
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.UpdateProfileInput true "待更新字段"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/users/me [put]
func (ctrl *UserController) UpdateProfile(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	var input service.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := ctrl.userService.UpdateProfile(c.Request.Context(), claims.UserID, &input)
	if err != nil {
		util.LogInternalError(c, "failed to update profile", err)
		return
	}

	util.Success(c, user)
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ChangePasswordInput true "旧密码与新密码"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/v1/users/me/password [put]
func (ctrl *UserController) ChangePassword(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	var input service.ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if err := ctrl.userService.ChangePassword(claims.UserID, &input); err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Unauthorized(c, "old password is incorrect")
			return
		}
		util.LogInternalError(c, "failed to change password", err)
		return
	}

	util.Success(c, gin.H{"message": "password updated"})
}

// DeleteAccount 注销账号
// @Summary 注销当前账号
// @Description 删除账号及其计划、进度、会话、测验等全部关联数据
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/v1/users/me [delete]
func (ctrl *UserController) DeleteAccount(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	if err := ctrl.userService.DeleteAccount(c.Request.Context(), claims.UserID); err != nil {
		util.LogInternalError(c, "failed to delete account", err)
		return
	}

	util.Success(c, gin.H{"message": "account deleted"})
}

// ListUsers 管理端用户列表
// @Summary 查询全部用户（仅管理员）
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/v1/admin/users [get]
func (ctrl *UserController) ListUsers(c *gin.Context) {
	page, pageSize := pagination(c)

	users, total, err := ctrl.userService.ListUsers(page, pageSize)
	if err != nil {
		util.LogInternalError(c, "failed to list users", err)
		return
	}

	util.Success(c, util.PageResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Items:    users,
	})
}

// UploadAvatar 上传头像
// @Summary 上传头像
// @Tags 用户
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "头像图片"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/users/me/avatar [post]
func (ctrl *UserController) UploadAvatar(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		util.BadRequest(c, "avatar file is required")
		return
	}

	path, err := ctrl.storageService.SaveAvatar(c.Request.Context(), file)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	user, err := ctrl.userService.UpdateProfile(c.Request.Context(), claims.UserID, &service.UpdateProfileInput{Avatar: path})
	if err != nil {
		util.LogInternalError(c, "failed to save avatar", err)
		return
	}

	util.Success(c, user)
}
