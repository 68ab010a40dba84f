package controller

import (
	"github.com/gin-gonic/gin"

	"learning_pathway_backend/internal/service"
	"learning_pathway_backend/internal/util"
)

type DashboardController struct {
	dashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// Get 查询仪表盘
// @Summary 查询仪表盘汇总
// @Description 统计数据、最近计划、成就、激励短句以及带缓存的AI学习建议
// @Tags 仪表盘
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/v1/dashboard [get]
func (ctrl *DashboardController) Get(c *gin.Context) {
	claims, err := util.GetUserFromContext(c)
	if err != nil {
		util.Unauthorized(c, "unauthorized")
		return
	}

	dashboard, err := ctrl.dashboardService.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(c, "failed to load dashboard", err)
		return
	}

	util.Success(c, dashboard)
}
