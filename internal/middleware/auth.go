package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"learning_pathway_backend/internal/config"
	"learning_pathway_backend/internal/model"
	"learning_pathway_backend/internal/util"
	"learning_pathway_backend/pkg/logger"
)

// AuthMiddleware 认证中间件 支持Header和query参数两种传递方式
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c, "missing authorization token")
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg)
		if err != nil {
			util.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// RoleMiddleware 角色校验中间件 admin放行所有角色限制
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := util.GetUserFromContext(c)
		if err != nil {
			util.Unauthorized(c, "unauthorized")
			c.Abort()
			return
		}

		if claims.Role == model.Admin {
			c.Next()
			return
		}

		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}

		util.Forbidden(c, "insufficient permissions")
		c.Abort()
	}
}

// UserActivityRepo 更新用户最后活跃时间
type UserActivityRepo interface {
	UpdateLastSeen(userID uint, t time.Time) error
}

// ActivityMiddleware 异步记录用户活跃时间，不阻塞请求
func ActivityMiddleware(repo UserActivityRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		claims, err := util.GetUserFromContext(c)
		if err != nil {
			return
		}

		go func(userID uint) {
			if err := repo.UpdateLastSeen(userID, time.Now()); err != nil {
				logger.Log.Warn("Failed to update last seen", zap.Uint("user_id", userID), zap.Error(err))
			}
		}(claims.UserID)
	}
}
