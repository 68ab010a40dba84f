package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"learning_pathway_backend/internal/model"
	"learning_pathway_backend/internal/util"
)

func roleRouter(claims *util.Claims, allowed ...model.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if claims != nil {
		router.Use(func(c *gin.Context) {
			c.Set("user", claims)
			c.Next()
		})
	}
	router.Use(RoleMiddleware(allowed...))
	router.GET("/guarded", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func doGet(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRoleMiddlewareAdminPassesAdminOnlyRoute(t *testing.T) {
	router := roleRouter(&util.Claims{UserID: 1, Role: model.Admin}, model.Admin)
	if w := doGet(router, "/guarded"); w.Code != http.StatusOK {
		t.Errorf("admin got status %d, want 200", w.Code)
	}
}

func TestRoleMiddlewareStudentBlockedFromAdminRoute(t *testing.T) {
	router := roleRouter(&util.Claims{UserID: 2, Role: model.Student}, model.Admin)
	if w := doGet(router, "/guarded"); w.Code != http.StatusForbidden {
		t.Errorf("student got status %d, want 403", w.Code)
	}
}

func TestRoleMiddlewareStudentAllowedWhenRoleListed(t *testing.T) {
	router := roleRouter(&util.Claims{UserID: 2, Role: model.Student}, model.Student)
	if w := doGet(router, "/guarded"); w.Code != http.StatusOK {
		t.Errorf("student got status %d, want 200", w.Code)
	}
}

func TestRoleMiddlewareAdminBypassesOtherRoleRestriction(t *testing.T) {
	router := roleRouter(&util.Claims{UserID: 1, Role: model.Admin}, model.Student)
	if w := doGet(router, "/guarded"); w.Code != http.StatusOK {
		t.Errorf("admin got status %d, want 200", w.Code)
	}
}

func TestRoleMiddlewareMissingClaimsIsUnauthorized(t *testing.T) {
	router := roleRouter(nil, model.Admin)
	if w := doGet(router, "/guarded"); w.Code != http.StatusUnauthorized {
		t.Errorf("missing claims got status %d, want 401", w.Code)
	}
}
