// Package api 把各组处理器挂载到 gin 引擎的 /api/v1 下.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/shipdocs/pkg/internal/router"
	"github.com/yeisme/shipdocs/pkg/middleware"
)

// Prefix API 路由前缀.
const Prefix = "/api/v1"

// Handlers 由 app 层构造后注入，Scheduler 可以为 nil.
type Handlers struct {
	Documents router.DocumentHandlers
	Health    router.HealthHandlers
	Orphans   router.OrphanHandlers
	Scheduler router.SchedulerHandlers
}

// RegisterGroup 注册文档、健康检查与运维路由.
// 写操作至少需要 operator 角色，运维路由需要 admin.
func RegisterGroup(e *gin.Engine, h Handlers) *gin.Engine {
	v1 := e.Group(Prefix)

	router.RegisterHealthCheckRoute(v1, h.Health)
	router.RegisterDocumentRoutes(v1, h.Documents, middleware.RequireMinRole(middleware.RoleOperator))

	admin := v1.Group("/admin", middleware.RequireMinRole(middleware.RoleAdmin))
	router.RegisterAdminRoutes(admin, h.Orphans, h.Scheduler)

	return e
}
