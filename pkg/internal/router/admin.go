package router

import (
	"github.com/gin-gonic/gin"
)

// OrphanHandlers 孤儿巡检处理器.
type OrphanHandlers interface {
	Report() gin.HandlerFunc
}

// RegisterAdminRoutes 注册运维路由，调用方负责在 g 上挂载权限检查.
// sched 为 nil 时不注册调度器路由.
func RegisterAdminRoutes(g *gin.RouterGroup, orphans OrphanHandlers, sched SchedulerHandlers) {
	g.GET("/documents/orphans", orphans.Report())

	if sched != nil {
		RegisterSchedulerRoutes(g, sched)
	}
}
