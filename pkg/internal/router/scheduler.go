package router

import (
	"github.com/gin-gonic/gin"
)

// SchedulerHandlers 调度器管理处理器.
type SchedulerHandlers interface {
	Jobs() gin.HandlerFunc
	RemoveJob() gin.HandlerFunc
	QueueWaiting() gin.HandlerFunc
}

// RegisterSchedulerRoutes 注册调度器相关路由.
func RegisterSchedulerRoutes(g *gin.RouterGroup, h SchedulerHandlers) {
	g.GET("/scheduler/jobs", h.Jobs())
	g.DELETE("/scheduler/jobs/:id", h.RemoveJob())
	g.GET("/scheduler/queue/waiting", h.QueueWaiting())
}
