package router

import (
	"github.com/gin-gonic/gin"
)

// HealthHandlers 健康检查处理器.
type HealthHandlers interface {
	DB() gin.HandlerFunc
	S3() gin.HandlerFunc
	MQ() gin.HandlerFunc
}

// RegisterHealthCheckRoute 注册健康检查路由.
func RegisterHealthCheckRoute(g *gin.RouterGroup, h HealthHandlers) {
	healthRoutes := g.Group("/health")
	{
		healthRoutes.GET("/db", h.DB())
		healthRoutes.GET("/s3", h.S3())
		healthRoutes.GET("/mq", h.MQ())
	}
}
