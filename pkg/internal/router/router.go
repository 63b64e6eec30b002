// Package router 管理路由配置，只负责将路径和处理器绑定到 gin 引擎.
// 处理器的实现由 pkg/internal/handle 提供并注入进来.
package router

import (
	"slices"

	"github.com/gin-gonic/gin"
)

// DocumentHandlers 文档路由需要的处理器.
type DocumentHandlers interface {
	Upload() gin.HandlerFunc
	List() gin.HandlerFunc
	Link() gin.HandlerFunc
	Download() gin.HandlerFunc
	Delete() gin.HandlerFunc
}

// RegisterDocumentRoutes 将文档路由绑定到传入的路由组（通常为 /api/v1）：
//
//	POST   /jobs/:jobId/documents   -> Upload
//	GET    /jobs/:jobId/documents   -> List
//	GET    /documents/:id/url       -> Link
//	GET    /documents/:id/download  -> Download
//	DELETE /documents/:id           -> Delete
//
// writers 附加在写操作上，如角色检查.
func RegisterDocumentRoutes(g *gin.RouterGroup, h DocumentHandlers, writers ...gin.HandlerFunc) {
	jobs := g.Group("/jobs/:jobId/documents")
	{
		jobs.POST("", slices.Concat(writers, []gin.HandlerFunc{h.Upload()})...)
		jobs.GET("", h.List())
	}

	docs := g.Group("/documents/:id")
	{
		docs.GET("/url", h.Link())
		docs.GET("/download", h.Download())
		docs.DELETE("", slices.Concat(writers, []gin.HandlerFunc{h.Delete()})...)
	}
}
