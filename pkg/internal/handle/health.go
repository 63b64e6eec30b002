package handle

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

// HealthChecker 能够自检的依赖组件.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandlers 各组件的健康检查处理器.
type HealthHandlers struct {
	db, s3, mq HealthChecker
}

// NewHealthHandlers 创建健康检查处理器，nil 组件视为未初始化.
func NewHealthHandlers(db, s3, mq HealthChecker) *HealthHandlers {
	return &HealthHandlers{db: db, s3: s3, mq: mq}
}

// DB 数据库健康检查.
func (h *HealthHandlers) DB() gin.HandlerFunc { return checkHealth("db", h.db) }

// S3 对象存储健康检查.
func (h *HealthHandlers) S3() gin.HandlerFunc { return checkHealth("s3", h.s3) }

// MQ 消息队列健康检查.
func (h *HealthHandlers) MQ() gin.HandlerFunc { return checkHealth("mq", h.mq) }

func checkHealth(component string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"component": component, "status": "unhealthy", "error": component + " client not initialized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := checker.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"component": component, "status": "unhealthy", "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"component": component, "status": "ok"})
	}
}
