package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/shipdocs/pkg/configs"
	appctx "github.com/yeisme/shipdocs/pkg/context"
)

// AuthMiddleware 基于 oauth2-proxy 注入的请求头做统一身份认证校验，并把调用方写入 request context.
//   - 邮箱取 X-Auth-Request-Email，其次 X-Forwarded-Email
//   - X-User-ID 存在时作为调用方 ID，否则使用邮箱
//   - 角色取 X-Role，缺省为配置中的 default_role
//   - 开发模式可允许 query user 兜底（由 auth.dev_allow_query 控制）.
func AuthMiddleware(conf configs.AuthConfig) gin.HandlerFunc {
	defaultRole := ParseRole(conf.DefaultRole)

	return func(c *gin.Context) {
		if isSkippedPath(c.Request.URL.Path, conf.SkipPaths) {
			c.Next()
			return
		}

		email := strings.TrimSpace(c.GetHeader("X-Auth-Request-Email"))
		if email == "" {
			email = strings.TrimSpace(c.GetHeader("X-Forwarded-Email"))
		}

		id := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if id == "" {
			id = email
		}

		if id == "" && conf.DevAllowQuery {
			id = strings.TrimSpace(c.Query("user"))
		}

		if id == "" && conf.Enabled {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		role := defaultRole
		if h := c.GetHeader("X-Role"); h != "" {
			role = ParseRole(h)
		}

		caller := appctx.Caller{ID: id, Email: email, Role: role.String()}
		c.Set(roleContextKey, role)
		c.Request = c.Request.WithContext(appctx.WithCaller(c.Request.Context(), caller))
		c.Next()
	}
}

func isSkippedPath(path string, skips []string) bool {
	if path == "" || len(skips) == 0 {
		return false
	}

	for _, p := range skips {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}
