package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	appctx "github.com/yeisme/shipdocs/pkg/context"
)

// Role 表示请求方的角色（数值越大权限越高）.
type Role int

const (
	RoleViewer Role = iota + 1
	RoleOperator
	RoleAdmin
)

const roleContextKey = "role"

// String 返回角色的字符串表示.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleOperator:
		return "operator"
	case RoleViewer:
		fallthrough
	default:
		return "viewer"
	}
}

// ParseRole 从字符串解析角色，未知值降级为 viewer.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin
	case "operator":
		return RoleOperator
	default:
		return RoleViewer
	}
}

// GetRole 获取当前请求角色，先查 gin.Context 再查 request context.
func GetRole(c *gin.Context) Role {
	if v, ok := c.Get(roleContextKey); ok {
		if r, ok := v.(Role); ok {
			return r
		}
	}

	if caller, ok := appctx.GetCaller(c.Request.Context()); ok {
		return ParseRole(caller.Role)
	}

	return RoleViewer
}

// RequireMinRole 要求最小角色，不满足则返回 403.
func RequireMinRole(minRole Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) < minRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: insufficient role"})
			return
		}

		c.Next()
	}
}
