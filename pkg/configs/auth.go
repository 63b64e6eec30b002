package configs

import "github.com/spf13/viper"

// AuthConfig 调用方身份由上游网关（如 oauth2-proxy）注入请求头，这里只负责读取.
type AuthConfig struct {
	Enabled       bool     `mapstructure:"enabled"`         // 未携带身份的请求返回 401
	SkipPaths     []string `mapstructure:"skip_paths"`      // 跳过认证的路径前缀
	DevAllowQuery bool     `mapstructure:"dev_allow_query"` // 开发模式允许 ?user= 指定身份
	DefaultRole   string   `mapstructure:"default_role"     rule:"oneof=viewer operator admin"`
}

func (c *AuthConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.dev_allow_query", false)
	v.SetDefault("auth.default_role", "operator")
	v.SetDefault("auth.skip_paths", []string{
		"/metrics",
		"/api/v1/health",
	})
}
