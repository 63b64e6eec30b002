package configs

import (
	"github.com/spf13/viper"
)

// MetricsConfig Prometheus 指标配置.
type MetricsConfig struct {
	Enabled        bool              `mapstructure:"enabled"`
	Path           string            `mapstructure:"path"            rule:"startswith=/"` // 暴露指标的 HTTP 路径
	RuntimeMetrics bool              `mapstructure:"runtime_metrics"`                     // 是否收集 Go 运行时与进程指标
	DBMetrics      bool              `mapstructure:"db_metrics"`                          // 是否启用 gorm prometheus 插件
	DBInterval     uint32            `mapstructure:"db_interval"`                         // 连接池指标刷新间隔（秒）
	Labels         map[string]string `mapstructure:"labels"`                              // 附加到所有指标的常量标签
}

func (c *MetricsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.runtime_metrics", true)
	v.SetDefault("metrics.db_metrics", false)
	v.SetDefault("metrics.db_interval", 15)
	v.SetDefault("metrics.labels", map[string]string{})
}
