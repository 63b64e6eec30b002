package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultPresignTTLSeconds   = 3600                   // 下载链接有效期
	DefaultLinkCacheControl    = "private, max-age=300" // 下载响应的缓存指令
	DefaultMaxRequestBytes     = 52 << 20               // 上传请求体上限，略大于最大单文件上限
	DefaultOperationTimeoutSec = 60                     // 单次文档操作超时
)

// DocumentsConfig 文档上传与下载策略.
type DocumentsConfig struct {
	PresignTTLSeconds   int    `mapstructure:"presign_ttl_seconds"   rule:"min=1,max=604800"`
	LinkCacheControl    string `mapstructure:"link_cache_control"    rule:"required"`
	MaxRequestBytes     int64  `mapstructure:"max_request_bytes"     rule:"min=1"`
	OperationTimeoutSec int    `mapstructure:"operation_timeout_sec" rule:"min=1"`
}

// PresignTTL 返回下载链接有效期.
func (c *DocumentsConfig) PresignTTL() time.Duration {
	return time.Duration(c.PresignTTLSeconds) * time.Second
}

// OperationTimeout 返回单次操作超时.
func (c *DocumentsConfig) OperationTimeout() time.Duration {
	return time.Duration(c.OperationTimeoutSec) * time.Second
}

func (c *DocumentsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("documents.presign_ttl_seconds", DefaultPresignTTLSeconds)
	v.SetDefault("documents.link_cache_control", DefaultLinkCacheControl)
	v.SetDefault("documents.max_request_bytes", DefaultMaxRequestBytes)
	v.SetDefault("documents.operation_timeout_sec", DefaultOperationTimeoutSec)
}
