package configs

import (
	"fmt"

	"github.com/spf13/viper"
)

// SSEMode 服务端加密方式.
type SSEMode string

const (
	SSES3  SSEMode = "s3"  // SSE-S3，由对象存储托管密钥
	SSEKMS SSEMode = "kms" // SSE-KMS，需要 KMSKeyID
)

// S3Config S3 兼容对象存储配置.
type S3Config struct {
	Endpoint         string               `mapstructure:"endpoint"           rule:"required"`
	AccessKeyID      string               `mapstructure:"access_key_id"`
	SecretAccessKey  string               `mapstructure:"secret_access_key"`
	UseSSL           bool                 `mapstructure:"use_ssl"`
	BucketName       string               `mapstructure:"bucket_name"        rule:"required"`
	Region           string               `mapstructure:"region"`
	AutoCreateBucket bool                 `mapstructure:"auto_create_bucket"`
	SSE              SSEMode              `mapstructure:"sse"                rule:"oneof=s3 kms"`
	KMSKeyID         string               `mapstructure:"kms_key_id"         rule:"required_if=SSE kms"`
	Breaker          CircuitBreakerConfig `mapstructure:"breaker"`
}

const (
	DefaultS3Endpoint         = "localhost:9000" // 默认S3端点
	DefaultS3AccessKeyID      = "minioadmin"     // 默认访问密钥ID
	DefaultS3SecretAccessKey  = "minioadmin"     // 默认秘密访问密钥
	DefaultS3UseSSL           = false            // 默认是否使用SSL
	DefaultS3BucketName       = "shipdocs"       // 默认存储桶名称
	DefaultS3Region           = "us-east-1"      // 默认区域
	DefaultS3AutoCreateBucket = true             // 启动时自动创建存储桶
	DefaultS3SSE              = SSES3            // 默认服务端加密方式
)

// GetEndpointURL 获取完整的端点URL.
func (c *S3Config) GetEndpointURL() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s", scheme, c.Endpoint)
}

func (c *S3Config) setDefaults(v *viper.Viper) {
	v.SetDefault("s3.endpoint", DefaultS3Endpoint)
	v.SetDefault("s3.access_key_id", DefaultS3AccessKeyID)
	v.SetDefault("s3.secret_access_key", DefaultS3SecretAccessKey)
	v.SetDefault("s3.use_ssl", DefaultS3UseSSL)
	v.SetDefault("s3.bucket_name", DefaultS3BucketName)
	v.SetDefault("s3.region", DefaultS3Region)
	v.SetDefault("s3.auto_create_bucket", DefaultS3AutoCreateBucket)
	v.SetDefault("s3.sse", DefaultS3SSE)
	v.SetDefault("s3.kms_key_id", "")
	c.Breaker.setDefaults(v, "s3.breaker")
}
