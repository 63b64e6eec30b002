// Package configs 管理 shipdocs 的配置，包括数据库、对象存储、消息队列与文档策略.
// configs 包支持多种配置格式（YAML、JSON、TOML、dotenv）并可启用热重载.
//
// 配置不再保存在包级全局变量中，Load 返回的 *AppConfig 由调用方显式向下传递.
//
// Example:
//
//	cfg, _, err := configs.Load("./")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
//	fmt.Println(cfg.DB.GetDSN())
//	fmt.Println(cfg.Documents.PresignTTL())
package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/yeisme/shipdocs/pkg/rule"
)

// AppVersion 应用版本，构建时可通过 -ldflags 覆盖.
var AppVersion = "0.1.0"

// EnvPrefix 环境变量前缀，如 SHIPDOCS_SERVER_PORT.
const EnvPrefix = "SHIPDOCS"

type (
	// AppConfig 应用程序配置.
	AppConfig struct {
		Server         ServerConfig         `mapstructure:"server"`
		DB             DBConfig             `mapstructure:"db"`
		S3             S3Config             `mapstructure:"s3"`
		MQ             MQConfig             `mapstructure:"mq"`
		Log            LogConfig            `mapstructure:"log"`
		Metrics        MetricsConfig        `mapstructure:"metrics"`
		Tracing        TracingConfig        `mapstructure:"tracing"`
		Auth           AuthConfig           `mapstructure:"auth"`
		RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`
		CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
		Events         EventsConfig         `mapstructure:"events"`
		Documents      DocumentsConfig      `mapstructure:"documents"`
		Sweep          SweepConfig          `mapstructure:"sweep"`
	}

	// ReloadFunc 配置文件变化后的回调，参数为重新解析后的配置.
	ReloadFunc func(cfg *AppConfig)
)

// Load 加载应用程序配置，path 可以是配置文件或包含 config.* 的目录.
// 配置文件不存在时使用默认值与环境变量.
func Load(path string) (*AppConfig, *viper.Viper, error) {
	v := viper.New()
	setAllDefaults(v)

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(path)
		v.AddConfigPath(filepath.Join(path, "configs"))

		for _, ext := range []string{"yaml", "yml", "json", "toml", "env", "dotenv"} {
			cfg := filepath.Join(path, "config."+ext)
			if _, err := os.Stat(cfg); err == nil {
				v.SetConfigFile(cfg)

				break
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, nil, err
	}

	return cfg, v, nil
}

// Watch 在启用热重载时监听配置文件，变化后重新解析并回调.
func Watch(v *viper.Viper, cfg *AppConfig, onChange ReloadFunc) {
	if v == nil || cfg == nil || !cfg.Server.ReloadConfig || v.ConfigFileUsed() == "" {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		next, err := decode(v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config %s changed but could not be reloaded: %v\n", e.Name, err)

			return
		}

		if onChange != nil {
			onChange(next)
		}
	})
	v.WatchConfig()
}

// decode 解析并校验配置.
func decode(v *viper.Viper) (*AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := rule.ValidateStruct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// setAllDefaults 设置所有配置的默认值.
func setAllDefaults(v *viper.Viper) {
	cfg := &AppConfig{}

	cfg.Server.setDefaults(v)
	cfg.DB.setDefaults(v)
	cfg.S3.setDefaults(v)
	cfg.MQ.setDefaults(v)
	cfg.Log.setDefaults(v)
	cfg.Metrics.setDefaults(v)
	cfg.Tracing.setDefaults(v)
	cfg.Auth.setDefaults(v)
	cfg.RateLimit.setDefaults(v)
	cfg.CircuitBreaker.setDefaults(v, "circuit_breaker")
	cfg.Events.setDefaults(v)
	cfg.Documents.setDefaults(v)
	cfg.Sweep.setDefaults(v)
}
