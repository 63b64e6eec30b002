// Package log 提供基于 zerolog 的日志工具，支持控制台和文件输出（lumberjack 轮转）.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yeisme/shipdocs/pkg/configs"
)

var (
	logger zerolog.Logger
	mu     sync.RWMutex
	ready  bool
)

// Init 按配置初始化全局 logger，可重复调用（后一次覆盖前一次）.
func Init(cfg configs.LogConfig, debug bool) {
	SetLevel(cfg.Level)

	var writers []io.Writer

	if cfg.Format == "json" {
		writers = append(writers, os.Stderr)
	} else {
		writers = append(writers, zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = os.Stderr
			w.TimeFormat = time.DateTime
		}))
	}

	if cfg.EnableFile {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
	}

	zctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp()
	if debug {
		zctx = zctx.Caller()

		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	l := zctx.Logger()

	mu.Lock()
	logger = l
	ready = true
	mu.Unlock()

	log.Logger = l
}

// SetLevel 修改全局日志级别，非法值回退到 info.
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		fmt.Fprintf(os.Stderr, "invalid log level %q, defaulting to info\n", level)

		lvl = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(lvl)
}

// Logger 返回全局 logger，未初始化时返回输出到 stderr 的默认 logger.
func Logger() *zerolog.Logger {
	mu.RLock()
	if ready {
		l := logger
		mu.RUnlock()

		return &l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()

	if !ready {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		ready = true
	}

	l := logger

	return &l
}

// GinWriter 把 Gin 文本行转发为 zerolog 事件.
type GinWriter struct {
	logger *zerolog.Logger
	level  zerolog.Level
}

func NewGinWriter(logger *zerolog.Logger, level zerolog.Level) *GinWriter {
	return &GinWriter{logger: logger, level: level}
}

func (w *GinWriter) Write(p []byte) (n int, err error) {
	msg := strings.TrimSpace(string(p))

	switch w.level {
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		w.logger.Error().Msg(msg)
	case zerolog.WarnLevel:
		w.logger.Warn().Msg(msg)
	default:
		w.logger.Info().Msg(msg)
	}

	return len(p), nil
}
