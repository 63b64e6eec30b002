// Package app 组装配置、存储、服务与 HTTP 引擎，并负责启动与优雅退出.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/yeisme/shipdocs/pkg/api"
	"github.com/yeisme/shipdocs/pkg/configs"
	"github.com/yeisme/shipdocs/pkg/internal/handle"
	"github.com/yeisme/shipdocs/pkg/internal/jobs"
	"github.com/yeisme/shipdocs/pkg/internal/service"
	"github.com/yeisme/shipdocs/pkg/internal/storage"
	"github.com/yeisme/shipdocs/pkg/log"
	"github.com/yeisme/shipdocs/pkg/metrics"
	"github.com/yeisme/shipdocs/pkg/middleware"
	"github.com/yeisme/shipdocs/pkg/scheduler"
	"github.com/yeisme/shipdocs/pkg/tracing"
)

// shutdownTimeout 优雅退出等待时长.
const shutdownTimeout = 15 * time.Second

// App 一个完整的 shipdocs 服务实例.
type App struct {
	Engine *gin.Engine

	config  *configs.AppConfig
	storage *storage.Manager
	sched   *scheduler.Scheduler
	server  *http.Server
}

// New 按配置初始化所有组件，v 用于配置热重载，可以为 nil.
// ctx 结束时后台任务（限流清理、调度状态刷新）随之停止.
func New(ctx context.Context, cfg *configs.AppConfig, v *viper.Viper) (*App, error) {
	log.Init(cfg.Log, cfg.Server.Debug)
	l := log.Logger()

	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := tracing.InitTracer(cfg.Tracing); err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	if err := metrics.InitMetrics(cfg.Metrics); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	manager, err := storage.New(ctx, cfg, metrics.GetRegistry())
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	svc := service.NewDocumentService(manager.Blobs, manager.Documents, manager.Jobs,
		service.WithLinkPolicy(cfg.Documents),
		service.WithEvents(manager.MQ, cfg.Events),
		service.WithLogger(l),
	)

	a := &App{config: cfg, storage: manager}

	handlers := api.Handlers{
		Documents: handle.NewDocumentHandlers(svc),
		Health:    handle.NewHealthHandlers(manager.DB, manager.S3, manager.MQ),
		Orphans:   handle.NewOrphanHandlers(manager.Blobs, manager.Documents, cfg.Sweep.Prefix),
	}

	if cfg.Sweep.Enabled {
		if err := a.startScheduler(ctx, manager); err != nil {
			return nil, errors.Join(err, manager.Close())
		}

		handlers.Scheduler = handle.NewSchedulerHandlers(a.sched)
	}

	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	a.Engine = newEngine(ctx, cfg)
	api.RegisterGroup(a.Engine, handlers)

	if cfg.Metrics.Enabled {
		a.Engine.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	configs.Watch(v, cfg, func(next *configs.AppConfig) {
		log.SetLevel(next.Log.Level)
		l.Info().Str("level", next.Log.Level).Msg("config reloaded")
	})

	return a, nil
}

// newEngine 创建 gin 引擎并按顺序挂载中间件.
func newEngine(ctx context.Context, cfg *configs.AppConfig) *gin.Engine {
	engine := gin.New()

	engine.Use(
		gin.Recovery(),
		middleware.CORSMiddleware(cfg.Server),
		middleware.TracingMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.GinLoggerMiddleware(),
		middleware.AuthMiddleware(cfg.Auth),
	)

	if cfg.RateLimit.Enabled {
		engine.Use(middleware.RateLimitMiddleware(ctx, cfg.RateLimit))
	}

	engine.Use(
		middleware.CircuitBreakerMiddleware(cfg.CircuitBreaker),
		middleware.BodyLimitMiddleware(cfg.Documents.MaxRequestBytes),
		middleware.TimeoutMiddleware(cfg.Documents.OperationTimeout()),
	)

	if cfg.Server.Gzip {
		engine.Use(gzip.Gzip(gzip.DefaultCompression))
	}

	return engine
}

func (a *App) startScheduler(ctx context.Context, manager *storage.Manager) error {
	sched, err := scheduler.NewScheduler(ctx)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	sweeper := &jobs.Sweeper{
		Blobs:          manager.Blobs,
		Keys:           manager.Documents,
		Publisher:      manager.MQ,
		Prefix:         a.config.Sweep.Prefix,
		PublishOrphans: a.config.Events.Enabled && a.config.Events.Document.Orphaned,
	}

	if err := jobs.RegisterCronJobs(ctx, sched, a.config, sweeper); err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("register cron jobs: %w", err)
	}

	sched.Start()
	a.sched = sched

	return nil
}

// Run 启动 HTTP 服务，ctx 结束后优雅退出并释放资源.
func (a *App) Run(ctx context.Context) error {
	l := log.Logger()
	addr := net.JoinHostPort(a.config.Server.Host, strconv.Itoa(a.config.Server.Port))

	a.server = &http.Server{
		Addr:              addr,
		Handler:           a.Engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       a.config.Server.GetTimeoutDuration(),
		WriteTimeout:      a.config.Server.GetTimeoutDuration(),
	}

	errCh := make(chan error, 1)

	go func() {
		l.Info().Str("addr", addr).Msg("http server listening")

		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		a.Close()
		return err
	case <-ctx.Done():
	}

	l.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	a.Close()

	if tErr := tracing.ShutdownTracer(shutdownCtx); tErr != nil {
		err = errors.Join(err, tErr)
	}

	return err
}

// Close 停止调度器并关闭存储连接.
func (a *App) Close() {
	l := log.Logger()

	if a.sched != nil {
		if err := a.sched.Shutdown(); err != nil {
			l.Warn().Err(err).Msg("scheduler shutdown failed")
		}
	}

	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			l.Warn().Err(err).Msg("storage close failed")
		}
	}
}
