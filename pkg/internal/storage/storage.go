// Package storage 聚合数据库、对象存储与消息队列客户端，并构造文档服务使用的适配器.
//
// Manager 在进程启动时创建一次，按引用向下传递，不保存在包级变量中.
//
// Example:
//
//	mgr, err := storage.New(ctx, cfg, metrics.GetRegistry())
//	if err != nil {
//		return err
//	}
//	defer mgr.Close()
//
//	svc := service.NewDocumentService(mgr.Blobs, mgr.Documents, mgr.Jobs)
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yeisme/shipdocs/pkg/configs"
	dbc "github.com/yeisme/shipdocs/pkg/internal/storage/db"
	mqc "github.com/yeisme/shipdocs/pkg/internal/storage/mq"
	s3c "github.com/yeisme/shipdocs/pkg/internal/storage/s3"
	nlog "github.com/yeisme/shipdocs/pkg/log"
)

// Manager 聚合所有存储资源.
type Manager struct {
	S3 *s3c.Client
	DB *dbc.Client
	MQ *mqc.Client

	Blobs     *s3c.BlobStore
	Documents *dbc.DocumentRepo
	Jobs      *dbc.JobRepo
}

// New 按配置连接数据库、对象存储与消息队列. 任一失败时关闭已建立的连接并返回错误.
func New(ctx context.Context, cfg *configs.AppConfig, registerer prometheus.Registerer) (*Manager, error) {
	m := &Manager{}

	db, err := dbc.New(ctx, &cfg.DB, cfg.Server.Debug)
	if err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}

	m.DB = db

	if cfg.DB.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return nil, errors.Join(err, m.Close())
		}
	}

	if cfg.Metrics.Enabled && cfg.Metrics.DBMetrics {
		if err := db.RegisterGORMMetrics(cfg.DB.Database, cfg.Metrics.DBInterval); err != nil {
			return nil, errors.Join(err, m.Close())
		}
	}

	s3, err := s3c.New(ctx, &cfg.S3)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("init s3: %w", err), m.Close())
	}

	m.S3 = s3

	// registerer 为 nil 时 mq 不装饰指标
	if !cfg.MQ.EnableMetrics || !cfg.Metrics.Enabled {
		registerer = nil
	}

	mq, err := mqc.New(ctx, &cfg.MQ, registerer)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("init mq: %w", err), m.Close())
	}

	m.MQ = mq

	m.Blobs = s3c.NewBlobStore(s3, &cfg.S3)
	m.Documents = dbc.NewDocumentRepo(db)
	m.Jobs = dbc.NewJobRepo(db)

	nlog.Logger().Info().
		Str("db", cfg.DB.GetDBType()).
		Str("bucket", s3.Bucket()).
		Str("mq", string(mq.Type())).
		Msg("storage manager initialized")

	return m, nil
}

// Close 关闭所有已建立的连接.
func (m *Manager) Close() error {
	var errs []error

	if m.MQ != nil {
		errs = append(errs, m.MQ.Close())
	}

	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}

	return errors.Join(errs...)
}
