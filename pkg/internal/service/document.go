// Package service 实现文档存储的业务逻辑：校验、上传编排、链接签发、删除协调与孤儿巡检.
// 不处理 HTTP 细节，依赖通过端口接口注入.
package service

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/yeisme/shipdocs/pkg/configs"
	appctx "github.com/yeisme/shipdocs/pkg/context"
	"github.com/yeisme/shipdocs/pkg/internal/model"
	"github.com/yeisme/shipdocs/pkg/internal/types"
	nlog "github.com/yeisme/shipdocs/pkg/log"
)

// BlobStore 对象存储端口.
type BlobStore interface {
	Put(ctx context.Context, in types.BlobPut) error
	Presign(ctx context.Context, in types.BlobPresign) (string, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// MetadataStore 元数据存储端口，找不到行时返回 gorm.ErrRecordNotFound.
type MetadataStore interface {
	FindByID(ctx context.Context, id uint) (*model.Document, error)
	FindBySlot(ctx context.Context, jobID uint, docType string) (*model.Document, error)
	// UpsertBySlot 事务性地按 (job_id, doc_type) 插入或原地更新，返回被替换的旧存储键
	UpsertBySlot(ctx context.Context, doc *model.Document) (*model.Document, string, error)
	Delete(ctx context.Context, id uint) error
	ListByJob(ctx context.Context, jobID uint) ([]model.Document, error)
}

// JobDirectory job 协作方，只需要存在性检查.
type JobDirectory interface {
	JobExists(ctx context.Context, jobID uint) (bool, error)
}

// DocumentService 文档存储的核心操作.
type DocumentService struct {
	blobs BlobStore
	meta  MetadataStore
	jobs  JobDirectory

	publisher message.Publisher
	events    configs.DocumentEventsConfig

	linkTTL      time.Duration
	cacheControl string
	now          func() time.Time
	logger       *zerolog.Logger
}

// Option 配置 DocumentService.
type Option func(*DocumentService)

// WithLinkPolicy 使用配置中的链接有效期与缓存指令.
func WithLinkPolicy(cfg configs.DocumentsConfig) Option {
	return func(s *DocumentService) {
		if ttl := cfg.PresignTTL(); ttl > 0 {
			s.linkTTL = ttl
		}

		if cfg.LinkCacheControl != "" {
			s.cacheControl = cfg.LinkCacheControl
		}
	}
}

// WithEvents 启用文档生命周期事件，pub 为 nil 或 cfg 未启用时不发布.
func WithEvents(pub message.Publisher, cfg configs.EventsConfig) Option {
	return func(s *DocumentService) {
		if pub == nil || !cfg.Enabled {
			return
		}

		s.publisher = pub
		s.events = cfg.Document
	}
}

// WithClock 替换时间来源.
func WithClock(now func() time.Time) Option {
	return func(s *DocumentService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger 指定日志输出，默认使用全局 logger.
func WithLogger(l *zerolog.Logger) Option {
	return func(s *DocumentService) {
		s.logger = l
	}
}

// NewDocumentService 创建文档服务.
func NewDocumentService(blobs BlobStore, meta MetadataStore, jobs JobDirectory, opts ...Option) *DocumentService {
	s := &DocumentService{
		blobs:        blobs,
		meta:         meta,
		jobs:         jobs,
		linkTTL:      time.Duration(configs.DefaultPresignTTLSeconds) * time.Second,
		cacheControl: configs.DefaultLinkCacheControl,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// LinkTTL 返回签发链接的有效期.
func (s *DocumentService) LinkTTL() time.Duration {
	return s.linkTTL
}

// log 返回附带 trace_id 的 logger.
func (s *DocumentService) log(ctx context.Context) zerolog.Logger {
	l := s.logger
	if l == nil {
		l = nlog.Logger()
	}

	return appctx.WithTraceContext(ctx, *l)
}
