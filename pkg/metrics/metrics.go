// Package metrics 提供 Prometheus 指标：HTTP 请求与文档生命周期.
//
// Example:
//
//	if err := metrics.InitMetrics(cfg.Metrics); err != nil {
//		log.Fatal(err)
//	}
//
//	metrics.DocumentUploads.WithLabelValues(metrics.OutcomeStored).Inc()
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yeisme/shipdocs/pkg/configs"
)

const namespace = "shipdocs"

// 上传与删除的结果标签.
const (
	OutcomeStored   = "stored"
	OutcomeRejected = "rejected"
	OutcomeNotFound = "not_found"
	OutcomeAborted  = "aborted"
	OutcomeFailed   = "failed"

	OutcomeDeleted        = "deleted"
	OutcomeBlobFailed     = "blob_failed"
	OutcomeMetadataFailed = "metadata_failed"
)

var (
	// RequestCounter HTTP 请求计数，endpoint 为路由模板.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration HTTP 请求耗时.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// DocumentUploads 上传结果计数.
	DocumentUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_uploads_total",
			Help:      "Document uploads by outcome",
		},
		[]string{"outcome"},
	)

	// DocumentUploadBytes 成功上传的文件大小分布.
	DocumentUploadBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_upload_bytes",
			Help:      "Size of stored documents in bytes",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 9), // 1KiB .. 64MiB
		},
	)

	// DocumentLinks 签发的下载链接计数.
	DocumentLinks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_links_total",
			Help:      "Retrieval links issued by disposition",
		},
		[]string{"disposition"},
	)

	// DocumentDeletes 删除结果计数.
	DocumentDeletes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_deletes_total",
			Help:      "Document deletions by outcome",
		},
		[]string{"outcome"},
	)

	// OrphanedBlobs 产生的孤儿 blob 计数.
	OrphanedBlobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_orphaned_blobs_total",
			Help:      "Blobs left without a metadata reference, by reason",
		},
		[]string{"reason"},
	)

	// SweepOrphans 最近一次巡检发现的孤儿 blob 数.
	SweepOrphans = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "document_sweep_orphaned_blobs",
			Help:      "Unreferenced blobs found by the last sweep",
		},
	)

	// SweepDangling 最近一次巡检发现的悬空元数据数.
	SweepDangling = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "document_sweep_dangling_rows",
			Help:      "Metadata rows whose blob is missing, found by the last sweep",
		},
	)

	registry = prometheus.NewRegistry()
	initOnce sync.Once
	initErr  error
)

// InitMetrics 注册全部指标，重复调用只生效一次.
func InitMetrics(cfg configs.MetricsConfig) error {
	if !cfg.Enabled {
		return nil
	}

	initOnce.Do(func() {
		reg := prometheus.WrapRegistererWith(prometheus.Labels(cfg.Labels), registry)

		if cfg.RuntimeMetrics {
			if initErr = registry.Register(collectors.NewGoCollector()); initErr != nil {
				return
			}

			if initErr = registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); initErr != nil {
				return
			}
		}

		for _, c := range []prometheus.Collector{
			RequestCounter, RequestDuration,
			DocumentUploads, DocumentUploadBytes, DocumentLinks, DocumentDeletes,
			OrphanedBlobs, SweepOrphans, SweepDangling,
		} {
			if initErr = reg.Register(c); initErr != nil {
				return
			}
		}
	})

	return initErr
}

// Handler 返回 /metrics 处理器，同时暴露默认注册表中的指标（如 gorm 插件）.
func Handler() http.Handler {
	return promhttp.HandlerFor(prometheus.Gatherers{registry, prometheus.DefaultGatherer}, promhttp.HandlerOpts{})
}

// GetRegistry 获取 Prometheus 注册表.
func GetRegistry() *prometheus.Registry {
	return registry
}
