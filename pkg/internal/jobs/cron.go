// Package jobs 负责注册与实现业务定时任务（基于 scheduler）.
package jobs

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/yeisme/shipdocs/pkg/configs"
	"github.com/yeisme/shipdocs/pkg/internal/service"
	"github.com/yeisme/shipdocs/pkg/log"
	"github.com/yeisme/shipdocs/pkg/queue"
	"github.com/yeisme/shipdocs/pkg/scheduler"
)

// Sweeper 周期性比对对象存储与元数据，只报告不删除.
type Sweeper struct {
	Blobs     service.BlobLister
	Keys      service.KeyScanner
	Publisher message.Publisher
	Prefix    string
	// PublishOrphans 为 true 时每个孤儿 blob 发布一条 blob.orphaned 事件
	PublishOrphans bool
}

// RegisterCronJobs 按配置注册孤儿巡检任务，未启用时不做任何事.
func RegisterCronJobs(ctx context.Context, sched *scheduler.Scheduler, cfg *configs.AppConfig, sw *Sweeper) error {
	if sched == nil {
		return errors.New("scheduler is nil")
	}

	if sw == nil {
		return errors.New("sweeper is nil")
	}

	if !cfg.Sweep.Enabled {
		return nil
	}

	return sched.AddCron(ctx, JobOrphanSweep, cfg.Sweep.Cron, sw.Run)
}

// Run 执行一次巡检.
func (s *Sweeper) Run(ctx context.Context) error {
	l := log.Logger().With().Str("job", JobOrphanSweep).Logger()

	report, err := service.FindOrphans(ctx, s.Blobs, s.Keys, service.OrphanScan{
		Prefix: s.Prefix,
		MinAge: service.DefaultOrphanMinAge,
	})
	if err != nil {
		return err
	}

	l.Info().
		Int("scanned", report.ScannedBlobs).
		Int("referenced", report.ReferencedKeys).
		Int("orphaned", len(report.OrphanedBlobs)).
		Int("dangling", len(report.DanglingKeys)).
		Msg("orphan sweep finished")

	for _, k := range report.DanglingKeys {
		l.Warn().Str("storage_key", k).Msg("metadata references missing blob")
	}

	if !s.PublishOrphans || s.Publisher == nil {
		return nil
	}

	for _, k := range report.OrphanedBlobs {
		err := queue.PublishBlobOrphaned(s.Publisher, queue.BlobOrphanedPayload{
			StorageKey: k,
			Reason:     queue.OrphanSweep,
		})
		if err != nil {
			l.Warn().Err(err).Str("storage_key", k).Msg("publish orphan event failed")
		}
	}

	return nil
}
