package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yeisme/shipdocs/pkg/metrics"
)

// DefaultOrphanMinAge 新于该时长的 blob 不计入孤儿，避免把正在写元数据的上传算进去.
const DefaultOrphanMinAge = time.Hour

// BlobLister 能够按前缀列出对象键的存储.
type BlobLister interface {
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

// BlobDeleter 能够删除对象的存储.
type BlobDeleter interface {
	Delete(ctx context.Context, key string) error
}

// KeyScanner 返回元数据中全部被引用的存储键.
type KeyScanner interface {
	StorageKeys(ctx context.Context) ([]string, error)
}

// OrphanScan 巡检参数.
type OrphanScan struct {
	Prefix string
	MinAge time.Duration
	Now    time.Time
}

// OrphanReport 对象存储与元数据的差异.
type OrphanReport struct {
	ScannedBlobs   int
	ReferencedKeys int
	// OrphanedBlobs 对象存储中存在但没有元数据引用的键
	OrphanedBlobs []string
	// DanglingKeys 元数据引用但对象存储中不存在的键
	DanglingKeys []string
	GeneratedAt  time.Time
}

// FindOrphans 并发列出对象与元数据键并求差集，只报告不删除.
func FindOrphans(ctx context.Context, blobs BlobLister, keys KeyScanner, scan OrphanScan) (*OrphanReport, error) {
	if scan.Now.IsZero() {
		scan.Now = time.Now()
	}

	var blobKeys, refKeys []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error

		blobKeys, err = blobs.ListKeys(gctx, scan.Prefix)
		if err != nil {
			return fmt.Errorf("list blobs: %w", err)
		}

		return nil
	})
	g.Go(func() error {
		var err error

		refKeys, err = keys.StorageKeys(gctx)
		if err != nil {
			return fmt.Errorf("scan metadata keys: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, &StorageError{Stage: StageListing, Retryable: true, Err: err}
	}

	referenced := make(map[string]struct{}, len(refKeys))
	for _, k := range refKeys {
		referenced[k] = struct{}{}
	}

	present := make(map[string]struct{}, len(blobKeys))
	report := &OrphanReport{
		ScannedBlobs:   len(blobKeys),
		ReferencedKeys: len(refKeys),
		OrphanedBlobs:  []string{},
		DanglingKeys:   []string{},
		GeneratedAt:    scan.Now,
	}

	for _, k := range blobKeys {
		present[k] = struct{}{}

		if _, ok := referenced[k]; ok {
			continue
		}

		if stored, ok := storedAt(k); ok && scan.Now.Sub(stored) < scan.MinAge {
			continue
		}

		report.OrphanedBlobs = append(report.OrphanedBlobs, k)
	}

	for _, k := range refKeys {
		if !strings.HasPrefix(k, scan.Prefix) {
			continue
		}

		if _, ok := present[k]; !ok {
			report.DanglingKeys = append(report.DanglingKeys, k)
		}
	}

	slices.Sort(report.OrphanedBlobs)
	slices.Sort(report.DanglingKeys)

	metrics.SweepOrphans.Set(float64(len(report.OrphanedBlobs)))
	metrics.SweepDangling.Set(float64(len(report.DanglingKeys)))

	return report, nil
}

// PurgeOrphans 删除报告中的孤儿 blob，只在运维显式要求时调用.
// 返回成功删除的数量，部分失败时错误合并返回.
func PurgeOrphans(ctx context.Context, blobs BlobDeleter, report *OrphanReport) (int, error) {
	var (
		purged int
		errs   []error
	)

	for _, k := range report.OrphanedBlobs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		if err := blobs.Delete(ctx, k); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", k, err))
			continue
		}

		purged++
	}

	return purged, errors.Join(errs...)
}

// storedAt 从 <unix 毫秒>_<随机>.<ext> 形式的叶子名解析写入时间.
func storedAt(key string) (time.Time, bool) {
	leaf := path.Base(key)

	ms, _, ok := strings.Cut(leaf, "_")
	if !ok {
		return time.Time{}, false
	}

	v, err := strconv.ParseInt(ms, 10, 64)
	if err != nil {
		return time.Time{}, false
	}

	return time.UnixMilli(v), true
}
