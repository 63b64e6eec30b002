package handle

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/shipdocs/pkg/internal/service"
	"github.com/yeisme/shipdocs/pkg/internal/types"
)

// OrphanHandlers 孤儿 blob 巡检的管理接口，只报告不删除.
type OrphanHandlers struct {
	blobs  service.BlobLister
	keys   service.KeyScanner
	prefix string
}

// NewOrphanHandlers 创建巡检处理器，prefix 限定扫描范围.
func NewOrphanHandlers(blobs service.BlobLister, keys service.KeyScanner, prefix string) *OrphanHandlers {
	return &OrphanHandlers{blobs: blobs, keys: keys, prefix: prefix}
}

// Report 处理 GET /admin/documents/orphans，可选 min_age（如 30m）.
func (h *OrphanHandlers) Report() gin.HandlerFunc {
	return func(c *gin.Context) {
		minAge := service.DefaultOrphanMinAge

		if raw := c.Query("min_age"); raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil || d < 0 {
				writeError(c, &service.ValidationError{Field: "min_age", Message: "min_age must be a non-negative duration such as 30m"})
				return
			}

			minAge = d
		}

		report, err := service.FindOrphans(c.Request.Context(), h.blobs, h.keys, service.OrphanScan{
			Prefix: h.prefix,
			MinAge: minAge,
		})
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.OrphanReportResponse{
			ScannedBlobs:   report.ScannedBlobs,
			ReferencedKeys: report.ReferencedKeys,
			OrphanedBlobs:  report.OrphanedBlobs,
			DanglingKeys:   report.DanglingKeys,
			GeneratedAt:    report.GeneratedAt,
		})
	}
}
