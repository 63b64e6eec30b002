package types

import (
	"time"

	"github.com/yeisme/shipdocs/pkg/internal/model"
)

// UploadDocumentForm multipart 表单中除文件外的字段.
type UploadDocumentForm struct {
	DocType string `form:"doc_type" rule:"required,doctype"`
}

// LinkQuery 获取下载链接的查询参数.
type LinkQuery struct {
	Disposition string `form:"disposition" rule:"disposition"`
}

// DocumentResponse 单个文档.
type DocumentResponse struct {
	ID           uint      `json:"id"`
	JobID        uint      `json:"job_id"`
	DocType      string    `json:"doc_type"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	UploadedBy   string    `json:"uploaded_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListDocumentsResponse job 下的文档列表.
type ListDocumentsResponse struct {
	JobID     uint               `json:"job_id"`
	Documents []DocumentResponse `json:"documents"`
	Total     int                `json:"total"`
}

// LinkResponse 预签名下载链接.
type LinkResponse struct {
	URL         string    `json:"url"`
	Disposition string    `json:"disposition"`
	FileName    string    `json:"file_name"`
	ExpiresIn   int       `json:"expires_in"` // 秒
	ExpiresAt   time.Time `json:"expires_at"`
}

// OrphanReportResponse 孤儿巡检结果.
type OrphanReportResponse struct {
	ScannedBlobs   int       `json:"scanned_blobs"`
	ReferencedKeys int       `json:"referenced_keys"`
	OrphanedBlobs  []string  `json:"orphaned_blobs"`
	DanglingKeys   []string  `json:"dangling_keys"`
	GeneratedAt    time.Time `json:"generated_at"`
	PurgedBlobs    int       `json:"purged_blobs,omitempty"`
}

// NewDocumentResponse 由模型构造响应，不暴露存储键.
func NewDocumentResponse(d *model.Document) DocumentResponse {
	return DocumentResponse{
		ID:           d.ID,
		JobID:        d.JobID,
		DocType:      d.DocType,
		OriginalName: d.OriginalName,
		MimeType:     d.MimeType,
		SizeBytes:    d.SizeBytes,
		UploadedBy:   d.UploadedBy,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
