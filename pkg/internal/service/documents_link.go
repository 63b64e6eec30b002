package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yeisme/shipdocs/pkg/internal/types"
	"github.com/yeisme/shipdocs/pkg/metrics"
	"github.com/yeisme/shipdocs/pkg/tracing"
)

// 下载方式.
const (
	DispositionInline     = "inline"
	DispositionAttachment = "attachment"
)

// Link 一个有时限的下载链接.
type Link struct {
	URL         string
	Disposition string
	FileName    string
	ExpiresIn   time.Duration
	ExpiresAt   time.Time
}

// ParseDisposition 校验下载方式，空字符串视为 inline，其余非白名单值一律拒绝.
func ParseDisposition(s string) (string, error) {
	switch s {
	case "":
		return DispositionInline, nil
	case DispositionInline, DispositionAttachment:
		return s, nil
	default:
		return "", invalid("disposition", "disposition must be %s or %s", DispositionInline, DispositionAttachment)
	}
}

// IssueLink 为文档签发预签名下载链接，响应头中的类型、文件名与缓存指令固定在签名里.
func (s *DocumentService) IssueLink(ctx context.Context, documentID uint, disposition string) (*Link, error) {
	ctx, span := tracing.StartSpan(ctx, "document.issue_link", trace.WithAttributes(
		attribute.Int64("document_id", int64(documentID)),
		attribute.String("disposition", disposition),
	))
	defer span.End()

	link, err := s.issueLink(ctx, documentID, disposition)
	tracing.RecordError(span, err)

	if err == nil {
		metrics.DocumentLinks.WithLabelValues(link.Disposition).Inc()
	}

	return link, err
}

func (s *DocumentService) issueLink(ctx context.Context, documentID uint, disposition string) (*Link, error) {
	disp, err := ParseDisposition(disposition)
	if err != nil {
		return nil, err
	}

	doc, err := s.loadDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	exists, err := s.jobs.JobExists(ctx, doc.JobID)
	if err != nil {
		return nil, &StorageError{Stage: StageCheckingJob, Retryable: true, Err: err}
	}

	if !exists {
		l := s.log(ctx)
		l.Error().Uint("document_id", doc.ID).Uint("job_id", doc.JobID).Str("storage_key", doc.StorageKey).
			Msg("orphaned document: parent job no longer exists")

		return nil, &NotFoundError{Resource: "job", ID: doc.JobID}
	}

	present, err := s.blobs.Exists(ctx, doc.StorageKey)
	if err != nil {
		return nil, &StorageError{Stage: StageCheckingBlob, Retryable: true, Err: err}
	}

	if !present {
		l := s.log(ctx)
		l.Error().Uint("document_id", doc.ID).Uint("job_id", doc.JobID).Str("storage_key", doc.StorageKey).
			Msg("dangling document: blob missing")

		return nil, &NotFoundError{Resource: "document", ID: doc.ID}
	}

	name := SanitizeDownloadName(doc.OriginalName)
	issuedAt := s.now()

	url, err := s.blobs.Presign(ctx, types.BlobPresign{
		Key:                        doc.StorageKey,
		TTL:                        s.linkTTL,
		ResponseContentType:        doc.MimeType,
		ResponseContentDisposition: fmt.Sprintf(`%s; filename="%s"`, disp, name),
		ResponseCacheControl:       s.cacheControl,
	})
	if err != nil {
		l := s.log(ctx)
		l.Error().Err(err).Uint("document_id", doc.ID).Msg("failed to presign document link")

		return nil, &StorageError{Stage: StagePresigning, Retryable: true, Err: err}
	}

	return &Link{
		URL:         url,
		Disposition: disp,
		FileName:    name,
		ExpiresIn:   s.linkTTL,
		ExpiresAt:   issuedAt.Add(s.linkTTL),
	}, nil
}
