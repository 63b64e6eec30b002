package service

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/yeisme/shipdocs/pkg/internal/model"
	"github.com/yeisme/shipdocs/pkg/metrics"
	"github.com/yeisme/shipdocs/pkg/queue"
)

func docRef(d *model.Document) queue.DocumentRef {
	return queue.DocumentRef{
		ID:         d.ID,
		JobID:      d.JobID,
		DocType:    d.DocType,
		StorageKey: d.StorageKey,
		MimeType:   d.MimeType,
		SizeBytes:  d.SizeBytes,
	}
}

// headerOpts 事件头：发生时间取服务时钟，trace_id 取当前 span.
func (s *DocumentService) headerOpts(ctx context.Context) []func(*queue.EventHeader) {
	opts := []func(*queue.EventHeader){queue.WithOccurredAt(s.now())}

	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		opts = append(opts, queue.WithTraceID(sc.TraceID().String()))
	}

	return opts
}

// 发布失败只记录日志，不影响已经完成的存储操作.

func (s *DocumentService) publishStored(ctx context.Context, d *model.Document, replacedKey string) {
	if s.publisher == nil || !s.events.Stored {
		return
	}

	err := queue.PublishDocumentStored(s.publisher, queue.DocumentStoredPayload{
		Document:     docRef(d),
		OriginalName: d.OriginalName,
		UploadedBy:   d.UploadedBy,
		ReplacedKey:  replacedKey,
	}, s.headerOpts(ctx)...)
	if err != nil {
		l := s.log(ctx)
		l.Warn().Err(err).Uint("document_id", d.ID).Msg("failed to publish document stored event")
	}
}

func (s *DocumentService) publishDeleted(ctx context.Context, d *model.Document, by string) {
	if s.publisher == nil || !s.events.Deleted {
		return
	}

	err := queue.PublishDocumentDeleted(s.publisher, queue.DocumentDeletedPayload{
		Document:  docRef(d),
		DeletedBy: by,
	}, s.headerOpts(ctx)...)
	if err != nil {
		l := s.log(ctx)
		l.Warn().Err(err).Uint("document_id", d.ID).Msg("failed to publish document deleted event")
	}
}

// blobOrphaned 记录一个不再被元数据引用的 blob：日志、计数与事件.
func (s *DocumentService) blobOrphaned(ctx context.Context, key string, jobID uint, docType string, reason queue.OrphanReason, cause error) {
	metrics.OrphanedBlobs.WithLabelValues(string(reason)).Inc()

	l := s.log(ctx)
	ev := l.Warn().Str("storage_key", key).Uint("job_id", jobID).Str("reason", string(reason))

	if cause != nil {
		ev = ev.Err(cause)
	}

	ev.Msg("blob orphaned")

	if s.publisher == nil || !s.events.Orphaned {
		return
	}

	payload := queue.BlobOrphanedPayload{StorageKey: key, JobID: jobID, DocType: docType, Reason: reason}
	if cause != nil {
		payload.Error = cause.Error()
	}

	if err := queue.PublishBlobOrphaned(s.publisher, payload, s.headerOpts(ctx)...); err != nil {
		l.Warn().Err(err).Str("storage_key", key).Msg("failed to publish blob orphaned event")
	}
}

func (s *DocumentService) publishDangling(ctx context.Context, d *model.Document, cause error) {
	if s.publisher == nil || !s.events.Dangling {
		return
	}

	err := queue.PublishMetadataDangling(s.publisher, queue.MetadataDanglingPayload{
		Document: docRef(d),
		Error:    cause.Error(),
	}, s.headerOpts(ctx)...)
	if err != nil {
		l := s.log(ctx)
		l.Warn().Err(err).Uint("document_id", d.ID).Msg("failed to publish metadata dangling event")
	}
}
