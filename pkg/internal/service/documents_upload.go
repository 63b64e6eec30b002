package service

import (
	"context"
	"errors"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yeisme/shipdocs/pkg/internal/model"
	"github.com/yeisme/shipdocs/pkg/internal/types"
	"github.com/yeisme/shipdocs/pkg/metrics"
	"github.com/yeisme/shipdocs/pkg/queue"
	"github.com/yeisme/shipdocs/pkg/tracing"
)

// UploadInput 一次上传请求，文件内容整体缓存在内存中.
type UploadInput struct {
	JobID      uint
	DocType    string
	FileName   string // 客户端声明的文件名
	MimeType   string // 客户端声明的 MIME
	Body       []byte
	UploadedBy string
}

// Upload 校验并存储文档，成功后返回持久化的元数据行.
//
// 顺序固定为 job 检查 -> 校验 -> 写 blob -> 写元数据. blob 写入成功但之后失败或请求被取消时，
// 该 blob 成为孤儿，会被记录与计数.
func (s *DocumentService) Upload(ctx context.Context, in UploadInput) (*model.Document, error) {
	ctx, span := tracing.StartSpan(ctx, "document.upload", trace.WithAttributes(
		attribute.Int64("job_id", int64(in.JobID)),
		attribute.String("doc_type", in.DocType),
		attribute.Int("size_bytes", len(in.Body)),
	))
	defer span.End()

	doc, err := s.upload(ctx, in)
	tracing.RecordError(span, err)
	metrics.DocumentUploads.WithLabelValues(uploadOutcome(err)).Inc()

	if err == nil {
		metrics.DocumentUploadBytes.Observe(float64(doc.SizeBytes))
	}

	return doc, err
}

func (s *DocumentService) upload(ctx context.Context, in UploadInput) (*model.Document, error) {
	if err := s.requireJob(ctx, in.JobID); err != nil {
		return nil, err
	}

	docType, err := SanitizeDocType(in.DocType)
	if err != nil {
		return nil, err
	}

	approval, err := validateFile(s.now(), in.FileName, in.MimeType, int64(len(in.Body)))
	if err != nil {
		return nil, err
	}

	key := BuildStorageKey(in.JobID, docType, approval.StorageName)
	logger := s.log(ctx).With().Uint("job_id", in.JobID).Str("doc_type", docType).Str("storage_key", key).Logger()

	err = s.blobs.Put(ctx, types.BlobPut{
		Key:         key,
		Body:        in.Body,
		ContentType: approval.MimeType,
		Metadata: map[string]string{
			"job-id":        formatUint(in.JobID),
			"doc-type":      docType,
			"original-name": approval.DisplayName,
		},
		Encrypt:            true,
		ContentDisposition: "attachment",
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to store document blob")

		return nil, &StorageError{Stage: StageStoringBlob, Retryable: true, Err: err}
	}

	// 请求已被取消时不再写元数据
	if err := ctx.Err(); err != nil {
		s.blobOrphaned(ctx, key, in.JobID, docType, queue.OrphanAborted, err)

		return nil, &StorageError{Stage: StageAborted, Retryable: true, Err: err}
	}

	saved, prevKey, err := s.meta.UpsertBySlot(ctx, &model.Document{
		JobID:        in.JobID,
		DocType:      docType,
		OriginalName: approval.DisplayName,
		StorageKey:   key,
		MimeType:     approval.MimeType,
		SizeBytes:    approval.SizeBytes,
		UploadedBy:   in.UploadedBy,
	})
	if err != nil {
		logger.Error().Err(err).Msg("document metadata not saved, blob left orphaned")
		s.blobOrphaned(ctx, key, in.JobID, docType, queue.OrphanMetadataFailed, err)

		return nil, &StorageError{Stage: StageUpsertingMetadata, Retryable: true, Err: err}
	}

	if prevKey != "" && prevKey != key {
		s.blobOrphaned(ctx, prevKey, in.JobID, docType, queue.OrphanSlotOverwrite, nil)
	}

	logger.Info().Uint("document_id", saved.ID).Int64("size_bytes", saved.SizeBytes).
		Bool("replaced", prevKey != "").Msg("document stored")
	s.publishStored(ctx, saved, prevKey)

	return saved, nil
}

func uploadOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeStored
	case IsValidation(err):
		return metrics.OutcomeRejected
	case IsNotFound(err):
		return metrics.OutcomeNotFound
	default:
		var se *StorageError
		if errors.As(err, &se) && se.Stage == StageAborted {
			return metrics.OutcomeAborted
		}

		return metrics.OutcomeFailed
	}
}

// formatUint 用于对象的用户元数据.
func formatUint(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
