package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	appctx "github.com/yeisme/shipdocs/pkg/context"
	"github.com/yeisme/shipdocs/pkg/metrics"
	"github.com/yeisme/shipdocs/pkg/tracing"
)

// Delete 先删 blob 再删元数据.
//
// blob 删除失败时元数据保持不变，可以重试；blob 已删而元数据删除失败时留下悬空行，
// 返回不可重试的 StorageError 并通知运维.
func (s *DocumentService) Delete(ctx context.Context, documentID uint) error {
	ctx, span := tracing.StartSpan(ctx, "document.delete", trace.WithAttributes(
		attribute.Int64("document_id", int64(documentID)),
	))
	defer span.End()

	outcome, err := s.delete(ctx, documentID)
	tracing.RecordError(span, err)
	metrics.DocumentDeletes.WithLabelValues(outcome).Inc()

	return err
}

func (s *DocumentService) delete(ctx context.Context, documentID uint) (string, error) {
	doc, err := s.loadDocument(ctx, documentID)
	if err != nil {
		if IsNotFound(err) {
			return metrics.OutcomeNotFound, err
		}

		if IsValidation(err) {
			return metrics.OutcomeRejected, err
		}

		return metrics.OutcomeFailed, err
	}

	logger := s.log(ctx).With().Uint("document_id", doc.ID).Uint("job_id", doc.JobID).
		Str("storage_key", doc.StorageKey).Logger()

	if err := s.blobs.Delete(ctx, doc.StorageKey); err != nil {
		logger.Warn().Err(err).Msg("failed to delete document blob, metadata kept")

		return metrics.OutcomeBlobFailed, &StorageError{Stage: StageDeletingBlob, Retryable: true, Err: err}
	}

	if err := s.meta.Delete(ctx, doc.ID); err != nil {
		logger.Error().Err(err).Msg("document blob deleted but metadata row remains, manual cleanup required")
		s.publishDangling(ctx, doc, err)

		return metrics.OutcomeMetadataFailed, &StorageError{Stage: StageDeletingMetadata, Retryable: false, Err: err}
	}

	by := appctx.CallerID(ctx)
	logger.Info().Str("deleted_by", by).Msg("document deleted")
	s.publishDeleted(ctx, doc, by)

	return metrics.OutcomeDeleted, nil
}
