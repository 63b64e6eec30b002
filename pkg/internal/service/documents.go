package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yeisme/shipdocs/pkg/internal/model"
)

// ListByJob 返回 job 下的全部文档，按创建时间倒序.
// 不检查 job 是否存在，不存在的 job 返回空列表.
func (s *DocumentService) ListByJob(ctx context.Context, jobID uint) ([]model.Document, error) {
	if jobID == 0 {
		return nil, invalid("job_id", "job id must be a positive integer")
	}

	docs, err := s.meta.ListByJob(ctx, jobID)
	if err != nil {
		return nil, &StorageError{Stage: StageListing, Retryable: true, Err: err}
	}

	if docs == nil {
		docs = []model.Document{}
	}

	return docs, nil
}

// Get 读取单个文档.
func (s *DocumentService) Get(ctx context.Context, documentID uint) (*model.Document, error) {
	return s.loadDocument(ctx, documentID)
}

func (s *DocumentService) loadDocument(ctx context.Context, documentID uint) (*model.Document, error) {
	if documentID == 0 {
		return nil, invalid("document_id", "document id must be a positive integer")
	}

	doc, err := s.meta.FindByID(ctx, documentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "document", ID: documentID}
	}

	if err != nil {
		return nil, &StorageError{Stage: StageLoadingMetadata, Retryable: true, Err: err}
	}

	return doc, nil
}

// requireJob 确认 job 存在.
func (s *DocumentService) requireJob(ctx context.Context, jobID uint) error {
	if jobID == 0 {
		return invalid("job_id", "job id must be a positive integer")
	}

	ok, err := s.jobs.JobExists(ctx, jobID)
	if err != nil {
		return &StorageError{Stage: StageCheckingJob, Retryable: true, Err: err}
	}

	if !ok {
		return &NotFoundError{Resource: "job", ID: jobID}
	}

	return nil
}

// GetBySlot 读取 (job_id, doc_type) 槽位上的当前文档.
func (s *DocumentService) GetBySlot(ctx context.Context, jobID uint, docType string) (*model.Document, error) {
	if jobID == 0 {
		return nil, invalid("job_id", "job id must be a positive integer")
	}

	slot, err := SanitizeDocType(docType)
	if err != nil {
		return nil, err
	}

	doc, err := s.meta.FindBySlot(ctx, jobID, slot)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "document", ID: 0}
	}

	if err != nil {
		return nil, &StorageError{Stage: StageLoadingMetadata, Retryable: true, Err: err}
	}

	return doc, nil
}
