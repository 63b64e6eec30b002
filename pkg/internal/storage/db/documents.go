package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeisme/shipdocs/pkg/internal/model"
)

// slotColumns 唯一槽位的列，与 model.Document 的 idx_documents_slot 一致.
var slotColumns = []clause.Column{{Name: "job_id"}, {Name: "doc_type"}}

// overwriteColumns 重新上传时原地覆盖的列.
var overwriteColumns = []string{"storage_key", "original_name", "mime_type", "size_bytes", "uploaded_by", "updated_at"}

// DocumentRepo 基于 gorm 的文档元数据仓储.
type DocumentRepo struct {
	db *gorm.DB
}

// NewDocumentRepo 创建文档仓储.
func NewDocumentRepo(c *Client) *DocumentRepo {
	return &DocumentRepo{db: c.DB}
}

// FindByID 按主键查询，不存在时返回 gorm.ErrRecordNotFound.
func (r *DocumentRepo) FindByID(ctx context.Context, id uint) (*model.Document, error) {
	var doc model.Document
	if err := r.db.WithContext(ctx).Take(&doc, id).Error; err != nil {
		return nil, err
	}

	return &doc, nil
}

// FindBySlot 按 (job_id, doc_type) 查询，不存在时返回 gorm.ErrRecordNotFound.
func (r *DocumentRepo) FindBySlot(ctx context.Context, jobID uint, docType string) (*model.Document, error) {
	var doc model.Document

	err := r.db.WithContext(ctx).
		Where("job_id = ? AND doc_type = ?", jobID, docType).
		Take(&doc).Error
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// UpsertBySlot 在一个事务内按槽位插入或原地更新，返回持久化后的行以及被替换的旧存储键.
// 旧键为空表示这是该槽位的第一次写入.
//
// 已有行时先加行锁再更新；没有行时插入，并发插入撞上唯一索引则退化为 ON CONFLICT 更新，
// 此时被覆盖的键无法得知.
func (r *DocumentRepo) UpsertBySlot(ctx context.Context, doc *model.Document) (*model.Document, string, error) {
	var (
		saved   model.Document
		prevKey string
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Document

		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("job_id = ? AND doc_type = ?", doc.JobID, doc.DocType).
			Take(&existing).Error

		switch {
		case err == nil:
			prevKey = existing.StorageKey

			if err := tx.Model(&existing).Updates(map[string]any{
				"storage_key":   doc.StorageKey,
				"original_name": doc.OriginalName,
				"mime_type":     doc.MimeType,
				"size_bytes":    doc.SizeBytes,
				"uploaded_by":   doc.UploadedBy,
			}).Error; err != nil {
				return fmt.Errorf("update slot: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			row := model.Document{
				JobID:        doc.JobID,
				DocType:      doc.DocType,
				OriginalName: doc.OriginalName,
				StorageKey:   doc.StorageKey,
				MimeType:     doc.MimeType,
				SizeBytes:    doc.SizeBytes,
				UploadedBy:   doc.UploadedBy,
			}

			if err := tx.Clauses(clause.OnConflict{
				Columns:   slotColumns,
				DoUpdates: clause.AssignmentColumns(overwriteColumns),
			}).Create(&row).Error; err != nil {
				return fmt.Errorf("insert slot: %w", err)
			}
		default:
			return fmt.Errorf("lock slot: %w", err)
		}

		return tx.Where("job_id = ? AND doc_type = ?", doc.JobID, doc.DocType).Take(&saved).Error
	})
	if err != nil {
		return nil, "", err
	}

	return &saved, prevKey, nil
}

// Delete 按主键硬删除，行已不存在时视为成功.
func (r *DocumentRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Document{}, id).Error
}

// ListByJob 返回 job 下全部文档，按创建时间倒序.
func (r *DocumentRepo) ListByJob(ctx context.Context, jobID uint) ([]model.Document, error) {
	var docs []model.Document

	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}

	return docs, nil
}

// StorageKeys 返回所有被引用的存储键，用于孤儿巡检.
func (r *DocumentRepo) StorageKeys(ctx context.Context) ([]string, error) {
	var keys []string

	if err := r.db.WithContext(ctx).Model(&model.Document{}).Pluck("storage_key", &keys).Error; err != nil {
		return nil, err
	}

	return keys, nil
}
