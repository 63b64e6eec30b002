package model

import (
	"time"
)

// Document 某个 job 下某一类文档的当前版本，(job_id, doc_type) 唯一.
// 同一槽位重新上传时原地覆盖，不保留历史，也不做软删除.
type Document struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// JobID 创建后不可修改
	JobID uint `gorm:"not null;uniqueIndex:idx_documents_slot,priority:1" json:"job_id"`
	// DocType 清洗后的自由文本，如 "Bill of Lading"
	DocType      string `gorm:"size:255;not null;uniqueIndex:idx_documents_slot,priority:2" json:"doc_type"`
	OriginalName string `gorm:"size:255;not null"                                           json:"original_name"`
	// StorageKey 对象存储中的完整键 jobs/{job_id}/{doc_type}/{name}
	StorageKey string    `gorm:"size:512;not null;index"  json:"storage_key"`
	MimeType   string    `gorm:"size:255;not null"        json:"mime_type"`
	SizeBytes  int64     `gorm:"not null"                 json:"size_bytes"`
	UploadedBy string    `gorm:"size:255;index"           json:"uploaded_by"`
	CreatedAt  time.Time `gorm:"index"                    json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// 删除 job 时由数据库级联删除其文档
	Job *Job `gorm:"foreignKey:JobID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// TableName 固定表名.
func (Document) TableName() string {
	return "documents"
}
