package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理时定位来源.
	Topic string `json:"topic"`
	// TraceID 分布式追踪 ID.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 负载版本.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// DocumentRef 标识一个文档及其 blob.
type DocumentRef struct {
	ID         uint   `json:"id"`
	JobID      uint   `json:"job_id"`
	DocType    string `json:"doc_type"`
	StorageKey string `json:"storage_key"`
	MimeType   string `json:"mime_type,omitempty"`
	SizeBytes  int64  `json:"size_bytes,omitempty"`
}

// DocumentStoredPayload 文档上传完成.
type DocumentStoredPayload struct {
	Document     DocumentRef `json:"document"`
	OriginalName string      `json:"original_name,omitempty"`
	UploadedBy   string      `json:"uploaded_by,omitempty"`
	// ReplacedKey 被覆盖的旧 blob 键，首次上传为空
	ReplacedKey string `json:"replaced_key,omitempty"`
}

// DocumentDeletedPayload 文档已删除.
type DocumentDeletedPayload struct {
	Document  DocumentRef `json:"document"`
	DeletedBy string      `json:"deleted_by,omitempty"`
}

// BlobOrphanedPayload 某个 blob 已无元数据引用.
type BlobOrphanedPayload struct {
	StorageKey string       `json:"storage_key"`
	JobID      uint         `json:"job_id,omitempty"`
	DocType    string       `json:"doc_type,omitempty"`
	Reason     OrphanReason `json:"reason"`
	Error      string       `json:"error,omitempty"`
}

// MetadataDanglingPayload 元数据指向已删除的 blob.
type MetadataDanglingPayload struct {
	Document DocumentRef `json:"document"`
	Error    string      `json:"error"`
}
