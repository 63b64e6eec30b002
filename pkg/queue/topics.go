package queue

// 主题命名规范：sd.<域>.<动作>[.<状态>]，保持稳定且向后兼容.

const (
	// TopicDocumentStored 文档 blob 与元数据均已写入，payload 中 ReplacedKey 非空表示覆盖了旧版本.
	TopicDocumentStored = "sd.document.stored"
	// TopicDocumentDeleted 文档 blob 与元数据均已删除.
	TopicDocumentDeleted = "sd.document.deleted"
	// TopicDocumentBlobOrphaned 对象存储中出现不再被任何元数据引用的 blob.
	TopicDocumentBlobOrphaned = "sd.document.blob.orphaned"
	// TopicDocumentMetadataDangling 元数据仍在，但其 blob 已被删除，需要人工处理.
	TopicDocumentMetadataDangling = "sd.document.metadata.dangling"
)

// OrphanReason 孤儿 blob 产生的原因.
type OrphanReason string

const (
	OrphanSlotOverwrite  OrphanReason = "slot_overwrite"  // 同一槽位重新上传，旧 blob 不再被引用
	OrphanMetadataFailed OrphanReason = "metadata_failed" // blob 写入后元数据写入失败
	OrphanAborted        OrphanReason = "aborted"         // blob 写入后请求被取消
	OrphanSweep          OrphanReason = "sweep"           // 巡检发现
)
