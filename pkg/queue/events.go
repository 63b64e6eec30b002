package queue

import "github.com/ThreeDotsLabs/watermill/message"

// publish 编码并发布到同名主题.
func publish[T any](pub message.Publisher, topic string, payload T, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(topic, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(topic, msg)
}

// PublishDocumentStored 发布 sd.document.stored.
func PublishDocumentStored(pub message.Publisher, payload DocumentStoredPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicDocumentStored, payload, opts...)
}

// PublishDocumentDeleted 发布 sd.document.deleted.
func PublishDocumentDeleted(pub message.Publisher, payload DocumentDeletedPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicDocumentDeleted, payload, opts...)
}

// PublishBlobOrphaned 发布 sd.document.blob.orphaned.
func PublishBlobOrphaned(pub message.Publisher, payload BlobOrphanedPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicDocumentBlobOrphaned, payload, opts...)
}

// PublishMetadataDangling 发布 sd.document.metadata.dangling.
func PublishMetadataDangling(pub message.Publisher, payload MetadataDanglingPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicDocumentMetadataDangling, payload, opts...)
}

// ParseDocumentStored 解析 sd.document.stored 消息.
func ParseDocumentStored(msg *message.Message) (Message[DocumentStoredPayload], error) {
	return ParseWatermillMessage[DocumentStoredPayload](msg)
}

// ParseBlobOrphaned 解析 sd.document.blob.orphaned 消息.
func ParseBlobOrphaned(msg *message.Message) (Message[BlobOrphanedPayload], error) {
	return ParseWatermillMessage[BlobOrphanedPayload](msg)
}
