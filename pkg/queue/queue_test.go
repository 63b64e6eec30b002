package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/yeisme/shipdocs/pkg/queue"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	msg, err := queue.NewWatermillMessage(queue.TopicDocumentDeleted, queue.DocumentDeletedPayload{
		Document:  queue.DocumentRef{ID: 3, JobID: 9, DocType: "Invoice", StorageKey: "jobs/9/invoice/x.pdf"},
		DeletedBy: "ops@example.com",
	}, queue.WithTraceID("trace-1"), queue.WithOccurredAt(at))
	if err != nil {
		t.Fatal(err)
	}

	if msg.Metadata.Get("topic") != queue.TopicDocumentDeleted || msg.Metadata.Get("trace_id") != "trace-1" {
		t.Errorf("metadata = %v", msg.Metadata)
	}

	env, err := queue.ParseWatermillMessage[queue.DocumentDeletedPayload](msg)
	if err != nil {
		t.Fatal(err)
	}

	if env.Header.Producer != queue.DefaultProducer || !env.Header.OccurredAt.Equal(at) {
		t.Errorf("header = %+v", env.Header)
	}

	if env.Payload.Document.StorageKey != "jobs/9/invoice/x.pdf" || env.Payload.DeletedBy != "ops@example.com" {
		t.Errorf("payload = %+v", env.Payload)
	}
}

func TestPublishBlobOrphaned(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pubsub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 4}, watermill.NopLogger{})
	defer pubsub.Close()

	ch, err := pubsub.Subscribe(ctx, queue.TopicDocumentBlobOrphaned)
	if err != nil {
		t.Fatal(err)
	}

	err = queue.PublishBlobOrphaned(pubsub, queue.BlobOrphanedPayload{
		StorageKey: "jobs/1/invoice/old.pdf",
		JobID:      1,
		Reason:     queue.OrphanSlotOverwrite,
	})
	if err != nil {
		t.Fatal(err)
	}

	select {
	case m := <-ch:
		m.Ack()

		env, err := queue.ParseBlobOrphaned(m)
		if err != nil {
			t.Fatal(err)
		}

		if env.Payload.Reason != queue.OrphanSlotOverwrite || env.Payload.StorageKey != "jobs/1/invoice/old.pdf" {
			t.Errorf("payload = %+v", env.Payload)
		}
	case <-ctx.Done():
		t.Fatal("message not delivered")
	}
}
