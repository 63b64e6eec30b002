package mq_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yeisme/shipdocs/pkg/configs"
	"github.com/yeisme/shipdocs/pkg/internal/storage/mq"
	"github.com/yeisme/shipdocs/pkg/queue"
)

func TestRegisteredTypes(t *testing.T) {
	got := mq.RegisteredTypes()

	want := []configs.MQType{configs.MQTypeMemory, configs.MQTypeNATS, configs.MQTypeRedis}
	if len(got) != len(want) {
		t.Fatalf("RegisteredTypes() = %v", got)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RegisteredTypes()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMemoryClientDeliversEvents(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mq.New(ctx, &configs.MQConfig{
		Type:          configs.MQTypeMemory,
		MemoryBuffer:  8,
		EnableMetrics: true,
	}, prometheus.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	ch, err := client.Subscribe(ctx, queue.TopicDocumentStored)
	if err != nil {
		t.Fatal(err)
	}

	err = queue.PublishDocumentStored(client, queue.DocumentStoredPayload{
		Document: queue.DocumentRef{ID: 1, JobID: 2, DocType: "Invoice", StorageKey: "jobs/2/invoice/a.pdf"},
	})
	if err != nil {
		t.Fatal(err)
	}

	select {
	case m := <-ch:
		m.Ack()

		env, err := queue.ParseDocumentStored(m)
		if err != nil {
			t.Fatal(err)
		}

		if env.Payload.Document.JobID != 2 {
			t.Errorf("payload = %+v", env.Payload)
		}
	case <-ctx.Done():
		t.Fatal("event not delivered")
	}
}

func TestUnsupportedType(t *testing.T) {
	if _, err := mq.New(context.Background(), &configs.MQConfig{Type: "kafka"}, nil); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}
