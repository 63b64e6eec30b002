package s3

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7/pkg/encrypt"
	"github.com/sony/gobreaker"

	"github.com/yeisme/shipdocs/pkg/configs"
	"github.com/yeisme/shipdocs/pkg/internal/types"
)

func TestPresignParams(t *testing.T) {
	params := presignParams(types.BlobPresign{
		Key:                        "jobs/1/invoice/1_ab.pdf",
		TTL:                        time.Hour,
		ResponseContentType:        "application/pdf",
		ResponseContentDisposition: `inline; filename="invoice.pdf"`,
		ResponseCacheControl:       "private, max-age=300",
	})

	want := map[string]string{
		"response-content-type":        "application/pdf",
		"response-content-disposition": `inline; filename="invoice.pdf"`,
		"response-cache-control":       "private, max-age=300",
	}

	for k, v := range want {
		if got := params.Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}

	if len(presignParams(types.BlobPresign{Key: "k"})) != 0 {
		t.Error("empty overrides should produce no params")
	}
}

func TestHeaderSafeMetadata(t *testing.T) {
	got := headerSafeMetadata(map[string]string{
		"job-id":        "42",
		"original-name": "提单 2024.pdf",
		"doc-type":      "Bill of Lading",
	})

	if got["job-id"] != "42" || got["doc-type"] != "Bill of Lading" {
		t.Errorf("ascii values changed: %v", got)
	}

	if strings.ContainsFunc(got["original-name"], func(r rune) bool { return r > 0x7e }) {
		t.Errorf("non-ascii value not escaped: %q", got["original-name"])
	}

	if headerSafeMetadata(nil) != nil {
		t.Error("nil metadata should stay nil")
	}
}

func TestServerSideSelection(t *testing.T) {
	b := &BlobStore{sse: configs.SSES3}

	sse, err := b.serverSide()
	if err != nil {
		t.Fatal(err)
	}

	if sse.Type() != encrypt.S3 {
		t.Errorf("Type() = %v, want SSE-S3", sse.Type())
	}

	b = &BlobStore{sse: configs.SSEKMS, kmsKey: "shipdocs-key"}

	sse, err = b.serverSide()
	if err != nil {
		t.Fatal(err)
	}

	if sse.Type() != encrypt.KMS {
		t.Errorf("Type() = %v, want SSE-KMS", sse.Type())
	}
}

func TestBreakerDisabled(t *testing.T) {
	if newBreaker("x", configs.CircuitBreakerConfig{Enabled: false}) != nil {
		t.Fatal("disabled breaker should be nil")
	}

	b := &BlobStore{}
	boom := errors.New("boom")

	if err := b.do(func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("do() = %v, want boom", err)
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	b := &BlobStore{breaker: newBreaker("test", configs.CircuitBreakerConfig{
		Enabled:           true,
		FailureRate:       0.5,
		MinRequests:       2,
		IntervalSeconds:   60,
		TimeoutSeconds:    60,
		MaxRequestsInHalf: 1,
	})}

	boom := errors.New("connection refused")

	for range 2 {
		_ = b.do(func() error { return boom })
	}

	called := false

	err := b.do(func() error {
		called = true

		return nil
	})
	if called {
		t.Fatal("open breaker should not call through")
	}

	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("do() = %v, want ErrOpenState", err)
	}
}

func TestBreakerIgnoresCancellation(t *testing.T) {
	b := &BlobStore{breaker: newBreaker("cancel", configs.CircuitBreakerConfig{
		Enabled:     true,
		FailureRate: 0.5,
		MinRequests: 1,
	})}

	for range 3 {
		_ = b.do(func() error { return context.Canceled })
	}

	if err := b.do(func() error { return nil }); err != nil {
		t.Fatalf("breaker tripped on cancellations: %v", err)
	}
}
