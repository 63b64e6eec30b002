package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/encrypt"
	"github.com/sony/gobreaker"

	"github.com/yeisme/shipdocs/pkg/configs"
	"github.com/yeisme/shipdocs/pkg/internal/types"
)

// BlobStore 把文档写入 S3 兼容存储，供 service 层作为 blob 端口使用.
type BlobStore struct {
	client  *minio.Client
	bucket  string
	sse     configs.SSEMode
	kmsKey  string
	breaker *gobreaker.CircuitBreaker // 未启用时为 nil
}

// NewBlobStore 基于已连接的客户端创建 blob 适配器.
func NewBlobStore(c *Client, cfg *configs.S3Config) *BlobStore {
	return &BlobStore{
		client:  c.Client,
		bucket:  c.bucket,
		sse:     cfg.SSE,
		kmsKey:  cfg.KMSKeyID,
		breaker: newBreaker("s3-blob", cfg.Breaker),
	}
}

// Put 写入对象，按需请求服务端加密并设置 Content-Disposition.
func (b *BlobStore) Put(ctx context.Context, in types.BlobPut) error {
	opts := minio.PutObjectOptions{
		ContentType:        in.ContentType,
		ContentDisposition: in.ContentDisposition,
		UserMetadata:       headerSafeMetadata(in.Metadata),
	}

	if in.Encrypt {
		sse, err := b.serverSide()
		if err != nil {
			return err
		}

		opts.ServerSideEncryption = sse
	}

	return b.do(func() error {
		_, err := b.client.PutObject(ctx, b.bucket, in.Key, bytes.NewReader(in.Body), int64(len(in.Body)), opts)
		if err != nil {
			return fmt.Errorf("put object %s: %w", in.Key, err)
		}

		return nil
	})
}

// Presign 生成限时下载链接，响应头由链接参数固定.
func (b *BlobStore) Presign(ctx context.Context, in types.BlobPresign) (string, error) {
	var link string

	err := b.do(func() error {
		u, err := b.client.PresignedGetObject(ctx, b.bucket, in.Key, in.TTL, presignParams(in))
		if err != nil {
			return fmt.Errorf("presign get %s: %w", in.Key, err)
		}

		link = u.String()

		return nil
	})

	return link, err
}

// Delete 删除对象；对象本就不存在时 S3 同样返回成功.
func (b *BlobStore) Delete(ctx context.Context, key string) error {
	return b.do(func() error {
		if err := b.client.RemoveObject(ctx, b.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("remove object %s: %w", key, err)
		}

		return nil
	})
}

// ListKeys 列出前缀下的全部对象键.
func (b *BlobStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	for obj := range b.client.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects %s: %w", prefix, obj.Err)
		}

		keys = append(keys, obj.Key)
	}

	return keys, nil
}

// Exists 判断对象是否存在.
func (b *BlobStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := b.client.StatObject(ctx, b.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}

	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}

	return false, fmt.Errorf("stat object %s: %w", key, err)
}

func (b *BlobStore) serverSide() (encrypt.ServerSide, error) {
	if b.sse == configs.SSEKMS {
		sse, err := encrypt.NewSSEKMS(b.kmsKey, nil)
		if err != nil {
			return nil, fmt.Errorf("kms encryption: %w", err)
		}

		return sse, nil
	}

	return encrypt.NewSSE(), nil
}

func (b *BlobStore) do(fn func() error) error {
	if b.breaker == nil {
		return fn()
	}

	_, err := b.breaker.Execute(func() (any, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("object store unavailable: %w", err)
	}

	return err
}

// presignParams 构造 response-* 覆盖参数.
func presignParams(in types.BlobPresign) url.Values {
	params := url.Values{}

	set := func(k, v string) {
		if v != "" {
			params.Set(k, v)
		}
	}

	set("response-content-type", in.ResponseContentType)
	set("response-content-disposition", in.ResponseContentDisposition)
	set("response-cache-control", in.ResponseCacheControl)

	return params
}

// headerSafeMetadata 用户元数据以 HTTP 头发送，非 ASCII 值做 URL 编码.
func headerSafeMetadata(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}

	out := make(map[string]string, len(in))

	for k, v := range in {
		if isPrintableASCII(v) {
			out[k] = v
		} else {
			out[k] = url.QueryEscape(v)
		}
	}

	return out
}

func isPrintableASCII(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return r < 0x20 || r > 0x7e }) < 0
}
