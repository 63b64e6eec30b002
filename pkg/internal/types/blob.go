package types

import "time"

// BlobPut 写入对象存储的参数.
type BlobPut struct {
	Key                string
	Body               []byte
	ContentType        string
	Metadata           map[string]string // 作为对象的用户元数据保存
	Encrypt            bool              // 请求服务端加密
	ContentDisposition string
}

// BlobPresign 生成预签名下载链接的参数.
type BlobPresign struct {
	Key                        string
	TTL                        time.Duration
	ResponseContentType        string
	ResponseContentDisposition string
	ResponseCacheControl       string
}
