// Package context 把请求级信息（调用方身份、追踪信息）放入 context，供 service 层读取.
package context

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

type ContextKey string

const (
	CallerKey ContextKey = "caller"
)

// Caller 由上游认证组件提供的调用方身份.
type Caller struct {
	ID    string // 用户 ID 或邮箱，作为 uploaded_by 落库
	Email string
	Role  string
}

// WithCaller 将调用方身份存入 context.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, CallerKey, c)
}

// GetCaller 从 context 中读取调用方身份.
func GetCaller(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(CallerKey).(Caller)

	return c, ok
}

// CallerID 返回调用方标识，未知时为空字符串.
func CallerID(ctx context.Context) string {
	if c, ok := GetCaller(ctx); ok {
		return c.ID
	}

	return ""
}

// WithTraceContext 创建带有追踪上下文的 logger.
func WithTraceContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		return logger.With().
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String()).
			Logger()
	}

	return logger
}
