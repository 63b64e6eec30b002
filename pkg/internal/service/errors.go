package service

import (
	"errors"
	"fmt"
)

// MsgStorageFailure 存储层失败时返回给用户的通用提示，细节只写日志.
const MsgStorageFailure = "could not process document"

// 失败阶段，写入 StorageError.Stage 供运维定位.
const (
	StageCheckingJob       = "checking_job"
	StageLoadingMetadata   = "loading_metadata"
	StageStoringBlob       = "storing_blob"
	StageAborted           = "aborted"
	StageUpsertingMetadata = "upserting_metadata"
	StageCheckingBlob      = "checking_blob"
	StagePresigning        = "presigning"
	StageDeletingBlob      = "deleting_blob"
	StageDeletingMetadata  = "deleting_metadata"
	StageListing           = "listing"
)

// ValidationError 输入不合法或违反上传策略，原因可直接展示给用户.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}

	return e.Field + ": " + e.Message
}

// NotFoundError 引用的 job 或文档不存在.
type NotFoundError struct {
	Resource string // "job" 或 "document"
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// StorageError 对象存储或元数据存储操作失败.
type StorageError struct {
	Stage     string
	Retryable bool
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure while %s: %v", e.Stage, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsValidation 判断是否为 ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound 判断是否为 NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsRetryable 判断失败是否可以原样重试，只有存储层错误可能为 true.
func IsRetryable(err error) bool {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Retryable
	}

	return false
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
