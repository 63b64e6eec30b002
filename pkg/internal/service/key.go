package service

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultDocTypeSegment 文档类型规范化后为空时使用的路径段.
const DefaultDocTypeSegment = "other"

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	nonKeySegment  = regexp.MustCompile(`[^a-z0-9_]`)
	nonDownloadRun = regexp.MustCompile(`[^\w\s.-]`)
)

// NormalizeDocType 把文档类型转换为对象键中的路径段，如 "Commercial Invoice" -> "commercial_invoice".
func NormalizeDocType(docType string) string {
	s := strings.ToLower(strings.TrimSpace(docType))
	s = whitespaceRun.ReplaceAllString(s, "_")
	s = nonKeySegment.ReplaceAllString(s, "")

	if s == "" {
		return DefaultDocTypeSegment
	}

	return s
}

// BuildStorageKey 生成 jobs/{job_id}/{doc_type}/{storage_name}.
func BuildStorageKey(jobID uint, docType, storageName string) string {
	return fmt.Sprintf("jobs/%d/%s/%s", jobID, NormalizeDocType(docType), storageName)
}

// SanitizeDownloadName 签发链接前再次清洗文件名，结果可以直接放进 Content-Disposition.
func SanitizeDownloadName(name string) string {
	s := nonDownloadRun.ReplaceAllString(name, "")
	s = whitespaceRun.ReplaceAllString(strings.TrimSpace(s), "_")

	if r := []rune(s); len(r) > MaxNameLength {
		s = string(r[:MaxNameLength])
	}

	if s == "" {
		return "document"
	}

	return s
}
