package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/oklog/ulid"

	"github.com/yeisme/shipdocs/pkg/rule"
)

// MaxNameLength 文件名的最大字符数.
const MaxNameLength = 255

// FileClass 文件大类，决定大小上限.
type FileClass struct {
	Name     string
	MaxBytes int64
}

var (
	ClassDocument = FileClass{Name: "document", MaxBytes: 10 << 20}
	ClassImage    = FileClass{Name: "image", MaxBytes: 5 << 20}
	ClassArchive  = FileClass{Name: "archive", MaxBytes: 50 << 20}
	ClassText     = FileClass{Name: "text", MaxBytes: 1 << 20}
	// ClassDefault 允许但未归类的类型.
	ClassDefault = FileClass{Name: "file", MaxBytes: 5 << 20}
)

type allowedType struct {
	extensions []string
	class      FileClass
}

// allowedTypes MIME 到允许扩展名与大类的映射.
var allowedTypes = map[string]allowedType{
	"application/pdf":    {[]string{".pdf"}, ClassDocument},
	"application/msword": {[]string{".doc"}, ClassDocument},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {[]string{".docx"}, ClassDocument},
	"application/vnd.ms-excel": {[]string{".xls"}, ClassDocument},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {[]string{".xlsx"}, ClassDocument},
	"text/plain":                   {[]string{".txt"}, ClassText},
	"text/csv":                     {[]string{".csv"}, ClassText},
	"image/jpeg":                   {[]string{".jpg", ".jpeg"}, ClassImage},
	"image/png":                    {[]string{".png"}, ClassImage},
	"image/gif":                    {[]string{".gif"}, ClassImage},
	"image/webp":                   {[]string{".webp"}, ClassImage},
	"application/zip":              {[]string{".zip"}, ClassArchive},
	"application/x-zip-compressed": {[]string{".zip"}, ClassArchive},
	"application/x-rar-compressed": {[]string{".rar"}, ClassArchive},
	"application/vnd.rar":          {[]string{".rar"}, ClassArchive},
}

// dangerousExtensions 可执行文件、脚本与服务端代码，无论声明的 MIME 是什么都拒绝.
var dangerousExtensions = map[string]struct{}{
	".exe": {}, ".bat": {}, ".cmd": {}, ".com": {}, ".msi": {}, ".scr": {}, ".pif": {}, ".cpl": {},
	".dll": {}, ".so": {}, ".sh": {}, ".bash": {}, ".zsh": {}, ".ps1": {}, ".psm1": {}, ".vbs": {},
	".vbe": {}, ".js": {}, ".jse": {}, ".mjs": {}, ".wsf": {}, ".wsh": {}, ".hta": {}, ".jar": {},
	".php": {}, ".php3": {}, ".php4": {}, ".php5": {}, ".phtml": {}, ".phar": {}, ".asp": {},
	".aspx": {}, ".jsp": {}, ".jspx": {}, ".cgi": {}, ".pl": {}, ".py": {}, ".rb": {},
	".htaccess": {}, ".html": {}, ".htm": {}, ".svg": {},
}

// Approval 通过校验的上传.
type Approval struct {
	DisplayName string // 清洗后的原始文件名，用于展示与下载
	StorageName string // 对象存储中的叶子名，与用户输入无关
	Extension   string // 小写扩展名，含点
	MimeType    string
	Class       FileClass
	SizeBytes   int64
}

// ValidateFile 按顺序校验声明的文件名、MIME 与大小，第一项失败即返回 *ValidationError.
// 不做任何 I/O.
func ValidateFile(fileName, mimeType string, size int64) (Approval, error) {
	return validateFile(time.Now(), fileName, mimeType, size)
}

func validateFile(now time.Time, fileName, mimeType string, size int64) (Approval, error) {
	base := baseName(fileName)
	ext := strings.ToLower(filepath.Ext(strings.TrimRightFunc(base, isTrimmable)))

	if _, bad := dangerousExtensions[ext]; bad {
		return Approval{}, invalid("file", "file extension %s is not allowed", ext)
	}

	mt := normalizeMIME(mimeType)

	allowed, ok := allowedTypes[mt]
	if !ok {
		return Approval{}, invalid("file", "file type %s is not allowed", displayMIME(mimeType, mt))
	}

	if !containsExt(allowed.extensions, ext) {
		if ext == "" {
			return Approval{}, invalid("file", "file has no extension, expected %s for %s", strings.Join(allowed.extensions, " or "), mt)
		}

		return Approval{}, invalid("file", "file extension %s does not match file type %s", ext, mt)
	}

	if size > allowed.class.MaxBytes {
		return Approval{}, invalid("file", "file size %s exceeds the %s limit for %s files",
			humanize.IBytes(uint64(size)), humanize.IBytes(uint64(allowed.class.MaxBytes)), allowed.class.Name)
	}

	if size <= 0 {
		return Approval{}, invalid("file", "file is empty")
	}

	storageName, err := newStorageName(now, ext)
	if err != nil {
		return Approval{}, err
	}

	return Approval{
		DisplayName: SanitizeDisplayName(fileName),
		StorageName: storageName,
		Extension:   ext,
		MimeType:    mt,
		Class:       allowed.class,
		SizeBytes:   size,
	}, nil
}

// SanitizeDisplayName 去掉路径与控制字符，修剪首尾的点和空白，保留扩展名截断到 MaxNameLength.
// 结果为空时使用 document_<ULID>.
func SanitizeDisplayName(fileName string) string {
	name := strings.TrimFunc(stripControl(baseName(fileName)), isTrimmable)
	name = clipPreservingExt(name, MaxNameLength)

	if name == "" {
		ext := strings.ToLower(filepath.Ext(stripControl(baseName(fileName))))
		if !isSafeExt(ext) {
			ext = ""
		}

		return "document_" + ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String() + ext
	}

	return name
}

// SanitizeDocType 规范化文档类型：空白（含制表符与换行）折叠为单个空格，再去掉其余控制字符.
func SanitizeDocType(docType string) (string, error) {
	cleaned := rule.CleanDocType(docType)
	if cleaned == "" {
		return "", invalid("doc_type", "document type is required")
	}

	if !rule.IsDocType(cleaned) {
		return "", invalid("doc_type", "document type must be at most %d characters", rule.MaxDocTypeLength)
	}

	return cleaned, nil
}

// newStorageName 生成 <unix 毫秒>_<32 位随机十六进制><扩展名>.
func newStorageName(now time.Time, ext string) (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate storage name: %w", err)
	}

	return fmt.Sprintf("%d_%s%s", now.UnixMilli(), hex.EncodeToString(buf[:]), ext), nil
}

// baseName 取最后一个路径分量，同时识别 / 与 \.
func baseName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		return name[i+1:]
	}

	return name
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == utf8.RuneError {
			return -1
		}

		return r
	}, s)
}

func isTrimmable(r rune) bool {
	return r == '.' || unicode.IsSpace(r)
}

// clipPreservingExt 按字符数截断，尽量保留扩展名.
func clipPreservingExt(name string, limit int) string {
	if utf8.RuneCountInString(name) <= limit {
		return name
	}

	ext := filepath.Ext(name)
	extLen := utf8.RuneCountInString(ext)

	if ext == "" || extLen >= limit {
		return string([]rune(name)[:limit])
	}

	stem := []rune(strings.TrimSuffix(name, ext))

	return strings.TrimRightFunc(string(stem[:limit-extLen]), isTrimmable) + ext
}

func normalizeMIME(mimeType string) string {
	mt, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(mimeType))
	}

	return mt
}

// displayMIME 错误信息中回显的 MIME，非打印字符时只给规范化结果.
func displayMIME(raw, normalized string) string {
	if normalized == "" {
		return "(none)"
	}

	if strings.IndexFunc(raw, unicode.IsControl) >= 0 {
		return fmt.Sprintf("%q", normalized)
	}

	return normalized
}

func containsExt(exts []string, ext string) bool {
	for _, e := range exts {
		if e == ext {
			return true
		}
	}

	return false
}

func isSafeExt(ext string) bool {
	for _, t := range allowedTypes {
		if containsExt(t.extensions, ext) {
			return true
		}
	}

	return false
}
