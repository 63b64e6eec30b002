package rule

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// MaxDocTypeLength 文档类型的最大字符数.
const MaxDocTypeLength = 100

// registerDocumentRules 注册文档相关的自定义规则.
//
//	doctype:     清理后非空、不超过 MaxDocTypeLength 个字符
//	disposition: 为空或 inline / attachment
func registerDocumentRules(v *validator.Validate) {
	_ = v.RegisterValidation("doctype", func(fl validator.FieldLevel) bool {
		return IsDocType(fl.Field().String())
	})
	_ = v.RegisterValidation("disposition", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "", "inline", "attachment":
			return true
		default:
			return false
		}
	})
}

// CleanDocType 把空白（含制表符与换行）折叠为单个空格，并去掉其余控制字符.
// 先按空白切分再清理，避免 \t 这类既是空白又是控制字符的分隔符被直接删掉.
func CleanDocType(s string) string {
	fields := strings.Fields(s)
	kept := fields[:0]

	for _, f := range fields {
		f = strings.Map(func(r rune) rune {
			if unicode.IsControl(r) || r == utf8.RuneError {
				return -1
			}

			return r
		}, f)
		if f != "" {
			kept = append(kept, f)
		}
	}

	return strings.Join(kept, " ")
}

// IsDocType 判断文档类型清理后是否为可接受的自由文本：非空且不超过 MaxDocTypeLength 个字符.
func IsDocType(s string) bool {
	cleaned := CleanDocType(s)

	return cleaned != "" && utf8.RuneCountInString(cleaned) <= MaxDocTypeLength
}
