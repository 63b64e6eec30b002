package rule_test

import (
	"strings"
	"testing"

	"github.com/yeisme/shipdocs/pkg/rule"
)

// TestStruct 用于测试 ValidateStruct.
type TestStruct struct {
	Name string `rule:"required"`
	Age  int    `rule:"gte=18"`
}

// TestEngine 测试 Engine 函数返回非 nil 实例.
func TestEngine(t *testing.T) {
	engine := rule.Engine()
	if engine == nil {
		t.Error("Engine() returned nil")
	}
}

// TestValidateStruct 测试 ValidateStruct 对有效和无效结构体的验证.
func TestValidateStruct(t *testing.T) {
	// 有效结构体
	validStruct := TestStruct{Name: "John", Age: 25}

	err := rule.ValidateStruct(validStruct)
	if err != nil {
		t.Errorf("Expected no error for valid struct, got %v", err)
	}

	// 无效结构体：缺少 Name
	invalidStruct1 := TestStruct{Name: "", Age: 25}

	err = rule.ValidateStruct(invalidStruct1)
	if err == nil {
		t.Error("Expected error for invalid struct (missing name), got nil")
	}

	// 无效结构体：Age 小于 18
	invalidStruct2 := TestStruct{Name: "Jane", Age: 16}

	err = rule.ValidateStruct(invalidStruct2)
	if err == nil {
		t.Error("Expected error for invalid struct (age < 18), got nil")
	}
}

// TestValidateVar 测试 ValidateVar 对变量的验证.
func TestValidateVar(t *testing.T) {
	// 有效 email
	err := rule.ValidateVar("test@example.com", "required,email")
	if err != nil {
		t.Errorf("Expected no error for valid email, got %v", err)
	}

	// 无效 email
	err = rule.ValidateVar("invalid-email", "required,email")
	if err == nil {
		t.Error("Expected error for invalid email, got nil")
	}

	// 有效数字
	err = rule.ValidateVar(25, "gte=18")
	if err != nil {
		t.Errorf("Expected no error for valid number, got %v", err)
	}

	// 无效数字
	err = rule.ValidateVar(15, "gte=18")
	if err == nil {
		t.Error("Expected error for invalid number, got nil")
	}
}

type linkQuery struct {
	Disposition string `rule:"disposition"`
}

type uploadForm struct {
	DocType string `rule:"required,doctype"`
}

func TestDocumentRules(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		wantErr bool
	}{
		{"empty disposition", linkQuery{}, false},
		{"inline", linkQuery{Disposition: "inline"}, false},
		{"attachment", linkQuery{Disposition: "attachment"}, false},
		{"unknown disposition", linkQuery{Disposition: "download"}, true},
		{"header injection", linkQuery{Disposition: "inline\r\nX-Evil: 1"}, true},
		{"doc type", uploadForm{DocType: "Bill of Lading"}, false},
		{"doc type unicode", uploadForm{DocType: "提单"}, false},
		{"doc type blank", uploadForm{DocType: "   "}, true},
		{"doc type tab", uploadForm{DocType: "Commercial\tInvoice"}, false},
		{"doc type control stripped", uploadForm{DocType: "invoice\x00"}, false},
		{"doc type control only", uploadForm{DocType: "\x00\x01"}, true},
		{"doc type too long", uploadForm{DocType: strings.Repeat("a", rule.MaxDocTypeLength+1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rule.ValidateStruct(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	err := rule.ValidateStruct(TestStruct{Name: "", Age: 10})
	if err == nil {
		t.Fatal("expected error")
	}

	got := rule.Describe(err)
	if !strings.Contains(got, "Name: required") || !strings.Contains(got, "Age: gte=18") {
		t.Errorf("Describe() = %q", got)
	}
}

func TestCleanDocType(t *testing.T) {
	tests := map[string]string{
		"Commercial\tInvoice":       "Commercial Invoice",
		"  Bill   of\tLading\r\n ": "Bill of Lading",
		"Packing\x00 List":          "Packing List",
		"\x00\x01":                  "",
		"提单":                        "提单",
	}

	for in, want := range tests {
		if got := rule.CleanDocType(in); got != want {
			t.Errorf("CleanDocType(%q) = %q, want %q", in, got, want)
		}
	}
}
