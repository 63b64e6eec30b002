package service_test

import (
	"strings"
	"testing"

	"github.com/yeisme/shipdocs/pkg/internal/service"
)

func TestNormalizeDocType(t *testing.T) {
	tests := map[string]string{
		"Commercial Invoice":   "commercial_invoice",
		"Bill  of\tLading":     "bill_of_lading",
		"  Packing List  ":     "packing_list",
		"Cert. of Origin (CO)": "cert_of_origin_co",
		"../../etc":            "etc",
		"提单":                   "other",
		"":                     "other",
	}

	for in, want := range tests {
		if got := service.NormalizeDocType(in); got != want {
			t.Errorf("NormalizeDocType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildStorageKey(t *testing.T) {
	got := service.BuildStorageKey(1001, "Commercial Invoice", "1700000000000_abc.pdf")
	if got != "jobs/1001/commercial_invoice/1700000000000_abc.pdf" {
		t.Errorf("BuildStorageKey() = %q", got)
	}
}

func TestSanitizeDownloadName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"invoice v2.pdf", "invoice_v2.pdf"},
		{`evil"; filename="x.exe`, "evil_filenamex.exe"},
		{"a\r\nSet-Cookie: x.pdf", "a_Set-Cookie_x.pdf"},
		{"提单.pdf", ".pdf"},
		{"%%%", "document"},
		{"", "document"},
	}

	for _, tt := range tests {
		if got := service.SanitizeDownloadName(tt.in); got != tt.want {
			t.Errorf("SanitizeDownloadName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := service.SanitizeDownloadName(strings.Repeat("a", 400)); len(got) != service.MaxNameLength {
		t.Errorf("length = %d", len(got))
	}
}
