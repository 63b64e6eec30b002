package service_test

import (
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/yeisme/shipdocs/pkg/internal/service"
)

var storageNamePattern = regexp.MustCompile(`^\d{13}_[0-9a-f]{32}\.[a-z0-9]+$`)

func TestValidateFileRejectsDangerousExtensions(t *testing.T) {
	exts := []string{
		".exe", ".bat", ".cmd", ".com", ".msi", ".scr", ".pif", ".cpl", ".dll", ".so", ".sh", ".bash",
		".zsh", ".ps1", ".psm1", ".vbs", ".vbe", ".js", ".jse", ".mjs", ".wsf", ".wsh", ".hta", ".jar",
		".php", ".php3", ".php4", ".php5", ".phtml", ".phar", ".asp", ".aspx", ".jsp", ".jspx", ".cgi",
		".pl", ".py", ".rb", ".htaccess", ".html", ".htm", ".svg",
	}

	for _, ext := range exts {
		for _, mt := range []string{"application/pdf", "text/plain", "image/png", "application/octet-stream"} {
			for _, name := range []string{"payload" + ext, "PAYLOAD" + strings.ToUpper(ext)} {
				_, err := service.ValidateFile(name, mt, 10)
				if !service.IsValidation(err) {
					t.Fatalf("ValidateFile(%q, %q) error = %v, want ValidationError", name, mt, err)
				}

				if !strings.Contains(err.Error(), "extension") {
					t.Errorf("ValidateFile(%q, %q) error = %q, want extension reason", name, mt, err)
				}
			}
		}
	}
}

func TestValidateFileChecks(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		mimeType string
		size     int64
		wantErr  string
	}{
		{"pdf ok", "invoice.pdf", "application/pdf", 2 << 20, ""},
		{"upper case ext", "SCAN.PDF", "application/pdf", 100, ""},
		{"jpeg alias", "photo.jpeg", "image/jpeg", 100, ""},
		{"mime params", "notes.txt", "text/plain; charset=utf-8", 100, ""},
		{"zip alias", "bundle.zip", "application/x-zip-compressed", 100, ""},
		{"rar", "bundle.rar", "application/vnd.rar", 40 << 20, ""},
		{"unknown mime", "pic.bmp", "image/bmp", 100, "file type image/bmp is not allowed"},
		{"missing mime", "a.pdf", "", 100, "is not allowed"},
		{"ext mismatch", "report.png", "application/pdf", 100, "does not match file type application/pdf"},
		{"no ext", "report", "application/pdf", 100, "no extension"},
		{"document ceiling", "big.pdf", "application/pdf", 10<<20 + 1, "10 MiB"},
		{"document at ceiling", "big.pdf", "application/pdf", 10 << 20, ""},
		{"image ceiling", "big.png", "image/png", 5<<20 + 1, "5.0 MiB"},
		{"text ceiling", "big.csv", "text/csv", 1<<20 + 1, "1.0 MiB"},
		{"archive ceiling", "big.zip", "application/zip", 50<<20 + 1, "50 MiB"},
		{"empty", "empty.pdf", "application/pdf", 0, "file is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			approval, err := service.ValidateFile(tt.fileName, tt.mimeType, tt.size)

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}

				if !storageNamePattern.MatchString(approval.StorageName) {
					t.Errorf("StorageName = %q", approval.StorageName)
				}

				if !strings.HasSuffix(approval.StorageName, approval.Extension) || approval.Extension != strings.ToLower(approval.Extension) {
					t.Errorf("StorageName %q / Extension %q", approval.StorageName, approval.Extension)
				}

				if approval.SizeBytes != tt.size {
					t.Errorf("SizeBytes = %d", approval.SizeBytes)
				}

				return
			}

			if !service.IsValidation(err) {
				t.Fatalf("error = %v, want ValidationError", err)
			}

			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateFileCeilingNamedInError(t *testing.T) {
	_, err := service.ValidateFile("scan.pdf", "application/pdf", 12<<20)
	if err == nil {
		t.Fatal("expected error")
	}

	want := "file size 12 MiB exceeds the 10 MiB limit for document files"
	if !strings.Contains(err.Error(), want) {
		t.Errorf("error = %q, want %q", err, want)
	}
}

func TestValidateFileStorageNamesAreUnique(t *testing.T) {
	seen := map[string]bool{}

	for range 100 {
		a, err := service.ValidateFile("a.pdf", "application/pdf", 1)
		if err != nil {
			t.Fatal(err)
		}

		if seen[a.StorageName] {
			t.Fatalf("duplicate storage name %s", a.StorageName)
		}

		seen[a.StorageName] = true
	}
}

func TestSanitizeDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"invoice.pdf", "invoice.pdf"},
		{"../../etc/passwd.txt", "passwd.txt"},
		{`C:\Users\ops\Desktop\bol.pdf`, "bol.pdf"},
		{"  ..hidden.pdf.. ", "hidden.pdf"},
		{"in\x00voi\nce.pdf", "invoice.pdf"},
		{"提单 扫描.pdf", "提单 扫描.pdf"},
	}

	for _, tt := range tests {
		if got := service.SanitizeDisplayName(tt.in); got != tt.want {
			t.Errorf("SanitizeDisplayName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeDisplayNameClipsPreservingExtension(t *testing.T) {
	got := service.SanitizeDisplayName(strings.Repeat("界", 300) + ".pdf")

	if n := utf8.RuneCountInString(got); n != service.MaxNameLength {
		t.Errorf("length = %d, want %d", n, service.MaxNameLength)
	}

	if !strings.HasSuffix(got, ".pdf") {
		t.Errorf("extension lost: %q", got)
	}
}

func TestSanitizeDisplayNameFallback(t *testing.T) {
	for _, in := range []string{"", "...", "dir/", " \t ", "\x01\x02"} {
		got := service.SanitizeDisplayName(in)
		if !strings.HasPrefix(got, "document_") || len(got) != len("document_")+26 {
			t.Errorf("SanitizeDisplayName(%q) = %q, want document_<ULID>", in, got)
		}
	}

	if a, b := service.SanitizeDisplayName(""), service.SanitizeDisplayName(""); a == b {
		t.Errorf("fallback names should be random, got %q twice", a)
	}
}

func TestSanitizeDocType(t *testing.T) {
	for in, want := range map[string]string{
		"  Bill   of\tLading ":       "Bill of Lading",
		"Commercial\tInvoice":        "Commercial Invoice",
		"Packing\r\nList":            "Packing List",
		"Certificate\x00 of Origin": "Certificate of Origin",
	} {
		got, err := service.SanitizeDocType(in)
		if err != nil || got != want {
			t.Errorf("SanitizeDocType(%q) = %q, %v, want %q", in, got, err, want)
		}
	}

	for _, in := range []string{"", "   ", "\x00\x01", strings.Repeat("x", 101)} {
		if _, err := service.SanitizeDocType(in); !service.IsValidation(err) {
			t.Errorf("SanitizeDocType(%q) error = %v, want ValidationError", in, err)
		}
	}
}
