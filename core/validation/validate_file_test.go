package validation

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pdf_summarizer/core"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestCheckFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	tests := []struct {
		name         string
		path         string
		wantErr      bool
		wantNotFound bool
		errContains  string
	}{
		{name: "existing file", path: testFile},
		{name: "non-existent file", path: filepath.Join(tmpDir, "nonexistent.txt"), wantErr: true, wantNotFound: true, errContains: "not found"},
		{name: "empty path", path: "", wantErr: true, wantNotFound: true, errContains: "empty"},
		{name: "directory instead of file", path: tmpDir, wantErr: true, errContains: "directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckFileExists(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckFileExists() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var fe *FileExistsError
			if !errors.As(err, &fe) {
				t.Fatalf("error type = %T, want *FileExistsError", err)
			}
			if fe.NotFound != tt.wantNotFound {
				t.Errorf("NotFound = %v, want %v", fe.NotFound, tt.wantNotFound)
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.errContains)
			}
		})
	}
}

func TestCheckPDFFile(t *testing.T) {
	pdf := writeFile(t, "doc.pdf", []byte("%PDF-1.4\n% test body\n"))
	text := writeFile(t, "notes.pdf", []byte("plain text"))
	tiny := writeFile(t, "tiny.pdf", []byte("%P"))

	tests := []struct {
		name     string
		path     string
		maxSize  int64
		wantCode string
	}{
		{"valid pdf", pdf, 0, ""},
		{"within size limit", pdf, 1024, ""},
		{"missing file", filepath.Join(t.TempDir(), "missing.pdf"), 0, core.ErrCodeInputNotFound},
		{"empty path", "", 0, core.ErrCodeInputNotFound},
		{"directory", t.TempDir(), 0, core.ErrCodeInvalidInput},
		{"not a pdf", text, 0, core.ErrCodeInvalidInput},
		{"shorter than header", tiny, 0, core.ErrCodeInvalidInput},
		{"too large", pdf, 8, core.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPDFFile(tt.path, tt.maxSize)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("CheckPDFFile() = %v, want nil", err)
				}
				return
			}
			if got := core.GetErrorCode(err); got != tt.wantCode {
				t.Errorf("code = %q, want %q (err %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestCheckPDFFile_SizeMessage(t *testing.T) {
	path := writeFile(t, "big.pdf", append([]byte("%PDF-"), make([]byte, 2048)...))
	err := CheckPDFFile(path, 1024)
	if err == nil {
		t.Fatal("expected size error")
	}
	if !strings.Contains(err.Error(), "1.0 KiB") {
		t.Errorf("error = %q, want humanized limit", err.Error())
	}
}

func TestCheckOutputPath(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, "plain", []byte("x"))

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"new file in existing dir", filepath.Join(dir, "Summary.pdf"), false},
		{"existing file is overwritten", file, false},
		{"relative name", "Summary.pdf", false},
		{"empty", "  ", true},
		{"path is a directory", dir, true},
		{"missing parent", filepath.Join(dir, "missing", "Summary.pdf"), true},
		{"parent is a file", filepath.Join(file, "Summary.pdf"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckOutputPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckOutputPath(%q) = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && core.GetErrorCode(err) != core.ErrCodeInvalidValue {
				t.Errorf("code = %q, want %q", core.GetErrorCode(err), core.ErrCodeInvalidValue)
			}
		})
	}
}

func TestGetDiskSpace(t *testing.T) {
	dir := t.TempDir()

	info, err := GetDiskSpace(filepath.Join(dir, "not", "yet", "created.pdf"))
	if err != nil {
		t.Fatalf("GetDiskSpace: %v", err)
	}
	if info.Path != dir {
		t.Errorf("Path = %q, want nearest existing parent %q", info.Path, dir)
	}
	if info.Total <= 0 || info.Free < 0 || info.Free > info.Total {
		t.Errorf("implausible disk info %+v", info)
	}
}

func TestCheckDiskSpace(t *testing.T) {
	dir := t.TempDir()
	if err := CheckDiskSpace(dir, 0); err != nil {
		t.Errorf("CheckDiskSpace(0) = %v", err)
	}

	err := CheckDiskSpace(dir, 1<<62)
	var spaceErr *DiskSpaceError
	if !errors.As(err, &spaceErr) {
		t.Fatalf("err = %v, want *DiskSpaceError", err)
	}
	if spaceErr.Required != 1<<62 {
		t.Errorf("Required = %d", spaceErr.Required)
	}
	if !strings.Contains(err.Error(), "insufficient disk space") {
		t.Errorf("Error() = %q", err.Error())
	}
}
