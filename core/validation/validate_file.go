// Package validation runs the startup checks of the CLI and prints them
// as a colored checklist.
package validation

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"pdf_summarizer/core"
)

// pdfMagic starts every PDF file.
var pdfMagic = []byte("%PDF-")

// FileExistsError indicates a file does not exist with a descriptive message
type FileExistsError struct {
	Path     string
	Message  string
	NotFound bool
}

func (e *FileExistsError) Error() string {
	return e.Message
}

// CheckFileExists checks if a regular file exists at path.
func CheckFileExists(path string) error {
	if path == "" {
		return &FileExistsError{Path: path, Message: "file path cannot be empty", NotFound: true}
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &FileExistsError{Path: path, Message: fmt.Sprintf("file not found: %s", path), NotFound: true}
		}
		return &FileExistsError{Path: path, Message: fmt.Sprintf("error checking file %s: %v", path, err)}
	}
	if info.IsDir() {
		return &FileExistsError{Path: path, Message: fmt.Sprintf("path is a directory, not a file: %s", path)}
	}
	return nil
}

// CheckPDFFile checks that path is a PDF no larger than maxSize bytes.
// Failures are *core.ConfigError values with INPUT_NOT_FOUND or
// INVALID_INPUT codes.
func CheckPDFFile(path string, maxSize int64) error {
	if err := CheckFileExists(path); err != nil {
		if fe, ok := err.(*FileExistsError); ok && fe.NotFound {
			return core.ErrInputNotFound(path)
		}
		return core.ErrInvalidInput(path, err.Error())
	}

	f, err := os.Open(path)
	if err != nil {
		return core.ErrInvalidInput(path, err.Error())
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return core.ErrInvalidInput(path, err.Error())
	}
	if maxSize > 0 && info.Size() > maxSize {
		return core.ErrInvalidInput(path, fmt.Sprintf("file is %s, limit is %s",
			humanize.IBytes(uint64(info.Size())), humanize.IBytes(uint64(maxSize))))
	}

	header := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(f, header); err != nil || !bytes.Equal(header, pdfMagic) {
		return core.ErrInvalidInput(path, "not a PDF file")
	}
	return nil
}

// CheckOutputPath checks that the directory of path exists and that path
// itself is not a directory.
func CheckOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return core.ErrInvalidValue("OUTPUT_PATH", `""`, "must not be empty")
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return core.ErrInvalidValue("OUTPUT_PATH", path, "is a directory")
	}
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return core.ErrInvalidValue("OUTPUT_PATH", path, fmt.Sprintf("directory %s does not exist", dir))
	}
	if !info.IsDir() {
		return core.ErrInvalidValue("OUTPUT_PATH", path, fmt.Sprintf("%s is not a directory", dir))
	}
	return nil
}
