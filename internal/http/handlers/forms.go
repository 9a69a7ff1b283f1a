package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
)

// pngSignature is the fixed 8-byte PNG file header.
var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

var (
	errFileMissing  = errors.New("file part missing")
	errFileTooLarge = errors.New("file too large")
)

// formFile reads one uploaded file part, enforcing the size cap. The declared
// content type is returned as-is; callers that care must sniff the bytes.
func formFile(r *http.Request, name string, maxBytes int64) ([]byte, string, error) {
	file, header, err := r.FormFile(name)
	if err != nil {
		return nil, "", errFileMissing
	}
	defer file.Close()
	if header.Size > maxBytes {
		return nil, "", errFileTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) > maxBytes {
		return nil, "", errFileTooLarge
	}
	contentType := header.Header.Get("Content-Type")
	return data, contentType, nil
}

// sniffPNG verifies the actual bytes, not the declared content type.
func sniffPNG(data []byte) bool {
	return len(data) >= len(pngSignature) && bytes.Equal(data[:len(pngSignature)], pngSignature)
}

// looksPNGType accepts the declared types browsers actually send for PNGs.
func looksPNGType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	return ct == "image/png" || ct == "application/octet-stream" || ct == ""
}

func isMultipart(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data")
}
