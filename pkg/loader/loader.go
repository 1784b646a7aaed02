// Package loader turns local evidence into the text forms the annotation
// services and the hypergraph accept.
package loader

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// ErrEncoding marks a failed conversion of local content into text.
var ErrEncoding = errors.New("encoding error")

// GraphBase64 is binary content encoded for transport. FileType holds the
// data URI prefix, e.g. "data:image/png;base64,".
type GraphBase64 struct {
	Base64   string `json:"base64"`
	FileType string `json:"file_type"`
}

// DataURI joins the prefix and the payload.
func (b GraphBase64) DataURI() string {
	return b.FileType + b.Base64
}

// Bytes decodes the payload.
func (b GraphBase64) Bytes() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(b.Base64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return raw, nil
}

// Capturer produces an evidence file on disk and returns its path.
type Capturer interface {
	Capture(ctx context.Context) (string, error)
}

// EncodeBytes encodes content with a MIME prefix derived from name's extension.
func EncodeBytes(name string, content []byte) GraphBase64 {
	return GraphBase64{
		Base64:   base64.StdEncoding.EncodeToString(content),
		FileType: base64Prefix(name),
	}
}

// EncodeFile reads path and encodes it. Read failures and empty files are
// reported as ErrEncoding.
func EncodeFile(ctx context.Context, path string) (GraphBase64, error) {
	if err := ctx.Err(); err != nil {
		return GraphBase64{}, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return GraphBase64{}, fmt.Errorf("%w: read %s: %v", ErrEncoding, path, err)
	}
	if len(content) == 0 {
		return GraphBase64{}, fmt.Errorf("%w: %s is empty", ErrEncoding, path)
	}
	return EncodeBytes(path, content), nil
}

func base64Prefix(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	mimeType := ""
	if ext != "" {
		mimeType = mime.TypeByExtension(ext)
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return fmt.Sprintf("data:%s;base64,", mimeType)
}
