// Package storage abstracts object storage for uploaded files.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// ObjectStorage stores and removes uploaded objects. Put returns the public
// URL of the stored object.
type ObjectStorage interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// RenameFile produces a collision-resistant object name from an uploaded
// filename: separators are normalized to underscores and a timestamp is
// appended before the extension.
func RenameFile(filename string) string {
	ext := path.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	replacer := strings.NewReplacer(" ", "_", "-", "_", ".", "_")
	base = replacer.Replace(base)
	if base == "" {
		base = "file"
	}

	return fmt.Sprintf("%s%d%s", base, time.Now().UnixMilli(), ext)
}
