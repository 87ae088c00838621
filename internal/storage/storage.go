// Package storage holds the object storage backends uploads are written to.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

var (
	ErrInvalidKey = errors.New("storage key is invalid")
	ErrNotFound   = errors.New("stored object not found")
)

// Store writes blobs and exposes them through a public URL.
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	PublicURL(ctx context.Context, key string) (string, error)
}

// Lister is implemented by stores that can enumerate their keys.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}

func cleanKey(key string) (string, error) {
	trimmed := strings.Trim(strings.TrimSpace(key), "/")
	if trimmed == "" || strings.Contains(trimmed, "..") || strings.Contains(trimmed, "\\") {
		return "", ErrInvalidKey
	}
	return trimmed, nil
}
