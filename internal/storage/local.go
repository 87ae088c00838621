package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// LocalStore keeps uploads on disk under dir; gin serves dir at urlPath.
type LocalStore struct {
	dir     string
	urlPath string
	baseURL string
}

// NewLocalStore creates a store rooted at dir. baseURL may be empty, in which
// case public URLs are site-relative.
func NewLocalStore(dir, urlPath, baseURL string) *LocalStore {
	urlPath = "/" + strings.Trim(strings.TrimSpace(urlPath), "/")
	if urlPath == "/" {
		urlPath = "/uploads"
	}
	return &LocalStore{
		dir:     dir,
		urlPath: urlPath,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
}

// Put writes body to dir/key, creating folders as needed.
func (s *LocalStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	cleaned, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(s.dir, filepath.FromSlash(cleaned))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create upload folder: %w", err)
	}

	file, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}

	if _, err := io.Copy(file, body); err != nil {
		file.Close()
		return fmt.Errorf("write upload file: %w", err)
	}
	return file.Close()
}

// PublicURL returns the URL gin serves the key under.
func (s *LocalStore) PublicURL(_ context.Context, key string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(filepath.Join(s.dir, filepath.FromSlash(cleaned))); err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	return s.baseURL + path.Join(s.urlPath, cleaned), nil
}

// URLPrefix is the public prefix every key is served under.
func (s *LocalStore) URLPrefix() string {
	return s.baseURL + s.urlPath + "/"
}

// List walks dir and returns every stored key.
func (s *LocalStore) List(ctx context.Context) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return fs.SkipAll
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.dir, p)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}
