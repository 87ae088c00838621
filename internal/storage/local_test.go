package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStorePutAndPublicURL(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "/static/uploads", "")

	ctx := context.Background()
	if err := store.Put(ctx, "sections/1700000000000-abc.png", "image/png", strings.NewReader("png"), 3); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "sections", "1700000000000-abc.png"))
	if err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}
	if string(data) != "png" {
		t.Fatalf("unexpected file content %q", data)
	}

	url, err := store.PublicURL(ctx, "sections/1700000000000-abc.png")
	if err != nil {
		t.Fatalf("PublicURL returned error: %v", err)
	}
	if url != "/static/uploads/sections/1700000000000-abc.png" {
		t.Fatalf("unexpected url %q", url)
	}

	keys, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(keys) != 1 || keys[0] != "sections/1700000000000-abc.png" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/uploads", "")
	err := store.Put(context.Background(), "../escape.txt", "text/plain", strings.NewReader("x"), 1)
	if !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestLocalStoreMissingKey(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/uploads", "https://cdn.example.com/")
	if _, err := store.PublicURL(context.Background(), "blog/missing.jpg"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if store.URLPrefix() != "https://cdn.example.com/uploads/" {
		t.Fatalf("unexpected prefix %q", store.URLPrefix())
	}
}

func TestLocalStoreListMissingDir(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "absent"), "/uploads", "")
	keys, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected no keys, got %v", keys)
	}
}
