package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveStore keeps uploads in a Google Drive folder shared with "anyone with
// the link". Keys are stored as file names inside the folder.
type DriveStore struct {
	files    *drive.Service
	folderID string
}

// NewDriveStore authenticates with a service-account credentials file.
func NewDriveStore(ctx context.Context, credentialsFile, folderID string) (*DriveStore, error) {
	if strings.TrimSpace(folderID) == "" {
		return nil, fmt.Errorf("drive folder id is required")
	}
	svc, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(drive.DriveFileScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &DriveStore{files: svc, folderID: folderID}, nil
}

// Put uploads body and opens it for public reading.
func (s *DriveStore) Put(ctx context.Context, key, contentType string, body io.Reader, _ int64) error {
	cleaned, err := cleanKey(key)
	if err != nil {
		return err
	}

	file := &drive.File{
		Name:     cleaned,
		MimeType: contentType,
		Parents:  []string{s.folderID},
	}
	created, err := s.files.Files.Create(file).
		Media(body).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("drive upload %s: %w", cleaned, err)
	}

	permission := &drive.Permission{Type: "anyone", Role: "reader"}
	if _, err := s.files.Permissions.Create(created.Id, permission).Context(ctx).Do(); err != nil {
		return fmt.Errorf("drive share %s: %w", cleaned, err)
	}
	return nil
}

// PublicURL looks the key up in the folder and returns its download link.
func (s *DriveStore) PublicURL(ctx context.Context, key string) (string, error) {
	id, err := s.lookup(ctx, key)
	if err != nil {
		return "", err
	}
	return "https://drive.google.com/uc?export=view&id=" + id, nil
}

func (s *DriveStore) lookup(ctx context.Context, key string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	query := fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false",
		escapeDriveQuery(cleaned), escapeDriveQuery(s.folderID))
	list, err := s.files.Files.List().
		Q(query).
		Fields("files(id)").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("drive lookup %s: %w", cleaned, err)
	}
	if len(list.Files) == 0 {
		return "", ErrNotFound
	}
	return list.Files[0].Id, nil
}

// List returns the names of every file in the folder.
func (s *DriveStore) List(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf("'%s' in parents and trashed = false", escapeDriveQuery(s.folderID))
	var keys []string
	err := s.files.Files.List().
		Q(query).
		Fields("nextPageToken, files(name)").
		PageSize(500).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				keys = append(keys, f.Name)
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("drive list: %w", err)
	}
	return keys, nil
}

func escapeDriveQuery(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, `'`, `\'`)
}
