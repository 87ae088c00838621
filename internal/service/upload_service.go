package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/reelhouse/internal/storage"
)

// MediaKind 决定上传配置使用的 MIME 白名单
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
	MediaBoth  MediaKind = "both"
)

const megabyte = 1 << 20

// 上传被拒绝的原因
const (
	ReasonInvalidType = "invalid-type"
	ReasonTooLarge    = "too-large"
)

var (
	imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/svg+xml", "image/avif"}
	videoTypes = []string{"video/mp4", "video/webm", "video/quicktime", "video/x-m4v"}
)

// AllowedTypes 返回媒体类型对应的 MIME 白名单
func AllowedTypes(kind MediaKind) []string {
	switch kind {
	case MediaImage:
		return append([]string(nil), imageTypes...)
	case MediaVideo:
		return append([]string(nil), videoTypes...)
	case MediaBoth:
		return append(append([]string(nil), imageTypes...), videoTypes...)
	default:
		return nil
	}
}

// UploadProfile 把调用点绑定到媒体类型、大小上限与目录
type UploadProfile struct {
	Name     string    `json:"name"`
	Kind     MediaKind `json:"kind"`
	MaxBytes int64     `json:"maxBytes"`
	Folder   string    `json:"folder"`
}

// UploadProfiles 每个上传入口各自的限制
var UploadProfiles = map[string]UploadProfile{
	"image":           {Name: "image", Kind: MediaImage, MaxBytes: 5 * megabyte, Folder: "images"},
	"section-image":   {Name: "section-image", Kind: MediaImage, MaxBytes: 10 * megabyte, Folder: "sections"},
	"section-video":   {Name: "section-video", Kind: MediaVideo, MaxBytes: 50 * megabyte, Folder: "sections"},
	"portfolio-image": {Name: "portfolio-image", Kind: MediaImage, MaxBytes: 5 * megabyte, Folder: "portfolio"},
	"portfolio-video": {Name: "portfolio-video", Kind: MediaVideo, MaxBytes: 100 * megabyte, Folder: "portfolio"},
	"blog-image":      {Name: "blog-image", Kind: MediaImage, MaxBytes: 5 * megabyte, Folder: "blog"},
	"application":     {Name: "application", Kind: MediaBoth, MaxBytes: 50 * megabyte, Folder: "applications"},
	"legacy-video":    {Name: "legacy-video", Kind: MediaVideo, MaxBytes: 100 * megabyte, Folder: "videos"},
}

// LookupUploadProfile 按名称查找上传配置
func LookupUploadProfile(name string) (UploadProfile, bool) {
	p, ok := UploadProfiles[strings.TrimSpace(name)]
	return p, ok
}

// UploadError 表示校验拒绝，此时尚未调用存储
type UploadError struct {
	Reason   string
	MimeType string
	Size     int64
	MaxBytes int64
}

func (e *UploadError) Error() string {
	switch e.Reason {
	case ReasonTooLarge:
		return fmt.Sprintf("file is too large: %d bytes exceeds %d", e.Size, e.MaxBytes)
	case ReasonInvalidType:
		return fmt.Sprintf("file type %q is not allowed", e.MimeType)
	default:
		return "upload rejected: " + e.Reason
	}
}

// UploadFile 描述一个待上传文件
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadResult 在文件写入存储后返回
type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// UploadService 校验文件并写入对象存储
type UploadService struct {
	store storage.Store
	now   func() time.Time
	rand  func() string
}

// NewUploadService 基于 store 创建 UploadService
func NewUploadService(store storage.Store) *UploadService {
	return &UploadService{
		store: store,
		now:   time.Now,
		rand: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		},
	}
}

// Validate 先按配置白名单检查声明的类型，
// 再检查大小是否超过上限。
func (s *UploadService) Validate(profile UploadProfile, file UploadFile) error {
	mimeType := detectMimeType(file)
	if !isAllowed(profile.Kind, mimeType) {
		return &UploadError{Reason: ReasonInvalidType, MimeType: mimeType, Size: file.Size, MaxBytes: profile.MaxBytes}
	}
	if file.Size > profile.MaxBytes {
		return &UploadError{Reason: ReasonTooLarge, MimeType: mimeType, Size: file.Size, MaxBytes: profile.MaxBytes}
	}
	return nil
}

// Upload 校验文件后以 {folder}/{millis}-{random}.{ext} 写入存储并返回公开地址，
// 写入失败不回滚。
func (s *UploadService) Upload(ctx context.Context, profile UploadProfile, file UploadFile) (*UploadResult, error) {
	if err := s.Validate(profile, file); err != nil {
		return nil, err
	}

	mimeType := detectMimeType(file)
	key := s.objectKey(profile.Folder, file.Name, mimeType)

	if err := s.store.Put(ctx, key, mimeType, file.Body, file.Size); err != nil {
		return nil, fmt.Errorf("store %s: %w", key, err)
	}

	url, err := s.store.PublicURL(ctx, key)
	if err != nil {
		log.Printf("[upload] stored %s but could not resolve url: %v", key, err)
		return nil, fmt.Errorf("resolve url for %s: %w", key, err)
	}

	return &UploadResult{URL: url, Key: key, MimeType: mimeType, Size: file.Size}, nil
}

func (s *UploadService) objectKey(folder, filename, mimeType string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	if ext == "" {
		ext = extensionFor(mimeType)
	}
	name := fmt.Sprintf("%d-%s.%s", s.now().UnixMilli(), s.rand(), ext)
	if folder == "" {
		return name
	}
	return strings.Trim(folder, "/") + "/" + name
}

func detectMimeType(file UploadFile) string {
	declared := file.ContentType
	if declared != "" {
		if parsed, _, err := mime.ParseMediaType(declared); err == nil {
			return strings.ToLower(parsed)
		}
		return strings.ToLower(strings.TrimSpace(declared))
	}
	if byExt := mime.TypeByExtension(strings.ToLower(path.Ext(file.Name))); byExt != "" {
		if parsed, _, err := mime.ParseMediaType(byExt); err == nil {
			return parsed
		}
	}
	return ""
}

func isAllowed(kind MediaKind, mimeType string) bool {
	for _, t := range AllowedTypes(kind) {
		if t == mimeType {
			return true
		}
	}
	return false
}

var preferredExtensions = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/gif":       "gif",
	"image/webp":      "webp",
	"image/svg+xml":   "svg",
	"image/avif":      "avif",
	"video/mp4":       "mp4",
	"video/webm":      "webm",
	"video/quicktime": "mov",
	"video/x-m4v":     "m4v",
}

func extensionFor(mimeType string) string {
	if ext, ok := preferredExtensions[mimeType]; ok {
		return ext
	}
	return "bin"
}
