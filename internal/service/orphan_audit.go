package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/reelhouse/internal/db"
	"github.com/reelhouse/internal/storage"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// OrphanReport 列出没有任何内容引用的存储文件
type OrphanReport struct {
	Scanned int      `json:"scanned"`
	Orphans []string `json:"orphans"`
}

// OrphanAudit 比对存储中的文件与内容引用的地址。
// 上传失败不回滚，孤儿文件在预期之内，审计只报告不删除。
type OrphanAudit struct {
	db    *gorm.DB
	store storage.Store
}

// NewOrphanAudit 创建 OrphanAudit 实例
func NewOrphanAudit(gdb *gorm.DB, store storage.Store) *OrphanAudit {
	return &OrphanAudit{db: gdb, store: store}
}

// Run 执行一次审计，无法列出文件的存储返回空报告
func (a *OrphanAudit) Run(ctx context.Context) (OrphanReport, error) {
	report := OrphanReport{Orphans: []string{}}

	lister, ok := a.store.(storage.Lister)
	if !ok {
		return report, nil
	}
	keys, err := lister.List(ctx)
	if err != nil {
		return report, err
	}
	report.Scanned = len(keys)

	refs, err := a.referencedURLs(ctx)
	if err != nil {
		return report, err
	}

	for _, key := range keys {
		if referenced(refs, key) {
			continue
		}
		if url, err := a.store.PublicURL(ctx, key); err == nil {
			if _, ok := refs[url]; ok {
				continue
			}
		}
		report.Orphans = append(report.Orphans, key)
	}
	return report, nil
}

// Schedule 按 cron 表达式注册审计并启动调度器，
// 表达式为空时不启用并返回 nil。
func (a *OrphanAudit) Schedule(spec string) (*cron.Cron, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		report, err := a.Run(context.Background())
		if err != nil {
			log.Printf("[orphan-audit] failed: %v", err)
			return
		}
		log.Printf("[orphan-audit] scanned %d blobs, %d orphaned", report.Scanned, len(report.Orphans))
		for _, key := range report.Orphans {
			log.Printf("[orphan-audit] orphan: %s", key)
		}
	}); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

// 已删除（回收站中）的内容仍视为引用，恢复后不会丢图
func (a *OrphanAudit) referencedURLs(ctx context.Context) (map[string]struct{}, error) {
	refs := make(map[string]struct{})
	add := func(v string) {
		if v = strings.TrimSpace(v); v != "" {
			refs[v] = struct{}{}
		}
	}
	tx := a.db.WithContext(ctx).Unscoped()

	var sections []db.Section
	if err := tx.Select("id", "content").Find(&sections).Error; err != nil {
		return nil, err
	}
	for _, s := range sections {
		var decoded any
		if err := json.Unmarshal(s.Content, &decoded); err == nil {
			collectStrings(decoded, add)
		}
	}

	var items []db.PortfolioItem
	if err := tx.Select("id", "thumbnail_image", "video_url").Find(&items).Error; err != nil {
		return nil, err
	}
	for _, item := range items {
		add(item.ThumbnailImage)
		add(item.VideoURL)
	}

	var posts []db.BlogPost
	if err := tx.Select("id", "cover_image", "content").Find(&posts).Error; err != nil {
		return nil, err
	}
	for _, post := range posts {
		add(post.CoverImage)
		for _, field := range strings.FieldsFunc(post.Content, func(r rune) bool {
			return r == '(' || r == ')' || r == '"' || r == ' ' || r == '\n'
		}) {
			if strings.Contains(field, "/") {
				add(field)
			}
		}
	}

	var assets []db.ImageAsset
	if err := tx.Select("id", "file_path").Find(&assets).Error; err != nil {
		return nil, err
	}
	for _, asset := range assets {
		add(asset.FilePath)
	}

	var apps []db.CreatorApplication
	if err := tx.Select("id", "file_urls").Find(&apps).Error; err != nil {
		return nil, err
	}
	for _, app := range apps {
		for _, url := range app.FileURLs {
			add(url)
		}
	}

	return refs, nil
}

func collectStrings(v any, add func(string)) {
	switch t := v.(type) {
	case string:
		add(t)
	case []any:
		for _, item := range t {
			collectStrings(item, add)
		}
	case map[string]any:
		for _, item := range t {
			collectStrings(item, add)
		}
	}
}

func referenced(refs map[string]struct{}, key string) bool {
	for ref := range refs {
		if strings.HasSuffix(ref, "/"+key) || ref == key {
			return true
		}
	}
	return false
}
