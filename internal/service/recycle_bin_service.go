package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/reelhouse/internal/db"
	"gorm.io/gorm"
)

// 回收站支持的条目类型
const (
	ItemTypePage          = "page"
	ItemTypeSection       = "section"
	ItemTypeImageAsset    = "image_asset"
	ItemTypePortfolioItem = "portfolio_item"
	ItemTypeBlogPost      = "blog_post"
)

var (
	ErrUnknownItemType     = errors.New("unknown recycle bin item type")
	ErrRecycleItemNotFound = errors.New("recycle bin item not found")
)

// DeletedItem 是回收站统一列表中的一行
type DeletedItem struct {
	ID        uint      `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	DeletedAt time.Time `json:"deletedAt"`
}

type recycleKind struct {
	model func() any
	list  func(tx *gorm.DB) ([]DeletedItem, error)
}

var recycleKinds = map[string]recycleKind{
	ItemTypePage: {
		model: func() any { return &db.Page{} },
		list: func(tx *gorm.DB) ([]DeletedItem, error) {
			return deletedRows(tx, ItemTypePage, func(p *db.Page) (gorm.Model, string) {
				return p.Model, p.Title
			})
		},
	},
	ItemTypeSection: {
		model: func() any { return &db.Section{} },
		list: func(tx *gorm.DB) ([]DeletedItem, error) {
			return deletedRows(tx, ItemTypeSection, func(s *db.Section) (gorm.Model, string) {
				return s.Model, s.Name
			})
		},
	},
	ItemTypeImageAsset: {
		model: func() any { return &db.ImageAsset{} },
		list: func(tx *gorm.DB) ([]DeletedItem, error) {
			return deletedRows(tx, ItemTypeImageAsset, func(a *db.ImageAsset) (gorm.Model, string) {
				return a.Model, imageAssetTitle(a)
			})
		},
	},
	ItemTypePortfolioItem: {
		model: func() any { return &db.PortfolioItem{} },
		list: func(tx *gorm.DB) ([]DeletedItem, error) {
			return deletedRows(tx, ItemTypePortfolioItem, func(p *db.PortfolioItem) (gorm.Model, string) {
				return p.Model, p.Title
			})
		},
	},
	ItemTypeBlogPost: {
		model: func() any { return &db.BlogPost{} },
		list: func(tx *gorm.DB) ([]DeletedItem, error) {
			return deletedRows(tx, ItemTypeBlogPost, func(b *db.BlogPost) (gorm.Model, string) {
				return b.Model, b.Title
			})
		},
	},
}

// RecycleItemTypes 按列表顺序返回支持的类型
func RecycleItemTypes() []string {
	return []string{ItemTypePage, ItemTypeSection, ItemTypeImageAsset, ItemTypePortfolioItem, ItemTypeBlogPost}
}

// RecycleBinService 汇总各内容表中软删除的记录
type RecycleBinService struct {
	db *gorm.DB
}

// NewRecycleBinService 创建 RecycleBinService 实例
func NewRecycleBinService(gdb *gorm.DB) *RecycleBinService {
	return &RecycleBinService{db: gdb}
}

// ListDeleted 返回所有软删除记录，最近删除的在前。
// 某张表加载失败时记录日志，不影响其它表。
func (s *RecycleBinService) ListDeleted(ctx context.Context) []DeletedItem {
	items := make([]DeletedItem, 0)
	for _, itemType := range RecycleItemTypes() {
		rows, err := recycleKinds[itemType].list(s.db.WithContext(ctx))
		if err != nil {
			log.Printf("[recycle] list %s: %v", itemType, err)
			continue
		}
		items = append(items, rows...)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DeletedAt.After(items[j].DeletedAt)
	})
	return items
}

// Restore 只清除删除标记，updated_at 等字段保持原样
func (s *RecycleBinService) Restore(ctx context.Context, id uint, itemType string) error {
	kind, ok := recycleKinds[itemType]
	if !ok {
		return ErrUnknownItemType
	}

	result := s.db.WithContext(ctx).Unscoped().
		Model(kind.model()).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		UpdateColumn("deleted_at", nil)
	if result.Error != nil {
		return fmt.Errorf("restore %s %d: %w", itemType, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecycleItemNotFound
	}
	return nil
}

// Purge 永久删除记录，确认由调用方负责
func (s *RecycleBinService) Purge(ctx context.Context, id uint, itemType string) error {
	kind, ok := recycleKinds[itemType]
	if !ok {
		return ErrUnknownItemType
	}

	result := s.db.WithContext(ctx).Unscoped().Delete(kind.model(), id)
	if result.Error != nil {
		return fmt.Errorf("purge %s %d: %w", itemType, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecycleItemNotFound
	}
	return nil
}

func deletedRows[T any](tx *gorm.DB, itemType string, describe func(*T) (gorm.Model, string)) ([]DeletedItem, error) {
	var rows []T
	if err := tx.Unscoped().Where("deleted_at IS NOT NULL").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]DeletedItem, 0, len(rows))
	for i := range rows {
		model, title := describe(&rows[i])
		items = append(items, DeletedItem{
			ID:        model.ID,
			Type:      itemType,
			Title:     title,
			DeletedAt: model.DeletedAt.Time,
		})
	}
	return items, nil
}

func imageAssetTitle(a *db.ImageAsset) string {
	if a.AltText != nil && strings.TrimSpace(*a.AltText) != "" {
		return *a.AltText
	}
	p := a.FilePath
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return path.Base(p)
}
