package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/reelhouse/internal/content"
	"github.com/reelhouse/internal/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrSectionNotFound = errors.New("section not found")

// SectionService 为公开页面解析区块内容，并保存后台编辑器的记录
type SectionService struct {
	db    *gorm.DB
	cache SectionCache
}

// SectionInput 是创建或更新区块时接受的字段
type SectionInput struct {
	PageID    uint
	Name      string
	Content   content.Record
	SortOrder int
}

// Validate 校验区块字段
func (in SectionInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.PageID, validation.Required),
		validation.Field(&in.Name, validation.Required, validation.Length(1, 120)),
	)
}

// NewSectionService 创建 SectionService，cache 可以为 nil
func NewSectionService(gdb *gorm.DB, cache SectionCache) *SectionService {
	return &SectionService{db: gdb, cache: cache}
}

// Resolve 返回页面上指定区块的内容记录，永不报错：
// 页面或区块不存在、内容列格式错误以及后端错误都返回空记录，
// 页面因此渲染默认内容。
func (s *SectionService) Resolve(ctx context.Context, pageSlug, sectionName string) content.Record {
	key := sectionCacheKey(pageSlug, sectionName)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			return cached
		}
	}

	record, err := s.resolve(ctx, pageSlug, sectionName)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[resolver] %s/%s: %v", pageSlug, sectionName, err)
		}
		return content.Record{}
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, record)
	}
	return record
}

func (s *SectionService) resolve(ctx context.Context, pageSlug, sectionName string) (content.Record, error) {
	tx := s.db.WithContext(ctx)

	var page db.Page
	if err := tx.Where("slug = ?", pageSlug).Order("id asc").First(&page).Error; err != nil {
		return nil, err
	}

	var section db.Section
	if err := tx.Where("page_id = ? AND name = ?", page.ID, sectionName).
		Order("sort_order asc").
		Order("id asc").
		First(&section).Error; err != nil {
		return nil, err
	}

	return content.Parse(section.Content), nil
}

// ResolveAll 按展示顺序返回页面的有效区块，任何失败都返回空列表
func (s *SectionService) ResolveAll(ctx context.Context, pageSlug string) []db.Section {
	tx := s.db.WithContext(ctx)

	var page db.Page
	if err := tx.Where("slug = ?", pageSlug).Order("id asc").First(&page).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[resolver] %s: %v", pageSlug, err)
		}
		return []db.Section{}
	}

	var sections []db.Section
	if err := tx.Where("page_id = ?", page.ID).
		Order("sort_order asc").
		Order("id asc").
		Find(&sections).Error; err != nil {
		log.Printf("[resolver] %s sections: %v", pageSlug, err)
		return []db.Section{}
	}
	return sections
}

// ListByPage 返回后台使用的页面区块。
// 与 ResolveAll 不同，错误会返回给调用方。
func (s *SectionService) ListByPage(pageID uint) ([]db.Section, error) {
	var sections []db.Section
	if err := s.db.Where("page_id = ?", pageID).
		Order("sort_order asc").
		Order("id asc").
		Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

// Get 按 id 获取有效区块
func (s *SectionService) Get(id uint) (*db.Section, error) {
	var section db.Section
	if err := s.db.First(&section, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	return &section, nil
}

// Create 在有效页面上插入新区块
func (s *SectionService) Create(input SectionInput) (*db.Section, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensurePage(input.PageID); err != nil {
		return nil, err
	}

	raw, err := input.Content.Marshal()
	if err != nil {
		return nil, fmt.Errorf("encode section content: %w", err)
	}

	section := db.Section{
		PageID:    input.PageID,
		Name:      input.Name,
		Content:   datatypes.JSON(raw),
		SortOrder: input.SortOrder,
	}
	if err := s.db.Create(&section).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

// Update 修改区块名称、排序与内容
func (s *SectionService) Update(id uint, input SectionInput) (*db.Section, error) {
	section, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.PageID == 0 {
		input.PageID = section.PageID
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.PageID != section.PageID {
		if err := s.ensurePage(input.PageID); err != nil {
			return nil, err
		}
	}

	raw, err := input.Content.Marshal()
	if err != nil {
		return nil, fmt.Errorf("encode section content: %w", err)
	}

	section.PageID = input.PageID
	section.Name = input.Name
	section.SortOrder = input.SortOrder
	section.Content = datatypes.JSON(raw)
	if err := s.db.Save(section).Error; err != nil {
		return nil, err
	}
	return section, nil
}

// Save 整体覆盖区块内容记录，不做版本检查，
// 最后一次保存生效。
func (s *SectionService) Save(id uint, record content.Record) (*db.Section, error) {
	section, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	raw, err := record.Marshal()
	if err != nil {
		return nil, fmt.Errorf("encode section content: %w", err)
	}

	section.Content = datatypes.JSON(raw)
	if err := s.db.Model(section).Update("content", section.Content).Error; err != nil {
		return nil, err
	}
	return section, nil
}

// SetField 走编辑器路径写入单个字段：
// 读取已存记录，替换该字段后整条保存。
func (s *SectionService) SetField(id uint, key string, value any) (*db.Section, error) {
	section, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	state := content.NewEditorState(content.Parse(section.Content))
	state.Set(key, value)
	return s.Save(id, state.Record)
}

// Delete 软删除区块
func (s *SectionService) Delete(id uint) error {
	result := s.db.Delete(&db.Section{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSectionNotFound
	}
	return nil
}

func (s *SectionService) ensurePage(pageID uint) error {
	var count int64
	if err := s.db.Model(&db.Page{}).Where("id = ?", pageID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrPageNotFound
	}
	return nil
}
