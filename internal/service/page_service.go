package service

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/reelhouse/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPageNotFound  = errors.New("page not found")
	ErrPageSlugTaken = errors.New("page slug already in use")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// PageService 提供站点页面的访问
type PageService struct {
	db *gorm.DB
}

// PageInput 是创建或更新页面时接受的字段
type PageInput struct {
	Title   string
	Slug    string
	Summary string
}

// Validate 校验页面字段
func (in PageInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Slug, validation.Required, validation.Length(1, 120), validation.Match(slugPattern)),
	)
}

// NewPageService 返回新的 PageService 实例
func NewPageService(gdb *gorm.DB) *PageService {
	return &PageService{db: gdb}
}

// List 按标题返回有效页面
func (s *PageService) List() ([]db.Page, error) {
	var pages []db.Page
	if err := s.db.Order("title asc").Order("id asc").Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

// Get 按 id 获取有效页面
func (s *PageService) Get(id uint) (*db.Page, error) {
	var page db.Page
	if err := s.db.First(&page, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &page, nil
}

// GetBySlug 按 slug 获取有效页面
func (s *PageService) GetBySlug(slug string) (*db.Page, error) {
	var page db.Page
	if err := s.db.Where("slug = ?", strings.TrimSpace(slug)).Order("id asc").First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &page, nil
}

// Create 插入新页面
func (s *PageService) Create(input PageInput) (*db.Page, error) {
	input = normalizePageInput(input)
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(input.Slug, 0); err != nil {
		return nil, err
	}

	page := db.Page{Title: input.Title, Slug: input.Slug, Summary: input.Summary}
	if err := s.db.Create(&page).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

// Update 修改已有页面。区块通过 id 引用页面，
// 修改 slug 只会改变公开地址。
func (s *PageService) Update(id uint, input PageInput) (*db.Page, error) {
	input = normalizePageInput(input)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	page, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(input.Slug, id); err != nil {
		return nil, err
	}

	page.Title = input.Title
	page.Slug = input.Slug
	page.Summary = input.Summary
	if err := s.db.Save(page).Error; err != nil {
		return nil, err
	}
	return page, nil
}

// Delete 软删除页面，可从回收站恢复
func (s *PageService) Delete(id uint) error {
	result := s.db.Delete(&db.Page{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPageNotFound
	}
	return nil
}

func (s *PageService) ensureSlugFree(slug string, excludeID uint) error {
	var count int64
	query := s.db.Model(&db.Page{}).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrPageSlugTaken
	}
	return nil
}

func normalizePageInput(input PageInput) PageInput {
	return PageInput{
		Title:   strings.TrimSpace(input.Title),
		Slug:    strings.ToLower(strings.TrimSpace(input.Slug)),
		Summary: strings.TrimSpace(input.Summary),
	}
}
