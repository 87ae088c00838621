package service

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/reelhouse/internal/db"
	"gorm.io/gorm"
)

var ErrPortfolioNotFound = errors.New("portfolio item not found")

// 作品分类
const (
	CategoryCommercial  = "commercial"
	CategoryMusicVideo  = "music-video"
	CategoryDocumentary = "documentary"
	CategoryBrandFilm   = "brand-film"
	CategoryEvent       = "event"
	CategoryPodcast     = "podcast"
	CategorySocial      = "social"
)

// PortfolioCategories 按展示顺序列出可用分类
func PortfolioCategories() []string {
	return []string{
		CategoryCommercial,
		CategoryMusicVideo,
		CategoryDocumentary,
		CategoryBrandFilm,
		CategoryEvent,
		CategoryPodcast,
		CategorySocial,
	}
}

// PortfolioService 处理作品的增删改查
type PortfolioService struct {
	db *gorm.DB
}

// PortfolioFilter 描述作品列表的过滤条件
type PortfolioFilter struct {
	Search   string
	Category string
	Featured *bool
	Page     int
	PerPage  int
}

// PortfolioListResult 汇总分页后的作品结果
type PortfolioListResult struct {
	Items      []db.PortfolioItem
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// PortfolioInput 是创建或更新作品时接受的字段
type PortfolioInput struct {
	Title          string
	Category       string
	Description    string
	ThumbnailImage string
	VideoURL       string
	Client         string
	IsFeatured     bool
	SortOrder      int
}

// Validate 校验作品字段
func (in PortfolioInput) Validate() error {
	categories := make([]any, 0, len(PortfolioCategories()))
	for _, c := range PortfolioCategories() {
		categories = append(categories, c)
	}
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Category, validation.Required, validation.In(categories...)),
		validation.Field(&in.VideoURL, is.URL),
	)
}

// NewPortfolioService 创建 PortfolioService 实例
func NewPortfolioService(gdb *gorm.DB) *PortfolioService {
	return &PortfolioService{db: gdb}
}

// List 返回符合条件的作品，精选在前
func (s *PortfolioService) List(filter PortfolioFilter) (PortfolioListResult, error) {
	window := newPageWindow(filter.Page, filter.PerPage, 24)
	result := PortfolioListResult{Page: window.Page, PerPage: window.PerPage}

	query := s.db.Model(&db.PortfolioItem{})
	if category := strings.ToLower(strings.TrimSpace(filter.Category)); category != "" {
		query = query.Where("category = ?", category)
	}
	if filter.Featured != nil {
		query = query.Where("is_featured = ?", *filter.Featured)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR client LIKE ? OR description LIKE ?", like, like, like)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}

	result.TotalPages = window.totalPages(result.Total)

	if err := query.Order("is_featured desc").
		Order("sort_order asc").
		Order("created_at desc").
		Scopes(window.scope).
		Find(&result.Items).Error; err != nil {
		return result, err
	}

	return result, nil
}

// Get 按 id 获取作品
func (s *PortfolioService) Get(id uint) (*db.PortfolioItem, error) {
	var item db.PortfolioItem
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPortfolioNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create 插入新作品，排序值为 0 时追加到末尾
func (s *PortfolioService) Create(input PortfolioInput) (*db.PortfolioItem, error) {
	input = normalizePortfolioInput(input)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	sortOrder := input.SortOrder
	if sortOrder == 0 {
		order, err := s.nextSortOrder()
		if err != nil {
			return nil, err
		}
		sortOrder = order
	}

	item := db.PortfolioItem{
		Title:          input.Title,
		Category:       input.Category,
		Description:    input.Description,
		ThumbnailImage: input.ThumbnailImage,
		VideoURL:       input.VideoURL,
		Client:         input.Client,
		IsFeatured:     input.IsFeatured,
		SortOrder:      sortOrder,
	}

	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Update 修改已有作品
func (s *PortfolioService) Update(id uint, input PortfolioInput) (*db.PortfolioItem, error) {
	input = normalizePortfolioInput(input)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	item.Title = input.Title
	item.Category = input.Category
	item.Description = input.Description
	item.ThumbnailImage = input.ThumbnailImage
	item.VideoURL = input.VideoURL
	item.Client = input.Client
	item.IsFeatured = input.IsFeatured
	item.SortOrder = input.SortOrder

	if err := s.db.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// SetFeatured 切换精选标记
func (s *PortfolioService) SetFeatured(id uint, featured bool) (*db.PortfolioItem, error) {
	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(item).Update("is_featured", featured).Error; err != nil {
		return nil, err
	}
	item.IsFeatured = featured
	return item, nil
}

// SetMedia 将上传地址写入缩略图或视频字段
func (s *PortfolioService) SetMedia(id uint, kind MediaKind, url string) (*db.PortfolioItem, error) {
	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	column := "thumbnail_image"
	if kind == MediaVideo {
		column = "video_url"
	}
	if err := s.db.Model(item).Update(column, url).Error; err != nil {
		return nil, err
	}
	if kind == MediaVideo {
		item.VideoURL = url
	} else {
		item.ThumbnailImage = url
	}
	return item, nil
}

// Delete 软删除作品
func (s *PortfolioService) Delete(id uint) error {
	result := s.db.Delete(&db.PortfolioItem{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPortfolioNotFound
	}
	return nil
}

func normalizePortfolioInput(input PortfolioInput) PortfolioInput {
	input.Title = strings.TrimSpace(input.Title)
	input.Category = strings.ToLower(strings.TrimSpace(input.Category))
	input.Description = strings.TrimSpace(input.Description)
	input.ThumbnailImage = strings.TrimSpace(input.ThumbnailImage)
	input.VideoURL = strings.TrimSpace(input.VideoURL)
	input.Client = strings.TrimSpace(input.Client)
	return input
}

func (s *PortfolioService) nextSortOrder() (int, error) {
	var maxOrder int
	if err := s.db.Model(&db.PortfolioItem{}).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&maxOrder).Error; err != nil {
		return 0, err
	}
	return maxOrder + 1, nil
}
