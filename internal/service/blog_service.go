package service

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/reelhouse/internal/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrBlogPostNotFound = errors.New("blog post not found")
	ErrBlogSlugTaken    = errors.New("blog slug already in use")
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// BlogService 封装博客文章的数据库操作
type BlogService struct {
	db  *gorm.DB
	now func() time.Time
}

// BlogFilter 描述文章列表的过滤条件
type BlogFilter struct {
	Search    string
	Tag       string
	Published *bool
	Page      int
	PerPage   int
}

// BlogListResult 汇总分页数据与发布计数
type BlogListResult struct {
	Posts          []db.BlogPost
	Total          int64
	PublishedCount int64
	DraftCount     int64
	TotalPages     int
	Page           int
	PerPage        int
}

// BlogInput 是创建或更新文章时接受的字段
type BlogInput struct {
	Title      string
	Slug       string
	Excerpt    string
	Content    string
	CoverImage string
	Tags       []string
}

// Validate 校验文章字段
func (in BlogInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Slug, validation.Length(0, 191), validation.Match(slugPattern)),
		validation.Field(&in.Excerpt, validation.Length(0, 500)),
	)
}

// TagCount 记录标签及其已发布文章数量
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// NewBlogService 创建 BlogService 实例
func NewBlogService(gdb *gorm.DB) *BlogService {
	return &BlogService{db: gdb, now: time.Now}
}

// WithClock 替换写入 published_at 时使用的时钟
func (s *BlogService) WithClock(now func() time.Time) *BlogService {
	s.now = now
	return s
}

// List 分页返回文章，最新在前，并附带发布计数
func (s *BlogService) List(filter BlogFilter) (*BlogListResult, error) {
	window := newPageWindow(filter.Page, filter.PerPage, 10)
	result := &BlogListResult{Page: window.Page, PerPage: window.PerPage}

	if err := s.applyFilters(s.db.Model(&db.BlogPost{}), filter).Count(&result.Total).Error; err != nil {
		return nil, err
	}

	counterFilter := filter
	counterFilter.Published = nil
	if err := s.applyFilters(s.db.Model(&db.BlogPost{}), counterFilter).
		Where("is_published = ?", true).
		Count(&result.PublishedCount).Error; err != nil {
		return nil, err
	}
	if err := s.applyFilters(s.db.Model(&db.BlogPost{}), counterFilter).
		Where("is_published = ?", false).
		Count(&result.DraftCount).Error; err != nil {
		return nil, err
	}

	result.TotalPages = window.totalPages(result.Total)

	if err := s.applyFilters(s.db.Model(&db.BlogPost{}), filter).
		Order("COALESCE(published_at, created_at) desc").
		Order("id desc").
		Scopes(window.scope).
		Find(&result.Posts).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// ListPublished 只返回已发布文章
func (s *BlogService) ListPublished(tag string, page, perPage int) (*BlogListResult, error) {
	published := true
	return s.List(BlogFilter{Tag: tag, Published: &published, Page: page, PerPage: perPage})
}

// Get 按 id 获取文章
func (s *BlogService) Get(id uint) (*db.BlogPost, error) {
	var post db.BlogPost
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPublishedBySlug 获取前台展示的已发布文章
func (s *BlogService) GetPublishedBySlug(slug string) (*db.BlogPost, error) {
	var post db.BlogPost
	if err := s.db.Where("slug = ? AND is_published = ?", strings.TrimSpace(slug), true).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Create 保存草稿文章。slug 为空时由标题生成，
// 重复时追加序号直到唯一。
func (s *BlogService) Create(input BlogInput) (*db.BlogPost, error) {
	input = normalizeBlogInput(input)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	slug, err := s.resolveSlug(input, 0)
	if err != nil {
		return nil, err
	}

	post := db.BlogPost{
		Title:      input.Title,
		Slug:       slug,
		Excerpt:    input.Excerpt,
		Content:    input.Content,
		CoverImage: input.CoverImage,
		Tags:       datatypes.JSONSlice[string](input.Tags),
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Update 更新已有文章，发布状态不变
func (s *BlogService) Update(id uint, input BlogInput) (*db.BlogPost, error) {
	input = normalizeBlogInput(input)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Slug == "" {
		input.Slug = post.Slug
	}
	slug, err := s.resolveSlug(input, post.ID)
	if err != nil {
		return nil, err
	}

	post.Title = input.Title
	post.Slug = slug
	post.Excerpt = input.Excerpt
	post.Content = input.Content
	post.CoverImage = input.CoverImage
	post.Tags = datatypes.JSONSlice[string](input.Tags)

	if err := s.db.Save(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// SetPublished 切换发布状态。每次转为发布时写入 published_at，
// 取消发布时不清空。
func (s *BlogService) SetPublished(id uint, published bool) (*db.BlogPost, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"is_published": published}
	if published && !post.IsPublished {
		now := s.now()
		updates["published_at"] = now
		post.PublishedAt = &now
	}

	if err := s.db.Model(&db.BlogPost{}).Where("id = ?", post.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	post.IsPublished = published
	return post, nil
}

// SetCover 写入上传后的封面地址
func (s *BlogService) SetCover(id uint, url string) (*db.BlogPost, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(post).Update("cover_image", url).Error; err != nil {
		return nil, err
	}
	post.CoverImage = url
	return post, nil
}

// Delete 软删除文章
func (s *BlogService) Delete(id uint) error {
	result := s.db.Delete(&db.BlogPost{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBlogPostNotFound
	}
	return nil
}

// TagCounts 统计已发布文章中的标签
func (s *BlogService) TagCounts() ([]TagCount, error) {
	var posts []db.BlogPost
	if err := s.db.Select("id", "tags").Where("is_published = ?", true).Find(&posts).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, post := range posts {
		for _, tag := range post.Tags {
			counts[tag]++
		}
	}

	result := make([]TagCount, 0, len(counts))
	for name, count := range counts {
		result = append(result, TagCount{Name: name, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// ReadingTime 按每分钟约 200 词估算阅读时长
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	minutes := (words + 199) / 200
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// Slugify 将标题转小写，并用短横线连接字母数字片段
func Slugify(title string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 180 {
		slug = strings.TrimRight(slug[:180], "-")
	}
	return slug
}

func (s *BlogService) resolveSlug(input BlogInput, selfID uint) (string, error) {
	explicit := input.Slug != ""
	base := input.Slug
	if !explicit {
		base = Slugify(input.Title)
	}
	if base == "" {
		base = "post"
	}

	candidate := base
	for n := 2; ; n++ {
		taken, err := s.slugTaken(candidate, selfID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		if explicit {
			return "", ErrBlogSlugTaken
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

// 回收站中的文章也占用 slug，恢复时不会冲突
func (s *BlogService) slugTaken(slug string, selfID uint) (bool, error) {
	var count int64
	query := s.db.Unscoped().Model(&db.BlogPost{}).Where("slug = ?", slug)
	if selfID != 0 {
		query = query.Where("id <> ?", selfID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *BlogService) applyFilters(query *gorm.DB, filter BlogFilter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("(title LIKE ? OR excerpt LIKE ? OR content LIKE ?)", like, like, like)
	}
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		query = query.Where("CAST(tags AS TEXT) LIKE ?", `%"`+tag+`"%`)
	}
	if filter.Published != nil {
		query = query.Where("is_published = ?", *filter.Published)
	}
	return query
}

func normalizeBlogInput(input BlogInput) BlogInput {
	input.Title = strings.TrimSpace(input.Title)
	input.Slug = strings.ToLower(strings.TrimSpace(input.Slug))
	input.Excerpt = strings.TrimSpace(input.Excerpt)
	input.CoverImage = strings.TrimSpace(input.CoverImage)

	seen := make(map[string]struct{}, len(input.Tags))
	tags := make([]string, 0, len(input.Tags))
	for _, tag := range input.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	input.Tags = tags
	return input
}
