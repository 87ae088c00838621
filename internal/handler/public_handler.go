package handler

import (
	"bytes"
	"errors"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reelhouse/internal/db"
	"github.com/reelhouse/internal/service"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table, videoEmbedExtension{}),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML(), html.WithUnsafe()),
	)
	sanitizer = buildContentSanitizer()
)

// 公开接口读路径失败时返回空列表，页面继续使用默认内容

// ListPublicPortfolio 返回作品列表，精选在前，可按分类过滤
func (a *API) ListPublicPortfolio(c *gin.Context) {
	filter := service.PortfolioFilter{
		Category: c.Query("category"),
		Featured: parseOptionalBool(c.Query("featured")),
		Page:     parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage:  parsePositiveInt(c.DefaultQuery("perPage", "24"), 24),
	}

	result, err := a.portfolio.List(filter)
	if err != nil {
		log.Printf("[public] portfolio: %v", err)
		c.JSON(http.StatusOK, gin.H{"items": []gin.H{}, "categories": service.PortfolioCategories()})
		return
	}

	items := make([]gin.H, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, portfolioView(&result.Items[i], false))
	}
	c.JSON(http.StatusOK, gin.H{
		"items":      items,
		"categories": service.PortfolioCategories(),
		"page":       result.Page,
		"totalPages": result.TotalPages,
		"total":      result.Total,
	})
}

// ListPublicBlog 按时间倒序返回已发布文章
func (a *API) ListPublicBlog(c *gin.Context) {
	tag := c.Query("tag")
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	perPage := parsePositiveInt(c.DefaultQuery("perPage", "9"), 9)

	result, err := a.blog.ListPublished(tag, page, perPage)
	if err != nil {
		log.Printf("[public] blog list: %v", err)
		c.JSON(http.StatusOK, gin.H{"posts": []gin.H{}, "tags": []service.TagCount{}})
		return
	}

	tags, err := a.blog.TagCounts()
	if err != nil {
		log.Printf("[public] blog tags: %v", err)
		tags = []service.TagCount{}
	}

	posts := make([]gin.H, 0, len(result.Posts))
	for i := range result.Posts {
		posts = append(posts, blogSummaryView(&result.Posts[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"posts":      posts,
		"tags":       tags,
		"page":       result.Page,
		"totalPages": result.TotalPages,
		"hasMore":    result.Page < result.TotalPages,
	})
}

// ShowPublicBlogPost 将已发布文章的 Markdown 渲染为净化后的 HTML
func (a *API) ShowPublicBlogPost(c *gin.Context) {
	post, err := a.blog.GetPublishedBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrBlogPostNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load post")
		return
	}

	htmlContent, err := renderMarkdown(post.Content)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to render post")
		return
	}

	view := blogSummaryView(post)
	view["html"] = string(htmlContent)
	c.JSON(http.StatusOK, gin.H{"post": view})
}

func renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	safe := sanitizer.SanitizeBytes(buf.Bytes())
	return template.HTML(safe), nil
}

func blogSummaryView(post *db.BlogPost) gin.H {
	tags := []string(post.Tags)
	if tags == nil {
		tags = []string{}
	}
	view := gin.H{
		"id":          post.ID,
		"title":       post.Title,
		"slug":        post.Slug,
		"excerpt":     post.Excerpt,
		"coverImage":  post.CoverImage,
		"tags":        tags,
		"readingTime": service.ReadingTime(post.Content),
		"createdAt":   post.CreatedAt.Format(time.RFC3339),
	}
	if post.PublishedAt != nil {
		view["publishedAt"] = post.PublishedAt.Format(time.RFC3339)
	} else {
		view["publishedAt"] = nil
	}
	return view
}

func portfolioView(item *db.PortfolioItem, admin bool) gin.H {
	view := gin.H{
		"id":             item.ID,
		"title":          item.Title,
		"category":       item.Category,
		"description":    item.Description,
		"thumbnailImage": item.ThumbnailImage,
		"videoUrl":       item.VideoURL,
		"client":         item.Client,
		"isFeatured":     item.IsFeatured,
		"sortOrder":      item.SortOrder,
		"embed":          nil,
	}
	if embed, ok := parseVideoEmbed(item.VideoURL); ok {
		view["embed"] = embed
	}
	if admin {
		view["is_deleted"] = item.DeletedAt.Valid
		view["createdAt"] = item.CreatedAt.Format(time.RFC3339)
	}
	return view
}
