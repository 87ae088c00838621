package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reelhouse/internal/db"
	"github.com/reelhouse/internal/service"
)

type blogPayload struct {
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Excerpt    string   `json:"excerpt"`
	Content    string   `json:"content"`
	CoverImage string   `json:"coverImage"`
	Tags       []string `json:"tags"`
}

func (p blogPayload) toInput() service.BlogInput {
	return service.BlogInput{
		Title:      p.Title,
		Slug:       p.Slug,
		Excerpt:    p.Excerpt,
		Content:    p.Content,
		CoverImage: p.CoverImage,
		Tags:       p.Tags,
	}
}

type publishPayload struct {
	Published bool `json:"published"`
}

// ListBlogPosts 返回后台文章列表及发布计数
func (a *API) ListBlogPosts(c *gin.Context) {
	result, err := a.blog.List(service.BlogFilter{
		Search:    c.Query("search"),
		Tag:       c.Query("tag"),
		Published: parseOptionalBool(c.Query("published")),
		Page:      parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage:   parsePositiveInt(c.DefaultQuery("perPage", "20"), 20),
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load posts")
		return
	}

	posts := make([]gin.H, 0, len(result.Posts))
	for i := range result.Posts {
		posts = append(posts, blogAdminView(&result.Posts[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"posts":          posts,
		"total":          result.Total,
		"publishedCount": result.PublishedCount,
		"draftCount":     result.DraftCount,
		"page":           result.Page,
		"totalPages":     result.TotalPages,
	})
}

// GetBlogPost 返回单篇文章及渲染后的预览
func (a *API) GetBlogPost(c *gin.Context) {
	id, ok := idParam(c, "id", "post")
	if !ok {
		return
	}

	post, err := a.blog.Get(id)
	if err != nil {
		respondBlogError(c, err, "failed to load post")
		return
	}

	view := blogAdminView(post)
	if preview, err := renderMarkdown(post.Content); err == nil {
		view["html"] = string(preview)
	}
	c.JSON(http.StatusOK, gin.H{"post": view})
}

// CreateBlogPost 创建草稿文章
func (a *API) CreateBlogPost(c *gin.Context) {
	var payload blogPayload
	if !bindJSON(c, &payload, "invalid post payload") {
		return
	}

	post, err := a.blog.Create(payload.toInput())
	if err != nil {
		respondBlogError(c, err, "failed to create post")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": blogAdminView(post)})
}

// UpdateBlogPost 编辑文章，不改变发布状态
func (a *API) UpdateBlogPost(c *gin.Context) {
	id, ok := idParam(c, "id", "post")
	if !ok {
		return
	}

	var payload blogPayload
	if !bindJSON(c, &payload, "invalid post payload") {
		return
	}

	post, err := a.blog.Update(id, payload.toInput())
	if err != nil {
		respondBlogError(c, err, "failed to update post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": blogAdminView(post)})
}

// SetBlogPublished 切换发布状态
func (a *API) SetBlogPublished(c *gin.Context) {
	id, ok := idParam(c, "id", "post")
	if !ok {
		return
	}

	var payload publishPayload
	if !bindJSON(c, &payload, "invalid publish payload") {
		return
	}

	post, err := a.blog.SetPublished(id, payload.Published)
	if err != nil {
		respondBlogError(c, err, "failed to update publication")
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": blogAdminView(post)})
}

// UploadBlogCover 上传封面图并写回文章
func (a *API) UploadBlogCover(c *gin.Context) {
	id, ok := idParam(c, "id", "post")
	if !ok {
		return
	}
	if _, err := a.blog.Get(id); err != nil {
		respondBlogError(c, err, "failed to load post")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "file is required")
		return
	}

	profile, _ := service.LookupUploadProfile("blog-image")
	result, ok := a.receiveUpload(c, file, profile)
	if !ok {
		return
	}

	post, err := a.blog.SetCover(id, result.URL)
	if err != nil {
		respondBlogError(c, err, "file uploaded but the post could not be updated")
		return
	}
	c.JSON(http.StatusOK, gin.H{"upload": result, "post": blogAdminView(post)})
}

// DeleteBlogPost 将文章移入回收站
func (a *API) DeleteBlogPost(c *gin.Context) {
	id, ok := idParam(c, "id", "post")
	if !ok {
		return
	}

	if err := a.blog.Delete(id); err != nil {
		respondBlogError(c, err, "failed to delete post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post moved to recycle bin"})
}

func respondBlogError(c *gin.Context, err error, fallback string) {
	switch {
	case respondInputError(c, err, "invalid post fields"):
	case errors.Is(err, service.ErrBlogPostNotFound):
		respondError(c, http.StatusNotFound, "post not found")
	case errors.Is(err, service.ErrBlogSlugTaken):
		respondError(c, http.StatusConflict, "slug already in use")
	default:
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

func blogAdminView(post *db.BlogPost) gin.H {
	view := blogSummaryView(post)
	view["content"] = post.Content
	view["isPublished"] = post.IsPublished
	view["is_deleted"] = post.DeletedAt.Valid
	view["updatedAt"] = post.UpdatedAt.Format(time.RFC3339)
	return view
}
