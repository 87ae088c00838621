package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reelhouse/internal/db"
	"github.com/reelhouse/internal/service"
)

type pagePayload struct {
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Summary string `json:"summary"`
}

func (p pagePayload) toInput() service.PageInput {
	return service.PageInput{Title: p.Title, Slug: p.Slug, Summary: p.Summary}
}

// ListPublicPages 返回所有未删除的页面
func (a *API) ListPublicPages(c *gin.Context) {
	pages, err := a.pages.List()
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusOK, gin.H{"pages": []gin.H{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pages": pageListPayload(pages)})
}

// ListPages 返回后台页面列表
func (a *API) ListPages(c *gin.Context) {
	pages, err := a.pages.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load pages")
		return
	}
	c.JSON(http.StatusOK, gin.H{"pages": pageListPayload(pages)})
}

// CreatePage 创建页面
func (a *API) CreatePage(c *gin.Context) {
	var payload pagePayload
	if !bindJSON(c, &payload, "invalid page payload") {
		return
	}

	page, err := a.pages.Create(payload.toInput())
	if err != nil {
		respondPageError(c, err, "failed to create page")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"page": pageView(page)})
}

// UpdatePage 更新标题、slug 与摘要
func (a *API) UpdatePage(c *gin.Context) {
	id, ok := idParam(c, "id", "page")
	if !ok {
		return
	}

	var payload pagePayload
	if !bindJSON(c, &payload, "invalid page payload") {
		return
	}

	page, err := a.pages.Update(id, payload.toInput())
	if err != nil {
		respondPageError(c, err, "failed to update page")
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": pageView(page)})
}

// DeletePage 将页面移入回收站
func (a *API) DeletePage(c *gin.Context) {
	id, ok := idParam(c, "id", "page")
	if !ok {
		return
	}

	if err := a.pages.Delete(id); err != nil {
		respondPageError(c, err, "failed to delete page")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "page moved to recycle bin"})
}

func respondPageError(c *gin.Context, err error, fallback string) {
	switch {
	case respondInputError(c, err, "invalid page fields"):
	case errors.Is(err, service.ErrPageNotFound):
		respondError(c, http.StatusNotFound, "page not found")
	case errors.Is(err, service.ErrPageSlugTaken):
		respondError(c, http.StatusConflict, "slug already in use")
	default:
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

func pageListPayload(pages []db.Page) []gin.H {
	items := make([]gin.H, 0, len(pages))
	for i := range pages {
		items = append(items, pageView(&pages[i]))
	}
	return items
}

func pageView(page *db.Page) gin.H {
	return gin.H{
		"id":         page.ID,
		"title":      page.Title,
		"slug":       page.Slug,
		"summary":    page.Summary,
		"is_deleted": page.DeletedAt.Valid,
		"createdAt":  page.CreatedAt.Format(time.RFC3339),
		"updatedAt":  page.UpdatedAt.Format(time.RFC3339),
	}
}
