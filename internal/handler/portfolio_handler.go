package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reelhouse/internal/service"
)

type portfolioPayload struct {
	Title          string `json:"title"`
	Category       string `json:"category"`
	Description    string `json:"description"`
	ThumbnailImage string `json:"thumbnailImage"`
	VideoURL       string `json:"videoUrl"`
	Client         string `json:"client"`
	IsFeatured     bool   `json:"isFeatured"`
	SortOrder      int    `json:"sortOrder"`
}

func (p portfolioPayload) toInput() service.PortfolioInput {
	return service.PortfolioInput{
		Title:          p.Title,
		Category:       p.Category,
		Description:    p.Description,
		ThumbnailImage: p.ThumbnailImage,
		VideoURL:       p.VideoURL,
		Client:         p.Client,
		IsFeatured:     p.IsFeatured,
		SortOrder:      p.SortOrder,
	}
}

type featuredPayload struct {
	Featured bool `json:"featured"`
}

// ListPortfolioItems 返回后台作品列表
func (a *API) ListPortfolioItems(c *gin.Context) {
	result, err := a.portfolio.List(service.PortfolioFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Page:     parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage:  parsePositiveInt(c.DefaultQuery("perPage", "50"), 50),
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load portfolio")
		return
	}

	items := make([]gin.H, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, portfolioView(&result.Items[i], true))
	}
	c.JSON(http.StatusOK, gin.H{
		"items":      items,
		"total":      result.Total,
		"page":       result.Page,
		"totalPages": result.TotalPages,
		"categories": service.PortfolioCategories(),
	})
}

// CreatePortfolioItem 创建新作品
func (a *API) CreatePortfolioItem(c *gin.Context) {
	var payload portfolioPayload
	if !bindJSON(c, &payload, "invalid portfolio payload") {
		return
	}

	item, err := a.portfolio.Create(payload.toInput())
	if err != nil {
		respondPortfolioError(c, err, "failed to create portfolio item")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": portfolioView(item, true)})
}

// UpdatePortfolioItem 更新已有作品
func (a *API) UpdatePortfolioItem(c *gin.Context) {
	id, ok := idParam(c, "id", "portfolio")
	if !ok {
		return
	}

	var payload portfolioPayload
	if !bindJSON(c, &payload, "invalid portfolio payload") {
		return
	}

	item, err := a.portfolio.Update(id, payload.toInput())
	if err != nil {
		respondPortfolioError(c, err, "failed to update portfolio item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": portfolioView(item, true)})
}

// SetPortfolioFeatured 切换精选标记
func (a *API) SetPortfolioFeatured(c *gin.Context) {
	id, ok := idParam(c, "id", "portfolio")
	if !ok {
		return
	}

	var payload featuredPayload
	if !bindJSON(c, &payload, "invalid featured payload") {
		return
	}

	item, err := a.portfolio.SetFeatured(id, payload.Featured)
	if err != nil {
		respondPortfolioError(c, err, "failed to update portfolio item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": portfolioView(item, true)})
}

// UploadPortfolioMedia 上传缩略图或视频并写回地址
func (a *API) UploadPortfolioMedia(c *gin.Context) {
	id, ok := idParam(c, "id", "portfolio")
	if !ok {
		return
	}
	if _, err := a.portfolio.Get(id); err != nil {
		respondPortfolioError(c, err, "failed to load portfolio item")
		return
	}

	kind := parseMediaKind(c.PostForm("kind"))
	profile, _ := profileForKind("portfolio", kind)

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "file is required")
		return
	}

	result, ok := a.receiveUpload(c, file, profile)
	if !ok {
		return
	}

	item, err := a.portfolio.SetMedia(id, kind, result.URL)
	if err != nil {
		respondPortfolioError(c, err, "file uploaded but the item could not be updated")
		return
	}
	c.JSON(http.StatusOK, gin.H{"upload": result, "item": portfolioView(item, true)})
}

// DeletePortfolioItem 将作品移入回收站
func (a *API) DeletePortfolioItem(c *gin.Context) {
	id, ok := idParam(c, "id", "portfolio")
	if !ok {
		return
	}

	if err := a.portfolio.Delete(id); err != nil {
		respondPortfolioError(c, err, "failed to delete portfolio item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "portfolio item moved to recycle bin"})
}

func respondPortfolioError(c *gin.Context, err error, fallback string) {
	switch {
	case respondInputError(c, err, "invalid portfolio fields"):
	case errors.Is(err, service.ErrPortfolioNotFound):
		respondError(c, http.StatusNotFound, "portfolio item not found")
	default:
		respondError(c, http.StatusInternalServerError, fallback)
	}
}
