package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reelhouse/internal/db"
	"github.com/reelhouse/internal/service"
)

type altTextPayload struct {
	AltText string `json:"altText"`
}

// ListSectionImages 返回区块关联的图片资源
func (a *API) ListSectionImages(c *gin.Context) {
	id, ok := idParam(c, "id", "section")
	if !ok {
		return
	}

	assets, err := a.images.ListBySection(&id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load images")
		return
	}

	views := make([]gin.H, 0, len(assets))
	for i := range assets {
		views = append(views, imageAssetView(&assets[i]))
	}
	c.JSON(http.StatusOK, gin.H{"images": views})
}

// UploadImageAsset 保存图片并记录元数据。
// 可选的 sectionId 表单字段会把图片挂到对应区块。
func (a *API) UploadImageAsset(c *gin.Context) {
	var sectionID *uint
	if raw := strings.TrimSpace(c.PostForm("sectionId")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || parsed == 0 {
			respondError(c, http.StatusBadRequest, "invalid section id")
			return
		}
		id := uint(parsed)
		if _, err := a.sections.Get(id); err != nil {
			respondSectionError(c, err, "failed to load section")
			return
		}
		sectionID = &id
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "file is required")
		return
	}

	profile, _ := service.LookupUploadProfile("image")
	result, ok := a.receiveUpload(c, file, profile)
	if !ok {
		return
	}

	width, height := probeDimensions(file)
	asset, err := a.images.Create(service.ImageAssetInput{
		SectionID: sectionID,
		FilePath:  result.URL,
		AltText:   c.PostForm("altText"),
		MimeType:  result.MimeType,
		SizeBytes: result.Size,
		Width:     width,
		Height:    height,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "file uploaded but the asset could not be recorded")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"upload": result, "image": imageAssetView(asset)})
}

// UpdateImageAltText 修改图片的替代文本
func (a *API) UpdateImageAltText(c *gin.Context) {
	id, ok := idParam(c, "id", "image")
	if !ok {
		return
	}

	var payload altTextPayload
	if !bindJSON(c, &payload, "invalid image payload") {
		return
	}

	asset, err := a.images.UpdateAltText(id, payload.AltText)
	if err != nil {
		respondImageError(c, err, "failed to update image")
		return
	}
	c.JSON(http.StatusOK, gin.H{"image": imageAssetView(asset)})
}

// DeleteImageAsset 将图片资源移入回收站，已存储的文件保留
func (a *API) DeleteImageAsset(c *gin.Context) {
	id, ok := idParam(c, "id", "image")
	if !ok {
		return
	}

	if err := a.images.Delete(id); err != nil {
		respondImageError(c, err, "failed to delete image")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "image moved to recycle bin"})
}

func respondImageError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, service.ErrImageAssetNotFound) {
		respondError(c, http.StatusNotFound, "image not found")
		return
	}
	respondError(c, http.StatusInternalServerError, fallback)
}

// probeDimensions 重新打开临时文件读取图片头，失败时返回 0
func probeDimensions(file *multipart.FileHeader) (int, int) {
	src, err := file.Open()
	if err != nil {
		return 0, 0
	}
	defer src.Close()

	width, height, ok := service.ImageDimensions(src)
	if !ok {
		return 0, 0
	}
	return width, height
}

func imageAssetView(asset *db.ImageAsset) gin.H {
	view := gin.H{
		"id":        asset.ID,
		"sectionId": asset.SectionID,
		"filePath":  asset.FilePath,
		"altText":   "",
		"mimeType":  asset.MimeType,
		"sizeBytes": asset.SizeBytes,
		"width":     asset.Width,
		"height":    asset.Height,
		"createdAt": asset.CreatedAt.Format(time.RFC3339),
	}
	if asset.AltText != nil {
		view["altText"] = *asset.AltText
	}
	return view
}
