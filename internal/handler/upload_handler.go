package handler

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/reelhouse/internal/service"
)

// UploadFile 通用上传入口，profile 表单字段决定类型白名单、大小上限和目录
func (a *API) UploadFile(c *gin.Context) {
	profile, ok := service.LookupUploadProfile(c.DefaultPostForm("profile", "image"))
	if !ok {
		respondError(c, http.StatusBadRequest, "unknown upload profile")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "file is required")
		return
	}

	result, ok := a.receiveUpload(c, file, profile)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"upload": result})
}

// ListUploadProfiles 向后台界面公开各调用点的上传限制
func (a *API) ListUploadProfiles(c *gin.Context) {
	profiles := make(map[string]gin.H, len(service.UploadProfiles))
	for name, p := range service.UploadProfiles {
		profiles[name] = gin.H{
			"kind":     p.Kind,
			"maxBytes": p.MaxBytes,
			"folder":   p.Folder,
			"accept":   service.AllowedTypes(p.Kind),
		}
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

// receiveUpload 让单个 multipart 文件走完上传流程。
// 失败时响应已写出，ok 为 false。
func (a *API) receiveUpload(c *gin.Context, file *multipart.FileHeader, profile service.UploadProfile) (*service.UploadResult, bool) {
	upload := service.UploadFile{
		Name:        file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
	}

	// 先校验再打开文件，拒绝时不触碰存储
	if err := a.uploads.Validate(profile, upload); err != nil {
		respondUploadError(c, err)
		return nil, false
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read upload")
		return nil, false
	}
	defer src.Close()
	upload.Body = src

	result, err := a.uploads.Upload(c.Request.Context(), profile, upload)
	if err != nil {
		respondUploadError(c, err)
		return nil, false
	}
	return result, true
}

func respondUploadError(c *gin.Context, err error) {
	var uerr *service.UploadError
	if errors.As(err, &uerr) {
		status := http.StatusBadRequest
		if uerr.Reason == service.ReasonTooLarge {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, gin.H{"error": uerr.Error(), "reason": uerr.Reason})
		return
	}
	log.Printf("[upload] %v", err)
	respondError(c, http.StatusBadGateway, "upload failed, please retry")
}

func profileForKind(prefix string, kind service.MediaKind) (service.UploadProfile, bool) {
	name := prefix + "-image"
	if kind == service.MediaVideo {
		name = prefix + "-video"
	}
	return service.LookupUploadProfile(name)
}

func parseMediaKind(raw string) service.MediaKind {
	if strings.EqualFold(strings.TrimSpace(raw), string(service.MediaVideo)) {
		return service.MediaVideo
	}
	return service.MediaImage
}
