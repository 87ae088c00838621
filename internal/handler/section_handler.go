package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reelhouse/internal/content"
	"github.com/reelhouse/internal/db"
	"github.com/reelhouse/internal/service"
)

type sectionPayload struct {
	PageID     uint           `json:"pageId"`
	Name       string         `json:"name"`
	SortOrder  *int           `json:"sortOrder"`
	Content    map[string]any `json:"content"`
	RawContent *string        `json:"rawContent"`
}

// pageSlugParam 与保存页面时一致：去空白并转小写
func pageSlugParam(c *gin.Context) string {
	return strings.ToLower(strings.TrimSpace(c.Param("slug")))
}

// ResolveSection 返回单个区块的内容与合并默认值后的渲染结果，永不报错
func (a *API) ResolveSection(c *gin.Context) {
	slug := pageSlugParam(c)
	name := c.Param("name")

	record := a.sections.Resolve(c.Request.Context(), slug, name)
	c.JSON(http.StatusOK, gin.H{
		"page":     slug,
		"section":  name,
		"content":  record,
		"rendered": content.Merge(record, content.Defaults(slug, name)),
	})
}

// ListPageSections 按展示顺序返回页面的有效区块
func (a *API) ListPageSections(c *gin.Context) {
	sections := a.sections.ResolveAll(c.Request.Context(), pageSlugParam(c))
	c.JSON(http.StatusOK, gin.H{"sections": sectionListPayload(sections, false)})
}

// ShowPageView 按默认区块顺序合并内容，附加没有默认值的自定义区块；
// isPublished 为 false 的区块不输出。
func (a *API) ShowPageView(c *gin.Context) {
	slug := pageSlugParam(c)
	ctx := c.Request.Context()

	defaults := content.DefaultSections(slug)
	seen := make(map[string]struct{}, len(defaults))
	view := make([]gin.H, 0, len(defaults))

	for _, d := range defaults {
		seen[d.Name] = struct{}{}
		rendered := content.Merge(a.sections.Resolve(ctx, slug, d.Name), d.Content)
		if !rendered.Bool(content.PublishedKey, true) {
			continue
		}
		view = append(view, gin.H{"name": d.Name, "content": rendered})
	}

	for _, section := range a.sections.ResolveAll(ctx, slug) {
		if _, ok := seen[section.Name]; ok {
			continue
		}
		seen[section.Name] = struct{}{}
		record := content.Parse(section.Content)
		if !record.Bool(content.PublishedKey, true) {
			continue
		}
		view = append(view, gin.H{"name": section.Name, "content": record})
	}

	c.JSON(http.StatusOK, gin.H{"page": slug, "sections": view})
}

// ListSectionsForPage 列出页面区块及推断出的模板
func (a *API) ListSectionsForPage(c *gin.Context) {
	pageID, ok := idParam(c, "id", "page")
	if !ok {
		return
	}
	if _, err := a.pages.Get(pageID); err != nil {
		respondSectionError(c, err, "failed to load page")
		return
	}

	sections, err := a.sections.ListByPage(pageID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load sections")
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": sectionListPayload(sections, true)})
}

// GetSection 返回区块的编辑器状态
func (a *API) GetSection(c *gin.Context) {
	id, ok := idParam(c, "id", "section")
	if !ok {
		return
	}

	section, err := a.sections.Get(id)
	if err != nil {
		respondSectionError(c, err, "failed to load section")
		return
	}

	state := content.NewEditorState(content.Parse(section.Content))
	c.JSON(http.StatusOK, gin.H{
		"section":  sectionView(section, true),
		"template": content.TemplateFor(section.Name),
		"state":    state.Record,
		"raw":      state.RawJSON(),
	})
}

// CreateSection 为页面添加区块
func (a *API) CreateSection(c *gin.Context) {
	var payload sectionPayload
	if !bindJSON(c, &payload, "invalid section payload") {
		return
	}

	state := content.NewEditorState(content.Record(payload.Content))
	if payload.RawContent != nil {
		state.ApplyRawJSON(*payload.RawContent)
	}

	sortOrder := 0
	if payload.SortOrder != nil {
		sortOrder = *payload.SortOrder
	}

	section, err := a.sections.Create(service.SectionInput{
		PageID:    payload.PageID,
		Name:      payload.Name,
		Content:   state.Record,
		SortOrder: sortOrder,
	})
	if err != nil {
		respondSectionError(c, err, "failed to create section")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"section": sectionView(section, true)})
}

// UpdateSection 保存编辑器状态，整条内容记录一起写入；
// rawContent 无法解析时忽略，保留之前的状态。
func (a *API) UpdateSection(c *gin.Context) {
	id, ok := idParam(c, "id", "section")
	if !ok {
		return
	}

	var payload sectionPayload
	if !bindJSON(c, &payload, "invalid section payload") {
		return
	}

	existing, err := a.sections.Get(id)
	if err != nil {
		respondSectionError(c, err, "failed to load section")
		return
	}

	state := content.NewEditorState(content.Parse(existing.Content))
	if payload.Content != nil {
		state = content.NewEditorState(content.Record(payload.Content))
	}
	rawApplied := false
	if payload.RawContent != nil {
		rawApplied = state.ApplyRawJSON(*payload.RawContent)
	}

	input := service.SectionInput{
		PageID:    payload.PageID,
		Name:      payload.Name,
		Content:   state.Record,
		SortOrder: existing.SortOrder,
	}
	if strings.TrimSpace(input.Name) == "" {
		input.Name = existing.Name
	}
	if payload.SortOrder != nil {
		input.SortOrder = *payload.SortOrder
	}

	section, err := a.sections.Update(id, input)
	if err != nil {
		respondSectionError(c, err, "failed to save section")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"section":    sectionView(section, true),
		"rawApplied": rawApplied,
	})
}

// DeleteSection 将区块移入回收站
func (a *API) DeleteSection(c *gin.Context) {
	id, ok := idParam(c, "id", "section")
	if !ok {
		return
	}
	if err := a.sections.Delete(id); err != nil {
		respondSectionError(c, err, "failed to delete section")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "section moved to recycle bin"})
}

// UploadSectionMedia 为单个内容字段上传文件并把地址写回区块。
// 字段在模板中的类型决定使用哪个上传配置。
func (a *API) UploadSectionMedia(c *gin.Context) {
	id, ok := idParam(c, "id", "section")
	if !ok {
		return
	}

	key := strings.TrimSpace(c.PostForm("field"))
	if key == "" {
		respondError(c, http.StatusBadRequest, "field is required")
		return
	}

	section, err := a.sections.Get(id)
	if err != nil {
		respondSectionError(c, err, "failed to load section")
		return
	}

	kind := parseMediaKind(c.PostForm("kind"))
	if field, ok := content.TemplateFor(section.Name).Field(key); ok {
		switch field.Kind {
		case content.FieldImage:
			kind = service.MediaImage
		case content.FieldVideo:
			kind = service.MediaVideo
		}
	}
	profile, _ := profileForKind("section", kind)

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "file is required")
		return
	}

	result, ok := a.receiveUpload(c, file, profile)
	if !ok {
		return
	}

	updated, err := a.sections.SetField(id, key, result.URL)
	if err != nil {
		respondSectionError(c, err, "file uploaded but the section could not be updated")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"upload":  result,
		"section": sectionView(updated, true),
	})
}

// ShowTemplate 预览区块名称推断出的模板
func (a *API) ShowTemplate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"template": content.TemplateFor(c.Param("name"))})
}

func respondSectionError(c *gin.Context, err error, fallback string) {
	switch {
	case respondInputError(c, err, "invalid section fields"):
	case errors.Is(err, service.ErrSectionNotFound):
		respondError(c, http.StatusNotFound, "section not found")
	case errors.Is(err, service.ErrPageNotFound):
		respondError(c, http.StatusNotFound, "page not found")
	default:
		respondError(c, http.StatusInternalServerError, fallback)
	}
}

func sectionListPayload(sections []db.Section, admin bool) []gin.H {
	items := make([]gin.H, 0, len(sections))
	for i := range sections {
		items = append(items, sectionView(&sections[i], admin))
	}
	return items
}

func sectionView(section *db.Section, admin bool) gin.H {
	view := gin.H{
		"id":        section.ID,
		"pageId":    section.PageID,
		"name":      section.Name,
		"content":   content.Parse(section.Content),
		"sortOrder": section.SortOrder,
		"updatedAt": section.UpdatedAt.Format(time.RFC3339),
	}
	if admin {
		view["template"] = content.TemplateFor(section.Name).Key
		view["is_deleted"] = section.DeletedAt.Valid
	}
	return view
}
