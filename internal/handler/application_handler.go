package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reelhouse/internal/db"
	"github.com/reelhouse/internal/service"
)

const maxApplicationFiles = 5

// SubmitApplication 接收创作者申请表单，附件逐个走 application 上传配置
func (a *API) SubmitApplication(c *gin.Context) {
	input := service.ApplicationInput{
		Name:          strings.TrimSpace(c.PostForm("name")),
		Email:         strings.TrimSpace(c.PostForm("email")),
		Role:          strings.TrimSpace(c.PostForm("role")),
		Location:      strings.TrimSpace(c.PostForm("location")),
		PortfolioLink: strings.TrimSpace(c.PostForm("portfolioLink")),
		Experience:    strings.TrimSpace(c.PostForm("experience")),
	}
	// 先校验字段，避免为无效申请上传附件
	if err := input.Validate(); err != nil {
		if !respondInputError(c, err, "invalid application fields") {
			respondError(c, http.StatusBadRequest, "invalid application")
		}
		return
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		files := form.File["files"]
		if len(files) > maxApplicationFiles {
			respondError(c, http.StatusBadRequest, "too many files")
			return
		}
		profile, _ := service.LookupUploadProfile("application")
		for _, file := range files {
			result, ok := a.receiveUpload(c, file, profile)
			if !ok {
				return
			}
			input.FileURLs = append(input.FileURLs, result.URL)
		}
	}

	app, err := a.applications.Submit(c.Request.Context(), input)
	if err != nil {
		if !respondInputError(c, err, "invalid application fields") {
			respondError(c, http.StatusInternalServerError, "failed to submit application")
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"application": applicationView(app)})
}

// ListApplications 返回已提交的创作者申请供后台查看
func (a *API) ListApplications(c *gin.Context) {
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	perPage := parsePositiveInt(c.DefaultQuery("perPage", "20"), 20)

	apps, total, err := a.applications.List(page, perPage)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load applications")
		return
	}

	views := make([]gin.H, 0, len(apps))
	for i := range apps {
		views = append(views, applicationView(&apps[i]))
	}
	c.JSON(http.StatusOK, gin.H{"applications": views, "total": total, "page": page})
}

func applicationView(app *db.CreatorApplication) gin.H {
	files := []string(app.FileURLs)
	if files == nil {
		files = []string{}
	}
	return gin.H{
		"id":            app.ID,
		"name":          app.Name,
		"email":         app.Email,
		"role":          app.Role,
		"location":      app.Location,
		"portfolioLink": app.PortfolioLink,
		"experience":    app.Experience,
		"files":         files,
		"createdAt":     app.CreatedAt.Format(time.RFC3339),
	}
}
