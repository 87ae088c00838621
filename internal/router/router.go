package router

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/reelhouse/internal/handler"
)

const sessionName = "reelhouse_session"

// Options 描述路由层需要的环境参数
type Options struct {
	SessionSecret  string
	AllowedOrigins []string
	// UploadDir 非空时以 UploadURLPath 提供本地上传文件
	UploadDir     string
	UploadURLPath string
	SecureCookies bool
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// 配置会话中间件
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
		Secure:   opts.SecureCookies,
	})
	r.Use(sessions.Sessions(sessionName, store))

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 静态文件服务
	if opts.UploadDir != "" {
		urlPath := "/" + strings.Trim(opts.UploadURLPath, "/")
		if urlPath == "/" {
			urlPath = "/uploads"
		}
		r.Static(urlPath, opts.UploadDir)
	}

	r.GET("/healthz", api.HealthCheck)

	// 公开接口，读路径失败时降级为默认内容
	public := r.Group("/api")
	{
		public.GET("/pages", api.ListPublicPages)
		public.GET("/pages/:slug/sections", api.ListPageSections)
		public.GET("/pages/:slug/sections/:name", api.ResolveSection)
		public.GET("/pages/:slug/view", api.ShowPageView)
		public.GET("/portfolio", api.ListPublicPortfolio)
		public.GET("/blog", api.ListPublicBlog)
		public.GET("/blog/:slug", api.ShowPublicBlogPost)
		public.POST("/contact", api.SubmitContact)
		public.POST("/applications", api.SubmitApplication)
	}

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.GET("/login", handler.ShowLoginPage)
		admin.POST("/login", api.Login)
		admin.GET("/logout", handler.Logout)

		// 需要认证的后台路由
		auth := admin.Group("")
		auth.Use(api.AuthRequired())
		{
			// API路由
			a := auth.Group("/api")
			{
				a.GET("/me", api.CurrentUser)
				a.GET("/upload-profiles", api.ListUploadProfiles)
				a.POST("/uploads", api.UploadFile)
				a.POST("/audit/orphans", api.RunOrphanAudit)

				a.GET("/pages", api.ListPages)
				a.POST("/pages", api.CreatePage)
				a.PUT("/pages/:id", api.UpdatePage)
				a.DELETE("/pages/:id", api.DeletePage)
				a.GET("/pages/:id/sections", api.ListSectionsForPage)

				a.POST("/sections", api.CreateSection)
				a.GET("/sections/:id", api.GetSection)
				a.PUT("/sections/:id", api.UpdateSection)
				a.DELETE("/sections/:id", api.DeleteSection)
				a.POST("/sections/:id/media", api.UploadSectionMedia)
				a.GET("/sections/:id/images", api.ListSectionImages)
				a.GET("/templates/:name", api.ShowTemplate)

				a.POST("/images", api.UploadImageAsset)
				a.PUT("/images/:id", api.UpdateImageAltText)
				a.DELETE("/images/:id", api.DeleteImageAsset)

				a.GET("/portfolio", api.ListPortfolioItems)
				a.POST("/portfolio", api.CreatePortfolioItem)
				a.PUT("/portfolio/:id", api.UpdatePortfolioItem)
				a.DELETE("/portfolio/:id", api.DeletePortfolioItem)
				a.POST("/portfolio/:id/featured", api.SetPortfolioFeatured)
				a.POST("/portfolio/:id/media", api.UploadPortfolioMedia)

				a.GET("/blog", api.ListBlogPosts)
				a.POST("/blog", api.CreateBlogPost)
				a.GET("/blog/:id", api.GetBlogPost)
				a.PUT("/blog/:id", api.UpdateBlogPost)
				a.DELETE("/blog/:id", api.DeleteBlogPost)
				a.POST("/blog/:id/publish", api.SetBlogPublished)
				a.POST("/blog/:id/cover", api.UploadBlogCover)

				a.GET("/recycle-bin", api.ListRecycleBin)
				a.POST("/recycle-bin/:type/:id/restore", api.RestoreRecycleItem)
				a.DELETE("/recycle-bin/:type/:id", api.PurgeRecycleItem)

				a.GET("/applications", api.ListApplications)
			}
		}
	}

	return r
}
