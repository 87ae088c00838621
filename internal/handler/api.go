package handler

import (
	"net/http"

	"github.com/reelhouse/internal/service"
	"github.com/reelhouse/internal/storage"
	"gorm.io/gorm"
)

// API 汇总 HTTP 处理器共享的依赖
type API struct {
	db           *gorm.DB
	pages        *service.PageService
	sections     *service.SectionService
	portfolio    *service.PortfolioService
	blog         *service.BlogService
	images       *service.ImageAssetService
	recycle      *service.RecycleBinService
	uploads      *service.UploadService
	applications *service.ApplicationService
	contact      *service.ContactService
	audit        *service.OrphanAudit
}

// Options 保存随运行环境变化的协作者
type Options struct {
	Store        storage.Store
	SectionCache service.SectionCache
	Notifier     service.Notifier
	FormRelayURL string
	HTTPClient   *http.Client
}

// NewAPI 使用共享服务构造处理器集合
func NewAPI(db *gorm.DB, opts Options) *API {
	store := opts.Store
	if store == nil {
		store = storage.NewMemoryStore("")
	}

	return &API{
		db:           db,
		pages:        service.NewPageService(db),
		sections:     service.NewSectionService(db, opts.SectionCache),
		portfolio:    service.NewPortfolioService(db),
		blog:         service.NewBlogService(db),
		images:       service.NewImageAssetService(db),
		recycle:      service.NewRecycleBinService(db),
		uploads:      service.NewUploadService(store),
		applications: service.NewApplicationService(db, opts.Notifier),
		contact:      service.NewContactService(opts.FormRelayURL, opts.HTTPClient),
		audit:        service.NewOrphanAudit(db, store),
	}
}

// DB 暴露底层 gorm 实例，供脚本与健康检查使用
func (a *API) DB() *gorm.DB {
	return a.db
}

// OrphanAudit 暴露审计任务，便于服务启动时注册定时执行
func (a *API) OrphanAudit() *service.OrphanAudit {
	return a.audit
}
