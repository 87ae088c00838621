package db

import "gorm.io/gorm"

// Page 表示首页、服务页等公开营销页面。
// slug 仅按约定在有效记录中唯一，软删除的页面保留原 slug。
type Page struct {
	gorm.Model
	Title   string `gorm:"not null"`
	Slug    string `gorm:"index;not null"`
	Summary string `gorm:"type:text"`
}

const (
	PageSlugHome      = "home"
	PageSlugAbout     = "about"
	PageSlugServices  = "services"
	PageSlugPortfolio = "portfolio"
	PageSlugEvents    = "events"
	PageSlugStudios   = "studios"
	PageSlugContact   = "contact"
	PageSlugBlog      = "blog"
)

// AllPageSlugs 返回公开站点渲染的页面 slug
func AllPageSlugs() []string {
	return []string{
		PageSlugHome,
		PageSlugAbout,
		PageSlugServices,
		PageSlugPortfolio,
		PageSlugEvents,
		PageSlugStudios,
		PageSlugContact,
		PageSlugBlog,
	}
}
