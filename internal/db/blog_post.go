package db

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BlogPost 定义博客文章模型
// PublishedAt 记录最近一次发布时间，取消发布时不会清空。
type BlogPost struct {
	gorm.Model
	Title       string `gorm:"not null"`
	Slug        string `gorm:"size:191;index;not null"`
	Excerpt     string `gorm:"type:text"`
	Content     string `gorm:"type:text"`
	CoverImage  string
	Tags        datatypes.JSONSlice[string] `gorm:"type:json"`
	IsPublished bool                        `gorm:"default:false;index"`
	PublishedAt *time.Time
}
