package db

import "gorm.io/gorm"

// PortfolioItem 定义作品集条目
type PortfolioItem struct {
	gorm.Model
	Title          string `gorm:"not null"`
	Category       string `gorm:"size:50;index"`
	Description    string `gorm:"type:text"`
	ThumbnailImage string
	VideoURL       string
	Client         string
	IsFeatured     bool `gorm:"default:false"`
	SortOrder      int  `gorm:"default:0"`
}
