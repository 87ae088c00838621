package db

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Section 是页面中可由后台编辑的内容块。
// Content 没有固定结构，字段含义由前台组件决定；(PageID, Name) 约定唯一但不强制。
type Section struct {
	gorm.Model
	PageID    uint           `gorm:"index;not null"`
	Name      string         `gorm:"size:120;not null"`
	Content   datatypes.JSON `gorm:"type:json"`
	SortOrder int            `gorm:"default:0"`
}
