package db

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreatorApplication 由公开申请表单写入，供后台查看
type CreatorApplication struct {
	gorm.Model
	Name          string `gorm:"not null"`
	Email         string `gorm:"not null"`
	Role          string
	Location      string
	PortfolioLink string
	Experience    string                      `gorm:"type:text"`
	FileURLs      datatypes.JSONSlice[string] `gorm:"type:json"`
}
