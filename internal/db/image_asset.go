package db

import "gorm.io/gorm"

// ImageAsset 记录上传到对象存储的图片，可选关联某个 Section
type ImageAsset struct {
	gorm.Model
	SectionID *uint `gorm:"index"`
	FilePath  string `gorm:"not null"`
	AltText   *string
	MimeType  string `gorm:"size:100"`
	SizeBytes int64
	Width     int
	Height    int
}
