package service

import (
	"errors"
	"strings"

	"github.com/reelhouse/internal/db"
	"gorm.io/gorm"
)

var ErrImageAssetNotFound = errors.New("image asset not found")

// ImageAssetService 记录已上传的图片
type ImageAssetService struct {
	db *gorm.DB
}

// ImageAssetInput 是上传成功后写入的元数据
type ImageAssetInput struct {
	SectionID *uint
	FilePath  string
	AltText   string
	MimeType  string
	SizeBytes int64
	Width     int
	Height    int
}

// NewImageAssetService 创建 ImageAssetService 实例
func NewImageAssetService(gdb *gorm.DB) *ImageAssetService {
	return &ImageAssetService{db: gdb}
}

// ListBySection 返回区块下的有效图片，最新在前。
// section 为 nil 时列出未关联区块的图片。
func (s *ImageAssetService) ListBySection(sectionID *uint) ([]db.ImageAsset, error) {
	query := s.db.Model(&db.ImageAsset{})
	if sectionID == nil {
		query = query.Where("section_id IS NULL")
	} else {
		query = query.Where("section_id = ?", *sectionID)
	}

	var assets []db.ImageAsset
	if err := query.Order("created_at desc").Order("id desc").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// Get 按 id 获取图片资源
func (s *ImageAssetService) Get(id uint) (*db.ImageAsset, error) {
	var asset db.ImageAsset
	if err := s.db.First(&asset, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageAssetNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// Create 为上传的图片插入记录
func (s *ImageAssetService) Create(input ImageAssetInput) (*db.ImageAsset, error) {
	asset := db.ImageAsset{
		SectionID: input.SectionID,
		FilePath:  strings.TrimSpace(input.FilePath),
		AltText:   optionalString(input.AltText),
		MimeType:  input.MimeType,
		SizeBytes: input.SizeBytes,
		Width:     input.Width,
		Height:    input.Height,
	}
	if err := s.db.Create(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// UpdateAltText 设置或清空替代文本
func (s *ImageAssetService) UpdateAltText(id uint, alt string) (*db.ImageAsset, error) {
	asset, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	asset.AltText = optionalString(alt)
	if err := s.db.Model(asset).Update("alt_text", asset.AltText).Error; err != nil {
		return nil, err
	}
	return asset, nil
}

// Delete 软删除图片资源，已存储的文件保留
func (s *ImageAssetService) Delete(id uint) error {
	result := s.db.Delete(&db.ImageAsset{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrImageAssetNotFound
	}
	return nil
}

func optionalString(v string) *string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
