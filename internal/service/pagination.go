package service

import "gorm.io/gorm"

const maxPerPage = 100

// pageWindow 是规范化后的页码与每页条数
type pageWindow struct {
	Page    int
	PerPage int
}

func newPageWindow(page, perPage, fallback int) pageWindow {
	w := pageWindow{Page: max(page, 1), PerPage: perPage}
	switch {
	case w.PerPage <= 0:
		w.PerPage = fallback
	case w.PerPage > maxPerPage:
		w.PerPage = maxPerPage
	}
	return w
}

func (w pageWindow) offset() int {
	return (w.Page - 1) * w.PerPage
}

// scope 用于 gorm 的 Scopes，追加 LIMIT/OFFSET
func (w pageWindow) scope(tx *gorm.DB) *gorm.DB {
	return tx.Limit(w.PerPage).Offset(w.offset())
}

// totalPages 至少为 1，空列表也展示一页
func (w pageWindow) totalPages(total int64) int {
	if total <= 0 || w.PerPage <= 0 {
		return 1
	}
	per := int64(w.PerPage)
	return int((total + per - 1) / per)
}
