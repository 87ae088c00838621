package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/reelhouse/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "-", " ", "-").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s-%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(db.Models()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func createTestPage(t *testing.T, gdb *gorm.DB, slug string) *db.Page {
	t.Helper()
	page := db.Page{Title: strings.ToUpper(slug[:1]) + slug[1:], Slug: slug}
	if err := gdb.Create(&page).Error; err != nil {
		t.Fatalf("create page %s: %v", slug, err)
	}
	return &page
}

func createTestSection(t *testing.T, gdb *gorm.DB, pageID uint, name, raw string, order int) *db.Section {
	t.Helper()
	section := db.Section{PageID: pageID, Name: name, Content: []byte(raw), SortOrder: order}
	if err := gdb.Create(&section).Error; err != nil {
		t.Fatalf("create section %s: %v", name, err)
	}
	return &section
}
