package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/reelhouse/internal/db"
	"gorm.io/gorm"
)

type recycleFixture struct {
	itemType string
	id       uint
	title    string
	model    any
}

func seedRecycleFixtures(t *testing.T, gdb *gorm.DB) []recycleFixture {
	t.Helper()
	page := createTestPage(t, gdb, "events")
	section := createTestSection(t, gdb, page.ID, "hero", `{"heading":"Live"}`, 0)

	alt := "Crowd shot"
	asset := db.ImageAsset{SectionID: &section.ID, FilePath: "https://cdn.test/images/1-a.jpg", AltText: &alt}
	bare := db.ImageAsset{FilePath: "https://cdn.test/images/2-b.png?v=1"}
	item := db.PortfolioItem{Title: "Stage Cut", Category: CategoryEvent, Client: "Arena"}
	post := db.BlogPost{Title: "Tour Diary", Slug: "tour-diary", Excerpt: "Notes"}
	for _, row := range []any{&asset, &bare, &item, &post} {
		if err := gdb.Create(row).Error; err != nil {
			t.Fatalf("seed %T: %v", row, err)
		}
	}

	return []recycleFixture{
		{ItemTypePage, page.ID, "Events", &db.Page{}},
		{ItemTypeSection, section.ID, "hero", &db.Section{}},
		{ItemTypeImageAsset, asset.ID, "Crowd shot", &db.ImageAsset{}},
		{ItemTypeImageAsset, bare.ID, "2-b.png", &db.ImageAsset{}},
		{ItemTypePortfolioItem, item.ID, "Stage Cut", &db.PortfolioItem{}},
		{ItemTypeBlogPost, post.ID, "Tour Diary", &db.BlogPost{}},
	}
}

func findDeleted(items []DeletedItem, itemType string, id uint) (DeletedItem, bool) {
	for _, item := range items {
		if item.Type == itemType && item.ID == id {
			return item, true
		}
	}
	return DeletedItem{}, false
}

func countLive(t *testing.T, gdb *gorm.DB, model any, id uint) int64 {
	t.Helper()
	var n int64
	if err := gdb.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", model, err)
	}
	return n
}

func TestRecycleBinRoundTripForEveryType(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewRecycleBinService(gdb)
	ctx := context.Background()
	fixtures := seedRecycleFixtures(t, gdb)

	if items := svc.ListDeleted(ctx); len(items) != 0 {
		t.Fatalf("expected empty recycle bin, got %+v", items)
	}

	stamp := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, fx := range fixtures {
		if err := gdb.Model(fx.model).Where("id = ?", fx.id).UpdateColumn("updated_at", stamp).Error; err != nil {
			t.Fatalf("backdate %s %d: %v", fx.itemType, fx.id, err)
		}
		if err := gdb.Delete(fx.model, fx.id).Error; err != nil {
			t.Fatalf("soft delete %s %d: %v", fx.itemType, fx.id, err)
		}
	}

	items := svc.ListDeleted(ctx)
	if len(items) != len(fixtures) {
		t.Fatalf("expected %d deleted items, got %d", len(fixtures), len(items))
	}
	for _, fx := range fixtures {
		item, ok := findDeleted(items, fx.itemType, fx.id)
		if !ok {
			t.Fatalf("expected %s %d in recycle bin", fx.itemType, fx.id)
		}
		if item.Title != fx.title {
			t.Fatalf("expected title %q for %s, got %q", fx.title, fx.itemType, item.Title)
		}
		if item.DeletedAt.IsZero() {
			t.Fatalf("expected deletion time for %s", fx.itemType)
		}
		if countLive(t, gdb, fx.model, fx.id) != 0 {
			t.Fatalf("expected %s %d hidden from live queries", fx.itemType, fx.id)
		}
	}

	for _, fx := range fixtures {
		if err := svc.Restore(ctx, fx.id, fx.itemType); err != nil {
			t.Fatalf("restore %s %d: %v", fx.itemType, fx.id, err)
		}
		if countLive(t, gdb, fx.model, fx.id) != 1 {
			t.Fatalf("expected %s %d back in live queries", fx.itemType, fx.id)
		}
		var row struct{ UpdatedAt time.Time }
		if err := gdb.Model(fx.model).Select("updated_at").Where("id = ?", fx.id).Scan(&row).Error; err != nil {
			t.Fatalf("reload %s %d: %v", fx.itemType, fx.id, err)
		}
		if !row.UpdatedAt.Equal(stamp) {
			t.Fatalf("expected restore to keep updated_at for %s, before %s after %s", fx.itemType, stamp, row.UpdatedAt)
		}
	}
	if items := svc.ListDeleted(ctx); len(items) != 0 {
		t.Fatalf("expected recycle bin to be empty after restore, got %+v", items)
	}

	var post db.BlogPost
	if err := gdb.First(&post, fixtures[5].id).Error; err != nil {
		t.Fatalf("reload post: %v", err)
	}
	if post.Title != "Tour Diary" || post.Slug != "tour-diary" || post.Excerpt != "Notes" {
		t.Fatalf("expected restored post fields unchanged, got %+v", post)
	}
}

func TestRecycleBinPurgeRemovesPermanently(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewRecycleBinService(gdb)
	ctx := context.Background()
	fixtures := seedRecycleFixtures(t, gdb)

	for _, fx := range fixtures {
		if err := gdb.Delete(fx.model, fx.id).Error; err != nil {
			t.Fatalf("soft delete: %v", err)
		}
		if err := svc.Purge(ctx, fx.id, fx.itemType); err != nil {
			t.Fatalf("purge %s %d: %v", fx.itemType, fx.id, err)
		}

		var n int64
		gdb.Unscoped().Model(fx.model).Where("id = ?", fx.id).Count(&n)
		if n != 0 {
			t.Fatalf("expected %s %d to be gone, found %d rows", fx.itemType, fx.id, n)
		}
		if err := svc.Restore(ctx, fx.id, fx.itemType); !errors.Is(err, ErrRecycleItemNotFound) {
			t.Fatalf("expected restore after purge to fail with not found, got %v", err)
		}
	}
	if items := svc.ListDeleted(ctx); len(items) != 0 {
		t.Fatalf("expected nothing left, got %+v", items)
	}
}

func TestRecycleBinRejectsUnknownTypes(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewRecycleBinService(gdb)

	if err := svc.Restore(context.Background(), 1, "user"); !errors.Is(err, ErrUnknownItemType) {
		t.Fatalf("expected ErrUnknownItemType, got %v", err)
	}
	if err := svc.Purge(context.Background(), 1, "creator_application"); !errors.Is(err, ErrUnknownItemType) {
		t.Fatalf("expected ErrUnknownItemType, got %v", err)
	}
	if err := svc.Restore(context.Background(), 99, ItemTypePage); !errors.Is(err, ErrRecycleItemNotFound) {
		t.Fatalf("expected ErrRecycleItemNotFound, got %v", err)
	}
}

func TestRecycleBinListSortsNewestFirstAndDegradesPerTable(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewRecycleBinService(gdb)
	ctx := context.Background()

	page := createTestPage(t, gdb, "studios")
	post := db.BlogPost{Title: "Old news", Slug: "old-news"}
	item := db.PortfolioItem{Title: "Middle", Category: CategorySocial}
	gdb.Create(&post)
	gdb.Create(&item)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	gdb.Model(&db.BlogPost{}).Where("id = ?", post.ID).Update("deleted_at", base)
	gdb.Model(&db.PortfolioItem{}).Where("id = ?", item.ID).Update("deleted_at", base.Add(time.Hour))
	gdb.Model(&db.Page{}).Where("id = ?", page.ID).Update("deleted_at", base.Add(2*time.Hour))

	items := svc.ListDeleted(ctx)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %+v", items)
	}
	order := []string{items[0].Type, items[1].Type, items[2].Type}
	want := []string{ItemTypePage, ItemTypePortfolioItem, ItemTypeBlogPost}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}

	if err := gdb.Migrator().DropTable("portfolio_items"); err != nil {
		t.Fatalf("drop table: %v", err)
	}
	items = svc.ListDeleted(ctx)
	if len(items) != 2 {
		t.Fatalf("expected failing table to contribute nothing, got %+v", items)
	}
}

func TestDeletedPageReappearsAfterRestore(t *testing.T) {
	gdb := setupServiceTestDB(t)
	pages := NewPageService(gdb)
	bin := NewRecycleBinService(gdb)
	ctx := context.Background()

	page, err := pages.Create(PageInput{Title: "Contact", Slug: "contact"})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	if err := pages.Delete(page.ID); err != nil {
		t.Fatalf("delete page: %v", err)
	}

	item, ok := findDeleted(bin.ListDeleted(ctx), ItemTypePage, page.ID)
	if !ok || item.Type != "page" {
		t.Fatalf("expected page in recycle bin, got %+v", item)
	}

	if err := bin.Restore(ctx, page.ID, "page"); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if _, ok := findDeleted(bin.ListDeleted(ctx), ItemTypePage, page.ID); ok {
		t.Fatal("expected page to leave the recycle bin")
	}

	live, err := pages.List()
	if err != nil {
		t.Fatalf("list pages: %v", err)
	}
	if len(live) != 1 || live[0].ID != page.ID {
		t.Fatalf("expected restored page in public list, got %+v", live)
	}
}
