package main

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/reelhouse/internal/config"
	"github.com/reelhouse/internal/content"
	"github.com/reelhouse/internal/db"
	"github.com/reelhouse/internal/service"
	"gorm.io/gorm"
)

// 演示数据生成器：为每个页面写入默认区块，并补充几条作品与文章。
// 已存在的页面和区块会跳过，可以重复执行。
func main() {
	cfg := config.Load()
	gdb, err := db.Init(cfg.DatabaseDriver, cfg.DSN())
	if err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成演示数据...")
	stats, err := seed(gdb)
	if err != nil {
		log.Fatal("生成失败:", err)
	}
	fmt.Printf("完成：页面 %d，区块 %d，作品 %d，文章 %d\n", stats.pages, stats.sections, stats.portfolio, stats.posts)
}

type seedStats struct {
	pages     int
	sections  int
	portfolio int
	posts     int
}

func seed(gdb *gorm.DB) (seedStats, error) {
	var stats seedStats
	pages := service.NewPageService(gdb)
	sections := service.NewSectionService(gdb, nil)

	for _, slug := range content.DefaultPageSlugs() {
		page, err := pages.GetBySlug(slug)
		if errors.Is(err, service.ErrPageNotFound) {
			page, err = pages.Create(service.PageInput{Title: pageTitle(slug), Slug: slug})
			if err == nil {
				stats.pages++
			}
		}
		if err != nil {
			return stats, fmt.Errorf("page %s: %w", slug, err)
		}

		existing, err := sections.ListByPage(page.ID)
		if err != nil {
			return stats, err
		}
		have := make(map[string]struct{}, len(existing))
		for _, s := range existing {
			have[s.Name] = struct{}{}
		}

		for i, d := range content.DefaultSections(slug) {
			if _, ok := have[d.Name]; ok {
				continue
			}
			state := content.NewEditorState(d.Content)
			if _, err := sections.Create(service.SectionInput{
				PageID:    page.ID,
				Name:      d.Name,
				Content:   state.Record,
				SortOrder: i + 1,
			}); err != nil {
				return stats, fmt.Errorf("section %s/%s: %w", slug, d.Name, err)
			}
			stats.sections++
		}
	}

	n, err := seedPortfolio(gdb)
	stats.portfolio = n
	if err != nil {
		return stats, err
	}
	n, err = seedPosts(gdb)
	stats.posts = n
	return stats, err
}

func seedPortfolio(gdb *gorm.DB) (int, error) {
	var count int64
	if err := gdb.Model(&db.PortfolioItem{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		fmt.Println("作品已存在，跳过创建")
		return 0, nil
	}

	portfolio := service.NewPortfolioService(gdb)
	items := []service.PortfolioInput{
		{Title: "Northern Lights Campaign", Category: service.CategoryCommercial, Client: "Aurora Outdoor", VideoURL: "https://vimeo.com/76979871", IsFeatured: true},
		{Title: "Midnight Drive", Category: service.CategoryMusicVideo, Client: "The Static Hours", VideoURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{Title: "Tidewater", Category: service.CategoryDocumentary, Description: "A year with the last oyster farmers of the bay."},
		{Title: "Founders Live", Category: service.CategoryEvent, Client: "Startup Week"},
	}
	for _, in := range items {
		if _, err := portfolio.Create(in); err != nil {
			return 0, fmt.Errorf("portfolio %s: %w", in.Title, err)
		}
	}
	return len(items), nil
}

func seedPosts(gdb *gorm.DB) (int, error) {
	var count int64
	if err := gdb.Model(&db.BlogPost{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		fmt.Println("文章已存在，跳过创建")
		return 0, nil
	}

	blog := service.NewBlogService(gdb)
	posts := []struct {
		input   service.BlogInput
		publish bool
	}{
		{service.BlogInput{
			Title:   "How We Plan a Two-Day Shoot",
			Excerpt: "Call sheets, shot lists and the one spreadsheet we cannot live without.",
			Content: "## Pre-production\n\nEvery shoot starts with a shot list.\n\nhttps://vimeo.com/76979871\n",
			Tags:    []string{"production", "behind-the-scenes"},
		}, true},
		{service.BlogInput{
			Title:   "Choosing a Podcast Microphone",
			Excerpt: "Dynamic or condenser? It depends on the room.",
			Content: "Most rooms are louder than you think.",
			Tags:    []string{"podcast", "gear"},
		}, true},
		{service.BlogInput{
			Title:   "Color Grading Notes (draft)",
			Content: "Work in progress.",
			Tags:    []string{"post-production"},
		}, false},
	}
	for _, p := range posts {
		post, err := blog.Create(p.input)
		if err != nil {
			return 0, fmt.Errorf("post %s: %w", p.input.Title, err)
		}
		if p.publish {
			if _, err := blog.SetPublished(post.ID, true); err != nil {
				return 0, err
			}
		}
	}
	return len(posts), nil
}

func pageTitle(slug string) string {
	if slug == "" {
		return slug
	}
	return strings.ToUpper(slug[:1]) + slug[1:]
}
