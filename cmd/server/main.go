package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/reelhouse/internal/config"
	"github.com/reelhouse/internal/db"
	"github.com/reelhouse/internal/handler"
	"github.com/reelhouse/internal/router"
	"github.com/reelhouse/internal/service"
	"github.com/reelhouse/internal/storage"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	gdb, err := db.Init(cfg.DatabaseDriver, cfg.DSN())
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	if err := db.EnsureUser(gdb, cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		log.Fatalf("failed to ensure admin user: %v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}

	opts := handler.Options{
		Store: store,
		Notifier: service.NewSMTPNotifier(service.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPUser,
			To:   cfg.NotifyEmail,
		}),
		FormRelayURL: cfg.FormRelayURL,
	}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[cache] redis %s unreachable, continuing without cache: %v", cfg.RedisAddr, err)
		} else {
			opts.SectionCache = service.NewRedisSectionCache(client, cfg.ContentCacheTTL)
		}
		cancel()
	}

	api := handler.NewAPI(gdb, opts)

	scheduler, err := api.OrphanAudit().Schedule(cfg.OrphanAuditSchedule)
	if err != nil {
		log.Fatalf("invalid ORPHAN_AUDIT_SCHEDULE %q: %v", cfg.OrphanAuditSchedule, err)
	}
	if scheduler != nil {
		defer scheduler.Stop()
	}

	routerOpts := router.Options{
		SessionSecret:  cfg.SessionSecret,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		SecureCookies:  cfg.GinMode == gin.ReleaseMode,
	}
	if _, ok := store.(*storage.LocalStore); ok {
		routerOpts.UploadDir = cfg.UploadDir
		routerOpts.UploadURLPath = cfg.UploadURLPath
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(api, routerOpts)
	log.Printf("[server] listening on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}

func openStore(cfg config.AppConfig) (storage.Store, error) {
	switch cfg.StorageBackend {
	case "drive":
		return storage.NewDriveStore(context.Background(), cfg.DriveCredentialsFile, cfg.DriveFolderID)
	case "memory":
		return storage.NewMemoryStore(cfg.SiteBaseURL + "/media"), nil
	default:
		return storage.NewLocalStore(cfg.UploadDir, cfg.UploadURLPath, cfg.SiteBaseURL), nil
	}
}
