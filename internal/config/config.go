package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr     string
	Port           string
	GinMode        string
	DatabaseDriver string
	DatabasePath   string
	DatabaseURL    string
	SessionSecret  string

	StorageBackend       string
	UploadDir            string
	UploadURLPath        string
	SiteBaseURL          string
	DriveCredentialsFile string
	DriveFolderID        string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ContentCacheTTL time.Duration

	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	NotifyEmail string

	FormRelayURL        string
	CORSAllowedOrigins  []string
	OrphanAuditSchedule string

	SuperRootUserName string
	SuperRootPassword string
}

// DSN 返回当前驱动对应的连接串。
func (c AppConfig) DSN() string {
	if c.DatabaseDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DatabasePath
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
// 若当前目录存在 .env 文件，会先加载它（已存在的环境变量优先）。
func Load() AppConfig {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] failed to load .env: %v", err)
	}

	port := envString("PORT", "8080")

	listenAddr := envString("LISTEN_ADDR", "")
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	driver := strings.ToLower(envString("DATABASE_DRIVER", "sqlite"))
	if driver != "postgres" {
		driver = "sqlite"
	}

	// 显式设置为空表示关闭巡检
	orphanSchedule := "@daily"
	if value, ok := os.LookupEnv("ORPHAN_AUDIT_SCHEDULE"); ok {
		orphanSchedule = strings.TrimSpace(value)
	}

	return AppConfig{
		ListenAddr:     listenAddr,
		Port:           port,
		GinMode:        envString("GIN_MODE", "release"),
		DatabaseDriver: driver,
		DatabasePath:   envString("DATABASE_PATH", "reelhouse.db"),
		DatabaseURL:    envString("DATABASE_URL", ""),
		SessionSecret:  envString("SESSION_SECRET", "reelhouse-dev-secret"),

		StorageBackend:       strings.ToLower(envString("STORAGE_BACKEND", "local")),
		UploadDir:            envString("UPLOAD_DIR", "web/static/uploads"),
		UploadURLPath:        envString("UPLOAD_URL_PATH", "/static/uploads"),
		SiteBaseURL:          strings.TrimRight(envString("SITE_BASE_URL", ""), "/"),
		DriveCredentialsFile: envString("DRIVE_CREDENTIALS_FILE", ""),
		DriveFolderID:        envString("DRIVE_FOLDER_ID", ""),

		RedisAddr:       envString("REDIS_ADDR", ""),
		RedisPassword:   envString("REDIS_PASSWORD", ""),
		RedisDB:         envInt("REDIS_DB", 0),
		ContentCacheTTL: envDuration("CONTENT_CACHE_TTL", 30*time.Second),

		SMTPHost:    envString("SMTP_HOST", ""),
		SMTPPort:    envInt("SMTP_PORT", 587),
		SMTPUser:    envString("SMTP_USER", ""),
		SMTPPass:    envString("SMTP_PASS", ""),
		NotifyEmail: envString("NOTIFY_EMAIL", ""),

		FormRelayURL:        envString("FORM_RELAY_URL", ""),
		CORSAllowedOrigins:  envList("CORS_ALLOWED_ORIGINS"),
		OrphanAuditSchedule: orphanSchedule,

		SuperRootUserName: envString("SUPER_ROOT_USER_NAME", ""),
		SuperRootPassword: envString("SUPER_ROOT_PASSWORD", ""),
	}
}

func envString(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("[config] %s=%q is not a number, using %d", key, raw, fallback)
		return fallback
	}
	return value
}

// envDuration 接受 Go duration（30s、1m）或纯秒数。
func envDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(raw); err == nil {
		return time.Duration(seconds) * time.Second
	}
	log.Printf("[config] %s=%q is not a duration, using %s", key, raw, fallback)
	return fallback
}

func envList(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
