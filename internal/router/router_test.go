package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reelhouse/internal/db"
	"github.com/reelhouse/internal/handler"
	"github.com/reelhouse/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouterTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:router-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(db.Models()...))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// newRouter 使用内存存储搭建完整路由，opts 中未设置的密钥补默认值
func newRouter(t *testing.T, opts Options) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if opts.SessionSecret == "" {
		opts.SessionSecret = "router-test-secret"
	}
	api := handler.NewAPI(setupRouterTestDB(t), handler.Options{Store: storage.NewMemoryStore("")})
	return SetupRouter(api, opts)
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestLocalUploadsAreServedStatically(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "portfolio"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "portfolio", "still.jpg"), []byte("jpeg-bytes"), 0o644))

	r := newRouter(t, Options{UploadDir: dir, UploadURLPath: "/media"})

	rr := serve(r, httptest.NewRequest(http.MethodGet, "/media/portfolio/still.jpg", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "jpeg-bytes", rr.Body.String())

	rr = serve(r, httptest.NewRequest(http.MethodGet, "/media/portfolio/missing.jpg", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHealthzReportsDatabase(t *testing.T) {
	r := newRouter(t, Options{})

	rr := serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		OK     bool              `json:"ok"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, "up", body.Checks["database"])
}

func TestCORSOnlyForConfiguredOrigins(t *testing.T) {
	r := newRouter(t, Options{AllowedOrigins: []string{"https://site.example"}})

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		return serve(r, req)
	}

	assert.Equal(t, "https://site.example", preflight("https://site.example").Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, preflight("https://elsewhere.example").Header().Get("Access-Control-Allow-Origin"))
}

func TestAdminAPIRequiresSession(t *testing.T) {
	r := newRouter(t, Options{})

	for _, path := range []string{"/admin/api/pages", "/admin/api/recycle-bin", "/admin/api/applications", "/admin/api/me"} {
		rr := serve(r, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}
