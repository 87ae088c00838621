package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/reelhouse/internal/db"
	"github.com/reelhouse/internal/storage"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := gdb.AutoMigrate(db.Models()...); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func setupTestAPI(t *testing.T) (*API, *storage.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storage.NewMemoryStore("https://cdn.test")
	api := NewAPI(setupHandlerTestDB(t), Options{Store: store})
	return api, store
}

// newTestRouter wires the handlers under test the way the server does,
// without static files or CORS.
func newTestRouter(api *API) *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions("reelhouse_session", cookie.NewStore([]byte("test-secret"))))

	r.GET("/api/pages/:slug/view", api.ShowPageView)
	r.GET("/api/pages/:slug/sections/:name", api.ResolveSection)
	r.POST("/api/contact", api.SubmitContact)
	r.POST("/api/applications", api.SubmitApplication)
	r.POST("/admin/login", api.Login)

	admin := r.Group("/admin")
	admin.Use(api.AuthRequired())
	admin.GET("/dashboard", func(c *gin.Context) { c.String(http.StatusOK, "dashboard") })

	adminAPI := admin.Group("/api")
	adminAPI.GET("/me", api.CurrentUser)
	adminAPI.POST("/pages", api.CreatePage)
	adminAPI.DELETE("/pages/:id", api.DeletePage)
	adminAPI.PUT("/sections/:id", api.UpdateSection)
	adminAPI.POST("/sections/:id/media", api.UploadSectionMedia)
	adminAPI.GET("/sections/:id/images", api.ListSectionImages)
	adminAPI.POST("/images", api.UploadImageAsset)
	adminAPI.POST("/uploads", api.UploadFile)
	adminAPI.DELETE("/portfolio/:id", api.DeletePortfolioItem)
	adminAPI.POST("/blog/:id/publish", api.SetBlogPublished)
	adminAPI.GET("/recycle-bin", api.ListRecycleBin)
	adminAPI.POST("/recycle-bin/:type/:id/restore", api.RestoreRecycleItem)
	adminAPI.DELETE("/recycle-bin/:type/:id", api.PurgeRecycleItem)
	return r
}

func createTestUser(t *testing.T, gdb *gorm.DB, username, password, role string) *db.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := db.User{Username: username, Password: string(hashed), Role: role}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return &user
}

// loginCookies signs in through the login handler and returns the session cookies.
func loginCookies(t *testing.T, r *gin.Engine, username, password string) []*http.Cookie {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected login to succeed, got %d: %s", w.Code, w.Body.String())
	}
	return w.Result().Cookies()
}

func adminCookies(t *testing.T, api *API, r *gin.Engine) []*http.Cookie {
	t.Helper()
	createTestUser(t, api.DB(), "admin", "secret-pass", db.RoleAdmin)
	return loginCookies(t, r, "admin", "secret-pass")
}

func doRequest(r *gin.Engine, method, path string, body []byte, contentType string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, payload interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to encode payload: %v", err)
	}
	return doRequest(r, method, path, body, "application/json", cookies)
}

type testFile struct {
	field       string
	name        string
	contentType string
	data        []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...testFile) ([]byte, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.name))
		header.Set("Content-Type", f.contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("failed to create part: %v", err)
		}
		if _, err := part.Write(f.data); err != nil {
			t.Fatalf("failed to write part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return buf.Bytes(), writer.FormDataContentType()
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func uintString(v uint) string {
	return fmt.Sprintf("%d", v)
}
