package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/reelhouse/internal/db"
	"github.com/reelhouse/internal/handler"
	"github.com/reelhouse/internal/storage"
)

type e2eClient struct {
	t       *testing.T
	r       *gin.Engine
	cookies []*http.Cookie
}

func newE2EClient(t *testing.T) (*e2eClient, *handler.API, *storage.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := setupRouterTestDB(t)
	if err := db.EnsureUser(gdb, "admin", "secret-pass"); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}

	store := storage.NewMemoryStore("https://cdn.test")
	api := handler.NewAPI(gdb, handler.Options{Store: store})
	client := &e2eClient{t: t, r: SetupRouter(api, Options{SessionSecret: "test-secret"})}

	rr := client.do(http.MethodPost, "/admin/login", mustJSON(t, map[string]string{"username": "admin", "password": "secret-pass"}), "application/json")
	if rr.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rr.Code, rr.Body.String())
	}
	client.cookies = rr.Result().Cookies()
	return client, api, store
}

func (c *e2eClient) do(method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	c.r.ServeHTTP(rr, req)
	return rr
}

func (c *e2eClient) json(method, path string, payload interface{}) map[string]interface{} {
	c.t.Helper()

	var body []byte
	if payload != nil {
		body = mustJSON(c.t, payload)
	}
	rr := c.do(method, path, body, "application/json")
	if rr.Code >= 300 {
		c.t.Fatalf("%s %s: unexpected status %d: %s", method, path, rr.Code, rr.Body.String())
	}
	var out map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		c.t.Fatalf("%s %s: invalid JSON: %v", method, path, err)
	}
	return out
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	return data
}

func idOf(t *testing.T, obj interface{}) string {
	t.Helper()
	m, ok := obj.(map[string]interface{})
	if !ok {
		t.Fatalf("expected object, got %v", obj)
	}
	return fmt.Sprintf("%.0f", m["id"].(float64))
}

func TestE2EHomeCTAMergesAuthoredHeadingWithDefaults(t *testing.T) {
	client, _, _ := newE2EClient(t)

	page := client.json(http.MethodPost, "/admin/api/pages", map[string]string{"title": "Home", "slug": "home"})["page"]
	pageID := page.(map[string]interface{})["id"]
	client.json(http.MethodPost, "/admin/api/sections", map[string]interface{}{
		"pageId":  pageID,
		"name":    "cta",
		"content": map[string]interface{}{"heading": "Custom Heading"},
	})

	resolved := client.json(http.MethodGet, "/api/pages/home/sections/cta", nil)
	rendered := resolved["rendered"].(map[string]interface{})
	if rendered["heading"] != "Custom Heading" {
		t.Fatalf("expected authored heading, got %v", rendered["heading"])
	}
	if rendered["buttonText"] != "Book a Project" {
		t.Fatalf("expected default button text, got %v", rendered["buttonText"])
	}
}

func TestE2EFreshInstallRendersDefaults(t *testing.T) {
	client, _, _ := newE2EClient(t)

	view := client.json(http.MethodGet, "/api/pages/home/view", nil)
	sections := view["sections"].([]interface{})
	if len(sections) == 0 {
		t.Fatal("expected default sections for an empty database")
	}
	first := sections[0].(map[string]interface{})
	if first["name"] != "hero" {
		t.Fatalf("expected hero first, got %v", first["name"])
	}
}

func TestE2EOversizedUploadIsRejectedBeforeStorage(t *testing.T) {
	client, _, store := newE2EClient(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.WriteField("profile", "image")
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="big.png"`)
	header.Set("Content-Type", "image/png")
	part, _ := writer.CreatePart(header)
	part.Write(bytes.Repeat([]byte{1}, 6*1024*1024))
	writer.Close()

	rr := client.do(http.MethodPost, "/admin/api/uploads", buf.Bytes(), writer.FormDataContentType())
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d", rr.Code)
	}
	if store.Puts() != 0 {
		t.Fatalf("expected zero storage writes, got %d", store.Puts())
	}
}

func TestE2EDeletedPageRoundTripsThroughRecycleBin(t *testing.T) {
	client, _, _ := newE2EClient(t)

	page := client.json(http.MethodPost, "/admin/api/pages", map[string]string{"title": "Careers", "slug": "careers"})["page"]
	id := idOf(t, page)
	client.json(http.MethodDelete, "/admin/api/pages/"+id, nil)

	if pages := client.json(http.MethodGet, "/api/pages", nil)["pages"].([]interface{}); len(pages) != 0 {
		t.Fatalf("expected deleted page to leave the public list, got %v", pages)
	}

	items := client.json(http.MethodGet, "/admin/api/recycle-bin", nil)["items"].([]interface{})
	if len(items) != 1 || items[0].(map[string]interface{})["type"] != "page" {
		t.Fatalf("expected the page in the recycle bin, got %v", items)
	}

	client.json(http.MethodPost, "/admin/api/recycle-bin/page/"+id+"/restore", nil)

	if items := client.json(http.MethodGet, "/admin/api/recycle-bin", nil)["items"].([]interface{}); len(items) != 0 {
		t.Fatalf("expected empty recycle bin after restore, got %v", items)
	}
	pages := client.json(http.MethodGet, "/api/pages", nil)["pages"].([]interface{})
	if len(pages) != 1 || pages[0].(map[string]interface{})["slug"] != "careers" {
		t.Fatalf("expected restored page in the public list, got %v", pages)
	}
}

func TestE2ERecycleBinCoversAllTypes(t *testing.T) {
	client, _, _ := newE2EClient(t)

	page := client.json(http.MethodPost, "/admin/api/pages", map[string]string{"title": "Work", "slug": "work"})["page"]
	pageID := page.(map[string]interface{})["id"]
	section := client.json(http.MethodPost, "/admin/api/sections", map[string]interface{}{"pageId": pageID, "name": "hero"})["section"]
	item := client.json(http.MethodPost, "/admin/api/portfolio", map[string]interface{}{"title": "Spot", "category": "commercial"})["item"]
	post := client.json(http.MethodPost, "/admin/api/blog", map[string]interface{}{"title": "Behind the scenes"})["post"]

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="still.png"`)
	header.Set("Content-Type", "image/png")
	part, _ := writer.CreatePart(header)
	part.Write([]byte("not-really-a-png"))
	writer.Close()
	rr := client.do(http.MethodPost, "/admin/api/images", buf.Bytes(), writer.FormDataContentType())
	if rr.Code != http.StatusCreated {
		t.Fatalf("image upload failed: %d %s", rr.Code, rr.Body.String())
	}
	var imageResp map[string]interface{}
	json.Unmarshal(rr.Body.Bytes(), &imageResp)

	targets := []struct {
		kind   string
		id     string
		delete string
	}{
		{"section", idOf(t, section), "/admin/api/sections/"},
		{"portfolio_item", idOf(t, item), "/admin/api/portfolio/"},
		{"blog_post", idOf(t, post), "/admin/api/blog/"},
		{"image_asset", idOf(t, imageResp["image"]), "/admin/api/images/"},
		{"page", idOf(t, page), "/admin/api/pages/"},
	}
	for _, target := range targets {
		client.json(http.MethodDelete, target.delete+target.id, nil)
	}

	items := client.json(http.MethodGet, "/admin/api/recycle-bin", nil)["items"].([]interface{})
	if len(items) != len(targets) {
		t.Fatalf("expected %d deleted items, got %d", len(targets), len(items))
	}

	for _, target := range targets {
		client.json(http.MethodPost, "/admin/api/recycle-bin/"+target.kind+"/"+target.id+"/restore", nil)
	}
	if items := client.json(http.MethodGet, "/admin/api/recycle-bin", nil)["items"].([]interface{}); len(items) != 0 {
		t.Fatalf("expected empty recycle bin, got %v", items)
	}

	for _, target := range targets {
		client.json(http.MethodDelete, target.delete+target.id, nil)
		client.json(http.MethodDelete, "/admin/api/recycle-bin/"+target.kind+"/"+target.id, nil)
	}
	if items := client.json(http.MethodGet, "/admin/api/recycle-bin", nil)["items"].([]interface{}); len(items) != 0 {
		t.Fatalf("expected purged items to be gone, got %v", items)
	}
}

func TestE2EBlogPublishKeepsTimestamp(t *testing.T) {
	client, _, _ := newE2EClient(t)

	post := client.json(http.MethodPost, "/admin/api/blog", map[string]interface{}{"title": "Launch", "content": "Hello"})["post"]
	id := idOf(t, post)

	published := client.json(http.MethodPost, "/admin/api/blog/"+id+"/publish", map[string]bool{"published": true})["post"].(map[string]interface{})
	stamp := published["publishedAt"]
	if stamp == nil {
		t.Fatal("expected publishedAt after publishing")
	}

	if got := client.json(http.MethodGet, "/api/blog/launch", nil)["post"].(map[string]interface{}); got["html"] == nil {
		t.Fatalf("expected rendered html, got %v", got)
	}

	unpublished := client.json(http.MethodPost, "/admin/api/blog/"+id+"/publish", map[string]bool{"published": false})["post"].(map[string]interface{})
	if unpublished["publishedAt"] != stamp {
		t.Fatalf("expected publishedAt to stay %v, got %v", stamp, unpublished["publishedAt"])
	}
	if rr := client.do(http.MethodGet, "/api/blog/launch", nil, ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected unpublished post to be hidden, got %d", rr.Code)
	}
}
